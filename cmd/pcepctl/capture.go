// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package main

import (
	"fmt"
	"io"
	"net/netip"
	"sort"
	"time"

	"github.com/nttcom/pcepio/internal/capture"
	"github.com/nttcom/pcepio/internal/pkg/table"
	"github.com/nttcom/pcepio/pkg/packet/pcep"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newCaptureCmd() *cobra.Command {

	captureCmd := &cobra.Command{
		Use:   "capture <file>",
		Short: "Summarize the PCEP sessions in a pcap or pcapng file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			quiet, err := cmd.Flags().GetBool("quiet")
			if err != nil {
				return err
			}
			s, err := analyzeCapture(args[0], quiet)
			if err != nil {
				return err
			}
			return s.print(cmd.OutOrStdout(), quiet)
		},
	}

	captureCmd.Flags().BoolP("quiet", "q", false, "print the summary only")
	return captureCmd
}

type captureLine struct {
	Time   time.Time `json:"time"`
	Src    string    `json:"src"`
	Dst    string    `json:"dst"`
	Type   string    `json:"type,omitempty"`
	Length int       `json:"length"`
	Error  string    `json:"error,omitempty"`
}

type captureSummary struct {
	lines []captureLine
	stats capture.Stats
	lsps  map[netip.Addr]*table.LspTable
	ted   *table.LsTed
}

func analyzeCapture(path string, quiet bool) (*captureSummary, error) {
	r, err := capture.NewReader(cfg.Global.Capture, zap.L())
	if err != nil {
		return nil, err
	}

	s := &captureSummary{
		lsps: make(map[netip.Addr]*table.LspTable),
		ted:  table.NewLsTed(1),
	}
	err = r.ReadFile(path, func(rec capture.Record) error {
		line := captureLine{
			Time:   rec.Timestamp.UTC(),
			Src:    rec.Src.String(),
			Dst:    rec.Dst.String(),
			Length: len(rec.Raw),
		}
		if rec.Err != nil {
			line.Error = rec.Err.Error()
		} else {
			line.Type = rec.Message.MessageType().String()
			s.apply(rec)
		}
		if !quiet {
			s.lines = append(s.lines, line)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	s.stats = r.Stats()
	return s, nil
}

// apply keeps one LSP table per PCC and a single TED for the whole capture.
func (s *captureSummary) apply(rec capture.Record) {
	var pcc netip.Addr
	switch rec.Message.(type) {
	case *pcep.PCRptMessage:
		pcc = rec.Src.Addr()
	case *pcep.PCUpdMessage, *pcep.PCInitiateMessage:
		pcc = rec.Dst.Addr()
	case *pcep.LSReportMessage:
		if err := updateTed(s.ted, rec.Message); err != nil {
			zap.L().Warn("failed to update TED", zap.Stringer("src", rec.Src), zap.Error(err))
		}
		return
	default:
		return
	}

	lspTable, ok := s.lsps[pcc]
	if !ok {
		lspTable = table.NewLspTable()
		s.lsps[pcc] = lspTable
	}
	if err := lspTable.HandleMessage(rec.Message); err != nil {
		zap.L().Warn("failed to update LSP table", zap.Stringer("pcc", pcc), zap.Error(err))
	}
}

func (s *captureSummary) pccs() []netip.Addr {
	pccs := make([]netip.Addr, 0, len(s.lsps))
	for pcc := range s.lsps {
		pccs = append(pccs, pcc)
	}
	sort.Slice(pccs, func(i, j int) bool { return pccs[i].Less(pccs[j]) })
	return pccs
}

func (s *captureSummary) messageTypes() []pcep.MessageType {
	types := make([]pcep.MessageType, 0, len(s.stats.ByType))
	for t := range s.stats.ByType {
		types = append(types, t)
	}
	sort.Slice(types, func(i, j int) bool { return types[i] < types[j] })
	return types
}

func lspFields(p table.Lsp) map[string]any {
	segments := []string{}
	for _, seg := range p.SegmentList {
		segments = append(segments, seg.SidString())
	}
	fields := map[string]any{
		"plspId":      p.PlspID,
		"name":        p.Name,
		"lspId":       p.LspID,
		"state":       p.State.String(),
		"delegated":   p.Delegated,
		"pst":         p.Pst.String(),
		"segmentList": segments,
	}
	if p.SrcAddr.IsValid() {
		fields["srcAddr"] = p.SrcAddr.String()
		fields["dstAddr"] = p.DstAddr.String()
	}
	return fields
}

func (s *captureSummary) print(w io.Writer, quiet bool) error {
	if jsonFmt {
		byType := map[string]int{}
		for t, n := range s.stats.ByType {
			byType[t.String()] = n
		}
		lsps := map[string]any{}
		for _, pcc := range s.pccs() {
			list := []map[string]any{}
			for _, p := range s.lsps[pcc].List() {
				list = append(list, lspFields(p))
			}
			lsps[pcc.String()] = map[string]any{
				"synced": s.lsps[pcc].Synced(),
				"lsps":   list,
			}
		}
		out := map[string]any{
			"stats": map[string]any{
				"packets":      s.stats.Packets,
				"messages":     s.stats.Messages,
				"distinct":     s.stats.Distinct(),
				"decodeErrors": s.stats.DecodeErrors,
				"gaps":         s.stats.Gaps,
				"evicted":      s.stats.Evicted,
				"byType":       byType,
			},
			"lsps":     lsps,
			"tedNodes": s.ted.NodeCount(),
		}
		if !quiet {
			out["messages"] = s.lines
		}
		return printJSON(w, out)
	}

	for _, l := range s.lines {
		desc := l.Type
		if l.Error != "" {
			desc = "error: " + l.Error
		}
		fmt.Fprintf(w, "%s %s > %s %s, %d bytes\n", l.Time.Format(time.RFC3339Nano), l.Src, l.Dst, desc, l.Length)
	}

	fmt.Fprintf(w, "Packets: %d\n", s.stats.Packets)
	fmt.Fprintf(w, "Messages: %d (%d distinct)\n", s.stats.Messages, s.stats.Distinct())
	fmt.Fprintf(w, "Decode errors: %d\n", s.stats.DecodeErrors)
	fmt.Fprintf(w, "Stream gaps: %d\n", s.stats.Gaps)
	fmt.Fprintf(w, "Evicted flows: %d\n", s.stats.Evicted)
	for _, t := range s.messageTypes() {
		fmt.Fprintf(w, "  %s: %d\n", t, s.stats.ByType[t])
	}

	for _, pcc := range s.pccs() {
		lspTable := s.lsps[pcc]
		fmt.Fprintf(w, "PCC %s (synchronized: %t)\n", pcc, lspTable.Synced())
		for _, p := range lspTable.List() {
			fmt.Fprintf(w, "  PLSP-ID %d %q %s", p.PlspID, p.Name, p.State)
			if p.Delegated {
				fmt.Fprintf(w, " delegated")
			}
			fmt.Fprintf(w, "\n")
		}
		for _, req := range lspTable.PendingRequests() {
			fmt.Fprintf(w, "  pending SRP-ID %d %q\n", req.SrpID, req.Name)
		}
	}
	if n := s.ted.NodeCount(); n > 0 {
		fmt.Fprintf(w, "TED nodes: %d\n", n)
	}
	return nil
}
