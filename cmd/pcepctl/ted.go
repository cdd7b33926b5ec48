// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package main

import (
	"fmt"
	"io"

	"github.com/nttcom/pcepio/internal/capture"
	"github.com/nttcom/pcepio/internal/pkg/table"
	"github.com/nttcom/pcepio/pkg/packet/pcep"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newTedCmd() *cobra.Command {

	tedCmd := &cobra.Command{
		Use:   "ted [file...]",
		Short: "Build a TED from LS Report messages",
		RunE: func(cmd *cobra.Command, args []string) error {
			ted, err := loadTed(cmd, args)
			if err != nil {
				return err
			}
			return showTed(cmd.OutOrStdout(), ted, jsonFmt)
		},
	}

	addTedSourceFlags(tedCmd)
	return tedCmd
}

func addTedSourceFlags(cmd *cobra.Command) {
	cmd.Flags().String("pcap", "", "read LS Report messages from a pcap or pcapng file instead of hex input")
}

// loadTed feeds every LS Report found in the inputs to a new TED. Other
// message types are skipped.
func loadTed(cmd *cobra.Command, args []string) (*table.LsTed, error) {
	pcapFile, err := cmd.Flags().GetString("pcap")
	if err != nil {
		return nil, err
	}

	ted := table.NewLsTed(1)
	if pcapFile != "" {
		r, err := capture.NewReader(cfg.Global.Capture, zap.L())
		if err != nil {
			return nil, err
		}
		err = r.ReadFile(pcapFile, func(rec capture.Record) error {
			return updateTed(ted, rec.Message)
		})
		return ted, err
	}

	inputs, err := readInputs(cmd, args, cfg.Global.Decode.IgnoreSpaces)
	if err != nil {
		return nil, err
	}
	for _, in := range inputs {
		messages, err := in.split()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", in.Name, err)
		}
		for _, m := range messages {
			msg, err := pcep.DecodeMessage(m.Data)
			if err != nil {
				return nil, fmt.Errorf("%s: %w", m.Name, err)
			}
			if err := updateTed(ted, msg); err != nil {
				return nil, fmt.Errorf("%s: %w", m.Name, err)
			}
		}
	}
	return ted, nil
}

func updateTed(ted *table.LsTed, msg pcep.Message) error {
	report, ok := msg.(*pcep.LSReportMessage)
	if !ok {
		return nil
	}
	elems, err := table.GetTedElems(report)
	if err != nil {
		return err
	}
	ted.Update(elems)
	zap.L().Debug("update TED", zap.Int("elements", len(elems)), zap.Int("nodes", ted.NodeCount()))
	return nil
}

func showTed(w io.Writer, ted *table.LsTed, jsonFlag bool) error {
	if !jsonFlag {
		//output user-friendly format
		ted.Print(w)
		return nil
	}

	nodes := []map[string]any{}
	for _, node := range ted.SortedNodes() {
		tmpNode := map[string]any{
			"asn":        node.Asn,
			"routerId":   node.RouterID,
			"protocol":   node.Protocol.String(),
			"isisAreaId": node.IsisAreaID,
			"hostname":   node.Hostname,
		}
		if node.RouterAddr.IsValid() {
			tmpNode["routerAddr"] = node.RouterAddr.String()
		}
		links := []map[string]any{}
		for _, link := range node.Links {
			tmpLink := map[string]any{
				"remoteNode": link.RemoteNode.RouterID,
			}
			if link.LocalIP.IsValid() {
				tmpLink["localIP"] = link.LocalIP.String()
				tmpLink["remoteIP"] = link.RemoteIP.String()
			} else {
				tmpLink["localId"] = link.LocalID
				tmpLink["remoteId"] = link.RemoteID
			}
			if link.MaxBandwidth != 0 {
				tmpLink["maxBandwidth"] = link.MaxBandwidth
			}
			if link.AdminGroup != 0 {
				tmpLink["adminGroup"] = link.AdminGroup
			}
			metrics := []map[string]any{}
			for _, metric := range link.Metrics {
				metrics = append(metrics, map[string]any{
					"type":  metric.Type.String(),
					"value": metric.Value,
				})
			}
			tmpLink["metrics"] = metrics
			links = append(links, tmpLink)
		}
		tmpNode["links"] = links
		nodes = append(nodes, tmpNode)
	}
	return printJSON(w, map[string]any{"ted": nodes})
}
