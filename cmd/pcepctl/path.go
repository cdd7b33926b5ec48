// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package main

import (
	"encoding/hex"
	"errors"
	"fmt"
	"io"

	"github.com/nttcom/pcepio/internal/pkg/cspf"
	"github.com/nttcom/pcepio/internal/pkg/table"
	"github.com/nttcom/pcepio/pkg/packet/pcep"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type pathOptions struct {
	src, dst    string
	asn         uint32
	metric      string
	name        string
	srpID       uint32
	constraints cspf.Constraints
}

func newPathCmd() *cobra.Command {
	var o pathOptions

	pathCmd := &cobra.Command{
		Use:   "path [file...]",
		Short: "Compute a path over the TED and print it as a PCInitiate message",
		RunE: func(cmd *cobra.Command, args []string) error {
			if o.src == "" || o.dst == "" {
				return errors.New("\"--src\" and \"--dst\" are mandatory")
			}
			if !cmd.Flags().Changed("metric") {
				o.metric = cfg.Global.Ted.Metric
			}
			ted, err := loadTed(cmd, args)
			if err != nil {
				return err
			}
			return computePath(cmd.OutOrStdout(), ted, o)
		},
	}

	pathCmd.Flags().StringVar(&o.src, "src", "", "[mandatory] router ID of the head end")
	pathCmd.Flags().StringVar(&o.dst, "dst", "", "[mandatory] router ID of the tail end")
	pathCmd.Flags().Uint32Var(&o.asn, "asn", 0, "AS of both ends, may be omitted when the TED holds a single AS")
	pathCmd.Flags().StringVarP(&o.metric, "metric", "m", "igp", "metric to minimize: igp / te / hopcount")
	pathCmd.Flags().StringVar(&o.name, "name", "pcepctl", "symbolic path name of the initiated LSP")
	pathCmd.Flags().Uint32Var(&o.srpID, "srp-id", 1, "SRP-ID of the PCInitiate message")
	pathCmd.Flags().Float32Var(&o.constraints.MinBandwidth, "min-bandwidth", 0, "minimum link bandwidth in bytes per second")
	pathCmd.Flags().Uint32Var(&o.constraints.ExcludeAny, "exclude-any", 0, "administrative groups to avoid")
	addTedSourceFlags(pathCmd)

	return pathCmd
}

type pathResult struct {
	Src        string   `json:"src"`
	Dst        string   `json:"dst"`
	Metric     string   `json:"metric"`
	Cost       uint32   `json:"cost"`
	Hops       []string `json:"hops"`
	PCInitiate string   `json:"pcinitiate"`
}

func computePath(w io.Writer, ted *table.LsTed, o pathOptions) error {
	asn, err := resolveAsn(ted, o.asn)
	if err != nil {
		return err
	}
	metric, err := table.ParseMetricType(o.metric)
	if err != nil {
		return err
	}

	path, err := cspf.Cspf(o.src, o.dst, asn, metric, o.constraints, ted)
	if err != nil {
		return err
	}
	msg, err := initiateMessage(ted, asn, path, o)
	if err != nil {
		return err
	}
	wire, err := msg.Serialize()
	if err != nil {
		return err
	}
	zap.L().Info("computed path", zap.String("src", o.src), zap.String("dst", o.dst),
		zap.Uint32("cost", path.Cost), zap.Object("message", msg))

	r := pathResult{
		Src:        o.src,
		Dst:        o.dst,
		Metric:     metric.String(),
		Cost:       path.Cost,
		Hops:       []string{},
		PCInitiate: hex.EncodeToString(wire),
	}
	for _, hop := range path.Hops() {
		r.Hops = append(r.Hops, hop.String())
	}

	if jsonFmt {
		return printJSON(w, r)
	}
	fmt.Fprintf(w, "Path: %s -> %s (%s cost %d)\n", r.Src, r.Dst, r.Metric, r.Cost)
	for i, hop := range path.Links {
		fmt.Fprintf(w, "  %d: %s via %s\n", i+1, hop.RemoteNode.RouterID, r.Hops[i])
	}
	fmt.Fprintf(w, "PCInitiate: %s\n", r.PCInitiate)
	return nil
}

func resolveAsn(ted *table.LsTed, asn uint32) (uint32, error) {
	if asn != 0 {
		return asn, nil
	}
	if len(ted.Nodes) != 1 {
		return 0, fmt.Errorf("TED holds %d ASes, \"--asn\" is required", len(ted.Nodes))
	}
	for as := range ted.Nodes {
		asn = as
	}
	return asn, nil
}

func initiateMessage(ted *table.LsTed, asn uint32, path *cspf.Path, o pathOptions) (*pcep.PCInitiateMessage, error) {
	srcNode, _ := ted.Node(asn, o.src)
	dstNode, _ := ted.Node(asn, o.dst)
	srcAddr, err := srcNode.LoopbackAddr()
	if err != nil {
		return nil, fmt.Errorf("source %s: %w", o.src, err)
	}
	dstAddr, err := dstNode.LoopbackAddr()
	if err != nil {
		return nil, fmt.Errorf("destination %s: %w", o.dst, err)
	}

	endpoints, err := pcep.NewEndpointsObject(srcAddr, dstAddr)
	if err != nil {
		return nil, err
	}
	ero, err := path.ERO()
	if err != nil {
		return nil, err
	}
	return pcep.NewPCInitiateMessage(o.srpID, o.name, endpoints, ero, pcep.PathSetupTypeRSVPTE, path.MetricObject()), nil
}
