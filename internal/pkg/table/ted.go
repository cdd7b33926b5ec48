// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package table

import (
	"errors"
	"fmt"
	"io"
	"net/netip"
	"sort"

	"github.com/osrg/gobgp/v3/pkg/packet/bgp"
)

type LsTed struct {
	ID    int
	Nodes map[uint32]map[string]*LsNode // { ASN1: {"NodeID1": node1, "NodeID2": node2}, ASN2: {"NodeID3": node3}}
}

func NewLsTed(id int) *LsTed {
	return &LsTed{
		ID:    id,
		Nodes: make(map[uint32]map[string]*LsNode),
	}
}

func (ted *LsTed) Update(tedElems []TedElem) {
	for _, tedElem := range tedElems {
		tedElem.UpdateTed(ted)
	}
}

// Node looks a node up by its primary key.
func (ted *LsTed) Node(asn uint32, routerID string) (*LsNode, bool) {
	node, ok := ted.Nodes[asn][routerID]
	return node, ok
}

// NodeByAddr finds the node owning addr, either as its router address or as
// the local address of one of its links.
func (ted *LsTed) NodeByAddr(addr netip.Addr) (*LsNode, bool) {
	for _, nodes := range ted.Nodes {
		for _, node := range nodes {
			if node.RouterAddr == addr {
				return node, true
			}
			for _, link := range node.Links {
				if link.LocalIP == addr {
					return node, true
				}
			}
		}
	}
	return nil, false
}

// NodeCount returns the number of nodes across every AS.
func (ted *LsTed) NodeCount() int {
	cnt := 0
	for _, nodes := range ted.Nodes {
		cnt += len(nodes)
	}
	return cnt
}

// SortedNodes returns the nodes ordered by ASN, then router ID.
func (ted *LsTed) SortedNodes() []*LsNode {
	var list []*LsNode
	for _, nodes := range ted.Nodes {
		for _, node := range nodes {
			list = append(list, node)
		}
	}
	sort.Slice(list, func(i, j int) bool {
		if list[i].Asn != list[j].Asn {
			return list[i].Asn < list[j].Asn
		}
		return list[i].RouterID < list[j].RouterID
	})
	return list
}

func (ted *LsTed) Print(w io.Writer) {
	for i, node := range ted.SortedNodes() {
		fmt.Fprintf(w, "Node: %d\n", i+1)
		fmt.Fprintf(w, "  %s (AS %d)\n", node.RouterID, node.Asn)
		fmt.Fprintf(w, "  Protocol: %s\n", node.Protocol.String())
		fmt.Fprintf(w, "  Hostname: %s\n", node.Hostname)
		fmt.Fprintf(w, "  ISIS Area ID: %s\n", node.IsisAreaID)
		if node.RouterAddr.IsValid() {
			fmt.Fprintf(w, "  Router Address: %s\n", node.RouterAddr)
		}

		fmt.Fprintf(w, "  Links:\n")
		for _, link := range node.Links {
			fmt.Fprintf(w, "    Local: %s Remote: %s\n", link.LocalIP.String(), link.RemoteIP.String())
			fmt.Fprintf(w, "      RemoteNode: %s\n", link.RemoteNode.RouterID)
			fmt.Fprintf(w, "      Metrics:\n")
			for _, metric := range link.Metrics {
				fmt.Fprintf(w, "        %s: %d\n", metric.Type.String(), metric.Value)
			}
			if link.MaxBandwidth != 0 {
				fmt.Fprintf(w, "      Max Bandwidth: %.0f\n", link.MaxBandwidth)
			}
		}
		fmt.Fprintf(w, "\n")
	}
}

type TedElem interface {
	UpdateTed(ted *LsTed)
}

func (ted *LsTed) lookupOrCreate(asn uint32, routerID string) *LsNode {
	if _, ok := ted.Nodes[asn]; !ok {
		ted.Nodes[asn] = make(map[string]*LsNode)
	}
	node, ok := ted.Nodes[asn][routerID]
	if !ok {
		node = NewLsNode(asn, routerID)
		ted.Nodes[asn][routerID] = node
	}
	return node
}

type LsNode struct {
	Asn        uint32 // primary key, in Local Node Descriptors
	RouterID   string // primary key, in Local Node Descriptors
	Protocol   bgp.LsProtocolID
	IsisAreaID string     // in Node Attributes
	Hostname   string     // in Node Attributes
	RouterAddr netip.Addr // in Node Attributes
	Links      []*LsLink
	Remove     bool // withdraw instead of update
}

func NewLsNode(asn uint32, nodeID string) *LsNode {
	return &LsNode{
		Asn:      asn,
		RouterID: nodeID,
	}
}

func (n *LsNode) LoopbackAddr() (netip.Addr, error) {
	if n.RouterAddr.IsValid() {
		return n.RouterAddr, nil
	}

	return netip.Addr{}, errors.New("node doesn't have a router address")
}

func (n *LsNode) UpdateTed(ted *LsTed) {
	if n.Remove {
		n.withdraw(ted)
		return
	}

	nodes, asn := ted.Nodes, n.Asn
	if _, ok := nodes[asn]; !ok {
		nodes[asn] = make(map[string]*LsNode)
	}

	if node, ok := nodes[asn][n.RouterID]; ok {
		node.Protocol = n.Protocol
		node.Hostname = n.Hostname
		node.IsisAreaID = n.IsisAreaID
		node.RouterAddr = n.RouterAddr
	} else {
		nodes[asn][n.RouterID] = n
	}
}

// withdraw deletes the node together with every link pointing at it.
func (n *LsNode) withdraw(ted *LsTed) {
	nodes, ok := ted.Nodes[n.Asn]
	if !ok {
		return
	}
	target, ok := nodes[n.RouterID]
	if !ok {
		return
	}
	delete(nodes, n.RouterID)
	if len(nodes) == 0 {
		delete(ted.Nodes, n.Asn)
	}

	for _, asNodes := range ted.Nodes {
		for _, node := range asNodes {
			links := node.Links[:0]
			for _, link := range node.Links {
				if link.RemoteNode != target {
					links = append(links, link)
				}
			}
			node.Links = links
		}
	}
}

func (n *LsNode) AddLink(link *LsLink) {
	for i, l := range n.Links {
		if l.sameAs(link) {
			n.Links[i] = link
			return
		}
	}
	n.Links = append(n.Links, link)
}

type LsLink struct {
	LocalNode    *LsNode    // primary key, in Local Node Descriptors
	RemoteNode   *LsNode    // primary key, in Remote Node Descriptors
	LocalIP      netip.Addr // in Link Descriptors
	RemoteIP     netip.Addr // in Link Descriptors
	LocalID      uint32     // in Link Descriptors, unnumbered links
	RemoteID     uint32     // in Link Descriptors, unnumbered links
	Metrics      []*Metric  // in Link Attributes
	MaxBandwidth float32    // in Link Attributes, bytes per second
	AdminGroup   uint32     // in Link Attributes
	Remove       bool       // withdraw instead of update
}

func NewLsLink(localNode *LsNode, remoteNode *LsNode) *LsLink {
	return &LsLink{
		LocalNode:  localNode,
		RemoteNode: remoteNode,
	}
}

func (l *LsLink) sameAs(other *LsLink) bool {
	return l.RemoteNode.Asn == other.RemoteNode.Asn &&
		l.RemoteNode.RouterID == other.RemoteNode.RouterID &&
		l.LocalIP == other.LocalIP &&
		l.RemoteIP == other.RemoteIP &&
		l.LocalID == other.LocalID &&
		l.RemoteID == other.RemoteID
}

func (l *LsLink) Metric(metricType MetricType) (uint32, error) {
	if metricType == HOPCOUNT_METRIC {
		return 1, nil
	}
	for _, metric := range l.Metrics {
		if metric.Type == metricType {
			return metric.Value, nil
		}
	}

	return 0, fmt.Errorf("metric %s not defined", metricType)
}

func (l *LsLink) UpdateTed(ted *LsTed) {
	if l.Remove {
		node, ok := ted.Node(l.LocalNode.Asn, l.LocalNode.RouterID)
		if !ok {
			return
		}
		for i, link := range node.Links {
			if link.sameAs(l) {
				node.Links = append(node.Links[:i], node.Links[i+1:]...)
				return
			}
		}
		return
	}

	l.LocalNode = ted.lookupOrCreate(l.LocalNode.Asn, l.LocalNode.RouterID)
	l.RemoteNode = ted.lookupOrCreate(l.RemoteNode.Asn, l.RemoteNode.RouterID)

	l.LocalNode.AddLink(l)
}

type Metric struct {
	Type  MetricType
	Value uint32
}

func NewMetric(metricType MetricType, value uint32) *Metric {
	return &Metric{
		Type:  metricType,
		Value: value,
	}
}

type MetricType int

const (
	IGP_METRIC MetricType = iota
	TE_METRIC
	DELAY_METRIC
	HOPCOUNT_METRIC
)

func (m MetricType) String() string {
	switch m {
	case IGP_METRIC:
		return "IGP"
	case TE_METRIC:
		return "TE"
	case DELAY_METRIC:
		return "DELAY"
	case HOPCOUNT_METRIC:
		return "HOPCOUNT"
	default:
		return "Unknown"
	}
}

// ParseMetricType accepts the metric names used in configuration files.
func ParseMetricType(s string) (MetricType, error) {
	switch s {
	case "igp":
		return IGP_METRIC, nil
	case "te":
		return TE_METRIC, nil
	case "delay":
		return DELAY_METRIC, nil
	case "hopcount":
		return HOPCOUNT_METRIC, nil
	}
	return 0, fmt.Errorf("unknown metric type %q", s)
}
