// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package cspf

import (
	"errors"
	"fmt"
	"net/netip"

	"github.com/nttcom/pcepio/internal/pkg/table"
	"github.com/nttcom/pcepio/pkg/packet/pcep"
)

// Constraints prune links before the shortest path is computed.
type Constraints struct {
	MinBandwidth float32 // bytes per second, zero disables
	ExcludeAny   uint32  // administrative group bits a link must not carry
}

func (c Constraints) allows(link *table.LsLink) bool {
	if c.MinBandwidth > 0 && link.MaxBandwidth < c.MinBandwidth {
		return false
	}
	return link.AdminGroup&c.ExcludeAny == 0
}

// Path is the result of a computation: the traversed links in order and the
// accumulated cost.
type Path struct {
	Links  []*table.LsLink
	Cost   uint32
	Metric table.MetricType
}

// Hops returns the neighbor address of every traversed link.
func (p *Path) Hops() []netip.Addr {
	hops := make([]netip.Addr, 0, len(p.Links))
	for _, link := range p.Links {
		hops = append(hops, link.RemoteIP)
	}
	return hops
}

// ERO builds a strict explicit route through the path. Unnumbered links are
// expressed by router ID and interface ID.
func (p *Path) ERO() (*pcep.EROObject, error) {
	ero := pcep.NewEROObject()
	for _, link := range p.Links {
		switch {
		case link.RemoteIP.Is4():
			ero.Subobjects = append(ero.Subobjects, pcep.NewIPv4PrefixSubobject(link.RemoteIP, 32, false))
		case link.RemoteIP.Is6():
			ero.Subobjects = append(ero.Subobjects, pcep.NewIPv6PrefixSubobject(link.RemoteIP, 128, false))
		default:
			routerID, err := link.RemoteNode.LoopbackAddr()
			if err != nil || !routerID.Is4() {
				return nil, fmt.Errorf("link to %s has no usable hop address", link.RemoteNode.RouterID)
			}
			ero.Subobjects = append(ero.Subobjects, pcep.NewUnnumberedSubobject(routerID, link.RemoteID, false))
		}
	}
	return ero, nil
}

// MetricObject reports the path cost as a computed METRIC object.
func (p *Path) MetricObject() *pcep.MetricObject {
	var metricType pcep.MetricType
	switch p.Metric {
	case table.TE_METRIC:
		metricType = pcep.MetricTypeTE
	case table.HOPCOUNT_METRIC:
		metricType = pcep.MetricTypeHopCount
	default:
		metricType = pcep.MetricTypeIGP
	}
	return pcep.NewMetricObject(metricType, p.Cost, false, true)
}

type node struct {
	id         string
	calculated bool
	cost       uint32
	prevNode   string
	prevLink   *table.LsLink
}

func newNode(id string, cost uint32) *node {
	return &node{
		id:   id,
		cost: cost,
	}
}

func Cspf(srcRouterID string, dstRouterID string, as uint32, metric table.MetricType, constraints Constraints, ted *table.LsTed) (*Path, error) {
	network, ok := ted.Nodes[as]
	if !ok {
		return nil, fmt.Errorf("AS %d not found in TED", as)
	}
	if _, ok := network[srcRouterID]; !ok {
		return nil, fmt.Errorf("source node %s not found in TED", srcRouterID)
	}
	if _, ok := network[dstRouterID]; !ok {
		return nil, fmt.Errorf("destination node %s not found in TED", dstRouterID)
	}
	return spf(srcRouterID, dstRouterID, metric, constraints, network)
}

func spf(srcRouterID string, dstRouterID string, metric table.MetricType, constraints Constraints, network map[string]*table.LsNode) (*Path, error) {
	calculatingNodes := map[string]*node{}
	calculatingNodes[srcRouterID] = newNode(srcRouterID, 0)

	for {
		// Selection of nodes for calculation
		calcNodeID, err := nextNode(calculatingNodes)
		if err != nil {
			return nil, fmt.Errorf("no path from %s to %s: %w", srcRouterID, dstRouterID, err)
		}

		if calcNodeID == dstRouterID {
			// End of calculation of shortest path
			break
		}

		calcNode, ok := network[calcNodeID]
		if !ok {
			continue
		}
		for _, link := range calcNode.Links {
			if !constraints.allows(link) {
				continue
			}
			linkMetric, err := link.Metric(metric)
			if err != nil {
				return nil, err
			}

			cost := calculatingNodes[calcNodeID].cost + linkMetric
			remoteID := link.RemoteNode.RouterID
			if remote, exist := calculatingNodes[remoteID]; exist {
				if !remote.calculated && cost < remote.cost {
					remote.cost = cost
					remote.prevNode = calcNodeID
					remote.prevLink = link
				}
			} else {
				remote := newNode(remoteID, cost)
				remote.prevNode = calcNodeID
				remote.prevLink = link
				calculatingNodes[remoteID] = remote
			}
		}
	}

	// Generate the link list from calculation results
	path := &Path{Cost: calculatingNodes[dstRouterID].cost, Metric: metric}
	for pathNode := calculatingNodes[dstRouterID]; pathNode.id != srcRouterID; pathNode = calculatingNodes[pathNode.prevNode] {
		path.Links = append([]*table.LsLink{pathNode.prevLink}, path.Links...)
	}
	return path, nil
}

// nextNode marks and returns the cheapest node not yet calculated. Ties go
// to the lowest router ID so results are stable.
func nextNode(calculatingNodes map[string]*node) (nextNodeID string, err error) {
	for nodeID, node := range calculatingNodes {
		if node.calculated {
			continue
		}
		if nextNodeID == "" {
			nextNodeID = nodeID
			continue
		}
		next := calculatingNodes[nextNodeID]
		if node.cost < next.cost || (node.cost == next.cost && nodeID < nextNodeID) {
			nextNodeID = nodeID
		}
	}
	if nextNodeID == "" {
		return nextNodeID, errors.New("next node not found")
	}
	// Set the node with the smallest arrival cost as calculated
	calculatingNodes[nextNodeID].calculated = true
	return
}
