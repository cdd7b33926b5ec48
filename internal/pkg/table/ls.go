// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package table

import (
	"encoding/hex"
	"errors"
	"fmt"
	"net/netip"
	"strings"

	"github.com/nttcom/pcepio/pkg/packet/pcep"
)

// GetTedElems converts every LS object of an LS Report into TED elements.
func GetTedElems(message *pcep.LSReportMessage) ([]TedElem, error) {
	var tedElems []TedElem
	for _, lsObject := range message.LSObjects {
		tedElem, err := ConvertToTedElem(lsObject)
		if err != nil {
			return nil, fmt.Errorf("failed to convert LS object (LS-ID %d) to TED element: %w", lsObject.LSID, err)
		}
		tedElems = append(tedElems, tedElem)
	}
	return tedElems, nil
}

func ConvertToTedElem(lsObject *pcep.LSObject) (TedElem, error) {
	switch lsObject.Type() {
	case pcep.ObjectTypeLSNode:
		lsNode, err := getLsNode(lsObject)
		if err != nil {
			return nil, fmt.Errorf("failed to process LS node: %w", err)
		}
		return lsNode, nil
	case pcep.ObjectTypeLSLink:
		lsLink, err := getLsLink(lsObject)
		if err != nil {
			return nil, fmt.Errorf("failed to process LS link: %w", err)
		}
		return lsLink, nil
	default:
		return nil, fmt.Errorf("invalid LS object type %d", lsObject.Type())
	}
}

func getLsNode(lsObject *pcep.LSObject) (*LsNode, error) {
	localDescriptors, ok := lsObject.Container(pcep.TLVLocalNodeDescriptors)
	if !ok {
		return nil, errors.New("missing local node descriptors")
	}
	lsNode := nodeFromDescriptors(localDescriptors)
	lsNode.Protocol = lsObject.ProtocolID
	lsNode.Remove = lsObject.RFlag()

	if attrs, ok := lsObject.Container(pcep.TLVNodeAttributes); ok {
		for _, sub := range attrs.SubTLVs {
			switch sub := sub.(type) {
			case *pcep.LSOpaqueSubTLV:
				switch sub.Typ {
				case pcep.LSSubTLVNodeName:
					lsNode.Hostname = string(sub.Value)
				case pcep.LSSubTLVISISAreaID:
					lsNode.IsisAreaID = formatIsisArea(sub.Value)
				}
			case *pcep.LSAddressSubTLV:
				if sub.Typ == pcep.LSSubTLVIPv4RouterIDLocal || sub.Typ == pcep.LSSubTLVIPv6RouterIDLocal {
					lsNode.RouterAddr = sub.Address
				}
			}
		}
	}

	return lsNode, nil
}

func getLsLink(lsObject *pcep.LSObject) (*LsLink, error) {
	localDescriptors, ok := lsObject.Container(pcep.TLVLocalNodeDescriptors)
	if !ok {
		return nil, errors.New("missing local node descriptors")
	}
	remoteDescriptors, ok := lsObject.Container(pcep.TLVRemoteNodeDescriptors)
	if !ok {
		return nil, errors.New("missing remote node descriptors")
	}

	localNode := nodeFromDescriptors(localDescriptors)
	localNode.Protocol = lsObject.ProtocolID
	remoteNode := nodeFromDescriptors(remoteDescriptors)
	remoteNode.Protocol = lsObject.ProtocolID

	lsLink := NewLsLink(localNode, remoteNode)
	lsLink.Remove = lsObject.RFlag()

	if descriptors, ok := lsObject.Container(pcep.TLVLinkDescriptors); ok {
		for _, sub := range descriptors.SubTLVs {
			switch sub := sub.(type) {
			case *pcep.LinkLocalRemoteIdentifiers:
				lsLink.LocalID = sub.LocalIdentifier
				lsLink.RemoteID = sub.RemoteIdentifier
			case *pcep.LSAddressSubTLV:
				switch sub.Typ {
				case pcep.LSSubTLVIPv4InterfaceAddress, pcep.LSSubTLVIPv6InterfaceAddress:
					lsLink.LocalIP = sub.Address
				case pcep.LSSubTLVIPv4NeighborAddress, pcep.LSSubTLVIPv6NeighborAddress:
					lsLink.RemoteIP = sub.Address
				}
			}
		}
	}
	if !lsLink.LocalIP.IsValid() && lsLink.LocalID == 0 {
		return nil, errors.New("link has neither an interface address nor a link identifier")
	}

	if attrs, ok := lsObject.Container(pcep.TLVLinkAttributes); ok {
		for _, sub := range attrs.SubTLVs {
			switch sub := sub.(type) {
			case *pcep.LSOpaqueSubTLV:
				if sub.Typ == pcep.LSSubTLVIGPMetric {
					lsLink.Metrics = append(lsLink.Metrics, NewMetric(IGP_METRIC, uint32(sub.Uint())))
				}
			case *pcep.LSUint32SubTLV:
				switch sub.Typ {
				case pcep.LSSubTLVTEDefaultMetric:
					lsLink.Metrics = append(lsLink.Metrics, NewMetric(TE_METRIC, sub.Value))
				case pcep.LSSubTLVMaxLinkBandwidth:
					lsLink.MaxBandwidth = sub.Bandwidth()
				case pcep.LSSubTLVAdministrativeGroup:
					lsLink.AdminGroup = sub.Value
				}
			}
		}
	}

	return lsLink, nil
}

// nodeFromDescriptors keys a node by AS number and IGP router ID. Without an
// IGP router ID the BGP-LS identifier stands in for it.
func nodeFromDescriptors(descriptors *pcep.LSContainerTLV) *LsNode {
	var asn uint32
	var routerID string
	for _, sub := range descriptors.SubTLVs {
		switch sub := sub.(type) {
		case *pcep.LSUint32SubTLV:
			switch sub.Typ {
			case pcep.LSSubTLVAutonomousSystem:
				asn = sub.Value
			case pcep.LSSubTLVBGPLSIdentifier:
				if routerID == "" {
					routerID = fmt.Sprintf("bgpls-%d", sub.Value)
				}
			}
		case *pcep.LSOpaqueSubTLV:
			if sub.Typ == pcep.LSSubTLVIGPRouterID {
				routerID = formatIgpRouterID(sub.Value)
			}
		}
	}
	return NewLsNode(asn, routerID)
}

// formatIgpRouterID renders an OSPF router ID as an IPv4 address and an
// IS-IS system ID (with optional pseudonode) in dotted hex.
func formatIgpRouterID(id []byte) string {
	switch len(id) {
	case 4:
		return netip.AddrFrom4([4]byte(id)).String()
	case 6, 7:
		s := hex.EncodeToString(id[:6])
		s = s[0:4] + "." + s[4:8] + "." + s[8:12]
		if len(id) == 7 {
			s += fmt.Sprintf("-%02x", id[6])
		}
		return s
	case 8:
		return netip.AddrFrom4([4]byte(id[:4])).String() + ":" + netip.AddrFrom4([4]byte(id[4:])).String()
	}
	return hex.EncodeToString(id)
}

func formatIsisArea(area []byte) string {
	tmpIsisArea := hex.EncodeToString(area)
	var b strings.Builder
	for i, s := range strings.Split(tmpIsisArea, "") {
		if i != 0 && (len(tmpIsisArea)-i)%4 == 0 {
			b.WriteString(".")
		}
		b.WriteString(s)
	}
	return b.String()
}
