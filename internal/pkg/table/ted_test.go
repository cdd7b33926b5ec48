// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package table

import (
	"bytes"
	"net/netip"
	"testing"

	"github.com/nttcom/pcepio/pkg/packet/pcep"
	"github.com/osrg/gobgp/v3/pkg/packet/bgp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testAsn = 65000

func nodeDescriptors(id byte) []pcep.TLVInterface {
	return []pcep.TLVInterface{
		pcep.NewLSUint32SubTLV(pcep.LSSubTLVAutonomousSystem, testAsn),
		pcep.NewLSOpaqueSubTLV(pcep.LSSubTLVIGPRouterID, []byte{0, 0, 0, 0, 0, id}),
	}
}

func lsNodeObject(id byte, name string, loopback string) *pcep.LSObject {
	return pcep.NewLSObject(pcep.ObjectTypeLSNode, bgp.LS_PROTOCOL_ISIS_L2, uint64(id), false, false,
		pcep.NewLocalNodeDescriptors(nodeDescriptors(id)...),
		pcep.NewNodeAttributes(
			pcep.NewLSOpaqueSubTLV(pcep.LSSubTLVNodeName, []byte(name)),
			pcep.NewLSOpaqueSubTLV(pcep.LSSubTLVISISAreaID, []byte{0x49, 0x00, 0x01}),
			pcep.NewLSAddressSubTLV(pcep.LSSubTLVIPv4RouterIDLocal, netip.MustParseAddr(loopback)),
		),
	)
}

func lsLinkObject(local, remote byte, localIP, remoteIP string, igp uint32) *pcep.LSObject {
	return pcep.NewLSObject(pcep.ObjectTypeLSLink, bgp.LS_PROTOCOL_ISIS_L2, uint64(local)<<8|uint64(remote), false, false,
		pcep.NewLocalNodeDescriptors(nodeDescriptors(local)...),
		pcep.NewRemoteNodeDescriptors(nodeDescriptors(remote)...),
		pcep.NewLinkDescriptors(
			pcep.NewLSAddressSubTLV(pcep.LSSubTLVIPv4InterfaceAddress, netip.MustParseAddr(localIP)),
			pcep.NewLSAddressSubTLV(pcep.LSSubTLVIPv4NeighborAddress, netip.MustParseAddr(remoteIP)),
		),
		pcep.NewLinkAttributes(
			pcep.NewLSOpaqueSubTLV(pcep.LSSubTLVIGPMetric, []byte{0, 0, byte(igp)}),
			pcep.NewLSUint32SubTLV(pcep.LSSubTLVTEDefaultMetric, igp*2),
			pcep.NewLSUint32SubTLV(pcep.LSSubTLVMaxLinkBandwidth, 0x4cbebc20),
		),
	)
}

// triangle: r1 -10- r2 -10- r3, and r1 -30- r3.
func triangleReport() *pcep.LSReportMessage {
	return pcep.NewLSReportMessage(
		lsNodeObject(1, "r1", "10.255.0.1"),
		lsNodeObject(2, "r2", "10.255.0.2"),
		lsNodeObject(3, "r3", "10.255.0.3"),
		lsLinkObject(1, 2, "10.0.12.1", "10.0.12.2", 10),
		lsLinkObject(2, 1, "10.0.12.2", "10.0.12.1", 10),
		lsLinkObject(2, 3, "10.0.23.2", "10.0.23.3", 10),
		lsLinkObject(3, 2, "10.0.23.3", "10.0.23.2", 10),
		lsLinkObject(1, 3, "10.0.13.1", "10.0.13.3", 30),
		lsLinkObject(3, 1, "10.0.13.3", "10.0.13.1", 30),
	)
}

func newTriangleTed(t *testing.T) *LsTed {
	elems, err := GetTedElems(triangleReport())
	require.NoError(t, err)
	ted := NewLsTed(1)
	ted.Update(elems)
	return ted
}

func TestConvertToTedElem(t *testing.T) {
	tests := []struct {
		name     string
		object   *pcep.LSObject
		expected TedElem
		err      bool
	}{
		{
			name:   "Node",
			object: lsNodeObject(1, "r1", "10.255.0.1"),
			expected: &LsNode{
				Asn:        testAsn,
				RouterID:   "0000.0000.0001",
				Protocol:   bgp.LS_PROTOCOL_ISIS_L2,
				IsisAreaID: "49.0001",
				Hostname:   "r1",
				RouterAddr: netip.MustParseAddr("10.255.0.1"),
			},
		},
		{
			name:   "Link",
			object: lsLinkObject(1, 2, "10.0.12.1", "10.0.12.2", 10),
			expected: &LsLink{
				LocalNode:    &LsNode{Asn: testAsn, RouterID: "0000.0000.0001", Protocol: bgp.LS_PROTOCOL_ISIS_L2},
				RemoteNode:   &LsNode{Asn: testAsn, RouterID: "0000.0000.0002", Protocol: bgp.LS_PROTOCOL_ISIS_L2},
				LocalIP:      netip.MustParseAddr("10.0.12.1"),
				RemoteIP:     netip.MustParseAddr("10.0.12.2"),
				Metrics:      []*Metric{NewMetric(IGP_METRIC, 10), NewMetric(TE_METRIC, 20)},
				MaxBandwidth: 1e8,
			},
		},
		{
			name: "Withdrawn unnumbered link",
			object: pcep.NewLSObject(pcep.ObjectTypeLSLink, bgp.LS_PROTOCOL_OSPF_V2, 9, true, false,
				pcep.NewLocalNodeDescriptors(pcep.NewLSOpaqueSubTLV(pcep.LSSubTLVIGPRouterID, []byte{10, 0, 0, 1})),
				pcep.NewRemoteNodeDescriptors(pcep.NewLSOpaqueSubTLV(pcep.LSSubTLVIGPRouterID, []byte{10, 0, 0, 2})),
				pcep.NewLinkDescriptors(pcep.NewLinkLocalRemoteIdentifiers(3, 4)),
			),
			expected: &LsLink{
				LocalNode:  &LsNode{RouterID: "10.0.0.1", Protocol: bgp.LS_PROTOCOL_OSPF_V2},
				RemoteNode: &LsNode{RouterID: "10.0.0.2", Protocol: bgp.LS_PROTOCOL_OSPF_V2},
				LocalID:    3,
				RemoteID:   4,
				Remove:     true,
			},
		},
		{
			name:   "Node without local descriptors",
			object: pcep.NewLSObject(pcep.ObjectTypeLSNode, bgp.LS_PROTOCOL_DIRECT, 1, false, false),
			err:    true,
		},
		{
			name: "Link without remote descriptors",
			object: pcep.NewLSObject(pcep.ObjectTypeLSLink, bgp.LS_PROTOCOL_DIRECT, 1, false, false,
				pcep.NewLocalNodeDescriptors(nodeDescriptors(1)...),
			),
			err: true,
		},
		{
			name: "Link without address or identifier",
			object: pcep.NewLSObject(pcep.ObjectTypeLSLink, bgp.LS_PROTOCOL_DIRECT, 1, false, false,
				pcep.NewLocalNodeDescriptors(nodeDescriptors(1)...),
				pcep.NewRemoteNodeDescriptors(nodeDescriptors(2)...),
			),
			err: true,
		},
		{
			name:   "Unknown object type",
			object: pcep.NewLSObject(pcep.ObjectType(5), bgp.LS_PROTOCOL_DIRECT, 1, false, false),
			err:    true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			elem, err := ConvertToTedElem(tt.object)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, elem)
		})
	}
}

func TestLsTed_Update(t *testing.T) {
	ted := newTriangleTed(t)
	assert.Equal(t, 3, ted.NodeCount())

	r1, ok := ted.Node(testAsn, "0000.0000.0001")
	require.True(t, ok)
	r2, ok := ted.Node(testAsn, "0000.0000.0002")
	require.True(t, ok)

	assert.Equal(t, "r1", r1.Hostname)
	require.Len(t, r1.Links, 2)
	assert.Same(t, r2, r1.Links[0].RemoteNode)
	assert.Same(t, r1, r1.Links[0].LocalNode)

	metric, err := r1.Links[1].Metric(IGP_METRIC)
	require.NoError(t, err)
	assert.Equal(t, uint32(30), metric)

	// A re-announced link replaces the previous one.
	elems, err := GetTedElems(pcep.NewLSReportMessage(lsLinkObject(1, 2, "10.0.12.1", "10.0.12.2", 5)))
	require.NoError(t, err)
	ted.Update(elems)
	require.Len(t, r1.Links, 2)
	metric, err = r1.Links[0].Metric(TE_METRIC)
	require.NoError(t, err)
	assert.Equal(t, uint32(10), metric)
}

func TestLsTed_LinkBeforeNode(t *testing.T) {
	elems, err := GetTedElems(pcep.NewLSReportMessage(
		lsLinkObject(1, 2, "10.0.12.1", "10.0.12.2", 10),
		lsNodeObject(2, "r2", "10.255.0.2"),
	))
	require.NoError(t, err)

	ted := NewLsTed(1)
	ted.Update(elems)

	r1, _ := ted.Node(testAsn, "0000.0000.0001")
	r2, ok := ted.Node(testAsn, "0000.0000.0002")
	require.True(t, ok)
	assert.Equal(t, "r2", r2.Hostname)
	assert.Same(t, r2, r1.Links[0].RemoteNode)

	_, err = r1.LoopbackAddr()
	assert.Error(t, err)
	addr, err := r2.LoopbackAddr()
	require.NoError(t, err)
	assert.Equal(t, netip.MustParseAddr("10.255.0.2"), addr)
}

func TestLsTed_Withdraw(t *testing.T) {
	ted := newTriangleTed(t)

	withdrawNode := lsNodeObject(2, "r2", "10.255.0.2")
	withdrawNode.Flags |= 0x02
	withdrawLink := lsLinkObject(1, 3, "10.0.13.1", "10.0.13.3", 30)
	withdrawLink.Flags |= 0x02

	elems, err := GetTedElems(pcep.NewLSReportMessage(withdrawNode, withdrawLink))
	require.NoError(t, err)
	ted.Update(elems)

	assert.Equal(t, 2, ted.NodeCount())
	_, ok := ted.Node(testAsn, "0000.0000.0002")
	assert.False(t, ok)

	r1, _ := ted.Node(testAsn, "0000.0000.0001")
	r3, _ := ted.Node(testAsn, "0000.0000.0003")
	assert.Empty(t, r1.Links)
	require.Len(t, r3.Links, 1)
	assert.Same(t, r1, r3.Links[0].RemoteNode)
}

func TestLsTed_NodeByAddr(t *testing.T) {
	ted := newTriangleTed(t)

	tests := []struct {
		name     string
		addr     string
		expected string
		ok       bool
	}{
		{name: "Router address", addr: "10.255.0.3", expected: "r3", ok: true},
		{name: "Interface address", addr: "10.0.23.2", expected: "r2", ok: true},
		{name: "Unknown", addr: "192.0.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node, ok := ted.NodeByAddr(netip.MustParseAddr(tt.addr))
			assert.Equal(t, tt.ok, ok)
			if ok {
				assert.Equal(t, tt.expected, node.Hostname)
			}
		})
	}
}

func TestLsTed_Print(t *testing.T) {
	var buf bytes.Buffer
	newTriangleTed(t).Print(&buf)

	out := buf.String()
	assert.Contains(t, out, "Node: 3\n")
	assert.Contains(t, out, "  0000.0000.0001 (AS 65000)\n")
	assert.Contains(t, out, "  ISIS Area ID: 49.0001\n")
	assert.Contains(t, out, "    Local: 10.0.13.1 Remote: 10.0.13.3\n")
	assert.Contains(t, out, "        IGP: 30\n")
}

func TestLsLink_Metric(t *testing.T) {
	link := &LsLink{Metrics: []*Metric{NewMetric(IGP_METRIC, 7)}}

	v, err := link.Metric(HOPCOUNT_METRIC)
	require.NoError(t, err)
	assert.Equal(t, uint32(1), v)

	_, err = link.Metric(DELAY_METRIC)
	assert.EqualError(t, err, "metric DELAY not defined")
}

func TestParseMetricType(t *testing.T) {
	tests := []struct {
		input    string
		expected MetricType
		err      bool
	}{
		{input: "igp", expected: IGP_METRIC},
		{input: "te", expected: TE_METRIC},
		{input: "hopcount", expected: HOPCOUNT_METRIC},
		{input: "latency", err: true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			m, err := ParseMetricType(tt.input)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, m)
		})
	}
}

func TestFormatIgpRouterID(t *testing.T) {
	tests := []struct {
		name     string
		id       []byte
		expected string
	}{
		{name: "OSPF", id: []byte{192, 0, 2, 1}, expected: "192.0.2.1"},
		{name: "IS-IS system ID", id: []byte{0x19, 0x21, 0x68, 0x00, 0x10, 0x01}, expected: "1921.6800.1001"},
		{name: "IS-IS pseudonode", id: []byte{0x19, 0x21, 0x68, 0x00, 0x10, 0x01, 0x02}, expected: "1921.6800.1001-02"},
		{name: "OSPF pseudonode", id: []byte{10, 0, 0, 1, 10, 0, 0, 9}, expected: "10.0.0.1:10.0.0.9"},
		{name: "Other", id: []byte{0xab, 0xcd}, expected: "abcd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, formatIgpRouterID(tt.id))
		})
	}
}
