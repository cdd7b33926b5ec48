// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package table

import (
	"net/netip"
	"testing"

	"github.com/nttcom/pcepio/pkg/packet/pcep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	testSrc = netip.MustParseAddr("10.255.0.1")
	testDst = netip.MustParseAddr("10.255.0.3")
)

func reportedLsp(name string, plspID uint32, lspID uint16, sync bool) *pcep.LSPObject {
	lsp := pcep.NewLSPObject(name, plspID)
	lsp.SFlag = sync
	lsp.TLVs = append(lsp.TLVs, pcep.NewIPv4LSPIdentifiers(testSrc, testDst, lspID, 1, 0))
	return lsp
}

func report(reports ...pcep.StateReport) *pcep.PCRptMessage {
	return &pcep.PCRptMessage{StateReports: reports}
}

func TestSegmentList(t *testing.T) {
	sidOnly := &pcep.SREROSubobject{SID: 24001}
	naiOnly := &pcep.SREROSubobject{SFlag: true, NAIType: pcep.NAITypeIPv4Node, NAI: []byte{10, 255, 0, 2}}

	segs := SegmentList([]pcep.Subobject{
		pcep.NewSREROSubobject(16002, netip.MustParseAddr("10.255.0.2")),
		sidOnly,
		naiOnly,
		pcep.NewSRv6Subobject(netip.MustParseAddr("fd00::1")),
		pcep.NewIPv4PrefixSubobject(netip.MustParseAddr("10.0.12.2"), 32, false),
		pcep.NewUnnumberedSubobject(netip.MustParseAddr("10.255.0.9"), 4, true),
		pcep.NewLabelSubobject(100, false),
	})

	assert.Equal(t, []Segment{
		NewSegmentSRMPLS(16002),
		NewSegmentSRMPLS(24001),
		SegmentHop{Addr: netip.MustParseAddr("10.255.0.2")},
		NewSegmentSRv6(netip.MustParseAddr("fd00::1")),
		SegmentHop{Addr: netip.MustParseAddr("10.0.12.2")},
		SegmentHop{Addr: netip.MustParseAddr("10.255.0.9")},
	}, segs)
}

func TestNewSegment(t *testing.T) {
	tests := []struct {
		sid      string
		expected Segment
		err      bool
	}{
		{sid: "16003", expected: NewSegmentSRMPLS(16003)},
		{sid: "fd00:0:3::", expected: NewSegmentSRv6(netip.MustParseAddr("fd00:0:3::"))},
		{sid: "10.0.0.1", err: true},
		{sid: "label", err: true},
	}

	for _, tt := range tests {
		t.Run(tt.sid, func(t *testing.T) {
			seg, err := NewSegment(tt.sid)
			if tt.err {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, seg)
			assert.Equal(t, tt.sid, seg.SidString())
		})
	}
}

func TestLspTable_Synchronization(t *testing.T) {
	table := NewLspTable()

	require.NoError(t, table.HandleMessage(report(
		pcep.StateReport{
			LSPObject: reportedLsp("to-r3", 1, 2, true),
			EROObject: pcep.NewEROObject(pcep.NewSREROSubobject(16003, testDst)),
		},
		pcep.StateReport{
			LSPObject:     reportedLsp("backup", 2, 1, true),
			AttributeList: pcep.AttributeList{BandwidthObjects: []*pcep.BandwidthObject{pcep.NewBandwidthObject(pcep.ObjectTypeBandwidthRequested, 1000)}},
			RROObject:     pcep.NewRROObject(pcep.NewIPv4PrefixSubobject(netip.MustParseAddr("10.0.13.3"), 32, false)),
		},
	)))
	assert.False(t, table.Synced())

	require.NoError(t, table.HandleMessage(report(pcep.StateReport{LSPObject: pcep.NewLSPObject("", 0)})))
	assert.True(t, table.Synced())

	lsps := table.List()
	require.Len(t, lsps, 2)
	assert.Equal(t, Lsp{
		PlspID:      1,
		Name:        "to-r3",
		SrcAddr:     testSrc,
		DstAddr:     testDst,
		LspID:       2,
		State:       LSP_UP,
		Delegated:   true,
		SegmentList: []Segment{NewSegmentSRMPLS(16003)},
	}, lsps[0])
	assert.Equal(t, float32(1000), lsps[1].Bandwidth)
	assert.Equal(t, []Segment{SegmentHop{Addr: netip.MustParseAddr("10.0.13.3")}}, lsps[1].Reported)

	id, ok := table.SearchPlspID("backup")
	assert.True(t, ok)
	assert.Equal(t, uint32(2), id)
	_, ok = table.SearchPlspID("missing")
	assert.False(t, ok)
}

func TestLspTable_UpdateLifecycle(t *testing.T) {
	table := NewLspTable()
	require.NoError(t, table.HandleMessage(report(pcep.StateReport{LSPObject: reportedLsp("to-r3", 1, 2, false)})))

	upd := pcep.NewPCUpdMessage(7, "to-r3", 1, pcep.NewEROObject(pcep.NewSREROSubobject(16002, netip.Addr{})), pcep.PathSetupTypeSRTE)
	require.NoError(t, table.HandleMessage(upd))
	assert.Equal(t, []LspRequest{{
		SrpID:       7,
		PlspID:      1,
		Name:        "to-r3",
		SegmentList: []Segment{NewSegmentSRMPLS(16002)},
	}}, table.PendingRequests())

	// Stale LSP-ID is ignored but still answers the request.
	require.NoError(t, table.HandleMessage(report(pcep.StateReport{
		SRPObject: pcep.NewSRPObject(7, false, pcep.PathSetupTypeSRTE),
		LSPObject: reportedLsp("renamed", 1, 1, false),
	})))
	assert.Empty(t, table.PendingRequests())
	lsp, ok := table.Lsp(1)
	require.True(t, ok)
	assert.Equal(t, "to-r3", lsp.Name)

	require.NoError(t, table.HandleMessage(report(pcep.StateReport{
		SRPObject: pcep.NewSRPObject(8, false, pcep.PathSetupTypeSRTE),
		LSPObject: reportedLsp("to-r3", 1, 3, false),
		EROObject: pcep.NewEROObject(pcep.NewSREROSubobject(16002, netip.Addr{})),
	})))
	lsp, _ = table.Lsp(1)
	assert.Equal(t, uint16(3), lsp.LspID)
	assert.Equal(t, pcep.PathSetupTypeSRTE, lsp.Pst)
	assert.Equal(t, []Segment{NewSegmentSRMPLS(16002)}, lsp.SegmentList)

	removed := reportedLsp("to-r3", 1, 3, false)
	removed.RFlag = true
	require.NoError(t, table.HandleMessage(report(pcep.StateReport{LSPObject: removed})))
	_, ok = table.Lsp(1)
	assert.False(t, ok)
}

func TestLspTable_Initiate(t *testing.T) {
	table := NewLspTable()
	endpoints, err := pcep.NewEndpointsObject(testSrc, testDst)
	require.NoError(t, err)

	initiate := pcep.NewPCInitiateMessage(3, "new", endpoints, pcep.NewEROObject(pcep.NewIPv4PrefixSubobject(testDst, 32, false)), pcep.PathSetupTypeRSVPTE)
	require.NoError(t, table.HandleMessage(initiate))
	assert.Equal(t, []LspRequest{{
		SrpID:       3,
		Name:        "new",
		SegmentList: []Segment{SegmentHop{Addr: testDst}},
	}}, table.PendingRequests())

	require.NoError(t, table.HandleMessage(pcep.NewKeepaliveMessage()))
	assert.Len(t, table.PendingRequests(), 1)
}

func TestLspTable_UpdateWithoutPlspID(t *testing.T) {
	table := NewLspTable()
	err := table.HandleMessage(pcep.NewPCUpdMessage(1, "x", 0, nil, pcep.PathSetupTypeSRTE))
	assert.Error(t, err)
}

func TestLspState_String(t *testing.T) {
	assert.Equal(t, "ACTIVE", LSP_ACTIVE.String())
	assert.Equal(t, "UNKNOWN", LSP_UNKNOWN.String())
}
