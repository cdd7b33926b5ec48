// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package pcep

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"fmt"
	"net/netip"
	"testing"

	"github.com/osrg/gobgp/v3/pkg/packet/bgp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustDecodeHex(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(s)
	require.NoError(t, err)
	return b
}

func hexString(b []byte) string {
	return hex.EncodeToString(b)
}

// roundTrip serializes msg, decodes the result and checks that the decoded
// message serializes to the same bytes.
func roundTrip(t *testing.T, msg Message) Message {
	t.Helper()
	data, err := msg.Serialize()
	require.NoError(t, err)

	decoded, err := DecodeMessage(data)
	require.NoError(t, err)
	require.Equal(t, msg.MessageType(), decoded.MessageType())

	again, err := decoded.Serialize()
	require.NoError(t, err)
	assert.Equal(t, data, again)
	return decoded
}

func TestDecodeMessage_Keepalive(t *testing.T) {
	data := mustDecodeHex(t, "20020004")
	msg, err := DecodeMessage(data)
	require.NoError(t, err)
	assert.IsType(t, &KeepaliveMessage{}, msg)
	assert.Empty(t, msg.Objects())

	actual, err := NewKeepaliveMessage().Serialize()
	require.NoError(t, err)
	assert.Equal(t, data, actual)
}

func TestDecodeMessage_Open(t *testing.T) {
	data := mustDecodeHex(t, "2001000c0110000820051e01")
	msg, err := DecodeMessage(data)
	require.NoError(t, err)

	open, ok := msg.(*OpenMessage)
	require.True(t, ok)
	assert.Equal(t, uint8(1), open.OpenObject.Version)
	assert.Equal(t, uint8(5), open.OpenObject.Keepalive)
	assert.Equal(t, uint8(30), open.OpenObject.Deadtime)
	assert.Equal(t, uint8(1), open.OpenObject.Sid)
	assert.Empty(t, open.OpenObject.TLVs)

	actual, err := NewOpenMessage(1, 5, 30, nil).Serialize()
	require.NoError(t, err)
	assert.Equal(t, data, actual)
}

func TestOpenMessage_Capabilities(t *testing.T) {
	msg := NewOpenMessage(7, 30, 120, DefaultCapabilities())
	decoded := roundTrip(t, msg).(*OpenMessage)

	caps := decoded.OpenObject.Capabilities()
	assert.Equal(t, CapabilityStrings(DefaultCapabilities()), CapabilityStrings(caps))
}

func TestDecodeMessage_Errors(t *testing.T) {
	tests := []struct {
		name       string
		input      string
		parseError bool
	}{
		{
			name:  "Truncated common header",
			input: "2002",
		},
		{
			name:       "Unsupported version",
			input:      "40020004",
			parseError: true,
		},
		{
			name:       "Length below the common header",
			input:      "20020003",
			parseError: true,
		},
		{
			name:  "Length beyond the data",
			input: "20020008",
		},
		{
			name:       "Unknown message type",
			input:      "20ff0004",
			parseError: true,
		},
		{
			name:       "Keepalive carrying an object",
			input:      "2002000c0f10000800000001",
			parseError: true,
		},
		{
			name:       "Error message with OPEN but no PCEP-ERROR",
			input:      "2006000c0110000820051e01",
			parseError: true,
		},
		{
			name:       "Initiate without LSP",
			input:      "200c00102110000c0000000000000001",
			parseError: true,
		},
		{
			name:       "Object length not a multiple of four",
			input:      "2007000c0f10000700000001",
			parseError: true,
		},
		{
			name:  "Object overrunning the message",
			input: "2007000c0f10000c00000001",
		},
		{
			name:       "Unknown mandatory object",
			input:      "2002000c7f12000800000000",
			parseError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeMessage(mustDecodeHex(t, tt.input))
			require.Error(t, err)
			if tt.parseError {
				assert.True(t, IsParseError(err), "expected ParseError, got %v", err)
			} else {
				assert.True(t, IsOutOfBoundError(err), "expected OutOfBoundError, got %v", err)
			}
		})
	}
}

func TestDecodeMessage_UnknownOptionalObjectSkipped(t *testing.T) {
	// CLOSE followed by an unknown class without the P flag
	data := mustDecodeHex(t, "200700140f100008000000027f100008deadbeef")
	msg, err := DecodeMessage(data)
	require.NoError(t, err)

	closeMsg, ok := msg.(*CloseMessage)
	require.True(t, ok)
	assert.Equal(t, CloseReasonDeadtimerExpired, closeMsg.CloseObject.Reason)
	assert.Len(t, msg.Objects(), 1)
}

func TestCloseMessage(t *testing.T) {
	data, err := NewCloseMessage(CloseReasonDeadtimerExpired).Serialize()
	require.NoError(t, err)
	assert.Equal(t, "2007000c0f10000800000002", hex.EncodeToString(data))

	decoded := roundTrip(t, NewCloseMessage(CloseReasonMalformedMessage)).(*CloseMessage)
	assert.Equal(t, CloseReasonMalformedMessage, decoded.CloseObject.Reason)
}

func TestErrorMessage(t *testing.T) {
	tests := []struct {
		name   string
		msg    *ErrorMessage
		blocks int
	}{
		{
			name:   "Single error",
			msg:    NewErrorMessage(ErrorTypeSessionEstablishmentFailure, 1),
			blocks: 1,
		},
		{
			name: "Session errors with a proposed OPEN",
			msg: &ErrorMessage{
				Blocks: []ErrorBlock{
					{
						ErrorObjects: []*PCEPErrorObject{
							NewPCEPErrorObject(ErrorTypeSessionEstablishmentFailure, 1),
							NewPCEPErrorObject(ErrorTypeSessionEstablishmentFailure, 3),
						},
						OpenObject: NewOpenObject(1, 30, 120, nil),
					},
				},
			},
			blocks: 1,
		},
		{
			name: "Errors referring to requests and LSPs",
			msg: &ErrorMessage{
				Blocks: []ErrorBlock{
					{
						RPObjects:    []*RPObject{NewRPObject(1, 0), NewRPObject(2, 0)},
						ErrorObjects: []*PCEPErrorObject{NewPCEPErrorObject(ErrorTypeSessionEstablishmentFailure, 2)},
					},
					{
						LSPObjects:   []*LSPObject{NewLSPObject("lsp", 3)},
						ErrorObjects: []*PCEPErrorObject{NewPCEPErrorObject(ErrorTypeSessionEstablishmentFailure, 4)},
					},
				},
			},
			blocks: 2,
		},
		{
			name: "OPEN ahead of the errors",
			msg: &ErrorMessage{
				Blocks: []ErrorBlock{
					{
						LeadingOpenObject: NewOpenObject(1, 30, 120, nil),
						ErrorObjects:      []*PCEPErrorObject{NewPCEPErrorObject(ErrorTypeSessionEstablishmentFailure, 1)},
					},
					{
						LSPObjects:   []*LSPObject{NewLSPObject("lsp", 5)},
						ErrorObjects: []*PCEPErrorObject{NewPCEPErrorObject(ErrorTypeSessionEstablishmentFailure, 2)},
						OpenObject:   NewOpenObject(2, 30, 120, nil),
					},
				},
			},
			blocks: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded := roundTrip(t, tt.msg).(*ErrorMessage)
			assert.Len(t, decoded.Blocks, tt.blocks)
		})
	}
}

func TestErrorMessage_OpenPlacement(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		leading  bool
		trailing bool
	}{
		{
			name:    "OPEN before PCEP-ERROR",
			input:   "200600140110000820051e010d10000800000101",
			leading: true,
		},
		{
			name:     "OPEN after PCEP-ERROR",
			input:    "200600140d100008000001010110000820051e01",
			trailing: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := mustDecodeHex(t, tt.input)
			msg, err := DecodeMessage(data)
			require.NoError(t, err)

			errMsg := msg.(*ErrorMessage)
			require.Len(t, errMsg.Blocks, 1)
			b := errMsg.Blocks[0]
			assert.Equal(t, tt.leading, b.LeadingOpenObject != nil)
			assert.Equal(t, tt.trailing, b.OpenObject != nil)
			require.Len(t, b.ErrorObjects, 1)
			assert.Equal(t, uint8(1), b.ErrorObjects[0].ErrorValue)

			out, err := msg.Serialize()
			require.NoError(t, err)
			assert.Equal(t, tt.input, hexString(out))
		})
	}
}

func TestPCInitiateMessage(t *testing.T) {
	endpoints, err := NewEndpointsObject(netip.MustParseAddr("10.0.0.1"), netip.MustParseAddr("10.0.0.3"))
	require.NoError(t, err)
	ero := NewEROObject(
		NewSREROSubobject(16002, netip.MustParseAddr("10.0.0.2")),
		NewSREROSubobject(16003, netip.MustParseAddr("10.0.0.3")),
	)
	msg := NewPCInitiateMessage(1, "sr-lsp", endpoints, ero, PathSetupTypeSRTE, NewMetricObject(MetricTypeTE, 20, false, true))

	decoded := roundTrip(t, msg).(*PCInitiateMessage)
	require.Len(t, decoded.Requests, 1)
	r := decoded.Requests[0]
	assert.Equal(t, PathSetupTypeSRTE, r.SRPObject.PathSetupType())
	name, ok := r.LSPObject.SymbolicName()
	assert.True(t, ok)
	assert.Equal(t, "sr-lsp", name)
	assert.Equal(t, netip.MustParseAddr("10.0.0.3"), r.EndpointsObject.DstAddr)
	assert.Equal(t, []netip.Addr{netip.MustParseAddr("10.0.0.2"), netip.MustParseAddr("10.0.0.3")}, r.EROObject.Hops())
	require.Len(t, r.MetricObjects, 1)
	assert.Equal(t, uint32(20), r.MetricObjects[0].MetricValue)
}

func TestPCUpdMessage(t *testing.T) {
	ero := NewEROObject(NewSRv6Subobject(netip.MustParseAddr("2001:db8::2")))
	msg := NewPCUpdMessage(2, "srv6-lsp", 9, ero, PathSetupTypeSRv6TE)
	msg.Requests[0].LSPAObject = NewLSPAObject(7, 7, true)
	msg.Requests[0].BandwidthObjects = []*BandwidthObject{NewBandwidthObject(ObjectTypeBandwidthRequested, 1000)}

	decoded := roundTrip(t, msg).(*PCUpdMessage)
	require.Len(t, decoded.Requests, 1)
	r := decoded.Requests[0]
	assert.Equal(t, uint32(9), r.LSPObject.PLSPID)
	assert.Equal(t, PathSetupTypeSRv6TE, r.SRPObject.PathSetupType())
	require.Len(t, r.EROObject.Subobjects, 1)
	srv6, ok := r.EROObject.Subobjects[0].(*SRv6Subobject)
	require.True(t, ok)
	assert.Equal(t, netip.MustParseAddr("2001:db8::2"), srv6.SID)
	require.Len(t, r.BandwidthObjects, 1)
	assert.Equal(t, float32(1000), r.BandwidthObjects[0].Value())
	assert.True(t, r.LSPAObject.LFlag)
}

func TestMessage_RepeatedGroups(t *testing.T) {
	endpoints, err := NewEndpointsObject(netip.MustParseAddr("10.0.0.1"), netip.MustParseAddr("10.0.0.3"))
	require.NoError(t, err)
	ero := NewEROObject(NewSREROSubobject(16003, netip.MustParseAddr("10.0.0.3")))

	tests := []struct {
		name  string
		count int
	}{
		{name: "One group", count: 1},
		{name: "Two groups", count: 2},
		{name: "Three groups", count: 3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			initiate := &PCInitiateMessage{}
			update := &PCUpdMessage{}
			report := &LSReportMessage{}
			for i := 1; i <= tt.count; i++ {
				name := fmt.Sprintf("lsp-%d", i)
				initiate.Requests = append(initiate.Requests,
					NewPCInitiateMessage(uint32(i), name, endpoints, ero, PathSetupTypeSRTE).Requests...)
				update.Requests = append(update.Requests,
					NewPCUpdMessage(uint32(i), name, uint32(100+i), ero, PathSetupTypeSRTE).Requests...)
				report.LSObjects = append(report.LSObjects,
					NewLSObject(ObjectTypeLSNode, bgp.LS_PROTOCOL_ISIS_L2, uint64(i), false, true,
						NewLocalNodeDescriptors(NewLSUint32SubTLV(LSSubTLVAutonomousSystem, 65000))))
			}

			decodedInitiate := roundTrip(t, initiate).(*PCInitiateMessage)
			require.Len(t, decodedInitiate.Requests, tt.count)
			for i, r := range decodedInitiate.Requests {
				assert.Equal(t, uint32(i+1), r.SRPObject.SRPID)
				name, ok := r.LSPObject.SymbolicName()
				assert.True(t, ok)
				assert.Equal(t, fmt.Sprintf("lsp-%d", i+1), name)
			}

			decodedUpdate := roundTrip(t, update).(*PCUpdMessage)
			require.Len(t, decodedUpdate.Requests, tt.count)
			for i, r := range decodedUpdate.Requests {
				assert.Equal(t, uint32(i+1), r.SRPObject.SRPID)
				assert.Equal(t, uint32(101+i), r.LSPObject.PLSPID)
			}

			decodedReport := roundTrip(t, report).(*LSReportMessage)
			require.Len(t, decodedReport.LSObjects, tt.count)
			for i, ls := range decodedReport.LSObjects {
				assert.Equal(t, uint64(i+1), ls.LSID)
			}
		})
	}
}

func TestSerialize_LengthOverflow(t *testing.T) {
	endpoints, err := NewEndpointsObject(netip.MustParseAddr("10.0.0.1"), netip.MustParseAddr("10.0.0.3"))
	require.NoError(t, err)
	ero := NewEROObject(NewSREROSubobject(16003, netip.MustParseAddr("10.0.0.3")))
	initiate := func(nameLength int) Message {
		name := string(bytes.Repeat([]byte("a"), nameLength))
		return NewPCInitiateMessage(1, name, endpoints, ero, PathSetupTypeSRTE)
	}
	manyErrors := &ErrorMessage{Blocks: []ErrorBlock{{}}}
	for i := 0; i < 8200; i++ {
		manyErrors.Blocks[0].ErrorObjects = append(manyErrors.Blocks[0].ErrorObjects, NewPCEPErrorObject(ErrorTypeSessionEstablishmentFailure, 1))
	}

	tests := []struct {
		name    string
		msg     Message
		wantErr bool
	}{
		{name: "Large symbolic name", msg: initiate(60000)},
		{name: "Symbolic name overflowing its TLV length", msg: initiate(70000), wantErr: true},
		{name: "Objects summing past the message length", msg: manyErrors, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.wantErr {
				_, err := tt.msg.Serialize()
				assert.ErrorContains(t, err, "exceeds")
				return
			}
			roundTrip(t, tt.msg)
		})
	}
}

func TestPCRptMessage(t *testing.T) {
	lsp := NewLSPObject("reported", 4)
	lsp.TLVs = append(lsp.TLVs, NewIPv4LSPIdentifiers(netip.MustParseAddr("10.0.0.1"), netip.MustParseAddr("10.0.0.3"), 1, 1, 0))
	rro := NewRROObject(
		NewIPv4PrefixSubobject(netip.MustParseAddr("10.0.0.2"), 32, false),
		NewIPv4PrefixSubobject(netip.MustParseAddr("10.0.0.3"), 32, false),
	)
	msg := &PCRptMessage{
		StateReports: []StateReport{
			{
				SRPObject: NewSRPObject(5, false, PathSetupTypeRSVPTE),
				LSPObject: lsp,
				EROObject: NewEROObject(NewIPv4PrefixSubobject(netip.MustParseAddr("10.0.0.2"), 32, true)),
				AttributeList: AttributeList{
					BandwidthObjects: []*BandwidthObject{
						NewBandwidthObject(ObjectTypeBandwidthRequested, 100),
						NewBandwidthObject(ObjectTypeBandwidthExisting, 50),
					},
					MetricObjects: []*MetricObject{NewMetricObject(MetricTypeIGP, 10, false, false)},
				},
				RROObject: rro,
			},
			{
				LSPObject: NewLSPObject("sync-end", 0),
			},
		},
	}

	decoded := roundTrip(t, msg).(*PCRptMessage)
	require.Len(t, decoded.StateReports, 2)

	first := decoded.StateReports[0]
	assert.Equal(t, uint32(5), first.SRPObject.SRPID)
	src, dst, ok := first.LSPObject.Endpoints()
	assert.True(t, ok)
	assert.Equal(t, netip.MustParseAddr("10.0.0.1"), src)
	assert.Equal(t, netip.MustParseAddr("10.0.0.3"), dst)
	assert.Len(t, first.BandwidthObjects, 2)
	assert.Equal(t, ObjectTypeBandwidthExisting, first.BandwidthObjects[1].Type())
	assert.Len(t, first.RROObject.Hops(), 2)

	second := decoded.StateReports[1]
	assert.Nil(t, second.SRPObject)
	assert.Nil(t, second.EROObject)
}

func TestPCRptMessage_BandwidthAfterMetric(t *testing.T) {
	msg := &PCRptMessage{}
	data, err := serializeMessage(MessageTypeReport, []Object{
		NewLSPObject("", 1),
		NewMetricObject(MetricTypeIGP, 10, false, false),
		NewBandwidthObject(ObjectTypeBandwidthRequested, 10),
	})
	require.NoError(t, err)

	err = msg.DecodeFromBytes(data[CommonHeaderLength:])
	assert.True(t, IsParseError(err), "got %v", err)
}

func TestLabelUpdateMessage(t *testing.T) {
	download := NewLabelDownload(1, NewLSPObject("pcecc", 6),
		NewLabelObject(16001, false),
		NewLabelObject(16002, true),
	)
	labelMap := NewLabelMap(2, NewNodeFECObject(netip.MustParseAddr("10.0.0.2")), NewLabelObject(16002, false))
	adjacencyMap := NewLabelMap(3,
		NewUnnumberedAdjacencyFECObject(netip.MustParseAddr("10.0.0.1"), 11, netip.MustParseAddr("10.0.0.2"), 12),
		NewLabelObject(24001, true),
	)

	decoded := roundTrip(t, NewLabelUpdateMessage(download, labelMap, adjacencyMap)).(*LabelUpdateMessage)
	require.Len(t, decoded.Updates, 3)

	assert.False(t, decoded.Updates[0].IsLabelMap())
	assert.Equal(t, PathSetupTypePCECCTE, decoded.Updates[0].SRPObject.PathSetupType())
	require.Len(t, decoded.Updates[0].LabelObjects, 2)
	assert.Equal(t, uint32(16001), decoded.Updates[0].LabelObjects[0].MPLSLabel())
	assert.True(t, decoded.Updates[0].LabelObjects[1].OFlag)

	assert.True(t, decoded.Updates[1].IsLabelMap())
	assert.Equal(t, netip.MustParseAddr("10.0.0.2"), decoded.Updates[1].FECObject.LocalAddr)

	fec := decoded.Updates[2].FECObject
	assert.Equal(t, ObjectTypeFECUnnumberedAdjacency, fec.Type())
	assert.Equal(t, uint32(12), fec.RemoteInterfaceID)
}

func TestLabelUpdateMessage_Grammar(t *testing.T) {
	tests := []struct {
		name    string
		objects []Object
	}{
		{
			name:    "Label map without FEC",
			objects: []Object{NewSRPObject(1, false, PathSetupTypePCECCTE), NewLabelObject(16, false)},
		},
		{
			name:    "Download without labels",
			objects: []Object{NewSRPObject(1, false, PathSetupTypePCECCTE), NewLSPObject("", 1)},
		},
		{
			name:    "Missing SRP",
			objects: []Object{NewLabelObject(16, false), NewNodeFECObject(netip.MustParseAddr("10.0.0.1"))},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := serializeMessage(MessageTypeLabelUpdate, tt.objects)
			require.NoError(t, err)
			_, err = DecodeMessage(data)
			assert.True(t, IsParseError(err), "got %v", err)
		})
	}
}

func TestMessage_SerializeOverflow(t *testing.T) {
	metrics := make([]*MetricObject, 6000)
	for i := range metrics {
		metrics[i] = NewMetricObject(MetricTypeIGP, uint32(i), false, false)
	}
	msg := NewPCInitiateMessage(1, "big", nil, nil, PathSetupTypeSRTE, metrics...)

	_, err := msg.Serialize()
	assert.Error(t, err)
}

func TestSplitMessage(t *testing.T) {
	stream := mustDecodeHex(t, "20020004"+"2001000c0110000820051e01"+"2007000c0f10000800000002")

	sc := bufio.NewScanner(bytes.NewReader(stream))
	sc.Split(SplitMessage)
	var types []MessageType
	for sc.Scan() {
		msg, err := DecodeMessage(sc.Bytes())
		require.NoError(t, err)
		types = append(types, msg.MessageType())
	}
	require.NoError(t, sc.Err())
	assert.Equal(t, []MessageType{MessageTypeKeepalive, MessageTypeOpen, MessageTypeClose}, types)
}

func TestSplitMessage_Truncated(t *testing.T) {
	sc := bufio.NewScanner(bytes.NewReader(mustDecodeHex(t, "20020004"+"2001000c0110")))
	sc.Split(SplitMessage)

	require.True(t, sc.Scan())
	assert.False(t, sc.Scan())
	assert.True(t, IsOutOfBoundError(sc.Err()))
}
