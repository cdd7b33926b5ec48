// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package pcep

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"net/netip"
	"strconv"

	"go.uber.org/zap/zapcore"
)

type TLVType uint16

// PCEP TLV types
const (
	TLVNoPathVector          TLVType = 0x01
	TLVOverloadDuration      TLVType = 0x02
	TLVReqMissing            TLVType = 0x03
	TLVOFList                TLVType = 0x04
	TLVOrder                 TLVType = 0x05
	TLVP2MPCapable           TLVType = 0x06
	TLVVendorInformation     TLVType = 0x07
	TLVGMPLSCapability       TLVType = 0x0e
	TLVStatefulPCECapability TLVType = 0x10
	TLVSymbolicPathName      TLVType = 0x11
	TLVIPv4LSPIdentifiers    TLVType = 0x12
	TLVIPv6LSPIdentifiers    TLVType = 0x13
	TLVLSPErrorCode          TLVType = 0x14
	TLVRSVPErrorSpec         TLVType = 0x15
	TLVLSPDBVersion          TLVType = 0x17
	TLVSpeakerEntityID       TLVType = 0x18
	TLVSRPCECapability       TLVType = 0x1a
	TLVPathSetupType         TLVType = 0x1c
)

// Pre-standard TLV types carried by PCECC and link-state PCEP speakers
const (
	TLVLSCapability          TLVType = 0xff00
	TLVRoutingUniverse       TLVType = 0xff01
	TLVLocalNodeDescriptors  TLVType = 0xff02
	TLVRemoteNodeDescriptors TLVType = 0xff03
	TLVLinkDescriptors       TLVType = 0xff04
	TLVNodeAttributes        TLVType = 0xff05
	TLVLinkAttributes        TLVType = 0xff06
	TLVPCECCCapability       TLVType = 0xff07
)

const (
	lsDraftReference              = "draft-dhodylee-pce-pcep-ls"
	pceccDraftReference           = "draft-zhao-pce-pcep-extension-for-pce-controller"
	gmplsCapabilityDraftReference = "draft-ietf-pce-gmpls-pcep-extensions"
)

var tlvDescriptions = map[TLVType]struct {
	Description string
	Reference   string
}{
	TLVNoPathVector:          {"NO-PATH-VECTOR", "RFC5440"},
	TLVOverloadDuration:      {"OVERLOAD-DURATION", "RFC5440"},
	TLVReqMissing:            {"REQ-MISSING", "RFC5440"},
	TLVOFList:                {"OF-LIST", "RFC5541"},
	TLVOrder:                 {"ORDER", "RFC5557"},
	TLVP2MPCapable:           {"P2MP-CAPABLE", "RFC8306"},
	TLVVendorInformation:     {"VENDOR-INFORMATION", "RFC7470"},
	TLVGMPLSCapability:       {"GMPLS-CAPABILITY", gmplsCapabilityDraftReference},
	TLVStatefulPCECapability: {"STATEFUL-PCE-CAPABILITY", "RFC8231"},
	TLVSymbolicPathName:      {"SYMBOLIC-PATH-NAME", "RFC8231"},
	TLVIPv4LSPIdentifiers:    {"IPV4-LSP-IDENTIFIERS", "RFC8231"},
	TLVIPv6LSPIdentifiers:    {"IPV6-LSP-IDENTIFIERS", "RFC8231"},
	TLVLSPErrorCode:          {"LSP-ERROR-CODE", "RFC8231"},
	TLVRSVPErrorSpec:         {"RSVP-ERROR-SPEC", "RFC8231"},
	TLVLSPDBVersion:          {"LSP-DB-VERSION", "RFC8232"},
	TLVSpeakerEntityID:       {"SPEAKER-ENTITY-ID", "RFC8232"},
	TLVSRPCECapability:       {"SR-PCE-CAPABILITY", "RFC8664"},
	TLVPathSetupType:         {"PATH-SETUP-TYPE", "RFC8408"},
	TLVLSCapability:          {"LS-CAPABILITY", lsDraftReference},
	TLVRoutingUniverse:       {"ROUTING-UNIVERSE", lsDraftReference},
	TLVLocalNodeDescriptors:  {"LOCAL-NODE-DESCRIPTORS", lsDraftReference},
	TLVRemoteNodeDescriptors: {"REMOTE-NODE-DESCRIPTORS", lsDraftReference},
	TLVLinkDescriptors:       {"LINK-DESCRIPTORS", lsDraftReference},
	TLVNodeAttributes:        {"NODE-ATTRIBUTES", lsDraftReference},
	TLVLinkAttributes:        {"LINK-ATTRIBUTES", lsDraftReference},
	TLVPCECCCapability:       {"PCECC-CAPABILITY", pceccDraftReference},
}

func (t TLVType) String() string {
	if desc, ok := tlvDescriptions[t]; ok {
		return fmt.Sprintf("%s (%s)", desc.Description, desc.Reference)
	}
	return fmt.Sprintf("Unknown TLV (0x%04x)", uint16(t))
}

// TLV header length (type + length)
const TLVHeaderLength = 4

// TLV value lengths, excluding the 4-byte TLV header (type + length)
const (
	TLVStatefulPCECapabilityValueLength uint16 = 4
	TLVIPv4LSPIdentifiersValueLength    uint16 = 16
	TLVIPv6LSPIdentifiersValueLength    uint16 = 52
	TLVLSPErrorCodeValueLength          uint16 = 4
	TLVLSPDBVersionValueLength          uint16 = 8
	TLVSRPCECapabilityValueLength       uint16 = 4
	TLVPathSetupTypeValueLength         uint16 = 4
	TLVFlagsValueLength                 uint16 = 4
	TLVRoutingUniverseValueLength       uint16 = 8
)

type TLVInterface interface {
	DecodeFromBytes(data []byte) error
	Serialize() []byte
	MarshalLogObject(enc zapcore.ObjectEncoder) error
	Type() TLVType
	Len() uint16 // Total length of Type, Length, Value and padding
}

type tlvRegistry map[TLVType]func() TLVInterface

var tlvMap = tlvRegistry{
	TLVGMPLSCapability:       func() TLVInterface { return &FlagsTLV{Typ: TLVGMPLSCapability} },
	TLVStatefulPCECapability: func() TLVInterface { return &StatefulPCECapability{} },
	TLVSymbolicPathName:      func() TLVInterface { return &SymbolicPathName{} },
	TLVIPv4LSPIdentifiers:    func() TLVInterface { return &IPv4LSPIdentifiers{} },
	TLVIPv6LSPIdentifiers:    func() TLVInterface { return &IPv6LSPIdentifiers{} },
	TLVLSPErrorCode:          func() TLVInterface { return &LSPErrorCode{} },
	TLVRSVPErrorSpec:         func() TLVInterface { return &RSVPErrorSpec{} },
	TLVLSPDBVersion:          func() TLVInterface { return &LSPDBVersion{} },
	TLVSpeakerEntityID:       func() TLVInterface { return &SpeakerEntityID{} },
	TLVSRPCECapability:       func() TLVInterface { return &SRPCECapability{} },
	TLVPathSetupType:         func() TLVInterface { return &PathSetupType{} },
	TLVLSCapability:          func() TLVInterface { return &FlagsTLV{Typ: TLVLSCapability} },
	TLVRoutingUniverse:       func() TLVInterface { return &RoutingUniverse{} },
	TLVLocalNodeDescriptors:  func() TLVInterface { return &LSContainerTLV{Typ: TLVLocalNodeDescriptors} },
	TLVRemoteNodeDescriptors: func() TLVInterface { return &LSContainerTLV{Typ: TLVRemoteNodeDescriptors} },
	TLVLinkDescriptors:       func() TLVInterface { return &LSContainerTLV{Typ: TLVLinkDescriptors} },
	TLVNodeAttributes:        func() TLVInterface { return &LSContainerTLV{Typ: TLVNodeAttributes} },
	TLVLinkAttributes:        func() TLVInterface { return &LSContainerTLV{Typ: TLVLinkAttributes} },
	TLVPCECCCapability:       func() TLVInterface { return &FlagsTLV{Typ: TLVPCECCCapability} },
}

// tlvValue validates the TLV header at the start of data and returns the
// value it announces. Trailing bytes, such as padding, are ignored.
func tlvValue(data []byte, name string) ([]byte, error) {
	if len(data) < TLVHeaderLength {
		return nil, newOutOfBoundError(name+" header", TLVHeaderLength, len(data))
	}
	valueLen := int(binary.BigEndian.Uint16(data[2:4]))
	value, _, err := splitBytes(data[TLVHeaderLength:], valueLen, name+" value")
	return value, err
}

// fixedTLVValue is tlvValue for TLVs whose value has exactly one legal length.
func fixedTLVValue(data []byte, want uint16, name string) ([]byte, error) {
	value, err := tlvValue(data, name)
	if err != nil {
		return nil, err
	}
	if len(value) != int(want) {
		return nil, newParseError(name, "data length mismatch: expected %d bytes, but got %d bytes", want, len(value))
	}
	return value, nil
}

// serializeTLV writes the TLV header, the value and the zero padding.
func serializeTLV(typ TLVType, value []byte) []byte {
	return appendPadding(AppendByteSlices(
		Uint16ToByteSlice(typ),
		Uint16ToByteSlice(uint16(len(value))),
		value,
	))
}

// tlvLen is the on-wire size of a TLV carrying valueLen bytes.
func tlvLen(valueLen int) uint16 {
	return uint16(PaddedLength(TLVHeaderLength + valueLen))
}

type StatefulPCECapability struct {
	LSPUpdateCapability        bool // 31
	IncludeDBVersion           bool // 30
	LSPInstantiationCapability bool // 29
	TriggeredResync            bool // 28
	DeltaLSPSyncCapability     bool // 27
	TriggeredInitialSync       bool // 26
	ColorCapability            bool // 20
	OtherFlags                 uint32
}

const (
	LSPUpdateCapabilityBit        uint32 = 0x00000001
	IncludeDBVersionCapabilityBit uint32 = 0x00000002
	LSPInstantiationCapabilityBit uint32 = 0x00000004
	TriggeredResyncCapabilityBit  uint32 = 0x00000008
	DeltaLSPSyncCapabilityBit     uint32 = 0x00000010
	TriggeredInitialSyncBit       uint32 = 0x00000020
	ColorCapabilityBit            uint32 = 0x00000800

	statefulCapabilityKnownBits = LSPUpdateCapabilityBit | IncludeDBVersionCapabilityBit |
		LSPInstantiationCapabilityBit | TriggeredResyncCapabilityBit | DeltaLSPSyncCapabilityBit |
		TriggeredInitialSyncBit | ColorCapabilityBit
)

func (tlv *StatefulPCECapability) DecodeFromBytes(data []byte) error {
	value, err := fixedTLVValue(data, TLVStatefulPCECapabilityValueLength, "StatefulPCECapability")
	if err != nil {
		return err
	}

	tlv.ExtractCapabilities(binary.BigEndian.Uint32(value))
	return nil
}

func (tlv *StatefulPCECapability) Serialize() []byte {
	return serializeTLV(tlv.Type(), Uint32ToByteSlice(tlv.CapabilityBits()))
}

func (tlv *StatefulPCECapability) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddBool("lspUpdateCapability", tlv.LSPUpdateCapability)
	enc.AddBool("includeDBVersion", tlv.IncludeDBVersion)
	enc.AddBool("lspInstantiationCapability", tlv.LSPInstantiationCapability)
	enc.AddBool("triggeredResync", tlv.TriggeredResync)
	enc.AddBool("deltaLSPSyncCapability", tlv.DeltaLSPSyncCapability)
	enc.AddBool("triggeredInitialSync", tlv.TriggeredInitialSync)
	enc.AddBool("colorCapability", tlv.ColorCapability)
	return nil
}

func (tlv *StatefulPCECapability) Type() TLVType {
	return TLVStatefulPCECapability
}

func (tlv *StatefulPCECapability) Len() uint16 {
	return TLVHeaderLength + TLVStatefulPCECapabilityValueLength
}

func (tlv *StatefulPCECapability) ExtractCapabilities(flags uint32) {
	tlv.LSPUpdateCapability = IsBitSet(flags, LSPUpdateCapabilityBit)
	tlv.IncludeDBVersion = IsBitSet(flags, IncludeDBVersionCapabilityBit)
	tlv.LSPInstantiationCapability = IsBitSet(flags, LSPInstantiationCapabilityBit)
	tlv.TriggeredResync = IsBitSet(flags, TriggeredResyncCapabilityBit)
	tlv.DeltaLSPSyncCapability = IsBitSet(flags, DeltaLSPSyncCapabilityBit)
	tlv.TriggeredInitialSync = IsBitSet(flags, TriggeredInitialSyncBit)
	tlv.ColorCapability = IsBitSet(flags, ColorCapabilityBit)
	tlv.OtherFlags = flags &^ statefulCapabilityKnownBits
}

func (tlv *StatefulPCECapability) CapabilityBits() uint32 {
	flags := tlv.OtherFlags &^ statefulCapabilityKnownBits
	flags = SetBit(flags, LSPUpdateCapabilityBit, tlv.LSPUpdateCapability)
	flags = SetBit(flags, IncludeDBVersionCapabilityBit, tlv.IncludeDBVersion)
	flags = SetBit(flags, LSPInstantiationCapabilityBit, tlv.LSPInstantiationCapability)
	flags = SetBit(flags, TriggeredResyncCapabilityBit, tlv.TriggeredResync)
	flags = SetBit(flags, DeltaLSPSyncCapabilityBit, tlv.DeltaLSPSyncCapability)
	flags = SetBit(flags, TriggeredInitialSyncBit, tlv.TriggeredInitialSync)
	flags = SetBit(flags, ColorCapabilityBit, tlv.ColorCapability)
	return flags
}

func (tlv *StatefulPCECapability) CapStrings() []string {
	ret := []string{"Stateful"}
	if tlv.LSPUpdateCapability {
		ret = append(ret, "Update")
	}
	if tlv.IncludeDBVersion {
		ret = append(ret, "Include-DB-Ver")
	}
	if tlv.LSPInstantiationCapability {
		ret = append(ret, "Instantiation")
	}
	if tlv.TriggeredResync {
		ret = append(ret, "Triggered-Resync")
	}
	if tlv.DeltaLSPSyncCapability {
		ret = append(ret, "Delta-LSP-Sync")
	}
	if tlv.TriggeredInitialSync {
		ret = append(ret, "Triggered-Initial-Sync")
	}
	if tlv.ColorCapability {
		ret = append(ret, "Color")
	}
	return ret
}

func NewStatefulPCECapability(flags uint32) *StatefulPCECapability {
	tlv := &StatefulPCECapability{}
	tlv.ExtractCapabilities(flags)
	return tlv
}

// SymbolicPathName carries the name as raw bytes; no encoding is assumed.
type SymbolicPathName struct {
	Name string
}

func (tlv *SymbolicPathName) DecodeFromBytes(data []byte) error {
	value, err := tlvValue(data, "SymbolicPathName")
	if err != nil {
		return err
	}

	tlv.Name = string(value)
	return nil
}

func (tlv *SymbolicPathName) Serialize() []byte {
	return serializeTLV(tlv.Type(), []byte(tlv.Name))
}

func (tlv *SymbolicPathName) Type() TLVType {
	return TLVSymbolicPathName
}

func (tlv *SymbolicPathName) Len() uint16 {
	return tlvLen(len(tlv.Name))
}

func (tlv *SymbolicPathName) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("symbolicPathName", tlv.Name)
	return nil
}

func NewSymbolicPathName(name string) *SymbolicPathName {
	return &SymbolicPathName{Name: name}
}

type IPv4LSPIdentifiers struct {
	IPv4TunnelSenderAddress   netip.Addr
	IPv4TunnelEndpointAddress netip.Addr
	LSPID                     uint16
	TunnelID                  uint16
	ExtendedTunnelID          uint32
}

const (
	IPv4LSPIdentifiersLSPIDOffset                 = 4
	IPv4LSPIdentifiersTunnelIDOffset              = 6
	IPv4LSPIdentifiersExtendedTunnelIDOffset      = 8
	IPv4LSPIdentifiersTunnelEndpointAddressOffset = 12
)

func (tlv *IPv4LSPIdentifiers) DecodeFromBytes(data []byte) error {
	value, err := fixedTLVValue(data, TLVIPv4LSPIdentifiersValueLength, "IPv4LSPIdentifiers")
	if err != nil {
		return err
	}

	tlv.IPv4TunnelSenderAddress, _ = netip.AddrFromSlice(value[:IPv4LSPIdentifiersLSPIDOffset])
	tlv.LSPID = binary.BigEndian.Uint16(value[IPv4LSPIdentifiersLSPIDOffset:IPv4LSPIdentifiersTunnelIDOffset])
	tlv.TunnelID = binary.BigEndian.Uint16(value[IPv4LSPIdentifiersTunnelIDOffset:IPv4LSPIdentifiersExtendedTunnelIDOffset])
	tlv.ExtendedTunnelID = binary.BigEndian.Uint32(value[IPv4LSPIdentifiersExtendedTunnelIDOffset:IPv4LSPIdentifiersTunnelEndpointAddressOffset])
	tlv.IPv4TunnelEndpointAddress, _ = netip.AddrFromSlice(value[IPv4LSPIdentifiersTunnelEndpointAddressOffset:TLVIPv4LSPIdentifiersValueLength])

	return nil
}

func (tlv *IPv4LSPIdentifiers) Serialize() []byte {
	value := make([]byte, TLVIPv4LSPIdentifiersValueLength)

	copy(value[:IPv4LSPIdentifiersLSPIDOffset], addrBytes(tlv.IPv4TunnelSenderAddress, 4))
	binary.BigEndian.PutUint16(value[IPv4LSPIdentifiersLSPIDOffset:IPv4LSPIdentifiersTunnelIDOffset], tlv.LSPID)
	binary.BigEndian.PutUint16(value[IPv4LSPIdentifiersTunnelIDOffset:IPv4LSPIdentifiersExtendedTunnelIDOffset], tlv.TunnelID)
	binary.BigEndian.PutUint32(value[IPv4LSPIdentifiersExtendedTunnelIDOffset:IPv4LSPIdentifiersTunnelEndpointAddressOffset], tlv.ExtendedTunnelID)
	copy(value[IPv4LSPIdentifiersTunnelEndpointAddressOffset:], addrBytes(tlv.IPv4TunnelEndpointAddress, 4))

	return serializeTLV(tlv.Type(), value)
}

func (tlv *IPv4LSPIdentifiers) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("senderAddress", tlv.IPv4TunnelSenderAddress.String())
	enc.AddString("endpointAddress", tlv.IPv4TunnelEndpointAddress.String())
	enc.AddUint16("lspID", tlv.LSPID)
	enc.AddUint16("tunnelID", tlv.TunnelID)
	enc.AddUint32("extendedTunnelID", tlv.ExtendedTunnelID)
	return nil
}

func (tlv *IPv4LSPIdentifiers) Type() TLVType {
	return TLVIPv4LSPIdentifiers
}

func (tlv *IPv4LSPIdentifiers) Len() uint16 {
	return TLVHeaderLength + TLVIPv4LSPIdentifiersValueLength
}

func NewIPv4LSPIdentifiers(senderAddr, endpointAddr netip.Addr, lspID, tunnelID uint16, extendedTunnelID uint32) *IPv4LSPIdentifiers {
	return &IPv4LSPIdentifiers{
		IPv4TunnelSenderAddress:   senderAddr,
		IPv4TunnelEndpointAddress: endpointAddr,
		LSPID:                     lspID,
		TunnelID:                  tunnelID,
		ExtendedTunnelID:          extendedTunnelID,
	}
}

type IPv6LSPIdentifiers struct {
	IPv6TunnelSenderAddress   netip.Addr
	IPv6TunnelEndpointAddress netip.Addr
	LSPID                     uint16
	TunnelID                  uint16
	ExtendedTunnelID          [16]byte
}

const (
	IPv6LSPIdentifiersLSPIDOffset                 = 16
	IPv6LSPIdentifiersTunnelIDOffset              = 18
	IPv6LSPIdentifiersExtendedTunnelIDOffset      = 20
	IPv6LSPIdentifiersTunnelEndpointAddressOffset = 36
)

func (tlv *IPv6LSPIdentifiers) DecodeFromBytes(data []byte) error {
	value, err := fixedTLVValue(data, TLVIPv6LSPIdentifiersValueLength, "IPv6LSPIdentifiers")
	if err != nil {
		return err
	}

	tlv.IPv6TunnelSenderAddress, _ = netip.AddrFromSlice(value[:IPv6LSPIdentifiersLSPIDOffset])
	tlv.LSPID = binary.BigEndian.Uint16(value[IPv6LSPIdentifiersLSPIDOffset:IPv6LSPIdentifiersTunnelIDOffset])
	tlv.TunnelID = binary.BigEndian.Uint16(value[IPv6LSPIdentifiersTunnelIDOffset:IPv6LSPIdentifiersExtendedTunnelIDOffset])
	copy(tlv.ExtendedTunnelID[:], value[IPv6LSPIdentifiersExtendedTunnelIDOffset:IPv6LSPIdentifiersTunnelEndpointAddressOffset])
	tlv.IPv6TunnelEndpointAddress, _ = netip.AddrFromSlice(value[IPv6LSPIdentifiersTunnelEndpointAddressOffset:TLVIPv6LSPIdentifiersValueLength])

	return nil
}

func (tlv *IPv6LSPIdentifiers) Serialize() []byte {
	value := make([]byte, TLVIPv6LSPIdentifiersValueLength)

	copy(value[:IPv6LSPIdentifiersLSPIDOffset], addrBytes(tlv.IPv6TunnelSenderAddress, 16))
	binary.BigEndian.PutUint16(value[IPv6LSPIdentifiersLSPIDOffset:IPv6LSPIdentifiersTunnelIDOffset], tlv.LSPID)
	binary.BigEndian.PutUint16(value[IPv6LSPIdentifiersTunnelIDOffset:IPv6LSPIdentifiersExtendedTunnelIDOffset], tlv.TunnelID)
	copy(value[IPv6LSPIdentifiersExtendedTunnelIDOffset:IPv6LSPIdentifiersTunnelEndpointAddressOffset], tlv.ExtendedTunnelID[:])
	copy(value[IPv6LSPIdentifiersTunnelEndpointAddressOffset:], addrBytes(tlv.IPv6TunnelEndpointAddress, 16))

	return serializeTLV(tlv.Type(), value)
}

func (tlv *IPv6LSPIdentifiers) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("senderAddress", tlv.IPv6TunnelSenderAddress.String())
	enc.AddString("endpointAddress", tlv.IPv6TunnelEndpointAddress.String())
	enc.AddUint16("lspID", tlv.LSPID)
	enc.AddUint16("tunnelID", tlv.TunnelID)
	return nil
}

func (tlv *IPv6LSPIdentifiers) Type() TLVType {
	return TLVIPv6LSPIdentifiers
}

func (tlv *IPv6LSPIdentifiers) Len() uint16 {
	return TLVHeaderLength + TLVIPv6LSPIdentifiersValueLength
}

func NewIPv6LSPIdentifiers(senderAddr, endpointAddr netip.Addr, lspID, tunnelID uint16, extendedTunnelID [16]byte) *IPv6LSPIdentifiers {
	return &IPv6LSPIdentifiers{
		IPv6TunnelSenderAddress:   senderAddr,
		IPv6TunnelEndpointAddress: endpointAddr,
		LSPID:                     lspID,
		TunnelID:                  tunnelID,
		ExtendedTunnelID:          extendedTunnelID,
	}
}

type LSPErrorCodeValue uint32

// RFC8231 7.3.3
const (
	LSPErrorUnknownReason               LSPErrorCodeValue = 1
	LSPErrorLimitReached                LSPErrorCodeValue = 2
	LSPErrorTooManyPendingLSPUpdates    LSPErrorCodeValue = 3
	LSPErrorUnacceptableParameters      LSPErrorCodeValue = 4
	LSPErrorInternalError               LSPErrorCodeValue = 5
	LSPErrorAdministrativelyBroughtDown LSPErrorCodeValue = 6
	LSPErrorPreempted                   LSPErrorCodeValue = 7
	LSPErrorRSVPSignalingError          LSPErrorCodeValue = 8
)

var lspErrorCodeDescriptions = map[LSPErrorCodeValue]string{
	LSPErrorUnknownReason:               "Unknown reason",
	LSPErrorLimitReached:                "Limit reached for PCE-controlled LSPs",
	LSPErrorTooManyPendingLSPUpdates:    "Too many pending LSP update requests",
	LSPErrorUnacceptableParameters:      "Unacceptable parameters",
	LSPErrorInternalError:               "Internal error",
	LSPErrorAdministrativelyBroughtDown: "LSP administratively brought down",
	LSPErrorPreempted:                   "LSP preempted",
	LSPErrorRSVPSignalingError:          "RSVP signaling error",
}

func (c LSPErrorCodeValue) String() string {
	if desc, ok := lspErrorCodeDescriptions[c]; ok {
		return desc
	}
	return fmt.Sprintf("Unknown LSP error code (%d)", uint32(c))
}

type LSPErrorCode struct {
	ErrorCode LSPErrorCodeValue
}

func (tlv *LSPErrorCode) DecodeFromBytes(data []byte) error {
	value, err := fixedTLVValue(data, TLVLSPErrorCodeValueLength, "LSPErrorCode")
	if err != nil {
		return err
	}

	tlv.ErrorCode = LSPErrorCodeValue(binary.BigEndian.Uint32(value))
	return nil
}

func (tlv *LSPErrorCode) Serialize() []byte {
	return serializeTLV(tlv.Type(), Uint32ToByteSlice(uint32(tlv.ErrorCode)))
}

func (tlv *LSPErrorCode) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("lspErrorCode", tlv.ErrorCode.String())
	return nil
}

func (tlv *LSPErrorCode) Type() TLVType {
	return TLVLSPErrorCode
}

func (tlv *LSPErrorCode) Len() uint16 {
	return TLVHeaderLength + TLVLSPErrorCodeValueLength
}

func NewLSPErrorCode(code LSPErrorCodeValue) *LSPErrorCode {
	return &LSPErrorCode{ErrorCode: code}
}

// RSVPErrorSpec carries an RSVP ERROR_SPEC object (RFC2205) or, for any other
// RSVP class, the raw object body in Body.
type RSVPErrorSpec struct {
	ClassNum         uint8
	CType            uint8
	ErrorNodeAddress netip.Addr
	Flags            uint8
	ErrorCode        uint8
	ErrorValue       uint16
	Body             []byte
}

const (
	RSVPObjectHeaderLength       = 4
	RSVPClassErrorSpec     uint8 = 6
	RSVPCTypeIPv4ErrorSpec       = 1
	RSVPCTypeIPv6ErrorSpec       = 2
)

func (tlv *RSVPErrorSpec) DecodeFromBytes(data []byte) error {
	value, err := tlvValue(data, "RSVPErrorSpec")
	if err != nil {
		return err
	}
	if len(value) < RSVPObjectHeaderLength {
		return newParseError("RSVPErrorSpec", "RSVP object shorter than its %d-byte header: %d bytes", RSVPObjectHeaderLength, len(value))
	}
	if rsvpLen := int(binary.BigEndian.Uint16(value[0:2])); rsvpLen != len(value) {
		return newParseError("RSVPErrorSpec", "RSVP object length %d does not match TLV length %d", rsvpLen, len(value))
	}

	tlv.ClassNum = value[2]
	tlv.CType = value[3]
	body := value[RSVPObjectHeaderLength:]

	addrLen := 0
	if tlv.ClassNum == RSVPClassErrorSpec {
		switch tlv.CType {
		case RSVPCTypeIPv4ErrorSpec:
			addrLen = 4
		case RSVPCTypeIPv6ErrorSpec:
			addrLen = 16
		}
	}
	if addrLen == 0 || len(body) != addrLen+4 {
		tlv.Body = cloneBytes(body)
		return nil
	}

	tlv.ErrorNodeAddress, _ = netip.AddrFromSlice(body[:addrLen])
	tlv.Flags = body[addrLen]
	tlv.ErrorCode = body[addrLen+1]
	tlv.ErrorValue = binary.BigEndian.Uint16(body[addrLen+2 : addrLen+4])
	tlv.Body = nil
	return nil
}

func (tlv *RSVPErrorSpec) rsvpBody() []byte {
	if tlv.Body != nil {
		return tlv.Body
	}
	addr := tlv.ErrorNodeAddress.Unmap().AsSlice()
	return AppendByteSlices(addr, []byte{tlv.Flags, tlv.ErrorCode}, Uint16ToByteSlice(tlv.ErrorValue))
}

func (tlv *RSVPErrorSpec) Serialize() []byte {
	body := tlv.rsvpBody()
	value := AppendByteSlices(
		Uint16ToByteSlice(uint16(RSVPObjectHeaderLength+len(body))),
		[]byte{tlv.ClassNum, tlv.CType},
		body,
	)
	return serializeTLV(tlv.Type(), value)
}

func (tlv *RSVPErrorSpec) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint8("classNum", tlv.ClassNum)
	enc.AddUint8("cType", tlv.CType)
	if tlv.Body != nil {
		enc.AddString("body", hex.EncodeToString(tlv.Body))
		return nil
	}
	enc.AddString("errorNodeAddress", tlv.ErrorNodeAddress.String())
	enc.AddUint8("errorCode", tlv.ErrorCode)
	enc.AddUint16("errorValue", tlv.ErrorValue)
	return nil
}

func (tlv *RSVPErrorSpec) Type() TLVType {
	return TLVRSVPErrorSpec
}

func (tlv *RSVPErrorSpec) Len() uint16 {
	return tlvLen(RSVPObjectHeaderLength + len(tlv.rsvpBody()))
}

// NewRSVPErrorSpec builds an ERROR_SPEC whose C-Type follows the address family of node.
func NewRSVPErrorSpec(node netip.Addr, flags, code uint8, value uint16) *RSVPErrorSpec {
	cType := uint8(RSVPCTypeIPv4ErrorSpec)
	if node.Is6() && !node.Is4In6() {
		cType = RSVPCTypeIPv6ErrorSpec
	}
	return &RSVPErrorSpec{
		ClassNum:         RSVPClassErrorSpec,
		CType:            cType,
		ErrorNodeAddress: node,
		Flags:            flags,
		ErrorCode:        code,
		ErrorValue:       value,
	}
}

type LSPDBVersion struct {
	VersionNumber uint64
}

func (tlv *LSPDBVersion) DecodeFromBytes(data []byte) error {
	value, err := fixedTLVValue(data, TLVLSPDBVersionValueLength, "LSPDBVersion")
	if err != nil {
		return err
	}

	tlv.VersionNumber = binary.BigEndian.Uint64(value)
	return nil
}

func (tlv *LSPDBVersion) Serialize() []byte {
	return serializeTLV(tlv.Type(), Uint64ToByteSlice(tlv.VersionNumber))
}

func (tlv *LSPDBVersion) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint64("lspDBVersion", tlv.VersionNumber)
	return nil
}

func (tlv *LSPDBVersion) Type() TLVType {
	return TLVLSPDBVersion
}

func (tlv *LSPDBVersion) Len() uint16 {
	return TLVHeaderLength + TLVLSPDBVersionValueLength
}

func (tlv *LSPDBVersion) CapStrings() []string {
	return []string{"LSP-DB-VERSION"}
}

func NewLSPDBVersion(version uint64) *LSPDBVersion {
	return &LSPDBVersion{
		VersionNumber: version,
	}
}

type SpeakerEntityID struct {
	EntityID []byte
}

func (tlv *SpeakerEntityID) DecodeFromBytes(data []byte) error {
	value, err := tlvValue(data, "SpeakerEntityID")
	if err != nil {
		return err
	}

	tlv.EntityID = cloneBytes(value)
	return nil
}

func (tlv *SpeakerEntityID) Serialize() []byte {
	return serializeTLV(tlv.Type(), tlv.EntityID)
}

func (tlv *SpeakerEntityID) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("speakerEntityID", hex.EncodeToString(tlv.EntityID))
	return nil
}

func (tlv *SpeakerEntityID) Type() TLVType {
	return TLVSpeakerEntityID
}

func (tlv *SpeakerEntityID) Len() uint16 {
	return tlvLen(len(tlv.EntityID))
}

func NewSpeakerEntityID(id []byte) *SpeakerEntityID {
	return &SpeakerEntityID{EntityID: cloneBytes(id)}
}

type SRPCECapability struct {
	HasUnlimitedMaxSIDDepth bool
	IsNAISupported          bool
	MaximumSidDepth         uint8
}

const (
	UnlimitedMaximumSIDDepthFlag byte = 0x01
	NAISupportedFlag             byte = 0x02
)

const (
	SRPCECapabilityFlagsOffset = 2
	SRPCECapabilityMSDOffset   = 3
)

func (tlv *SRPCECapability) DecodeFromBytes(data []byte) error {
	value, err := fixedTLVValue(data, TLVSRPCECapabilityValueLength, "SRPCECapability")
	if err != nil {
		return err
	}

	flags := value[SRPCECapabilityFlagsOffset]
	tlv.HasUnlimitedMaxSIDDepth = IsBitSet(flags, UnlimitedMaximumSIDDepthFlag)
	tlv.IsNAISupported = IsBitSet(flags, NAISupportedFlag)
	tlv.MaximumSidDepth = value[SRPCECapabilityMSDOffset]

	return nil
}

func (tlv *SRPCECapability) Serialize() []byte {
	value := make([]byte, TLVSRPCECapabilityValueLength)

	value[SRPCECapabilityFlagsOffset] = SetBit(value[SRPCECapabilityFlagsOffset], UnlimitedMaximumSIDDepthFlag, tlv.HasUnlimitedMaxSIDDepth)
	value[SRPCECapabilityFlagsOffset] = SetBit(value[SRPCECapabilityFlagsOffset], NAISupportedFlag, tlv.IsNAISupported)
	value[SRPCECapabilityMSDOffset] = tlv.MaximumSidDepth

	return serializeTLV(tlv.Type(), value)
}

func (tlv *SRPCECapability) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddBool("unlimited_max_sid_depth", tlv.HasUnlimitedMaxSIDDepth)
	enc.AddBool("nai_is_supported", tlv.IsNAISupported)
	enc.AddUint8("maximum_sid_depth", tlv.MaximumSidDepth)
	return nil
}

func (tlv *SRPCECapability) Type() TLVType {
	return TLVSRPCECapability
}

func (tlv *SRPCECapability) Len() uint16 {
	return TLVHeaderLength + TLVSRPCECapabilityValueLength
}

func (tlv *SRPCECapability) CapStrings() []string {
	ret := []string{"SR-TE"}
	if tlv.HasUnlimitedMaxSIDDepth {
		ret = append(ret, "Unlimited-SID-Depth")
	}
	if tlv.IsNAISupported {
		ret = append(ret, "NAI-Supported")
	}
	return ret
}

func NewSRPCECapability(hasUnlimitedMaxSIDDepth bool, isNAISupported bool, maximumSidDepth uint8) *SRPCECapability {
	return &SRPCECapability{
		HasUnlimitedMaxSIDDepth: hasUnlimitedMaxSIDDepth,
		IsNAISupported:          isNAISupported,
		MaximumSidDepth:         maximumSidDepth,
	}
}

type Pst uint8

const (
	PathSetupTypeRSVPTE  Pst = 0x00
	PathSetupTypeSRTE    Pst = 0x01
	PathSetupTypePCECCTE Pst = 0x02
	PathSetupTypeSRv6TE  Pst = 0x03
)

var pathSetupDescriptions = map[Pst]struct {
	Description string
	Reference   string
}{
	PathSetupTypeRSVPTE:  {"Path is set up using the RSVP-TE signaling protocol", "RFC8408"},
	PathSetupTypeSRTE:    {"Traffic engineering path is set up using Segment Routing", "RFC8664"},
	PathSetupTypePCECCTE: {"Traffic engineering path is set up using PCECC mode", "RFC9050"},
	PathSetupTypeSRv6TE:  {"Traffic engineering path is set up using SRv6", "RFC9603"},
}

func (pst Pst) String() string {
	if desc, found := pathSetupDescriptions[pst]; found {
		return fmt.Sprintf("%s (%s)", desc.Description, desc.Reference)
	}
	return fmt.Sprintf("Unknown PathSetupType (0x%02x)", uint8(pst))
}

type PathSetupType struct {
	PathSetupType Pst
}

const (
	PathSetupTypePathSetupTypeIndex = 3
)

func (tlv *PathSetupType) DecodeFromBytes(data []byte) error {
	value, err := fixedTLVValue(data, TLVPathSetupTypeValueLength, "PathSetupType")
	if err != nil {
		return err
	}

	tlv.PathSetupType = Pst(value[PathSetupTypePathSetupTypeIndex])
	return nil
}

func (tlv *PathSetupType) Serialize() []byte {
	value := make([]byte, TLVPathSetupTypeValueLength)
	value[PathSetupTypePathSetupTypeIndex] = byte(tlv.PathSetupType)

	return serializeTLV(tlv.Type(), value)
}

func (tlv *PathSetupType) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("pathSetupType", tlv.PathSetupType.String())
	return nil
}

func (tlv *PathSetupType) Type() TLVType {
	return TLVPathSetupType
}

func (tlv *PathSetupType) Len() uint16 {
	return TLVHeaderLength + TLVPathSetupTypeValueLength
}

func NewPathSetupType(pst Pst) *PathSetupType {
	return &PathSetupType{
		PathSetupType: pst,
	}
}

// FlagsTLV is a capability TLV whose value is a single 32-bit flag field:
// GMPLS-CAPABILITY, LS-CAPABILITY and PCECC-CAPABILITY.
type FlagsTLV struct {
	Typ   TLVType
	Flags uint32
}

// Flag bits of LS-CAPABILITY and PCECC-CAPABILITY
const (
	LSCapabilityRemoteBit       uint32 = 0x00000001
	PCECCCapabilityLabelBit     uint32 = 0x00000001
	PCECCCapabilitySegmentIDBit uint32 = 0x00000002
)

func (tlv *FlagsTLV) DecodeFromBytes(data []byte) error {
	value, err := fixedTLVValue(data, TLVFlagsValueLength, tlv.Typ.String())
	if err != nil {
		return err
	}

	tlv.Typ = TLVType(binary.BigEndian.Uint16(data[0:2]))
	tlv.Flags = binary.BigEndian.Uint32(value)
	return nil
}

func (tlv *FlagsTLV) Serialize() []byte {
	return serializeTLV(tlv.Typ, Uint32ToByteSlice(tlv.Flags))
}

func (tlv *FlagsTLV) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("type", tlv.Typ.String())
	enc.AddUint32("flags", tlv.Flags)
	return nil
}

func (tlv *FlagsTLV) Type() TLVType {
	return tlv.Typ
}

func (tlv *FlagsTLV) Len() uint16 {
	return TLVHeaderLength + TLVFlagsValueLength
}

func (tlv *FlagsTLV) CapStrings() []string {
	switch tlv.Typ {
	case TLVGMPLSCapability:
		return []string{"GMPLS"}
	case TLVLSCapability:
		if IsBitSet(tlv.Flags, LSCapabilityRemoteBit) {
			return []string{"LS", "LS-Remote"}
		}
		return []string{"LS"}
	case TLVPCECCCapability:
		ret := []string{"PCECC"}
		if IsBitSet(tlv.Flags, PCECCCapabilityLabelBit) {
			ret = append(ret, "Label-Download")
		}
		if IsBitSet(tlv.Flags, PCECCCapabilitySegmentIDBit) {
			ret = append(ret, "SR-Label")
		}
		return ret
	}
	return []string{tlv.Typ.String()}
}

func NewGMPLSCapability(flags uint32) *FlagsTLV {
	return &FlagsTLV{Typ: TLVGMPLSCapability, Flags: flags}
}

func NewLSCapability(flags uint32) *FlagsTLV {
	return &FlagsTLV{Typ: TLVLSCapability, Flags: flags}
}

func NewPCECCCapability(flags uint32) *FlagsTLV {
	return &FlagsTLV{Typ: TLVPCECCCapability, Flags: flags}
}

// UndefinedTLV keeps a TLV of unknown type so that it re-encodes unchanged.
type UndefinedTLV struct {
	Typ   TLVType
	Value []byte
}

func (tlv *UndefinedTLV) DecodeFromBytes(data []byte) error {
	value, err := tlvValue(data, "UndefinedTLV")
	if err != nil {
		return err
	}

	tlv.Typ = TLVType(binary.BigEndian.Uint16(data[0:2]))
	tlv.Value = cloneBytes(value)
	return nil
}

func (tlv *UndefinedTLV) Serialize() []byte {
	return serializeTLV(tlv.Typ, tlv.Value)
}

func (tlv *UndefinedTLV) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint16("type", uint16(tlv.Typ))
	enc.AddString("value", hex.EncodeToString(tlv.Value))
	return nil
}

func (tlv *UndefinedTLV) Type() TLVType {
	return tlv.Typ
}

func (tlv *UndefinedTLV) Len() uint16 {
	return tlvLen(len(tlv.Value))
}

func (tlv *UndefinedTLV) CapStrings() []string {
	return []string{"unknown_type_" + strconv.FormatInt(int64(tlv.Typ), 10)}
}

func NewUndefinedTLV(typ TLVType, value []byte) *UndefinedTLV {
	return &UndefinedTLV{Typ: typ, Value: cloneBytes(value)}
}

// decodeTLVs walks a TLV sequence that must fill data exactly. Codes missing
// from registry become UndefinedTLV unless mandatory is set, in which case
// they are rejected.
func decodeTLVs(data []byte, registry tlvRegistry, context string) ([]TLVInterface, error) {
	var tlvs []TLVInterface

	for len(data) > 0 {
		if len(data) < TLVHeaderLength {
			return nil, newOutOfBoundError(context+" TLV header", TLVHeaderLength, len(data))
		}
		tlvType := TLVType(binary.BigEndian.Uint16(data[0:2]))
		valueLen := int(binary.BigEndian.Uint16(data[2:4]))

		tlvData, _, err := splitBytes(data, TLVHeaderLength+valueLen, fmt.Sprintf("%s TLV 0x%04x", context, uint16(tlvType)))
		if err != nil {
			return nil, err
		}
		_, rest, err := splitBytes(data, PaddedLength(TLVHeaderLength+valueLen), fmt.Sprintf("%s TLV 0x%04x padding", context, uint16(tlvType)))
		if err != nil {
			return nil, err
		}

		var tlv TLVInterface
		if createTLV, found := registry[tlvType]; found {
			tlv = createTLV()
		} else {
			tlv = &UndefinedTLV{}
		}

		if err := tlv.DecodeFromBytes(tlvData); err != nil {
			return nil, fmt.Errorf("failed to decode TLV type 0x%04x: %w", uint16(tlvType), err)
		}

		tlvs = append(tlvs, tlv)
		data = rest
	}

	return tlvs, nil
}

func DecodeTLV(data []byte) (TLVInterface, error) {
	tlvs, err := decodeTLVs(data, tlvMap, "TLV")
	if err != nil {
		return nil, err
	}
	if len(tlvs) != 1 {
		return nil, newParseError("TLV", "expected exactly one TLV, but found %d", len(tlvs))
	}
	return tlvs[0], nil
}

func DecodeTLVs(data []byte) ([]TLVInterface, error) {
	return decodeTLVs(data, tlvMap, "TLV")
}

func serializeTLVs(tlvs []TLVInterface) []byte {
	buf := make([]byte, 0, tlvsLen(tlvs))
	for _, tlv := range tlvs {
		buf = append(buf, tlv.Serialize()...)
	}
	return buf
}

func tlvsLen(tlvs []TLVInterface) int {
	n := 0
	for _, tlv := range tlvs {
		n += int(tlv.Len())
	}
	return n
}

type tlvArray []TLVInterface

func (a tlvArray) MarshalLogArray(enc zapcore.ArrayEncoder) error {
	for _, tlv := range a {
		if err := enc.AppendObject(tlv); err != nil {
			return err
		}
	}
	return nil
}

// addrBytes returns the n-byte form of addr, zero-filled when addr is unset
// or belongs to the other address family.
func addrBytes(addr netip.Addr, n int) []byte {
	b := make([]byte, n)
	if !addr.IsValid() {
		return b
	}
	if n == 4 {
		addr = addr.Unmap()
		if addr.Is4() {
			a := addr.As4()
			copy(b, a[:])
		}
		return b
	}
	a := addr.As16()
	copy(b, a[:])
	return b
}
