// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package pcep

import (
	"encoding/binary"
	"encoding/hex"
	"fmt"
	"math"
	"net/netip"

	"go.uber.org/zap/zapcore"
)

// Sub-TLV types nested in the node/link descriptor and attribute TLVs of the
// LS object. The code space is distinct from the object-level TLV types.
const (
	LSSubTLVAutonomousSystem       TLVType = 0x01
	LSSubTLVBGPLSIdentifier        TLVType = 0x02
	LSSubTLVOSPFAreaID             TLVType = 0x03
	LSSubTLVIGPRouterID            TLVType = 0x04
	LSSubTLVLinkLocalRemoteID      TLVType = 0x06
	LSSubTLVIPv4InterfaceAddress   TLVType = 0x07
	LSSubTLVIPv4NeighborAddress    TLVType = 0x08
	LSSubTLVIPv6InterfaceAddress   TLVType = 0x09
	LSSubTLVIPv6NeighborAddress    TLVType = 0x0a
	LSSubTLVNodeFlagBits           TLVType = 0x0d
	LSSubTLVOpaqueNodeAttribute    TLVType = 0x0e
	LSSubTLVNodeName               TLVType = 0x0f
	LSSubTLVISISAreaID             TLVType = 0x10
	LSSubTLVIPv4RouterIDLocal      TLVType = 0x11
	LSSubTLVIPv6RouterIDLocal      TLVType = 0x12
	LSSubTLVIPv4RouterIDRemote     TLVType = 0x13
	LSSubTLVIPv6RouterIDRemote     TLVType = 0x14
	LSSubTLVAdministrativeGroup    TLVType = 0x16
	LSSubTLVMaxLinkBandwidth       TLVType = 0x17
	LSSubTLVMaxReservableBandwidth TLVType = 0x18
	LSSubTLVUnreservedBandwidth    TLVType = 0x19
	LSSubTLVTEDefaultMetric        TLVType = 0x1a
	LSSubTLVLinkProtectionType     TLVType = 0x1b
	LSSubTLVMPLSProtocolMask       TLVType = 0x1c
	LSSubTLVIGPMetric              TLVType = 0x1d
	LSSubTLVSharedRiskLinkGroup    TLVType = 0x1e
	LSSubTLVOpaqueLinkAttribute    TLVType = 0x1f
	LSSubTLVLinkName               TLVType = 0x20
)

var lsSubTLVNames = map[TLVType]string{
	LSSubTLVAutonomousSystem:       "AUTONOMOUS-SYSTEM",
	LSSubTLVBGPLSIdentifier:        "BGP-LS-IDENTIFIER",
	LSSubTLVOSPFAreaID:             "OSPF-AREA-ID",
	LSSubTLVIGPRouterID:            "IGP-ROUTER-ID",
	LSSubTLVLinkLocalRemoteID:      "LINK-LOCAL-REMOTE-IDENTIFIERS",
	LSSubTLVIPv4InterfaceAddress:   "IPV4-INTERFACE-ADDRESS",
	LSSubTLVIPv4NeighborAddress:    "IPV4-NEIGHBOR-ADDRESS",
	LSSubTLVIPv6InterfaceAddress:   "IPV6-INTERFACE-ADDRESS",
	LSSubTLVIPv6NeighborAddress:    "IPV6-NEIGHBOR-ADDRESS",
	LSSubTLVNodeFlagBits:           "NODE-FLAG-BITS",
	LSSubTLVOpaqueNodeAttribute:    "OPAQUE-NODE-ATTRIBUTE",
	LSSubTLVNodeName:               "NODE-NAME",
	LSSubTLVISISAreaID:             "ISIS-AREA-ID",
	LSSubTLVIPv4RouterIDLocal:      "IPV4-ROUTER-ID-OF-LOCAL-NODE",
	LSSubTLVIPv6RouterIDLocal:      "IPV6-ROUTER-ID-OF-LOCAL-NODE",
	LSSubTLVIPv4RouterIDRemote:     "IPV4-ROUTER-ID-OF-REMOTE-NODE",
	LSSubTLVIPv6RouterIDRemote:     "IPV6-ROUTER-ID-OF-REMOTE-NODE",
	LSSubTLVAdministrativeGroup:    "ADMINISTRATIVE-GROUP",
	LSSubTLVMaxLinkBandwidth:       "MAXIMUM-LINK-BANDWIDTH",
	LSSubTLVMaxReservableBandwidth: "MAXIMUM-RESERVABLE-BANDWIDTH",
	LSSubTLVUnreservedBandwidth:    "UNRESERVED-BANDWIDTH",
	LSSubTLVTEDefaultMetric:        "TE-DEFAULT-METRIC",
	LSSubTLVLinkProtectionType:     "LINK-PROTECTION-TYPE",
	LSSubTLVMPLSProtocolMask:       "MPLS-PROTOCOL-MASK",
	LSSubTLVIGPMetric:              "IGP-METRIC",
	LSSubTLVSharedRiskLinkGroup:    "SHARED-RISK-LINK-GROUP",
	LSSubTLVOpaqueLinkAttribute:    "OPAQUE-LINK-ATTRIBUTE",
	LSSubTLVLinkName:               "LINK-NAME",
}

// LSSubTLVName names a sub-TLV code of the LS descriptor and attribute TLVs.
func LSSubTLVName(t TLVType) string {
	if name, ok := lsSubTLVNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Unknown LS sub-TLV (0x%04x)", uint16(t))
}

var lsSubTLVMap = tlvRegistry{
	LSSubTLVAutonomousSystem:       func() TLVInterface { return &LSUint32SubTLV{Typ: LSSubTLVAutonomousSystem} },
	LSSubTLVBGPLSIdentifier:        func() TLVInterface { return &LSUint32SubTLV{Typ: LSSubTLVBGPLSIdentifier} },
	LSSubTLVOSPFAreaID:             func() TLVInterface { return &LSUint32SubTLV{Typ: LSSubTLVOSPFAreaID} },
	LSSubTLVIGPRouterID:            func() TLVInterface { return &LSOpaqueSubTLV{Typ: LSSubTLVIGPRouterID} },
	LSSubTLVLinkLocalRemoteID:      func() TLVInterface { return &LinkLocalRemoteIdentifiers{} },
	LSSubTLVIPv4InterfaceAddress:   func() TLVInterface { return &LSAddressSubTLV{Typ: LSSubTLVIPv4InterfaceAddress} },
	LSSubTLVIPv4NeighborAddress:    func() TLVInterface { return &LSAddressSubTLV{Typ: LSSubTLVIPv4NeighborAddress} },
	LSSubTLVIPv6InterfaceAddress:   func() TLVInterface { return &LSAddressSubTLV{Typ: LSSubTLVIPv6InterfaceAddress} },
	LSSubTLVIPv6NeighborAddress:    func() TLVInterface { return &LSAddressSubTLV{Typ: LSSubTLVIPv6NeighborAddress} },
	LSSubTLVNodeFlagBits:           func() TLVInterface { return &LSUint8SubTLV{Typ: LSSubTLVNodeFlagBits} },
	LSSubTLVOpaqueNodeAttribute:    func() TLVInterface { return &LSOpaqueSubTLV{Typ: LSSubTLVOpaqueNodeAttribute} },
	LSSubTLVNodeName:               func() TLVInterface { return &LSOpaqueSubTLV{Typ: LSSubTLVNodeName} },
	LSSubTLVISISAreaID:             func() TLVInterface { return &LSOpaqueSubTLV{Typ: LSSubTLVISISAreaID} },
	LSSubTLVIPv4RouterIDLocal:      func() TLVInterface { return &LSAddressSubTLV{Typ: LSSubTLVIPv4RouterIDLocal} },
	LSSubTLVIPv6RouterIDLocal:      func() TLVInterface { return &LSAddressSubTLV{Typ: LSSubTLVIPv6RouterIDLocal} },
	LSSubTLVIPv4RouterIDRemote:     func() TLVInterface { return &LSAddressSubTLV{Typ: LSSubTLVIPv4RouterIDRemote} },
	LSSubTLVIPv6RouterIDRemote:     func() TLVInterface { return &LSAddressSubTLV{Typ: LSSubTLVIPv6RouterIDRemote} },
	LSSubTLVAdministrativeGroup:    func() TLVInterface { return &LSUint32SubTLV{Typ: LSSubTLVAdministrativeGroup} },
	LSSubTLVMaxLinkBandwidth:       func() TLVInterface { return &LSUint32SubTLV{Typ: LSSubTLVMaxLinkBandwidth} },
	LSSubTLVMaxReservableBandwidth: func() TLVInterface { return &LSUint32SubTLV{Typ: LSSubTLVMaxReservableBandwidth} },
	LSSubTLVUnreservedBandwidth:    func() TLVInterface { return &LSUint32ListSubTLV{Typ: LSSubTLVUnreservedBandwidth} },
	LSSubTLVTEDefaultMetric:        func() TLVInterface { return &LSUint32SubTLV{Typ: LSSubTLVTEDefaultMetric} },
	LSSubTLVLinkProtectionType:     func() TLVInterface { return &LinkProtectionType{} },
	LSSubTLVMPLSProtocolMask:       func() TLVInterface { return &LSUint8SubTLV{Typ: LSSubTLVMPLSProtocolMask} },
	LSSubTLVIGPMetric:              func() TLVInterface { return &LSOpaqueSubTLV{Typ: LSSubTLVIGPMetric} },
	LSSubTLVSharedRiskLinkGroup:    func() TLVInterface { return &LSUint32ListSubTLV{Typ: LSSubTLVSharedRiskLinkGroup} },
	LSSubTLVOpaqueLinkAttribute:    func() TLVInterface { return &LSOpaqueSubTLV{Typ: LSSubTLVOpaqueLinkAttribute} },
	LSSubTLVLinkName:               func() TLVInterface { return &LSOpaqueSubTLV{Typ: LSSubTLVLinkName} },
}

// DecodeLSSubTLVs decodes the sub-TLV sequence of an LS container TLV.
func DecodeLSSubTLVs(data []byte) ([]TLVInterface, error) {
	return decodeTLVs(data, lsSubTLVMap, "LS sub-TLV")
}

// RoutingUniverse identifies the routing domain an LS object describes.
type RoutingUniverse struct {
	Identifier uint64
}

// Well-known routing universe identifiers (RFC7752)
const (
	RoutingUniverseDefaultLayer3 uint64 = 0
	RoutingUniverseOpticalLayer1 uint64 = 1
)

func (tlv *RoutingUniverse) DecodeFromBytes(data []byte) error {
	value, err := fixedTLVValue(data, TLVRoutingUniverseValueLength, "RoutingUniverse")
	if err != nil {
		return err
	}

	tlv.Identifier = binary.BigEndian.Uint64(value)
	return nil
}

func (tlv *RoutingUniverse) Serialize() []byte {
	return serializeTLV(tlv.Type(), Uint64ToByteSlice(tlv.Identifier))
}

func (tlv *RoutingUniverse) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint64("routingUniverse", tlv.Identifier)
	return nil
}

func (tlv *RoutingUniverse) Type() TLVType {
	return TLVRoutingUniverse
}

func (tlv *RoutingUniverse) Len() uint16 {
	return TLVHeaderLength + TLVRoutingUniverseValueLength
}

func NewRoutingUniverse(id uint64) *RoutingUniverse {
	return &RoutingUniverse{Identifier: id}
}

// LSContainerTLV is one of the local/remote node descriptors, link
// descriptors, node attributes or link attributes TLVs. Its value is a
// sequence of sub-TLVs, each padded to 4 bytes.
type LSContainerTLV struct {
	Typ     TLVType
	SubTLVs []TLVInterface
}

func (tlv *LSContainerTLV) DecodeFromBytes(data []byte) error {
	value, err := tlvValue(data, tlv.Typ.String())
	if err != nil {
		return err
	}

	tlv.Typ = TLVType(binary.BigEndian.Uint16(data[0:2]))
	subTLVs, err := DecodeLSSubTLVs(value)
	if err != nil {
		return fmt.Errorf("failed to decode %s: %w", tlv.Typ, err)
	}
	tlv.SubTLVs = subTLVs
	return nil
}

func (tlv *LSContainerTLV) Serialize() []byte {
	return serializeTLV(tlv.Typ, serializeTLVs(tlv.SubTLVs))
}

func (tlv *LSContainerTLV) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("type", tlv.Typ.String())
	return enc.AddArray("subTLVs", tlvArray(tlv.SubTLVs))
}

func (tlv *LSContainerTLV) Type() TLVType {
	return tlv.Typ
}

func (tlv *LSContainerTLV) Len() uint16 {
	return tlvLen(tlvsLen(tlv.SubTLVs))
}

// SubTLV returns the first sub-TLV of the given type.
func (tlv *LSContainerTLV) SubTLV(typ TLVType) (TLVInterface, bool) {
	for _, sub := range tlv.SubTLVs {
		if sub.Type() == typ {
			return sub, true
		}
	}
	return nil, false
}

func NewLocalNodeDescriptors(subTLVs ...TLVInterface) *LSContainerTLV {
	return &LSContainerTLV{Typ: TLVLocalNodeDescriptors, SubTLVs: subTLVs}
}

func NewRemoteNodeDescriptors(subTLVs ...TLVInterface) *LSContainerTLV {
	return &LSContainerTLV{Typ: TLVRemoteNodeDescriptors, SubTLVs: subTLVs}
}

func NewLinkDescriptors(subTLVs ...TLVInterface) *LSContainerTLV {
	return &LSContainerTLV{Typ: TLVLinkDescriptors, SubTLVs: subTLVs}
}

func NewNodeAttributes(subTLVs ...TLVInterface) *LSContainerTLV {
	return &LSContainerTLV{Typ: TLVNodeAttributes, SubTLVs: subTLVs}
}

func NewLinkAttributes(subTLVs ...TLVInterface) *LSContainerTLV {
	return &LSContainerTLV{Typ: TLVLinkAttributes, SubTLVs: subTLVs}
}

// LSUint32SubTLV carries a single 32-bit value: AS number, BGP-LS
// identifier, OSPF area, administrative group, bandwidths and TE metric.
type LSUint32SubTLV struct {
	Typ   TLVType
	Value uint32
}

func (tlv *LSUint32SubTLV) DecodeFromBytes(data []byte) error {
	value, err := fixedTLVValue(data, 4, LSSubTLVName(tlv.Typ))
	if err != nil {
		return err
	}

	tlv.Typ = TLVType(binary.BigEndian.Uint16(data[0:2]))
	tlv.Value = binary.BigEndian.Uint32(value)
	return nil
}

func (tlv *LSUint32SubTLV) Serialize() []byte {
	return serializeTLV(tlv.Typ, Uint32ToByteSlice(tlv.Value))
}

func (tlv *LSUint32SubTLV) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("type", LSSubTLVName(tlv.Typ))
	enc.AddUint32("value", tlv.Value)
	return nil
}

func (tlv *LSUint32SubTLV) Type() TLVType {
	return tlv.Typ
}

func (tlv *LSUint32SubTLV) Len() uint16 {
	return TLVHeaderLength + 4
}

// Bandwidth interprets the value as an IEEE 754 float in bytes per second.
func (tlv *LSUint32SubTLV) Bandwidth() float32 {
	return math.Float32frombits(tlv.Value)
}

func NewLSUint32SubTLV(typ TLVType, value uint32) *LSUint32SubTLV {
	return &LSUint32SubTLV{Typ: typ, Value: value}
}

// LSUint8SubTLV carries a one-byte flag field: node flag bits and MPLS protocol mask.
type LSUint8SubTLV struct {
	Typ   TLVType
	Value uint8
}

func (tlv *LSUint8SubTLV) DecodeFromBytes(data []byte) error {
	value, err := fixedTLVValue(data, 1, LSSubTLVName(tlv.Typ))
	if err != nil {
		return err
	}

	tlv.Typ = TLVType(binary.BigEndian.Uint16(data[0:2]))
	tlv.Value = value[0]
	return nil
}

func (tlv *LSUint8SubTLV) Serialize() []byte {
	return serializeTLV(tlv.Typ, []byte{tlv.Value})
}

func (tlv *LSUint8SubTLV) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("type", LSSubTLVName(tlv.Typ))
	enc.AddUint8("value", tlv.Value)
	return nil
}

func (tlv *LSUint8SubTLV) Type() TLVType {
	return tlv.Typ
}

func (tlv *LSUint8SubTLV) Len() uint16 {
	return tlvLen(1)
}

func NewLSUint8SubTLV(typ TLVType, value uint8) *LSUint8SubTLV {
	return &LSUint8SubTLV{Typ: typ, Value: value}
}

// LSUint32ListSubTLV carries a list of 32-bit values: unreserved bandwidth
// per priority and shared risk link groups.
type LSUint32ListSubTLV struct {
	Typ    TLVType
	Values []uint32
}

func (tlv *LSUint32ListSubTLV) DecodeFromBytes(data []byte) error {
	value, err := tlvValue(data, LSSubTLVName(tlv.Typ))
	if err != nil {
		return err
	}
	if len(value)%4 != 0 {
		return newParseError(LSSubTLVName(tlv.Typ), "length %d is not a multiple of 4", len(value))
	}

	tlv.Typ = TLVType(binary.BigEndian.Uint16(data[0:2]))
	tlv.Values = make([]uint32, 0, len(value)/4)
	for i := 0; i < len(value); i += 4 {
		tlv.Values = append(tlv.Values, binary.BigEndian.Uint32(value[i:i+4]))
	}
	return nil
}

func (tlv *LSUint32ListSubTLV) Serialize() []byte {
	value := make([]byte, 0, 4*len(tlv.Values))
	for _, v := range tlv.Values {
		value = binary.BigEndian.AppendUint32(value, v)
	}
	return serializeTLV(tlv.Typ, value)
}

func (tlv *LSUint32ListSubTLV) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("type", LSSubTLVName(tlv.Typ))
	return enc.AddArray("values", zapcore.ArrayMarshalerFunc(func(ae zapcore.ArrayEncoder) error {
		for _, v := range tlv.Values {
			ae.AppendUint32(v)
		}
		return nil
	}))
}

func (tlv *LSUint32ListSubTLV) Type() TLVType {
	return tlv.Typ
}

func (tlv *LSUint32ListSubTLV) Len() uint16 {
	return tlvLen(4 * len(tlv.Values))
}

func NewLSUint32ListSubTLV(typ TLVType, values ...uint32) *LSUint32ListSubTLV {
	return &LSUint32ListSubTLV{Typ: typ, Values: values}
}

// LSAddressSubTLV carries an interface, neighbor or router-ID address. The
// IPv4 codes require 4 bytes and the IPv6 codes 16 bytes.
type LSAddressSubTLV struct {
	Typ     TLVType
	Address netip.Addr
}

func lsAddressLength(typ TLVType) int {
	switch typ {
	case LSSubTLVIPv6InterfaceAddress, LSSubTLVIPv6NeighborAddress, LSSubTLVIPv6RouterIDLocal, LSSubTLVIPv6RouterIDRemote:
		return 16
	}
	return 4
}

func (tlv *LSAddressSubTLV) DecodeFromBytes(data []byte) error {
	if len(data) >= 2 {
		tlv.Typ = TLVType(binary.BigEndian.Uint16(data[0:2]))
	}
	value, err := fixedTLVValue(data, uint16(lsAddressLength(tlv.Typ)), LSSubTLVName(tlv.Typ))
	if err != nil {
		return err
	}

	tlv.Address, _ = netip.AddrFromSlice(value)
	return nil
}

func (tlv *LSAddressSubTLV) Serialize() []byte {
	return serializeTLV(tlv.Typ, addrBytes(tlv.Address, lsAddressLength(tlv.Typ)))
}

func (tlv *LSAddressSubTLV) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("type", LSSubTLVName(tlv.Typ))
	enc.AddString("address", tlv.Address.String())
	return nil
}

func (tlv *LSAddressSubTLV) Type() TLVType {
	return tlv.Typ
}

func (tlv *LSAddressSubTLV) Len() uint16 {
	return tlvLen(lsAddressLength(tlv.Typ))
}

func NewLSAddressSubTLV(typ TLVType, addr netip.Addr) *LSAddressSubTLV {
	return &LSAddressSubTLV{Typ: typ, Address: addr}
}

// LSOpaqueSubTLV keeps variable-length sub-TLVs as raw bytes: IGP router ID,
// IS-IS area, node and link names, IGP metric and opaque attributes.
type LSOpaqueSubTLV struct {
	Typ   TLVType
	Value []byte
}

func (tlv *LSOpaqueSubTLV) DecodeFromBytes(data []byte) error {
	value, err := tlvValue(data, LSSubTLVName(tlv.Typ))
	if err != nil {
		return err
	}

	tlv.Typ = TLVType(binary.BigEndian.Uint16(data[0:2]))
	tlv.Value = cloneBytes(value)
	return nil
}

func (tlv *LSOpaqueSubTLV) Serialize() []byte {
	return serializeTLV(tlv.Typ, tlv.Value)
}

func (tlv *LSOpaqueSubTLV) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("type", LSSubTLVName(tlv.Typ))
	enc.AddString("value", hex.EncodeToString(tlv.Value))
	return nil
}

func (tlv *LSOpaqueSubTLV) Type() TLVType {
	return tlv.Typ
}

func (tlv *LSOpaqueSubTLV) Len() uint16 {
	return tlvLen(len(tlv.Value))
}

// Uint reads up to the first 8 bytes of the value as a big-endian integer.
// IGP metrics are 1 to 3 bytes long depending on the protocol.
func (tlv *LSOpaqueSubTLV) Uint() uint64 {
	var v uint64
	for i, b := range tlv.Value {
		if i == 8 {
			break
		}
		v = v<<8 | uint64(b)
	}
	return v
}

func NewLSOpaqueSubTLV(typ TLVType, value []byte) *LSOpaqueSubTLV {
	return &LSOpaqueSubTLV{Typ: typ, Value: cloneBytes(value)}
}

type LinkLocalRemoteIdentifiers struct {
	LocalIdentifier  uint32
	RemoteIdentifier uint32
}

func (tlv *LinkLocalRemoteIdentifiers) DecodeFromBytes(data []byte) error {
	value, err := fixedTLVValue(data, 8, "LinkLocalRemoteIdentifiers")
	if err != nil {
		return err
	}

	tlv.LocalIdentifier = binary.BigEndian.Uint32(value[0:4])
	tlv.RemoteIdentifier = binary.BigEndian.Uint32(value[4:8])
	return nil
}

func (tlv *LinkLocalRemoteIdentifiers) Serialize() []byte {
	return serializeTLV(tlv.Type(), AppendByteSlices(
		Uint32ToByteSlice(tlv.LocalIdentifier),
		Uint32ToByteSlice(tlv.RemoteIdentifier),
	))
}

func (tlv *LinkLocalRemoteIdentifiers) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint32("localIdentifier", tlv.LocalIdentifier)
	enc.AddUint32("remoteIdentifier", tlv.RemoteIdentifier)
	return nil
}

func (tlv *LinkLocalRemoteIdentifiers) Type() TLVType {
	return LSSubTLVLinkLocalRemoteID
}

func (tlv *LinkLocalRemoteIdentifiers) Len() uint16 {
	return TLVHeaderLength + 8
}

func NewLinkLocalRemoteIdentifiers(local, remote uint32) *LinkLocalRemoteIdentifiers {
	return &LinkLocalRemoteIdentifiers{LocalIdentifier: local, RemoteIdentifier: remote}
}

// LinkProtectionType carries the protection capabilities byte followed by a reserved byte.
type LinkProtectionType struct {
	Capabilities uint8
	Reserved     uint8
}

func (tlv *LinkProtectionType) DecodeFromBytes(data []byte) error {
	value, err := fixedTLVValue(data, 2, "LinkProtectionType")
	if err != nil {
		return err
	}

	tlv.Capabilities = value[0]
	tlv.Reserved = value[1]
	return nil
}

func (tlv *LinkProtectionType) Serialize() []byte {
	return serializeTLV(tlv.Type(), []byte{tlv.Capabilities, tlv.Reserved})
}

func (tlv *LinkProtectionType) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddUint8("protectionCapabilities", tlv.Capabilities)
	return nil
}

func (tlv *LinkProtectionType) Type() TLVType {
	return LSSubTLVLinkProtectionType
}

func (tlv *LinkProtectionType) Len() uint16 {
	return tlvLen(2)
}

func NewLinkProtectionType(capabilities uint8) *LinkProtectionType {
	return &LinkProtectionType{Capabilities: capabilities}
}
