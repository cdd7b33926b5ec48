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

	"go.uber.org/zap/zapcore"
)

type SubobjectType uint8

// ERO/RRO subobject types (RFC3209 4.3.3, RFC3477, RFC8664, RFC9603)
const (
	SubobjectTypeIPv4Prefix SubobjectType = 0x01
	SubobjectTypeIPv6Prefix SubobjectType = 0x02
	SubobjectTypeLabel      SubobjectType = 0x03
	SubobjectTypeUnnumbered SubobjectType = 0x04
	SubobjectTypeASNumber   SubobjectType = 0x20
	SubobjectTypeSR         SubobjectType = 0x24
	SubobjectTypeSRv6       SubobjectType = 0x28
)

const (
	subobjectHeaderLength           = 2
	subobjectLooseFlag        uint8 = 0x80
	subobjectTypeMask         uint8 = 0x7f
	subobjectIPv4PrefixLength       = 8
	subobjectIPv6PrefixLength       = 20
	subobjectUnnumberedLength       = 12
	subobjectASNumberLength         = 4
)

var subobjectTypeNames = map[SubobjectType]string{
	SubobjectTypeIPv4Prefix: "IPv4 prefix",
	SubobjectTypeIPv6Prefix: "IPv6 prefix",
	SubobjectTypeLabel:      "Label",
	SubobjectTypeUnnumbered: "Unnumbered Interface ID",
	SubobjectTypeASNumber:   "Autonomous system number",
	SubobjectTypeSR:         "SR-ERO",
	SubobjectTypeSRv6:       "SRv6-ERO",
}

func (t SubobjectType) String() string {
	if name, ok := subobjectTypeNames[t]; ok {
		return name
	}
	return fmt.Sprintf("Unknown Subobject (0x%02x)", uint8(t))
}

// Subobject is one hop of an ERO or RRO. Unlike TLVs, subobjects are not
// padded and their length byte covers the 2-byte header.
type Subobject interface {
	DecodeFromBytes(subObj []uint8) error
	Serialize() []uint8
	Len() uint8
	Type() SubobjectType
	MarshalLogObject(enc zapcore.ObjectEncoder) error
}

var subobjectMap = map[SubobjectType]func() Subobject{
	SubobjectTypeIPv4Prefix: func() Subobject { return &IPv4PrefixSubobject{} },
	SubobjectTypeIPv6Prefix: func() Subobject { return &IPv6PrefixSubobject{} },
	SubobjectTypeLabel:      func() Subobject { return &LabelSubobject{} },
	SubobjectTypeUnnumbered: func() Subobject { return &UnnumberedSubobject{} },
	SubobjectTypeASNumber:   func() Subobject { return &ASNumberSubobject{} },
	SubobjectTypeSR:         func() Subobject { return &SREROSubobject{} },
	SubobjectTypeSRv6:       func() Subobject { return &SRv6Subobject{} },
}

func decodeSubobjects(data []uint8, context string) ([]Subobject, error) {
	var subobjects []Subobject
	for len(data) > 0 {
		if len(data) < subobjectHeaderLength {
			return nil, newOutOfBoundError(context+" subobject header", subobjectHeaderLength, len(data))
		}
		typ := SubobjectType(data[0] & subobjectTypeMask)
		length := int(data[1])
		if length < subobjectHeaderLength {
			return nil, newParseError(context, "%s subobject length %d is shorter than its header", typ, length)
		}
		subObj, rest, err := splitBytes(data, length, fmt.Sprintf("%s %s subobject", context, typ))
		if err != nil {
			return nil, err
		}

		var subobject Subobject
		if createSubobject, found := subobjectMap[typ]; found {
			subobject = createSubobject()
		} else {
			subobject = &UndefinedSubobject{}
		}
		if err := subobject.DecodeFromBytes(subObj); err != nil {
			return nil, fmt.Errorf("failed to decode %s subobject: %w", typ, err)
		}
		subobjects = append(subobjects, subobject)
		data = rest
	}
	return subobjects, nil
}

func serializeSubobjects(subobjects []Subobject) []uint8 {
	buf := make([]uint8, 0, subobjectsLen(subobjects))
	for _, s := range subobjects {
		buf = append(buf, s.Serialize()...)
	}
	return buf
}

func subobjectsLen(subobjects []Subobject) int {
	n := 0
	for _, s := range subobjects {
		n += int(s.Len())
	}
	return n
}

func subobjectHeader(loose bool, typ SubobjectType, length uint8) []uint8 {
	return []uint8{SetBit(uint8(typ), subobjectLooseFlag, loose), length}
}

func checkSubobjectLength(typ SubobjectType, subObj []uint8, length int) error {
	if len(subObj) != length {
		return newParseError(typ.String()+" subobject", "length mismatch: expected %d bytes, but got %d bytes", length, len(subObj))
	}
	return nil
}

type subobjectArray []Subobject

func (a subobjectArray) MarshalLogArray(enc zapcore.ArrayEncoder) error {
	for _, s := range a {
		if err := enc.AppendObject(s); err != nil {
			return err
		}
	}
	return nil
}

// IPv4 prefix subobject (RFC3209 4.3.3.3)
type IPv4PrefixSubobject struct {
	LFlag     bool
	Address   netip.Addr
	PrefixLen uint8
	Flags     uint8
}

func (o *IPv4PrefixSubobject) DecodeFromBytes(subObj []uint8) error {
	if err := checkSubobjectLength(SubobjectTypeIPv4Prefix, subObj, subobjectIPv4PrefixLength); err != nil {
		return err
	}
	o.LFlag = IsBitSet(subObj[0], subobjectLooseFlag)
	o.Address, _ = netip.AddrFromSlice(subObj[2:6])
	o.PrefixLen = subObj[6]
	o.Flags = subObj[7]
	return nil
}

func (o *IPv4PrefixSubobject) Serialize() []uint8 {
	return AppendByteSlices(
		subobjectHeader(o.LFlag, o.Type(), o.Len()),
		addrBytes(o.Address, 4),
		[]uint8{o.PrefixLen, o.Flags},
	)
}

func (o *IPv4PrefixSubobject) Len() uint8 { return subobjectIPv4PrefixLength }

func (o *IPv4PrefixSubobject) Type() SubobjectType { return SubobjectTypeIPv4Prefix }

func (o *IPv4PrefixSubobject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("type", o.Type().String())
	enc.AddBool("loose", o.LFlag)
	enc.AddString("prefix", fmt.Sprintf("%s/%d", o.Address, o.PrefixLen))
	return nil
}

func NewIPv4PrefixSubobject(addr netip.Addr, prefixLen uint8, loose bool) *IPv4PrefixSubobject {
	return &IPv4PrefixSubobject{LFlag: loose, Address: addr, PrefixLen: prefixLen}
}

// IPv6 prefix subobject (RFC3209 4.3.3.4)
type IPv6PrefixSubobject struct {
	LFlag     bool
	Address   netip.Addr
	PrefixLen uint8
	Flags     uint8
}

func (o *IPv6PrefixSubobject) DecodeFromBytes(subObj []uint8) error {
	if err := checkSubobjectLength(SubobjectTypeIPv6Prefix, subObj, subobjectIPv6PrefixLength); err != nil {
		return err
	}
	o.LFlag = IsBitSet(subObj[0], subobjectLooseFlag)
	o.Address, _ = netip.AddrFromSlice(subObj[2:18])
	o.PrefixLen = subObj[18]
	o.Flags = subObj[19]
	return nil
}

func (o *IPv6PrefixSubobject) Serialize() []uint8 {
	return AppendByteSlices(
		subobjectHeader(o.LFlag, o.Type(), o.Len()),
		addrBytes(o.Address, 16),
		[]uint8{o.PrefixLen, o.Flags},
	)
}

func (o *IPv6PrefixSubobject) Len() uint8 { return subobjectIPv6PrefixLength }

func (o *IPv6PrefixSubobject) Type() SubobjectType { return SubobjectTypeIPv6Prefix }

func (o *IPv6PrefixSubobject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("type", o.Type().String())
	enc.AddBool("loose", o.LFlag)
	enc.AddString("prefix", fmt.Sprintf("%s/%d", o.Address, o.PrefixLen))
	return nil
}

func NewIPv6PrefixSubobject(addr netip.Addr, prefixLen uint8, loose bool) *IPv6PrefixSubobject {
	return &IPv6PrefixSubobject{LFlag: loose, Address: addr, PrefixLen: prefixLen}
}

// Label subobject (RFC3473 5.1.1). The label is kept as raw bytes since
// its size depends on the C-Type.
type LabelSubobject struct {
	LFlag bool
	UFlag bool
	Flags uint8
	CType uint8
	Label []uint8
}

const (
	labelSubobjectFixedLength       = 4
	labelSubobjectUFlag       uint8 = 0x80
	labelSubobjectFlagsMask   uint8 = 0x7f
)

func (o *LabelSubobject) DecodeFromBytes(subObj []uint8) error {
	if len(subObj) < labelSubobjectFixedLength {
		return newParseError(SubobjectTypeLabel.String()+" subobject", "length %d is shorter than %d bytes", len(subObj), labelSubobjectFixedLength)
	}
	o.LFlag = IsBitSet(subObj[0], subobjectLooseFlag)
	o.UFlag = IsBitSet(subObj[2], labelSubobjectUFlag)
	o.Flags = subObj[2] & labelSubobjectFlagsMask
	o.CType = subObj[3]
	o.Label = cloneBytes(subObj[labelSubobjectFixedLength:])
	return nil
}

func (o *LabelSubobject) Serialize() []uint8 {
	flags := SetBit(o.Flags&labelSubobjectFlagsMask, labelSubobjectUFlag, o.UFlag)
	return AppendByteSlices(
		subobjectHeader(o.LFlag, o.Type(), o.Len()),
		[]uint8{flags, o.CType},
		o.Label,
	)
}

func (o *LabelSubobject) Len() uint8 { return uint8(labelSubobjectFixedLength + len(o.Label)) }

func (o *LabelSubobject) Type() SubobjectType { return SubobjectTypeLabel }

func (o *LabelSubobject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("type", o.Type().String())
	enc.AddBool("upstream", o.UFlag)
	enc.AddUint8("cType", o.CType)
	enc.AddString("label", hex.EncodeToString(o.Label))
	return nil
}

// NewLabelSubobject returns a generalized label subobject (C-Type 1) for a 32-bit label.
func NewLabelSubobject(label uint32, upstream bool) *LabelSubobject {
	return &LabelSubobject{UFlag: upstream, CType: 1, Label: Uint32ToByteSlice(label)}
}

// Unnumbered interface ID subobject (RFC3477 4)
type UnnumberedSubobject struct {
	LFlag       bool
	Reserved    uint16
	RouterID    netip.Addr
	InterfaceID uint32
}

func (o *UnnumberedSubobject) DecodeFromBytes(subObj []uint8) error {
	if err := checkSubobjectLength(SubobjectTypeUnnumbered, subObj, subobjectUnnumberedLength); err != nil {
		return err
	}
	o.LFlag = IsBitSet(subObj[0], subobjectLooseFlag)
	o.Reserved = binary.BigEndian.Uint16(subObj[2:4])
	o.RouterID, _ = netip.AddrFromSlice(subObj[4:8])
	o.InterfaceID = binary.BigEndian.Uint32(subObj[8:12])
	return nil
}

func (o *UnnumberedSubobject) Serialize() []uint8 {
	return AppendByteSlices(
		subobjectHeader(o.LFlag, o.Type(), o.Len()),
		Uint16ToByteSlice(o.Reserved),
		addrBytes(o.RouterID, 4),
		Uint32ToByteSlice(o.InterfaceID),
	)
}

func (o *UnnumberedSubobject) Len() uint8 { return subobjectUnnumberedLength }

func (o *UnnumberedSubobject) Type() SubobjectType { return SubobjectTypeUnnumbered }

func (o *UnnumberedSubobject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("type", o.Type().String())
	enc.AddBool("loose", o.LFlag)
	enc.AddString("routerID", o.RouterID.String())
	enc.AddUint32("interfaceID", o.InterfaceID)
	return nil
}

func NewUnnumberedSubobject(routerID netip.Addr, interfaceID uint32, loose bool) *UnnumberedSubobject {
	return &UnnumberedSubobject{LFlag: loose, RouterID: routerID, InterfaceID: interfaceID}
}

// Autonomous system number subobject (RFC3209 4.3.3.5)
type ASNumberSubobject struct {
	LFlag    bool
	ASNumber uint16
}

func (o *ASNumberSubobject) DecodeFromBytes(subObj []uint8) error {
	if err := checkSubobjectLength(SubobjectTypeASNumber, subObj, subobjectASNumberLength); err != nil {
		return err
	}
	o.LFlag = IsBitSet(subObj[0], subobjectLooseFlag)
	o.ASNumber = binary.BigEndian.Uint16(subObj[2:4])
	return nil
}

func (o *ASNumberSubobject) Serialize() []uint8 {
	return AppendByteSlices(subobjectHeader(o.LFlag, o.Type(), o.Len()), Uint16ToByteSlice(o.ASNumber))
}

func (o *ASNumberSubobject) Len() uint8 { return subobjectASNumberLength }

func (o *ASNumberSubobject) Type() SubobjectType { return SubobjectTypeASNumber }

func (o *ASNumberSubobject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("type", o.Type().String())
	enc.AddBool("loose", o.LFlag)
	enc.AddUint16("asNumber", o.ASNumber)
	return nil
}

// NAI types of the SR-ERO subobject (RFC8664 4.3.1)
const (
	NAITypeAbsent                 uint8 = 0x00
	NAITypeIPv4Node               uint8 = 0x01
	NAITypeIPv6Node               uint8 = 0x02
	NAITypeIPv4Adjacency          uint8 = 0x03
	NAITypeIPv6AdjacencyGlobal    uint8 = 0x04
	NAITypeUnnumberedAdjacency    uint8 = 0x05
	NAITypeIPv6AdjacencyLinkLocal uint8 = 0x06
)

const SRv6EndpointBehaviorEndWithPSP uint16 = 0x0001

const (
	srSubobjectFixedLength         = 4
	srSubobjectFFlag         uint8 = 0x08
	srSubobjectSFlag         uint8 = 0x04
	srSubobjectCFlag         uint8 = 0x02
	srSubobjectMFlag         uint8 = 0x01
	srv6SubobjectFixedLength       = 8
	srv6SubobjectVFlag       uint8 = 0x08
	srv6SubobjectTFlag       uint8 = 0x04
	srv6SubobjectFFlag       uint8 = 0x02
	srv6SubobjectSFlag       uint8 = 0x01
	srv6SIDLength                  = 16
)

// SR-ERO subobject (RFC8664 4.3.1). The SID is present unless S is set and
// the NAI unless F is set. NAI holds whatever follows the SID verbatim.
type SREROSubobject struct {
	LFlag   bool
	NAIType uint8
	FFlag   bool // NAI is absent
	SFlag   bool // SID is absent
	CFlag   bool // TC, S and TTL of the SID are meaningful
	MFlag   bool // SID is an MPLS label
	SID     uint32
	NAI     []uint8
}

func (o *SREROSubobject) DecodeFromBytes(subObj []uint8) error {
	if len(subObj) < srSubobjectFixedLength {
		return newParseError(SubobjectTypeSR.String()+" subobject", "length %d is shorter than %d bytes", len(subObj), srSubobjectFixedLength)
	}
	o.LFlag = IsBitSet(subObj[0], subobjectLooseFlag)
	o.NAIType = subObj[2] >> 4
	o.FFlag = IsBitSet(subObj[3], srSubobjectFFlag)
	o.SFlag = IsBitSet(subObj[3], srSubobjectSFlag)
	o.CFlag = IsBitSet(subObj[3], srSubobjectCFlag)
	o.MFlag = IsBitSet(subObj[3], srSubobjectMFlag)

	rest := subObj[srSubobjectFixedLength:]
	if !o.SFlag {
		sid, tail, err := splitBytes(rest, 4, SubobjectTypeSR.String()+" SID")
		if err != nil {
			return err
		}
		o.SID = binary.BigEndian.Uint32(sid)
		rest = tail
	}
	o.NAI = cloneBytes(rest)
	return nil
}

func (o *SREROSubobject) Serialize() []uint8 {
	flags := SetBit(uint8(0), srSubobjectFFlag, o.FFlag)
	flags = SetBit(flags, srSubobjectSFlag, o.SFlag)
	flags = SetBit(flags, srSubobjectCFlag, o.CFlag)
	flags = SetBit(flags, srSubobjectMFlag, o.MFlag)
	buf := AppendByteSlices(subobjectHeader(o.LFlag, o.Type(), o.Len()), []uint8{o.NAIType << 4, flags})
	if !o.SFlag {
		buf = append(buf, Uint32ToByteSlice(o.SID)...)
	}
	return append(buf, o.NAI...)
}

func (o *SREROSubobject) Len() uint8 {
	n := srSubobjectFixedLength + len(o.NAI)
	if !o.SFlag {
		n += 4
	}
	return uint8(n)
}

func (o *SREROSubobject) Type() SubobjectType { return SubobjectTypeSR }

func (o *SREROSubobject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("type", o.Type().String())
	enc.AddUint8("naiType", o.NAIType)
	if !o.SFlag {
		if o.MFlag {
			enc.AddUint32("label", o.Label())
		} else {
			enc.AddUint32("sid", o.SID)
		}
	}
	if addr, ok := o.NodeAddr(); ok {
		enc.AddString("nai", addr.String())
	}
	return nil
}

// Label returns the 20-bit MPLS label carried in the SID when M is set.
func (o *SREROSubobject) Label() uint32 {
	return o.SID >> 12
}

// NodeAddr returns the NAI for the IPv4 and IPv6 node NAI types.
func (o *SREROSubobject) NodeAddr() (netip.Addr, bool) {
	switch {
	case o.NAIType == NAITypeIPv4Node && len(o.NAI) == 4,
		o.NAIType == NAITypeIPv6Node && len(o.NAI) == 16:
		return netip.AddrFromSlice(o.NAI)
	}
	return netip.Addr{}, false
}

// NewSREROSubobject returns a strict SR-ERO hop carrying an MPLS label and,
// when nai is valid, the node it belongs to.
func NewSREROSubobject(label uint32, nai netip.Addr) *SREROSubobject {
	o := &SREROSubobject{
		MFlag:   true,
		SID:     label << 12,
		NAIType: NAITypeAbsent,
		FFlag:   true,
	}
	if nai.IsValid() {
		o.FFlag = false
		if nai.Is4() {
			o.NAIType = NAITypeIPv4Node
		} else {
			o.NAIType = NAITypeIPv6Node
		}
		o.NAI = nai.AsSlice()
	}
	return o
}

// SRv6-ERO subobject (RFC9603 4.3.1)
type SRv6Subobject struct {
	LFlag    bool
	NAIType  uint8
	VFlag    bool
	TFlag    bool // SID structure is present
	FFlag    bool // NAI is absent
	SFlag    bool // SID is absent
	Behavior uint16
	SID      netip.Addr
	NAI      []uint8 // NAI and SID structure, verbatim
}

func (o *SRv6Subobject) DecodeFromBytes(subObj []uint8) error {
	if len(subObj) < srv6SubobjectFixedLength {
		return newParseError(SubobjectTypeSRv6.String()+" subobject", "length %d is shorter than %d bytes", len(subObj), srv6SubobjectFixedLength)
	}
	o.LFlag = IsBitSet(subObj[0], subobjectLooseFlag)
	o.NAIType = subObj[2] >> 4
	o.VFlag = IsBitSet(subObj[3], srv6SubobjectVFlag)
	o.TFlag = IsBitSet(subObj[3], srv6SubobjectTFlag)
	o.FFlag = IsBitSet(subObj[3], srv6SubobjectFFlag)
	o.SFlag = IsBitSet(subObj[3], srv6SubobjectSFlag)
	o.Behavior = binary.BigEndian.Uint16(subObj[6:8])

	rest := subObj[srv6SubobjectFixedLength:]
	if !o.SFlag {
		sid, tail, err := splitBytes(rest, srv6SIDLength, SubobjectTypeSRv6.String()+" SID")
		if err != nil {
			return err
		}
		o.SID, _ = netip.AddrFromSlice(sid)
		rest = tail
	}
	o.NAI = cloneBytes(rest)
	return nil
}

func (o *SRv6Subobject) Serialize() []uint8 {
	flags := SetBit(uint8(0), srv6SubobjectVFlag, o.VFlag)
	flags = SetBit(flags, srv6SubobjectTFlag, o.TFlag)
	flags = SetBit(flags, srv6SubobjectFFlag, o.FFlag)
	flags = SetBit(flags, srv6SubobjectSFlag, o.SFlag)
	buf := AppendByteSlices(
		subobjectHeader(o.LFlag, o.Type(), o.Len()),
		[]uint8{o.NAIType << 4, flags, 0, 0},
		Uint16ToByteSlice(o.Behavior),
	)
	if !o.SFlag {
		buf = append(buf, addrBytes(o.SID, srv6SIDLength)...)
	}
	return append(buf, o.NAI...)
}

func (o *SRv6Subobject) Len() uint8 {
	n := srv6SubobjectFixedLength + len(o.NAI)
	if !o.SFlag {
		n += srv6SIDLength
	}
	return uint8(n)
}

func (o *SRv6Subobject) Type() SubobjectType { return SubobjectTypeSRv6 }

func (o *SRv6Subobject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("type", o.Type().String())
	enc.AddUint16("behavior", o.Behavior)
	if !o.SFlag {
		enc.AddString("sid", o.SID.String())
	}
	return nil
}

func NewSRv6Subobject(sid netip.Addr) *SRv6Subobject {
	return &SRv6Subobject{
		NAIType:  NAITypeAbsent,
		FFlag:    true,
		Behavior: SRv6EndpointBehaviorEndWithPSP,
		SID:      sid,
	}
}

// UndefinedSubobject keeps a subobject of unknown type verbatim.
type UndefinedSubobject struct {
	LFlag bool
	Typ   SubobjectType
	Body  []uint8
}

func (o *UndefinedSubobject) DecodeFromBytes(subObj []uint8) error {
	o.LFlag = IsBitSet(subObj[0], subobjectLooseFlag)
	o.Typ = SubobjectType(subObj[0] & subobjectTypeMask)
	o.Body = cloneBytes(subObj[subobjectHeaderLength:])
	return nil
}

func (o *UndefinedSubobject) Serialize() []uint8 {
	return AppendByteSlices(subobjectHeader(o.LFlag, o.Typ, o.Len()), o.Body)
}

func (o *UndefinedSubobject) Len() uint8 { return uint8(subobjectHeaderLength + len(o.Body)) }

func (o *UndefinedSubobject) Type() SubobjectType { return o.Typ }

func (o *UndefinedSubobject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("type", o.Typ.String())
	enc.AddString("body", hex.EncodeToString(o.Body))
	return nil
}

// ERO Object (RFC5440 7.9)
type EROObject struct {
	ObjectFlags
	Subobjects []Subobject
}

func (o *EROObject) DecodeFromBytes(objectType ObjectType, objectBody []uint8) error {
	if err := checkObjectType(ObjectClassERO, objectType, ObjectTypeEROExplicitRoute); err != nil {
		return err
	}
	var err error
	o.Subobjects, err = decodeSubobjects(objectBody, ObjectClassERO.String())
	return err
}

func (o *EROObject) Serialize() []uint8 {
	return serializeObject(o, serializeSubobjects(o.Subobjects))
}

func (o *EROObject) Len() uint16 {
	return objectLen(subobjectsLen(o.Subobjects))
}

func (o *EROObject) Class() ObjectClass { return ObjectClassERO }

func (o *EROObject) Type() ObjectType { return ObjectTypeEROExplicitRoute }

func (o *EROObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("class", ObjectClassERO.String())
	o.marshalFlags(enc)
	return enc.AddArray("subobjects", subobjectArray(o.Subobjects))
}

// Hops returns the node addresses the route traverses, in order.
func (o *EROObject) Hops() []netip.Addr {
	return routeHops(o.Subobjects)
}

func NewEROObject(subobjects ...Subobject) *EROObject {
	return &EROObject{Subobjects: subobjects}
}

// RRO Object (RFC5440 7.10)
type RROObject struct {
	ObjectFlags
	Subobjects []Subobject
}

func (o *RROObject) DecodeFromBytes(objectType ObjectType, objectBody []uint8) error {
	if err := checkObjectType(ObjectClassRRO, objectType, ObjectTypeRROReportedRoute); err != nil {
		return err
	}
	var err error
	o.Subobjects, err = decodeSubobjects(objectBody, ObjectClassRRO.String())
	return err
}

func (o *RROObject) Serialize() []uint8 {
	return serializeObject(o, serializeSubobjects(o.Subobjects))
}

func (o *RROObject) Len() uint16 {
	return objectLen(subobjectsLen(o.Subobjects))
}

func (o *RROObject) Class() ObjectClass { return ObjectClassRRO }

func (o *RROObject) Type() ObjectType { return ObjectTypeRROReportedRoute }

func (o *RROObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("class", ObjectClassRRO.String())
	o.marshalFlags(enc)
	return enc.AddArray("subobjects", subobjectArray(o.Subobjects))
}

func (o *RROObject) Hops() []netip.Addr {
	return routeHops(o.Subobjects)
}

func NewRROObject(subobjects ...Subobject) *RROObject {
	return &RROObject{Subobjects: subobjects}
}

func routeHops(subobjects []Subobject) []netip.Addr {
	var hops []netip.Addr
	for _, s := range subobjects {
		switch s := s.(type) {
		case *IPv4PrefixSubobject:
			hops = append(hops, s.Address)
		case *IPv6PrefixSubobject:
			hops = append(hops, s.Address)
		case *UnnumberedSubobject:
			hops = append(hops, s.RouterID)
		case *SREROSubobject:
			if addr, ok := s.NodeAddr(); ok {
				hops = append(hops, addr)
			}
		}
	}
	return hops
}
