// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package pcep

import (
	"encoding/binary"
	"net/netip"

	"go.uber.org/zap/zapcore"
)

// SRP Object (RFC8231 7.2)
type SRPObject struct {
	ObjectFlags
	RFlag bool   // LSP-Remove (RFC8281 5.2)
	Flags uint32 // remaining flag bits
	SRPID uint32
	TLVs  []TLVInterface
}

const (
	srpObjectFixedLength        = 8
	srpRFlag             uint32 = 0x01
)

func (o *SRPObject) DecodeFromBytes(objectType ObjectType, objectBody []uint8) error {
	if err := checkObjectType(ObjectClassSRP, objectType, ObjectTypeSRPSRP); err != nil {
		return err
	}
	if err := checkBodyLength(ObjectClassSRP, objectBody, srpObjectFixedLength); err != nil {
		return err
	}

	flags := binary.BigEndian.Uint32(objectBody[0:4])
	o.RFlag = IsBitSet(flags, srpRFlag)
	o.Flags = flags &^ srpRFlag
	o.SRPID = binary.BigEndian.Uint32(objectBody[4:8])

	var err error
	o.TLVs, err = decodeObjectTLVs(ObjectClassSRP, objectBody[srpObjectFixedLength:])
	return err
}

func (o *SRPObject) Serialize() []uint8 {
	flags := SetBit(o.Flags&^srpRFlag, srpRFlag, o.RFlag)
	return serializeObject(o, Uint32ToByteSlice(flags), Uint32ToByteSlice(o.SRPID), serializeTLVs(o.TLVs))
}

func (o *SRPObject) Len() uint16 {
	return objectLen(srpObjectFixedLength + tlvsLen(o.TLVs))
}

func (o *SRPObject) Class() ObjectClass { return ObjectClassSRP }

func (o *SRPObject) Type() ObjectType { return ObjectTypeSRPSRP }

func (o *SRPObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("class", ObjectClassSRP.String())
	o.marshalFlags(enc)
	enc.AddUint32("srpID", o.SRPID)
	enc.AddBool("remove", o.RFlag)
	return enc.AddArray("tlvs", tlvArray(o.TLVs))
}

// PathSetupType returns the PST announced in the SRP object, or RSVP-TE
// when the TLV is absent.
func (o *SRPObject) PathSetupType() Pst {
	for _, tlv := range o.TLVs {
		if t, ok := tlv.(*PathSetupType); ok {
			return t.PathSetupType
		}
	}
	return PathSetupTypeRSVPTE
}

func NewSRPObject(srpID uint32, isRemove bool, pst Pst) *SRPObject {
	o := &SRPObject{
		RFlag: isRemove, // RFC8281 5.2
		SRPID: srpID,
	}
	if pst != PathSetupTypeRSVPTE {
		o.TLVs = append(o.TLVs, NewPathSetupType(pst))
	}
	return o
}

// LSP Object (RFC8231 7.3)
type LSPObject struct {
	ObjectFlags
	PLSPID     uint32
	CFlag      bool  // Create (RFC8281 5.3.1)
	OFlag      uint8 // Operational state
	AFlag      bool  // Administrative
	RFlag      bool  // Remove
	SFlag      bool  // Sync
	DFlag      bool  // Delegate
	ExtraFlags uint8 // flag bits above C, 4 bits
	TLVs       []TLVInterface
}

type LSPOperationalState uint8

const (
	LSPOperationalDown      LSPOperationalState = 0
	LSPOperationalUp        LSPOperationalState = 1
	LSPOperationalActive    LSPOperationalState = 2
	LSPOperationalGoingDown LSPOperationalState = 3
	LSPOperationalGoingUp   LSPOperationalState = 4
)

const (
	lspObjectFixedLength        = 4
	lspCFlag             uint8  = 0x80
	lspOFlagMask         uint8  = 0x70
	lspAFlag             uint8  = 0x08
	lspRFlag             uint8  = 0x04
	lspSFlag             uint8  = 0x02
	lspDFlag             uint8  = 0x01
	lspExtraFlagsMask    uint8  = 0x0f
	plspIDMask           uint32 = 0x000fffff
)

func (s LSPOperationalState) String() string {
	switch s {
	case LSPOperationalDown:
		return "DOWN"
	case LSPOperationalUp:
		return "UP"
	case LSPOperationalActive:
		return "ACTIVE"
	case LSPOperationalGoingDown:
		return "GOING-DOWN"
	case LSPOperationalGoingUp:
		return "GOING-UP"
	}
	return "UNKNOWN"
}

func (o *LSPObject) DecodeFromBytes(objectType ObjectType, objectBody []uint8) error {
	if err := checkObjectType(ObjectClassLSP, objectType, ObjectTypeLSPLSP); err != nil {
		return err
	}
	if err := checkBodyLength(ObjectClassLSP, objectBody, lspObjectFixedLength); err != nil {
		return err
	}

	o.PLSPID = binary.BigEndian.Uint32(objectBody[0:4]) >> 12 // 20 bits from top
	o.ExtraFlags = objectBody[2] & lspExtraFlagsMask
	o.CFlag = IsBitSet(objectBody[3], lspCFlag)
	o.OFlag = (objectBody[3] & lspOFlagMask) >> 4
	o.AFlag = IsBitSet(objectBody[3], lspAFlag)
	o.RFlag = IsBitSet(objectBody[3], lspRFlag)
	o.SFlag = IsBitSet(objectBody[3], lspSFlag)
	o.DFlag = IsBitSet(objectBody[3], lspDFlag)

	var err error
	o.TLVs, err = decodeObjectTLVs(ObjectClassLSP, objectBody[lspObjectFixedLength:])
	return err
}

func (o *LSPObject) Serialize() []uint8 {
	buf := Uint32ToByteSlice((o.PLSPID & plspIDMask) << 12)
	buf[2] |= o.ExtraFlags & lspExtraFlagsMask
	buf[3] = (o.OFlag << 4) & lspOFlagMask
	buf[3] = SetBit(buf[3], lspCFlag, o.CFlag)
	buf[3] = SetBit(buf[3], lspAFlag, o.AFlag)
	buf[3] = SetBit(buf[3], lspRFlag, o.RFlag)
	buf[3] = SetBit(buf[3], lspSFlag, o.SFlag)
	buf[3] = SetBit(buf[3], lspDFlag, o.DFlag)
	return serializeObject(o, buf, serializeTLVs(o.TLVs))
}

func (o *LSPObject) Len() uint16 {
	return objectLen(lspObjectFixedLength + tlvsLen(o.TLVs))
}

func (o *LSPObject) Class() ObjectClass { return ObjectClassLSP }

func (o *LSPObject) Type() ObjectType { return ObjectTypeLSPLSP }

func (o *LSPObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("class", ObjectClassLSP.String())
	o.marshalFlags(enc)
	enc.AddUint32("plspID", o.PLSPID)
	if name, ok := o.SymbolicName(); ok {
		enc.AddString("name", name)
	}
	enc.AddString("operational", LSPOperationalState(o.OFlag).String())
	enc.AddBool("administrative", o.AFlag)
	enc.AddBool("delegate", o.DFlag)
	enc.AddBool("sync", o.SFlag)
	enc.AddBool("remove", o.RFlag)
	enc.AddBool("create", o.CFlag)
	return enc.AddArray("tlvs", tlvArray(o.TLVs))
}

// SymbolicName returns the symbolic path name TLV value, if present.
func (o *LSPObject) SymbolicName() (string, bool) {
	for _, tlv := range o.TLVs {
		if t, ok := tlv.(*SymbolicPathName); ok {
			return t.Name, true
		}
	}
	return "", false
}

// Endpoints returns the tunnel sender and endpoint from the IPv4 or IPv6
// LSP identifiers TLV.
func (o *LSPObject) Endpoints() (src netip.Addr, dst netip.Addr, ok bool) {
	for _, tlv := range o.TLVs {
		switch t := tlv.(type) {
		case *IPv4LSPIdentifiers:
			return t.IPv4TunnelSenderAddress, t.IPv4TunnelEndpointAddress, true
		case *IPv6LSPIdentifiers:
			return t.IPv6TunnelSenderAddress, t.IPv6TunnelEndpointAddress, true
		}
	}
	return netip.Addr{}, netip.Addr{}, false
}

// ErrorCode returns the LSP error code TLV value, if present.
func (o *LSPObject) ErrorCode() (LSPErrorCodeValue, bool) {
	for _, tlv := range o.TLVs {
		if t, ok := tlv.(*LSPErrorCode); ok {
			return t.ErrorCode, true
		}
	}
	return 0, false
}

func NewLSPObject(lspName string, plspID uint32) *LSPObject {
	o := &LSPObject{
		PLSPID: plspID,
		OFlag:  uint8(LSPOperationalUp), // RFC8231 7.3
		AFlag:  true,                    // desired operational state is active (RFC8231 7.3)
		DFlag:  true,
	}
	if lspName != "" {
		o.TLVs = append(o.TLVs, NewSymbolicPathName(lspName))
	}
	return o
}
