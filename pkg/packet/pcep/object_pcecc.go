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

// LABEL Object (PCECC). The label value is kept as the raw 32-bit field;
// the MPLS label occupies its top 20 bits.
type LabelObject struct {
	ObjectFlags
	Flags uint32 // flag bits other than O
	OFlag bool   // out-label
	Label uint32
	TLVs  []TLVInterface
}

const (
	labelObjectFixedLength        = 8
	labelOFlag             uint32 = 0x01
)

func (o *LabelObject) DecodeFromBytes(objectType ObjectType, objectBody []uint8) error {
	if err := checkObjectType(ObjectClassLabel, objectType, ObjectTypeLabelLabel); err != nil {
		return err
	}
	if err := checkBodyLength(ObjectClassLabel, objectBody, labelObjectFixedLength); err != nil {
		return err
	}

	flags := binary.BigEndian.Uint32(objectBody[0:4])
	o.OFlag = IsBitSet(flags, labelOFlag)
	o.Flags = flags &^ labelOFlag
	o.Label = binary.BigEndian.Uint32(objectBody[4:8])

	var err error
	o.TLVs, err = decodeObjectTLVs(ObjectClassLabel, objectBody[labelObjectFixedLength:])
	return err
}

func (o *LabelObject) Serialize() []uint8 {
	flags := SetBit(o.Flags&^labelOFlag, labelOFlag, o.OFlag)
	return serializeObject(o, Uint32ToByteSlice(flags), Uint32ToByteSlice(o.Label), serializeTLVs(o.TLVs))
}

func (o *LabelObject) Len() uint16 {
	return objectLen(labelObjectFixedLength + tlvsLen(o.TLVs))
}

func (o *LabelObject) Class() ObjectClass { return ObjectClassLabel }

func (o *LabelObject) Type() ObjectType { return ObjectTypeLabelLabel }

func (o *LabelObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("class", ObjectClassLabel.String())
	o.marshalFlags(enc)
	enc.AddBool("outLabel", o.OFlag)
	enc.AddUint32("label", o.MPLSLabel())
	return enc.AddArray("tlvs", tlvArray(o.TLVs))
}

// MPLSLabel returns the 20-bit label value.
func (o *LabelObject) MPLSLabel() uint32 {
	return o.Label >> 12
}

func NewLabelObject(mplsLabel uint32, outLabel bool) *LabelObject {
	return &LabelObject{
		OFlag: outLabel,
		Label: (mplsLabel & 0x000fffff) << 12,
	}
}

// FEC Object (PCECC). The object type selects one of five fixed-size bodies.
type FECObject struct {
	ObjectFlags
	ObjectType        ObjectType
	LocalAddr         netip.Addr // node address, or the local end of an adjacency
	RemoteAddr        netip.Addr
	LocalInterfaceID  uint32 // unnumbered adjacency only
	RemoteInterfaceID uint32 // unnumbered adjacency only
}

var fecBodyLengths = map[ObjectType]int{
	ObjectTypeFECIPv4Node:            4,
	ObjectTypeFECIPv6Node:            16,
	ObjectTypeFECIPv4Adjacency:       8,
	ObjectTypeFECIPv6Adjacency:       32,
	ObjectTypeFECUnnumberedAdjacency: 16,
}

func (o *FECObject) DecodeFromBytes(objectType ObjectType, objectBody []uint8) error {
	bodyLen, ok := fecBodyLengths[objectType]
	if !ok {
		return newParseError(ObjectClassFEC.String()+" object", "unsupported object type %d", objectType)
	}
	if err := checkExactBodyLength(ObjectClassFEC, objectBody, bodyLen); err != nil {
		return err
	}

	o.ObjectType = objectType
	switch objectType {
	case ObjectTypeFECIPv4Node, ObjectTypeFECIPv6Node:
		o.LocalAddr, _ = netip.AddrFromSlice(objectBody)
	case ObjectTypeFECIPv4Adjacency, ObjectTypeFECIPv6Adjacency:
		half := bodyLen / 2
		o.LocalAddr, _ = netip.AddrFromSlice(objectBody[:half])
		o.RemoteAddr, _ = netip.AddrFromSlice(objectBody[half:])
	case ObjectTypeFECUnnumberedAdjacency:
		o.LocalAddr, _ = netip.AddrFromSlice(objectBody[0:4])
		o.LocalInterfaceID = binary.BigEndian.Uint32(objectBody[4:8])
		o.RemoteAddr, _ = netip.AddrFromSlice(objectBody[8:12])
		o.RemoteInterfaceID = binary.BigEndian.Uint32(objectBody[12:16])
	}
	return nil
}

func (o *FECObject) Serialize() []uint8 {
	switch o.Type() {
	case ObjectTypeFECIPv6Node:
		return serializeObject(o, addrBytes(o.LocalAddr, 16))
	case ObjectTypeFECIPv4Adjacency:
		return serializeObject(o, addrBytes(o.LocalAddr, 4), addrBytes(o.RemoteAddr, 4))
	case ObjectTypeFECIPv6Adjacency:
		return serializeObject(o, addrBytes(o.LocalAddr, 16), addrBytes(o.RemoteAddr, 16))
	case ObjectTypeFECUnnumberedAdjacency:
		return serializeObject(o,
			addrBytes(o.LocalAddr, 4),
			Uint32ToByteSlice(o.LocalInterfaceID),
			addrBytes(o.RemoteAddr, 4),
			Uint32ToByteSlice(o.RemoteInterfaceID),
		)
	}
	return serializeObject(o, addrBytes(o.LocalAddr, 4))
}

func (o *FECObject) Len() uint16 {
	return objectLen(fecBodyLengths[o.Type()])
}

func (o *FECObject) Class() ObjectClass { return ObjectClassFEC }

func (o *FECObject) Type() ObjectType {
	if _, ok := fecBodyLengths[o.ObjectType]; !ok {
		return ObjectTypeFECIPv4Node
	}
	return o.ObjectType
}

func (o *FECObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("class", ObjectClassFEC.String())
	o.marshalFlags(enc)
	enc.AddUint8("type", uint8(o.Type()))
	enc.AddString("local", o.LocalAddr.String())
	if o.RemoteAddr.IsValid() {
		enc.AddString("remote", o.RemoteAddr.String())
	}
	if o.Type() == ObjectTypeFECUnnumberedAdjacency {
		enc.AddUint32("localInterfaceID", o.LocalInterfaceID)
		enc.AddUint32("remoteInterfaceID", o.RemoteInterfaceID)
	}
	return nil
}

// NewNodeFECObject returns an IPv4 or IPv6 node FEC.
func NewNodeFECObject(node netip.Addr) *FECObject {
	o := &FECObject{ObjectType: ObjectTypeFECIPv4Node, LocalAddr: node}
	if node.Is6() {
		o.ObjectType = ObjectTypeFECIPv6Node
	}
	return o
}

// NewAdjacencyFECObject returns an IPv4 or IPv6 adjacency FEC.
func NewAdjacencyFECObject(local, remote netip.Addr) *FECObject {
	o := &FECObject{ObjectType: ObjectTypeFECIPv4Adjacency, LocalAddr: local, RemoteAddr: remote}
	if local.Is6() {
		o.ObjectType = ObjectTypeFECIPv6Adjacency
	}
	return o
}

func NewUnnumberedAdjacencyFECObject(localNode netip.Addr, localIfID uint32, remoteNode netip.Addr, remoteIfID uint32) *FECObject {
	return &FECObject{
		ObjectType:        ObjectTypeFECUnnumberedAdjacency,
		LocalAddr:         localNode,
		LocalInterfaceID:  localIfID,
		RemoteAddr:        remoteNode,
		RemoteInterfaceID: remoteIfID,
	}
}
