// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package pcep

import (
	"encoding/binary"

	"github.com/osrg/gobgp/v3/pkg/packet/bgp"
	"go.uber.org/zap/zapcore"
)

// LS Object carries one node or link of the link-state database. Its
// Protocol-ID shares the BGP-LS code space (RFC7752 3.2).
type LSObject struct {
	ObjectFlags
	ObjectType ObjectType
	ProtocolID bgp.LsProtocolID
	Flags      uint32 // 24 bits, R and S included
	LSID       uint64
	TLVs       []TLVInterface
}

const (
	lsObjectFixedLength        = 12
	lsRFlag             uint32 = 0x02 // Remove
	lsSFlag             uint32 = 0x01 // Sync
	lsFlagsMask         uint32 = 0x00ffffff
)

func (o *LSObject) DecodeFromBytes(objectType ObjectType, objectBody []uint8) error {
	if err := checkBodyLength(ObjectClassLS, objectBody, lsObjectFixedLength); err != nil {
		return err
	}

	o.ObjectType = objectType
	o.ProtocolID = bgp.LsProtocolID(objectBody[0])
	o.Flags = binary.BigEndian.Uint32(objectBody[0:4]) & lsFlagsMask
	o.LSID = binary.BigEndian.Uint64(objectBody[4:12])

	var err error
	o.TLVs, err = decodeObjectTLVs(ObjectClassLS, objectBody[lsObjectFixedLength:])
	return err
}

func (o *LSObject) Serialize() []uint8 {
	head := uint32(o.ProtocolID)<<24 | o.Flags&lsFlagsMask
	return serializeObject(o, Uint32ToByteSlice(head), Uint64ToByteSlice(o.LSID), serializeTLVs(o.TLVs))
}

func (o *LSObject) Len() uint16 {
	return objectLen(lsObjectFixedLength + tlvsLen(o.TLVs))
}

func (o *LSObject) Class() ObjectClass { return ObjectClassLS }

func (o *LSObject) Type() ObjectType { return o.ObjectType }

func (o *LSObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("class", ObjectClassLS.String())
	o.marshalFlags(enc)
	enc.AddString("protocolID", o.ProtocolID.String())
	enc.AddUint64("lsID", o.LSID)
	enc.AddBool("remove", o.RFlag())
	enc.AddBool("sync", o.SFlag())
	return enc.AddArray("tlvs", tlvArray(o.TLVs))
}

func (o *LSObject) RFlag() bool { return IsBitSet(o.Flags, lsRFlag) }

func (o *LSObject) SFlag() bool { return IsBitSet(o.Flags, lsSFlag) }

// IsLink reports whether the object describes a link rather than a node.
func (o *LSObject) IsLink() bool {
	return o.Type() == ObjectTypeLSLink
}

// Container returns the LS container TLV of the given type, if present.
func (o *LSObject) Container(typ TLVType) (*LSContainerTLV, bool) {
	for _, tlv := range o.TLVs {
		if c, ok := tlv.(*LSContainerTLV); ok && c.Typ == typ {
			return c, true
		}
	}
	return nil, false
}

// RoutingUniverse returns the routing universe identifier, or zero when absent.
func (o *LSObject) RoutingUniverse() uint64 {
	for _, tlv := range o.TLVs {
		if r, ok := tlv.(*RoutingUniverse); ok {
			return r.Identifier
		}
	}
	return RoutingUniverseDefaultLayer3
}

func NewLSObject(objectType ObjectType, protocolID bgp.LsProtocolID, lsID uint64, remove, sync bool, tlvs ...TLVInterface) *LSObject {
	o := &LSObject{
		ObjectType: objectType,
		ProtocolID: protocolID,
		LSID:       lsID,
		TLVs:       tlvs,
	}
	o.Flags = SetBit(o.Flags, lsRFlag, remove)
	o.Flags = SetBit(o.Flags, lsSFlag, sync)
	return o
}
