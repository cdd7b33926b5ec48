// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package pcep

import (
	"encoding/binary"
	"fmt"
	"math"
	"net/netip"

	"go.uber.org/zap/zapcore"
)

type ObjectClass uint8

// PCEP Object-Class (1 byte)
const (
	ObjectClassOpen       ObjectClass = 0x01
	ObjectClassRP         ObjectClass = 0x02
	ObjectClassNoPath     ObjectClass = 0x03
	ObjectClassEndpoints  ObjectClass = 0x04
	ObjectClassBandwidth  ObjectClass = 0x05
	ObjectClassMetric     ObjectClass = 0x06
	ObjectClassERO        ObjectClass = 0x07
	ObjectClassRRO        ObjectClass = 0x08
	ObjectClassLSPA       ObjectClass = 0x09
	ObjectClassIRO        ObjectClass = 0x0a
	ObjectClassSVEC       ObjectClass = 0x0b
	ObjectClassNotify     ObjectClass = 0x0c
	ObjectClassPCEPError  ObjectClass = 0x0d
	ObjectClassLoadBalanc ObjectClass = 0x0e
	ObjectClassClose      ObjectClass = 0x0f
	ObjectClassLSP        ObjectClass = 0x20
	ObjectClassSRP        ObjectClass = 0x21
	ObjectClassLS         ObjectClass = 0xe0
	ObjectClassLabel      ObjectClass = 0xe1
	ObjectClassFEC        ObjectClass = 0xe2
)

var objectClassDescriptions = map[ObjectClass]struct {
	Description string
	Reference   string
}{
	ObjectClassOpen:       {"OPEN", "RFC5440"},
	ObjectClassRP:         {"RP", "RFC5440"},
	ObjectClassNoPath:     {"NO-PATH", "RFC5440"},
	ObjectClassEndpoints:  {"END-POINTS", "RFC5440"},
	ObjectClassBandwidth:  {"BANDWIDTH", "RFC5440"},
	ObjectClassMetric:     {"METRIC", "RFC5440"},
	ObjectClassERO:        {"ERO", "RFC5440"},
	ObjectClassRRO:        {"RRO", "RFC5440"},
	ObjectClassLSPA:       {"LSPA", "RFC5440"},
	ObjectClassIRO:        {"IRO", "RFC5440"},
	ObjectClassSVEC:       {"SVEC", "RFC5440"},
	ObjectClassNotify:     {"NOTIFICATION", "RFC5440"},
	ObjectClassPCEPError:  {"PCEP-ERROR", "RFC5440"},
	ObjectClassLoadBalanc: {"LOAD-BALANCING", "RFC5440"},
	ObjectClassClose:      {"CLOSE", "RFC5440"},
	ObjectClassLSP:        {"LSP", "RFC8231"},
	ObjectClassSRP:        {"SRP", "RFC8231"},
	ObjectClassLS:         {"LS", lsDraftReference},
	ObjectClassLabel:      {"LABEL", pceccDraftReference},
	ObjectClassFEC:        {"FEC", pceccDraftReference},
}

func (c ObjectClass) String() string {
	if desc, ok := objectClassDescriptions[c]; ok {
		return desc.Description
	}
	return fmt.Sprintf("Unknown ObjectClass (0x%02x)", uint8(c))
}

type ObjectType uint8

// Object-Type values. Classes with a single type use 1.
const (
	ObjectTypeOpenOpen               ObjectType = 0x01
	ObjectTypeRPRequestParameters    ObjectType = 0x01
	ObjectTypeEndpointIPv4Addr       ObjectType = 0x01
	ObjectTypeEndpointIPv6Addr       ObjectType = 0x02
	ObjectTypeBandwidthRequested     ObjectType = 0x01
	ObjectTypeBandwidthExisting      ObjectType = 0x02
	ObjectTypeMetricMetric           ObjectType = 0x01
	ObjectTypeEROExplicitRoute       ObjectType = 0x01
	ObjectTypeRROReportedRoute       ObjectType = 0x01
	ObjectTypeLSPALSPA               ObjectType = 0x01
	ObjectTypePCEPErrorError         ObjectType = 0x01
	ObjectTypeCloseClose             ObjectType = 0x01
	ObjectTypeLSPLSP                 ObjectType = 0x01
	ObjectTypeSRPSRP                 ObjectType = 0x01
	ObjectTypeLSNode                 ObjectType = 0x01
	ObjectTypeLSLink                 ObjectType = 0x02
	ObjectTypeLabelLabel             ObjectType = 0x01
	ObjectTypeFECIPv4Node            ObjectType = 0x01
	ObjectTypeFECIPv6Node            ObjectType = 0x02
	ObjectTypeFECIPv4Adjacency       ObjectType = 0x03
	ObjectTypeFECIPv6Adjacency       ObjectType = 0x04
	ObjectTypeFECUnnumberedAdjacency ObjectType = 0x05
)

const commonObjectHeaderLength = 4

type CommonObjectHeader struct { // RFC5440 7.2
	ObjectClass  ObjectClass
	ObjectType   ObjectType
	ResFlags     uint8 // MUST be set to zero
	PFlag        bool  // 0: optional, 1: MUST
	IFlag        bool  // 0: processed, 1: ignored
	ObjectLength uint16
}

const (
	objectTypeMask  uint8 = 0xf0
	resFlagsMask    uint8 = 0x0c
	processRuleFlag uint8 = 0x02
	ignoreFlag      uint8 = 0x01
)

func (h *CommonObjectHeader) DecodeFromBytes(objectHeader []uint8) error {
	if len(objectHeader) < commonObjectHeaderLength {
		return newOutOfBoundError("object header", commonObjectHeaderLength, len(objectHeader))
	}
	h.ObjectClass = ObjectClass(objectHeader[0])
	h.ObjectType = ObjectType((objectHeader[1] & objectTypeMask) >> 4)
	h.ResFlags = (objectHeader[1] & resFlagsMask) >> 2
	h.PFlag = IsBitSet(objectHeader[1], processRuleFlag)
	h.IFlag = IsBitSet(objectHeader[1], ignoreFlag)
	h.ObjectLength = binary.BigEndian.Uint16(objectHeader[2:4])
	return nil
}

func (h *CommonObjectHeader) Serialize() []uint8 {
	buf := make([]uint8, 0, commonObjectHeaderLength)
	buf = append(buf, uint8(h.ObjectClass))
	otFlags := uint8(h.ObjectType)<<4 | (h.ResFlags<<2)&resFlagsMask
	otFlags = SetBit(otFlags, processRuleFlag, h.PFlag)
	otFlags = SetBit(otFlags, ignoreFlag, h.IFlag)
	buf = append(buf, otFlags)
	buf = append(buf, Uint16ToByteSlice(h.ObjectLength)...)
	return buf
}

func NewCommonObjectHeader(objectClass ObjectClass, objectType ObjectType, objectLength uint16) *CommonObjectHeader {
	return &CommonObjectHeader{
		ObjectClass:  objectClass,
		ObjectType:   objectType,
		ResFlags:     uint8(0),
		PFlag:        false,
		IFlag:        false,
		ObjectLength: objectLength,
	}
}

// ObjectFlags holds the P, I and reserved bits of an object header.
type ObjectFlags struct {
	PFlag    bool
	IFlag    bool
	ResFlags uint8
}

func (f *ObjectFlags) HeaderFlags() ObjectFlags {
	return *f
}

func (f *ObjectFlags) SetHeaderFlags(flags ObjectFlags) {
	*f = flags
}

func (f *ObjectFlags) marshalFlags(enc zapcore.ObjectEncoder) {
	if f.PFlag {
		enc.AddBool("p", true)
	}
	if f.IFlag {
		enc.AddBool("i", true)
	}
}

type Object interface {
	DecodeFromBytes(objectType ObjectType, objectBody []uint8) error
	Serialize() []uint8
	Len() uint16 // Total length including the 4-byte object header
	Class() ObjectClass
	Type() ObjectType
	HeaderFlags() ObjectFlags
	SetHeaderFlags(flags ObjectFlags)
	MarshalLogObject(enc zapcore.ObjectEncoder) error
}

var objectMap = map[ObjectClass]func() Object{
	ObjectClassOpen:      func() Object { return &OpenObject{} },
	ObjectClassRP:        func() Object { return &RPObject{} },
	ObjectClassEndpoints: func() Object { return &EndpointsObject{} },
	ObjectClassBandwidth: func() Object { return &BandwidthObject{} },
	ObjectClassMetric:    func() Object { return &MetricObject{} },
	ObjectClassERO:       func() Object { return &EROObject{} },
	ObjectClassRRO:       func() Object { return &RROObject{} },
	ObjectClassLSPA:      func() Object { return &LSPAObject{} },
	ObjectClassPCEPError: func() Object { return &PCEPErrorObject{} },
	ObjectClassClose:     func() Object { return &CloseObject{} },
	ObjectClassLSP:       func() Object { return &LSPObject{} },
	ObjectClassSRP:       func() Object { return &SRPObject{} },
	ObjectClassLS:        func() Object { return &LSObject{} },
	ObjectClassLabel:     func() Object { return &LabelObject{} },
	ObjectClassFEC:       func() Object { return &FECObject{} },
}

// DecodeObject decodes the object at the start of data and returns it with
// the number of bytes it occupies. A nil Object with a nil error means the
// object class is unknown and the object may be ignored.
func DecodeObject(data []uint8) (Object, int, error) {
	var header CommonObjectHeader
	if err := header.DecodeFromBytes(data); err != nil {
		return nil, 0, err
	}

	context := fmt.Sprintf("%s object", header.ObjectClass)
	if header.ObjectLength < commonObjectHeaderLength {
		return nil, 0, newParseError(context, "object length %d is shorter than the object header", header.ObjectLength)
	}
	if header.ObjectLength%alignment != 0 {
		return nil, 0, newParseError(context, "object length %d is not a multiple of 4", header.ObjectLength)
	}
	objectData, _, err := splitBytes(data, int(header.ObjectLength), context)
	if err != nil {
		return nil, 0, err
	}

	createObject, found := objectMap[header.ObjectClass]
	if !found {
		if header.PFlag {
			return nil, 0, newParseError(context, "unknown object class 0x%02x must be processed", uint8(header.ObjectClass))
		}
		return nil, int(header.ObjectLength), nil
	}

	object := createObject()
	object.SetHeaderFlags(ObjectFlags{PFlag: header.PFlag, IFlag: header.IFlag, ResFlags: header.ResFlags})
	if err := object.DecodeFromBytes(header.ObjectType, objectData[commonObjectHeaderLength:]); err != nil {
		return nil, 0, fmt.Errorf("failed to decode %s object: %w", header.ObjectClass, err)
	}
	return object, int(header.ObjectLength), nil
}

// DecodeObjects decodes a sequence of objects that must fill data exactly.
func DecodeObjects(data []uint8) ([]Object, error) {
	var objects []Object
	for len(data) > 0 {
		object, n, err := DecodeObject(data)
		if err != nil {
			return nil, err
		}
		if object != nil {
			objects = append(objects, object)
		}
		data = data[n:]
	}
	return objects, nil
}

// serializeObject prepends the object header to the concatenated body parts.
func serializeObject(o Object, body ...[]uint8) []uint8 {
	b := AppendByteSlices(body...)
	flags := o.HeaderFlags()
	header := CommonObjectHeader{
		ObjectClass:  o.Class(),
		ObjectType:   o.Type(),
		ResFlags:     flags.ResFlags,
		PFlag:        flags.PFlag,
		IFlag:        flags.IFlag,
		ObjectLength: uint16(commonObjectHeaderLength + len(b)),
	}
	return AppendByteSlices(header.Serialize(), b)
}

func objectLen(bodyLen int) uint16 {
	return uint16(commonObjectHeaderLength + bodyLen)
}

func checkObjectType(class ObjectClass, got ObjectType, allowed ...ObjectType) error {
	for _, t := range allowed {
		if got == t {
			return nil
		}
	}
	return newParseError(class.String()+" object", "unsupported object type %d", got)
}

func checkBodyLength(class ObjectClass, body []uint8, minLength int) error {
	if len(body) < minLength {
		return newParseError(class.String()+" object", "body of %d bytes is shorter than the fixed %d bytes", len(body), minLength)
	}
	return nil
}

func checkExactBodyLength(class ObjectClass, body []uint8, length int) error {
	if len(body) != length {
		return newParseError(class.String()+" object", "body length mismatch: expected %d bytes, but got %d bytes", length, len(body))
	}
	return nil
}

// decodeObjectTLVs decodes the optional TLVs that follow an object's fixed
// fields. The P flag asks for the object to be processed, not its TLVs:
// unknown TLVs are kept as UndefinedTLV either way (RFC5440 7.1).
func decodeObjectTLVs(class ObjectClass, data []uint8) ([]TLVInterface, error) {
	return decodeTLVs(data, tlvMap, class.String()+" object")
}

type objectArray []Object

func (a objectArray) MarshalLogArray(enc zapcore.ArrayEncoder) error {
	for _, o := range a {
		if err := enc.AppendObject(o); err != nil {
			return err
		}
	}
	return nil
}

// OPEN Object (RFC5440 7.3)
type OpenObject struct {
	ObjectFlags
	Version   uint8
	Flag      uint8
	Keepalive uint8
	Deadtime  uint8
	Sid       uint8
	TLVs      []TLVInterface
}

const openObjectFixedLength = 4

func (o *OpenObject) DecodeFromBytes(objectType ObjectType, objectBody []uint8) error {
	if err := checkObjectType(ObjectClassOpen, objectType, ObjectTypeOpenOpen); err != nil {
		return err
	}
	if err := checkBodyLength(ObjectClassOpen, objectBody, openObjectFixedLength); err != nil {
		return err
	}

	o.Version = objectBody[0] >> 5
	o.Flag = objectBody[0] & 0x1f
	o.Keepalive = objectBody[1]
	o.Deadtime = objectBody[2]
	o.Sid = objectBody[3]

	var err error
	o.TLVs, err = decodeObjectTLVs(ObjectClassOpen, objectBody[openObjectFixedLength:])
	return err
}

func (o *OpenObject) Serialize() []uint8 {
	buf := []uint8{o.Version<<5 | o.Flag&0x1f, o.Keepalive, o.Deadtime, o.Sid}
	return serializeObject(o, buf, serializeTLVs(o.TLVs))
}

func (o *OpenObject) Len() uint16 {
	return objectLen(openObjectFixedLength + tlvsLen(o.TLVs))
}

func (o *OpenObject) Class() ObjectClass { return ObjectClassOpen }

func (o *OpenObject) Type() ObjectType { return ObjectTypeOpenOpen }

func (o *OpenObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("class", ObjectClassOpen.String())
	o.marshalFlags(enc)
	enc.AddUint8("version", o.Version)
	enc.AddUint8("keepalive", o.Keepalive)
	enc.AddUint8("deadtime", o.Deadtime)
	enc.AddUint8("sessionID", o.Sid)
	return enc.AddArray("tlvs", tlvArray(o.TLVs))
}

// Capabilities returns the TLVs of the OPEN object that advertise a capability.
func (o *OpenObject) Capabilities() []CapabilityInterface {
	var caps []CapabilityInterface
	for _, tlv := range o.TLVs {
		if c, ok := tlv.(CapabilityInterface); ok {
			caps = append(caps, c)
		}
	}
	return caps
}

func NewOpenObject(sessionID uint8, keepalive uint8, deadtime uint8, tlvs []TLVInterface) *OpenObject {
	return &OpenObject{
		Version:   uint8(1), // PCEP version. Current version is 1
		Flag:      uint8(0),
		Keepalive: keepalive,
		Deadtime:  deadtime,
		Sid:       sessionID,
		TLVs:      tlvs,
	}
}

// RP Object (RFC5440 7.4)
type RPObject struct {
	ObjectFlags
	OFlag         bool
	BFlag         bool
	RFlag         bool
	Priority      uint8
	ReservedFlags uint32 // flag bits above the RFC5440 ones
	RequestID     uint32
	TLVs          []TLVInterface
}

const (
	rpObjectFixedLength        = 8
	rpOFlag             uint32 = 0x20
	rpBFlag             uint32 = 0x10
	rpRFlag             uint32 = 0x08
	rpPriorityMask      uint32 = 0x07
	rpKnownFlags               = rpOFlag | rpBFlag | rpRFlag | rpPriorityMask
)

func (o *RPObject) DecodeFromBytes(objectType ObjectType, objectBody []uint8) error {
	if err := checkObjectType(ObjectClassRP, objectType, ObjectTypeRPRequestParameters); err != nil {
		return err
	}
	if err := checkBodyLength(ObjectClassRP, objectBody, rpObjectFixedLength); err != nil {
		return err
	}

	flags := binary.BigEndian.Uint32(objectBody[0:4])
	o.OFlag = IsBitSet(flags, rpOFlag)
	o.BFlag = IsBitSet(flags, rpBFlag)
	o.RFlag = IsBitSet(flags, rpRFlag)
	o.Priority = uint8(flags & rpPriorityMask)
	o.ReservedFlags = flags &^ rpKnownFlags
	o.RequestID = binary.BigEndian.Uint32(objectBody[4:8])

	var err error
	o.TLVs, err = decodeObjectTLVs(ObjectClassRP, objectBody[rpObjectFixedLength:])
	return err
}

func (o *RPObject) Serialize() []uint8 {
	flags := o.ReservedFlags&^rpKnownFlags | uint32(o.Priority)&rpPriorityMask
	flags = SetBit(flags, rpOFlag, o.OFlag)
	flags = SetBit(flags, rpBFlag, o.BFlag)
	flags = SetBit(flags, rpRFlag, o.RFlag)
	return serializeObject(o, Uint32ToByteSlice(flags), Uint32ToByteSlice(o.RequestID), serializeTLVs(o.TLVs))
}

func (o *RPObject) Len() uint16 {
	return objectLen(rpObjectFixedLength + tlvsLen(o.TLVs))
}

func (o *RPObject) Class() ObjectClass { return ObjectClassRP }

func (o *RPObject) Type() ObjectType { return ObjectTypeRPRequestParameters }

func (o *RPObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("class", ObjectClassRP.String())
	o.marshalFlags(enc)
	enc.AddUint32("requestID", o.RequestID)
	enc.AddUint8("priority", o.Priority)
	return enc.AddArray("tlvs", tlvArray(o.TLVs))
}

func NewRPObject(requestID uint32, priority uint8) *RPObject {
	return &RPObject{
		ObjectFlags: ObjectFlags{PFlag: true},
		RequestID:   requestID,
		Priority:    priority & uint8(rpPriorityMask),
	}
}

// END-POINTS Object (RFC5440 7.6)
type EndpointsObject struct {
	ObjectFlags
	ObjectType ObjectType
	SrcAddr    netip.Addr
	DstAddr    netip.Addr
}

func endpointsAddrLen(objectType ObjectType) int {
	if objectType == ObjectTypeEndpointIPv6Addr {
		return 16
	}
	return 4
}

func (o *EndpointsObject) DecodeFromBytes(objectType ObjectType, objectBody []uint8) error {
	if err := checkObjectType(ObjectClassEndpoints, objectType, ObjectTypeEndpointIPv4Addr, ObjectTypeEndpointIPv6Addr); err != nil {
		return err
	}
	addrLen := endpointsAddrLen(objectType)
	if err := checkExactBodyLength(ObjectClassEndpoints, objectBody, 2*addrLen); err != nil {
		return err
	}

	o.ObjectType = objectType
	o.SrcAddr, _ = netip.AddrFromSlice(objectBody[:addrLen])
	o.DstAddr, _ = netip.AddrFromSlice(objectBody[addrLen : 2*addrLen])
	return nil
}

func (o *EndpointsObject) Serialize() []uint8 {
	addrLen := endpointsAddrLen(o.Type())
	return serializeObject(o, addrBytes(o.SrcAddr, addrLen), addrBytes(o.DstAddr, addrLen))
}

func (o *EndpointsObject) Len() uint16 {
	return objectLen(2 * endpointsAddrLen(o.Type()))
}

func (o *EndpointsObject) Class() ObjectClass { return ObjectClassEndpoints }

func (o *EndpointsObject) Type() ObjectType {
	if o.ObjectType == 0 {
		return ObjectTypeEndpointIPv4Addr
	}
	return o.ObjectType
}

func (o *EndpointsObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("class", ObjectClassEndpoints.String())
	o.marshalFlags(enc)
	enc.AddString("source", o.SrcAddr.String())
	enc.AddString("destination", o.DstAddr.String())
	return nil
}

func NewEndpointsObject(srcAddr, dstAddr netip.Addr) (*EndpointsObject, error) {
	if srcAddr.Is4() != dstAddr.Is4() {
		return nil, fmt.Errorf("address family mismatch: %s and %s", srcAddr, dstAddr)
	}
	objectType := ObjectTypeEndpointIPv4Addr
	if srcAddr.Is6() {
		objectType = ObjectTypeEndpointIPv6Addr
	}
	return &EndpointsObject{
		ObjectFlags: ObjectFlags{PFlag: true},
		ObjectType:  objectType,
		SrcAddr:     srcAddr,
		DstAddr:     dstAddr,
	}, nil
}

// BANDWIDTH Object (RFC5440 7.7)
type BandwidthObject struct {
	ObjectFlags
	ObjectType ObjectType
	Bandwidth  uint32 // IEEE 754 single precision, bytes per second
}

const bandwidthObjectLength = 4

func (o *BandwidthObject) DecodeFromBytes(objectType ObjectType, objectBody []uint8) error {
	if err := checkObjectType(ObjectClassBandwidth, objectType, ObjectTypeBandwidthRequested, ObjectTypeBandwidthExisting); err != nil {
		return err
	}
	if err := checkExactBodyLength(ObjectClassBandwidth, objectBody, bandwidthObjectLength); err != nil {
		return err
	}

	o.ObjectType = objectType
	o.Bandwidth = binary.BigEndian.Uint32(objectBody)
	return nil
}

func (o *BandwidthObject) Serialize() []uint8 {
	return serializeObject(o, Uint32ToByteSlice(o.Bandwidth))
}

func (o *BandwidthObject) Len() uint16 {
	return objectLen(bandwidthObjectLength)
}

func (o *BandwidthObject) Class() ObjectClass { return ObjectClassBandwidth }

func (o *BandwidthObject) Type() ObjectType {
	if o.ObjectType == 0 {
		return ObjectTypeBandwidthRequested
	}
	return o.ObjectType
}

func (o *BandwidthObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("class", ObjectClassBandwidth.String())
	o.marshalFlags(enc)
	enc.AddUint8("type", uint8(o.Type()))
	enc.AddFloat32("bandwidth", o.Value())
	return nil
}

// Value returns the bandwidth as a float.
func (o *BandwidthObject) Value() float32 {
	return math.Float32frombits(o.Bandwidth)
}

func NewBandwidthObject(objectType ObjectType, bandwidth float32) *BandwidthObject {
	return &BandwidthObject{
		ObjectType: objectType,
		Bandwidth:  math.Float32bits(bandwidth),
	}
}

// METRIC Object (RFC5440 7.8)
type MetricObject struct {
	ObjectFlags
	Reserved    uint16
	OtherFlags  uint8 // flag bits other than C and B
	CFlag       bool
	BFlag       bool
	MetricType  MetricType
	MetricValue uint32
}

type MetricType uint8

const (
	MetricTypeIGP      MetricType = 1
	MetricTypeTE       MetricType = 2
	MetricTypeHopCount MetricType = 3
)

const (
	metricObjectLength       = 8
	metricCFlag        uint8 = 0x02
	metricBFlag        uint8 = 0x01
)

func (o *MetricObject) DecodeFromBytes(objectType ObjectType, objectBody []uint8) error {
	if err := checkObjectType(ObjectClassMetric, objectType, ObjectTypeMetricMetric); err != nil {
		return err
	}
	if err := checkExactBodyLength(ObjectClassMetric, objectBody, metricObjectLength); err != nil {
		return err
	}

	o.Reserved = binary.BigEndian.Uint16(objectBody[0:2])
	o.OtherFlags = objectBody[2] &^ (metricCFlag | metricBFlag)
	o.CFlag = IsBitSet(objectBody[2], metricCFlag)
	o.BFlag = IsBitSet(objectBody[2], metricBFlag)
	o.MetricType = MetricType(objectBody[3])
	o.MetricValue = binary.BigEndian.Uint32(objectBody[4:8])
	return nil
}

func (o *MetricObject) Serialize() []uint8 {
	buf := make([]uint8, metricObjectLength)
	binary.BigEndian.PutUint16(buf[0:2], o.Reserved)
	buf[2] = o.OtherFlags &^ (metricCFlag | metricBFlag)
	buf[2] = SetBit(buf[2], metricCFlag, o.CFlag)
	buf[2] = SetBit(buf[2], metricBFlag, o.BFlag)
	buf[3] = uint8(o.MetricType)
	binary.BigEndian.PutUint32(buf[4:8], o.MetricValue)
	return serializeObject(o, buf)
}

func (o *MetricObject) Len() uint16 {
	return objectLen(metricObjectLength)
}

func (o *MetricObject) Class() ObjectClass { return ObjectClassMetric }

func (o *MetricObject) Type() ObjectType { return ObjectTypeMetricMetric }

func (o *MetricObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("class", ObjectClassMetric.String())
	o.marshalFlags(enc)
	enc.AddBool("computed", o.CFlag)
	enc.AddBool("bound", o.BFlag)
	enc.AddUint8("metricType", uint8(o.MetricType))
	enc.AddUint32("metricValue", o.MetricValue)
	return nil
}

func NewMetricObject(metricType MetricType, value uint32, bound, computed bool) *MetricObject {
	return &MetricObject{
		MetricType:  metricType,
		MetricValue: value,
		BFlag:       bound,
		CFlag:       computed,
	}
}

// LSPA Object (RFC5440 7.11)
type LSPAObject struct {
	ObjectFlags
	ExcludeAny      uint32
	IncludeAny      uint32
	IncludeAll      uint32
	SetupPriority   uint8
	HoldingPriority uint8
	OtherFlags      uint8 // flag bits other than L
	LFlag           bool
	Reserved        uint8
	TLVs            []TLVInterface
}

const (
	lspaObjectFixedLength       = 16
	lspaLFlag             uint8 = 0x01
)

func (o *LSPAObject) DecodeFromBytes(objectType ObjectType, objectBody []uint8) error {
	if err := checkObjectType(ObjectClassLSPA, objectType, ObjectTypeLSPALSPA); err != nil {
		return err
	}
	if err := checkBodyLength(ObjectClassLSPA, objectBody, lspaObjectFixedLength); err != nil {
		return err
	}

	o.ExcludeAny = binary.BigEndian.Uint32(objectBody[0:4])
	o.IncludeAny = binary.BigEndian.Uint32(objectBody[4:8])
	o.IncludeAll = binary.BigEndian.Uint32(objectBody[8:12])
	o.SetupPriority = objectBody[12]
	o.HoldingPriority = objectBody[13]
	o.OtherFlags = objectBody[14] &^ lspaLFlag
	o.LFlag = IsBitSet(objectBody[14], lspaLFlag)
	o.Reserved = objectBody[15]

	var err error
	o.TLVs, err = decodeObjectTLVs(ObjectClassLSPA, objectBody[lspaObjectFixedLength:])
	return err
}

func (o *LSPAObject) Serialize() []uint8 {
	buf := make([]uint8, lspaObjectFixedLength)
	binary.BigEndian.PutUint32(buf[0:4], o.ExcludeAny)
	binary.BigEndian.PutUint32(buf[4:8], o.IncludeAny)
	binary.BigEndian.PutUint32(buf[8:12], o.IncludeAll)
	buf[12] = o.SetupPriority
	buf[13] = o.HoldingPriority
	buf[14] = SetBit(o.OtherFlags&^lspaLFlag, lspaLFlag, o.LFlag)
	buf[15] = o.Reserved
	return serializeObject(o, buf, serializeTLVs(o.TLVs))
}

func (o *LSPAObject) Len() uint16 {
	return objectLen(lspaObjectFixedLength + tlvsLen(o.TLVs))
}

func (o *LSPAObject) Class() ObjectClass { return ObjectClassLSPA }

func (o *LSPAObject) Type() ObjectType { return ObjectTypeLSPALSPA }

func (o *LSPAObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("class", ObjectClassLSPA.String())
	o.marshalFlags(enc)
	enc.AddUint32("excludeAny", o.ExcludeAny)
	enc.AddUint32("includeAny", o.IncludeAny)
	enc.AddUint32("includeAll", o.IncludeAll)
	enc.AddUint8("setupPriority", o.SetupPriority)
	enc.AddUint8("holdingPriority", o.HoldingPriority)
	enc.AddBool("localProtection", o.LFlag)
	return nil
}

func NewLSPAObject(setupPriority, holdingPriority uint8, localProtection bool) *LSPAObject {
	return &LSPAObject{
		SetupPriority:   setupPriority,
		HoldingPriority: holdingPriority,
		LFlag:           localProtection,
	}
}

// PCEP-ERROR Object (RFC5440 7.15)
type PCEPErrorObject struct {
	ObjectFlags
	Reserved   uint8
	Flags      uint8
	ErrorType  ErrorType
	ErrorValue uint8
	TLVs       []TLVInterface
}

type ErrorType uint8

const (
	ErrorTypeSessionEstablishmentFailure ErrorType = 0x01
	ErrorTypeCapabilityNotSupported      ErrorType = 0x02
	ErrorTypeUnknownObject               ErrorType = 0x03
	ErrorTypeNotSupportedObject          ErrorType = 0x04
	ErrorTypePolicyViolation             ErrorType = 0x05
	ErrorTypeMandatoryObjectMissing      ErrorType = 0x06
	ErrorTypeSyncPCReqMissing            ErrorType = 0x07
	ErrorTypeUnknownRequestReference     ErrorType = 0x08
	ErrorTypeAttemptToEstablishSecond    ErrorType = 0x09
	ErrorTypeReceptionOfInvalidObject    ErrorType = 0x0a
	ErrorTypeInvalidOperation            ErrorType = 0x13
	ErrorTypeLSPStateSyncError           ErrorType = 0x14
	ErrorTypeBadParameterValue           ErrorType = 0x17
	ErrorTypeLSPInstantiationError       ErrorType = 0x18
)

var errorTypeDescriptions = map[ErrorType]string{
	ErrorTypeSessionEstablishmentFailure: "PCEP session establishment failure",
	ErrorTypeCapabilityNotSupported:      "Capability not supported",
	ErrorTypeUnknownObject:               "Unknown Object",
	ErrorTypeNotSupportedObject:          "Not supported object",
	ErrorTypePolicyViolation:             "Policy violation",
	ErrorTypeMandatoryObjectMissing:      "Mandatory Object missing",
	ErrorTypeSyncPCReqMissing:            "Synchronized path computation request missing",
	ErrorTypeUnknownRequestReference:     "Unknown request reference",
	ErrorTypeAttemptToEstablishSecond:    "Attempt to establish a second PCEP session",
	ErrorTypeReceptionOfInvalidObject:    "Reception of an invalid object",
	ErrorTypeInvalidOperation:            "Invalid Operation",
	ErrorTypeLSPStateSyncError:           "LSP State synchronization error",
	ErrorTypeBadParameterValue:           "Bad parameter value",
	ErrorTypeLSPInstantiationError:       "LSP instantiation error",
}

func (t ErrorType) String() string {
	if desc, ok := errorTypeDescriptions[t]; ok {
		return desc
	}
	return fmt.Sprintf("Unknown ErrorType (%d)", uint8(t))
}

const pcepErrorObjectFixedLength = 4

func (o *PCEPErrorObject) DecodeFromBytes(objectType ObjectType, objectBody []uint8) error {
	if err := checkObjectType(ObjectClassPCEPError, objectType, ObjectTypePCEPErrorError); err != nil {
		return err
	}
	if err := checkBodyLength(ObjectClassPCEPError, objectBody, pcepErrorObjectFixedLength); err != nil {
		return err
	}

	o.Reserved = objectBody[0]
	o.Flags = objectBody[1]
	o.ErrorType = ErrorType(objectBody[2])
	o.ErrorValue = objectBody[3]

	var err error
	o.TLVs, err = decodeObjectTLVs(ObjectClassPCEPError, objectBody[pcepErrorObjectFixedLength:])
	return err
}

func (o *PCEPErrorObject) Serialize() []uint8 {
	buf := []uint8{o.Reserved, o.Flags, uint8(o.ErrorType), o.ErrorValue}
	return serializeObject(o, buf, serializeTLVs(o.TLVs))
}

func (o *PCEPErrorObject) Len() uint16 {
	return objectLen(pcepErrorObjectFixedLength + tlvsLen(o.TLVs))
}

func (o *PCEPErrorObject) Class() ObjectClass { return ObjectClassPCEPError }

func (o *PCEPErrorObject) Type() ObjectType { return ObjectTypePCEPErrorError }

func (o *PCEPErrorObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("class", ObjectClassPCEPError.String())
	o.marshalFlags(enc)
	enc.AddString("errorType", o.ErrorType.String())
	enc.AddUint8("errorValue", o.ErrorValue)
	return enc.AddArray("tlvs", tlvArray(o.TLVs))
}

func NewPCEPErrorObject(errorType ErrorType, errorValue uint8) *PCEPErrorObject {
	return &PCEPErrorObject{
		ErrorType:  errorType,
		ErrorValue: errorValue,
	}
}

// CLOSE Object (RFC5440 7.17)
type CloseObject struct {
	ObjectFlags
	Reserved uint16
	Flags    uint8
	Reason   CloseReason
	TLVs     []TLVInterface
}

type CloseReason uint8

const (
	CloseReasonNoExplanation       CloseReason = 0x01
	CloseReasonDeadtimerExpired    CloseReason = 0x02
	CloseReasonMalformedMessage    CloseReason = 0x03
	CloseReasonTooManyUnknownReqs  CloseReason = 0x04
	CloseReasonTooManyUnrecognized CloseReason = 0x05
)

var closeReasonDescriptions = map[CloseReason]string{
	CloseReasonNoExplanation:       "No explanation provided",
	CloseReasonDeadtimerExpired:    "DeadTimer expired",
	CloseReasonMalformedMessage:    "Reception of a malformed PCEP message",
	CloseReasonTooManyUnknownReqs:  "Reception of an unacceptable number of unknown requests/replies",
	CloseReasonTooManyUnrecognized: "Reception of an unacceptable number of unrecognized PCEP messages",
}

func (r CloseReason) String() string {
	if desc, ok := closeReasonDescriptions[r]; ok {
		return desc
	}
	return fmt.Sprintf("Unknown CloseReason (%d)", uint8(r))
}

const closeObjectFixedLength = 4

func (o *CloseObject) DecodeFromBytes(objectType ObjectType, objectBody []uint8) error {
	if err := checkObjectType(ObjectClassClose, objectType, ObjectTypeCloseClose); err != nil {
		return err
	}
	if err := checkBodyLength(ObjectClassClose, objectBody, closeObjectFixedLength); err != nil {
		return err
	}

	o.Reserved = binary.BigEndian.Uint16(objectBody[0:2])
	o.Flags = objectBody[2]
	o.Reason = CloseReason(objectBody[3])

	var err error
	o.TLVs, err = decodeObjectTLVs(ObjectClassClose, objectBody[closeObjectFixedLength:])
	return err
}

func (o *CloseObject) Serialize() []uint8 {
	buf := []uint8{uint8(o.Reserved >> 8), uint8(o.Reserved), o.Flags, uint8(o.Reason)}
	return serializeObject(o, buf, serializeTLVs(o.TLVs))
}

func (o *CloseObject) Len() uint16 {
	return objectLen(closeObjectFixedLength + tlvsLen(o.TLVs))
}

func (o *CloseObject) Class() ObjectClass { return ObjectClassClose }

func (o *CloseObject) Type() ObjectType { return ObjectTypeCloseClose }

func (o *CloseObject) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("class", ObjectClassClose.String())
	o.marshalFlags(enc)
	enc.AddString("reason", o.Reason.String())
	return nil
}

func NewCloseObject(reason CloseReason) *CloseObject {
	return &CloseObject{
		Reason: reason,
	}
}
