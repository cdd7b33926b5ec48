// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package pcep

import (
	"encoding/binary"
	"fmt"
	"math"

	"go.uber.org/zap/zapcore"
)

type MessageType uint8

// PCEP Message-Type (1byte)
const (
	MessageTypeOpen         MessageType = 0x01
	MessageTypeKeepalive    MessageType = 0x02
	MessageTypePCReq        MessageType = 0x03
	MessageTypePCRep        MessageType = 0x04
	MessageTypeNotification MessageType = 0x05
	MessageTypeError        MessageType = 0x06
	MessageTypeClose        MessageType = 0x07
	MessageTypePCMonReq     MessageType = 0x08
	MessageTypePCMonRep     MessageType = 0x09
	MessageTypeReport       MessageType = 0x0a
	MessageTypeUpdate       MessageType = 0x0b
	MessageTypeInitiate     MessageType = 0x0c
	MessageTypeStartTLS     MessageType = 0x0d
	MessageTypeLSReport     MessageType = 0xe0
	MessageTypeLabelUpdate  MessageType = 0xe2
)

var messageTypeDescriptions = map[MessageType]struct {
	Description string
	Reference   string
}{
	MessageTypeOpen:         {"Open", "RFC5440"},
	MessageTypeKeepalive:    {"Keepalive", "RFC5440"},
	MessageTypePCReq:        {"Path Computation Request", "RFC5440"},
	MessageTypePCRep:        {"Path Computation Reply", "RFC5440"},
	MessageTypeNotification: {"Notification", "RFC5440"},
	MessageTypeError:        {"Error", "RFC5440"},
	MessageTypeClose:        {"Close", "RFC5440"},
	MessageTypePCMonReq:     {"Path Computation Monitoring Request", "RFC5886"},
	MessageTypePCMonRep:     {"Path Computation Monitoring Reply", "RFC5886"},
	MessageTypeReport:       {"Report", "RFC8231"},
	MessageTypeUpdate:       {"Update", "RFC8231"},
	MessageTypeInitiate:     {"Initiate", "RFC8281"},
	MessageTypeStartTLS:     {"StartTLS", "RFC8253"},
	MessageTypeLSReport:     {"LS Report", lsDraftReference},
	MessageTypeLabelUpdate:  {"Label Update", pceccDraftReference},
}

func (t MessageType) String() string {
	if desc, ok := messageTypeDescriptions[t]; ok {
		return desc.Description
	}
	return fmt.Sprintf("Unknown MessageType (0x%02x)", uint8(t))
}

const (
	CommonHeaderLength uint16 = 4
	pcepVersion        uint8  = 1
)

// Common header of PCEP Message
type CommonHeader struct { // RFC5440 6.1
	Version       uint8 // Current version is 1
	Flag          uint8
	MessageType   MessageType
	MessageLength uint16
}

func (h *CommonHeader) DecodeFromBytes(header []uint8) error {
	if len(header) < int(CommonHeaderLength) {
		return newOutOfBoundError("common header", int(CommonHeaderLength), len(header))
	}
	h.Version = header[0] >> 5
	h.Flag = header[0] & 0x1f
	h.MessageType = MessageType(header[1])
	h.MessageLength = binary.BigEndian.Uint16(header[2:4])
	return nil
}

func (h *CommonHeader) Serialize() []uint8 {
	buf := make([]uint8, 0, CommonHeaderLength)
	buf = append(buf, h.Version<<5|h.Flag&0x1f)
	buf = append(buf, uint8(h.MessageType))
	buf = append(buf, Uint16ToByteSlice(h.MessageLength)...)
	return buf
}

func NewCommonHeader(messageType MessageType, messageLength uint16) *CommonHeader {
	return &CommonHeader{
		Version:       pcepVersion,
		Flag:          uint8(0),
		MessageType:   messageType,
		MessageLength: messageLength,
	}
}

type Message interface {
	DecodeFromBytes(messageBody []uint8) error
	Serialize() ([]uint8, error)
	MessageType() MessageType
	// Objects lists the message's objects in wire order.
	Objects() []Object
	MarshalLogObject(enc zapcore.ObjectEncoder) error
}

var messageMap = map[MessageType]func() Message{
	MessageTypeOpen:        func() Message { return &OpenMessage{} },
	MessageTypeKeepalive:   func() Message { return &KeepaliveMessage{} },
	MessageTypeError:       func() Message { return &ErrorMessage{} },
	MessageTypeClose:       func() Message { return &CloseMessage{} },
	MessageTypeReport:      func() Message { return &PCRptMessage{} },
	MessageTypeUpdate:      func() Message { return &PCUpdMessage{} },
	MessageTypeInitiate:    func() Message { return &PCInitiateMessage{} },
	MessageTypeLSReport:    func() Message { return &LSReportMessage{} },
	MessageTypeLabelUpdate: func() Message { return &LabelUpdateMessage{} },
}

// DecodeMessage decodes the message at the start of data. Bytes beyond the
// length announced in the common header are left untouched.
func DecodeMessage(data []uint8) (Message, error) {
	var header CommonHeader
	if err := header.DecodeFromBytes(data); err != nil {
		return nil, err
	}
	if header.Version != pcepVersion {
		return nil, newParseError("common header", "unsupported PCEP version %d", header.Version)
	}
	if header.MessageLength < CommonHeaderLength {
		return nil, newParseError("common header", "message length %d is shorter than the common header", header.MessageLength)
	}
	messageData, _, err := splitBytes(data, int(header.MessageLength), header.MessageType.String()+" message")
	if err != nil {
		return nil, err
	}

	createMessage, ok := messageMap[header.MessageType]
	if !ok {
		return nil, newParseError("common header", "unsupported message type 0x%02x", uint8(header.MessageType))
	}
	m := createMessage()
	if err := m.DecodeFromBytes(messageData[CommonHeaderLength:]); err != nil {
		return nil, fmt.Errorf("failed to decode %s message: %w", header.MessageType, err)
	}
	return m, nil
}

// SplitMessage is a bufio.SplitFunc that cuts a byte stream into whole PCEP messages.
func SplitMessage(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if len(data) < int(CommonHeaderLength) {
		if atEOF && len(data) > 0 {
			return 0, nil, newOutOfBoundError("common header", int(CommonHeaderLength), len(data))
		}
		return 0, nil, nil
	}
	length := int(binary.BigEndian.Uint16(data[2:4]))
	if length < int(CommonHeaderLength) {
		return 0, nil, newParseError("common header", "message length %d is shorter than the common header", length)
	}
	if len(data) < length {
		if atEOF {
			return 0, nil, newOutOfBoundError("message", length, len(data))
		}
		return 0, nil, nil
	}
	return length, data[:length], nil
}

// serializeMessage writes the common header followed by the objects.
// serializeMessage measures the encoded objects rather than their Len, since
// a length field that overflowed inside an object or TLV has already wrapped.
func serializeMessage(messageType MessageType, objects []Object) ([]uint8, error) {
	encoded := make([][]uint8, 0, len(objects))
	length := int(CommonHeaderLength)
	for _, o := range objects {
		b := o.Serialize()
		encoded = append(encoded, b)
		length += len(b)
	}
	if length > math.MaxUint16 {
		return nil, fmt.Errorf("%s message length %d exceeds %d bytes", messageType, length, math.MaxUint16)
	}

	buf := make([]uint8, 0, length)
	buf = append(buf, NewCommonHeader(messageType, uint16(length)).Serialize()...)
	for _, b := range encoded {
		buf = append(buf, b...)
	}
	return buf, nil
}

func marshalMessage(enc zapcore.ObjectEncoder, m Message) error {
	enc.AddString("type", m.MessageType().String())
	return enc.AddArray("objects", objectArray(m.Objects()))
}

// appendObjects flattens optional (possibly nil) objects, skipping the nil ones.
func appendObjects[T Object](objects []Object, items ...T) []Object {
	for _, item := range items {
		if !isNilObject(item) {
			objects = append(objects, item)
		}
	}
	return objects
}

func isNilObject[T Object](o T) bool {
	var zero T
	return any(o) == any(zero)
}

// objectStream walks decoded objects while a message grammar consumes them.
type objectStream struct {
	objects []Object
	pos     int
	context string
}

func newObjectStream(messageBody []uint8, context string) (*objectStream, error) {
	objects, err := DecodeObjects(messageBody)
	if err != nil {
		return nil, err
	}
	return &objectStream{objects: objects, context: context}, nil
}

func (s *objectStream) done() bool {
	return s.pos >= len(s.objects)
}

func (s *objectStream) peek() (Object, bool) {
	if s.done() {
		return nil, false
	}
	return s.objects[s.pos], true
}

// unexpected reports the object at the cursor, or the end of the message.
func (s *objectStream) unexpected(want string) error {
	if o, ok := s.peek(); ok {
		return newParseError(s.context, "expected %s, but got %s object", want, o.Class())
	}
	return newParseError(s.context, "expected %s, but the message ended", want)
}

// nextIs reports whether the object at the cursor is a T.
func nextIs[T Object](s *objectStream) bool {
	o, ok := s.peek()
	if !ok {
		return false
	}
	_, ok = o.(T)
	return ok
}

// optional consumes the object at the cursor if it is a T.
func optional[T Object](s *objectStream) T {
	var zero T
	o, ok := s.peek()
	if !ok {
		return zero
	}
	t, ok := o.(T)
	if !ok {
		return zero
	}
	s.pos++
	return t
}

// expect consumes a mandatory T.
func expect[T Object](s *objectStream, name string) (T, error) {
	if !nextIs[T](s) {
		var zero T
		return zero, s.unexpected(name)
	}
	return optional[T](s), nil
}

// repeated consumes every consecutive T at the cursor.
func repeated[T Object](s *objectStream) []T {
	var ts []T
	for nextIs[T](s) {
		ts = append(ts, optional[T](s))
	}
	return ts
}

// atLeastOne is repeated for groups that need one or more T.
func atLeastOne[T Object](s *objectStream, name string) ([]T, error) {
	ts := repeated[T](s)
	if len(ts) == 0 {
		return nil, s.unexpected(name)
	}
	return ts, nil
}

// Open Message
type OpenMessage struct {
	OpenObject *OpenObject
}

func (m *OpenMessage) DecodeFromBytes(messageBody []uint8) error {
	s, err := newObjectStream(messageBody, MessageTypeOpen.String()+" message")
	if err != nil {
		return err
	}
	if m.OpenObject, err = expect[*OpenObject](s, "OPEN"); err != nil {
		return err
	}
	if !s.done() {
		return s.unexpected("end of message")
	}
	return nil
}

func (m *OpenMessage) Serialize() ([]uint8, error) {
	return serializeMessage(m.MessageType(), m.Objects())
}

func (m *OpenMessage) MessageType() MessageType { return MessageTypeOpen }

func (m *OpenMessage) Objects() []Object {
	return appendObjects(nil, m.OpenObject)
}

func (m *OpenMessage) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	return marshalMessage(enc, m)
}

func NewOpenMessage(sessionID uint8, keepalive uint8, deadtime uint8, caps []CapabilityInterface) *OpenMessage {
	return &OpenMessage{
		OpenObject: NewOpenObject(sessionID, keepalive, deadtime, capabilityTLVs(caps)),
	}
}

// Keepalive Message
type KeepaliveMessage struct{}

func (m *KeepaliveMessage) DecodeFromBytes(messageBody []uint8) error {
	s, err := newObjectStream(messageBody, MessageTypeKeepalive.String()+" message")
	if err != nil {
		return err
	}
	if !s.done() {
		return s.unexpected("end of message")
	}
	return nil
}

func (m *KeepaliveMessage) Serialize() ([]uint8, error) {
	return serializeMessage(m.MessageType(), nil)
}

func (m *KeepaliveMessage) MessageType() MessageType { return MessageTypeKeepalive }

func (m *KeepaliveMessage) Objects() []Object { return nil }

func (m *KeepaliveMessage) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	return marshalMessage(enc, m)
}

func NewKeepaliveMessage() *KeepaliveMessage {
	return &KeepaliveMessage{}
}

// Close Message
type CloseMessage struct {
	CloseObject *CloseObject
}

func (m *CloseMessage) DecodeFromBytes(messageBody []uint8) error {
	s, err := newObjectStream(messageBody, MessageTypeClose.String()+" message")
	if err != nil {
		return err
	}
	if m.CloseObject, err = expect[*CloseObject](s, "CLOSE"); err != nil {
		return err
	}
	if !s.done() {
		return s.unexpected("end of message")
	}
	return nil
}

func (m *CloseMessage) Serialize() ([]uint8, error) {
	return serializeMessage(m.MessageType(), m.Objects())
}

func (m *CloseMessage) MessageType() MessageType { return MessageTypeClose }

func (m *CloseMessage) Objects() []Object {
	return appendObjects(nil, m.CloseObject)
}

func (m *CloseMessage) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	return marshalMessage(enc, m)
}

func NewCloseMessage(reason CloseReason) *CloseMessage {
	return &CloseMessage{
		CloseObject: NewCloseObject(reason),
	}
}

// ErrorBlock is one repetition of the PCErr grammar: the objects the errors
// refer to, one or more PCEP-ERROR objects and, when the errors concern
// session establishment, the OPEN object proposing acceptable parameters.
// Some speakers put that OPEN ahead of the errors instead; it is kept in
// LeadingOpenObject so both orders re-encode as received.
type ErrorBlock struct {
	LeadingOpenObject *OpenObject
	RPObjects         []*RPObject
	LSPObjects        []*LSPObject
	LSObjects         []*LSObject
	ErrorObjects      []*PCEPErrorObject
	OpenObject        *OpenObject
}

// PCErr Message (RFC5440 6.7)
type ErrorMessage struct {
	Blocks []ErrorBlock
}

func (m *ErrorMessage) DecodeFromBytes(messageBody []uint8) error {
	s, err := newObjectStream(messageBody, MessageTypeError.String()+" message")
	if err != nil {
		return err
	}

	m.Blocks = nil
	for {
		var b ErrorBlock
		switch {
		case nextIs[*OpenObject](s):
			b.LeadingOpenObject = optional[*OpenObject](s)
		case nextIs[*RPObject](s):
			b.RPObjects = repeated[*RPObject](s)
		case nextIs[*LSPObject](s):
			b.LSPObjects = repeated[*LSPObject](s)
		case nextIs[*LSObject](s):
			b.LSObjects = repeated[*LSObject](s)
		}
		if b.ErrorObjects, err = atLeastOne[*PCEPErrorObject](s, "PCEP-ERROR"); err != nil {
			return err
		}
		b.OpenObject = optional[*OpenObject](s)
		m.Blocks = append(m.Blocks, b)
		if s.done() {
			return nil
		}
	}
}

func (m *ErrorMessage) Serialize() ([]uint8, error) {
	return serializeMessage(m.MessageType(), m.Objects())
}

func (m *ErrorMessage) MessageType() MessageType { return MessageTypeError }

func (m *ErrorMessage) Objects() []Object {
	var objects []Object
	for _, b := range m.Blocks {
		objects = appendObjects(objects, b.LeadingOpenObject)
		objects = appendObjects(objects, b.RPObjects...)
		objects = appendObjects(objects, b.LSPObjects...)
		objects = appendObjects(objects, b.LSObjects...)
		objects = appendObjects(objects, b.ErrorObjects...)
		objects = appendObjects(objects, b.OpenObject)
	}
	return objects
}

func (m *ErrorMessage) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	return marshalMessage(enc, m)
}

// NewErrorMessage returns a PCErr carrying a single PCEP-ERROR object.
func NewErrorMessage(errorType ErrorType, errorValue uint8) *ErrorMessage {
	return &ErrorMessage{
		Blocks: []ErrorBlock{
			{ErrorObjects: []*PCEPErrorObject{NewPCEPErrorObject(errorType, errorValue)}},
		},
	}
}
