// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package pcep

import (
	"go.uber.org/zap/zapcore"
)

// LabelUpdate is one block of a PCLabelUpd. A label download carries the
// LSP the labels belong to; a label map binds the labels to a FEC instead.
type LabelUpdate struct {
	SRPObject    *SRPObject
	LSPObject    *LSPObject // download only
	LabelObjects []*LabelObject
	FECObject    *FECObject // map only
}

// IsLabelMap reports whether the block is a label map rather than a download.
func (u *LabelUpdate) IsLabelMap() bool {
	return u.LSPObject == nil
}

// PCLabelUpd Message
type LabelUpdateMessage struct {
	Updates []LabelUpdate
}

func (m *LabelUpdateMessage) DecodeFromBytes(messageBody []uint8) error {
	s, err := newObjectStream(messageBody, MessageTypeLabelUpdate.String()+" message")
	if err != nil {
		return err
	}

	m.Updates = nil
	for {
		var u LabelUpdate
		if u.SRPObject, err = expect[*SRPObject](s, "SRP"); err != nil {
			return err
		}
		u.LSPObject = optional[*LSPObject](s)
		if u.LabelObjects, err = atLeastOne[*LabelObject](s, "LABEL"); err != nil {
			return err
		}
		if u.IsLabelMap() {
			if u.FECObject, err = expect[*FECObject](s, "FEC"); err != nil {
				return err
			}
		}
		m.Updates = append(m.Updates, u)
		if s.done() {
			return nil
		}
	}
}

func (m *LabelUpdateMessage) Serialize() ([]uint8, error) {
	return serializeMessage(m.MessageType(), m.Objects())
}

func (m *LabelUpdateMessage) MessageType() MessageType { return MessageTypeLabelUpdate }

func (m *LabelUpdateMessage) Objects() []Object {
	var objects []Object
	for _, u := range m.Updates {
		objects = appendObjects(objects, u.SRPObject)
		objects = appendObjects(objects, u.LSPObject)
		objects = appendObjects(objects, u.LabelObjects...)
		objects = appendObjects(objects, u.FECObject)
	}
	return objects
}

func (m *LabelUpdateMessage) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	return marshalMessage(enc, m)
}

func NewLabelDownload(srpID uint32, lsp *LSPObject, labels ...*LabelObject) LabelUpdate {
	return LabelUpdate{
		SRPObject:    NewSRPObject(srpID, false, PathSetupTypePCECCTE),
		LSPObject:    lsp,
		LabelObjects: labels,
	}
}

func NewLabelMap(srpID uint32, fec *FECObject, labels ...*LabelObject) LabelUpdate {
	return LabelUpdate{
		SRPObject:    NewSRPObject(srpID, false, PathSetupTypePCECCTE),
		LabelObjects: labels,
		FECObject:    fec,
	}
}

func NewLabelUpdateMessage(updates ...LabelUpdate) *LabelUpdateMessage {
	return &LabelUpdateMessage{Updates: updates}
}

// PCLSRpt Message
type LSReportMessage struct {
	LSObjects []*LSObject
}

func (m *LSReportMessage) DecodeFromBytes(messageBody []uint8) error {
	s, err := newObjectStream(messageBody, MessageTypeLSReport.String()+" message")
	if err != nil {
		return err
	}

	if m.LSObjects, err = atLeastOne[*LSObject](s, "LS"); err != nil {
		return err
	}
	if !s.done() {
		return s.unexpected("LS")
	}
	return nil
}

func (m *LSReportMessage) Serialize() ([]uint8, error) {
	return serializeMessage(m.MessageType(), m.Objects())
}

func (m *LSReportMessage) MessageType() MessageType { return MessageTypeLSReport }

func (m *LSReportMessage) Objects() []Object {
	return appendObjects(nil, m.LSObjects...)
}

func (m *LSReportMessage) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	return marshalMessage(enc, m)
}

func NewLSReportMessage(lsObjects ...*LSObject) *LSReportMessage {
	return &LSReportMessage{LSObjects: lsObjects}
}
