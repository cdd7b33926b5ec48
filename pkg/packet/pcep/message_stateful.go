// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package pcep

import (
	"go.uber.org/zap/zapcore"
)

// AttributeList holds the optional objects that follow the ERO in the
// stateful messages (RFC5440 6.5 <attribute-list>).
type AttributeList struct {
	LSPAObject       *LSPAObject
	BandwidthObjects []*BandwidthObject
	MetricObjects    []*MetricObject
}

func (a *AttributeList) decode(s *objectStream, multipleBandwidths bool) {
	a.LSPAObject = optional[*LSPAObject](s)
	if multipleBandwidths {
		a.BandwidthObjects = repeated[*BandwidthObject](s)
	} else if bw := optional[*BandwidthObject](s); bw != nil {
		a.BandwidthObjects = []*BandwidthObject{bw}
	}
	a.MetricObjects = repeated[*MetricObject](s)
}

func (a *AttributeList) appendTo(objects []Object) []Object {
	objects = appendObjects(objects, a.LSPAObject)
	objects = appendObjects(objects, a.BandwidthObjects...)
	return appendObjects(objects, a.MetricObjects...)
}

// LSPInitiateRequest is one <PCE-initiated-lsp-request> of a PCInitiate.
type LSPInitiateRequest struct {
	SRPObject       *SRPObject
	LSPObject       *LSPObject
	EndpointsObject *EndpointsObject
	EROObject       *EROObject
	AttributeList
}

// PCInitiate Message (RFC8281 5.1)
type PCInitiateMessage struct {
	Requests []LSPInitiateRequest
}

func (m *PCInitiateMessage) DecodeFromBytes(messageBody []uint8) error {
	s, err := newObjectStream(messageBody, MessageTypeInitiate.String()+" message")
	if err != nil {
		return err
	}

	m.Requests = nil
	for {
		var r LSPInitiateRequest
		if r.SRPObject, err = expect[*SRPObject](s, "SRP"); err != nil {
			return err
		}
		if r.LSPObject, err = expect[*LSPObject](s, "LSP"); err != nil {
			return err
		}
		r.EndpointsObject = optional[*EndpointsObject](s)
		r.EROObject = optional[*EROObject](s)
		r.AttributeList.decode(s, false)
		m.Requests = append(m.Requests, r)
		if s.done() {
			return nil
		}
	}
}

func (m *PCInitiateMessage) Serialize() ([]uint8, error) {
	return serializeMessage(m.MessageType(), m.Objects())
}

func (m *PCInitiateMessage) MessageType() MessageType { return MessageTypeInitiate }

func (m *PCInitiateMessage) Objects() []Object {
	var objects []Object
	for _, r := range m.Requests {
		objects = appendObjects(objects, r.SRPObject)
		objects = appendObjects(objects, r.LSPObject)
		objects = appendObjects(objects, r.EndpointsObject)
		objects = appendObjects(objects, r.EROObject)
		objects = r.AttributeList.appendTo(objects)
	}
	return objects
}

func (m *PCInitiateMessage) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	return marshalMessage(enc, m)
}

// NewPCInitiateMessage returns a PCInitiate creating a single LSP along ero.
func NewPCInitiateMessage(srpID uint32, lspName string, endpoints *EndpointsObject, ero *EROObject, pst Pst, metrics ...*MetricObject) *PCInitiateMessage {
	return &PCInitiateMessage{
		Requests: []LSPInitiateRequest{
			{
				SRPObject:       NewSRPObject(srpID, false, pst),
				LSPObject:       NewLSPObject(lspName, 0),
				EndpointsObject: endpoints,
				EROObject:       ero,
				AttributeList:   AttributeList{MetricObjects: metrics},
			},
		},
	}
}

// LSPUpdateRequest is one <update-request> of a PCUpd.
type LSPUpdateRequest struct {
	SRPObject *SRPObject
	LSPObject *LSPObject
	EROObject *EROObject
	AttributeList
}

// PCUpd Message (RFC8231 6.2)
type PCUpdMessage struct {
	Requests []LSPUpdateRequest
}

func (m *PCUpdMessage) DecodeFromBytes(messageBody []uint8) error {
	s, err := newObjectStream(messageBody, MessageTypeUpdate.String()+" message")
	if err != nil {
		return err
	}

	m.Requests = nil
	for {
		var r LSPUpdateRequest
		if r.SRPObject, err = expect[*SRPObject](s, "SRP"); err != nil {
			return err
		}
		if r.LSPObject, err = expect[*LSPObject](s, "LSP"); err != nil {
			return err
		}
		r.EROObject = optional[*EROObject](s)
		r.AttributeList.decode(s, false)
		m.Requests = append(m.Requests, r)
		if s.done() {
			return nil
		}
	}
}

func (m *PCUpdMessage) Serialize() ([]uint8, error) {
	return serializeMessage(m.MessageType(), m.Objects())
}

func (m *PCUpdMessage) MessageType() MessageType { return MessageTypeUpdate }

func (m *PCUpdMessage) Objects() []Object {
	var objects []Object
	for _, r := range m.Requests {
		objects = appendObjects(objects, r.SRPObject)
		objects = appendObjects(objects, r.LSPObject)
		objects = appendObjects(objects, r.EROObject)
		objects = r.AttributeList.appendTo(objects)
	}
	return objects
}

func (m *PCUpdMessage) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	return marshalMessage(enc, m)
}

func NewPCUpdMessage(srpID uint32, lspName string, plspID uint32, ero *EROObject, pst Pst) *PCUpdMessage {
	return &PCUpdMessage{
		Requests: []LSPUpdateRequest{
			{
				SRPObject: NewSRPObject(srpID, false, pst),
				LSPObject: NewLSPObject(lspName, plspID),
				EROObject: ero,
			},
		},
	}
}

// StateReport is one <state-report> of a PCRpt.
type StateReport struct {
	SRPObject *SRPObject
	LSPObject *LSPObject
	EROObject *EROObject
	AttributeList
	RROObject *RROObject
}

// PCRpt Message (RFC8231 6.1)
type PCRptMessage struct {
	StateReports []StateReport
}

func (m *PCRptMessage) DecodeFromBytes(messageBody []uint8) error {
	s, err := newObjectStream(messageBody, MessageTypeReport.String()+" message")
	if err != nil {
		return err
	}

	m.StateReports = nil
	for {
		var r StateReport
		r.SRPObject = optional[*SRPObject](s)
		if r.LSPObject, err = expect[*LSPObject](s, "LSP"); err != nil {
			return err
		}
		r.EROObject = optional[*EROObject](s)
		r.AttributeList.decode(s, true)
		r.RROObject = optional[*RROObject](s)
		m.StateReports = append(m.StateReports, r)
		if s.done() {
			return nil
		}
	}
}

func (m *PCRptMessage) Serialize() ([]uint8, error) {
	return serializeMessage(m.MessageType(), m.Objects())
}

func (m *PCRptMessage) MessageType() MessageType { return MessageTypeReport }

func (m *PCRptMessage) Objects() []Object {
	var objects []Object
	for _, r := range m.StateReports {
		objects = appendObjects(objects, r.SRPObject)
		objects = appendObjects(objects, r.LSPObject)
		objects = appendObjects(objects, r.EROObject)
		objects = r.AttributeList.appendTo(objects)
		objects = appendObjects(objects, r.RROObject)
	}
	return objects
}

func (m *PCRptMessage) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	return marshalMessage(enc, m)
}
