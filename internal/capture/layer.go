// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package capture

import (
	"errors"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/nttcom/pcepio/pkg/packet/pcep"
)

// PCEPPort is the well-known TCP port of PCEP (RFC5440 10.1).
const PCEPPort = 4189

// LayerTypePCEP identifies a single PCEP message.
var LayerTypePCEP = gopacket.RegisterLayerType(PCEPPort, gopacket.LayerTypeMetadata{
	Name:    "PCEP",
	Decoder: gopacket.DecodeFunc(decodePCEP),
})

func init() {
	layers.RegisterTCPPortLayerType(layers.TCPPort(PCEPPort), LayerTypePCEP)
}

// PCEP is the gopacket layer for one PCEP message. Bytes following the
// message become the layer payload.
type PCEP struct {
	Message pcep.Message
	wire    []byte
	payload []byte
}

var _ interface {
	gopacket.ApplicationLayer
	gopacket.DecodingLayer
	gopacket.SerializableLayer
} = &PCEP{}

// LayerType returns LayerTypePCEP.
func (PCEP) LayerType() gopacket.LayerType {
	return LayerTypePCEP
}

// LayerContents returns the message bytes, common header included.
func (l *PCEP) LayerContents() []byte {
	return l.wire
}

// LayerPayload returns bytes after the message.
func (l *PCEP) LayerPayload() []byte {
	return l.payload
}

// Payload implements gopacket.ApplicationLayer interface.
func (l *PCEP) Payload() []byte {
	return l.LayerPayload()
}

// DecodeFromBytes decodes the message at the start of wire.
func (l *PCEP) DecodeFromBytes(wire []byte, df gopacket.DecodeFeedback) error {
	advance, token, err := pcep.SplitMessage(wire, true)
	if err != nil {
		df.SetTruncated()
		return err
	}
	if token == nil {
		return errors.New("empty PCEP layer")
	}

	m, err := pcep.DecodeMessage(token)
	if err != nil {
		return err
	}
	l.Message = m
	l.wire = token
	l.payload = wire[advance:]
	return nil
}

// CanDecode implements gopacket.DecodingLayer interface.
func (PCEP) CanDecode() gopacket.LayerClass {
	return LayerTypePCEP
}

// NextLayerType implements gopacket.DecodingLayer interface. A TCP segment
// may carry several messages back to back.
func (l *PCEP) NextLayerType() gopacket.LayerType {
	if len(l.payload) == 0 {
		return gopacket.LayerTypeZero
	}
	return LayerTypePCEP
}

// SerializeTo implements gopacket.SerializableLayer interface.
func (l *PCEP) SerializeTo(b gopacket.SerializeBuffer, opts gopacket.SerializeOptions) error {
	if l.Message == nil {
		return errors.New("no Message")
	}

	wire, err := l.Message.Serialize()
	if err != nil {
		return err
	}
	buf, err := b.PrependBytes(len(wire))
	if err != nil {
		return err
	}
	copy(buf, wire)
	return nil
}

func decodePCEP(wire []byte, p gopacket.PacketBuilder) error {
	l := &PCEP{}
	if e := l.DecodeFromBytes(wire, p); e != nil {
		return e
	}
	p.AddLayer(l)
	p.SetApplicationLayer(l)
	if len(l.payload) == 0 {
		return nil
	}
	return p.NextDecoder(gopacket.DecodeFunc(decodePCEP))
}
