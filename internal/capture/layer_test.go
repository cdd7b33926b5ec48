// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package capture

import (
	"testing"

	"github.com/google/gopacket"
	"github.com/nttcom/pcepio/pkg/packet/pcep"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPCEP_Packet(t *testing.T) {
	keepalive := []byte{0x20, 0x02, 0x00, 0x04}
	closeMsg := []byte{0x20, 0x07, 0x00, 0x0c, 0x0f, 0x10, 0x00, 0x08, 0x00, 0x00, 0x00, 0x02}

	tests := []struct {
		name  string
		wire  []byte
		types []pcep.MessageType
		err   bool
	}{
		{
			name:  "Single message",
			wire:  keepalive,
			types: []pcep.MessageType{pcep.MessageTypeKeepalive},
		},
		{
			name:  "Back to back messages",
			wire:  append(append([]byte{}, keepalive...), closeMsg...),
			types: []pcep.MessageType{pcep.MessageTypeKeepalive, pcep.MessageTypeClose},
		},
		{
			name:  "Truncated second message",
			wire:  append(append([]byte{}, keepalive...), closeMsg[:6]...),
			types: []pcep.MessageType{pcep.MessageTypeKeepalive},
			err:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			packet := gopacket.NewPacket(tt.wire, LayerTypePCEP, gopacket.Default)

			var types []pcep.MessageType
			for _, l := range packet.Layers() {
				if p, ok := l.(*PCEP); ok {
					types = append(types, p.Message.MessageType())
				}
			}
			assert.Equal(t, tt.types, types)
			if tt.err {
				assert.NotNil(t, packet.ErrorLayer())
			} else {
				assert.Nil(t, packet.ErrorLayer())
			}
		})
	}
}

func TestPCEP_DecodeFromBytes(t *testing.T) {
	wire := []byte{0x20, 0x02, 0x00, 0x04, 0xff}

	var l PCEP
	require.NoError(t, l.DecodeFromBytes(wire, gopacket.NilDecodeFeedback))
	assert.Equal(t, wire[:4], l.LayerContents())
	assert.Equal(t, []byte{0xff}, l.Payload())
	assert.Equal(t, LayerTypePCEP, l.NextLayerType())
	assert.Equal(t, LayerTypePCEP, l.LayerType())

	assert.Error(t, l.DecodeFromBytes(nil, gopacket.NilDecodeFeedback))
	assert.Error(t, l.DecodeFromBytes([]byte{0x20, 0x7f, 0x00, 0x04}, gopacket.NilDecodeFeedback))
}

func TestPCEP_SerializeTo(t *testing.T) {
	buf := gopacket.NewSerializeBuffer()
	err := gopacket.SerializeLayers(buf, gopacket.SerializeOptions{}, &PCEP{Message: pcep.NewKeepaliveMessage()})
	require.NoError(t, err)
	assert.Equal(t, []byte{0x20, 0x02, 0x00, 0x04}, buf.Bytes())

	assert.Error(t, gopacket.SerializeLayers(gopacket.NewSerializeBuffer(), gopacket.SerializeOptions{}, &PCEP{}))
}
