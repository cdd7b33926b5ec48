// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package capture

import (
	"testing"

	"github.com/google/gopacket"
	"github.com/google/gopacket/layers"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSeqBefore(t *testing.T) {
	tests := []struct {
		name string
		a, b uint32
		want bool
	}{
		{name: "Smaller", a: 1, b: 2, want: true},
		{name: "Equal", a: 2, b: 2, want: false},
		{name: "Larger", a: 3, b: 2, want: false},
		{name: "Wrapped", a: 0xfffffff0, b: 0x10, want: true},
		{name: "Wrapped reverse", a: 0x10, b: 0xfffffff0, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, seqBefore(tt.a, tt.b))
		})
	}
}

func TestFlowTable_Push(t *testing.T) {
	flows, err := newFlowTable(4)
	require.NoError(t, err)

	key := flowKey{
		net:       gopacket.NewFlow(layers.EndpointIPv4, []byte{192, 0, 2, 1}, []byte{192, 0, 2, 2}),
		transport: gopacket.NewFlow(layers.EndpointTCPPort, []byte{0x9c, 0x40}, []byte{0x10, 0x5d}),
	}
	segment := func(seq uint32, payload ...byte) *layers.TCP {
		tcp := &layers.TCP{Seq: seq}
		tcp.Payload = payload
		return tcp
	}

	messages, err := flows.push(key, segment(0xfffffffe, 0x20, 0x02))
	require.NoError(t, err)
	assert.Empty(t, messages)
	assert.Equal(t, 1, flows.len())

	// Sequence numbers wrap around zero.
	messages, err = flows.push(key, segment(0, 0x00, 0x04, 0x20, 0x02, 0x00, 0x04))
	require.NoError(t, err)
	assert.Equal(t, [][]byte{{0x20, 0x02, 0x00, 0x04}, {0x20, 0x02, 0x00, 0x04}}, messages)

	rst := segment(4)
	rst.RST = true
	_, err = flows.push(key, rst)
	require.NoError(t, err)
	assert.Equal(t, 0, flows.len())
	assert.Equal(t, 0, flows.gaps)
}
