// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package pcep

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAppendByteSlices(t *testing.T) {
	tests := []struct {
		name     string
		input    [][]byte
		expected []byte
	}{
		{name: "Header and body", input: [][]byte{{0x20, 0x02}, {0x00, 0x04}}, expected: []byte{0x20, 0x02, 0x00, 0x04}},
		{name: "Nil parts", input: [][]byte{nil, {0x01}, nil}, expected: []byte{0x01}},
		{name: "Nothing", input: nil, expected: []byte{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, AppendByteSlices(tt.input...))
		})
	}
}

func TestByteSliceConversion(t *testing.T) {
	tests := []struct {
		name     string
		actual   []byte
		expected []byte
	}{
		{name: "uint16", actual: Uint16ToByteSlice(uint16(0x0102)), expected: []byte{0x01, 0x02}},
		{name: "TLVType", actual: Uint16ToByteSlice(TLVSymbolicPathName), expected: []byte{0x00, 0x11}},
		{name: "uint32", actual: Uint32ToByteSlice(0xc0000201), expected: []byte{0xc0, 0x00, 0x02, 0x01}},
		{name: "uint64", actual: Uint64ToByteSlice(0x0102030405060708), expected: []byte{0x01, 0x02, 0x03, 0x04, 0x05, 0x06, 0x07, 0x08}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, tt.actual)
		})
	}
}

func TestFlagBits(t *testing.T) {
	tests := []struct {
		name      string
		value     uint8
		bit       uint8
		condition bool
		set       uint8
		wasSet    bool
	}{
		{name: "Set on zero", value: 0x00, bit: 0x01, condition: true, set: 0x01},
		{name: "Already set", value: 0x01, bit: 0x01, condition: true, set: 0x01, wasSet: true},
		{name: "Other bits kept", value: 0xf0, bit: 0x02, condition: true, set: 0xf2},
		{name: "False leaves the value", value: 0x04, bit: 0x01, condition: false, set: 0x04},
		{name: "False does not clear", value: 0x03, bit: 0x02, condition: false, set: 0x03, wasSet: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.wasSet, IsBitSet(tt.value, tt.bit))
			assert.Equal(t, tt.set, SetBit(tt.value, tt.bit, tt.condition))
		})
	}

	// The LSP object flags span the low 12 bits of a uint32.
	assert.True(t, IsBitSet(uint32(0x0000_0800), 0x800))
	assert.False(t, IsBitSet(uint16(0x0201), 0x0400))
}

func TestPaddingLength(t *testing.T) {
	tests := []struct {
		name     string
		input    int
		expected int
		padded   int
	}{
		{name: "Already aligned", input: 8, expected: 0, padded: 8},
		{name: "Zero", input: 0, expected: 0, padded: 0},
		{name: "One byte over", input: 5, expected: 3, padded: 8},
		{name: "Three bytes over", input: 7, expected: 1, padded: 8},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, PaddingLength(tt.input))
			assert.Equal(t, tt.padded, PaddedLength(tt.input))
			assert.Len(t, appendPadding(make([]byte, tt.input)), tt.padded)
		})
	}
}

func TestSplitBytes(t *testing.T) {
	data := []byte{0x01, 0x02, 0x03}

	tests := []struct {
		name       string
		n          int
		head       []byte
		rest       []byte
		outOfBound bool
	}{
		{name: "Prefix", n: 2, head: []byte{0x01, 0x02}, rest: []byte{0x03}},
		{name: "Everything", n: 3, head: data, rest: []byte{}},
		{name: "Past the end", n: 4, outOfBound: true},
		{name: "Negative", n: -1, outOfBound: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			head, rest, err := splitBytes(data, tt.n, "test")
			if tt.outOfBound {
				assert.True(t, IsOutOfBoundError(err), "got %v", err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.head, head)
			assert.Equal(t, tt.rest, rest)
			// The head is capped so appending to it cannot overwrite rest.
			assert.Equal(t, len(head), cap(head))
		})
	}
}

func TestCloneBytes(t *testing.T) {
	assert.Nil(t, cloneBytes(nil))

	src := []byte{0x01, 0x02}
	c := cloneBytes(src)
	src[0] = 0xff
	assert.Equal(t, []byte{0x01, 0x02}, c)
}
