// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package pcep

import (
	"encoding/binary"

	"golang.org/x/exp/constraints"
)

const alignment = 4

// AppendByteSlices concatenates multiple byte slices into a single slice.
func AppendByteSlices(slices ...[]byte) []byte {
	totalLen := 0
	for _, s := range slices {
		totalLen += len(s)
	}

	result := make([]byte, totalLen)
	offset := 0
	for _, s := range slices {
		copy(result[offset:], s)
		offset += len(s)
	}

	return result
}

// Uint16ToByteSlice converts a uint16 or TLVType value to a big-endian byte slice.
func Uint16ToByteSlice[T ~uint16](v T) []byte {
	b := make([]byte, 2)
	binary.BigEndian.PutUint16(b, uint16(v))
	return b
}

// Uint32ToByteSlice converts a uint32 value to a big-endian byte slice.
func Uint32ToByteSlice(v uint32) []byte {
	b := make([]byte, 4)
	binary.BigEndian.PutUint32(b, v)
	return b
}

// Uint64ToByteSlice converts a uint64 value to a big-endian byte slice.
func Uint64ToByteSlice(v uint64) []byte {
	b := make([]byte, 8)
	binary.BigEndian.PutUint64(b, v)
	return b
}

// Bitwise is a type constraint for unsigned integer types.
type Bitwise interface {
	constraints.Unsigned
}

// IsBitSet checks if a specific bit is set in the value, with bit 0 as the least significant bit (LSB).
func IsBitSet[T Bitwise](value, mask T) bool {
	return value&mask != 0
}

// SetBit sets a specific bit in the value of any unsigned integer type.
func SetBit[T Bitwise](value, bit T, condition bool) T {
	if condition {
		return value | bit
	}
	return value
}

// PaddingLength returns the number of zero bytes that align n to a 4-byte boundary.
func PaddingLength[T constraints.Integer](n T) T {
	return (alignment - (n % alignment)) % alignment
}

// PaddedLength rounds n up to a multiple of 4.
func PaddedLength[T constraints.Integer](n T) T {
	return n + PaddingLength(n)
}

// appendPadding appends zero bytes until len(b) is a multiple of 4.
func appendPadding(b []byte) []byte {
	return append(b, make([]byte, PaddingLength(len(b)))...)
}

// splitBytes returns the first n bytes of data and the rest, or an
// OutOfBoundError naming context when fewer than n bytes remain.
func splitBytes(data []byte, n int, context string) ([]byte, []byte, error) {
	if n < 0 || n > len(data) {
		return nil, nil, newOutOfBoundError(context, n, len(data))
	}
	return data[:n:n], data[n:], nil
}

// cloneBytes copies b so that decoded values never alias the input buffer.
func cloneBytes(b []byte) []byte {
	if b == nil {
		return nil
	}
	c := make([]byte, len(b))
	copy(c, b)
	return c
}
