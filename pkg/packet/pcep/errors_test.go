// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package pcep

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorKinds(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		parse      bool
		outOfBound bool
		message    string
	}{
		{
			name:    "Parse error",
			err:     newParseError("OPEN object", "bad version %d", 2),
			parse:   true,
			message: "parse error in OPEN object: bad version 2",
		},
		{
			name:       "Out of bound error",
			err:        newOutOfBoundError("TLV value", 8, 4),
			outOfBound: true,
			message:    "out of bound in TLV value: need 8 bytes, but only 4 bytes remain",
		},
		{
			name:    "Wrapped parse error",
			err:     fmt.Errorf("failed to decode: %w", newParseError("LSP object", "short")),
			parse:   true,
			message: "failed to decode: parse error in LSP object: short",
		},
		{
			name:    "Other error",
			err:     errors.New("boom"),
			message: "boom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.parse, IsParseError(tt.err))
			assert.Equal(t, tt.outOfBound, IsOutOfBoundError(tt.err))
			assert.EqualError(t, tt.err, tt.message)
		})
	}
}
