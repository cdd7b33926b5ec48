// Copyright (c) 2022 NTT Communications Corporation
//
// This software is released under the MIT License.
// see https://github.com/nttcom/pola/blob/main/LICENSE

package pcep

import (
	"errors"
	"fmt"
)

// ParseError reports structurally malformed input: a length field that
// disagrees with the content, a field below its minimum size, an unknown
// object carrying the P flag, or a message that violates its object grammar.
type ParseError struct {
	Context string
	Reason  string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error in %s: %s", e.Context, e.Reason)
}

// OutOfBoundError reports an attempt to read past the declared or supplied
// end of a buffer.
type OutOfBoundError struct {
	Context string
	Need    int
	Have    int
}

func (e *OutOfBoundError) Error() string {
	return fmt.Sprintf("out of bound in %s: need %d bytes, but only %d bytes remain", e.Context, e.Need, e.Have)
}

func newParseError(context, format string, args ...any) error {
	return &ParseError{Context: context, Reason: fmt.Sprintf(format, args...)}
}

func newOutOfBoundError(context string, need, have int) error {
	return &OutOfBoundError{Context: context, Need: need, Have: have}
}

// IsParseError reports whether any error in err's chain is a *ParseError.
func IsParseError(err error) bool {
	var pe *ParseError
	return errors.As(err, &pe)
}

// IsOutOfBoundError reports whether any error in err's chain is an *OutOfBoundError.
func IsOutOfBoundError(err error) bool {
	var oe *OutOfBoundError
	return errors.As(err, &oe)
}
