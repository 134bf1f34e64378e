// Package errs defines the error values reported by the ubinary decoder.
//
// Callers match failures with errors.Is against the sentinel values and use
// errors.As with *DecodeError to recover the failing offset and the
// expected-vs-available byte or entry counts.
package errs

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrBufferOverrun reports a read that would go past the end of the segment.
	// Truncated files and corrupt length prefixes both end up here.
	ErrBufferOverrun = errors.New("buffer overrun")

	// ErrMalformedHeader reports inconsistent name/type tables: a queue ran dry
	// before the declared member count was reached, a dimension count does not
	// match the header, or a header table is not one-dimensional.
	ErrMalformedHeader = errors.New("malformed header")

	// ErrDuplicateFieldName reports two values contributing the same sanitized
	// field name to one cluster or to the merged result.
	ErrDuplicateFieldName = errors.New("duplicate field name")

	// ErrEmptyInput reports a zero-length buffer without any tag.
	ErrEmptyInput = errors.New("empty input")

	// ErrUnknownTypeCode marks a type code outside the known table. It is used
	// in reports and warnings only; decoding never fails with it.
	ErrUnknownTypeCode = errors.New("unknown type code")

	// ErrUnsupportedCompression reports a source file whose compression cannot
	// be handled.
	ErrUnsupportedCompression = errors.New("unsupported compression")

	// ErrInvalidFieldName reports an empty field name handed to the merge tracker.
	ErrInvalidFieldName = errors.New("invalid field name")
)

// DecodeError carries the position of a decode failure.
//
// Need and Have are byte counts for ErrBufferOverrun and queue entry counts
// for ErrMalformedHeader. A negative value means the count does not apply.
type DecodeError struct {
	Err    error
	Op     string
	Detail string
	Offset int
	Need   int
	Have   int
}

// Error implements the error interface.
func (e *DecodeError) Error() string {
	var b strings.Builder

	if e.Op != "" {
		b.WriteString(e.Op)
		b.WriteString(": ")
	}
	b.WriteString(e.Err.Error())
	fmt.Fprintf(&b, " at offset %d", e.Offset)

	if e.Need >= 0 && e.Have >= 0 {
		fmt.Fprintf(&b, " (need %d, have %d)", e.Need, e.Have)
	}

	if e.Detail != "" {
		b.WriteString(": ")
		b.WriteString(e.Detail)
	}

	return b.String()
}

// Unwrap returns the sentinel error.
func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Overrun builds an ErrBufferOverrun error for a read of need bytes at offset
// when only have bytes remain.
func Overrun(op string, offset, need, have int) *DecodeError {
	return &DecodeError{
		Err:    ErrBufferOverrun,
		Op:     op,
		Offset: offset,
		Need:   need,
		Have:   have,
	}
}

// Malformed builds an ErrMalformedHeader error. need and have are queue entry
// counts; pass -1 when they do not apply.
func Malformed(op string, offset, need, have int, format string, args ...any) *DecodeError {
	return &DecodeError{
		Err:    ErrMalformedHeader,
		Op:     op,
		Offset: offset,
		Need:   need,
		Have:   have,
		Detail: fmt.Sprintf(format, args...),
	}
}
