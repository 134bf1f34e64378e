// Package fixture builds ubinary containers byte by byte for tests.
//
// The library has no write path; tests across packages describe their inputs
// with a Builder instead of checked-in binary files.
package fixture

import (
	"math"

	"github.com/arloliu/ubinary/endian"
	"github.com/arloliu/ubinary/format"
)

var le = endian.GetLittleEndianEngine()

// Builder appends little-endian container fragments to a byte slice.
// Every method returns the receiver so calls chain.
type Builder struct {
	buf []byte
}

// New creates an empty builder.
func New() *Builder {
	return &Builder{}
}

// Bytes returns the built buffer.
func (b *Builder) Bytes() []byte {
	return b.buf
}

// Len returns the number of bytes written so far.
func (b *Builder) Len() int {
	return len(b.buf)
}

func (b *Builder) Raw(p ...byte) *Builder {
	b.buf = append(b.buf, p...)
	return b
}

func (b *Builder) I8(v int8) *Builder   { return b.Raw(byte(v)) } //nolint:gosec
func (b *Builder) U8(v uint8) *Builder  { return b.Raw(v) }
func (b *Builder) I16(v int16) *Builder { return b.U16(uint16(v)) } //nolint:gosec
func (b *Builder) I32(v int32) *Builder { return b.U32(uint32(v)) } //nolint:gosec
func (b *Builder) I64(v int64) *Builder { return b.U64(uint64(v)) } //nolint:gosec

func (b *Builder) U16(v uint16) *Builder {
	b.buf = le.AppendUint16(b.buf, v)
	return b
}

func (b *Builder) U32(v uint32) *Builder {
	b.buf = le.AppendUint32(b.buf, v)
	return b
}

func (b *Builder) U64(v uint64) *Builder {
	b.buf = le.AppendUint64(b.buf, v)
	return b
}

func (b *Builder) F32(v float32) *Builder { return b.U32(math.Float32bits(v)) }
func (b *Builder) F64(v float64) *Builder { return b.U64(math.Float64bits(v)) }

func (b *Builder) Bool(v bool) *Builder {
	if v {
		return b.U8(1)
	}

	return b.U8(0)
}

// Text writes a length-prefixed string.
func (b *Builder) Text(s string) *Builder {
	b.U32(uint32(len(s))) //nolint:gosec
	b.buf = append(b.buf, s...)

	return b
}

// Dims writes an array dimension header: the count followed by the lengths.
func (b *Builder) Dims(lengths ...int) *Builder {
	b.U32(uint32(len(lengths))) //nolint:gosec
	for _, n := range lengths {
		b.U32(uint32(n)) //nolint:gosec
	}

	return b
}

// Header writes a segment header: the name table then the type table.
func (b *Builder) Header(names []string, types []uint16) *Builder {
	b.Dims(len(names))
	for _, n := range names {
		b.Text(n)
	}

	b.Dims(len(types))
	for _, t := range types {
		b.U16(t)
	}

	return b
}

// Tag writes a segment marker.
func (b *Builder) Tag(name string) *Builder {
	b.buf = append(b.buf, "@@@@@"...)
	b.buf = append(b.buf, name...)
	b.buf = append(b.buf, "}}}}}"...)

	return b
}

// Waveform writes one waveform record. ts2 is the stored word, before the
// epoch shift applied by the decoder.
func (b *Builder) Waveform(ts1, ts2 uint64, dt float64, y []float64, attrs [format.WaveformAttrSize]byte) *Builder {
	b.U64(ts1).U64(ts2).F64(dt)
	b.Dims(len(y))
	for _, v := range y {
		b.F64(v)
	}

	return b.Raw(attrs[:]...)
}

// Segment is a convenience for a header followed by a payload built by fn.
func (b *Builder) Segment(names []string, types []uint16, fn func(*Builder)) *Builder {
	b.Header(names, types)
	if fn != nil {
		fn(b)
	}

	return b
}
