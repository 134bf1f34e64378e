// Package value defines the decoded value tree produced by the ubinary decoder.
//
// A Value is one of six concrete node types:
//
//   - *Scalar: a single integer, float or boolean
//   - *Text: a length-prefixed string (string, picture and refnum codes)
//   - *Array: an n-dimensional array, stored as a typed Go slice for bulk
//     element kinds or as a []Value for composite elements
//   - *Cluster: an ordered mapping from sanitized field name to Value
//   - *Waveform: the fixed waveform record
//   - *Unknown: a 4-byte word read for a type code outside the table
//
// Trees are built bottom-up by the decoder and are never mutated afterwards.
// No node aliases the buffer it was decoded from.
package value

import (
	"fmt"
	"time"

	"github.com/arloliu/ubinary/format"
)

// Kind discriminates the concrete type of a Value.
type Kind uint8

const (
	KindScalar Kind = iota + 1
	KindText
	KindArray
	KindCluster
	KindWaveform
	KindUnknown
)

func (k Kind) String() string {
	switch k {
	case KindScalar:
		return "scalar"
	case KindText:
		return "text"
	case KindArray:
		return "array"
	case KindCluster:
		return "cluster"
	case KindWaveform:
		return "waveform"
	case KindUnknown:
		return "unknown"
	default:
		return fmt.Sprintf("kind(%d)", uint8(k))
	}
}

// Value is a node of the decoded tree.
type Value interface {
	// Kind returns the concrete node kind.
	Kind() Kind
	// LowConfidence reports whether the node itself was decoded with the
	// unknown-type fallback. Containers report false; use LowConfidencePaths
	// to search a whole tree.
	LowConfidence() bool
}

var (
	_ Value = (*Scalar)(nil)
	_ Value = (*Text)(nil)
	_ Value = (*Array)(nil)
	_ Value = (*Cluster)(nil)
	_ Value = (*Waveform)(nil)
	_ Value = (*Unknown)(nil)
)

// Scalar is a single numeric or boolean value.
//
// V holds the Go type mapped from Code: int8, int16, int32, int64, uint8,
// uint16, uint32, uint64, float32, float64 or bool.
type Scalar struct {
	Code format.TypeCode
	V    any
}

func (s *Scalar) Kind() Kind          { return KindScalar }
func (s *Scalar) LowConfidence() bool { return false }

// Float returns the scalar converted to float64. Booleans convert to 0 or 1.
func (s *Scalar) Float() (float64, bool) {
	return toFloat(s.V)
}

// Int returns the scalar as int64 when it holds an integer kind.
func (s *Scalar) Int() (int64, bool) {
	switch v := s.V.(type) {
	case int8:
		return int64(v), true
	case int16:
		return int64(v), true
	case int32:
		return int64(v), true
	case int64:
		return v, true
	case uint8:
		return int64(v), true
	case uint16:
		return int64(v), true
	case uint32:
		return int64(v), true
	case uint64:
		return int64(v), true //nolint:gosec
	default:
		return 0, false
	}
}

// Bool returns the scalar as bool when it holds a boolean.
func (s *Scalar) Bool() (bool, bool) {
	b, ok := s.V.(bool)
	return b, ok
}

func (s *Scalar) String() string {
	return fmt.Sprint(s.V)
}

// Text is a decoded string.
type Text struct {
	Code format.TypeCode
	V    string
}

func (t *Text) Kind() Kind          { return KindText }
func (t *Text) LowConfidence() bool { return false }
func (t *Text) String() string      { return t.V }

// Waveform is the fixed waveform record.
type Waveform struct {
	// Timestamp1 is the raw first timestamp word.
	Timestamp1 uint64
	// Timestamp2 is the second timestamp word shifted to the Unix epoch, in seconds.
	Timestamp2 int64
	// DT is the sample interval in seconds.
	DT float64
	// Y holds the samples.
	Y []float64
	// Attributes is the opaque trailing attribute blob.
	Attributes [format.WaveformAttrSize]byte
}

func (w *Waveform) Kind() Kind          { return KindWaveform }
func (w *Waveform) LowConfidence() bool { return false }

// Start returns Timestamp2 as a UTC time.
func (w *Waveform) Start() time.Time {
	return time.Unix(w.Timestamp2, 0).UTC()
}

// Times returns the sample offsets i*DT in seconds, one per sample.
func (w *Waveform) Times() []float64 {
	ts := make([]float64, len(w.Y))
	for i := range ts {
		ts[i] = float64(i) * w.DT
	}

	return ts
}

// Unknown is a word decoded for a type code outside the table.
type Unknown struct {
	Code   format.TypeCode
	Offset int
	Raw    uint32
}

func (u *Unknown) Kind() Kind          { return KindUnknown }
func (u *Unknown) LowConfidence() bool { return true }

func (u *Unknown) String() string {
	return fmt.Sprintf("unknown(code=%d, raw=0x%08x)", u.Code, u.Raw)
}

func toFloat(v any) (float64, bool) {
	switch x := v.(type) {
	case int8:
		return float64(x), true
	case int16:
		return float64(x), true
	case int32:
		return float64(x), true
	case int64:
		return float64(x), true
	case uint8:
		return float64(x), true
	case uint16:
		return float64(x), true
	case uint32:
		return float64(x), true
	case uint64:
		return float64(x), true
	case float32:
		return float64(x), true
	case float64:
		return x, true
	case bool:
		if x {
			return 1, true
		}

		return 0, true
	default:
		return 0, false
	}
}
