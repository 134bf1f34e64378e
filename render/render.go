package render

import (
	"encoding/hex"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/arloliu/ubinary/value"
)

// Format names an output encoding.
type Format string

const (
	FormatJSON    Format = "json"
	FormatMsgpack Format = "msgpack"
	FormatCBOR    Format = "cbor"
	FormatYAML    Format = "yaml"
	FormatTree    Format = "tree"
)

// Formats lists every supported format.
var Formats = []Format{FormatJSON, FormatMsgpack, FormatCBOR, FormatYAML, FormatTree}

// ParseFormat parses a format name, case-insensitively. "yml" and "mpk" are
// accepted as aliases.
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(name)); f {
	case FormatJSON, FormatMsgpack, FormatCBOR, FormatYAML, FormatTree:
		return f, nil
	case "yml":
		return FormatYAML, nil
	case "mpk":
		return FormatMsgpack, nil
	}

	return "", fmt.Errorf("unknown output format %q", name)
}

// Binary reports whether the format produces non-text output.
func (f Format) Binary() bool {
	return f == FormatMsgpack || f == FormatCBOR
}

// Encode writes v to w in format f.
func Encode(w io.Writer, v value.Value, f Format) error {
	switch f {
	case FormatJSON:
		return encodeJSON(w, build(v))
	case FormatMsgpack:
		return encodeMsgpack(w, build(v))
	case FormatCBOR:
		return encodeCBOR(w, build(v))
	case FormatYAML:
		return encodeYAML(w, build(v))
	case FormatTree:
		return encodeTree(w, v)
	default:
		return fmt.Errorf("unknown output format %q", string(f))
	}
}

// field is one entry of an ordered map.
type field struct {
	key string
	val any
}

// object is an ordered map.
type object []field

// build converts a value tree into ordered maps, []any and typed leaf
// slices.
func build(v value.Value) any {
	switch n := v.(type) {
	case nil:
		return nil
	case *value.Scalar:
		return n.V
	case *value.Text:
		return n.V
	case *value.Unknown:
		return object{
			{"code", uint16(n.Code)},
			{"raw", n.Raw},
			{"lowConfidence", true},
		}
	case *value.Waveform:
		return object{
			{"t0", n.Timestamp2},
			{"timestamp1", n.Timestamp1},
			{"dt", n.DT},
			{"Y", n.Y},
			{"attributes", hex.EncodeToString(n.Attributes[:])},
		}
	case *value.Array:
		if n.Items != nil {
			items := make([]any, len(n.Items))
			for i, item := range n.Items {
				items[i] = build(item)
			}

			return reshape(items, n.Dims)
		}

		data := n.Data
		// []uint8 would encode as a byte string
		if b, ok := data.([]uint8); ok {
			wide := make([]uint16, len(b))
			for i, x := range b {
				wide[i] = uint16(x)
			}
			data = wide
		}

		if n.LowConfidence() {
			return object{
				{"code", uint16(n.Elem)},
				{"raw", reshape(data, n.Dims)},
				{"lowConfidence", true},
			}
		}

		return reshape(data, n.Dims)
	case *value.Cluster:
		out := make(object, 0, n.Len())
		for name, child := range n.All() {
			out = append(out, field{name, build(child)})
		}

		return out
	default:
		return nil
	}
}

// reshape nests a flat slice into rows following dims. One-dimensional data
// and data whose length does not match dims are returned unchanged.
func reshape(data any, dims []int) any {
	if len(dims) <= 1 || data == nil {
		return data
	}

	rv := reflect.ValueOf(data)
	stride := 1
	for _, d := range dims[1:] {
		stride *= d
	}
	if dims[0]*stride != rv.Len() {
		return data
	}

	rows := make([]any, dims[0])
	for i := range rows {
		rows[i] = reshape(rv.Slice(i*stride, (i+1)*stride).Interface(), dims[1:])
	}

	return rows
}
