package render

import (
	"io"

	"github.com/fxamacker/cbor/v2"
)

// cborMode encodes with Core Deterministic Encoding: sorted map keys,
// smallest integer encoding, no indefinite-length items.
var cborMode cbor.EncMode

func init() {
	var err error

	cborMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("render: CBOR encoder initialization failed: " + err.Error())
	}
}

func encodeCBOR(w io.Writer, x any) error {
	return cborMode.NewEncoder(w).Encode(plain(x))
}

// plain replaces ordered maps with map[string]any.
func plain(x any) any {
	switch t := x.(type) {
	case object:
		out := make(map[string]any, len(t))
		for _, f := range t {
			out[f.key] = plain(f.val)
		}

		return out
	case []any:
		out := make([]any, len(t))
		for i, item := range t {
			out[i] = plain(item)
		}

		return out
	default:
		return x
	}
}
