package render

import (
	"bytes"
	"encoding/json"
	"io"
	"math"
	"reflect"
	"strconv"
)

func encodeJSON(w io.Writer, x any) error {
	var compact bytes.Buffer
	if err := writeJSON(&compact, x); err != nil {
		return err
	}

	var out bytes.Buffer
	if err := json.Indent(&out, compact.Bytes(), "", "  "); err != nil {
		return err
	}
	out.WriteByte('\n')

	_, err := out.WriteTo(w)

	return err
}

// writeJSON writes x compactly. Non-finite floats become null.
func writeJSON(buf *bytes.Buffer, x any) error {
	switch t := x.(type) {
	case object:
		buf.WriteByte('{')
		for i, f := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			key, err := json.Marshal(f.key)
			if err != nil {
				return err
			}
			buf.Write(key)
			buf.WriteByte(':')
			if err := writeJSON(buf, f.val); err != nil {
				return err
			}
		}
		buf.WriteByte('}')

		return nil
	case []any:
		buf.WriteByte('[')
		for i, item := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := writeJSON(buf, item); err != nil {
				return err
			}
		}
		buf.WriteByte(']')

		return nil
	case float64:
		writeFloat(buf, t, 64)
		return nil
	case float32:
		writeFloat(buf, float64(t), 32)
		return nil
	case []float64, []float32:
		rv := reflect.ValueOf(t)
		bits := rv.Type().Elem().Bits()
		buf.WriteByte('[')
		for i := range rv.Len() {
			if i > 0 {
				buf.WriteByte(',')
			}
			writeFloat(buf, rv.Index(i).Float(), bits)
		}
		buf.WriteByte(']')

		return nil
	}

	b, err := json.Marshal(x)
	if err != nil {
		return err
	}
	buf.Write(b)

	return nil
}

func writeFloat(buf *bytes.Buffer, f float64, bits int) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		buf.WriteString("null")
		return
	}

	buf.WriteString(strconv.FormatFloat(f, 'g', -1, bits))
}
