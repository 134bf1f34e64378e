package render

import (
	"io"

	"github.com/vmihailenco/msgpack/v5"
)

func encodeMsgpack(w io.Writer, x any) error {
	enc := msgpack.NewEncoder(w)
	enc.UseCompactInts(true)

	return writeMsgpack(enc, x)
}

func writeMsgpack(enc *msgpack.Encoder, x any) error {
	switch t := x.(type) {
	case object:
		if err := enc.EncodeMapLen(len(t)); err != nil {
			return err
		}
		for _, f := range t {
			if err := enc.EncodeString(f.key); err != nil {
				return err
			}
			if err := writeMsgpack(enc, f.val); err != nil {
				return err
			}
		}

		return nil
	case []any:
		if err := enc.EncodeArrayLen(len(t)); err != nil {
			return err
		}
		for _, item := range t {
			if err := writeMsgpack(enc, item); err != nil {
				return err
			}
		}

		return nil
	default:
		return enc.Encode(x)
	}
}
