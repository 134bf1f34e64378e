package decoder

import (
	"math"
	"reflect"
	"unsafe"

	"github.com/arloliu/ubinary/errs"
	"github.com/arloliu/ubinary/format"
)

type fixedWidth interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~uint8 | ~uint16 | ~uint32 | ~uint64 | ~float32 | ~float64
}

// fill converts count little-endian elements of the given width from src.
// On a little-endian host the bytes are copied in one go.
func fill[T fixedWidth](src []byte, count, width int, read func([]byte) T) []T {
	out := make([]T, count)
	if count == 0 {
		return out
	}

	if nativeLE {
		dst := unsafe.Slice((*byte)(unsafe.Pointer(unsafe.SliceData(out))), count*width)
		copy(dst, src)

		return out
	}

	for i := range out {
		out[i] = read(src[i*width:])
	}

	return out
}

// decodeRun decodes count consecutive elements of a bulk code (fixed-width,
// boolean, text or unknown) starting at cur. It returns a typed slice.
func decodeRun(buf []byte, cur int, code format.TypeCode, count int, op string) (any, int, error) {
	info, _ := format.Lookup(code)

	switch info.Strategy {
	case format.StrategyText:
		return decodeTextRun(buf, cur, count, op)
	case format.StrategyFixed, format.StrategyBool, format.StrategyUnknown:
	default:
		return nil, cur, errs.Malformed(op, cur, -1, -1, "type %s is not a bulk type", code)
	}

	width := info.Width
	if count < 0 || count > remaining(buf, cur)/width {
		return nil, cur, overrunFor(op, buf, cur, count, width)
	}

	src, next, err := take(buf, cur, count*width, op)
	if err != nil {
		return nil, cur, err
	}

	switch info.Primitive {
	case format.PrimInt8:
		out := make([]int8, count)
		for i, b := range src {
			out[i] = int8(b) //nolint:gosec
		}

		return out, next, nil
	case format.PrimUint8:
		out := make([]uint8, count)
		copy(out, src)

		return out, next, nil
	case format.PrimBool:
		out := make([]bool, count)
		for i, b := range src {
			out[i] = b != 0
		}

		return out, next, nil
	case format.PrimInt16:
		return fill(src, count, 2, func(b []byte) int16 { return int16(le.Uint16(b)) }), next, nil //nolint:gosec
	case format.PrimUint16:
		return fill(src, count, 2, le.Uint16), next, nil
	case format.PrimInt32:
		return fill(src, count, 4, func(b []byte) int32 { return int32(le.Uint32(b)) }), next, nil //nolint:gosec
	case format.PrimUint32:
		return fill(src, count, 4, le.Uint32), next, nil
	case format.PrimInt64:
		return fill(src, count, 8, func(b []byte) int64 { return int64(le.Uint64(b)) }), next, nil //nolint:gosec
	case format.PrimUint64:
		return fill(src, count, 8, le.Uint64), next, nil
	case format.PrimFloat32:
		return fill(src, count, 4, func(b []byte) float32 { return math.Float32frombits(le.Uint32(b)) }), next, nil
	case format.PrimFloat64:
		return fill(src, count, 8, func(b []byte) float64 { return math.Float64frombits(le.Uint64(b)) }), next, nil
	default:
		// unknown code: raw 32-bit words
		return fill(src, count, format.UnknownWidth, le.Uint32), next, nil
	}
}

// decodeTextRun decodes count length-prefixed strings.
func decodeTextRun(buf []byte, cur int, count int, op string) ([]string, int, error) {
	if count < 0 || count > remaining(buf, cur)/format.TextPrefixSize {
		return nil, cur, overrunFor(op, buf, cur, count, format.TextPrefixSize)
	}

	out := make([]string, count)
	for i := range out {
		n, next, err := readU32(buf, cur, op)
		if err != nil {
			return nil, cur, err
		}

		b, next, err := take(buf, next, int(n), op)
		if err != nil {
			return nil, cur, err
		}

		out[i] = string(b)
		cur = next
	}

	return out, cur, nil
}

// first returns element 0 of a typed slice produced by decodeRun.
func first(data any) any {
	return reflect.ValueOf(data).Index(0).Interface()
}
