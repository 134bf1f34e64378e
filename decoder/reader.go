package decoder

import (
	"math"

	"github.com/arloliu/ubinary/endian"
	"github.com/arloliu/ubinary/errs"
	"github.com/arloliu/ubinary/format"
)

var (
	le       = endian.GetLittleEndianEngine()
	nativeLE = endian.CompareNativeEndian(le)
)

// remaining returns the bytes left after cur, or 0 when cur is past the end.
func remaining(buf []byte, cur int) int {
	if cur < 0 || cur >= len(buf) {
		return 0
	}

	return len(buf) - cur
}

// take returns the n bytes at cur and the advanced cursor.
func take(buf []byte, cur, n int, op string) ([]byte, int, error) {
	if n < 0 || cur < 0 || remaining(buf, cur) < n {
		return nil, cur, errs.Overrun(op, cur, n, remaining(buf, cur))
	}

	return buf[cur : cur+n], cur + n, nil
}

func readU32(buf []byte, cur int, op string) (uint32, int, error) {
	b, next, err := take(buf, cur, 4, op)
	if err != nil {
		return 0, cur, err
	}

	return le.Uint32(b), next, nil
}

func readU64(buf []byte, cur int, op string) (uint64, int, error) {
	b, next, err := take(buf, cur, 8, op)
	if err != nil {
		return 0, cur, err
	}

	return le.Uint64(b), next, nil
}

func readF64(buf []byte, cur int, op string) (float64, int, error) {
	bits, next, err := readU64(buf, cur, op)
	if err != nil {
		return 0, cur, err
	}

	return math.Float64frombits(bits), next, nil
}

// readDims reads an array dimension header: a uint32 dimension count that
// must equal want, followed by that many uint32 lengths. It returns the
// lengths and the element count.
func readDims(buf []byte, cur, want int, op string) ([]int, uint64, int, error) {
	start := cur

	ndims, cur, err := readU32(buf, cur, op)
	if err != nil {
		return nil, 0, start, err
	}

	if int64(ndims) != int64(want) {
		return nil, 0, start, errs.Malformed(op, start, want, int(ndims),
			"dimension count %d does not match declared %d", ndims, want)
	}

	if ndims < 1 || ndims > format.MaxArrayDims {
		return nil, 0, start, errs.Malformed(op, start, -1, -1,
			"dimension count %d outside 1..%d", ndims, format.MaxArrayDims)
	}

	raw, cur, err := take(buf, cur, int(ndims)*format.DimSize, op)
	if err != nil {
		return nil, 0, start, err
	}

	dims := make([]int, ndims)
	total := uint64(1)
	empty, overflow := false, false
	for i := range dims {
		n := uint64(le.Uint32(raw[i*format.DimSize:]))
		dims[i] = int(n)

		switch {
		case n == 0:
			empty = true
		case total > math.MaxUint64/n:
			overflow = true
		default:
			total *= n
		}
	}

	if empty {
		return dims, 0, cur, nil
	}

	if overflow {
		return nil, 0, start, errs.Overrun(op, cur, math.MaxInt, remaining(buf, cur))
	}

	return dims, total, cur, nil
}

// overrunFor reports count elements of size bytes not fitting after cur. The
// needed byte count saturates instead of overflowing.
func overrunFor(op string, buf []byte, cur, count, size int) error {
	need := math.MaxInt
	if count >= 0 && size > 0 && count <= math.MaxInt/size {
		need = count * size
	}

	return errs.Overrun(op, cur, need, remaining(buf, cur))
}
