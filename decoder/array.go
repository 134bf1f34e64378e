package decoder

import (
	"math"

	"github.com/arloliu/ubinary/errs"
	"github.com/arloliu/ubinary/format"
	"github.com/arloliu/ubinary/value"
)

// maxEmptyElements bounds arrays whose elements occupy no payload bytes
// (clusters without members). Anything larger is treated as a corrupt header.
const maxEmptyElements = 1 << 20

// decodeArray decodes an array node. The array's own type entry and name are
// already popped; q starts at the declared dimension count.
//
// Payload layout: uint32 dimension count, one uint32 length per dimension,
// then the elements in storage order.
func decodeArray(buf []byte, cur int, q Queues, st *state) (int, value.Value, Queues, error) {
	start := cur

	ndims, elem, members, elemQ, err := popArrayHeader(q, cur)
	if err != nil {
		return cur, nil, q, err
	}

	// footprint of the element structure, used for sizing and for empty arrays
	afterQ, minSize, err := measure(elemQ, elem, members, cur, st.depth)
	if err != nil {
		return cur, nil, elemQ, err
	}

	dims, total, cur, err := readDims(buf, cur, ndims, "array")
	if err != nil {
		return cur, nil, elemQ, err
	}

	left := remaining(buf, cur)
	switch {
	case minSize > 0 && total > uint64(left/minSize):
		return start, nil, elemQ, overrunFor("array", buf, cur, int(min(total, math.MaxInt)), minSize) //nolint:gosec
	case minSize == 0 && total > maxEmptyElements:
		return start, nil, elemQ, errs.Malformed("array", cur, -1, -1,
			"%d elements of zero-size %s exceed limit %d", total, elem, maxEmptyElements)
	}

	count := int(total) //nolint:gosec

	if elem.IsBulk() || elem.Strategy() == format.StrategyUnknown {
		data, next, err := decodeRun(buf, cur, elem, count, "array")
		if err != nil {
			return next, nil, elemQ, err
		}

		return next, value.NewBulkArray(elem, dims, data), afterQ, nil
	}

	if count == 0 {
		return cur, value.NewItemArray(elem, dims, []value.Value{}), afterQ, nil
	}

	switch elem.Strategy() {
	case format.StrategyWaveform:
		next, items, err := decodeWaveforms(buf, cur, count)
		if err != nil {
			return next, nil, elemQ, err
		}

		return next, value.NewItemArray(elem, dims, items), afterQ, nil
	default:
		// clusters and nested arrays: every element walks the same element
		// structure, so each one starts from the same queue snapshot and the
		// last element's queues are the array's.
		items := make([]value.Value, count)
		lastQ := elemQ
		for i := range items {
			next, v, q, err := decodeNode(buf, cur, elem, elemQ, members, st)
			if err != nil {
				return next, nil, q, err
			}
			items[i] = v
			cur = next
			lastQ = q
		}

		return cur, value.NewItemArray(elem, dims, items), lastQ, nil
	}
}

// decodeFloat64Vector decodes a one-dimensional float64 array payload.
func decodeFloat64Vector(buf []byte, cur int, op string) ([]float64, int, error) {
	_, total, cur, err := readDims(buf, cur, 1, op)
	if err != nil {
		return nil, cur, err
	}

	if total > uint64(remaining(buf, cur)/8) {
		return nil, cur, overrunFor(op, buf, cur, int(min(total, math.MaxInt)), 8) //nolint:gosec
	}

	data, next, err := decodeRun(buf, cur, format.TypeFloat64, int(total), op) //nolint:gosec
	if err != nil {
		return nil, cur, err
	}

	return data.([]float64), next, nil
}
