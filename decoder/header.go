package decoder

import (
	"errors"
	"fmt"
	"math"

	"github.com/arloliu/ubinary/errs"
	"github.com/arloliu/ubinary/format"
	"github.com/arloliu/ubinary/value"
)

// ReadHeader reads the two header tables of a segment starting at cur: a
// one-dimensional text array holding the field names, then a one-dimensional
// uint16 array holding the type queue.
//
// It returns the cursor positioned at the first payload byte and fresh queues
// over both tables.
func ReadHeader(buf []byte, cur int) (int, Queues, error) {
	start := cur

	_, total, cur, err := readDims(buf, cur, format.HeaderMaxDims, "header names")
	if err != nil {
		return start, Queues{}, headerError(err)
	}

	names, cur, err := decodeTextRun(buf, cur, clampCount(total), "header names")
	if err != nil {
		return start, Queues{}, err
	}

	_, total, cur, err = readDims(buf, cur, format.HeaderMaxDims, "header types")
	if err != nil {
		return start, Queues{}, headerError(err)
	}

	data, cur, err := decodeRun(buf, cur, format.TypeUint16, clampCount(total), "header types")
	if err != nil {
		return start, Queues{}, err
	}

	return cur, NewQueues(data.([]uint16), names), nil
}

// headerError rewrites the dimension mismatch of a header table into a
// statement about the header itself.
func headerError(err error) error {
	var de *errs.DecodeError
	if !errors.As(err, &de) || !errors.Is(de.Err, errs.ErrMalformedHeader) {
		return err
	}

	return &errs.DecodeError{
		Err: errs.ErrMalformedHeader, Op: de.Op, Offset: de.Offset, Need: de.Need, Have: de.Have,
		Detail: fmt.Sprintf("header table must be %d-dimensional", format.HeaderMaxDims),
	}
}

// clampCount converts an element count for the bounds checks in decodeRun,
// which reject any count larger than the remaining bytes.
func clampCount(total uint64) int {
	if total > math.MaxInt {
		return math.MaxInt
	}

	return int(total) //nolint:gosec
}

// Segment is the decoded content of one segment.
type Segment struct {
	// Value is the root cluster.
	Value *value.Cluster
	// Start is the offset of the header and End the offset after the last
	// payload byte consumed.
	Start, End int
	// TypeEntries is the size of the type queue.
	TypeEntries int
	// UnusedNames counts names left in the name queue after the type queue
	// was exhausted.
	UnusedNames int
	// Renamed describes members stored under a suffixed name because their
	// sanitized name was already taken in the same cluster.
	Renamed []string
}

// DecodeSegment reads the header at start and decodes the segment's root
// cluster. Reads are bounded by len(buf); callers limit a segment by slicing
// buf to its end.
func DecodeSegment(buf []byte, start int) (*Segment, error) {
	if start < 0 || start > len(buf) {
		return nil, errs.Overrun("segment", start, 0, 0)
	}

	cur, q, err := ReadHeader(buf, start)
	if err != nil {
		return nil, err
	}

	types := q.TypesLeft()

	st := &state{}

	end, root, q, err := decodeMembers(buf, cur, q, -1, st)
	if err != nil {
		return nil, err
	}

	return &Segment{
		Value:       root,
		Start:       start,
		End:         end,
		TypeEntries: types,
		UnusedNames: q.NamesLeft(),
		Renamed:     st.renamed,
	}, nil
}
