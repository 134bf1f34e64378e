package decoder

import (
	"fmt"
	"strconv"

	"github.com/arloliu/ubinary/errs"
	"github.com/arloliu/ubinary/format"
	"github.com/arloliu/ubinary/ident"
	"github.com/arloliu/ubinary/value"
)

// state is carried down the recursion of one decode call.
type state struct {
	// depth counts the clusters and arrays enclosing the current node.
	depth int
	// renamed records members stored under a suffixed name because their
	// sanitized name was already taken in the same cluster.
	renamed []string
}

// enter accounts for one more level of nesting.
func (s *state) enter(op string, cur int) error {
	if s.depth >= format.MaxNesting {
		return errs.Malformed(op, cur, -1, -1, "nesting deeper than %d", format.MaxNesting)
	}
	s.depth++

	return nil
}

func (s *state) leave() { s.depth-- }

// DecodeNode decodes one structural node of the given type code at cur.
//
// The node's own type entry and name must already be popped from q. count is
// the member count for a cluster and the element count for every other code;
// a count of 1 yields a single Scalar, Text, Waveform or Unknown node while
// any other count yields a one-dimensional Array. Array nodes read their
// shape from the payload and ignore count.
//
// Clusters and arrays may nest at most format.MaxNesting levels deep.
//
// DecodeNode returns the advanced cursor, the decoded value and the queues
// positioned after the node's footprint. On error the cursor and queues
// reflect the point of failure and the value is nil.
func DecodeNode(buf []byte, cur int, code format.TypeCode, q Queues, count int) (int, value.Value, Queues, error) {
	return decodeNode(buf, cur, code, q, count, &state{})
}

func decodeNode(buf []byte, cur int, code format.TypeCode, q Queues, count int, st *state) (int, value.Value, Queues, error) {
	info, _ := format.Lookup(code)

	switch info.Strategy {
	case format.StrategyCluster:
		if err := st.enter("cluster", cur); err != nil {
			return cur, nil, q, err
		}
		defer st.leave()

		next, c, q, err := decodeMembers(buf, cur, q, count, st)
		if err != nil {
			return next, nil, q, err
		}

		return next, c, q, nil
	case format.StrategyArray:
		if err := st.enter("array", cur); err != nil {
			return cur, nil, q, err
		}
		defer st.leave()

		return decodeArray(buf, cur, q, st)
	case format.StrategyWaveform:
		if count == 1 {
			next, w, err := decodeWaveform(buf, cur)
			if err != nil {
				return next, nil, q, err
			}

			return next, w, q, nil
		}

		next, items, err := decodeWaveforms(buf, cur, count)
		if err != nil {
			return next, nil, q, err
		}

		return next, value.NewItemArray(code, []int{count}, items), q, nil
	}

	// bulk codes: fixed-width, boolean, text and unknown
	data, next, err := decodeRun(buf, cur, code, count, code.String())
	if err != nil {
		return next, nil, q, err
	}

	if count != 1 {
		return next, value.NewBulkArray(code, []int{count}, data), q, nil
	}

	switch info.Strategy {
	case format.StrategyText:
		return next, &value.Text{Code: code, V: data.([]string)[0]}, q, nil
	case format.StrategyUnknown:
		return next, &value.Unknown{Code: code, Offset: cur, Raw: data.([]uint32)[0]}, q, nil
	default:
		return next, &value.Scalar{Code: code, V: first(data)}, q, nil
	}
}

// DecodeCluster decodes a cluster of n members starting at cur.
//
// Each member pops one type entry and one name; nested clusters also pop
// their member count. Empty names become "unnamed1", "unnamed2", ... counted
// per cluster, and every name passes through ident.Sanitize. A member whose
// sanitized name is already taken is stored as "name_2", "name_3", ... If the
// type queue runs dry before n members are decoded the call fails with
// errs.ErrMalformedHeader after consuming the entries that were present.
func DecodeCluster(buf []byte, cur int, q Queues, n int) (int, *value.Cluster, Queues, error) {
	return decodeMembers(buf, cur, q, n, &state{})
}

// DecodeRoot decodes the implicit top-level cluster of a segment: members are
// decoded until the type queue is exhausted.
func DecodeRoot(buf []byte, cur int, q Queues) (int, *value.Cluster, Queues, error) {
	return decodeMembers(buf, cur, q, -1, &state{})
}

// decodeMembers decodes n members, or every remaining member when n < 0.
func decodeMembers(buf []byte, cur int, q Queues, n int, st *state) (int, *value.Cluster, Queues, error) {
	capacity := n
	if n < 0 {
		capacity = q.TypesLeft()
	}
	c := value.NewCluster(capacity)

	unnamed := 0
	for i := 0; n < 0 || i < n; i++ {
		if n < 0 && q.TypesLeft() == 0 {
			break
		}

		code, name, members, next, err := popMember(q, cur, n, i)
		if err != nil {
			return cur, nil, next, err
		}
		q = next

		if name == "" {
			unnamed++
			name = "unnamed" + strconv.Itoa(unnamed)
		}
		field := ident.Sanitize(name)

		var v value.Value
		cur, v, q, err = decodeNode(buf, cur, code, q, members, st)
		if err != nil {
			return cur, nil, q, fmt.Errorf("field %q: %w", field, err)
		}

		if c.Has(field) {
			alt := freeName(c, field)
			st.renamed = append(st.renamed, fmt.Sprintf("%q (from %q) stored as %q", field, name, alt))
			field = alt
		}

		if err := c.Set(field, v); err != nil {
			return cur, nil, q, err
		}
	}

	return cur, c, q, nil
}

// freeName returns the first of field_2, field_3, ... not present in c,
// truncating field so the result stays a valid identifier.
func freeName(c *value.Cluster, field string) string {
	for k := 2; ; k++ {
		suffix := "_" + strconv.Itoa(k)
		base := field
		if len(base)+len(suffix) > ident.MaxLength {
			base = base[:ident.MaxLength-len(suffix)]
		}

		if alt := base + suffix; !c.Has(alt) {
			return alt
		}
	}
}
