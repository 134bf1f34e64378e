package decoder

import (
	"github.com/arloliu/ubinary/errs"
	"github.com/arloliu/ubinary/format"
)

// minWaveformSize is the smallest encoded waveform: the fixed fields, an
// empty one-dimensional sample array and the attribute blob.
const minWaveformSize = format.WaveformFixedSize + 2*format.DimSize + format.WaveformAttrSize

// measure walks the queue footprint of one node of the given code without
// touching the payload. The node's own type entry and name must already be
// popped; for a cluster, members is the popped member count. depth is the
// number of clusters and arrays enclosing the node.
//
// It returns the queues positioned after the node and the smallest number of
// payload bytes the node can occupy. Arrays skip their element structure this
// way when they hold no elements.
func measure(q Queues, code format.TypeCode, members int, cur int, depth int) (Queues, int, error) {
	info, _ := format.Lookup(code)

	if (info.Strategy == format.StrategyArray || info.Strategy == format.StrategyCluster) && depth >= format.MaxNesting {
		return q, 0, errs.Malformed("measure", cur, -1, -1, "nesting deeper than %d", format.MaxNesting)
	}

	switch info.Strategy {
	case format.StrategyFixed, format.StrategyBool, format.StrategyUnknown:
		return q, info.Width, nil
	case format.StrategyText:
		return q, format.TextPrefixSize, nil
	case format.StrategyWaveform:
		return q, minWaveformSize, nil
	case format.StrategyArray:
		ndims, elem, elemMembers, next, err := popArrayHeader(q, cur)
		if err != nil {
			return q, 0, err
		}

		after, _, err := measure(next, elem, elemMembers, cur, depth+1)
		if err != nil {
			return q, 0, err
		}

		return after, format.DimSize + ndims*format.DimSize, nil
	case format.StrategyCluster:
		size := 0
		for i := 0; i < members; i++ {
			code, _, m, next, err := popMember(q, cur, members, i)
			if err != nil {
				return q, 0, err
			}

			after, n, err := measure(next, code, m, cur, depth+1)
			if err != nil {
				return q, 0, err
			}
			q = after
			size += n
		}

		return q, size, nil
	default:
		return q, 0, errs.Malformed("measure", cur, -1, -1, "unhandled strategy %s", info.Strategy)
	}
}

// popMember pops the type entry and name of cluster member i, plus the member
// count when the member is itself a cluster. declared is the cluster's member
// count, used for the error report.
func popMember(q Queues, cur, declared, i int) (format.TypeCode, string, int, Queues, error) {
	raw, q, ok := q.PopType()
	if !ok {
		return 0, "", 0, q, errs.Malformed("cluster", cur, declared, i,
			"type queue exhausted after %d of %d members", i, declared)
	}

	name, q, ok := q.PopName()
	if !ok {
		return 0, "", 0, q, errs.Malformed("cluster", cur, -1, -1,
			"name queue exhausted at member %d", i)
	}

	code := format.TypeCode(raw)
	if code != format.TypeCluster {
		return code, name, 1, q, nil
	}

	members, q, ok := q.PopType()
	if !ok {
		return 0, "", 0, q, errs.Malformed("cluster", cur, -1, -1,
			"missing member count for nested cluster %q", name)
	}

	return code, name, int(members), q, nil
}

// popArrayHeader pops the structural entries of an array node: the declared
// dimension count, the element type entry and its name, and the element
// member count when the element is a cluster.
func popArrayHeader(q Queues, cur int) (ndims int, elem format.TypeCode, members int, next Queues, err error) {
	n, q, ok := q.PopType()
	if !ok {
		return 0, 0, 0, q, errs.Malformed("array", cur, -1, -1, "missing dimension count")
	}

	if n < 1 || n > format.MaxArrayDims {
		return 0, 0, 0, q, errs.Malformed("array", cur, -1, -1,
			"declared dimension count %d outside 1..%d", n, format.MaxArrayDims)
	}

	raw, q, ok := q.PopType()
	if !ok {
		return 0, 0, 0, q, errs.Malformed("array", cur, -1, -1, "missing element type")
	}

	_, q, ok = q.PopName()
	if !ok {
		return 0, 0, 0, q, errs.Malformed("array", cur, -1, -1, "name queue exhausted at element type")
	}

	elem = format.TypeCode(raw)
	members = 1
	if elem == format.TypeCluster {
		m, after, ok := q.PopType()
		if !ok {
			return 0, 0, 0, q, errs.Malformed("array", cur, -1, -1, "missing element member count")
		}
		members, q = int(m), after
	}

	return int(n), elem, members, q, nil
}
