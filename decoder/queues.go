package decoder

// Queues holds the type and name tables of a segment header together with
// their read positions.
//
// Queues is a value type: every pop returns a new Queues and leaves the
// receiver untouched, so a snapshot is taken by plain assignment. Arrays of
// clusters rely on this to decode each element from the same position.
type Queues struct {
	types []uint16
	names []string
	ti    int
	ni    int
}

// NewQueues creates queues positioned at the start of both tables.
func NewQueues(types []uint16, names []string) Queues {
	return Queues{types: types, names: names}
}

// TypesLeft returns the number of unread type entries.
func (q Queues) TypesLeft() int {
	return len(q.types) - q.ti
}

// NamesLeft returns the number of unread names.
func (q Queues) NamesLeft() int {
	return len(q.names) - q.ni
}

// TypesRead returns the number of type entries consumed so far.
func (q Queues) TypesRead() int {
	return q.ti
}

// PopType returns the next type entry. ok is false when the queue is empty.
func (q Queues) PopType() (uint16, Queues, bool) {
	if q.ti >= len(q.types) {
		return 0, q, false
	}

	v := q.types[q.ti]
	q.ti++

	return v, q, true
}

// PopName returns the next name. ok is false when the queue is empty.
func (q Queues) PopName() (string, Queues, bool) {
	if q.ni >= len(q.names) {
		return "", q, false
	}

	v := q.names[q.ni]
	q.ni++

	return v, q, true
}
