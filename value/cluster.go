package value

import (
	"fmt"
	"iter"

	"github.com/arloliu/ubinary/errs"
)

// Cluster is an ordered mapping from field name to Value.
//
// Field order is insertion order, which is the order members appear in the
// segment header. Names are unique; Set rejects a repeated name with
// errs.ErrDuplicateFieldName.
type Cluster struct {
	names  []string
	values []Value
	index  map[string]int
}

// NewCluster creates an empty cluster with room for capacity fields.
func NewCluster(capacity int) *Cluster {
	if capacity < 0 {
		capacity = 0
	}

	return &Cluster{
		names:  make([]string, 0, capacity),
		values: make([]Value, 0, capacity),
		index:  make(map[string]int, capacity),
	}
}

func (c *Cluster) Kind() Kind          { return KindCluster }
func (c *Cluster) LowConfidence() bool { return false }

// Set appends a field. It fails if the name is already present.
func (c *Cluster) Set(name string, v Value) error {
	if c.index == nil {
		c.index = make(map[string]int)
	}

	if _, exists := c.index[name]; exists {
		return fmt.Errorf("%w: %q", errs.ErrDuplicateFieldName, name)
	}

	c.index[name] = len(c.names)
	c.names = append(c.names, name)
	c.values = append(c.values, v)

	return nil
}

// Get returns the field with the given name.
func (c *Cluster) Get(name string) (Value, bool) {
	i, ok := c.index[name]
	if !ok {
		return nil, false
	}

	return c.values[i], true
}

// Has reports whether the field exists.
func (c *Cluster) Has(name string) bool {
	_, ok := c.index[name]
	return ok
}

// Len returns the number of fields.
func (c *Cluster) Len() int {
	return len(c.names)
}

// Field returns the i-th field in insertion order.
func (c *Cluster) Field(i int) (string, Value) {
	return c.names[i], c.values[i]
}

// Names returns a copy of the field names in order.
func (c *Cluster) Names() []string {
	out := make([]string, len(c.names))
	copy(out, c.names)

	return out
}

// All iterates over the fields in order.
func (c *Cluster) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		for i, name := range c.names {
			if !yield(name, c.values[i]) {
				return
			}
		}
	}
}
