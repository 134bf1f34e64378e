package value

import (
	"fmt"
	"reflect"

	"github.com/arloliu/ubinary/format"
)

// Array is an n-dimensional array in the order it was stored.
//
// Bulk element kinds (fixed-width numbers, booleans and text) live in Data
// as a typed slice: []int8 ... []float64, []bool, []string, or []uint32 for
// an unknown element code. Composite elements (clusters, waveforms, nested
// arrays) live in Items. Exactly one of Data and Items is set.
type Array struct {
	Elem  format.TypeCode
	Dims  []int
	Data  any
	Items []Value

	lowConfidence bool
}

// NewBulkArray wraps a typed slice.
func NewBulkArray(elem format.TypeCode, dims []int, data any) *Array {
	return &Array{Elem: elem, Dims: dims, Data: data, lowConfidence: !elem.Known()}
}

// NewItemArray wraps composite elements.
func NewItemArray(elem format.TypeCode, dims []int, items []Value) *Array {
	return &Array{Elem: elem, Dims: dims, Items: items}
}

func (a *Array) Kind() Kind { return KindArray }

// LowConfidence reports whether the elements were read with the unknown-type fallback.
func (a *Array) LowConfidence() bool { return a.lowConfidence }

// Len returns the total number of elements.
func (a *Array) Len() int {
	if a.Items != nil {
		return len(a.Items)
	}

	if a.Data == nil {
		return 0
	}

	return reflect.ValueOf(a.Data).Len()
}

// At returns element i as a Value. Bulk elements are boxed into a Scalar,
// Text or Unknown node on the fly.
func (a *Array) At(i int) (Value, error) {
	if i < 0 || i >= a.Len() {
		return nil, fmt.Errorf("index %d out of range [0,%d)", i, a.Len())
	}

	if a.Items != nil {
		return a.Items[i], nil
	}

	switch data := a.Data.(type) {
	case []string:
		return &Text{Code: a.Elem, V: data[i]}, nil
	case []uint32:
		if !a.Elem.Known() {
			return &Unknown{Code: a.Elem, Offset: -1, Raw: data[i]}, nil
		}
	}

	return &Scalar{Code: a.Elem, V: reflect.ValueOf(a.Data).Index(i).Interface()}, nil
}

// Float64s returns numeric or boolean data converted to float64.
func (a *Array) Float64s() ([]float64, bool) {
	switch data := a.Data.(type) {
	case []float64:
		out := make([]float64, len(data))
		copy(out, data)

		return out, true
	case nil, []string:
		return nil, false
	}

	rv := reflect.ValueOf(a.Data)
	out := make([]float64, rv.Len())
	for i := range out {
		f, ok := toFloat(rv.Index(i).Interface())
		if !ok {
			return nil, false
		}
		out[i] = f
	}

	return out, true
}

// Strings returns text data.
func (a *Array) Strings() ([]string, bool) {
	s, ok := a.Data.([]string)
	return s, ok
}
