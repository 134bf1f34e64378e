package value

// Interface converts v into plain Go values: clusters become map[string]any,
// bulk arrays keep their typed slice, composite arrays become []any and
// waveforms and unknown words become small maps. Field order is lost; use
// the render package when order matters.
func Interface(v Value) any {
	switch n := v.(type) {
	case nil:
		return nil
	case *Scalar:
		return n.V
	case *Text:
		return n.V
	case *Unknown:
		return map[string]any{
			"code":          uint16(n.Code),
			"raw":           n.Raw,
			"lowConfidence": true,
		}
	case *Waveform:
		return map[string]any{
			"t0":         n.Timestamp2,
			"timestamp1": n.Timestamp1,
			"dt":         n.DT,
			"Y":          n.Y,
			"attributes": n.Attributes[:],
		}
	case *Array:
		if n.Items == nil {
			return n.Data
		}

		out := make([]any, len(n.Items))
		for i, item := range n.Items {
			out[i] = Interface(item)
		}

		return out
	case *Cluster:
		out := make(map[string]any, n.Len())
		for name, child := range n.All() {
			out[name] = Interface(child)
		}

		return out
	default:
		return nil
	}
}
