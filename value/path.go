package value

import (
	"fmt"
	"strconv"
	"strings"
)

// Lookup resolves a path such as "run.channels[2].gain" against v.
//
// Field names are separated by dots; [i] indexes an array. An empty path
// returns v itself.
func Lookup(v Value, path string) (Value, error) {
	steps, err := parsePath(path)
	if err != nil {
		return nil, err
	}

	cur := v
	walked := ""
	for _, st := range steps {
		if st.field != "" {
			c, ok := cur.(*Cluster)
			if !ok {
				return nil, fmt.Errorf("path %q: %s is a %s, not a cluster", path, describe(walked), cur.Kind())
			}

			next, ok := c.Get(st.field)
			if !ok {
				return nil, fmt.Errorf("path %q: field %q not found", path, st.field)
			}
			cur = next
			walked = joinField(walked, st.field)

			continue
		}

		a, ok := cur.(*Array)
		if !ok {
			return nil, fmt.Errorf("path %q: %s is a %s, not an array", path, describe(walked), cur.Kind())
		}

		next, err := a.At(st.index)
		if err != nil {
			return nil, fmt.Errorf("path %q: %w", path, err)
		}
		cur = next
		walked += "[" + strconv.Itoa(st.index) + "]"
	}

	return cur, nil
}

// LowConfidencePaths returns the paths of every node decoded with the
// unknown-type fallback, in tree order.
func LowConfidencePaths(v Value) []string {
	var out []string
	collectLowConfidence(v, "", &out)

	return out
}

func collectLowConfidence(v Value, path string, out *[]string) {
	if v == nil {
		return
	}

	if v.LowConfidence() {
		*out = append(*out, path)
	}

	switch n := v.(type) {
	case *Cluster:
		for name, child := range n.All() {
			collectLowConfidence(child, joinField(path, name), out)
		}
	case *Array:
		for i, child := range n.Items {
			collectLowConfidence(child, path+"["+strconv.Itoa(i)+"]", out)
		}
	}
}

type pathStep struct {
	field string
	index int
}

func parsePath(path string) ([]pathStep, error) {
	var steps []pathStep

	for _, part := range strings.Split(path, ".") {
		if part == "" {
			if path == "" {
				return nil, nil
			}

			return nil, fmt.Errorf("path %q: empty field name", path)
		}

		name := part
		rest := ""
		if i := strings.IndexByte(part, '['); i >= 0 {
			name, rest = part[:i], part[i:]
		}

		if name != "" {
			steps = append(steps, pathStep{field: name})
		}

		for rest != "" {
			end := strings.IndexByte(rest, ']')
			if rest[0] != '[' || end < 0 {
				return nil, fmt.Errorf("path %q: malformed index in %q", path, part)
			}

			idx, err := strconv.Atoi(rest[1:end])
			if err != nil {
				return nil, fmt.Errorf("path %q: bad index %q: %w", path, rest[1:end], err)
			}
			steps = append(steps, pathStep{index: idx})
			rest = rest[end+1:]
		}
	}

	return steps, nil
}

func joinField(path, name string) string {
	if path == "" {
		return name
	}

	return path + "." + name
}

func describe(path string) string {
	if path == "" {
		return "root"
	}

	return strconv.Quote(path)
}
