package render

import (
	"io"
	"reflect"

	"gopkg.in/yaml.v3"
)

func encodeYAML(w io.Writer, x any) error {
	node, err := toNode(x)
	if err != nil {
		return err
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(node); err != nil {
		return err
	}

	return enc.Close()
}

// toNode builds a YAML node tree that keeps field order. Numeric and boolean
// slices use flow style.
func toNode(x any) (*yaml.Node, error) {
	switch t := x.(type) {
	case object:
		n := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		for _, f := range t {
			val, err := toNode(f.val)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content,
				&yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: f.key}, val)
		}

		return n, nil
	case []any:
		n := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range t {
			val, err := toNode(item)
			if err != nil {
				return nil, err
			}
			n.Content = append(n.Content, val)
		}

		return n, nil
	}

	n := &yaml.Node{}
	if err := n.Encode(x); err != nil {
		return nil, err
	}

	if x != nil {
		if rt := reflect.TypeOf(x); rt.Kind() == reflect.Slice && rt.Elem().Kind() != reflect.String {
			n.Style = yaml.FlowStyle
		}
	}

	return n, nil
}
