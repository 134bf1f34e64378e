package render

import (
	"fmt"
	"io"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/arloliu/ubinary/value"
)

// previewLimit caps the elements shown inline for bulk arrays and samples.
const previewLimit = 8

type treeStyles struct {
	key    lipgloss.Style
	kind   lipgloss.Style
	text   lipgloss.Style
	warn   lipgloss.Style
	branch lipgloss.Style
}

func newTreeStyles(r *lipgloss.Renderer) treeStyles {
	return treeStyles{
		key:    r.NewStyle().Bold(true).Foreground(lipgloss.Color("#87CEEB")),
		kind:   r.NewStyle().Foreground(lipgloss.Color("#666666")),
		text:   r.NewStyle().Foreground(lipgloss.Color("#98FB98")),
		warn:   r.NewStyle().Foreground(lipgloss.Color("#FF6B6B")),
		branch: r.NewStyle().Foreground(lipgloss.Color("#555555")),
	}
}

func encodeTree(w io.Writer, v value.Value) error {
	p := &treePrinter{styles: newTreeStyles(lipgloss.NewRenderer(w))}
	p.node("", "", v, true, true)

	_, err := io.WriteString(w, p.sb.String())

	return err
}

type treePrinter struct {
	sb     strings.Builder
	styles treeStyles
}

// node writes one line for v and recurses into its children.
func (p *treePrinter) node(prefix, name string, v value.Value, last, root bool) {
	childPrefix := prefix
	if !root {
		connector := "├── "
		childPrefix += "│   "
		if last {
			connector = "└── "
			childPrefix = prefix + "    "
		}
		p.sb.WriteString(p.styles.branch.Render(prefix + connector))
		p.sb.WriteString(p.styles.key.Render(name))
		p.sb.WriteString(": ")
	}

	p.sb.WriteString(p.summary(v))
	p.sb.WriteByte('\n')

	switch n := v.(type) {
	case *value.Cluster:
		i := 0
		for childName, child := range n.All() {
			i++
			p.node(childPrefix, childName, child, i == n.Len(), false)
		}
	case *value.Array:
		for i, item := range n.Items {
			p.node(childPrefix, "["+strconv.Itoa(i)+"]", item, i == len(n.Items)-1, false)
		}
	}
}

func (p *treePrinter) summary(v value.Value) string {
	s := p.styles

	switch n := v.(type) {
	case nil:
		return s.kind.Render("null")
	case *value.Scalar:
		return fmt.Sprint(n.V) + " " + s.kind.Render("("+n.Code.String()+")")
	case *value.Text:
		return s.text.Render(strconv.Quote(n.V))
	case *value.Unknown:
		return s.warn.Render(n.String())
	case *value.Waveform:
		return s.kind.Render("waveform") + fmt.Sprintf(" t0=%s dt=%g n=%d ",
			n.Start().Format(time.RFC3339), n.DT, len(n.Y)) + preview(n.Y)
	case *value.Array:
		label := n.Elem.String() + dimsLabel(n.Dims)
		if n.Items != nil {
			return s.kind.Render(label)
		}
		if n.LowConfidence() {
			return s.warn.Render(label) + " " + preview(n.Data)
		}

		return s.kind.Render(label) + " " + preview(n.Data)
	case *value.Cluster:
		return s.kind.Render(fmt.Sprintf("cluster{%d}", n.Len()))
	default:
		return s.kind.Render(fmt.Sprintf("%T", v))
	}
}

func dimsLabel(dims []int) string {
	parts := make([]string, len(dims))
	for i, d := range dims {
		parts[i] = strconv.Itoa(d)
	}

	return "[" + strings.Join(parts, "x") + "]"
}

// preview formats the first previewLimit elements of a slice.
func preview(data any) string {
	if data == nil {
		return "[]"
	}

	rv := reflect.ValueOf(data)
	n := rv.Len()
	shown := min(n, previewLimit)

	parts := make([]string, shown)
	for i := range shown {
		elem := rv.Index(i).Interface()
		if str, ok := elem.(string); ok {
			parts[i] = strconv.Quote(str)
		} else {
			parts[i] = fmt.Sprint(elem)
		}
	}

	out := "[" + strings.Join(parts, " ")
	if n > shown {
		out += fmt.Sprintf(" … +%d", n-shown)
	}

	return out + "]"
}
