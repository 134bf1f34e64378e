package render

import (
	"bytes"
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/fxamacker/cbor/v2"
	"github.com/stretchr/testify/require"
	"github.com/vmihailenco/msgpack/v5"
	"gopkg.in/yaml.v3"

	"github.com/arloliu/ubinary/format"
	"github.com/arloliu/ubinary/value"
)

func sampleValue(t *testing.T) *value.Cluster {
	t.Helper()

	ch := value.NewCluster(2)
	require.NoError(t, ch.Set("gain", &value.Scalar{Code: format.TypeFloat64, V: 2.0}))
	require.NoError(t, ch.Set("label", &value.Text{Code: format.TypeString, V: "a"}))

	root := value.NewCluster(10)
	set := func(name string, v value.Value) {
		require.NoError(t, root.Set(name, v))
	}
	set("count", &value.Scalar{Code: format.TypeInt32, V: int32(3)})
	set("gain", &value.Scalar{Code: format.TypeFloat64, V: 1.5})
	set("label", &value.Text{Code: format.TypeString, V: "ch0"})
	set("grid", value.NewBulkArray(format.TypeInt16, []int{2, 3}, []int16{1, 2, 3, 4, 5, 6}))
	set("bytes", value.NewBulkArray(format.TypeUint8, []int{2}, []uint8{1, 2}))
	set("nan", &value.Scalar{Code: format.TypeFloat64, V: math.NaN()})
	set("odd", &value.Unknown{Code: 99, Offset: 4, Raw: 0xdeadbeef})
	set("words", value.NewBulkArray(99, []int{2}, []uint32{1, 2}))
	set("wave", &value.Waveform{Timestamp1: 7, DT: 0.001, Y: []float64{0.5, 1}})
	set("channels", value.NewItemArray(format.TypeCluster, []int{1}, []value.Value{ch}))

	return root
}

func TestParseFormat(t *testing.T) {
	for _, f := range Formats {
		got, err := ParseFormat(strings.ToUpper(string(f)))
		require.NoError(t, err)
		require.Equal(t, f, got)
	}

	got, err := ParseFormat("yml")
	require.NoError(t, err)
	require.Equal(t, FormatYAML, got)

	got, err = ParseFormat("mpk")
	require.NoError(t, err)
	require.Equal(t, FormatMsgpack, got)

	_, err = ParseFormat("xml")
	require.Error(t, err)

	require.True(t, FormatCBOR.Binary())
	require.True(t, FormatMsgpack.Binary())
	require.False(t, FormatJSON.Binary())

	require.Error(t, Encode(&bytes.Buffer{}, sampleValue(t), Format("xml")))
}

func TestEncode_JSON(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Encode(&out, sampleValue(t), FormatJSON))
	require.True(t, strings.HasSuffix(out.String(), "}\n"))

	var compact bytes.Buffer
	require.NoError(t, json.Compact(&compact, out.Bytes()))

	want := `{"count":3,"gain":1.5,"label":"ch0","grid":[[1,2,3],[4,5,6]],"bytes":[1,2],"nan":null,` +
		`"odd":{"code":99,"raw":3735928559,"lowConfidence":true},` +
		`"words":{"code":99,"raw":[1,2],"lowConfidence":true},` +
		`"wave":{"t0":0,"timestamp1":7,"dt":0.001,"Y":[0.5,1],"attributes":"` + strings.Repeat("0", 58) + `"},` +
		`"channels":[{"gain":2,"label":"a"}]}`
	require.Equal(t, want, compact.String())
}

func TestEncode_JSONScalarRoots(t *testing.T) {
	tests := []struct {
		name string
		v    value.Value
		want string
	}{
		{"nil", nil, "null\n"},
		{"text", &value.Text{Code: format.TypeString, V: "x\"y"}, "\"x\\\"y\"\n"},
		{"inf", &value.Scalar{Code: format.TypeFloat32, V: float32(math.Inf(1))}, "null\n"},
		{"float32", &value.Scalar{Code: format.TypeFloat32, V: float32(0.1)}, "0.1\n"},
		{"bool", &value.Scalar{Code: format.TypeBool, V: true}, "true\n"},
		{"empty array", value.NewBulkArray(format.TypeFloat32, []int{0}, []float32{}), "[]\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var out bytes.Buffer
			require.NoError(t, Encode(&out, tt.v, FormatJSON))
			require.Equal(t, tt.want, out.String())
		})
	}
}

func TestEncode_Msgpack(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Encode(&out, sampleValue(t), FormatMsgpack))

	dec := msgpack.NewDecoder(bytes.NewReader(out.Bytes()))
	n, err := dec.DecodeMapLen()
	require.NoError(t, err)
	require.Equal(t, 10, n)

	var keys []string
	for range n {
		key, err := dec.DecodeString()
		require.NoError(t, err)
		keys = append(keys, key)
		require.NoError(t, dec.Skip())
	}
	require.Equal(t, sampleValue(t).Names(), keys)

	var m map[string]any
	require.NoError(t, msgpack.Unmarshal(out.Bytes(), &m))
	require.Equal(t, "ch0", m["label"])
	require.Equal(t, 1.5, m["gain"])
	require.True(t, math.IsNaN(m["nan"].(float64)))
	require.Len(t, m["grid"], 2)
}

func TestEncode_CBOR(t *testing.T) {
	var first, second bytes.Buffer
	require.NoError(t, Encode(&first, sampleValue(t), FormatCBOR))
	require.NoError(t, Encode(&second, sampleValue(t), FormatCBOR))
	require.Equal(t, first.Bytes(), second.Bytes())

	var m map[string]any
	require.NoError(t, cbor.Unmarshal(first.Bytes(), &m))
	require.Equal(t, "ch0", m["label"])
	require.Equal(t, 1.5, m["gain"])
	require.Len(t, m, 10)
}

func TestEncode_YAML(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, Encode(&out, sampleValue(t), FormatYAML))
	s := out.String()

	last := -1
	for _, name := range sampleValue(t).Names() {
		idx := strings.Index(s, "\n"+name+":")
		if name == "count" {
			idx = strings.Index(s, name+":")
		}
		require.Greater(t, idx, last, "field %s out of order", name)
		last = idx
	}

	require.Contains(t, s, "[1, 2, 3]")
	require.Contains(t, s, "[4, 5, 6]")
	require.Contains(t, s, "nan: .nan")
	require.Contains(t, s, "[0.5, 1]")

	var m map[string]any
	require.NoError(t, yaml.Unmarshal(out.Bytes(), &m))
	require.Equal(t, "ch0", m["label"])
	require.Equal(t, 1.5, m["gain"])
	require.Equal(t, []any{1, 2}, m["bytes"])
}

func TestEncode_Tree(t *testing.T) {
	root := sampleValue(t)
	require.NoError(t, root.Set("long", value.NewBulkArray(format.TypeInt8, []int{10},
		[]int8{0, 1, 2, 3, 4, 5, 6, 7, 8, 9})))

	var out bytes.Buffer
	require.NoError(t, Encode(&out, root, FormatTree))
	lines := strings.Split(strings.TrimSuffix(out.String(), "\n"), "\n")

	require.Equal(t, "cluster{11}", lines[0])
	require.Contains(t, lines, "├── count: 3 (int32)")
	require.Contains(t, lines, `├── label: "ch0"`)
	require.Contains(t, lines, "├── grid: int16[2x3] [1 2 3 4 5 6]")
	require.Contains(t, lines, "├── odd: unknown(code=99, raw=0xdeadbeef)")
	require.Contains(t, lines, "├── words: unknown(99)[2] [1 2]")
	require.Contains(t, lines, "├── wave: waveform t0=1970-01-01T00:00:00Z dt=0.001 n=2 [0.5 1]")
	require.Contains(t, lines, "├── channels: cluster[1]")
	require.Contains(t, lines, "│   └── [0]: cluster{2}")
	require.Contains(t, lines, "│       ├── gain: 2 (float64)")
	require.Contains(t, lines, `│       └── label: "a"`)
	require.Equal(t, "└── long: int8[10] [0 1 2 3 4 5 6 7 … +2]", lines[len(lines)-1])
}

func TestReshape(t *testing.T) {
	require.Equal(t, []int32{1, 2}, reshape([]int32{1, 2}, []int{2}))
	require.Equal(t, []any{[]int32{}, []int32{}}, reshape([]int32{}, []int{2, 0}))
	require.Equal(t, []any{}, reshape([]int32{}, []int{0, 4}))
	require.Equal(t, []int32{1, 2, 3}, reshape([]int32{1, 2, 3}, []int{2, 2}))

	nested := reshape([]int8{1, 2, 3, 4, 5, 6, 7, 8}, []int{2, 2, 2})
	require.Equal(t, []any{
		[]any{[]int8{1, 2}, []int8{3, 4}},
		[]any{[]int8{5, 6}, []int8{7, 8}},
	}, nested)
}
