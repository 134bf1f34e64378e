package tag

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/ubinary/internal/fixture"
)

func TestList_ExcludesReserved(t *testing.T) {
	buf := fixture.New().
		Raw(0x00, 0x01).Tag("foo").Raw(0x10, 0x20, 0x30).
		Tag("ubinary").Raw(0x40).
		Tag("bar").Raw(0x50, 0x60).
		Bytes()

	require.Equal(t, []string{"foo", "bar"}, List(buf))
}

func TestScan_Offsets(t *testing.T) {
	b := fixture.New().Raw('x', 'y')
	fooMarker := b.Len()
	b.Tag("foo")
	fooOffset := b.Len()
	b.Raw(1, 2, 3, 4)
	reserved := b.Len()
	b.Tag("ubinary").Raw(5)
	barMarker := b.Len()
	b.Tag("bar")
	barOffset := b.Len()
	buf := b.Raw(6, 7).Bytes()

	segs := Scan(buf)

	require.Equal(t, []Segment{
		{Name: "foo", Marker: fooMarker, Offset: fooOffset, End: reserved},
		{Name: "bar", Marker: barMarker, Offset: barOffset, End: len(buf)},
	}, segs)
	require.Equal(t, 4, segs[0].Len())
	require.Equal(t, 2, segs[1].Len())
}

func TestScan_NoTags(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
	}{
		{name: "nil", buf: nil},
		{name: "plain bytes", buf: []byte{0, 1, 2, 3}},
		{name: "empty name", buf: []byte("@@@@@}}}}}")},
		{name: "short opener", buf: []byte("@@@@foo}}}}}")},
		{name: "short closer", buf: []byte("@@@@@foo}}}}")},
		{name: "name with brace", buf: []byte("@@@@@f}o}}}}}")},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			segs := Scan(tt.buf)
			require.NotNil(t, segs)
			require.Empty(t, segs)
			require.Empty(t, List(tt.buf))
		})
	}
}

func TestScan_NameWithSpacesAndPunctuation(t *testing.T) {
	buf := fixture.New().Tag("run #2 (cold)").Raw(1).Bytes()

	require.Equal(t, []string{"run #2 (cold)"}, List(buf))
}

func TestScan_LongerDelimiterRuns(t *testing.T) {
	// a sixth '@' is not part of the name
	buf := []byte("@@@@@@abc}}}}}")

	segs := Scan(buf)
	require.Len(t, segs, 1)
	require.Equal(t, "abc", segs[0].Name)
	require.Equal(t, 1, segs[0].Marker)
	require.Equal(t, len(buf), segs[0].Offset)
}

func TestMarker(t *testing.T) {
	b := fixture.New().Raw(9, 9).Tag("ubinary")
	after := b.Len()
	buf := b.Raw(1, 2, 3).Bytes()

	off, ok := Marker(buf)
	require.True(t, ok)
	require.Equal(t, after, off)

	_, ok = Marker([]byte{1, 2, 3})
	require.False(t, ok)
}
