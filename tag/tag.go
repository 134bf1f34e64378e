// Package tag locates segment markers in a ubinary container.
//
// A marker is five '@' characters, a name without '@' or '}', and five '}'
// characters, embedded anywhere in the byte stream:
//
//	@@@@@settings}}}}}<header><payload>@@@@@trace}}}}}<header><payload>
//
// The segment for a marker starts at the byte following it and runs up to the
// next marker. The reserved name "ubinary" identifies the format and never
// names a segment.
package tag

import (
	"regexp"

	"github.com/arloliu/ubinary/format"
)

var markerPattern = regexp.MustCompile(`@{5}([^@}]+)\}{5}`)

// Segment is a named segment located in a buffer.
type Segment struct {
	// Name is the tag text between the delimiters, unsanitized.
	Name string
	// Marker is the offset of the first '@' of the marker.
	Marker int
	// Offset is the offset right after the closing delimiter, where the
	// segment header starts.
	Offset int
	// End is the offset of the next marker, or the buffer length.
	End int
}

// Len returns the number of bytes between Offset and End.
func (s Segment) Len() int {
	return s.End - s.Offset
}

// Scan returns the data segments of buf in order of appearance. It returns
// an empty slice when buf holds no markers.
func Scan(buf []byte) []Segment {
	all := scan(buf)

	segs := make([]Segment, 0, len(all))
	for _, s := range all {
		if s.Name != format.ReservedTag {
			segs = append(segs, s)
		}
	}

	return segs
}

// List returns the data segment names of buf in order of appearance.
func List(buf []byte) []string {
	segs := Scan(buf)

	names := make([]string, len(segs))
	for i, s := range segs {
		names[i] = s.Name
	}

	return names
}

// Marker returns the offset right after the first reserved "ubinary" marker.
func Marker(buf []byte) (int, bool) {
	for _, s := range scan(buf) {
		if s.Name == format.ReservedTag {
			return s.Offset, true
		}
	}

	return 0, false
}

// scan returns every marker, reserved ones included.
func scan(buf []byte) []Segment {
	matches := markerPattern.FindAllSubmatchIndex(buf, -1)
	if len(matches) == 0 {
		return []Segment{}
	}

	segs := make([]Segment, len(matches))
	for i, m := range matches {
		end := len(buf)
		if i+1 < len(matches) {
			end = matches[i+1][0]
		}

		segs[i] = Segment{
			Name:   string(buf[m[2]:m[3]]),
			Marker: m[0],
			Offset: m[1],
			End:    end,
		}
	}

	return segs
}
