// Package ubinary decodes tagged, self-describing binary containers written
// by data-acquisition instruments.
//
// A container holds one or more segments. Each segment carries a header, a
// table of field names and a parallel table of type codes, followed by the
// payload: scalars, strings, waveforms, n-dimensional arrays and nested
// clusters. Structure is inferred by walking both tables in lockstep with the
// payload; there is no schema and no version number.
//
// Segments are introduced by markers of the form "@@@@@name}}}}}". The
// reserved "ubinary" marker only identifies the file. A buffer without
// markers is decoded as one anonymous segment.
//
// # Core Features
//
//   - Scalars, text, waveforms, arrays of up to 8 dimensions and clusters
//   - Unknown type codes decode with a 4-byte fallback and are flagged as
//     low confidence instead of failing
//   - Selective, parallel decoding of tagged segments
//   - Every decoded field name is a valid identifier (see package ident)
//   - Transparent zstd, s2 and lz4 decompression when loading files
//
// # Basic Usage
//
// Listing and decoding tags:
//
//	buf, _ := os.ReadFile("run-42.bin")
//	fmt.Println(ubinary.ListTags(buf)) // [settings trace]
//
//	v, err := ubinary.DecodeTags(buf, "trace")
//	if err != nil {
//	    return err
//	}
//	gain, _ := value.Lookup(v, "trace.channels[0].gain")
//
// Decoding a file, possibly compressed:
//
//	v, err := ubinary.DecodeFile("run-42.bin.zst", ubinary.WithPartial(true))
//
// # Package Structure
//
// This package wraps the segment, source and walk packages for the common
// cases. Use package decoder directly to decode a single header and payload,
// and package render to write results as JSON, MessagePack, CBOR, YAML or a
// tree.
package ubinary

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/arloliu/ubinary/segment"
	"github.com/arloliu/ubinary/source"
	"github.com/arloliu/ubinary/tag"
	"github.com/arloliu/ubinary/value"
	"github.com/arloliu/ubinary/walk"
)

// Option configures a decode call.
type Option = segment.Option

// Decode options, shared with package segment.
var (
	WithTags        = segment.WithTags
	WithFlatten     = segment.WithFlatten
	WithPartial     = segment.WithPartial
	WithConcurrency = segment.WithConcurrency
	WithLogger      = segment.WithLogger
)

// ListTags returns the segment tag names in buf in the order they appear.
// The reserved "ubinary" marker is not listed.
func ListTags(buf []byte) []string {
	return tag.List(buf)
}

// Decode decodes buf.
//
// When buf has tags the result is a cluster keyed by sanitized tag name, or
// with WithFlatten the fields of every segment merged into one cluster.
// Without tags the result is the root cluster of the whole buffer.
//
// With WithPartial a failing segment does not abort the call: the successful
// segments are returned together with the joined segment errors.
func Decode(buf []byte, opts ...Option) (value.Value, error) {
	res, err := segment.Assemble(buf, opts...)
	if res == nil {
		return nil, err
	}

	return res.Value, err
}

// DecodeTags decodes only the named segments.
func DecodeTags(buf []byte, tags ...string) (value.Value, error) {
	return Decode(buf, WithTags(tags...))
}

// Inspect decodes buf and returns the full result, including per-segment
// reports and warnings.
func Inspect(buf []byte, opts ...Option) (*segment.Result, error) {
	return segment.Assemble(buf, opts...)
}

// DecodeFile loads path, decompressing it when needed, and decodes it.
func DecodeFile(path string, opts ...Option) (value.Value, error) {
	res, err := InspectFile(path, opts...)
	if res == nil {
		return nil, err
	}

	return res.Value, err
}

// InspectFile is Inspect for a file on disk. Decode failures are prefixed
// with the path.
func InspectFile(path string, opts ...Option) (*segment.Result, error) {
	res, err := inspectFile(path, opts...)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		err = fmt.Errorf("%s: %w", path, err)
	}

	return res, err
}

func inspectFile(path string, opts ...Option) (*segment.Result, error) {
	f, err := source.Load(path)
	if err != nil {
		return nil, err
	}
	defer f.Release()

	return segment.Assemble(f.Bytes(), opts...)
}

// FileResult is the outcome of decoding one file of a directory.
type FileResult struct {
	Path  string
	Value value.Value
	Err   error
}

// DecodeDir decodes every file under root selected by walkOpts. Each file
// gets its own FileResult; the returned error joins the per-file failures,
// each prefixed with its path.
func DecodeDir(root string, walkOpts []walk.Option, opts ...Option) ([]FileResult, error) {
	paths, err := walk.Files(root, walkOpts...)
	if err != nil {
		return nil, err
	}

	results := make([]FileResult, 0, len(paths))
	err = walk.Each(paths, func(path string) error {
		res, err := inspectFile(path, opts...)
		fr := FileResult{Path: path, Err: err}
		if res != nil {
			fr.Value = res.Value
		}
		results = append(results, fr)

		return err
	})

	return results, err
}
