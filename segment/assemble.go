// Package segment decodes the tagged segments of a ubinary buffer and merges
// them into one result.
//
// Segments are independent: each one is decoded on its own worker from the
// shared read-only buffer, starting right after its marker and reading as
// far as its header requires. Results are merged afterwards, in the order
// the tags appear, and every field name entering the merged cluster is
// checked against the ones already present. A marker lying inside the bytes
// of an earlier segment, such as one quoted in a string field, is not a
// segment of its own.
//
//	res, err := segment.Assemble(buf, segment.WithTags("settings", "trace"))
//	if err != nil {
//	    return err
//	}
//	settings, _ := res.Value.(*value.Cluster).Get("settings")
package segment

import (
	"errors"
	"fmt"
	"slices"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/arloliu/ubinary/decoder"
	"github.com/arloliu/ubinary/errs"
	"github.com/arloliu/ubinary/ident"
	"github.com/arloliu/ubinary/internal/collision"
	"github.com/arloliu/ubinary/internal/options"
	"github.com/arloliu/ubinary/tag"
	"github.com/arloliu/ubinary/value"
)

// Report describes the decode of one segment.
type Report struct {
	// Tag is the raw tag text; empty for the anonymous segment.
	Tag string
	// Field is the sanitized tag name used as the aggregate key.
	Field string
	// Offset is the segment start. Limit is the offset of the next marker;
	// it is informational and does not bound the decode.
	Offset int
	Limit  int
	// Consumed is the number of bytes read by the decoder.
	Consumed int
	// Elapsed is the decode time.
	Elapsed time.Duration
	// LowConfidence lists the paths decoded with the unknown-type fallback.
	LowConfidence []string
	// UnusedNames counts header names left over after the type queue ran out.
	UnusedNames int
	// Renamed lists members stored under a suffixed name because their
	// sanitized name was already taken in the same cluster.
	Renamed []string
	// Err is the decode failure, if any.
	Err error
}

// Result is the outcome of Assemble.
type Result struct {
	// Value is the aggregate cluster keyed by sanitized tag name, the
	// flattened cluster, or, when the buffer has no tags, the root cluster of
	// the single anonymous segment.
	Value value.Value
	// Tagged reports whether the buffer held any tag.
	Tagged bool
	// Reports has one entry per selected segment in discovery order.
	Reports []Report
	// Warnings collects non-fatal findings such as missing tags, unknown
	// type codes, renamed members and ignored embedded markers.
	Warnings []string
}

// Assemble decodes the segments of buf selected by opts and merges them.
//
// With no tag in buf the whole buffer is one anonymous segment, starting
// after the reserved "ubinary" marker when there is one, and its root
// cluster is returned unwrapped. A zero-length buffer fails with
// errs.ErrEmptyInput.
//
// A failing segment never leaks into the result. Every selected segment is
// decoded; by default the first failure in discovery order is then returned
// with no result, while WithPartial returns the merged successful segments
// and the joined failures.
func Assemble(buf []byte, opts ...Option) (*Result, error) {
	cfg, err := options.Build(NewConfig, opts...)
	if err != nil {
		return nil, err
	}

	segs := tag.Scan(buf)
	if len(segs) == 0 {
		return assembleAnonymous(buf, cfg)
	}

	res := &Result{Tagged: true}
	selected := selectSegments(segs, cfg.tags, res)

	reports := dropEmbedded(decodeAll(buf, selected, cfg), res)

	agg, err := merge(reports, cfg)
	res.Reports = make([]Report, len(reports))
	for i, r := range reports {
		res.Reports[i] = r.Report
		res.Warnings = append(res.Warnings, warnings(r.Report)...)
	}

	if err != nil && !cfg.partial {
		return nil, err
	}
	res.Value = agg

	return res, err
}

// selectSegments keeps the segments whose tag was requested, in discovery
// order. Requested tags that are not present become warnings.
func selectSegments(segs []tag.Segment, requested []string, res *Result) []tag.Segment {
	if len(requested) == 0 {
		return segs
	}

	selected := make([]tag.Segment, 0, len(requested))
	for _, s := range segs {
		if slices.Contains(requested, s.Name) {
			selected = append(selected, s)
		}
	}

	for _, name := range requested {
		if !slices.ContainsFunc(segs, func(s tag.Segment) bool { return s.Name == name }) {
			res.Warnings = append(res.Warnings, fmt.Sprintf("tag %q not found", name))
		}
	}

	return selected
}

type decoded struct {
	Report
	root *value.Cluster
}

// decodeAll decodes every segment on a bounded worker group. Each worker
// writes only its own slot, and a failure does not stop the others.
func decodeAll(buf []byte, segs []tag.Segment, cfg *Config) []decoded {
	out := make([]decoded, len(segs))

	var g errgroup.Group
	g.SetLimit(cfg.concurrency)

	for i, s := range segs {
		r := Report{Tag: s.Name, Field: ident.Sanitize(s.Name), Offset: s.Offset, Limit: s.End}

		g.Go(func() error {
			out[i] = decodeOne(buf, r, cfg.log())
			return nil
		})
	}
	_ = g.Wait() // failures are kept per slot

	return out
}

// dropEmbedded removes segments whose marker lies inside the bytes consumed
// by an earlier, successfully decoded segment. Each removal becomes a
// warning.
func dropEmbedded(segs []decoded, res *Result) []decoded {
	out := segs[:0]
	covered, owner := -1, ""

	for _, s := range segs {
		if s.Offset <= covered {
			res.Warnings = append(res.Warnings, fmt.Sprintf(
				"tag %q at offset %d lies inside segment %q; ignored", s.Tag, s.Offset, owner))

			continue
		}

		out = append(out, s)
		if s.Err == nil {
			covered, owner = s.Offset+s.Consumed, s.Tag
		}
	}

	return out
}

func decodeOne(buf []byte, r Report, log *zap.Logger) decoded {
	start := time.Now()

	seg, err := decoder.DecodeSegment(buf, r.Offset)
	r.Elapsed = time.Since(start)

	if err != nil {
		r.Err = fmt.Errorf("segment %q at offset %d: %w", r.Tag, r.Offset, err)
		log.Debug("segment failed", zap.String("tag", r.Tag), zap.Int("offset", r.Offset), zap.Error(err))

		return decoded{Report: r}
	}

	r.Consumed = seg.End - seg.Start
	r.UnusedNames = seg.UnusedNames
	r.Renamed = seg.Renamed
	r.LowConfidence = value.LowConfidencePaths(seg.Value)

	log.Debug("segment decoded",
		zap.String("tag", r.Tag),
		zap.Int("offset", r.Offset),
		zap.Int("bytes", r.Consumed),
		zap.Int("fields", seg.Value.Len()),
		zap.Duration("elapsed", r.Elapsed))

	if len(r.LowConfidence) > 0 {
		log.Warn("unknown type codes decoded with fallback width",
			zap.String("tag", r.Tag), zap.Strings("paths", r.LowConfidence))
	}

	if len(r.Renamed) > 0 {
		log.Warn("duplicate member names renamed",
			zap.String("tag", r.Tag), zap.Strings("members", r.Renamed))
	}

	if r.UnusedNames > 0 {
		log.Warn("header names left after the type table ran out",
			zap.String("tag", r.Tag), zap.Int("count", r.UnusedNames))
	}

	return decoded{Report: r, root: seg.Value}
}

// merge builds the aggregate from the decoded segments in discovery order.
// Outside partial mode it returns the first decode or merge failure.
func merge(segs []decoded, cfg *Config) (*value.Cluster, error) {
	if !cfg.partial {
		for _, s := range segs {
			if s.Err != nil {
				return nil, s.Err
			}
		}
	}

	tracker := collision.NewTracker()
	agg := value.NewCluster(len(segs))

	var failures []error
	for _, s := range segs {
		if s.Err != nil {
			failures = append(failures, s.Err)
			continue
		}

		var err error
		if cfg.flatten {
			err = mergeFields(agg, tracker, s)
		} else {
			err = mergeKeyed(agg, tracker, s)
		}

		if err != nil {
			if !cfg.partial {
				return nil, err
			}
			failures = append(failures, err)
		}
	}

	return agg, errors.Join(failures...)
}

func mergeKeyed(agg *value.Cluster, tracker *collision.Tracker, s decoded) error {
	if err := tracker.Track(s.Field, s.Tag); err != nil {
		return fmt.Errorf("segment %q: %w", s.Tag, err)
	}

	return agg.Set(s.Field, s.root)
}

// mergeFields adds every member of the segment root. A segment whose members
// collide is left out entirely.
func mergeFields(agg *value.Cluster, tracker *collision.Tracker, s decoded) error {
	for name := range s.root.All() {
		if owner, ok := tracker.Owner(name); ok {
			return fmt.Errorf("segment %q: %w: %q already set by segment %q",
				s.Tag, errs.ErrDuplicateFieldName, name, owner)
		}
	}

	for name, v := range s.root.All() {
		if err := tracker.Track(name, s.Tag); err != nil {
			return fmt.Errorf("segment %q: %w", s.Tag, err)
		}
		if err := agg.Set(name, v); err != nil {
			return err
		}
	}

	return nil
}

func assembleAnonymous(buf []byte, cfg *Config) (*Result, error) {
	if len(buf) == 0 {
		return nil, errs.ErrEmptyInput
	}

	res := &Result{}
	if len(cfg.tags) > 0 {
		res.Warnings = append(res.Warnings, "buffer has no tags; requested tags ignored")
	}

	start, _ := tag.Marker(buf)

	d := decodeOne(buf, Report{Offset: start, Limit: len(buf)}, cfg.log())
	res.Reports = []Report{d.Report}
	res.Warnings = append(res.Warnings, warnings(d.Report)...)

	if d.Err != nil {
		return nil, d.Err
	}
	res.Value = d.root

	return res, nil
}

func warnings(r Report) []string {
	var out []string

	label := fmt.Sprintf("segment %q", r.Tag)
	if r.Tag == "" {
		label = "anonymous segment"
	}

	for _, p := range r.LowConfidence {
		out = append(out, fmt.Sprintf("%s: %s decoded with %v fallback", label, p, errs.ErrUnknownTypeCode))
	}

	for _, msg := range r.Renamed {
		out = append(out, fmt.Sprintf("%s: duplicate member %s", label, msg))
	}

	if r.UnusedNames > 0 {
		out = append(out, fmt.Sprintf("%s: %d header names unused", label, r.UnusedNames))
	}

	return out
}
