package decoder

import (
	"github.com/arloliu/ubinary/format"
	"github.com/arloliu/ubinary/value"
)

// decodeWaveform decodes one waveform record:
//
//	u64  timestamp1 (raw)
//	u64  timestamp2 (1904-based seconds, shifted to the Unix epoch)
//	f64  dt
//	     Y as a one-dimensional float64 array
//	[29] attributes, passed through unchanged
func decodeWaveform(buf []byte, cur int) (int, *value.Waveform, error) {
	start := cur
	w := &value.Waveform{}

	ts1, cur, err := readU64(buf, cur, "waveform")
	if err != nil {
		return start, nil, err
	}

	ts2, cur, err := readU64(buf, cur, "waveform")
	if err != nil {
		return start, nil, err
	}

	dt, cur, err := readF64(buf, cur, "waveform")
	if err != nil {
		return start, nil, err
	}

	y, cur, err := decodeFloat64Vector(buf, cur, "waveform")
	if err != nil {
		return start, nil, err
	}

	attrs, cur, err := take(buf, cur, format.WaveformAttrSize, "waveform")
	if err != nil {
		return start, nil, err
	}

	w.Timestamp1 = ts1
	w.Timestamp2 = int64(ts2) - format.EpochOffset //nolint:gosec
	w.DT = dt
	w.Y = y
	copy(w.Attributes[:], attrs)

	return cur, w, nil
}

// decodeWaveforms decodes count consecutive waveform records.
func decodeWaveforms(buf []byte, cur int, count int) (int, []value.Value, error) {
	if count < 0 || count > remaining(buf, cur)/minWaveformSize {
		return cur, nil, overrunFor("waveform", buf, cur, count, minWaveformSize)
	}

	items := make([]value.Value, count)
	for i := range items {
		next, w, err := decodeWaveform(buf, cur)
		if err != nil {
			return next, nil, err
		}
		items[i] = w
		cur = next
	}

	return cur, items, nil
}
