// Package compress decompresses ubinary source files.
//
// Instruments and archives often store containers compressed as a whole. The
// package detects the wrapping from the file extension or the leading magic
// bytes and unwraps it before decoding:
//
//   - None: plain container
//   - Zstd: Zstandard frames (.zst, .zstd)
//   - S2:   S2 or Snappy framed streams (.s2, .sz)
//   - LZ4:  LZ4 frames (.lz4)
//
// Every codec appends to a caller-supplied slice, so the output can land in a
// pooled buffer:
//
//	codec, err := compress.GetCodec(compress.Detect(raw))
//	if err != nil {
//	    return err
//	}
//	out, err := codec.Decompress(buf[:0], raw)
//
// Zstd uses github.com/klauspost/compress/zstd by default. Building with
// `-tags gozstd` on a cgo toolchain switches to github.com/valyala/gozstd.
//
// All codecs are safe for concurrent use.
package compress
