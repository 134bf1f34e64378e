// Package decoder implements the recursive, type-driven decoder for ubinary
// segments.
//
// A segment starts with a header holding two parallel tables: the field names
// and the type queue. The payload that follows has no delimiters; its layout
// is recovered by popping the type queue and the name queue in lockstep while
// reading bytes:
//
//	node := scalar | text | 84 | unknown
//	      | 64 N node      array: N dimensions, then the element node
//	      | 80 M node{M}   cluster: M members
//
// Every node code pops one name. The dimension count N and the member count M
// pop none.
//
// # Cursor and Queues
//
// Nothing is held in decoder state. Each call takes a buffer, an absolute
// cursor and a Queues value and returns the advanced cursor and the advanced
// Queues. Queues is a value type, so the element structure of an array of
// clusters is re-read from the same snapshot for every element.
//
// # Failures
//
// Reads past the end of the buffer fail with errs.ErrBufferOverrun and
// inconsistent tables fail with errs.ErrMalformedHeader; both come as an
// *errs.DecodeError carrying the offset and the expected-vs-available counts.
// Type codes outside the table never fail: they are read as 4-byte words and
// surface as low-confidence values.
//
// # Usage
//
//	seg, err := decoder.DecodeSegment(buf[:end], start)
//	if err != nil {
//	    return err
//	}
//	for name, v := range seg.Value.All() {
//	    fmt.Println(name, v.Kind())
//	}
package decoder
