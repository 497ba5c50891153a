// Package http1 implements an incremental, zero-copy HTTP/1.x request-head
// parser. It consumes the request line and header block from one or more
// buffer slices, records structural positions into the caller's buffer, and
// dispatches recognized header fields through a length-keyed lookup table.
package http1

import "encoding/binary"

// Lookahead windows for the inner scanners.
//
// The target scanner reserves 10 bytes of lookahead so that a stop at the
// target's trailing space still leaves room to inspect " HTTP/1.1\r"
// without re-entering. The request-line scanner reserves 12 so a full
// 8-byte method run plus terminator inspection never reads past the buffer.
const (
	versionLookahead     = 10
	requestLineLookahead = 12
)

// MaxKeyedNameLength is the longest header name the packed-key lookup path
// supports. Names longer than this parse fine but never match an entry.
const MaxKeyedNameLength = 32

// DefaultMaxHeadSize bounds the bytes a Feeder will accumulate for one
// request head before giving up. 16KB matches the usual 8KB request line +
// 8KB headers recommendation.
const DefaultMaxHeadSize = 16384

// Packed little-endian forms of the two fast-path version tokens. The
// version check reads 8 bytes after the target-terminating space as a
// uint64 and compares against these before falling back to the
// byte-by-byte HTTP/<d>.<d> check.
var (
	versionHTTP11 = binary.LittleEndian.Uint64([]byte("HTTP/1.1"))
	versionHTTP10 = binary.LittleEndian.Uint64([]byte("HTTP/1.0"))
)
