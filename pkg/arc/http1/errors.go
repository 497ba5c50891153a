package http1

import "errors"

// Parser errors - Pre-allocated for zero runtime allocation
var (
	// ErrMalformedRequestLine indicates a bad method character, a missing
	// or misplaced version token, an unsupported target form, or a control
	// byte inside the target.
	ErrMalformedRequestLine = errors.New("http1: malformed request line")

	// ErrMalformedHeader indicates an empty name before a colon, a control
	// byte inside a value, or a missing line terminator.
	ErrMalformedHeader = errors.New("http1: malformed header")
)

// Fields-hash build errors
var (
	// ErrFieldNameTooLong indicates a registered name longer than 32 bytes.
	// The long-name lookup path is not implemented.
	ErrFieldNameTooLong = errors.New("http1: field name longer than 32 bytes")

	// ErrFieldNameEmpty indicates a registration with an empty name.
	ErrFieldNameEmpty = errors.New("http1: empty field name")
)

// Feeder errors
var (
	// ErrHeadTooLarge indicates the request head exceeded the feeder's
	// size limit before the terminating empty line was seen.
	ErrHeadTooLarge = errors.New("http1: request head too large")

	// ErrUnexpectedEOF indicates the reader ended mid-head.
	ErrUnexpectedEOF = errors.New("http1: unexpected EOF")
)

// Standard field handler errors
var (
	// ErrInvalidContentLength indicates a Content-Length value that is not
	// a plain decimal integer.
	ErrInvalidContentLength = errors.New("http1: invalid Content-Length")

	// ErrDuplicateContentLength indicates multiple Content-Length headers
	// with different values. Rejected to prevent request smuggling.
	ErrDuplicateContentLength = errors.New("http1: duplicate Content-Length headers with different values")

	// ErrContentLengthWithTransferEncoding indicates a head carrying both
	// Content-Length and Transfer-Encoding. Rejected to prevent request
	// smuggling.
	ErrContentLengthWithTransferEncoding = errors.New("http1: request has both Content-Length and Transfer-Encoding")

	// ErrDuplicateHost indicates more than one Host header.
	ErrDuplicateHost = errors.New("http1: duplicate Host header")
)
