package http1

import "encoding/binary"

// Status is the outcome of one Parse call.
type Status int8

const (
	// StatusDone means the request head is complete and the returned
	// position is just past the final '\n' of the header block.
	StatusDone Status = iota

	// StatusAgain means the buffer ran out mid-head. The parse is
	// suspended; append more bytes and call Parse again with the same
	// ParseState and the returned position.
	StatusAgain

	// StatusError means the head is malformed or a field handler
	// rejected. The detail is available from Err. The parse must be
	// abandoned.
	StatusError
)

// String returns a short name for the status.
func (s Status) String() string {
	switch s {
	case StatusDone:
		return "done"
	case StatusAgain:
		return "again"
	default:
		return "error"
	}
}

// phase identifies the handler Parse re-enters next.
type phase uint8

const (
	phaseRequestLine phase = iota
	phaseFieldName
	phaseFieldValue
	phaseFieldEnd
	phaseDone
)

// Internal handler results. rcContinue keeps the dispatch loop going,
// mirroring the tail-call chain between the phase handlers.
type result int8

const (
	rcContinue result = iota
	rcDone
	rcAgain
	rcErr
)

// ParseState is a resumable request-head parse. It remembers which phase
// is current, a resume offset within the current logical token, and the
// structural positions accumulated so far. Every recorded position is a
// borrowed (offset, length) range into the caller's buffer; the parser
// never copies bytes.
//
// A ParseState belongs to exactly one parse in flight and must not be
// shared between concurrent callers. The FieldsHash it references is
// read-only and may be shared freely.
//
// The caller must keep already-scanned bytes of the buffer stable (same
// content, same offsets) until the parse completes or is abandoned.
// Appending input that grows or even reallocates the buffer is fine:
// positions are offsets, not pointers.
type ParseState struct {
	phase  phase
	offset int
	err    error

	// Method is the request method's position in the buffer.
	Method Span

	// TargetStart and TargetEnd bound the request target.
	TargetStart int
	TargetEnd   int

	// ExtenStart marks the byte after the last '.' of the target's final
	// segment; ArgsStart marks the byte after '?'. Both are -1 when absent.
	ExtenStart int
	ArgsStart  int

	// Version holds the 8 ASCII bytes of the version token (for example
	// "HTTP/1.1") packed little-endian.
	Version uint64

	// Target classification flags.
	ComplexTarget bool // target contains "//", "/." or '#'
	QuotedTarget  bool // target contains '%'
	PlusInTarget  bool // target contains '+'
	SpaceInTarget bool // a space turned out to be part of the target

	// FieldName and FieldValue bound the current header. During a field
	// handler callback they describe the header being dispatched.
	FieldName  Span
	FieldValue Span

	// StrictMethod rejects '_' and '-' inside the method name. The
	// default is the tolerant, non-standard acceptance.
	StrictMethod bool

	// fieldNameKey accumulates the lowercased name bytes of the current
	// header, packed from offset 0 and rotating modulo 32. It is zeroed
	// after each header is dispatched.
	fieldNameKey [MaxKeyedNameLength]byte

	hash *FieldsHash
	ctx  any
}

// NewParseState returns a ParseState ready to parse one request head.
// hash may be nil, in which case no field is ever dispatched. ctx is the
// opaque value passed to field handlers.
func NewParseState(hash *FieldsHash, ctx any) *ParseState {
	ps := &ParseState{}
	ps.Reset(hash, ctx)
	return ps
}

// Reset prepares the ParseState for a new request head, keeping nothing
// from the previous parse.
func (ps *ParseState) Reset(hash *FieldsHash, ctx any) {
	*ps = ParseState{
		ExtenStart: -1,
		ArgsStart:  -1,
		hash:       hash,
		ctx:        ctx,
	}
}

// Err returns the error recorded by the last Parse call that reported
// StatusError, or nil.
func (ps *ParseState) Err() error {
	return ps.err
}

// Target resolves the full request target against the buffer.
func (ps *ParseState) Target(buf []byte) []byte {
	return buf[ps.TargetStart:ps.TargetEnd]
}

// Path resolves the target's path component: the target up to but not
// including the '?'.
func (ps *ParseState) Path(buf []byte) []byte {
	return buf[ps.TargetStart:ps.pathEnd()]
}

// Args resolves the query string (the bytes after '?'), or nil when the
// target has none.
func (ps *ParseState) Args(buf []byte) []byte {
	if ps.ArgsStart < 0 {
		return nil
	}
	return buf[ps.ArgsStart:ps.TargetEnd]
}

// Exten resolves the last path segment's extension (the bytes after its
// final '.'), or nil when there is none.
func (ps *ParseState) Exten(buf []byte) []byte {
	if ps.ExtenStart < 0 {
		return nil
	}
	return buf[ps.ExtenStart:ps.pathEnd()]
}

func (ps *ParseState) pathEnd() int {
	if ps.ArgsStart >= 0 {
		return ps.ArgsStart - 1
	}
	return ps.TargetEnd
}

// VersionBytes unpacks the version token into its 8 ASCII bytes.
func (ps *ParseState) VersionBytes() [8]byte {
	var v [8]byte
	binary.LittleEndian.PutUint64(v[:], ps.Version)
	return v
}

// VersionString returns the version token as a string, e.g. "HTTP/1.1".
//
// Allocation behavior: 1 alloc/op
func (ps *ParseState) VersionString() string {
	v := ps.VersionBytes()
	return string(v[:])
}

// Parse consumes request-head bytes from buf starting at pos. It returns
// the new position and one of StatusDone, StatusAgain or StatusError.
//
// On StatusAgain the caller appends more input (already-scanned bytes
// staying stable) and calls Parse again with the returned position. On
// StatusDone the position is just past the final '\n' of the header
// block; any following bytes belong to the body or the next request.
func (ps *ParseState) Parse(buf []byte, pos int) (int, Status) {
	var rc result

	for {
		switch ps.phase {
		case phaseRequestLine:
			pos, rc = ps.parseRequestLine(buf, pos)
		case phaseFieldName:
			pos, rc = ps.parseFieldName(buf, pos)
		case phaseFieldValue:
			pos, rc = ps.parseFieldValue(buf, pos)
		case phaseFieldEnd:
			pos, rc = ps.parseFieldEnd(buf, pos)
		default:
			return pos, StatusDone
		}

		switch rc {
		case rcContinue:
		case rcDone:
			ps.phase = phaseDone
			return pos, StatusDone
		case rcAgain:
			return pos, StatusAgain
		default:
			return pos, StatusError
		}
	}
}

func (ps *ParseState) fail(err error) result {
	ps.err = err
	return rcErr
}

// parseRequestLine parses "METHOD SP target SP HTTP/<d>.<d> (CRLF|LF)".
//
// The whole request line is one resumption unit: on StatusAgain the
// position is not advanced and the next call re-scans the line from its
// start. Classification flags are only ever set, so a re-scan of the
// same prefix reproduces the same state.
func (ps *ParseState) parseRequestLine(buf []byte, pos int) (int, result) {
	var (
		ch         byte
		trap       targetTrap
		rc         result
		afterSlash int
	)

	p := pos
	methodStart := p

	// Method: uppercase A-Z, tolerating '_' and '-'. Stray CR/LF before
	// the method are skipped.
	for {
		stopped := false
		for !stopped {
			if len(buf)-p < requestLineLookahead {
				return pos, rcAgain
			}

			for step := 0; step < 8; step++ {
				ch = buf[p]
				if ch < 'A' || ch > 'Z' {
					stopped = true
					break
				}
				p++
			}
		}

		if ch == ' ' {
			ps.Method = Span{Start: methodStart, Len: p - methodStart}
			break
		}

		if ch == '_' || ch == '-' {
			if ps.StrictMethod {
				return pos, ps.fail(ErrMalformedRequestLine)
			}
			p++
			continue
		}

		if methodStart == p && (ch == '\r' || ch == '\n') {
			methodStart++
			p++
			continue
		}

		return pos, ps.fail(ErrMalformedRequestLine)
	}

	p++

	if p == len(buf) {
		return pos, rcAgain
	}

	// Target: origin-form only.
	if buf[p] != '/' {
		p, rc = ps.parseUnusualTarget(buf, p)
		if rc != rcContinue {
			if rc == rcErr {
				return pos, rc
			}
			return pos, rcAgain
		}
	}

	ps.TargetStart = p
	afterSlash = p + 1

	for {
		p++

		p, trap = scanTarget(buf, p)

		switch trap {
		case targetTrapSlash:
			if afterSlash == p {
				ps.ComplexTarget = true
				goto restOfTarget
			}
			afterSlash = p + 1
			ps.ExtenStart = -1
			continue

		case targetTrapDot:
			if afterSlash == p {
				ps.ComplexTarget = true
				goto restOfTarget
			}
			ps.ExtenStart = p + 1
			continue

		case targetTrapArgs:
			ps.ArgsStart = p + 1
			goto restOfTarget

		case targetTrapSpace:
			ps.TargetEnd = p
			goto spaceAfterTarget

		case targetTrapQuote:
			ps.QuotedTarget = true
			goto restOfTarget

		case targetTrapPlus:
			ps.PlusInTarget = true
			continue

		case targetTrapHash:
			ps.ComplexTarget = true
			goto restOfTarget

		case targetTrapAgain:
			return pos, rcAgain

		default:
			return pos, ps.fail(ErrMalformedRequestLine)
		}
	}

restOfTarget:
	// Past the point where segment structure matters: only the end of the
	// target, fragment marks, '+' and illegal bytes are significant.
	for {
		p++

		p, trap = scanTarget(buf, p)

		switch trap {
		case targetTrapSpace:
			ps.TargetEnd = p
			goto spaceAfterTarget

		case targetTrapHash:
			ps.ComplexTarget = true

		case targetTrapPlus:
			ps.PlusInTarget = true

		case targetTrapAgain:
			return pos, rcAgain

		case targetTrapBad:
			return pos, ps.fail(ErrMalformedRequestLine)
		}
	}

spaceAfterTarget:
	if len(buf)-p < versionLookahead {
		return pos, rcAgain
	}

	// " HTTP/1.1\r\n" or " HTTP/1.1\n"

	ch = buf[p+9]

	if v := binary.LittleEndian.Uint64(buf[p+1 : p+9]); (v == versionHTTP11 ||
		v == versionHTTP10 ||
		(buf[p+1] == 'H' &&
			buf[p+2] == 'T' &&
			buf[p+3] == 'T' &&
			buf[p+4] == 'P' &&
			buf[p+5] == '/' &&
			buf[p+6] >= '0' && buf[p+6] <= '9' &&
			buf[p+7] == '.' &&
			buf[p+8] >= '0' && buf[p+8] <= '9')) &&
		(ch == '\r' || ch == '\n') {

		ps.Version = v

		if ch == '\r' {
			p += versionLookahead

			if p == len(buf) {
				return pos, rcAgain
			}

			if buf[p] != '\n' {
				return pos, ps.fail(ErrMalformedRequestLine)
			}

			ps.phase = phaseFieldName
			return p + 1, rcContinue
		}

		ps.phase = phaseFieldName
		return p + versionLookahead, rcContinue
	}

	if buf[p+1] == ' ' {
		// Surplus space after the target.
		p++
		goto spaceAfterTarget
	}

	// The space was part of a malformed but tolerated target.
	ps.SpaceInTarget = true
	goto restOfTarget
}

// parseUnusualTarget handles a target that does not begin with '/':
// surplus spaces before an origin-form target are skipped. Absolute-form
// and '*' targets are not accepted.
//
// TODO: absolute-URI targets and '*'.
func (ps *ParseState) parseUnusualTarget(buf []byte, p int) (int, result) {
	ch := buf[p]

	if ch == ' ' {
		for {
			p++

			if p == len(buf) {
				return p, rcAgain
			}

			ch = buf[p]
			if ch != ' ' {
				break
			}
		}

		if ch == '/' {
			return p, rcContinue
		}
	}

	return p, ps.fail(ErrMalformedRequestLine)
}

// parseFieldName scans a header name, accumulating the lowercased packed
// key as it goes. An empty line instead of a name ends the header block.
func (ps *ParseState) parseFieldName(buf []byte, pos int) (int, result) {
	p := pos

	i, ok := scanFieldName(&ps.fieldNameKey, buf, p, ps.offset)
	if !ok {
		ps.offset = i
		return pos, rcAgain
	}

	if buf[p+i] == ':' {
		if i == 0 {
			return pos, ps.fail(ErrMalformedHeader)
		}

		ps.FieldName = Span{Start: p, Len: i}
		ps.offset = 0
		ps.phase = phaseFieldValue

		return p + i + 1, rcContinue
	}

	ps.FieldName.Len = 0
	ps.phase = phaseFieldEnd

	return p + i, rcContinue
}

// parseFieldValue skips leading spaces, scans to the line terminator and
// records the value with trailing spaces trimmed. Any byte below 0x10
// other than CR or LF inside the value is an error; control bytes from
// 0x10 upward are kept as value bytes.
func (ps *ParseState) parseFieldValue(buf []byte, pos int) (int, result) {
	p := pos

	for {
		if p == len(buf) {
			return p, rcAgain
		}
		if buf[p] != ' ' {
			break
		}
		p++
	}

	start := p
	p += ps.offset

	p = lookupFieldEnd(buf, p)

	if p == len(buf) {
		ps.offset = p - start
		return start, rcAgain
	}

	if buf[p] != '\r' && buf[p] != '\n' {
		return start, ps.fail(ErrMalformedHeader)
	}

	end := p

	if p != start {
		for buf[p-1] == ' ' {
			p--
		}
	}

	ps.offset = 0
	ps.FieldValue = Span{Start: start, Len: p - start}
	ps.phase = phaseFieldEnd

	return end, rcContinue
}

// parseFieldEnd accepts "\r\n" or a bare "\n", dispatches the recorded
// header through the fields hash, and either re-enters the name phase or
// reports the head complete when the line was empty.
func (ps *ParseState) parseFieldEnd(buf []byte, pos int) (int, result) {
	p := pos

	if p == len(buf) {
		return pos, rcAgain
	}

	if buf[p] == '\r' {
		p++

		if p == len(buf) {
			return pos, rcAgain
		}
	}

	if buf[p] != '\n' {
		return pos, ps.fail(ErrMalformedHeader)
	}

	p++

	if ps.FieldName.Len != 0 {
		if entry := ps.hash.lookup(&ps.fieldNameKey, ps.FieldName.Len); entry != nil {
			err := entry.handler(ps.ctx, ps.FieldName.Bytes(buf), ps.FieldValue.Bytes(buf), entry.data)
			if err != nil {
				ps.err = err
				return p, rcErr
			}
		}

		ps.fieldNameKey = [MaxKeyedNameLength]byte{}
		ps.phase = phaseFieldName

		return p, rcContinue
	}

	return p, rcDone
}
