package http1

// Target trap codes. The target scanner classifies every byte of the
// request target into one of these events; zero means "ordinary byte,
// keep scanning". targetAgain is never stored in the table — it is
// synthesized by the scanner itself when the remaining buffer is shorter
// than its lookahead window.
type targetTrap uint8

const (
	targetTrapNone  targetTrap = 0 // ordinary target byte
	targetTrapSpace targetTrap = 1 // end of target
	targetTrapHash  targetTrap = 2 // '#' fragment introducer
	targetTrapAgain targetTrap = 3 // insufficient lookahead (scanner-synthesized)
	targetTrapBad   targetTrap = 4 // \0, \r, \n
	targetTrapSlash targetTrap = 5 // segment boundary
	targetTrapDot   targetTrap = 6 // possible extension marker
	targetTrapArgs  targetTrap = 7 // '?' query-string introducer
	targetTrapQuote targetTrap = 8 // '%' percent-encoding
	targetTrapPlus  targetTrap = 9 // '+'
)

// targetChars classifies request-target bytes. All bytes not listed are
// ordinary (zero).
var targetChars = [256]byte{
	0x00: byte(targetTrapBad),
	'\n': byte(targetTrapBad),
	'\r': byte(targetTrapBad),
	' ':  byte(targetTrapSpace),
	'#':  byte(targetTrapHash),
	'%':  byte(targetTrapQuote),
	'+':  byte(targetTrapPlus),
	'.':  byte(targetTrapDot),
	'/':  byte(targetTrapSlash),
	'?':  byte(targetTrapArgs),
}

// fieldNameChars maps a header-name byte to its lowercased form, or to
// zero meaning "end of field name". Legal name bytes are letters, digits
// and '-'. Note that '_' maps to zero and therefore terminates a name;
// a header such as "Under_score: x" is rejected because the terminator
// is not a colon.
var fieldNameChars = func() (t [256]byte) {
	for c := byte('a'); c <= 'z'; c++ {
		t[c] = c
	}
	for c := byte('A'); c <= 'Z'; c++ {
		t[c] = c + 0x20
	}
	for c := byte('0'); c <= '9'; c++ {
		t[c] = c
	}
	t['-'] = '-'
	return
}()
