package http1

// scanTarget advances p over ordinary target bytes and returns the trap
// classification of the first significant byte, without consuming it.
// It scans in runs of versionLookahead bytes and starts a run only while
// at least that many bytes remain ahead of p. When fewer remain, a NUL,
// CR or LF in the tail ahead of any space is returned as targetTrapBad,
// since no further input can make that target valid; otherwise it
// returns targetTrapAgain without consuming anything.
//
// Allocation behavior: 0 allocs/op
func scanTarget(buf []byte, p int) (int, targetTrap) {
	for {
		if len(buf)-p < versionLookahead {
			for q := p; q < len(buf); q++ {
				switch targetTrap(targetChars[buf[q]]) {
				case targetTrapSpace:
					return p, targetTrapAgain
				case targetTrapBad:
					return q, targetTrapBad
				}
			}
			return p, targetTrapAgain
		}

		for n := 0; n < versionLookahead; n++ {
			if trap := targetChars[buf[p]]; trap != 0 {
				return p, targetTrap(trap)
			}
			p++
		}
	}
}

// scanFieldName reads name bytes at buf[p+i], normalizing each through
// fieldNameChars and packing the lowercased form into the rotating
// 32-byte key at index i%32. It resumes from the offset i persisted by a
// previous call. ok is true when a terminator byte (anything the table
// maps to zero) was reached, with i left pointing at it; ok is false when
// the buffer ran out first, with i the resume offset to persist.
//
// Writing through the rotating key across resumes is safe because the key
// is zeroed only at header dispatch, and its lanes are authoritative only
// for names of length <= MaxKeyedNameLength.
//
// Allocation behavior: 0 allocs/op
func scanFieldName(key *[MaxKeyedNameLength]byte, buf []byte, p, i int) (int, bool) {
	n := len(buf) - p

	for n-i >= 8 {
		for step := 0; step < 8; step++ {
			c := fieldNameChars[buf[p+i]]
			if c == 0 {
				return i, true
			}
			key[i%MaxKeyedNameLength] = c
			i++
		}
	}

	for i != n {
		c := fieldNameChars[buf[p+i]]
		if c == 0 {
			return i, true
		}
		key[i%MaxKeyedNameLength] = c
		i++
	}

	return i, false
}

// lookupFieldEnd advances p while buf[p] >= 0x10 and returns the position
// of the stop byte, or len(buf) when the buffer was exhausted. The stop
// byte is a control byte; the caller decides which terminators are
// acceptable.
//
// Allocation behavior: 0 allocs/op
func lookupFieldEnd(buf []byte, p int) int {
	for n := (len(buf) - p) / 16; n != 0; n-- {
		for step := 0; step < 16; step++ {
			if buf[p] < 0x10 {
				return p
			}
			p++
		}
	}

	for p < len(buf) {
		if buf[p] < 0x10 {
			return p
		}
		p++
	}

	return p
}
