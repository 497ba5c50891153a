package http1

// Standard request fields, dispatched into a RequestHead carried as the
// parse ctx. The set mirrors what a connection layer needs before it can
// frame the body: Host, Content-Length, Transfer-Encoding, Connection,
// Upgrade and Expect.

// Flag selectors for headFlagField, passed through the entry's data slot.
const (
	flagUpgrade uintptr = iota
	flagExpectContinue
)

var stdFieldsHash = func() *FieldsHash {
	h, err := NewFieldsHash([]FieldEntry{
		{Name: "Host", Handler: hostField},
		{Name: "Content-Length", Handler: contentLengthField},
		{Name: "Transfer-Encoding", Handler: transferEncodingField},
		{Name: "Connection", Handler: connectionField},
		{Name: "Upgrade", Handler: headFlagField, Data: flagUpgrade},
		{Name: "Expect", Handler: headFlagField, Data: flagExpectContinue},
	})
	if err != nil {
		panic(err)
	}
	return h
}()

// StdFields returns the shared lookup table for the standard request
// fields. It is read-only and safe to share across parses and
// goroutines; the ctx of each ParseState using it must be a
// *RequestHead.
func StdFields() *FieldsHash {
	return stdFieldsHash
}

func hostField(ctx any, name, value []byte, data uintptr) error {
	head := ctx.(*RequestHead)

	// A request with more than one Host is ambiguous about its
	// authority; reject rather than pick one.
	if head.hasHost {
		return ErrDuplicateHost
	}

	head.hasHost = true
	head.Host = value
	return nil
}

func contentLengthField(ctx any, name, value []byte, data uintptr) error {
	head := ctx.(*RequestHead)

	n, err := parseContentLength(value)
	if err != nil {
		return err
	}

	if head.hasContentLength {
		// Repeated Content-Length is tolerated only when every copy
		// agrees; differing values are a smuggling attempt.
		if head.ContentLength != n {
			return ErrDuplicateContentLength
		}
		return nil
	}

	head.hasContentLength = true
	head.ContentLength = n
	return nil
}

func transferEncodingField(ctx any, name, value []byte, data uintptr) error {
	head := ctx.(*RequestHead)

	head.hasTransferEncoding = true

	if containsToken(value, "chunked") {
		head.Chunked = true
	}
	return nil
}

func connectionField(ctx any, name, value []byte, data uintptr) error {
	head := ctx.(*RequestHead)

	if containsToken(value, "close") {
		head.Close = true
	}
	if containsToken(value, "keep-alive") {
		head.KeepAlive = true
	}
	return nil
}

func headFlagField(ctx any, name, value []byte, data uintptr) error {
	head := ctx.(*RequestHead)

	switch data {
	case flagUpgrade:
		head.Upgrade = true
		head.UpgradeProto = value
	case flagExpectContinue:
		if equalFold(value, "100-continue") {
			head.ExpectContinue = true
		}
	}
	return nil
}

// parseContentLength parses a Content-Length value: plain decimal digits
// only, no sign, no whitespace.
//
// Allocation behavior: 0 allocs/op
func parseContentLength(b []byte) (int64, error) {
	if len(b) == 0 {
		return -1, ErrInvalidContentLength
	}

	var n int64
	for _, c := range b {
		if c < '0' || c > '9' {
			return -1, ErrInvalidContentLength
		}
		n = n*10 + int64(c-'0')

		if n < 0 {
			return -1, ErrInvalidContentLength
		}
	}
	return n, nil
}

// containsToken reports whether the comma-separated list in value
// contains the given token, ASCII-case-insensitively. Optional spaces
// and tabs around list members are ignored.
//
// Allocation behavior: 0 allocs/op
func containsToken(value []byte, token string) bool {
	for len(value) > 0 {
		member := value

		for i := 0; i < len(value); i++ {
			if value[i] == ',' {
				member = value[:i]
				break
			}
		}

		value = value[len(member):]
		if len(value) > 0 {
			value = value[1:] // skip the comma
		}

		for len(member) > 0 && (member[0] == ' ' || member[0] == '\t') {
			member = member[1:]
		}
		for len(member) > 0 && (member[len(member)-1] == ' ' || member[len(member)-1] == '\t') {
			member = member[:len(member)-1]
		}

		if equalFold(member, token) {
			return true
		}
	}
	return false
}

// equalFold compares a byte slice against a lowercase token,
// ASCII-case-insensitively.
//
// Allocation behavior: 0 allocs/op
func equalFold(b []byte, token string) bool {
	if len(b) != len(token) {
		return false
	}
	for i := 0; i < len(b); i++ {
		c := b[i]
		if c >= 'A' && c <= 'Z' {
			c += 0x20
		}
		if c != token[i] {
			return false
		}
	}
	return true
}
