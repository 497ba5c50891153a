package http1

import (
	"errors"
	"strings"
	"testing"
	"testing/iotest"
)

func TestFeederReadHead(t *testing.T) {
	input := "GET /a?x=1 HTTP/1.1\r\nHost: example.com\r\n\r\n"

	head := NewRequestHead()
	ps := NewParseState(StdFields(), head)
	f := NewFeeder(strings.NewReader(input))
	defer f.Release()

	buf, err := f.ReadHead(ps)
	if err != nil {
		t.Fatalf("ReadHead: %v", err)
	}

	if got := string(ps.Method.Bytes(buf)); got != "GET" {
		t.Errorf("method = %q, want %q", got, "GET")
	}
	if got := string(ps.Target(buf)); got != "/a?x=1" {
		t.Errorf("target = %q, want %q", got, "/a?x=1")
	}
	if string(head.Host) != "example.com" {
		t.Errorf("Host = %q, want %q", head.Host, "example.com")
	}
	if len(f.Rest()) != 0 {
		t.Errorf("Rest = %q, want empty", f.Rest())
	}
}

func TestFeederOneBytePerRead(t *testing.T) {
	input := "GET /drip HTTP/1.1\r\nHost: h\r\n\r\n"

	ps := NewParseState(StdFields(), NewRequestHead())
	f := NewFeeder(iotest.OneByteReader(strings.NewReader(input)))
	defer f.Release()

	buf, err := f.ReadHead(ps)
	if err != nil {
		t.Fatalf("ReadHead: %v", err)
	}
	if got := string(ps.Target(buf)); got != "/drip" {
		t.Errorf("target = %q, want %q", got, "/drip")
	}
}

func TestFeederPipelining(t *testing.T) {
	input := "GET /one HTTP/1.1\r\nHost: a\r\n\r\n" +
		"GET /two HTTP/1.1\r\nHost: b\r\n\r\n"

	f := NewFeeder(strings.NewReader(input))
	defer f.Release()

	first := NewRequestHead()
	ps := NewParseState(StdFields(), first)
	buf, err := f.ReadHead(ps)
	if err != nil {
		t.Fatalf("first ReadHead: %v", err)
	}
	if got := string(ps.Target(buf)); got != "/one" {
		t.Errorf("first target = %q, want %q", got, "/one")
	}

	// The second request is already buffered.
	if !strings.HasPrefix(string(f.Rest()), "GET /two") {
		t.Fatalf("Rest = %q, want the second request", f.Rest())
	}

	second := NewRequestHead()
	ps.Reset(StdFields(), second)
	buf, err = f.ReadHead(ps)
	if err != nil {
		t.Fatalf("second ReadHead: %v", err)
	}
	if got := string(ps.Target(buf)); got != "/two" {
		t.Errorf("second target = %q, want %q", got, "/two")
	}
	if string(second.Host) != "b" {
		t.Errorf("second Host = %q, want %q", second.Host, "b")
	}
	if len(f.Rest()) != 0 {
		t.Errorf("Rest = %q, want empty", f.Rest())
	}
}

func TestFeederBodyBytesStayBuffered(t *testing.T) {
	input := "POST /p HTTP/1.1\r\nContent-Length: 4\r\n\r\nBODY"

	head := NewRequestHead()
	ps := NewParseState(StdFields(), head)
	f := NewFeeder(strings.NewReader(input))
	defer f.Release()

	if _, err := f.ReadHead(ps); err != nil {
		t.Fatalf("ReadHead: %v", err)
	}
	if head.ContentLength != 4 {
		t.Errorf("ContentLength = %d, want 4", head.ContentLength)
	}
	if got := string(f.Rest()); got != "BODY" {
		t.Errorf("Rest = %q, want %q", got, "BODY")
	}
}

func TestFeederHeadTooLarge(t *testing.T) {
	input := "GET /" + strings.Repeat("a", 4096) + " HTTP/1.1\r\n\r\n"

	ps := NewParseState(nil, nil)
	f := NewFeeder(strings.NewReader(input))
	defer f.Release()
	f.MaxHeadSize = 1024

	_, err := f.ReadHead(ps)
	if !errors.Is(err, ErrHeadTooLarge) {
		t.Errorf("err = %v, want ErrHeadTooLarge", err)
	}
}

func TestFeederUnexpectedEOF(t *testing.T) {
	ps := NewParseState(nil, nil)
	f := NewFeeder(strings.NewReader("GET / HTTP/1.1\r\nHost: trunc"))
	defer f.Release()

	_, err := f.ReadHead(ps)
	if !errors.Is(err, ErrUnexpectedEOF) {
		t.Errorf("err = %v, want ErrUnexpectedEOF", err)
	}
}

func TestFeederMalformedHead(t *testing.T) {
	ps := NewParseState(nil, nil)
	f := NewFeeder(strings.NewReader("GET / HTX/1.1\r\n\r\n"))
	defer f.Release()

	_, err := f.ReadHead(ps)
	if !errors.Is(err, ErrMalformedRequestLine) {
		t.Errorf("err = %v, want ErrMalformedRequestLine", err)
	}
}

func TestFeederReset(t *testing.T) {
	f := NewFeeder(strings.NewReader("GET /a HTTP/1.1\r\n\r\n"))
	defer f.Release()

	ps := NewParseState(nil, nil)
	if _, err := f.ReadHead(ps); err != nil {
		t.Fatalf("ReadHead: %v", err)
	}

	f.Reset(strings.NewReader("GET /b HTTP/1.1\r\n\r\n"))
	ps.Reset(nil, nil)
	buf, err := f.ReadHead(ps)
	if err != nil {
		t.Fatalf("ReadHead after Reset: %v", err)
	}
	if got := string(ps.Target(buf)); got != "/b" {
		t.Errorf("target = %q, want %q", got, "/b")
	}
}
