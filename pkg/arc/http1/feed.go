package http1

import (
	"fmt"
	"io"
	"sync"

	"github.com/valyala/bytebufferpool"
)

// readBufPool provides pooled temporary buffers for draining the reader.
// This eliminates a 4KB allocation per fill.
var readBufPool = sync.Pool{
	New: func() interface{} {
		buf := make([]byte, 4096)
		return &buf
	},
}

// Feeder drives a resumable head parse over an io.Reader. It accumulates
// input into a pooled buffer, re-entering Parse after every read until
// the parser reports done or an error.
//
// The feeder reads in page-sized chunks, so it routinely reads past the
// end of the head; the surplus stays in the buffer and is available from
// Rest for body framing or the next pipelined request.
type Feeder struct {
	// MaxHeadSize bounds how many bytes one head may span before the
	// feeder gives up with ErrHeadTooLarge.
	MaxHeadSize int

	r   io.Reader
	buf *bytebufferpool.ByteBuffer
	pos int
}

// NewFeeder returns a Feeder over r with the default head-size limit.
//
// The feeder owns a pooled buffer; call Release when the connection is
// finished with it. Spans recorded by ReadHead resolve against Buffered.
func NewFeeder(r io.Reader) *Feeder {
	return &Feeder{
		MaxHeadSize: DefaultMaxHeadSize,
		r:           r,
		buf:         bytebufferpool.Get(),
	}
}

// Reset points the feeder at a new reader, dropping all buffered bytes
// but keeping the buffer's capacity.
func (f *Feeder) Reset(r io.Reader) {
	f.r = r
	f.buf.Reset()
	f.pos = 0
}

// Release returns the feeder's buffer to the pool. The feeder and every
// span resolved against its buffer are invalid afterwards.
func (f *Feeder) Release() {
	if f.buf != nil {
		bytebufferpool.Put(f.buf)
		f.buf = nil
	}
}

// Buffered returns the bytes accumulated so far. Spans recorded by the
// ParseState passed to ReadHead resolve against exactly this slice.
func (f *Feeder) Buffered() []byte {
	return f.buf.B
}

// Rest returns the bytes read beyond the last completed head: body bytes
// or the next pipelined request.
func (f *Feeder) Rest() []byte {
	return f.buf.B[f.pos:]
}

// ReadHead reads from the underlying reader until ps has consumed one
// complete request head, and returns the buffer the recorded spans
// resolve against. On error the parse is abandoned; the feeder must be
// Reset before reuse.
//
// A second ReadHead with a fresh ParseState continues at the first
// unconsumed byte, so pipelined requests parse without copying.
func (f *Feeder) ReadHead(ps *ParseState) ([]byte, error) {
	headStart := f.pos

	for {
		pos, st := ps.Parse(f.buf.B, f.pos)
		f.pos = pos

		switch st {
		case StatusDone:
			observeHead(outcomeDone, f.pos-headStart)
			return f.buf.B, nil

		case StatusError:
			observeHead(outcomeError, f.pos-headStart)
			return nil, ps.Err()
		}

		if len(f.buf.B)-headStart > f.MaxHeadSize {
			observeHead(outcomeError, len(f.buf.B)-headStart)
			return nil, ErrHeadTooLarge
		}

		if err := f.fill(); err != nil {
			observeHead(outcomeError, len(f.buf.B)-headStart)
			return nil, err
		}
	}
}

// fill reads one chunk from the reader into the head buffer. Reaching
// EOF mid-head is an error: ReadHead only calls fill while the parser
// still wants input.
func (f *Feeder) fill() error {
	bufPtr := readBufPool.Get().(*[]byte)
	tmp := *bufPtr

	n, err := f.r.Read(tmp)
	if n > 0 {
		f.buf.B = append(f.buf.B, tmp[:n]...)
	}
	readBufPool.Put(bufPtr)

	if err != nil {
		if err == io.EOF {
			if n > 0 {
				return nil
			}
			return ErrUnexpectedEOF
		}
		return fmt.Errorf("http1: read head: %w", err)
	}

	return nil
}
