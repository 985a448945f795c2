package stream

import (
	"errors"
	"io"
	"sync"
)

var errBodyClosed = errors.New("stream: body closed")

// Body produces a response payload as bounded chunks. The remaining
// byte counter, not source EOF, decides when the stream is complete,
// so a source that is larger than declared or grows mid-transfer
// never over-delivers.
type Body struct {
	src       io.Reader
	remaining int64
	chunkSize int

	buf []byte
	err error

	closeOnce sync.Once
	closeErr  error
}

func newBody(src io.Reader, length int64, chunkSize int) *Body {
	return &Body{src: src, remaining: length, chunkSize: chunkSize}
}

// Next returns the next chunk, valid only until the following call.
// It returns io.EOF once the declared length has been delivered or
// the source ran out early.
func (b *Body) Next() ([]byte, error) {
	if b.err != nil {
		return nil, b.err
	}
	if b.remaining <= 0 {
		b.err = io.EOF
		return nil, io.EOF
	}

	want := b.chunkSize
	if int64(want) > b.remaining {
		want = int(b.remaining)
	}
	if b.buf == nil {
		b.buf = make([]byte, b.chunkSize)
	}

	n, err := io.ReadFull(b.src, b.buf[:want])
	b.remaining -= int64(n)

	switch {
	case err == nil:
		return b.buf[:n], nil
	case errors.Is(err, io.ErrUnexpectedEOF) && n > 0:
		// Source ended before the declared length; deliver what came
		// back and finish on the next call.
		b.err = io.EOF
		return b.buf[:n], nil
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		b.err = io.EOF
		return nil, io.EOF
	default:
		b.err = err
		return nil, err
	}
}

// WriteTo drains the body into w, stopping at the first read or
// write failure. A failed write is how a client disconnect shows up.
func (b *Body) WriteTo(w io.Writer) (int64, error) {
	var written int64
	for {
		chunk, err := b.Next()
		if errors.Is(err, io.EOF) {
			return written, nil
		}
		if err != nil {
			return written, err
		}

		n, werr := w.Write(chunk)
		written += int64(n)
		if werr != nil {
			return written, werr
		}
	}
}

// Close releases the underlying source when it is an io.Closer. It
// is safe to call more than once and after Next returned io.EOF.
func (b *Body) Close() error {
	b.closeOnce.Do(func() {
		if b.err == nil {
			b.err = errBodyClosed
		}
		if closer, ok := b.src.(io.Closer); ok {
			b.closeErr = closer.Close()
		}
	})
	return b.closeErr
}
