// Package strbuf provides the growable byte buffer used as the
// frontend's non-blocking read buffer. It mirrors utils/strbuf.c's read-until-EAGAIN
// and skip-n-bytes operations on top of bytes.Buffer.
package strbuf

import (
	"bytes"
	"errors"
	"io"
)

// Buffer is a growable byte buffer. The zero value is ready to use.
type Buffer struct {
	buf bytes.Buffer
}

// New creates a Buffer with the given initial capacity hint.
func New(sizeHint int) *Buffer {
	b := &Buffer{}
	if sizeHint > 0 {
		b.buf.Grow(sizeHint)
	}
	return b
}

// ReadFrom reads from r in chunkSize increments until r returns an error
// (including io.EOF or a non-blocking "would block" condition reported
// via errors.Is against net.ErrClosed-style sentinels upstream) or a
// zero-length read. It returns the number of bytes appended to the
// buffer and, separately, whether EOF was reached.
//
// Callers on a non-blocking net.Conn should treat any error other than
// io.EOF as "no more data available right now" unless it indicates the
// connection is actually broken; this function does not interpret
// errors, it only stops looping on them.
func (b *Buffer) ReadFrom(r io.Reader, chunkSize int) (n int, eof bool, err error) {
	if chunkSize <= 0 {
		chunkSize = 1024
	}
	chunk := make([]byte, chunkSize)
	for {
		m, rerr := r.Read(chunk)
		if m > 0 {
			b.buf.Write(chunk[:m])
			n += m
		}
		if rerr != nil {
			if errors.Is(rerr, io.EOF) {
				return n, true, nil
			}
			return n, false, rerr
		}
		if m == 0 {
			return n, false, nil
		}
	}
}

// Len returns the number of unread bytes.
func (b *Buffer) Len() int {
	return b.buf.Len()
}

// Bytes returns the unread portion of the buffer. The slice is only
// valid until the next mutating call.
func (b *Buffer) Bytes() []byte {
	return b.buf.Bytes()
}

// Skip discards the first n bytes. Panics if n exceeds Len(), mirroring
// the original's assertion-style contract — callers must check Len()
// first.
func (b *Buffer) Skip(n int) {
	if n > b.buf.Len() {
		panic("strbuf: skip past end of buffer")
	}
	b.buf.Next(n)
}

// Write appends p to the buffer; used as a formatting sink.
func (b *Buffer) Write(p []byte) (int, error) {
	return b.buf.Write(p)
}

// WriteString appends s to the buffer.
func (b *Buffer) WriteString(s string) (int, error) {
	return b.buf.WriteString(s)
}

// String returns the unread portion of the buffer as a string.
func (b *Buffer) String() string {
	return b.buf.String()
}

// Reset discards all buffered data.
func (b *Buffer) Reset() {
	b.buf.Reset()
}
