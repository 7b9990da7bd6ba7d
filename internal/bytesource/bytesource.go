// Package bytesource models the writer's single payload input, whether
// it comes from stdin or a file, behind one reading surface so the
// writer engine never branches on where the bytes came from.
package bytesource

import (
	"fmt"
	"io"
	"os"
)

// unbounded marks a Source created over stdin without an explicit -l
// length: it reads until a graceful EOF rather than a fixed byte count.
const unbounded = -1

// Source is a bounded (or stdin-unbounded) byte source. It is not safe
// for concurrent use; the writer reads it strictly sequentially.
type Source struct {
	r         io.Reader
	remaining int64 // unbounded if negative
}

// FromStdin builds a Source over os.Stdin. A length of 0 means
// unbounded: a zero-byte read terminates the payload rather than
// signaling an error.
func FromStdin(length int64) *Source {
	s := &Source{r: os.Stdin}
	if length > 0 {
		s.remaining = length
	} else {
		s.remaining = unbounded
	}
	return s
}

// FromFile builds a Source over f, seeking past skip bytes and bounding
// the read to length bytes (or to EOF if length is 0). It validates
// skip+length against the file's size up front, the same preflight
// original_source/imagewrite.c performs before ever touching the flash
// device.
func FromFile(f *os.File, skip, length int64) (*Source, error) {
	st, err := f.Stat()
	if err != nil {
		return nil, fmt.Errorf("bytesource: stat %s: %w", f.Name(), err)
	}
	if skip+length > st.Size() {
		return nil, fmt.Errorf("bytesource: input file %s is too small for skip=%d length=%d", f.Name(), skip, length)
	}
	size := length
	if size == 0 {
		size = st.Size() - skip
	}
	if skip > 0 {
		if _, err := f.Seek(skip, io.SeekStart); err != nil {
			return nil, fmt.Errorf("bytesource: seek %s: %w", f.Name(), err)
		}
	}
	return &Source{r: f, remaining: size}, nil
}

// Size reports the payload size, or -1 if unbounded (stdin without -l).
// It returns the same count as Remaining: before the first Read that is
// the total size the Source was constructed with, and it shrinks as
// bytes are read.
func (s *Source) Size() int64 {
	return s.remaining
}

// Unbounded reports whether this Source has no fixed length (stdin
// without an explicit -l).
func (s *Source) Unbounded() bool {
	return s.remaining == unbounded
}

// Remaining reports the number of payload bytes not yet read. Only
// meaningful when Unbounded is false.
func (s *Source) Remaining() int64 {
	return s.remaining
}

// Read fills dest with up to len(dest) bytes of payload, returning the
// number of bytes actually read. It implements
// original_source/imagewrite.c's data_read(): hitting end of input
// after some bytes returns those bytes without an error; a read that
// gets zero bytes before the payload is complete is graceful
// end-of-payload only when this Source is unbounded (stdin without -l)
// and an error otherwise.
func (s *Source) Read(dest []byte) (int, error) {
	if s.remaining == 0 {
		return 0, nil
	}
	want := int64(len(dest))
	if !s.Unbounded() && want > s.remaining {
		want = s.remaining
	}
	dest = dest[:want]

	var total int
	for total < len(dest) {
		n, err := s.r.Read(dest[total:])
		total += n
		if err != nil {
			if err == io.EOF && total == 0 {
				if s.Unbounded() {
					return 0, nil
				}
				return 0, fmt.Errorf("bytesource: unexpected end of input")
			}
			if err == io.EOF {
				break
			}
			return total, fmt.Errorf("bytesource: read input: %w", err)
		}
		if n == 0 && total < len(dest) {
			if s.Unbounded() {
				return total, nil
			}
			return total, fmt.Errorf("bytesource: read input: unexpected short read")
		}
	}
	if !s.Unbounded() {
		s.remaining -= int64(total)
	}
	return total, nil
}
