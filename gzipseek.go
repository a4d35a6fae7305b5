package mzdata

import (
	"compress/gzip"
	"fmt"
	"io"

	"github.com/msspeclib/mzdata/mzerr"
)

// SeekableGzip wraps a gzip member read from an underlying io.ReadSeeker,
// exposing Read + Seek to its caller (SPEC_FULL.md §4.7 "Restartable gzip
// decoder"). Forward seeks decode and discard bytes; backward seeks reset
// the decoder to the source's start and replay forward to the requested
// position, since gzip streams cannot be decoded backward. Seeks relative
// to the stream end are not supported (the uncompressed length isn't known
// without decoding the whole stream) and fail with ErrUnseekable.
//
// Grounded on the teacher's buffered, forward-only TEXT/DATA segment
// reads, generalized here to also support the backward-seek case a
// real gzip member can't do natively — the stdlib compress/gzip reader
// is forward-only, so "seek backward" is implemented as "start over and
// fast-forward".
type SeekableGzip struct {
	src    io.ReadSeeker
	gz     *gzip.Reader
	offset int64 // current position in the decompressed stream
}

// NewSeekableGzip opens a gzip member at src's current position (which
// must be the start of the member).
func NewSeekableGzip(src io.ReadSeeker) (*SeekableGzip, error) {
	gz, err := gzip.NewReader(src)
	if err != nil {
		return nil, fmt.Errorf("mzdata: opening gzip stream: %w", err)
	}
	return &SeekableGzip{src: src, gz: gz}, nil
}

func (s *SeekableGzip) Read(p []byte) (int, error) {
	n, err := s.gz.Read(p)
	s.offset += int64(n)
	return n, err
}

// Seek supports io.SeekStart and io.SeekCurrent with a non-negative
// target offset; io.SeekEnd is rejected with ErrUnseekable since the
// decompressed length is unknown without a full decode.
func (s *SeekableGzip) Seek(offset int64, whence int) (int64, error) {
	var target int64
	switch whence {
	case io.SeekStart:
		target = offset
	case io.SeekCurrent:
		target = s.offset + offset
	case io.SeekEnd:
		return 0, fmt.Errorf("%w: gzip seek relative to end", mzerr.ErrUnseekable)
	default:
		return 0, fmt.Errorf("%w: invalid whence %d", mzerr.ErrUnseekable, whence)
	}
	if target < 0 {
		return 0, fmt.Errorf("%w: negative seek target %d", mzerr.ErrUnseekable, target)
	}

	if target < s.offset {
		if err := s.restart(); err != nil {
			return 0, err
		}
	}
	if err := s.discard(target - s.offset); err != nil {
		return 0, err
	}
	return s.offset, nil
}

func (s *SeekableGzip) restart() error {
	if _, err := s.src.Seek(0, io.SeekStart); err != nil {
		return err
	}
	gz, err := gzip.NewReader(s.src)
	if err != nil {
		return fmt.Errorf("mzdata: restarting gzip stream: %w", err)
	}
	s.gz = gz
	s.offset = 0
	return nil
}

func (s *SeekableGzip) discard(n int64) error {
	if n <= 0 {
		return nil
	}
	_, err := io.CopyN(io.Discard, s, n)
	return err
}

// Close releases the underlying gzip reader.
func (s *SeekableGzip) Close() error { return s.gz.Close() }
