package stream

import (
	"errors"
	"fmt"
	"io"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"github.com/platinummonkey/openany/pkg/iomode"
	"github.com/platinummonkey/openany/pkg/plugins"
)

// ErrNotReadable is returned by Read on a stream opened without read
// permission; ErrNotWritable by Write on a stream opened read-only.
var (
	ErrNotReadable = errors.New("stream not opened for reading")
	ErrNotWritable = errors.New("stream not opened for writing")
)

// Compose layers the selected codec and, for text modes, an
// encode/decode transform around the raw binary stream. A nil codec
// leaves the payload bytes untouched; a nil enc defaults to UTF-8.
//
// The read side is wired raw → codec → text decoder and the write
// side text encoder → codec → raw, and only the sides the mode allows
// are built: codecs commonly read a header when wrapping a reader,
// which must not happen on a write-only stream.
func Compose(raw plugins.RawStream, mode iomode.Mode, codec plugins.CompressionPlugin, enc encoding.Encoding) (io.ReadWriteCloser, error) {
	if enc == nil {
		enc = unicode.UTF8
	}

	s := &layered{raw: raw}

	if mode.CanRead() {
		var r io.Reader = raw
		if codec != nil {
			rc, err := codec.WrapReader(r)
			if err != nil {
				return nil, fmt.Errorf("wrap reader: %w", err)
			}
			s.closers = append(s.closers, rc)
			r = rc
		}
		if mode.IsText() {
			r = transform.NewReader(r, enc.NewDecoder())
		}
		s.r = r
	}

	if mode.CanWrite() {
		var w io.Writer = raw
		if codec != nil {
			wc, err := codec.WrapWriter(w)
			if err != nil {
				return nil, fmt.Errorf("wrap writer: %w", err)
			}
			s.closers = append(s.closers, wc)
			w = wc
		}
		if mode.IsText() {
			tw := transform.NewWriter(w, enc.NewEncoder())
			s.closers = append(s.closers, tw)
			w = tw
		}
		s.w = w
	}

	return s, nil
}

// layered is the composed stream. closers holds the wrapping layers in
// construction order (inside-out); Close unwinds them outside-in so
// buffered layers flush into the layer beneath before it closes, with
// the raw stream last.
type layered struct {
	raw     plugins.RawStream
	r       io.Reader
	w       io.Writer
	closers []io.Closer
	closed  bool
}

func (s *layered) Read(p []byte) (int, error) {
	if s.r == nil {
		return 0, ErrNotReadable
	}
	return s.r.Read(p)
}

func (s *layered) Write(p []byte) (int, error) {
	if s.w == nil {
		return 0, ErrNotWritable
	}
	return s.w.Write(p)
}

func (s *layered) Close() error {
	if s.closed {
		return nil
	}
	s.closed = true

	var firstErr error
	for i := len(s.closers) - 1; i >= 0; i-- {
		if err := s.closers[i].Close(); err != nil && firstErr == nil {
			firstErr = err
		}
	}
	if err := s.raw.Close(); err != nil && firstErr == nil {
		firstErr = err
	}
	return firstErr
}
