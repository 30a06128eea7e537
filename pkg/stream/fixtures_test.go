package stream

// Test doubles shared by the selector, composer and opener tests: an
// in-memory protocol plugin and real gzip/zstd codec plugins. Codec
// implementations stay out of the library proper, so the tests carry
// their own.

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/url"
	"os"
	"sync"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/stretchr/testify/require"

	"github.com/platinummonkey/openany/pkg/iomode"
	"github.com/platinummonkey/openany/pkg/plugins"
)

// memProtocol serves an in-memory file map keyed by host+path.
type memProtocol struct {
	mu    sync.Mutex
	files map[string][]byte
	excl  bool
}

func newMemProtocol(excl bool) *memProtocol {
	return &memProtocol{files: make(map[string][]byte), excl: excl}
}

func (p *memProtocol) put(key string, data []byte) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.files[key] = data
}

func (p *memProtocol) SupportsRead(string) bool            { return true }
func (p *memProtocol) SupportsWrite(string) bool           { return true }
func (p *memProtocol) SupportsCreate(string) bool          { return true }
func (p *memProtocol) SupportsExclusiveCreate(string) bool { return p.excl }

func (p *memProtocol) OpenBinaryStream(_ context.Context, u *url.URL, mode iomode.Mode, _ *plugins.OpenOptions) (plugins.RawStream, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	key := u.Host + u.Path
	data, exists := p.files[key]

	if mode.IsExclusive() && exists {
		return nil, &plugins.ResourceError{URI: u.String(), Err: os.ErrExist}
	}
	if !mode.CanWrite() {
		if !exists {
			return nil, &plugins.ResourceError{URI: u.String(), Err: os.ErrNotExist}
		}
		return &memReadStream{Reader: bytes.NewReader(data)}, nil
	}
	return &memWriteStream{p: p, key: key}, nil
}

// memReadStream is seekable so codec detection can restore position.
type memReadStream struct {
	*bytes.Reader
}

func (s *memReadStream) Write([]byte) (int, error) { return 0, errors.New("read-only stream") }
func (s *memReadStream) Close() error              { return nil }

type memWriteStream struct {
	p   *memProtocol
	key string
	buf bytes.Buffer
}

func (s *memWriteStream) Read([]byte) (int, error) { return 0, errors.New("write-only stream") }

func (s *memWriteStream) Write(b []byte) (int, error) { return s.buf.Write(b) }

func (s *memWriteStream) Close() error {
	s.p.put(s.key, s.buf.Bytes())
	return nil
}

type gzipCodec struct{}

func (gzipCodec) Detect(_ *url.URL, r io.Reader) bool {
	var magic [2]byte
	n, _ := io.ReadFull(r, magic[:])
	return n == 2 && magic[0] == 0x1f && magic[1] == 0x8b
}

func (gzipCodec) Extensions() []string { return []string{"gz"} }

func (gzipCodec) WrapReader(r io.Reader) (io.ReadCloser, error) {
	zr, err := gzip.NewReader(r)
	if err != nil {
		return nil, err
	}
	return zr, nil
}

func (gzipCodec) WrapWriter(w io.Writer) (io.WriteCloser, error) {
	return gzip.NewWriter(w), nil
}

type zstdCodec struct{}

func (zstdCodec) Detect(_ *url.URL, r io.Reader) bool {
	var magic [4]byte
	n, _ := io.ReadFull(r, magic[:])
	return n == 4 && magic[0] == 0x28 && magic[1] == 0xb5 && magic[2] == 0x2f && magic[3] == 0xfd
}

func (zstdCodec) Extensions() []string { return []string{"zst"} }

func (zstdCodec) WrapReader(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return dec.IOReadCloser(), nil
}

func (zstdCodec) WrapWriter(w io.Writer) (io.WriteCloser, error) {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return nil, err
	}
	return enc, nil
}

func gzipBytes(t *testing.T, payload []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	zw := gzip.NewWriter(&buf)
	_, err := zw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

func zstdBytes(t *testing.T, payload []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	enc, err := zstd.NewWriter(&buf)
	require.NoError(t, err)
	_, err = enc.Write(payload)
	require.NoError(t, err)
	require.NoError(t, enc.Close())
	return buf.Bytes()
}

func gunzipBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	zr, err := gzip.NewReader(bytes.NewReader(data))
	require.NoError(t, err)
	out, err := io.ReadAll(zr)
	require.NoError(t, err)
	require.NoError(t, zr.Close())
	return out
}

// codecRegistry builds a compression registry with the given codecs
// registered under their first extension.
func codecRegistry(codecs ...plugins.CompressionPlugin) *plugins.CompressionRegistry {
	source := plugins.NewRegistrationSource()
	for _, c := range codecs {
		c := c
		source.MustRegister(plugins.Descriptor{
			Name: c.Extensions()[0],
			Kind: plugins.KindCompression,
			New:  func() any { return c },
		})
	}
	return plugins.NewCompressionRegistry(plugins.NewLoader(source, nil))
}
