package plugins

import (
	"context"
	"io"
	"net/url"

	"github.com/platinummonkey/openany/pkg/iomode"
)

// Kind names an extension point. It doubles as the namespace string
// that a Source is queried with.
type Kind string

const (
	// KindProtocol is the extension point for URI scheme handlers.
	KindProtocol Kind = "protocol"
	// KindCompression is the extension point for compression codecs.
	KindCompression Kind = "compression"
)

// RawStream is the binary stream a protocol plugin returns. Concrete
// backends may additionally implement io.Seeker; codec detection
// exploits that to restore the read position after sniffing.
type RawStream interface {
	io.ReadWriteCloser
}

// OpenOptions carries pass-through parameters for OpenBinaryStream.
type OpenOptions struct {
	// BufferSize is a buffering hint in bytes; values <= 0 mean the
	// plugin's default.
	BufferSize int

	// Extra holds implementation-specific options. Plugins ignore keys
	// they do not recognize.
	Extra map[string]any
}

// ProtocolPlugin is the contract a URI scheme handler implements.
//
// The Supports* methods answer capability queries for a protocol
// string; most implementations hard-code the answers. OpenBinaryStream
// fails with *UnsupportedOperationError when the mode requests an axis
// the plugin does not support for that protocol, and with
// *ResourceError for backend-level failures (not found, permission
// denied, ...). Callers distinguish the two with errors.As.
type ProtocolPlugin interface {
	SupportsRead(protocol string) bool
	SupportsWrite(protocol string) bool
	SupportsCreate(protocol string) bool
	SupportsExclusiveCreate(protocol string) bool

	OpenBinaryStream(ctx context.Context, u *url.URL, mode iomode.Mode, opts *OpenOptions) (RawStream, error)
}

// CompressionPlugin is the contract a compression codec implements.
//
// Detect reports whether the plugin recognizes the codec for the given
// URI and/or stream; the stream is provided solely for magic-number
// checks when the extension is not conclusive. Detect must not assume
// a particular read position on return: the caller captures and
// restores the position around the call where the stream supports it.
type CompressionPlugin interface {
	Detect(u *url.URL, r io.Reader) bool

	// Extensions returns the file extensions (without dot) this codec
	// handles, e.g. ["gz"].
	Extensions() []string

	// WrapReader layers decompression over r.
	WrapReader(r io.Reader) (io.ReadCloser, error)

	// WrapWriter layers compression over w.
	WrapWriter(w io.Writer) (io.WriteCloser, error)
}

// Descriptor identifies a registered plugin: a name, the extension
// point it belongs to, and a no-argument factory. Names are unique per
// Kind; duplicates are resolved at discovery time, not registration
// time.
type Descriptor struct {
	Name string
	Kind Kind
	New  func() any
}

// Source is the external enumeration mechanism plugins are discovered
// through. Enumerate yields the descriptors registered under the given
// namespace; the order is implementation-defined and callers must not
// rely on it beyond its stability within one registration history.
type Source interface {
	Enumerate(namespace Kind) []Descriptor
}
