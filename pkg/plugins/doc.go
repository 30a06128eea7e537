// Package plugins provides the extensibility framework behind openany:
// capability interfaces for protocol handlers and compression codecs,
// plus discovery, deduplication, and thread-safe lookup of the
// implementations registered for each extension point.
//
// # Extension Points
//
// Two namespaces exist, one per extension point:
//
//	KindProtocol:    plugins that open a raw binary stream for a URI scheme
//	KindCompression: plugins that wrap/unwrap a compression codec
//
// ProtocolPlugin: opens raw binary streams
//
//	type ProtocolPlugin interface {
//		SupportsRead(protocol string) bool
//		SupportsWrite(protocol string) bool
//		SupportsCreate(protocol string) bool
//		SupportsExclusiveCreate(protocol string) bool
//		OpenBinaryStream(ctx context.Context, u *url.URL, mode iomode.Mode, opts *OpenOptions) (RawStream, error)
//	}
//
// CompressionPlugin: recognizes and wraps a codec
//
//	type CompressionPlugin interface {
//		Detect(u *url.URL, r io.Reader) bool
//		Extensions() []string
//		WrapReader(r io.Reader) (io.ReadCloser, error)
//		WrapWriter(w io.Writer) (io.WriteCloser, error)
//	}
//
// # Discovery
//
// A Source enumerates registered Descriptors for a namespace; the
// Loader runs one discovery pass over it, instantiating each plugin
// once and dropping later duplicates of an already-seen name (a
// ConflictRecord is logged, discovery continues). Enumeration order is
// implementation-defined; "first wins" makes the outcome deterministic
// for a fixed order.
//
// # Registry
//
// A Registry is a lazily-populated, mutex-guarded cache over the
// Loader, constructed once per extension point and passed explicitly
// to whatever needs lookup. Concurrent callers of Get, Has, List and
// Iterate observe either the previous snapshot or a fully-populated
// new one, never a partial map.
//
// # Usage Example
//
//	source := plugins.NewRegistrationSource()
//	source.MustRegister(plugins.Descriptor{
//		Name: "file",
//		Kind: plugins.KindProtocol,
//		New:  func() any { return &localPlugin{} },
//	})
//
//	loader := plugins.NewLoader(source, nil)
//	protocols := plugins.NewProtocolRegistry(loader)
//
//	p, err := protocols.Get("file")
//	if err != nil {
//		log.Fatal(err)
//	}
//
// # Related Packages
//
//   - pkg/iomode: mode strings handed to OpenBinaryStream
//   - pkg/stream: codec selection and stream composition over registries
package plugins
