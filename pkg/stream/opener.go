package stream

import (
	"context"
	"fmt"
	"io"
	"net/url"

	"github.com/sirupsen/logrus"
	"golang.org/x/text/encoding"

	"github.com/platinummonkey/openany/pkg/iomode"
	"github.com/platinummonkey/openany/pkg/plugins"
)

// DefaultScheme is assumed for URIs without a scheme, so plain paths
// open through the plugin registered for local files.
const DefaultScheme = "file"

// Opener is the composition root: it holds the registry for each
// extension point and runs the full open flow — parse the mode, find
// the protocol handler for the URI's scheme, check its capabilities,
// open the raw stream, select a codec, and compose the final stream.
type Opener struct {
	protocols *plugins.ProtocolRegistry
	codecs    *plugins.CompressionRegistry
	log       *logrus.Logger
	encoding  encoding.Encoding
}

// OpenerOption configures an Opener.
type OpenerOption func(*Opener)

// WithEncoding sets the character encoding used by the text layer.
// The default is UTF-8.
func WithEncoding(enc encoding.Encoding) OpenerOption {
	return func(o *Opener) {
		o.encoding = enc
	}
}

// WithLogger sets the logger used for open-flow debug events.
func WithLogger(log *logrus.Logger) OpenerOption {
	return func(o *Opener) {
		o.log = log
	}
}

// NewOpener creates an Opener over the two registries.
func NewOpener(protocols *plugins.ProtocolRegistry, codecs *plugins.CompressionRegistry, opts ...OpenerOption) *Opener {
	o := &Opener{
		protocols: protocols,
		codecs:    codecs,
		log:       logrus.New(),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Open opens the resource identified by rawURI with the given mode
// string. opts may be nil. The returned stream reflects the mode: a
// text-mode stream carries decoded text, a binary stream raw payload
// bytes; compression named by the URI's extension is transparent in
// both directions.
//
// Mode errors surface as *iomode.InvalidModeError, unknown schemes as
// *plugins.NoSuchPluginError, capability mismatches as
// *plugins.UnsupportedOperationError, and backend failures pass
// through as *plugins.ResourceError.
func (o *Opener) Open(ctx context.Context, rawURI, mode string, opts *plugins.OpenOptions) (io.ReadWriteCloser, error) {
	m, err := iomode.Parse(mode)
	if err != nil {
		return nil, err
	}

	u, err := url.Parse(rawURI)
	if err != nil {
		return nil, fmt.Errorf("parse uri %q: %w", rawURI, err)
	}
	scheme := u.Scheme
	if scheme == "" {
		scheme = DefaultScheme
	}

	handler, err := o.protocols.Get(scheme)
	if err != nil {
		return nil, err
	}
	if err := checkCapabilities(handler, scheme, m); err != nil {
		return nil, err
	}

	raw, err := handler.OpenBinaryStream(ctx, u, m, opts)
	if err != nil {
		return nil, err
	}

	// Sniffing is only meaningful on a readable stream; write-only
	// opens select by extension alone.
	var sniff io.Reader
	if m.CanRead() {
		sniff = raw
	}
	codec, err := SelectCodec(u, sniff, o.codecs)
	if err != nil {
		raw.Close()
		return nil, err
	}

	o.log.WithFields(logrus.Fields{
		"scheme":     scheme,
		"mode":       m.String(),
		"compressed": codec != nil,
	}).Debugf("opening %s", u.Redacted())

	composed, err := Compose(raw, m, codec, o.encoding)
	if err != nil {
		raw.Close()
		return nil, err
	}
	return composed, nil
}

// checkCapabilities verifies that every axis the mode requests is
// supported by the handler for this protocol.
func checkCapabilities(handler plugins.ProtocolPlugin, protocol string, m iomode.Mode) error {
	if m.CanRead() && !handler.SupportsRead(protocol) {
		return &plugins.UnsupportedOperationError{Protocol: protocol, Operation: "reading"}
	}
	if m.CanWrite() && !handler.SupportsWrite(protocol) {
		return &plugins.UnsupportedOperationError{Protocol: protocol, Operation: "writing"}
	}
	if m.IsCreate() && !handler.SupportsCreate(protocol) {
		return &plugins.UnsupportedOperationError{Protocol: protocol, Operation: "creating files"}
	}
	if m.IsExclusive() && !handler.SupportsExclusiveCreate(protocol) {
		return &plugins.UnsupportedOperationError{Protocol: protocol, Operation: "exclusive creation"}
	}
	return nil
}
