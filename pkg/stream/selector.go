package stream

import (
	"errors"
	"io"
	"net/url"
	"path"
	"strings"

	"github.com/platinummonkey/openany/pkg/plugins"
)

// SelectCodec resolves the compression plugin to use for a URI. The
// file extension of the final path element is looked up as a plugin
// name in the compression registry; a URI without an extension, or
// with an extension no codec is registered for, selects no codec at
// all — (nil, nil) is the normal "not compressed" outcome, not a
// failure.
//
// When r is non-nil the candidate codec confirms itself via Detect
// (magic-number sniffing). The read position is captured before the
// call and restored on every exit path when r supports seeking;
// non-seekable streams get a best-effort check with no restoration.
func SelectCodec(u *url.URL, r io.Reader, reg *plugins.CompressionRegistry) (plugins.CompressionPlugin, error) {
	ext := pathExtension(u)
	if ext == "" {
		return nil, nil
	}

	codec, err := reg.Get(ext)
	if err != nil {
		var missing *plugins.NoSuchPluginError
		if errors.As(err, &missing) {
			return nil, nil
		}
		return nil, err
	}

	if r != nil && !detect(codec, u, r) {
		return nil, nil
	}
	return codec, nil
}

// pathExtension returns the text after the last "." of the final path
// element, without the dot. Dotless names, dotfiles like ".bashrc" and
// names with a trailing dot have no extension.
func pathExtension(u *url.URL) string {
	base := path.Base(u.Path)
	idx := strings.LastIndex(base, ".")
	if idx <= 0 {
		return ""
	}
	return base[idx+1:]
}

// detect invokes codec.Detect with the read position restored
// afterwards, whether Detect returns or panics. Streams that cannot
// report their position are checked best-effort and left wherever
// Detect moved them.
func detect(codec plugins.CompressionPlugin, u *url.URL, r io.Reader) bool {
	seeker, ok := r.(io.Seeker)
	if !ok {
		return codec.Detect(u, r)
	}

	pos, err := seeker.Seek(0, io.SeekCurrent)
	if err != nil {
		return codec.Detect(u, r)
	}
	defer func() {
		_, _ = seeker.Seek(pos, io.SeekStart)
	}()

	return codec.Detect(u, r)
}
