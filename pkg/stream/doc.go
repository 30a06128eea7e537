// Package stream turns a raw binary stream from a protocol plugin
// into the stream a caller asked for: it selects the compression
// codec implied by the URI's file extension and layers decompression,
// compression and text encoding around the raw bytes.
//
// Layering always composes outside-in as
//
//	text layer ⊃ compression layer ⊃ raw backend stream
//
// so compression operates on the true binary payload and text decoding
// happens last, on the logical (decompressed) bytes. Binary modes skip
// the text layer entirely.
//
// Opener is the composition root tying the pieces together:
//
//	opener := stream.NewOpener(protocols, codecs)
//	s, err := opener.Open(ctx, "s3://bucket/data.csv.gz", "r", nil)
//	if err != nil {
//		log.Fatal(err)
//	}
//	defer s.Close()
package stream
