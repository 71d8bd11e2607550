package codec

import (
	"bytes"
	"compress/flate"
	"compress/gzip"
	"fmt"
	"io"

	"xmtpcore/internal/domain/interfaces"
	domaintypes "xmtpcore/internal/domain/types"
)

// Compress rewrites encoded.Content through the requested scheme and tags
// it in encoded.Compressed, so the opposite side's Decompress knows which
// reader to use. CompressionNone leaves encoded untouched.
func Compress(encoded domaintypes.EncodedContent, kind interfaces.CompressionKind) (domaintypes.EncodedContent, error) {
	switch kind {
	case interfaces.CompressionNone:
		return encoded, nil
	case interfaces.CompressionDeflate:
		var buf bytes.Buffer
		w, err := flate.NewWriter(&buf, flate.DefaultCompression)
		if err != nil {
			return domaintypes.EncodedContent{}, fmt.Errorf("codec: deflate writer: %w", err)
		}
		if _, err := w.Write(encoded.Content); err != nil {
			return domaintypes.EncodedContent{}, fmt.Errorf("codec: deflate write: %w", err)
		}
		if err := w.Close(); err != nil {
			return domaintypes.EncodedContent{}, fmt.Errorf("codec: deflate close: %w", err)
		}
		encoded.Content = buf.Bytes()
		encoded.Compressed = "deflate"
		return encoded, nil
	case interfaces.CompressionGzip:
		var buf bytes.Buffer
		w := gzip.NewWriter(&buf)
		if _, err := w.Write(encoded.Content); err != nil {
			return domaintypes.EncodedContent{}, fmt.Errorf("codec: gzip write: %w", err)
		}
		if err := w.Close(); err != nil {
			return domaintypes.EncodedContent{}, fmt.Errorf("codec: gzip close: %w", err)
		}
		encoded.Content = buf.Bytes()
		encoded.Compressed = "gzip"
		return encoded, nil
	default:
		return domaintypes.EncodedContent{}, fmt.Errorf("codec: unknown compression kind %d", kind)
	}
}

// Decompress inverts Compress based on encoded.Compressed, leaving
// untagged content untouched.
func Decompress(encoded domaintypes.EncodedContent) (domaintypes.EncodedContent, error) {
	switch encoded.Compressed {
	case "":
		return encoded, nil
	case "deflate":
		r := flate.NewReader(bytes.NewReader(encoded.Content))
		defer r.Close()
		out, err := io.ReadAll(r)
		if err != nil {
			return domaintypes.EncodedContent{}, fmt.Errorf("codec: inflate: %w", err)
		}
		encoded.Content = out
		encoded.Compressed = ""
		return encoded, nil
	case "gzip":
		r, err := gzip.NewReader(bytes.NewReader(encoded.Content))
		if err != nil {
			return domaintypes.EncodedContent{}, fmt.Errorf("codec: gzip reader: %w", err)
		}
		defer r.Close()
		out, err := io.ReadAll(r)
		if err != nil {
			return domaintypes.EncodedContent{}, fmt.Errorf("codec: gunzip: %w", err)
		}
		encoded.Content = out
		encoded.Compressed = ""
		return encoded, nil
	default:
		return domaintypes.EncodedContent{}, fmt.Errorf("codec: unknown compression tag %q", encoded.Compressed)
	}
}
