package snapshot

import (
	"bytes"
	"fmt"
	"io"

	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Compression selects the algorithm applied to snapshot documents.
type Compression string

const (
	// CompressionNone stores the document as-is.
	CompressionNone Compression = "none"
	// CompressionGzip uses the gzip frame format (interoperable with .idf.gz tooling).
	CompressionGzip Compression = "gzip"
	// CompressionLZ4 uses the LZ4 frame format (fast, lighter ratio).
	CompressionLZ4 Compression = "lz4"
	// CompressionZstd uses zstd (better ratio, good for cold snapshots).
	CompressionZstd Compression = "zstd"
)

// ErrUnknownCompression is returned for a compression name this build
// does not implement.
type ErrUnknownCompression struct {
	Compression Compression
}

func (e *ErrUnknownCompression) Error() string {
	return fmt.Sprintf("unknown compression %q", e.Compression)
}

// Shared zstd coders. EncodeAll/DecodeAll on these are safe for
// concurrent use.
var (
	zstdEncoder, _ = zstd.NewWriter(nil, zstd.WithEncoderLevel(zstd.SpeedDefault))
	zstdDecoder, _ = zstd.NewReader(nil)
)

// ext returns the filename suffix for the compression, "" for none.
func (c Compression) ext() string {
	switch c {
	case CompressionGzip:
		return ".gz"
	case CompressionLZ4:
		return ".lz4"
	case CompressionZstd:
		return ".zst"
	default:
		return ""
	}
}

func compress(data []byte, c Compression) ([]byte, error) {
	switch c {
	case CompressionNone:
		return data, nil
	case CompressionZstd:
		return zstdEncoder.EncodeAll(data, nil), nil
	case CompressionGzip, CompressionLZ4:
		var buf bytes.Buffer
		var w io.WriteCloser
		if c == CompressionGzip {
			w = gzip.NewWriter(&buf)
		} else {
			w = lz4.NewWriter(&buf)
		}
		if _, err := w.Write(data); err != nil {
			return nil, err
		}
		if err := w.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	default:
		return nil, &ErrUnknownCompression{Compression: c}
	}
}

func decompress(data []byte, c Compression) ([]byte, error) {
	switch c {
	case CompressionNone:
		return data, nil
	case CompressionZstd:
		return zstdDecoder.DecodeAll(data, nil)
	case CompressionGzip:
		r, err := gzip.NewReader(bytes.NewReader(data))
		if err != nil {
			return nil, err
		}
		defer func() { _ = r.Close() }()
		return io.ReadAll(r)
	case CompressionLZ4:
		return io.ReadAll(lz4.NewReader(bytes.NewReader(data)))
	default:
		return nil, &ErrUnknownCompression{Compression: c}
	}
}
