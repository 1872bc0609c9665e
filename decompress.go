package urdannot

import (
	"compress/bzip2"
	"compress/gzip"
	"compress/zlib"
	"io"
	"os"

	"github.com/krolaw/zipstream"
	"github.com/xi2/xz"
)

// Compression identifies the compression wrapper, if any, around a data
// stream. Expression matrices exported from analysis environments are
// usually gzipped, but we accept several common formats.
type Compression byte

const (
	CompressionInvalid Compression = iota
	CompressionNone
	CompressionGzip
	CompressionZip
	CompressionXZ
	CompressionZ
	CompressionBZip2
)

// Magic byte signatures via https://stackoverflow.com/a/19127748/199475
var compressionSigs = map[Compression][]byte{
	CompressionGzip:  {0x1f, 0x8b, 0x08},
	CompressionZip:   {0x50, 0x4b, 0x03, 0x04},
	CompressionXZ:    {0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00},
	CompressionZ:     {0x1f, 0x9d},
	CompressionBZip2: {0x42, 0x5a, 0x68},
}

// DetectCompression sniffs the leading bytes of r against the known
// signatures. It consumes up to 6 bytes from r.
func DetectCompression(r io.Reader) (Compression, error) {
	buff := make([]byte, 6)
	if _, err := io.ReadAtLeast(r, buff, len(buff)); err != nil {
		return CompressionInvalid, err
	}

Outer:
	for comp, sig := range compressionSigs {
		for i := range sig {
			if buff[i] != sig[i] {
				continue Outer
			}
		}
		return comp, nil
	}

	return CompressionNone, nil
}

// MaybeDecompressReadCloserFromFile wraps f in the appropriate decompressor
// based on its magic bytes, or returns f itself if no compression is
// recognized. The file offset is rewound before the decompressor is
// attached, so the caller always reads from the start of the stream.
func MaybeDecompressReadCloserFromFile(f *os.File) (io.ReadCloser, error) {
	comp, err := DetectCompression(f)
	if err != nil {
		return nil, err
	}

	if _, err := f.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}

	switch comp {
	case CompressionGzip:
		return gzip.NewReader(f)
	case CompressionZip:
		return &readCloserFaker{zipstream.NewReader(f)}, nil
	case CompressionBZip2:
		return &readCloserFaker{bzip2.NewReader(f)}, nil
	case CompressionXZ:
		reader, err := xz.NewReader(f, 0)
		if err != nil {
			return nil, err
		}
		return &readCloserFaker{reader}, nil
	case CompressionZ:
		return zlib.NewReader(f)
	}

	return &readCloserFaker{f}, nil
}

// readCloserFaker "upgrades" readers that don't need to be closed
type readCloserFaker struct {
	io.Reader
}

func (c *readCloserFaker) Close() error {
	return nil
}
