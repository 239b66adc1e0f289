package archive

import (
	"bytes"
	"path/filepath"

	"github.com/arloliu/tickarc/format"
)

var (
	gzipMagic = []byte{0x1f, 0x8b}
	zstdMagic = []byte{0x28, 0xb5, 0x2f, 0xfd}
	lz4Magic  = []byte{0x04, 0x22, 0x4d, 0x18}
	s2Magic   = []byte{0xff, 0x06, 0x00, 0x00}
	rawMagic  = []byte(format.Magic)
)

// DetectCompression identifies the codec of an archive file.
//
// The content magic wins; when it is not recognized the extension of name is used.
// Unrecognized files are treated as uncompressed so that the payload decoder reports
// the format error.
func DetectCompression(name string, data []byte) format.CompressionType {
	switch {
	case bytes.HasPrefix(data, gzipMagic):
		return format.CompressionGzip
	case bytes.HasPrefix(data, zstdMagic):
		return format.CompressionZstd
	case bytes.HasPrefix(data, lz4Magic):
		return format.CompressionLZ4
	case bytes.HasPrefix(data, s2Magic):
		return format.CompressionS2
	case bytes.HasPrefix(data, rawMagic):
		return format.CompressionNone
	}

	if c, ok := format.CompressionFromExtension(filepath.Ext(name)); ok {
		return c
	}

	return format.CompressionNone
}
