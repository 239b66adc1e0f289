package format

import (
	"fmt"
	"strings"
)

type (
	Version         uint8
	CompressionType uint8
)

const (
	// Magic is the 4-byte literal at offset 0 of every archive payload.
	Magic = "TICK"

	Version1 Version = 0x1 // Version1 is the 17-byte header + 24-byte row layout.

	// CurrentVersion is the version written by default.
	CurrentVersion = Version1
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 frame compression.
	CompressionGzip CompressionType = 0x5 // CompressionGzip represents gzip compression.
)

// IsSupported reports whether decoders in this module know how to interpret v.
func (v Version) IsSupported() bool {
	return v == Version1
}

func (v Version) String() string {
	return fmt.Sprintf("v%d", uint8(v))
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	case CompressionGzip:
		return "Gzip"
	default:
		return "Unknown"
	}
}

// MarshalText renders the codec name, as accepted by ParseCompression.
func (c CompressionType) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(c.String())), nil
}

// UnmarshalText parses a codec name with ParseCompression.
func (c *CompressionType) UnmarshalText(text []byte) error {
	v, err := ParseCompression(string(text))
	if err != nil {
		return err
	}
	*c = v

	return nil
}

// Extension returns the file suffix, without the leading dot, appended after ".bin".
// CompressionNone has no suffix.
func (c CompressionType) Extension() string {
	switch c {
	case CompressionZstd:
		return "zst"
	case CompressionS2:
		return "s2"
	case CompressionLZ4:
		return "lz4"
	case CompressionGzip:
		return "gz"
	default:
		return ""
	}
}

// ParseCompression parses a codec name as used in configuration and CLI flags.
func ParseCompression(name string) (CompressionType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "none", "raw":
		return CompressionNone, nil
	case "zstd", "zst":
		return CompressionZstd, nil
	case "s2":
		return CompressionS2, nil
	case "lz4":
		return CompressionLZ4, nil
	case "gzip", "gz":
		return CompressionGzip, nil
	default:
		return 0, fmt.Errorf("unknown compression: %q", name)
	}
}

// CompressionFromExtension maps a file suffix (with or without the dot) to its codec.
func CompressionFromExtension(ext string) (CompressionType, bool) {
	switch strings.TrimPrefix(strings.ToLower(ext), ".") {
	case "gz":
		return CompressionGzip, true
	case "zst":
		return CompressionZstd, true
	case "s2":
		return CompressionS2, true
	case "lz4":
		return CompressionLZ4, true
	case "bin":
		return CompressionNone, true
	default:
		return 0, false
	}
}
