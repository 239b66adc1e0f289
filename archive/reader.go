package archive

import (
	"fmt"
	"io"
	"os"

	"github.com/arloliu/tickarc/compress"
	"github.com/arloliu/tickarc/container"
	"github.com/arloliu/tickarc/errs"
	"github.com/arloliu/tickarc/format"
	"github.com/arloliu/tickarc/internal/hash"
	"github.com/arloliu/tickarc/section"
	"github.com/arloliu/tickarc/tick"
)

// Archive is a fully decompressed and validated archive file.
type Archive struct {
	// Path is the file the archive was read from; empty for in-memory reads.
	Path        string
	Compression format.CompressionType
	// CompressedSize is the on-disk size in bytes.
	CompressedSize int64

	payload []byte
	decoder *container.Decoder
}

// ReadFile reads, decompresses and validates the archive at path.
func ReadFile(path string) (*Archive, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}

	a, err := Decode(path, data)
	if err != nil {
		return nil, err
	}
	a.Path = path

	return a, nil
}

// Read reads a whole archive from r. name is only used for codec detection.
func Read(r io.Reader, name string) (*Archive, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("read archive: %w", err)
	}

	return Decode(name, data)
}

// Decode decompresses and validates an in-memory archive file.
func Decode(name string, data []byte) (*Archive, error) {
	compression := DetectCompression(name, data)

	codec, err := compress.GetCodec(compression)
	if err != nil {
		return nil, err
	}

	payload, err := codec.Decompress(data)
	if err != nil {
		return nil, fmt.Errorf("%w: decompress %s archive: %w", errs.ErrFormat, compression, err)
	}

	decoder, err := container.NewDecoder(payload)
	if err != nil {
		return nil, err
	}

	return &Archive{
		Compression:    compression,
		CompressedSize: int64(len(data)),
		payload:        payload,
		decoder:        decoder,
	}, nil
}

// Decoder returns the payload decoder.
func (a *Archive) Decoder() *container.Decoder {
	return a.decoder
}

// Header returns the payload header.
func (a *Archive) Header() section.Header {
	return a.decoder.Header()
}

// Len returns the number of records.
func (a *Archive) Len() int {
	return a.decoder.Len()
}

// Payload returns the decompressed payload. The slice must not be modified.
func (a *Archive) Payload() []byte {
	return a.payload
}

// Digest returns the xxHash64 of the decompressed payload.
func (a *Archive) Digest() uint64 {
	return hash.Digest(a.payload)
}

// Records decodes every record.
func (a *Archive) Records() []tick.Record {
	return a.decoder.Records()
}

// Stats summarizes the archive sizes.
func (a *Archive) Stats() Stats {
	return Stats{
		Compression:    a.Compression,
		Rows:           a.decoder.Len(),
		ExpectedSize:   a.decoder.Header().PayloadSize(),
		RawSize:        int64(len(a.payload)),
		CompressedSize: a.CompressedSize,
	}
}

// Stats describes the sizes of one archive.
type Stats struct {
	Compression format.CompressionType `json:"compression"`
	Rows        int                    `json:"rows"`
	// ExpectedSize is 17 + 24*row_count.
	ExpectedSize   int64 `json:"expected_size"`
	RawSize        int64 `json:"raw_size"`
	CompressedSize int64 `json:"compressed_size"`
}

// SizeMatches reports whether the decompressed size equals the size implied by the header.
func (s Stats) SizeMatches() bool {
	return s.ExpectedSize == s.RawSize
}

// Ratio returns raw size / compressed size, or 0 for an empty file.
func (s Stats) Ratio() float64 {
	if s.CompressedSize == 0 {
		return 0
	}

	return float64(s.RawSize) / float64(s.CompressedSize)
}

// Percentage returns the compressed size as a percentage of the raw size.
func (s Stats) Percentage() float64 {
	if s.RawSize == 0 {
		return 0
	}

	return float64(s.CompressedSize) / float64(s.RawSize) * 100
}
