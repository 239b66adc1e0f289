package section

import (
	"fmt"

	"github.com/arloliu/tickarc/endian"
	"github.com/arloliu/tickarc/errs"
	"github.com/arloliu/tickarc/format"
)

// Header represents the fixed-size header at the start of an archive payload.
type Header struct {
	// Version is the payload layout version. byte offset 4
	Version format.Version
	// RowCount is the number of rows following the header. byte offset 5-8
	RowCount uint32
	// BaseTimestamp is the timestamp of row 0 in microseconds since epoch. byte offset 9-16
	BaseTimestamp uint64
}

// NewHeader creates a header for the current format version.
func NewHeader(rowCount uint32, baseTimestamp uint64) Header {
	return Header{
		Version:       format.CurrentVersion,
		RowCount:      rowCount,
		BaseTimestamp: baseTimestamp,
	}
}

// PayloadSize returns the exact payload size implied by RowCount.
func (h Header) PayloadSize() int64 {
	return PayloadSize(h.RowCount)
}

// AppendTo appends the 17-byte serialized header to dst.
func (h Header) AppendTo(dst []byte) []byte {
	engine := endian.GetLittleEndianEngine()

	dst = append(dst, format.Magic...)
	dst = append(dst, byte(h.Version))
	dst = engine.AppendUint32(dst, h.RowCount)
	dst = engine.AppendUint64(dst, h.BaseTimestamp)

	return dst
}

// Bytes serializes the header into a new 17-byte slice.
func (h Header) Bytes() []byte {
	return h.AppendTo(make([]byte, 0, HeaderSize))
}

// ParseHeader parses and validates the header at the start of data.
//
// Validation order is magic, then version, then header completeness:
//   - data that does not start with the magic literal: errs.ErrFormat
//   - a version this package cannot interpret: *errs.VersionError
//   - magic present but fewer than HeaderSize bytes: *errs.TruncatedError
//
// Only the first HeaderSize bytes are inspected; validating the row array length
// is left to the caller (see Header.PayloadSize).
func ParseHeader(data []byte) (Header, error) {
	if len(data) < MagicSize || string(data[:MagicSize]) != format.Magic {
		n := min(len(data), MagicSize)
		return Header{}, fmt.Errorf("%w: bad magic %q", errs.ErrFormat, data[:n])
	}

	if len(data) <= VersionOffset {
		return Header{}, &errs.TruncatedError{Expected: HeaderSize, Actual: int64(len(data))}
	}

	version := format.Version(data[VersionOffset])
	if !version.IsSupported() {
		return Header{}, &errs.VersionError{Version: uint8(version)}
	}

	if len(data) < HeaderSize {
		return Header{}, &errs.TruncatedError{Expected: HeaderSize, Actual: int64(len(data))}
	}

	engine := endian.GetLittleEndianEngine()

	return Header{
		Version:       version,
		RowCount:      engine.Uint32(data[RowCountOffset:BaseTimestampOffset]),
		BaseTimestamp: engine.Uint64(data[BaseTimestampOffset:HeaderSize]),
	}, nil
}
