// Package tickarc stores top-of-book quote sessions in a compact, fixed-point binary
// archive and reconstructs them within a known precision.
//
// # Format
//
// An archive payload is a 17-byte header followed by one 24-byte row per quote, all
// little-endian, compressed as a whole:
//
//	header: "TICK" | version u8 | row_count u32 | base_timestamp u64 (us)
//	row:    delta_time i64 | bid_price i32 | ask_price i32 | bid_size i32 | ask_size i32
//
// Prices keep 5 fractional digits and sizes keep 2 (see package quant). Timestamps are
// stored exactly as deltas from the first record.
//
// # Basic Usage
//
// Encoding a session to a payload and decoding it again:
//
//	payload, err := tickarc.Encode(records)
//	if err != nil {
//	    return err
//	}
//
//	decoder, err := tickarc.NewDecoder(payload)
//	if err != nil {
//	    return err
//	}
//	for i, rec := range decoder.All() {
//	    fmt.Println(i, rec.Timestamp, rec.BidPrice)
//	}
//
// Writing and reading archive files:
//
//	res, err := tickarc.WriteArchive(ctx, "sessions/", tick.Session{
//	    Symbol: "CMBM", Date: day, Records: records,
//	})
//	// res.Path == "sessions/CMBM-20251029.bin.gz"
//
//	a, err := tickarc.ReadArchive(res.Path)
//	records := a.Records()
//
// # Package Structure
//
// This package provides convenient top-level wrappers. For fine-grained control use:
//
//   - quant: fixed-point quantizer
//   - section: header and row layout
//   - container: payload encoder and decoder
//   - compress: whole-file codecs
//   - archive: file naming, atomic writes, read-back self-check
//   - csvio: MBP-1 CSV input and decoded CSV output
//   - batch: parallel encoding of many inputs
package tickarc

import (
	"context"

	"github.com/arloliu/tickarc/archive"
	"github.com/arloliu/tickarc/container"
	"github.com/arloliu/tickarc/tick"
)

// Encode serializes records, which must be sorted by timestamp, into an uncompressed
// payload using the current format version.
func Encode(records []tick.Record) ([]byte, error) {
	encoder, err := container.NewEncoder()
	if err != nil {
		return nil, err
	}

	return encoder.Encode(records)
}

// NewEncoder creates a payload encoder.
func NewEncoder(opts ...container.EncoderOption) (*container.Encoder, error) {
	return container.NewEncoder(opts...)
}

// NewDecoder validates an uncompressed payload and returns its decoder.
func NewDecoder(payload []byte) (*container.Decoder, error) {
	return container.NewDecoder(payload)
}

// Decode decodes every record of an uncompressed payload.
func Decode(payload []byte) ([]tick.Record, error) {
	decoder, err := container.NewDecoder(payload)
	if err != nil {
		return nil, err
	}

	return decoder.Records(), nil
}

// WriteArchive writes one session into dir with the default gzip codec and self-check.
// Use archive.NewWriter for other settings.
func WriteArchive(ctx context.Context, dir string, session tick.Session, opts ...archive.WriterOption) (*archive.WriteResult, error) {
	w, err := archive.NewWriter(dir, opts...)
	if err != nil {
		return nil, err
	}

	return w.Write(ctx, session)
}

// ReadArchive reads and validates an archive file.
func ReadArchive(path string) (*archive.Archive, error) {
	return archive.ReadFile(path)
}
