package container

import (
	"fmt"
	"iter"
	"math"
	"time"

	"github.com/arloliu/tickarc/errs"
	"github.com/arloliu/tickarc/quant"
	"github.com/arloliu/tickarc/section"
	"github.com/arloliu/tickarc/tick"
)

// Decoder reads tick records from a validated archive payload.
//
// The decoder does not copy the payload; the caller must not modify it while the
// decoder is in use. Decoders are safe for concurrent reads.
type Decoder struct {
	data      []byte
	header    section.Header
	quantizer quant.Quantizer
	rowCount  int
}

// NewDecoder validates the payload header, its length and every row timestamp, and
// prepares lazy row access.
//
// Returns:
//   - errs.ErrFormat: bad magic, or a base or row timestamp outside the int64 range
//   - *errs.VersionError: unknown payload version
//   - *errs.TruncatedError: len(data) != 17 + 24*row_count
func NewDecoder(data []byte) (*Decoder, error) {
	header, err := section.ParseHeader(data)
	if err != nil {
		return nil, err
	}

	if expected := header.PayloadSize(); int64(len(data)) != expected {
		return nil, &errs.TruncatedError{Expected: expected, Actual: int64(len(data))}
	}

	if header.BaseTimestamp > math.MaxInt64 {
		return nil, fmt.Errorf("%w: base timestamp %d overflows int64", errs.ErrFormat, header.BaseTimestamp)
	}

	q, err := quant.ForVersion(header.Version)
	if err != nil {
		return nil, err
	}

	d := &Decoder{
		data:      data,
		header:    header,
		quantizer: q,
		rowCount:  int(header.RowCount),
	}
	if err := d.checkTimestamps(); err != nil {
		return nil, err
	}

	return d, nil
}

// Header returns the parsed payload header.
func (d *Decoder) Header() section.Header {
	return d.header
}

// Len returns the number of rows in the payload.
func (d *Decoder) Len() int {
	return d.rowCount
}

// Size returns the payload size in bytes.
func (d *Decoder) Size() int {
	return len(d.data)
}

// Quantizer returns the quantizer bound to the payload version.
func (d *Decoder) Quantizer() quant.Quantizer {
	return d.quantizer
}

// StartTime returns the base timestamp as a UTC time. The zero time is returned
// for an empty payload.
func (d *Decoder) StartTime() time.Time {
	if d.rowCount == 0 {
		return time.Time{}
	}

	return time.UnixMicro(int64(d.header.BaseTimestamp)).UTC() //nolint:gosec
}

// Row returns the raw, still quantized row i.
func (d *Decoder) Row(i int) (section.Row, bool) {
	if i < 0 || i >= d.rowCount {
		return section.Row{}, false
	}

	return section.RowAt(d.data, i), true
}

// At decodes row i.
func (d *Decoder) At(i int) (tick.Record, error) {
	row, ok := d.Row(i)
	if !ok {
		return tick.Record{}, fmt.Errorf("row %d out of range [0, %d)", i, d.rowCount)
	}

	return d.record(row), nil
}

// All returns an iterator over (row index, record) in stored order. Every row is
// yielded; NewDecoder has already rejected payloads with unrepresentable timestamps.
// The sequence is restartable.
func (d *Decoder) All() iter.Seq2[int, tick.Record] {
	return func(yield func(int, tick.Record) bool) {
		for i := range d.rowCount {
			if !yield(i, d.record(section.RowAt(d.data, i))) {
				return
			}
		}
	}
}

// Records decodes every row into a new slice.
func (d *Decoder) Records() []tick.Record {
	out := make([]tick.Record, 0, d.rowCount)
	for _, rec := range d.All() {
		out = append(out, rec)
	}

	return out
}

func (d *Decoder) checkTimestamps() error {
	base := int64(d.header.BaseTimestamp) //nolint:gosec
	for i := range d.rowCount {
		row := section.RowAt(d.data, i)
		if _, ok := addInt64(base, row.DeltaTime); !ok {
			return timestampOverflow(i, base, row.DeltaTime)
		}
	}

	return nil
}

func (d *Decoder) record(row section.Row) tick.Record {
	return tick.Record{
		Timestamp: int64(d.header.BaseTimestamp) + row.DeltaTime, //nolint:gosec
		BidPrice:  d.quantizer.DecodePrice(row.BidPrice),
		AskPrice:  d.quantizer.DecodePrice(row.AskPrice),
		BidSize:   d.quantizer.DecodeSize(row.BidSize),
		AskSize:   d.quantizer.DecodeSize(row.AskSize),
	}
}

func timestampOverflow(row int, base, delta int64) error {
	return fmt.Errorf("%w: row %d timestamp %d%+d overflows int64", errs.ErrFormat, row, base, delta)
}

// addInt64 returns a+b and whether it did not overflow.
func addInt64(a, b int64) (int64, bool) {
	s := a + b
	if (b > 0 && s < a) || (b < 0 && s > a) {
		return 0, false
	}

	return s, true
}
