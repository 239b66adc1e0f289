package container

import (
	"math"

	"github.com/arloliu/tickarc/errs"
	"github.com/arloliu/tickarc/format"
	"github.com/arloliu/tickarc/internal/options"
	"github.com/arloliu/tickarc/quant"
	"github.com/arloliu/tickarc/section"
	"github.com/arloliu/tickarc/tick"
)

// Encoder serializes sorted tick records into an archive payload.
//
// An Encoder holds only immutable configuration and is safe for concurrent use.
type Encoder struct {
	version   format.Version
	quantizer quant.Quantizer
}

// EncoderOption configures an Encoder.
type EncoderOption = options.Option[*Encoder]

// WithVersion selects the payload version to write. The quantizer is reset to the
// one bound to that version.
func WithVersion(v format.Version) EncoderOption {
	return options.New(func(e *Encoder) error {
		q, err := quant.ForVersion(v)
		if err != nil {
			return err
		}
		e.version = v
		e.quantizer = q

		return nil
	})
}

// NewEncoder creates an Encoder for the current format version.
func NewEncoder(opts ...EncoderOption) (*Encoder, error) {
	e := &Encoder{
		version:   format.CurrentVersion,
		quantizer: quant.Default(),
	}

	if err := options.Apply(e, opts...); err != nil {
		return nil, err
	}

	return e, nil
}

// Version returns the payload version written by the encoder.
func (e *Encoder) Version() format.Version {
	return e.version
}

// Quantizer returns the quantizer used for price and size fields.
func (e *Encoder) Quantizer() quant.Quantizer {
	return e.quantizer
}

// Encode serializes records into a newly allocated payload of exactly
// section.PayloadSize(len(records)) bytes. On error the returned payload is nil.
func (e *Encoder) Encode(records []tick.Record) ([]byte, error) {
	if uint64(len(records)) > math.MaxUint32 {
		return nil, &errs.RangeError{Field: "row_count", Row: -1, Value: len(records)}
	}

	out, err := e.AppendEncode(make([]byte, 0, section.PayloadSize(uint32(len(records)))), records)
	if err != nil {
		return nil, err
	}

	return out, nil
}

// AppendEncode serializes records and appends the payload to dst.
//
// Records must be in non-decreasing timestamp order; the encoder does not sort.
//
// Returns:
//   - errs.ErrUnsorted if a timestamp is lower than its predecessor
//   - *errs.RangeError if the row count, the base timestamp, a delta or a quantized
//     field does not fit its slot
//
// On error dst is returned unchanged.
func (e *Encoder) AppendEncode(dst []byte, records []tick.Record) ([]byte, error) {
	if uint64(len(records)) > math.MaxUint32 {
		return dst, &errs.RangeError{Field: "row_count", Row: -1, Value: len(records)}
	}

	var base int64
	if len(records) > 0 {
		base = records[0].Timestamp
		if base < 0 {
			return dst, &errs.RangeError{Field: "base_timestamp", Row: 0, Value: base}
		}
	}

	header := section.Header{
		Version:       e.version,
		RowCount:      uint32(len(records)), //nolint:gosec
		BaseTimestamp: uint64(base),
	}

	start := len(dst)
	out := header.AppendTo(dst)

	prev := base
	for i, rec := range records {
		if rec.Timestamp < prev {
			return dst[:start], &unsortedError{row: i, prev: prev, cur: rec.Timestamp}
		}
		prev = rec.Timestamp

		row, err := e.quantizeRow(i, rec, base)
		if err != nil {
			return dst[:start], err
		}
		out = row.AppendTo(out)
	}

	return out, nil
}

func (e *Encoder) quantizeRow(i int, rec tick.Record, base int64) (section.Row, error) {
	delta, ok := subInt64(rec.Timestamp, base)
	if !ok {
		return section.Row{}, &errs.RangeError{Field: "delta_time", Row: i, Value: rec.Timestamp}
	}

	var (
		row = section.Row{DeltaTime: delta}
		err error
	)

	if row.BidPrice, err = e.quantizer.EncodePrice(rec.BidPrice); err != nil {
		return section.Row{}, rowRangeError(err, i, "bid_price")
	}
	if row.AskPrice, err = e.quantizer.EncodePrice(rec.AskPrice); err != nil {
		return section.Row{}, rowRangeError(err, i, "ask_price")
	}
	if row.BidSize, err = e.quantizer.EncodeSize(rec.BidSize); err != nil {
		return section.Row{}, rowRangeError(err, i, "bid_size")
	}
	if row.AskSize, err = e.quantizer.EncodeSize(rec.AskSize); err != nil {
		return section.Row{}, rowRangeError(err, i, "ask_size")
	}

	return row, nil
}

// rowRangeError attaches the row index and field name to a quantizer range error.
func rowRangeError(err error, row int, field string) error {
	if re, ok := err.(*errs.RangeError); ok { //nolint:errorlint
		return &errs.RangeError{Field: field, Row: row, Value: re.Value}
	}

	return err
}

// subInt64 returns a-b and whether it did not overflow.
func subInt64(a, b int64) (int64, bool) {
	d := a - b
	if (b > 0 && d > a) || (b < 0 && d < a) {
		return 0, false
	}

	return d, true
}
