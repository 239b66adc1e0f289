package archive

import (
	"errors"
	"fmt"
	"math"

	"github.com/arloliu/tickarc/errs"
	"github.com/arloliu/tickarc/quant"
	"github.com/arloliu/tickarc/tick"
)

// CheckReport is the outcome of reading an archive back after writing it.
type CheckReport struct {
	SampledRows int
	Violations  []*errs.ToleranceError
}

// OK reports whether every sampled value was within tolerance.
func (r *CheckReport) OK() bool {
	return len(r.Violations) == 0
}

// Err joins the violations, or returns nil.
func (r *CheckReport) Err() error {
	if r.OK() {
		return nil
	}

	list := make([]error, len(r.Violations))
	for i, v := range r.Violations {
		list[i] = v
	}

	return errors.Join(list...)
}

// Verify compares a decoded archive against the records it was written from.
//
// The payload digest must equal digest, else an errs.ErrFormat error is returned.
// Then sampleSize rows, evenly spread and including the first and last, are decoded
// and compared: timestamps must match exactly and every price and size must be within
// the quantizer tolerance. A negative sampleSize compares every row.
func Verify(a *Archive, digest uint64, records []tick.Record, sampleSize int) (*CheckReport, error) {
	if got := a.Digest(); got != digest {
		return nil, fmt.Errorf("%w: payload digest %016x, wrote %016x", errs.ErrFormat, got, digest)
	}

	dec := a.Decoder()
	if dec.Len() != len(records) {
		return nil, fmt.Errorf("%w: archive has %d rows, wrote %d", errs.ErrFormat, dec.Len(), len(records))
	}

	q := dec.Quantizer()
	report := &CheckReport{}
	for _, i := range sampleIndices(len(records), sampleSize) {
		got, err := dec.At(i)
		if err != nil {
			return nil, err
		}
		report.SampledRows++
		report.Violations = append(report.Violations, compareRecord(q, i, records[i], got)...)
	}

	return report, nil
}

func compareRecord(q quant.Quantizer, row int, want, got tick.Record) []*errs.ToleranceError {
	var out []*errs.ToleranceError

	if want.Timestamp != got.Timestamp {
		out = append(out, &errs.ToleranceError{
			Row: row, Field: "timestamp",
			Original: float64(want.Timestamp), Decoded: float64(got.Timestamp),
		})
	}

	fields := [...]struct {
		name      string
		want, got float64
		bound     float64
	}{
		{"bid_price", want.BidPrice, got.BidPrice, q.PriceTolerance()},
		{"ask_price", want.AskPrice, got.AskPrice, q.PriceTolerance()},
		{"bid_size", want.BidSize, got.BidSize, q.SizeTolerance()},
		{"ask_size", want.AskSize, got.AskSize, q.SizeTolerance()},
	}
	for _, f := range fields {
		if !withinBound(f.want, f.got, f.bound) {
			out = append(out, &errs.ToleranceError{
				Row: row, Field: f.name, Original: f.want, Decoded: f.got, Bound: f.bound,
			})
		}
	}

	return out
}

// withinBound allows a few ulps of float64 noise on top of the quantization bound.
func withinBound(want, got, bound float64) bool {
	slack := 4 * math.Abs(want) * 0x1p-52

	return math.Abs(want-got) <= bound+slack
}

// sampleIndices returns k indices spread evenly over [0, n), including 0 and n-1.
func sampleIndices(n, k int) []int {
	if n == 0 || k == 0 {
		return nil
	}
	if k < 0 || k >= n {
		idx := make([]int, n)
		for i := range idx {
			idx[i] = i
		}

		return idx
	}
	if k == 1 {
		return []int{0}
	}

	idx := make([]int, k)
	for i := range k {
		idx[i] = int(int64(i) * int64(n-1) / int64(k-1))
	}

	return idx
}
