package tick

import (
	"cmp"
	"math"
	"slices"
)

// Value is a field that may be missing in the source data.
type Value struct {
	V     float64
	Valid bool
}

// Some returns a present value.
func Some(v float64) Value {
	return Value{V: v, Valid: true}
}

// Missing returns an absent value.
func Missing() Value {
	return Value{}
}

// ok reports whether the value is present and usable; NaN counts as missing.
func (v Value) ok() bool {
	return v.Valid && !math.IsNaN(v.V)
}

// RawRecord is a quote as read from a tabular source, before missing values are resolved.
type RawRecord struct {
	Timestamp int64
	BidPrice  Value
	AskPrice  Value
	BidSize   Value
	AskSize   Value
}

// FillPolicy holds the terminal defaults used when a column has no value at all.
type FillPolicy struct {
	PriceDefault float64
	SizeDefault  float64
}

// DefaultFillPolicy fills entirely empty columns with zero.
func DefaultFillPolicy() FillPolicy {
	return FillPolicy{}
}

// Fill resolves missing values column by column and returns complete records.
//
// Each column is forward-filled, then backward-filled, then any remaining gap (the
// column had no value at all) takes the policy default. Records keep their input
// order; sort them before filling so that "forward" means later in time.
func Fill(raw []RawRecord, policy FillPolicy) []Record {
	out := make([]Record, len(raw))
	for i, r := range raw {
		out[i].Timestamp = r.Timestamp
	}

	fillColumn(raw, func(r RawRecord) Value { return r.BidPrice }, policy.PriceDefault,
		func(i int, v float64) { out[i].BidPrice = v })
	fillColumn(raw, func(r RawRecord) Value { return r.AskPrice }, policy.PriceDefault,
		func(i int, v float64) { out[i].AskPrice = v })
	fillColumn(raw, func(r RawRecord) Value { return r.BidSize }, policy.SizeDefault,
		func(i int, v float64) { out[i].BidSize = v })
	fillColumn(raw, func(r RawRecord) Value { return r.AskSize }, policy.SizeDefault,
		func(i int, v float64) { out[i].AskSize = v })

	return out
}

// SortRaw sorts raw records ascending by timestamp in place, keeping ties in input order.
func SortRaw(raw []RawRecord) {
	slices.SortStableFunc(raw, func(a, b RawRecord) int {
		return cmp.Compare(a.Timestamp, b.Timestamp)
	})
}

func fillColumn(raw []RawRecord, get func(RawRecord) Value, def float64, set func(int, float64)) {
	firstValid := -1
	var last float64
	for i, r := range raw {
		v := get(r)
		if v.ok() {
			last = v.V
			if firstValid < 0 {
				firstValid = i
			}
			set(i, v.V)

			continue
		}
		if firstValid >= 0 {
			set(i, last)
		}
	}

	// backward fill the leading gap, or apply the default when nothing was valid
	lead, leadVal := len(raw), def
	if firstValid >= 0 {
		lead, leadVal = firstValid, get(raw[firstValid]).V
	}
	for i := range lead {
		set(i, leadVal)
	}
}
