// Package quant converts real-valued prices and sizes to fixed-point integers and back.
//
// A Quantizer is an immutable pair of scale factors. Archive format versions bind to a
// specific Quantizer (see ForVersion), so changing precision always means a new version
// rather than a new global setting.
//
// # Rounding
//
// Encoding rounds half away from zero, applied to the shortest decimal representation
// of the input float. 101.234995 therefore encodes to 10123500 at scale 100000 even
// though its binary float64 value is slightly below the decimal literal. Inputs with at
// most log10(scale) fractional digits round-trip exactly through Decode; any other
// input is reconstructed within 0.5/scale.
package quant

import (
	"fmt"
	"math"

	"github.com/shopspring/decimal"

	"github.com/arloliu/tickarc/errs"
	"github.com/arloliu/tickarc/format"
)

// Scale is a positive power of ten used as a fixed-point multiplier.
type Scale int64

const (
	PriceScale Scale = 100_000 // 5 fractional digits
	SizeScale  Scale = 100     // 2 fractional digits
)

var (
	maxInt32 = decimal.NewFromInt(math.MaxInt32)
	minInt32 = decimal.NewFromInt(math.MinInt32)
)

// versionScales holds the price and size scales of every known format version.
var versionScales = map[format.Version][2]Scale{
	format.Version1: {PriceScale, SizeScale},
}

// Quantizer holds the price and size scales of one format version.
type Quantizer struct {
	priceScale  Scale
	sizeScale   Scale
	priceDigits int32
	sizeDigits  int32
}

// New creates a Quantizer. Both scales must be positive powers of ten.
func New(priceScale, sizeScale Scale) (Quantizer, error) {
	pd, ok := scaleDigits(priceScale)
	if !ok {
		return Quantizer{}, fmt.Errorf("%w: price scale %d", errs.ErrInvalidScale, priceScale)
	}

	sd, ok := scaleDigits(sizeScale)
	if !ok {
		return Quantizer{}, fmt.Errorf("%w: size scale %d", errs.ErrInvalidScale, sizeScale)
	}

	return Quantizer{
		priceScale:  priceScale,
		sizeScale:   sizeScale,
		priceDigits: pd,
		sizeDigits:  sd,
	}, nil
}

// Default returns the version 1 quantizer (PriceScale, SizeScale).
func Default() Quantizer {
	return Quantizer{
		priceScale:  PriceScale,
		sizeScale:   SizeScale,
		priceDigits: 5,
		sizeDigits:  2,
	}
}

// ForVersion returns the quantizer bound to an archive format version.
func ForVersion(v format.Version) (Quantizer, error) {
	scales, ok := versionScales[v]
	if !ok {
		return Quantizer{}, &errs.VersionError{Version: uint8(v)}
	}

	return New(scales[0], scales[1])
}

// PriceScale returns the price multiplier.
func (q Quantizer) PriceScale() Scale { return q.priceScale }

// SizeScale returns the size multiplier.
func (q Quantizer) SizeScale() Scale { return q.sizeScale }

// PriceDigits returns the number of fractional price digits preserved.
func (q Quantizer) PriceDigits() int { return int(q.priceDigits) }

// SizeDigits returns the number of fractional size digits preserved.
func (q Quantizer) SizeDigits() int { return int(q.sizeDigits) }

// PriceTolerance returns the maximum reconstruction error of a price, 0.5/PriceScale.
func (q Quantizer) PriceTolerance() float64 { return 0.5 / float64(q.priceScale) }

// SizeTolerance returns the maximum reconstruction error of a size, 0.5/SizeScale.
func (q Quantizer) SizeTolerance() float64 { return 0.5 / float64(q.sizeScale) }

// EncodePrice returns round(x * PriceScale).
//
// Returns an *errs.RangeError when x is not finite or the result does not fit in int32.
func (q Quantizer) EncodePrice(x float64) (int32, error) {
	return quantize(x, q.priceDigits, "price")
}

// DecodePrice returns v / PriceScale.
func (q Quantizer) DecodePrice(v int32) float64 {
	return float64(v) / float64(q.priceScale)
}

// EncodeSize returns round(x * SizeScale).
//
// Returns an *errs.RangeError when x is not finite or the result does not fit in int32.
func (q Quantizer) EncodeSize(x float64) (int32, error) {
	return quantize(x, q.sizeDigits, "size")
}

// DecodeSize returns v / SizeScale.
func (q Quantizer) DecodeSize(v int32) float64 {
	return float64(v) / float64(q.sizeScale)
}

func quantize(x float64, digits int32, field string) (int32, error) {
	if math.IsNaN(x) || math.IsInf(x, 0) {
		return 0, &errs.RangeError{Field: field, Row: -1, Value: x}
	}

	// decimal.Round rounds half away from zero.
	d := decimal.NewFromFloat(x).Shift(digits).Round(0)
	if d.GreaterThan(maxInt32) || d.LessThan(minInt32) {
		return 0, &errs.RangeError{Field: field, Row: -1, Value: x}
	}

	return int32(d.IntPart()), nil //nolint:gosec
}

// scaleDigits returns log10(s) when s is a positive power of ten.
func scaleDigits(s Scale) (int32, bool) {
	if s <= 0 {
		return 0, false
	}

	var digits int32
	for s > 1 {
		if s%10 != 0 {
			return 0, false
		}
		s /= 10
		digits++
	}

	if digits > 9 {
		return 0, false
	}

	return digits, true
}
