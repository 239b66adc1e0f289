package quant

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/tickarc/errs"
	"github.com/arloliu/tickarc/format"
)

func TestNew(t *testing.T) {
	q, err := New(PriceScale, SizeScale)
	require.NoError(t, err)
	require.Equal(t, Default(), q)
	require.Equal(t, 5, q.PriceDigits())
	require.Equal(t, 2, q.SizeDigits())

	q, err = New(1, 1000)
	require.NoError(t, err)
	require.Equal(t, 0, q.PriceDigits())
	require.Equal(t, 3, q.SizeDigits())

	for _, bad := range []Scale{0, -10, 250, 99, 10_000_000_000} {
		_, err := New(bad, SizeScale)
		require.ErrorIs(t, err, errs.ErrInvalidScale, "scale %d", bad)

		_, err = New(PriceScale, bad)
		require.ErrorIs(t, err, errs.ErrInvalidScale, "scale %d", bad)
	}
}

func TestForVersion(t *testing.T) {
	q, err := ForVersion(format.Version1)
	require.NoError(t, err)
	require.Equal(t, PriceScale, q.PriceScale())
	require.Equal(t, SizeScale, q.SizeScale())
	require.Equal(t, Default(), q)

	q, err = ForVersion(format.CurrentVersion)
	require.NoError(t, err)
	require.Equal(t, 5, q.PriceDigits())

	_, err = ForVersion(format.Version(9))
	require.ErrorIs(t, err, errs.ErrUnsupportedVersion)
}

func TestEncodePrice(t *testing.T) {
	q := Default()

	tests := []struct {
		name string
		in   float64
		want int32
	}{
		{"zero", 0, 0},
		{"five digits", 101.234, 10123400},
		{"half rounds up", 101.234995, 10123500},
		{"below half rounds down", 101.2349949, 10123499},
		{"smallest half unit", 0.000005, 1},
		{"negative half away from zero", -0.000005, -1},
		{"max int32", 21474.83647, math.MaxInt32},
		{"min int32", -21474.83648, math.MinInt32},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := q.EncodePrice(tt.in)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}
}

func TestEncodePrice_ScenarioC(t *testing.T) {
	q := Default()

	v, err := q.EncodePrice(101.234995)
	require.NoError(t, err)
	require.Equal(t, int32(10123500), v)

	decoded := q.DecodePrice(v)
	require.Equal(t, 101.235, decoded)
	require.LessOrEqual(t, math.Abs(decoded-101.234995), 0.000005+1e-12)
}

func TestEncode_RangeErrors(t *testing.T) {
	q := Default()

	for _, in := range []float64{21474.83648, -21474.83649, 1e12, math.NaN(), math.Inf(1), math.Inf(-1)} {
		_, err := q.EncodePrice(in)
		require.ErrorIs(t, err, errs.ErrEncodingRange, "price %v", in)

		var re *errs.RangeError
		require.ErrorAs(t, err, &re)
		require.Equal(t, "price", re.Field)
	}

	_, err := q.EncodeSize(21474836.48)
	require.ErrorIs(t, err, errs.ErrEncodingRange)

	v, err := q.EncodeSize(21474836.47)
	require.NoError(t, err)
	require.Equal(t, int32(math.MaxInt32), v)
}

func TestEncodeSize(t *testing.T) {
	q := Default()

	tests := []struct {
		in   float64
		want int32
	}{
		{12, 1200},
		{8.5, 850},
		{0.005, 1},
		{2.675, 268},
		{0.004, 0},
		{-0.005, -1},
	}

	for _, tt := range tests {
		got, err := q.EncodeSize(tt.in)
		require.NoError(t, err)
		require.Equal(t, tt.want, got, "size %v", tt.in)
	}
}

func TestExactRoundTrip(t *testing.T) {
	q := Default()

	for _, p := range []float64{101.234, 101.235, 101.236, 101.237, 101.233, 0.00001, 1234.56789, 9.99999} {
		v, err := q.EncodePrice(p)
		require.NoError(t, err)
		require.Equal(t, p, q.DecodePrice(v), "price %v", p)
	}

	for _, s := range []float64{12, 8, 10, 9, 15, 7, 0.01, 1234.56, 99.99} {
		v, err := q.EncodeSize(s)
		require.NoError(t, err)
		require.Equal(t, s, q.DecodeSize(v), "size %v", s)
	}
}

func TestRoundTripBound(t *testing.T) {
	q := Default()
	rng := rand.New(rand.NewPCG(42, 7))

	for range 10_000 {
		p := rng.Float64() * 20_000
		v, err := q.EncodePrice(p)
		require.NoError(t, err)
		require.LessOrEqual(t, math.Abs(q.DecodePrice(v)-p), q.PriceTolerance()+1e-9)

		s := rng.Float64() * 1_000_000
		v, err = q.EncodeSize(s)
		require.NoError(t, err)
		require.LessOrEqual(t, math.Abs(q.DecodeSize(v)-s), q.SizeTolerance()+1e-9)
	}
}

func TestTolerance(t *testing.T) {
	q := Default()
	require.InDelta(t, 0.000005, q.PriceTolerance(), 1e-15)
	require.InDelta(t, 0.005, q.SizeTolerance(), 1e-15)
}
