package tick

import (
	"math"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestFill(t *testing.T) {
	t.Run("forward then backward fill", func(t *testing.T) {
		raw := []RawRecord{
			{Timestamp: 1, BidPrice: Missing(), AskPrice: Some(10.2), BidSize: Missing(), AskSize: Some(3)},
			{Timestamp: 2, BidPrice: Some(10.0), AskPrice: Missing(), BidSize: Some(5), AskSize: Missing()},
			{Timestamp: 3, BidPrice: Missing(), AskPrice: Some(10.3), BidSize: Missing(), AskSize: Some(4)},
			{Timestamp: 4, BidPrice: Some(math.NaN()), AskPrice: Missing(), BidSize: Some(6), AskSize: Missing()},
		}

		got := Fill(raw, DefaultFillPolicy())
		require.Equal(t, []Record{
			{Timestamp: 1, BidPrice: 10.0, AskPrice: 10.2, BidSize: 5, AskSize: 3},
			{Timestamp: 2, BidPrice: 10.0, AskPrice: 10.2, BidSize: 5, AskSize: 3},
			{Timestamp: 3, BidPrice: 10.0, AskPrice: 10.3, BidSize: 5, AskSize: 4},
			{Timestamp: 4, BidPrice: 10.0, AskPrice: 10.3, BidSize: 6, AskSize: 4},
		}, got)
	})

	t.Run("terminal default for empty columns", func(t *testing.T) {
		raw := []RawRecord{
			{Timestamp: 1, BidPrice: Some(1.5), AskPrice: Missing()},
			{Timestamp: 2, BidPrice: Missing(), AskPrice: Missing()},
		}

		got := Fill(raw, FillPolicy{PriceDefault: 99, SizeDefault: 7})
		require.Equal(t, []Record{
			{Timestamp: 1, BidPrice: 1.5, AskPrice: 99, BidSize: 7, AskSize: 7},
			{Timestamp: 2, BidPrice: 1.5, AskPrice: 99, BidSize: 7, AskSize: 7},
		}, got)
	})

	t.Run("empty input", func(t *testing.T) {
		require.Empty(t, Fill(nil, DefaultFillPolicy()))
	})
}

func TestSortRaw(t *testing.T) {
	raw := []RawRecord{
		{Timestamp: 3, BidPrice: Some(1)},
		{Timestamp: 1, BidPrice: Some(2)},
		{Timestamp: 3, BidPrice: Some(3)},
	}
	SortRaw(raw)

	require.Equal(t, int64(1), raw[0].Timestamp)
	require.Equal(t, 1.0, raw[1].BidPrice.V)
	require.Equal(t, 3.0, raw[2].BidPrice.V)
}
