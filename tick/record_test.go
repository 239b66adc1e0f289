package tick

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestRecord_Time(t *testing.T) {
	r := Record{Timestamp: 1700000000001000}
	require.Equal(t, time.Date(2023, 11, 14, 22, 13, 20, 1_000_000, time.UTC), r.Time())
}

func TestSortByTimestamp(t *testing.T) {
	records := []Record{
		{Timestamp: 30, BidPrice: 1},
		{Timestamp: 10, BidPrice: 2},
		{Timestamp: 30, BidPrice: 3},
		{Timestamp: 20, BidPrice: 4},
		{Timestamp: 10, BidPrice: 5},
	}
	require.False(t, IsSorted(records))

	SortByTimestamp(records)
	require.True(t, IsSorted(records))

	var prices []float64
	for _, r := range records {
		prices = append(prices, r.BidPrice)
	}
	require.Equal(t, []float64{2, 5, 4, 1, 3}, prices, "ties must keep input order")
}

func TestIsSorted_Edges(t *testing.T) {
	require.True(t, IsSorted(nil))
	require.True(t, IsSorted([]Record{{Timestamp: 5}}))
	require.True(t, IsSorted([]Record{{Timestamp: 5}, {Timestamp: 5}}))
	require.False(t, IsSorted([]Record{{Timestamp: 6}, {Timestamp: 5}}))
}

func TestSession_Len(t *testing.T) {
	s := Session{Symbol: "AAPL", Records: make([]Record, 4)}
	require.Equal(t, 4, s.Len())
}
