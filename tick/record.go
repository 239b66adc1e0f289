// Package tick defines the top-of-book quote records that flow through the archive
// pipeline, and the preprocessing applied to them before quantization.
package tick

import (
	"cmp"
	"slices"
	"time"
)

// Record is one top-of-book quote.
type Record struct {
	// Timestamp is microseconds since the Unix epoch.
	Timestamp int64
	BidPrice  float64
	AskPrice  float64
	BidSize   float64
	AskSize   float64
}

// Time returns the record timestamp as a UTC time.Time.
func (r Record) Time() time.Time {
	return time.UnixMicro(r.Timestamp).UTC()
}

// Session is the complete set of records of one symbol on one trading day.
//
// Symbol and Date identify the archive file; they are never stored in the payload.
type Session struct {
	Symbol  string
	Date    time.Time
	Records []Record
}

// Len returns the number of records in the session.
func (s Session) Len() int {
	return len(s.Records)
}

// SortByTimestamp sorts records ascending by timestamp in place.
// The sort is stable: records sharing a timestamp keep their input order.
func SortByTimestamp(records []Record) {
	slices.SortStableFunc(records, func(a, b Record) int {
		return cmp.Compare(a.Timestamp, b.Timestamp)
	})
}

// IsSorted reports whether records are in non-decreasing timestamp order.
func IsSorted(records []Record) bool {
	return slices.IsSortedFunc(records, func(a, b Record) int {
		return cmp.Compare(a.Timestamp, b.Timestamp)
	})
}
