package csvio

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/arloliu/tickarc/errs"
	"github.com/arloliu/tickarc/tick"
)

// Column names of the MBP-1 export.
const (
	ColumnTimestamp = "ts_event"
	ColumnBidPrice  = "bid_px_00"
	ColumnAskPrice  = "ask_px_00"
	ColumnBidSize   = "bid_sz_00"
	ColumnAskSize   = "ask_sz_00"
)

var requiredColumns = [...]string{ColumnTimestamp, ColumnBidPrice, ColumnAskPrice, ColumnBidSize, ColumnAskSize}

// ReadQuotes reads every data row of an MBP-1 CSV stream.
//
// Columns are located by header name. ts_event is either an ISO-8601 timestamp or an
// integer count of nanoseconds since the epoch; it is truncated to microseconds.
// Empty price and size cells, and cells reading "nan", are returned as missing.
// Malformed content is reported as errs.ErrInput with the line number.
func ReadQuotes(r io.Reader) ([]tick.RawRecord, error) {
	cr := csv.NewReader(r)
	cr.ReuseRecord = true
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty csv", errs.ErrInput)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: %w", errs.ErrInput, err)
	}

	idx, err := columnIndex(header)
	if err != nil {
		return nil, err
	}

	var out []tick.RawRecord
	for {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("%w: %w", errs.ErrInput, err)
		}

		line, _ := cr.FieldPos(0)
		rec, err := parseRow(row, idx)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %w", errs.ErrInput, line, err)
		}
		out = append(out, rec)
	}

	return out, nil
}

// ReadSession reads an input file into a session: the name gives the symbol and date,
// rows are stably sorted by timestamp, then missing values are filled with policy.
func ReadSession(path string, policy tick.FillPolicy) (tick.Session, error) {
	symbol, date, err := ParseSourceName(path)
	if err != nil {
		return tick.Session{}, err
	}

	f, err := os.Open(path)
	if err != nil {
		return tick.Session{}, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	raw, err := ReadQuotes(f)
	if err != nil {
		return tick.Session{}, fmt.Errorf("%s: %w", path, err)
	}

	tick.SortRaw(raw)

	return tick.Session{
		Symbol:  symbol,
		Date:    date,
		Records: tick.Fill(raw, policy),
	}, nil
}

type columns [len(requiredColumns)]int

func columnIndex(header []string) (columns, error) {
	var idx columns
	for i := range idx {
		idx[i] = -1
	}

	for pos, name := range header {
		name = strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))
		for i, want := range requiredColumns {
			if name == want && idx[i] < 0 {
				idx[i] = pos
			}
		}
	}

	for i, pos := range idx {
		if pos < 0 {
			return idx, fmt.Errorf("%w: missing column %q", errs.ErrInput, requiredColumns[i])
		}
	}

	return idx, nil
}

func parseRow(row []string, idx columns) (tick.RawRecord, error) {
	cell := func(i int) string {
		if idx[i] >= len(row) {
			return ""
		}
		return strings.TrimSpace(row[idx[i]])
	}

	ts, err := ParseTimestamp(cell(0))
	if err != nil {
		return tick.RawRecord{}, err
	}

	var vals [4]tick.Value
	for i := range vals {
		if vals[i], err = parseValue(cell(i + 1)); err != nil {
			return tick.RawRecord{}, fmt.Errorf("%s: %w", requiredColumns[i+1], err)
		}
	}

	return tick.RawRecord{
		Timestamp: ts,
		BidPrice:  vals[0],
		AskPrice:  vals[1],
		BidSize:   vals[2],
		AskSize:   vals[3],
	}, nil
}

// ParseTimestamp parses an ISO-8601 timestamp, or integer nanoseconds since the epoch,
// into microseconds since the epoch. Timestamps without a zone are taken as UTC.
func ParseTimestamp(s string) (int64, error) {
	if s == "" {
		return 0, fmt.Errorf("%s: empty timestamp", ColumnTimestamp)
	}

	if ns, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ns / 1000, nil
	}

	for _, layout := range []string{time.RFC3339Nano, "2006-01-02T15:04:05.999999999", "2006-01-02 15:04:05.999999999Z07:00", "2006-01-02 15:04:05.999999999"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t.UnixMicro(), nil
		}
	}

	return 0, fmt.Errorf("%s: cannot parse %q", ColumnTimestamp, s)
}

func parseValue(s string) (tick.Value, error) {
	if s == "" || strings.EqualFold(s, "nan") {
		return tick.Missing(), nil
	}

	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return tick.Value{}, err
	}

	return tick.Some(v), nil
}
