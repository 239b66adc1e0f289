package csvio

import (
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"iter"
	"strconv"

	"github.com/arloliu/tickarc/tick"
)

// Header is the first line of every decoded CSV file.
var Header = []string{"Timestamp_us", "DateTime", "PriceBid", "PriceAsk", "SizeBid", "SizeAsk"}

// DateTimeLayout renders the DateTime column, always in UTC.
const DateTimeLayout = "2006-01-02T15:04:05.000000Z"

// Writer writes decoded records as CSV.
type Writer struct {
	bw     *bufio.Writer
	cw     *csv.Writer
	row    []string
	header bool
	count  int
}

// NewWriter creates a Writer. The header line is written with the first record, or
// by Flush when there are none.
func NewWriter(w io.Writer) *Writer {
	bw := bufio.NewWriterSize(w, 256*1024)

	return &Writer{
		bw:  bw,
		cw:  csv.NewWriter(bw),
		row: make([]string, len(Header)),
	}
}

// Write appends one record.
func (w *Writer) Write(rec tick.Record) error {
	if err := w.writeHeader(); err != nil {
		return err
	}

	w.row[0] = strconv.FormatInt(rec.Timestamp, 10)
	w.row[1] = rec.Time().Format(DateTimeLayout)
	w.row[2] = FormatPrice(rec.BidPrice)
	w.row[3] = FormatPrice(rec.AskPrice)
	w.row[4] = FormatSize(rec.BidSize)
	w.row[5] = FormatSize(rec.AskSize)

	if err := w.cw.Write(w.row); err != nil {
		return fmt.Errorf("write csv row %d: %w", w.count, err)
	}
	w.count++

	return nil
}

// WriteAll writes every record of seq and flushes.
func (w *Writer) WriteAll(seq iter.Seq2[int, tick.Record]) error {
	for _, rec := range seq {
		if err := w.Write(rec); err != nil {
			return err
		}
	}

	return w.Flush()
}

// Count returns the number of records written.
func (w *Writer) Count() int {
	return w.count
}

// Flush writes any buffered data to the underlying writer.
func (w *Writer) Flush() error {
	if err := w.writeHeader(); err != nil {
		return err
	}

	w.cw.Flush()
	if err := w.cw.Error(); err != nil {
		return fmt.Errorf("flush csv: %w", err)
	}

	return w.bw.Flush()
}

func (w *Writer) writeHeader() error {
	if w.header {
		return nil
	}
	w.header = true

	return w.cw.Write(Header)
}

// FormatPrice renders a price with 5 decimals.
func FormatPrice(v float64) string {
	return strconv.FormatFloat(v, 'f', 5, 64)
}

// FormatSize renders a size with 2 decimals.
func FormatSize(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
