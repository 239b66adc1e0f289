package csvio

import (
	"fmt"
	"io"
	"iter"
	"strings"

	"github.com/arloliu/tickarc/tick"
)

// DefaultPreviewRows is the number of rows shown by Preview when n is not positive.
const DefaultPreviewRows = 5

// Preview prints the first n records of seq as an aligned table and returns how many
// were printed.
func Preview(w io.Writer, seq iter.Seq2[int, tick.Record], n int) (int, error) {
	if n <= 0 {
		n = DefaultPreviewRows
	}

	if _, err := fmt.Fprintf(w, "%-20s %-28s %-12s %-12s %-10s %-10s\n",
		"Timestamp (us)", "DateTime", "PriceBid", "PriceAsk", "SizeBid", "SizeAsk"); err != nil {
		return 0, err
	}
	if _, err := fmt.Fprintln(w, strings.Repeat("-", 97)); err != nil {
		return 0, err
	}

	printed := 0
	for _, rec := range seq {
		if printed == n {
			break
		}
		_, err := fmt.Fprintf(w, "%-20d %-28s %-12s %-12s %-10s %-10s\n",
			rec.Timestamp, rec.Time().Format(DateTimeLayout),
			FormatPrice(rec.BidPrice), FormatPrice(rec.AskPrice),
			FormatSize(rec.BidSize), FormatSize(rec.AskSize))
		if err != nil {
			return printed, err
		}
		printed++
	}

	return printed, nil
}
