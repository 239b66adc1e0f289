package main

import (
	"flag"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"

	"github.com/arloliu/tickarc/archive"
	"github.com/arloliu/tickarc/csvio"
	"github.com/arloliu/tickarc/internal/logger"
	"github.com/arloliu/tickarc/tick"
)

// inspectReport is the -json output of inspect.
type inspectReport struct {
	Path          string        `json:"path"`
	Symbol        string        `json:"symbol"`
	Date          string        `json:"date"`
	Version       uint8         `json:"version"`
	RowCount      uint32        `json:"row_count"`
	BaseTimestamp uint64        `json:"base_timestamp"`
	StartTime     string        `json:"start_time,omitempty"`
	Digest        string        `json:"digest"`
	Stats         archive.Stats `json:"stats"`
	SizeMatches   bool          `json:"size_matches"`
	Ratio         float64       `json:"ratio"`
	Preview       []previewRow  `json:"preview"`
}

type previewRow struct {
	Timestamp int64  `json:"timestamp_us"`
	DateTime  string `json:"datetime"`
	BidPrice  string `json:"bid_price"`
	AskPrice  string `json:"ask_price"`
	BidSize   string `json:"bid_size"`
	AskSize   string `json:"ask_size"`
}

func (e *env) inspect(args []string) int {
	fs := flag.NewFlagSet("inspect", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	asJSON := fs.Bool("json", false, "Print a JSON report")
	previewRows := fs.Int("preview", e.cfg.Preview.Rows, "Rows included in the preview")
	fs.Usage = func() {
		fmt.Fprintln(e.stderr, "Usage: tickarc inspect [flags] <archive>")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() != 1 {
		fs.Usage()
		return exitUsage
	}
	input := fs.Arg(0)

	a, err := archive.ReadFile(input)
	if err != nil {
		return e.fail(err, logger.NewField("input", input))
	}
	name, err := archive.ParseFileName(input)
	if err != nil {
		return e.fail(err, logger.NewField("input", input))
	}

	if !*asJSON {
		printHeader(e, a, name)
		if *previewRows > 0 && a.Len() > 0 {
			fmt.Fprintln(e.stdout)
			if _, err := csvio.Preview(e.stdout, a.Decoder().All(), *previewRows); err != nil {
				return e.fail(err)
			}
		}
		printStats(e, a.Stats())

		return exitOK
	}

	report := inspectReport{
		Path:          input,
		Symbol:        name.Symbol,
		Date:          name.Date.Format(time.DateOnly),
		Version:       uint8(a.Header().Version),
		RowCount:      a.Header().RowCount,
		BaseTimestamp: a.Header().BaseTimestamp,
		Digest:        fmt.Sprintf("%016x", a.Digest()),
		Stats:         a.Stats(),
		SizeMatches:   a.Stats().SizeMatches(),
		Ratio:         a.Stats().Ratio(),
		Preview:       []previewRow{},
	}
	if start := a.Decoder().StartTime(); !start.IsZero() {
		report.StartTime = start.Format(csvio.DateTimeLayout)
	}
	for i, rec := range a.Decoder().All() {
		if i >= *previewRows {
			break
		}
		report.Preview = append(report.Preview, toPreviewRow(rec))
	}

	enc := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(e.stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(report); err != nil {
		return e.fail(err)
	}

	return exitOK
}

func toPreviewRow(rec tick.Record) previewRow {
	return previewRow{
		Timestamp: rec.Timestamp,
		DateTime:  rec.Time().Format(csvio.DateTimeLayout),
		BidPrice:  csvio.FormatPrice(rec.BidPrice),
		AskPrice:  csvio.FormatPrice(rec.AskPrice),
		BidSize:   csvio.FormatSize(rec.BidSize),
		AskSize:   csvio.FormatSize(rec.AskSize),
	}
}
