package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/pkg/errors"

	"github.com/arloliu/tickarc/archive"
	"github.com/arloliu/tickarc/csvio"
	"github.com/arloliu/tickarc/internal/logger"
)

func (e *env) decode(args []string) int {
	fs := flag.NewFlagSet("decode", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	previewRows := fs.Int("preview", e.cfg.Preview.Rows, "Rows printed as a preview (0 disables)")
	fs.Usage = func() {
		fmt.Fprintln(e.stderr, "Usage: tickarc decode [flags] <archive> <output-dir>")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() != 2 {
		fs.Usage()
		return exitUsage
	}
	input, outDir := fs.Arg(0), fs.Arg(1)

	a, err := archive.ReadFile(input)
	if err != nil {
		return e.fail(err, logger.NewField("input", input))
	}
	name, err := archive.ParseFileName(input)
	if err != nil {
		return e.fail(err, logger.NewField("input", input))
	}

	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return e.fail(errors.Wrap(err, "create output directory"))
	}
	outPath := filepath.Join(outDir, csvio.OutputName(input))

	fmt.Fprintf(e.stdout, "Decompressing: %s\n", input)
	fmt.Fprintf(e.stdout, "Output file: %s\n\n", outPath)
	printHeader(e, a, name)

	if err := writeCSV(outPath, a); err != nil {
		return e.fail(err, logger.NewField("output", outPath))
	}

	if *previewRows > 0 && a.Len() > 0 {
		fmt.Fprintf(e.stdout, "\nFirst %d rows preview:\n", min(*previewRows, a.Len()))
		if _, err := csvio.Preview(e.stdout, a.Decoder().All(), *previewRows); err != nil {
			return e.fail(errors.Wrap(err, "print preview"))
		}
	}

	info, err := os.Stat(outPath)
	if err != nil {
		return e.fail(errors.Wrap(err, "stat output"))
	}

	fmt.Fprintf(e.stdout, "\nOutput saved to: %s\n", outPath)
	printStats(e, a.Stats())
	fmt.Fprintf(e.stdout, "CSV output size: %.2f MB\n", float64(info.Size())/1e6)

	e.log.Info("archive decoded",
		logger.NewField("input", input),
		logger.NewField("output", outPath),
		logger.NewField("rows", a.Len()),
	)

	return exitOK
}

// writeCSV writes every record of a to path. A partial file is removed on failure.
func writeCSV(path string, a *archive.Archive) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "create csv")
	}
	defer func() {
		if cerr := f.Close(); err == nil && cerr != nil {
			err = errors.Wrap(cerr, "close csv")
		}
		if err != nil {
			_ = os.Remove(path)
		}
	}()

	w := csvio.NewWriter(f)
	if err := w.WriteAll(a.Decoder().All()); err != nil {
		return errors.Wrap(err, "write csv")
	}

	return nil
}

func printHeader(e *env, a *archive.Archive, name archive.ParsedName) {
	h := a.Header()
	fmt.Fprintf(e.stdout, "Symbol: %s\n", name.Symbol)
	fmt.Fprintf(e.stdout, "Session date: %s\n", name.Date.Format(time.DateOnly))
	fmt.Fprintf(e.stdout, "Magic: TICK\n")
	fmt.Fprintf(e.stdout, "Version: %d\n", uint8(h.Version))
	fmt.Fprintf(e.stdout, "Compression: %s\n", a.Compression)
	fmt.Fprintf(e.stdout, "Number of rows: %d\n", h.RowCount)
	fmt.Fprintf(e.stdout, "Initial timestamp: %d us\n", h.BaseTimestamp)
	if start := a.Decoder().StartTime(); !start.IsZero() {
		fmt.Fprintf(e.stdout, "Initial datetime: %s\n", start.Format(csvio.DateTimeLayout))
	}
}

func printStats(e *env, s archive.Stats) {
	fmt.Fprintf(e.stdout, "\n--- Statistics ---\n")
	fmt.Fprintf(e.stdout, "Total rows: %d\n", s.Rows)
	fmt.Fprintf(e.stdout, "Expected binary size: %.2f MB (decompressed)\n", float64(s.ExpectedSize)/1e6)
	fmt.Fprintf(e.stdout, "Actual binary size: %.2f MB (decompressed)\n", float64(s.RawSize)/1e6)
	fmt.Fprintf(e.stdout, "Compressed size: %.2f MB (%.1f%%)\n", float64(s.CompressedSize)/1e6, s.Percentage())
	if s.SizeMatches() {
		fmt.Fprintln(e.stdout, "File size matches expected size")
	} else {
		fmt.Fprintf(e.stdout, "Size mismatch: %d bytes\n", s.RawSize-s.ExpectedSize)
	}
}
