package main

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/pkg/errors"

	"github.com/arloliu/tickarc/archive"
	"github.com/arloliu/tickarc/batch"
	"github.com/arloliu/tickarc/format"
	"github.com/arloliu/tickarc/internal/logger"
	"github.com/arloliu/tickarc/internal/metrics"
)

func (e *env) encode(ctx context.Context, args []string) int {
	fs := flag.NewFlagSet("encode", flag.ContinueOnError)
	fs.SetOutput(e.stderr)
	outDir := fs.String("o", ".", "Output directory for archives")
	compression := fs.String("compression", e.cfg.Archive.Compression, "Codec: gzip, zstd, s2, lz4 or none")
	workers := fs.Int("workers", e.cfg.WorkerCount(), "Files processed in parallel")
	sample := fs.Int("sample", e.cfg.Archive.SelfCheckSample, "Rows compared after writing (0 disables, -1 all)")
	strict := fs.Bool("strict", e.cfg.Archive.Strict, "Fail a file when the self-check finds tolerance violations")
	metricsFile := fs.String("metrics", e.cfg.Metrics.Textfile, "Write Prometheus metrics to this textfile")
	fs.Usage = func() {
		fmt.Fprintln(e.stderr, "Usage: tickarc encode [flags] <input.csv|glob>...")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return exitUsage
	}
	if fs.NArg() == 0 {
		fs.Usage()
		return exitUsage
	}

	ct, err := format.ParseCompression(*compression)
	if err != nil {
		fmt.Fprintf(e.stderr, "Error: %v\n", err)
		return exitUsage
	}

	mode, err := e.cfg.FileMode()
	if err != nil {
		fmt.Fprintf(e.stderr, "Error: %v\n", err)
		return exitUsage
	}

	inputs, err := batch.Discover(fs.Args()...)
	if err != nil {
		return e.fail(err)
	}

	writer, err := archive.NewWriter(*outDir,
		archive.WithCompression(ct),
		archive.WithSelfCheck(*sample),
		archive.WithStrict(*strict),
		archive.WithFileMode(mode),
		archive.WithLogger(e.log),
	)
	if err != nil {
		return e.fail(errors.Wrap(err, "prepare output"))
	}

	m := metrics.NewBatch()
	runner, err := batch.NewRunner(writer,
		batch.WithWorkers(*workers),
		batch.WithFillPolicy(e.cfg.FillPolicy()),
		batch.WithLogger(e.log),
		batch.WithMetrics(m),
	)
	if err != nil {
		return e.fail(err)
	}

	fmt.Fprintf(e.stdout, "Found %d input files to process.\n", len(inputs))

	start := time.Now()
	result := runner.Run(ctx, inputs)

	for _, res := range result.Written {
		printWriteResult(e, res)
	}
	for _, f := range result.Failures {
		fmt.Fprintf(e.stderr, "FAILED %s: %v\n", f.Input, f.Err)
	}

	fmt.Fprintf(e.stdout, "\nProcessed %d files in %s: %d succeeded, %d failed\n",
		len(inputs), time.Since(start).Round(time.Millisecond), result.Succeeded(), result.Failed())

	if *metricsFile != "" {
		if err := m.WriteTextfile(*metricsFile); err != nil {
			e.log.Error(errors.Wrap(err, "write metrics textfile"), logger.NewField("path", *metricsFile))
		}
	}

	return categoryExit(result.Category())
}

func printWriteResult(e *env, res *archive.WriteResult) {
	s := res.Stats
	fmt.Fprintf(e.stdout, "\nArchive written: %s\n", res.Path)
	fmt.Fprintf(e.stdout, "  Symbol: %s, Date: %s\n", res.Symbol, res.Date.Format("20060102"))
	fmt.Fprintf(e.stdout, "  Rows: %d\n", res.Rows)
	fmt.Fprintf(e.stdout, "  Original size: %.2f MB\n", float64(s.OriginalSize)/1e6)
	fmt.Fprintf(e.stdout, "  Compressed size: %.2f MB\n", float64(s.CompressedSize)/1e6)
	if s.CompressedSize > 0 {
		fmt.Fprintf(e.stdout, "  Compression ratio: %.2fx\n", float64(s.OriginalSize)/float64(s.CompressedSize))
	}
	fmt.Fprintf(e.stdout, "  Percentage: %.1f%%\n", s.CompressionRatio()*100)
	if c := res.Check; c != nil {
		status := "OK"
		if !c.OK() {
			status = fmt.Sprintf("%d violations", len(c.Violations))
		}
		fmt.Fprintf(e.stdout, "  Self-check: %d rows sampled, %s\n", c.SampledRows, status)
	}
}
