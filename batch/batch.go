// Package batch encodes many input files into archives in parallel.
//
// Each input is processed independently: a failure is logged and counted, and the
// remaining inputs still run. Workers share no mutable state beyond the result
// collection.
package batch

import (
	"context"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/errgroup"

	"github.com/arloliu/tickarc/archive"
	"github.com/arloliu/tickarc/csvio"
	"github.com/arloliu/tickarc/errs"
	"github.com/arloliu/tickarc/internal/logger"
	"github.com/arloliu/tickarc/internal/metrics"
	"github.com/arloliu/tickarc/internal/options"
	"github.com/arloliu/tickarc/tick"
)

// Runner drives archive.Writer over a set of CSV inputs.
type Runner struct {
	writer  *archive.Writer
	policy  tick.FillPolicy
	workers int
	log     *logger.Logger
	metrics *metrics.Batch
}

// RunnerOption configures a Runner.
type RunnerOption = options.Option[*Runner]

// WithWorkers bounds the number of files processed concurrently. Values below one
// mean one.
func WithWorkers(n int) RunnerOption {
	return options.NoError(func(r *Runner) {
		r.workers = max(n, 1)
	})
}

// WithFillPolicy sets the defaults for columns that are empty for a whole session.
func WithFillPolicy(p tick.FillPolicy) RunnerOption {
	return options.NoError(func(r *Runner) {
		r.policy = p
	})
}

// WithLogger sets the logger.
func WithLogger(l *logger.Logger) RunnerOption {
	return options.NoError(func(r *Runner) {
		if l != nil {
			r.log = l
		}
	})
}

// WithMetrics records per-file outcomes into m.
func WithMetrics(m *metrics.Batch) RunnerOption {
	return options.NoError(func(r *Runner) {
		r.metrics = m
	})
}

// NewRunner creates a Runner writing through w.
func NewRunner(w *archive.Writer, opts ...RunnerOption) (*Runner, error) {
	if w == nil {
		return nil, errors.New("batch: nil archive writer")
	}

	r := &Runner{
		writer:  w,
		policy:  tick.DefaultFillPolicy(),
		workers: 1,
		log:     logger.NewNop(),
	}

	if err := options.Apply(r, opts...); err != nil {
		return nil, err
	}

	return r, nil
}

// Failure is one input that could not be archived.
type Failure struct {
	Input string
	Err   error
}

// Result aggregates a batch run. Written and Failures are ordered like the inputs.
type Result struct {
	Written  []*archive.WriteResult
	Failures []Failure
}

// Succeeded returns the number of archives written.
func (r *Result) Succeeded() int {
	return len(r.Written)
}

// Failed returns the number of failed inputs.
func (r *Result) Failed() int {
	return len(r.Failures)
}

// Category returns the category of the first failure, or errs.CategoryNone.
func (r *Result) Category() errs.Category {
	if len(r.Failures) == 0 {
		return errs.CategoryNone
	}

	return errs.Classify(r.Failures[0].Err)
}

// EncodeFile reads one CSV input and writes its archive.
func (r *Runner) EncodeFile(ctx context.Context, input string) (*archive.WriteResult, error) {
	session, err := csvio.ReadSession(input, r.policy)
	if err != nil {
		return nil, errors.Wrapf(err, "read %s", filepath.Base(input))
	}

	res, err := r.writer.Write(ctx, session)
	if err != nil {
		return nil, errors.Wrapf(err, "archive %s", filepath.Base(input))
	}

	return res, nil
}

// Run encodes every input. It returns once all inputs have been attempted or ctx is
// done; inputs not started before cancellation are reported as failures with the
// context error.
//
// Inputs that map to the same archive file (same symbol, date and codec) are not
// written twice: the first one in input order is encoded and the others fail with
// errs.ErrInvalidFileName.
func (r *Runner) Run(ctx context.Context, inputs []string) *Result {
	written := make([]*archive.WriteResult, len(inputs))
	failed := r.claimOutputs(inputs)

	var mu sync.Mutex
	g := new(errgroup.Group)
	g.SetLimit(r.workers)

	for i, input := range inputs {
		fileCtx := logger.ContextWithFields(ctx, logger.NewField("input", input))

		if failed[i] != nil {
			mu.Lock()
			r.observeFailure(fileCtx, failed[i], 0)
			mu.Unlock()

			continue
		}
		if err := ctx.Err(); err != nil {
			failed[i] = err
			continue
		}

		g.Go(func() error {
			r.log.DebugContext(fileCtx, "encoding input")

			start := time.Now()
			res, err := r.EncodeFile(fileCtx, input)
			elapsed := time.Since(start)

			mu.Lock()
			defer mu.Unlock()

			if err != nil {
				failed[i] = err
				r.observeFailure(fileCtx, err, elapsed)

				return nil
			}

			written[i] = res
			violations := 0
			if res.Check != nil {
				violations = len(res.Check.Violations)
			}
			if r.metrics != nil {
				r.metrics.ObserveSuccess(res.Rows, res.Stats.OriginalSize, res.Stats.CompressedSize, violations, elapsed)
			}

			return nil
		})
	}

	// workers never return errors; failures are collected per input
	_ = g.Wait()

	result := &Result{}
	for i := range inputs {
		if failed[i] != nil {
			result.Failures = append(result.Failures, Failure{Input: inputs[i], Err: failed[i]})
			continue
		}
		if written[i] != nil {
			result.Written = append(result.Written, written[i])
		}
	}

	if r.metrics != nil {
		r.metrics.Finish(time.Now())
	}

	r.log.InfoContext(ctx, "batch finished",
		logger.NewField("inputs", len(inputs)),
		logger.NewField("succeeded", result.Succeeded()),
		logger.NewField("failed", result.Failed()),
	)

	return result
}

// claimOutputs assigns each archive file name to the first input producing it and
// returns a conflict error for every later one. Inputs whose names do not parse are
// left to fail in EncodeFile.
func (r *Runner) claimOutputs(inputs []string) []error {
	failed := make([]error, len(inputs))
	owners := make(map[string]int, len(inputs))

	for i, input := range inputs {
		symbol, date, err := csvio.ParseSourceName(input)
		if err != nil {
			continue
		}
		name, err := archive.FileName(symbol, date, r.writer.Compression())
		if err != nil {
			continue
		}

		if j, ok := owners[name]; ok {
			failed[i] = errors.Wrapf(errs.ErrInvalidFileName, "%s maps to %s, already produced by %s",
				filepath.Base(input), name, filepath.Base(inputs[j]))

			continue
		}
		owners[name] = i
	}

	return failed
}

// observeFailure logs and counts one failed input. Callers hold the result mutex.
func (r *Runner) observeFailure(ctx context.Context, err error, elapsed time.Duration) {
	category := errs.Classify(err).String()
	r.log.ErrorContext(ctx, err, logger.NewField("category", category))
	if r.metrics != nil {
		r.metrics.ObserveFailure(category, elapsed)
	}
}

// Discover expands glob patterns and plain paths into a sorted, de-duplicated list of
// files. A pattern that matches nothing is an error.
func Discover(patterns ...string) ([]string, error) {
	var out []string
	for _, p := range patterns {
		matches, err := filepath.Glob(p)
		if err != nil {
			return nil, errors.Wrapf(err, "bad pattern %q", p)
		}
		if len(matches) == 0 {
			return nil, errors.Errorf("no input matches %q", p)
		}
		out = append(out, matches...)
	}

	slices.Sort(out)

	return slices.Compact(out), nil
}
