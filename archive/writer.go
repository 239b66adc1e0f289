package archive

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"time"

	"github.com/arloliu/tickarc/compress"
	"github.com/arloliu/tickarc/container"
	"github.com/arloliu/tickarc/format"
	"github.com/arloliu/tickarc/internal/hash"
	"github.com/arloliu/tickarc/internal/logger"
	"github.com/arloliu/tickarc/internal/options"
	"github.com/arloliu/tickarc/internal/pool"
	"github.com/arloliu/tickarc/section"
	"github.com/arloliu/tickarc/tick"
)

// DefaultSampleSize is the number of rows compared by the self-check.
const DefaultSampleSize = 1000

// Writer writes sessions into a directory, one archive file per session.
//
// A Writer is safe for concurrent use as long as concurrent writes target different
// sessions.
type Writer struct {
	dir        string
	codec      compress.Codec
	encoder    *container.Encoder
	sampleSize int
	strict     bool
	fileMode   os.FileMode
	log        *logger.Logger
}

// WriterOption configures a Writer.
type WriterOption = options.Option[*Writer]

// WithCompression selects the codec. The default is gzip.
func WithCompression(c format.CompressionType) WriterOption {
	return options.New(func(w *Writer) error {
		codec, err := compress.CreateCodec(c, "archive")
		if err != nil {
			return err
		}
		w.codec = codec

		return nil
	})
}

// WithSelfCheck sets how many rows the post-write check compares. Zero disables the
// check, a negative value compares every row.
func WithSelfCheck(sampleSize int) WriterOption {
	return options.NoError(func(w *Writer) {
		w.sampleSize = sampleSize
	})
}

// WithStrict makes tolerance violations found by the self-check fail the write.
func WithStrict(strict bool) WriterOption {
	return options.NoError(func(w *Writer) {
		w.strict = strict
	})
}

// WithFileMode sets the permission bits of written files. The default is 0644.
func WithFileMode(mode os.FileMode) WriterOption {
	return options.NoError(func(w *Writer) {
		w.fileMode = mode
	})
}

// WithLogger sets the logger. The default discards everything.
func WithLogger(l *logger.Logger) WriterOption {
	return options.NoError(func(w *Writer) {
		if l != nil {
			w.log = l
		}
	})
}

// NewWriter creates a Writer targeting dir. The directory is created if needed.
func NewWriter(dir string, opts ...WriterOption) (*Writer, error) {
	encoder, err := container.NewEncoder()
	if err != nil {
		return nil, err
	}

	w := &Writer{
		dir:        dir,
		codec:      compress.NewGzipCompressor(),
		encoder:    encoder,
		sampleSize: DefaultSampleSize,
		fileMode:   0o644,
		log:        logger.NewNop(),
	}

	if err := options.Apply(w, opts...); err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create output directory: %w", err)
	}

	return w, nil
}

// Dir returns the target directory.
func (w *Writer) Dir() string {
	return w.dir
}

// Compression returns the configured codec type.
func (w *Writer) Compression() format.CompressionType {
	return w.codec.Type()
}

// WriteResult describes one written archive.
type WriteResult struct {
	Path   string
	Symbol string
	Date   time.Time
	Rows   int
	// Digest is the xxHash64 of the uncompressed payload.
	Digest uint64
	Stats  compress.CompressionStats
	// Check is nil when the self-check is disabled.
	Check *CheckReport
}

// Write sorts, encodes, compresses and atomically writes one session.
//
// The session's records are not modified; an unsorted session is sorted on a copy.
// When the self-check is enabled the file is read back before Write returns. A digest
// mismatch always fails the write; tolerance violations fail it only in strict mode.
// A failed write removes the file.
func (w *Writer) Write(ctx context.Context, session tick.Session) (*WriteResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	name, err := FileName(session.Symbol, session.Date, w.codec.Type())
	if err != nil {
		return nil, err
	}
	path := filepath.Join(w.dir, name)
	log := w.log.WithFields(logger.NewField("path", path))

	records := session.Records
	if !tick.IsSorted(records) {
		records = slices.Clone(records)
		tick.SortByTimestamp(records)
	}

	buf := pool.GetPayloadBuffer()
	defer pool.PutPayloadBuffer(buf)

	if uint64(len(records)) <= uint64(^uint32(0)) {
		buf.Grow(int(section.PayloadSize(uint32(len(records))))) //nolint:gosec
	}
	buf.B, err = w.encoder.AppendEncode(buf.B[:0], records)
	if err != nil {
		return nil, fmt.Errorf("encode %s: %w", name, err)
	}

	digest := hash.Digest(buf.B)
	log.DebugContext(ctx, "payload encoded",
		logger.NewField("rows", len(records)),
		logger.NewField("digest", fmt.Sprintf("%016x", digest)),
	)

	compressed, stats, err := compress.CompressWithStats(w.codec, buf.B)
	if err != nil {
		return nil, fmt.Errorf("compress %s: %w", name, err)
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err := writeFileAtomic(path, compressed, w.fileMode); err != nil {
		return nil, err
	}

	result := &WriteResult{
		Path:   path,
		Symbol: session.Symbol,
		Date:   session.Date,
		Rows:   len(records),
		Digest: digest,
		Stats:  stats,
	}

	if w.sampleSize != 0 {
		report, err := w.selfCheck(path, digest, records)
		if err != nil {
			_ = os.Remove(path)
			return nil, err
		}
		result.Check = report

		if !report.OK() {
			log.WarnContext(ctx, "self-check found tolerance violations",
				logger.NewField("violations", len(report.Violations)),
				logger.NewField("sampled", report.SampledRows),
			)
			if w.strict {
				_ = os.Remove(path)
				return nil, fmt.Errorf("self-check %s: %w", name, report.Err())
			}
		}
	}

	ratio := 0.0
	if stats.CompressedSize > 0 {
		ratio = float64(stats.OriginalSize) / float64(stats.CompressedSize)
	}
	log.InfoContext(ctx, "archive written",
		logger.NewField("rows", result.Rows),
		logger.NewField("raw_size", stats.OriginalSize),
		logger.NewField("compressed_size", stats.CompressedSize),
		logger.NewField("compression_ratio", ratio),
	)

	return result, nil
}

func (w *Writer) selfCheck(path string, digest uint64, records []tick.Record) (*CheckReport, error) {
	a, err := ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("self-check: %w", err)
	}

	return Verify(a, digest, records, w.sampleSize)
}
