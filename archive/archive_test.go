package archive

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	kgzip "github.com/klauspost/compress/gzip"

	"github.com/arloliu/tickarc/compress"
	"github.com/arloliu/tickarc/container"
	"github.com/arloliu/tickarc/errs"
	"github.com/arloliu/tickarc/format"
	"github.com/arloliu/tickarc/internal/hash"
	"github.com/arloliu/tickarc/internal/logger"
	"github.com/arloliu/tickarc/section"
	"github.com/arloliu/tickarc/tick"
)

var sessionDate = time.Date(2025, 10, 29, 0, 0, 0, 0, time.UTC)

func mustCodec(t *testing.T, ct format.CompressionType) compress.Codec {
	t.Helper()

	codec, err := compress.GetCodec(ct)
	require.NoError(t, err)

	return codec
}

func scenarioA() tick.Session {
	return tick.Session{
		Symbol: "CMBM",
		Date:   sessionDate,
		Records: []tick.Record{
			{Timestamp: 1700000000000000, BidPrice: 101.234, AskPrice: 101.236, BidSize: 12, AskSize: 8},
			{Timestamp: 1700000000001000, BidPrice: 101.235, AskPrice: 101.237, BidSize: 10, AskSize: 9},
			{Timestamp: 1700000000002500, BidPrice: 101.233, AskPrice: 101.235, BidSize: 15, AskSize: 7},
		},
	}
}

func TestWriter_RoundTrip(t *testing.T) {
	for _, ct := range []format.CompressionType{
		format.CompressionGzip, format.CompressionZstd, format.CompressionS2,
		format.CompressionLZ4, format.CompressionNone,
	} {
		t.Run(ct.String(), func(t *testing.T) {
			dir := t.TempDir()
			w, err := NewWriter(dir, WithCompression(ct), WithSelfCheck(-1))
			require.NoError(t, err)
			require.Equal(t, ct, w.Compression())

			session := scenarioA()
			res, err := w.Write(context.Background(), session)
			require.NoError(t, err)

			name, err := FileName("CMBM", sessionDate, ct)
			require.NoError(t, err)
			require.Equal(t, filepath.Join(dir, name), res.Path)
			require.Equal(t, 3, res.Rows)
			require.Equal(t, int64(89), res.Stats.OriginalSize)
			require.NotNil(t, res.Check)
			require.True(t, res.Check.OK())
			require.Equal(t, 3, res.Check.SampledRows)

			a, err := ReadFile(res.Path)
			require.NoError(t, err)
			require.Equal(t, ct, a.Compression)
			require.Equal(t, res.Digest, a.Digest())
			require.Equal(t, res.Stats.CompressedSize, a.CompressedSize)

			records := a.Records()
			require.Equal(t, session.Records, records)

			entries, err := os.ReadDir(dir)
			require.NoError(t, err)
			require.Len(t, entries, 1, "no temporary files are left behind")
		})
	}
}

func TestWriter_EmptySession(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)

	res, err := w.Write(context.Background(), tick.Session{Symbol: "EMPTY", Date: sessionDate})
	require.NoError(t, err)
	require.Equal(t, 0, res.Rows)
	require.Equal(t, int64(section.HeaderSize), res.Stats.OriginalSize)
	require.Equal(t, 0, res.Check.SampledRows)

	a, err := ReadFile(res.Path)
	require.NoError(t, err)
	require.Equal(t, 0, a.Len())
	require.True(t, a.Stats().SizeMatches())
}

func TestWriter_SortsUnorderedSession(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)

	session := scenarioA()
	session.Records[0], session.Records[2] = session.Records[2], session.Records[0]
	input := append([]tick.Record(nil), session.Records...)

	res, err := w.Write(context.Background(), session)
	require.NoError(t, err)
	require.Equal(t, input, session.Records, "caller records are not reordered")

	a, err := ReadFile(res.Path)
	require.NoError(t, err)
	records := a.Records()
	require.Equal(t, scenarioA().Records, records)
	require.Equal(t, uint64(1700000000000000), a.Header().BaseTimestamp)
}

func TestWriter_FailedWriteLeavesNoFile(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir)
	require.NoError(t, err)

	session := scenarioA()
	session.Records[1].BidPrice = 1e6

	_, err = w.Write(context.Background(), session)
	require.ErrorIs(t, err, errs.ErrEncodingRange)

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Empty(t, entries)

	t.Run("replacing keeps previous file on failure", func(t *testing.T) {
		res, err := w.Write(context.Background(), scenarioA())
		require.NoError(t, err)
		before, err := os.ReadFile(res.Path)
		require.NoError(t, err)

		_, err = w.Write(context.Background(), session)
		require.Error(t, err)

		after, err := os.ReadFile(res.Path)
		require.NoError(t, err)
		require.Equal(t, before, after)
	})
}

func TestWriter_InvalidSession(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)

	_, err = w.Write(context.Background(), tick.Session{Symbol: "", Date: sessionDate})
	require.ErrorIs(t, err, errs.ErrInvalidFileName)
}

func TestWriter_CanceledContext(t *testing.T) {
	w, err := NewWriter(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = w.Write(ctx, scenarioA())
	require.ErrorIs(t, err, context.Canceled)
}

func TestWriter_Options(t *testing.T) {
	_, err := NewWriter(t.TempDir(), WithCompression(format.CompressionType(0x77)))
	require.Error(t, err)

	w, err := NewWriter(t.TempDir(), WithSelfCheck(0), WithFileMode(0o600))
	require.NoError(t, err)

	res, err := w.Write(context.Background(), scenarioA())
	require.NoError(t, err)
	require.Nil(t, res.Check)

	info, err := os.Stat(res.Path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())
}

func TestWriter_Logging(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	w, err := NewWriter(t.TempDir(), WithLogger(logger.New(zap.New(core))))
	require.NoError(t, err)

	ctx := logger.ContextWithFields(context.Background(), logger.NewField("input", "CMBM.csv"))
	res, err := w.Write(ctx, scenarioA())
	require.NoError(t, err)

	encoded := logs.FilterMessage("payload encoded").All()
	require.Len(t, encoded, 1)
	require.Equal(t, fmt.Sprintf("%016x", res.Digest), encoded[0].ContextMap()["digest"])

	entries := logs.FilterMessage("archive written").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	require.Equal(t, res.Path, fields["path"])
	require.Equal(t, "CMBM.csv", fields["input"])

	// same direction as the CLI's "Nx" ratio
	ratio, ok := fields["compression_ratio"].(float64)
	require.True(t, ok)
	require.InDelta(t, float64(res.Stats.OriginalSize)/float64(res.Stats.CompressedSize), ratio, 1e-9)
	require.NotContains(t, fields, "ratio")
}

// TestRead_GzipCompatibility decodes a gzip file built byte by byte from the on-disk
// layout, independent of the encoder.
func TestRead_GzipCompatibility(t *testing.T) {
	payload := section.NewHeader(1, 1700000000000000).Bytes()
	payload = section.Row{BidPrice: 10123400, AskPrice: 10123600, BidSize: 1200, AskSize: 800}.AppendTo(payload)

	var buf bytes.Buffer
	zw, err := kgzip.NewWriterLevel(&buf, kgzip.BestCompression)
	require.NoError(t, err)
	_, err = zw.Write(payload)
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := filepath.Join(t.TempDir(), "CMBM-20251029.bin.gz")
	require.NoError(t, os.WriteFile(path, buf.Bytes(), 0o644))

	a, err := ReadFile(path)
	require.NoError(t, err)

	records := a.Records()
	require.Equal(t, []tick.Record{scenarioA().Records[0]}, records)

	stats := a.Stats()
	require.Equal(t, int64(41), stats.RawSize)
	require.Equal(t, int64(41), stats.ExpectedSize)
	require.Greater(t, stats.Ratio(), 0.0)
	require.Greater(t, stats.Percentage(), 0.0)
}

func TestRead_Malformed(t *testing.T) {
	good, err := scenarioAPayload()
	require.NoError(t, err)

	t.Run("truncated", func(t *testing.T) {
		gz := mustCodec(t, format.CompressionGzip)
		data, err := gz.Compress(good[:len(good)-5])
		require.NoError(t, err)

		_, err = Decode("CMBM-20251029.bin.gz", data)
		var te *errs.TruncatedError
		require.ErrorAs(t, err, &te)
		require.Equal(t, int64(89), te.Expected)
		require.Equal(t, int64(84), te.Actual)
	})

	t.Run("bad magic", func(t *testing.T) {
		bad := bytes.Clone(good)
		copy(bad, "XXXX")

		_, err := Decode("CMBM-20251029.bin", bad)
		require.ErrorIs(t, err, errs.ErrFormat)
		require.Equal(t, errs.CategoryFormat, errs.Classify(err))
	})

	t.Run("unknown version", func(t *testing.T) {
		bad := bytes.Clone(good)
		bad[section.VersionOffset] = 9

		_, err := Decode("CMBM-20251029.bin", bad)
		require.ErrorIs(t, err, errs.ErrUnsupportedVersion)
	})

	t.Run("corrupt compressed body", func(t *testing.T) {
		_, err := Decode("x.bin.gz", []byte{0x1f, 0x8b, 0x00, 0x01})
		require.ErrorIs(t, err, errs.ErrFormat)
		require.Equal(t, errs.CategoryFormat, errs.Classify(err))

		for _, ct := range []format.CompressionType{format.CompressionZstd, format.CompressionS2, format.CompressionLZ4} {
			data, err := mustCodec(t, ct).Compress(good)
			require.NoError(t, err)

			corrupt := bytes.Clone(data[:len(data)/2])
			_, err = Decode("CMBM-20251029.bin."+ct.Extension(), corrupt)
			require.ErrorIs(t, err, errs.ErrFormat, ct.String())
		}
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := ReadFile(filepath.Join(t.TempDir(), "nope.bin.gz"))
		require.ErrorIs(t, err, os.ErrNotExist)
		require.Equal(t, errs.CategoryIO, errs.Classify(err))
	})
}

func TestRead_Reader(t *testing.T) {
	payload, err := scenarioAPayload()
	require.NoError(t, err)

	a, err := Read(bytes.NewReader(payload), "")
	require.NoError(t, err)
	require.Equal(t, format.CompressionNone, a.Compression)
	require.Equal(t, 3, a.Len())
	require.Equal(t, payload, a.Payload())
	require.Empty(t, a.Path)
}

func TestVerify(t *testing.T) {
	payload, err := scenarioAPayload()
	require.NoError(t, err)

	a, err := Decode("", payload)
	require.NoError(t, err)

	records := scenarioA().Records

	t.Run("clean", func(t *testing.T) {
		report, err := Verify(a, hash.Digest(payload), records, -1)
		require.NoError(t, err)
		require.True(t, report.OK())
		require.NoError(t, report.Err())
	})

	t.Run("digest mismatch", func(t *testing.T) {
		_, err := Verify(a, hash.Digest(payload)+1, records, -1)
		require.ErrorIs(t, err, errs.ErrFormat)
	})

	t.Run("row count mismatch", func(t *testing.T) {
		_, err := Verify(a, hash.Digest(payload), records[:2], -1)
		require.ErrorIs(t, err, errs.ErrFormat)
	})

	t.Run("violations", func(t *testing.T) {
		altered := append([]tick.Record(nil), records...)
		altered[1].AskSize += 0.01
		altered[2].Timestamp++

		report, err := Verify(a, hash.Digest(payload), altered, -1)
		require.NoError(t, err)
		require.False(t, report.OK())
		require.Len(t, report.Violations, 2)
		require.Equal(t, "ask_size", report.Violations[0].Field)
		require.Equal(t, 1, report.Violations[0].Row)
		require.Equal(t, "timestamp", report.Violations[1].Field)
		require.ErrorIs(t, report.Err(), errs.ErrToleranceViolation)
	})
}

func TestSampleIndices(t *testing.T) {
	require.Nil(t, sampleIndices(0, 10))
	require.Nil(t, sampleIndices(10, 0))
	require.Equal(t, []int{0, 1, 2}, sampleIndices(3, 10))
	require.Equal(t, []int{0, 1, 2}, sampleIndices(3, -1))
	require.Equal(t, []int{0}, sampleIndices(5, 1))
	require.Equal(t, []int{0, 4}, sampleIndices(5, 2))
	require.Equal(t, []int{0, 33, 66, 99}, sampleIndices(100, 4))
}

func TestWithinBound(t *testing.T) {
	require.True(t, withinBound(101.234995, 101.235, 0.000005))
	require.True(t, withinBound(0, 0, 0.005))
	require.False(t, withinBound(10.0, 10.01, 0.005))
}

func scenarioAPayload() ([]byte, error) {
	encoder, err := container.NewEncoder()
	if err != nil {
		return nil, err
	}

	return encoder.Encode(scenarioA().Records)
}
