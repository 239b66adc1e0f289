package archive

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/tickarc/errs"
	"github.com/arloliu/tickarc/format"
)

func TestFileName(t *testing.T) {
	date := time.Date(2025, 10, 29, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		compression format.CompressionType
		want        string
	}{
		{format.CompressionGzip, "CMBM-20251029.bin.gz"},
		{format.CompressionZstd, "CMBM-20251029.bin.zst"},
		{format.CompressionS2, "CMBM-20251029.bin.s2"},
		{format.CompressionLZ4, "CMBM-20251029.bin.lz4"},
		{format.CompressionNone, "CMBM-20251029.bin"},
	}

	for _, tt := range tests {
		t.Run(tt.compression.String(), func(t *testing.T) {
			got, err := FileName("CMBM", date, tt.compression)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	t.Run("invalid", func(t *testing.T) {
		_, err := FileName("", date, format.CompressionGzip)
		require.ErrorIs(t, err, errs.ErrInvalidFileName)

		_, err = FileName("../etc", date, format.CompressionGzip)
		require.ErrorIs(t, err, errs.ErrInvalidFileName)

		_, err = FileName("CMBM", time.Time{}, format.CompressionGzip)
		require.ErrorIs(t, err, errs.ErrInvalidFileName)
	})
}

func TestParseFileName(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		tests := []struct {
			path        string
			symbol      string
			compression format.CompressionType
		}{
			{"/data/sessions/CMBM-20251029.bin.gz", "CMBM", format.CompressionGzip},
			{"CMBM-20251029.bin.zst", "CMBM", format.CompressionZstd},
			{"BRK-B-20251029.bin.lz4", "BRK-B", format.CompressionLZ4},
			{"CMBM-20251029.bin", "CMBM", format.CompressionNone},
		}

		for _, tt := range tests {
			got, err := ParseFileName(tt.path)
			require.NoError(t, err, tt.path)
			require.Equal(t, tt.symbol, got.Symbol)
			require.Equal(t, tt.compression, got.Compression)
			require.Equal(t, time.Date(2025, 10, 29, 0, 0, 0, 0, time.UTC), got.Date)
		}
	})

	t.Run("invalid", func(t *testing.T) {
		for _, path := range []string{
			"CMBM-20251029.csv",
			"CMBM-20251029.gz",
			"CMBM20251029.bin.gz",
			"-20251029.bin.gz",
			"CMBM-2025-10-29.bin.gz",
			"CMBM-20251329.bin.gz",
		} {
			_, err := ParseFileName(path)
			require.ErrorIs(t, err, errs.ErrInvalidFileName, path)
		}
	})

	t.Run("round trip", func(t *testing.T) {
		date := time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC)
		name, err := FileName("ES.FUT", date, format.CompressionS2)
		require.NoError(t, err)

		got, err := ParseFileName(name)
		require.NoError(t, err)
		require.Equal(t, ParsedName{Symbol: "ES.FUT", Date: date, Compression: format.CompressionS2}, got)
	})
}

func TestDetectCompression(t *testing.T) {
	payload := []byte("TICK\x01")

	for _, ct := range []format.CompressionType{
		format.CompressionGzip, format.CompressionZstd, format.CompressionS2, format.CompressionLZ4,
	} {
		codec := mustCodec(t, ct)
		data, err := codec.Compress(payload)
		require.NoError(t, err)

		// content wins over a misleading extension
		require.Equal(t, ct, DetectCompression("x.bin", data), ct.String())
	}

	require.Equal(t, format.CompressionNone, DetectCompression("x.bin.gz", payload))
	require.Equal(t, format.CompressionZstd, DetectCompression("x.bin.zst", []byte{0, 1}))
	require.Equal(t, format.CompressionNone, DetectCompression("x.dat", []byte{0, 1}))
	require.Equal(t, format.CompressionNone, DetectCompression("x", nil))
}
