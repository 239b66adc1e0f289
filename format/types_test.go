package format

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestVersion_IsSupported(t *testing.T) {
	require.True(t, Version1.IsSupported())
	require.True(t, CurrentVersion.IsSupported())
	require.False(t, Version(0).IsSupported())
	require.False(t, Version(2).IsSupported())
	require.Equal(t, "v1", Version1.String())
}

func TestParseCompression(t *testing.T) {
	tests := []struct {
		name string
		want CompressionType
	}{
		{"gzip", CompressionGzip},
		{"GZ", CompressionGzip},
		{"zstd", CompressionZstd},
		{" s2 ", CompressionS2},
		{"lz4", CompressionLZ4},
		{"none", CompressionNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseCompression(tt.name)
			require.NoError(t, err)
			require.Equal(t, tt.want, got)
		})
	}

	for _, bad := range []string{"brotli", "", "  "} {
		_, err := ParseCompression(bad)
		require.Error(t, err, "%q", bad)
	}
}

func TestCompressionExtensionRoundTrip(t *testing.T) {
	for _, c := range []CompressionType{CompressionGzip, CompressionZstd, CompressionS2, CompressionLZ4} {
		got, ok := CompressionFromExtension("." + c.Extension())
		require.True(t, ok, c.String())
		require.Equal(t, c, got)
	}

	got, ok := CompressionFromExtension("bin")
	require.True(t, ok)
	require.Equal(t, CompressionNone, got)
	require.Empty(t, CompressionNone.Extension())

	_, ok = CompressionFromExtension(".csv")
	require.False(t, ok)
	require.Equal(t, "Unknown", CompressionType(0x9).String())
}

func TestCompressionType_MarshalText(t *testing.T) {
	for _, c := range []CompressionType{CompressionNone, CompressionGzip, CompressionZstd, CompressionS2, CompressionLZ4} {
		text, err := c.MarshalText()
		require.NoError(t, err)

		var parsed CompressionType
		require.NoError(t, parsed.UnmarshalText(text))
		require.Equal(t, c, parsed)
	}
}

func TestCompressionType_UnmarshalTextInvalid(t *testing.T) {
	var c CompressionType
	require.Error(t, c.UnmarshalText([]byte("brotli")))
}
