// Package compress provides the whole-file codecs used to store tick archives.
//
// An archive payload is compressed as a single unit. Every codec here writes the
// standard self-describing container of its algorithm, so archives can be inspected
// with common command line tools (gzip, zstd, lz4) as well as with tickarc itself:
//
//   - None: raw payload, file suffix ".bin"
//   - Gzip: RFC 1952 stream, file suffix ".bin.gz" (the default)
//   - Zstd: Zstandard frame, file suffix ".bin.zst"
//   - S2: S2 stream (Snappy framing compatible), file suffix ".bin.s2"
//   - LZ4: LZ4 frame, file suffix ".bin.lz4"
//
// All codecs favour compression ratio over speed: archives are written once and read
// rarely.
//
// # Usage
//
//	codec, err := compress.GetCodec(format.CompressionGzip)
//	if err != nil {
//	    return err
//	}
//	compressed, err := codec.Compress(payload)
//
// Codecs are stateless values backed by pooled encoders and are safe for concurrent use.
package compress
