// Package endian provides the byte order used by the tick archive payload.
//
// The payload is little-endian throughout, regardless of the host. The helpers in this
// package add signed-integer accessors on top of encoding/binary so row fields can be
// written and read without casts at every call site:
//
//	engine := endian.GetLittleEndianEngine()
//	buf = endian.AppendInt64(engine, buf, delta)
//	delta = endian.Int64(engine, buf[0:8])
//
// All functions are safe for concurrent use; engines are immutable and stateless.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// AppendInt64 appends v as a two's complement 64-bit integer.
func AppendInt64(engine EndianEngine, b []byte, v int64) []byte {
	return engine.AppendUint64(b, uint64(v)) //nolint:gosec
}

// AppendInt32 appends v as a two's complement 32-bit integer.
func AppendInt32(engine EndianEngine, b []byte, v int32) []byte {
	return engine.AppendUint32(b, uint32(v)) //nolint:gosec
}

// Int64 reads a two's complement 64-bit integer from b[0:8].
func Int64(engine EndianEngine, b []byte) int64 {
	return int64(engine.Uint64(b)) //nolint:gosec
}

// Int32 reads a two's complement 32-bit integer from b[0:4].
func Int32(engine EndianEngine, b []byte) int32 {
	return int32(engine.Uint32(b)) //nolint:gosec
}
