// Package section defines the low-level binary structures and constants of the tick
// archive payload.
//
// The payload is what remains after the archive file has been decompressed: a fixed
// header followed by a contiguous array of fixed-size rows. Every field is
// little-endian.
//
// # Payload Structure
//
//	┌─────────────────────────────────────────────────────────┐
//	│ Header (17 bytes, fixed)                                │
//	│  - Magic "TICK" (4 bytes)                               │
//	│  - Version (1 byte)                                     │
//	│  - RowCount (4 bytes)                                   │
//	│  - BaseTimestamp (8 bytes)                              │
//	├─────────────────────────────────────────────────────────┤
//	│ Rows (RowCount × 24 bytes, fixed per row)               │
//	└─────────────────────────────────────────────────────────┘
//
// # Header Format
//
//	Bytes  | Field          | Type    | Description
//	-------|----------------|---------|----------------------------------
//	0-3    | Magic          | [4]byte | ASCII "TICK"
//	4      | Version        | uint8   | Payload layout version (1)
//	5-8    | RowCount       | uint32  | Number of rows that follow
//	9-16   | BaseTimestamp  | uint64  | Microseconds since epoch of row 0
//
// # Row Format
//
//	Bytes  | Field          | Type    | Description
//	-------|----------------|---------|----------------------------------
//	0-7    | DeltaTime      | int64   | Microseconds since BaseTimestamp
//	8-11   | BidPrice       | int32   | Bid price × price scale
//	12-15  | AskPrice       | int32   | Ask price × price scale
//	16-19  | BidSize        | int32   | Bid size × size scale
//	20-23  | AskSize        | int32   | Ask size × size scale
//
// The total payload size is always HeaderSize + RowSize × RowCount; see PayloadSize.
package section
