package section

import "github.com/arloliu/tickarc/endian"

// Row is one fixed-size 24-byte record of the payload, holding already quantized fields.
type Row struct {
	DeltaTime int64 // microseconds relative to Header.BaseTimestamp
	BidPrice  int32
	AskPrice  int32
	BidSize   int32
	AskSize   int32
}

// AppendTo appends the 24-byte serialized row to dst.
func (r Row) AppendTo(dst []byte) []byte {
	engine := endian.GetLittleEndianEngine()

	dst = endian.AppendInt64(engine, dst, r.DeltaTime)
	dst = endian.AppendInt32(engine, dst, r.BidPrice)
	dst = endian.AppendInt32(engine, dst, r.AskPrice)
	dst = endian.AppendInt32(engine, dst, r.BidSize)
	dst = endian.AppendInt32(engine, dst, r.AskSize)

	return dst
}

// ParseRow parses a row from data, which must hold at least RowSize bytes.
func ParseRow(data []byte) Row {
	_ = data[RowSize-1] // bounds check hint to compiler

	engine := endian.GetLittleEndianEngine()

	return Row{
		DeltaTime: endian.Int64(engine, data[DeltaTimeOffset:BidPriceOffset]),
		BidPrice:  endian.Int32(engine, data[BidPriceOffset:AskPriceOffset]),
		AskPrice:  endian.Int32(engine, data[AskPriceOffset:BidSizeOffset]),
		BidSize:   endian.Int32(engine, data[BidSizeOffset:AskSizeOffset]),
		AskSize:   endian.Int32(engine, data[AskSizeOffset:RowSize]),
	}
}

// RowAt parses row i of a payload whose length has already been validated.
func RowAt(payload []byte, i int) Row {
	off := HeaderSize + i*RowSize
	return ParseRow(payload[off : off+RowSize])
}
