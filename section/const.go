package section

// offset and section sizes in the payload
const (
	MagicSize  = 4  // length of the magic literal
	HeaderSize = 17 // fixed header size in bytes
	RowSize    = 24 // fixed row size in bytes

	VersionOffset       = 4 // byte offset of the version byte
	RowCountOffset      = 5 // byte offset of the row count
	BaseTimestampOffset = 9 // byte offset of the base timestamp

	DeltaTimeOffset = 0  // row-relative offset of the delta time
	BidPriceOffset  = 8  // row-relative offset of the scaled bid price
	AskPriceOffset  = 12 // row-relative offset of the scaled ask price
	BidSizeOffset   = 16 // row-relative offset of the scaled bid size
	AskSizeOffset   = 20 // row-relative offset of the scaled ask size
)

// PayloadSize returns HeaderSize + RowSize*rowCount.
// It is computed in int64 so that any uint32 row count is representable.
func PayloadSize(rowCount uint32) int64 {
	return HeaderSize + RowSize*int64(rowCount)
}
