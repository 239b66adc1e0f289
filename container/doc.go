// Package container encodes tick sessions into the raw archive payload and decodes them back.
//
// The payload is the uncompressed form of an archive: a 17-byte header followed by one
// 24-byte row per record (see package section for the exact layout). Compression and
// file handling live in package archive; this package only maps records to bytes.
//
// # Encoding
//
//	encoder, err := container.NewEncoder()
//	payload, err := encoder.Encode(records) // records sorted by timestamp
//
// The encoder validates ordering and ranges but never reorders records. Timestamps are
// stored as deltas from the first record; prices and sizes are quantized by the
// quant.Quantizer bound to the format version.
//
// # Decoding
//
//	decoder, err := container.NewDecoder(payload)
//	for i, rec := range decoder.All() {
//	    fmt.Println(i, rec.Timestamp, rec.BidPrice)
//	}
//
// NewDecoder validates the header and the exact payload length up front; rows are
// decoded lazily as the sequence is consumed, and the sequence can be iterated any
// number of times.
package container
