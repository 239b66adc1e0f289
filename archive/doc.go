// Package archive stores tick sessions as compressed files and reads them back.
//
// One archive file holds one session (one symbol on one trading day). The file name
// carries the symbol and date; the payload carries only the records:
//
//	CMBM-20251029.bin.gz
//	^^^^ ^^^^^^^^ ^^^ ^^
//	 |      |      |   compression suffix (absent when uncompressed)
//	 |      |      payload marker
//	 |      trading date, YYYYMMDD
//	 symbol
//
// Writes are atomic: the compressed payload is written to a temporary file in the
// target directory, synced and renamed into place, so a failed write never leaves a
// partial file at the final path. After a write the Writer can read the file back and
// compare it against what was written (see CheckReport).
//
// Reads decompress the whole file into memory and validate it with container.NewDecoder.
// The codec is detected from the content magic, falling back to the file extension.
package archive
