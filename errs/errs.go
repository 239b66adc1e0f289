// Package errs defines the error values returned by tickarc encoders, decoders and archives.
//
// Every failure is reported either as one of the sentinel errors below or as a typed
// error that unwraps to one of them, so callers can always use errors.Is for
// classification and errors.As for details:
//
//	var te *errs.TruncatedError
//	if errors.As(err, &te) {
//	    fmt.Printf("expected %d bytes, got %d\n", te.Expected, te.Actual)
//	}
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrFormat reports a bad magic literal or a structurally invalid header.
	ErrFormat = errors.New("invalid archive format")
	// ErrUnsupportedVersion reports a recognized magic with an unknown version byte.
	ErrUnsupportedVersion = errors.New("unsupported archive version")
	// ErrTruncated reports a payload whose length does not match 17 + 24*row_count.
	ErrTruncated = errors.New("truncated archive")
	// ErrEncodingRange reports a value that does not fit its fixed-width slot.
	ErrEncodingRange = errors.New("value out of encodable range")
	// ErrToleranceViolation reports a round-tripped value outside the quantization bound.
	ErrToleranceViolation = errors.New("round-trip tolerance exceeded")
	// ErrUnsorted reports records whose timestamps decrease.
	ErrUnsorted = errors.New("records not sorted by timestamp")
	// ErrInvalidScale reports a quantizer scale that is not a positive power of ten.
	ErrInvalidScale = errors.New("invalid quantization scale")
	// ErrInvalidFileName reports a file name that does not follow the naming convention.
	ErrInvalidFileName = errors.New("invalid file name")
	// ErrInput reports tabular input that cannot be turned into tick records.
	ErrInput = errors.New("invalid input data")
)

// VersionError carries the version byte that was not recognized.
type VersionError struct {
	Version uint8
}

func (e *VersionError) Error() string {
	return fmt.Sprintf("%s: %d", ErrUnsupportedVersion, e.Version)
}

func (e *VersionError) Unwrap() error {
	return ErrUnsupportedVersion
}

// TruncatedError carries the expected and actual payload sizes in bytes.
type TruncatedError struct {
	Expected int64
	Actual   int64
}

func (e *TruncatedError) Error() string {
	return fmt.Sprintf("%s: expected %d bytes, got %d", ErrTruncated, e.Expected, e.Actual)
}

func (e *TruncatedError) Unwrap() error {
	return ErrTruncated
}

// RangeError carries the field and row of a value that cannot be encoded.
// Row is -1 when the value is not tied to a row (e.g. the row count itself).
type RangeError struct {
	Field string
	Row   int
	Value any
}

func (e *RangeError) Error() string {
	if e.Row < 0 {
		return fmt.Sprintf("%s: %s=%v", ErrEncodingRange, e.Field, e.Value)
	}

	return fmt.Sprintf("%s: row %d %s=%v", ErrEncodingRange, e.Row, e.Field, e.Value)
}

func (e *RangeError) Unwrap() error {
	return ErrEncodingRange
}

// ToleranceError describes one value that did not survive the round trip within Bound.
type ToleranceError struct {
	Row      int
	Field    string
	Original float64
	Decoded  float64
	Bound    float64
}

func (e *ToleranceError) Error() string {
	return fmt.Sprintf("%s: row %d %s original=%v decoded=%v bound=%v",
		ErrToleranceViolation, e.Row, e.Field, e.Original, e.Decoded, e.Bound)
}

func (e *ToleranceError) Unwrap() error {
	return ErrToleranceViolation
}

// Category groups errors by how a command should report them.
type Category uint8

const (
	CategoryNone   Category = iota // no error
	CategoryFormat                 // the archive or its input failed validation
	CategoryIO                     // reading, writing or decompressing failed
)

func (c Category) String() string {
	switch c {
	case CategoryNone:
		return "none"
	case CategoryFormat:
		return "format"
	default:
		return "io"
	}
}

// Classify maps err onto a Category. Anything that is not a validation failure is
// treated as an I/O failure.
func Classify(err error) Category {
	switch {
	case err == nil:
		return CategoryNone
	case errors.Is(err, ErrFormat),
		errors.Is(err, ErrUnsupportedVersion),
		errors.Is(err, ErrTruncated),
		errors.Is(err, ErrEncodingRange),
		errors.Is(err, ErrUnsorted),
		errors.Is(err, ErrToleranceViolation),
		errors.Is(err, ErrInvalidFileName),
		errors.Is(err, ErrInput):
		return CategoryFormat
	default:
		return CategoryIO
	}
}
