package archive

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/arloliu/tickarc/errs"
	"github.com/arloliu/tickarc/format"
)

const (
	dateLayout    = "20060102"
	payloadSuffix = ".bin"
)

// FileName returns "<SYMBOL>-<YYYYMMDD>.bin[.<ext>]" for a session.
//
// The symbol must be non-empty and must not contain path separators or whitespace.
func FileName(symbol string, date time.Time, compression format.CompressionType) (string, error) {
	if err := validateSymbol(symbol); err != nil {
		return "", err
	}
	if date.IsZero() {
		return "", fmt.Errorf("%w: zero session date", errs.ErrInvalidFileName)
	}

	name := symbol + "-" + date.Format(dateLayout) + payloadSuffix
	if ext := compression.Extension(); ext != "" {
		name += "." + ext
	}

	return name, nil
}

// ParsedName is the information carried by an archive file name.
type ParsedName struct {
	Symbol      string
	Date        time.Time
	Compression format.CompressionType
}

// ParseFileName parses the base name of path. Symbols may contain '-'; the date is
// taken after the last one.
func ParseFileName(path string) (ParsedName, error) {
	base := filepath.Base(path)
	stem := base

	compression := format.CompressionNone
	if ext := filepath.Ext(stem); ext != payloadSuffix {
		c, ok := format.CompressionFromExtension(ext)
		if !ok || c == format.CompressionNone {
			return ParsedName{}, fmt.Errorf("%w: %q: unknown suffix %q", errs.ErrInvalidFileName, base, ext)
		}
		compression = c
		stem = strings.TrimSuffix(stem, ext)
	}

	if !strings.HasSuffix(stem, payloadSuffix) {
		return ParsedName{}, fmt.Errorf("%w: %q: missing %s", errs.ErrInvalidFileName, base, payloadSuffix)
	}
	stem = strings.TrimSuffix(stem, payloadSuffix)

	i := strings.LastIndexByte(stem, '-')
	if i <= 0 {
		return ParsedName{}, fmt.Errorf("%w: %q: expected SYMBOL-YYYYMMDD", errs.ErrInvalidFileName, base)
	}

	date, err := time.Parse(dateLayout, stem[i+1:])
	if err != nil {
		return ParsedName{}, fmt.Errorf("%w: %q: bad date: %w", errs.ErrInvalidFileName, base, err)
	}

	return ParsedName{Symbol: stem[:i], Date: date, Compression: compression}, nil
}

func validateSymbol(symbol string) error {
	if symbol == "" {
		return fmt.Errorf("%w: empty symbol", errs.ErrInvalidFileName)
	}
	if strings.ContainsAny(symbol, "/\\ \t\r\n") {
		return fmt.Errorf("%w: symbol %q", errs.ErrInvalidFileName, symbol)
	}

	return nil
}
