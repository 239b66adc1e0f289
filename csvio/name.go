package csvio

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/arloliu/tickarc/errs"
)

const sourceDateLayout = "2006-01-02"

// ParseSourceName extracts the session symbol and date from an input file name such
// as "CMBM_2025-10-29_ALL-EXCHANGES_MBP-1.csv".
func ParseSourceName(path string) (string, time.Time, error) {
	base := filepath.Base(path)
	stem := strings.TrimSuffix(base, filepath.Ext(base))

	parts := strings.SplitN(stem, "_", 3)
	if len(parts) < 2 || parts[0] == "" {
		return "", time.Time{}, fmt.Errorf("%w: %q: expected SYMBOL_YYYY-MM-DD_*.csv", errs.ErrInvalidFileName, base)
	}

	date, err := time.Parse(sourceDateLayout, parts[1])
	if err != nil {
		return "", time.Time{}, fmt.Errorf("%w: %q: bad date: %w", errs.ErrInvalidFileName, base, err)
	}

	return parts[0], date, nil
}

// OutputName returns the CSV file name for an archive path:
// "CMBM-20251029.bin.gz" becomes "CMBM-20251029.csv".
func OutputName(archivePath string) string {
	base := filepath.Base(archivePath)

	stem := base
	if ext := filepath.Ext(base); ext != ".bin" {
		stem = strings.TrimSuffix(base, ext)
	}

	return strings.TrimSuffix(stem, ".bin") + ".csv"
}
