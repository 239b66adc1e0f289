package container

import (
	"fmt"

	"github.com/arloliu/tickarc/errs"
)

type unsortedError struct {
	row  int
	prev int64
	cur  int64
}

func (e *unsortedError) Error() string {
	return fmt.Sprintf("%s: row %d timestamp %d < previous %d", errs.ErrUnsorted, e.row, e.cur, e.prev)
}

func (e *unsortedError) Unwrap() error {
	return errs.ErrUnsorted
}
