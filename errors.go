package idpool

import (
	"errors"
	"fmt"
)

var ErrOutOfRange = errors.New("identifier out of range")

// OutOfRangeError is returned when an identifier or slot does not resolve to
// a valid position. For Remove this includes identifiers that are not live:
// double removal and stale handles.
type OutOfRangeError struct {
	ID  int
	Cap int
	Len int
}

func (e OutOfRangeError) Error() string {
	return fmt.Sprintf("%s: %d (cap %d, live %d)", ErrOutOfRange, e.ID, e.Cap, e.Len)
}

func (e OutOfRangeError) Unwrap() error { return ErrOutOfRange }

// IsOutOfRangeError returns whether err is an OutOfRangeError
func IsOutOfRangeError(err error) bool {
	var e OutOfRangeError
	return errors.As(err, &e)
}
