// errors.go - descriptive errors for the index format
//
// (c) 2024- Sudhi Herle <sudhi@herle.net>
//
// Licensing Terms: GPLv2
//
// If you need a commercial license for this work, please contact
// the author.
//
// This software does not come with any express or implied
// warranty; it is provided "as is". No claim  is made to its
// suitability for any purpose.

package locate

import (
	"errors"
	"fmt"
)

var (
	// ErrTooSmall is returned by Decode when a field (a u32 or a
	// length-prefixed byte string) runs past the end of the buffer.
	ErrTooSmall = errors.New("locate: buffer is not big enough")

	// ErrTruncated is returned by Load when the index stream ends
	// before all the sections its own counts promise.
	ErrTruncated = errors.New("locate: index file is truncated")

	// ErrBadCount is returned when an index references an out of
	// range path_id, file_id or offset.
	ErrBadCount = errors.New("locate: inconsistent count in index")
)

// FormatError wraps a lower level I/O or decoding error with the
// section of the index file that was being parsed when it occurred.
type FormatError struct {
	Section string
	Err     error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("locate: index: %s: %s", e.Section, e.Err.Error())
}

func (e *FormatError) Unwrap() error {
	return e.Err
}

var _ error = &FormatError{}
