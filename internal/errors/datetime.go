package errors

import "fmt"

// DateTimeError is returned by the legacy MS-DOS timestamp codec.
type DateTimeError int

const (
	// DateTimeOutOfBounds means the date falls outside 1980..2107 or a field
	// is outside its calendar range.
	DateTimeOutOfBounds DateTimeError = iota
)

func (e DateTimeError) Error() string {
	switch e {
	case DateTimeOutOfBounds:
		return "datetime out of bounds"
	}
	panic(fmt.Sprintf("errors: unhandled datetime error %d", int(e)))
}

// ErrInvalidPassword is returned when a supplied password does not decrypt an
// entry.
var ErrInvalidPassword = invalidPassword{}

type invalidPassword struct{}

func (invalidPassword) Error() string {
	return "invalid password for file in archive"
}
