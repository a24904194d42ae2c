// Package dostime encodes and decodes the MS-DOS date/time pair stored in
// ZIP local and central directory headers.
//
// The encoding packs a date into 16 bits (7-bit year offset from 1980, 4-bit
// month, 5-bit day) and a time into 16 bits (5-bit hour, 6-bit minute, 5-bit
// second/2), so only years 1980 through 2107 are representable.
package dostime

import (
	"fmt"
	"time"

	"github.com/Fuabioo/zipread/internal/errors"
)

const (
	// MinYear is the first year the encoding can represent.
	MinYear = 1980
	// MaxYear is the last year the encoding can represent.
	MaxYear = 2107
)

// DateTime is a calendar timestamp known to fit the MS-DOS encoding.
// Construct it with New, FromDOS or FromTime.
type DateTime struct {
	Year   uint16
	Month  uint8
	Day    uint8
	Hour   uint8
	Minute uint8
	Second uint8
}

// Default returns 1980-01-01 00:00:00, the zero of the encoding.
func Default() DateTime {
	return DateTime{Year: MinYear, Month: 1, Day: 1}
}

// New validates the fields and returns a DateTime.
// Second may be 60 to allow a leap second.
func New(year uint16, month, day, hour, minute, second uint8) (DateTime, error) {
	if year < MinYear || year > MaxYear {
		return DateTime{}, errors.DateTimeOutOfBounds
	}
	if month < 1 || month > 12 {
		return DateTime{}, errors.DateTimeOutOfBounds
	}
	if day < 1 || day > daysIn(year, month) {
		return DateTime{}, errors.DateTimeOutOfBounds
	}
	if hour > 23 || minute > 59 || second > 60 {
		return DateTime{}, errors.DateTimeOutOfBounds
	}
	return DateTime{
		Year:   year,
		Month:  month,
		Day:    day,
		Hour:   hour,
		Minute: minute,
		Second: second,
	}, nil
}

// FromDOS decodes a date/time pair as stored in a ZIP header.
func FromDOS(date, tm uint16) (DateTime, error) {
	year := uint16(date>>9) + MinYear
	month := uint8((date >> 5) & 0x0f)
	day := uint8(date & 0x1f)

	hour := uint8(tm >> 11)
	minute := uint8((tm >> 5) & 0x3f)
	second := uint8(tm&0x1f) * 2

	return New(year, month, day, hour, minute, second)
}

// FromTime converts t, using its own location, into a DateTime.
// Sub-second precision is dropped.
func FromTime(t time.Time) (DateTime, error) {
	year := t.Year()
	if year < MinYear || year > MaxYear {
		return DateTime{}, errors.DateTimeOutOfBounds
	}
	return New(uint16(year), uint8(t.Month()), uint8(t.Day()), uint8(t.Hour()), uint8(t.Minute()), uint8(t.Second()))
}

// DOS encodes d. Seconds are stored with two-second resolution, so odd
// seconds round down.
func (d DateTime) DOS() (date, tm uint16) {
	date = (d.Year-MinYear)<<9 | uint16(d.Month)<<5 | uint16(d.Day)
	tm = uint16(d.Hour)<<11 | uint16(d.Minute)<<5 | uint16(d.Second/2)
	return date, tm
}

// Time returns d as a time.Time in loc. A nil loc means UTC.
func (d DateTime) Time(loc *time.Location) time.Time {
	if loc == nil {
		loc = time.UTC
	}
	return time.Date(int(d.Year), time.Month(d.Month), int(d.Day), int(d.Hour), int(d.Minute), int(d.Second), 0, loc)
}

// IsZero reports whether d was never set.
func (d DateTime) IsZero() bool {
	return d == DateTime{}
}

func (d DateTime) String() string {
	return fmt.Sprintf("%04d-%02d-%02d %02d:%02d:%02d", d.Year, d.Month, d.Day, d.Hour, d.Minute, d.Second)
}

func daysIn(year uint16, month uint8) uint8 {
	switch month {
	case 2:
		if year%4 == 0 && (year%100 != 0 || year%400 == 0) {
			return 29
		}
		return 28
	case 4, 6, 9, 11:
		return 30
	}
	return 31
}
