// Package date implements the monthly calendar used to anchor dated
// vectors: a YYYYMM integer with month-only arithmetic. It deliberately
// knows nothing about days, weekends, or holidays — that belongs to a
// calendar collaborator outside this module's scope.
package date

import (
	"fmt"

	"github.com/meenmo/tachygo/tachyerr"
)

// Date is year*100+month, e.g. 202403 for March 2024.
type Date struct {
	year  int
	month int
}

// MinDate is January, year 10 (YYYYMM 1001), the floor of the valid range.
var MinDate = Date{year: 10, month: 1}

// New builds a Date from a YYYYMM integer, e.g. New(202403).
func New(yyyymm int) (Date, error) {
	y, m := yyyymm/100, yyyymm%100
	d := Date{year: y, month: m}
	if !d.isValid() {
		return Date{}, fmt.Errorf("date %d: %w", yyyymm, tachyerr.ErrInvalidDate)
	}
	return d, nil
}

// MustNew is New but panics on an invalid date; for literals known valid
// at compile time.
func MustNew(yyyymm int) Date {
	d, err := New(yyyymm)
	if err != nil {
		panic(err)
	}
	return d
}

// FromYearMonth builds a Date directly from year and month components.
func FromYearMonth(year, month int) (Date, error) {
	d := Date{year: year, month: month}
	if !d.isValid() {
		return Date{}, fmt.Errorf("year %d month %d: %w", year, month, tachyerr.ErrInvalidDate)
	}
	return d, nil
}

func (d Date) isValid() bool {
	return d.month > 0 && d.month < 13 && d.year > 0 && d.year < 10000 && !d.Before(MinDate)
}

// Year returns the calendar year.
func (d Date) Year() int { return d.year }

// Month returns the calendar month, 1..12.
func (d Date) Month() int { return d.month }

// AsInt returns the YYYYMM representation.
func (d Date) AsInt() int { return 100*d.year + d.month }

func (d Date) String() string {
	return fmt.Sprintf("%04d%02d", d.year, d.month)
}

// AddMonths returns the date shifted by the given number of months
// (positive or negative). The result is not range-checked: a shift that
// moves past either end of the valid range yields a Date that New would
// reject.
func (d Date) AddMonths(months int) Date {
	total := d.year*12 + (d.month - 1) + months
	y := total / 12
	m := total%12 + 1
	if m <= 0 {
		m += 12
		y--
	}
	return Date{year: y, month: m}
}

// Sub returns the number of months from other to d (d - other).
func (d Date) Sub(other Date) int {
	return 12*(d.year-other.year) + (d.month - other.month)
}

// Before reports whether d is strictly earlier than other.
func (d Date) Before(other Date) bool {
	return d.Sub(other) < 0
}

// After reports whether d is strictly later than other.
func (d Date) After(other Date) bool {
	return d.Sub(other) > 0
}

// Equal reports whether d and other denote the same month.
func (d Date) Equal(other Date) bool {
	return d.year == other.year && d.month == other.month
}

// Max returns the later of two dates.
func Max(a, b Date) Date {
	if a.Before(b) {
		return b
	}
	return a
}

// Min returns the earlier of two dates.
func Min(a, b Date) Date {
	if b.Before(a) {
		return b
	}
	return a
}
