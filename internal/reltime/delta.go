// Package reltime resolves reference-time expressions into absolute
// timestamps. An expression is either an absolute date, the literal "0"
// meaning the frozen "now" snapshot, or a relative expression like
// "3days 4 hours 10seconds" that is subtracted from the snapshot using
// signed calendar arithmetic.
package reltime

import "time"

// Delta is a signed calendar offset. Fields are plain accumulators and may
// hold any magnitude, including out-of-range values; they only become a
// calendar date when applied to a base timestamp via Apply.
type Delta struct {
	Years   int
	Months  int
	Days    int
	Hours   int
	Minutes int
	Seconds int
}

// Neg returns the delta with every field negated.
func (d Delta) Neg() Delta {
	return Delta{
		Years:   -d.Years,
		Months:  -d.Months,
		Days:    -d.Days,
		Hours:   -d.Hours,
		Minutes: -d.Minutes,
		Seconds: -d.Seconds,
	}
}

// IsZero reports whether every field is zero.
func (d Delta) IsZero() bool {
	return d == Delta{}
}

// monthDays holds the day count per month in a non-leap year; index 0 unused.
var monthDays = [13]int{0, 31, 28, 31, 30, 31, 30, 31, 31, 30, 31, 30, 31}

func isLeap(year int) bool {
	return year%4 == 0 && (year%100 != 0 || year%400 == 0)
}

// daysIn returns the number of days in (year, month). Month must already be
// normalized into [1,12].
func daysIn(year, month int) int {
	if month == 2 && isLeap(year) {
		return 29
	}
	return monthDays[month]
}

// normMonth brings month into [1,12], carrying whole years.
func normMonth(year, month int) (int, int) {
	for month > 12 {
		month -= 12
		year++
	}
	for month < 1 {
		month += 12
		year--
	}
	return year, month
}

// Apply adds d to base and normalizes the result into a valid calendar
// timestamp. Normalization runs field by field in a fixed order: seconds
// into minutes, minutes into hours, hours into days, then month into
// [1,12], and finally day against the day count of its (year, month).
// Month goes first, so day borrowing always sees a valid month context.
//
// A day is considered valid when 1 <= day <= daysIn(year, month); a day
// equal to the month's length stays in that month. Overflow walks forward
// month by month, underflow borrows from the preceding month.
//
// Apply is not an exact group action: adding a delta whose day or month
// component crosses a shorter month clamps, so (base + d) - d need not
// round-trip. Only deltas that trigger no clamp are exact inverses.
func Apply(base time.Time, d Delta) time.Time {
	year := base.Year() + d.Years
	month := int(base.Month()) + d.Months
	day := base.Day() + d.Days
	hour := base.Hour() + d.Hours
	min := base.Minute() + d.Minutes
	sec := base.Second() + d.Seconds

	for sec < 0 {
		sec += 60
		min--
	}
	for sec >= 60 {
		sec -= 60
		min++
	}
	for min < 0 {
		min += 60
		hour--
	}
	for min >= 60 {
		min -= 60
		hour++
	}
	for hour < 0 {
		hour += 24
		day--
	}
	for hour >= 24 {
		hour -= 24
		day++
	}

	year, month = normMonth(year, month)

	for day < 1 {
		month--
		year, month = normMonth(year, month)
		day += daysIn(year, month)
	}
	for day > daysIn(year, month) {
		day -= daysIn(year, month)
		month++
		year, month = normMonth(year, month)
	}

	return time.Date(year, time.Month(month), day, hour, min, sec, base.Nanosecond(), base.Location())
}
