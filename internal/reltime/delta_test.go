package reltime

import (
	"testing"
	"time"
)

func date(y int, mo time.Month, d, h, mi, s int) time.Time {
	return time.Date(y, mo, d, h, mi, s, 0, time.UTC)
}

func TestApply_Normalization(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		base  time.Time
		delta Delta
		want  time.Time
	}{
		{
			name:  "zero delta is identity",
			base:  date(2013, time.March, 13, 10, 12, 13),
			delta: Delta{},
			want:  date(2013, time.March, 13, 10, 12, 13),
		},
		{
			name:  "seconds carry into minutes",
			base:  date(2013, time.March, 13, 10, 12, 50),
			delta: Delta{Seconds: 20},
			want:  date(2013, time.March, 13, 10, 13, 10),
		},
		{
			name:  "minutes borrow from hours",
			base:  date(2013, time.March, 13, 10, 0, 0),
			delta: Delta{Minutes: -1},
			want:  date(2013, time.March, 13, 9, 59, 0),
		},
		{
			name:  "hours carry into days",
			base:  date(2013, time.March, 31, 23, 0, 0),
			delta: Delta{Hours: 2},
			want:  date(2013, time.April, 1, 1, 0, 0),
		},
		{
			name:  "day borrow crosses month start",
			base:  date(2013, time.March, 1, 0, 0, 0),
			delta: Delta{Days: -1},
			want:  date(2013, time.February, 28, 0, 0, 0),
		},
		{
			name:  "day borrow sees leap february",
			base:  date(2012, time.March, 1, 0, 0, 0),
			delta: Delta{Days: -1},
			want:  date(2012, time.February, 29, 0, 0, 0),
		},
		{
			name:  "day overflow walks forward",
			base:  date(2013, time.January, 30, 0, 0, 0),
			delta: Delta{Days: 5},
			want:  date(2013, time.February, 4, 0, 0, 0),
		},
		{
			name:  "month carry crosses year boundary",
			base:  date(2013, time.November, 15, 0, 0, 0),
			delta: Delta{Months: 3},
			want:  date(2014, time.February, 15, 0, 0, 0),
		},
		{
			name:  "month borrow crosses year boundary",
			base:  date(2013, time.January, 15, 0, 0, 0),
			delta: Delta{Months: -2},
			want:  date(2012, time.November, 15, 0, 0, 0),
		},
		{
			name:  "large second delta normalizes through every stage",
			base:  date(2013, time.December, 31, 23, 59, 59),
			delta: Delta{Seconds: 1},
			want:  date(2014, time.January, 1, 0, 0, 0),
		},
		{
			name: "last day of month stays in month",
			// Day 31 of January is valid: 1 <= day <= daysIn.
			base:  date(2013, time.January, 31, 12, 0, 0),
			delta: Delta{Years: 1},
			want:  date(2014, time.January, 31, 12, 0, 0),
		},
		{
			name: "month add onto a short month clamps forward",
			// Jan 31 + 1 month: day 31 exceeds February, spills into March.
			base:  date(2013, time.January, 31, 0, 0, 0),
			delta: Delta{Months: 1},
			want:  date(2013, time.March, 3, 0, 0, 0),
		},
		{
			name:  "negative year",
			base:  date(2012, time.February, 29, 0, 0, 0),
			delta: Delta{Years: -1},
			want:  date(2011, time.March, 1, 0, 0, 0),
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			got := Apply(tt.base, tt.delta)
			if !got.Equal(tt.want) {
				t.Errorf("Apply(%v, %+v) = %v, want %v", tt.base, tt.delta, got, tt.want)
			}
		})
	}
}

func TestApply_RoundTripWithoutClamp(t *testing.T) {
	t.Parallel()

	// Deltas that trigger no day-of-month clamp are exact inverses.
	base := date(2013, time.June, 15, 10, 30, 45)
	deltas := []Delta{
		{Seconds: 90},
		{Minutes: 125},
		{Hours: 36},
		{Days: 45},
		{Months: 4},
		{Years: 2},
		{Years: 1, Months: 2, Days: 3, Hours: 4, Minutes: 5, Seconds: 6},
	}
	for _, d := range deltas {
		there := Apply(base, d)
		back := Apply(there, d.Neg())
		if !back.Equal(base) {
			t.Errorf("Apply(Apply(%v, %+v), -Δ) = %v, want %v", base, d, back, base)
		}
	}
}

func TestApply_ClampDoesNotRoundTrip(t *testing.T) {
	t.Parallel()

	// Jan 31 + 1 month clamps across February; subtracting the month back
	// cannot restore the original date. This asymmetry is intentional.
	base := date(2013, time.January, 31, 0, 0, 0)
	d := Delta{Months: 1}
	back := Apply(Apply(base, d), d.Neg())
	if back.Equal(base) {
		t.Errorf("expected clamped delta not to round-trip, but it did: %v", back)
	}
}

func TestDelta_Neg(t *testing.T) {
	t.Parallel()

	d := Delta{Years: 1, Months: -2, Days: 3, Hours: -4, Minutes: 5, Seconds: -6}
	n := d.Neg()
	want := Delta{Years: -1, Months: 2, Days: -3, Hours: 4, Minutes: -5, Seconds: 6}
	if n != want {
		t.Errorf("Neg() = %+v, want %+v", n, want)
	}
	if !(Delta{}).IsZero() {
		t.Error("zero delta should report IsZero")
	}
}

func TestDaysIn(t *testing.T) {
	t.Parallel()

	tests := []struct {
		year, month, want int
	}{
		{2013, 1, 31},
		{2013, 2, 28},
		{2012, 2, 29}, // leap
		{2000, 2, 29}, // divisible by 400
		{1900, 2, 28}, // century, not leap
		{2013, 4, 30},
		{2013, 12, 31},
	}
	for _, tt := range tests {
		if got := daysIn(tt.year, tt.month); got != tt.want {
			t.Errorf("daysIn(%d, %d) = %d, want %d", tt.year, tt.month, got, tt.want)
		}
	}
}
