package reltime

import (
	"fmt"
	"regexp"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ParseError reports the unparsed remainder of a reference-time expression.
type ParseError struct {
	Expr      string // full input expression
	Offset    int    // byte offset of the first unconsumed character
	Remainder string // unconsumed text starting at Offset
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("reltime: cannot parse %q: unrecognized %q at offset %d", e.Expr, e.Remainder, e.Offset)
}

// absoluteLayouts are the fixed-width absolute date formats, tried in order
// before falling back to relative parsing.
var absoluteLayouts = []string{
	"20060102 15:04:05",
	"20060102",
}

type unit int

const (
	unitYear unit = iota
	unitMonth
	unitWeek
	unitDay
	unitHour
	unitMinute
	unitSecond
)

// aliases maps every accepted unit spelling to its unit.
var aliases = map[string]unit{
	"year": unitYear, "years": unitYear,
	"month": unitMonth, "months": unitMonth,
	"week": unitWeek, "weeks": unitWeek,
	"day": unitDay, "days": unitDay,
	"hour": unitHour, "hours": unitHour,
	"minute": unitMinute, "minutes": unitMinute,
	"second": unitSecond, "seconds": unitSecond,
}

// tokenRe matches one signed magnitude followed by a unit alias. The
// alternation is built with aliases sorted by descending length so that
// "months" matches before its prefix "month". A leading zero is only legal
// as the bare literal "0".
var tokenRe = buildTokenRe()

// separatorRe matches the optional run of commas and whitespace between tokens.
var separatorRe = regexp.MustCompile(`^[,\s]+`)

func buildTokenRe() *regexp.Regexp {
	names := make([]string, 0, len(aliases))
	for a := range aliases {
		names = append(names, a)
	}
	sort.Slice(names, func(i, j int) bool {
		if len(names[i]) != len(names[j]) {
			return len(names[i]) > len(names[j])
		}
		return names[i] < names[j]
	})
	return regexp.MustCompile(`^([+-]?(?:0|[1-9][0-9]*))\s*(` + strings.Join(names, "|") + `)`)
}

// Resolver converts reference-time expressions into absolute timestamps.
// Now is captured once per run; every selection resolved through the same
// Resolver compares against the same snapshot, even if wall-clock time
// advances while the run is in progress.
type Resolver struct {
	Now time.Time
}

// NewResolver returns a Resolver frozen at the given snapshot.
func NewResolver(now time.Time) *Resolver {
	return &Resolver{Now: now}
}

// Resolve converts expr into an absolute timestamp. The literal "0" means
// the frozen snapshot itself; absolute layouts are tried next; anything else
// is parsed as a relative expression and subtracted from the snapshot.
func (r *Resolver) Resolve(expr string) (time.Time, error) {
	trimmed := strings.TrimSpace(expr)
	if trimmed == "0" {
		return r.Now, nil
	}
	for _, layout := range absoluteLayouts {
		if t, err := time.ParseInLocation(layout, trimmed, r.Now.Location()); err == nil {
			return t, nil
		}
	}
	d, err := Parse(expr)
	if err != nil {
		return time.Time{}, err
	}
	return Apply(r.Now, d.Neg()), nil
}

// Parse tokenizes a relative expression into an accumulated Delta. Weeks
// contribute seven days each. Any residual text that matches neither a
// separator nor a token fails with a *ParseError naming the remainder.
func Parse(expr string) (Delta, error) {
	var d Delta
	rest := expr
	matched := false
	for {
		if sep := separatorRe.FindString(rest); sep != "" {
			rest = rest[len(sep):]
		}
		if rest == "" {
			break
		}
		m := tokenRe.FindStringSubmatch(rest)
		if m == nil {
			return Delta{}, &ParseError{Expr: expr, Offset: len(expr) - len(rest), Remainder: rest}
		}
		n, err := strconv.Atoi(m[1])
		if err != nil {
			return Delta{}, &ParseError{Expr: expr, Offset: len(expr) - len(rest), Remainder: rest}
		}
		switch aliases[m[2]] {
		case unitYear:
			d.Years += n
		case unitMonth:
			d.Months += n
		case unitWeek:
			d.Days += 7 * n
		case unitDay:
			d.Days += n
		case unitHour:
			d.Hours += n
		case unitMinute:
			d.Minutes += n
		case unitSecond:
			d.Seconds += n
		}
		rest = rest[len(m[0]):]
		matched = true
	}
	if !matched {
		return Delta{}, &ParseError{Expr: expr, Offset: 0, Remainder: expr}
	}
	return d, nil
}
