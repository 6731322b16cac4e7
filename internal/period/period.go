// Package period owns every calendar boundary used for bucketing: the
// period-token vocabulary, week start, month arithmetic and budget end dates.
package period

import (
	"fmt"
	"time"

	"github.com/fatali-fataliyev/budget_assistant/internal/budget"
)

// WeekStart is the first day of a week for every bucketing function.
const WeekStart = time.Monday

type Token string

const (
	Today         Token = "today"
	Yesterday     Token = "yesterday"
	Week          Token = "week"
	PreviousWeek  Token = "previous_week"
	Month         Token = "month"
	PreviousMonth Token = "previous_month"
	Quarter       Token = "quarter"
	Year          Token = "year"
	PreviousYear  Token = "previous_year"
	All           Token = "all"
)

var tokens = []Token{Today, Yesterday, Week, PreviousWeek, Month, PreviousMonth, Quarter, Year, PreviousYear, All}

func Tokens() []Token {
	out := make([]Token, len(tokens))
	copy(out, tokens)
	return out
}

func ParseToken(s string) (Token, error) {
	for _, t := range tokens {
		if string(t) == s {
			return t, nil
		}
	}
	return "", fmt.Errorf("unknown period token: %q", s)
}

// Range is a half-open interval [Start, End). A zero Start or End is unbounded.
type Range struct {
	Start time.Time
	End   time.Time
}

func (r Range) Contains(t time.Time) bool {
	if !r.Start.IsZero() && t.Before(r.Start) {
		return false
	}
	if !r.End.IsZero() && !t.Before(r.End) {
		return false
	}
	return true
}

// Days is the number of calendar days covered, 0 for unbounded ranges.
func (r Range) Days() int {
	if r.Start.IsZero() || r.End.IsZero() {
		return 0
	}
	return DaysBetween(r.Start, r.End)
}

// Resolve maps a token to its calendar range relative to now.
func Resolve(token Token, now time.Time) Range {
	today := StartOfDay(now)
	switch token {
	case Today:
		return Range{Start: today, End: today.AddDate(0, 0, 1)}
	case Yesterday:
		return Range{Start: today.AddDate(0, 0, -1), End: today}
	case Week:
		start := StartOfWeek(now)
		return Range{Start: start, End: start.AddDate(0, 0, 7)}
	case PreviousWeek:
		start := StartOfWeek(now)
		return Range{Start: start.AddDate(0, 0, -7), End: start}
	case Month:
		start := StartOfMonth(now)
		return Range{Start: start, End: AddMonths(start, 1)}
	case PreviousMonth:
		start := StartOfMonth(now)
		return Range{Start: AddMonths(start, -1), End: start}
	case Quarter:
		start := StartOfQuarter(now)
		return Range{Start: start, End: AddMonths(start, 3)}
	case Year:
		start := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, now.Location())
		return Range{Start: start, End: start.AddDate(1, 0, 0)}
	case PreviousYear:
		start := time.Date(now.Year()-1, time.January, 1, 0, 0, 0, 0, now.Location())
		return Range{Start: start, End: start.AddDate(1, 0, 0)}
	default:
		return Range{}
	}
}

// Previous returns the range of the same length immediately before token's
// range; used for period-over-period comparisons.
func Previous(token Token, now time.Time) Range {
	switch token {
	case Today:
		return Resolve(Yesterday, now)
	case Week:
		return Resolve(PreviousWeek, now)
	case Month:
		return Resolve(PreviousMonth, now)
	case Quarter:
		start := StartOfQuarter(now)
		return Range{Start: AddMonths(start, -3), End: start}
	case Year:
		return Resolve(PreviousYear, now)
	}
	return Range{}
}

// Label is the Vietnamese display text for a token.
func Label(token Token) string {
	switch token {
	case Today:
		return "hôm nay"
	case Yesterday:
		return "hôm qua"
	case Week:
		return "tuần này"
	case PreviousWeek:
		return "tuần trước"
	case Month:
		return "tháng này"
	case PreviousMonth:
		return "tháng trước"
	case Quarter:
		return "quý này"
	case Year:
		return "năm nay"
	case PreviousYear:
		return "năm trước"
	default:
		return "toàn bộ thời gian"
	}
}

func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

func StartOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	offset := (int(day.Weekday()) - int(WeekStart) + 7) % 7
	return day.AddDate(0, 0, -offset)
}

func StartOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

func StartOfQuarter(t time.Time) time.Time {
	first := time.Month((int(t.Month())-1)/3*3 + 1)
	return time.Date(t.Year(), first, 1, 0, 0, 0, 0, t.Location())
}

// DaysIn returns the number of days in the given month.
func DaysIn(year int, month time.Month, loc *time.Location) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, loc).Day()
}

// AddMonths moves t by n calendar months, clamping the day to the last day of
// the target month (31 Jan + 1 = 28/29 Feb).
func AddMonths(t time.Time, n int) time.Time {
	y, m, d := t.Date()
	total := int(m) - 1 + n
	ty := y + floorDiv(total, 12)
	tm := time.Month(total - floorDiv(total, 12)*12 + 1)
	if last := DaysIn(ty, tm, t.Location()); d > last {
		d = last
	}
	h, mi, s := t.Clock()
	return time.Date(ty, tm, d, h, mi, s, t.Nanosecond(), t.Location())
}

// EndDate is start advanced by one period of the given type.
func EndDate(start time.Time, p budget.PeriodType) (time.Time, error) {
	switch p {
	case budget.PeriodWeek:
		return start.AddDate(0, 0, 7), nil
	case budget.PeriodMonth:
		return AddMonths(start, 1), nil
	case budget.PeriodQuarter:
		return AddMonths(start, 3), nil
	case budget.PeriodYear:
		return AddMonths(start, 12), nil
	}
	return time.Time{}, fmt.Errorf("unknown period type: %q", p)
}

// MonthRanges returns n consecutive calendar-month ranges ending with the
// month that contains now when includeCurrent is set, else the month before.
// Oldest first.
func MonthRanges(now time.Time, n int, includeCurrent bool) []Range {
	if n <= 0 {
		return nil
	}
	last := StartOfMonth(now)
	if !includeCurrent {
		last = AddMonths(last, -1)
	}
	out := make([]Range, 0, n)
	for i := n - 1; i >= 0; i-- {
		start := AddMonths(last, -i)
		out = append(out, Range{Start: start, End: AddMonths(start, 1)})
	}
	return out
}

// DaysBetween counts calendar days from a to b, ignoring clock time.
func DaysBetween(a, b time.Time) int {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	ua := time.Date(ay, am, ad, 0, 0, 0, 0, time.UTC)
	ub := time.Date(by, bm, bd, 0, 0, 0, 0, time.UTC)
	return int(ub.Sub(ua).Hours() / 24)
}

func floorDiv(a, b int) int {
	q := a / b
	if (a%b != 0) && ((a < 0) != (b < 0)) {
		q--
	}
	return q
}
