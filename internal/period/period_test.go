package period

import (
	"testing"
	"time"

	"github.com/fatali-fataliyev/budget_assistant/internal/budget"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestEndDateIsCalendarCorrect(t *testing.T) {
	tests := []struct {
		name  string
		start time.Time
		p     budget.PeriodType
		want  time.Time
	}{
		{name: "month from 31 Jan clamps to 28 Feb", start: date(2026, 1, 31), p: budget.PeriodMonth, want: date(2026, 2, 28)},
		{name: "month from 31 Jan in leap year", start: date(2028, 1, 31), p: budget.PeriodMonth, want: date(2028, 2, 29)},
		{name: "month mid-month", start: date(2026, 3, 15), p: budget.PeriodMonth, want: date(2026, 4, 15)},
		{name: "week", start: date(2026, 12, 28), p: budget.PeriodWeek, want: date(2027, 1, 4)},
		{name: "quarter from 30 Nov", start: date(2026, 11, 30), p: budget.PeriodQuarter, want: date(2027, 2, 28)},
		{name: "year from 29 Feb", start: date(2028, 2, 29), p: budget.PeriodYear, want: date(2029, 2, 28)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := EndDate(tt.start, tt.p)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}

	_, err := EndDate(date(2026, 1, 1), "DECADE")
	require.Error(t, err)
}

func TestAddMonthsNegative(t *testing.T) {
	assert.Equal(t, date(2025, 12, 31), AddMonths(date(2026, 1, 31), -1))
	assert.Equal(t, date(2025, 11, 30), AddMonths(date(2026, 3, 31), -4))
	assert.Equal(t, date(2024, 2, 28), AddMonths(date(2026, 2, 28), -24))
}

func TestResolveUsesMondayWeekStart(t *testing.T) {
	// Sunday 18 Oct 2026 still belongs to the week starting Monday 12 Oct.
	now := time.Date(2026, 10, 18, 21, 30, 0, 0, time.UTC)

	week := Resolve(Week, now)
	assert.Equal(t, date(2026, 10, 12), week.Start)
	assert.Equal(t, date(2026, 10, 19), week.End)

	prev := Resolve(PreviousWeek, now)
	assert.Equal(t, date(2026, 10, 5), prev.Start)
	assert.Equal(t, week.Start, prev.End)

	assert.True(t, week.Contains(now))
	assert.False(t, week.Contains(date(2026, 10, 19)))
}

func TestResolveRanges(t *testing.T) {
	now := time.Date(2026, 3, 31, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		token Token
		start time.Time
		end   time.Time
	}{
		{Today, date(2026, 3, 31), date(2026, 4, 1)},
		{Yesterday, date(2026, 3, 30), date(2026, 3, 31)},
		{Month, date(2026, 3, 1), date(2026, 4, 1)},
		{PreviousMonth, date(2026, 2, 1), date(2026, 3, 1)},
		{Quarter, date(2026, 1, 1), date(2026, 4, 1)},
		{Year, date(2026, 1, 1), date(2027, 1, 1)},
		{PreviousYear, date(2025, 1, 1), date(2026, 1, 1)},
	}

	for _, tt := range tests {
		t.Run(string(tt.token), func(t *testing.T) {
			r := Resolve(tt.token, now)
			assert.Equal(t, tt.start, r.Start)
			assert.Equal(t, tt.end, r.End)
		})
	}

	all := Resolve(All, now)
	assert.True(t, all.Contains(date(1990, 1, 1)))
	assert.Equal(t, 0, all.Days())
	assert.Equal(t, 31, Resolve(Month, now).Days())
}

func TestPrevious(t *testing.T) {
	now := time.Date(2026, 5, 20, 0, 0, 0, 0, time.UTC)
	q := Previous(Quarter, now)
	assert.Equal(t, date(2026, 1, 1), q.Start)
	assert.Equal(t, date(2026, 4, 1), q.End)
	assert.Equal(t, Resolve(PreviousMonth, now), Previous(Month, now))
}

func TestMonthRanges(t *testing.T) {
	now := time.Date(2026, 2, 10, 0, 0, 0, 0, time.UTC)

	ranges := MonthRanges(now, 3, false)
	require.Len(t, ranges, 3)
	assert.Equal(t, date(2025, 11, 1), ranges[0].Start)
	assert.Equal(t, date(2026, 1, 1), ranges[2].Start)
	assert.Equal(t, date(2026, 2, 1), ranges[2].End)

	withCurrent := MonthRanges(now, 2, true)
	assert.Equal(t, date(2026, 2, 1), withCurrent[1].Start)

	assert.Nil(t, MonthRanges(now, 0, true))
}

func TestParseToken(t *testing.T) {
	tok, err := ParseToken("previous_month")
	require.NoError(t, err)
	assert.Equal(t, PreviousMonth, tok)

	_, err = ParseToken("fortnight")
	require.Error(t, err)
	assert.Len(t, Tokens(), 10)
}
