package budget

import (
	"context"
	"fmt"
	"strings"
	"time"
)

type CategoryType string

const (
	CategoryExpense CategoryType = "expense"
	CategoryIncome  CategoryType = "income"
)

type PeriodType string

const (
	PeriodWeek    PeriodType = "WEEK"
	PeriodMonth   PeriodType = "MONTH"
	PeriodQuarter PeriodType = "QUARTER"
	PeriodYear    PeriodType = "YEAR"
)

func ParsePeriodType(s string) (PeriodType, error) {
	switch PeriodType(strings.ToUpper(strings.TrimSpace(s))) {
	case PeriodWeek:
		return PeriodWeek, nil
	case PeriodMonth:
		return PeriodMonth, nil
	case PeriodQuarter:
		return PeriodQuarter, nil
	case PeriodYear:
		return PeriodYear, nil
	}
	return "", fmt.Errorf("unknown period type: %q", s)
}

// MODELS:

type Category struct {
	ID    string
	Name  string
	Type  CategoryType
	Icon  string
	Color string
}

type Transaction struct {
	ID          string
	Title       string
	Amount      float64
	CategoryID  string
	IsIncome    bool
	Date        time.Time // calendar date, 00:00 local time
	DayOfWeek   string
	Wallet      string
	Description string
	Icon        string
	Color       string
	CreatedAt   time.Time
}

type Budget struct {
	ID          string
	CategoryID  string
	Amount      float64
	PeriodType  PeriodType
	StartDate   time.Time
	EndDate     time.Time
	SpentAmount float64
	IsActive    bool
	Note        string
	CreatedAt   time.Time
}

// UsagePercent is SpentAmount relative to Amount; a zero-amount budget is
// fully used as soon as anything is spent.
func (b Budget) UsagePercent() float64 {
	if b.Amount <= 0 {
		if b.SpentAmount > 0 {
			return 100
		}
		return 0
	}
	return b.SpentAmount / b.Amount * 100
}

// Covers reports whether date falls inside [StartDate, EndDate).
func (b Budget) Covers(date time.Time) bool {
	return !date.Before(b.StartDate) && date.Before(b.EndDate)
}

// COLLABORATORS:

type TransactionStore interface {
	CurrentTransactions(ctx context.Context) ([]Transaction, error)
	AddTransaction(ctx context.Context, t Transaction) error
}

type BudgetStore interface {
	CurrentBudgets(ctx context.Context) ([]Budget, error)
	AddBudget(ctx context.Context, b Budget) error
	UpdateBudget(ctx context.Context, b Budget) error
	DeleteBudget(ctx context.Context, budgetID string) error
}

type CategoryLookup interface {
	CategoryByID(ctx context.Context, id string) (Category, bool, error)
	CategoryByName(ctx context.Context, name string) (Category, bool, error)
	// Categories returns all categories of the given type, or all when t is empty.
	Categories(ctx context.Context, t CategoryType) ([]Category, error)
}
