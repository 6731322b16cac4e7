package storage

import (
	"context"
	"time"

	"github.com/fatali-fataliyev/budget_assistant/internal/budget"
	"github.com/shopspring/decimal"
)

const (
	TypeInMemory = "inmemory"
	TypeMySQL    = "mysql"
	TypeSQLite   = "sqlite3"
)

// Storage is everything the assistant needs from a backing store.
type Storage interface {
	budget.TransactionStore
	budget.BudgetStore
	budget.CategoryLookup

	AddCategory(ctx context.Context, c budget.Category) error
	// EnsureCategories inserts defaults when the store has no categories yet.
	EnsureCategories(ctx context.Context, defaults []budget.Category) error
	GetStorageType() string
	Close() error
}

type dbTransaction struct {
	ID          string
	Title       string
	Amount      decimal.Decimal
	CategoryID  string
	IsIncome    bool
	Date        time.Time
	DayOfWeek   string
	Wallet      string
	Description string
	Icon        string
	Color       string
	CreatedAt   time.Time
}

func (d dbTransaction) toModel() budget.Transaction {
	return budget.Transaction{
		ID:          d.ID,
		Title:       d.Title,
		Amount:      d.Amount.InexactFloat64(),
		CategoryID:  d.CategoryID,
		IsIncome:    d.IsIncome,
		Date:        d.Date,
		DayOfWeek:   d.DayOfWeek,
		Wallet:      d.Wallet,
		Description: d.Description,
		Icon:        d.Icon,
		Color:       d.Color,
		CreatedAt:   d.CreatedAt,
	}
}

type dbBudget struct {
	ID          string
	CategoryID  string
	Amount      decimal.Decimal
	PeriodType  string
	StartDate   time.Time
	EndDate     time.Time
	SpentAmount decimal.Decimal
	IsActive    bool
	Note        string
	CreatedAt   time.Time
}

func (d dbBudget) toModel() budget.Budget {
	return budget.Budget{
		ID:          d.ID,
		CategoryID:  d.CategoryID,
		Amount:      d.Amount.InexactFloat64(),
		PeriodType:  budget.PeriodType(d.PeriodType),
		StartDate:   d.StartDate,
		EndDate:     d.EndDate,
		SpentAmount: d.SpentAmount.InexactFloat64(),
		IsActive:    d.IsActive,
		Note:        d.Note,
		CreatedAt:   d.CreatedAt,
	}
}

// charges reports whether an expense t counts against b.
func charges(b budget.Budget, t budget.Transaction) bool {
	return !t.IsIncome && b.IsActive && b.CategoryID == t.CategoryID && b.Covers(t.Date)
}

func addSpent(b budget.Budget, amount float64) budget.Budget {
	b.SpentAmount = decimal.NewFromFloat(b.SpentAmount).Add(decimal.NewFromFloat(amount)).InexactFloat64()
	return b
}
