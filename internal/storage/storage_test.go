package storage

import (
	"context"
	"io/fs"
	"path/filepath"
	"regexp"
	"strconv"
	"testing"
	"testing/fstest"
	"time"

	appErrors "github.com/fatali-fataliyev/budget_assistant/customErrors"
	"github.com/fatali-fataliyev/budget_assistant/internal/budget"
	"github.com/fatali-fataliyev/budget_assistant/internal/config"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testCategories() []budget.Category {
	return []budget.Category{
		{ID: "cat-food", Name: "Ăn uống", Type: budget.CategoryExpense, Icon: "🍜", Color: "#FF7043"},
		{ID: "cat-move", Name: "Di chuyển", Type: budget.CategoryExpense},
		{ID: "cat-salary", Name: "Lương", Type: budget.CategoryIncome},
	}
}

func day(d int) time.Time {
	return time.Date(2026, time.October, d, 0, 0, 0, 0, time.UTC)
}

func expense(id string, amount float64, categoryID string, date time.Time) budget.Transaction {
	return budget.Transaction{
		ID:         id,
		Title:      id,
		Amount:     amount,
		CategoryID: categoryID,
		Date:       date,
		DayOfWeek:  budget.DayOfWeek(date),
		Wallet:     "Tiền mặt",
		CreatedAt:  date,
	}
}

func monthBudget(id, categoryID string, amount float64) budget.Budget {
	return budget.Budget{
		ID:         id,
		CategoryID: categoryID,
		Amount:     amount,
		PeriodType: budget.PeriodMonth,
		StartDate:  day(1),
		EndDate:    time.Date(2026, time.November, 1, 0, 0, 0, 0, time.UTC),
		IsActive:   true,
		CreatedAt:  day(1),
	}
}

type storeFactory func(t *testing.T) Storage

func factories() map[string]storeFactory {
	return map[string]storeFactory{
		"inmemory": func(t *testing.T) Storage {
			s := NewInMemoryStorage()
			require.NoError(t, s.EnsureCategories(context.Background(), testCategories()))
			return s
		},
		"sqlite3": func(t *testing.T) Storage {
			db, err := InitSQLite(context.Background(), filepath.Join(t.TempDir(), "assistant.db"))
			require.NoError(t, err)
			s := NewSQLStorage(db, TypeSQLite)
			t.Cleanup(func() { s.Close() })
			require.NoError(t, s.EnsureCategories(context.Background(), testCategories()))
			return s
		},
	}
}

func spentOf(t *testing.T, s Storage, id string) float64 {
	t.Helper()
	all, err := s.CurrentBudgets(context.Background())
	require.NoError(t, err)
	for _, b := range all {
		if b.ID == id {
			return b.SpentAmount
		}
	}
	t.Fatalf("budget %s not found", id)
	return 0
}

func TestCategories(t *testing.T) {
	for name, newStore := range factories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(t)

			require.NoError(t, s.EnsureCategories(ctx, budget.DefaultCategories()))
			all, err := s.Categories(ctx, "")
			require.NoError(t, err)
			assert.Len(t, all, 3)

			incomes, err := s.Categories(ctx, budget.CategoryIncome)
			require.NoError(t, err)
			require.Len(t, incomes, 1)
			assert.Equal(t, "cat-salary", incomes[0].ID)

			c, found, err := s.CategoryByName(ctx, "ăn uống")
			require.NoError(t, err)
			require.True(t, found)
			assert.Equal(t, "cat-food", c.ID)
			assert.Equal(t, "🍜", c.Icon)

			_, found, err = s.CategoryByID(ctx, "missing")
			require.NoError(t, err)
			assert.False(t, found)

			err = s.AddCategory(ctx, budget.Category{ID: "dup", Name: "Ăn uống", Type: budget.CategoryExpense})
			assert.True(t, appErrors.Is(err, appErrors.ErrConflict))
		})
	}
}

func TestAddTransactionChargesBudgets(t *testing.T) {
	for name, newStore := range factories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(t)

			require.NoError(t, s.AddBudget(ctx, monthBudget("b-food", "cat-food", 1_000_000)))
			inactive := monthBudget("b-off", "cat-food", 500_000)
			inactive.IsActive = false
			require.NoError(t, s.AddBudget(ctx, inactive))
			require.NoError(t, s.AddBudget(ctx, monthBudget("b-move", "cat-move", 300_000)))

			income := expense("t-income", 15_000_000, "cat-salary", day(5))
			income.IsIncome = true

			tests := []struct {
				name string
				tx   budget.Transaction
			}{
				{name: "charged", tx: expense("t1", 200_000, "cat-food", day(10))},
				{name: "charged on first day", tx: expense("t2", 50_000, "cat-food", day(1))},
				{name: "outside range", tx: expense("t3", 70_000, "cat-food", day(1).AddDate(0, 0, -1))},
				{name: "other category", tx: expense("t4", 30_000, "cat-salary", day(3))},
				{name: "income", tx: income},
			}
			for _, tt := range tests {
				require.NoError(t, s.AddTransaction(ctx, tt.tx), tt.name)
			}

			assert.InDelta(t, 250_000, spentOf(t, s, "b-food"), 0.001)
			assert.InDelta(t, 0, spentOf(t, s, "b-off"), 0.001)
			assert.InDelta(t, 0, spentOf(t, s, "b-move"), 0.001)

			all, err := s.CurrentTransactions(ctx)
			require.NoError(t, err)
			require.Len(t, all, 5)
			byID := make(map[string]budget.Transaction)
			for _, tx := range all {
				byID[tx.ID] = tx
			}
			got := byID["t1"]
			assert.Equal(t, 200_000.0, got.Amount)
			assert.Equal(t, "cat-food", got.CategoryID)
			assert.True(t, got.Date.Equal(day(10)))
			assert.Equal(t, "Tiền mặt", got.Wallet)
			assert.True(t, byID["t-income"].IsIncome)

			err = s.AddTransaction(ctx, expense("t1", 1, "cat-food", day(2)))
			assert.True(t, appErrors.Is(err, appErrors.ErrConflict))
		})
	}
}

func TestBudgetUpdateAndDelete(t *testing.T) {
	for name, newStore := range factories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(t)

			b := monthBudget("b1", "cat-food", 1_000_000)
			require.NoError(t, s.AddBudget(ctx, b))
			assert.True(t, appErrors.Is(s.AddBudget(ctx, b), appErrors.ErrConflict))

			b.Amount = 3_000_000
			require.NoError(t, s.UpdateBudget(ctx, b))
			require.NoError(t, s.UpdateBudget(ctx, b))
			all, err := s.CurrentBudgets(ctx)
			require.NoError(t, err)
			require.Len(t, all, 1)
			assert.Equal(t, 3_000_000.0, all[0].Amount)
			assert.Equal(t, budget.PeriodMonth, all[0].PeriodType)
			assert.True(t, all[0].EndDate.Equal(b.EndDate))

			missing := monthBudget("nope", "cat-food", 1)
			assert.True(t, appErrors.Is(s.UpdateBudget(ctx, missing), appErrors.ErrNotFound))
			assert.True(t, appErrors.Is(s.DeleteBudget(ctx, "nope"), appErrors.ErrNotFound))

			require.NoError(t, s.DeleteBudget(ctx, "b1"))
			all, err = s.CurrentBudgets(ctx)
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestSQLiteRejectsUnknownCategory(t *testing.T) {
	s := factories()["sqlite3"](t)
	err := s.AddTransaction(context.Background(), expense("t1", 10_000, "ghost", day(2)))
	assert.True(t, appErrors.Is(err, appErrors.ErrInvalidInput))
}

func TestSQLiteMigrationsRunOnce(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "assistant.db")

	db, err := InitSQLite(ctx, path)
	require.NoError(t, err)
	s := NewSQLStorage(db, TypeSQLite)
	require.NoError(t, s.EnsureCategories(ctx, testCategories()))
	require.NoError(t, s.AddTransaction(ctx, expense("t1", 10_000, "cat-food", day(2))))
	require.NoError(t, s.Close())

	db, err = InitSQLite(ctx, path)
	require.NoError(t, err)
	defer db.Close()

	var applied int
	require.NoError(t, db.QueryRow("SELECT COUNT(*) FROM migration").Scan(&applied))
	assert.Equal(t, 1, applied)

	all, err := NewSQLStorage(db, TypeSQLite).CurrentTransactions(ctx)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestMigrationFiles(t *testing.T) {
	fsys := fstest.MapFS{
		"002_budget.sql": {Data: []byte("SELECT 1")},
		"001_init.sql":   {Data: []byte("SELECT 1")},
		"README.md":      {Data: []byte("notes")},
		"old/003.sql":    {Data: []byte("SELECT 1")},
	}
	files, err := getMigrationFiles(fsys)
	require.NoError(t, err)
	assert.Equal(t, []string{"001_init.sql", "002_budget.sql"}, files)

	tests := []struct {
		name        string
		lastApplied string
		want        []string
	}{
		{name: "fresh database", lastApplied: "", want: []string{"001_init.sql", "002_budget.sql"}},
		{name: "partially applied", lastApplied: "001_init.sql", want: []string{"002_budget.sql"}},
		{name: "up to date", lastApplied: "002_budget.sql", want: nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, filterNewMigrations(files, tt.lastApplied))
		})
	}
}

func TestAmountColumnsHoldValidationLimits(t *testing.T) {
	decimalRe := regexp.MustCompile(`(?i)(\w+)\s+DECIMAL\((\d+),\s*(\d+)\)`)
	sub, err := fs.Sub(migrationsFS, "migrations")
	require.NoError(t, err)
	files, err := getMigrationFiles(sub)
	require.NoError(t, err)

	// amounts arrive as float64, so the limits are checked as the validator sees them
	digits := func(limit float64) int {
		return len(decimal.NewFromFloat(limit).Truncate(0).String())
	}
	need := max(digits(budget.MAX_TRANSACTION_AMOUNT_LIMIT), digits(budget.MAX_BUDGET_AMOUNT_LIMIT))

	var columns int
	for _, name := range files {
		data, err := fs.ReadFile(sub, name)
		require.NoError(t, err)
		for _, m := range decimalRe.FindAllStringSubmatch(string(data), -1) {
			precision, _ := strconv.Atoi(m[2])
			scale, _ := strconv.Atoi(m[3])
			assert.GreaterOrEqual(t, precision-scale, need, "%s column %s", name, m[1])
			columns++
		}
	}
	assert.Equal(t, 3, columns)
}

func TestLargeAmountRoundTrip(t *testing.T) {
	for name, newStore := range factories() {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			s := newStore(t)
			require.NoError(t, s.AddTransaction(ctx, expense("t1", 123_456_789_012_345, "cat-food", day(2))))

			all, err := s.CurrentTransactions(ctx)
			require.NoError(t, err)
			require.Len(t, all, 1)
			assert.Equal(t, 123_456_789_012_345.0, all[0].Amount)
		})
	}
}

func TestOpenMemoryStoreSeedsDefaults(t *testing.T) {
	s, err := Open(context.Background(), &config.Config{Storage: config.StorageMemory, SeedCategories: true})
	require.NoError(t, err)
	defer s.Close()

	assert.Equal(t, TypeInMemory, s.GetStorageType())
	all, err := s.Categories(context.Background(), "")
	require.NoError(t, err)
	assert.Len(t, all, len(budget.DefaultCategories()))
}

func TestMySQLDSN(t *testing.T) {
	c, err := mysqlDSN(config.DBConfig{User: "u", Password: "p", Host: "db", Port: "3306", Name: "assistant"})
	require.NoError(t, err)
	assert.Equal(t, "db:3306", c.Addr)
	assert.Equal(t, "assistant", c.DBName)
	assert.True(t, c.ParseTime)

	c, err = mysqlDSN(config.DBConfig{FullDSN: "u:p@tcp(localhost:3306)/other"})
	require.NoError(t, err)
	assert.Equal(t, "other", c.DBName)
	assert.True(t, c.ClientFoundRows)

	_, err = mysqlDSN(config.DBConfig{User: "u"})
	assert.Error(t, err)
}
