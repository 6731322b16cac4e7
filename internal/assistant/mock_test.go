package assistant

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/fatali-fataliyev/budget_assistant/internal/budget"
	"github.com/fatali-fataliyev/budget_assistant/logging"
)

// Mocks
type MockStorage struct {
	transactions []budget.Transaction
	budgets      []budget.Budget
	categories   []budget.Category

	addTxErr     error
	loadErr      error
	budgetErr    error
	addedTx      []budget.Transaction
	updateCalls  int
	deleteCalls  int
	addBudgetCnt int
}

func (m *MockStorage) CurrentTransactions(ctx context.Context) ([]budget.Transaction, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	out := make([]budget.Transaction, len(m.transactions))
	copy(out, m.transactions)
	return out, nil
}

func (m *MockStorage) AddTransaction(ctx context.Context, t budget.Transaction) error {
	if m.addTxErr != nil {
		return m.addTxErr
	}
	m.addedTx = append(m.addedTx, t)
	m.transactions = append(m.transactions, t)
	return nil
}

func (m *MockStorage) CurrentBudgets(ctx context.Context) ([]budget.Budget, error) {
	if m.loadErr != nil {
		return nil, m.loadErr
	}
	out := make([]budget.Budget, len(m.budgets))
	copy(out, m.budgets)
	return out, nil
}

func (m *MockStorage) AddBudget(ctx context.Context, b budget.Budget) error {
	if m.budgetErr != nil {
		return m.budgetErr
	}
	m.addBudgetCnt++
	m.budgets = append(m.budgets, b)
	return nil
}

func (m *MockStorage) UpdateBudget(ctx context.Context, b budget.Budget) error {
	m.updateCalls++
	if m.budgetErr != nil {
		return m.budgetErr
	}
	for i := range m.budgets {
		if m.budgets[i].ID == b.ID {
			m.budgets[i] = b
			return nil
		}
	}
	return errors.New("budget not found")
}

func (m *MockStorage) DeleteBudget(ctx context.Context, budgetID string) error {
	m.deleteCalls++
	if m.budgetErr != nil {
		return m.budgetErr
	}
	for i := range m.budgets {
		if m.budgets[i].ID == budgetID {
			m.budgets = append(m.budgets[:i], m.budgets[i+1:]...)
			return nil
		}
	}
	return errors.New("budget not found")
}

func (m *MockStorage) CategoryByID(ctx context.Context, id string) (budget.Category, bool, error) {
	for _, c := range m.categories {
		if c.ID == id {
			return c, true, nil
		}
	}
	return budget.Category{}, false, nil
}

func (m *MockStorage) CategoryByName(ctx context.Context, name string) (budget.Category, bool, error) {
	for _, c := range m.categories {
		if strings.EqualFold(c.Name, name) {
			return c, true, nil
		}
	}
	return budget.Category{}, false, nil
}

func (m *MockStorage) Categories(ctx context.Context, t budget.CategoryType) ([]budget.Category, error) {
	var out []budget.Category
	for _, c := range m.categories {
		if t == "" || c.Type == t {
			out = append(out, c)
		}
	}
	return out, nil
}

// testCategories uses stable IDs so assertions can name them.
func testCategories() []budget.Category {
	return []budget.Category{
		{ID: "cat-food", Name: "Ăn uống", Type: budget.CategoryExpense, Icon: "🍜", Color: "#FF7043"},
		{ID: "cat-move", Name: "Di chuyển", Type: budget.CategoryExpense},
		{ID: "cat-shop", Name: "Mua sắm", Type: budget.CategoryExpense},
		{ID: "cat-bill", Name: "Hóa đơn", Type: budget.CategoryExpense},
		{ID: "cat-other", Name: "Khác", Type: budget.CategoryExpense},
		{ID: "cat-salary", Name: "Lương", Type: budget.CategoryIncome},
		{ID: "cat-bonus", Name: "Thưởng", Type: budget.CategoryIncome},
		{ID: "cat-other-income", Name: "Thu nhập khác", Type: budget.CategoryIncome},
	}
}

// fixedNow is Thursday 15 Oct 2026, 10:30.
var fixedNow = time.Date(2026, 10, 15, 10, 30, 0, 0, time.UTC)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func newTestExecutor(m *MockStorage) *Executor {
	ids := 0
	return NewExecutor(m, m, m,
		WithClock(func() time.Time { return fixedNow }),
		WithIDGenerator(func() string {
			ids++
			return "id-" + string(rune('a'+ids-1))
		}),
		WithLogger(logging.Discard()),
	)
}

func tx(id string, amount float64, categoryID string, income bool, date time.Time) budget.Transaction {
	return budget.Transaction{ID: id, Title: id, Amount: amount, CategoryID: categoryID, IsIncome: income, Date: date, Wallet: DefaultWallet}
}
