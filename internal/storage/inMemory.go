package storage

import (
	"context"
	"strings"
	"sync"

	appErrors "github.com/fatali-fataliyev/budget_assistant/customErrors"
	"github.com/fatali-fataliyev/budget_assistant/internal/budget"
)

type InMemoryStorage struct {
	mu           sync.RWMutex
	transactions []budget.Transaction
	budgets      []budget.Budget
	categories   []budget.Category
}

func NewInMemoryStorage(categories ...budget.Category) *InMemoryStorage {
	s := &InMemoryStorage{}
	s.categories = append(s.categories, categories...)
	return s
}

func (inMem *InMemoryStorage) GetStorageType() string {
	return TypeInMemory
}

func (inMem *InMemoryStorage) Close() error {
	return nil
}

func (inMem *InMemoryStorage) CurrentTransactions(ctx context.Context) ([]budget.Transaction, error) {
	inMem.mu.RLock()
	defer inMem.mu.RUnlock()
	out := make([]budget.Transaction, len(inMem.transactions))
	copy(out, inMem.transactions)
	return out, nil
}

// AddTransaction stores t and charges it to every active budget of its
// category covering its date.
func (inMem *InMemoryStorage) AddTransaction(ctx context.Context, t budget.Transaction) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()
	for _, existing := range inMem.transactions {
		if existing.ID == t.ID {
			return appErrors.ErrorResponse{
				Code:    appErrors.ErrConflict,
				Message: "The transaction already exists.",
			}
		}
	}
	inMem.transactions = append(inMem.transactions, t)
	for i, b := range inMem.budgets {
		if charges(b, t) {
			inMem.budgets[i] = addSpent(b, t.Amount)
		}
	}
	return nil
}

func (inMem *InMemoryStorage) CurrentBudgets(ctx context.Context) ([]budget.Budget, error) {
	inMem.mu.RLock()
	defer inMem.mu.RUnlock()
	out := make([]budget.Budget, len(inMem.budgets))
	copy(out, inMem.budgets)
	return out, nil
}

func (inMem *InMemoryStorage) AddBudget(ctx context.Context, b budget.Budget) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()
	for _, existing := range inMem.budgets {
		if existing.ID == b.ID {
			return appErrors.ErrorResponse{
				Code:    appErrors.ErrConflict,
				Message: "The budget already exists.",
			}
		}
	}
	inMem.budgets = append(inMem.budgets, b)
	return nil
}

func (inMem *InMemoryStorage) UpdateBudget(ctx context.Context, b budget.Budget) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()
	for i := range inMem.budgets {
		if inMem.budgets[i].ID == b.ID {
			inMem.budgets[i] = b
			return nil
		}
	}
	return appErrors.ErrorResponse{
		Code:    appErrors.ErrNotFound,
		Message: "Budget not found.",
	}
}

func (inMem *InMemoryStorage) DeleteBudget(ctx context.Context, budgetID string) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()
	for i, b := range inMem.budgets {
		if b.ID == budgetID {
			inMem.budgets = append(inMem.budgets[:i], inMem.budgets[i+1:]...)
			return nil
		}
	}
	return appErrors.ErrorResponse{
		Code:    appErrors.ErrNotFound,
		Message: "Budget not found.",
	}
}

func (inMem *InMemoryStorage) AddCategory(ctx context.Context, c budget.Category) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()
	for _, existing := range inMem.categories {
		if existing.ID == c.ID || (existing.Type == c.Type && strings.EqualFold(existing.Name, c.Name)) {
			return appErrors.ErrorResponse{
				Code:    appErrors.ErrConflict,
				Message: "The category already exists.",
			}
		}
	}
	inMem.categories = append(inMem.categories, c)
	return nil
}

func (inMem *InMemoryStorage) EnsureCategories(ctx context.Context, defaults []budget.Category) error {
	inMem.mu.Lock()
	defer inMem.mu.Unlock()
	if len(inMem.categories) == 0 {
		inMem.categories = append(inMem.categories, defaults...)
	}
	return nil
}

func (inMem *InMemoryStorage) CategoryByID(ctx context.Context, id string) (budget.Category, bool, error) {
	inMem.mu.RLock()
	defer inMem.mu.RUnlock()
	for _, c := range inMem.categories {
		if c.ID == id {
			return c, true, nil
		}
	}
	return budget.Category{}, false, nil
}

func (inMem *InMemoryStorage) CategoryByName(ctx context.Context, name string) (budget.Category, bool, error) {
	inMem.mu.RLock()
	defer inMem.mu.RUnlock()
	name = strings.TrimSpace(name)
	for _, c := range inMem.categories {
		if strings.EqualFold(c.Name, name) {
			return c, true, nil
		}
	}
	return budget.Category{}, false, nil
}

func (inMem *InMemoryStorage) Categories(ctx context.Context, t budget.CategoryType) ([]budget.Category, error) {
	inMem.mu.RLock()
	defer inMem.mu.RUnlock()
	out := make([]budget.Category, 0, len(inMem.categories))
	for _, c := range inMem.categories {
		if t == "" || c.Type == t {
			out = append(out, c)
		}
	}
	return out, nil
}
