package assistant

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/fatali-fataliyev/budget_assistant/customErrors"
	"github.com/fatali-fataliyev/budget_assistant/internal/budget"
	"github.com/fatali-fataliyev/budget_assistant/internal/contextutil"
	"github.com/fatali-fataliyev/budget_assistant/internal/period"
	"github.com/fatali-fataliyev/budget_assistant/logging"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

const (
	InlineListLimit      = 10
	DefaultWallet        = "Tiền mặt"
	unknownCategoryLabel = "Không xác định"
)

// Executor runs commands against the injected stores. It holds no locks;
// callers serialize per conversation when ordering matters.
type Executor struct {
	transactions budget.TransactionStore
	budgets      budget.BudgetStore
	categories   budget.CategoryLookup
	now          func() time.Time
	newID        func() string
	log          *logrus.Entry
}

type Option func(*Executor)

func WithClock(now func() time.Time) Option {
	return func(e *Executor) { e.now = now }
}

func WithIDGenerator(newID func() string) Option {
	return func(e *Executor) { e.newID = newID }
}

func WithLogger(log *logrus.Entry) Option {
	return func(e *Executor) { e.log = log }
}

func NewExecutor(transactions budget.TransactionStore, budgets budget.BudgetStore, categories budget.CategoryLookup, opts ...Option) *Executor {
	e := &Executor{
		transactions: transactions,
		budgets:      budgets,
		categories:   categories,
		now:          time.Now,
		newID:        uuid.NewString,
		log:          logging.Component("executor"),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Execute never returns an error: store failures and panics become a
// failed CommandResult.
func (e *Executor) Execute(ctx context.Context, cmd Command) (result CommandResult) {
	traceID := contextutil.TraceIDFromContext(ctx)
	defer func() {
		if r := recover(); r != nil {
			e.log.Errorf("[TraceID=%s] | panic while executing %v: %v", traceID, kindOf(cmd), r)
			result = failResult("❌ Đã xảy ra lỗi khi xử lý yêu cầu. Vui lòng thử lại.")
		}
	}()

	e.log.Debugf("[TraceID=%s] | executing %s", traceID, kindOf(cmd))

	switch c := cmd.(type) {
	case AddTransaction:
		return e.addTransaction(ctx, c)
	case ListTransactions:
		return e.listTransactions(ctx, c)
	case SearchTransactionsByKeyword:
		return e.searchTransactions(ctx, c)
	case AnalyzeSpending:
		return e.analyzeSpending(ctx, c)
	case GetDailySummary:
		return e.dailySummary(ctx, c)
	case ExportTransactions:
		return e.exportTransactions(ctx, c)
	case ComparePeriods:
		return e.comparePeriods(ctx, c)
	case AnalyzeSpendingTrend:
		return e.spendingTrend(ctx, c)
	case ShowSummary:
		return e.showSummary(ctx, c)
	case CreateBudget:
		return e.createBudget(ctx, c)
	case SetBudget:
		return e.setBudget(ctx, c)
	case UpdateBudget:
		return e.updateBudget(ctx, c)
	case DeleteBudget:
		return e.deleteBudget(ctx, c)
	case GetBudgetStatus:
		return e.budgetStatus(ctx, c)
	case GetFinancialHealthScore:
		return e.healthScore(ctx, c)
	case GetSpendingForecast:
		return e.spendingForecast(ctx, c)
	case GetBudgetRecommendations:
		return e.budgetRecommendations(ctx)
	case GetQuickTips:
		return e.quickTips(ctx)
	default:
		return unsupported()
	}
}

func kindOf(cmd Command) Kind {
	if cmd == nil {
		return KindUnknown
	}
	return cmd.Kind()
}

func unsupported() CommandResult {
	return failResult("🚧 Tính năng này đang được phát triển.\n" +
		"Bạn có thể thử:\n" +
		"• \"Thêm chi tiêu 50k cho ăn uống\"\n" +
		"• \"Xem giao dịch tháng này\"\n" +
		"• \"Phân tích chi tiêu tuần này\"\n" +
		"• \"Tình trạng ngân sách\"")
}

// storeFailure logs a collaborator error and renders it for the user.
func (e *Executor) storeFailure(ctx context.Context, action string, err error) CommandResult {
	e.log.Errorf("[TraceID=%s] | failed to %s, Error: %v", contextutil.TraceIDFromContext(ctx), action, err)
	return failResult(fmt.Sprintf("❌ Không thể %s: %s", action, customErrors.MessageOf(err)))
}

// snapshot is the read side of one command execution.
type snapshot struct {
	transactions []budget.Transaction
	categories   map[string]budget.Category
}

func (e *Executor) load(ctx context.Context) (snapshot, error) {
	txs, err := e.transactions.CurrentTransactions(ctx)
	if err != nil {
		return snapshot{}, fmt.Errorf("failed to load transactions: %w", err)
	}
	cats, err := e.categories.Categories(ctx, "")
	if err != nil {
		return snapshot{}, fmt.Errorf("failed to load categories: %w", err)
	}
	byID := make(map[string]budget.Category, len(cats))
	for _, c := range cats {
		byID[c.ID] = c
	}
	return snapshot{transactions: txs, categories: byID}, nil
}

// categoryName projects a category ID to its display name.
func (s snapshot) categoryName(id string) string {
	if id == "" {
		return budget.DEFAULT_EXPENSE_CATEGORY_NAME
	}
	if c, ok := s.categories[id]; ok {
		return c.Name
	}
	return unknownCategoryLabel
}

func (s snapshot) inRange(r period.Range) []budget.Transaction {
	var out []budget.Transaction
	for _, t := range s.transactions {
		if r.Contains(t.Date) {
			out = append(out, t)
		}
	}
	return out
}

// PeriodSummary aggregates a set of transactions.
type PeriodSummary struct {
	Income  float64 `json:"income"`
	Expense float64 `json:"expense"`
	Balance float64 `json:"balance"`
	Count   int     `json:"count"`
}

func summarize(txs []budget.Transaction) PeriodSummary {
	var income, expense []float64
	for _, t := range txs {
		if t.IsIncome {
			income = append(income, t.Amount)
		} else {
			expense = append(expense, t.Amount)
		}
	}
	s := PeriodSummary{Income: sum(income...), Expense: sum(expense...), Count: len(txs)}
	s.Balance = sum(s.Income, -s.Expense)
	return s
}

type CategoryAmount struct {
	CategoryID string  `json:"category_id"`
	Name       string  `json:"name"`
	Amount     float64 `json:"amount"`
	Percent    float64 `json:"percent"`
}

// expenseByCategory totals expenses per category, largest first.
func (s snapshot) expenseByCategory(txs []budget.Transaction) []CategoryAmount {
	totals := make(map[string][]float64)
	var order []string
	var all []float64
	for _, t := range txs {
		if t.IsIncome {
			continue
		}
		if _, seen := totals[t.CategoryID]; !seen {
			order = append(order, t.CategoryID)
		}
		totals[t.CategoryID] = append(totals[t.CategoryID], t.Amount)
		all = append(all, t.Amount)
	}
	grand := sum(all...)

	out := make([]CategoryAmount, 0, len(order))
	for _, id := range order {
		amount := sum(totals[id]...)
		out = append(out, CategoryAmount{
			CategoryID: id,
			Name:       s.categoryName(id),
			Amount:     amount,
			Percent:    share(amount, grand),
		})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Amount > out[j].Amount })
	return out
}

// sortNewestFirst orders by date descending; equal dates keep their
// snapshot order.
func sortNewestFirst(txs []budget.Transaction) {
	sort.SliceStable(txs, func(i, j int) bool { return txs[i].Date.After(txs[j].Date) })
}

func (e *Executor) today() time.Time {
	return period.StartOfDay(e.now())
}
