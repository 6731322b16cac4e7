package assistant

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/fatali-fataliyev/budget_assistant/customErrors"
	"github.com/fatali-fataliyev/budget_assistant/internal/budget"
	"github.com/fatali-fataliyev/budget_assistant/internal/period"
	"github.com/fatali-fataliyev/budget_assistant/logging"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddTransactionScenario(t *testing.T) {
	ctx := context.Background()
	m := &MockStorage{categories: testCategories()}
	e := newTestExecutor(m)

	text := "Thêm chi tiêu 50k cho ăn uống"
	require.Equal(t, ClassCommand, NewClassifier(MustDefaultRules()).Classify(text))

	parsed := newTestParser().Parse(text)
	cmd, ok := parsed.Command.(AddTransaction)
	require.True(t, ok)
	assert.Equal(t, 50_000.0, cmd.Amount)
	assert.False(t, cmd.IsIncome)

	res := e.Execute(ctx, cmd)
	require.True(t, res.Success, res.Message)
	assert.Contains(t, res.Message, "50.000₫")
	assert.Contains(t, res.Message, "Ăn uống")

	require.Len(t, m.addedTx, 1)
	got := m.addedTx[0]
	assert.Equal(t, "id-a", got.ID)
	assert.Equal(t, "cat-food", got.CategoryID)
	assert.Equal(t, day(2026, 10, 15), got.Date)
	assert.Equal(t, "Thứ Năm", got.DayOfWeek)
	assert.Equal(t, budget.ASSISTANT_TRANSACTION_DESC_MARK, got.Description)
	assert.Equal(t, "🍜", got.Icon)
	assert.Equal(t, "#FF7043", got.Color)
	assert.Equal(t, fixedNow, got.CreatedAt)
}

func TestAddTransactionFailures(t *testing.T) {
	ctx := context.Background()

	tests := []struct {
		name     string
		cmd      AddTransaction
		storeErr error
		wantMsg  string
	}{
		{name: "zero amount", cmd: AddTransaction{Amount: 0, CategoryID: "cat-food"}, wantMsg: "Số tiền không hợp lệ"},
		{name: "negative amount", cmd: AddTransaction{Amount: -5, CategoryID: "cat-food"}, wantMsg: "Số tiền không hợp lệ"},
		{
			name:     "store failure carries its text",
			cmd:      AddTransaction{Amount: 10_000, CategoryID: "cat-food", Title: "Ăn uống"},
			storeErr: customErrors.New(customErrors.ErrInternal, "database is down"),
			wantMsg:  "database is down",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &MockStorage{categories: testCategories(), addTxErr: tt.storeErr}
			res := newTestExecutor(m).Execute(ctx, tt.cmd)
			assert.False(t, res.Success)
			assert.Contains(t, res.Message, tt.wantMsg)
			assert.Empty(t, m.addedTx)
		})
	}
}

func TestAddTransactionFallsBackToDefaultCategory(t *testing.T) {
	m := &MockStorage{categories: testCategories()}
	res := newTestExecutor(m).Execute(context.Background(), AddTransaction{Amount: 20_000, IsIncome: true, CategoryName: "Không có", Title: "Thu nhập"})
	require.True(t, res.Success)
	assert.Equal(t, "cat-other-income", m.addedTx[0].CategoryID)
	assert.Contains(t, res.Message, "khoản thu 20.000₫ vào Thu nhập khác")
}

func TestListTransactionsLimitAndOrder(t *testing.T) {
	ctx := context.Background()
	m := &MockStorage{
		categories: testCategories(),
		transactions: []budget.Transaction{
			tx("t1", 10_000, "cat-food", false, day(2026, 10, 1)),
			tx("t2", 20_000, "cat-food", false, day(2026, 10, 10)),
			tx("t3", 30_000, "cat-move", false, day(2026, 10, 10)),
			tx("t4", 40_000, "cat-salary", true, day(2026, 10, 5)),
			tx("t5", 50_000, "cat-food", false, day(2026, 9, 30)),
		},
	}
	e := newTestExecutor(m)

	ids := func(res CommandResult) []string {
		items := res.Data.([]budget.Transaction)
		out := make([]string, len(items))
		for i, it := range items {
			out[i] = it.ID
		}
		return out
	}

	tests := []struct {
		name string
		cmd  ListTransactions
		want []string
	}{
		{name: "limit caps the payload, ties keep snapshot order", cmd: ListTransactions{Period: period.Month, Limit: 2}, want: []string{"t2", "t3"}},
		{name: "all of the month newest first", cmd: ListTransactions{Period: period.Month, Limit: 10}, want: []string{"t2", "t3", "t4", "t1"}},
		{name: "category filter", cmd: ListTransactions{Period: period.All, CategoryID: "cat-food"}, want: []string{"t2", "t1", "t5"}},
		{name: "wallet is case-insensitive", cmd: ListTransactions{Period: period.Month, Wallet: "tiền MẶT", Limit: 1}, want: []string{"t2"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res := e.Execute(ctx, tt.cmd)
			require.True(t, res.Success, res.Message)
			assert.Equal(t, tt.want, ids(res))
		})
	}

	res := e.Execute(ctx, ListTransactions{Period: period.Month})
	assert.Contains(t, res.Message, "Thu: 40.000₫")
	assert.Contains(t, res.Message, "Chi: 60.000₫")
}

func TestListTransactionsInlineTail(t *testing.T) {
	m := &MockStorage{categories: testCategories()}
	for i := 1; i <= 12; i++ {
		m.transactions = append(m.transactions, tx("t", 1_000, "cat-food", false, day(2026, 10, i)))
	}

	res := newTestExecutor(m).Execute(context.Background(), ListTransactions{Period: period.Month, Limit: 20})
	require.True(t, res.Success)
	assert.Len(t, res.Data.([]budget.Transaction), 12)
	assert.Contains(t, res.Message, "... và 2 giao dịch khác")
	assert.Equal(t, 10, strings.Count(res.Message, "\n• "))
}

func TestListTransactionsEmpty(t *testing.T) {
	res := newTestExecutor(&MockStorage{}).Execute(context.Background(), ListTransactions{Period: period.Today})
	assert.True(t, res.Success)
	assert.Contains(t, res.Message, "Không có giao dịch nào")
}

func TestSearchTransactions(t *testing.T) {
	m := &MockStorage{
		categories: testCategories(),
		transactions: []budget.Transaction{
			{ID: "a", Title: "Cà phê sáng", Amount: 30_000, CategoryID: "cat-food", Date: day(2026, 10, 1)},
			{ID: "b", Title: "Grab", Amount: 50_000, CategoryID: "cat-move", Date: day(2026, 10, 2)},
			{ID: "c", Title: "Trà", Amount: 25_000, CategoryID: "cat-food", Date: day(2026, 10, 3), Description: "cà phê với bạn"},
		},
	}
	e := newTestExecutor(m)

	res := e.Execute(context.Background(), SearchTransactionsByKeyword{Keyword: "CÀ PHÊ", Limit: 20})
	require.True(t, res.Success)
	items := res.Data.([]budget.Transaction)
	require.Len(t, items, 2)
	assert.Equal(t, "c", items[0].ID)
	assert.Equal(t, "a", items[1].ID)

	res = e.Execute(context.Background(), SearchTransactionsByKeyword{Keyword: "di chuyển"})
	require.Len(t, res.Data.([]budget.Transaction), 1)

	res = e.Execute(context.Background(), SearchTransactionsByKeyword{})
	assert.False(t, res.Success)
}

func TestAnalyzeSpending(t *testing.T) {
	m := &MockStorage{
		categories: testCategories(),
		transactions: []budget.Transaction{
			tx("a", 300_000, "cat-food", false, day(2026, 10, 2)),
			tx("b", 100_000, "cat-move", false, day(2026, 10, 3)),
			tx("c", 5_000_000, "cat-salary", true, day(2026, 10, 1)),
			tx("d", 999_000, "cat-food", false, day(2026, 9, 1)),
		},
	}

	res := newTestExecutor(m).Execute(context.Background(), AnalyzeSpending{Period: period.Month, TopN: 5})
	require.True(t, res.Success)
	a := res.Data.(SpendingAnalysis)
	assert.Equal(t, 400_000.0, a.Total)
	// 1..15 Oct inclusive
	assert.InDelta(t, 400_000.0/15, a.DailyAverage, 0.001)
	require.Len(t, a.Categories, 2)
	assert.Equal(t, "Ăn uống", a.Categories[0].Name)
	assert.InDelta(t, 75.0, a.Categories[0].Percent, 0.001)
	assert.Contains(t, res.Message, "1. Ăn uống: 300.000₫ (75.0%)")
}

func TestComparePeriods(t *testing.T) {
	m := &MockStorage{
		categories: testCategories(),
		transactions: []budget.Transaction{
			tx("a", 2_000_000, "cat-food", false, day(2026, 10, 2)),
			tx("b", 1_000_000, "cat-food", false, day(2026, 9, 2)),
		},
	}

	res := newTestExecutor(m).Execute(context.Background(), ComparePeriods{Unit: period.Month})
	require.True(t, res.Success)
	c := res.Data.(Comparison)
	assert.InDelta(t, 100.0, c.ExpenseChange, 0.001)
	assert.Equal(t, 0.0, c.IncomeChange)
	assert.InDelta(t, -100.0, c.BalanceChange, 0.001)
}

func TestSpendingTrend(t *testing.T) {
	m := &MockStorage{
		categories: testCategories(),
		transactions: []budget.Transaction{
			tx("a", 1_000_000, "cat-food", false, day(2026, 9, 2)),
			tx("b", 2_000_000, "cat-food", false, day(2026, 10, 2)),
		},
	}

	res := newTestExecutor(m).Execute(context.Background(), AnalyzeSpendingTrend{Months: 2})
	require.True(t, res.Success)
	tr := res.Data.(Trend)
	require.Len(t, tr.Months, 2)
	assert.Equal(t, "09/2026", tr.Months[0].Month)
	assert.Equal(t, "tăng", tr.Direction)
	assert.InDelta(t, 100.0, tr.ChangePercent, 0.001)
}

func TestDailySummaryAndSummary(t *testing.T) {
	m := &MockStorage{
		categories: testCategories(),
		transactions: []budget.Transaction{
			tx("a", 50_000, "cat-food", false, day(2026, 10, 15)),
			tx("b", 70_000, "cat-move", false, day(2026, 10, 14)),
		},
		budgets: []budget.Budget{{ID: "b1", CategoryID: "cat-food", Amount: 10, SpentAmount: 20, IsActive: true}},
	}
	e := newTestExecutor(m)

	res := e.Execute(context.Background(), GetDailySummary{Period: period.Today})
	require.True(t, res.Success)
	assert.Equal(t, 50_000.0, res.Data.(PeriodSummary).Expense)

	res = e.Execute(context.Background(), GetDailySummary{Period: period.Yesterday})
	assert.Equal(t, 70_000.0, res.Data.(PeriodSummary).Expense)

	res = e.Execute(context.Background(), ShowSummary{Period: period.Month})
	require.True(t, res.Success)
	s := res.Data.(Summary)
	assert.Equal(t, 2, s.Count)
	assert.Equal(t, 1, s.OverBudget)
	assert.Equal(t, "Di chuyển", s.TopCategories[0].Name)
}

func TestExportTransactions(t *testing.T) {
	m := &MockStorage{
		categories: testCategories(),
		transactions: []budget.Transaction{
			{ID: "a", Title: "Phở, bò", Amount: 45_000, CategoryID: "cat-food", Date: day(2026, 10, 2), Wallet: DefaultWallet},
		},
	}
	e := newTestExecutor(m)

	res := e.Execute(context.Background(), ExportTransactions{Period: period.Month})
	require.True(t, res.Success)
	lines := strings.Split(strings.TrimSpace(res.Data.(string)), "\n")
	require.Len(t, lines, 2)
	assert.Equal(t, "id,date,title,category,type,amount,wallet,description", lines[0])
	assert.Equal(t, `a,2026-10-02,"Phở, bò",Ăn uống,expense,45000,Tiền mặt,`, lines[1])

	res = e.Execute(context.Background(), ExportTransactions{Period: period.PreviousYear})
	assert.False(t, res.Success)
}

func TestCreateBudgetThenStatusIsSafe(t *testing.T) {
	ctx := context.Background()
	m := &MockStorage{categories: testCategories()}
	e := newTestExecutor(m)

	res := e.Execute(ctx, CreateBudget{CategoryID: "cat-food", Amount: 2_000_000, PeriodType: budget.PeriodMonth})
	require.True(t, res.Success, res.Message)
	created := res.Data.(budget.Budget)
	assert.Equal(t, 0.0, created.SpentAmount)
	assert.True(t, created.IsActive)
	assert.Equal(t, day(2026, 11, 15), created.EndDate)

	res = e.Execute(ctx, GetBudgetStatus{})
	require.True(t, res.Success)
	status := res.Data.(BudgetStatus)
	assert.Empty(t, status.Over)
	assert.Empty(t, status.Near)
	require.Len(t, status.Safe, 1)
	assert.Equal(t, "Ăn uống", status.Safe[0].CategoryName)
}

func TestCreateBudgetEndDateClampsMonth(t *testing.T) {
	m := &MockStorage{categories: testCategories()}
	e := NewExecutor(m, m, m,
		WithClock(func() time.Time { return time.Date(2026, 1, 31, 8, 0, 0, 0, time.UTC) }),
		WithLogger(logging.Discard()),
	)

	res := e.Execute(context.Background(), CreateBudget{CategoryID: "cat-food", Amount: 1_000_000, PeriodType: budget.PeriodMonth})
	require.True(t, res.Success, res.Message)
	assert.Equal(t, day(2026, 2, 28), res.Data.(budget.Budget).EndDate)
}

func TestCreateBudgetFailures(t *testing.T) {
	tests := []struct {
		name string
		cmd  CreateBudget
	}{
		{name: "no category", cmd: CreateBudget{Amount: 1_000}},
		{name: "unknown category", cmd: CreateBudget{CategoryID: "nope", Amount: 1_000}},
		{name: "zero amount", cmd: CreateBudget{CategoryID: "cat-food"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &MockStorage{categories: testCategories()}
			res := newTestExecutor(m).Execute(context.Background(), tt.cmd)
			assert.False(t, res.Success)
			assert.Equal(t, 0, m.addBudgetCnt)
		})
	}
}

func TestSetBudgetFuzzyName(t *testing.T) {
	tests := []struct {
		name      string
		category  string
		wantOK    bool
		wantCatID string
	}{
		{name: "exact, different case", category: "DI CHUYỂN", wantOK: true, wantCatID: "cat-move"},
		{name: "partial name", category: "ăn", wantOK: true, wantCatID: "cat-food"},
		{name: "name inside phrase", category: "hóa đơn điện", wantOK: true, wantCatID: "cat-bill"},
		{name: "unknown", category: "thú cưng", wantOK: false},
		{name: "empty", category: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := &MockStorage{categories: testCategories()}
			res := newTestExecutor(m).Execute(context.Background(), SetBudget{CategoryName: tt.category, Amount: 500_000, PeriodType: budget.PeriodWeek})
			assert.Equal(t, tt.wantOK, res.Success, res.Message)
			if tt.wantOK {
				require.Len(t, m.budgets, 1)
				assert.Equal(t, tt.wantCatID, m.budgets[0].CategoryID)
				assert.Equal(t, day(2026, 10, 22), m.budgets[0].EndDate)
			}
		})
	}
}

func TestUpdateBudget(t *testing.T) {
	ctx := context.Background()

	t.Run("no active budget for category", func(t *testing.T) {
		m := &MockStorage{
			categories: testCategories(),
			budgets:    []budget.Budget{{ID: "b1", CategoryID: "cat-food", Amount: 100, IsActive: false}},
		}
		res := newTestExecutor(m).Execute(ctx, UpdateBudget{CategoryID: "cat-food", Amount: 500})
		assert.False(t, res.Success)
		assert.Contains(t, res.Message, "Không tìm thấy")
		assert.Equal(t, 0, m.updateCalls)
	})

	t.Run("by category", func(t *testing.T) {
		m := &MockStorage{
			categories: testCategories(),
			budgets:    []budget.Budget{{ID: "b1", CategoryID: "cat-food", Amount: 100_000, IsActive: true}},
		}
		res := newTestExecutor(m).Execute(ctx, UpdateBudget{CategoryID: "cat-food", Amount: 300_000})
		require.True(t, res.Success, res.Message)
		assert.Contains(t, res.Message, "Ăn uống")
		assert.Contains(t, res.Message, "100.000₫ → 300.000₫")
		assert.Equal(t, 300_000.0, m.budgets[0].Amount)
		assert.Equal(t, 1, m.updateCalls)
	})

	t.Run("unknown id", func(t *testing.T) {
		m := &MockStorage{
			categories: testCategories(),
			budgets:    []budget.Budget{{ID: "b1", CategoryID: "cat-food", Amount: 100, IsActive: true}},
		}
		res := newTestExecutor(m).Execute(ctx, UpdateBudget{BudgetID: "b2", CategoryID: "cat-food", Amount: 500})
		assert.False(t, res.Success)
		assert.Equal(t, 0, m.updateCalls)
	})
}

func TestDeleteBudget(t *testing.T) {
	ctx := context.Background()
	m := &MockStorage{
		categories: testCategories(),
		budgets: []budget.Budget{
			{ID: "b1", CategoryID: "cat-food", Amount: 100, IsActive: true},
			{ID: "b2", CategoryID: "cat-move", Amount: 100, IsActive: true},
		},
	}
	e := newTestExecutor(m)

	res := e.Execute(ctx, DeleteBudget{BudgetID: "b2"})
	require.True(t, res.Success)
	assert.Contains(t, res.Message, "Di chuyển")
	require.Len(t, m.budgets, 1)

	res = e.Execute(ctx, DeleteBudget{CategoryID: "cat-shop"})
	assert.False(t, res.Success)
	assert.Equal(t, 1, m.deleteCalls)
}

func TestBudgetStatusPartitions(t *testing.T) {
	m := &MockStorage{
		categories: testCategories(),
		budgets: []budget.Budget{
			{ID: "over", CategoryID: "cat-food", Amount: 100, SpentAmount: 120, IsActive: true},
			{ID: "near", CategoryID: "cat-move", Amount: 100, SpentAmount: 85, IsActive: true},
			{ID: "exact", CategoryID: "cat-bill", Amount: 100, SpentAmount: 100, IsActive: true},
			{ID: "safe", CategoryID: "cat-shop", Amount: 100, SpentAmount: 10, IsActive: true},
			{ID: "inactive", CategoryID: "cat-shop", Amount: 100, SpentAmount: 500, IsActive: false},
		},
	}

	res := newTestExecutor(m).Execute(context.Background(), GetBudgetStatus{})
	require.True(t, res.Success)
	s := res.Data.(BudgetStatus)
	require.Len(t, s.Over, 1)
	assert.Equal(t, "over", s.Over[0].Budget.ID)
	require.Len(t, s.Near, 2)
	require.Len(t, s.Safe, 1)
	assert.Contains(t, res.Message, "Vượt ngân sách (1): Ăn uống")

	res = newTestExecutor(m).Execute(context.Background(), GetBudgetStatus{CategoryID: "cat-shop"})
	s = res.Data.(BudgetStatus)
	assert.Len(t, s.Safe, 1)
	assert.Empty(t, s.Over)
}

func TestHealthScoreBands(t *testing.T) {
	tests := []struct {
		name    string
		income  float64
		expense float64
		score   int
		level   string
	}{
		{name: "saves 30%", income: 10_000_000, expense: 7_000_000, score: 85, level: LevelExcellent},
		{name: "saves 80%", income: 10_000_000, expense: 2_000_000, score: 100, level: LevelExcellent},
		{name: "saves 20%", income: 10_000_000, expense: 8_000_000, score: 70, level: LevelGood},
		{name: "saves 10%", income: 10_000_000, expense: 9_000_000, score: 55, level: LevelFair},
		{name: "overspends 20%", income: 10_000_000, expense: 12_000_000, score: 32, level: LevelPoor},
		{name: "no income", income: 0, expense: 1_000, score: 10, level: LevelPoor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			score, _, _ := scoreFor(tt.income, tt.expense)
			assert.Equal(t, tt.score, score)
			assert.Equal(t, tt.level, levelFor(score))
		})
	}
}

func TestHealthScoreIsDeterministic(t *testing.T) {
	m := &MockStorage{
		categories: testCategories(),
		transactions: []budget.Transaction{
			tx("a", 10_000_000, "cat-salary", true, day(2026, 10, 1)),
			tx("b", 7_000_000, "cat-food", false, day(2026, 10, 2)),
		},
	}
	e := newTestExecutor(m)

	first := e.Execute(context.Background(), GetFinancialHealthScore{Period: period.Month})
	second := e.Execute(context.Background(), GetFinancialHealthScore{Period: period.Month})
	require.True(t, first.Success)
	assert.Equal(t, first, second)
	assert.Equal(t, 85, first.Data.(HealthScore).Score)

	empty := e.Execute(context.Background(), GetFinancialHealthScore{Period: period.PreviousYear})
	require.True(t, empty.Success)
	assert.Equal(t, 50, empty.Data.(HealthScore).Score)
	assert.Equal(t, LevelFair, empty.Data.(HealthScore).Level)
	assert.Contains(t, empty.Message, "Chưa có giao dịch nào")
}

func TestSpendingForecastUsesHistory(t *testing.T) {
	m := &MockStorage{
		categories: testCategories(),
		transactions: []budget.Transaction{
			tx("jul", 1_000_000, "cat-food", false, day(2026, 7, 10)),
			tx("aug", 2_000_000, "cat-food", false, day(2026, 8, 10)),
			tx("sep", 3_000_000, "cat-food", false, day(2026, 9, 10)),
			tx("oct", 500_000, "cat-food", false, day(2026, 10, 10)),
		},
	}
	e := newTestExecutor(m)

	res := e.Execute(context.Background(), GetSpendingForecast{Months: 3})
	require.True(t, res.Success, res.Message)
	f := res.Data.(Forecast)
	require.Len(t, f.History, 3)
	assert.InDelta(t, 2_000_000, f.Mean, 0.01)
	assert.InDelta(t, 1_183_503.4, f.Low, 1)
	assert.InDelta(t, 2_816_496.6, f.High, 1)
	assert.Equal(t, ForecastConfidence, f.Confidence)

	again := e.Execute(context.Background(), GetSpendingForecast{Months: 3})
	assert.Equal(t, res, again)

	short := newTestExecutor(&MockStorage{transactions: []budget.Transaction{tx("sep", 1_000, "", false, day(2026, 9, 1))}})
	assert.False(t, short.Execute(context.Background(), GetSpendingForecast{Months: 3}).Success)
}

func TestBudgetRecommendations(t *testing.T) {
	m := &MockStorage{
		categories: testCategories(),
		transactions: []budget.Transaction{
			tx("s1", 10_000_000, "cat-salary", true, day(2026, 7, 1)),
			tx("s2", 10_000_000, "cat-salary", true, day(2026, 8, 1)),
			tx("s3", 10_000_000, "cat-salary", true, day(2026, 9, 1)),
			tx("f1", 3_000_000, "cat-food", false, day(2026, 9, 5)),
		},
	}

	res := newTestExecutor(m).Execute(context.Background(), GetBudgetRecommendations{})
	require.True(t, res.Success, res.Message)
	r := res.Data.(Recommendations)
	assert.InDelta(t, 10_000_000, r.AverageIncome, 0.01)
	assert.InDelta(t, 5_000_000, r.Needs, 0.01)
	assert.InDelta(t, 2_000_000, r.Savings, 0.01)
	require.Len(t, r.Categories, 1)
	assert.InDelta(t, 900_000, r.Categories[0].Amount, 0.01)
}

func TestQuickTips(t *testing.T) {
	m := &MockStorage{categories: testCategories()}
	res := newTestExecutor(m).Execute(context.Background(), GetQuickTips{})
	require.True(t, res.Success)
	tips := res.Data.([]string)
	assert.Len(t, tips, maxTips)
	assert.Contains(t, tips[0], "chưa có ngân sách")
}

func TestUnknownCommand(t *testing.T) {
	res := newTestExecutor(&MockStorage{}).Execute(context.Background(), Unknown{Text: "???"})
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "đang được phát triển")
}

type panicStore struct {
	MockStorage
}

func (p *panicStore) CurrentTransactions(ctx context.Context) ([]budget.Transaction, error) {
	panic("boom")
}

func TestExecuteRecoversFromPanics(t *testing.T) {
	p := &panicStore{MockStorage: MockStorage{categories: testCategories()}}
	e := NewExecutor(p, p, p, WithLogger(logging.Discard()))

	var res CommandResult
	require.NotPanics(t, func() {
		res = e.Execute(context.Background(), ListTransactions{Period: period.Month})
	})
	assert.False(t, res.Success)
}

func TestLoadErrorBecomesFailure(t *testing.T) {
	m := &MockStorage{loadErr: customErrors.New(customErrors.ErrInternal, "timeout")}
	res := newTestExecutor(m).Execute(context.Background(), ShowSummary{Period: period.Month})
	assert.False(t, res.Success)
	assert.Contains(t, res.Message, "timeout")
}
