package assistant

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/fatali-fataliyev/budget_assistant/internal/budget"
	"github.com/fatali-fataliyev/budget_assistant/internal/period"
)

const (
	TrendStableThreshold = 5.0
	ForecastConfidence   = 80
	summaryTopCategories = 3
)

type SpendingAnalysis struct {
	Period       period.Token     `json:"period"`
	Total        float64          `json:"total"`
	DailyAverage float64          `json:"daily_average"`
	Categories   []CategoryAmount `json:"categories"`
}

type Comparison struct {
	Unit          period.Token  `json:"unit"`
	Current       PeriodSummary `json:"current"`
	Previous      PeriodSummary `json:"previous"`
	IncomeChange  float64       `json:"income_change"`
	ExpenseChange float64       `json:"expense_change"`
	BalanceChange float64       `json:"balance_change"`
}

type MonthAmount struct {
	Month  string  `json:"month"` // MM/YYYY
	Amount float64 `json:"amount"`
}

type Trend struct {
	Months        []MonthAmount `json:"months"`
	Direction     string        `json:"direction"`
	ChangePercent float64       `json:"change_percent"`
}

type Summary struct {
	PeriodSummary
	Period        period.Token     `json:"period"`
	TopCategories []CategoryAmount `json:"top_categories"`
	OverBudget    int              `json:"over_budget"`
}

func (e *Executor) analyzeSpending(ctx context.Context, cmd AnalyzeSpending) CommandResult {
	snap, err := e.load(ctx)
	if err != nil {
		return e.storeFailure(ctx, "phân tích chi tiêu", err)
	}
	now := e.now()
	r := period.Resolve(cmd.Period, now)
	txs := snap.inRange(r)
	breakdown := snap.expenseByCategory(txs)
	total := summarize(txs).Expense

	label := period.Label(cmd.Period)
	if len(breakdown) == 0 {
		return okResult(fmt.Sprintf("📊 Chưa có khoản chi nào trong %s.", label), SpendingAnalysis{Period: cmd.Period})
	}

	days := elapsedDays(r, txs, now)
	analysis := SpendingAnalysis{
		Period:       cmd.Period,
		Total:        total,
		DailyAverage: total / float64(days),
		Categories:   breakdown,
	}

	topN := cmd.TopN
	if topN <= 0 {
		topN = DefaultTopN
	}
	var b strings.Builder
	fmt.Fprintf(&b, "📊 Phân tích chi tiêu %s\n", label)
	fmt.Fprintf(&b, "💸 Tổng chi: %s\n", formatMoney(total))
	fmt.Fprintf(&b, "📆 Trung bình mỗi ngày: %s\n", formatMoney(analysis.DailyAverage))
	b.WriteString("🏆 Danh mục chi nhiều nhất:")
	for i, c := range breakdown {
		if i == topN {
			break
		}
		fmt.Fprintf(&b, "\n%d. %s: %s (%s)", i+1, c.Name, formatMoney(c.Amount), formatPercent(c.Percent))
	}
	return okResult(b.String(), analysis)
}

// elapsedDays is the number of days of r that have already started, at
// least 1. Unbounded ranges start at the earliest transaction.
func elapsedDays(r period.Range, txs []budget.Transaction, now time.Time) int {
	start := r.Start
	if start.IsZero() {
		for _, t := range txs {
			if start.IsZero() || t.Date.Before(start) {
				start = t.Date
			}
		}
	}
	end := period.StartOfDay(now).AddDate(0, 0, 1)
	if !r.End.IsZero() && r.End.Before(end) {
		end = r.End
	}
	if days := period.DaysBetween(start, end); days > 0 {
		return days
	}
	return 1
}

func (e *Executor) comparePeriods(ctx context.Context, cmd ComparePeriods) CommandResult {
	snap, err := e.load(ctx)
	if err != nil {
		return e.storeFailure(ctx, "so sánh chi tiêu", err)
	}
	unit := compareUnit(cmd.Unit)
	now := e.now()
	cur := summarize(snap.inRange(period.Resolve(unit, now)))
	prev := summarize(snap.inRange(period.Previous(unit, now)))

	cmp := Comparison{
		Unit:          unit,
		Current:       cur,
		Previous:      prev,
		IncomeChange:  percentChange(cur.Income, prev.Income),
		ExpenseChange: percentChange(cur.Expense, prev.Expense),
	}
	if prev.Balance != 0 {
		cmp.BalanceChange = (cur.Balance - prev.Balance) / math.Abs(prev.Balance) * 100
	}

	var b strings.Builder
	fmt.Fprintf(&b, "⚖️ So sánh %s với kỳ trước\n", period.Label(unit))
	fmt.Fprintf(&b, "💸 Chi: %s (kỳ trước %s, %s)\n", formatMoney(cur.Expense), formatMoney(prev.Expense), formatSignedPercent(cmp.ExpenseChange))
	fmt.Fprintf(&b, "💰 Thu: %s (kỳ trước %s, %s)\n", formatMoney(cur.Income), formatMoney(prev.Income), formatSignedPercent(cmp.IncomeChange))
	fmt.Fprintf(&b, "📊 Cân đối: %s (kỳ trước %s, %s)", formatMoney(cur.Balance), formatMoney(prev.Balance), formatSignedPercent(cmp.BalanceChange))
	switch {
	case cmp.ExpenseChange > 0:
		b.WriteString("\n⚠️ Bạn đang chi nhiều hơn kỳ trước.")
	case cmp.ExpenseChange < 0:
		b.WriteString("\n👍 Bạn đang chi ít hơn kỳ trước.")
	}
	return okResult(b.String(), cmp)
}

// monthlyExpenses totals expenses per calendar month range.
func monthlyExpenses(txs []budget.Transaction, ranges []period.Range) []MonthAmount {
	out := make([]MonthAmount, 0, len(ranges))
	for _, r := range ranges {
		var amounts []float64
		for _, t := range txs {
			if !t.IsIncome && r.Contains(t.Date) {
				amounts = append(amounts, t.Amount)
			}
		}
		out = append(out, MonthAmount{Month: r.Start.Format("01/2006"), Amount: sum(amounts...)})
	}
	return out
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	return sum(values...) / float64(len(values))
}

func stddev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	var acc float64
	for _, v := range values {
		acc += (v - m) * (v - m)
	}
	return math.Sqrt(acc / float64(len(values)))
}

func amountsOf(months []MonthAmount) []float64 {
	out := make([]float64, len(months))
	for i, m := range months {
		out[i] = m.Amount
	}
	return out
}

func (e *Executor) spendingTrend(ctx context.Context, cmd AnalyzeSpendingTrend) CommandResult {
	snap, err := e.load(ctx)
	if err != nil {
		return e.storeFailure(ctx, "phân tích xu hướng", err)
	}
	n := cmd.Months
	if n < 2 {
		n = 2
	}
	months := monthlyExpenses(snap.transactions, period.MonthRanges(e.now(), n, true))
	values := amountsOf(months)
	earlier, later := mean(values[:n/2]), mean(values[n/2:])

	trend := Trend{Months: months}
	switch {
	case earlier == 0 && later > 0:
		trend.Direction = "tăng"
	case earlier == 0:
		trend.Direction = "ổn định"
	default:
		trend.ChangePercent = percentChange(later, earlier)
		switch {
		case trend.ChangePercent > TrendStableThreshold:
			trend.Direction = "tăng"
		case trend.ChangePercent < -TrendStableThreshold:
			trend.Direction = "giảm"
		default:
			trend.Direction = "ổn định"
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "📈 Xu hướng chi tiêu %d tháng gần đây\n", n)
	for _, m := range months {
		fmt.Fprintf(&b, "• %s: %s\n", m.Month, formatMoney(m.Amount))
	}
	fmt.Fprintf(&b, "Xu hướng: %s", trend.Direction)
	if trend.ChangePercent != 0 {
		fmt.Fprintf(&b, " (%s)", formatSignedPercent(trend.ChangePercent))
	}
	return okResult(b.String(), trend)
}

func (e *Executor) showSummary(ctx context.Context, cmd ShowSummary) CommandResult {
	snap, err := e.load(ctx)
	if err != nil {
		return e.storeFailure(ctx, "tổng kết", err)
	}
	budgets, err := e.budgets.CurrentBudgets(ctx)
	if err != nil {
		return e.storeFailure(ctx, "tải ngân sách", err)
	}

	txs := snap.inRange(period.Resolve(cmd.Period, e.now()))
	summary := Summary{PeriodSummary: summarize(txs), Period: cmd.Period}
	top := snap.expenseByCategory(txs)
	if len(top) > summaryTopCategories {
		top = top[:summaryTopCategories]
	}
	summary.TopCategories = top
	for _, bg := range budgets {
		if bg.IsActive && bg.SpentAmount > bg.Amount {
			summary.OverBudget++
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "🧾 Tổng quan %s\n", period.Label(cmd.Period))
	fmt.Fprintf(&b, "💰 Thu: %s\n💸 Chi: %s\n📊 Cân đối: %s\n🔢 Số giao dịch: %d",
		formatMoney(summary.Income), formatMoney(summary.Expense), formatMoney(summary.Balance), summary.Count)
	if len(top) > 0 {
		b.WriteString("\n🏆 Chi nhiều nhất:")
		for i, c := range top {
			fmt.Fprintf(&b, "\n%d. %s: %s", i+1, c.Name, formatMoney(c.Amount))
		}
	}
	if summary.OverBudget > 0 {
		fmt.Fprintf(&b, "\n⚠️ %d ngân sách đã vượt hạn mức.", summary.OverBudget)
	}
	return okResult(b.String(), summary)
}
