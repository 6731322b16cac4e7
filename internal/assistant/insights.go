package assistant

import (
	"context"
	"fmt"
	"math"
	"strings"

	"github.com/fatali-fataliyev/budget_assistant/internal/budget"
	"github.com/fatali-fataliyev/budget_assistant/internal/period"
)

const (
	LevelExcellent = "Xuất sắc"
	LevelGood      = "Tốt"
	LevelFair      = "Trung bình"
	LevelPoor      = "Cần cải thiện"

	recommendationMonths = 3
	recommendationShare  = 0.9
	maxTips              = 5
)

type HealthScore struct {
	Score        int     `json:"score"`
	Level        string  `json:"level"`
	SavingsRate  float64 `json:"savings_rate"`
	ExpenseRatio float64 `json:"expense_ratio"`
	Advice       string  `json:"advice"`
}

type Forecast struct {
	History    []MonthAmount `json:"history"`
	Mean       float64       `json:"mean"`
	Low        float64       `json:"low"`
	High       float64       `json:"high"`
	Confidence int           `json:"confidence"`
}

type Recommendations struct {
	AverageIncome float64          `json:"average_income"`
	Needs         float64          `json:"needs"`
	Wants         float64          `json:"wants"`
	Savings       float64          `json:"savings"`
	Categories    []CategoryAmount `json:"categories"`
}

var levelAdvice = map[string]string{
	LevelExcellent: "Tuyệt vời! Hãy duy trì thói quen tiết kiệm và cân nhắc đầu tư phần dư.",
	LevelGood:      "Tài chính ổn định. Thử tăng tỷ lệ tiết kiệm thêm 5-10%.",
	LevelFair:      "Bạn nên xem lại các khoản chi không thiết yếu và đặt ngân sách cho từng danh mục.",
	LevelPoor:      "Chi tiêu đang vượt thu nhập. Hãy cắt giảm chi phí và lập ngân sách ngay.",
}

var genericTips = []string{
	"Áp dụng quy tắc 50/30/20: 50% nhu cầu, 30% mong muốn, 20% tiết kiệm.",
	"Ghi lại mọi khoản chi, kể cả những khoản nhỏ như cà phê.",
	"Đợi 24 giờ trước khi mua những món đồ không cần thiết.",
	"Tự động chuyển một phần lương vào tài khoản tiết kiệm ngay khi nhận.",
	"Xem lại các gói đăng ký hàng tháng và hủy những gói ít dùng.",
}

// scoreFor maps a savings rate (percent) to a 0..100 score. Each band is a
// linear ramp so equal inputs always give equal scores.
func scoreFor(income, expense float64) (score int, savingsRate, expenseRatio float64) {
	if income <= 0 {
		if expense > 0 {
			return 10, 0, 0
		}
		return 50, 0, 0
	}
	savingsRate = (income - expense) / income * 100
	expenseRatio = expense / income * 100

	var s float64
	switch sr := savingsRate; {
	case sr >= 30:
		s = 85 + math.Min(sr-30, 30)/30*15
	case sr >= 20:
		s = 70 + (sr-20)/10*15
	case sr >= 10:
		s = 55 + (sr-10)/10*15
	case sr >= 0:
		s = 40 + sr/10*15
	default:
		s = 40 - math.Min(-sr, 100)/100*40
	}
	return int(math.Round(s)), savingsRate, expenseRatio
}

func levelFor(score int) string {
	switch {
	case score >= 80:
		return LevelExcellent
	case score >= 60:
		return LevelGood
	case score >= 40:
		return LevelFair
	default:
		return LevelPoor
	}
}

func (e *Executor) healthScore(ctx context.Context, cmd GetFinancialHealthScore) CommandResult {
	snap, err := e.load(ctx)
	if err != nil {
		return e.storeFailure(ctx, "tính điểm sức khỏe tài chính", err)
	}
	txs := snap.inRange(period.Resolve(cmd.Period, e.now()))
	s := summarize(txs)
	score, sr, er := scoreFor(s.Income, s.Expense)
	level := levelFor(score)
	health := HealthScore{
		Score:        score,
		Level:        level,
		SavingsRate:  sr,
		ExpenseRatio: er,
		Advice:       levelAdvice[level],
	}

	var b strings.Builder
	fmt.Fprintf(&b, "💪 Điểm sức khỏe tài chính %s: %d/100 (%s)\n", period.Label(cmd.Period), score, level)
	fmt.Fprintf(&b, "💰 Thu: %s | 💸 Chi: %s\n", formatMoney(s.Income), formatMoney(s.Expense))
	if len(txs) == 0 {
		fmt.Fprintf(&b, "📭 Chưa có giao dịch nào trong %s, điểm được tính ở mức trung bình.\n", period.Label(cmd.Period))
	}
	if s.Income > 0 {
		fmt.Fprintf(&b, "📈 Tỷ lệ tiết kiệm: %s | Tỷ lệ chi tiêu: %s\n", formatPercent(sr), formatPercent(er))
	}
	b.WriteString("💡 " + health.Advice)
	return okResult(b.String(), health)
}

func (e *Executor) spendingForecast(ctx context.Context, cmd GetSpendingForecast) CommandResult {
	snap, err := e.load(ctx)
	if err != nil {
		return e.storeFailure(ctx, "dự báo chi tiêu", err)
	}
	n := cmd.Months
	if n <= 0 {
		n = DefaultForecastMons
	}
	if n < 2 {
		n = 2
	}
	now := e.now()
	months := monthlyExpenses(snap.transactions, period.MonthRanges(now, n, false))
	// history starts at the first month that has any spending
	for len(months) > 0 && months[0].Amount == 0 {
		months = months[1:]
	}
	if len(months) < 2 {
		return failResult("🔮 Cần ít nhất 2 tháng lịch sử chi tiêu để dự báo. Hãy tiếp tục ghi chép nhé!")
	}

	values := amountsOf(months)
	m, sd := mean(values), stddev(values)
	f := Forecast{
		History:    months,
		Mean:       m,
		Low:        math.Max(0, m-sd),
		High:       m + sd,
		Confidence: ForecastConfidence,
	}

	current := summarize(snap.inRange(period.Resolve(period.Month, now))).Expense

	var b strings.Builder
	b.WriteString("🔮 Dự báo chi tiêu tháng tới\n")
	fmt.Fprintf(&b, "📊 Dựa trên %d tháng gần nhất: trung bình %s\n", len(months), formatMoney(m))
	fmt.Fprintf(&b, "📉 Khoảng dự báo: %s - %s (độ tin cậy %d%%)\n", formatMoney(f.Low), formatMoney(f.High), f.Confidence)
	fmt.Fprintf(&b, "🗓️ Tháng này đã chi: %s (%s mức trung bình)\n", formatMoney(current), formatPercent(share(current, m)))
	if m > 0 && sd/m > 0.3 {
		b.WriteString("💡 Chi tiêu của bạn biến động mạnh giữa các tháng. Hãy đặt ngân sách để ổn định hơn.")
	} else {
		b.WriteString("💡 Chi tiêu của bạn khá ổn định. Tiếp tục duy trì nhé!")
	}
	return okResult(b.String(), f)
}

func (e *Executor) budgetRecommendations(ctx context.Context) CommandResult {
	snap, err := e.load(ctx)
	if err != nil {
		return e.storeFailure(ctx, "gợi ý ngân sách", err)
	}
	ranges := period.MonthRanges(e.now(), recommendationMonths, false)
	window := period.Range{Start: ranges[0].Start, End: ranges[len(ranges)-1].End}
	txs := snap.inRange(window)
	if len(txs) == 0 {
		return failResult("💡 Chưa đủ dữ liệu 3 tháng gần nhất để gợi ý ngân sách.")
	}

	s := summarize(txs)
	income := s.Income / recommendationMonths
	rec := Recommendations{
		AverageIncome: income,
		Needs:         income * 0.5,
		Wants:         income * 0.3,
		Savings:       income * 0.2,
	}
	for _, c := range snap.expenseByCategory(txs) {
		suggested := c.Amount / recommendationMonths * recommendationShare
		rec.Categories = append(rec.Categories, CategoryAmount{
			CategoryID: c.CategoryID,
			Name:       c.Name,
			Amount:     suggested,
			Percent:    c.Percent,
		})
	}

	var b strings.Builder
	b.WriteString("💡 Gợi ý ngân sách hàng tháng\n")
	if income > 0 {
		fmt.Fprintf(&b, "Thu nhập trung bình: %s\n", formatMoney(income))
		fmt.Fprintf(&b, "• Nhu cầu thiết yếu (50%%): %s\n", formatMoney(rec.Needs))
		fmt.Fprintf(&b, "• Mong muốn (30%%): %s\n", formatMoney(rec.Wants))
		fmt.Fprintf(&b, "• Tiết kiệm (20%%): %s\n", formatMoney(rec.Savings))
	}
	if len(rec.Categories) > 0 {
		b.WriteString("Theo danh mục (90% mức trung bình 3 tháng):")
		for _, c := range rec.Categories {
			fmt.Fprintf(&b, "\n• %s: %s", c.Name, formatMoney(c.Amount))
		}
	}
	return okResult(strings.TrimRight(b.String(), "\n"), rec)
}

func (e *Executor) quickTips(ctx context.Context) CommandResult {
	snap, err := e.load(ctx)
	if err != nil {
		return e.storeFailure(ctx, "tải dữ liệu", err)
	}
	budgets, err := e.budgets.CurrentBudgets(ctx)
	if err != nil {
		return e.storeFailure(ctx, "tải ngân sách", err)
	}

	txs := snap.inRange(period.Resolve(period.Month, e.now()))
	s := summarize(txs)

	var tips []string
	if top := snap.expenseByCategory(txs); len(top) > 0 && top[0].Percent > 40 {
		tips = append(tips, fmt.Sprintf("%s chiếm %s chi tiêu tháng này. Hãy cân nhắc giảm bớt.", top[0].Name, formatPercent(top[0].Percent)))
	}
	if s.Income > 0 {
		if _, sr, _ := scoreFor(s.Income, s.Expense); sr < 20 {
			tips = append(tips, fmt.Sprintf("Tỷ lệ tiết kiệm tháng này là %s, thấp hơn mức khuyến nghị 20%%.", formatPercent(sr)))
		}
	}
	active, over := 0, 0
	for _, bg := range budgets {
		if !bg.IsActive {
			continue
		}
		active++
		if bg.SpentAmount > bg.Amount {
			over++
		}
	}
	if active == 0 {
		tips = append(tips, "Bạn chưa có ngân sách nào. Thử: \"Tạo ngân sách 2 triệu cho ăn uống\".")
	}
	if over > 0 {
		tips = append(tips, fmt.Sprintf("Có %d ngân sách đã vượt hạn mức. Xem chi tiết bằng \"Tình trạng ngân sách\".", over))
	}
	for _, t := range genericTips {
		if len(tips) >= maxTips {
			break
		}
		tips = append(tips, t)
	}

	var b strings.Builder
	b.WriteString("💡 Mẹo tài chính cho bạn:")
	for i, t := range tips {
		fmt.Fprintf(&b, "\n%d. %s", i+1, t)
	}
	return okResult(b.String(), tips)
}

// activeBudgets returns the active budgets, optionally for one category.
func activeBudgets(all []budget.Budget, categoryID string) []budget.Budget {
	var out []budget.Budget
	for _, b := range all {
		if b.IsActive && (categoryID == "" || b.CategoryID == categoryID) {
			out = append(out, b)
		}
	}
	return out
}
