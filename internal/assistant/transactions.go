package assistant

import (
	"context"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/fatali-fataliyev/budget_assistant/customErrors"
	"github.com/fatali-fataliyev/budget_assistant/internal/budget"
	"github.com/fatali-fataliyev/budget_assistant/internal/contextutil"
	"github.com/fatali-fataliyev/budget_assistant/internal/period"
	"github.com/shopspring/decimal"
)

var exportHeader = []string{"id", "date", "title", "category", "type", "amount", "wallet", "description"}

func (e *Executor) addTransaction(ctx context.Context, cmd AddTransaction) CommandResult {
	if cmd.Amount < 0 || budget.IsFloatZero(cmd.Amount) {
		return failResult("❌ Số tiền không hợp lệ. Ví dụ: \"Thêm chi tiêu 50k cho ăn uống\".")
	}

	cat, err := e.resolveTransactionCategory(ctx, cmd)
	if err != nil {
		return e.storeFailure(ctx, "tìm danh mục", err)
	}
	icon, color := budget.Appearance(cat)

	now := e.now()
	date := period.StartOfDay(now)
	t := budget.Transaction{
		ID:          e.newID(),
		Title:       cmd.Title,
		Amount:      cmd.Amount,
		CategoryID:  cat.ID,
		IsIncome:    cmd.IsIncome,
		Date:        date,
		DayOfWeek:   budget.DayOfWeek(date),
		Wallet:      DefaultWallet,
		Description: budget.ASSISTANT_TRANSACTION_DESC_MARK,
		Icon:        icon,
		Color:       color,
		CreatedAt:   now,
	}
	if err := budget.ValidateTransaction(t); err != nil {
		return failResult("❌ " + customErrors.MessageOf(err))
	}

	if err := e.transactions.AddTransaction(ctx, t); err != nil {
		return e.storeFailure(ctx, "thêm giao dịch", err)
	}
	e.log.Infof("[TraceID=%s] | transaction %s added via assistant", contextutil.TraceIDFromContext(ctx), t.ID)

	if cmd.IsIncome {
		return okResult(fmt.Sprintf("✅ Đã thêm khoản thu %s vào %s", formatMoney(t.Amount), cat.Name), t)
	}
	return okResult(fmt.Sprintf("✅ Đã thêm khoản chi %s cho %s", formatMoney(t.Amount), cat.Name), t)
}

// resolveTransactionCategory tries the parsed ID, then the parsed name, then
// the default bucket for the polarity.
func (e *Executor) resolveTransactionCategory(ctx context.Context, cmd AddTransaction) (budget.Category, error) {
	if cmd.CategoryID != "" {
		c, found, err := e.categories.CategoryByID(ctx, cmd.CategoryID)
		if err != nil {
			return budget.Category{}, err
		}
		if found {
			return c, nil
		}
	}
	if cmd.CategoryName != "" {
		c, found, err := e.categories.CategoryByName(ctx, cmd.CategoryName)
		if err != nil {
			return budget.Category{}, err
		}
		if found {
			return c, nil
		}
	}
	name := budget.DefaultCategoryName(cmd.IsIncome)
	c, found, err := e.categories.CategoryByName(ctx, name)
	if err != nil {
		return budget.Category{}, err
	}
	if found {
		return c, nil
	}
	catType := budget.CategoryExpense
	if cmd.IsIncome {
		catType = budget.CategoryIncome
	}
	return budget.Category{Name: name, Type: catType}, nil
}

func (e *Executor) listTransactions(ctx context.Context, cmd ListTransactions) CommandResult {
	snap, err := e.load(ctx)
	if err != nil {
		return e.storeFailure(ctx, "tải giao dịch", err)
	}

	r := period.Resolve(cmd.Period, e.now())
	var matched []budget.Transaction
	for _, t := range snap.transactions {
		if !r.Contains(t.Date) {
			continue
		}
		if cmd.CategoryID != "" && t.CategoryID != cmd.CategoryID {
			continue
		}
		if cmd.Wallet != "" && !strings.EqualFold(t.Wallet, cmd.Wallet) {
			continue
		}
		matched = append(matched, t)
	}

	title := "📋 Giao dịch " + period.Label(cmd.Period)
	if cmd.CategoryID != "" {
		title += " - " + snap.categoryName(cmd.CategoryID)
	}
	if len(matched) == 0 {
		return okResult(fmt.Sprintf("Không có giao dịch nào trong %s.", period.Label(cmd.Period)), []budget.Transaction{})
	}
	return snap.renderList(title, matched, cmd.Limit)
}

func (e *Executor) searchTransactions(ctx context.Context, cmd SearchTransactionsByKeyword) CommandResult {
	keyword := normalize(cmd.Keyword)
	if keyword == "" {
		return failResult("🔍 Bạn muốn tìm giao dịch nào? Ví dụ: \"Tìm giao dịch cà phê\".")
	}

	snap, err := e.load(ctx)
	if err != nil {
		return e.storeFailure(ctx, "tải giao dịch", err)
	}

	var matched []budget.Transaction
	for _, t := range snap.transactions {
		if strings.Contains(normalize(t.Title), keyword) ||
			strings.Contains(normalize(snap.categoryName(t.CategoryID)), keyword) ||
			strings.Contains(normalize(t.Description), keyword) {
			matched = append(matched, t)
		}
	}
	if len(matched) == 0 {
		return okResult(fmt.Sprintf("🔍 Không tìm thấy giao dịch nào với từ khóa \"%s\".", cmd.Keyword), []budget.Transaction{})
	}
	return snap.renderList(fmt.Sprintf("🔍 Kết quả cho \"%s\"", cmd.Keyword), matched, cmd.Limit)
}

// renderList sorts newest first, caps the payload at limit and the message at
// InlineListLimit lines.
func (s snapshot) renderList(title string, matched []budget.Transaction, limit int) CommandResult {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	sorted := make([]budget.Transaction, len(matched))
	copy(sorted, matched)
	sortNewestFirst(sorted)

	items := sorted
	if len(items) > limit {
		items = items[:limit]
	}

	totals := summarize(sorted)
	var b strings.Builder
	fmt.Fprintf(&b, "%s (%d giao dịch)\n", title, len(sorted))
	fmt.Fprintf(&b, "💰 Thu: %s | 💸 Chi: %s\n", formatMoney(totals.Income), formatMoney(totals.Expense))

	shown := items
	if len(shown) > InlineListLimit {
		shown = shown[:InlineListLimit]
	}
	for _, t := range shown {
		b.WriteString(s.line(t))
		b.WriteByte('\n')
	}
	if rest := len(sorted) - len(shown); rest > 0 {
		fmt.Fprintf(&b, "... và %d giao dịch khác", rest)
	}
	return okResult(strings.TrimRight(b.String(), "\n"), items)
}

func (s snapshot) line(t budget.Transaction) string {
	sign := "-"
	if t.IsIncome {
		sign = "+"
	}
	return fmt.Sprintf("• %s %s (%s): %s%s", formatDate(t.Date), t.Title, s.categoryName(t.CategoryID), sign, formatMoney(t.Amount))
}

func (e *Executor) dailySummary(ctx context.Context, cmd GetDailySummary) CommandResult {
	snap, err := e.load(ctx)
	if err != nil {
		return e.storeFailure(ctx, "tải giao dịch", err)
	}
	tok := cmd.Period
	if tok != period.Yesterday {
		tok = period.Today
	}
	r := period.Resolve(tok, e.now())
	txs := snap.inRange(r)
	summary := summarize(txs)

	var b strings.Builder
	fmt.Fprintf(&b, "📅 Tổng kết %s (%s)\n", period.Label(tok), formatDate(r.Start))
	if len(txs) == 0 {
		b.WriteString("Chưa có giao dịch nào.")
		return okResult(b.String(), summary)
	}
	fmt.Fprintf(&b, "💰 Thu: %s\n💸 Chi: %s\n📊 Cân đối: %s\n", formatMoney(summary.Income), formatMoney(summary.Expense), formatMoney(summary.Balance))
	sortNewestFirst(txs)
	for i, t := range txs {
		if i == InlineListLimit {
			fmt.Fprintf(&b, "... và %d giao dịch khác\n", len(txs)-InlineListLimit)
			break
		}
		b.WriteString(snap.line(t))
		b.WriteByte('\n')
	}
	return okResult(strings.TrimRight(b.String(), "\n"), summary)
}

func (e *Executor) exportTransactions(ctx context.Context, cmd ExportTransactions) CommandResult {
	snap, err := e.load(ctx)
	if err != nil {
		return e.storeFailure(ctx, "tải giao dịch", err)
	}
	var txs []budget.Transaction
	for _, t := range snap.inRange(period.Resolve(cmd.Period, e.now())) {
		if cmd.CategoryID == "" || t.CategoryID == cmd.CategoryID {
			txs = append(txs, t)
		}
	}
	if len(txs) == 0 {
		return failResult(fmt.Sprintf("📤 Không có giao dịch nào trong %s để xuất.", period.Label(cmd.Period)))
	}
	sortNewestFirst(txs)

	var b strings.Builder
	w := csv.NewWriter(&b)
	if err := w.Write(exportHeader); err != nil {
		return e.storeFailure(ctx, "xuất giao dịch", err)
	}
	for _, t := range txs {
		kind := "expense"
		if t.IsIncome {
			kind = "income"
		}
		record := []string{
			t.ID,
			t.Date.Format("2006-01-02"),
			t.Title,
			snap.categoryName(t.CategoryID),
			kind,
			decimal.NewFromFloat(t.Amount).String(),
			t.Wallet,
			t.Description,
		}
		if err := w.Write(record); err != nil {
			return e.storeFailure(ctx, "xuất giao dịch", err)
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return e.storeFailure(ctx, "xuất giao dịch", err)
	}
	return okResult(fmt.Sprintf("📤 Đã xuất %d giao dịch %s sang CSV.", len(txs), period.Label(cmd.Period)), b.String())
}
