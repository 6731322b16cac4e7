package assistant

import (
	"context"
	"fmt"
	"strings"

	"github.com/fatali-fataliyev/budget_assistant/customErrors"
	"github.com/fatali-fataliyev/budget_assistant/internal/budget"
	"github.com/fatali-fataliyev/budget_assistant/internal/contextutil"
	"github.com/fatali-fataliyev/budget_assistant/internal/period"
)

const NearLimitPercent = 80.0

type BudgetUsage struct {
	Budget       budget.Budget `json:"budget"`
	CategoryName string        `json:"category_name"`
	Percent      float64       `json:"percent"`
	Remaining    float64       `json:"remaining"`
}

type BudgetStatus struct {
	Over []BudgetUsage `json:"over"`
	Near []BudgetUsage `json:"near"`
	Safe []BudgetUsage `json:"safe"`
}

var periodTypeLabels = map[budget.PeriodType]string{
	budget.PeriodWeek:    "tuần",
	budget.PeriodMonth:   "tháng",
	budget.PeriodQuarter: "quý",
	budget.PeriodYear:    "năm",
}

func (e *Executor) createBudget(ctx context.Context, cmd CreateBudget) CommandResult {
	if cmd.CategoryID == "" {
		return failResult("❌ Không tìm thấy danh mục cho ngân sách. Ví dụ: \"Tạo ngân sách 2 triệu cho ăn uống\".")
	}
	cat, found, err := e.categories.CategoryByID(ctx, cmd.CategoryID)
	if err != nil {
		return e.storeFailure(ctx, "tìm danh mục", err)
	}
	if !found {
		return failResult("❌ Không tìm thấy danh mục cho ngân sách.")
	}
	return e.saveBudget(ctx, cat, cmd.Amount, cmd.PeriodType, cmd.Note)
}

func (e *Executor) setBudget(ctx context.Context, cmd SetBudget) CommandResult {
	cats, err := e.categories.Categories(ctx, "")
	if err != nil {
		return e.storeFailure(ctx, "tìm danh mục", err)
	}
	cat, found := fuzzyCategory(cats, cmd.CategoryName)
	if !found {
		if cmd.CategoryName == "" {
			return failResult("❌ Bạn muốn đặt ngân sách cho danh mục nào?")
		}
		return failResult(fmt.Sprintf("❌ Không tìm thấy danh mục \"%s\".", cmd.CategoryName))
	}
	return e.saveBudget(ctx, cat, cmd.Amount, cmd.PeriodType, "")
}

func (e *Executor) saveBudget(ctx context.Context, cat budget.Category, amount float64, pt budget.PeriodType, note string) CommandResult {
	if amount < 0 || budget.IsFloatZero(amount) {
		return failResult("❌ Số tiền ngân sách phải lớn hơn 0.")
	}
	if pt == "" {
		pt = budget.PeriodMonth
	}
	now := e.now()
	start := period.StartOfDay(now)
	end, err := period.EndDate(start, pt)
	if err != nil {
		return failResult("❌ " + err.Error())
	}

	b := budget.Budget{
		ID:          e.newID(),
		CategoryID:  cat.ID,
		Amount:      amount,
		PeriodType:  pt,
		StartDate:   start,
		EndDate:     end,
		SpentAmount: 0,
		IsActive:    true,
		Note:        note,
		CreatedAt:   now,
	}
	if err := budget.ValidateBudget(b); err != nil {
		return failResult("❌ " + customErrors.MessageOf(err))
	}
	if err := e.budgets.AddBudget(ctx, b); err != nil {
		return e.storeFailure(ctx, "tạo ngân sách", err)
	}
	e.log.Infof("[TraceID=%s] | budget %s created for category %s", contextutil.TraceIDFromContext(ctx), b.ID, cat.ID)

	return okResult(fmt.Sprintf("✅ Đã tạo ngân sách %s cho %s (%s) từ %s đến %s",
		formatMoney(amount), cat.Name, periodTypeLabels[pt], formatDate(start), formatDate(end)), b)
}

// findBudget targets by ID when given, else the active budget of the
// category.
func findBudget(all []budget.Budget, budgetID, categoryID string) (budget.Budget, bool) {
	if budgetID != "" {
		for _, b := range all {
			if b.ID == budgetID {
				return b, true
			}
		}
		return budget.Budget{}, false
	}
	if categoryID == "" {
		return budget.Budget{}, false
	}
	for _, b := range all {
		if b.IsActive && b.CategoryID == categoryID {
			return b, true
		}
	}
	return budget.Budget{}, false
}

func (e *Executor) budgetCategoryName(ctx context.Context, id string) string {
	c, found, err := e.categories.CategoryByID(ctx, id)
	if err != nil || !found {
		return unknownCategoryLabel
	}
	return c.Name
}

func (e *Executor) updateBudget(ctx context.Context, cmd UpdateBudget) CommandResult {
	all, err := e.budgets.CurrentBudgets(ctx)
	if err != nil {
		return e.storeFailure(ctx, "tải ngân sách", err)
	}
	target, found := findBudget(all, cmd.BudgetID, cmd.CategoryID)
	if !found {
		return failResult("❌ Không tìm thấy ngân sách cần cập nhật.")
	}
	if cmd.Amount < 0 || budget.IsFloatZero(cmd.Amount) {
		return failResult("❌ Số tiền ngân sách phải lớn hơn 0.")
	}

	updated := target
	updated.Amount = cmd.Amount
	if err := e.budgets.UpdateBudget(ctx, updated); err != nil {
		return e.storeFailure(ctx, "cập nhật ngân sách", err)
	}
	name := e.budgetCategoryName(ctx, target.CategoryID)
	return okResult(fmt.Sprintf("✅ Đã cập nhật ngân sách %s: %s → %s", name, formatMoney(target.Amount), formatMoney(updated.Amount)), updated)
}

func (e *Executor) deleteBudget(ctx context.Context, cmd DeleteBudget) CommandResult {
	all, err := e.budgets.CurrentBudgets(ctx)
	if err != nil {
		return e.storeFailure(ctx, "tải ngân sách", err)
	}
	target, found := findBudget(all, cmd.BudgetID, cmd.CategoryID)
	if !found {
		return failResult("❌ Không tìm thấy ngân sách cần xóa.")
	}
	if err := e.budgets.DeleteBudget(ctx, target.ID); err != nil {
		return e.storeFailure(ctx, "xóa ngân sách", err)
	}
	name := e.budgetCategoryName(ctx, target.CategoryID)
	return okResult(fmt.Sprintf("🗑️ Đã xóa ngân sách %s", name), target)
}

func (e *Executor) budgetStatus(ctx context.Context, cmd GetBudgetStatus) CommandResult {
	all, err := e.budgets.CurrentBudgets(ctx)
	if err != nil {
		return e.storeFailure(ctx, "tải ngân sách", err)
	}
	active := activeBudgets(all, cmd.CategoryID)
	if len(active) == 0 {
		return okResult("📊 Bạn chưa có ngân sách nào đang hoạt động.", BudgetStatus{})
	}

	var status BudgetStatus
	for _, b := range active {
		u := BudgetUsage{
			Budget:       b,
			CategoryName: e.budgetCategoryName(ctx, b.CategoryID),
			Percent:      b.UsagePercent(),
			Remaining:    sum(b.Amount, -b.SpentAmount),
		}
		switch {
		case b.SpentAmount > b.Amount:
			status.Over = append(status.Over, u)
		case u.Percent >= NearLimitPercent:
			status.Near = append(status.Near, u)
		default:
			status.Safe = append(status.Safe, u)
		}
	}

	var sb strings.Builder
	sb.WriteString("📊 Tình trạng ngân sách\n")
	if len(status.Over) > 0 {
		names := make([]string, len(status.Over))
		for i, u := range status.Over {
			names[i] = u.CategoryName
		}
		fmt.Fprintf(&sb, "🔴 Vượt ngân sách (%d): %s\n", len(status.Over), strings.Join(names, ", "))
	}
	fmt.Fprintf(&sb, "🟡 Sắp vượt (%d)\n", len(status.Near))
	fmt.Fprintf(&sb, "🟢 An toàn (%d)", len(status.Safe))
	for _, group := range [][]BudgetUsage{status.Over, status.Near, status.Safe} {
		for _, u := range group {
			fmt.Fprintf(&sb, "\n• %s: %s / %s (%s)", u.CategoryName, formatMoney(u.Budget.SpentAmount), formatMoney(u.Budget.Amount), formatPercent(u.Percent))
		}
	}
	return okResult(sb.String(), status)
}
