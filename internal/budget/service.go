package budget

import (
	"fmt"
	"strings"
	"time"

	appErrors "github.com/fatali-fataliyev/budget_assistant/customErrors"
	"github.com/google/uuid"
)

const (
	MAX_TRANSACTION_AMOUNT_LIMIT    = 999999999999999999
	MAX_TRANSACTION_TITLE_LENGTH    = 255
	MAX_TRANSACTION_NOTE_LENGTH     = 1000
	MAX_BUDGET_AMOUNT_LIMIT         = 999999999999999999.99
	MAX_CATEGORY_NAME_LENGTH        = 255
	Epsilon                         = 1e-9 // For IsFloatZero() func.
	DEFAULT_EXPENSE_CATEGORY_NAME   = "Khác"
	DEFAULT_INCOME_CATEGORY_NAME    = "Thu nhập khác"
	DEFAULT_CATEGORY_ICON           = "📦"
	DEFAULT_CATEGORY_COLOR          = "#9E9E9E"
	ASSISTANT_TRANSACTION_DESC_MARK = "Thêm qua trợ lý"
)

func IsFloatZero(f float64) bool {
	return f >= 0 && f < Epsilon
}

func ValidateTransaction(t Transaction) error {
	if t.Amount < 0 || IsFloatZero(t.Amount) {
		return appErrors.New(appErrors.ErrInvalidInput, "Transaction amount must be greater than zero.")
	}
	if t.Amount > MAX_TRANSACTION_AMOUNT_LIMIT {
		return appErrors.New(appErrors.ErrInvalidInput, "Maximum allowed amount per transaction is: %d", int64(MAX_TRANSACTION_AMOUNT_LIMIT))
	}
	if len(t.Title) > MAX_TRANSACTION_TITLE_LENGTH {
		return appErrors.New(appErrors.ErrInvalidInput, "Title so long, maximum allowed length is: %d", MAX_TRANSACTION_TITLE_LENGTH)
	}
	if len(t.Description) > MAX_TRANSACTION_NOTE_LENGTH {
		return appErrors.New(appErrors.ErrInvalidInput, "Description so long, maximum allowed length is: %d", MAX_TRANSACTION_NOTE_LENGTH)
	}
	if t.Date.IsZero() {
		return appErrors.New(appErrors.ErrInvalidInput, "Transaction date is required.")
	}
	return nil
}

func ValidateBudget(b Budget) error {
	if b.CategoryID == "" {
		return appErrors.New(appErrors.ErrInvalidInput, "Budget category is required.")
	}
	if b.Amount < 0 || IsFloatZero(b.Amount) {
		return appErrors.New(appErrors.ErrInvalidInput, "Budget amount must be greater than zero.")
	}
	if b.Amount > MAX_BUDGET_AMOUNT_LIMIT {
		return appErrors.New(appErrors.ErrInvalidInput, "Budget amount is too large, the limit is: %.2f", MAX_BUDGET_AMOUNT_LIMIT)
	}
	if _, err := ParsePeriodType(string(b.PeriodType)); err != nil {
		return appErrors.New(appErrors.ErrInvalidInput, "Invalid budget period: %s", b.PeriodType)
	}
	if !b.EndDate.After(b.StartDate) {
		return appErrors.New(appErrors.ErrInvalidInput, "Budget end date must be after its start date.")
	}
	return nil
}

var weekdayNames = map[time.Weekday]string{
	time.Monday:    "Thứ Hai",
	time.Tuesday:   "Thứ Ba",
	time.Wednesday: "Thứ Tư",
	time.Thursday:  "Thứ Năm",
	time.Friday:    "Thứ Sáu",
	time.Saturday:  "Thứ Bảy",
	time.Sunday:    "Chủ Nhật",
}

func DayOfWeek(date time.Time) string {
	return weekdayNames[date.Weekday()]
}

var defaultCategories = []Category{
	{Name: "Ăn uống", Type: CategoryExpense, Icon: "🍜", Color: "#FF7043"},
	{Name: "Di chuyển", Type: CategoryExpense, Icon: "🚗", Color: "#42A5F5"},
	{Name: "Mua sắm", Type: CategoryExpense, Icon: "🛍️", Color: "#AB47BC"},
	{Name: "Giải trí", Type: CategoryExpense, Icon: "🎬", Color: "#FFCA28"},
	{Name: "Hóa đơn", Type: CategoryExpense, Icon: "🧾", Color: "#8D6E63"},
	{Name: "Sức khỏe", Type: CategoryExpense, Icon: "💊", Color: "#EF5350"},
	{Name: "Giáo dục", Type: CategoryExpense, Icon: "📚", Color: "#5C6BC0"},
	{Name: DEFAULT_EXPENSE_CATEGORY_NAME, Type: CategoryExpense, Icon: DEFAULT_CATEGORY_ICON, Color: DEFAULT_CATEGORY_COLOR},
	{Name: "Lương", Type: CategoryIncome, Icon: "💰", Color: "#66BB6A"},
	{Name: "Thưởng", Type: CategoryIncome, Icon: "🎁", Color: "#26A69A"},
	{Name: "Đầu tư", Type: CategoryIncome, Icon: "📈", Color: "#29B6F6"},
	{Name: DEFAULT_INCOME_CATEGORY_NAME, Type: CategoryIncome, Icon: "💵", Color: "#9CCC65"},
}

// DefaultCategories returns the built-in category set with fresh IDs.
func DefaultCategories() []Category {
	out := make([]Category, len(defaultCategories))
	for i, c := range defaultCategories {
		c.ID = uuid.New().String()
		out[i] = c
	}
	return out
}

// DefaultCategoryName is the fallback bucket for the given polarity.
func DefaultCategoryName(isIncome bool) string {
	if isIncome {
		return DEFAULT_INCOME_CATEGORY_NAME
	}
	return DEFAULT_EXPENSE_CATEGORY_NAME
}

// Appearance returns the icon and color for a category, falling back to the
// built-in table by name and then to the neutral defaults.
func Appearance(c Category) (icon string, color string) {
	icon, color = c.Icon, c.Color
	if icon != "" && color != "" {
		return icon, color
	}
	for _, d := range defaultCategories {
		if strings.EqualFold(d.Name, c.Name) {
			if icon == "" {
				icon = d.Icon
			}
			if color == "" {
				color = d.Color
			}
			break
		}
	}
	if icon == "" {
		icon = DEFAULT_CATEGORY_ICON
	}
	if color == "" {
		color = DEFAULT_CATEGORY_COLOR
	}
	return icon, color
}

func (c Category) String() string {
	return fmt.Sprintf("%s (%s)", c.Name, c.Type)
}
