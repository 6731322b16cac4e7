package assistant

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/fatali-fataliyev/budget_assistant/internal/budget"
	"github.com/fatali-fataliyev/budget_assistant/internal/period"
)

const (
	DefaultListLimit    = 20
	MaxListLimit        = 100
	DefaultTopN         = 5
	DefaultTrendMonths  = 6
	DefaultForecastMons = 3
	MaxHistoryMonths    = 24
)

var (
	budgetIDRe  = regexp.MustCompile(`[0-9a-f]{8}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{4}-[0-9a-f]{12}`)
	limitRe     = regexp.MustCompile(`(\d+)\s*(?:giao dịch|khoản|mục|transactions?|items?|entries)` + wordEnd)
	lastNRe     = regexp.MustCompile(`(?:last|latest|gần nhất|gần đây|mới nhất)\s+(\d+)` + wordEnd)
	topNRe      = regexp.MustCompile(`top\s*(\d+)` + wordEnd)
	monthsRe    = regexp.MustCompile(`(\d+)\s*(?:tháng|months?)` + wordEnd)
	walletRe    = regexp.MustCompile(`(?:ví|wallet)\s+([\p{L}\p{N}_-]+)`)
	noteRe      = regexp.MustCompile(`(?:ghi chú|note)\s*:?\s*(.+)$`)
	nameAfterRe = regexp.MustCompile(`(?:cho|for|danh mục|category|mục)\s+(.+)$`)
)

// Parser turns a command utterance into a typed Command. A Parser is bound
// to one category snapshot and is safe for concurrent use.
type Parser struct {
	rules      *Rules
	categories categoryIndex
}

func NewParser(rules *Rules, categories []budget.Category) *Parser {
	return &Parser{rules: rules, categories: newCategoryIndex(categories)}
}

// Parse matches the ordered intent table; the first matching rule wins and
// Unknown is returned when none does.
func (p *Parser) Parse(text string) Parsed {
	u := newUtterance(text)
	withoutIDs := budgetIDRe.ReplaceAllString(u.norm, " ")
	amountPresent := hasAmount(withoutIDs)

	for _, in := range p.rules.compiled.intents {
		if !u.hasAny(in.any) || u.hasAny(in.none) {
			continue
		}
		if in.requireAmount && !amountPresent {
			continue
		}
		if in.forbidAmount && amountPresent {
			continue
		}
		return p.build(in.kind, u, withoutIDs)
	}
	return Parsed{Command: Unknown{Text: text}}
}

func (p *Parser) build(kind Kind, u utterance, amountText string) Parsed {
	var d Defaults
	switch kind {
	case KindAddTransaction:
		return p.addTransaction(u, amountText)

	case KindListTransactions:
		tok, flag := p.period(u)
		cat, _ := p.categories.mentioned(u, "")
		return Parsed{Command: ListTransactions{
			Period:     tok,
			CategoryID: cat.ID,
			Wallet:     wallet(u),
			Limit:      listLimit(u),
		}, Defaults: flag}

	case KindSearchTransactions:
		return Parsed{Command: SearchTransactionsByKeyword{
			Keyword: p.searchKeyword(u),
			Limit:   listLimit(u),
		}}

	case KindAnalyzeSpending:
		tok, flag := p.period(u)
		return Parsed{Command: AnalyzeSpending{Period: tok, TopN: topN(u)}, Defaults: flag}

	case KindGetDailySummary:
		tok := period.Today
		if found, flag := p.period(u); flag == 0 && found == period.Yesterday {
			tok = found
		}
		return Parsed{Command: GetDailySummary{Period: tok}}

	case KindExportTransactions:
		tok, flag := p.period(u)
		cat, _ := p.categories.mentioned(u, "")
		return Parsed{Command: ExportTransactions{Period: tok, CategoryID: cat.ID}, Defaults: flag}

	case KindComparePeriods:
		tok, flag := p.period(u)
		return Parsed{Command: ComparePeriods{Unit: compareUnit(tok)}, Defaults: flag}

	case KindShowSummary:
		tok, flag := p.period(u)
		return Parsed{Command: ShowSummary{Period: tok}, Defaults: flag}

	case KindGetFinancialHealthScore:
		tok, flag := p.period(u)
		return Parsed{Command: GetFinancialHealthScore{Period: tok}, Defaults: flag}

	case KindAnalyzeSpendingTrend:
		return Parsed{Command: AnalyzeSpendingTrend{Months: months(u, DefaultTrendMonths)}}

	case KindGetSpendingForecast:
		return Parsed{Command: GetSpendingForecast{Months: months(u, DefaultForecastMons)}}

	case KindGetBudgetRecommendations:
		return Parsed{Command: GetBudgetRecommendations{}}

	case KindGetQuickTips:
		return Parsed{Command: GetQuickTips{}}

	case KindCreateBudget:
		cat, ok := p.budgetCategory(u)
		if !ok {
			d |= DefaultCategory
		}
		return Parsed{Command: CreateBudget{
			CategoryID: cat.ID,
			Amount:     ExtractAmount(amountText),
			PeriodType: p.budgetPeriod(u),
			Note:       note(u),
		}, Defaults: d}

	case KindSetBudget:
		name := ""
		if cat, ok := p.budgetCategory(u); ok {
			name = cat.Name
		} else {
			name = p.trailingName(u)
		}
		return Parsed{Command: SetBudget{
			CategoryName: name,
			Amount:       ExtractAmount(amountText),
			PeriodType:   p.budgetPeriod(u),
		}}

	case KindUpdateBudget:
		cat, _ := p.budgetCategory(u)
		return Parsed{Command: UpdateBudget{
			BudgetID:   budgetIDRe.FindString(u.norm),
			CategoryID: cat.ID,
			Amount:     ExtractAmount(amountText),
		}}

	case KindDeleteBudget:
		cat, _ := p.budgetCategory(u)
		return Parsed{Command: DeleteBudget{
			BudgetID:   budgetIDRe.FindString(u.norm),
			CategoryID: cat.ID,
		}}

	case KindGetBudgetStatus:
		cat, _ := p.budgetCategory(u)
		return Parsed{Command: GetBudgetStatus{CategoryID: cat.ID}}
	}
	return Parsed{Command: Unknown{Text: u.original}}
}

func (p *Parser) addTransaction(u utterance, amountText string) Parsed {
	var d Defaults
	rules := p.rules.compiled

	isIncome := p.isIncome(u)
	catType := budget.CategoryExpense
	if isIncome {
		catType = budget.CategoryIncome
	}

	amount := ExtractAmount(amountText)
	if amount <= 0 {
		d |= DefaultAmount
	}

	cat, ok := p.categories.mentioned(u, catType)
	if !ok {
		cat, ok = p.categories.fromBuckets(u, rules.categories, catType)
	}
	if !ok {
		d |= DefaultCategory
		name := budget.DefaultCategoryName(isIncome)
		if found, exists := p.categories.byName(name, ""); exists {
			cat = found
		} else {
			cat = budget.Category{Name: name, Type: catType}
		}
	}

	title := p.rules.DefaultExpenseTitle
	if isIncome {
		title = p.rules.DefaultIncomeTitle
	}
	for _, b := range rules.titles {
		if u.hasAny(b.any) {
			title = b.name
			break
		}
	}

	return Parsed{Command: AddTransaction{
		Amount:       amount,
		IsIncome:     isIncome,
		CategoryID:   cat.ID,
		CategoryName: cat.Name,
		Title:        title,
	}, Defaults: d}
}

// isIncome decides the direction of money. When both income and expense
// keywords occur, the one that comes first wins: "chi 5 triệu trả lương" pays
// a salary, "nhận lương 15 triệu" receives one.
func (p *Parser) isIncome(u utterance) bool {
	in, _ := u.earliest(p.rules.compiled.income)
	if in < 0 {
		return false
	}
	out, _ := u.earliest(p.rules.compiled.expense)
	return out < 0 || in < out
}

// budgetCategory resolves the category a budget command is about. Expense
// categories are tried first.
func (p *Parser) budgetCategory(u utterance) (budget.Category, bool) {
	if c, ok := p.categories.mentioned(u, budget.CategoryExpense); ok {
		return c, true
	}
	if c, ok := p.categories.fromBuckets(u, p.rules.compiled.categories, budget.CategoryExpense); ok {
		return c, true
	}
	return p.categories.mentioned(u, "")
}

// period returns the first period phrase found, or month flagged as a
// default.
// period picks the first matching period rule. A unit word followed by a
// number ("tháng 10", "năm 2025") names a calendar period no token covers,
// so the token is kept but flagged as a default.
func (p *Parser) period(u utterance) (period.Token, Defaults) {
	for _, pr := range p.rules.compiled.periods {
		ph, ok := u.firstOf(pr.any)
		if !ok {
			continue
		}
		if i := u.wordIndexAfter(ph); i >= 0 && i < len(u.words) && isNumber(u.words[i]) {
			return pr.token, DefaultPeriod
		}
		return pr.token, 0
	}
	return period.Month, DefaultPeriod
}

func (p *Parser) budgetPeriod(u utterance) budget.PeriodType {
	for _, bp := range p.rules.compiled.budgetPeriods {
		if u.hasAny(bp.any) {
			return bp.period
		}
	}
	return budget.PeriodMonth
}

// searchKeyword is what follows the search trigger with fillers, period
// words and numbers removed.
func (p *Parser) searchKeyword(u utterance) string {
	rules := p.rules.compiled
	start := -1
	for _, t := range rules.triggers {
		if i := u.wordIndexAfter(t); i >= 0 {
			start = i
			break
		}
	}
	if start < 0 {
		return ""
	}
	var kept []string
	for _, w := range u.words[start:] {
		if rules.fillers[w] || rules.periodWords[w] || isNumber(w) {
			continue
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

// trailingName is the free text after "cho"/"for", cut at the first number or
// period word.
func (p *Parser) trailingName(u utterance) string {
	m := nameAfterRe.FindStringSubmatch(u.norm)
	if m == nil {
		return ""
	}
	var kept []string
	for _, w := range words(m[1]) {
		if isNumber(w) || p.rules.compiled.periodWords[w] {
			break
		}
		kept = append(kept, w)
	}
	return strings.Join(kept, " ")
}

func compareUnit(tok period.Token) period.Token {
	switch tok {
	case period.Today, period.Yesterday:
		return period.Today
	case period.Week, period.PreviousWeek:
		return period.Week
	case period.Quarter:
		return period.Quarter
	case period.Year, period.PreviousYear:
		return period.Year
	default:
		return period.Month
	}
}

func listLimit(u utterance) int {
	for _, re := range []*regexp.Regexp{limitRe, lastNRe} {
		if m := re.FindStringSubmatch(u.norm); m != nil {
			return clampInt(atoi(m[1]), 1, MaxListLimit, DefaultListLimit)
		}
	}
	return DefaultListLimit
}

func topN(u utterance) int {
	if m := topNRe.FindStringSubmatch(u.norm); m != nil {
		return clampInt(atoi(m[1]), 1, 20, DefaultTopN)
	}
	return DefaultTopN
}

func months(u utterance, def int) int {
	if m := monthsRe.FindStringSubmatch(u.norm); m != nil {
		return clampInt(atoi(m[1]), 1, MaxHistoryMonths, def)
	}
	return def
}

func wallet(u utterance) string {
	if m := walletRe.FindStringSubmatch(u.norm); m != nil {
		return m[1]
	}
	return ""
}

func note(u utterance) string {
	if m := noteRe.FindStringSubmatch(u.norm); m != nil {
		return strings.TrimSpace(m[1])
	}
	return ""
}

func isNumber(w string) bool {
	_, err := strconv.Atoi(w)
	return err == nil
}

func atoi(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0
	}
	return n
}

// clampInt returns def for non-positive n and caps n into [lo, hi].
func clampInt(n, lo, hi, def int) int {
	if n <= 0 {
		return def
	}
	if n < lo {
		return lo
	}
	if n > hi {
		return hi
	}
	return n
}
