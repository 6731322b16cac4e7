package assistant

import (
	"strings"

	"github.com/fatali-fataliyev/budget_assistant/internal/budget"
	"github.com/fatali-fataliyev/budget_assistant/internal/period"
)

// Kind names a recognized intent. The string values are the intent keys used
// in rules.yaml.
type Kind string

const (
	KindAddTransaction           Kind = "add_transaction"
	KindListTransactions         Kind = "list_transactions"
	KindAnalyzeSpending          Kind = "analyze_spending"
	KindGetDailySummary          Kind = "get_daily_summary"
	KindExportTransactions       Kind = "export_transactions"
	KindComparePeriods           Kind = "compare_periods"
	KindSearchTransactions       Kind = "search_transactions_by_keyword"
	KindCreateBudget             Kind = "create_budget"
	KindUpdateBudget             Kind = "update_budget"
	KindDeleteBudget             Kind = "delete_budget"
	KindGetBudgetStatus          Kind = "get_budget_status"
	KindSetBudget                Kind = "set_budget"
	KindGetSpendingForecast      Kind = "get_spending_forecast"
	KindGetBudgetRecommendations Kind = "get_budget_recommendations"
	KindGetFinancialHealthScore  Kind = "get_financial_health_score"
	KindAnalyzeSpendingTrend     Kind = "analyze_spending_trend"
	KindShowSummary              Kind = "show_summary"
	KindGetQuickTips             Kind = "get_quick_tips"
	KindUnknown                  Kind = "unknown"
)

var knownKinds = map[Kind]bool{
	KindAddTransaction: true, KindListTransactions: true, KindAnalyzeSpending: true,
	KindGetDailySummary: true, KindExportTransactions: true, KindComparePeriods: true,
	KindSearchTransactions: true, KindCreateBudget: true, KindUpdateBudget: true,
	KindDeleteBudget: true, KindGetBudgetStatus: true, KindSetBudget: true,
	KindGetSpendingForecast: true, KindGetBudgetRecommendations: true,
	KindGetFinancialHealthScore: true, KindAnalyzeSpendingTrend: true,
	KindShowSummary: true, KindGetQuickTips: true,
}

// Command is one recognized user intent. The set of implementations is closed
// to this package.
type Command interface {
	Kind() Kind
	command()
}

type AddTransaction struct {
	Amount       float64
	IsIncome     bool
	CategoryID   string
	CategoryName string
	Title        string
}

type ListTransactions struct {
	Period     period.Token
	CategoryID string
	Wallet     string
	Limit      int
}

type AnalyzeSpending struct {
	Period period.Token
	TopN   int
}

type GetDailySummary struct {
	Period period.Token // today or yesterday
}

type ExportTransactions struct {
	Period     period.Token
	CategoryID string
}

type ComparePeriods struct {
	Unit period.Token // today, week, month, quarter or year
}

type SearchTransactionsByKeyword struct {
	Keyword string
	Limit   int
}

type CreateBudget struct {
	CategoryID string
	Amount     float64
	PeriodType budget.PeriodType
	Note       string
}

type UpdateBudget struct {
	BudgetID   string
	CategoryID string
	Amount     float64
}

type DeleteBudget struct {
	BudgetID   string
	CategoryID string
}

type GetBudgetStatus struct {
	CategoryID string
}

type SetBudget struct {
	CategoryName string
	Amount       float64
	PeriodType   budget.PeriodType
}

type GetSpendingForecast struct {
	Months int
}

type GetBudgetRecommendations struct{}

type GetFinancialHealthScore struct {
	Period period.Token
}

type AnalyzeSpendingTrend struct {
	Months int
}

type ShowSummary struct {
	Period period.Token
}

type GetQuickTips struct{}

type Unknown struct {
	Text string
}

func (AddTransaction) Kind() Kind              { return KindAddTransaction }
func (ListTransactions) Kind() Kind            { return KindListTransactions }
func (AnalyzeSpending) Kind() Kind             { return KindAnalyzeSpending }
func (GetDailySummary) Kind() Kind             { return KindGetDailySummary }
func (ExportTransactions) Kind() Kind          { return KindExportTransactions }
func (ComparePeriods) Kind() Kind              { return KindComparePeriods }
func (SearchTransactionsByKeyword) Kind() Kind { return KindSearchTransactions }
func (CreateBudget) Kind() Kind                { return KindCreateBudget }
func (UpdateBudget) Kind() Kind                { return KindUpdateBudget }
func (DeleteBudget) Kind() Kind                { return KindDeleteBudget }
func (GetBudgetStatus) Kind() Kind             { return KindGetBudgetStatus }
func (SetBudget) Kind() Kind                   { return KindSetBudget }
func (GetSpendingForecast) Kind() Kind         { return KindGetSpendingForecast }
func (GetBudgetRecommendations) Kind() Kind    { return KindGetBudgetRecommendations }
func (GetFinancialHealthScore) Kind() Kind     { return KindGetFinancialHealthScore }
func (AnalyzeSpendingTrend) Kind() Kind        { return KindAnalyzeSpendingTrend }
func (ShowSummary) Kind() Kind                 { return KindShowSummary }
func (GetQuickTips) Kind() Kind                { return KindGetQuickTips }
func (Unknown) Kind() Kind                     { return KindUnknown }

func (AddTransaction) command()              {}
func (ListTransactions) command()            {}
func (AnalyzeSpending) command()             {}
func (GetDailySummary) command()             {}
func (ExportTransactions) command()          {}
func (ComparePeriods) command()              {}
func (SearchTransactionsByKeyword) command() {}
func (CreateBudget) command()                {}
func (UpdateBudget) command()                {}
func (DeleteBudget) command()                {}
func (GetBudgetStatus) command()             {}
func (SetBudget) command()                   {}
func (GetSpendingForecast) command()         {}
func (GetBudgetRecommendations) command()    {}
func (GetFinancialHealthScore) command()     {}
func (AnalyzeSpendingTrend) command()        {}
func (ShowSummary) command()                 {}
func (GetQuickTips) command()                {}
func (Unknown) command()                     {}

// Defaults records which fields of a parsed command were filled by a
// fallback instead of being read from the utterance.
type Defaults uint8

const (
	DefaultAmount Defaults = 1 << iota
	DefaultCategory
	DefaultPeriod
)

func (d Defaults) Has(flag Defaults) bool {
	return d&flag != 0
}

func (d Defaults) String() string {
	var parts []string
	if d.Has(DefaultAmount) {
		parts = append(parts, "amount")
	}
	if d.Has(DefaultCategory) {
		parts = append(parts, "category")
	}
	if d.Has(DefaultPeriod) {
		parts = append(parts, "period")
	}
	return strings.Join(parts, ",")
}

// Parsed is the parser's output: the command plus how much of it was guessed.
type Parsed struct {
	Command  Command
	Defaults Defaults
}
