package assistant

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"github.com/fatali-fataliyev/budget_assistant/internal/budget"
	"github.com/fatali-fataliyev/budget_assistant/internal/period"
	"gopkg.in/yaml.v3"
)

//go:embed rules.yaml
var defaultRulesYAML []byte

type IntentRule struct {
	Intent        Kind     `yaml:"intent"`
	Any           []string `yaml:"any"`
	None          []string `yaml:"none"`
	RequireAmount bool     `yaml:"require_amount"`
	ForbidAmount  bool     `yaml:"forbid_amount"`
}

type KeywordBucket struct {
	Name string   `yaml:"name"`
	Any  []string `yaml:"any"`
}

type PeriodRule struct {
	Token period.Token `yaml:"token"`
	Any   []string     `yaml:"any"`
}

type BudgetPeriodRule struct {
	Period budget.PeriodType `yaml:"period"`
	Any    []string          `yaml:"any"`
}

// Rules is the vocabulary table driving classification and parsing. Order
// inside every list is priority.
type Rules struct {
	QuestionWords       []string           `yaml:"question_words"`
	CommandWords        []string           `yaml:"command_words"`
	Intents             []IntentRule       `yaml:"intents"`
	IncomeKeywords      []string           `yaml:"income_keywords"`
	ExpenseKeywords     []string           `yaml:"expense_keywords"`
	CategoryKeywords    []KeywordBucket    `yaml:"category_keywords"`
	Titles              []KeywordBucket    `yaml:"titles"`
	DefaultIncomeTitle  string             `yaml:"default_income_title"`
	DefaultExpenseTitle string             `yaml:"default_expense_title"`
	Periods             []PeriodRule       `yaml:"periods"`
	BudgetPeriods       []BudgetPeriodRule `yaml:"budget_periods"`
	SearchFillers       []string           `yaml:"search_fillers"`

	compiled *compiledRules
}

type compiledIntent struct {
	kind          Kind
	any           []phrase
	none          []phrase
	requireAmount bool
	forbidAmount  bool
}

type compiledBucket struct {
	name string
	any  []phrase
}

type compiledPeriod struct {
	token period.Token
	any   []phrase
}

type compiledBudgetPeriod struct {
	period budget.PeriodType
	any    []phrase
}

type compiledRules struct {
	question      []phrase
	command       []phrase
	intents       []compiledIntent
	income        []phrase
	expense       []phrase
	categories    []compiledBucket
	titles        []compiledBucket
	periods       []compiledPeriod
	budgetPeriods []compiledBudgetPeriod
	fillers       map[string]bool
	periodWords   map[string]bool
	triggers      []phrase // search triggers, longest first
}

// DefaultRules parses the embedded rule table.
func DefaultRules() (*Rules, error) {
	return ParseRules(defaultRulesYAML)
}

// MustDefaultRules is DefaultRules for package-level initialization and tests.
func MustDefaultRules() *Rules {
	r, err := DefaultRules()
	if err != nil {
		panic(fmt.Sprintf("embedded rules are invalid: %v", err))
	}
	return r
}

// LoadRules reads a rule table from path; an empty path yields the defaults.
func LoadRules(path string) (*Rules, error) {
	if path == "" {
		return DefaultRules()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}
	return ParseRules(data)
}

func ParseRules(data []byte) (*Rules, error) {
	var r Rules
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("failed to parse rules: %w", err)
	}
	if err := r.Validate(); err != nil {
		return nil, err
	}
	r.compile()
	return &r, nil
}

func (r *Rules) Validate() error {
	if len(r.QuestionWords) == 0 {
		return fmt.Errorf("rules: question_words is empty")
	}
	if len(r.CommandWords) == 0 {
		return fmt.Errorf("rules: command_words is empty")
	}
	if len(r.Intents) == 0 {
		return fmt.Errorf("rules: intents is empty")
	}
	if len(r.IncomeKeywords) == 0 || len(r.ExpenseKeywords) == 0 {
		return fmt.Errorf("rules: income_keywords and expense_keywords are required")
	}
	seen := make(map[Kind]bool)
	for i, in := range r.Intents {
		if !knownKinds[in.Intent] {
			return fmt.Errorf("rules: intents[%d]: unknown intent %q", i, in.Intent)
		}
		if seen[in.Intent] {
			return fmt.Errorf("rules: intents[%d]: duplicate intent %q", i, in.Intent)
		}
		seen[in.Intent] = true
		if len(in.Any) == 0 {
			return fmt.Errorf("rules: intent %q has no phrases", in.Intent)
		}
		if in.RequireAmount && in.ForbidAmount {
			return fmt.Errorf("rules: intent %q both requires and forbids an amount", in.Intent)
		}
	}
	for i, p := range r.Periods {
		if _, err := period.ParseToken(string(p.Token)); err != nil {
			return fmt.Errorf("rules: periods[%d]: %w", i, err)
		}
	}
	for i, p := range r.BudgetPeriods {
		if _, err := budget.ParsePeriodType(string(p.Period)); err != nil {
			return fmt.Errorf("rules: budget_periods[%d]: %w", i, err)
		}
	}
	for i, b := range r.CategoryKeywords {
		if b.Name == "" {
			return fmt.Errorf("rules: category_keywords[%d] has no name", i)
		}
	}
	for i, b := range r.Titles {
		if b.Name == "" {
			return fmt.Errorf("rules: titles[%d] has no name", i)
		}
	}
	return nil
}

func (r *Rules) compile() {
	c := &compiledRules{
		question:    newPhrases(r.QuestionWords),
		command:     newPhrases(r.CommandWords),
		income:      newPhrases(r.IncomeKeywords),
		expense:     newPhrases(r.ExpenseKeywords),
		fillers:     make(map[string]bool),
		periodWords: make(map[string]bool),
	}
	for _, in := range r.Intents {
		ci := compiledIntent{
			kind:          in.Intent,
			any:           newPhrases(in.Any),
			none:          newPhrases(in.None),
			requireAmount: in.RequireAmount,
			forbidAmount:  in.ForbidAmount,
		}
		c.intents = append(c.intents, ci)
		if in.Intent == KindSearchTransactions {
			c.triggers = longestFirst(ci.any)
		}
	}
	for _, b := range r.CategoryKeywords {
		c.categories = append(c.categories, compiledBucket{name: b.Name, any: newPhrases(b.Any)})
	}
	for _, b := range r.Titles {
		c.titles = append(c.titles, compiledBucket{name: b.Name, any: newPhrases(b.Any)})
	}
	for _, p := range r.Periods {
		cp := compiledPeriod{token: p.Token, any: newPhrases(p.Any)}
		c.periods = append(c.periods, cp)
		for _, ph := range cp.any {
			for _, w := range words(ph.raw) {
				c.periodWords[w] = true
			}
		}
	}
	for _, p := range r.BudgetPeriods {
		c.budgetPeriods = append(c.budgetPeriods, compiledBudgetPeriod{period: p.Period, any: newPhrases(p.Any)})
	}
	for _, f := range r.SearchFillers {
		for _, w := range words(normalize(f)) {
			c.fillers[w] = true
		}
	}
	r.compiled = c
}

func longestFirst(list []phrase) []phrase {
	out := make([]phrase, len(list))
	copy(out, list)
	sort.SliceStable(out, func(i, j int) bool { return len(out[i].raw) > len(out[j].raw) })
	return out
}
