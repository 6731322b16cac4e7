package assistant

import (
	"sort"
	"strings"

	"github.com/fatali-fataliyev/budget_assistant/internal/budget"
)

// categoryIndex resolves category mentions against a snapshot. It never
// returns an error: an unresolved mention yields ok=false.
type categoryIndex struct {
	all []budget.Category
}

func newCategoryIndex(categories []budget.Category) categoryIndex {
	sorted := make([]budget.Category, len(categories))
	copy(sorted, categories)
	// longest name first so "Thu nhập khác" wins over "Khác"
	sort.SliceStable(sorted, func(i, j int) bool {
		return len([]rune(sorted[i].Name)) > len([]rune(sorted[j].Name))
	})
	return categoryIndex{all: sorted}
}

func (ix categoryIndex) ofType(t budget.CategoryType) []budget.Category {
	var out []budget.Category
	for _, c := range ix.all {
		if t == "" || c.Type == t {
			out = append(out, c)
		}
	}
	return out
}

// byName is an exact, normalized name match restricted to t when set.
func (ix categoryIndex) byName(name string, t budget.CategoryType) (budget.Category, bool) {
	for _, c := range ix.ofType(t) {
		if sameName(c.Name, name) {
			return c, true
		}
	}
	return budget.Category{}, false
}

// mentioned returns the longest category name of type t contained in u.
func (ix categoryIndex) mentioned(u utterance, t budget.CategoryType) (budget.Category, bool) {
	for _, c := range ix.ofType(t) {
		if u.containsName(c.Name) {
			return c, true
		}
	}
	return budget.Category{}, false
}

// fromBuckets maps keyword buckets to a category of type t present in the
// snapshot.
func (ix categoryIndex) fromBuckets(u utterance, buckets []compiledBucket, t budget.CategoryType) (budget.Category, bool) {
	for _, b := range buckets {
		if !u.hasAny(b.any) {
			continue
		}
		if c, ok := ix.byName(b.name, t); ok {
			return c, true
		}
	}
	return budget.Category{}, false
}

// fuzzy finds a category by a free-form name: exact match first, then
// containment in either direction. Expense categories are preferred.
func fuzzyCategory(categories []budget.Category, name string) (budget.Category, bool) {
	want := normalize(name)
	if want == "" {
		return budget.Category{}, false
	}
	ordered := make([]budget.Category, 0, len(categories))
	for _, c := range categories {
		if c.Type == budget.CategoryExpense {
			ordered = append(ordered, c)
		}
	}
	for _, c := range categories {
		if c.Type != budget.CategoryExpense {
			ordered = append(ordered, c)
		}
	}

	for _, c := range ordered {
		if normalize(c.Name) == want {
			return c, true
		}
	}
	for _, c := range ordered {
		have := normalize(c.Name)
		if have != "" && (strings.Contains(want, have) || strings.Contains(have, want)) {
			return c, true
		}
	}
	return budget.Category{}, false
}
