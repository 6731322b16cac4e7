package assistant

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

const (
	numberPattern = `(\d+(?:[.,]\d+)*)`
	wordEnd       = `(?:[^\p{L}\p{N}]|$)`
)

type amountUnit int

const (
	unitBare amountUnit = iota
	unitMillion
	unitThousand
	unitCurrency
)

type amountPattern struct {
	re   *regexp.Regexp
	unit amountUnit
}

// Most specific unit first; the first pattern that matches decides.
var amountPatterns = []amountPattern{
	{regexp.MustCompile(numberPattern + `\s*(?:triệu|million|tr|m)` + wordEnd), unitMillion},
	{regexp.MustCompile(numberPattern + `\s*(?:nghìn|ngàn|thousand|k)` + wordEnd), unitThousand},
	{regexp.MustCompile(numberPattern + `\s*(?:₫|vnđ|vnd|đồng|dong|đ)` + wordEnd), unitCurrency},
	{regexp.MustCompile(`(?:^|[^\p{L}\p{N}.,])` + numberPattern + wordEnd), unitBare},
}

var (
	lastIntegerRe = regexp.MustCompile(`\d+`)
	// a bare number followed by one of these counts something other than money
	countSuffixRe = regexp.MustCompile(`^\s*(?:tháng|ngày|tuần|năm|quý|giao dịch|lần|months?|days?|weeks?|years?|transactions?|times)` + wordEnd)
	// a bare number after one of these names a calendar period: "tháng 10", "năm 2025"
	periodPrefixRe = regexp.MustCompile(`(?:^|[^\p{L}\p{N}])(?:tháng|ngày|tuần|năm|quý|months?|years?|weeks?|days?|quarters?)\s*$`)
)

var (
	million  = decimal.NewFromInt(1_000_000)
	thousand = decimal.NewFromInt(1_000)
)

// ExtractAmount reads a money amount from free text. It returns 0 when the
// text holds nothing numeric; callers must reject a zero amount.
func ExtractAmount(text string) float64 {
	n := normalize(text)
	for _, p := range amountPatterns {
		m := p.re.FindStringSubmatch(n)
		if m == nil {
			continue
		}
		value, ok := parseNumber(m[1])
		if !ok {
			continue
		}
		return scale(value, p.unit).InexactFloat64()
	}

	all := lastIntegerRe.FindAllString(n, -1)
	if len(all) == 0 {
		return 0
	}
	value, err := decimal.NewFromString(all[len(all)-1])
	if err != nil {
		return 0
	}
	return scale(value, unitBare).InexactFloat64()
}

// hasAmount reports whether the text carries a money-looking number. Bare
// numbers that count things or name a calendar period do not qualify.
func hasAmount(normalized string) bool {
	for _, p := range amountPatterns {
		if p.unit != unitBare {
			if p.re.MatchString(normalized) {
				return true
			}
			continue
		}
		for _, loc := range p.re.FindAllStringSubmatchIndex(normalized, -1) {
			if countSuffixRe.MatchString(normalized[loc[3]:]) || periodPrefixRe.MatchString(normalized[:loc[2]]) {
				continue
			}
			return true
		}
	}
	return false
}

func scale(value decimal.Decimal, unit amountUnit) decimal.Decimal {
	switch unit {
	case unitMillion:
		return value.Mul(million)
	case unitThousand:
		return value.Mul(thousand)
	case unitCurrency:
		return value
	default:
		if value.GreaterThanOrEqual(thousand) {
			return value
		}
		return value.Mul(thousand)
	}
}

// parseNumber resolves '.' and ',' as thousands separators or decimal mark.
// Several separators, or a single one followed by exactly three digits, are
// thousands separators; a lone separator otherwise is the decimal mark. When
// both characters appear the last one is the decimal mark.
func parseNumber(s string) (decimal.Decimal, bool) {
	dots := strings.Count(s, ".")
	commas := strings.Count(s, ",")

	var cleaned string
	switch {
	case dots == 0 && commas == 0:
		cleaned = s
	case dots > 0 && commas > 0:
		last := strings.LastIndexAny(s, ".,")
		intPart := strings.NewReplacer(".", "", ",", "").Replace(s[:last])
		cleaned = intPart + "." + s[last+1:]
	default:
		sep := "."
		if commas > 0 {
			sep = ","
		}
		parts := strings.Split(s, sep)
		if len(parts) > 2 || len(parts[1]) == 3 {
			cleaned = strings.Join(parts, "")
		} else {
			cleaned = parts[0] + "." + parts[1]
		}
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}
