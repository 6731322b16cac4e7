package assistant

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const dateLayout = "02/01/2006"

// CommandResult is the executor's reply envelope.
type CommandResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

func okResult(message string, data any) CommandResult {
	return CommandResult{Success: true, Message: message, Data: data}
}

func failResult(message string) CommandResult {
	return CommandResult{Success: false, Message: message}
}

// formatMoney renders whole dong with dot thousands separators: 1234567.6 ->
// "1.234.568₫".
func formatMoney(amount float64) string {
	d := decimal.NewFromFloat(amount).Round(0)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	digits := d.String()
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return sign + b.String() + "₫"
}

func formatPercent(p float64) string {
	return decimal.NewFromFloat(p).StringFixed(1) + "%"
}

func formatSignedPercent(p float64) string {
	if p > 0 {
		return "+" + formatPercent(p)
	}
	return formatPercent(p)
}

func formatDate(t time.Time) string {
	return t.Format(dateLayout)
}

// sum adds amounts in decimal to keep totals exact at dong precision.
func sum(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.InexactFloat64()
}

// percentChange is (cur-prev)/prev*100, 0 when prev is 0.
func percentChange(cur, prev float64) float64 {
	if prev == 0 {
		return 0
	}
	return (cur - prev) / prev * 100
}

// share is part/total*100, 0 when total is 0.
func share(part, total float64) float64 {
	if total == 0 {
		return 0
	}
	return part / total * 100
}
