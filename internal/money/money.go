// Package money parses user-written amounts and renders them in Brazilian
// currency format. Formatting is a presentation concern only; persisted
// amounts are plain signed numbers.
package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// ParseAmount parses an amount the way users write it in chat messages:
// "30", "30,50", "R$ 30", "R$ 1.234,56", "-25,90". The comma is the decimal
// separator and the dot groups thousands. A lone dot followed by one or two
// digits is accepted as a decimal point, since model output sometimes comes
// back in machine format ("1234.56").
func ParseAmount(text string) (decimal.Decimal, error) {
	s := strings.TrimSpace(text)

	negative := false
	if strings.HasPrefix(s, "-") || strings.HasPrefix(s, "+") {
		negative = s[0] == '-'
		s = s[1:]
	}

	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "R$")
	s = strings.TrimPrefix(s, "r$")
	s = strings.ReplaceAll(s, " ", "")
	if s == "" {
		return decimal.Zero, fmt.Errorf("ParseAmount: empty amount")
	}
	if negative {
		s = "-" + s
	}

	switch {
	case strings.Contains(s, ","):
		// Brazilian form: dots are thousands separators.
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case strings.Count(s, ".") == 1 && fractionDigits(s) <= 2:
		// Machine form, keep the dot as decimal point.
	default:
		s = strings.ReplaceAll(s, ".", "")
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, fmt.Errorf("ParseAmount: %q is not a valid amount: %w", text, err)
	}
	return d, nil
}

// FormatBRL renders a value as Brazilian currency: R$ 1.234,56 and
// -R$ 1.234,56, with dot-grouped thousands and a comma before the cents.
func FormatBRL(v decimal.Decimal) string {
	prefix := "R$ "
	if v.IsNegative() {
		prefix = "-R$ "
	}

	fixed := v.Abs().StringFixed(2)
	intPart, fracPart, _ := strings.Cut(fixed, ".")

	var b strings.Builder
	b.WriteString(prefix)
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	b.WriteByte(',')
	b.WriteString(fracPart)
	return b.String()
}

func fractionDigits(s string) int {
	idx := strings.LastIndex(s, ".")
	if idx < 0 {
		return 0
	}
	return len(s) - idx - 1
}
