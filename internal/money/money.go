package money

import (
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

// thousandsOnly matches "1.500" or "1.234.567": dot-grouped digits without cents.
var thousandsOnly = regexp.MustCompile(`^[1-9]\d{0,2}(\.\d{3})+$`)

// FormatBRL renders an amount as Brazilian Real, e.g. "R$ 1.234,56".
func FormatBRL(d decimal.Decimal) string {
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	whole, cents, _ := strings.Cut(d.StringFixed(2), ".")

	return sign + "R$ " + group(whole) + "," + cents
}

// ParseBRL reads amounts typed the Brazilian way ("1.234,56", "R$ 90", "12,5").
// A plain "12.50" is also accepted when there is no comma, while "1.500" reads as fifteen hundred.
func ParseBRL(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(s), "R$"))

	if strings.Contains(s, ",") || thousandsOnly.MatchString(s) {
		s = strings.ReplaceAll(s, ".", "")
		s = strings.ReplaceAll(s, ",", ".")
	}

	return decimal.NewFromString(s)
}

func group(digits string) string {
	if len(digits) <= 3 {
		return digits
	}

	var b strings.Builder

	lead := len(digits) % 3
	if lead > 0 {
		b.WriteString(digits[:lead])
	}

	for i := lead; i < len(digits); i += 3 {
		if b.Len() > 0 {
			b.WriteByte('.')
		}

		b.WriteString(digits[i : i+3])
	}

	return b.String()
}
