package renderer

import (
	"strconv"
	"strings"

	"github.com/moex-tools/bond"
	"github.com/shopspring/decimal"
)

// placeholder fills cells the feed had no value for, same glyph the MOEX
// terminal shows.
const placeholder = "–"

func orDash(s string) string {
	if s == "" {
		return placeholder
	}
	return s
}

func intOrDash(n int) string {
	if n == 0 {
		return placeholder
	}
	return strconv.Itoa(n)
}

func dateOrDash(d bond.Date) string {
	if d.IsZero() {
		return placeholder
	}
	return d.String()
}

func decOrDash(d decimal.NullDecimal) string {
	if !d.Valid {
		return placeholder
	}
	return d.Decimal.String()
}

func moneyOrDash(d decimal.NullDecimal, currency string) string {
	if !d.Valid {
		return placeholder
	}
	return bond.M(d.Decimal, currency).String()
}

func yesNo(v bool) string {
	if v {
		return "Да"
	}
	return "Нет"
}

// grouped formats a decimal with one fractional digit and comma thousands
// separators.
func grouped(d decimal.Decimal) string {
	s := d.StringFixed(1)
	neg := strings.HasPrefix(s, "-")
	s = strings.TrimPrefix(s, "-")
	dot := strings.Index(s, ".")
	whole, frac := s[:dot], s[dot:]
	for i := len(whole) - 3; i > 0; i -= 3 {
		whole = whole[:i] + "," + whole[i:]
	}
	if neg {
		whole = "-" + whole
	}
	return whole + frac
}
