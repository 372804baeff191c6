package telebotConverter

import (
	"strings"

	"github.com/shopspring/decimal"
)

// Money formats d as dollars with thousands separators, e.g. -$1,234.50.
func Money(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	intPart, frac := s[:len(s)-3], s[len(s)-3:]

	var sb strings.Builder
	if d.IsNegative() {
		sb.WriteByte('-')
	}
	sb.WriteByte('$')
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}
	sb.WriteString(frac)
	return sb.String()
}

// Percent always carries a sign, e.g. +1.86%.
func Percent(d decimal.Decimal) string {
	if d.IsNegative() {
		return d.StringFixed(2) + "%"
	}
	return "+" + d.StringFixed(2) + "%"
}

func trend(d decimal.Decimal) string {
	if d.IsNegative() {
		return "🔻"
	}
	return "🟢"
}

// SplitText cuts text into parts no longer than limit runes, preferring line breaks.
func SplitText(text string, limit int) []string {
	runes := []rune(text)
	if len(runes) <= limit {
		return []string{text}
	}

	var parts []string
	for len(runes) > limit {
		cut := limit
		for i := limit; i > limit/2; i-- {
			if runes[i] == '\n' {
				cut = i
				break
			}
		}
		parts = append(parts, strings.TrimSpace(string(runes[:cut])))
		runes = runes[cut:]
	}
	if rest := strings.TrimSpace(string(runes)); rest != "" {
		parts = append(parts, rest)
	}
	return parts
}
