// Package presentation renders analysis results as Telegram Markdown.
package presentation

import (
	"math"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const (
	// DescriptionLimit is the number of characters of a token description shown.
	DescriptionLimit = 200

	// smallPriceThreshold switches price display to 8 decimals.
	smallPriceThreshold = 0.01
)

var (
	billion  = decimal.NewFromInt(1_000_000_000)
	million  = decimal.NewFromInt(1_000_000)
	thousand = decimal.NewFromInt(1_000)

	printer = message.NewPrinter(language.English)

	// Legacy Markdown honours a backslash only before these four characters.
	markdownEscaper = strings.NewReplacer(
		"_", `\_`,
		"*", `\*`,
		"`", "\\`",
		"[", `\[`,
	)
)

// FormatCurrency renders a USD amount with a B/M/K suffix and two decimals.
func FormatCurrency(v float64) string {
	d := decimal.NewFromFloat(v)
	switch {
	case d.GreaterThanOrEqual(billion):
		return "$" + d.Div(billion).StringFixed(2) + "B"
	case d.GreaterThanOrEqual(million):
		return "$" + d.Div(million).StringFixed(2) + "M"
	case d.GreaterThanOrEqual(thousand):
		return "$" + d.Div(thousand).StringFixed(2) + "K"
	default:
		return "$" + d.StringFixed(2)
	}
}

// FormatPrice renders a unit price: 8 decimals below one cent, else 2.
func FormatPrice(p float64) string {
	d := decimal.NewFromFloat(p)
	if p < smallPriceThreshold {
		return "$" + d.StringFixed(8)
	}
	return "$" + d.StringFixed(2)
}

// FormatChange renders a 24h change with a direction marker, e.g. "🟢 +1.23%".
// The sign follows pct even when it rounds to zero.
func FormatChange(pct float64) string {
	s := decimal.NewFromFloat(math.Abs(pct)).StringFixed(2) + "%"
	if pct < 0 {
		return "🔴 -" + s
	}
	return "🟢 +" + s
}

// FormatSupply renders a token supply floored to whole units with thousands
// separators, followed by the symbol. Missing or zero supply renders "N/A".
func FormatSupply(supply *float64, symbol string) string {
	if supply == nil || *supply == 0 || math.IsNaN(*supply) || math.IsInf(*supply, 0) {
		return "N/A"
	}
	whole := printer.Sprint(number.Decimal(math.Floor(*supply), number.MaxFractionDigits(0)))
	return whole + " " + symbol
}

// FormatPercent renders a holder share in human percent with two decimals.
// value is in upstream units; scale is upstream units per percent.
func FormatPercent(value, scale float64) string {
	if scale <= 0 {
		scale = 100
	}
	return decimal.NewFromFloat(value).Div(decimal.NewFromFloat(scale)).StringFixed(2) + "%"
}

// FormatScore renders a score with one decimal, trimming a trailing ".0".
func FormatScore(score float64) string {
	return decimal.NewFromFloat(score).Round(1).String()
}

// TruncateDescription shortens s to limit characters and appends "..."
// when anything was cut.
func TruncateDescription(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	runes := []rune(s)
	return string(runes[:limit]) + "..."
}

// EscapeMarkdown escapes Telegram legacy Markdown control characters.
func EscapeMarkdown(s string) string {
	return markdownEscaper.Replace(s)
}

// escapeURL keeps a URL from terminating a Markdown link early.
func escapeURL(u string) string {
	return strings.NewReplacer(")", "%29", " ", "%20").Replace(u)
}
