package units

import (
	"fmt"
	"math"
	"strings"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatLocale renders v the way an en-US locale string does: grouped
// thousands and at most three fraction digits, trailing zeros dropped.
func FormatLocale(v float64) string {
	return formatGrouped(v, 3)
}

// FormatUSD renders a dollar amount, e.g. "$2,469,000".
func FormatUSD(v float64) string {
	return "$" + FormatLocale(v)
}

// FormatBTC keeps the full eight-digit precision of a BTC amount.
func FormatBTC(v float64) string {
	return formatGrouped(v, 8)
}

// FormatSats renders a whole satoshi amount.
func FormatSats(v float64) string {
	return formatGrouped(math.Round(v), 0)
}

func formatGrouped(v float64, maxFrac int) string {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "--"
	}
	s := printer.Sprintf(fmt.Sprintf("%%.%df", maxFrac), v)
	if strings.Contains(s, ".") {
		s = strings.TrimRight(s, "0")
		s = strings.TrimSuffix(s, ".")
	}
	if s == "-0" {
		return "0"
	}
	return s
}
