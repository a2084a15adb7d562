package report

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var moneyPrinter = message.NewPrinter(language.English)

// FormatCents renders an integer cent amount as a dollar string with
// grouped thousands, e.g. 1234550 -> "$12,345.50".
func FormatCents(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	return moneyPrinter.Sprintf("%s$%d.%02d", sign, cents/100, cents%100)
}

// FormatHours renders fractional hours with one decimal, e.g. "80.0h".
func FormatHours(hours float64) string {
	return moneyPrinter.Sprintf("%.1fh", hours)
}
