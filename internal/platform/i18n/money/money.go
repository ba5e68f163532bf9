// Package money formats integer cent amounts for display.
package money

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// FormatBRL renders cents as Brazilian reais in the given locale.
func FormatBRL(locale string, cents int64) string {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.BrazilianPortuguese
	}
	printer := message.NewPrinter(tag)
	return printer.Sprintf("R$ %v", number.Decimal(float64(cents)/100,
		number.MinFractionDigits(2), number.MaxFractionDigits(2)))
}
