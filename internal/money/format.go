// Package money renders integer rupiah amounts for display.
package money

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const Symbol = "Rp"

var printer = message.NewPrinter(language.Indonesian)

// Format renders amount with Indonesian digit grouping, e.g. "Rp 15.000".
func Format(amount int64) string {
	return printer.Sprintf("%s %d", Symbol, amount)
}
