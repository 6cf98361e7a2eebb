package ui

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var robuxPrinter = message.NewPrinter(language.English)

// Robux formats a price with digit grouping, e.g. 12500 -> "R$ 12,500".
func Robux(price int64) string {
	return robuxPrinter.Sprintf("R$ %d", price)
}
