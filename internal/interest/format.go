package interest

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// FormatCurrency renders a whole-unit amount with locale digit grouping,
// e.g. FormatCurrency(182946, language.English, "R") == "R182,946".
func FormatCurrency(amount int64, tag language.Tag, symbol string) string {
	p := message.NewPrinter(tag)
	if amount < 0 {
		return p.Sprintf("-%s%d", symbol, -amount)
	}
	return p.Sprintf("%s%d", symbol, amount)
}
