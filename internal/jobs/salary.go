package jobs

import (
	"fmt"
	"math"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const negotiable = "Negotiable"

var amountPrinter = message.NewPrinter(language.English)

// FormatSalary renders a salary range. Zero bounds count as absent.
func FormatSalary(minimum, maximum *float64, currency string) string {
	if currency == "" {
		currency = DefaultCurrency
	}

	hasMin := minimum != nil && *minimum != 0
	hasMax := maximum != nil && *maximum != 0

	switch {
	case hasMin && hasMax:
		return fmt.Sprintf("%s - %s", formatAmount(*minimum, currency), formatAmount(*maximum, currency))
	case hasMin:
		return formatAmount(*minimum, currency)
	case hasMax:
		return formatAmount(*maximum, currency)
	default:
		return negotiable
	}
}

func formatAmount(amount float64, currency string) string {
	if currency == DefaultCurrency {
		return fmt.Sprintf("%dM VND", int64(math.Round(amount/1_000_000)))
	}
	return amountPrinter.Sprintf("%d %s", int64(math.Round(amount)), currency)
}
