package storefront

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// Defaults used by the storefront when formatting prices.
const (
	DefaultLocale   = "en-IN"
	DefaultCurrency = "INR"
)

// FormatPrice renders amount in the given currency using the number
// conventions of locale, with between zero and two fraction digits.
// An unknown locale falls back to English and an unknown currency code is
// printed as given.
func FormatPrice(amount decimal.Decimal, locale, code string) string {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.English
	}
	p := message.NewPrinter(tag)

	value := amount.Round(2).InexactFloat64()
	digits := p.Sprint(number.Decimal(math.Abs(value), number.MinFractionDigits(0), number.MaxFractionDigits(2)))

	symbol := code
	if unit, err := currency.ParseISO(code); err == nil {
		symbol = p.Sprint(currency.NarrowSymbol(unit))
	}
	if value < 0 {
		return "-" + symbol + digits
	}
	return symbol + digits
}

// FormatINR formats amount with the storefront defaults.
func FormatINR(amount decimal.Decimal) string {
	return FormatPrice(amount, DefaultLocale, DefaultCurrency)
}

var relativeUnits = []struct {
	size float64
	name string
}{
	{60, "second"},
	{60, "minute"},
	{24, "hour"},
	{7, "day"},
	{4.34524, "week"},
	{12, "month"},
	{math.Inf(1), "year"},
}

// FormatRelativeTime describes t relative to now in English, for example
// "3 hours ago", "yesterday" or "in 5 seconds".
func FormatRelativeTime(t, now time.Time) string {
	diff := math.Floor(now.Sub(t).Seconds())
	unit := "second"
	for _, u := range relativeUnits {
		if diff < u.size {
			unit = u.name
			break
		}
		diff /= u.size
	}
	n := int(math.Floor(diff))

	switch {
	case n == 0 && unit == "second":
		return "now"
	case n < 0:
		return fmt.Sprintf("in %d %s", -n, plural(unit, -n))
	case n == 1 && unit == "day":
		return "yesterday"
	case n == 1 && unit != "second" && unit != "minute" && unit != "hour":
		return "last " + unit
	}
	return fmt.Sprintf("%d %s ago", n, plural(unit, n))
}

func plural(unit string, n int) string {
	if n == 1 {
		return unit
	}
	return unit + "s"
}
