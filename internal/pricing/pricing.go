// Package pricing derives the displayed and charged prices from a
// product's list price.
package pricing

import "github.com/shopspring/decimal"

var (
	// SaleRate is the storewide discount applied at checkout.
	SaleRate = decimal.NewFromInt(30)
	// ExtraRate is the additional discount advertised on the details page.
	ExtraRate = decimal.NewFromInt(5)

	hundred = decimal.NewFromInt(100)
)

// Quote is the price breakdown for a single unit.
type Quote struct {
	List     decimal.Decimal // price as stored
	Saved    decimal.Decimal // SaleRate of List
	Sale     decimal.Decimal // List - Saved, what the buyer pays
	Extra    decimal.Decimal // ExtraRate of List
	Original decimal.Decimal // List + Saved, shown struck through
}

// Percent returns pct percent of price, rounded to two places.
func Percent(price decimal.Decimal, pct decimal.Decimal) decimal.Decimal {
	return price.Mul(pct).Div(hundred).Round(2)
}

// QuoteFor builds the breakdown for a list price.
func QuoteFor(price float64) Quote {
	list := decimal.NewFromFloat(price)
	saved := Percent(list, SaleRate)
	return Quote{
		List:     list,
		Saved:    saved,
		Sale:     list.Sub(saved),
		Extra:    Percent(list, ExtraRate),
		Original: list.Add(saved),
	}
}

// Line returns the sale unit price, the line total and the amount saved on
// the line for qty units.
func (q Quote) Line(qty int) (unit, total, saved decimal.Decimal) {
	n := decimal.NewFromInt(int64(qty))
	return q.Sale, q.Sale.Mul(n), q.Saved.Mul(n)
}
