package main

import "github.com/shopspring/decimal"

var (
	freeShippingAbove = decimal.NewFromInt(50)
	standardShipping  = decimal.RequireFromString("4.99")
)

// lineTotal is price × quantity, exact.
func lineTotal(price float64, quantity int) decimal.Decimal {
	return decimal.NewFromFloat(price).Mul(decimal.NewFromInt(int64(quantity)))
}

// shippingFor applies the flat-rate rule: free strictly above 50.00,
// otherwise 4.99.
func shippingFor(subtotal decimal.Decimal) decimal.Decimal {
	if subtotal.GreaterThan(freeShippingAbove) {
		return decimal.Zero
	}
	return standardShipping
}

// cartTotals rounds to cents once, at the final sums, not per line.
func cartTotals(subtotal decimal.Decimal) (sub, shipping, total float64) {
	ship := shippingFor(subtotal)
	sub = subtotal.Round(2).InexactFloat64()
	shipping = ship.InexactFloat64()
	total = subtotal.Add(ship).Round(2).InexactFloat64()
	return sub, shipping, total
}
