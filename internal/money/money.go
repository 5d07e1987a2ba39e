// Package money holds the decimal arithmetic shared by the valuation and
// portfolio calculations.
package money

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// Hundred is the constant 100, used to turn ratios into percentages.
func Hundred() decimal.Decimal {
	return hundred
}

// Round2 rounds half away from zero to two decimal places.
func Round2(d decimal.Decimal) decimal.Decimal {
	return d.Round(2)
}

// Percent returns num / den * 100 rounded to two places. A non-positive
// denominator yields zero instead of an error.
func Percent(num, den decimal.Decimal) decimal.Decimal {
	if !den.IsPositive() {
		return decimal.Zero
	}
	return Round2(num.Mul(hundred).Div(den))
}

// Sum adds up the given amounts.
func Sum(amounts ...decimal.Decimal) decimal.Decimal {
	total := decimal.Zero
	for _, a := range amounts {
		total = total.Add(a)
	}
	return total
}

// OrZero dereferences d, treating nil as zero.
func OrZero(d *decimal.Decimal) decimal.Decimal {
	if d == nil {
		return decimal.Zero
	}
	return *d
}
