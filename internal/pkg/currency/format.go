package currency

import (
	"math"

	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"
)

// DefaultCode is used when the configured display currency is empty or unknown.
const DefaultCode = money.USD

var maxMinor = decimal.NewFromInt(math.MaxInt64)

// Format renders amount in the currency's display template, e.g. 1000 USD -> "$1,000.00".
// Amounts whose minor units exceed int64 are rendered as "<code> <amount>" instead.
func Format(amount decimal.Decimal, code string) string {
	cur := money.GetCurrency(code)
	if cur == nil {
		cur = money.GetCurrency(DefaultCode)
	}
	minor := amount.Shift(int32(cur.Fraction)).Round(0)
	if minor.Abs().GreaterThan(maxMinor) {
		return cur.Code + " " + amount.StringFixed(int32(cur.Fraction))
	}
	return money.New(minor.IntPart(), cur.Code).Display()
}
