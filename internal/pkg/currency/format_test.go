package currency

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFormat(t *testing.T) {
	assert.Equal(t, "$1,000.00", Format(decimal.NewFromInt(1000), "USD"))
	assert.Equal(t, "$12.35", Format(decimal.RequireFromString("12.345"), "usd"))
	assert.Equal(t, "$5.00", Format(decimal.NewFromInt(5), "???"))
}

func TestFormat_BeyondMinorUnitRange(t *testing.T) {
	huge := decimal.RequireFromString("999999999999999999.99")
	assert.Equal(t, "USD 999999999999999999.99", Format(huge, "USD"))
	assert.Equal(t, "USD -999999999999999999.99", Format(huge.Neg(), "USD"))

	largest := decimal.RequireFromString("92233720368547758.07")
	assert.Equal(t, "$92,233,720,368,547,758.07", Format(largest, "USD"))
}
