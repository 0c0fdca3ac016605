package domain

import "github.com/shopspring/decimal"

// Column is the precision and scale of a numeric(p,s) column. Postgres rounds extra fraction
// digits on insert and rejects values with too many integer digits.
type Column struct {
	Precision int32
	Scale     int32
}

var (
	AmountColumn     = Column{Precision: 20, Scale: 2}
	PriceColumn      = Column{Precision: 20, Scale: 8}
	UnitsColumn      = Column{Precision: 30, Scale: 10}
	ValueColumn      = Column{Precision: 20, Scale: 2}
	ReturnRateColumn = Column{Precision: 20, Scale: 2}
)

// HasScale reports whether d carries no more fraction digits than the column stores.
func (col Column) HasScale(d decimal.Decimal) bool {
	return d.Equal(d.Truncate(col.Scale))
}

// InRange reports whether d fits the column's integer digits.
func (col Column) InRange(d decimal.Decimal) bool {
	limit := decimal.New(1, col.Precision-col.Scale)
	return d.Abs().LessThan(limit)
}

// Fits reports whether d is stored exactly as given.
func (col Column) Fits(d decimal.Decimal) bool {
	return col.HasScale(d) && col.InRange(d)
}
