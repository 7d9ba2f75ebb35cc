package entity

import "github.com/shopspring/decimal"

// QuantityUnit unidad de medida de stock de un producto.
type QuantityUnit struct {
	ID         int    `db:"id" json:"id"`
	Name       string `db:"name" json:"name"`
	NamePlural string `db:"name_plural" json:"name_plural"`
}

// PluralName devuelve el nombre singular o plural según el monto. Montos con
// valor absoluto 1 usan el singular; el resto el plural (si existe).
func (q QuantityUnit) PluralName(amount decimal.Decimal) string {
	if amount.Abs().Equal(decimal.NewFromInt(1)) {
		return q.Name
	}
	if q.NamePlural != "" {
		return q.NamePlural
	}
	return q.Name
}
