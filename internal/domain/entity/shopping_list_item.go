package entity

import "github.com/shopspring/decimal"

// ShoppingListItem renglón de lista de compras. ProductID viene del servidor como
// cadena y puede ser vacío (renglones de texto libre sin producto asociado).
type ShoppingListItem struct {
	ID        int             `db:"id" json:"id"`
	ProductID string          `db:"product_id" json:"product_id"`
	Amount    decimal.Decimal `db:"amount" json:"amount"`
}
