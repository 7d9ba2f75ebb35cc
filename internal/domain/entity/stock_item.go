package entity

import (
	"github.com/shopspring/decimal"
)

// StockItem existencia actual de un producto, enriquecida durante la fusión con las
// banderas de estado volátil y de faltante. Los flags se asignan una sola vez por
// ciclo de carga; después de la fusión el item no se vuelve a mutar.
type StockItem struct {
	ProductID    int             `db:"product_id" json:"product_id"`
	Amount       decimal.Decimal `db:"amount" json:"amount"`
	AmountOpened decimal.Decimal `db:"amount_opened" json:"amount_opened"`
	BestBefore   string          `db:"best_before_date" json:"best_before_date"`

	Due                     bool `db:"-" json:"due"`
	Overdue                 bool `db:"-" json:"overdue"`
	Expired                 bool `db:"-" json:"expired"`
	Missing                 bool `db:"-" json:"missing"`
	MissingAndPartlyInStock bool `db:"-" json:"missing_and_partly_in_stock"`

	// Product se resuelve durante la fusión; puede quedar nil si la caché de
	// productos está desfasada respecto a la de existencias.
	Product *Product `db:"-" json:"product,omitempty"`
}

// NewStockItemFromMissing sintetiza una existencia vacía para un producto faltante
// que no tiene registro de stock (monto cero, banderas de faltante activas).
func NewStockItemFromMissing(missing MissingItem) *StockItem {
	return &StockItem{
		ProductID:               missing.ProductID,
		Amount:                  decimal.Zero,
		AmountOpened:            decimal.Zero,
		Missing:                 true,
		MissingAndPartlyInStock: missing.PartlyInStock,
	}
}

// ConsumeAllAmount monto para la acción "consumir todo": el monto en mano, o la tara
// configurada cuando el producto maneja peso de tara.
func (s *StockItem) ConsumeAllAmount() decimal.Decimal {
	if s.Product != nil && s.Product.EnableTareWeightHandling {
		return s.Product.TareWeight
	}
	return s.Amount
}
