package entity

import (
	"github.com/shopspring/decimal"
)

// Product representa un producto del servidor Grocy. Inmutable durante un ciclo de
// carga; la colección completa se reemplaza en cada sincronización.
type Product struct {
	ID                       int             `db:"id" json:"id"`
	Name                     string          `db:"name" json:"name"`
	ProductGroupID           int             `db:"product_group_id" json:"product_group_id"`
	QuIDStock                int             `db:"qu_id_stock" json:"qu_id_stock"`
	HideOnStockOverview      bool            `db:"hide_on_stock_overview" json:"hide_on_stock_overview"`
	EnableTareWeightHandling bool            `db:"enable_tare_weight_handling" json:"enable_tare_weight_handling"`
	TareWeight               decimal.Decimal `db:"tare_weight" json:"tare_weight"`
	QuickConsumeAmount       decimal.Decimal `db:"quick_consume_amount" json:"quick_consume_amount"`
}

// ProductGroup agrupa productos; solo se usa para presentación.
type ProductGroup struct {
	ID   int    `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}

// ProductBarcode asocia un código de barras crudo a un producto.
type ProductBarcode struct {
	Barcode   string `db:"barcode" json:"barcode"`
	ProductID int    `db:"product_id" json:"product_id"`
}

// ProductAveragePrice precio promedio por producto (calculado por el servidor).
type ProductAveragePrice struct {
	ProductID int             `db:"product_id" json:"product_id"`
	Price     decimal.Decimal `db:"price" json:"price"`
}

// ProductLastPurchased última compra registrada de un producto.
type ProductLastPurchased struct {
	ProductID     int             `db:"product_id" json:"product_id"`
	PurchasedDate string          `db:"purchased_date" json:"purchased_date"`
	Price         decimal.Decimal `db:"price" json:"price"`
}
