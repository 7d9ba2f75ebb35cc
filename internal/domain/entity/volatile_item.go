package entity

// VolatileType clase de estado volátil calculada por el servidor en cada carga.
type VolatileType int

// Tipos de estado volátil.
const (
	VolatileTypeDue VolatileType = iota + 1
	VolatileTypeOverdue
	VolatileTypeExpired
)

// VolatileItem registro transitorio (por vencer / vencido / expirado) de un producto.
// Solo se consume durante la fusión para marcar banderas en StockItem; no persiste
// como parte de la entidad de producto.
type VolatileItem struct {
	ProductID int          `db:"product_id" json:"product_id"`
	Type      VolatileType `db:"volatile_type" json:"volatile_type"`
}

// MissingItem producto por debajo de su mínimo. Si no existe registro de stock y no
// está parcialmente en stock, la fusión sintetiza un StockItem de relleno.
type MissingItem struct {
	ProductID     int    `db:"product_id" json:"id"`
	Name          string `db:"name" json:"name"`
	PartlyInStock bool   `db:"partly_in_stock" json:"is_partly_in_stock"`
}
