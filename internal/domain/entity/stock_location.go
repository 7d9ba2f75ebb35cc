package entity

// StockLocation ubicación actual de las existencias de un producto.
type StockLocation struct {
	ProductID    int    `db:"product_id" json:"product_id"`
	LocationID   int    `db:"location_id" json:"location_id"`
	LocationName string `db:"location_name" json:"location_name"`
}

// ProductLocationKey llave compuesta producto+ubicación para el mapa de ubicaciones
// de stock (en lugar de mapas anidados).
type ProductLocationKey struct {
	ProductID  int
	LocationID int
}

// Key devuelve la llave compuesta de la ubicación.
func (s StockLocation) Key() ProductLocationKey {
	return ProductLocationKey{ProductID: s.ProductID, LocationID: s.LocationID}
}
