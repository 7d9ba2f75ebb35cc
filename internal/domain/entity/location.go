package entity

// Location ubicación física donde puede almacenarse stock.
type Location struct {
	ID   int    `db:"id" json:"id"`
	Name string `db:"name" json:"name"`
}
