// Package grocycode interpreta códigos escaneables de Grocy: códigos estructurados
// que llevan un tipo de entidad y un id numérico, distintos de un código de barras
// crudo de producto. Formato: "grcy:p:42" (producto), "grcy:b:7" (batch), etc.
package grocycode

import (
	"strconv"
	"strings"
)

// Prefijo común de todos los grocycodes.
const prefix = "grcy"

// EntityType tipo de entidad referenciada por un grocycode.
type EntityType string

// Tipos de entidad conocidos.
const (
	EntityProduct EntityType = "p"
	EntityBatch   EntityType = "b"
	EntityChore   EntityType = "c"
)

// Grocycode código estructurado ya interpretado.
type Grocycode struct {
	Type     EntityType
	ObjectID int
	// Extra partes adicionales del código (ej. id de lote de stock), sin interpretar.
	Extra []string
}

// Parse interpreta una cadena como grocycode. Devuelve (nil, false) si la cadena no
// es un grocycode válido; un código de barras crudo nunca lo es.
func Parse(raw string) (*Grocycode, bool) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	if len(parts) < 3 || parts[0] != prefix {
		return nil, false
	}
	id, err := strconv.Atoi(parts[2])
	if err != nil || id < 0 {
		return nil, false
	}
	code := &Grocycode{Type: EntityType(parts[1]), ObjectID: id}
	if len(parts) > 3 {
		code.Extra = parts[3:]
	}
	return code, true
}

// IsProduct indica si el código referencia un producto.
func (g *Grocycode) IsProduct() bool {
	return g.Type == EntityProduct
}

// String reconstruye la representación canónica del código.
func (g *Grocycode) String() string {
	parts := append([]string{prefix, string(g.Type), strconv.Itoa(g.ObjectID)}, g.Extra...)
	return strings.Join(parts, ":")
}
