package stockoverview

import (
	"strings"

	"github.com/jhoicas/grocy-sync/internal/domain/entity"
	"github.com/jhoicas/grocy-sync/internal/domain/grocycode"
	"github.com/jhoicas/grocy-sync/internal/domain/repository"
)

// EmptyState clasificación de la lista filtrada vacía.
type EmptyState int

// Estados de lista vacía. La verificación de búsqueda activa va primero: con consulta
// y cero coincidencias el estado es siempre NoSearchResults, nunca EmptyStock.
const (
	EmptyStateNone EmptyState = iota
	EmptyStateNoSearchResults
	EmptyStateEmptyStock
)

// FilterResult lista visible más la clasificación de vacío y la señal de caché
// desfasada (items descartados por producto sin resolver).
type FilterResult struct {
	Items      []*entity.StockItem
	EmptyState EmptyState
	// StaleCollections colecciones a invalidar cuando algún item quedó sin producto;
	// vacío si la caché es consistente.
	StaleCollections []repository.Collection
}

// Filter reduce los items del snapshot según la consulta (en minúsculas; vacía = sin
// filtro). Orden de resolución: grocycode de producto (coincidencia exacta), código
// de barras crudo, y texto libre (subcadena o conjunto difuso precalculado). Items
// con producto oculto en resumen se excluyen siempre, incluso bajo resolución directa
// por código. Cuando ninguna vía de resolución aplica, el item se excluye con
// corto-circuito explícito, sin dereferenciar búsquedas nulas.
func (s *Snapshot) Filter(query string, fuzzyNames map[string]struct{}) FilterResult {
	var res FilterResult
	res.Items = make([]*entity.StockItem, 0, len(s.StockItems))

	var productSearch *entity.Product
	var barcodeSearch *entity.ProductBarcode
	if query != "" {
		if code, ok := grocycode.Parse(query); ok && code.IsProduct() {
			productSearch = s.ProductByID[code.ObjectID]
		}
		if productSearch == nil {
			if barcode, ok := s.BarcodeByCode[query]; ok {
				barcodeSearch = &barcode
			}
		}
	}

	stale := false
	for _, item := range s.StockItems {
		if item.Product == nil {
			// Los productos pudieron cambiar en el servidor: se descarta el item y
			// se invalida la caché de productos y existencias como señal de
			// desfase, no como error duro.
			stale = true
			continue
		}
		if item.Product.HideOnStockOverview {
			continue
		}
		if query != "" {
			name := strings.ToLower(item.Product.Name)
			textMatch := strings.Contains(name, query)
			if !textMatch {
				_, textMatch = fuzzyNames[name]
			}
			switch {
			case productSearch != nil:
				if productSearch.ID != item.ProductID {
					continue
				}
			case textMatch:
				// pasa por texto
			case barcodeSearch != nil:
				if barcodeSearch.ProductID != item.ProductID {
					continue
				}
			default:
				continue
			}
		}
		res.Items = append(res.Items, item)
	}

	if stale {
		res.StaleCollections = []repository.Collection{
			repository.CollectionProducts,
			repository.CollectionStockItems,
		}
	}

	if len(res.Items) == 0 {
		if query != "" {
			res.EmptyState = EmptyStateNoSearchResults
		} else {
			res.EmptyState = EmptyStateEmptyStock
		}
	}
	return res
}
