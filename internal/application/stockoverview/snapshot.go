package stockoverview

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/grocy-sync/internal/domain/entity"
	"github.com/jhoicas/grocy-sync/internal/domain/repository"
)

// Counters conteos agregados calculados durante la fusión.
type Counters struct {
	Due     int
	Overdue int
	Expired int
	Missing int
	InStock int
	Opened  int
}

// Snapshot valor inmutable producido por la fusión de las doce colecciones crudas.
// Se reemplaza completo en cada carga; las funciones de filtrado operan sobre él sin
// mutarlo, lo que elimina los bugs de actualización parcial del estado compartido.
type Snapshot struct {
	StockItems []*entity.StockItem
	Products   []entity.Product

	ProductByID            map[int]*entity.Product
	ProductGroupByID       map[int]entity.ProductGroup
	QuantityUnitByID       map[int]entity.QuantityUnit
	LocationByID           map[int]entity.Location
	BarcodeByCode          map[string]entity.ProductBarcode
	AveragePriceByProduct  map[int]decimal.Decimal
	LastPurchasedByProduct map[int]entity.ProductLastPurchased
	MissingByProduct       map[int]entity.MissingItem

	// StockLocationByKey usa llave compuesta producto+ubicación.
	StockLocationByKey map[entity.ProductLocationKey]entity.StockLocation

	// ShoppingListProductIDs ids (como cadena) de productos ya presentes en la
	// lista de compras; renglones sin producto asociado se omiten.
	ShoppingListProductIDs []string

	Counters Counters
}

// BuildSnapshot fusiona y anota las colecciones crudas: construye los mapas de
// consulta (último escribe gana ante llaves duplicadas), aplica las banderas de
// estado volátil y de faltante, sintetiza existencias de relleno para faltantes sin
// registro de stock y resuelve el producto de cada item. No muta data; ejecutar dos
// veces sobre el mismo agregado produce el mismo resultado.
func BuildSnapshot(data *repository.StockOverviewData) *Snapshot {
	s := &Snapshot{
		Products:               data.Products,
		ProductByID:            make(map[int]*entity.Product, len(data.Products)),
		ProductGroupByID:       make(map[int]entity.ProductGroup, len(data.ProductGroups)),
		QuantityUnitByID:       make(map[int]entity.QuantityUnit, len(data.QuantityUnits)),
		LocationByID:           make(map[int]entity.Location, len(data.Locations)),
		BarcodeByCode:          make(map[string]entity.ProductBarcode, len(data.ProductBarcodes)),
		AveragePriceByProduct:  make(map[int]decimal.Decimal, len(data.ProductAveragePrices)),
		LastPurchasedByProduct: make(map[int]entity.ProductLastPurchased, len(data.ProductsLastPurchased)),
		MissingByProduct:       make(map[int]entity.MissingItem, len(data.MissingItems)),
		StockLocationByKey:     make(map[entity.ProductLocationKey]entity.StockLocation, len(data.StockLocations)),
	}

	for i := range data.Products {
		s.ProductByID[data.Products[i].ID] = &s.Products[i]
	}
	for _, g := range data.ProductGroups {
		s.ProductGroupByID[g.ID] = g
	}
	for _, q := range data.QuantityUnits {
		s.QuantityUnitByID[q.ID] = q
	}
	for _, l := range data.Locations {
		s.LocationByID[l.ID] = l
	}
	for _, b := range data.ProductBarcodes {
		s.BarcodeByCode[b.Barcode] = b
	}
	for _, p := range data.ProductAveragePrices {
		s.AveragePriceByProduct[p.ProductID] = p.Price
	}
	for _, p := range data.ProductsLastPurchased {
		s.LastPurchasedByProduct[p.ProductID] = p
	}
	for _, sl := range data.StockLocations {
		s.StockLocationByKey[sl.Key()] = sl
	}

	// Copia de los items de stock: las banderas se asignan sobre la copia, nunca
	// sobre las colecciones cargadas.
	s.StockItems = make([]*entity.StockItem, 0, len(data.StockItems)+len(data.MissingItems))
	itemByProductID := make(map[int]*entity.StockItem, len(data.StockItems))
	for _, src := range data.StockItems {
		item := *src
		item.Due, item.Overdue, item.Expired = false, false, false
		item.Missing, item.MissingAndPartlyInStock = false, false
		item.Product = nil
		s.StockItems = append(s.StockItems, &item)
		itemByProductID[item.ProductID] = &item
	}

	for _, v := range data.VolatileItems {
		item, ok := itemByProductID[v.ProductID]
		if !ok {
			continue
		}
		switch v.Type {
		case entity.VolatileTypeDue:
			item.Due = true
			s.Counters.Due++
		case entity.VolatileTypeOverdue:
			item.Overdue = true
			s.Counters.Overdue++
		case entity.VolatileTypeExpired:
			item.Expired = true
			s.Counters.Expired++
		}
	}

	for _, m := range data.MissingItems {
		s.Counters.Missing++
		s.MissingByProduct[m.ProductID] = m
		item, ok := itemByProductID[m.ProductID]
		if !ok && !m.PartlyInStock {
			synthetic := entity.NewStockItemFromMissing(m)
			s.StockItems = append(s.StockItems, synthetic)
			itemByProductID[m.ProductID] = synthetic
		} else if ok {
			item.Missing = true
			item.MissingAndPartlyInStock = m.PartlyInStock
		}
	}

	for _, item := range s.StockItems {
		// Product puede quedar nil si la caché de productos está desfasada;
		// el filtrado lo descarta y señala la invalidación.
		item.Product = s.ProductByID[item.ProductID]
		if !item.Missing || item.MissingAndPartlyInStock {
			s.Counters.InStock++
		}
		if item.AmountOpened.GreaterThan(decimal.Zero) {
			s.Counters.Opened++
		}
	}

	s.ShoppingListProductIDs = make([]string, 0, len(data.ShoppingListItems))
	for _, sli := range data.ShoppingListItems {
		if sli.ProductID != "" {
			s.ShoppingListProductIDs = append(s.ShoppingListProductIDs, sli.ProductID)
		}
	}

	return s
}

// ItemByProductID busca un item de stock del snapshot por id de producto.
func (s *Snapshot) ItemByProductID(productID int) (*entity.StockItem, bool) {
	for _, item := range s.StockItems {
		if item.ProductID == productID {
			return item, true
		}
	}
	return nil, false
}
