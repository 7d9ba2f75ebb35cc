package stockoverview

import (
	"sort"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/grocy-sync/internal/domain/entity"
)

// ProductDetails vista de detalle de un producto en stock: montos, grupo, unidad,
// precios y ubicaciones. Los precios y las ubicaciones se omiten cuando su bandera
// de funcionalidad está deshabilitada.
type ProductDetails struct {
	Product      entity.Product
	GroupName    string
	QuantityUnit entity.QuantityUnit
	Amount       decimal.Decimal
	AmountOpened decimal.Decimal
	BestBefore   string
	Currency     string
	// AveragePrice nil cuando no hay dato o el rastreo de precios está apagado.
	AveragePrice  *decimal.Decimal
	LastPurchased *entity.ProductLastPurchased
	Locations     []entity.StockLocation
}

// ProductDetails arma el detalle del producto desde el snapshot vigente. Devuelve
// false si el producto no está en stock o su producto quedó sin resolver.
func (vm *ViewModel) ProductDetails(productID int) (ProductDetails, bool) {
	type reply struct {
		d  ProductDetails
		ok bool
	}
	ch := make(chan reply, 1)
	vm.post(func() {
		d, ok := vm.productDetails(productID)
		ch <- reply{d, ok}
	})
	select {
	case r := <-ch:
		return r.d, r.ok
	case <-vm.quit:
		return ProductDetails{}, false
	}
}

func (vm *ViewModel) productDetails(productID int) (ProductDetails, bool) {
	item, ok := vm.snapshot.ItemByProductID(productID)
	if !ok || item.Product == nil {
		return ProductDetails{}, false
	}
	d := ProductDetails{
		Product:      *item.Product,
		QuantityUnit: vm.snapshot.QuantityUnitByID[item.Product.QuIDStock],
		Amount:       item.Amount,
		AmountOpened: item.AmountOpened,
		BestBefore:   item.BestBefore,
		Currency:     vm.settings.Currency,
	}
	if group, ok := vm.snapshot.ProductGroupByID[item.Product.ProductGroupID]; ok {
		d.GroupName = group.Name
	}
	if vm.settings.FeatureEnabled(FeatureStockPriceTracking) {
		if price, ok := vm.snapshot.AveragePriceByProduct[productID]; ok {
			d.AveragePrice = &price
		}
		if last, ok := vm.snapshot.LastPurchasedByProduct[productID]; ok {
			d.LastPurchased = &last
		}
	}
	if vm.settings.FeatureEnabled(FeatureStockLocationTracking) {
		for key, loc := range vm.snapshot.StockLocationByKey {
			if key.ProductID != productID {
				continue
			}
			if loc.LocationName == "" {
				// algunas filas de ubicación de stock llegan sin nombre
				loc.LocationName = vm.snapshot.LocationByID[key.LocationID].Name
			}
			d.Locations = append(d.Locations, loc)
		}
		sort.Slice(d.Locations, func(i, j int) bool {
			return d.Locations[i].LocationID < d.Locations[j].LocationID
		})
	}
	return d, true
}
