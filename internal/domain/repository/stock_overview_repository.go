package repository

import (
	"context"
	"time"

	"github.com/jhoicas/grocy-sync/internal/domain/entity"
)

// Collection nombre de una colección sincronizable de la caché local.
type Collection string

// Colecciones de la caché local.
const (
	CollectionQuantityUnits         Collection = "quantity_units"
	CollectionProductGroups         Collection = "product_groups"
	CollectionProducts              Collection = "products"
	CollectionProductAveragePrices  Collection = "product_average_prices"
	CollectionProductsLastPurchased Collection = "products_last_purchased"
	CollectionProductBarcodes       Collection = "product_barcodes"
	CollectionStockItems            Collection = "stock_items"
	CollectionVolatileItems         Collection = "volatile_items"
	CollectionMissingItems          Collection = "missing_items"
	CollectionShoppingListItems     Collection = "shopping_list_items"
	CollectionLocations             Collection = "locations"
	CollectionStockLocations        Collection = "stock_locations"
)

// AllCollections devuelve todas las colecciones en orden estable.
func AllCollections() []Collection {
	return []Collection{
		CollectionQuantityUnits,
		CollectionProductGroups,
		CollectionProducts,
		CollectionProductAveragePrices,
		CollectionProductsLastPurchased,
		CollectionProductBarcodes,
		CollectionStockItems,
		CollectionVolatileItems,
		CollectionMissingItems,
		CollectionShoppingListItems,
		CollectionLocations,
		CollectionStockLocations,
	}
}

// StockOverviewData resultado agregado de la carga local: las doce colecciones
// crudas de una sola llamada.
type StockOverviewData struct {
	QuantityUnits         []entity.QuantityUnit
	ProductGroups         []entity.ProductGroup
	Products              []entity.Product
	ProductAveragePrices  []entity.ProductAveragePrice
	ProductsLastPurchased []entity.ProductLastPurchased
	ProductBarcodes       []entity.ProductBarcode
	StockItems            []*entity.StockItem
	VolatileItems         []entity.VolatileItem
	MissingItems          []entity.MissingItem
	ShoppingListItems     []entity.ShoppingListItem
	Locations             []entity.Location
	StockLocations        []entity.StockLocation
}

// StockOverviewRepository puerto de la caché local. Cada colección se reemplaza
// completa en cada sincronización; no hay actualizaciones parciales.
type StockOverviewRepository interface {
	// LoadAll devuelve las doce colecciones crudas como un único agregado.
	LoadAll(ctx context.Context) (*StockOverviewData, error)
	// ReplaceCollections reemplaza el contenido completo de las colecciones indicadas
	// con lo que traiga data y sella sus marcas de sincronización en syncedAt.
	ReplaceCollections(ctx context.Context, data *StockOverviewData, collections []Collection, syncedAt time.Time) error
}

// SyncStateRepository puerto de las marcas "última sincronización" por colección.
// Invalidar una colección borra su marca para forzar re-descarga en el próximo sync.
type SyncStateRepository interface {
	LastSynced(ctx context.Context, c Collection) (time.Time, bool, error)
	SetLastSynced(ctx context.Context, c Collection, t time.Time) error
	Invalidate(ctx context.Context, collections ...Collection) error
	// InvalidateAll borra todas las marcas (modo refresco forzado).
	InvalidateAll(ctx context.Context) error
}
