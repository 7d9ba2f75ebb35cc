package stockoverview_test

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/grocy-sync/internal/application/stockoverview"
	"github.com/jhoicas/grocy-sync/internal/domain/entity"
	"github.com/jhoicas/grocy-sync/internal/domain/repository"
)

func detailData() *repository.StockOverviewData {
	data := actionData()
	data.Products[0].ProductGroupID = 10
	data.ProductGroups = []entity.ProductGroup{{ID: 10, Name: "Frutas"}}
	data.ProductAveragePrices = []entity.ProductAveragePrice{
		{ProductID: 1, Price: decimal.RequireFromString("1.25")},
	}
	data.ProductsLastPurchased = []entity.ProductLastPurchased{
		{ProductID: 1, PurchasedDate: "2026-08-20", Price: decimal.RequireFromString("1.10")},
	}
	data.Locations = []entity.Location{{ID: 2, Name: "Despensa"}}
	data.StockLocations = []entity.StockLocation{
		{ProductID: 1, LocationID: 5, LocationName: "Refrigerador"},
		{ProductID: 1, LocationID: 2}, // sin nombre: se resuelve contra Locations
		{ProductID: 9, LocationID: 2, LocationName: "Despensa"},
	}
	return data
}

func TestProductDetailsAssemblesSnapshotData(t *testing.T) {
	store := &fakeStore{data: detailData()}
	rec := newRecorder()
	vm := newTestViewModel(t, store, newFakeSyncState(), &fakeGrocy{}, rec)

	vm.LoadFromDatabase(false)
	rec.nextItems(t)

	d, ok := vm.ProductDetails(1)
	require.True(t, ok)

	assert.Equal(t, "Manzana", d.Product.Name)
	assert.Equal(t, "Frutas", d.GroupName)
	assert.Equal(t, "pieza", d.QuantityUnit.Name)
	assert.Equal(t, "4", d.Amount.String())
	assert.Equal(t, "€", d.Currency)

	require.NotNil(t, d.AveragePrice)
	assert.Equal(t, "1.25", d.AveragePrice.String())
	require.NotNil(t, d.LastPurchased)
	assert.Equal(t, "2026-08-20", d.LastPurchased.PurchasedDate)

	// solo las ubicaciones del producto, ordenadas por id y con el nombre resuelto
	require.Len(t, d.Locations, 2)
	assert.Equal(t, 2, d.Locations[0].LocationID)
	assert.Equal(t, "Despensa", d.Locations[0].LocationName)
	assert.Equal(t, 5, d.Locations[1].LocationID)
	assert.Equal(t, "Refrigerador", d.Locations[1].LocationName)
}

func TestProductDetailsHidePricesWhenTrackingDisabled(t *testing.T) {
	rec := newRecorder()
	vm := stockoverview.NewViewModel(zerolog.Nop(), &fakeStore{data: detailData()}, newFakeSyncState(), &fakeGrocy{},
		stockoverview.Settings{
			Currency: "€",
			Features: map[string]bool{stockoverview.FeatureStockPriceTracking: false},
		},
		rec.listener())
	t.Cleanup(vm.Close)

	vm.LoadFromDatabase(false)
	rec.nextItems(t)

	d, ok := vm.ProductDetails(1)
	require.True(t, ok)
	assert.Nil(t, d.AveragePrice)
	assert.Nil(t, d.LastPurchased)
	assert.NotEmpty(t, d.Locations, "las ubicaciones no dependen de la bandera de precios")
}

func TestProductDetailsHideLocationsWhenTrackingDisabled(t *testing.T) {
	rec := newRecorder()
	vm := stockoverview.NewViewModel(zerolog.Nop(), &fakeStore{data: detailData()}, newFakeSyncState(), &fakeGrocy{},
		stockoverview.Settings{
			Currency: "€",
			Features: map[string]bool{stockoverview.FeatureStockLocationTracking: false},
		},
		rec.listener())
	t.Cleanup(vm.Close)

	vm.LoadFromDatabase(false)
	rec.nextItems(t)

	d, ok := vm.ProductDetails(1)
	require.True(t, ok)
	assert.Empty(t, d.Locations)
	assert.NotNil(t, d.AveragePrice, "los precios no dependen de la bandera de ubicaciones")
}

func TestProductDetailsUnknownProduct(t *testing.T) {
	rec := newRecorder()
	vm := newTestViewModel(t, &fakeStore{data: detailData()}, newFakeSyncState(), &fakeGrocy{}, rec)

	vm.LoadFromDatabase(false)
	rec.nextItems(t)

	_, ok := vm.ProductDetails(777)
	assert.False(t, ok)
}
