// Package sqlite implementa la caché local sobre SQLite embebido (driver puro Go).
// Cada colección se reemplaza completa por sincronización; las marcas de "última
// sincronización" por colección viven en la misma base.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/jhoicas/grocy-sync/internal/domain/repository"
)

const schema = `
CREATE TABLE IF NOT EXISTS quantity_units (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	name_plural TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS product_groups (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS products (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL,
	product_group_id INTEGER NOT NULL DEFAULT 0,
	qu_id_stock INTEGER NOT NULL DEFAULT 0,
	hide_on_stock_overview INTEGER NOT NULL DEFAULT 0,
	enable_tare_weight_handling INTEGER NOT NULL DEFAULT 0,
	tare_weight TEXT NOT NULL DEFAULT '0',
	quick_consume_amount TEXT NOT NULL DEFAULT '1'
);
CREATE TABLE IF NOT EXISTS product_average_prices (
	product_id INTEGER PRIMARY KEY,
	price TEXT NOT NULL DEFAULT '0'
);
CREATE TABLE IF NOT EXISTS products_last_purchased (
	product_id INTEGER PRIMARY KEY,
	purchased_date TEXT NOT NULL DEFAULT '',
	price TEXT NOT NULL DEFAULT '0'
);
CREATE TABLE IF NOT EXISTS product_barcodes (
	barcode TEXT PRIMARY KEY,
	product_id INTEGER NOT NULL
);
CREATE TABLE IF NOT EXISTS stock_items (
	product_id INTEGER PRIMARY KEY,
	amount TEXT NOT NULL DEFAULT '0',
	amount_opened TEXT NOT NULL DEFAULT '0',
	best_before_date TEXT NOT NULL DEFAULT ''
);
CREATE TABLE IF NOT EXISTS volatile_items (
	product_id INTEGER NOT NULL,
	volatile_type INTEGER NOT NULL,
	PRIMARY KEY (product_id, volatile_type)
);
CREATE TABLE IF NOT EXISTS missing_items (
	product_id INTEGER PRIMARY KEY,
	name TEXT NOT NULL DEFAULT '',
	partly_in_stock INTEGER NOT NULL DEFAULT 0
);
CREATE TABLE IF NOT EXISTS shopping_list_items (
	id INTEGER PRIMARY KEY,
	product_id TEXT NOT NULL DEFAULT '',
	amount TEXT NOT NULL DEFAULT '0'
);
CREATE TABLE IF NOT EXISTS locations (
	id INTEGER PRIMARY KEY,
	name TEXT NOT NULL
);
CREATE TABLE IF NOT EXISTS stock_locations (
	product_id INTEGER NOT NULL,
	location_id INTEGER NOT NULL,
	location_name TEXT NOT NULL DEFAULT '',
	PRIMARY KEY (product_id, location_id)
);
CREATE TABLE IF NOT EXISTS sync_state (
	collection TEXT PRIMARY KEY,
	last_synced TEXT NOT NULL
);`

// Store caché local embebida. Implementa repository.StockOverviewRepository y
// repository.SyncStateRepository.
type Store struct {
	db *sqlx.DB
}

// Open abre (o crea) la base en dsn y aplica el esquema. Usar ":memory:" en tests.
func Open(dsn string) (*Store, error) {
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("abrir sqlite: %w", err)
	}
	// el driver puro no soporta escritores concurrentes
	db.SetMaxOpenConns(1)
	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("aplicar esquema: %w", err)
	}
	return &Store{db: db}, nil
}

// Close cierra la base.
func (s *Store) Close() error {
	return s.db.Close()
}

// LoadAll devuelve las doce colecciones crudas en una sola llamada.
func (s *Store) LoadAll(ctx context.Context) (*repository.StockOverviewData, error) {
	data := &repository.StockOverviewData{}
	steps := []struct {
		dest  any
		query string
	}{
		{&data.QuantityUnits, "SELECT id, name, name_plural FROM quantity_units"},
		{&data.ProductGroups, "SELECT id, name FROM product_groups"},
		{&data.Products, "SELECT id, name, product_group_id, qu_id_stock, hide_on_stock_overview, enable_tare_weight_handling, tare_weight, quick_consume_amount FROM products"},
		{&data.ProductAveragePrices, "SELECT product_id, price FROM product_average_prices"},
		{&data.ProductsLastPurchased, "SELECT product_id, purchased_date, price FROM products_last_purchased"},
		{&data.ProductBarcodes, "SELECT barcode, product_id FROM product_barcodes"},
		{&data.StockItems, "SELECT product_id, amount, amount_opened, best_before_date FROM stock_items"},
		{&data.VolatileItems, "SELECT product_id, volatile_type FROM volatile_items"},
		{&data.MissingItems, "SELECT product_id, name, partly_in_stock FROM missing_items"},
		{&data.ShoppingListItems, "SELECT id, product_id, amount FROM shopping_list_items"},
		{&data.Locations, "SELECT id, name FROM locations"},
		{&data.StockLocations, "SELECT product_id, location_id, location_name FROM stock_locations"},
	}
	for _, st := range steps {
		if err := s.db.SelectContext(ctx, st.dest, st.query); err != nil {
			return nil, fmt.Errorf("cargar caché: %w", err)
		}
	}
	return data, nil
}

// ReplaceCollections reemplaza el contenido completo de las colecciones indicadas
// dentro de una transacción y sella sus marcas de sincronización.
func (s *Store) ReplaceCollections(
	ctx context.Context,
	data *repository.StockOverviewData,
	collections []repository.Collection,
	syncedAt time.Time,
) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("iniciar transacción: %w", err)
	}
	defer tx.Rollback()

	for _, col := range collections {
		if err := replaceCollection(ctx, tx, data, col); err != nil {
			return fmt.Errorf("reemplazar %s: %w", col, err)
		}
		if err := setLastSyncedTx(ctx, tx, col, syncedAt); err != nil {
			return err
		}
	}
	return tx.Commit()
}

func replaceCollection(ctx context.Context, tx *sqlx.Tx, data *repository.StockOverviewData, col repository.Collection) error {
	switch col {
	case repository.CollectionQuantityUnits:
		return replaceRows(ctx, tx, "quantity_units",
			"INSERT INTO quantity_units (id, name, name_plural) VALUES (:id, :name, :name_plural)",
			data.QuantityUnits)
	case repository.CollectionProductGroups:
		return replaceRows(ctx, tx, "product_groups",
			"INSERT INTO product_groups (id, name) VALUES (:id, :name)",
			data.ProductGroups)
	case repository.CollectionProducts:
		return replaceRows(ctx, tx, "products",
			`INSERT INTO products (id, name, product_group_id, qu_id_stock, hide_on_stock_overview,
				enable_tare_weight_handling, tare_weight, quick_consume_amount)
			 VALUES (:id, :name, :product_group_id, :qu_id_stock, :hide_on_stock_overview,
				:enable_tare_weight_handling, :tare_weight, :quick_consume_amount)`,
			data.Products)
	case repository.CollectionProductAveragePrices:
		return replaceRows(ctx, tx, "product_average_prices",
			"INSERT INTO product_average_prices (product_id, price) VALUES (:product_id, :price)",
			data.ProductAveragePrices)
	case repository.CollectionProductsLastPurchased:
		return replaceRows(ctx, tx, "products_last_purchased",
			"INSERT INTO products_last_purchased (product_id, purchased_date, price) VALUES (:product_id, :purchased_date, :price)",
			data.ProductsLastPurchased)
	case repository.CollectionProductBarcodes:
		return replaceRows(ctx, tx, "product_barcodes",
			"INSERT INTO product_barcodes (barcode, product_id) VALUES (:barcode, :product_id)",
			data.ProductBarcodes)
	case repository.CollectionStockItems:
		return replaceRows(ctx, tx, "stock_items",
			"INSERT INTO stock_items (product_id, amount, amount_opened, best_before_date) VALUES (:product_id, :amount, :amount_opened, :best_before_date)",
			data.StockItems)
	case repository.CollectionVolatileItems:
		return replaceRows(ctx, tx, "volatile_items",
			"INSERT INTO volatile_items (product_id, volatile_type) VALUES (:product_id, :volatile_type)",
			data.VolatileItems)
	case repository.CollectionMissingItems:
		return replaceRows(ctx, tx, "missing_items",
			"INSERT INTO missing_items (product_id, name, partly_in_stock) VALUES (:product_id, :name, :partly_in_stock)",
			data.MissingItems)
	case repository.CollectionShoppingListItems:
		return replaceRows(ctx, tx, "shopping_list_items",
			"INSERT INTO shopping_list_items (id, product_id, amount) VALUES (:id, :product_id, :amount)",
			data.ShoppingListItems)
	case repository.CollectionLocations:
		return replaceRows(ctx, tx, "locations",
			"INSERT INTO locations (id, name) VALUES (:id, :name)",
			data.Locations)
	case repository.CollectionStockLocations:
		return replaceRows(ctx, tx, "stock_locations",
			"INSERT INTO stock_locations (product_id, location_id, location_name) VALUES (:product_id, :location_id, :location_name)",
			data.StockLocations)
	}
	return fmt.Errorf("colección desconocida: %s", col)
}

// replaceRows borra la tabla e inserta las filas nuevas (reemplazo total).
func replaceRows[T any](ctx context.Context, tx *sqlx.Tx, table, insert string, rows []T) error {
	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return err
	}
	for _, row := range rows {
		if _, err := tx.NamedExecContext(ctx, insert, row); err != nil {
			return err
		}
	}
	return nil
}

// ── Marcas de sincronización ─────────────────────────────────────────────────

// LastSynced devuelve la marca de la colección; ok=false si nunca se sincronizó
// o fue invalidada.
func (s *Store) LastSynced(ctx context.Context, c repository.Collection) (time.Time, bool, error) {
	var raw string
	err := s.db.GetContext(ctx, &raw, "SELECT last_synced FROM sync_state WHERE collection = ?", string(c))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return time.Time{}, false, nil
		}
		return time.Time{}, false, fmt.Errorf("leer marca de sincronización: %w", err)
	}
	t, err := time.Parse(time.RFC3339Nano, raw)
	if err != nil {
		return time.Time{}, false, fmt.Errorf("marca de sincronización corrupta: %w", err)
	}
	return t, true, nil
}

// SetLastSynced sella la marca de la colección.
func (s *Store) SetLastSynced(ctx context.Context, c repository.Collection, t time.Time) error {
	_, err := s.db.ExecContext(ctx,
		"INSERT INTO sync_state (collection, last_synced) VALUES (?, ?) ON CONFLICT(collection) DO UPDATE SET last_synced = excluded.last_synced",
		string(c), t.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("sellar marca de sincronización: %w", err)
	}
	return nil
}

func setLastSyncedTx(ctx context.Context, tx *sqlx.Tx, c repository.Collection, t time.Time) error {
	_, err := tx.ExecContext(ctx,
		"INSERT INTO sync_state (collection, last_synced) VALUES (?, ?) ON CONFLICT(collection) DO UPDATE SET last_synced = excluded.last_synced",
		string(c), t.UTC().Format(time.RFC3339Nano))
	if err != nil {
		return fmt.Errorf("sellar marca de sincronización: %w", err)
	}
	return nil
}

// Invalidate borra las marcas de las colecciones indicadas.
func (s *Store) Invalidate(ctx context.Context, collections ...repository.Collection) error {
	for _, c := range collections {
		if _, err := s.db.ExecContext(ctx, "DELETE FROM sync_state WHERE collection = ?", string(c)); err != nil {
			return fmt.Errorf("invalidar %s: %w", c, err)
		}
	}
	return nil
}

// InvalidateAll borra todas las marcas (refresco forzado).
func (s *Store) InvalidateAll(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM sync_state"); err != nil {
		return fmt.Errorf("invalidar marcas: %w", err)
	}
	return nil
}

// interfaces garantizadas en compilación
var (
	_ repository.StockOverviewRepository = (*Store)(nil)
	_ repository.SyncStateRepository     = (*Store)(nil)
)
