// Package grocy implementa el cliente REST contra el servidor Grocy: descarga
// condicional por colección hacia la caché local y las escrituras de stock
// (consumir, abrir, deshacer).
package grocy

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/grocy-sync/internal/application/stockoverview"
	"github.com/jhoicas/grocy-sync/internal/domain"
	"github.com/jhoicas/grocy-sync/internal/domain/entity"
	"github.com/jhoicas/grocy-sync/internal/domain/repository"
)

// Config parámetros de conexión con el servidor Grocy.
type Config struct {
	BaseURL     string
	APIKey      string
	Timeout     time.Duration
	DueSoonDays int
}

// Client cliente de sincronización. Implementa stockoverview.GrocyService.
type Client struct {
	cfg        Config
	httpClient *http.Client
	store      repository.StockOverviewRepository
	syncState  repository.SyncStateRepository
	log        zerolog.Logger
}

// NewClient construye el cliente. Timeout cero usa 30 s.
func NewClient(cfg Config, store repository.StockOverviewRepository, syncState repository.SyncStateRepository, log zerolog.Logger) *Client {
	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	return &Client{
		cfg:        cfg,
		httpClient: &http.Client{Timeout: timeout},
		store:      store,
		syncState:  syncState,
		log:        log,
	}
}

// ── Transporte ───────────────────────────────────────────────────────────────

func (c *Client) do(ctx context.Context, method, path string, body, dest any) error {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("serializar cuerpo: %w", err)
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.cfg.BaseURL+path, reader)
	if err != nil {
		return fmt.Errorf("crear petición: %w", err)
	}
	req.Header.Set("GROCY-API-KEY", c.cfg.APIKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		// fallo de transporte: el caller lo trata como modo sin conexión
		return fmt.Errorf("%w: %s %s: %v", domain.ErrOffline, method, path, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: estado %d", method, path, resp.StatusCode)
	}
	if dest == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(dest); err != nil {
		// respuesta malformada: degradar con registro en modo debug
		c.log.Debug().Err(err).Str("path", path).Msg("respuesta malformada")
		return nil
	}
	return nil
}

// dbChangedTime consulta la hora del último cambio de datos en el servidor.
func (c *Client) dbChangedTime(ctx context.Context) (time.Time, error) {
	var out struct {
		ChangedTime string `json:"changed_time"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/system/db-changed-time", nil, &out); err != nil {
		return time.Time{}, err
	}
	t, err := time.Parse("2006-01-02 15:04:05", out.ChangedTime)
	if err != nil {
		c.log.Debug().Str("changed_time", out.ChangedTime).Msg("hora de cambio ilegible")
		return time.Now(), nil
	}
	return t, nil
}

// ── Sincronización condicional ───────────────────────────────────────────────

// UpdateData descarga las colecciones cuya marca esté ausente o sea anterior a la
// hora de cambio del servidor, y reemplaza su contenido en la caché local. Las
// colecciones frescas no se vuelven a pedir.
func (c *Client) UpdateData(ctx context.Context, collections ...repository.Collection) error {
	changed, err := c.dbChangedTime(ctx)
	if err != nil {
		return err
	}

	stale := make(map[repository.Collection]bool, len(collections))
	for _, col := range collections {
		last, ok, err := c.syncState.LastSynced(ctx, col)
		if err != nil {
			return err
		}
		if !ok || last.Before(changed) {
			stale[col] = true
		}
	}
	if len(stale) == 0 {
		return nil
	}
	// volátiles y faltantes llegan juntos del mismo endpoint
	if stale[repository.CollectionVolatileItems] || stale[repository.CollectionMissingItems] {
		stale[repository.CollectionVolatileItems] = true
		stale[repository.CollectionMissingItems] = true
	}

	data := &repository.StockOverviewData{}
	refreshed := make([]repository.Collection, 0, len(stale))
	volatileFetched := false
	for _, col := range repository.AllCollections() {
		if !stale[col] {
			continue
		}
		switch col {
		case repository.CollectionVolatileItems, repository.CollectionMissingItems:
			if !volatileFetched {
				if err := c.fetchVolatile(ctx, data); err != nil {
					return err
				}
				volatileFetched = true
			}
		case repository.CollectionStockItems:
			if err := c.fetchStock(ctx, data); err != nil {
				return err
			}
		default:
			if err := c.fetchObjects(ctx, col, data); err != nil {
				return err
			}
		}
		refreshed = append(refreshed, col)
	}

	c.log.Debug().Int("colecciones", len(refreshed)).Msg("colecciones sincronizadas")
	return c.store.ReplaceCollections(ctx, data, refreshed, changed)
}

// objectPaths rutas de las colecciones servidas por el endpoint genérico de objetos.
var objectPaths = map[repository.Collection]string{
	repository.CollectionQuantityUnits:         "/api/objects/quantity_units",
	repository.CollectionProductGroups:         "/api/objects/product_groups",
	repository.CollectionProducts:              "/api/objects/products",
	repository.CollectionProductAveragePrices:  "/api/objects/products_average_price",
	repository.CollectionProductsLastPurchased: "/api/objects/products_last_purchased",
	repository.CollectionProductBarcodes:       "/api/objects/product_barcodes",
	repository.CollectionShoppingListItems:     "/api/objects/shopping_list",
	repository.CollectionLocations:             "/api/objects/locations",
	repository.CollectionStockLocations:        "/api/objects/stock_current_locations",
}

func (c *Client) fetchObjects(ctx context.Context, col repository.Collection, data *repository.StockOverviewData) error {
	path, ok := objectPaths[col]
	if !ok {
		return fmt.Errorf("colección sin ruta: %s", col)
	}
	var dest any
	switch col {
	case repository.CollectionQuantityUnits:
		dest = &data.QuantityUnits
	case repository.CollectionProductGroups:
		dest = &data.ProductGroups
	case repository.CollectionProducts:
		dest = &data.Products
	case repository.CollectionProductAveragePrices:
		dest = &data.ProductAveragePrices
	case repository.CollectionProductsLastPurchased:
		dest = &data.ProductsLastPurchased
	case repository.CollectionProductBarcodes:
		dest = &data.ProductBarcodes
	case repository.CollectionShoppingListItems:
		dest = &data.ShoppingListItems
	case repository.CollectionLocations:
		dest = &data.Locations
	case repository.CollectionStockLocations:
		dest = &data.StockLocations
	}
	return c.do(ctx, http.MethodGet, path, nil, dest)
}

func (c *Client) fetchStock(ctx context.Context, data *repository.StockOverviewData) error {
	var entries []struct {
		ProductID    int             `json:"product_id"`
		Amount       decimal.Decimal `json:"amount"`
		AmountOpened decimal.Decimal `json:"amount_opened"`
		BestBefore   string          `json:"best_before_date"`
	}
	if err := c.do(ctx, http.MethodGet, "/api/stock", nil, &entries); err != nil {
		return err
	}
	data.StockItems = make([]*entity.StockItem, 0, len(entries))
	for _, e := range entries {
		data.StockItems = append(data.StockItems, &entity.StockItem{
			ProductID:    e.ProductID,
			Amount:       e.Amount,
			AmountOpened: e.AmountOpened,
			BestBefore:   e.BestBefore,
		})
	}
	return nil
}

func (c *Client) fetchVolatile(ctx context.Context, data *repository.StockOverviewData) error {
	var out struct {
		DueProducts     []volatileRef `json:"due_products"`
		OverdueProducts []volatileRef `json:"overdue_products"`
		ExpiredProducts []volatileRef `json:"expired_products"`
		MissingProducts []missingRef  `json:"missing_products"`
	}
	path := fmt.Sprintf("/api/stock/volatile?due_soon_days=%d", c.cfg.DueSoonDays)
	if err := c.do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return err
	}
	add := func(refs []volatileRef, t entity.VolatileType) {
		for _, r := range refs {
			data.VolatileItems = append(data.VolatileItems, entity.VolatileItem{ProductID: r.ID, Type: t})
		}
	}
	add(out.DueProducts, entity.VolatileTypeDue)
	add(out.OverdueProducts, entity.VolatileTypeOverdue)
	add(out.ExpiredProducts, entity.VolatileTypeExpired)
	for _, m := range out.MissingProducts {
		data.MissingItems = append(data.MissingItems, entity.MissingItem{
			ProductID:     m.ID,
			Name:          m.Name,
			PartlyInStock: m.IsPartlyInStock,
		})
	}
	return nil
}

type volatileRef struct {
	ID int `json:"id"`
}

type missingRef struct {
	ID              int    `json:"id"`
	Name            string `json:"name"`
	IsPartlyInStock bool   `json:"is_partly_in_stock"`
}

// ── Escrituras de stock ──────────────────────────────────────────────────────

// Consume registra un consumo; devuelve los renglones de la transacción.
func (c *Client) Consume(ctx context.Context, productID int, body stockoverview.TransactionRequest) ([]stockoverview.TransactionLine, error) {
	var lines []stockoverview.TransactionLine
	path := fmt.Sprintf("/api/stock/products/%d/consume", productID)
	if err := c.do(ctx, http.MethodPost, path, body, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// Open marca unidades como abiertas; devuelve los renglones de la transacción.
func (c *Client) Open(ctx context.Context, productID int, body stockoverview.TransactionRequest) ([]stockoverview.TransactionLine, error) {
	var lines []stockoverview.TransactionLine
	path := fmt.Sprintf("/api/stock/products/%d/open", productID)
	if err := c.do(ctx, http.MethodPost, path, body, &lines); err != nil {
		return nil, err
	}
	return lines, nil
}

// UndoTransaction revierte la transacción indicada.
func (c *Client) UndoTransaction(ctx context.Context, transactionID string) error {
	path := fmt.Sprintf("/api/stock/transactions/%s/undo", transactionID)
	return c.do(ctx, http.MethodPost, path, struct{}{}, nil)
}

var _ stockoverview.GrocyService = (*Client)(nil)
