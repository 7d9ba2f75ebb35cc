package grocy_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/grocy-sync/internal/application/stockoverview"
	"github.com/jhoicas/grocy-sync/internal/domain"
	"github.com/jhoicas/grocy-sync/internal/domain/repository"
	"github.com/jhoicas/grocy-sync/internal/infrastructure/grocy"
)

// ── Dobles ───────────────────────────────────────────────────────────────────

type captureStore struct {
	mu        sync.Mutex
	data      *repository.StockOverviewData
	refreshed []repository.Collection
	syncedAt  time.Time
}

func (s *captureStore) LoadAll(context.Context) (*repository.StockOverviewData, error) {
	return &repository.StockOverviewData{}, nil
}

func (s *captureStore) ReplaceCollections(_ context.Context, data *repository.StockOverviewData, collections []repository.Collection, syncedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.data = data
	s.refreshed = collections
	s.syncedAt = syncedAt
	return nil
}

type stampSyncState struct {
	stamps map[repository.Collection]time.Time
}

func (s *stampSyncState) LastSynced(_ context.Context, col repository.Collection) (time.Time, bool, error) {
	t, ok := s.stamps[col]
	return t, ok, nil
}

func (s *stampSyncState) SetLastSynced(_ context.Context, col repository.Collection, t time.Time) error {
	s.stamps[col] = t
	return nil
}

func (s *stampSyncState) Invalidate(_ context.Context, collections ...repository.Collection) error {
	for _, col := range collections {
		delete(s.stamps, col)
	}
	return nil
}

func (s *stampSyncState) InvalidateAll(context.Context) error {
	s.stamps = map[repository.Collection]time.Time{}
	return nil
}

// ── Servidor de prueba ───────────────────────────────────────────────────────

type fakeGrocyServer struct {
	mu       sync.Mutex
	requests []string
	consume  stockoverview.TransactionRequest
}

func (f *fakeGrocyServer) handler() http.Handler {
	mux := http.NewServeMux()
	record := func(r *http.Request) {
		f.mu.Lock()
		f.requests = append(f.requests, r.URL.Path)
		f.mu.Unlock()
	}
	mux.HandleFunc("/api/system/db-changed-time", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		json.NewEncoder(w).Encode(map[string]string{"changed_time": "2026-08-30 12:00:00"})
	})
	mux.HandleFunc("/api/objects/products", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		w.Write([]byte(`[{"id": 1, "name": "Manzana"}]`))
	})
	mux.HandleFunc("/api/objects/", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		w.Write([]byte(`[]`))
	})
	mux.HandleFunc("/api/stock", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		w.Write([]byte(`[{"product_id": 1, "amount": "3.5", "amount_opened": 1, "best_before_date": "2026-09-15"}]`))
	})
	mux.HandleFunc("/api/stock/volatile", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		w.Write([]byte(`{
			"due_products": [{"id": 1}],
			"overdue_products": [],
			"expired_products": [{"id": 3}],
			"missing_products": [{"id": 2, "name": "Leche", "is_partly_in_stock": true}]
		}`))
	})
	mux.HandleFunc("/api/stock/products/1/consume", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		json.NewDecoder(r.Body).Decode(&f.consume)
		w.Write([]byte(`[{"transaction_id": "t1", "amount": "-2"}, {"transaction_id": "t1", "amount": "-1"}]`))
	})
	mux.HandleFunc("/api/stock/products/1/open", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		w.Write([]byte(`[{"transaction_id": "t2", "amount": "1"}]`))
	})
	mux.HandleFunc("/api/stock/products/9/consume", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		w.WriteHeader(http.StatusBadRequest)
	})
	mux.HandleFunc("/api/stock/transactions/", func(w http.ResponseWriter, r *http.Request) {
		record(r)
		w.Write([]byte(`{}`))
	})
	return mux
}

func (f *fakeGrocyServer) paths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.requests...)
}

func newClient(t *testing.T, syncState repository.SyncStateRepository) (*grocy.Client, *captureStore, *fakeGrocyServer) {
	t.Helper()
	fake := &fakeGrocyServer{}
	srv := httptest.NewServer(fake.handler())
	t.Cleanup(srv.Close)

	store := &captureStore{}
	client := grocy.NewClient(grocy.Config{
		BaseURL:     srv.URL,
		APIKey:      "clave",
		DueSoonDays: 5,
	}, store, syncState, zerolog.Nop())
	return client, store, fake
}

// ── Sincronización ───────────────────────────────────────────────────────────

func TestUpdateDataDownloadsStaleCollections(t *testing.T) {
	syncState := &stampSyncState{stamps: map[repository.Collection]time.Time{}}
	client, store, _ := newClient(t, syncState)

	err := client.UpdateData(context.Background(), repository.AllCollections()...)
	require.NoError(t, err)

	require.NotNil(t, store.data)
	assert.Len(t, store.refreshed, len(repository.AllCollections()))
	assert.Equal(t, time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC), store.syncedAt.UTC())

	require.Len(t, store.data.Products, 1)
	assert.Equal(t, "Manzana", store.data.Products[0].Name)

	require.Len(t, store.data.StockItems, 1)
	assert.True(t, store.data.StockItems[0].Amount.Equal(decimal.RequireFromString("3.5")))

	assert.Len(t, store.data.VolatileItems, 2)
	require.Len(t, store.data.MissingItems, 1)
	assert.True(t, store.data.MissingItems[0].PartlyInStock)
}

func TestUpdateDataSkipsFreshCollections(t *testing.T) {
	// marca posterior a la hora de cambio del servidor: nada que descargar
	fresh := time.Date(2026, 8, 30, 13, 0, 0, 0, time.UTC)
	stamps := map[repository.Collection]time.Time{}
	for _, c := range repository.AllCollections() {
		stamps[c] = fresh
	}
	client, store, fake := newClient(t, &stampSyncState{stamps: stamps})

	require.NoError(t, client.UpdateData(context.Background(), repository.AllCollections()...))

	assert.Nil(t, store.data, "sin colecciones viejas no se reemplaza nada")
	assert.Equal(t, []string{"/api/system/db-changed-time"}, fake.paths())
}

func TestUpdateDataPairsVolatileAndMissing(t *testing.T) {
	// sólo los volátiles están viejos, pero ambos vienen del mismo endpoint
	fresh := time.Date(2026, 8, 30, 13, 0, 0, 0, time.UTC)
	stamps := map[repository.Collection]time.Time{}
	for _, c := range repository.AllCollections() {
		stamps[c] = fresh
	}
	delete(stamps, repository.CollectionVolatileItems)
	client, store, _ := newClient(t, &stampSyncState{stamps: stamps})

	require.NoError(t, client.UpdateData(context.Background(), repository.AllCollections()...))

	require.NotNil(t, store.data)
	assert.ElementsMatch(t, []repository.Collection{
		repository.CollectionVolatileItems,
		repository.CollectionMissingItems,
	}, store.refreshed)
	assert.Len(t, store.data.MissingItems, 1)
}

func TestUpdateDataNetworkErrorIsOffline(t *testing.T) {
	store := &captureStore{}
	syncState := &stampSyncState{stamps: map[repository.Collection]time.Time{}}
	client := grocy.NewClient(grocy.Config{
		BaseURL: "http://127.0.0.1:1",
		Timeout: 200 * time.Millisecond,
	}, store, syncState, zerolog.Nop())

	err := client.UpdateData(context.Background(), repository.CollectionProducts)
	require.Error(t, err)
	assert.True(t, errors.Is(err, domain.ErrOffline))
}

// ── Escrituras ───────────────────────────────────────────────────────────────

func TestConsumeSendsBodyAndParsesLines(t *testing.T) {
	client, _, fake := newClient(t, &stampSyncState{stamps: map[repository.Collection]time.Time{}})

	lines, err := client.Consume(context.Background(), 1, stockoverview.TransactionRequest{
		Amount:                      decimal.NewFromInt(3),
		AllowSubproductSubstitution: true,
		Spoiled:                     true,
	})
	require.NoError(t, err)

	require.Len(t, lines, 2)
	assert.Equal(t, "t1", lines[0].TransactionID)
	assert.True(t, lines[0].Amount.Equal(decimal.NewFromInt(-2)))

	assert.True(t, fake.consume.Amount.Equal(decimal.NewFromInt(3)))
	assert.True(t, fake.consume.AllowSubproductSubstitution)
	assert.True(t, fake.consume.Spoiled)
}

func TestOpenParsesLines(t *testing.T) {
	client, _, _ := newClient(t, &stampSyncState{stamps: map[repository.Collection]time.Time{}})

	lines, err := client.Open(context.Background(), 1, stockoverview.TransactionRequest{
		Amount: decimal.NewFromInt(1),
	})
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, "t2", lines[0].TransactionID)
}

func TestConsumeServerErrorSurfaces(t *testing.T) {
	client, _, _ := newClient(t, &stampSyncState{stamps: map[repository.Collection]time.Time{}})

	_, err := client.Consume(context.Background(), 9, stockoverview.TransactionRequest{
		Amount: decimal.NewFromInt(1),
	})
	require.Error(t, err)
	assert.False(t, errors.Is(err, domain.ErrOffline), "un error del servidor no es pérdida de conexión")
}

func TestUndoTransactionHitsEndpoint(t *testing.T) {
	client, _, fake := newClient(t, &stampSyncState{stamps: map[repository.Collection]time.Time{}})

	require.NoError(t, client.UndoTransaction(context.Background(), "t1"))
	assert.Contains(t, fake.paths(), "/api/stock/transactions/t1/undo")
}
