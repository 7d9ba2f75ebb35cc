package stockoverview

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/grocy-sync/internal/domain"
	"github.com/jhoicas/grocy-sync/internal/domain/entity"
	"github.com/jhoicas/grocy-sync/internal/domain/repository"
)

// Settings configuración consumida por la canalización de resumen de stock.
type Settings struct {
	Currency       string
	DueSoonDays    int
	FirstDayOfWeek int
	// Features banderas nombradas de funcionalidad; ausente = habilitada.
	Features map[string]bool
}

// Banderas de funcionalidad conocidas.
const (
	FeatureShoppingList          = "shopping_list"
	FeatureStockPriceTracking    = "stock_price_tracking"
	FeatureStockLocationTracking = "stock_location_tracking"
	FeatureStockOpenedTracking   = "stock_opened_tracking"
)

// FeatureEnabled devuelve la bandera nombrada; true cuando no está definida.
func (s Settings) FeatureEnabled(name string) bool {
	v, ok := s.Features[name]
	if !ok {
		return true
	}
	return v
}

// Notification mensaje transitorio hacia la UI; si UndoTransactionID no es vacío la
// UI puede ofrecer deshacer la transacción.
type Notification struct {
	ID                uuid.UUID
	Message           string
	UndoTransactionID string
	// Delta cambio neto reportado por la acción: consumos en negativo, aperturas
	// en positivo. Cero para notificaciones sin acción asociada.
	Delta   string
	IsError bool
}

// Listener callbacks de estado observable. Se invocan siempre desde el bucle propio
// del ViewModel; un callback no debe llamar de vuelta a los accesores síncronos del
// ViewModel (se bloquearía a sí mismo).
type Listener struct {
	OnFilteredItems func(items []*entity.StockItem, empty EmptyState)
	OnLoading       func(loading bool)
	OnOffline       func(offline bool)
	OnNotification  func(n Notification)
}

// maxNotifications tope del historial de notificaciones retenidas.
const maxNotifications = 20

// ViewModel dueño de la canalización carga → fusión → filtro → lista observable.
// Todo el estado mutable es propiedad exclusiva de una única goroutine (el bucle);
// la E/S remota corre aparte y sus continuaciones se re-encolan en el bucle. Un
// contador de generación monótono descarta terminaciones desfasadas: la última
// petición emitida gana siempre sobre el estado observable.
type ViewModel struct {
	log       zerolog.Logger
	store     repository.StockOverviewRepository
	syncState repository.SyncStateRepository
	grocy     GrocyService
	settings  Settings
	listener  Listener

	loop chan func()
	quit chan struct{}

	generation    uint64
	snapshot      *Snapshot
	filtered      []*entity.StockItem
	emptyState    EmptyState
	searchInput   string
	fuzzyNames    map[string]struct{}
	offline       bool
	loading       bool
	actionStates  map[int]ActionState
	notifications []Notification
}

// NewViewModel construye el ViewModel y arranca su bucle.
func NewViewModel(
	log zerolog.Logger,
	store repository.StockOverviewRepository,
	syncState repository.SyncStateRepository,
	grocy GrocyService,
	settings Settings,
	listener Listener,
) *ViewModel {
	vm := &ViewModel{
		log:          log,
		store:        store,
		syncState:    syncState,
		grocy:        grocy,
		settings:     settings,
		listener:     listener,
		loop:         make(chan func(), 64),
		quit:         make(chan struct{}),
		snapshot:     BuildSnapshot(&repository.StockOverviewData{}),
		actionStates: make(map[int]ActionState),
	}
	go vm.run()
	return vm
}

func (vm *ViewModel) run() {
	for {
		select {
		case f := <-vm.loop:
			f()
		case <-vm.quit:
			return
		}
	}
}

// post encola trabajo en el bucle; se descarta si el ViewModel ya fue cerrado.
func (vm *ViewModel) post(f func()) {
	select {
	case vm.loop <- f:
	case <-vm.quit:
	}
}

// Close detiene el bucle. Las terminaciones en vuelo se descartan.
func (vm *ViewModel) Close() {
	close(vm.quit)
}

// Settings devuelve la configuración de la canalización.
func (vm *ViewModel) Settings() Settings {
	return vm.settings
}

// LoadFromDatabase carga las doce colecciones de la caché local en una sola llamada,
// fusiona y publica la lista filtrada. Con downloadAfterLoading la sincronización
// remota se dispara solo después de completar la carga local.
func (vm *ViewModel) LoadFromDatabase(downloadAfterLoading bool) {
	vm.post(func() { vm.loadFromDatabase(downloadAfterLoading) })
}

func (vm *ViewModel) loadFromDatabase(downloadAfterLoading bool) {
	vm.generation++
	gen := vm.generation
	go func() {
		data, err := vm.store.LoadAll(context.Background())
		vm.post(func() {
			if gen != vm.generation {
				vm.log.Debug().Uint64("generation", gen).Msg("carga local desfasada descartada")
				return
			}
			if err != nil {
				vm.log.Error().Err(err).Msg("carga de caché local")
				vm.notify(Notification{Message: "no se pudo leer la caché local", IsError: true})
				return
			}
			vm.snapshot = BuildSnapshot(data)
			vm.refreshFiltered()
			if downloadAfterLoading {
				vm.downloadData(false)
			}
		})
	}()
}

// DownloadData sincroniza condicionalmente las colecciones vencidas y recarga.
func (vm *ViewModel) DownloadData() {
	vm.post(func() { vm.downloadData(false) })
}

// DownloadDataForceUpdate borra todas las marcas de sincronización y re-descarga
// cada colección completa.
func (vm *ViewModel) DownloadDataForceUpdate() {
	vm.post(func() { vm.downloadData(true) })
}

func (vm *ViewModel) downloadData(forceUpdate bool) {
	if forceUpdate {
		// el refresco forzado es la vía manual de reconexión: limpia la bandera
		// antes de la compuerta para que el intento llegue al servidor
		vm.setOffline(false)
	}
	if vm.offline {
		// sin conexión: solo refrescar la lista con lo que hay en caché
		vm.setLoading(false)
		vm.refreshFiltered()
		return
	}
	vm.generation++
	gen := vm.generation
	vm.setLoading(true)
	go func() {
		ctx := context.Background()
		var err error
		if forceUpdate {
			err = vm.syncState.InvalidateAll(ctx)
		}
		if err == nil {
			err = vm.grocy.UpdateData(ctx, repository.AllCollections()...)
		}
		vm.post(func() {
			if gen != vm.generation {
				vm.log.Debug().Uint64("generation", gen).Msg("sincronización desfasada descartada")
				return
			}
			vm.setLoading(false)
			if err != nil {
				vm.onDownloadError(err)
				return
			}
			vm.loadFromDatabase(false)
		})
	}()
}

func (vm *ViewModel) onDownloadError(err error) {
	vm.log.Debug().Err(err).Msg("error de sincronización")
	vm.notify(Notification{Message: "sin conexión con el servidor", IsError: true})
	if !vm.offline {
		vm.setOffline(true)
	}
}

// SetSearchInput fija la consulta de búsqueda. El conjunto difuso se calcula una
// sola vez aquí, no en cada pasada de filtrado.
func (vm *ViewModel) SetSearchInput(input string) {
	vm.post(func() {
		vm.searchInput = strings.ToLower(input)
		vm.fuzzyNames = FuzzyProductNames(vm.searchInput, vm.snapshot.Products)
		vm.refreshFiltered()
	})
}

// ResetSearch limpia la consulta activa.
func (vm *ViewModel) ResetSearch() {
	vm.post(func() {
		vm.searchInput = ""
		vm.fuzzyNames = nil
		vm.refreshFiltered()
	})
}

// SetOffline fija la bandera de sin conexión (ej. reconexión manual del usuario).
func (vm *ViewModel) SetOffline(offline bool) {
	vm.post(func() { vm.setOffline(offline) })
}

func (vm *ViewModel) refreshFiltered() {
	result := vm.snapshot.Filter(vm.searchInput, vm.fuzzyNames)
	vm.filtered = result.Items
	vm.emptyState = result.EmptyState
	if len(result.StaleCollections) > 0 {
		// señal de caché desfasada: se invalida en silencio para el próximo sync,
		// sin reportar al usuario
		cols := result.StaleCollections
		vm.log.Debug().Int("colecciones", len(cols)).Msg("caché desfasada, invalidando")
		go func() {
			if err := vm.syncState.Invalidate(context.Background(), cols...); err != nil {
				vm.log.Debug().Err(err).Msg("invalidación de caché")
			}
		}()
	}
	if vm.listener.OnFilteredItems != nil {
		vm.listener.OnFilteredItems(vm.filtered, vm.emptyState)
	}
}

func (vm *ViewModel) setLoading(loading bool) {
	if vm.loading == loading {
		return
	}
	vm.loading = loading
	if vm.listener.OnLoading != nil {
		vm.listener.OnLoading(loading)
	}
}

func (vm *ViewModel) setOffline(offline bool) {
	if vm.offline == offline {
		return
	}
	vm.offline = offline
	if vm.listener.OnOffline != nil {
		vm.listener.OnOffline(offline)
	}
}

func (vm *ViewModel) notify(n Notification) {
	n.ID = uuid.New()
	vm.notifications = append(vm.notifications, n)
	if len(vm.notifications) > maxNotifications {
		vm.notifications = vm.notifications[len(vm.notifications)-maxNotifications:]
	}
	if vm.listener.OnNotification != nil {
		vm.listener.OnNotification(n)
	}
}

func (vm *ViewModel) showError(err error) {
	if errors.Is(err, domain.ErrOffline) {
		vm.onDownloadError(err)
		return
	}
	vm.notify(Notification{Message: err.Error(), IsError: true})
}

// ── Accesores síncronos (petición-respuesta contra el bucle) ─────────────────

// FilteredItems devuelve la lista filtrada vigente y su clasificación de vacío.
func (vm *ViewModel) FilteredItems() ([]*entity.StockItem, EmptyState) {
	type reply struct {
		items []*entity.StockItem
		empty EmptyState
	}
	ch := make(chan reply, 1)
	vm.post(func() { ch <- reply{vm.filtered, vm.emptyState} })
	select {
	case r := <-ch:
		return r.items, r.empty
	case <-vm.quit:
		return nil, EmptyStateNone
	}
}

// Counters devuelve los conteos agregados de la última fusión.
func (vm *ViewModel) Counters() Counters {
	ch := make(chan Counters, 1)
	vm.post(func() { ch <- vm.snapshot.Counters })
	select {
	case c := <-ch:
		return c
	case <-vm.quit:
		return Counters{}
	}
}

// ShoppingListProductIDs ids de producto ya presentes en la lista de compras.
// Con la funcionalidad de lista de compras deshabilitada devuelve vacío.
func (vm *ViewModel) ShoppingListProductIDs() []string {
	if !vm.settings.FeatureEnabled(FeatureShoppingList) {
		return nil
	}
	ch := make(chan []string, 1)
	vm.post(func() { ch <- vm.snapshot.ShoppingListProductIDs })
	select {
	case ids := <-ch:
		return ids
	case <-vm.quit:
		return nil
	}
}

// IsOffline indica si la bandera persistente de sin conexión está activa.
func (vm *ViewModel) IsOffline() bool {
	ch := make(chan bool, 1)
	vm.post(func() { ch <- vm.offline })
	select {
	case v := <-ch:
		return v
	case <-vm.quit:
		return false
	}
}

// IsLoading indica si hay una sincronización en curso.
func (vm *ViewModel) IsLoading() bool {
	ch := make(chan bool, 1)
	vm.post(func() { ch <- vm.loading })
	select {
	case v := <-ch:
		return v
	case <-vm.quit:
		return false
	}
}

// Notifications devuelve el historial reciente de notificaciones.
func (vm *ViewModel) Notifications() []Notification {
	ch := make(chan []Notification, 1)
	vm.post(func() {
		out := make([]Notification, len(vm.notifications))
		copy(out, vm.notifications)
		ch <- out
	})
	select {
	case ns := <-ch:
		return ns
	case <-vm.quit:
		return nil
	}
}
