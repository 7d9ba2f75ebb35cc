package http

import (
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/grocy-sync/internal/application/dto"
	"github.com/jhoicas/grocy-sync/internal/application/stockoverview"
	"github.com/jhoicas/grocy-sync/internal/domain/entity"
)

// StockHandler expone la canalización de resumen de stock sobre HTTP.
type StockHandler struct {
	vm *stockoverview.ViewModel
}

// NewStockHandler construye el handler.
func NewStockHandler(vm *stockoverview.ViewModel) *StockHandler {
	return &StockHandler{vm: vm}
}

// List devuelve la lista filtrada. Con ?q= fija la consulta de búsqueda activa
// (grocycode, código de barras o texto con coincidencia difusa).
func (h *StockHandler) List(c *fiber.Ctx) error {
	if c.Request().URI().QueryArgs().Has("q") {
		h.vm.SetSearchInput(c.Query("q"))
	}
	items, empty := h.vm.FilteredItems()

	out := dto.StockListResponse{
		Items:      make([]dto.StockItemDTO, 0, len(items)),
		EmptyState: emptyStateName(empty),
		Total:      len(items),
	}
	for _, item := range items {
		out.Items = append(out.Items, stockItemDTO(item))
	}
	return c.JSON(out)
}

// Counters devuelve los conteos agregados de la última fusión.
func (h *StockHandler) Counters(c *fiber.Ctx) error {
	counters := h.vm.Counters()
	return c.JSON(dto.CountersResponse{
		Due:     counters.Due,
		Overdue: counters.Overdue,
		Expired: counters.Expired,
		Missing: counters.Missing,
		InStock: counters.InStock,
		Opened:  counters.Opened,
	})
}

// Detail devuelve el detalle de un producto en stock: montos, grupo, unidad,
// precios y ubicaciones (según banderas de funcionalidad).
func (h *StockHandler) Detail(c *fiber.Ctx) error {
	productID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id de producto inválido"})
	}
	d, ok := h.vm.ProductDetails(productID)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NOT_FOUND", Message: "producto no encontrado en stock"})
	}

	out := dto.ProductDetailResponse{
		ProductID:      d.Product.ID,
		Name:           d.Product.Name,
		GroupName:      d.GroupName,
		QuantityUnit:   d.QuantityUnit.Name,
		Amount:         d.Amount.String(),
		AmountOpened:   d.AmountOpened.String(),
		BestBeforeDate: d.BestBefore,
		Currency:       d.Currency,
	}
	if d.AveragePrice != nil {
		out.AveragePrice = d.AveragePrice.String()
	}
	if d.LastPurchased != nil {
		out.LastPurchasedDate = d.LastPurchased.PurchasedDate
		out.LastPrice = d.LastPurchased.Price.String()
	}
	for _, loc := range d.Locations {
		out.Locations = append(out.Locations, dto.StockLocationDTO{
			LocationID: loc.LocationID,
			Name:       loc.LocationName,
		})
	}
	return c.JSON(out)
}

// Refresh dispara una sincronización; con ?force=true borra las marcas y
// re-descarga todas las colecciones.
func (h *StockHandler) Refresh(c *fiber.Ctx) error {
	if c.QueryBool("force") {
		h.vm.DownloadDataForceUpdate()
	} else {
		h.vm.DownloadData()
	}
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"message": "sincronización encolada"})
}

// Action encola una acción de stock (consume, open, consume_all, consume_spoiled)
// sobre el producto indicado.
func (h *StockHandler) Action(c *fiber.Ctx) error {
	productID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id de producto inválido"})
	}
	var in dto.ActionRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	action := stockoverview.Action(in.Action)
	switch action {
	case stockoverview.ActionConsume, stockoverview.ActionOpen,
		stockoverview.ActionConsumeAll, stockoverview.ActionConsumeSpoiled:
	default:
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "acción desconocida"})
	}
	h.vm.PerformAction(action, productID)
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"message": "acción encolada"})
}

// ActionState devuelve el estado de la última acción sobre el producto.
func (h *StockHandler) ActionState(c *fiber.Ctx) error {
	productID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id de producto inválido"})
	}
	return c.JSON(fiber.Map{"state": actionStateName(h.vm.ActionStateFor(productID))})
}

// Undo revierte la transacción indicada y re-sincroniza.
func (h *StockHandler) Undo(c *fiber.Ctx) error {
	transactionID := c.Params("id")
	if transactionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "id de transacción requerido"})
	}
	h.vm.Undo(transactionID)
	return c.Status(fiber.StatusAccepted).JSON(fiber.Map{"message": "reversión encolada"})
}

// Notifications devuelve el historial reciente de notificaciones.
func (h *StockHandler) Notifications(c *fiber.Ctx) error {
	ns := h.vm.Notifications()
	out := make([]dto.NotificationDTO, 0, len(ns))
	for _, n := range ns {
		out = append(out, dto.NotificationDTO{
			ID:                n.ID.String(),
			Message:           n.Message,
			UndoTransactionID: n.UndoTransactionID,
			Delta:             n.Delta,
			IsError:           n.IsError,
		})
	}
	return c.JSON(out)
}

// ShoppingList ids de producto ya presentes en la lista de compras.
func (h *StockHandler) ShoppingList(c *fiber.Ctx) error {
	ids := h.vm.ShoppingListProductIDs()
	if ids == nil {
		ids = []string{}
	}
	return c.JSON(fiber.Map{"product_ids": ids})
}

// Status banderas de conexión y carga.
func (h *StockHandler) Status(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"offline": h.vm.IsOffline(),
		"loading": h.vm.IsLoading(),
	})
}

func stockItemDTO(item *entity.StockItem) dto.StockItemDTO {
	out := dto.StockItemDTO{
		ProductID:               item.ProductID,
		Amount:                  item.Amount.String(),
		AmountOpened:            item.AmountOpened.String(),
		BestBeforeDate:          item.BestBefore,
		Due:                     item.Due,
		Overdue:                 item.Overdue,
		Expired:                 item.Expired,
		Missing:                 item.Missing,
		MissingAndPartlyInStock: item.MissingAndPartlyInStock,
	}
	if item.Product != nil {
		out.ProductName = item.Product.Name
	}
	return out
}

func emptyStateName(s stockoverview.EmptyState) string {
	switch s {
	case stockoverview.EmptyStateNoSearchResults:
		return "no_search_results"
	case stockoverview.EmptyStateEmptyStock:
		return "empty_stock"
	default:
		return "none"
	}
}

func actionStateName(s stockoverview.ActionState) string {
	switch s {
	case stockoverview.ActionStateSubmitting:
		return "submitting"
	case stockoverview.ActionStateSuccess:
		return "success"
	case stockoverview.ActionStateFailed:
		return "failed"
	default:
		return "idle"
	}
}
