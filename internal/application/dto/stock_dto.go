package dto

// ErrorResponse cuerpo de error HTTP.
type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// StockItemDTO renglón de la lista de stock anotada.
type StockItemDTO struct {
	ProductID               int    `json:"product_id"`
	ProductName             string `json:"product_name"`
	Amount                  string `json:"amount"`
	AmountOpened            string `json:"amount_opened"`
	BestBeforeDate          string `json:"best_before_date"`
	Due                     bool   `json:"due"`
	Overdue                 bool   `json:"overdue"`
	Expired                 bool   `json:"expired"`
	Missing                 bool   `json:"missing"`
	MissingAndPartlyInStock bool   `json:"missing_and_partly_in_stock"`
}

// StockListResponse lista filtrada con su clasificación de vacío.
type StockListResponse struct {
	Items      []StockItemDTO `json:"items"`
	EmptyState string         `json:"empty_state"`
	Total      int            `json:"total"`
}

// CountersResponse conteos agregados de la última fusión.
type CountersResponse struct {
	Due     int `json:"due"`
	Overdue int `json:"overdue"`
	Expired int `json:"expired"`
	Missing int `json:"missing"`
	InStock int `json:"in_stock"`
	Opened  int `json:"opened"`
}

// StockLocationDTO ubicación actual de existencias de un producto.
type StockLocationDTO struct {
	LocationID int    `json:"location_id"`
	Name       string `json:"name"`
}

// ProductDetailResponse detalle de un producto en stock. Los campos de precio y
// ubicación se omiten cuando su funcionalidad está deshabilitada.
type ProductDetailResponse struct {
	ProductID         int                `json:"product_id"`
	Name              string             `json:"name"`
	GroupName         string             `json:"group_name,omitempty"`
	QuantityUnit      string             `json:"quantity_unit"`
	Amount            string             `json:"amount"`
	AmountOpened      string             `json:"amount_opened"`
	BestBeforeDate    string             `json:"best_before_date,omitempty"`
	Currency          string             `json:"currency"`
	AveragePrice      string             `json:"average_price,omitempty"`
	LastPurchasedDate string             `json:"last_purchased_date,omitempty"`
	LastPrice         string             `json:"last_price,omitempty"`
	Locations         []StockLocationDTO `json:"locations,omitempty"`
}

// ActionRequest acción de stock sobre un producto.
type ActionRequest struct {
	Action string `json:"action"` // consume | open | consume_all | consume_spoiled
}

// NotificationDTO notificación transitoria hacia la UI.
type NotificationDTO struct {
	ID                string `json:"id"`
	Message           string `json:"message"`
	UndoTransactionID string `json:"undo_transaction_id,omitempty"`
	Delta             string `json:"delta,omitempty"`
	IsError           bool   `json:"is_error"`
}
