package stockoverview

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/grocy-sync/internal/domain/repository"
)

// TransactionRequest cuerpo de las escrituras de stock contra el servidor Grocy.
// Spoiled solo se incluye en consumos marcados como echados a perder.
type TransactionRequest struct {
	Amount                      decimal.Decimal `json:"amount"`
	AllowSubproductSubstitution bool            `json:"allow_subproduct_substitution"`
	Spoiled                     bool            `json:"spoiled,omitempty"`
}

// TransactionLine renglón de la respuesta de una escritura de stock. El servidor
// devuelve una secuencia ordenada; el transaction_id del primer renglón identifica
// la transacción completa para deshacer.
type TransactionLine struct {
	TransactionID string          `json:"transaction_id"`
	Amount        decimal.Decimal `json:"amount"`
}

// GrocyService puerto de salida hacia el servidor Grocy: sincronización condicional
// por colección y las escrituras de stock. La implementación concreta usa la API
// REST; para tests se inyecta un doble.
type GrocyService interface {
	// UpdateData descarga las colecciones cuya marca de sincronización está vencida
	// o ausente y reemplaza su contenido en la caché local.
	UpdateData(ctx context.Context, collections ...repository.Collection) error
	// Consume registra un consumo del producto; devuelve los renglones de la transacción.
	Consume(ctx context.Context, productID int, body TransactionRequest) ([]TransactionLine, error)
	// Open marca unidades del producto como abiertas.
	Open(ctx context.Context, productID int, body TransactionRequest) ([]TransactionLine, error)
	// UndoTransaction revierte una transacción previa por su id.
	UndoTransaction(ctx context.Context, transactionID string) error
}
