package stockoverview

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/grocy-sync/internal/domain/entity"
)

// Action acciones de stock disponibles sobre un item.
type Action string

// Acciones soportadas.
const (
	ActionConsume        Action = "consume"
	ActionOpen           Action = "open"
	ActionConsumeAll     Action = "consume_all"
	ActionConsumeSpoiled Action = "consume_spoiled"
)

// ActionState máquina de estados por acción de stock:
// idle → submitting → {success, failed}.
type ActionState int

// Estados de una acción.
const (
	ActionStateIdle ActionState = iota
	ActionStateSubmitting
	ActionStateSuccess
	ActionStateFailed
)

// PerformAction ejecuta la acción sobre el producto indicado. El monto sale de la
// clase de acción: monto de consumo rápido del producto, monto total en mano (o tara
// configurada), o 1 unidad fija para echado a perder. El resultado llega por
// notificación; en éxito incluye el id de transacción para deshacer y dispara una
// recarga completa.
func (vm *ViewModel) PerformAction(action Action, productID int) {
	vm.post(func() {
		item, ok := vm.snapshot.ItemByProductID(productID)
		if !ok || item.Product == nil {
			vm.notify(Notification{Message: "producto no encontrado en stock", IsError: true})
			return
		}
		switch action {
		case ActionConsume:
			vm.consumeProduct(item, item.Product.QuickConsumeAmount, false)
		case ActionOpen:
			if !vm.settings.FeatureEnabled(FeatureStockOpenedTracking) {
				vm.notify(Notification{Message: "el rastreo de aperturas está deshabilitado", IsError: true})
				return
			}
			vm.openProduct(item, item.Product.QuickConsumeAmount)
		case ActionConsumeAll:
			vm.consumeProduct(item, item.ConsumeAllAmount(), false)
		case ActionConsumeSpoiled:
			vm.consumeProduct(item, decimal.NewFromInt(1), true)
		default:
			vm.notify(Notification{Message: "acción desconocida", IsError: true})
		}
	})
}

// ActionStateFor devuelve el estado de la última acción sobre el producto.
func (vm *ViewModel) ActionStateFor(productID int) ActionState {
	ch := make(chan ActionState, 1)
	vm.post(func() { ch <- vm.actionStates[productID] })
	select {
	case s := <-ch:
		return s
	case <-vm.quit:
		return ActionStateIdle
	}
}

// Undo revierte la transacción indicada. En éxito dispara recarga y confirma; en
// fallo solo se reporta el error, sin reintento encadenado.
func (vm *ViewModel) Undo(transactionID string) {
	vm.post(func() {
		go func() {
			err := vm.grocy.UndoTransaction(context.Background(), transactionID)
			vm.post(func() {
				if err != nil {
					vm.showError(err)
					return
				}
				vm.downloadData(false)
				vm.notify(Notification{Message: "transacción deshecha"})
				vm.log.Debug().Str("transaction_id", transactionID).Msg("transacción deshecha")
			})
		}()
	})
}

func (vm *ViewModel) consumeProduct(item *entity.StockItem, amount decimal.Decimal, spoiled bool) {
	vm.actionStates[item.ProductID] = ActionStateSubmitting
	body := TransactionRequest{Amount: amount, AllowSubproductSubstitution: true, Spoiled: spoiled}
	product := *item.Product
	go func() {
		lines, err := vm.grocy.Consume(context.Background(), item.ProductID, body)
		vm.post(func() {
			if err != nil {
				vm.actionStates[item.ProductID] = ActionStateFailed
				vm.showError(err)
				return
			}
			vm.actionStates[item.ProductID] = ActionStateSuccess
			txID, delta := summarizeLines(lines, true)
			if txID == "" {
				// respuesta malformada: sin id no se ofrece deshacer
				vm.log.Debug().Int("product_id", item.ProductID).Msg("respuesta de consumo sin transaction_id")
			}
			verb := "consumido"
			if spoiled {
				verb = "consumido (echado a perder)"
			}
			vm.notify(Notification{
				Message:           vm.amountMessage(verb, product, delta),
				UndoTransactionID: txID,
				Delta:             delta.String(),
			})
			vm.downloadData(false)
			vm.log.Debug().Str("delta", delta.String()).Msg("consumo registrado")
		})
	}()
}

func (vm *ViewModel) openProduct(item *entity.StockItem, amount decimal.Decimal) {
	vm.actionStates[item.ProductID] = ActionStateSubmitting
	body := TransactionRequest{Amount: amount, AllowSubproductSubstitution: true}
	product := *item.Product
	go func() {
		lines, err := vm.grocy.Open(context.Background(), item.ProductID, body)
		vm.post(func() {
			if err != nil {
				vm.actionStates[item.ProductID] = ActionStateFailed
				vm.showError(err)
				return
			}
			vm.actionStates[item.ProductID] = ActionStateSuccess
			txID, delta := summarizeLines(lines, false)
			if txID == "" {
				vm.log.Debug().Int("product_id", item.ProductID).Msg("respuesta de apertura sin transaction_id")
			}
			vm.notify(Notification{
				Message:           vm.amountMessage("abierto", product, delta),
				UndoTransactionID: txID,
				Delta:             delta.String(),
			})
			vm.downloadData(false)
			vm.log.Debug().Str("delta", delta.String()).Msg("apertura registrada")
		})
	}()
}

// summarizeLines extrae el id de transacción del primer renglón y suma los montos:
// consumos como delta negativo, aperturas como positivo. Una respuesta vacía degrada
// a id vacío y delta cero.
func summarizeLines(lines []TransactionLine, consumed bool) (string, decimal.Decimal) {
	if len(lines) == 0 {
		return "", decimal.Zero
	}
	delta := decimal.Zero
	for _, l := range lines {
		if consumed {
			delta = delta.Sub(l.Amount)
		} else {
			delta = delta.Add(l.Amount)
		}
	}
	return lines[0].TransactionID, delta
}

// amountMessage arma la confirmación localizada con la unidad de cantidad del
// producto en su forma singular o plural según el monto.
func (vm *ViewModel) amountMessage(verb string, product entity.Product, delta decimal.Decimal) string {
	unit := vm.snapshot.QuantityUnitByID[product.QuIDStock]
	unitName := unit.PluralName(delta)
	if unitName == "" {
		unitName = "unidades"
	}
	return fmt.Sprintf("%s %s %s de %s", verb, delta.Abs().String(), unitName, product.Name)
}
