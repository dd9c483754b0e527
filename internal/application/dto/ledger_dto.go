package dto

import "time"

// AccountDTO una cuenta (ubicación, estado) en el cuerpo de una petición.
type AccountDTO struct {
	LocationID string `json:"location_id" validate:"required,uuid"`
	State      string `json:"state" validate:"required,oneof=FILLED EMPTY"`
}

// AppendMovementRequest body para POST /api/ledger/movements. From/To son
// opcionales pero al menos uno debe venir: solo To crea existencias, solo
// From las destruye, ambos trasladan.
type AppendMovementRequest struct {
	ProductID  string      `json:"product_id" validate:"required,uuid"`
	Quantity   int64       `json:"quantity" validate:"required,gt=0"`
	From       *AccountDTO `json:"from_account,omitempty"`
	To         *AccountDTO `json:"to_account,omitempty"`
	Type       string      `json:"movement_type" validate:"required"`
	OccurredOn string      `json:"occurred_on" validate:"required"` // YYYY-MM-DD
	Reference  string      `json:"reference,omitempty"`
}

// AppendMovementResponse id que el log asignó a la entrada.
type AppendMovementResponse struct {
	EntryID int64 `json:"entry_id"`
}

// FillingRequest body para POST /api/ledger/fillings: convierte vacíos en
// llenos dentro de la misma bodega.
type FillingRequest struct {
	ProductID  string `json:"product_id" validate:"required,uuid"`
	Quantity   int64  `json:"quantity" validate:"required,gt=0"`
	LocationID string `json:"location_id" validate:"required,uuid"` // bodega
	OccurredOn string `json:"occurred_on" validate:"required"`
	Reference  string `json:"reference,omitempty"`
}

// TransferRequest body para POST /api/ledger/transfers.
type TransferRequest struct {
	ProductID  string     `json:"product_id" validate:"required,uuid"`
	Quantity   int64      `json:"quantity" validate:"required,gt=0"`
	From       AccountDTO `json:"from_account" validate:"required"`
	To         AccountDTO `json:"to_account" validate:"required"`
	OccurredOn string     `json:"occurred_on" validate:"required"`
	Reference  string     `json:"reference,omitempty"`
}

// DamageRequest body para POST /api/ledger/damages: baja definitiva, la
// cantidad sale del sistema (no acredita ninguna cuenta).
type DamageRequest struct {
	ProductID  string     `json:"product_id" validate:"required,uuid"`
	Quantity   int64      `json:"quantity" validate:"required,gt=0"`
	From       AccountDTO `json:"from_account" validate:"required"`
	OccurredOn string     `json:"occurred_on" validate:"required"`
	Reference  string     `json:"reference,omitempty"`
}

// SaleRequest body para POST /api/ledger/sales. Si ReturnedEmpties > 0 el
// cliente devolvió envases vacíos en el mismo evento: la venta y la
// devolución entran al log en una sola transacción.
type SaleRequest struct {
	ProductID       string     `json:"product_id" validate:"required,uuid"`
	Quantity        int64      `json:"quantity" validate:"required,gt=0"`
	From            AccountDTO `json:"from_account" validate:"required"`
	CustomerID      string     `json:"customer_id,omitempty"`
	ReturnedEmpties int64      `json:"returned_empties,omitempty" validate:"omitempty,gt=0"`
	EmptiesTo       *AccountDTO `json:"empties_to_account,omitempty"`
	OccurredOn      string     `json:"occurred_on" validate:"required"`
	Reference       string     `json:"reference,omitempty"`
}

// BalanceRow una fila de rollup de saldos.
type BalanceRow struct {
	ProductID    string `json:"product_id"`
	LocationType string `json:"location_type"`
	State        string `json:"state"`
	Quantity     int64  `json:"quantity"`
}

// IntegrityWarningDTO cuenta con saldo negativo: error del productor aguas
// arriba que se reporta al operador, nunca se oculta ni se recorta a cero.
type IntegrityWarningDTO struct {
	ProductID  string `json:"product_id"`
	LocationID string `json:"location_id"`
	State      string `json:"state"`
	Quantity   int64  `json:"quantity"`
}

// BalancesResponse rollups más las señales de integridad detectadas.
type BalancesResponse struct {
	Balances []BalanceRow          `json:"balances"`
	Warnings []IntegrityWarningDTO `json:"warnings,omitempty"`
}

// RunningTotalRow una fila del acumulado histórico de un producto.
type RunningTotalRow struct {
	EntryID         int64     `json:"entry_id"`
	OccurredOn      time.Time `json:"occurred_on"`
	PriorCumulative int64     `json:"prior_cumulative"` // stock anterior
	Quantity        int64     `json:"quantity"`         // lo agregado por la entrada
	NewCumulative   int64     `json:"new_cumulative"`   // stock nuevo
}

// MovementResponse salida de un movimiento del log.
type MovementResponse struct {
	ID         int64       `json:"id"`
	ProductID  string      `json:"product_id"`
	Quantity   int64       `json:"quantity"`
	From       *AccountDTO `json:"from_account,omitempty"`
	To         *AccountDTO `json:"to_account,omitempty"`
	Type       string      `json:"movement_type"`
	OccurredOn time.Time   `json:"occurred_on"`
	RecordedAt time.Time   `json:"recorded_at"`
	Reference  string      `json:"reference,omitempty"`
}
