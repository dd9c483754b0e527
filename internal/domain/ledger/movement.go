// Package ledger implementa el libro físico de existencias: un registro
// append-only de movimientos entre cuentas (ubicación, estado) del cual se
// derivan todos los saldos por agregación. Ningún componente guarda saldos
// mutables; la única fuente de verdad es la secuencia de movimientos.
package ledger

import (
	"errors"
	"time"
)

// State estado físico del envase dentro de una cuenta.
type State string

const (
	StateFilled State = "FILLED" // lleno
	StateEmpty  State = "EMPTY"  // vacío
)

// Valid indica si el estado es uno de los conocidos.
func (s State) Valid() bool { return s == StateFilled || s == StateEmpty }

// LocationType tipo de ubicación según el catálogo.
type LocationType string

const (
	LocationWarehouse LocationType = "WAREHOUSE" // bodega de la planta
	LocationDamaged   LocationType = "DAMAGED"   // cuenta de dañados
	LocationMarket    LocationType = "MARKET"    // en ruta, en poder de un vendedor
)

// Valid indica si el tipo de ubicación es uno de los conocidos.
func (t LocationType) Valid() bool {
	return t == LocationWarehouse || t == LocationDamaged || t == LocationMarket
}

// MovementType etiqueta de categorización del movimiento. Solo la usan los
// filtros de reportes; nunca altera la matemática de créditos y débitos.
type MovementType string

const (
	MovementFilling  MovementType = "FILLING"  // llenado: vacío -> lleno en bodega
	MovementTransfer MovementType = "TRANSFER" // traslado entre cuentas
	MovementSale     MovementType = "SALE"     // salida por venta
	MovementReturn   MovementType = "RETURN"   // devolución de envase
	MovementDamage   MovementType = "DAMAGE"   // baja por daño
	MovementPurchase MovementType = "PURCHASE" // compra de envases nuevos
)

// Valid indica si el tipo de movimiento es uno de los conocidos.
func (t MovementType) Valid() bool {
	switch t {
	case MovementFilling, MovementTransfer, MovementSale, MovementReturn, MovementDamage, MovementPurchase:
		return true
	}
	return false
}

// Account clave derivada (ubicación, estado). No es una entidad almacenada:
// toda cantidad del sistema vive en exactamente una cuenta en cada instante.
type Account struct {
	LocationID string
	State      State
}

// Movement registro inmutable del libro. Solo con To = creación de
// existencias (llenado, compra); solo con From = destrucción (baja por daño,
// consumo); con ambos = traslado entre cuentas. Las correcciones se modelan
// como movimientos compensatorios, nunca como edición o borrado.
type Movement struct {
	ID         int64 // asignado por el log en orden de inserción; desempata el orden canónico
	ProductID  string
	Quantity   int64 // unidades movidas, siempre > 0
	From       *Account
	To         *Account
	Type       MovementType
	OccurredOn time.Time // fecha de negocio (distinta a la de ingestión)
	RecordedAt time.Time
	Reference  string // factura, orden, nota, etc.
	CreatedBy  string
}

// Errores del libro.
var (
	ErrInvalidMovement = errors.New("ledger: movimiento inválido")
	ErrInvalidFilter   = errors.New("ledger: filtro de consulta inválido")
)

// Validate verifica las invariantes estructurales de un movimiento antes de
// aceptarlo en el log: cantidad estrictamente positiva, al menos una cuenta,
// estados y tipo conocidos. La resolución contra catálogos (producto y
// ubicaciones existentes) es responsabilidad del caso de uso de append.
func (m *Movement) Validate() error {
	if m.Quantity <= 0 {
		return ErrInvalidMovement
	}
	if m.From == nil && m.To == nil {
		return ErrInvalidMovement
	}
	if m.From != nil && (m.From.LocationID == "" || !m.From.State.Valid()) {
		return ErrInvalidMovement
	}
	if m.To != nil && (m.To.LocationID == "" || !m.To.State.Valid()) {
		return ErrInvalidMovement
	}
	if m.ProductID == "" || !m.Type.Valid() {
		return ErrInvalidMovement
	}
	if m.OccurredOn.IsZero() {
		return ErrInvalidMovement
	}
	return nil
}

// Less define el orden canónico total (occurredOn, id). Como los ids son
// únicos y monotónicos, dos movimientos nunca comparan iguales.
func (m *Movement) Less(other *Movement) bool {
	if !m.OccurredOn.Equal(other.OccurredOn) {
		return m.OccurredOn.Before(other.OccurredOn)
	}
	return m.ID < other.ID
}
