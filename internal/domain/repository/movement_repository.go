package repository

import (
	"context"
	"time"

	"github.com/jhoicas/Envasadora-api/internal/domain/ledger"
)

// MovementFilter filtros de consulta sobre el log. LocationID empata tanto la
// cuenta origen como la destino. From/To acotan por fecha de negocio,
// inclusivas. Limit cero significa sin límite.
type MovementFilter struct {
	ProductID  string
	LocationID string
	Type       ledger.MovementType
	From       *time.Time
	To         *time.Time
	Limit      int
	Offset     int
}

// MovementLogRepository puerto del log de movimientos. Append es la única vía
// de escritura; ninguna operación actualiza ni borra entradas existentes.
type MovementLogRepository interface {
	// Append persiste el movimiento y devuelve el id monotónico que el log
	// le asignó al confirmar. La entrada nunca se escribe parcialmente.
	Append(ctx context.Context, m *ledger.Movement) (int64, error)
	GetByID(ctx context.Context, id int64) (*ledger.Movement, error)
	// Query devuelve las entradas que empatan el filtro en orden canónico
	// (occurred_on, id) ascendente, el orden de eventos que usan todas las
	// derivaciones.
	Query(ctx context.Context, f MovementFilter) ([]ledger.Movement, error)
}
