package entity

import (
	"time"

	"github.com/jhoicas/Envasadora-api/internal/domain/ledger"
)

// Location representa una ubicación física que puede tener existencias:
// una bodega de la planta, la cuenta de dañados o un vendedor en ruta.
// Para el libro es dato de referencia inmutable; el catálogo es su dueño.
type Location struct {
	ID        string
	Type      ledger.LocationType // WAREHOUSE, DAMAGED, MARKET
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}
