package repository

import (
	"context"

	"github.com/jhoicas/Envasadora-api/internal/domain/entity"
	"github.com/jhoicas/Envasadora-api/internal/domain/ledger"
)

// LocationRepository puerto del catálogo de ubicaciones (referencia de solo
// lectura para el libro; el CRUD es dato maestro).
type LocationRepository interface {
	Create(ctx context.Context, l *entity.Location) error
	GetByID(ctx context.Context, id string) (*entity.Location, error)
	List(ctx context.Context, locType ledger.LocationType) ([]*entity.Location, error)
	// TypeMap devuelve el catálogo resuelto id -> tipo, el insumo de los
	// rollups por tipo de ubicación.
	TypeMap(ctx context.Context) (map[string]ledger.LocationType, error)
}
