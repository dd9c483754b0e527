package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Envasadora-api/internal/domain"
	"github.com/jhoicas/Envasadora-api/internal/domain/entity"
	"github.com/jhoicas/Envasadora-api/internal/domain/ledger"
	"github.com/jhoicas/Envasadora-api/internal/domain/repository"
)

var _ repository.LocationRepository = (*LocationRepo)(nil)

// LocationRepo implementación del catálogo de ubicaciones sobre PostgreSQL.
type LocationRepo struct {
	q Querier
}

// NewLocationRepository construye el adaptador. Pasar pool o tx (Querier).
func NewLocationRepository(q Querier) *LocationRepo {
	return &LocationRepo{q: q}
}

// Create persiste una nueva ubicación.
func (r *LocationRepo) Create(ctx context.Context, l *entity.Location) error {
	query := `
		INSERT INTO locations (id, type, name, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)`
	_, err := r.q.Exec(ctx, query, l.ID, string(l.Type), l.Name, l.CreatedAt, l.UpdatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert location: %w", err)
	}
	return nil
}

// GetByID obtiene una ubicación por ID.
func (r *LocationRepo) GetByID(ctx context.Context, id string) (*entity.Location, error) {
	query := `SELECT id, type, name, created_at, updated_at FROM locations WHERE id = $1`
	var l entity.Location
	var locType string
	err := r.q.QueryRow(ctx, query, id).Scan(&l.ID, &locType, &l.Name, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get location: %w", err)
	}
	l.Type = ledger.LocationType(locType)
	return &l, nil
}

// List lista las ubicaciones, opcionalmente filtradas por tipo.
func (r *LocationRepo) List(ctx context.Context, locType ledger.LocationType) ([]*entity.Location, error) {
	query := `SELECT id, type, name, created_at, updated_at FROM locations`
	args := []any{}
	if locType != "" {
		query += ` WHERE type = $1`
		args = append(args, string(locType))
	}
	query += ` ORDER BY name ASC`

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list locations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Location
	for rows.Next() {
		var l entity.Location
		var t string
		if err := rows.Scan(&l.ID, &t, &l.Name, &l.CreatedAt, &l.UpdatedAt); err != nil {
			return nil, fmt.Errorf("scan location: %w", err)
		}
		l.Type = ledger.LocationType(t)
		list = append(list, &l)
	}
	return list, rows.Err()
}

// TypeMap devuelve el catálogo resuelto id -> tipo para los rollups.
func (r *LocationRepo) TypeMap(ctx context.Context) (map[string]ledger.LocationType, error) {
	rows, err := r.q.Query(ctx, `SELECT id, type FROM locations`)
	if err != nil {
		return nil, fmt.Errorf("location type map: %w", err)
	}
	defer rows.Close()
	types := make(map[string]ledger.LocationType)
	for rows.Next() {
		var id, t string
		if err := rows.Scan(&id, &t); err != nil {
			return nil, fmt.Errorf("scan location type: %w", err)
		}
		types[id] = ledger.LocationType(t)
	}
	return types, rows.Err()
}
