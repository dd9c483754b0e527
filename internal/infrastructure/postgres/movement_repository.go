package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/jhoicas/Envasadora-api/internal/domain/ledger"
	"github.com/jhoicas/Envasadora-api/internal/domain/repository"
)

var _ repository.MovementLogRepository = (*MovementLogRepo)(nil)

// MovementLogRepo implementación del log de movimientos sobre PostgreSQL.
// La tabla movements es append-only: ningún método hace UPDATE ni DELETE.
// El id es un BIGSERIAL, asignado en orden de confirmación, que sirve de
// desempate del orden canónico (occurred_on, id).
type MovementLogRepo struct {
	q Querier
}

// NewMovementLogRepository construye el adaptador. Pasar pool o tx (Querier).
func NewMovementLogRepository(q Querier) *MovementLogRepo {
	return &MovementLogRepo{q: q}
}

const movementColumns = `id, product_id, quantity, from_location_id, from_state,
	to_location_id, to_state, movement_type, occurred_on, recorded_at, reference, created_by`

// Append inserta el movimiento y devuelve el id asignado por el log. Es un
// único INSERT: o la entrada queda completa o no queda nada.
func (r *MovementLogRepo) Append(ctx context.Context, m *ledger.Movement) (int64, error) {
	query := `
		INSERT INTO movements (product_id, quantity, from_location_id, from_state,
			to_location_id, to_state, movement_type, occurred_on, reference, created_by)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id, recorded_at`

	var fromLoc, fromState, toLoc, toState *string
	if m.From != nil {
		fromLoc = &m.From.LocationID
		s := string(m.From.State)
		fromState = &s
	}
	if m.To != nil {
		toLoc = &m.To.LocationID
		s := string(m.To.State)
		toState = &s
	}
	createdBy := (*string)(nil)
	if m.CreatedBy != "" {
		createdBy = &m.CreatedBy
	}
	err := r.q.QueryRow(ctx, query,
		m.ProductID, m.Quantity, fromLoc, fromState, toLoc, toState,
		string(m.Type), m.OccurredOn, m.Reference, createdBy,
	).Scan(&m.ID, &m.RecordedAt)
	if err != nil {
		return 0, fmt.Errorf("append movement: %w", err)
	}
	return m.ID, nil
}

// GetByID obtiene un movimiento por id.
func (r *MovementLogRepo) GetByID(ctx context.Context, id int64) (*ledger.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE id = $1`
	m, err := scanMovement(r.q.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("get movement: %w", err)
	}
	return m, nil
}

// Query devuelve las entradas que empatan el filtro en orden canónico
// (occurred_on, id) ascendente. LocationID empata origen o destino.
func (r *MovementLogRepo) Query(ctx context.Context, f repository.MovementFilter) ([]ledger.Movement, error) {
	query := `SELECT ` + movementColumns + ` FROM movements WHERE 1=1`
	args := []any{}
	pos := 1
	if f.ProductID != "" {
		query += fmt.Sprintf(" AND product_id = $%d", pos)
		args = append(args, f.ProductID)
		pos++
	}
	if f.LocationID != "" {
		query += fmt.Sprintf(" AND (from_location_id = $%d OR to_location_id = $%d)", pos, pos)
		args = append(args, f.LocationID)
		pos++
	}
	if f.Type != "" {
		query += fmt.Sprintf(" AND movement_type = $%d", pos)
		args = append(args, string(f.Type))
		pos++
	}
	if f.From != nil {
		query += fmt.Sprintf(" AND occurred_on >= $%d", pos)
		args = append(args, *f.From)
		pos++
	}
	if f.To != nil {
		query += fmt.Sprintf(" AND occurred_on <= $%d", pos)
		args = append(args, *f.To)
		pos++
	}
	query += " ORDER BY occurred_on ASC, id ASC"
	if f.Limit > 0 {
		query += fmt.Sprintf(" LIMIT $%d OFFSET $%d", pos, pos+1)
		args = append(args, f.Limit, f.Offset)
	}

	rows, err := r.q.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("query movements: %w", err)
	}
	defer rows.Close()

	var list []ledger.Movement
	for rows.Next() {
		m, err := scanMovement(rows)
		if err != nil {
			return nil, fmt.Errorf("scan movement: %w", err)
		}
		list = append(list, *m)
	}
	return list, rows.Err()
}

// scanMovement arma un Movement desde una fila, reconstruyendo las cuentas
// opcionales a partir de los pares (location_id, state) anulables.
func scanMovement(row pgx.Row) (*ledger.Movement, error) {
	var (
		m                  ledger.Movement
		movType            string
		fromLoc, fromState *string
		toLoc, toState     *string
		reference          *string
		createdBy          *string
	)
	if err := row.Scan(
		&m.ID, &m.ProductID, &m.Quantity, &fromLoc, &fromState,
		&toLoc, &toState, &movType, &m.OccurredOn, &m.RecordedAt, &reference, &createdBy,
	); err != nil {
		return nil, err
	}
	m.Type = ledger.MovementType(movType)
	if fromLoc != nil && fromState != nil {
		m.From = &ledger.Account{LocationID: *fromLoc, State: ledger.State(*fromState)}
	}
	if toLoc != nil && toState != nil {
		m.To = &ledger.Account{LocationID: *toLoc, State: ledger.State(*toState)}
	}
	if reference != nil {
		m.Reference = *reference
	}
	if createdBy != nil {
		m.CreatedBy = *createdBy
	}
	return &m, nil
}
