package ledger

import (
	"context"
	"fmt"

	"github.com/jhoicas/Envasadora-api/internal/application/dto"
	"github.com/jhoicas/Envasadora-api/internal/domain"
	"github.com/jhoicas/Envasadora-api/internal/domain/ledger"
	"github.com/jhoicas/Envasadora-api/internal/domain/repository"
)

// HistoryQuery consulta de acumulado histórico para un producto. Type y
// ToLocationType acotan el subconjunto (ej. llenados hacia bodega); From/To
// son fechas de negocio YYYY-MM-DD opcionales.
type HistoryQuery struct {
	ProductID      string
	Type           string
	ToLocationType string
	From           string
	To             string
}

// HistoryUseCase el motor de acumulados: produce la secuencia ordenada de
// (stock anterior, agregado, stock nuevo) por producto sobre un subconjunto
// filtrado del log, y expone la consulta cruda de movimientos.
type HistoryUseCase struct {
	log       repository.MovementLogRepository
	locations repository.LocationRepository
}

// NewHistoryUseCase construye el caso de uso.
func NewHistoryUseCase(log repository.MovementLogRepository, locations repository.LocationRepository) *HistoryUseCase {
	return &HistoryUseCase{log: log, locations: locations}
}

// GetRunningTotal deriva el acumulado del producto pedido. La secuencia sale
// en orden canónico (occurredOn, id) y es estable: la misma consulta sobre el
// mismo log produce siempre las mismas filas.
func (uc *HistoryUseCase) GetRunningTotal(ctx context.Context, q HistoryQuery) ([]dto.RunningTotalRow, error) {
	if q.ProductID == "" {
		return nil, fmt.Errorf("%w: product_id es requerido", domain.ErrInvalidInput)
	}
	filter := ledger.EntryFilter{ProductID: q.ProductID}
	if q.Type != "" {
		mt := ledger.MovementType(q.Type)
		if !mt.Valid() {
			return nil, fmt.Errorf("%w: movement_type %q", domain.ErrInvalidInput, q.Type)
		}
		filter.Type = mt
	}
	if q.ToLocationType != "" {
		lt := ledger.LocationType(q.ToLocationType)
		if !lt.Valid() {
			return nil, fmt.Errorf("%w: to_location_type %q", domain.ErrInvalidInput, q.ToLocationType)
		}
		filter.ToLocationType = lt
	}
	if q.From != "" {
		t, err := ParseDate(q.From)
		if err != nil {
			return nil, err
		}
		filter.From = t
	}
	if q.To != "" {
		t, err := ParseDate(q.To)
		if err != nil {
			return nil, err
		}
		filter.To = t
	}

	// El log ya restringe por producto y fechas; el resto del filtro
	// (tipo de destino) se resuelve contra el catálogo en memoria.
	repoFilter := repository.MovementFilter{ProductID: q.ProductID, Type: filter.Type}
	if !filter.From.IsZero() {
		f := filter.From
		repoFilter.From = &f
	}
	if !filter.To.IsZero() {
		t := filter.To
		repoFilter.To = &t
	}
	entries, err := uc.log.Query(ctx, repoFilter)
	if err != nil {
		return nil, err
	}
	types, err := uc.locations.TypeMap(ctx)
	if err != nil {
		return nil, err
	}

	rows := ledger.RunningTotals(entries, filter, types)[q.ProductID]
	out := make([]dto.RunningTotalRow, 0, len(rows))
	for _, r := range rows {
		out = append(out, dto.RunningTotalRow{
			EntryID:         r.EntryID,
			OccurredOn:      r.OccurredOn,
			PriorCumulative: r.Prior,
			Quantity:        r.Quantity,
			NewCumulative:   r.New,
		})
	}
	return out, nil
}

// GetFillingHistory el acumulado de producción: llenados hacia bodega.
func (uc *HistoryUseCase) GetFillingHistory(ctx context.Context, productID, from, to string) ([]dto.RunningTotalRow, error) {
	return uc.GetRunningTotal(ctx, HistoryQuery{
		ProductID:      productID,
		Type:           string(ledger.MovementFilling),
		ToLocationType: string(ledger.LocationWarehouse),
		From:           from,
		To:             to,
	})
}

// ListMovements consulta cruda del log en orden canónico.
func (uc *HistoryUseCase) ListMovements(ctx context.Context, f repository.MovementFilter) ([]dto.MovementResponse, error) {
	entries, err := uc.log.Query(ctx, f)
	if err != nil {
		return nil, err
	}
	out := make([]dto.MovementResponse, 0, len(entries))
	for i := range entries {
		out = append(out, toMovementResponse(&entries[i]))
	}
	return out, nil
}

func toMovementResponse(m *ledger.Movement) dto.MovementResponse {
	resp := dto.MovementResponse{
		ID:         m.ID,
		ProductID:  m.ProductID,
		Quantity:   m.Quantity,
		Type:       string(m.Type),
		OccurredOn: m.OccurredOn,
		RecordedAt: m.RecordedAt,
		Reference:  m.Reference,
	}
	if m.From != nil {
		resp.From = &dto.AccountDTO{LocationID: m.From.LocationID, State: string(m.From.State)}
	}
	if m.To != nil {
		resp.To = &dto.AccountDTO{LocationID: m.To.LocationID, State: string(m.To.State)}
	}
	return resp
}
