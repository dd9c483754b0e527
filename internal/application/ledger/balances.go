package ledger

import (
	"context"
	"fmt"

	"github.com/jhoicas/Envasadora-api/internal/application/dto"
	"github.com/jhoicas/Envasadora-api/internal/domain"
	"github.com/jhoicas/Envasadora-api/internal/domain/ledger"
	"github.com/jhoicas/Envasadora-api/internal/domain/repository"
	"github.com/jhoicas/Envasadora-api/pkg/logger"
)

// BalanceQuery alcance de una consulta de saldos. Las dimensiones vacías
// significan "todas".
type BalanceQuery struct {
	ProductID    string
	LocationType string
	State        string
}

// BalanceUseCase el motor de saldos: deriva los rollups agregando el log en
// cada consulta. No guarda nada entre llamadas; el resultado siempre es
// reconstruible desde el log y por eso auditable.
type BalanceUseCase struct {
	log       repository.MovementLogRepository
	locations repository.LocationRepository
	logg      *logger.Logger
}

// NewBalanceUseCase construye el caso de uso.
func NewBalanceUseCase(log repository.MovementLogRepository, locations repository.LocationRepository, logg *logger.Logger) *BalanceUseCase {
	return &BalanceUseCase{log: log, locations: locations, logg: logg}
}

// GetBalances deriva los saldos del alcance pedido: consulta el subconjunto
// relevante del log en una sola lectura, lo pliega y arma los rollups por
// (producto, tipo de ubicación, estado). Los saldos negativos detectados se
// devuelven como advertencias y se registran para el operador.
func (uc *BalanceUseCase) GetBalances(ctx context.Context, q BalanceQuery) (*dto.BalancesResponse, error) {
	scope, err := parseScope(q)
	if err != nil {
		return nil, err
	}

	entries, err := uc.log.Query(ctx, repository.MovementFilter{ProductID: q.ProductID})
	if err != nil {
		return nil, err
	}
	types, err := uc.locations.TypeMap(ctx)
	if err != nil {
		return nil, err
	}

	set := ledger.Fold(entries)
	rows := set.Rollup(types, scope)

	resp := &dto.BalancesResponse{Balances: make([]dto.BalanceRow, 0, len(rows))}
	for _, row := range rows {
		resp.Balances = append(resp.Balances, dto.BalanceRow{
			ProductID:    row.ProductID,
			LocationType: string(row.LocationType),
			State:        string(row.State),
			Quantity:     row.Quantity,
		})
	}
	for _, neg := range set.Negatives() {
		resp.Warnings = append(resp.Warnings, dto.IntegrityWarningDTO{
			ProductID:  neg.ProductID,
			LocationID: neg.Account.LocationID,
			State:      string(neg.Account.State),
			Quantity:   neg.Quantity,
		})
		if uc.logg != nil {
			uc.logg.Warn().
				Str("product_id", neg.ProductID).
				Str("location_id", neg.Account.LocationID).
				Str("state", string(neg.Account.State)).
				Int64("quantity", neg.Quantity).
				Msg("saldo negativo: error del productor aguas arriba")
		}
	}
	return resp, nil
}

// parseScope valida las dimensiones del alcance antes de tocar el log.
func parseScope(q BalanceQuery) (ledger.Scope, error) {
	scope := ledger.Scope{ProductID: q.ProductID}
	if q.LocationType != "" {
		lt := ledger.LocationType(q.LocationType)
		if !lt.Valid() {
			return ledger.Scope{}, fmt.Errorf("%w: location_type %q", domain.ErrInvalidInput, q.LocationType)
		}
		scope.LocationType = lt
	}
	if q.State != "" {
		st := ledger.State(q.State)
		if !st.Valid() {
			return ledger.Scope{}, fmt.Errorf("%w: state %q", domain.ErrInvalidInput, q.State)
		}
		scope.State = st
	}
	return scope, nil
}
