// Package ledger (aplicación) expone las operaciones del libro de
// existencias: el append como única vía de escritura, los productores de
// conveniencia que lo usan y las consultas derivadas (saldos y acumulados).
package ledger

import (
	"context"
	"fmt"
	"time"

	"github.com/jhoicas/Envasadora-api/internal/application/dto"
	"github.com/jhoicas/Envasadora-api/internal/domain"
	"github.com/jhoicas/Envasadora-api/internal/domain/ledger"
	"github.com/jhoicas/Envasadora-api/internal/domain/repository"
)

// TxRunner ejecuta un callback con el log atado a una transacción. Lo
// necesitan los eventos que producen más de un movimiento (venta con
// devolución de envase): entran todos al log o ninguno.
type TxRunner interface {
	Run(ctx context.Context, fn func(log repository.MovementLogRepository) error) error
}

// AppendMovementUseCase la única vía de escritura del libro. Valida las
// invariantes estructurales y resuelve producto y ubicaciones contra los
// catálogos antes de confiar la entrada al log; una entrada rechazada nunca
// se escribe, ni parcialmente.
type AppendMovementUseCase struct {
	log       repository.MovementLogRepository
	txRunner  TxRunner
	products  repository.ProductRepository
	locations repository.LocationRepository
}

// NewAppendMovementUseCase construye el caso de uso.
func NewAppendMovementUseCase(
	log repository.MovementLogRepository,
	txRunner TxRunner,
	products repository.ProductRepository,
	locations repository.LocationRepository,
) *AppendMovementUseCase {
	return &AppendMovementUseCase{log: log, txRunner: txRunner, products: products, locations: locations}
}

// Append valida y registra un movimiento arbitrario. Devuelve el id que el
// log le asignó al confirmar.
func (uc *AppendMovementUseCase) Append(ctx context.Context, userID string, in dto.AppendMovementRequest) (int64, error) {
	m, err := uc.buildMovement(ctx, userID, in)
	if err != nil {
		return 0, err
	}
	return uc.log.Append(ctx, m)
}

// RegisterFilling registra un llenado: vacíos -> llenos en la misma bodega.
func (uc *AppendMovementUseCase) RegisterFilling(ctx context.Context, userID string, in dto.FillingRequest) (int64, error) {
	loc, err := uc.resolveLocation(ctx, in.LocationID)
	if err != nil {
		return 0, err
	}
	if loc != ledger.LocationWarehouse {
		return 0, ledger.ErrInvalidMovement // solo se llena en bodega
	}
	return uc.Append(ctx, userID, dto.AppendMovementRequest{
		ProductID:  in.ProductID,
		Quantity:   in.Quantity,
		From:       &dto.AccountDTO{LocationID: in.LocationID, State: string(ledger.StateEmpty)},
		To:         &dto.AccountDTO{LocationID: in.LocationID, State: string(ledger.StateFilled)},
		Type:       string(ledger.MovementFilling),
		OccurredOn: in.OccurredOn,
		Reference:  in.Reference,
	})
}

// RegisterTransfer registra un traslado entre dos cuentas.
func (uc *AppendMovementUseCase) RegisterTransfer(ctx context.Context, userID string, in dto.TransferRequest) (int64, error) {
	if in.From == in.To {
		return 0, ledger.ErrInvalidMovement
	}
	return uc.Append(ctx, userID, dto.AppendMovementRequest{
		ProductID:  in.ProductID,
		Quantity:   in.Quantity,
		From:       &in.From,
		To:         &in.To,
		Type:       string(ledger.MovementTransfer),
		OccurredOn: in.OccurredOn,
		Reference:  in.Reference,
	})
}

// RegisterDamage registra una baja por daño: solo cuenta origen, la cantidad
// sale del sistema. Si la operación quiere conservar el envase dañado en
// inventario debe usar un traslado hacia la cuenta de dañados en su lugar.
func (uc *AppendMovementUseCase) RegisterDamage(ctx context.Context, userID string, in dto.DamageRequest) (int64, error) {
	return uc.Append(ctx, userID, dto.AppendMovementRequest{
		ProductID:  in.ProductID,
		Quantity:   in.Quantity,
		From:       &in.From,
		Type:       string(ledger.MovementDamage),
		OccurredOn: in.OccurredOn,
		Reference:  in.Reference,
	})
}

// RegisterSale registra una venta (salida definitiva desde la cuenta origen)
// y, si el cliente devolvió envases vacíos en el mismo evento, la devolución
// que los acredita. Ambos movimientos entran al log en una sola transacción.
func (uc *AppendMovementUseCase) RegisterSale(ctx context.Context, userID string, in dto.SaleRequest) ([]int64, error) {
	sale, err := uc.buildMovement(ctx, userID, dto.AppendMovementRequest{
		ProductID:  in.ProductID,
		Quantity:   in.Quantity,
		From:       &in.From,
		Type:       string(ledger.MovementSale),
		OccurredOn: in.OccurredOn,
		Reference:  in.Reference,
	})
	if err != nil {
		return nil, err
	}

	var ret *ledger.Movement
	if in.ReturnedEmpties > 0 {
		if in.EmptiesTo == nil {
			// Por defecto los vacíos devueltos quedan donde se vendió
			in.EmptiesTo = &dto.AccountDTO{LocationID: in.From.LocationID, State: string(ledger.StateEmpty)}
		}
		ret, err = uc.buildMovement(ctx, userID, dto.AppendMovementRequest{
			ProductID:  in.ProductID,
			Quantity:   in.ReturnedEmpties,
			To:         in.EmptiesTo,
			Type:       string(ledger.MovementReturn),
			OccurredOn: in.OccurredOn,
			Reference:  in.Reference,
		})
		if err != nil {
			return nil, err
		}
	}

	var ids []int64
	err = uc.txRunner.Run(ctx, func(log repository.MovementLogRepository) error {
		id, err := log.Append(ctx, sale)
		if err != nil {
			return err
		}
		ids = append(ids, id)
		if ret != nil {
			id, err := log.Append(ctx, ret)
			if err != nil {
				return err
			}
			ids = append(ids, id)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return ids, nil
}

// buildMovement arma el Movement, valida invariantes y resuelve las
// referencias contra los catálogos. Un id que no resuelve es un movimiento
// inválido: el catálogo es responsable de la integridad referencial y el
// libro nunca acepta entradas que apunten al vacío.
func (uc *AppendMovementUseCase) buildMovement(ctx context.Context, userID string, in dto.AppendMovementRequest) (*ledger.Movement, error) {
	occurredOn, err := ParseDate(in.OccurredOn)
	if err != nil {
		return nil, err
	}
	m := &ledger.Movement{
		ProductID:  in.ProductID,
		Quantity:   in.Quantity,
		Type:       ledger.MovementType(in.Type),
		OccurredOn: occurredOn,
		Reference:  in.Reference,
		CreatedBy:  userID,
	}
	if in.From != nil {
		m.From = &ledger.Account{LocationID: in.From.LocationID, State: ledger.State(in.From.State)}
	}
	if in.To != nil {
		m.To = &ledger.Account{LocationID: in.To.LocationID, State: ledger.State(in.To.State)}
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}

	product, err := uc.products.GetByID(ctx, m.ProductID)
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, fmt.Errorf("%w: producto %s no existe", ledger.ErrInvalidMovement, m.ProductID)
	}
	for _, acc := range []*ledger.Account{m.From, m.To} {
		if acc == nil {
			continue
		}
		if _, err := uc.resolveLocation(ctx, acc.LocationID); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// resolveLocation devuelve el tipo de una ubicación del catálogo.
func (uc *AppendMovementUseCase) resolveLocation(ctx context.Context, id string) (ledger.LocationType, error) {
	loc, err := uc.locations.GetByID(ctx, id)
	if err != nil {
		return "", err
	}
	if loc == nil {
		return "", fmt.Errorf("%w: ubicación %s no existe", ledger.ErrInvalidMovement, id)
	}
	return loc.Type, nil
}

// ParseDate interpreta una fecha de negocio YYYY-MM-DD.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: fecha %q", domain.ErrInvalidInput, s)
	}
	return t, nil
}
