package ledger_test

import (
	"context"
	"sort"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Envasadora-api/internal/application/dto"
	appledger "github.com/jhoicas/Envasadora-api/internal/application/ledger"
	"github.com/jhoicas/Envasadora-api/internal/domain/entity"
	"github.com/jhoicas/Envasadora-api/internal/domain/ledger"
	"github.com/jhoicas/Envasadora-api/internal/domain/repository"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes en memoria
// ──────────────────────────────────────────────────────────────────────────────

// fakeLog log de movimientos en memoria con ids monotónicos, para probar los
// casos de uso sin PostgreSQL.
type fakeLog struct {
	entries []ledger.Movement
	nextID  int64
}

func newFakeLog() *fakeLog { return &fakeLog{nextID: 1} }

func (f *fakeLog) Append(_ context.Context, m *ledger.Movement) (int64, error) {
	m.ID = f.nextID
	m.RecordedAt = time.Now()
	f.nextID++
	f.entries = append(f.entries, *m)
	return m.ID, nil
}

func (f *fakeLog) GetByID(_ context.Context, id int64) (*ledger.Movement, error) {
	for i := range f.entries {
		if f.entries[i].ID == id {
			m := f.entries[i]
			return &m, nil
		}
	}
	return nil, nil
}

func (f *fakeLog) Query(_ context.Context, flt repository.MovementFilter) ([]ledger.Movement, error) {
	var out []ledger.Movement
	for _, m := range f.entries {
		if flt.ProductID != "" && m.ProductID != flt.ProductID {
			continue
		}
		if flt.Type != "" && m.Type != flt.Type {
			continue
		}
		if flt.From != nil && m.OccurredOn.Before(*flt.From) {
			continue
		}
		if flt.To != nil && m.OccurredOn.After(*flt.To) {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(&out[j]) })
	return out, nil
}

// fakeTx ejecuta el callback sobre el mismo log y deshace lo escrito si falla,
// imitando el rollback de la transacción real.
type fakeTx struct{ log *fakeLog }

func (f *fakeTx) Run(ctx context.Context, fn func(log repository.MovementLogRepository) error) error {
	before := len(f.log.entries)
	beforeID := f.log.nextID
	if err := fn(f.log); err != nil {
		f.log.entries = f.log.entries[:before]
		f.log.nextID = beforeID
		return err
	}
	return nil
}

type fakeProducts struct{ byID map[string]*entity.Product }

func (f *fakeProducts) Create(context.Context, *entity.Product) error { return nil }
func (f *fakeProducts) GetByID(_ context.Context, id string) (*entity.Product, error) {
	return f.byID[id], nil
}
func (f *fakeProducts) GetBySKU(context.Context, string) (*entity.Product, error) { return nil, nil }
func (f *fakeProducts) List(context.Context, int, int) ([]*entity.Product, error) {
	return nil, nil
}
func (f *fakeProducts) Update(context.Context, *entity.Product) error { return nil }

type fakeLocations struct{ byID map[string]*entity.Location }

func (f *fakeLocations) Create(context.Context, *entity.Location) error { return nil }
func (f *fakeLocations) GetByID(_ context.Context, id string) (*entity.Location, error) {
	return f.byID[id], nil
}
func (f *fakeLocations) List(context.Context, ledger.LocationType) ([]*entity.Location, error) {
	return nil, nil
}
func (f *fakeLocations) TypeMap(_ context.Context) (map[string]ledger.LocationType, error) {
	types := make(map[string]ledger.LocationType, len(f.byID))
	for id, l := range f.byID {
		types[id] = l.Type
	}
	return types, nil
}

// setupLocations catálogo de prueba: bodega, dañados y una ruta de venta.
func setupLocations() map[string]*entity.Location {
	return map[string]*entity.Location{
		"bodega-1":   {ID: "bodega-1", Type: ledger.LocationWarehouse, Name: "Bodega principal"},
		"danados":    {ID: "danados", Type: ledger.LocationDamaged, Name: "Dañados"},
		"vendedor-x": {ID: "vendedor-x", Type: ledger.LocationMarket, Name: "Ruta norte"},
	}
}

// entorno de prueba: un producto y tres ubicaciones (bodega, dañados, ruta).
func setupUseCase() (*appledger.AppendMovementUseCase, *fakeLog) {
	log := newFakeLog()
	products := &fakeProducts{byID: map[string]*entity.Product{
		"P1": {ID: "P1", SKU: "BOT-20L", Name: "Botellón 20L", Returnable: true},
	}}
	locations := &fakeLocations{byID: setupLocations()}
	return appledger.NewAppendMovementUseCase(log, &fakeTx{log: log}, products, locations), log
}

// ──────────────────────────────────────────────────────────────────────────────
// Append
// ──────────────────────────────────────────────────────────────────────────────

func TestAppend_MovimientoValido(t *testing.T) {
	uc, log := setupUseCase()
	id, err := uc.Append(context.Background(), "user-1", dto.AppendMovementRequest{
		ProductID:  "P1",
		Quantity:   500,
		To:         &dto.AccountDTO{LocationID: "bodega-1", State: "EMPTY"},
		Type:       "PURCHASE",
		OccurredOn: "2025-01-01",
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), id)
	require.Len(t, log.entries, 1)
	assert.Equal(t, "user-1", log.entries[0].CreatedBy)
}

// Atomicidad del append: una entrada rechazada no deja rastro en el log y
// ningún saldo cambia.
func TestAppend_RechazoNoDejaRastro(t *testing.T) {
	uc, log := setupUseCase()
	_, err := uc.Append(context.Background(), "user-1", dto.AppendMovementRequest{
		ProductID:  "P1",
		Quantity:   0, // inválida
		To:         &dto.AccountDTO{LocationID: "bodega-1", State: "EMPTY"},
		Type:       "PURCHASE",
		OccurredOn: "2025-01-01",
	})
	assert.ErrorIs(t, err, ledger.ErrInvalidMovement)
	assert.Empty(t, log.entries, "el log queda intacto")

	_, err = uc.Append(context.Background(), "user-1", dto.AppendMovementRequest{
		ProductID:  "P1",
		Quantity:   10,
		Type:       "PURCHASE", // sin cuentas
		OccurredOn: "2025-01-01",
	})
	assert.ErrorIs(t, err, ledger.ErrInvalidMovement)
	assert.Empty(t, log.entries)
}

// Un id que no resuelve contra los catálogos es un movimiento inválido.
func TestAppend_ReferenciasSinResolver(t *testing.T) {
	uc, log := setupUseCase()

	_, err := uc.Append(context.Background(), "user-1", dto.AppendMovementRequest{
		ProductID:  "P9",
		Quantity:   10,
		To:         &dto.AccountDTO{LocationID: "bodega-1", State: "EMPTY"},
		Type:       "PURCHASE",
		OccurredOn: "2025-01-01",
	})
	assert.ErrorIs(t, err, ledger.ErrInvalidMovement, "producto inexistente")

	_, err = uc.Append(context.Background(), "user-1", dto.AppendMovementRequest{
		ProductID:  "P1",
		Quantity:   10,
		To:         &dto.AccountDTO{LocationID: "bodega-9", State: "EMPTY"},
		Type:       "PURCHASE",
		OccurredOn: "2025-01-01",
	})
	assert.ErrorIs(t, err, ledger.ErrInvalidMovement, "ubicación inexistente")
	assert.Empty(t, log.entries)
}

func TestAppend_FechaInvalida(t *testing.T) {
	uc, _ := setupUseCase()
	_, err := uc.Append(context.Background(), "user-1", dto.AppendMovementRequest{
		ProductID:  "P1",
		Quantity:   10,
		To:         &dto.AccountDTO{LocationID: "bodega-1", State: "EMPTY"},
		Type:       "PURCHASE",
		OccurredOn: "01/02/2025",
	})
	assert.Error(t, err)
}

// ──────────────────────────────────────────────────────────────────────────────
// Productores de conveniencia
// ──────────────────────────────────────────────────────────────────────────────

func TestRegisterFilling_SoloEnBodega(t *testing.T) {
	uc, log := setupUseCase()

	_, err := uc.RegisterFilling(context.Background(), "user-1", dto.FillingRequest{
		ProductID: "P1", Quantity: 300, LocationID: "vendedor-x", OccurredOn: "2025-01-02",
	})
	assert.ErrorIs(t, err, ledger.ErrInvalidMovement, "no se llena en ruta")

	_, err = uc.RegisterFilling(context.Background(), "user-1", dto.FillingRequest{
		ProductID: "P1", Quantity: 300, LocationID: "bodega-1", OccurredOn: "2025-01-02",
	})
	require.NoError(t, err)
	require.Len(t, log.entries, 1)

	m := log.entries[0]
	assert.Equal(t, ledger.MovementFilling, m.Type)
	assert.Equal(t, ledger.StateEmpty, m.From.State, "debita vacíos")
	assert.Equal(t, ledger.StateFilled, m.To.State, "acredita llenos")
	assert.Equal(t, m.From.LocationID, m.To.LocationID, "misma bodega")
}

func TestRegisterDamage_SoloCuentaOrigen(t *testing.T) {
	uc, log := setupUseCase()
	_, err := uc.RegisterDamage(context.Background(), "user-1", dto.DamageRequest{
		ProductID:  "P1",
		Quantity:   10,
		From:       dto.AccountDTO{LocationID: "vendedor-x", State: "FILLED"},
		OccurredOn: "2025-01-03",
	})
	require.NoError(t, err)
	require.Len(t, log.entries, 1)
	assert.Nil(t, log.entries[0].To, "la baja destruye cantidad, no acredita nada")
}

func TestRegisterTransfer_MismaCuentaRechazada(t *testing.T) {
	uc, _ := setupUseCase()
	acc := dto.AccountDTO{LocationID: "bodega-1", State: "FILLED"}
	_, err := uc.RegisterTransfer(context.Background(), "user-1", dto.TransferRequest{
		ProductID: "P1", Quantity: 5, From: acc, To: acc, OccurredOn: "2025-01-03",
	})
	assert.ErrorIs(t, err, ledger.ErrInvalidMovement)
}

// Venta con devolución de envases: dos movimientos en una transacción.
func TestRegisterSale_ConDevolucionAtomica(t *testing.T) {
	uc, log := setupUseCase()
	ids, err := uc.RegisterSale(context.Background(), "user-1", dto.SaleRequest{
		ProductID:       "P1",
		Quantity:        20,
		From:            dto.AccountDTO{LocationID: "vendedor-x", State: "FILLED"},
		ReturnedEmpties: 15,
		OccurredOn:      "2025-01-04",
	})
	require.NoError(t, err)
	require.Len(t, ids, 2)
	require.Len(t, log.entries, 2)

	venta, devolucion := log.entries[0], log.entries[1]
	assert.Equal(t, ledger.MovementSale, venta.Type)
	assert.Nil(t, venta.To, "la venta saca del sistema")
	assert.Equal(t, ledger.MovementReturn, devolucion.Type)
	assert.Nil(t, devolucion.From, "la devolución crea existencias")
	assert.Equal(t, ledger.StateEmpty, devolucion.To.State)
	assert.Equal(t, "vendedor-x", devolucion.To.LocationID, "por defecto quedan donde se vendió")
}

// Si la devolución es inválida no entra ni la venta: todo o nada.
func TestRegisterSale_DevolucionInvalidaNoEscribeNada(t *testing.T) {
	uc, log := setupUseCase()
	_, err := uc.RegisterSale(context.Background(), "user-1", dto.SaleRequest{
		ProductID:       "P1",
		Quantity:        20,
		From:            dto.AccountDTO{LocationID: "vendedor-x", State: "FILLED"},
		ReturnedEmpties: 15,
		EmptiesTo:       &dto.AccountDTO{LocationID: "bodega-9", State: "EMPTY"},
		OccurredOn:      "2025-01-04",
	})
	assert.ErrorIs(t, err, ledger.ErrInvalidMovement)
	assert.Empty(t, log.entries)
}
