package ledger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Envasadora-api/internal/domain/ledger"
)

func fecha(d string) time.Time {
	t, err := time.Parse("2006-01-02", d)
	if err != nil {
		panic(err)
	}
	return t
}

func movimientoBase() ledger.Movement {
	return ledger.Movement{
		ProductID:  "P1",
		Quantity:   10,
		To:         &ledger.Account{LocationID: "bodega-1", State: ledger.StateEmpty},
		Type:       ledger.MovementPurchase,
		OccurredOn: fecha("2025-01-10"),
	}
}

func TestValidate_MovimientoValido(t *testing.T) {
	m := movimientoBase()
	require.NoError(t, m.Validate())
}

// Invariante 1: la cantidad siempre es estrictamente positiva.
func TestValidate_CantidadNoPositiva(t *testing.T) {
	m := movimientoBase()
	m.Quantity = 0
	assert.ErrorIs(t, m.Validate(), ledger.ErrInvalidMovement)

	m.Quantity = -5
	assert.ErrorIs(t, m.Validate(), ledger.ErrInvalidMovement)
}

// Invariante 2: un movimiento sin cuenta origen ni destino no significa nada.
func TestValidate_SinCuentas(t *testing.T) {
	m := movimientoBase()
	m.From = nil
	m.To = nil
	assert.ErrorIs(t, m.Validate(), ledger.ErrInvalidMovement)
}

func TestValidate_CuentaIncompleta(t *testing.T) {
	m := movimientoBase()
	m.To = &ledger.Account{LocationID: "", State: ledger.StateFilled}
	assert.ErrorIs(t, m.Validate(), ledger.ErrInvalidMovement)

	m = movimientoBase()
	m.To = &ledger.Account{LocationID: "bodega-1", State: "ROTO"}
	assert.ErrorIs(t, m.Validate(), ledger.ErrInvalidMovement)
}

func TestValidate_TipoDesconocido(t *testing.T) {
	m := movimientoBase()
	m.Type = "REGALO"
	assert.ErrorIs(t, m.Validate(), ledger.ErrInvalidMovement)
}

func TestValidate_SinProductoNiFecha(t *testing.T) {
	m := movimientoBase()
	m.ProductID = ""
	assert.ErrorIs(t, m.Validate(), ledger.ErrInvalidMovement)

	m = movimientoBase()
	m.OccurredOn = time.Time{}
	assert.ErrorIs(t, m.Validate(), ledger.ErrInvalidMovement)
}

// El orden canónico (occurredOn, id) es total: misma fecha desempata por id.
func TestLess_OrdenCanonico(t *testing.T) {
	a := movimientoBase()
	b := movimientoBase()
	a.ID, b.ID = 1, 2

	assert.True(t, a.Less(&b), "misma fecha: gana el id menor")
	assert.False(t, b.Less(&a))

	b.OccurredOn = fecha("2025-01-09")
	assert.True(t, b.Less(&a), "fecha anterior gana aunque el id sea mayor")
}
