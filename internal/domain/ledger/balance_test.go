package ledger_test

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Envasadora-api/internal/domain/ledger"
)

// Catálogo de ubicaciones de los tests: una bodega, una cuenta de dañados y
// un vendedor en ruta.
var tiposUbicacion = map[string]ledger.LocationType{
	"bodega-1":   ledger.LocationWarehouse,
	"danados":    ledger.LocationDamaged,
	"vendedor-x": ledger.LocationMarket,
}

var (
	bodegaVacios  = ledger.Account{LocationID: "bodega-1", State: ledger.StateEmpty}
	bodegaLlenos  = ledger.Account{LocationID: "bodega-1", State: ledger.StateFilled}
	mercadoLlenos = ledger.Account{LocationID: "vendedor-x", State: ledger.StateFilled}
)

// Escenario del ciclo completo: compra de vacíos, llenado, traslado a ruta y
// baja por daño en el mercado.
func movimientosCiclo() []ledger.Movement {
	return []ledger.Movement{
		{ID: 1, ProductID: "P1", Quantity: 500, To: &bodegaVacios, Type: ledger.MovementPurchase, OccurredOn: fecha("2025-01-01")},
		{ID: 2, ProductID: "P1", Quantity: 300, From: &bodegaVacios, To: &bodegaLlenos, Type: ledger.MovementFilling, OccurredOn: fecha("2025-01-02")},
		{ID: 3, ProductID: "P1", Quantity: 50, From: &bodegaLlenos, To: &mercadoLlenos, Type: ledger.MovementTransfer, OccurredOn: fecha("2025-01-03")},
		{ID: 4, ProductID: "P1", Quantity: 10, From: &mercadoLlenos, Type: ledger.MovementDamage, OccurredOn: fecha("2025-01-04")},
	}
}

// Conservación: una cuenta sin movimientos vale cero.
func TestFold_CuentaSinMovimientosValeCero(t *testing.T) {
	b := ledger.Fold(nil)
	assert.Zero(t, b.Balance("P1", bodegaLlenos))

	b = ledger.Fold(movimientosCiclo())
	assert.Zero(t, b.Balance("P2", bodegaLlenos), "otro producto no se ve afectado")
	assert.Zero(t, b.Balance("P1", ledger.Account{LocationID: "danados", State: ledger.StateFilled}))
}

// Compra de 500 vacíos y llenado de 300: quedan 200 vacíos y 300 llenos.
func TestFold_CompraYLlenado(t *testing.T) {
	b := ledger.Fold(movimientosCiclo()[:2])
	assert.Equal(t, int64(200), b.Balance("P1", bodegaVacios))
	assert.Equal(t, int64(300), b.Balance("P1", bodegaLlenos))
}

// Traslado a ruta: el rollup de bodega baja y el de mercado sube.
func TestRollup_TrasladoARuta(t *testing.T) {
	b := ledger.Fold(movimientosCiclo()[:3])
	rows := b.Rollup(tiposUbicacion, ledger.Scope{ProductID: "P1", LocationType: ledger.LocationWarehouse, State: ledger.StateFilled})
	require.Len(t, rows, 1)
	assert.Equal(t, int64(250), rows[0].Quantity)
	assert.Equal(t, int64(50), b.Total(tiposUbicacion, "P1", ledger.LocationMarket))
}

// La baja por daño (solo cuenta origen) destruye cantidad: no acredita la
// cuenta de dañados.
func TestFold_BajaPorDanoDestruyeCantidad(t *testing.T) {
	b := ledger.Fold(movimientosCiclo())
	assert.Equal(t, int64(40), b.Total(tiposUbicacion, "P1", ledger.LocationMarket))
	assert.Zero(t, b.Total(tiposUbicacion, "P1", ledger.LocationDamaged), "la baja no acredita dañados")
}

// Aditividad: el saldo tras e1..en es el saldo tras e1..e(n-1) más la
// contribución firmada de en.
func TestApply_Aditividad(t *testing.T) {
	entradas := movimientosCiclo()
	parcial := ledger.Fold(entradas[:len(entradas)-1])
	completo := ledger.Fold(entradas)

	ultima := entradas[len(entradas)-1]
	parcial.Apply(&ultima)
	for _, cuenta := range []ledger.Account{bodegaVacios, bodegaLlenos, mercadoLlenos} {
		assert.Equal(t, completo.Balance("P1", cuenta), parcial.Balance("P1", cuenta))
	}
}

// El resultado del fold no depende del orden de los movimientos: la suma es
// conmutativa, igual que dos appends concurrentes sobre la misma cuenta.
func TestFold_ConmutatividadDeOrden(t *testing.T) {
	entradas := movimientosCiclo()
	entradas = append(entradas,
		ledger.Movement{ID: 5, ProductID: "P1", Quantity: 100, To: &bodegaLlenos, Type: ledger.MovementFilling, OccurredOn: fecha("2025-01-05")},
		ledger.Movement{ID: 6, ProductID: "P1", Quantity: 150, To: &bodegaLlenos, Type: ledger.MovementFilling, OccurredOn: fecha("2025-01-05")},
	)
	esperado := ledger.Fold(entradas).Balance("P1", bodegaLlenos)

	r := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		barajado := make([]ledger.Movement, len(entradas))
		copy(barajado, entradas)
		r.Shuffle(len(barajado), func(a, b int) { barajado[a], barajado[b] = barajado[b], barajado[a] })
		assert.Equal(t, esperado, ledger.Fold(barajado).Balance("P1", bodegaLlenos))
	}
	// 300 llenadas - 50 trasladadas + 100 + 150 de los llenados del día 5
	assert.Equal(t, int64(500), esperado)
}

// Corrección del rollup: la suma por tipo de ubicación coincide con la suma
// de los saldos por cuenta de ese tipo.
func TestRollup_CoincideConSaldosPorCuenta(t *testing.T) {
	entradas := movimientosCiclo()
	entradas = append(entradas,
		ledger.Movement{ID: 5, ProductID: "P2", Quantity: 80, To: &bodegaLlenos, Type: ledger.MovementPurchase, OccurredOn: fecha("2025-01-05")},
	)
	b := ledger.Fold(entradas)

	rows := b.Rollup(tiposUbicacion, ledger.Scope{LocationType: ledger.LocationWarehouse, State: ledger.StateFilled})
	porProducto := make(map[string]int64)
	for _, row := range rows {
		porProducto[row.ProductID] = row.Quantity
	}
	assert.Equal(t, b.Balance("P1", bodegaLlenos), porProducto["P1"])
	assert.Equal(t, b.Balance("P2", bodegaLlenos), porProducto["P2"])
}

// El alcance vacío significa "todos": filas por (producto, tipo, estado).
func TestRollup_AlcanceVacio(t *testing.T) {
	b := ledger.Fold(movimientosCiclo())
	rows := b.Rollup(tiposUbicacion, ledger.Scope{})
	require.NotEmpty(t, rows)
	var total int64
	for _, row := range rows {
		total += row.Quantity
	}
	// 500 compradas - 10 dadas de baja = 490 unidades vivas en el sistema
	assert.Equal(t, int64(490), total)
}

// Una ubicación fuera de catálogo no entra en rollups por tipo.
func TestRollup_UbicacionFueraDeCatalogo(t *testing.T) {
	entradas := []ledger.Movement{
		{ID: 1, ProductID: "P1", Quantity: 5, To: &ledger.Account{LocationID: "fantasma", State: ledger.StateFilled}, Type: ledger.MovementPurchase, OccurredOn: fecha("2025-01-01")},
	}
	b := ledger.Fold(entradas)
	assert.Empty(t, b.Rollup(tiposUbicacion, ledger.Scope{}))
	// El saldo por cuenta sí existe; solo el rollup por tipo lo omite
	assert.Equal(t, int64(5), b.Balance("P1", ledger.Account{LocationID: "fantasma", State: ledger.StateFilled}))
}

// Un saldo negativo se reporta como señal de integridad, nunca se recorta.
func TestNegatives_SenalDeIntegridad(t *testing.T) {
	entradas := []ledger.Movement{
		{ID: 1, ProductID: "P1", Quantity: 30, From: &bodegaLlenos, Type: ledger.MovementSale, OccurredOn: fecha("2025-01-01")},
	}
	b := ledger.Fold(entradas)
	negativos := b.Negatives()
	require.Len(t, negativos, 1)
	assert.Equal(t, "P1", negativos[0].ProductID)
	assert.Equal(t, bodegaLlenos, negativos[0].Account)
	assert.Equal(t, int64(-30), negativos[0].Quantity)

	assert.Empty(t, ledger.Fold(movimientosCiclo()).Negatives(), "flujo bien ordenado: sin negativos")
}
