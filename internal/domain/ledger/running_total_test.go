package ledger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/Envasadora-api/internal/domain/ledger"
)

func filtroLlenados() ledger.EntryFilter {
	return ledger.EntryFilter{Type: ledger.MovementFilling, ToLocationType: ledger.LocationWarehouse}
}

// Historial de llenado con una sola entrada: arranca de cero.
func TestRunningTotals_UnSoloLlenado(t *testing.T) {
	totales := ledger.RunningTotals(movimientosCiclo(), filtroLlenados(), tiposUbicacion)
	require.Len(t, totales["P1"], 1)

	fila := totales["P1"][0]
	assert.Equal(t, int64(2), fila.EntryID)
	assert.Equal(t, int64(0), fila.Prior)
	assert.Equal(t, int64(300), fila.Quantity)
	assert.Equal(t, int64(300), fila.New)
}

// Consistencia del acumulado: New = Prior + Quantity en cada fila y el Prior
// de la fila k+1 es el New de la fila k dentro de la partición del producto.
func TestRunningTotals_ConsistenciaDelAcumulado(t *testing.T) {
	entradas := movimientosCiclo()
	entradas = append(entradas,
		ledger.Movement{ID: 5, ProductID: "P1", Quantity: 120, From: &bodegaVacios, To: &bodegaLlenos, Type: ledger.MovementFilling, OccurredOn: fecha("2025-01-06")},
		ledger.Movement{ID: 6, ProductID: "P2", Quantity: 40, To: &bodegaLlenos, Type: ledger.MovementFilling, OccurredOn: fecha("2025-01-06")},
		ledger.Movement{ID: 7, ProductID: "P1", Quantity: 60, From: &bodegaVacios, To: &bodegaLlenos, Type: ledger.MovementFilling, OccurredOn: fecha("2025-01-06")},
	)
	totales := ledger.RunningTotals(entradas, filtroLlenados(), tiposUbicacion)

	for producto, filas := range totales {
		for i, fila := range filas {
			assert.Equal(t, fila.Prior+fila.Quantity, fila.New, "producto %s fila %d", producto, i)
			if i > 0 {
				assert.Equal(t, filas[i-1].New, fila.Prior, "producto %s fila %d", producto, i)
			}
		}
	}

	// Particiones independientes por producto
	require.Len(t, totales["P1"], 3)
	require.Len(t, totales["P2"], 1)
	assert.Equal(t, int64(480), totales["P1"][2].New)
	assert.Equal(t, int64(0), totales["P2"][0].Prior, "el acumulador arranca en cero por producto")
}

// Estabilidad: misma fecha se desempata por id, y repetir la consulta sobre
// el mismo log produce la misma secuencia aunque el slice venga desordenado.
func TestRunningTotals_OrdenEstable(t *testing.T) {
	entradas := []ledger.Movement{
		{ID: 9, ProductID: "P1", Quantity: 10, From: &bodegaVacios, To: &bodegaLlenos, Type: ledger.MovementFilling, OccurredOn: fecha("2025-02-01")},
		{ID: 3, ProductID: "P1", Quantity: 20, From: &bodegaVacios, To: &bodegaLlenos, Type: ledger.MovementFilling, OccurredOn: fecha("2025-02-01")},
		{ID: 5, ProductID: "P1", Quantity: 30, From: &bodegaVacios, To: &bodegaLlenos, Type: ledger.MovementFilling, OccurredOn: fecha("2025-01-31")},
	}
	primera := ledger.RunningTotals(entradas, filtroLlenados(), tiposUbicacion)

	// Mismo log en otro orden de llegada
	invertidas := []ledger.Movement{entradas[2], entradas[0], entradas[1]}
	segunda := ledger.RunningTotals(invertidas, filtroLlenados(), tiposUbicacion)
	assert.Equal(t, primera, segunda)

	filas := primera["P1"]
	require.Len(t, filas, 3)
	assert.Equal(t, []int64{5, 3, 9}, []int64{filas[0].EntryID, filas[1].EntryID, filas[2].EntryID},
		"fecha anterior primero; misma fecha desempata por id")
	assert.Equal(t, int64(60), filas[2].New)
}

// El filtro acota por producto, tipo, destino y rango de fechas.
func TestRunningTotals_Filtros(t *testing.T) {
	entradas := movimientosCiclo()

	// El traslado a mercado no es un llenado hacia bodega
	totales := ledger.RunningTotals(entradas, filtroLlenados(), tiposUbicacion)
	for _, filas := range totales {
		for _, fila := range filas {
			assert.NotEqual(t, int64(3), fila.EntryID)
		}
	}

	// Rango de fechas que excluye el llenado del día 2
	f := filtroLlenados()
	f.From = fecha("2025-01-03")
	assert.Empty(t, ledger.RunningTotals(entradas, f, tiposUbicacion))

	// Filtro por producto inexistente
	f = filtroLlenados()
	f.ProductID = "P9"
	assert.Empty(t, ledger.RunningTotals(entradas, f, tiposUbicacion))

	// Un movimiento sin cuenta destino nunca empata un filtro por destino
	f = ledger.EntryFilter{ToLocationType: ledger.LocationMarket}
	totales = ledger.RunningTotals(entradas, f, tiposUbicacion)
	require.Len(t, totales["P1"], 1)
	assert.Equal(t, int64(3), totales["P1"][0].EntryID)
}
