package ledger

import "sort"

// productAccount clave interna del fold: saldo por (producto, cuenta).
type productAccount struct {
	ProductID string
	Account   Account
}

// BalanceSet saldos derivados de una pasada sobre el log. Es un valor de
// consulta, no un contador persistente: se reconstruye desde los movimientos
// en cada lectura y por eso siempre es auditable contra el log.
type BalanceSet struct {
	m map[productAccount]int64
}

// Fold deriva los saldos de todas las cuentas con una sola pasada: cada To
// acredita Quantity y cada From debita Quantity. El orden de los movimientos
// no afecta el resultado (la suma es conmutativa).
func Fold(entries []Movement) *BalanceSet {
	b := &BalanceSet{m: make(map[productAccount]int64, len(entries))}
	for i := range entries {
		b.Apply(&entries[i])
	}
	return b
}

// Apply suma la contribución firmada de un movimiento al conjunto de saldos.
func (b *BalanceSet) Apply(m *Movement) {
	if m.To != nil {
		b.m[productAccount{m.ProductID, *m.To}] += m.Quantity
	}
	if m.From != nil {
		b.m[productAccount{m.ProductID, *m.From}] -= m.Quantity
	}
}

// Balance devuelve el saldo de una cuenta para un producto. Una combinación
// sin movimientos vale 0: la ausencia es un cero válido, no un error.
func (b *BalanceSet) Balance(productID string, acc Account) int64 {
	return b.m[productAccount{productID, acc}]
}

// RollupRow saldo agregado por (producto, tipo de ubicación, estado).
type RollupRow struct {
	ProductID    string
	LocationType LocationType
	State        State
	Quantity     int64
}

// Scope restringe un rollup. Los campos vacíos significan "todos".
type Scope struct {
	ProductID    string
	LocationType LocationType
	State        State
}

// Rollup suma los saldos de todas las cuentas cuya ubicación tiene el tipo
// pedido (y, si el alcance fija estado, el estado pedido), agrupados por
// (producto, tipo, estado). locTypes es el catálogo de ubicaciones resuelto
// (id -> tipo). Las filas salen ordenadas para que la misma consulta sobre
// el mismo log produzca siempre la misma secuencia.
func (b *BalanceSet) Rollup(locTypes map[string]LocationType, scope Scope) []RollupRow {
	type rollupKey struct {
		ProductID    string
		LocationType LocationType
		State        State
	}
	agg := make(map[rollupKey]int64)
	for pa, qty := range b.m {
		lt, ok := locTypes[pa.Account.LocationID]
		if !ok {
			continue // ubicación fuera de catálogo: no agregable por tipo
		}
		if scope.ProductID != "" && scope.ProductID != pa.ProductID {
			continue
		}
		if scope.LocationType != "" && scope.LocationType != lt {
			continue
		}
		if scope.State != "" && scope.State != pa.Account.State {
			continue
		}
		agg[rollupKey{pa.ProductID, lt, pa.Account.State}] += qty
	}
	rows := make([]RollupRow, 0, len(agg))
	for k, qty := range agg {
		rows = append(rows, RollupRow{ProductID: k.ProductID, LocationType: k.LocationType, State: k.State, Quantity: qty})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].ProductID != rows[j].ProductID {
			return rows[i].ProductID < rows[j].ProductID
		}
		if rows[i].LocationType != rows[j].LocationType {
			return rows[i].LocationType < rows[j].LocationType
		}
		return rows[i].State < rows[j].State
	})
	return rows
}

// Total suma agnóstica de estado para un producto y tipo de ubicación
// (ej. "dañados total", "mercado total").
func (b *BalanceSet) Total(locTypes map[string]LocationType, productID string, t LocationType) int64 {
	var total int64
	for _, row := range b.Rollup(locTypes, Scope{ProductID: productID, LocationType: t}) {
		total += row.Quantity
	}
	return total
}

// Accounts devuelve todos los saldos cuenta por cuenta, ordenados. Es la vista
// detallada que usan los reportes; Rollup es la agregada.
func (b *BalanceSet) Accounts() []AccountBalance {
	out := make([]AccountBalance, 0, len(b.m))
	for pa, qty := range b.m {
		out = append(out, AccountBalance{ProductID: pa.ProductID, Account: pa.Account, Quantity: qty})
	}
	sortAccountBalances(out)
	return out
}

// AccountBalance saldo puntual de una cuenta, usado en las señales de integridad.
type AccountBalance struct {
	ProductID string
	Account   Account
	Quantity  int64
}

// Negatives devuelve las cuentas con saldo negativo. Un saldo negativo es una
// señal de error del productor (ej. una venta registrada antes de que la
// existencia entrara al log); se reporta al operador, nunca se recorta a cero,
// porque recortarlo desincronizaría el libro de la realidad física.
func (b *BalanceSet) Negatives() []AccountBalance {
	var out []AccountBalance
	for pa, qty := range b.m {
		if qty < 0 {
			out = append(out, AccountBalance{ProductID: pa.ProductID, Account: pa.Account, Quantity: qty})
		}
	}
	sortAccountBalances(out)
	return out
}

func sortAccountBalances(out []AccountBalance) {
	sort.Slice(out, func(i, j int) bool {
		if out[i].ProductID != out[j].ProductID {
			return out[i].ProductID < out[j].ProductID
		}
		if out[i].Account.LocationID != out[j].Account.LocationID {
			return out[i].Account.LocationID < out[j].Account.LocationID
		}
		return out[i].Account.State < out[j].Account.State
	})
}
