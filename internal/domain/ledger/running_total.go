package ledger

import (
	"sort"
	"time"
)

// RunningEntry una fila del acumulado histórico: cuánto había antes del
// movimiento, cuánto aportó y cuánto quedó. Las vistas de auditoría muestran
// Prior como "stock anterior", New como "stock nuevo" y Quantity como lo
// agregado por la entrada.
type RunningEntry struct {
	EntryID    int64
	OccurredOn time.Time
	Prior      int64
	Quantity   int64
	New        int64
}

// EntryFilter subconjunto de movimientos para el acumulado (ej. "llenados
// hacia bodega"). Los campos vacíos no filtran. From/To acotan por fecha de
// negocio, inclusivas.
type EntryFilter struct {
	ProductID      string
	Type           MovementType
	ToLocationType LocationType // tipo de la ubicación acreditada
	From           time.Time
	To             time.Time
}

// Matches decide si un movimiento pertenece al subconjunto. locTypes es el
// catálogo resuelto id -> tipo, necesario para el criterio de destino.
func (f EntryFilter) Matches(m *Movement, locTypes map[string]LocationType) bool {
	if f.ProductID != "" && m.ProductID != f.ProductID {
		return false
	}
	if f.Type != "" && m.Type != f.Type {
		return false
	}
	if f.ToLocationType != "" {
		if m.To == nil {
			return false
		}
		if locTypes[m.To.LocationID] != f.ToLocationType {
			return false
		}
	}
	if !f.From.IsZero() && m.OccurredOn.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && m.OccurredOn.After(f.To) {
		return false
	}
	return true
}

// RunningTotals recorre el subconjunto filtrado en orden canónico
// (occurredOn, id) y produce el acumulado por producto: una suma de prefijos
// con el acumulador particionado por producto. Como el orden canónico es
// total, la secuencia resultante es determinista aunque varios movimientos
// compartan fecha.
func RunningTotals(entries []Movement, filter EntryFilter, locTypes map[string]LocationType) map[string][]RunningEntry {
	matched := make([]Movement, 0, len(entries))
	for i := range entries {
		if filter.Matches(&entries[i], locTypes) {
			matched = append(matched, entries[i])
		}
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Less(&matched[j]) })

	out := make(map[string][]RunningEntry)
	running := make(map[string]int64)
	for i := range matched {
		m := &matched[i]
		prior := running[m.ProductID]
		next := prior + m.Quantity
		running[m.ProductID] = next
		out[m.ProductID] = append(out[m.ProductID], RunningEntry{
			EntryID:    m.ID,
			OccurredOn: m.OccurredOn,
			Prior:      prior,
			Quantity:   m.Quantity,
			New:        next,
		})
	}
	return out
}
