// Package rank maps component types to horizontal staging ranks.
//
// A rank is the fixed left-to-right ordering value of a device kind: the
// layout engine derives every unpinned x-coordinate purely from rank, so
// a diagram always reads generation → protection → conversion →
// distribution → metering → grid regardless of graph shape. Fractional
// ranks let protection devices (breakers, fuses) sit between two major
// stages. Ranks are configuration, not derived data.
package rank

import "github.com/voltlab/sldraw/pkg/sld"

// Map assigns a rank to each component type. Ties are allowed: two types
// with equal rank occupy the same column.
type Map map[sld.Type]float64

// fallback is used for any type missing from the map. Validation keeps
// unknown types out of documents, so this only matters for partial
// override maps.
const fallback = 2.0

// Default returns the built-in staging table.
//
// Major stages sit on integer ranks; protection devices take the
// half-rank between the stages they guard.
func Default() Map {
	return Map{
		sld.TypePVArray:          0,
		sld.TypeWindTurbine:      0,
		sld.TypeBattery:          0,
		sld.TypeChargeController: 0.5,
		sld.TypeDCBreaker:        0.5,
		sld.TypeFuse:             0.5,
		sld.TypeInverter:         1,
		sld.TypeTransformer:      1,
		sld.TypeACBreaker:        1.5,
		sld.TypeDisconnect:       1.5,
		sld.TypePanel:            2,
		sld.TypeLoad:             2.5,
		sld.TypeGround:           2.5,
		sld.TypeMeter:            3,
		sld.TypeGrid:             4,
	}
}

// Of returns the rank of a component type, falling back to a mid-table
// rank for types absent from the map.
func (m Map) Of(t sld.Type) float64 {
	if r, ok := m[t]; ok {
		return r
	}
	return fallback
}

// Merge returns a copy of m with the entries of overrides applied on top.
// Unknown type names in overrides are ignored; the closed type set is
// enforced at document validation, not here.
func (m Map) Merge(overrides map[string]float64) Map {
	out := make(Map, len(m))
	for t, r := range m {
		out[t] = r
	}
	for name, r := range overrides {
		t := sld.Type(name)
		if t.Valid() {
			out[t] = r
		}
	}
	return out
}
