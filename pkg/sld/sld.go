// Package sld defines the document model for electrical single-line
// diagrams: typed components, directed connections between them, and the
// validation rules the layout engine relies on.
//
// A [Document] is a full-replacement snapshot produced by an external
// collaborator (an AI assistant or a manual edit) once per revision. The
// layout engine treats it as read-mostly: positions are resolved into a
// fresh copy, never written back in place.
//
// Component coordinates are optional. A nil X or Y means "let the layout
// engine decide"; both set means the position is pinned by a previous
// layout pass or a manual drag and must be preserved as-is.
package sld

import (
	"errors"
	"fmt"
)

var (
	// ErrEmptyComponentID is returned by [Document.Validate] when a
	// component has an empty identifier. All components must have
	// non-empty, stable ids.
	ErrEmptyComponentID = errors.New("component ID must not be empty")

	// ErrDuplicateComponentID is returned by [Document.Validate] when two
	// components share the same identifier.
	ErrDuplicateComponentID = errors.New("duplicate component ID")

	// ErrUnknownType is returned by [Document.Validate] when a component
	// type is outside the closed set of device kinds.
	ErrUnknownType = errors.New("unknown component type")

	// ErrUnknownLinkKind is returned by [Document.Validate] when a
	// connection kind is not one of dc, ac, or ground.
	ErrUnknownLinkKind = errors.New("unknown connection kind")
)

// Type identifies the electrical device kind of a component. The set is
// closed: documents carrying any other value fail validation.
type Type string

// The supported device kinds, ordered roughly by diagram stage
// (generation → protection → conversion → distribution → metering → grid).
const (
	TypePVArray          Type = "pv_array"
	TypeWindTurbine      Type = "wind_turbine"
	TypeBattery          Type = "battery"
	TypeChargeController Type = "charge_controller"
	TypeDCBreaker        Type = "dc_breaker"
	TypeFuse             Type = "fuse"
	TypeInverter         Type = "inverter"
	TypeTransformer      Type = "transformer"
	TypeACBreaker        Type = "ac_breaker"
	TypeDisconnect       Type = "disconnect"
	TypePanel            Type = "panel"
	TypeLoad             Type = "load"
	TypeMeter            Type = "meter"
	TypeGrid             Type = "grid"
	TypeGround           Type = "ground"
)

// Types lists every valid component type in staging order.
// The slice is shared; callers must not modify it.
var Types = []Type{
	TypePVArray, TypeWindTurbine, TypeBattery, TypeChargeController,
	TypeDCBreaker, TypeFuse, TypeInverter, TypeTransformer,
	TypeACBreaker, TypeDisconnect, TypePanel, TypeLoad,
	TypeMeter, TypeGrid, TypeGround,
}

var validTypes = func() map[Type]bool {
	m := make(map[Type]bool, len(Types))
	for _, t := range Types {
		m[t] = true
	}
	return m
}()

// Valid reports whether t is one of the closed set of device kinds.
func (t Type) Valid() bool { return validTypes[t] }

// LinkKind classifies a connection by current type.
type LinkKind string

// The supported connection kinds.
const (
	KindDC     LinkKind = "dc"
	KindAC     LinkKind = "ac"
	KindGround LinkKind = "ground"
)

// Valid reports whether k is dc, ac, or ground.
func (k LinkKind) Valid() bool {
	return k == KindDC || k == KindAC || k == KindGround
}

// Component is a single device in the diagram. X and Y are world-space
// coordinates; nil means unpositioned (the layout engine assigns them).
type Component struct {
	ID    string   `json:"id"`
	Type  Type     `json:"type"`
	Label string   `json:"label,omitempty"`
	Specs []string `json:"specs,omitempty"`
	X     *float64 `json:"x,omitempty"`
	Y     *float64 `json:"y,omitempty"`
}

// Positioned reports whether the component has both coordinates set.
func (c Component) Positioned() bool { return c.X != nil && c.Y != nil }

// Clone returns a deep copy of the component. Specs and the coordinate
// pointers are copied, so mutating the clone never affects the original.
func (c Component) Clone() Component {
	out := c
	if c.Specs != nil {
		out.Specs = append([]string(nil), c.Specs...)
	}
	if c.X != nil {
		x := *c.X
		out.X = &x
	}
	if c.Y != nil {
		y := *c.Y
		out.Y = &y
	}
	return out
}

// Connection is a directed link between two components. The direction in
// the data is advisory only: cable direction as recorded does not always
// match the visual parent→child flow, so the layout engine re-orients
// edges by rank.
type Connection struct {
	From  string   `json:"from"`
	To    string   `json:"to"`
	Label string   `json:"label,omitempty"`
	Kind  LinkKind `json:"kind"`
}

// Document is one complete diagram revision: the full component and
// connection lists. Documents replace each other wholesale; there is no
// partial update.
type Document struct {
	Components  []Component  `json:"components"`
	Connections []Connection `json:"connections"`
}

// Validate checks structural invariants: non-empty unique component ids,
// known types, and known connection kinds.
//
// Connections referencing missing component ids are deliberately NOT an
// error here: the layout engine drops them with a warning so a malformed
// edge can never take down an interactive session.
func (d *Document) Validate() error {
	seen := make(map[string]bool, len(d.Components))
	for _, c := range d.Components {
		if c.ID == "" {
			return ErrEmptyComponentID
		}
		if seen[c.ID] {
			return fmt.Errorf("%w: %q", ErrDuplicateComponentID, c.ID)
		}
		seen[c.ID] = true
		if !c.Type.Valid() {
			return fmt.Errorf("%w: %q (component %q)", ErrUnknownType, c.Type, c.ID)
		}
	}
	for _, conn := range d.Connections {
		if !conn.Kind.Valid() {
			return fmt.Errorf("%w: %q (%s -> %s)", ErrUnknownLinkKind, conn.Kind, conn.From, conn.To)
		}
	}
	return nil
}

// Component returns a pointer to the component with the given id, or nil
// if no such component exists. The pointer refers into the document's
// slice, so writes through it mutate the document.
func (d *Document) Component(id string) *Component {
	for i := range d.Components {
		if d.Components[i].ID == id {
			return &d.Components[i]
		}
	}
	return nil
}

// SetPosition pins the component with the given id at (x, y) and reports
// whether the component was found. This is the write path for drag
// commits.
func (d *Document) SetPosition(id string, x, y float64) bool {
	c := d.Component(id)
	if c == nil {
		return false
	}
	c.X = &x
	c.Y = &y
	return true
}

// Clone returns a deep copy of the document.
func (d *Document) Clone() *Document {
	out := &Document{
		Components:  make([]Component, len(d.Components)),
		Connections: append([]Connection(nil), d.Connections...),
	}
	for i, c := range d.Components {
		out.Components[i] = c.Clone()
	}
	return out
}
