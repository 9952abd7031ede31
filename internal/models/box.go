package models

import (
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/benchwise/labstock/internal/grid"
)

// ErrPositionOccupied is returned by SetPositionIfVacant and MovePosition
// when the target position already holds a material.
var ErrPositionOccupied = errors.New("position already occupied")

// BoxLayout describes the physical grid of a storage box
type BoxLayout struct {
	Rows       int             `json:"rows"`
	Columns    int             `json:"columns"`
	LabelStyle grid.LabelStyle `json:"label_style"`
}

// BoxLocation describes where a box physically lives
type BoxLocation struct {
	Freezer string `json:"freezer,omitempty"`
	Shelf   string `json:"shelf,omitempty"`
	Rack    string `json:"rack,omitempty"`
}

// MaterialPosition is one occupied grid cell: a material sitting in exactly
// one position of exactly one box.
type MaterialPosition struct {
	MaterialID   int          `json:"material_id"`
	MaterialName string       `json:"material_name"`
	MaterialType MaterialType `json:"material_type"`
	Amount       float64      `json:"amount"`
	Unit         string       `json:"unit"`
	Notes        *string      `json:"notes,omitempty"`
	AddedAt      time.Time    `json:"added_at"`
}

// Occupancy summarizes how full a box is
type Occupancy struct {
	Occupied    int     `json:"occupied"`
	Capacity    int     `json:"capacity"`
	PercentFull float64 `json:"percent_full"`
}

// StorageBox is a grid-addressed container. It owns its placement store: the
// Positions map from canonical label to occupant. Callers must serialize
// concurrent mutation of a single box; the store itself is last-write-wins.
type StorageBox struct {
	ID               int                          `json:"id"`
	Name             string                       `json:"name"`
	Location         BoxLocation                  `json:"location"`
	Layout           BoxLayout                    `json:"layout"`
	TemperatureClass string                       `json:"temperature_class,omitempty"`
	Positions        map[string]*MaterialPosition `json:"positions"`
	CreatedBy        *int                         `json:"created_by,omitempty"`
	CreatedAt        time.Time                    `json:"created_at"`
	UpdatedAt        time.Time                    `json:"updated_at"`
}

// NewStorageBox creates a box with an empty placement store. The layout is
// validated through the grid mapper; impossible layouts are rejected.
func NewStorageBox(name string, layout BoxLayout, location BoxLocation) (*StorageBox, error) {
	if _, err := grid.NewMapper(layout.Rows, layout.Columns, layout.LabelStyle); err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	return &StorageBox{
		Name:      name,
		Location:  location,
		Layout:    layout,
		Positions: make(map[string]*MaterialPosition),
		CreatedAt: now,
		UpdatedAt: now,
	}, nil
}

// Mapper returns the grid mapper for this box's layout
func (b *StorageBox) Mapper() (*grid.Mapper, error) {
	return grid.NewMapper(b.Layout.Rows, b.Layout.Columns, b.Layout.LabelStyle)
}

// Capacity returns rows x columns
func (b *StorageBox) Capacity() int {
	return b.Layout.Rows * b.Layout.Columns
}

// CanonicalLabel maps a caller-supplied label onto the exact label the
// mapper produces for that cell. Decode is lenient ("a1", numeric "01"), so
// the placement store, and anything persisting it, must never key on the raw
// input: one physical cell, one key.
func (b *StorageBox) CanonicalLabel(label string) (string, error) {
	mapper, err := b.Mapper()
	if err != nil {
		return "", err
	}
	row, col, err := mapper.Decode(label)
	if err != nil {
		return "", err
	}
	return mapper.LabelAt(row, col)
}

// Position returns the occupant of a label, or nil when the cell is empty
// or the label is outside the layout.
func (b *StorageBox) Position(label string) *MaterialPosition {
	if b.Positions == nil {
		return nil
	}
	canonical, err := b.CanonicalLabel(label)
	if err != nil {
		return nil
	}
	return b.Positions[canonical]
}

// SetPosition places a material at label, overwriting any current occupant.
// The label must be producible by the box layout; callers wanting overwrite
// protection use SetPositionIfVacant instead.
func (b *StorageBox) SetPosition(label string, mp MaterialPosition) error {
	canonical, err := b.CanonicalLabel(label)
	if err != nil {
		return err
	}
	if b.Positions == nil {
		b.Positions = make(map[string]*MaterialPosition)
	}
	if mp.AddedAt.IsZero() {
		mp.AddedAt = time.Now().UTC()
	}
	b.Positions[canonical] = &mp
	b.UpdatedAt = time.Now().UTC()
	return nil
}

// SetPositionIfVacant places a material only when the cell is empty
func (b *StorageBox) SetPositionIfVacant(label string, mp MaterialPosition) error {
	if b.Position(label) != nil {
		return fmt.Errorf("%w: %q", ErrPositionOccupied, label)
	}
	return b.SetPosition(label, mp)
}

// RemovePosition clears a cell and reports whether anything was removed
func (b *StorageBox) RemovePosition(label string) bool {
	if b.Positions == nil {
		return false
	}
	canonical, err := b.CanonicalLabel(label)
	if err != nil {
		return false
	}
	if _, ok := b.Positions[canonical]; !ok {
		return false
	}
	delete(b.Positions, canonical)
	b.UpdatedAt = time.Now().UTC()
	return true
}

// MovePosition relocates the occupant of from into to within the same box.
// The target must be vacant unless overwrite is set. Source and target must
// be different cells; a move onto the occupant's own cell is rejected rather
// than treated as set-then-remove of the same key.
func (b *StorageBox) MovePosition(from, to string, overwrite bool) error {
	fromLabel, err := b.CanonicalLabel(from)
	if err != nil {
		return err
	}
	toLabel, err := b.CanonicalLabel(to)
	if err != nil {
		return err
	}

	mp := b.Position(fromLabel)
	if mp == nil {
		return fmt.Errorf("no material at position %q", from)
	}
	if fromLabel == toLabel {
		return fmt.Errorf("material is already at position %q", toLabel)
	}
	if !overwrite && b.Position(toLabel) != nil {
		return fmt.Errorf("%w: %q", ErrPositionOccupied, toLabel)
	}
	if err := b.SetPosition(toLabel, *mp); err != nil {
		return err
	}
	b.RemovePosition(fromLabel)
	return nil
}

// Occupancy returns the occupied count and fill percentage
func (b *StorageBox) Occupancy() Occupancy {
	capacity := b.Capacity()
	occupied := len(b.Positions)
	pct := 0.0
	if capacity > 0 {
		pct = math.Round(float64(occupied)/float64(capacity)*1000) / 10
	}
	return Occupancy{Occupied: occupied, Capacity: capacity, PercentFull: pct}
}

// NextFreePositions returns up to n vacant labels in row-major order
func (b *StorageBox) NextFreePositions(n int) []string {
	mapper, err := b.Mapper()
	if err != nil {
		return nil
	}
	var free []string
	for _, label := range mapper.Labels() {
		if len(free) >= n {
			break
		}
		if b.Position(label) == nil {
			free = append(free, label)
		}
	}
	return free
}

// CreateBoxRequest is the request body for creating a storage box
type CreateBoxRequest struct {
	Name             string          `json:"name"`
	Rows             int             `json:"rows"`
	Columns          int             `json:"columns"`
	LabelStyle       grid.LabelStyle `json:"label_style,omitempty"`
	Freezer          string          `json:"freezer,omitempty"`
	Shelf            string          `json:"shelf,omitempty"`
	Rack             string          `json:"rack,omitempty"`
	TemperatureClass string          `json:"temperature_class,omitempty"`
}

// AssignPositionRequest is the request body for placing a material in a cell
type AssignPositionRequest struct {
	MaterialID   int          `json:"material_id"`
	MaterialName string       `json:"material_name"`
	MaterialType MaterialType `json:"material_type"`
	Amount       float64      `json:"amount"`
	Unit         string       `json:"unit"`
	Notes        *string      `json:"notes,omitempty"`
	Overwrite    bool         `json:"overwrite"`
}

// MovePositionRequest is the request body for moving an occupant
type MovePositionRequest struct {
	To        string `json:"to"`
	Overwrite bool   `json:"overwrite"`
}
