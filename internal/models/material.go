package models

import (
	"time"
)

// MaterialType categorizes a lab material
type MaterialType string

const (
	TypePlasmid  MaterialType = "plasmid"
	TypeCellLine MaterialType = "cell_line"
	TypeAntibody MaterialType = "antibody"
	TypeEnzyme   MaterialType = "enzyme"
	TypeMedia    MaterialType = "media"
	TypeBuffer   MaterialType = "buffer"
	TypeChemical MaterialType = "chemical"
	TypePrimer   MaterialType = "primer"
	TypeKit      MaterialType = "kit"
	TypeOther    MaterialType = "other"
)

// MaterialTypes lists every valid material type
var MaterialTypes = []MaterialType{
	TypePlasmid, TypeCellLine, TypeAntibody, TypeEnzyme, TypeMedia,
	TypeBuffer, TypeChemical, TypePrimer, TypeKit, TypeOther,
}

// IsValid reports whether t is one of the known material types
func (t MaterialType) IsValid() bool {
	for _, mt := range MaterialTypes {
		if t == mt {
			return true
		}
	}
	return false
}

// StockInfo holds quantity tracking for a material
type StockInfo struct {
	CurrentAmount float64    `json:"current_amount"`
	Unit          string     `json:"unit"`
	MinimumAmount float64    `json:"minimum_amount"`
	Concentration *string    `json:"concentration,omitempty"`
	Supplier      *string    `json:"supplier,omitempty"`
	CatalogNumber *string    `json:"catalog_number,omitempty"`
	ExpiryDate    *time.Time `json:"expiry_date,omitempty"`
}

// MaterialProperties holds descriptive attributes
type MaterialProperties struct {
	StorageCondition string   `json:"storage_condition"`
	Tags             []string `json:"tags,omitempty"`
}

// LocationHint carries freezer/shelf/box/position values from a spreadsheet.
// These are advisory only; they are never validated against a real box layout
// during import.
type LocationHint struct {
	Freezer  string `json:"freezer,omitempty"`
	Shelf    string `json:"shelf,omitempty"`
	Box      string `json:"box,omitempty"`
	Position string `json:"position,omitempty"`
}

// IsEmpty reports whether no hint fields are set
func (l LocationHint) IsEmpty() bool {
	return l.Freezer == "" && l.Shelf == "" && l.Box == "" && l.Position == ""
}

// Material is a normalized inventory record. It is the output of the import
// pipeline and the unit stored in the materials catalog.
type Material struct {
	ID          int                `json:"id"`
	Name        string             `json:"name"`
	Type        MaterialType       `json:"type"`
	Category    string             `json:"category"`
	Description *string            `json:"description,omitempty"`
	Location    LocationHint       `json:"location"`
	Stock       StockInfo          `json:"stock"`
	Properties  MaterialProperties `json:"properties"`
	CreatedBy   *int               `json:"created_by,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
	UpdatedAt   time.Time          `json:"updated_at"`
}

// IsLowStock reports whether the current amount is at or below the minimum
func (m *Material) IsLowStock() bool {
	return m.Stock.CurrentAmount <= m.Stock.MinimumAmount
}

// CreateMaterialRequest is the request body for creating a material directly
type CreateMaterialRequest struct {
	Name             string       `json:"name"`
	Type             MaterialType `json:"type"`
	Description      *string      `json:"description,omitempty"`
	CurrentAmount    float64      `json:"current_amount"`
	Unit             string       `json:"unit"`
	MinimumAmount    *float64     `json:"minimum_amount,omitempty"`
	Concentration    *string      `json:"concentration,omitempty"`
	Supplier         *string      `json:"supplier,omitempty"`
	CatalogNumber    *string      `json:"catalog_number,omitempty"`
	ExpiryDate       *time.Time   `json:"expiry_date,omitempty"`
	StorageCondition string       `json:"storage_condition,omitempty"`
	Tags             []string     `json:"tags,omitempty"`
	Location         LocationHint `json:"location,omitempty"`
}

// MaterialListParams contains parameters for listing materials
type MaterialListParams struct {
	Limit        int
	Offset       int
	Search       string // Search by name
	Type         string // Filter by material type
	LowStock     *bool  // Filter for low stock materials only
	ExpiringSoon *bool  // Filter for materials expiring within 30 days
	SortBy       string // "name", "type", "amount", "expiry", "updated"
	SortOrder    string // "asc" or "desc"
}
