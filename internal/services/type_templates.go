package services

import (
	"github.com/benchwise/labstock/internal/models"
)

// TypeTemplate holds per-type defaults used by the field normalizer when a
// spreadsheet leaves a field blank.
type TypeTemplate struct {
	DefaultUnit    string
	MinimumAmount  float64 // 0 means "derive from the parsed amount"
	DefaultStorage string
}

// TypeTemplates is an immutable per-type default table. It is passed into
// the normalizer explicitly so tests can substitute their own.
type TypeTemplates map[models.MaterialType]TypeTemplate

// DefaultTypeTemplates returns the standard defaults for every material type
func DefaultTypeTemplates() TypeTemplates {
	return TypeTemplates{
		models.TypePlasmid:  {DefaultUnit: "µg", MinimumAmount: 5, DefaultStorage: "-20°C"},
		models.TypeCellLine: {DefaultUnit: "vials", MinimumAmount: 2, DefaultStorage: "-80°C"},
		models.TypeAntibody: {DefaultUnit: "µl", MinimumAmount: 20, DefaultStorage: "-20°C"},
		models.TypeEnzyme:   {DefaultUnit: "units", MinimumAmount: 50, DefaultStorage: "-20°C"},
		models.TypeMedia:    {DefaultUnit: "ml", MinimumAmount: 100, DefaultStorage: "4°C"},
		models.TypeBuffer:   {DefaultUnit: "ml", MinimumAmount: 50, DefaultStorage: "RT"},
		models.TypeChemical: {DefaultUnit: "g", MinimumAmount: 10, DefaultStorage: "RT"},
		models.TypePrimer:   {DefaultUnit: "nmol", MinimumAmount: 5, DefaultStorage: "-20°C"},
		models.TypeKit:      {DefaultUnit: "reactions", MinimumAmount: 10, DefaultStorage: "4°C"},
		models.TypeOther:    {DefaultUnit: "units", DefaultStorage: "RT"},
	}
}

// Get returns the template for a type, falling back to the TypeOther entry
func (t TypeTemplates) Get(mt models.MaterialType) TypeTemplate {
	if tpl, ok := t[mt]; ok {
		return tpl
	}
	return t[models.TypeOther]
}
