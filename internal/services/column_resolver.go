package services

import (
	"strings"

	"github.com/benchwise/labstock/internal/models"
)

// Field is a canonical import column identifier
type Field string

const (
	FieldName             Field = "name"
	FieldType             Field = "type"
	FieldDescription      Field = "description"
	FieldFreezer          Field = "freezer"
	FieldShelf            Field = "shelf"
	FieldBox              Field = "box"
	FieldPosition         Field = "position"
	FieldCurrentAmount    Field = "currentAmount"
	FieldUnit             Field = "unit"
	FieldMinimumAmount    Field = "minimumAmount"
	FieldConcentration    Field = "concentration"
	FieldSupplier         Field = "supplier"
	FieldCatalogNumber    Field = "catalogNumber"
	FieldExpiryDate       Field = "expiryDate"
	FieldStorageCondition Field = "storageCondition"
	FieldTags             Field = "tags"
	FieldNotes            Field = "notes"
)

// fieldAlias pairs a canonical field with the case-insensitive substrings
// that identify it in a header cell.
type fieldAlias struct {
	field   Field
	aliases []string
	example string // sample value for the exported template
}

// aliasTable is scanned in declaration order: when a header matches aliases
// of several fields, the earliest-declared field wins. "box" is deliberately
// declared before "position" so a header like "Box Position" resolves to the
// box hint. Do not reorder without checking the resolver tests.
var aliasTable = []fieldAlias{
	{FieldName, []string{"name", "material", "reagent", "item", "product"}, "pCMV-GFP"},
	{FieldType, []string{"type", "category", "kind", "class"}, "plasmid"},
	{FieldDescription, []string{"description", "desc", "details", "comment"}, "GFP expression vector"},
	{FieldFreezer, []string{"freezer", "fridge", "refrigerator"}, "Freezer B"},
	{FieldShelf, []string{"shelf", "rack", "drawer"}, "Shelf 2"},
	{FieldBox, []string{"box", "container"}, "Plasmid Box 1"},
	{FieldPosition, []string{"position", "pos", "slot", "well", "coordinate"}, "A1"},
	{FieldCurrentAmount, []string{"amount", "stock", "quantity", "qty", "volume"}, "25 µg"},
	{FieldUnit, []string{"unit", "uom"}, "µg"},
	{FieldMinimumAmount, []string{"minimum", "min amount", "min stock", "threshold", "reorder"}, "5"},
	{FieldConcentration, []string{"concentration", "conc", "titer", "molarity"}, "1 µg/µl"},
	{FieldSupplier, []string{"supplier", "vendor", "manufacturer", "company", "source"}, "Addgene"},
	{FieldCatalogNumber, []string{"catalog", "cat#", "cat no", "cat.", "sku", "product number"}, "11153"},
	{FieldExpiryDate, []string{"expiry", "expir", "use by", "best before"}, "2027-06-30"},
	{FieldStorageCondition, []string{"storage", "temperature", "temp", "condition"}, "-20°C"},
	{FieldTags, []string{"tags", "labels", "keywords"}, "gfp; mammalian"},
	{FieldNotes, []string{"notes", "remarks"}, "sequence verified"},
}

// ResolveColumns maps spreadsheet headers to canonical fields. Headers are
// scanned in order; for each header, fields are tested in the alias table's
// declared order and the first field with a matching alias is assigned.
// A field already assigned to an earlier column is never reassigned, and
// headers matching nothing are simply left out of the result.
func ResolveColumns(headers []string) map[Field]int {
	resolved := make(map[Field]int)

	for idx, header := range headers {
		h := strings.ToLower(strings.TrimSpace(header))
		if h == "" {
			continue
		}
		for _, entry := range aliasTable {
			if _, taken := resolved[entry.field]; taken {
				continue
			}
			if matchesAlias(h, entry.aliases) {
				resolved[entry.field] = idx
				break
			}
		}
	}

	return resolved
}

func matchesAlias(header string, aliases []string) bool {
	for _, alias := range aliases {
		if strings.Contains(header, alias) {
			return true
		}
	}
	return false
}

// TemplateColumns returns the reference header row for round-trip imports.
// It is derived from the alias table itself: every canonical header is that
// field's first alias, so the template can never drift out of sync with the
// resolver.
func TemplateColumns() []models.TemplateColumn {
	cols := make([]models.TemplateColumn, 0, len(aliasTable))
	for _, entry := range aliasTable {
		cols = append(cols, models.TemplateColumn{
			Header:  entry.aliases[0],
			Example: entry.example,
		})
	}
	return cols
}
