package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveColumns_CanonicalHeaders(t *testing.T) {
	headers := []string{"Name", "Type", "Amount", "Unit", "Storage", "Position"}

	resolved := ResolveColumns(headers)

	assert.Equal(t, map[Field]int{
		FieldName:             0,
		FieldType:             1,
		FieldCurrentAmount:    2,
		FieldUnit:             3,
		FieldStorageCondition: 4,
		FieldPosition:         5,
	}, resolved)
}

func TestResolveColumns_AliasHeaders(t *testing.T) {
	headers := []string{"Reagent", "Qty", "Notes"}

	resolved := ResolveColumns(headers)

	assert.Equal(t, map[Field]int{
		FieldName:          0,
		FieldCurrentAmount: 1,
		FieldNotes:         2,
	}, resolved)
}

func TestResolveColumns_UnknownHeadersAreSkipped(t *testing.T) {
	resolved := ResolveColumns([]string{"Barcode", "Name", "Operator Initials"})

	assert.Equal(t, map[Field]int{FieldName: 1}, resolved)
}

func TestResolveColumns_IsDeterministic(t *testing.T) {
	headers := []string{"Material", "Category", "Quantity", "Vendor", "Expiry Date"}

	first := ResolveColumns(headers)
	for i := 0; i < 20; i++ {
		assert.Equal(t, first, ResolveColumns(headers))
	}
}

func TestResolveColumns_FirstColumnWinsPerField(t *testing.T) {
	// Both headers carry a name alias; the field sticks to the earlier column
	// and the later header falls through to nothing.
	resolved := ResolveColumns([]string{"Name", "Material"})

	assert.Equal(t, map[Field]int{FieldName: 0}, resolved)
}

func TestResolveColumns_DeclarationOrderBreaksTies(t *testing.T) {
	// "Box Position" contains aliases of both box and position; the alias
	// table declares box first, so that is what the header resolves to.
	resolved := ResolveColumns([]string{"Box Position"})

	assert.Equal(t, map[Field]int{FieldBox: 0}, resolved)

	// With box already taken, the same header now resolves to position.
	resolved = ResolveColumns([]string{"Box", "Box Position"})
	assert.Equal(t, map[Field]int{FieldBox: 0, FieldPosition: 1}, resolved)
}

func TestResolveColumns_CaseAndWhitespaceInsensitive(t *testing.T) {
	resolved := ResolveColumns([]string{"  NAME  ", "sToRaGe"})

	assert.Equal(t, map[Field]int{FieldName: 0, FieldStorageCondition: 1}, resolved)
}

func TestResolveColumns_EmptyHeaders(t *testing.T) {
	assert.Empty(t, ResolveColumns(nil))
	assert.Empty(t, ResolveColumns([]string{"", "  ", ""}))
}

func TestTemplateColumns_RoundTripsThroughResolver(t *testing.T) {
	cols := TemplateColumns()
	require.NotEmpty(t, cols)

	headers := make([]string, len(cols))
	for i, col := range cols {
		headers[i] = col.Header
	}

	resolved := ResolveColumns(headers)

	// Every template column must resolve back to exactly its own field at
	// its own index, so a downloaded template re-imports losslessly.
	require.Len(t, resolved, len(cols))
	for i := range cols {
		field := aliasTable[i].field
		assert.Equal(t, i, resolved[field], "field %s", field)
	}
}
