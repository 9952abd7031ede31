package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/benchwise/labstock/internal/models"
)

func newNormalizer() *FieldNormalizer {
	return NewFieldNormalizer(DefaultTypeTemplates())
}

func TestParseAmount(t *testing.T) {
	n := newNormalizer()

	tests := []struct {
		raw        string
		mt         models.MaterialType
		wantAmount float64
		wantUnit   string
		wantWarn   bool
	}{
		{"25 µg", models.TypePlasmid, 25, "µg", false},
		{"25µg", models.TypePlasmid, 25, "µg", false},
		{"1,5ml", models.TypeMedia, 1.5, "ml", false},
		{"0.5 mg/ml", models.TypeAntibody, 0.5, "mg/ml", false},
		{"100", models.TypeEnzyme, 100, "units", false},
		{"3", models.TypeCellLine, 3, "vials", false},
		{"", models.TypeChemical, 0, "g", true},
		{"   ", models.TypeChemical, 0, "g", true},
		{"plenty", models.TypeChemical, 0, "g", true},
		{"µg 25", models.TypePlasmid, 0, "µg", true},
	}

	for _, tt := range tests {
		t.Run(tt.raw+"_"+string(tt.mt), func(t *testing.T) {
			amount, unit, warnings := n.ParseAmount(tt.raw, tt.mt)
			assert.Equal(t, tt.wantAmount, amount)
			assert.Equal(t, tt.wantUnit, unit)
			if tt.wantWarn {
				assert.NotEmpty(t, warnings)
			} else {
				assert.Empty(t, warnings)
			}
		})
	}
}

func TestMinimumAmount(t *testing.T) {
	n := newNormalizer()

	// explicit value wins
	assert.Equal(t, 7.0, n.MinimumAmount("7", 100, models.TypePlasmid))
	assert.Equal(t, 2.5, n.MinimumAmount("2,5", 100, models.TypePlasmid))

	// no explicit value: type template
	assert.Equal(t, 5.0, n.MinimumAmount("", 100, models.TypePlasmid))
	assert.Equal(t, 50.0, n.MinimumAmount("", 0, models.TypeEnzyme))

	// unparsable explicit value: type template again
	assert.Equal(t, 5.0, n.MinimumAmount("a few", 100, models.TypePlasmid))

	// TypeOther has no template minimum: fall back to max(1, amount*0.1)
	assert.Equal(t, 5.0, n.MinimumAmount("", 50, models.TypeOther))
	assert.Equal(t, 1.0, n.MinimumAmount("", 2, models.TypeOther))
	assert.Equal(t, 1.0, n.MinimumAmount("", 0, models.TypeOther))
}

func TestNormalizeStorageCondition(t *testing.T) {
	n := newNormalizer()

	tests := []struct {
		raw  string
		want string
	}{
		{"-80", "-80°C"},
		{"-80C freezer", "-80°C"},
		{"liquid nitrogen", "-80°C"},
		{"LN2 tank", "-80°C"},
		{"-20°C", "-20°C"},
		{"keep in freezer", "-20°C"},
		{"4C", "4°C"},
		{"fridge", "4°C"},
		{"cold room", "4°C"},
		{"stored at 4 degrees", "4°C"},
		{"RT", "RT"},
		{"room temperature", "RT"},
		{"ambient", "RT"},
		{"on the bench", "RT"},
	}
	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			got, warnings := n.NormalizeStorageCondition(tt.raw, models.TypeChemical)
			assert.Equal(t, tt.want, got)
			assert.Empty(t, warnings)
		})
	}
}

func TestNormalizeStorageCondition_Fallbacks(t *testing.T) {
	n := newNormalizer()

	// empty text: quiet template default
	got, warnings := n.NormalizeStorageCondition("", models.TypePlasmid)
	assert.Equal(t, "-20°C", got)
	assert.Empty(t, warnings)

	// unrecognized text: template default plus a warning
	got, warnings = n.NormalizeStorageCondition("in the blue cabinet", models.TypeMedia)
	assert.Equal(t, "4°C", got)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "blue cabinet")
}

func TestParseTags(t *testing.T) {
	n := newNormalizer()

	assert.Equal(t, []string{"gfp", "mammalian"}, n.ParseTags("gfp; mammalian"))
	assert.Equal(t, []string{"a", "b", "c", "d"}, n.ParseTags("a, b; c | d"))
	assert.Equal(t, []string{"one"}, n.ParseTags("  one  "))
	assert.Nil(t, n.ParseTags(""))
	assert.Nil(t, n.ParseTags(" ;; , "))
}

func TestParseExpiryDate(t *testing.T) {
	n := newNormalizer()

	want := time.Date(2027, 6, 30, 0, 0, 0, 0, time.UTC)
	for _, raw := range []string{"2027-06-30", "30.06.2027", "06/30/2027", "2027/06/30", "Jun 30, 2027", "30 Jun 2027"} {
		got, warnings := n.ParseExpiryDate(raw)
		require.NotNil(t, got, "input %q", raw)
		assert.True(t, want.Equal(*got), "input %q parsed as %v", raw, got)
		assert.Empty(t, warnings)
	}

	got, warnings := n.ParseExpiryDate("")
	assert.Nil(t, got)
	assert.Empty(t, warnings)

	got, warnings = n.ParseExpiryDate("next spring")
	assert.Nil(t, got)
	require.Len(t, warnings, 1)
	assert.Contains(t, warnings[0], "next spring")
}

func TestLocationHint(t *testing.T) {
	n := newNormalizer()

	hint, warnings := n.LocationHint(" Freezer B ", "Shelf 2", "Plasmid Box 1", "A1")
	assert.Equal(t, models.LocationHint{
		Freezer:  "Freezer B",
		Shelf:    "Shelf 2",
		Box:      "Plasmid Box 1",
		Position: "A1",
	}, hint)
	assert.Empty(t, warnings)

	// a single populated cell still counts as a location
	_, warnings = n.LocationHint("", "", "Box 3", "")
	assert.Empty(t, warnings)

	hint, warnings = n.LocationHint("", " ", "", "")
	assert.True(t, hint.IsEmpty())
	require.Len(t, warnings, 1)
}
