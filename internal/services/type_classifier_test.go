package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/benchwise/labstock/internal/models"
)

func TestClassify_ByVocabulary(t *testing.T) {
	c := NewTypeClassifier()

	tests := []struct {
		name        string
		description string
		want        models.MaterialType
	}{
		{"pCMV-GFP", "", models.TypePlasmid},
		{"pET28a", "expression vector", models.TypePlasmid},
		{"GFP plasmid stock", "", models.TypePlasmid},
		{"HEK cells", "", models.TypeCellLine},
		{"HeLa", "adherent cell line", models.TypeCellLine},
		{"Anti-GFP antibody", "", models.TypeAntibody},
		{"Mouse IgG", "monoclonal", models.TypeAntibody},
		{"GFP forward primer", "", models.TypePrimer},
		{"Taq polymerase", "", models.TypeEnzyme},
		{"T4 DNA ligase", "", models.TypeEnzyme},
		{"DMEM", "with 10% FBS", models.TypeMedia},
		{"LB broth", "", models.TypeMedia},
		{"PBS", "wash buffer", models.TypeBuffer},
		{"Tris-HCl", "", models.TypeBuffer},
		{"Miniprep kit", "", models.TypeKit},
		{"Sodium chloride", "", models.TypeChemical},
		{"Glycerol", "", models.TypeChemical},
		{"Sample 42", "", models.TypeOther},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := c.Classify(tt.name, tt.description, "")
			assert.Equal(t, tt.want, got)
			assert.True(t, got.IsValid())
		})
	}
}

func TestClassify_RuleOrderResolvesOverlap(t *testing.T) {
	c := NewTypeClassifier()

	// Plasmid naming beats the enzyme vocabulary even when both match
	assert.Equal(t, models.TypePlasmid, c.Classify("pGEX-4T1", "protease cleavage site", ""))

	// Cell line beats media when a cell name and medium appear together
	assert.Equal(t, models.TypeCellLine, c.Classify("HEK cells", "cultured in DMEM", ""))
}

func TestClassify_ExplicitHintShortCircuits(t *testing.T) {
	c := NewTypeClassifier()

	// A hint naming a known type wins regardless of the text
	assert.Equal(t, models.TypeBuffer, c.Classify("pCMV-GFP", "", "Buffer"))
	assert.Equal(t, models.TypeCellLine, c.Classify("something", "", "Cell Line"))
	assert.Equal(t, models.TypeCellLine, c.Classify("something", "", "cell_line"))

	// An unknown hint falls through to the rules
	assert.Equal(t, models.TypePlasmid, c.Classify("pCMV-GFP", "", "glassware"))
}

func TestClassify_AlwaysReturnsValidType(t *testing.T) {
	c := NewTypeClassifier()

	inputs := []string{"", "   ", "xyzzy", "completely unlabeled tube", "???", "p"}
	for _, in := range inputs {
		got := c.Classify(in, "", "")
		assert.True(t, got.IsValid(), "input %q classified as %q", in, got)
	}

	assert.Equal(t, models.TypeOther, c.Classify("", "", ""))
}
