package services

import (
	"regexp"
	"strings"

	"github.com/benchwise/labstock/internal/models"
)

// TypeClassifier infers a material's type from freeform text. It runs an
// ordered list of regex patterns and returns the first type whose pattern
// matches; pattern order encodes priority among overlapping vocabularies.
// This is a best-effort heuristic, never a guarantee.
type TypeClassifier struct {
	rules []classifierRule
}

type classifierRule struct {
	pattern *regexp.Regexp
	result  models.MaterialType
}

// NewTypeClassifier creates a classifier with the standard rule set
func NewTypeClassifier() *TypeClassifier {
	return &TypeClassifier{
		rules: []classifierRule{
			// Plasmid names like pCMV-GFP, pET28a, pUC19 must win over the
			// later chemical/enzyme vocabularies.
			{regexp.MustCompile(`plasmid|vector|\bp[a-z]{2,4}[0-9-]`), models.TypePlasmid},
			{regexp.MustCompile(`cell line|cell-line|\bcells?\b|\bhek\b|\bhela\b|\bcho\b|\bnih3t3\b|\bjurkat\b|\bk562\b`), models.TypeCellLine},
			{regexp.MustCompile(`antibod|\banti-|\bigg\b|\bigm\b|monoclonal|polyclonal|\bmab\b`), models.TypeAntibody},
			{regexp.MustCompile(`primer|oligo|\bfwd\b|\brev\b|\bforward\b|\breverse\b`), models.TypePrimer},
			{regexp.MustCompile(`polymerase|ligase|nuclease|protease|kinase|phosphatase|transcriptase|restriction|\btaq\b|enzyme`), models.TypeEnzyme},
			{regexp.MustCompile(`\bmedia\b|\bmedium\b|\bdmem\b|\brpmi\b|\bserum\b|\bfbs\b|\bfcs\b|\bbroth\b|\blb\b|\bagar\b`), models.TypeMedia},
			{regexp.MustCompile(`buffer|\bpbs\b|\btris\b|\btbst?\b|\btae\b|\btbe\b|\bedta\b|saline`), models.TypeBuffer},
			{regexp.MustCompile(`\bkit\b|miniprep|maxiprep|midiprep|extraction|purification`), models.TypeKit},
			{regexp.MustCompile(`chemical|powder|crystal|\bacid\b|\bsalt\b|chloride|sulfate|phosphate|ethanol|methanol|glycerol|\bdmso\b`), models.TypeChemical},
		},
	}
}

// Classify returns exactly one material type for any input, including empty
// text, which classifies as TypeOther.
func (c *TypeClassifier) Classify(name, description, typeHint string) models.MaterialType {
	text := strings.ToLower(strings.TrimSpace(name + " " + description + " " + typeHint))

	// An explicit hint that names a known type short-circuits the rules
	hint := strings.ToLower(strings.TrimSpace(typeHint))
	hint = strings.ReplaceAll(hint, " ", "_")
	if mt := models.MaterialType(hint); mt.IsValid() {
		return mt
	}

	for _, rule := range c.rules {
		if rule.pattern.MatchString(text) {
			return rule.result
		}
	}
	return models.TypeOther
}
