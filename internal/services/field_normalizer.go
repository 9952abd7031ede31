package services

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/benchwise/labstock/internal/models"
)

// FieldNormalizer turns heterogeneous spreadsheet cell values into typed
// material fields. Every extraction is tolerant of missing input: absence
// yields a type-appropriate default plus a warning, never an error.
type FieldNormalizer struct {
	templates     TypeTemplates
	amountPattern *regexp.Regexp
}

// storageRule maps storage-condition substrings to a normalized value.
// Rules are evaluated in order; colder conditions are listed first so that
// text like "cold room, 4C" resolves before the looser "room" substring.
type storageRule struct {
	substrings []string
	normalized string
}

var storageRules = []storageRule{
	{[]string{"-80", "−80", "liquid nitrogen", "ln2", "cryo"}, "-80°C"},
	{[]string{"-20", "−20", "freezer"}, "-20°C"},
	{[]string{"4", "fridge", "cold room", "refriger"}, "4°C"},
	{[]string{"rt", "room", "ambient", "bench"}, "RT"},
}

// NewFieldNormalizer creates a normalizer using the given type templates
func NewFieldNormalizer(templates TypeTemplates) *FieldNormalizer {
	return &FieldNormalizer{
		templates: templates,
		// Match a leading number with optional comma decimals and an
		// optional trailing unit token, e.g. "25 µg", "1,5ml", "100".
		amountPattern: regexp.MustCompile(`^\s*(\d+(?:[.,]\d+)?)\s*([µμ]?[a-zA-Z%][a-zA-Z/%µμ]*)?\s*$`),
	}
}

// ParseAmount extracts amount and unit from a raw cell. Numeric cells use
// the type template's default unit; unparsable strings leave the amount at 0
// and report a warning.
func (n *FieldNormalizer) ParseAmount(raw string, mt models.MaterialType) (float64, string, []string) {
	tpl := n.templates.Get(mt)
	raw = strings.TrimSpace(raw)

	if raw == "" {
		return 0, tpl.DefaultUnit, []string{"no amount provided, defaulting to 0"}
	}

	matches := n.amountPattern.FindStringSubmatch(raw)
	if len(matches) == 0 {
		return 0, tpl.DefaultUnit, []string{fmt.Sprintf("could not parse amount %q", raw)}
	}

	amount, err := strconv.ParseFloat(strings.ReplaceAll(matches[1], ",", "."), 64)
	if err != nil || amount < 0 {
		return 0, tpl.DefaultUnit, []string{fmt.Sprintf("could not parse amount %q", raw)}
	}

	unit := strings.TrimSpace(matches[2])
	if unit == "" {
		unit = tpl.DefaultUnit
	}
	return amount, unit, nil
}

// MinimumAmount resolves the minimum stock threshold: explicit value when
// parseable, else the type template's minimum, else max(1, amount*0.1).
func (n *FieldNormalizer) MinimumAmount(raw string, amount float64, mt models.MaterialType) float64 {
	raw = strings.TrimSpace(raw)
	if raw != "" {
		if v, err := strconv.ParseFloat(strings.ReplaceAll(raw, ",", "."), 64); err == nil && v >= 0 {
			return v
		}
	}
	tpl := n.templates.Get(mt)
	if tpl.MinimumAmount > 0 {
		return tpl.MinimumAmount
	}
	return math.Max(1, amount*0.1)
}

// NormalizeStorageCondition maps freeform storage text onto the small set of
// canonical conditions. Unrecognized or empty text falls back to the type
// template's default and reports a warning.
func (n *FieldNormalizer) NormalizeStorageCondition(raw string, mt models.MaterialType) (string, []string) {
	tpl := n.templates.Get(mt)
	text := strings.ToLower(strings.TrimSpace(raw))

	if text == "" {
		return tpl.DefaultStorage, nil
	}

	for _, rule := range storageRules {
		for _, sub := range rule.substrings {
			if strings.Contains(text, sub) {
				return rule.normalized, nil
			}
		}
	}
	return tpl.DefaultStorage, []string{fmt.Sprintf("unrecognized storage condition %q, using %s", raw, tpl.DefaultStorage)}
}

// ParseTags splits a tag list on comma, semicolon or pipe, trimming each
// entry and dropping empties.
func (n *FieldNormalizer) ParseTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.FieldsFunc(raw, func(r rune) bool {
		return r == ',' || r == ';' || r == '|'
	})
	var tags []string
	for _, p := range parts {
		if t := strings.TrimSpace(p); t != "" {
			tags = append(tags, t)
		}
	}
	return tags
}

// expiryLayouts lists the date formats accepted for expiry cells
var expiryLayouts = []string{
	"2006-01-02",
	"02.01.2006",
	"01/02/2006",
	"2006/01/02",
	"Jan 2, 2006",
	"2 Jan 2006",
}

// ParseExpiryDate parses an expiry cell. Empty cells yield no date and no
// warning; unparsable ones yield no date plus a warning.
func (n *FieldNormalizer) ParseExpiryDate(raw string) (*time.Time, []string) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	for _, layout := range expiryLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return &t, nil
		}
	}
	return nil, []string{fmt.Sprintf("could not parse expiry date %q", raw)}
}

// LocationHint assembles freezer/shelf/box/position cells verbatim. Hints
// are advisory and deliberately not checked against any real box layout;
// validation happens only if the record is later assigned to a position.
func (n *FieldNormalizer) LocationHint(freezer, shelf, box, position string) (models.LocationHint, []string) {
	hint := models.LocationHint{
		Freezer:  strings.TrimSpace(freezer),
		Shelf:    strings.TrimSpace(shelf),
		Box:      strings.TrimSpace(box),
		Position: strings.TrimSpace(position),
	}
	if hint.IsEmpty() {
		return hint, []string{"no storage location provided"}
	}
	return hint, nil
}
