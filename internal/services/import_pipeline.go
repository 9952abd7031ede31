package services

import (
	"errors"
	"fmt"
	"strings"

	"github.com/benchwise/labstock/internal/models"
)

var (
	// ErrEmptyFile is returned when the sheet has no data rows
	ErrEmptyFile = errors.New("file contains no data rows")

	// ErrWrongState is returned when a pipeline operation is called
	// outside the state that allows it.
	ErrWrongState = errors.New("operation not allowed in current pipeline state")
)

// PipelineState tracks import progress through its review workflow
type PipelineState string

const (
	StateIdle       PipelineState = "idle"
	StateParsing    PipelineState = "parsing"
	StateReviewing  PipelineState = "reviewing"
	StateCommitting PipelineState = "committing"
	StateDone       PipelineState = "done"
)

// ImportPipeline orchestrates column resolution, type classification and
// field normalization over a batch of spreadsheet rows, then holds the
// parsed rows for review until the caller commits or abandons them. A
// pipeline processes one batch and is then discarded; it keeps no long-term
// state and never touches a storage box itself.
type ImportPipeline struct {
	classifier *TypeClassifier
	normalizer *FieldNormalizer

	state PipelineState
	rows  []models.ParsedMaterial
}

// NewImportPipeline creates a pipeline with the default classifier and
// normalizer configuration.
func NewImportPipeline() *ImportPipeline {
	return &ImportPipeline{
		classifier: NewTypeClassifier(),
		normalizer: NewFieldNormalizer(DefaultTypeTemplates()),
		state:      StateIdle,
	}
}

// State returns the pipeline's current state
func (p *ImportPipeline) State() PipelineState { return p.state }

// Rows returns the parsed review set
func (p *ImportPipeline) Rows() []models.ParsedMaterial { return p.rows }

// Parse processes raw sheet rows (row 0 = headers) into the review set.
// Fully blank rows are skipped, never treated as a section break. A sheet
// with fewer than two rows is a fatal input error: the pipeline returns to
// idle and nothing is processed.
func (p *ImportPipeline) Parse(rows [][]string) error {
	if p.state != StateIdle {
		return fmt.Errorf("%w: %s", ErrWrongState, p.state)
	}
	p.state = StateParsing

	if len(rows) < 2 {
		p.state = StateIdle
		return ErrEmptyFile
	}

	columns := ResolveColumns(rows[0])

	for i, raw := range rows[1:] {
		if isBlankRow(raw) {
			continue
		}
		parsed := p.parseRow(raw, columns)
		parsed.RowNumber = i + 1
		parsed.Selected = parsed.IsValid
		p.rows = append(p.rows, parsed)
	}

	p.state = StateReviewing
	return nil
}

// parseRow normalizes one non-blank data row into a ParsedMaterial
func (p *ImportPipeline) parseRow(raw []string, columns map[Field]int) models.ParsedMaterial {
	cell := func(f Field) string {
		idx, ok := columns[f]
		if !ok || idx >= len(raw) {
			return ""
		}
		return strings.TrimSpace(raw[idx])
	}

	var warnings []string

	name := cell(FieldName)
	if name == "" {
		warnings = append(warnings, "material name is missing")
	}

	description := cell(FieldDescription)
	if notes := cell(FieldNotes); notes != "" {
		if description == "" {
			description = notes
		} else {
			description += "; " + notes
		}
	}
	mt := p.classifier.Classify(name, description, cell(FieldType))

	amount, unit, warns := p.normalizer.ParseAmount(cell(FieldCurrentAmount), mt)
	warnings = append(warnings, warns...)
	if explicit := cell(FieldUnit); explicit != "" {
		unit = explicit
	}

	minimum := p.normalizer.MinimumAmount(cell(FieldMinimumAmount), amount, mt)

	storage, warns := p.normalizer.NormalizeStorageCondition(cell(FieldStorageCondition), mt)
	warnings = append(warnings, warns...)

	expiry, warns := p.normalizer.ParseExpiryDate(cell(FieldExpiryDate))
	warnings = append(warnings, warns...)

	hint, warns := p.normalizer.LocationHint(
		cell(FieldFreezer), cell(FieldShelf), cell(FieldBox), cell(FieldPosition))
	warnings = append(warnings, warns...)

	stock := models.StockInfo{
		CurrentAmount: amount,
		Unit:          unit,
		MinimumAmount: minimum,
		ExpiryDate:    expiry,
	}
	if v := cell(FieldConcentration); v != "" {
		stock.Concentration = &v
	}
	if v := cell(FieldSupplier); v != "" {
		stock.Supplier = &v
	}
	if v := cell(FieldCatalogNumber); v != "" {
		stock.CatalogNumber = &v
	}

	material := models.Material{
		Name:     name,
		Type:     mt,
		Category: string(mt),
		Location: hint,
		Stock:    stock,
		Properties: models.MaterialProperties{
			StorageCondition: storage,
			Tags:             p.normalizer.ParseTags(cell(FieldTags)),
		},
	}
	if description != "" {
		material.Description = &description
	}

	return models.ParsedMaterial{
		Raw:      append([]string(nil), raw...),
		Material: material,
		Warnings: warnings,
		IsValid:  name != "",
	}
}

// ToggleRow flips the selection of one review row
func (p *ImportPipeline) ToggleRow(index int) error {
	if p.state != StateReviewing {
		return fmt.Errorf("%w: %s", ErrWrongState, p.state)
	}
	if index < 0 || index >= len(p.rows) {
		return fmt.Errorf("row index %d out of range", index)
	}
	p.rows[index].Selected = !p.rows[index].Selected
	return nil
}

// SelectAllValid selects every valid row and deselects the rest
func (p *ImportPipeline) SelectAllValid() error {
	if p.state != StateReviewing {
		return fmt.Errorf("%w: %s", ErrWrongState, p.state)
	}
	for i := range p.rows {
		p.rows[i].Selected = p.rows[i].IsValid
	}
	return nil
}

// ClearSelection deselects every row
func (p *ImportPipeline) ClearSelection() error {
	if p.state != StateReviewing {
		return fmt.Errorf("%w: %s", ErrWrongState, p.state)
	}
	for i := range p.rows {
		p.rows[i].Selected = false
	}
	return nil
}

// Commit returns the selected rows' normalized material records in their
// original row order, regardless of the order selections were made. The
// pipeline is done afterwards; persisting the records and assigning box
// positions is the caller's responsibility.
func (p *ImportPipeline) Commit() ([]models.Material, error) {
	if p.state != StateReviewing {
		return nil, fmt.Errorf("%w: %s", ErrWrongState, p.state)
	}
	p.state = StateCommitting

	var committed []models.Material
	for _, row := range p.rows {
		if row.Selected {
			committed = append(committed, row.Material)
		}
	}

	p.state = StateDone
	return committed, nil
}

func isBlankRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
