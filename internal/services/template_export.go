package services

import (
	"bytes"
	"fmt"

	"github.com/xuri/excelize/v2"
)

// BuildImportTemplate produces an .xlsx workbook whose header row uses the
// canonical column names from TemplateColumns, plus one example data row.
// A sheet filled in against this template round-trips through the column
// resolver without any unmapped fields.
func BuildImportTemplate() ([]byte, error) {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	cols := TemplateColumns()

	header := make([]interface{}, len(cols))
	example := make([]interface{}, len(cols))
	for i, col := range cols {
		header[i] = col.Header
		example[i] = col.Example
	}

	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return nil, fmt.Errorf("failed to write template header: %w", err)
	}
	if err := f.SetSheetRow(sheet, "A2", &example); err != nil {
		return nil, fmt.Errorf("failed to write template example row: %w", err)
	}

	buf := &bytes.Buffer{}
	if err := f.Write(buf); err != nil {
		return nil, fmt.Errorf("failed to write template workbook: %w", err)
	}
	return buf.Bytes(), nil
}
