package services

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadSheet decodes an uploaded spreadsheet into raw rows. The format is
// chosen from the filename extension: .xlsx workbooks are read via excelize
// (active sheet only), anything else is treated as CSV. Decoding stops at
// the row level; interpreting cells is the import pipeline's job.
func ReadSheet(filename string, data []byte) ([][]string, error) {
	ext := strings.ToLower(filepath.Ext(filename))
	if ext == ".xlsx" || ext == ".xlsm" {
		return readWorkbook(bytes.NewReader(data))
	}
	return readCSV(bytes.NewReader(data))
}

func readWorkbook(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer func() { _ = f.Close() }()

	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}
	return rows, nil
}

func readCSV(r io.Reader) ([][]string, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows are fine, cells default to empty

	var rows [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read csv: %w", err)
		}
		rows = append(rows, record)
	}
	return rows, nil
}
