package services

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadSheet_CSV(t *testing.T) {
	data := []byte("Name,Amount,Storage\npUC19,10 µg,-20\nHEK cells,3\n")

	rows, err := ReadSheet("materials.csv", data)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Name", "Amount", "Storage"}, rows[0])
	assert.Equal(t, []string{"pUC19", "10 µg", "-20"}, rows[1])
	// ragged rows come back as-is
	assert.Equal(t, []string{"HEK cells", "3"}, rows[2])
}

func TestReadSheet_UnknownExtensionFallsBackToCSV(t *testing.T) {
	rows, err := ReadSheet("export.txt", []byte("Name\npUC19\n"))
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"pUC19"}, rows[1])
}

func TestReadSheet_BadCSV(t *testing.T) {
	_, err := ReadSheet("broken.csv", []byte("a,\"unterminated\n"))
	assert.Error(t, err)
}

func TestReadSheet_Workbook(t *testing.T) {
	f := excelize.NewFile()
	sheet := f.GetSheetName(f.GetActiveSheetIndex())
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]interface{}{"Name", "Amount"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]interface{}{"pCMV-GFP", "25 µg"}))

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))

	rows, err := ReadSheet("upload.xlsx", buf.Bytes())
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, []string{"Name", "Amount"}, rows[0])
	assert.Equal(t, []string{"pCMV-GFP", "25 µg"}, rows[1])
}

func TestReadSheet_CorruptWorkbook(t *testing.T) {
	_, err := ReadSheet("upload.xlsx", []byte("this is not a zip archive"))
	assert.Error(t, err)
}

func TestBuildImportTemplate_RoundTrips(t *testing.T) {
	data, err := BuildImportTemplate()
	require.NoError(t, err)

	rows, err := ReadSheet("template.xlsx", data)
	require.NoError(t, err)
	require.GreaterOrEqual(t, len(rows), 2)

	resolved := ResolveColumns(rows[0])
	assert.Contains(t, resolved, FieldName)
	assert.Contains(t, resolved, FieldCurrentAmount)
	assert.Contains(t, resolved, FieldStorageCondition)
	assert.Len(t, resolved, len(TemplateColumns()))
}
