package source

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestReadRowsCSV(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devs.csv")
	data := "nombre,constructora,precio_inicial\n" +
		"Torre A,ACME,2000000\n" +
		",,\n" +
		"Torre B,ACME,\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	rows, err := ReadRows(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Torre A", rows[0]["nombre"])
	assert.Equal(t, "2000000", rows[0]["precio_inicial"])
	assert.Equal(t, "Torre B", rows[1]["nombre"])
}

func TestReadRowsXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devs.xlsx")

	f := excelize.NewFile()
	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", &[]string{"nombre", "constructora"}))
	require.NoError(t, f.SetSheetRow(sheet, "A2", &[]string{"Torre A", "ACME"}))
	// Short row: trailing columns stay absent.
	require.NoError(t, f.SetSheetRow(sheet, "A3", &[]string{"Torre B"}))
	require.NoError(t, f.SaveAs(path))

	rows, err := ReadRows(path)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "ACME", rows[0]["constructora"])
	_, present := rows[1]["constructora"]
	assert.False(t, present)
}

func TestReadRowsMissingFile(t *testing.T) {
	_, err := ReadRows(filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestReadRowsUnsupportedExtension(t *testing.T) {
	path := filepath.Join(t.TempDir(), "devs.txt")
	require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	_, err := ReadRows(path)
	assert.Error(t, err)
}
