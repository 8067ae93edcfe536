package testutil

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// SalesHeader is the column layout used by most data fixtures
var SalesHeader = []string{"order_id", "region", "quantity", "price"}

// WriteCSV writes header and rows as a comma separated file under dir and
// returns its path.
func WriteCSV(t *testing.T, dir, name string, header []string, rows [][]string) string {
	t.Helper()
	return writeDelimited(t, dir, name, ',', header, rows)
}

// WriteTSV is WriteCSV with a tab delimiter.
func WriteTSV(t *testing.T, dir, name string, header []string, rows [][]string) string {
	t.Helper()
	return writeDelimited(t, dir, name, '\t', header, rows)
}

func writeDelimited(t *testing.T, dir, name string, comma rune, header []string, rows [][]string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	f, err := os.Create(path)
	require.NoError(t, err)
	defer f.Close()

	w := csv.NewWriter(f)
	w.Comma = comma
	require.NoError(t, w.Write(header))
	require.NoError(t, w.WriteAll(rows))
	return path
}

// WriteRaw writes content verbatim, for malformed input cases.
func WriteRaw(t *testing.T, dir, name, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

// WriteXLSX writes header and rows to the first sheet of a new workbook.
func WriteXLSX(t *testing.T, dir, name string, header []string, rows [][]string) string {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	require.NoError(t, f.SetSheetRow(sheet, "A1", toRow(header)))
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, toRow(row)))
	}

	path := filepath.Join(dir, name)
	require.NoError(t, f.SaveAs(path))
	return path
}

func toRow(values []string) *[]interface{} {
	row := make([]interface{}, len(values))
	for i, v := range values {
		row[i] = v
	}
	return &row
}

// ClearGenAIEnv blanks every GENAI_* variable for the duration of the test so
// ambient developer settings cannot leak into resolver assertions.
func ClearGenAIEnv(t *testing.T) {
	t.Helper()

	for _, kv := range os.Environ() {
		key, _, _ := strings.Cut(kv, "=")
		if strings.HasPrefix(key, "GENAI_") {
			t.Setenv(key, "")
			os.Unsetenv(key)
		}
	}
}
