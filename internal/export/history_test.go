package export

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/BlockPaint/internal/importer"
)

func TestExportHistory_Sheets(t *testing.T) {
	report := buildTestReport(t)
	path := filepath.Join(t.TempDir(), "history.xlsx")
	require.NoError(t, ExportHistory(path, report))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{SheetSummary, SheetImprovements, SheetOperations, SheetBlocks}, f.GetSheetList())

	improvements, err := f.GetRows(SheetImprovements)
	require.NoError(t, err)
	require.Len(t, improvements, 3, "header plus one row per improvement")
	assert.Equal(t, "Score", improvements[0][2])
	assert.Equal(t, "427", improvements[2][2])
	assert.Equal(t, report.Stats.Best.Log.String(), improvements[2][5])

	operations, err := f.GetRows(SheetOperations)
	require.NoError(t, err)
	require.Len(t, operations, 3)
	assert.Equal(t, []string{"1", "y-cut", "cut [0] [Y] [10]", "7"}, operations[1])
	assert.Equal(t, []string{"2", "color", "color [0.0] [0, 0, 0, 255]", "20"}, operations[2])

	score, err := f.GetCellValue(SheetSummary, "B10")
	require.NoError(t, err)
	assert.Equal(t, "427", score)
}

func TestExportHistory_BlocksReimport(t *testing.T) {
	report := buildTestReport(t)
	path := filepath.Join(t.TempDir(), "history.xlsx")
	require.NoError(t, ExportHistory(path, report))

	result := importer.ImportExcel(path)
	require.Empty(t, result.Errors)

	canvas, err := result.Canvas()
	require.NoError(t, err)
	assert.Equal(t, report.Final.Data(), canvas.Data())
}

func TestExportHistory_NoCanvas(t *testing.T) {
	report := buildTestReport(t)
	report.Final = nil
	assert.Error(t, ExportHistory(filepath.Join(t.TempDir(), "history.xlsx"), report))
}
