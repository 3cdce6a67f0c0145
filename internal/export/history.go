package export

import (
	"fmt"
	"time"

	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/BlockPaint/internal/model"
)

// Workbook sheet names written by ExportHistory.
const (
	SheetSummary      = "Summary"
	SheetImprovements = "Improvements"
	SheetOperations   = "Operations"
	SheetBlocks       = "Blocks"
)

// ExportHistory writes a workbook with the run summary, every reported
// improvement, the priced winning log, and the final canvas as a block
// table that the importer reads back as a starting canvas.
func ExportHistory(path string, report Report) error {
	if report.Final == nil {
		return fmt.Errorf("no result canvas to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetSummary); err != nil {
		return fmt.Errorf("failed to name summary sheet: %w", err)
	}
	for _, name := range []string{SheetImprovements, SheetOperations, SheetBlocks} {
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to add sheet %s: %w", name, err)
		}
	}

	header, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"E6E6E6"}},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	if err := writeSummarySheet(f, report); err != nil {
		return err
	}

	impRows := make([][]interface{}, 0, len(report.History))
	for i, imp := range report.History {
		impRows = append(impRows, []interface{}{
			i + 1, imp.Elapsed.Seconds(), imp.Result.Score, imp.Result.Cost, imp.Result.Similarity, imp.Result.Log.String(),
		})
	}
	if err := writeTable(f, SheetImprovements, header,
		[]interface{}{"#", "Elapsed (s)", "Score", "Cost", "Similarity", "Log"}, impRows); err != nil {
		return err
	}

	costs, err := report.OperationCosts()
	if err != nil {
		return fmt.Errorf("failed to price winning log: %w", err)
	}
	opRows := make([][]interface{}, 0, len(costs))
	for i, c := range costs {
		opRows = append(opRows, []interface{}{i + 1, c.Operation.Kind.String(), c.Operation.String(), c.Cost})
	}
	if err := writeTable(f, SheetOperations, header,
		[]interface{}{"#", "Kind", "Operation", "Cost"}, opRows); err != nil {
		return err
	}

	if err := writeBlocksSheet(f, report.Final, header); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

func writeSummarySheet(f *excelize.File, report Report) error {
	stats := report.Stats
	rows := [][]interface{}{
		{"Problem", report.ProblemID},
		{"Run", report.RunID},
		{"Algorithm", string(stats.Algorithm)},
		{"Strategy", string(stats.Strategy)},
		{"Candidates", stats.Candidates},
		{"Evaluated", stats.Evaluated},
		{"Skipped", stats.Skipped},
		{"Improvements", stats.Improvements},
		{"Duration", stats.Duration.Round(time.Millisecond).String()},
		{"Score", stats.Best.Score},
		{"Cost", stats.Best.Cost},
		{"Similarity", stats.Best.Similarity},
		{"Log", stats.Best.Log.String()},
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+1)
		if err := f.SetSheetRow(SheetSummary, cell, &row); err != nil {
			return fmt.Errorf("failed to write summary: %w", err)
		}
	}
	return f.SetColWidth(SheetSummary, "A", "A", 16)
}

// writeTable writes a header row and data rows to sheet and freezes the header.
func writeTable(f *excelize.File, sheet string, headerStyle int, headers []interface{}, rows [][]interface{}) error {
	if err := f.SetSheetRow(sheet, "A1", &headers); err != nil {
		return fmt.Errorf("failed to write %s header: %w", sheet, err)
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(sheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("failed to style %s header: %w", sheet, err)
	}
	for i, row := range rows {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write %s row %d: %w", sheet, i+1, err)
		}
	}
	return f.SetPanes(sheet, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"})
}

// writeBlocksSheet writes one row per painted rectangle with a swatch fill
// on the color cell.
func writeBlocksSheet(f *excelize.File, canvas *model.Canvas, headerStyle int) error {
	var rows [][]interface{}
	var colors []model.Color
	eachLeaf(canvas, func(id string, leaf model.Leaf) {
		r := leaf.Rect
		rows = append(rows, []interface{}{id, r.Left, r.Bottom, r.Right, r.Top, HexColor(leaf.Color)})
		colors = append(colors, leaf.Color)
	})
	if err := writeTable(f, SheetBlocks, headerStyle,
		[]interface{}{"Block", "Left", "Bottom", "Right", "Top", "Color"}, rows); err != nil {
		return err
	}

	for i, c := range colors {
		style, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{HexColor(model.RGBA(c.R, c.G, c.B, 255))[1:]}},
		})
		if err != nil {
			return fmt.Errorf("failed to create swatch style: %w", err)
		}
		cell, _ := excelize.CoordinatesToCellName(6, i+2)
		if err := f.SetCellStyle(SheetBlocks, cell, cell, style); err != nil {
			return fmt.Errorf("failed to style block row %d: %w", i+1, err)
		}
	}
	return nil
}
