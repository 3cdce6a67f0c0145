// Package importer reads starting canvases from block tables in CSV and
// Excel files and from rectangle outlines in DXF drawings. It supports
// automatic delimiter detection, flexible column mapping, and
// case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"sort"
	"strconv"
	"strings"

	"github.com/lucasb-eyer/go-colorful"
	"github.com/xuri/excelize/v2"

	"github.com/piwi3910/BlockPaint/internal/model"
)

// ErrImportFailed is returned by Canvas when the import reported errors.
var ErrImportFailed = errors.New("importer: import failed")

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Blocks   []model.BlockData
	Errors   []string
	Warnings []string
}

// Canvas assembles the imported blocks into a validated canvas whose size
// is the extent of the blocks.
func (r ImportResult) Canvas() (*model.Canvas, error) {
	if len(r.Errors) > 0 {
		return nil, fmt.Errorf("%w: %s", ErrImportFailed, strings.Join(r.Errors, "; "))
	}
	if len(r.Blocks) == 0 {
		return nil, fmt.Errorf("%w: no blocks", ErrImportFailed)
	}
	data := model.CanvasData{Blocks: r.Blocks}
	for _, b := range r.Blocks {
		data.Width = max(data.Width, b.TopRight[0])
		data.Height = max(data.Height, b.TopRight[1])
	}
	return model.CanvasFromData(data)
}

// ColumnMapping maps semantic column roles to their indices in the data.
// A color is read either from the Color column or from the R, G, B and A
// columns.
type ColumnMapping struct {
	ID     int
	Left   int
	Bottom int
	Right  int
	Top    int
	Color  int
	R      int
	G      int
	B      int
	A      int
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"id":     {"id", "block", "block id", "blockid", "name"},
	"left":   {"left", "x1", "x0", "min x", "left x"},
	"bottom": {"bottom", "y1", "y0", "min y", "bottom y"},
	"right":  {"right", "x2", "max x", "right x"},
	"top":    {"top", "y2", "max y", "top y"},
	"color":  {"color", "colour", "hex", "rgba", "fill"},
	"r":      {"r", "red"},
	"g":      {"g", "green"},
	"b":      {"b", "blue"},
	"a":      {"a", "alpha"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		// Prefer delimiters with higher consistency and more columns
		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// It performs case-insensitive matching against known aliases for each column role.
// Returns the mapping and true if a header was detected, or a default positional
// mapping (id, left, bottom, right, top, color) and false if no header was found.
func DetectColumns(row []string) (ColumnMapping, bool) {
	mapping := ColumnMapping{ID: -1, Left: -1, Bottom: -1, Right: -1, Top: -1, Color: -1, R: -1, G: -1, B: -1, A: -1}
	slots := map[string]*int{
		"id": &mapping.ID, "left": &mapping.Left, "bottom": &mapping.Bottom,
		"right": &mapping.Right, "top": &mapping.Top, "color": &mapping.Color,
		"r": &mapping.R, "g": &mapping.G, "b": &mapping.B, "a": &mapping.A,
	}

	isHeader := false
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			for _, alias := range aliases {
				if normalized == alias && *slots[role] == -1 {
					isHeader = true
					*slots[role] = i
				}
			}
		}
	}

	if !isHeader {
		return ColumnMapping{ID: 0, Left: 1, Bottom: 2, Right: 3, Top: 4, Color: 5, R: -1, G: -1, B: -1, A: -1}, false
	}
	return mapping, true
}

// ParseColor reads a color cell: "#rgb", "#rrggbb", "#rrggbbaa", or a list
// of three or four channel values such as "[12, 34, 56, 255]".
func ParseColor(s string) (model.Color, error) {
	s = strings.TrimSpace(s)
	if strings.HasPrefix(s, "#") {
		if len(s) != 4 && len(s) != 7 && len(s) != 9 {
			return model.Color{}, fmt.Errorf("invalid hex color %q", s)
		}
		alpha := uint8(255)
		if len(s) == 9 {
			a, err := strconv.ParseUint(s[7:], 16, 8)
			if err != nil {
				return model.Color{}, fmt.Errorf("invalid alpha in %q", s)
			}
			alpha = uint8(a)
			s = s[:7]
		}
		c, err := colorful.Hex(s)
		if err != nil {
			return model.Color{}, fmt.Errorf("invalid hex color %q", s)
		}
		r, g, b := c.RGB255()
		return model.RGBA(r, g, b, alpha), nil
	}

	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == '[' || r == ']' || r == ',' || r == ' ' || r == ';' || r == '/'
	})
	if len(fields) != 3 && len(fields) != 4 {
		return model.Color{}, fmt.Errorf("invalid color %q", s)
	}
	ch := [4]uint8{0, 0, 0, 255}
	for i, f := range fields {
		v, err := strconv.ParseUint(f, 10, 8)
		if err != nil {
			return model.Color{}, fmt.Errorf("invalid channel %q in color %q", f, s)
		}
		ch[i] = uint8(v)
	}
	return model.RGBA(ch[0], ch[1], ch[2], ch[3]), nil
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseRow extracts a block from a row using the given column mapping.
// Returns the block, any error message, and any warning message.
func parseRow(row []string, mapping ColumnMapping, rowLabel string, blockCount int) (model.BlockData, string, string) {
	id := getCell(row, mapping.ID)
	if id == "" {
		id = strconv.Itoa(blockCount)
	}

	var coords [4]int
	for i, col := range []struct {
		name string
		idx  int
	}{{"left", mapping.Left}, {"bottom", mapping.Bottom}, {"right", mapping.Right}, {"top", mapping.Top}} {
		s := getCell(row, col.idx)
		if s == "" {
			return model.BlockData{}, fmt.Sprintf("%s: Missing %s value", rowLabel, col.name), ""
		}
		v, err := strconv.Atoi(s)
		if err != nil {
			return model.BlockData{}, fmt.Sprintf("%s: Invalid %s '%s'", rowLabel, col.name, s), ""
		}
		coords[i] = v
	}
	if coords[0] < 0 || coords[1] < 0 || coords[2] <= coords[0] || coords[3] <= coords[1] {
		return model.BlockData{}, fmt.Sprintf("%s: Block must have positive size inside the first quadrant", rowLabel), ""
	}

	block := model.BlockData{
		BlockID:    id,
		BottomLeft: [2]int{coords[0], coords[1]},
		TopRight:   [2]int{coords[2], coords[3]},
	}

	var warning string
	color := model.White
	if s := getCell(row, mapping.Color); s != "" {
		c, err := ParseColor(s)
		if err != nil {
			warning = fmt.Sprintf("%s: %v, defaulting to white", rowLabel, err)
		} else {
			color = c
		}
	} else if mapping.R >= 0 || mapping.G >= 0 || mapping.B >= 0 {
		parts := []string{getCell(row, mapping.R), getCell(row, mapping.G), getCell(row, mapping.B)}
		if a := getCell(row, mapping.A); a != "" {
			parts = append(parts, a)
		}
		c, err := ParseColor(strings.Join(parts, ","))
		if err != nil {
			warning = fmt.Sprintf("%s: %v, defaulting to white", rowLabel, err)
		} else {
			color = c
		}
	}
	block.Color = [4]uint8{color.R, color.G, color.B, color.A}

	return block, "", warning
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports blocks from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
// Supports comma, semicolon, tab, and pipe delimiters.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports blocks from a CSV reader with a specific delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", nil)
}

// blocksSheet is the sheet ImportExcel prefers over the first sheet, so
// run history workbooks can be used as starting canvases.
const blocksSheet = "Blocks"

// ImportExcel imports blocks from the "Blocks" sheet of an Excel file, or
// from its first sheet when there is none.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	sheet := sheets[0]
	for _, name := range sheets {
		if strings.EqualFold(name, blocksSheet) {
			sheet = name
		}
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// importFromRows is the shared import logic for both CSV and Excel data.
// It detects headers, maps columns, and parses each row into a block.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")

		missing := []string{}
		for _, col := range []struct {
			name string
			idx  int
		}{{"Left", mapping.Left}, {"Bottom", mapping.Bottom}, {"Right", mapping.Right}, {"Top", mapping.Top}} {
			if col.idx == -1 {
				missing = append(missing, col.name)
			}
		}
		if len(missing) > 0 {
			result.Errors = append(result.Errors, fmt.Sprintf("Required columns not found in header: %s", strings.Join(missing, ", ")))
			return result
		}
	} else if len(rows[0]) >= 5 {
		// An unrecognized header has a non-numeric left coordinate
		if _, err := strconv.Atoi(strings.TrimSpace(rows[0][1])); err != nil {
			startRow = 1
			result.Warnings = append(result.Warnings, "Detected header row, skipping")
		}
	}

	seen := make(map[string]bool)
	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		block, errMsg, warning := parseRow(row, mapping, rowLabel, len(result.Blocks))
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		if seen[block.BlockID] {
			result.Errors = append(result.Errors, fmt.Sprintf("%s: Duplicate block id '%s'", rowLabel, block.BlockID))
			continue
		}
		seen[block.BlockID] = true
		if warning != "" {
			result.Warnings = append(result.Warnings, warning)
		}

		result.Blocks = append(result.Blocks, block)
	}

	return result
}

// sortBlocks orders blocks bottom to top, then left to right.
func sortBlocks(blocks []model.BlockData) {
	sort.SliceStable(blocks, func(i, j int) bool {
		if blocks[i].BottomLeft[1] != blocks[j].BottomLeft[1] {
			return blocks[i].BottomLeft[1] < blocks[j].BottomLeft[1]
		}
		return blocks[i].BottomLeft[0] < blocks[j].BottomLeft[0]
	})
}
