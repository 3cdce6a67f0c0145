package export

import (
	"bytes"
	"fmt"
	"image"
	"math"
	"time"

	"github.com/go-pdf/fpdf"

	"github.com/piwi3910/BlockPaint/internal/model"
)

// Page layout constants (A4 landscape in mm).
const (
	pageWidth    = 297.0
	pageHeight   = 210.0
	marginLeft   = 15.0
	marginRight  = 15.0
	marginTop    = 15.0
	marginBottom = 15.0
	headerHeight = 12.0
	statsHeight  = 20.0
	drawAreaTop  = marginTop + headerHeight + 5.0
	panelGap     = 10.0
	rowHeight    = 6.0
)

// ExportPDF generates a run report: the target and the best canvas side by
// side with block outlines and a QR code of the winning log, followed by
// summary pages with run statistics, per-operation costs, and the
// improvement history.
func ExportPDF(path string, report Report) error {
	if report.Final == nil {
		return fmt.Errorf("no result canvas to export")
	}

	pdf := fpdf.New("L", "mm", "A4", "")
	pdf.SetAutoPageBreak(false, marginBottom)

	pdf.AddPage()
	if err := renderResultPage(pdf, report); err != nil {
		return err
	}

	pdf.AddPage()
	if err := renderSummaryPage(pdf, report); err != nil {
		return err
	}

	return pdf.OutputFileAndClose(path)
}

// renderResultPage draws the target and result panels on the current page.
func renderResultPage(pdf *fpdf.Fpdf, report Report) error {
	canvas := report.Final
	best := report.Stats.Best

	// Title
	pdf.SetFont("Helvetica", "B", 14)
	pdf.SetXY(marginLeft, marginTop)
	title := fmt.Sprintf("Problem %s: %s (%d x %d px)", report.ProblemID, report.Settings.Algorithm, canvas.Width, canvas.Height)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, headerHeight, title, "", 0, "L", false, 0, "")

	// Stats line
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetXY(marginLeft, marginTop+headerHeight)
	stats := fmt.Sprintf("Score: %d | Cost: %d | Similarity: %d | Blocks: %d | Operations: %d",
		best.Score, best.Cost, best.Similarity, canvas.Len(), len(best.Log))
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 5, stats, "", 0, "L", false, 0, "")

	// Two panels share the drawing area left of the QR code
	qrBox := qrSize + 2*qrPadding
	drawWidth := pageWidth - marginLeft - marginRight - qrBox - panelGap
	drawHeight := pageHeight - drawAreaTop - marginBottom - statsHeight
	panelWidth := (drawWidth - panelGap) / 2

	scale := math.Min(panelWidth/float64(canvas.Width), drawHeight/float64(canvas.Height))
	canvasW := float64(canvas.Width) * scale
	canvasH := float64(canvas.Height) * scale

	targetX := marginLeft + (panelWidth-canvasW)/2
	resultX := marginLeft + panelWidth + panelGap + (panelWidth-canvasW)/2
	offsetY := drawAreaTop + 5

	drawPanelCaption(pdf, "Target", targetX, canvasW)
	if report.Target != nil {
		if err := placeImage(pdf, "target", report.Target, targetX, offsetY, canvasW, canvasH); err != nil {
			return err
		}
	} else {
		pdf.SetFillColor(240, 240, 240)
		pdf.Rect(targetX, offsetY, canvasW, canvasH, "F")
	}
	pdf.SetDrawColor(100, 100, 100)
	pdf.SetLineWidth(0.5)
	pdf.Rect(targetX, offsetY, canvasW, canvasH, "D")

	drawPanelCaption(pdf, "Result", resultX, canvasW)
	if err := placeImage(pdf, "result", Render(canvas), resultX, offsetY, canvasW, canvasH); err != nil {
		return err
	}
	drawBlockOutlines(pdf, canvas, scale, resultX, offsetY)

	// Dimension annotations along the edges
	drawDimensionAnnotations(pdf, canvas, resultX, offsetY, canvasW, canvasH)

	renderQR(pdf, pageWidth-marginRight-qrBox, offsetY, NewSolutionCode(report))

	// Block legend at bottom of page
	drawBlockLegend(pdf, canvas, offsetY+canvasH+6)
	return nil
}

func drawPanelCaption(pdf *fpdf.Fpdf, caption string, x, w float64) {
	pdf.SetFont("Helvetica", "B", 9)
	pdf.SetTextColor(80, 80, 80)
	pdf.SetXY(x, drawAreaTop)
	pdf.CellFormat(w, 4, caption, "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
}

// placeImage registers img as a PNG and draws it into the given box.
func placeImage(pdf *fpdf.Fpdf, name string, img image.Image, x, y, w, h float64) error {
	data, err := encodePNG(img)
	if err != nil {
		return err
	}
	pdf.RegisterImageOptionsReader(name, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(data))
	pdf.ImageOptions(name, x, y, w, h, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	return nil
}

// drawBlockOutlines strokes every block rectangle over the result panel
// and labels blocks that are large enough to hold their id.
func drawBlockOutlines(pdf *fpdf.Fpdf, canvas *model.Canvas, scale, offsetX, offsetY float64) {
	pdf.SetDrawColor(30, 30, 30)
	pdf.SetLineWidth(0.3)

	eachLeaf(canvas, func(id string, leaf model.Leaf) {
		r := leaf.Rect
		bw := float64(r.Width()) * scale
		bh := float64(r.Height()) * scale
		bx := offsetX + float64(r.Left)*scale
		by := offsetY + float64(canvas.Height-r.Top)*scale
		pdf.Rect(bx, by, bw, bh, "D")

		// Block id (only if rectangle is large enough)
		if bw > 12 && bh > 6 {
			pdf.SetFont("Helvetica", "", labelFontSize(bw, bh))
			pdf.SetTextColor(contrastGray(leaf.Color))
			labelW := pdf.GetStringWidth(id)
			if labelW < bw-2 {
				pdf.SetXY(bx+(bw-labelW)/2, by+bh/2-2)
				pdf.CellFormat(labelW, 4, id, "", 0, "C", false, 0, "")
			}
		}
	})

	// Reset text color
	pdf.SetTextColor(0, 0, 0)
}

// contrastGray picks black or white text for a label drawn over c.
func contrastGray(c model.Color) (int, int, int) {
	luma := 0.299*float64(c.R) + 0.587*float64(c.G) + 0.114*float64(c.B)
	if luma < 128 {
		return 255, 255, 255
	}
	return 0, 0, 0
}

// drawDimensionAnnotations adds width and height labels outside the canvas rectangle.
func drawDimensionAnnotations(pdf *fpdf.Fpdf, canvas *model.Canvas, offsetX, offsetY, canvasW, canvasH float64) {
	pdf.SetFont("Helvetica", "", 8)
	pdf.SetTextColor(80, 80, 80)

	// Width annotation (below the canvas)
	widthLabel := fmt.Sprintf("%d px", canvas.Width)
	wLabelW := pdf.GetStringWidth(widthLabel)
	pdf.SetXY(offsetX+(canvasW-wLabelW)/2, offsetY+canvasH+1)
	pdf.CellFormat(wLabelW, 4, widthLabel, "", 0, "C", false, 0, "")

	// Height annotation (to the left of the canvas, rotated)
	heightLabel := fmt.Sprintf("%d px", canvas.Height)
	pdf.TransformBegin()
	pdf.TransformRotate(90, offsetX-3, offsetY+canvasH/2)
	hLabelW := pdf.GetStringWidth(heightLabel)
	pdf.SetXY(offsetX-3-hLabelW/2, offsetY+canvasH/2-2)
	pdf.CellFormat(hLabelW, 4, heightLabel, "", 0, "C", false, 0, "")
	pdf.TransformEnd()

	// Reset text color
	pdf.SetTextColor(0, 0, 0)
}

// drawBlockLegend renders a compact legend of the final blocks at the bottom of the page.
func drawBlockLegend(pdf *fpdf.Fpdf, canvas *model.Canvas, startY float64) {
	pdf.SetFont("Helvetica", "B", 8)
	pdf.SetTextColor(0, 0, 0)
	pdf.SetXY(marginLeft, startY)
	pdf.CellFormat(30, 4, "Blocks:", "", 0, "L", false, 0, "")

	pdf.SetFont("Helvetica", "", 7)
	xPos := marginLeft + 32
	maxX := pageWidth - marginRight
	maxY := pageHeight - marginBottom - 4

	eachLeaf(canvas, func(id string, leaf model.Leaf) {
		if startY > maxY {
			return
		}
		label := fmt.Sprintf("%s %s (%dx%d)", id, HexColor(leaf.Color), leaf.Rect.Width(), leaf.Rect.Height())
		labelW := pdf.GetStringWidth(label) + 6

		// Wrap to next line if needed
		if xPos+labelW > maxX {
			startY += 5
			xPos = marginLeft
			if startY > maxY {
				return
			}
		}

		// Color swatch
		pdf.SetFillColor(int(leaf.Color.R), int(leaf.Color.G), int(leaf.Color.B))
		pdf.SetDrawColor(120, 120, 120)
		pdf.SetLineWidth(0.1)
		pdf.Rect(xPos, startY+0.5, 3, 3, "FD")

		// Label text
		pdf.SetXY(xPos+4, startY)
		pdf.CellFormat(labelW-4, 4, label, "", 0, "L", false, 0, "")

		xPos += labelW + 2
	})
}

// renderSummaryPage draws run statistics, the operation breakdown, and the
// improvement history, continuing on new pages as needed.
func renderSummaryPage(pdf *fpdf.Fpdf, report Report) error {
	stats := report.Stats
	settings := report.Settings

	// Title
	pdf.SetFont("Helvetica", "B", 16)
	pdf.SetXY(marginLeft, marginTop)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 10, "Run Summary", "", 0, "L", false, 0, "")

	// Separator line
	pdf.SetDrawColor(0, 0, 0)
	pdf.SetLineWidth(0.5)
	pdf.Line(marginLeft, marginTop+12, pageWidth-marginRight, marginTop+12)

	y := marginTop + 18

	summaryItems := []struct {
		label string
		value string
	}{
		{"Problem", report.ProblemID},
		{"Run", report.RunID},
		{"Algorithm", string(stats.Algorithm)},
		{"Strategy", string(stats.Strategy)},
		{"Candidates", fmt.Sprintf("%d", stats.Candidates)},
		{"Evaluated", fmt.Sprintf("%d", stats.Evaluated)},
		{"Skipped", fmt.Sprintf("%d", stats.Skipped)},
		{"Improvements", fmt.Sprintf("%d", stats.Improvements)},
		{"Duration", stats.Duration.Round(time.Millisecond).String()},
		{"Best Score", fmt.Sprintf("%d (cost %d + similarity %d)", stats.Best.Score, stats.Best.Cost, stats.Best.Similarity)},
	}
	y = drawKeyValues(pdf, "Overall Statistics", summaryItems, y)

	settingsItems := []struct {
		label string
		value string
	}{
		{"Step", stepLabel(settings.Step)},
		{"Workers", fmt.Sprintf("%d", settings.Workers)},
		{"Sampler", string(settings.Sampler)},
		{"Sample Stride", fmt.Sprintf("%d", settings.SampleStride)},
	}
	if settings.Strategy == model.StrategyGenetic {
		g := settings.Genetic
		settingsItems = append(settingsItems,
			struct{ label, value string }{"Population", fmt.Sprintf("%d", g.PopulationSize)},
			struct{ label, value string }{"Generations", fmt.Sprintf("%d", g.Generations)},
			struct{ label, value string }{"Seed", fmt.Sprintf("%d", g.Seed)},
		)
	}
	y = drawKeyValues(pdf, "Search Settings", settingsItems, y+3)

	costs, err := report.OperationCosts()
	if err != nil {
		return fmt.Errorf("failed to price winning log: %w", err)
	}
	opRows := make([][]string, 0, len(costs))
	for i, c := range costs {
		opRows = append(opRows, []string{fmt.Sprintf("%d", i+1), c.Operation.String(), fmt.Sprintf("%d", c.Cost)})
	}
	y = drawTable(pdf, "Operations", []float64{15, 150, 30}, []string{"#", "Operation", "Cost"}, opRows, y+5)

	histRows := make([][]string, 0, len(report.History))
	for i, imp := range report.History {
		histRows = append(histRows, []string{
			fmt.Sprintf("%d", i+1),
			imp.Elapsed.Round(time.Millisecond).String(),
			fmt.Sprintf("%d", imp.Result.Score),
			fmt.Sprintf("%d", imp.Result.Cost),
			fmt.Sprintf("%d", imp.Result.Similarity),
		})
	}
	drawTable(pdf, "Improvements", []float64{15, 40, 40, 40, 40}, []string{"#", "Elapsed", "Score", "Cost", "Similarity"}, histRows, y+5)

	// Footer
	pdf.SetFont("Helvetica", "I", 8)
	pdf.SetTextColor(120, 120, 120)
	pdf.SetXY(marginLeft, pageHeight-marginBottom)
	pdf.CellFormat(pageWidth-marginLeft-marginRight, 4, "Generated by BlockPaint - Block Painting Optimizer", "", 0, "C", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	return nil
}

// drawKeyValues renders a titled list of label/value pairs and returns the next free y.
func drawKeyValues(pdf *fpdf.Fpdf, title string, items []struct{ label, value string }, y float64) float64 {
	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, title, "", 0, "L", false, 0, "")
	y += 9

	pdf.SetFont("Helvetica", "", 10)
	for _, item := range items {
		pdf.SetXY(marginLeft+5, y)
		pdf.CellFormat(60, 6, item.label+":", "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "B", 10)
		pdf.CellFormat(150, 6, item.value, "", 0, "L", false, 0, "")
		pdf.SetFont("Helvetica", "", 10)
		y += 7
	}
	return y
}

// drawTable renders a titled table with alternating row backgrounds,
// repeating the header on a fresh page when the rows overflow. It returns
// the next free y.
func drawTable(pdf *fpdf.Fpdf, title string, colWidths []float64, headers []string, rows [][]string, y float64) float64 {
	if y+9+2*rowHeight > pageHeight-marginBottom {
		pdf.AddPage()
		y = marginTop
	}

	pdf.SetFont("Helvetica", "B", 12)
	pdf.SetXY(marginLeft, y)
	pdf.CellFormat(100, 7, title, "", 0, "L", false, 0, "")
	y += 9

	drawHeader := func() {
		pdf.SetFont("Helvetica", "B", 9)
		pdf.SetFillColor(230, 230, 230)
		xPos := marginLeft
		for i, header := range headers {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[i], rowHeight, header, "1", 0, "C", true, 0, "")
			xPos += colWidths[i]
		}
		y += rowHeight
		pdf.SetFont("Helvetica", "", 9)
	}
	drawHeader()

	for i, row := range rows {
		if y+rowHeight > pageHeight-marginBottom-5 {
			pdf.AddPage()
			y = marginTop
			drawHeader()
		}

		// Alternate row background
		if i%2 == 0 {
			pdf.SetFillColor(245, 245, 245)
		} else {
			pdf.SetFillColor(255, 255, 255)
		}

		xPos := marginLeft
		for j, cell := range row {
			pdf.SetXY(xPos, y)
			pdf.CellFormat(colWidths[j], rowHeight, cell, "1", 0, "C", true, 0, "")
			xPos += colWidths[j]
		}
		y += rowHeight
	}
	return y
}

func stepLabel(step int) string {
	if step <= 0 {
		return "topology default"
	}
	return fmt.Sprintf("%d", step)
}

// labelFontSize returns an appropriate font size based on the rectangle dimensions.
func labelFontSize(w, h float64) float64 {
	minDim := math.Min(w, h)
	switch {
	case minDim > 40:
		return 8
	case minDim > 20:
		return 7
	default:
		return 6
	}
}
