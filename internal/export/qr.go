package export

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/go-pdf/fpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// SolutionCode holds the data encoded into a report's QR code. Scanning it
// yields everything needed to replay the winning log.
type SolutionCode struct {
	RunID     string `json:"run"`
	ProblemID string `json:"problem"`
	Score     int64  `json:"score"`
	Log       string `json:"log"`
}

// QR layout constants (mm).
const (
	qrSize    = 40.0
	qrPadding = 2.0
	qrPixels  = 256
)

// NewSolutionCode extracts the QR payload of a report.
func NewSolutionCode(r Report) SolutionCode {
	return SolutionCode{
		RunID:     r.RunID,
		ProblemID: r.ProblemID,
		Score:     r.Stats.Best.Score,
		Log:       r.Stats.Best.Log.String(),
	}
}

// EncodeQR renders code as a PNG QR image of size x size pixels.
func EncodeQR(code SolutionCode, size int) ([]byte, error) {
	data, err := json.Marshal(code)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal solution code: %w", err)
	}
	png, err := qrcode.Encode(string(data), qrcode.Medium, size)
	if err != nil {
		return nil, fmt.Errorf("failed to generate QR code: %w", err)
	}
	return png, nil
}

// renderQR draws the QR code of code with a caption at the given position.
// A log too long for a QR code is replaced by a note.
func renderQR(pdf *fpdf.Fpdf, x, y float64, code SolutionCode) {
	// Light border for the code area
	pdf.SetDrawColor(200, 200, 200)
	pdf.SetLineWidth(0.1)
	pdf.Rect(x, y, qrSize+2*qrPadding, qrSize+2*qrPadding+6, "D")

	qrPNG, err := EncodeQR(code, qrPixels)
	if err != nil {
		pdf.SetFont("Helvetica", "I", 7)
		pdf.SetTextColor(150, 100, 0)
		pdf.SetXY(x+qrPadding, y+qrSize/2)
		pdf.CellFormat(qrSize, 4, "Log too long for QR", "", 0, "C", false, 0, "")
		pdf.SetTextColor(0, 0, 0)
		return
	}

	imgName := fmt.Sprintf("qr_%s", code.RunID)
	pdf.RegisterImageOptionsReader(imgName, fpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrPNG))
	pdf.ImageOptions(imgName, x+qrPadding, y+qrPadding, qrSize, qrSize, false, fpdf.ImageOptions{ImageType: "PNG"}, 0, "")

	// Caption below the code
	pdf.SetFont("Helvetica", "", 6)
	pdf.SetTextColor(100, 100, 100)
	pdf.SetXY(x+qrPadding, y+qrPadding+qrSize+1)
	pdf.CellFormat(qrSize, 3, fmt.Sprintf("Score %d", code.Score), "", 0, "C", false, 0, "")

	// Reset text color
	pdf.SetTextColor(0, 0, 0)
}
