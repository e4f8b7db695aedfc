package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/jung-kurt/gofpdf"

	"github.com/abhisek/exambank/internal/exam"
)

// WritePDF renders the blueprint as an A4 PDF using the core Arial font.
// Text is translated to cp1252, so characters outside it are replaced.
func WritePDF(w io.Writer, e *exam.Exam) error {
	bp := exam.BuildBlueprint(e)

	pdf := gofpdf.New("P", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")
	pdf.SetTitle("Exam "+bp.ExamName+" Blueprint", true)
	pdf.AddPage()

	pdf.SetFont("Arial", "B", 16)
	pdf.CellFormat(0, 10, "EXAM BLUEPRINT", "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Arial", "", 12)
	pdf.CellFormat(0, 8, tr("Exam Name: "+bp.ExamName), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, fmt.Sprintf("Total Questions: %d", bp.TotalQuestions), "", 1, "L", false, 0, "")
	pdf.CellFormat(0, 8, "Total Points: "+FormatPoints(bp.TotalPoints), "", 1, "L", false, 0, "")
	pdf.Ln(6)

	for _, tg := range bp.Topics {
		pdf.SetFont("Arial", "B", 13)
		pdf.CellFormat(0, 9, tr(strings.ToUpper(tg.Topic)), "", 1, "L", false, 0, "")
		for _, yg := range tg.Types {
			pdf.SetFont("Arial", "I", 11)
			pdf.CellFormat(0, 7, yg.Type.DisplayName(), "", 1, "L", false, 0, "")
			pdf.SetFont("Arial", "", 11)
			for _, it := range yg.Items {
				pdf.MultiCell(0, 6, tr(ItemLine(it)), "", "L", false)
				pdf.Ln(1)
			}
		}
		pdf.Ln(4)
	}

	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}
