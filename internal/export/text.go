package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/abhisek/exambank/internal/exam"
)

// WriteText prints the blueprint for the console.
func WriteText(w io.Writer, e *exam.Exam) error {
	return PrintBlueprint(w, exam.BuildBlueprint(e))
}

// PrintBlueprint prints bp as plain text.
func PrintBlueprint(w io.Writer, bp exam.Blueprint) error {
	var b strings.Builder
	b.WriteString("\nEXAM BLUEPRINT\n\n")
	fmt.Fprintf(&b, "Exam Name: %s\n", bp.ExamName)
	fmt.Fprintf(&b, "Total Questions: %d\n", bp.TotalQuestions)
	fmt.Fprintf(&b, "Total Points: %s\n\n", FormatPoints(bp.TotalPoints))
	for _, tg := range bp.Topics {
		b.WriteString(strings.ToUpper(tg.Topic) + "\n")
		for _, yg := range tg.Types {
			fmt.Fprintf(&b, "  %s\n", yg.Type.DisplayName())
			for _, it := range yg.Items {
				b.WriteString("    " + ItemLine(it) + "\n")
			}
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
