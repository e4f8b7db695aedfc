package export

import (
	"fmt"
	"io"
	"strings"

	"github.com/abhisek/exambank/internal/exam"
)

// WriteMarkdown renders the blueprint as a Markdown document.
func WriteMarkdown(w io.Writer, e *exam.Exam) error {
	bp := exam.BuildBlueprint(e)

	var b strings.Builder
	b.WriteString("# EXAM BLUEPRINT\n\n")
	fmt.Fprintf(&b, "Exam Name: %s\n\n", bp.ExamName)
	fmt.Fprintf(&b, "Total Questions: %d\n\n", bp.TotalQuestions)
	fmt.Fprintf(&b, "Total Points: %s\n\n", FormatPoints(bp.TotalPoints))
	for _, tg := range bp.Topics {
		fmt.Fprintf(&b, "## %s\n\n", strings.ToUpper(tg.Topic))
		for _, yg := range tg.Types {
			fmt.Fprintf(&b, "### %s\n\n", yg.Type.DisplayName())
			for _, it := range yg.Items {
				fmt.Fprintf(&b, "**Q%02d - %s Pts** - %s\n\n", it.Number, FormatPoints(it.Points), it.Text)
			}
		}
	}
	_, err := io.WriteString(w, b.String())
	return err
}
