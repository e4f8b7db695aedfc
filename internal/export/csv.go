package export

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/abhisek/exambank/internal/bankio"
	"github.com/abhisek/exambank/internal/exam"
)

// CSVHeader is the column order of the exam spreadsheet.
var CSVHeader = []string{"number", "points", "type", "topic", "title", "wording", "choices", "solution", "explanation"}

// WriteCSV writes one row per question, in exam order, using the same
// delimiter as the bank file.
func WriteCSV(w io.Writer, e *exam.Exam) error {
	cw := csv.NewWriter(w)
	cw.Comma = bankio.Delimiter
	if err := cw.Write(CSVHeader); err != nil {
		return err
	}
	for i, en := range e.Entries() {
		q := en.Question
		row := []string{
			strconv.Itoa(i + 1),
			FormatPoints(en.Points),
			string(q.Type),
			q.Topic,
			q.Title,
			q.Wording,
			q.Choices,
			q.Solution,
			q.Explanation,
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}
