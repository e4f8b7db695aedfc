package export

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/abhisek/exambank/internal/bank"
	"github.com/abhisek/exambank/internal/exam"
)

// document is the JSON export layout.
type document struct {
	ExamName       string            `json:"exam_name"`
	TotalQuestions int               `json:"total_questions"`
	TotalPoints    float64           `json:"total_points"`
	Blueprint      []exam.TopicGroup `json:"blueprint"`
	Questions      []questionDoc     `json:"questions"`
}

type questionDoc struct {
	Number      int     `json:"number"`
	Points      float64 `json:"points"`
	Type        string  `json:"type"`
	Topic       string  `json:"topic"`
	Title       string  `json:"title"`
	Wording     string  `json:"wording"`
	Choices     string  `json:"choices,omitempty"`
	Solution    string  `json:"solution"`
	Explanation string  `json:"explanation,omitempty"`
	Status      string  `json:"status"`
	Counter     int     `json:"counter"`
	Last        string  `json:"last,omitempty"`
}

// WriteJSON writes the blueprint and the flat question list.
func WriteJSON(w io.Writer, e *exam.Exam) error {
	bp := exam.BuildBlueprint(e)
	doc := document{
		ExamName:       bp.ExamName,
		TotalQuestions: bp.TotalQuestions,
		TotalPoints:    bp.TotalPoints,
		Blueprint:      bp.Topics,
	}
	for i, en := range e.Entries() {
		f := en.Question.Fields()
		doc.Questions = append(doc.Questions, questionDoc{
			Number:      i + 1,
			Points:      en.Points,
			Type:        f.Type,
			Topic:       f.Topic,
			Title:       f.Title,
			Wording:     f.Wording,
			Choices:     f.Choices,
			Solution:    f.Solution,
			Explanation: f.Explanation,
			Status:      f.Status,
			Counter:     f.Counter,
			Last:        f.Last,
		})
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "    ")
	return enc.Encode(doc)
}

// LoadJSON reads a JSON export back into an exam. The questions are
// standalone records, not references into a bank.
func LoadJSON(r io.Reader) (*exam.Exam, error) {
	var doc document
	if err := json.NewDecoder(r).Decode(&doc); err != nil {
		return nil, fmt.Errorf("decode exam: %w", err)
	}
	if doc.ExamName == "" {
		return nil, fmt.Errorf("decode exam: missing exam_name")
	}
	if err := exam.ValidateName(doc.ExamName); err != nil {
		return nil, fmt.Errorf("decode exam: %w", err)
	}

	e := exam.New(doc.ExamName)
	for i, qd := range doc.Questions {
		q, err := bank.NewQuestion(bank.Fields{
			Type:        qd.Type,
			Topic:       qd.Topic,
			Title:       qd.Title,
			Wording:     qd.Wording,
			Choices:     qd.Choices,
			Solution:    qd.Solution,
			Explanation: qd.Explanation,
			Status:      qd.Status,
			Counter:     qd.Counter,
			Last:        qd.Last,
		})
		if err != nil {
			return nil, fmt.Errorf("question %d: %w", i+1, err)
		}
		e.Add(q, qd.Points)
	}
	return e, nil
}
