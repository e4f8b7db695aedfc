package exam

import "github.com/abhisek/exambank/internal/bank"

// Item is one numbered question in a blueprint.
type Item struct {
	Number int     `json:"number"`
	Points float64 `json:"points"`
	Title  string  `json:"title"`
	Text   string  `json:"text"`
}

// TypeGroup holds the items of one type within a topic.
type TypeGroup struct {
	Type  bank.Type `json:"type"`
	Items []Item    `json:"items"`
}

// TopicGroup holds the type groups of one topic.
type TopicGroup struct {
	Topic string      `json:"topic"`
	Types []TypeGroup `json:"types"`
}

// Blueprint is the grouped view of an exam used for display and export.
type Blueprint struct {
	ExamName       string       `json:"exam_name"`
	TotalQuestions int          `json:"total_questions"`
	TotalPoints    float64      `json:"total_points"`
	Topics         []TopicGroup `json:"blueprint"`
}

// BuildBlueprint groups e by topic, then type, in order of first
// appearance. Items keep their position in the exam.
func BuildBlueprint(e *Exam) Blueprint {
	bp := Blueprint{
		ExamName:       e.Name,
		TotalQuestions: e.Len(),
		TotalPoints:    e.TotalPoints(),
	}

	topicIdx := make(map[string]int)
	typeIdx := make(map[string]map[bank.Type]int)

	for i, en := range e.entries {
		q := en.Question
		ti, ok := topicIdx[q.Topic]
		if !ok {
			ti = len(bp.Topics)
			topicIdx[q.Topic] = ti
			typeIdx[q.Topic] = make(map[bank.Type]int)
			bp.Topics = append(bp.Topics, TopicGroup{Topic: q.Topic})
		}
		tg := &bp.Topics[ti]

		yi, ok := typeIdx[q.Topic][q.Type]
		if !ok {
			yi = len(tg.Types)
			typeIdx[q.Topic][q.Type] = yi
			tg.Types = append(tg.Types, TypeGroup{Type: q.Type})
		}
		tg.Types[yi].Items = append(tg.Types[yi].Items, Item{
			Number: i + 1,
			Points: en.Points,
			Title:  q.Title,
			Text:   q.Wording,
		})
	}
	return bp
}
