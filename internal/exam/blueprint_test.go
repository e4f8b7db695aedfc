package exam

import (
	"reflect"
	"testing"

	"github.com/abhisek/exambank/internal/bank"
)

func TestBuildBlueprint(t *testing.T) {
	e := New("Final")
	e.Add(q(bank.TypeNumerical, "Optics", "o1", 0, ""), 2)
	e.Add(q(bank.TypeTrueFalse, "Mechanics", "m1", 0, ""), 1)
	e.Add(q(bank.TypeNumerical, "Optics", "o2", 0, ""), 2)
	e.Add(q(bank.TypeTrueFalse, "Optics", "o3", 0, ""), 0.5)

	bp := BuildBlueprint(e)

	want := Blueprint{
		ExamName:       "Final",
		TotalQuestions: 4,
		TotalPoints:    5.5,
		Topics: []TopicGroup{
			{Topic: "Optics", Types: []TypeGroup{
				{Type: bank.TypeNumerical, Items: []Item{
					{Number: 1, Points: 2, Title: "o1", Text: "o1 wording"},
					{Number: 3, Points: 2, Title: "o2", Text: "o2 wording"},
				}},
				{Type: bank.TypeTrueFalse, Items: []Item{
					{Number: 4, Points: 0.5, Title: "o3", Text: "o3 wording"},
				}},
			}},
			{Topic: "Mechanics", Types: []TypeGroup{
				{Type: bank.TypeTrueFalse, Items: []Item{
					{Number: 2, Points: 1, Title: "m1", Text: "m1 wording"},
				}},
			}},
		},
	}
	if !reflect.DeepEqual(bp, want) {
		t.Fatalf("blueprint mismatch:\n got %+v\nwant %+v", bp, want)
	}

	if again := BuildBlueprint(e); !reflect.DeepEqual(bp, again) {
		t.Fatal("BuildBlueprint is not stable across calls")
	}
}

func TestBuildBlueprint_Empty(t *testing.T) {
	bp := BuildBlueprint(New("Empty"))
	if bp.TotalQuestions != 0 || bp.TotalPoints != 0 || len(bp.Topics) != 0 {
		t.Fatalf("unexpected blueprint for empty exam: %+v", bp)
	}
}
