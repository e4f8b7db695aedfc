package draft

import (
	"fmt"
	"sort"
	"strings"

	"github.com/abhisek/exambank/internal/bank"
)

const systemPrompt = `You write questions for an instructor's exam question bank.

Rules:
- Every question must be answerable on its own, without figures.
- Titles are short labels and must differ from every title listed as taken.
- true_false questions: the solution is exactly "true" or "false" and choices is empty.
- multiple_choice questions: give 3 to 5 choices, exactly one correct; the solution repeats the correct choice verbatim.
- numerical questions: the solution is a plain number such as 42, -3.5 or 3/4, and choices is empty.
- The explanation justifies the solution in one or two sentences.`

// buildPrompt describes the batch to write and lists titles already taken
// for the same topic and type, capped at maxTitles.
func buildPrompt(in Input, taken map[string]bool, maxTitles int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Topic: %s\n", in.Topic)
	fmt.Fprintf(&b, "Type: %s\n", in.Type)
	if r := typeRule(in.Type); r != "" {
		fmt.Fprintf(&b, "Remember: %s\n", r)
	}
	fmt.Fprintf(&b, "Number of questions: %d\n", in.Count)
	if in.Guidance != "" {
		fmt.Fprintf(&b, "Guidance: %s\n", in.Guidance)
	}

	b.WriteString("\nTaken titles:\n")
	titles := make([]string, 0, len(taken))
	for t := range taken {
		titles = append(titles, t)
	}
	sort.Strings(titles)
	if maxTitles > 0 && len(titles) > maxTitles {
		titles = titles[:maxTitles]
	}
	if len(titles) == 0 {
		b.WriteString("None")
	}
	for _, t := range titles {
		fmt.Fprintf(&b, "- %s\n", t)
	}
	return strings.TrimRight(b.String(), "\n")
}

// typeRule returns the system prompt rule that applies to typ.
func typeRule(typ bank.Type) string {
	for _, line := range strings.Split(systemPrompt, "\n") {
		if strings.HasPrefix(line, "- "+string(typ)+" ") {
			return strings.TrimPrefix(line, "- ")
		}
	}
	return ""
}
