// Package review runs the console loop in which an author replaces
// questions and then approves or rejects a proposed exam.
package review

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/abhisek/exambank/internal/exam"
	"github.com/abhisek/exambank/internal/export"
)

// Decision is the outcome of a review.
type Decision int

const (
	DecisionRejected Decision = iota
	DecisionApproved
)

func (d Decision) String() string {
	if d == DecisionApproved {
		return "approved"
	}
	return "rejected"
}

// Replacer swaps a question of an exam. Manager implements it.
type Replacer interface {
	Replace(e *exam.Exam, n int) (bool, error)
}

// Prompt shows e on out and reads commands from in until the author
// approves or rejects it. End of input counts as a rejection.
func Prompt(in io.Reader, out io.Writer, e *exam.Exam, r Replacer) (Decision, error) {
	sc := bufio.NewScanner(in)
	readLine := func(prompt string) (string, bool) {
		fmt.Fprint(out, prompt)
		if !sc.Scan() {
			return "", false
		}
		return strings.TrimSpace(sc.Text()), true
	}

	for {
		if err := export.PrintBlueprint(out, exam.BuildBlueprint(e)); err != nil {
			return DecisionRejected, err
		}

		// Replacement phase.
		for {
			line, ok := readLine(fmt.Sprintf("\nEnter a question number to replace (1-%d), or 0 to stop replacing: ", e.Len()))
			if !ok {
				return DecisionRejected, sc.Err()
			}
			n, err := strconv.Atoi(line)
			if err != nil || n < 0 || n > e.Len() {
				fmt.Fprintf(out, "Invalid input %q. Please enter a number between 0 and %d.\n", line, e.Len())
				continue
			}
			if n == 0 {
				break
			}

			replaced, err := r.Replace(e, n)
			switch {
			case errors.Is(err, exam.ErrIndexOutOfRange):
				fmt.Fprintf(out, "Invalid input %q. Please enter a number between 0 and %d.\n", line, e.Len())
				continue
			case err != nil:
				return DecisionRejected, err
			case !replaced:
				fmt.Fprintf(out, "No replacement available for question %d.\n", n)
				continue
			}
			fmt.Fprintf(out, "Question %d replaced.\n", n)
			if err := export.PrintBlueprint(out, exam.BuildBlueprint(e)); err != nil {
				return DecisionRejected, err
			}
		}

		// Approval phase.
		back := false
		for !back {
			line, ok := readLine("\nApprove this exam? (yes / no / back): ")
			if !ok {
				return DecisionRejected, sc.Err()
			}
			switch strings.ToLower(line) {
			case "yes", "y":
				return DecisionApproved, nil
			case "no", "n":
				return DecisionRejected, nil
			case "back", "b":
				back = true
			default:
				fmt.Fprintf(out, "Invalid input %q. Please answer yes, no or back.\n", line)
			}
		}
	}
}
