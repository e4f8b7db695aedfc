package draft

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/abhisek/exambank/internal/bank"
)

// Validator checks one drafted question before it can join the bank.
type Validator interface {
	Name() string
	Validate(c *candidate, typ bank.Type) *ValidationError
}

// ValidationError names the validator that rejected a draft and why.
type ValidationError struct {
	Validator string
	Message   string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validator %q: %s", e.Validator, e.Message)
}

// DefaultValidators is the chain run on every draft, in order.
func DefaultValidators() []Validator {
	return []Validator{
		StructuralValidator{MaxTitle: 80, MaxWording: 1000},
		TrueFalseValidator{},
		ChoicesValidator{Min: 3, Max: 5},
		NumericalValidator{},
	}
}

// StructuralValidator requires the text fields and bounds their length.
type StructuralValidator struct {
	MaxTitle   int
	MaxWording int
}

func (StructuralValidator) Name() string { return "structural" }

func (v StructuralValidator) Validate(c *candidate, _ bank.Type) *ValidationError {
	fail := func(msg string) *ValidationError { return &ValidationError{Validator: v.Name(), Message: msg} }
	switch {
	case strings.TrimSpace(c.Title) == "":
		return fail("title is empty")
	case strings.TrimSpace(c.Wording) == "":
		return fail("wording is empty")
	case strings.TrimSpace(c.Solution) == "":
		return fail("solution is empty")
	case v.MaxTitle > 0 && len(c.Title) > v.MaxTitle:
		return fail(fmt.Sprintf("title exceeds %d characters", v.MaxTitle))
	case v.MaxWording > 0 && len(c.Wording) > v.MaxWording:
		return fail(fmt.Sprintf("wording exceeds %d characters", v.MaxWording))
	case strings.ContainsAny(c.Title+c.Wording+c.Solution+c.Explanation, "\r\n"):
		return fail("fields must be single-line")
	}
	return nil
}

// TrueFalseValidator requires a true or false solution and no choices.
type TrueFalseValidator struct{}

func (TrueFalseValidator) Name() string { return "true-false" }

func (v TrueFalseValidator) Validate(c *candidate, typ bank.Type) *ValidationError {
	if typ != bank.TypeTrueFalse {
		return nil
	}
	if !isTrueFalseWord(c.Solution) {
		return &ValidationError{Validator: v.Name(), Message: fmt.Sprintf("solution %q is not true or false", c.Solution)}
	}
	if len(c.Choices) > 0 {
		return &ValidationError{Validator: v.Name(), Message: "true/false questions take no choices"}
	}
	return nil
}

func isTrueFalseWord(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "true" || s == "false"
}

// ChoicesValidator requires Min to Max distinct choices, one of which is
// the solution.
type ChoicesValidator struct {
	Min, Max int
}

func (ChoicesValidator) Name() string { return "choices" }

func (v ChoicesValidator) Validate(c *candidate, typ bank.Type) *ValidationError {
	if typ != bank.TypeMultipleChoice {
		return nil
	}
	fail := func(msg string) *ValidationError { return &ValidationError{Validator: v.Name(), Message: msg} }
	if len(c.Choices) < v.Min || (v.Max > 0 && len(c.Choices) > v.Max) {
		return fail(fmt.Sprintf("got %d choices, want %d to %d", len(c.Choices), v.Min, v.Max))
	}
	seen := make(map[string]bool, len(c.Choices))
	matches := 0
	for _, ch := range c.Choices {
		ch = strings.TrimSpace(ch)
		if ch == "" || strings.Contains(ch, ChoiceSeparator) {
			return fail(fmt.Sprintf("choice %q is empty or contains %q", ch, ChoiceSeparator))
		}
		if seen[ch] {
			return fail(fmt.Sprintf("duplicate choice %q", ch))
		}
		seen[ch] = true
		if ch == strings.TrimSpace(c.Solution) {
			matches++
		}
	}
	if matches != 1 {
		return fail(fmt.Sprintf("solution %q is not one of the choices", c.Solution))
	}
	return nil
}

// NumericalValidator requires a solution that parses as a number or a
// simple fraction, and no choices.
type NumericalValidator struct{}

func (NumericalValidator) Name() string { return "numerical" }

func (v NumericalValidator) Validate(c *candidate, typ bank.Type) *ValidationError {
	if typ != bank.TypeNumerical {
		return nil
	}
	if _, err := ParseNumber(c.Solution); err != nil {
		return &ValidationError{Validator: v.Name(), Message: err.Error()}
	}
	if len(c.Choices) > 0 {
		return &ValidationError{Validator: v.Name(), Message: "numerical questions take no choices"}
	}
	return nil
}

// ParseNumber reads an integer, decimal or a/b fraction.
func ParseNumber(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if num, den, ok := strings.Cut(s, "/"); ok {
		n, err1 := strconv.ParseFloat(strings.TrimSpace(num), 64)
		d, err2 := strconv.ParseFloat(strings.TrimSpace(den), 64)
		if err1 != nil || err2 != nil || d == 0 {
			return 0, fmt.Errorf("solution %q is not a valid fraction", s)
		}
		return n / d, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("solution %q is not a number", s)
	}
	return f, nil
}
