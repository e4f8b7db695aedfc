package bank

import (
	"fmt"
	"strconv"
	"strings"
)

// ValidationError reports a field value outside its allowed set or format.
type ValidationError struct {
	Field   string
	Value   string
	Allowed []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s %q: valid %ss are: %s",
		e.Field, e.Value, e.Field, strings.Join(e.Allowed, ", "))
}

// RowError wraps a validation failure with the storage row it came from.
type RowError struct {
	Row int
	Err error
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %v", e.Row, e.Err)
}

func (e *RowError) Unwrap() error { return e.Err }

func typeNames() []string {
	out := make([]string, len(Types))
	for i, t := range Types {
		out[i] = string(t)
	}
	return out
}

func statusNames() []string {
	out := make([]string, len(Statuses))
	for i, s := range Statuses {
		out[i] = string(s)
	}
	return out
}

func itoa(n int) string { return strconv.Itoa(n) }
