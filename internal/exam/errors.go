package exam

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/abhisek/exambank/internal/bank"
)

// ErrIndexOutOfRange is returned when a question number does not name a
// position in the exam.
var ErrIndexOutOfRange = errors.New("question number out of range")

// ErrInvalidName is returned for exam names that cannot be used in
// export file names.
var ErrInvalidName = errors.New("invalid exam name")

// ValidateName checks that name is usable as part of a file name: not
// blank, no path separators, no control characters, and not a relative
// directory reference.
func ValidateName(name string) error {
	switch {
	case strings.TrimSpace(name) == "":
		return fmt.Errorf("%w: name is empty", ErrInvalidName)
	case strings.ContainsAny(name, `/\`):
		return fmt.Errorf("%w: %q contains a path separator", ErrInvalidName, name)
	case name == "." || name == "..":
		return fmt.Errorf("%w: %q", ErrInvalidName, name)
	case strings.ContainsFunc(name, unicode.IsControl):
		return fmt.Errorf("%w: %q contains control characters", ErrInvalidName, name)
	}
	return nil
}

// InsufficientPoolError reports a requirement the bank cannot satisfy.
type InsufficientPoolError struct {
	Topic     string
	Type      bank.Type
	Required  int
	Available int
}

func (e *InsufficientPoolError) Error() string {
	return fmt.Sprintf("not enough questions of type %s for topic %q: need %d, have %d",
		e.Type, e.Topic, e.Required, e.Available)
}
