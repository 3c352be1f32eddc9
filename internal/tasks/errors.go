package tasks

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/go-playground/validator/v10/non-standard/validators"
)

// ErrNotFound is returned by lookups that match no task.
var ErrNotFound = errors.New("task not found")

// ValidationError reports rejected input. No record is created when it is returned.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
)

func nameValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
		_ = validate.RegisterValidation("notblank", validators.NotBlank)
	})
	return validate
}

// normalizeName trims the name and rejects empty or whitespace-only input.
func normalizeName(name string) (string, error) {
	if err := nameValidator().Var(name, "required,notblank"); err != nil {
		return "", &ValidationError{Field: "name", Reason: "must not be empty"}
	}
	return strings.TrimSpace(name), nil
}
