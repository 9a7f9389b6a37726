// Package todo holds the Todo aggregate: its fields, invariants and the
// optional-field patch used by update operations. It performs no I/O.
package todo

import (
	"strings"

	"github.com/jsamuelsen11/go-todo-service/internal/domain"
)

// Todo is the sole aggregate of the service. ID is assigned by the
// repository on creation and never changes afterwards.
type Todo struct {
	ID        int64
	Title     string
	Completed bool
}

// New builds an unsaved Todo with the given title and Completed set to false.
// It returns a *domain.ValidationError of kind domain.ErrInvalidTitle if the
// title is empty or whitespace-only.
func New(title string) (Todo, error) {
	t := Todo{Title: title}
	if err := t.Validate(); err != nil {
		return Todo{}, err
	}
	return t, nil
}

// Validate checks business rules for the Todo entity.
// Returns a *domain.ValidationError (wrapping domain.ErrInvalidTitle) or nil.
func (t *Todo) Validate() error {
	return ValidateTitle(t.Title, domain.MsgRequired)
}

// ValidateTitle reports whether title is acceptable for a stored Todo. msg is
// the message recorded against the "title" field on failure.
func ValidateTitle(title, msg string) error {
	if strings.TrimSpace(title) == "" {
		return domain.NewInvalidTitle(msg)
	}
	return nil
}

// NormalizeTitle trims surrounding whitespace.
func NormalizeTitle(title string) string {
	return strings.TrimSpace(title)
}
