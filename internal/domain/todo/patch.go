package todo

import "github.com/jsamuelsen11/go-todo-service/internal/domain"

// Patch describes a partial update. Nil fields mean "leave unchanged".
type Patch struct {
	Title     *string
	Completed *bool
}

// IsEmpty returns true if the patch changes nothing.
func (p Patch) IsEmpty() bool {
	return p.Title == nil && p.Completed == nil
}

// Validate checks that any provided field holds an acceptable value.
func (p Patch) Validate() error {
	if p.Title != nil {
		return ValidateTitle(*p.Title, domain.MsgMustNotBeEmpty)
	}
	return nil
}

// Normalized returns a copy of the patch with a provided title trimmed.
func (p Patch) Normalized() Patch {
	if p.Title == nil {
		return p
	}
	title := NormalizeTitle(*p.Title)
	return Patch{Title: &title, Completed: p.Completed}
}

// ApplyTo returns t with the provided fields replaced. The ID is never touched.
func (p Patch) ApplyTo(t Todo) Todo {
	if p.Title != nil {
		t.Title = *p.Title
	}
	if p.Completed != nil {
		t.Completed = *p.Completed
	}
	return t
}
