package domain

import "time"

// Note is the domain entity stored in the notes collection. It knows nothing
// about gin or the store behind it.
type Note struct {
	ID    string
	Title string
	Body  string

	CreatedAt time.Time
	UpdatedAt time.Time
}

// NotePatch carries a partial update. Nil fields are left unchanged.
type NotePatch struct {
	Title *string
	Body  *string
}

// Empty reports whether the patch changes nothing.
func (p NotePatch) Empty() bool {
	return p.Title == nil && p.Body == nil
}
