package dto

import "time"

// CreateNoteRequest is the body of POST /notes, as JSON or an HTML form.
type CreateNoteRequest struct {
	Title string `json:"title" form:"title" binding:"required,max=200"`
	Body  string `json:"body" form:"body" binding:"max=20000"`
}

// UpdateNoteRequest is the body of POST /notes/{id}/edit. Absent fields are left unchanged.
type UpdateNoteRequest struct {
	Title *string `json:"title" form:"title" binding:"omitempty,max=200"`
	Body  *string `json:"body" form:"body" binding:"omitempty,max=20000"`
}

type NoteResponse struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

type ListNotesResponse struct {
	Items []NoteResponse `json:"items"`
}

// ErrorResponse is every error body. It never carries note data.
type ErrorResponse struct {
	Error string `json:"error"`
}
