package packets

import "github.com/Nixie-Tech-LLC/familyhub/internal/model"

type CreateNoteRequest struct {
	Title    string  `json:"title" binding:"max=200"`
	Content  string  `json:"content"`
	Color    *string `json:"color" binding:"omitempty,max=20"`
	IsPinned bool    `json:"is_pinned"`
}

// UpdateNoteRequest carries the version the client last saw.
type UpdateNoteRequest struct {
	Title    *string `json:"title" binding:"omitempty,max=200"`
	Content  *string `json:"content"`
	Color    *string `json:"color" binding:"omitempty,max=20"`
	IsPinned *bool   `json:"is_pinned"`
	Version  int     `json:"version" binding:"required,min=1"`
}

type ConflictResponse struct {
	Error string     `json:"error"`
	Note  model.Note `json:"note"`
}
