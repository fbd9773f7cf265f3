package domain

import (
	"time"

	"github.com/google/uuid"
)

// Note is the persisted entity. CreationDate is set once at creation;
// EditDate stays nil until the first update.
type Note struct {
	ID           uuid.UUID  `json:"id"`
	UserID       uuid.UUID  `json:"user_id"`
	Title        string     `json:"title"`
	Details      string     `json:"details"`
	CreationDate time.Time  `json:"creation_date"`
	EditDate     *time.Time `json:"edit_date"`
}

// Request objects, one per operation. UserID is never decoded from the
// payload: handlers overwrite it with the authenticated user's id before the
// request enters the validation pipeline.

type CreateNoteRequest struct {
	UserID  uuid.UUID `json:"-" validate:"required"`
	Title   string    `json:"title" validate:"required,max=250"`
	Details string    `json:"details"`
}

type UpdateNoteRequest struct {
	UserID  uuid.UUID `json:"-" validate:"required"`
	ID      uuid.UUID `json:"id" validate:"required"`
	Title   string    `json:"title" validate:"required,max=250"`
	Details string    `json:"details"`
}

type DeleteNoteRequest struct {
	UserID uuid.UUID `json:"-" validate:"required"`
	ID     uuid.UUID `json:"-" validate:"required"`
}

type GetNoteDetailsRequest struct {
	UserID uuid.UUID `json:"-" validate:"required"`
	ID     uuid.UUID `json:"-" validate:"required"`
}

type GetNoteListRequest struct {
	UserID uuid.UUID `json:"-" validate:"required"`
}

// NoteDetails is the full projection returned by the detail endpoint. The
// owner id is not exposed.
type NoteDetails struct {
	ID           uuid.UUID  `json:"id"`
	Title        string     `json:"title"`
	Details      string     `json:"details"`
	CreationDate time.Time  `json:"creationDate"`
	EditDate     *time.Time `json:"editDate"`
}

// NoteListItem is the lightweight projection used by the list endpoint.
type NoteListItem struct {
	ID    uuid.UUID `json:"id"`
	Title string    `json:"title"`
}

type CreateNoteResponse struct {
	ID uuid.UUID `json:"id"`
}

func (n *Note) Detail() *NoteDetails {
	return &NoteDetails{
		ID:           n.ID,
		Title:        n.Title,
		Details:      n.Details,
		CreationDate: n.CreationDate,
		EditDate:     n.EditDate,
	}
}

// ListItem is applied per row while iterating a repository result set, so
// list responses never materialize the full entities twice.
func (n *Note) ListItem() NoteListItem {
	return NoteListItem{
		ID:    n.ID,
		Title: n.Title,
	}
}
