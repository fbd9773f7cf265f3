package repository

import (
	"context"
	"fmt"
	"net/http"

	"notes-server/internal/domain"

	"github.com/go-kivik/kivik/v4"
	"github.com/google/uuid"
)

type NoteRepository interface {
	Create(ctx context.Context, note *domain.Note) error
	FindByID(ctx context.Context, id uuid.UUID) (*domain.Note, error)
	ListByUser(ctx context.Context, userID uuid.UUID, fn func(*domain.Note) error) error
	Update(ctx context.Context, note *domain.Note) error
	Delete(ctx context.Context, id uuid.UUID) error
}

type noteRepository struct {
	client *kivik.Client
	dbName string
}

func NewNoteRepository(client *kivik.Client, dbName string) NoteRepository {
	return &noteRepository{
		client: client,
		dbName: dbName,
	}
}

func noteDocID(id uuid.UUID) string {
	return fmt.Sprintf("note:%s", id)
}

// Create relies on the document key for id uniqueness: a second Put with the
// same fresh id would conflict, not overwrite.
func (r *noteRepository) Create(ctx context.Context, note *domain.Note) error {
	db := r.client.DB(r.dbName)

	_, err := db.Put(ctx, noteDocID(note.ID), note)
	if err != nil {
		return fmt.Errorf("failed to create note: %w", err)
	}

	return nil
}

func (r *noteRepository) FindByID(ctx context.Context, id uuid.UUID) (*domain.Note, error) {
	db := r.client.DB(r.dbName)

	row := db.Get(ctx, noteDocID(id))

	var note domain.Note
	if err := row.ScanDoc(&note); err != nil {
		if kivik.HTTPStatus(err) == http.StatusNotFound {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("failed to find note: %w", err)
	}

	return &note, nil
}

// ListByUser streams every note owned by userID through fn, one row at a
// time. The creation_date selector keeps user documents out of the result.
func (r *noteRepository) ListByUser(ctx context.Context, userID uuid.UUID, fn func(*domain.Note) error) error {
	db := r.client.DB(r.dbName)

	query := map[string]interface{}{
		"selector": map[string]interface{}{
			"user_id":       userID,
			"creation_date": map[string]interface{}{"$exists": true},
		},
	}

	rows := db.Find(ctx, query)
	if err := rows.Err(); err != nil {
		return fmt.Errorf("failed to list notes: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var note domain.Note
		if err := rows.ScanDoc(&note); err != nil {
			continue
		}
		if err := fn(&note); err != nil {
			return err
		}
	}

	return nil
}

// Update fetches the stored document first so the current _rev travels with
// the Put; CouchDB rejects writes without it. Concurrent writers race on the
// rev, which is the last-writer-wins model this system specifies.
func (r *noteRepository) Update(ctx context.Context, note *domain.Note) error {
	db := r.client.DB(r.dbName)
	docID := noteDocID(note.ID)

	var existing map[string]interface{}
	row := db.Get(ctx, docID)
	if err := row.ScanDoc(&existing); err != nil {
		if kivik.HTTPStatus(err) == http.StatusNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to fetch note for update: %w", err)
	}

	existing["title"] = note.Title
	existing["details"] = note.Details
	existing["edit_date"] = note.EditDate

	_, err := db.Put(ctx, docID, existing)
	if err != nil {
		return fmt.Errorf("failed to update note: %w", err)
	}

	return nil
}

func (r *noteRepository) Delete(ctx context.Context, id uuid.UUID) error {
	db := r.client.DB(r.dbName)
	docID := noteDocID(id)

	var existing map[string]interface{}
	row := db.Get(ctx, docID)
	if err := row.ScanDoc(&existing); err != nil {
		if kivik.HTTPStatus(err) == http.StatusNotFound {
			return ErrNotFound
		}
		return fmt.Errorf("failed to fetch note for delete: %w", err)
	}

	rev, _ := existing["_rev"].(string)
	if _, err := db.Delete(ctx, docID, rev); err != nil {
		return fmt.Errorf("failed to delete note: %w", err)
	}

	return nil
}
