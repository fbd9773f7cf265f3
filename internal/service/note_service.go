package service

import (
	"context"
	"errors"
	"time"

	"notes-server/internal/domain"
	"notes-server/internal/metrics"
	"notes-server/internal/repository"
	"notes-server/internal/websocket"

	"github.com/google/uuid"
)

// NoteService performs one storage read and/or one write per operation.
// Validation has already happened by the time a request reaches it.
type NoteService struct {
	repo   repository.NoteRepository
	events *websocket.Manager
}

// NewNoteService wires the repository and an optional event manager; a nil
// manager disables change broadcasts.
func NewNoteService(repo repository.NoteRepository, events *websocket.Manager) *NoteService {
	return &NoteService{
		repo:   repo,
		events: events,
	}
}

func (s *NoteService) Create(ctx context.Context, req *domain.CreateNoteRequest) (uuid.UUID, error) {
	note := &domain.Note{
		ID:           uuid.New(),
		UserID:       req.UserID,
		Title:        req.Title,
		Details:      req.Details,
		CreationDate: time.Now(),
		EditDate:     nil,
	}

	if err := s.repo.Create(ctx, note); err != nil {
		return uuid.Nil, err
	}

	metrics.NotesCreated.Inc()
	s.broadcast(req.UserID, websocket.TypeNoteCreated, note)

	return note.ID, nil
}

func (s *NoteService) GetByID(ctx context.Context, req *domain.GetNoteDetailsRequest) (*domain.NoteDetails, error) {
	note, err := s.findOwned(ctx, req.ID, req.UserID)
	if err != nil {
		return nil, err
	}

	return note.Detail(), nil
}

// List returns the caller's notes as list items, projected per row while the
// result set is being read. Users with no notes get an empty slice.
func (s *NoteService) List(ctx context.Context, req *domain.GetNoteListRequest) ([]domain.NoteListItem, error) {
	items := []domain.NoteListItem{}

	err := s.repo.ListByUser(ctx, req.UserID, func(n *domain.Note) error {
		items = append(items, n.ListItem())
		return nil
	})
	if err != nil {
		return nil, err
	}

	return items, nil
}

func (s *NoteService) Update(ctx context.Context, req *domain.UpdateNoteRequest) error {
	note, err := s.findOwned(ctx, req.ID, req.UserID)
	if err != nil {
		return err
	}

	now := time.Now()
	note.Title = req.Title
	note.Details = req.Details
	note.EditDate = &now

	if err := s.repo.Update(ctx, note); err != nil {
		return err
	}

	s.broadcast(req.UserID, websocket.TypeNoteUpdated, note)

	return nil
}

func (s *NoteService) Delete(ctx context.Context, req *domain.DeleteNoteRequest) error {
	note, err := s.findOwned(ctx, req.ID, req.UserID)
	if err != nil {
		return err
	}

	if err := s.repo.Delete(ctx, req.ID); err != nil {
		return err
	}

	s.broadcast(req.UserID, websocket.TypeNoteDeleted, note)

	return nil
}

// findOwned looks a note up and checks ownership. A missing note and a note
// owned by someone else produce the same error.
func (s *NoteService) findOwned(ctx context.Context, id, userID uuid.UUID) (*domain.Note, error) {
	note, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNoteNotFound
		}
		return nil, err
	}

	if note.UserID != userID {
		return nil, ErrNoteNotFound
	}

	return note, nil
}

func (s *NoteService) broadcast(userID uuid.UUID, event websocket.MessageType, note *domain.Note) {
	if s.events == nil {
		return
	}

	msg, err := websocket.NewMessage(event, &websocket.NoteEventPayload{
		NoteID: note.ID,
		Title:  note.Title,
	})
	if err != nil {
		return
	}

	s.events.BroadcastToUser(userID.String(), msg)
}
