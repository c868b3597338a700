package repository

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk-log/internal/domain"
)

// MemoryTicketStore keeps tickets in process memory.
type MemoryTicketStore struct {
	mu      sync.Mutex
	tickets map[string]domain.Ticket
	now     func() time.Time
	newID   func() string
}

// NewMemoryTicketStore returns an empty in-memory store.
func NewMemoryTicketStore() *MemoryTicketStore {
	return &MemoryTicketStore{
		tickets: make(map[string]domain.Ticket),
		now:     time.Now,
		newID:   uuid.NewString,
	}
}

// WithClock overrides the timestamp source.
func (s *MemoryTicketStore) WithClock(now func() time.Time) *MemoryTicketStore {
	s.now = now
	return s
}

// WithIDs overrides the id generator.
func (s *MemoryTicketStore) WithIDs(newID func() string) *MemoryTicketStore {
	s.newID = newID
	return s
}

// ListAll returns every stored ticket, oldest first.
func (s *MemoryTicketStore) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]domain.Ticket, 0, len(s.tickets))
	for _, ticket := range s.tickets {
		out = append(out, ticket)
	}
	sortByCreation(out)
	return out, nil
}

// Insert stores draft under a fresh id and creation time.
func (s *MemoryTicketStore) Insert(ctx context.Context, draft domain.TicketDraft) (*domain.Ticket, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ticket := draft.Ticket(s.newID(), s.now().UTC())
	s.tickets[ticket.ID] = ticket
	return &ticket, nil
}

// UpdateField sets one field of an existing ticket.
func (s *MemoryTicketStore) UpdateField(ctx context.Context, id string, field domain.TicketField, value string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := checkField(field); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	ticket, ok := s.tickets[id]
	if !ok {
		return ErrTicketNotFound
	}
	s.tickets[id] = ticket.WithField(field, value)
	return nil
}

// Delete removes a ticket by id.
func (s *MemoryTicketStore) Delete(ctx context.Context, id string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tickets[id]; !ok {
		return ErrTicketNotFound
	}
	delete(s.tickets, id)
	return nil
}
