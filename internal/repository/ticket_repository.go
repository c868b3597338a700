package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"

	"github.com/spec-kit/helpdesk-log/internal/domain"
)

// ErrTicketNotFound is returned when a store has no record for an id.
var ErrTicketNotFound = errors.New("ticket not found")

// TicketStore is the durable collection of helpdesk tickets.
type TicketStore interface {
	ListAll(ctx context.Context) ([]domain.Ticket, error)
	Insert(ctx context.Context, draft domain.TicketDraft) (*domain.Ticket, error)
	UpdateField(ctx context.Context, id string, field domain.TicketField, value string) error
	Delete(ctx context.Context, id string) error
}

func checkField(field domain.TicketField) error {
	if !field.Valid() {
		return fmt.Errorf("unsupported ticket field %q", field)
	}
	return nil
}

// sortByCreation orders tickets oldest first, ties broken by id.
func sortByCreation(tickets []domain.Ticket) {
	sort.SliceStable(tickets, func(i, j int) bool {
		if tickets[i].CreatedAt.Equal(tickets[j].CreatedAt) {
			return tickets[i].ID < tickets[j].ID
		}
		return tickets[i].CreatedAt.Before(tickets[j].CreatedAt)
	})
}
