package state

import (
	"github.com/spec-kit/helpdesk-log/internal/domain"
	apperrors "github.com/spec-kit/helpdesk-log/pkg/util/errorutil"
)

// TicketList is the in-memory mirror of the record store, kept in ascending
// creation order. It is not safe for concurrent use; its owner serializes access.
type TicketList struct {
	tickets []domain.Ticket
	index   map[string]int
}

// NewTicketList returns an empty list.
func NewTicketList() *TicketList {
	return &TicketList{index: make(map[string]int)}
}

// Load replaces the whole list. Entries are trusted as-is; a repeated id keeps
// the later record at the earlier record's position.
func (l *TicketList) Load(tickets []domain.Ticket) {
	l.tickets = make([]domain.Ticket, 0, len(tickets))
	l.index = make(map[string]int, len(tickets))
	for _, ticket := range tickets {
		if pos, ok := l.index[ticket.ID]; ok {
			l.tickets[pos] = ticket
			continue
		}
		l.index[ticket.ID] = len(l.tickets)
		l.tickets = append(l.tickets, ticket)
	}
}

// Append adds a ticket at the end of the list.
func (l *TicketList) Append(ticket domain.Ticket) error {
	if _, ok := l.index[ticket.ID]; ok {
		return apperrors.NewDuplicateID("ticket", ticket.ID)
	}
	l.index[ticket.ID] = len(l.tickets)
	l.tickets = append(l.tickets, ticket)
	return nil
}

// Replace overwrites the entry with the same id, keeping its position.
func (l *TicketList) Replace(ticket domain.Ticket) error {
	pos, ok := l.index[ticket.ID]
	if !ok {
		return notFound(ticket.ID)
	}
	l.tickets[pos] = ticket
	return nil
}

// UpdateStatus sets the status of one ticket in place.
func (l *TicketList) UpdateStatus(id string, status domain.TicketStatus) error {
	pos, ok := l.index[id]
	if !ok {
		return notFound(id)
	}
	l.tickets[pos].Status = status
	return nil
}

// Remove drops one ticket, preserving the relative order of the rest.
func (l *TicketList) Remove(id string) error {
	pos, ok := l.index[id]
	if !ok {
		return notFound(id)
	}
	l.tickets = append(l.tickets[:pos], l.tickets[pos+1:]...)
	delete(l.index, id)
	for i := pos; i < len(l.tickets); i++ {
		l.index[l.tickets[i].ID] = i
	}
	return nil
}

// Get returns the ticket with the given id.
func (l *TicketList) Get(id string) (domain.Ticket, bool) {
	pos, ok := l.index[id]
	if !ok {
		return domain.Ticket{}, false
	}
	return l.tickets[pos], true
}

// Len returns the number of tickets.
func (l *TicketList) Len() int {
	return len(l.tickets)
}

// Snapshot returns a copy of the list in order.
func (l *TicketList) Snapshot() []domain.Ticket {
	out := make([]domain.Ticket, len(l.tickets))
	copy(out, l.tickets)
	return out
}

func notFound(id string) error {
	return apperrors.NewNotFound("ticket", map[string]any{"id": id})
}
