package events

import (
	"time"

	"github.com/spec-kit/helpdesk-log/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventTicketCreated       EventType = "ticket_created"
	EventTicketStatusChanged EventType = "ticket_status_changed"
	EventTicketDeleted       EventType = "ticket_deleted"
	EventTicketsRefreshed    EventType = "tickets_refreshed"
	EventMutationFailed      EventType = "mutation_failed"
)

// AllEventTypes lists every type a subscriber may want.
var AllEventTypes = []EventType{
	EventTicketCreated,
	EventTicketStatusChanged,
	EventTicketDeleted,
	EventTicketsRefreshed,
	EventMutationFailed,
}

// Event represents one applied (or rejected) mutation of the ticket list.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	TicketID  string      `json:"ticket_id,omitempty"`
	Employee  string      `json:"employee,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload,omitempty"`
}

// TicketCreatedPayload payload.
type TicketCreatedPayload struct {
	Issue  string              `json:"issue"`
	Status domain.TicketStatus `json:"status"`
}

// TicketStatusChangedPayload payload.
type TicketStatusChangedPayload struct {
	OldStatus domain.TicketStatus `json:"old_status"`
	NewStatus domain.TicketStatus `json:"new_status"`
}

// TicketsRefreshedPayload payload.
type TicketsRefreshedPayload struct {
	Count int `json:"count"`
}

// MutationFailedPayload describes a failure the user should hear about.
type MutationFailedPayload struct {
	Operation string `json:"operation"`
	Code      string `json:"code"`
	Message   string `json:"message"`
}
