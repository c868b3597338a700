package domain

import (
	"strings"
	"time"
)

// TicketStatus enumerates lifecycle states for helpdesk tickets.
type TicketStatus string

const (
	TicketStatusPending    TicketStatus = "Pending"
	TicketStatusInProgress TicketStatus = "In Progress"
	TicketStatusCompleted  TicketStatus = "Completed"
)

// TicketStatuses lists every status in display order.
var TicketStatuses = []TicketStatus{
	TicketStatusPending,
	TicketStatusInProgress,
	TicketStatusCompleted,
}

// Valid reports whether s is one of the enumerated statuses.
func (s TicketStatus) Valid() bool {
	switch s {
	case TicketStatusPending, TicketStatusInProgress, TicketStatusCompleted:
		return true
	}
	return false
}

// ParseTicketStatus maps user input onto a status. Matching ignores case, blanks,
// underscores and dashes, so "in_progress", "InProgress" and "In Progress" agree.
func ParseTicketStatus(raw string) (TicketStatus, bool) {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer(" ", "", "_", "", "-", "").Replace(key)
	switch key {
	case "pending":
		return TicketStatusPending, true
	case "inprogress":
		return TicketStatusInProgress, true
	case "completed":
		return TicketStatusCompleted, true
	}
	return "", false
}

// TicketField names a ticket attribute a store can update in place.
type TicketField string

const (
	TicketFieldStatus   TicketField = "status"
	TicketFieldEmployee TicketField = "employee"
	TicketFieldIssue    TicketField = "issue"
	TicketFieldAction   TicketField = "action"
)

// Valid reports whether f is an updatable field.
func (f TicketField) Valid() bool {
	switch f {
	case TicketFieldStatus, TicketFieldEmployee, TicketFieldIssue, TicketFieldAction:
		return true
	}
	return false
}

// Ticket is one helpdesk request as held by the store and the in-memory list.
type Ticket struct {
	ID        string       `json:"id"`
	Employee  string       `json:"employee"`
	Issue     string       `json:"issue"`
	Action    string       `json:"action"`
	Status    TicketStatus `json:"status"`
	CreatedAt time.Time    `json:"createdAt"`
}

// TicketDraft is the validated submission handed to a store for insertion.
type TicketDraft struct {
	Employee string
	Issue    string
	Action   string
	Status   TicketStatus
}

// Ticket materializes the draft with a store-assigned id and timestamp.
func (d TicketDraft) Ticket(id string, createdAt time.Time) Ticket {
	status := d.Status
	if status == "" {
		status = TicketStatusPending
	}
	return Ticket{
		ID:        id,
		Employee:  d.Employee,
		Issue:     d.Issue,
		Action:    d.Action,
		Status:    status,
		CreatedAt: createdAt,
	}
}

// WithField returns a copy of t with field set to value.
func (t Ticket) WithField(field TicketField, value string) Ticket {
	switch field {
	case TicketFieldStatus:
		t.Status = TicketStatus(value)
	case TicketFieldEmployee:
		t.Employee = value
	case TicketFieldIssue:
		t.Issue = value
	case TicketFieldAction:
		t.Action = value
	}
	return t
}
