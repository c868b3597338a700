package dto

import (
	"time"

	"github.com/spec-kit/helpdesk-log/internal/domain"
	"github.com/spec-kit/helpdesk-log/internal/notify"
	"github.com/spec-kit/helpdesk-log/internal/view"
)

// CreateTicketRequest is both the entry form and the JSON create payload.
type CreateTicketRequest struct {
	Employee string `json:"employee" form:"employee"`
	Issue    string `json:"issue" form:"issue"`
	Action   string `json:"action" form:"action"`
	Status   string `json:"status" form:"status"`
}

// UpdateStatusRequest payload.
type UpdateStatusRequest struct {
	Status string `json:"status" form:"status"`
}

// DeleteTicketForm carries the user's answer to the delete prompt.
type DeleteTicketForm struct {
	Confirm string `form:"confirm"`
}

// TicketResponse mirrors the stored record shape.
type TicketResponse struct {
	ID        string              `json:"id"`
	Employee  string              `json:"employee"`
	Issue     string              `json:"issue"`
	Action    string              `json:"action"`
	Status    domain.TicketStatus `json:"status"`
	CreatedAt time.Time           `json:"createdAt"`
}

// DashboardResponse is the last presented view.
type DashboardResponse struct {
	Counters   view.Counters        `json:"counters"`
	Completion view.Completion      `json:"completion"`
	Timeline   []view.TimelineEntry `json:"timeline"`
	Rows       []view.Row           `json:"rows"`
}

// NotificationsResponse lists active toasts, newest first.
type NotificationsResponse struct {
	Items []notify.Toast `json:"items"`
}

// NewTicketResponse converts a domain ticket.
func NewTicketResponse(t domain.Ticket) TicketResponse {
	return TicketResponse{
		ID:        t.ID,
		Employee:  t.Employee,
		Issue:     t.Issue,
		Action:    t.Action,
		Status:    t.Status,
		CreatedAt: t.CreatedAt,
	}
}

// NewTicketResponses converts a list, keeping its order.
func NewTicketResponses(tickets []domain.Ticket) []TicketResponse {
	out := make([]TicketResponse, 0, len(tickets))
	for _, t := range tickets {
		out = append(out, NewTicketResponse(t))
	}
	return out
}

// NewDashboardResponse converts a rendered page.
func NewDashboardResponse(page view.Page) DashboardResponse {
	return DashboardResponse{
		Counters:   page.Counters,
		Completion: page.Completion,
		Timeline:   page.Timeline,
		Rows:       page.Rows,
	}
}
