package view

import (
	"fmt"
	"math"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/spec-kit/helpdesk-log/internal/domain"
)

const (
	// TimelineSize is how many recent tickets the timeline shows.
	TimelineSize = 5
	// DateLayout formats ticket timestamps in rows and the timeline.
	DateLayout = "2006-01-02 15:04"
)

// Options carries the per-pass inputs that are not part of the ticket list.
type Options struct {
	// Highlight marks the row of the most recently added or changed ticket.
	Highlight string
	// Expanded holds ids whose action text is shown in full.
	Expanded map[string]bool
}

// Row is one table line.
type Row struct {
	ID         string              `json:"id"`
	Date       string              `json:"date"`
	Employee   string              `json:"employee"`
	Issue      string              `json:"issue"`
	Action     ActionText          `json:"action"`
	Status     domain.TicketStatus `json:"status"`
	StatusSlug string              `json:"status_slug"`
	Highlight  bool                `json:"highlight"`
	ToggleHref string              `json:"toggle_href,omitempty"`
}

// Counters partitions the list by status.
type Counters struct {
	Total      int `json:"total"`
	Pending    int `json:"pending"`
	InProgress int `json:"in_progress"`
	Completed  int `json:"completed"`
}

// Completion drives the radial indicator.
type Completion struct {
	Percent int `json:"percent"`
	Degrees int `json:"degrees"`
}

// TimelineEntry is a one-line summary of a recent ticket.
type TimelineEntry struct {
	TicketID string `json:"ticket_id"`
	Summary  string `json:"summary"`
}

// Page is everything the dashboard shows, derived from the ticket list alone.
type Page struct {
	Rows       []Row                 `json:"rows"`
	Counters   Counters              `json:"counters"`
	Completion Completion            `json:"completion"`
	Timeline   []TimelineEntry       `json:"timeline"`
	Statuses   []domain.TicketStatus `json:"statuses"`
}

// Render derives the page from tickets. It reads nothing else, so equal inputs
// give equal pages.
func Render(tickets []domain.Ticket, opts Options) Page {
	rows := make([]Row, 0, len(tickets))
	for _, ticket := range tickets {
		action := NewActionText(ticket.Action)
		if opts.Expanded[ticket.ID] {
			action = action.Toggle()
		}
		row := Row{
			ID:        ticket.ID,
			Date:      formatDate(ticket.CreatedAt),
			Employee:  ticket.Employee,
			Issue:     ticket.Issue,
			Action:    action,
			Status:    displayStatus(ticket.Status),
			Highlight: opts.Highlight != "" && ticket.ID == opts.Highlight,
		}
		row.StatusSlug = statusSlug(row.Status)
		if action.Truncated {
			row.ToggleHref = toggleHref(opts.Expanded, ticket.ID)
		}
		rows = append(rows, row)
	}

	counters := CountTickets(tickets)
	return Page{
		Rows:       rows,
		Counters:   counters,
		Completion: CompletionOf(counters),
		Timeline:   BuildTimeline(tickets),
		Statuses:   append([]domain.TicketStatus(nil), domain.TicketStatuses...),
	}
}

// CountTickets tallies statuses; anything unrecognized counts as pending.
func CountTickets(tickets []domain.Ticket) Counters {
	c := Counters{Total: len(tickets)}
	for _, ticket := range tickets {
		switch displayStatus(ticket.Status) {
		case domain.TicketStatusInProgress:
			c.InProgress++
		case domain.TicketStatusCompleted:
			c.Completed++
		default:
			c.Pending++
		}
	}
	return c
}

// CompletionOf computes the completed share as a whole percent and ring angle.
func CompletionOf(c Counters) Completion {
	if c.Total <= 0 {
		return Completion{}
	}
	percent := int(math.Round(100 * float64(c.Completed) / float64(c.Total)))
	if percent < 0 {
		percent = 0
	}
	if percent > 100 {
		percent = 100
	}
	return Completion{
		Percent: percent,
		Degrees: int(math.Round(float64(percent) / 100 * 360)),
	}
}

// BuildTimeline returns the most recent tickets, newest first.
func BuildTimeline(tickets []domain.Ticket) []TimelineEntry {
	start := len(tickets) - TimelineSize
	if start < 0 {
		start = 0
	}
	entries := make([]TimelineEntry, 0, len(tickets)-start)
	for i := len(tickets) - 1; i >= start; i-- {
		t := tickets[i]
		entries = append(entries, TimelineEntry{
			TicketID: t.ID,
			Summary: fmt.Sprintf("%s — %s: %s (%s)",
				formatDate(t.CreatedAt), t.Employee, t.Issue, displayStatus(t.Status)),
		})
	}
	return entries
}

// ParseExpanded reads the comma separated expand query value.
func ParseExpanded(raw string) map[string]bool {
	expanded := map[string]bool{}
	for _, id := range strings.Split(raw, ",") {
		if id = strings.TrimSpace(id); id != "" {
			expanded[id] = true
		}
	}
	return expanded
}

func toggleHref(expanded map[string]bool, id string) string {
	ids := make([]string, 0, len(expanded)+1)
	for other, on := range expanded {
		if on && other != id {
			ids = append(ids, other)
		}
	}
	if !expanded[id] {
		ids = append(ids, id)
	}
	if len(ids) == 0 {
		return "/"
	}
	sort.Strings(ids)
	return "/?" + url.Values{"expand": {strings.Join(ids, ",")}}.Encode()
}

func displayStatus(status domain.TicketStatus) domain.TicketStatus {
	if status.Valid() {
		return status
	}
	return domain.TicketStatusPending
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.UTC().Format(DateLayout)
}

// statusSlug turns "In Progress" into "in-progress" for use as a CSS class.
func statusSlug(status domain.TicketStatus) string {
	return strings.ReplaceAll(strings.ToLower(string(status)), " ", "-")
}
