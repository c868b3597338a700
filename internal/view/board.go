package view

import (
	"sync"

	"github.com/spec-kit/helpdesk-log/internal/domain"
)

// Board holds the last state the controller presented.
type Board struct {
	mu        sync.Mutex
	tickets   []domain.Ticket
	highlight string
	page      Page
	passes    int
}

// NewBoard returns a board showing an empty list.
func NewBoard() *Board {
	return &Board{page: Render(nil, Options{})}
}

// Present records a new ticket list and renders it once.
func (b *Board) Present(tickets []domain.Ticket, highlight string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.tickets = append([]domain.Ticket(nil), tickets...)
	b.highlight = highlight
	b.page = Render(b.tickets, Options{Highlight: highlight})
	b.passes++
}

// Page returns a copy of the last presented page.
func (b *Board) Page() Page {
	b.mu.Lock()
	defer b.mu.Unlock()
	page := b.page
	page.Rows = append(b.page.Rows[:0:0], b.page.Rows...)
	page.Timeline = append(b.page.Timeline[:0:0], b.page.Timeline...)
	page.Statuses = append(b.page.Statuses[:0:0], b.page.Statuses...)
	return page
}

// Draw renders the presented list for one viewer with its own expanded rows.
// The pending highlight is shown on this draw only.
func (b *Board) Draw(expanded map[string]bool) Page {
	b.mu.Lock()
	defer b.mu.Unlock()
	page := Render(b.tickets, Options{Highlight: b.highlight, Expanded: expanded})
	b.highlight = ""
	return page
}

// Passes counts Present calls.
func (b *Board) Passes() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.passes
}
