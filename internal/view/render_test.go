package view_test

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-log/internal/domain"
	"github.com/spec-kit/helpdesk-log/internal/view"
)

var base = time.Date(2025, 2, 3, 9, 0, 0, 0, time.UTC)

func tickets(statuses ...domain.TicketStatus) []domain.Ticket {
	out := make([]domain.Ticket, 0, len(statuses))
	for i, status := range statuses {
		out = append(out, domain.Ticket{
			ID:        fmt.Sprintf("t-%d", i+1),
			Employee:  fmt.Sprintf("emp-%d", i+1),
			Issue:     fmt.Sprintf("issue-%d", i+1),
			Status:    status,
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		})
	}
	return out
}

func TestCountersAlwaysSumToTotal(t *testing.T) {
	list := tickets(
		domain.TicketStatusPending,
		domain.TicketStatusInProgress,
		domain.TicketStatusCompleted,
		domain.TicketStatusCompleted,
		"",
		"Escalated",
	)
	c := view.CountTickets(list)

	require.Equal(t, 6, c.Total)
	require.Equal(t, 3, c.Pending)
	require.Equal(t, 1, c.InProgress)
	require.Equal(t, 2, c.Completed)
	require.Equal(t, c.Total, c.Pending+c.InProgress+c.Completed)
}

func TestCompletionOf(t *testing.T) {
	cases := []struct {
		counters view.Counters
		want     view.Completion
	}{
		{view.Counters{}, view.Completion{Percent: 0, Degrees: 0}},
		{view.Counters{Total: 1, Pending: 1}, view.Completion{Percent: 0, Degrees: 0}},
		{view.Counters{Total: 1, Completed: 1}, view.Completion{Percent: 100, Degrees: 360}},
		{view.Counters{Total: 3, Completed: 1, Pending: 2}, view.Completion{Percent: 33, Degrees: 119}},
		{view.Counters{Total: 3, Completed: 2, Pending: 1}, view.Completion{Percent: 67, Degrees: 241}},
		{view.Counters{Total: 8, Completed: 1, Pending: 7}, view.Completion{Percent: 13, Degrees: 47}},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, view.CompletionOf(tc.counters), "%+v", tc.counters)
	}
}

func TestCompletionStaysInRange(t *testing.T) {
	for total := 0; total <= 20; total++ {
		for completed := 0; completed <= total; completed++ {
			got := view.CompletionOf(view.Counters{Total: total, Completed: completed})
			require.GreaterOrEqual(t, got.Percent, 0)
			require.LessOrEqual(t, got.Percent, 100)
			require.GreaterOrEqual(t, got.Degrees, 0)
			require.LessOrEqual(t, got.Degrees, 360)
		}
	}
}

func TestTimelineShowsFiveMostRecentNewestFirst(t *testing.T) {
	list := tickets(
		domain.TicketStatusPending, domain.TicketStatusPending, domain.TicketStatusPending,
		domain.TicketStatusPending, domain.TicketStatusPending, domain.TicketStatusPending,
		domain.TicketStatusCompleted,
	)
	timeline := view.BuildTimeline(list)

	require.Len(t, timeline, 5)
	require.Equal(t, "t-7", timeline[0].TicketID)
	require.Equal(t, "t-3", timeline[4].TicketID)
	require.Equal(t, "2025-02-03 09:06 — emp-7: issue-7 (Completed)", timeline[0].Summary)
}

func TestRenderRowsFollowListOrderAndHighlight(t *testing.T) {
	list := tickets(domain.TicketStatusPending, domain.TicketStatusCompleted, domain.TicketStatusInProgress)
	page := view.Render(list, view.Options{Highlight: "t-2"})

	require.Len(t, page.Rows, 3)
	for i, row := range page.Rows {
		require.Equal(t, list[i].ID, row.ID)
		require.Equal(t, row.ID == "t-2", row.Highlight)
	}
	require.Equal(t, "2025-02-03 09:00", page.Rows[0].Date)
	require.Equal(t, view.Counters{Total: 3, Pending: 1, InProgress: 1, Completed: 1}, page.Counters)
	require.Equal(t, domain.TicketStatuses, page.Statuses)
}

func TestRenderIsIdempotent(t *testing.T) {
	list := tickets(domain.TicketStatusPending, domain.TicketStatusCompleted)
	list[0].Action = strings.Repeat("a", 400)

	first := view.Render(list, view.Options{})
	second := view.Render(list, view.Options{})
	require.Equal(t, first, second)

	renderer, err := view.NewHTMLRenderer()
	require.NoError(t, err)
	a, err := renderer.Render(view.Document{Title: "IT Log", Page: first})
	require.NoError(t, err)
	b, err := renderer.Render(view.Document{Title: "IT Log", Page: second})
	require.NoError(t, err)
	require.Equal(t, a, b)
}

func TestLongActionTruncatesAndToggles(t *testing.T) {
	full := strings.Repeat("x", 200)
	action := view.NewActionText(full)

	require.True(t, action.Truncated)
	require.Equal(t, strings.Repeat("x", 150)+"...", action.Display())
	require.Equal(t, "Show more", action.ToggleLabel())

	expanded := action.Toggle()
	require.Equal(t, full, expanded.Display())
	require.Equal(t, "Show less", expanded.ToggleLabel())

	collapsed := expanded.Toggle()
	require.Equal(t, strings.Repeat("x", 150)+"...", collapsed.Display())
	require.Equal(t, action, collapsed)
}

func TestShortActionHasNoToggle(t *testing.T) {
	exact := strings.Repeat("é", view.ActionPreviewLimit)
	action := view.NewActionText(exact)

	require.False(t, action.Truncated)
	require.Equal(t, exact, action.Display())
	require.Empty(t, action.ToggleLabel())
	require.Equal(t, action, action.Toggle())
}

func TestRenderExpandedRowsAndToggleLinks(t *testing.T) {
	list := tickets(domain.TicketStatusPending, domain.TicketStatusPending)
	list[0].Action = strings.Repeat("a", 200)
	list[1].Action = strings.Repeat("b", 200)

	collapsed := view.Render(list, view.Options{})
	require.Equal(t, strings.Repeat("a", 150)+"...", collapsed.Rows[0].Action.Display())
	require.Equal(t, "/?expand=t-1", collapsed.Rows[0].ToggleHref)

	expanded := view.Render(list, view.Options{Expanded: view.ParseExpanded(" t-1 ,")})
	require.Equal(t, strings.Repeat("a", 200), expanded.Rows[0].Action.Display())
	require.Equal(t, "/", expanded.Rows[0].ToggleHref)
	require.Equal(t, "/?expand=t-1%2Ct-2", expanded.Rows[1].ToggleHref)
}
