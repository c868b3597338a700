package domain_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/spec-kit/helpdesk-log/internal/domain"
)

func TestParseTicketStatus(t *testing.T) {
	cases := map[string]domain.TicketStatus{
		"Pending":     domain.TicketStatusPending,
		" pending ":   domain.TicketStatusPending,
		"In Progress": domain.TicketStatusInProgress,
		"InProgress":  domain.TicketStatusInProgress,
		"in_progress": domain.TicketStatusInProgress,
		"COMPLETED":   domain.TicketStatusCompleted,
	}
	for raw, want := range cases {
		got, ok := domain.ParseTicketStatus(raw)
		require.True(t, ok, raw)
		require.Equal(t, want, got, raw)
	}

	for _, raw := range []string{"", "Done", "closed", "in progress!"} {
		_, ok := domain.ParseTicketStatus(raw)
		require.False(t, ok, raw)
	}
}

func TestDraftTicketDefaultsStatus(t *testing.T) {
	now := time.Date(2025, 3, 1, 9, 30, 0, 0, time.UTC)
	tk := domain.TicketDraft{Employee: "Alice", Issue: "VPN down"}.Ticket("t-1", now)

	require.Equal(t, "t-1", tk.ID)
	require.Equal(t, domain.TicketStatusPending, tk.Status)
	require.Equal(t, now, tk.CreatedAt)
}

func TestTicketWithField(t *testing.T) {
	tk := domain.Ticket{ID: "t-1", Employee: "Alice", Status: domain.TicketStatusPending}

	updated := tk.WithField(domain.TicketFieldStatus, string(domain.TicketStatusCompleted))
	require.Equal(t, domain.TicketStatusCompleted, updated.Status)
	require.Equal(t, domain.TicketStatusPending, tk.Status)

	require.Equal(t, "reset token", tk.WithField(domain.TicketFieldAction, "reset token").Action)
	require.False(t, domain.TicketField("created_at").Valid())
}
