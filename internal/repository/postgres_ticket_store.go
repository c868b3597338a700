package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/helpdesk-log/internal/domain"
)

var postgresColumns = map[domain.TicketField]string{
	domain.TicketFieldStatus:   "status",
	domain.TicketFieldEmployee: "employee",
	domain.TicketFieldIssue:    "issue",
	domain.TicketFieldAction:   "action",
}

type postgresTicketStore struct {
	pool *pgxpool.Pool
}

// NewPostgresTicketStore builds a store on a pgx pool. The database assigns ids
// and creation timestamps.
func NewPostgresTicketStore(pool *pgxpool.Pool) TicketStore {
	return &postgresTicketStore{pool: pool}
}

func (r *postgresTicketStore) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	const query = `
        SELECT id::text, employee, issue, action, status, created_at
        FROM helpdesk_tickets ORDER BY created_at ASC, id ASC`
	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanTickets(rows)
}

func (r *postgresTicketStore) Insert(ctx context.Context, draft domain.TicketDraft) (*domain.Ticket, error) {
	const query = `
        INSERT INTO helpdesk_tickets (employee, issue, action, status)
        VALUES ($1,$2,$3,$4)
        RETURNING id::text, created_at`
	ticket := draft.Ticket("", time.Time{})
	if err := r.pool.QueryRow(ctx, query,
		ticket.Employee,
		ticket.Issue,
		ticket.Action,
		string(ticket.Status),
	).Scan(&ticket.ID, &ticket.CreatedAt); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *postgresTicketStore) UpdateField(ctx context.Context, id string, field domain.TicketField, value string) error {
	if err := checkField(field); err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE helpdesk_tickets SET %s=$1 WHERE id::text=$2`, postgresColumns[field])
	cmd, err := r.pool.Exec(ctx, query, value, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTicketNotFound
	}
	return nil
}

func (r *postgresTicketStore) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM helpdesk_tickets WHERE id::text=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrTicketNotFound
	}
	return nil
}

func scanTickets(rows pgx.Rows) ([]domain.Ticket, error) {
	result := []domain.Ticket{}
	for rows.Next() {
		var ticket domain.Ticket
		if err := rows.Scan(
			&ticket.ID,
			&ticket.Employee,
			&ticket.Issue,
			&ticket.Action,
			&ticket.Status,
			&ticket.CreatedAt,
		); err != nil {
			return nil, err
		}
		result = append(result, ticket)
	}
	return result, rows.Err()
}
