package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/helpdesk-log/internal/domain"
)

var sqliteColumns = map[domain.TicketField]string{
	domain.TicketFieldStatus:   "status",
	domain.TicketFieldEmployee: "employee",
	domain.TicketFieldIssue:    "issue",
	domain.TicketFieldAction:   "action",
}

type sqliteTicketStore struct {
	db  *sql.DB
	now func() time.Time
}

// NewSQLiteTicketStore builds a store on a local SQLite database. Ids are
// generated here and created_at is kept as unix nanoseconds.
func NewSQLiteTicketStore(db *sql.DB) TicketStore {
	return &sqliteTicketStore{db: db, now: time.Now}
}

func (r *sqliteTicketStore) ListAll(ctx context.Context) ([]domain.Ticket, error) {
	const query = `
        SELECT id, employee, issue, action, status, created_at
        FROM helpdesk_tickets ORDER BY created_at ASC, id ASC`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	result := []domain.Ticket{}
	for rows.Next() {
		var (
			ticket  domain.Ticket
			status  string
			created int64
		)
		if err := rows.Scan(&ticket.ID, &ticket.Employee, &ticket.Issue, &ticket.Action, &status, &created); err != nil {
			return nil, err
		}
		ticket.Status = domain.TicketStatus(status)
		ticket.CreatedAt = time.Unix(0, created).UTC()
		result = append(result, ticket)
	}
	return result, rows.Err()
}

func (r *sqliteTicketStore) Insert(ctx context.Context, draft domain.TicketDraft) (*domain.Ticket, error) {
	const query = `
        INSERT INTO helpdesk_tickets (id, employee, issue, action, status, created_at)
        VALUES (?,?,?,?,?,?)`
	ticket := draft.Ticket(uuid.NewString(), r.now().UTC())
	if _, err := r.db.ExecContext(ctx, query,
		ticket.ID,
		ticket.Employee,
		ticket.Issue,
		ticket.Action,
		string(ticket.Status),
		ticket.CreatedAt.UnixNano(),
	); err != nil {
		return nil, err
	}
	return &ticket, nil
}

func (r *sqliteTicketStore) UpdateField(ctx context.Context, id string, field domain.TicketField, value string) error {
	if err := checkField(field); err != nil {
		return err
	}
	query := fmt.Sprintf(`UPDATE helpdesk_tickets SET %s=? WHERE id=?`, sqliteColumns[field])
	res, err := r.db.ExecContext(ctx, query, value, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (r *sqliteTicketStore) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM helpdesk_tickets WHERE id=?`, id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrTicketNotFound
	}
	return nil
}
