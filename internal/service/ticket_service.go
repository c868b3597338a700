package service

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-log/internal/domain"
	"github.com/spec-kit/helpdesk-log/internal/events"
	"github.com/spec-kit/helpdesk-log/internal/observability"
	"github.com/spec-kit/helpdesk-log/internal/repository"
	"github.com/spec-kit/helpdesk-log/internal/state"
	apperrors "github.com/spec-kit/helpdesk-log/pkg/util/errorutil"
)

// Operation names used in events and metrics.
const (
	OpCreate       = "create"
	OpChangeStatus = "change_status"
	OpDelete       = "delete"
	OpRefresh      = "refresh"
)

// Presenter redraws every derived view from the ticket list.
type Presenter interface {
	Present(tickets []domain.Ticket, highlight string)
}

// Confirmer asks the user to approve a delete.
type Confirmer interface {
	ConfirmDelete(ctx context.Context, ticket domain.Ticket) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, ticket domain.Ticket) (bool, error)

// ConfirmDelete calls f.
func (f ConfirmFunc) ConfirmDelete(ctx context.Context, ticket domain.Ticket) (bool, error) {
	return f(ctx, ticket)
}

// Confirmed approves every delete; for requests that already carry the user's answer.
var Confirmed Confirmer = ConfirmFunc(func(context.Context, domain.Ticket) (bool, error) {
	return true, nil
})

// TicketService is the only writer of the ticket list. Each operation persists
// first, then updates the list, then redraws and announces.
type TicketService struct {
	mu         sync.Mutex
	store      repository.TicketStore
	list       *state.TicketList
	presenter  Presenter
	dispatcher events.Dispatcher
	metrics    *observability.Metrics
	logger     *zap.Logger
	now        func() time.Time
}

// TicketDependencies bundles collaborators for the ticket service.
type TicketDependencies struct {
	Store      repository.TicketStore
	Presenter  Presenter
	Dispatcher events.Dispatcher
	Metrics    *observability.Metrics
	Logger     *zap.Logger
}

// TicketCreateInput describes the entry form.
type TicketCreateInput struct {
	Employee string
	Issue    string
	Action   string
	Status   string
}

// NewTicketService constructs the service with an empty list.
func NewTicketService(deps TicketDependencies) *TicketService {
	logger := deps.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &TicketService{
		store:      deps.Store,
		list:       state.NewTicketList(),
		presenter:  deps.Presenter,
		dispatcher: deps.Dispatcher,
		metrics:    deps.Metrics,
		logger:     logger,
		now:        time.Now,
	}
}

// Create validates and stores a new ticket, then appends it to the list.
func (s *TicketService) Create(ctx context.Context, input TicketCreateInput) (*domain.Ticket, error) {
	draft, err := validateCreate(input)
	if err != nil {
		s.metrics.RecordMutation(OpCreate, apperrors.CodeValidation)
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	ticket, err := s.store.Insert(ctx, draft)
	if err != nil {
		return nil, s.fail(ctx, OpCreate, "", apperrors.NewPersistenceError("save request", err))
	}
	if err := s.list.Append(*ticket); err != nil {
		if !apperrors.HasCode(err, apperrors.CodeDuplicateID) {
			return nil, s.fail(ctx, OpCreate, ticket.ID, err)
		}
		s.logger.Warn("store returned an id already in the list; overwriting", zap.String("ticket_id", ticket.ID))
		if err := s.list.Replace(*ticket); err != nil {
			return nil, s.fail(ctx, OpCreate, ticket.ID, err)
		}
	}

	s.present(ticket.ID)
	s.metrics.RecordMutation(OpCreate, "ok")
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketCreated,
		TicketID: ticket.ID,
		Employee: ticket.Employee,
		Payload: events.TicketCreatedPayload{
			Issue:  ticket.Issue,
			Status: ticket.Status,
		},
	})
	created := *ticket
	return &created, nil
}

// ChangeStatus persists a new status for one ticket and mirrors it in the list.
func (s *TicketService) ChangeStatus(ctx context.Context, id, rawStatus string) (*domain.Ticket, error) {
	status, ok := domain.ParseTicketStatus(rawStatus)
	if !ok {
		s.metrics.RecordMutation(OpChangeStatus, apperrors.CodeValidation)
		return nil, apperrors.NewValidationError("invalid status", map[string]any{
			"status":  rawStatus,
			"allowed": domain.TicketStatuses,
		})
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	current, ok := s.list.Get(id)
	if !ok {
		return nil, s.fail(ctx, OpChangeStatus, id, apperrors.NewNotFound("ticket", map[string]any{"id": id}))
	}
	if err := s.store.UpdateField(ctx, id, domain.TicketFieldStatus, string(status)); err != nil {
		s.dropOrphan(id, err)
		return nil, s.fail(ctx, OpChangeStatus, id, storeError("update status", id, err))
	}
	if err := s.list.UpdateStatus(id, status); err != nil {
		return nil, s.fail(ctx, OpChangeStatus, id, err)
	}

	updated, _ := s.list.Get(id)
	s.present(id)
	s.metrics.RecordMutation(OpChangeStatus, "ok")
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketStatusChanged,
		TicketID: id,
		Employee: updated.Employee,
		Payload: events.TicketStatusChangedPayload{
			OldStatus: current.Status,
			NewStatus: status,
		},
	})
	return &updated, nil
}

// Delete removes a ticket once confirm approves. A declined or missing
// confirmation returns false with no side effects.
func (s *TicketService) Delete(ctx context.Context, id string, confirm Confirmer) (bool, error) {
	s.mu.Lock()
	target, ok := s.list.Get(id)
	s.mu.Unlock()
	if !ok {
		return false, s.failLocked(ctx, OpDelete, id, apperrors.NewNotFound("ticket", map[string]any{"id": id}))
	}

	if confirm == nil {
		return false, nil
	}
	approved, err := confirm.ConfirmDelete(ctx, target)
	if err != nil || !approved {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.list.Get(id); !ok {
		return false, s.fail(ctx, OpDelete, id, apperrors.NewNotFound("ticket", map[string]any{"id": id}))
	}
	if err := s.store.Delete(ctx, id); err != nil {
		s.dropOrphan(id, err)
		return false, s.fail(ctx, OpDelete, id, storeError("delete request", id, err))
	}
	if err := s.list.Remove(id); err != nil {
		return false, s.fail(ctx, OpDelete, id, err)
	}

	s.present("")
	s.metrics.RecordMutation(OpDelete, "ok")
	s.publishEvent(ctx, events.Event{
		Type:     events.EventTicketDeleted,
		TicketID: id,
		Employee: target.Employee,
	})
	return true, nil
}

// Refresh reloads the whole list from the store.
func (s *TicketService) Refresh(ctx context.Context) ([]domain.Ticket, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	tickets, err := s.store.ListAll(ctx)
	if err != nil {
		return nil, s.fail(ctx, OpRefresh, "", apperrors.NewPersistenceError("load requests", err))
	}
	s.list.Load(tickets)

	s.present("")
	s.metrics.RecordMutation(OpRefresh, "ok")
	s.publishEvent(ctx, events.Event{
		Type:    events.EventTicketsRefreshed,
		Payload: events.TicketsRefreshedPayload{Count: s.list.Len()},
	})
	return s.list.Snapshot(), nil
}

// Tickets returns a snapshot of the current list.
func (s *TicketService) Tickets() []domain.Ticket {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.list.Snapshot()
}

func validateCreate(input TicketCreateInput) (domain.TicketDraft, error) {
	draft := domain.TicketDraft{
		Employee: strings.TrimSpace(input.Employee),
		Issue:    strings.TrimSpace(input.Issue),
		Action:   strings.TrimSpace(input.Action),
		Status:   domain.TicketStatusPending,
	}
	missing := []string{}
	if draft.Employee == "" {
		missing = append(missing, "employee")
	}
	if draft.Issue == "" {
		missing = append(missing, "issue")
	}
	if len(missing) > 0 {
		return draft, apperrors.NewValidationError(strings.Join(missing, " and ")+" required",
			map[string]any{"missing": missing})
	}
	if strings.TrimSpace(input.Status) != "" {
		status, ok := domain.ParseTicketStatus(input.Status)
		if !ok {
			return draft, apperrors.NewValidationError("invalid status", map[string]any{
				"status":  input.Status,
				"allowed": domain.TicketStatuses,
			})
		}
		draft.Status = status
	}
	return draft, nil
}

func storeError(op, id string, err error) error {
	if errors.Is(err, repository.ErrTicketNotFound) {
		return apperrors.NewNotFound("ticket", map[string]any{"id": id})
	}
	return apperrors.NewPersistenceError(op, err)
}

// dropOrphan removes a ticket the store no longer has so the list keeps
// matching the store; the caller holds s.mu.
func (s *TicketService) dropOrphan(id string, err error) {
	if !errors.Is(err, repository.ErrTicketNotFound) {
		return
	}
	if s.list.Remove(id) != nil {
		return
	}
	s.logger.Warn("request missing from store; dropped from list", zap.String("ticket_id", id))
	s.present("")
}

func (s *TicketService) present(highlight string) {
	if s.presenter == nil {
		return
	}
	s.presenter.Present(s.list.Snapshot(), highlight)
}

// fail records and announces a failed operation; the caller holds s.mu.
func (s *TicketService) fail(ctx context.Context, op, ticketID string, err error) error {
	domainErr := apperrors.ToDomainError(err)
	s.metrics.RecordMutation(op, domainErr.Code)
	if domainErr.Code == apperrors.CodeNotFound {
		s.logger.Info("mutation target missing", zap.String("operation", op), zap.String("ticket_id", ticketID))
	} else {
		s.logger.Error("mutation failed", zap.String("operation", op), zap.String("ticket_id", ticketID), zap.Error(err))
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventMutationFailed,
		TicketID: ticketID,
		Payload: events.MutationFailedPayload{
			Operation: op,
			Code:      domainErr.Code,
			Message:   domainErr.Message,
		},
	})
	return err
}

func (s *TicketService) failLocked(ctx context.Context, op, ticketID string, err error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.fail(ctx, op, ticketID, err)
}

func (s *TicketService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = s.now()
	}
	if err := s.dispatcher.Publish(ctx, event); err != nil {
		s.logger.Warn("event handler failed", zap.String("event_type", string(event.Type)), zap.Error(err))
	}
}
