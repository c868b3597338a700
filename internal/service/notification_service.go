package service

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-log/internal/events"
	"github.com/spec-kit/helpdesk-log/internal/notify"
)

// WebhookSink accepts events for out-of-band delivery.
type WebhookSink interface {
	Enqueue(event events.Event) bool
}

// NotificationService turns mutation events into toasts and webhook deliveries.
type NotificationService struct {
	dispatcher events.Dispatcher
	feed       *notify.Feed
	logger     *zap.Logger
	webhook    WebhookSink
}

// NewNotificationService creates the service. webhook may be nil.
func NewNotificationService(dispatcher events.Dispatcher, feed *notify.Feed, logger *zap.Logger, webhook WebhookSink) *NotificationService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NotificationService{
		dispatcher: dispatcher,
		feed:       feed,
		logger:     logger,
		webhook:    webhook,
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.dispatcher.Subscribe(events.EventTicketCreated, n.handleTicketCreated)
	n.dispatcher.Subscribe(events.EventTicketStatusChanged, n.handleTicketStatusChanged)
	n.dispatcher.Subscribe(events.EventTicketDeleted, n.handleTicketDeleted)
	n.dispatcher.Subscribe(events.EventTicketsRefreshed, n.handleTicketsRefreshed)
	n.dispatcher.Subscribe(events.EventMutationFailed, n.handleMutationFailed)
}

func (n *NotificationService) handleTicketCreated(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketCreated", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	n.toast(notify.LevelInfo, fmt.Sprintf("New request added — %s", event.Employee))
	n.sendWebhook(event)
	return nil
}

func (n *NotificationService) handleTicketStatusChanged(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketStatusChanged", zap.String("ticket_id", event.TicketID), zap.Any("payload", event.Payload))
	if payload, ok := event.Payload.(events.TicketStatusChangedPayload); ok {
		n.toast(notify.LevelInfo, fmt.Sprintf("Status updated — %s: %s", event.Employee, payload.NewStatus))
	}
	n.sendWebhook(event)
	return nil
}

func (n *NotificationService) handleTicketDeleted(ctx context.Context, event events.Event) error {
	n.logger.Info("TicketDeleted", zap.String("ticket_id", event.TicketID))
	n.toast(notify.LevelInfo, fmt.Sprintf("Deleted — %s", event.Employee))
	n.sendWebhook(event)
	return nil
}

func (n *NotificationService) handleTicketsRefreshed(ctx context.Context, event events.Event) error {
	count := 0
	if payload, ok := event.Payload.(events.TicketsRefreshedPayload); ok {
		count = payload.Count
	}
	n.logger.Info("TicketsRefreshed", zap.Int("count", count))
	n.toast(notify.LevelInfo, fmt.Sprintf("Loaded %d requests", count))
	return nil
}

func (n *NotificationService) handleMutationFailed(ctx context.Context, event events.Event) error {
	payload, ok := event.Payload.(events.MutationFailedPayload)
	if !ok {
		return nil
	}
	n.logger.Info("MutationFailed",
		zap.String("ticket_id", event.TicketID),
		zap.String("operation", payload.Operation),
		zap.String("code", payload.Code))
	n.toast(notify.LevelError, failureText(payload))
	return nil
}

func failureText(payload events.MutationFailedPayload) string {
	what := map[string]string{
		OpCreate:       "Adding request",
		OpChangeStatus: "Status update",
		OpDelete:       "Delete",
		OpRefresh:      "Reload",
	}[payload.Operation]
	if what == "" {
		what = "Request"
	}
	return fmt.Sprintf("%s failed — %s", what, payload.Message)
}

func (n *NotificationService) toast(level notify.Level, text string) {
	if n.feed == nil {
		return
	}
	n.feed.Push(level, text)
}

func (n *NotificationService) sendWebhook(event events.Event) {
	if n.webhook == nil {
		return
	}
	if !n.webhook.Enqueue(event) {
		n.logger.Warn("webhook queue full, event dropped",
			zap.String("event_id", event.ID),
			zap.String("event_type", string(event.Type)))
	}
}
