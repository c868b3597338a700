package worker

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-log/internal/config"
	"github.com/spec-kit/helpdesk-log/internal/events"
	"github.com/spec-kit/helpdesk-log/internal/service"
)

const webhookQueueSize = 64

// WebhookWorker posts queued events to one URL from a single goroutine.
type WebhookWorker struct {
	url     string
	timeout time.Duration
	queue   chan events.Event
	logger  *zap.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

// NewWebhookWorker returns nil when no webhook URL is configured.
func NewWebhookWorker(cfg config.NotificationConfig, logger *zap.Logger) *WebhookWorker {
	url := strings.TrimSpace(cfg.WebhookURL)
	if url == "" {
		return nil
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &WebhookWorker{
		url:     url,
		timeout: cfg.WebhookTimeout(),
		queue:   make(chan events.Event, webhookQueueSize),
		logger:  logger,
	}
}

// Enqueue hands an event to the worker without blocking. It reports false when
// the queue is full.
func (w *WebhookWorker) Enqueue(event events.Event) bool {
	if w == nil {
		return true
	}
	select {
	case w.queue <- event:
		return true
	default:
		return false
	}
}

// Start launches the delivery loop.
func (w *WebhookWorker) Start(ctx context.Context) {
	if w == nil {
		return
	}
	ctx, w.cancel = context.WithCancel(ctx)
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		w.run(ctx)
	}()
}

// Stop ends the loop, then delivers what is still queued until the webhook
// timeout runs out. Events left after that are dropped and counted in the log.
func (w *WebhookWorker) Stop() {
	if w == nil {
		return
	}
	if w.cancel != nil {
		w.cancel()
		w.wg.Wait()
	}
	w.drain(time.Now().Add(w.timeout))
}

func (w *WebhookWorker) drain(deadline time.Time) {
	delivered, dropped := 0, 0
	for {
		select {
		case event := <-w.queue:
			if time.Now().Before(deadline) {
				w.deliver(event)
				delivered++
			} else {
				dropped++
			}
		default:
			if dropped > 0 {
				w.logger.Warn("webhook events dropped on shutdown",
					zap.Int("delivered", delivered),
					zap.Int("dropped", dropped))
			}
			return
		}
	}
}

func (w *WebhookWorker) run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-w.queue:
			w.deliver(event)
		}
	}
}

func (w *WebhookWorker) deliver(event events.Event) {
	agent := fiber.Post(w.url).JSON(event).Timeout(w.timeout)
	code, _, errs := agent.Bytes()
	if len(errs) > 0 {
		w.logger.Warn("webhook delivery failed",
			zap.String("url", w.url),
			zap.String("event_type", string(event.Type)),
			zap.Errors("errors", errs))
		return
	}
	if code >= fiber.StatusBadRequest {
		w.logger.Warn("webhook rejected event",
			zap.String("url", w.url),
			zap.String("event_type", string(event.Type)),
			zap.Int("status", code))
		return
	}
	w.logger.Debug("webhook delivered",
		zap.String("event_type", string(event.Type)),
		zap.Int("status", code))
}

// StartNotificationWorker registers notification handlers and starts webhook delivery.
func StartNotificationWorker(ctx context.Context, notificationService *service.NotificationService, webhook *WebhookWorker) {
	if notificationService == nil {
		return
	}
	notificationService.RegisterHandlers()
	webhook.Start(ctx)
}
