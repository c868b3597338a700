package worker_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-log/internal/config"
	"github.com/spec-kit/helpdesk-log/internal/events"
	"github.com/spec-kit/helpdesk-log/internal/notify"
	"github.com/spec-kit/helpdesk-log/internal/service"
	"github.com/spec-kit/helpdesk-log/internal/worker"
)

func TestNewWebhookWorkerDisabledWithoutURL(t *testing.T) {
	w := worker.NewWebhookWorker(config.NotificationConfig{WebhookURL: "  "}, zap.NewNop())
	require.Nil(t, w)
	require.True(t, w.Enqueue(events.Event{}))
	w.Start(context.Background())
	w.Stop()
}

func TestNotificationWorkerDeliversEvents(t *testing.T) {
	received := make(chan events.Event, 4)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)
		var event events.Event
		if err := json.Unmarshal(body, &event); err == nil {
			received <- event
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	webhook := worker.NewWebhookWorker(config.NotificationConfig{
		WebhookURL:            server.URL,
		WebhookTimeoutSeconds: 2,
	}, zap.NewNop())
	require.NotNil(t, webhook)

	dispatcher := events.NewInMemoryDispatcher()
	feed := notify.NewFeed(time.Minute)
	notifications := service.NewNotificationService(dispatcher, feed, zap.NewNop(), webhook)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	worker.StartNotificationWorker(ctx, notifications, webhook)
	defer webhook.Stop()

	require.NoError(t, dispatcher.Publish(ctx, events.Event{
		ID:       "evt-1",
		Type:     events.EventTicketDeleted,
		TicketID: "t-1",
		Employee: "Carol",
	}))

	select {
	case event := <-received:
		require.Equal(t, "evt-1", event.ID)
		require.Equal(t, events.EventTicketDeleted, event.Type)
		require.Equal(t, "t-1", event.TicketID)
	case <-time.After(3 * time.Second):
		t.Fatal("webhook was not delivered")
	}
	require.Equal(t, "Deleted — Carol", feed.Active()[0].Text)
}

func TestWebhookQueueRejectsWhenFull(t *testing.T) {
	webhook := worker.NewWebhookWorker(config.NotificationConfig{WebhookURL: "http://127.0.0.1:1"}, zap.NewNop())
	accepted := 0
	for i := 0; i < 100; i++ {
		if webhook.Enqueue(events.Event{Type: events.EventTicketCreated}) {
			accepted++
		}
	}
	require.Equal(t, 64, accepted)
}

func TestWebhookStopFlushesQueue(t *testing.T) {
	received := make(chan string, 8)
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var event events.Event
		if err := json.NewDecoder(r.Body).Decode(&event); err == nil {
			received <- event.ID
		}
		w.WriteHeader(http.StatusNoContent)
	}))
	defer server.Close()

	webhook := worker.NewWebhookWorker(config.NotificationConfig{
		WebhookURL:            server.URL,
		WebhookTimeoutSeconds: 5,
	}, zap.NewNop())
	for _, id := range []string{"evt-1", "evt-2", "evt-3"} {
		require.True(t, webhook.Enqueue(events.Event{ID: id, Type: events.EventTicketCreated}))
	}

	webhook.Stop()
	close(received)

	var ids []string
	for id := range received {
		ids = append(ids, id)
	}
	require.Equal(t, []string{"evt-1", "evt-2", "evt-3"}, ids)
}
