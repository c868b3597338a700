package app_test

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-log/internal/app"
	"github.com/spec-kit/helpdesk-log/internal/config"
	"github.com/spec-kit/helpdesk-log/internal/service"
)

func testConfig(backend string) *config.Config {
	return &config.Config{
		Store:        config.StoreConfig{Backend: backend},
		Notification: config.NotificationConfig{ToastSeconds: 5},
	}
}

func TestNewMemoryBackend(t *testing.T) {
	a, err := app.New(context.Background(), testConfig(config.BackendMemory), zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	require.Empty(t, a.Tickets.Tickets())
	require.Equal(t, 1, a.Board.Passes())
	require.Equal(t, "Loaded 0 requests", a.Feed.Active()[0].Text)
	require.Empty(t, a.Pingers)
}

func TestNewSQLiteBackendSurvivesRestart(t *testing.T) {
	cfg := testConfig(config.BackendSQLite)
	cfg.SQLite = config.SQLiteConfig{
		Path:          filepath.Join(t.TempDir(), "nested", "helpdesk.db"),
		RunMigrations: true,
	}
	ctx := context.Background()

	first, err := app.New(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	created, err := first.Tickets.Create(ctx, service.TicketCreateInput{Employee: "Alice", Issue: "VPN down"})
	require.NoError(t, err)
	require.NoError(t, first.Pingers["sqlite"].Ping(ctx))
	first.Close()

	second, err := app.New(ctx, cfg, zap.NewNop())
	require.NoError(t, err)
	defer second.Close()

	list := second.Tickets.Tickets()
	require.Len(t, list, 1)
	require.Equal(t, created.ID, list[0].ID)
	require.Equal(t, 1, second.Board.Page().Counters.Pending)
}

func TestNewRedisBackend(t *testing.T) {
	mr := miniredis.RunT(t)
	cfg := testConfig(config.BackendRedis)
	cfg.Redis = config.RedisConfig{Addr: mr.Addr(), Key: "helpdesk:test"}

	a, err := app.New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	_, err = a.Tickets.Create(context.Background(), service.TicketCreateInput{Employee: "Bob", Issue: "printer"})
	require.NoError(t, err)
	keys, err := mr.HKeys("helpdesk:test")
	require.NoError(t, err)
	require.Len(t, keys, 1)
	require.NoError(t, a.Pingers["redis"].Ping(context.Background()))
}

func TestNewRedisUnreachableStartsEmpty(t *testing.T) {
	cfg := testConfig(config.BackendRedis)
	cfg.Redis = config.RedisConfig{Addr: "127.0.0.1:1", Key: "helpdesk:test"}

	a, err := app.New(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	defer a.Close()

	require.Empty(t, a.Tickets.Tickets())
	require.Zero(t, a.Board.Passes())
	require.Contains(t, a.Feed.Active()[0].Text, "Reload failed")
	require.Error(t, a.Pingers["redis"].Ping(context.Background()))
}

func TestNewRejectsUnknownBackend(t *testing.T) {
	_, err := app.New(context.Background(), testConfig("mongo"), zap.NewNop())
	require.ErrorContains(t, err, "mongo")
}
