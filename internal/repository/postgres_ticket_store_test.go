package repository_test

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/helpdesk-log/internal/config"
	"github.com/spec-kit/helpdesk-log/internal/persistence"
	"github.com/spec-kit/helpdesk-log/internal/repository"
)

func TestPostgresTicketStore(t *testing.T) {
	dsn := os.Getenv("HELPDESK_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("HELPDESK_TEST_POSTGRES_DSN not set")
	}
	runStoreContract(t, func(t *testing.T) repository.TicketStore {
		ctx := context.Background()
		pg, err := persistence.NewPostgres(ctx, config.PostgresConfig{DSN: dsn}, zap.NewNop())
		require.NoError(t, err)
		t.Cleanup(pg.Close)
		require.NoError(t, persistence.RunMigrations(ctx, pg.PoolHandle(), zap.NewNop()))
		_, err = pg.PoolHandle().Exec(ctx, `TRUNCATE helpdesk_tickets`)
		require.NoError(t, err)
		return repository.NewPostgresTicketStore(pg.PoolHandle())
	})
}
