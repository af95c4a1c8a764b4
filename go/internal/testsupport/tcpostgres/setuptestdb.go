package tcpostgres

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/kpcrmv4/AProject/go/internal/dbconfig"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB is a migrated database reachable through database/sql (the app
// path) and pgxpool (fixture inserts).
type TestDB struct {
	DSN  string
	DB   *sql.DB
	Pool *pgxpool.Pool
}

// SetupTestDB starts Postgres, applies the migrations and registers cleanup.
// It skips the test under -short.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()
	if testing.Short() {
		t.Skip("integration test skipped in short mode")
	}
	ctx := context.Background()

	container, err := SetupPostgres(ctx,
		WithPort("5432/tcp"),
		WithInitialDatabase("postgres", "password", "racetiming"),
		WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)
	host, err := container.Host(ctx)
	require.NoError(t, err)
	dsn := fmt.Sprintf("postgres://postgres:password@%s:%s/racetiming?sslmode=disable", host, port.Port())

	require.NoError(t, dbconfig.Migrate(dsn))

	db, err := dbconfig.Open(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	return &TestDB{DSN: dsn, DB: db, Pool: pool}
}
