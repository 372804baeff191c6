package postgres

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/KotFed0t/ginvest_bot/data"
	"github.com/KotFed0t/ginvest_bot/data/repository"
	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

func startPostgres(t *testing.T) *sqlx.DB {
	t.Helper()

	if os.Getenv("GINVEST_TEST_DOCKER") != "true" {
		t.Skip("set GINVEST_TEST_DOCKER=true to run postgres tests")
	}

	ctx := context.Background()
	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "postgres",
			"POSTGRES_PASSWORD": "postgres",
			"POSTGRES_DB":       "ginvest",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432/tcp")
	require.NoError(t, err)

	dsn := fmt.Sprintf("host=%s port=%s user=postgres dbname=ginvest sslmode=disable password=postgres", host, port.Port())
	db, err := sqlx.Connect("pgx", dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	_, file, _, _ := runtime.Caller(0)
	migrations := filepath.Join(filepath.Dir(file), "..", "..", "..", "migrations")
	require.NoError(t, data.MigratePostgres(db, migrations))

	return db
}

func TestPostgresStore(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()
	store := NewPostgres(db)

	_, err := store.Get(ctx, "1", "missing")
	require.ErrorIs(t, err, repository.ErrNotFound)

	require.NoError(t, store.SetMany(ctx, "1", map[string]string{"a": "1", "b": "2"}))
	require.NoError(t, store.SetMany(ctx, "1", map[string]string{"a": "3"}))

	a, err := store.Get(ctx, "1", "a")
	require.NoError(t, err)
	assert.Equal(t, "3", a)

	b, err := store.Get(ctx, "1", "b")
	require.NoError(t, err)
	assert.Equal(t, "2", b)

	require.NoError(t, store.Delete(ctx, "1", "a"))
	_, err = store.Get(ctx, "1", "a")
	require.ErrorIs(t, err, repository.ErrNotFound)
}

func TestWithinTransactionRollsBack(t *testing.T) {
	db := startPostgres(t)
	ctx := context.Background()
	store := NewPostgres(db)

	boom := fmt.Errorf("boom")
	err := store.WithinTransaction(ctx, func(ctx context.Context) error {
		if err := store.SetMany(ctx, "9", map[string]string{"a": "1"}); err != nil {
			return err
		}
		return boom
	})
	require.ErrorIs(t, err, boom)

	_, err = store.Get(ctx, "9", "a")
	require.ErrorIs(t, err, repository.ErrNotFound)
}
