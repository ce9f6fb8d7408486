package postgres_test

import (
	"context"
	"crypto/rand"
	"fmt"
	"math"
	"math/big"
	"sync"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/sagarc03/dropzone"
	"github.com/sagarc03/dropzone/database/postgres"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	pgcontainer "github.com/testcontainers/testcontainers-go/modules/postgres"
)

var (
	testPool     *pgxpool.Pool
	testPoolOnce sync.Once
	testPoolErr  error
)

// getSharedTestDatabase returns a pool on a container shared by every test in
// the package. Tests are skipped in -short mode.
func getSharedTestDatabase(t *testing.T) *pgxpool.Pool {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping postgres tests in short mode")
	}

	testPoolOnce.Do(func() {
		ctx := context.Background()

		pgContainer, err := pgcontainer.Run(ctx,
			"postgres:18-alpine",
			pgcontainer.WithDatabase("testdb"),
			pgcontainer.WithUsername("testuser"),
			pgcontainer.WithPassword("testpass"),
			pgcontainer.BasicWaitStrategies(),
		)
		if err != nil {
			testPoolErr = fmt.Errorf("start postgres container: %w", err)
			return
		}

		connectionStr, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
		if err != nil {
			_ = testcontainers.TerminateContainer(pgContainer)
			testPoolErr = fmt.Errorf("connection string: %w", err)
			return
		}

		testPool, testPoolErr = pgxpool.New(ctx, connectionStr)
	})

	require.NoError(t, testPoolErr)
	return testPool
}

func getRandomString(t *testing.T) string {
	t.Helper()
	n, err := rand.Int(rand.Reader, big.NewInt(math.MaxInt64))
	require.NoError(t, err, "random string")
	return fmt.Sprintf("test%x", n.Int64())
}

func dropTable(ctx context.Context, pool *pgxpool.Pool, tableName string) error {
	_, err := pool.Exec(ctx, fmt.Sprintf("DROP TABLE IF EXISTS %s CASCADE", pgx.Identifier{tableName}.Sanitize()))
	return err
}

func getDSN(pool *pgxpool.Pool) string {
	return pool.Config().ConnString()
}

// setupTestDB connects with a unique table name and drops it on cleanup.
func setupTestDB(t *testing.T) (*postgres.DB, dropzone.Tables) {
	t.Helper()

	pool := getSharedTestDatabase(t)
	ctx := context.Background()

	tables := dropzone.Tables{Uploads: fmt.Sprintf("uploads_%s", getRandomString(t))}

	db, err := postgres.Connect(ctx, getDSN(pool), tables)
	require.NoError(t, err, "failed to connect")

	t.Cleanup(func() {
		_ = db.Close()
		_ = dropTable(ctx, pool, tables.Uploads)
	})

	return db, tables
}

func setupTestRepo(t *testing.T) dropzone.UploadRepo {
	t.Helper()

	db, _ := setupTestDB(t)
	require.NoError(t, db.Migrate(context.Background()), "failed to migrate")

	return db.GetRepo()
}
