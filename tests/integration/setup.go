//go:build integration

// Package integration exercises the Postgres repositories against a real
// database started through testcontainers. The conditional-update guards the
// unit tests simulate in memory are verified here against actual SQL.
package integration

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"storefront/db"
	infradb "storefront/internal/infra/db"
	"storefront/internal/pkg/config"

	"github.com/docker/go-connections/nat"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	postgresOnce      sync.Once
	postgresContainer testcontainers.Container

	testUser     = "test"
	testPassword = "testpass"
)

type containerInfo struct {
	Host string
	Port nat.Port
}

// setupDatabase starts the shared Postgres container, creates a fresh
// database for this test and applies the embedded schema.
func setupDatabase(t *testing.T) *pgxpool.Pool {
	t.Helper()

	info := startPostgresOnce(t)

	dbName := "testdb_" + strings.ReplaceAll(uuid.New().String(), "-", "")
	adminDSN := fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable",
		testUser, testPassword, info.Host, info.Port.Port())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	adminPool, err := pgxpool.New(ctx, adminDSN)
	require.NoError(t, err)
	defer adminPool.Close()

	_, err = adminPool.Exec(ctx, "CREATE DATABASE "+dbName)
	require.NoError(t, err)

	t.Cleanup(func() {
		cleanupCtx, cleanupCancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cleanupCancel()
		cleanupPool, err := pgxpool.New(cleanupCtx, adminDSN)
		if err != nil {
			return
		}
		defer cleanupPool.Close()
		_, _ = cleanupPool.Exec(cleanupCtx, "DROP DATABASE IF EXISTS "+dbName)
	})

	cfg := config.DBConfig{
		Host:     info.Host,
		Port:     info.Port.Port(),
		User:     testUser,
		Password: testPassword,
		DBName:   dbName,
		SSLMode:  "disable",
	}

	pool, cleanup, err := infradb.Connect(cfg)
	require.NoError(t, err)
	t.Cleanup(cleanup)

	_, err = pool.Exec(ctx, db.Schema)
	require.NoError(t, err, "schema apply failed")

	return pool
}

func startPostgresOnce(t *testing.T) containerInfo {
	t.Helper()

	postgresOnce.Do(func() {
		req := testcontainers.ContainerRequest{
			Image:        "postgres:17",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     testUser,
				"POSTGRES_PASSWORD": testPassword,
				"POSTGRES_DB":       "postgres",
			},
			Tmpfs: map[string]string{
				"/var/lib/postgresql/data": "rw,size=512m",
			},
			Cmd: []string{
				"postgres",
				"-c", "fsync=off",
				"-c", "synchronous_commit=off",
				"-c", "max_connections=200",
			},
			WaitingFor: wait.ForSQL("5432/tcp", "pgx", func(host string, port nat.Port) string {
				return fmt.Sprintf("postgres://%s:%s@%s:%s/postgres?sslmode=disable",
					testUser, testPassword, host, port.Port())
			}).WithStartupTimeout(60 * time.Second),
		}

		ctx, cancel := context.WithTimeout(context.Background(), 180*time.Second)
		defer cancel()

		var err error
		postgresContainer, err = testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
			ContainerRequest: req,
			Started:          true,
		})
		require.NoError(t, err, "postgres container failed to start")

		t.Cleanup(func() {
			if postgresContainer != nil {
				termCtx, termCancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer termCancel()
				_ = postgresContainer.Terminate(termCtx)
			}
		})
	})

	ctx := context.Background()
	mappedPort, err := postgresContainer.MappedPort(ctx, nat.Port("5432/tcp"))
	require.NoError(t, err)
	host, err := postgresContainer.Host(ctx)
	require.NoError(t, err)

	return containerInfo{Host: host, Port: mappedPort}
}

// seedVariant inserts a product and one variant, returning the variant ID.
func seedVariant(t *testing.T, pool *pgxpool.Pool, stock, reserved, reorderLevel int) uuid.UUID {
	t.Helper()

	ctx := context.Background()
	productID := uuid.New()
	variantID := uuid.New()

	_, err := pool.Exec(ctx,
		`INSERT INTO products (id, name) VALUES ($1, $2)`,
		productID, "Product "+productID.String()[:8])
	require.NoError(t, err)

	_, err = pool.Exec(ctx,
		`INSERT INTO variants (id, product_id, colour, size, price_cents, stock_quantity, reserved_quantity, reorder_level)
		 VALUES ($1, $2, 'white', 'M', 2500, $3, $4, $5)`,
		variantID, productID, stock, reserved, reorderLevel)
	require.NoError(t, err)

	return variantID
}

// seedPromo inserts a promo code with a global usage limit.
func seedPromo(t *testing.T, pool *pgxpool.Pool, code string, usageLimit, currentUsage int) uuid.UUID {
	t.Helper()

	promoID := uuid.New()
	_, err := pool.Exec(context.Background(),
		`INSERT INTO promo_codes (id, code, discount_type, discount_value, is_active, usage_limit, current_usage)
		 VALUES ($1, upper($2), 'PERCENTAGE', 10, true, $3, $4)`,
		promoID, code, usageLimit, currentUsage)
	require.NoError(t, err)

	return promoID
}

func variantCounters(t *testing.T, pool *pgxpool.Pool, variantID uuid.UUID) (stock, reserved int) {
	t.Helper()

	err := pool.QueryRow(context.Background(),
		`SELECT stock_quantity, reserved_quantity FROM variants WHERE id = $1`, variantID).
		Scan(&stock, &reserved)
	require.NoError(t, err)
	return stock, reserved
}
