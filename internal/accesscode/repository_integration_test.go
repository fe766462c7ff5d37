//go:build integration

package accesscode

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"gatecode/internal/database"
)

func setupRepository(t *testing.T) *Repository {
	t.Helper()
	ctx := context.Background()

	container, err := postgres.Run(ctx, "postgres:16-alpine",
		postgres.WithDatabase("gatecode_test"),
		postgres.WithUsername("postgres"),
		postgres.WithPassword("postgres"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, testcontainers.TerminateContainer(container))
	})

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	db, err := database.New(ctx, connStr)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	require.NoError(t, database.Migrate(ctx, db))

	return NewRepository(db)
}

func TestRepositoryRoundTrip(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	created, err := repo.Create(ctx, &AccessCode{
		Code:      "abc1234",
		Role:      "admin",
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Nil(t, created.ConsumedAt)

	found, err := repo.FindByCode(ctx, "abc1234")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "admin", found.Role)

	_, err = repo.FindByCode(ctx, "missing")
	assert.ErrorIs(t, err, ErrCodeNotFound)
}

func TestRepositoryUniqueCode(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	_, err := repo.Create(ctx, &AccessCode{
		Code:      "abc1234",
		Role:      "admin",
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &AccessCode{
		Code:      "abc1234",
		Role:      "guest",
		ExpiresAt: time.Now().Add(time.Hour),
	})
	assert.ErrorIs(t, err, ErrDuplicateCode)
}

func TestRepositoryUniquePayment(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()

	paymentID := "PAY-123"
	created, err := repo.Create(ctx, &AccessCode{
		Code:      "abc1234",
		Role:      "admin",
		PaymentID: &paymentID,
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &AccessCode{
		Code:      "zzz9999",
		Role:      "admin",
		PaymentID: &paymentID,
		ExpiresAt: time.Now().Add(time.Hour),
	})
	assert.ErrorIs(t, err, ErrDuplicatePayment)

	found, err := repo.FindByPaymentID(ctx, paymentID)
	require.NoError(t, err)
	assert.Equal(t, created.Code, found.Code)

	// Codes without a payment id do not collide on the unique constraint
	_, err = repo.Create(ctx, &AccessCode{
		Code:      "free001",
		Role:      "guest",
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
	_, err = repo.Create(ctx, &AccessCode{
		Code:      "free002",
		Role:      "guest",
		ExpiresAt: time.Now().Add(time.Hour),
	})
	require.NoError(t, err)
}

func TestRepositoryConsume(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()
	now := time.Now()

	_, err := repo.Create(ctx, &AccessCode{
		Code:      "abc1234",
		Role:      "admin",
		ExpiresAt: now.Add(time.Hour),
	})
	require.NoError(t, err)

	consumed, err := repo.Consume(ctx, "abc1234", now)
	require.NoError(t, err)
	require.NotNil(t, consumed.ConsumedAt)

	// A second consume of the same code finds nothing to redeem
	_, err = repo.Consume(ctx, "abc1234", now)
	assert.ErrorIs(t, err, ErrCodeNotFound)
}

func TestRepositoryDeleteExpired(t *testing.T) {
	repo := setupRepository(t)
	ctx := context.Background()
	now := time.Now()

	_, err := repo.Create(ctx, &AccessCode{
		Code:      "expired",
		Role:      "guest",
		ExpiresAt: now.Add(-time.Minute),
	})
	require.NoError(t, err)

	_, err = repo.Create(ctx, &AccessCode{
		Code:      "live001",
		Role:      "guest",
		ExpiresAt: now.Add(time.Hour),
	})
	require.NoError(t, err)

	deleted, err := repo.DeleteExpired(ctx, now)
	require.NoError(t, err)
	assert.Equal(t, int64(1), deleted)

	_, err = repo.FindByCode(ctx, "expired")
	assert.ErrorIs(t, err, ErrCodeNotFound)

	_, err = repo.FindByCode(ctx, "live001")
	assert.NoError(t, err)
}
