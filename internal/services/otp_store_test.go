package services

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisOTPStore(t *testing.T) {
	db, mock := redismock.NewClientMock()
	store := NewRedisOTPStore(db)
	ctx := context.Background()

	entry := OTPEntry{Hash: "salt$hash", ExpiresAt: time.Date(2025, 6, 1, 12, 5, 0, 0, time.UTC)}
	data, err := json.Marshal(entry)
	require.NoError(t, err)

	t.Run("put overwrites with ttl", func(t *testing.T) {
		mock.ExpectSet("otp:+233501234567", data, 15*time.Minute).SetVal("OK")

		assert.NoError(t, store.Put(ctx, "+233501234567", entry, 15*time.Minute))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("take returns and deletes", func(t *testing.T) {
		mock.ExpectGetDel("otp:+233501234567").SetVal(string(data))

		got, err := store.Take(ctx, "+233501234567")
		require.NoError(t, err)
		require.NotNil(t, got)
		assert.Equal(t, "salt$hash", got.Hash)
		assert.True(t, entry.ExpiresAt.Equal(got.ExpiresAt))
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("take missing", func(t *testing.T) {
		mock.ExpectGetDel("otp:+233501234567").RedisNil()

		got, err := store.Take(ctx, "+233501234567")
		assert.NoError(t, err)
		assert.Nil(t, got)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("take store failure", func(t *testing.T) {
		mock.ExpectGetDel("otp:+233501234567").SetErr(errors.New("connection refused"))

		_, err := store.Take(ctx, "+233501234567")
		assert.Error(t, err)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("restore does not clobber a newer code", func(t *testing.T) {
		mock.ExpectSetNX("otp:+233501234567", data, 4*time.Minute).SetVal(false)

		restored, err := store.Restore(ctx, "+233501234567", entry, 4*time.Minute)
		require.NoError(t, err)
		assert.False(t, restored)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("restore with no lifetime left is skipped", func(t *testing.T) {
		restored, err := store.Restore(ctx, "+233501234567", entry, 0)
		require.NoError(t, err)
		assert.False(t, restored)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}
