package adapter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"

	"exam-mixer/internal/cache"
	"exam-mixer/internal/domain"
)

func TestRedisCacheAdapter_Get(t *testing.T) {
	key := cache.PackageKey("01HZX4Y8K3J5")
	redisErr := errors.New("connection reset")

	tests := []struct {
		name    string
		setup   func(mock redismock.ClientMock)
		want    string
		wantErr error
	}{
		{
			name:  "hit",
			setup: func(mock redismock.ClientMock) { mock.ExpectGet(key).SetVal("PK\x03\x04zip") },
			want:  "PK\x03\x04zip",
		},
		{
			name:    "miss",
			setup:   func(mock redismock.ClientMock) { mock.ExpectGet(key).RedisNil() },
			wantErr: domain.ErrCacheMiss,
		},
		{
			name:    "redis failure",
			setup:   func(mock redismock.ClientMock) { mock.ExpectGet(key).SetErr(redisErr) },
			wantErr: redisErr,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			db, mock := redismock.NewClientMock()
			tt.setup(mock)

			got, err := NewRedisCacheAdapter(db).Get(context.Background(), key)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				assert.Empty(t, got)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.want, got)
			}
			assert.NoError(t, mock.ExpectationsWereMet())
		})
	}
}

func TestRedisCacheAdapter_Set(t *testing.T) {
	db, mock := redismock.NewClientMock()
	a := NewRedisCacheAdapter(db)
	ctx := context.Background()
	key := cache.PackageKey("run-1")

	mock.ExpectSet(key, "payload", 30*time.Minute).SetVal("OK")
	assert.NoError(t, a.Set(ctx, key, "payload", 30*time.Minute))

	redisErr := errors.New("OOM command not allowed")
	mock.ExpectSet(key, "payload", time.Minute).SetErr(redisErr)
	assert.ErrorIs(t, a.Set(ctx, key, "payload", time.Minute), redisErr)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapter_Delete(t *testing.T) {
	db, mock := redismock.NewClientMock()
	a := NewRedisCacheAdapter(db)
	ctx := context.Background()
	key := cache.BankKey("bank-1")

	mock.ExpectDel(key).SetVal(0)
	assert.NoError(t, a.Delete(ctx, key), "deleting a missing key is not an error")

	redisErr := errors.New("READONLY")
	mock.ExpectDel(key).SetErr(redisErr)
	assert.ErrorIs(t, a.Delete(ctx, key), redisErr)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestRedisCacheAdapter_Ping(t *testing.T) {
	db, mock := redismock.NewClientMock()
	a := NewRedisCacheAdapter(db)

	mock.ExpectPing().SetVal("PONG")
	assert.NoError(t, a.Ping(context.Background()))

	mock.ExpectPing().SetErr(redis.ErrClosed)
	assert.Error(t, a.Ping(context.Background()))

	assert.NoError(t, mock.ExpectationsWereMet())
}
