package session

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SAP-F-2025/training-portal/internal/models"
)

func stores(t *testing.T) map[string]Store {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return map[string]Store{
		"memory": NewMemoryStore(),
		"redis":  NewRedisStore(client, time.Hour),
	}
}

func TestStoreLifecycle(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			sess := models.Session{Username: "teacher_001", Role: models.RoleTeacher}

			id, err := store.Create(ctx, sess)
			require.NoError(t, err)
			assert.NotEmpty(t, id)

			got, err := store.Get(ctx, id)
			require.NoError(t, err)
			assert.Equal(t, sess, *got)

			require.NoError(t, store.Delete(ctx, id))
			_, err = store.Get(ctx, id)
			assert.ErrorIs(t, err, ErrSessionNotFound)
		})
	}
}

func TestStoreUnknownID(t *testing.T) {
	for name, store := range stores(t) {
		t.Run(name, func(t *testing.T) {
			_, err := store.Get(context.Background(), "nope")
			assert.ErrorIs(t, err, ErrSessionNotFound)
			assert.NoError(t, store.Delete(context.Background(), "nope"))
		})
	}
}

func TestStoreIDsAreUnique(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()
	seen := map[string]bool{}
	for i := 0; i < 50; i++ {
		id, err := store.Create(ctx, models.Session{Username: "s", Role: models.RoleStudent})
		require.NoError(t, err)
		assert.False(t, seen[id])
		seen[id] = true
	}
}

func TestRedisStoreExpiry(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer client.Close()

	store := NewRedisStore(client, time.Minute)
	id, err := store.Create(context.Background(), models.Session{Username: "s", Role: models.RoleStudent})
	require.NoError(t, err)

	mr.FastForward(2 * time.Minute)
	_, err = store.Get(context.Background(), id)
	assert.ErrorIs(t, err, ErrSessionNotFound)
}
