package redisstore

import (
	"context"
	"sync"
	"testing"

	"github.com/peterjhesselmann96-eng/werkzeugverwaltung/internal/models"
	"github.com/peterjhesselmann96-eng/werkzeugverwaltung/internal/store"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newClient(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()
	mr := miniredis.RunT(t)
	client, err := Connect(context.Background(), mr.Addr(), "", 0)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Close() })
	return mr, client
}

func TestOpen_SeedsOnlyWhenKeyAbsent(t *testing.T) {
	ctx := context.Background()
	mr, client := newClient(t)

	s, err := Open(ctx, client, "users", models.DefaultUsers())
	require.NoError(t, err)
	require.True(t, mr.Exists(KeyPrefix+"users"))

	require.NoError(t, s.Delete(ctx, 1))

	again, err := Open(ctx, client, "users", models.DefaultUsers())
	require.NoError(t, err)
	users, err := again.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
}

func TestStore_CRUD(t *testing.T) {
	ctx := context.Background()
	_, client := newClient(t)
	s, err := Open(ctx, client, "users", models.DefaultUsers())
	require.NoError(t, err)

	created, err := s.Create(ctx, models.User{Name: "Eva", Username: "eva"})
	require.NoError(t, err)
	require.Equal(t, 4, created.ID)

	created.Role = "admin"
	_, err = s.Replace(ctx, created)
	require.NoError(t, err)

	_, err = s.Replace(ctx, models.User{ID: 12})
	require.ErrorIs(t, err, store.ErrNotFound)
	require.ErrorIs(t, s.Delete(ctx, 12), store.ErrNotFound)

	require.NoError(t, s.Delete(ctx, 2))
	users, err := s.List(ctx)
	require.NoError(t, err)
	require.Equal(t, []int{1, 3, 4}, []int{users[0].ID, users[1].ID, users[2].ID})
	require.Equal(t, "admin", users[2].Role)
}

func TestStore_ConcurrentCreates(t *testing.T) {
	ctx := context.Background()
	_, client := newClient(t)
	s, err := Open[models.Tool](ctx, client, "werkzeuge", nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 5; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Create(ctx, models.Tool{Name: "Schraubenzieher"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	tools, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, tools, 5)
	seen := map[int]bool{}
	for _, tool := range tools {
		require.False(t, seen[tool.ID])
		seen[tool.ID] = true
	}
}
