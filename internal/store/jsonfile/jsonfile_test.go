package jsonfile

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/peterjhesselmann96-eng/werkzeugverwaltung/internal/models"
	"github.com/peterjhesselmann96-eng/werkzeugverwaltung/internal/store"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOpen_SeedsWhenFileAbsent(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "data")
	s, err := Open(dir, "users", models.DefaultUsers())
	require.NoError(t, err)

	users, err := s.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, models.DefaultUsers(), users)

	raw, err := os.ReadFile(filepath.Join(dir, "users.json"))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(string(raw), "[\n  {\n    \"id\": 1,"), "expected 2-space pretty print, got %s", raw)
}

func TestOpen_KeepsExistingData(t *testing.T) {
	dir := t.TempDir()
	existing := []models.User{{ID: 5, Name: "Eva", Username: "eva"}}
	data, _ := json.Marshal(existing)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "users.json"), data, 0o644))

	s, err := Open(dir, "users", models.DefaultUsers())
	require.NoError(t, err)
	users, err := s.List(context.Background())
	require.NoError(t, err)
	require.Equal(t, existing, users)
}

func TestOpen_EmptyArrayIsNotReseeded(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "users.json"), []byte("[]"), 0o644))

	s, err := Open(dir, "users", models.DefaultUsers())
	require.NoError(t, err)
	users, err := s.List(context.Background())
	require.NoError(t, err)
	require.Empty(t, users)
}

func TestOpen_CorruptFileMovedAsideAndReseeded(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "werkzeuge.json"), []byte("{not json"), 0o644))

	s, err := Open(dir, "werkzeuge", models.DefaultTools(time.Now()))
	require.NoError(t, err)
	tools, err := s.List(context.Background())
	require.NoError(t, err)
	require.Len(t, tools, 2)

	backups, err := filepath.Glob(filepath.Join(dir, "werkzeuge.json.corrupt-*"))
	require.NoError(t, err)
	require.Len(t, backups, 1)
	kept, err := os.ReadFile(backups[0])
	require.NoError(t, err)
	require.Equal(t, "{not json", string(kept))
}

func TestStore_CRUD(t *testing.T) {
	ctx := context.Background()
	s, err := Open(t.TempDir(), "users", models.DefaultUsers())
	require.NoError(t, err)

	created, err := s.Create(ctx, models.User{ID: 77, Name: "Eva", Username: "eva", Password: "x", Role: "user"})
	require.NoError(t, err)
	require.Equal(t, 4, created.ID)

	updated := created
	updated.Role = "admin"
	got, err := s.Replace(ctx, updated)
	require.NoError(t, err)
	require.Equal(t, updated, got)

	_, err = s.Replace(ctx, models.User{ID: 40})
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Delete(ctx, 2))
	require.ErrorIs(t, s.Delete(ctx, 2), store.ErrNotFound)

	users, err := s.List(ctx)
	require.NoError(t, err)
	ids := make([]int, 0, len(users))
	for _, u := range users {
		ids = append(ids, u.ID)
	}
	require.Equal(t, []int{1, 3, 4}, ids)
	require.Equal(t, "admin", users[2].Role)
}

func TestStore_ConcurrentCreatesGetDistinctIDs(t *testing.T) {
	ctx := context.Background()
	s, err := Open[models.Tool](t.TempDir(), "werkzeuge", nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := s.Create(ctx, models.Tool{Name: "Zange"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	tools, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, tools, 20)
	seen := map[int]bool{}
	for _, tool := range tools {
		require.False(t, seen[tool.ID], "duplicate id %d", tool.ID)
		seen[tool.ID] = true
	}
}
