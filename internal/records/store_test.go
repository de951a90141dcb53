package records

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
)

func openTestDB(t *testing.T) *bun.DB {
	t.Helper()

	db, err := Open(Config{
		Driver:     "sqlite",
		SqlitePath: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, CreateTables(context.Background(), db))
	return db
}

func TestCreate(t *testing.T) {
	ctx := context.Background()
	store := NewBunUserStore(openTestDB(t))

	t.Run("AssignsMonotonicIDs", func(t *testing.T) {
		alice, err := store.Create(ctx, "Alice", "alice@example.com")
		require.NoError(t, err)
		assert.Equal(t, int64(1), alice.ID)
		assert.Equal(t, "Alice", alice.Name)
		assert.Equal(t, "alice@example.com", alice.Email)
		assert.WithinDuration(t, time.Now().UTC(), alice.CreatedAt, 5*time.Second)

		bob, err := store.Create(ctx, "Bob", "bob@example.com")
		require.NoError(t, err)
		assert.Equal(t, int64(2), bob.ID)
	})

	t.Run("RejectsDuplicateEmail", func(t *testing.T) {
		_, err := store.Create(ctx, "Alice Again", "alice@example.com")
		require.Error(t, err)
		assert.True(t, IsDuplicateEmail(err))

		users, err := store.ListAll(ctx)
		require.NoError(t, err)
		assert.Len(t, users, 2)
	})

	t.Run("RejectsEmptyFields", func(t *testing.T) {
		_, err := store.Create(ctx, "", "x@example.com")
		require.Error(t, err)
		_, err = store.Create(ctx, "X", "")
		require.Error(t, err)
	})
}

func TestGetByID(t *testing.T) {
	ctx := context.Background()
	store := NewBunUserStore(openTestDB(t))

	created, err := store.Create(ctx, "Alice", "alice@example.com")
	require.NoError(t, err)

	got, err := store.GetByID(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, got.ID)
	assert.Equal(t, "Alice", got.Name)

	_, err = store.GetByID(ctx, 999)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestGetByNameSubstring(t *testing.T) {
	ctx := context.Background()
	store := NewBunUserStore(openTestDB(t))

	_, err := store.Create(ctx, "Alice Smith", "alice@example.com")
	require.NoError(t, err)
	_, err = store.Create(ctx, "Bob Smith", "bob@example.com")
	require.NoError(t, err)

	t.Run("FirstMatchInInsertionOrder", func(t *testing.T) {
		got, err := store.GetByNameSubstring(ctx, "Smith")
		require.NoError(t, err)
		assert.Equal(t, "Alice Smith", got.Name)
	})

	t.Run("MatchIsCaseSensitive", func(t *testing.T) {
		_, err := store.GetByNameSubstring(ctx, "smith")
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
	})

	t.Run("NoMatch", func(t *testing.T) {
		_, err := store.GetByNameSubstring(ctx, "Zelda")
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
	})
}

func TestListAll(t *testing.T) {
	ctx := context.Background()
	store := NewBunUserStore(openTestDB(t))

	users, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, users)

	for _, name := range []string{"Alice", "Bob", "Carol"} {
		_, err := store.Create(ctx, name, name+"@example.com")
		require.NoError(t, err)
	}

	users, err = store.ListAll(ctx)
	require.NoError(t, err)
	require.Len(t, users, 3)
	assert.Equal(t, "Alice", users[0].Name)
	assert.Equal(t, "Bob", users[1].Name)
	assert.Equal(t, "Carol", users[2].Name)
}

func TestUpdate(t *testing.T) {
	ctx := context.Background()
	store := NewBunUserStore(openTestDB(t))

	created, err := store.Create(ctx, "Alice", "alice@example.com")
	require.NoError(t, err)

	t.Run("PartialUpdateKeepsOtherFields", func(t *testing.T) {
		name := "Alicia"
		updated, err := store.Update(ctx, created.ID, &UpdateUserRequest{Name: &name})
		require.NoError(t, err)
		assert.Equal(t, "Alicia", updated.Name)
		assert.Equal(t, "alice@example.com", updated.Email)

		got, err := store.GetByID(ctx, created.ID)
		require.NoError(t, err)
		assert.Equal(t, "Alicia", got.Name)
		assert.Equal(t, "alice@example.com", got.Email)
	})

	t.Run("NotFound", func(t *testing.T) {
		name := "Nobody"
		_, err := store.Update(ctx, 999, &UpdateUserRequest{Name: &name})
		require.Error(t, err)
		assert.True(t, IsNotFound(err))
	})
}

func TestDelete(t *testing.T) {
	ctx := context.Background()
	store := NewBunUserStore(openTestDB(t))

	created, err := store.Create(ctx, "Alice", "alice@example.com")
	require.NoError(t, err)

	deleted, err := store.Delete(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "Alice", deleted.Name)
	assert.Equal(t, created.ID, deleted.ID)

	_, err = store.GetByID(ctx, created.ID)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))

	_, err = store.Delete(ctx, created.ID)
	require.Error(t, err)
	assert.True(t, IsNotFound(err))
}

func TestConnProvider(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	provider := NewConnProvider(db)

	store, release, err := provider.Acquire(ctx)
	require.NoError(t, err)

	_, err = store.Create(ctx, "Alice", "alice@example.com")
	require.NoError(t, err)
	release()

	// A later acquisition sees the committed record
	store, release, err = provider.Acquire(ctx)
	require.NoError(t, err)
	defer release()

	users, err := store.ListAll(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}
