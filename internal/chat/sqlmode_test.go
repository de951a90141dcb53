package chat

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"

	"github.com/tabletalk/tabletalk/internal/records"
)

func TestIsReadOnlyQuery(t *testing.T) {
	allowed := []string{
		"SELECT * FROM users",
		"select name, email from users where id = 1",
		"SELECT count(*) FROM users",
	}
	for _, q := range allowed {
		assert.True(t, IsReadOnlyQuery(q), q)
	}

	rejected := []string{
		"",
		"DELETE FROM users",
		"DROP TABLE users",
		"UPDATE users SET name = 'x'",
		"INSERT INTO users (name) VALUES ('x')",
		"SELECT 1; DROP TABLE users",
	}
	for _, q := range rejected {
		assert.False(t, IsReadOnlyQuery(q), q)
	}
}

func TestExtractQuery(t *testing.T) {
	assert.Equal(t, "SELECT * FROM users", ExtractQuery("SELECT * FROM users;"))
	assert.Equal(t, "SELECT * FROM users", ExtractQuery("```sql\nSELECT * FROM users\n```"))
	assert.Equal(t, "SELECT * FROM users", ExtractQuery("  SELECT * FROM users  "))
}

func openTestDB(t *testing.T) *bun.DB {
	t.Helper()

	db, err := records.Open(records.Config{
		Driver:     "sqlite",
		SqlitePath: filepath.Join(t.TempDir(), "test.db"),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	require.NoError(t, records.CreateTables(context.Background(), db))
	return db
}

func TestRunQuery(t *testing.T) {
	ctx := context.Background()
	db := openTestDB(t)
	store := records.NewBunUserStore(db)

	_, err := store.Create(ctx, "Alice", "alice@example.com")
	require.NoError(t, err)
	_, err = store.Create(ctx, "Bob", "bob@example.com")
	require.NoError(t, err)

	rendered, err := RunQuery(ctx, db, "SELECT name, email FROM users ORDER BY id")
	require.NoError(t, err)

	assert.Contains(t, rendered, "name | email")
	assert.Contains(t, rendered, "Alice | alice@example.com")
	assert.Contains(t, rendered, "Bob | bob@example.com")
	assert.Contains(t, rendered, "(2 row(s))")
}
