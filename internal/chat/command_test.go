package chat

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseReply(t *testing.T) {
	t.Run("PlainAction", func(t *testing.T) {
		cmd, ok := ParseReply(`{"action": "add_user", "parameters": {"name": "Alice", "email": "a@b.c"}}`)
		require.True(t, ok)
		assert.True(t, cmd.IsAction())
		assert.Equal(t, "add_user", cmd.Action)
		assert.Equal(t, "Alice", cmd.Parameters["name"])
	})

	t.Run("PlainResponse", func(t *testing.T) {
		cmd, ok := ParseReply(`{"response": "Hello there!"}`)
		require.True(t, ok)
		assert.False(t, cmd.IsAction())
		assert.Equal(t, "Hello there!", cmd.Response)
	})

	t.Run("FencedJSON", func(t *testing.T) {
		reply := "```json\n{\"action\": \"list_users\", \"parameters\": {}}\n```"
		cmd, ok := ParseReply(reply)
		require.True(t, ok)
		assert.Equal(t, "list_users", cmd.Action)
	})

	t.Run("JSONBuriedInProse", func(t *testing.T) {
		reply := `Sure! Here is the command: {"action": "delete_user", "parameters": {"id": 3}} Let me know.`
		cmd, ok := ParseReply(reply)
		require.True(t, ok)
		assert.Equal(t, "delete_user", cmd.Action)
	})

	t.Run("NoJSON", func(t *testing.T) {
		_, ok := ParseReply("I can't help with that.")
		assert.False(t, ok)
	})

	t.Run("MalformedJSON", func(t *testing.T) {
		_, ok := ParseReply(`{"action": "add_user", "parameters": {`)
		assert.False(t, ok)
	})

	t.Run("EmptyObject", func(t *testing.T) {
		_, ok := ParseReply(`{}`)
		assert.False(t, ok)
	})
}
