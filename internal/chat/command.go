package chat

import (
	"encoding/json"
	"strings"
)

// Command is the structured form of a model reply: either a database action
// with its parameter bag, or a plain conversational response.
type Command struct {
	Action     string         `json:"action"`
	Parameters map[string]any `json:"parameters"`
	Response   string         `json:"response"`
}

// IsAction reports whether the reply carried a database command
func (c *Command) IsAction() bool {
	return c != nil && c.Action != ""
}

// ParseReply extracts the JSON object from a model reply. Models wrap their
// answer in code fences or prose often enough that the parser scans for the
// outermost braces instead of demanding a clean document.
func ParseReply(reply string) (*Command, bool) {
	text := stripFences(reply)

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end <= start {
		return nil, false
	}

	var cmd Command
	if err := json.Unmarshal([]byte(text[start:end+1]), &cmd); err != nil {
		return nil, false
	}

	if cmd.Action == "" && cmd.Response == "" {
		return nil, false
	}

	return &cmd, true
}

func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```")
	// Drop a language tag like "json" on the opening fence
	if idx := strings.Index(s, "\n"); idx >= 0 {
		first := strings.TrimSpace(s[:idx])
		if first != "" && !strings.ContainsAny(first, "{}") {
			s = s[idx+1:]
		}
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")

	return strings.TrimSpace(s)
}
