package chat

import (
	"context"
	"fmt"
	"strings"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/tabletalk/tabletalk/internal/llm"
)

// sqlTurn runs one round trip in sql mode: the model writes a single SELECT,
// the guard vets it, and the rows are printed as text.
func (s *Session) sqlTurn(ctx context.Context, input string) {
	reply, err := s.complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: sqlSystemPrompt},
		{Role: llm.RoleUser, Content: input},
	})
	if err != nil {
		s.logger.Warn("Model call failed", zap.Error(err))
		fmt.Fprintf(s.out, "Could not reach the model: %v\n", err)
		return
	}

	query := ExtractQuery(reply)
	if !IsReadOnlyQuery(query) {
		s.logger.Warn("Rejected generated query", zap.String("query", query))
		fmt.Fprintln(s.out, "Refusing to run the generated query: only a single SELECT is allowed")
		return
	}

	fmt.Fprintf(s.out, "SQL> %s\n", query)

	rendered, err := RunQuery(ctx, s.db, query)
	if err != nil {
		fmt.Fprintf(s.out, "Query failed: %v\n", err)
		return
	}

	fmt.Fprintln(s.out, rendered)
}

// ExtractQuery pulls the bare SQL statement out of a model reply
func ExtractQuery(reply string) string {
	query := stripFences(reply)
	query = strings.TrimSpace(query)
	query = strings.TrimSuffix(query, ";")
	return strings.TrimSpace(query)
}

// IsReadOnlyQuery accepts a single SELECT statement and nothing else
func IsReadOnlyQuery(query string) bool {
	if query == "" {
		return false
	}
	upper := strings.ToUpper(query)
	if !strings.HasPrefix(upper, "SELECT") {
		return false
	}
	// A remaining semicolon means a second statement is riding along
	return !strings.Contains(query, ";")
}

// RunQuery executes the query and renders the rows as plain text
func RunQuery(ctx context.Context, db *bun.DB, query string) (string, error) {
	rows, err := db.QueryContext(ctx, query)
	if err != nil {
		return "", fmt.Errorf("failed to run query: %w", err)
	}
	defer rows.Close()

	columns, err := rows.Columns()
	if err != nil {
		return "", fmt.Errorf("failed to read columns: %w", err)
	}

	var sb strings.Builder
	sb.WriteString(strings.Join(columns, " | "))

	count := 0
	for rows.Next() {
		values := make([]any, len(columns))
		ptrs := make([]any, len(columns))
		for i := range values {
			ptrs[i] = &values[i]
		}
		if err := rows.Scan(ptrs...); err != nil {
			return "", fmt.Errorf("failed to scan row: %w", err)
		}

		cells := make([]string, len(values))
		for i, v := range values {
			cells[i] = renderCell(v)
		}
		sb.WriteString("\n")
		sb.WriteString(strings.Join(cells, " | "))
		count++
	}
	if err := rows.Err(); err != nil {
		return "", fmt.Errorf("failed to iterate rows: %w", err)
	}

	sb.WriteString(fmt.Sprintf("\n(%d row(s))", count))
	return sb.String(), nil
}

func renderCell(v any) string {
	switch val := v.(type) {
	case nil:
		return "NULL"
	case []byte:
		return string(val)
	default:
		return fmt.Sprint(val)
	}
}
