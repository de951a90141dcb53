package chat

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/uptrace/bun"
	"go.uber.org/zap"

	"github.com/tabletalk/tabletalk/internal/dispatcher"
	"github.com/tabletalk/tabletalk/internal/llm"
)

// Options configures a chat session
type Options struct {
	Mode         string // "command" or "sql"
	HistoryLimit int    // rolling window of messages kept for context
	Spinner      bool   // animate while waiting on the model
}

// Session is the console read-eval loop: it forwards user text to the model,
// executes any database command the model emits, and prints the outcome.
type Session struct {
	llm        llm.ChatService
	dispatcher *dispatcher.Dispatcher
	db         *bun.DB
	logger     *zap.Logger
	in         io.Reader
	out        io.Writer
	opts       Options

	history []llm.Message
}

// NewSession creates a chat session over the given reader/writer pair
func NewSession(
	llmClient llm.ChatService,
	disp *dispatcher.Dispatcher,
	db *bun.DB,
	logger *zap.Logger,
	in io.Reader,
	out io.Writer,
	opts Options,
) *Session {
	if opts.Mode == "" {
		opts.Mode = "command"
	}
	if opts.HistoryLimit <= 0 {
		opts.HistoryLimit = 20
	}

	return &Session{
		llm:        llmClient,
		dispatcher: disp,
		db:         db,
		logger:     logger,
		in:         in,
		out:        out,
		opts:       opts,
	}
}

// Run processes input lines until EOF or an exit command
func (s *Session) Run(ctx context.Context) error {
	fmt.Fprintf(s.out, "tabletalk — chat with your user database (%s mode, type 'exit' to quit)\n", s.opts.Mode)

	s.history = []llm.Message{{Role: llm.RoleSystem, Content: commandSystemPrompt}}

	scanner := bufio.NewScanner(s.in)
	for {
		fmt.Fprint(s.out, "> ")

		if !scanner.Scan() {
			if err := scanner.Err(); err != nil {
				return fmt.Errorf("failed to read input: %w", err)
			}
			fmt.Fprintln(s.out, "\nGoodbye!")
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if isExitCommand(line) {
			fmt.Fprintln(s.out, "Goodbye!")
			return nil
		}

		if s.opts.Mode == "sql" {
			s.sqlTurn(ctx, line)
		} else {
			s.commandTurn(ctx, line)
		}
	}
}

// commandTurn runs one round trip in command mode: model reply, optional
// dispatch, optional natural-language explanation of the result.
func (s *Session) commandTurn(ctx context.Context, input string) {
	s.appendHistory(llm.Message{Role: llm.RoleUser, Content: input})

	reply, err := s.complete(ctx, s.history)
	if err != nil {
		s.logger.Warn("Model call failed", zap.Error(err))
		fmt.Fprintf(s.out, "Could not reach the model: %v\n", err)
		return
	}

	cmd, ok := ParseReply(reply)
	if !ok {
		// Not the agreed protocol; show the raw reply rather than dropping it
		fmt.Fprintln(s.out, reply)
		s.appendHistory(llm.Message{Role: llm.RoleAssistant, Content: reply})
		return
	}

	if !cmd.IsAction() {
		fmt.Fprintln(s.out, cmd.Response)
		s.appendHistory(llm.Message{Role: llm.RoleAssistant, Content: cmd.Response})
		return
	}

	result := s.dispatcher.Handle(ctx, cmd.Action, dispatcher.Params(cmd.Parameters))
	s.appendHistory(llm.Message{Role: llm.RoleAssistant, Content: result})

	explanation, err := s.complete(ctx, []llm.Message{
		{Role: llm.RoleSystem, Content: explainSystemPrompt},
		{Role: llm.RoleUser, Content: fmt.Sprintf("Request: %s\nResult: %s", input, result)},
	})
	if err != nil {
		s.logger.Warn("Explanation call failed, printing raw result", zap.Error(err))
		fmt.Fprintln(s.out, result)
		return
	}

	fmt.Fprintln(s.out, explanation)
}

// complete calls the model, animating the spinner while waiting
func (s *Session) complete(ctx context.Context, messages []llm.Message) (string, error) {
	if s.opts.Spinner {
		spinner := NewSpinner(s.out)
		spinner.Start()
		defer spinner.Stop()
	}

	return s.llm.Chat(ctx, messages)
}

// appendHistory adds a message, trimming the rolling window but keeping the
// system prompt pinned at the front.
func (s *Session) appendHistory(msg llm.Message) {
	s.history = append(s.history, msg)
	if len(s.history) > s.opts.HistoryLimit+1 {
		trimmed := []llm.Message{s.history[0]}
		s.history = append(trimmed, s.history[len(s.history)-s.opts.HistoryLimit:]...)
	}
}

func isExitCommand(line string) bool {
	switch strings.ToLower(line) {
	case "exit", "quit", "bye":
		return true
	}
	return false
}
