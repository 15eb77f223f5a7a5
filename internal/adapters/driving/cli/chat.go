package cli

import (
	"errors"
	"fmt"
	"os"
	"runtime/debug"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/askdocs-ai/askdocs-cli/internal/adapters/driving/tui"
	"github.com/askdocs-ai/askdocs-cli/internal/core/domain"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive chat session",
	Long: `Starts an interactive chat over the knowledge base. Recent exchanges
are carried into each prompt so follow-up questions work; retrieval
itself always uses only the current question.

Controls:
  Enter - Send question
  Esc   - Quit`,
	Args: cobra.NoArgs,
	RunE: runChat,
}

func init() {
	rootCmd.AddCommand(chatCmd)
}

func runChat(cmd *cobra.Command, _ []string) error {
	// Panic recovery to get stack traces out of the alt screen.
	defer func() {
		if r := recover(); r != nil {
			fmt.Fprintf(os.Stderr, "Panic in chat: %v\n", r)
			fmt.Fprintf(os.Stderr, "Stack trace:\n%s\n", debug.Stack())
		}
	}()

	if queryService == nil {
		return errors.New("query service not configured")
	}

	ctx := cmd.Context()
	if err := ensureIndex(ctx); err != nil {
		return err
	}

	window := domain.DefaultRetrievalSettings().HistoryWindow
	if appConfig != nil {
		window = appConfig.Retrieval.HistoryWindow
	}

	chat, err := tui.NewChat(queryService, window)
	if err != nil {
		return fmt.Errorf("failed to create chat: %w", err)
	}
	chat.WithContext(ctx)

	p := tea.NewProgram(chat, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		return fmt.Errorf("chat error: %w", err)
	}
	return nil
}
