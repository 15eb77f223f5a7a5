package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var askCmd = &cobra.Command{
	Use:   "ask [question]",
	Short: "Ask a one-shot question",
	Long: `Answers a single question using only the indexed documents. The answer
cites the documents it was grounded on. Use 'chat' for a conversation.`,
	Args: cobra.ExactArgs(1),
	RunE: runAsk,
}

func init() {
	rootCmd.AddCommand(askCmd)
}

func runAsk(cmd *cobra.Command, args []string) error {
	if queryService == nil {
		return errors.New("query service not configured")
	}

	ctx := cmd.Context()
	if err := ensureIndex(ctx); err != nil {
		return err
	}

	answer, err := queryService.Answer(ctx, args[0], nil)
	if err != nil {
		return fmt.Errorf("could not answer: %w", err)
	}

	cmd.Println(answer.Text)
	if len(answer.Sources) > 0 {
		cmd.Println()
		cmd.Println("Sources: " + strings.Join(answer.Sources, ", "))
	}
	return nil
}
