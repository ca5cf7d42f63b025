package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/feedlift/feedlift/internal/client"
	"github.com/feedlift/feedlift/internal/llm"
)

var testKeyCmd = &cobra.Command{
	Use:   "test-key",
	Short: "Check the configured AI credentials",
	Long: `Send a minimal completion request to verify the configured AI
provider and credentials work.

With --server the check runs against the server's configuration.`,
	Args: cobra.NoArgs,
	RunE: runTestKey,
}

func runTestKey(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	if serverURL != "" {
		status, err := client.New(serverURL).TestKey(ctx)
		if err != nil {
			return err
		}
		if status.Status != "success" {
			fmt.Printf("✗ %s (%s)\n", status.Message, status.Kind)
			return nil
		}
		fmt.Printf("✓ %s\n", status.Message)
		return nil
	}

	completer, err := llm.NewClient(ctx, cfg)
	if err != nil {
		return err
	}

	response, err := completer.Complete(ctx,
		"Hello, respond with 'API working'",
		llm.Options{Temperature: 0, MaxTokens: 50},
	)
	if err != nil {
		var apiErr *llm.APIError
		if errors.As(err, &apiErr) {
			fmt.Printf("✗ %s (%s)\n", err, apiErr.Kind)
			return nil
		}
		return err
	}

	fmt.Printf("✓ API key is working correctly (model %s): %s\n", completer.Model(), response)
	return nil
}
