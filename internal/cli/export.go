package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/feedlift/feedlift/internal/client"
	"github.com/feedlift/feedlift/internal/export"
	"github.com/feedlift/feedlift/internal/models"
)

var (
	exportInput  string
	exportOutput string
)

var exportCmd = &cobra.Command{
	Use:   "export <google|meta> <batch-id>",
	Short: "Export a batch as a shopping feed",
	Long: `Export an optimized batch as a shopping feed.

Formats:
  google  Google Merchant Center XML (RSS 2.0 with g: namespace)
  meta    Social commerce CSV (Meta/Instagram catalog)

By default the batch is fetched from a feedlift server. Pass --input to
generate the feed from a local batch run JSON file instead, in which
case the batch-id argument is ignored.

Examples:
  feedlift export google batch-42 --server http://localhost:8000
  feedlift export meta batch-42 -o meta_feed.csv
  feedlift export google unused --input results.json`,
	Args: cobra.ExactArgs(2),
	RunE: runFeedExport,
}

func init() {
	exportCmd.Flags().StringVar(&exportInput, "input", "", "local batch run JSON file to export from")
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "write feed to file instead of stdout")
}

func runFeedExport(cmd *cobra.Command, args []string) error {
	format, batchID := args[0], args[1]
	if format != "google" && format != "meta" {
		return fmt.Errorf("unknown feed format %q (want google or meta)", format)
	}

	var feed string
	var err error
	if exportInput != "" {
		feed, err = exportFromFile(format, exportInput)
	} else {
		feed, err = exportFromServer(format, batchID)
	}
	if err != nil {
		return err
	}

	if exportOutput == "" {
		fmt.Print(feed)
		return nil
	}
	if err := os.WriteFile(exportOutput, []byte(feed), 0644); err != nil {
		return fmt.Errorf("write feed: %w", err)
	}
	fmt.Printf("Feed written to %s\n", exportOutput)
	return nil
}

// exportFromFile generates a feed from a stored batch run JSON file.
func exportFromFile(format, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("read batch run: %w", err)
	}

	var run models.BatchRun
	if err := json.Unmarshal(data, &run); err != nil {
		return "", fmt.Errorf("parse batch run: %w", err)
	}

	if format == "google" {
		return export.MerchantXML(run.Results), nil
	}
	return export.SocialCSV(run.Results), nil
}

// exportFromServer downloads a feed from a feedlift server.
func exportFromServer(format, batchID string) (string, error) {
	ctx := context.Background()
	c := client.New(serverURL)

	if format == "google" {
		return c.ExportMerchantXML(ctx, batchID)
	}
	return c.ExportSocialCSV(ctx, batchID)
}
