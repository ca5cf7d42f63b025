package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/feedlift/feedlift/internal/catalog"
	"github.com/feedlift/feedlift/internal/client"
	"github.com/feedlift/feedlift/internal/engine"
	"github.com/feedlift/feedlift/internal/models"
)

var (
	batchConcurrency int
	batchID          string
	batchOutput      string
	batchNoProgress  bool
)

var batchCmd = &cobra.Command{
	Use:   "batch <products.csv|products.json>",
	Short: "Optimize a product catalog",
	Long: `Optimize every product in a catalog file (CSV or a JSON array).

Products are processed concurrently with per-product fault isolation:
a failing product is recorded and skipped, the rest of the batch
continues. Results are written as a JSON batch run.

Examples:
  feedlift batch products.csv
  feedlift batch products.json -c 5 -o results.json
  feedlift batch products.csv --server http://localhost:8000`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	batchCmd.Flags().IntVarP(&batchConcurrency, "concurrency", "c", 0, "max concurrent optimizations (default from config)")
	batchCmd.Flags().StringVar(&batchID, "batch-id", "", "batch identifier (generated when empty)")
	batchCmd.Flags().StringVarP(&batchOutput, "output", "o", "", "write batch run JSON to file instead of stdout")
	batchCmd.Flags().BoolVar(&batchNoProgress, "no-progress", false, "disable the interactive progress display")
}

func runBatch(cmd *cobra.Command, args []string) error {
	products, err := readCatalog(args[0])
	if err != nil {
		return err
	}
	if len(products) == 0 {
		fmt.Println("No valid products in catalog.")
		return nil
	}

	fmt.Printf("Optimizing %d products...\n", len(products))

	concurrency := batchConcurrency
	if concurrency <= 0 {
		concurrency = cfg.MaxConcurrent
	}

	start, err := batchRunner(products, concurrency)
	if err != nil {
		return err
	}

	var run *models.BatchRun
	if batchNoProgress {
		run, err = start(func(completed, total, failed int) {})
	} else {
		run, err = RunBatchProgress(len(products), start)
	}
	if err != nil {
		return err
	}

	return writeJSON(batchOutput, run)
}

// readCatalog loads products from a CSV catalog or a JSON array file.
func readCatalog(path string) ([]models.ProductRecord, error) {
	if strings.EqualFold(filepath.Ext(path), ".json") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read catalog: %w", err)
		}
		var products []models.ProductRecord
		if err := json.Unmarshal(data, &products); err != nil {
			return nil, fmt.Errorf("parse catalog: %w", err)
		}
		for i := range products {
			products[i].ApplyDefaults()
		}
		return products, nil
	}

	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open catalog: %w", err)
	}
	defer file.Close()

	products, err := catalog.ParseCSV(file)
	if err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	return products, nil
}

// batchRunner builds the batch execution function, local or remote.
func batchRunner(products []models.ProductRecord, concurrency int) (func(onProgress func(completed, total, failed int)) (*models.BatchRun, error), error) {
	if serverURL != "" {
		return remoteBatchRunner(products, concurrency), nil
	}

	eng, _, err := newLocalEngine(context.Background())
	if err != nil {
		return nil, err
	}

	return func(onProgress func(completed, total, failed int)) (*models.BatchRun, error) {
		run := eng.OptimizeBatch(context.Background(), products, engine.BatchOptions{
			MaxConcurrent: concurrency,
			OnProgress:    onProgress,
		})
		run.BatchID = batchID
		return run, nil
	}, nil
}

// remoteBatchRunner submits the batch to a server asynchronously and follows
// its progress over the websocket endpoint.
func remoteBatchRunner(products []models.ProductRecord, concurrency int) func(onProgress func(completed, total, failed int)) (*models.BatchRun, error) {
	return func(onProgress func(completed, total, failed int)) (*models.BatchRun, error) {
		ctx := context.Background()
		c := client.New(serverURL)

		accepted, err := c.OptimizeBatchAsync(ctx, client.BatchSubmission{
			Products: products,
			BatchID:  batchID,
			Options:  client.BatchSubmissionOptions{MaxConcurrent: concurrency},
		})
		if err != nil {
			return nil, fmt.Errorf("submit batch: %w", err)
		}

		err = c.WatchBatch(ctx, accepted.BatchID, func(event client.ProgressEvent) error {
			onProgress(event.Completed, event.Total, event.Failed)
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("watch batch: %w", err)
		}

		run, err := c.GetBatchResult(ctx, accepted.BatchID)
		if err != nil {
			return nil, fmt.Errorf("fetch batch result: %w", err)
		}
		return run, nil
	}
}
