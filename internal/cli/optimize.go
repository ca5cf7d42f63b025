package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/feedlift/feedlift/internal/client"
	"github.com/feedlift/feedlift/internal/models"
)

var optimizeOutput string

var optimizeCmd = &cobra.Command{
	Use:   "optimize <product.json>",
	Short: "Optimize a single product",
	Long: `Optimize a single product described by a JSON file.

Reads a product record, runs the full optimization pipeline (content,
structured data, shadow page) and prints the result as JSON.

Use "-" to read the product from stdin.

Examples:
  feedlift optimize product.json
  cat product.json | feedlift optimize -
  feedlift optimize product.json --server http://localhost:8000`,
	Args: cobra.ExactArgs(1),
	RunE: runOptimize,
}

func init() {
	optimizeCmd.Flags().StringVarP(&optimizeOutput, "output", "o", "", "write result to file instead of stdout")
}

func runOptimize(cmd *cobra.Command, args []string) error {
	product, err := readProduct(args[0])
	if err != nil {
		return err
	}
	product.ApplyDefaults()

	ctx := context.Background()

	var result *models.OptimizedResult
	if serverURL != "" {
		result, err = client.New(serverURL).OptimizeProduct(ctx, product)
	} else {
		eng, _, engErr := newLocalEngine(ctx)
		if engErr != nil {
			return engErr
		}
		result, err = eng.OptimizeProduct(ctx, product)
	}
	if err != nil {
		return fmt.Errorf("optimize %s: %w", product.ProductID, err)
	}

	return writeJSON(optimizeOutput, result)
}

// readProduct loads a product record from a file or stdin ("-").
func readProduct(path string) (models.ProductRecord, error) {
	var product models.ProductRecord

	var data []byte
	var err error
	if path == "-" {
		data, err = io.ReadAll(os.Stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return product, fmt.Errorf("read product: %w", err)
	}

	if err := json.Unmarshal(data, &product); err != nil {
		return product, fmt.Errorf("parse product: %w", err)
	}
	if product.ProductID == "" || product.Title == "" {
		return product, fmt.Errorf("product requires at least product_id and title")
	}
	return product, nil
}

// writeJSON marshals v indented to a file, or stdout when path is empty.
func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal result: %w", err)
	}

	if path == "" {
		fmt.Println(string(data))
		return nil
	}
	if err := os.WriteFile(path, append(data, '\n'), 0644); err != nil {
		return fmt.Errorf("write result: %w", err)
	}
	fmt.Printf("Result written to %s\n", path)
	return nil
}
