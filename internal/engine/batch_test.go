package engine

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/feedlift/feedlift/internal/llm"
	"github.com/feedlift/feedlift/internal/models"
)

func allStagesOK() *fakeCompleter {
	return scriptedCompleter(ok(validContentJSON), ok(validSchemaJSON), ok("<html/>"))
}

func TestOptimizeBatchEmpty(t *testing.T) {
	e := New(allStagesOK())

	run := e.OptimizeBatch(context.Background(), nil, BatchOptions{})

	if run.TotalProducts != 0 || run.Successful != 0 || run.Failed != 0 {
		t.Errorf("counts = %d/%d/%d, want all zero", run.TotalProducts, run.Successful, run.Failed)
	}
	if run.AverageScore != 0 {
		t.Errorf("AverageScore = %v, want 0 for empty batch", run.AverageScore)
	}
	if run.Status != models.BatchStatusCompleted {
		t.Errorf("Status = %v, want completed", run.Status)
	}
}

func TestOptimizeBatchFaultIsolation(t *testing.T) {
	// Fail every call for the product whose title carries a marker; the
	// content prompt embeds the title verbatim.
	completer := &fakeCompleter{respond: func(prompt string, opts llm.Options) (string, error) {
		if strings.Contains(prompt, "POISON") {
			return "", llm.Classify(errors.New("service exploded"))
		}
		switch opts.Temperature {
		case tempContent:
			return validContentJSON, nil
		case tempSchema:
			return validSchemaJSON, nil
		default:
			return "<html/>", nil
		}
	}}
	e := New(completer)

	bad := testProduct("p-bad")
	bad.Title = "POISON"
	products := []models.ProductRecord{testProduct("p-a"), bad, testProduct("p-b")}

	run := e.OptimizeBatch(context.Background(), products, BatchOptions{MaxConcurrent: 2})

	if run.Successful != 2 || run.Failed != 1 {
		t.Fatalf("successful/failed = %d/%d, want 2/1", run.Successful, run.Failed)
	}
	if len(run.Errors) != 1 || run.Errors[0].ProductID != "p-bad" {
		t.Errorf("Errors = %+v, want one entry for p-bad", run.Errors)
	}
	if run.Errors[0].Error == "" {
		t.Errorf("error record should carry the failure message")
	}

	got := map[string]bool{}
	for _, r := range run.Results {
		got[r.ProductID] = true
	}
	if !got["p-a"] || !got["p-b"] {
		t.Errorf("results missing healthy products: %v", got)
	}
}

func TestOptimizeBatchAdmissionBound(t *testing.T) {
	completer := allStagesOK()
	e := New(completer)

	products := make([]models.ProductRecord, 6)
	for i := range products {
		products[i] = testProduct("p-" + string(rune('a'+i)))
	}

	run := e.OptimizeBatch(context.Background(), products, BatchOptions{MaxConcurrent: 1})

	if run.Successful != 6 {
		t.Fatalf("Successful = %d, want 6", run.Successful)
	}
	if got := completer.maxInFlight.Load(); got > 1 {
		t.Errorf("observed %d concurrent AI calls with MaxConcurrent=1", got)
	}
}

func TestOptimizeBatchDefaultConcurrency(t *testing.T) {
	completer := allStagesOK()
	e := New(completer)

	products := make([]models.ProductRecord, 12)
	for i := range products {
		products[i] = testProduct("p-" + string(rune('a'+i)))
	}

	e.OptimizeBatch(context.Background(), products, BatchOptions{})

	if got := completer.maxInFlight.Load(); got > DefaultMaxConcurrent {
		t.Errorf("observed %d concurrent AI calls, default cap is %d", got, DefaultMaxConcurrent)
	}
}

func TestOptimizeBatchAverageScore(t *testing.T) {
	e := New(allStagesOK())

	run := e.OptimizeBatch(context.Background(), []models.ProductRecord{
		testProduct("p-1"), testProduct("p-2"),
	}, BatchOptions{})

	if run.AverageScore != 1.0 {
		t.Errorf("AverageScore = %v, want 1.0", run.AverageScore)
	}
}

func TestOptimizeBatchProgressCallback(t *testing.T) {
	e := New(allStagesOK())

	var mu sync.Mutex
	var seen []int
	run := e.OptimizeBatch(context.Background(), []models.ProductRecord{
		testProduct("p-1"), testProduct("p-2"), testProduct("p-3"),
	}, BatchOptions{
		MaxConcurrent: 1,
		OnProgress: func(completed, total, failed int) {
			mu.Lock()
			seen = append(seen, completed)
			mu.Unlock()
			if total != 3 {
				t.Errorf("total = %d, want 3", total)
			}
			if failed != 0 {
				t.Errorf("failed = %d, want 0", failed)
			}
		},
	})

	if run.Successful != 3 {
		t.Fatalf("Successful = %d, want 3", run.Successful)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(seen) != 3 || seen[2] != 3 {
		t.Errorf("progress calls = %v, want 3 calls ending at 3", seen)
	}
}
