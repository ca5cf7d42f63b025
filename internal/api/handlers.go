// Package api exposes the optimization engine over HTTP.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/feedlift/feedlift/internal/catalog"
	"github.com/feedlift/feedlift/internal/engine"
	"github.com/feedlift/feedlift/internal/export"
	"github.com/feedlift/feedlift/internal/llm"
	"github.com/feedlift/feedlift/internal/metrics"
	"github.com/feedlift/feedlift/internal/models"
	"github.com/feedlift/feedlift/internal/store"
)

// Handler handles HTTP requests for the optimization API.
type Handler struct {
	engine        *engine.Engine
	completer     llm.Completer
	store         store.Store
	collector     *metrics.Collector
	maxConcurrent int
	logger        *slog.Logger
	hub           *progressHub
}

// NewHandler creates a new API handler.
func NewHandler(eng *engine.Engine, completer llm.Completer, st store.Store, collector *metrics.Collector, maxConcurrent int, logger *slog.Logger) *Handler {
	return &Handler{
		engine:        eng,
		completer:     completer,
		store:         st,
		collector:     collector,
		maxConcurrent: maxConcurrent,
		logger:        logger,
		hub:           newProgressHub(),
	}
}

// BatchRequest is the batch submission payload.
type BatchRequest struct {
	Products []models.ProductRecord `json:"products" binding:"required,min=1"`
	BatchID  string                 `json:"batch_id"`
	Options  BatchRequestOptions    `json:"optimization_options"`
}

// BatchRequestOptions carries per-batch tuning knobs.
type BatchRequestOptions struct {
	MaxConcurrent int `json:"max_concurrent"`
}

// BatchSummary is the submission response envelope.
type BatchSummary struct {
	BatchID string       `json:"batch_id"`
	Status  string       `json:"status"`
	Summary SummaryStats `json:"summary"`
}

// SummaryStats condenses a finished run.
type SummaryStats struct {
	TotalProducts  int     `json:"total_products"`
	Successful     int     `json:"successful"`
	Failed         int     `json:"failed"`
	ProcessingTime float64 `json:"processing_time"`
	AverageScore   float64 `json:"average_score"`
}

// OptimizeProduct handles POST /api/optimize-product.
func (h *Handler) OptimizeProduct(c *gin.Context) {
	var product models.ProductRecord
	if err := c.ShouldBindJSON(&product); err != nil {
		h.logger.Warn("invalid product payload", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	product.ApplyDefaults()

	result, err := h.engine.OptimizeProduct(c.Request.Context(), product)
	if err != nil {
		h.logger.Error("optimization failed", "product_id", product.ProductID, "error", err)
		c.JSON(statusForError(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, result)
}

// OptimizeBatch handles POST /api/optimize-batch. With ?async=true the run
// happens in the background and progress is observable over the websocket
// endpoint; otherwise the call blocks until the batch finishes.
func (h *Handler) OptimizeBatch(c *gin.Context) {
	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.logger.Warn("invalid batch payload", "error", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	batchID := req.BatchID
	if batchID == "" {
		batchID = uuid.New().String()
	}
	if _, exists := h.store.Get(batchID); exists {
		c.JSON(http.StatusConflict, gin.H{"error": fmt.Sprintf("batch %s already exists", batchID)})
		return
	}

	for i := range req.Products {
		req.Products[i].ApplyDefaults()
	}

	opts := engine.BatchOptions{
		MaxConcurrent: req.Options.MaxConcurrent,
		OnProgress: func(completed, total, failed int) {
			h.hub.publish(batchID, completed, total, failed)
		},
	}
	if opts.MaxConcurrent <= 0 {
		opts.MaxConcurrent = h.maxConcurrent
	}

	if err := h.hub.start(batchID, len(req.Products)); err != nil {
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	if c.Query("async") == "true" {
		go h.runBatch(batchID, req.Products, opts)
		c.JSON(http.StatusAccepted, gin.H{
			"batch_id":       batchID,
			"status":         "processing",
			"total_products": len(req.Products),
		})
		return
	}

	run := h.runBatch(batchID, req.Products, opts)
	c.JSON(http.StatusOK, BatchSummary{
		BatchID: batchID,
		Status:  "completed",
		Summary: SummaryStats{
			TotalProducts:  run.TotalProducts,
			Successful:     run.Successful,
			Failed:         run.Failed,
			ProcessingTime: run.ProcessingTime,
			AverageScore:   run.AverageScore,
		},
	})
}

// runBatch executes a batch outside any request context: once submitted,
// every task runs to completion or failure regardless of the caller.
func (h *Handler) runBatch(batchID string, products []models.ProductRecord, opts engine.BatchOptions) *models.BatchRun {
	defer h.hub.finish(batchID)

	run := h.engine.OptimizeBatch(context.Background(), products, opts)
	run.BatchID = batchID

	if err := h.store.Put(batchID, run); err != nil {
		h.logger.Error("failed to store batch run", "batch_id", batchID, "error", err)
	}
	return run
}

// GetBatchResult handles GET /api/batch-result/:batch_id.
func (h *Handler) GetBatchResult(c *gin.Context) {
	batchID := c.Param("batch_id")

	if run, ok := h.store.Get(batchID); ok {
		c.JSON(http.StatusOK, run)
		return
	}
	if event, ok := h.hub.snapshot(batchID); ok {
		c.JSON(http.StatusAccepted, gin.H{
			"batch_id":  batchID,
			"status":    models.BatchStatusRunning,
			"completed": event.Completed,
			"total":     event.Total,
			"failed":    event.Failed,
		})
		return
	}
	c.JSON(http.StatusNotFound, gin.H{"error": "batch not found"})
}

// UploadCSV handles POST /api/upload-csv.
func (h *Handler) UploadCSV(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("missing file: %v", err)})
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("open upload: %v", err)})
		return
	}
	defer file.Close()

	products, err := catalog.ParseCSV(file)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("CSV parsing failed: %v", err)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  fmt.Sprintf("Successfully parsed %d products", len(products)),
		"products": products,
	})
}

// ExportMerchantXML handles GET /api/export/google-merchant/:batch_id.
func (h *Handler) ExportMerchantXML(c *gin.Context) {
	run, ok := h.lookupBatch(c)
	if !ok {
		return
	}

	start := time.Now()
	feed := export.MerchantXML(run.Results)
	h.collector.RecordTiming(metrics.OpExport, time.Since(start))

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=google_merchant_%s.xml", run.BatchID))
	c.Data(http.StatusOK, "application/xml", []byte(feed))
}

// ExportSocialCSV handles GET /api/export/meta-csv/:batch_id.
func (h *Handler) ExportSocialCSV(c *gin.Context) {
	run, ok := h.lookupBatch(c)
	if !ok {
		return
	}

	start := time.Now()
	feed := export.SocialCSV(run.Results)
	h.collector.RecordTiming(metrics.OpExport, time.Since(start))

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=meta_feed_%s.csv", run.BatchID))
	c.Data(http.StatusOK, "text/csv", []byte(feed))
}

func (h *Handler) lookupBatch(c *gin.Context) (*models.BatchRun, bool) {
	run, ok := h.store.Get(c.Param("batch_id"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "batch not found"})
		return nil, false
	}
	return run, true
}

// TestKey handles GET /api/test-key with a one-shot live completion probe.
func (h *Handler) TestKey(c *gin.Context) {
	response, err := h.completer.Complete(c.Request.Context(),
		"Hello, respond with 'API working'",
		llm.Options{Temperature: 0, MaxTokens: 50},
	)
	if err != nil {
		var apiErr *llm.APIError
		kind := llm.KindService
		if errors.As(err, &apiErr) {
			kind = apiErr.Kind
		}
		c.JSON(http.StatusOK, gin.H{
			"status":  "error",
			"kind":    kind,
			"message": err.Error(),
		})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"status":   "success",
		"message":  "API key is working correctly",
		"response": response,
	})
}

// Stats handles GET /api/stats.
func (h *Handler) Stats(c *gin.Context) {
	c.JSON(http.StatusOK, h.collector.Snapshot())
}

// Health handles GET /health.
func (h *Handler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"timestamp": time.Now().Format(time.RFC3339),
	})
}

// statusForError maps classified completion failures to HTTP statuses.
func statusForError(err error) int {
	var apiErr *llm.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.Kind {
		case llm.KindAuth:
			return http.StatusUnauthorized
		case llm.KindRateLimit:
			return http.StatusTooManyRequests
		}
	}
	if errors.Is(err, engine.ErrInvalidResponse) {
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
