// Package client provides an HTTP client for the feedlift server.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/gorilla/websocket"

	"github.com/feedlift/feedlift/internal/models"
)

// Client talks to the feedlift REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// New creates a new API client.
// If baseURL is empty, uses FEEDLIFT_SERVER_URL env var or defaults to localhost:8000.
// Timeout can be configured via FEEDLIFT_CLIENT_TIMEOUT env var (default 10m for batch operations).
func New(baseURL string) *Client {
	if baseURL == "" {
		baseURL = os.Getenv("FEEDLIFT_SERVER_URL")
	}
	if baseURL == "" {
		baseURL = "http://localhost:8000"
	}
	baseURL = strings.TrimRight(baseURL, "/")

	timeout := 10 * time.Minute
	if t := os.Getenv("FEEDLIFT_CLIENT_TIMEOUT"); t != "" {
		if d, err := time.ParseDuration(t); err == nil {
			timeout = d
		}
	}

	return &Client{
		baseURL: baseURL,
		httpClient: &http.Client{
			Timeout: timeout,
		},
	}
}

// apiError is the server's error envelope.
type apiError struct {
	Error string `json:"error"`
}

func (c *Client) do(ctx context.Context, method, path string, body any, result any) error {
	var reqBody io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reqBody = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode >= http.StatusBadRequest {
		var errResp apiError
		if json.Unmarshal(respBody, &errResp) == nil && errResp.Error != "" {
			return fmt.Errorf("server error: %s - %s", resp.Status, errResp.Error)
		}
		return fmt.Errorf("server error: %s - %s", resp.Status, string(respBody))
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("unmarshal response: %w", err)
		}
	}

	return nil
}

// OptimizeProduct optimizes a single product.
func (c *Client) OptimizeProduct(ctx context.Context, product models.ProductRecord) (*models.OptimizedResult, error) {
	var result models.OptimizedResult
	if err := c.do(ctx, http.MethodPost, "/api/optimize-product", product, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// BatchSubmission is the batch request payload.
type BatchSubmission struct {
	Products []models.ProductRecord `json:"products"`
	BatchID  string                 `json:"batch_id,omitempty"`
	Options  BatchSubmissionOptions `json:"optimization_options"`
}

// BatchSubmissionOptions carries per-batch tuning knobs.
type BatchSubmissionOptions struct {
	MaxConcurrent int `json:"max_concurrent,omitempty"`
}

// BatchAccepted is the response to an async batch submission.
type BatchAccepted struct {
	BatchID       string `json:"batch_id"`
	Status        string `json:"status"`
	TotalProducts int    `json:"total_products"`
}

// BatchSummary is the response to a synchronous batch submission.
type BatchSummary struct {
	BatchID string `json:"batch_id"`
	Status  string `json:"status"`
	Summary struct {
		TotalProducts  int     `json:"total_products"`
		Successful     int     `json:"successful"`
		Failed         int     `json:"failed"`
		ProcessingTime float64 `json:"processing_time"`
		AverageScore   float64 `json:"average_score"`
	} `json:"summary"`
}

// OptimizeBatch submits a batch and blocks until it finishes.
func (c *Client) OptimizeBatch(ctx context.Context, submission BatchSubmission) (*BatchSummary, error) {
	var result BatchSummary
	if err := c.do(ctx, http.MethodPost, "/api/optimize-batch", submission, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// OptimizeBatchAsync submits a batch for background processing.
func (c *Client) OptimizeBatchAsync(ctx context.Context, submission BatchSubmission) (*BatchAccepted, error) {
	var result BatchAccepted
	if err := c.do(ctx, http.MethodPost, "/api/optimize-batch?async=true", submission, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// GetBatchResult fetches a finished batch run. For a batch still in flight
// the server returns a progress envelope instead, which decodes into a run
// with empty results.
func (c *Client) GetBatchResult(ctx context.Context, batchID string) (*models.BatchRun, error) {
	var result models.BatchRun
	if err := c.do(ctx, http.MethodGet, "/api/batch-result/"+batchID, nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// exportFeed downloads a feed export as raw text.
func (c *Client) exportFeed(ctx context.Context, path string) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.baseURL+path, nil)
	if err != nil {
		return "", fmt.Errorf("create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("server error: %s - %s", resp.Status, string(body))
	}
	return string(body), nil
}

// ExportMerchantXML downloads the Google Merchant XML feed for a batch.
func (c *Client) ExportMerchantXML(ctx context.Context, batchID string) (string, error) {
	return c.exportFeed(ctx, "/api/export/google-merchant/"+batchID)
}

// ExportSocialCSV downloads the social commerce CSV feed for a batch.
func (c *Client) ExportSocialCSV(ctx context.Context, batchID string) (string, error) {
	return c.exportFeed(ctx, "/api/export/meta-csv/"+batchID)
}

// UploadCSV uploads a product catalog CSV and returns the parsed records.
func (c *Client) UploadCSV(ctx context.Context, filename string, contents io.Reader) ([]models.ProductRecord, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		return nil, fmt.Errorf("create form file: %w", err)
	}
	if _, err := io.Copy(part, contents); err != nil {
		return nil, fmt.Errorf("write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("close form: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/api/upload-csv", &buf)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("Content-Type", writer.FormDataContentType())

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("execute request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("server error: %s - %s", resp.Status, string(body))
	}

	var result struct {
		Products []models.ProductRecord `json:"products"`
	}
	if err := json.Unmarshal(body, &result); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return result.Products, nil
}

// KeyStatus is the response of the API key probe.
type KeyStatus struct {
	Status   string `json:"status"`
	Kind     string `json:"kind,omitempty"`
	Message  string `json:"message"`
	Response string `json:"response,omitempty"`
}

// TestKey checks whether the server's LLM credentials work.
func (c *Client) TestKey(ctx context.Context) (*KeyStatus, error) {
	var result KeyStatus
	if err := c.do(ctx, http.MethodGet, "/api/test-key", nil, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// ProgressEvent is a batch progress update streamed over the websocket.
type ProgressEvent struct {
	BatchID   string `json:"batch_id"`
	Completed int    `json:"completed"`
	Total     int    `json:"total"`
	Failed    int    `json:"failed"`
	Done      bool   `json:"done"`
}

// WatchBatch streams progress events for a batch until it finishes.
// The onProgress callback is invoked for each event. Return an error from
// onProgress to abort.
func (c *Client) WatchBatch(ctx context.Context, batchID string, onProgress func(ProgressEvent) error) error {
	wsURL := c.baseURL
	wsURL = strings.Replace(wsURL, "http://", "ws://", 1)
	wsURL = strings.Replace(wsURL, "https://", "wss://", 1)
	wsURL += "/api/batch-progress/" + batchID + "/ws"

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	conn, _, err := dialer.DialContext(ctx, wsURL, nil)
	if err != nil {
		return fmt.Errorf("websocket connect: %w", err)
	}
	defer conn.Close()

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	for {
		var event ProgressEvent
		if err := conn.ReadJSON(&event); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			return fmt.Errorf("read event: %w", err)
		}
		if err := onProgress(event); err != nil {
			return err
		}
		if event.Done {
			return nil
		}
	}
}
