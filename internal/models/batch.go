package models

import "time"

// BatchStatus represents the state of a batch run.
type BatchStatus string

const (
	BatchStatusPending   BatchStatus = "pending"
	BatchStatusRunning   BatchStatus = "running"
	BatchStatusCompleted BatchStatus = "completed"
)

// BatchError records a single product that failed inside a batch.
type BatchError struct {
	ProductID string `json:"product_id"`
	Error     string `json:"error"`
}

// BatchRun aggregates the outcome of one batch optimization. Runs live in
// process memory only; there are no durability guarantees.
//
// Results is in completion order, not submission order. Consumers must
// correlate by ProductID.
type BatchRun struct {
	BatchID        string             `json:"batch_id"`
	Status         BatchStatus        `json:"status"`
	TotalProducts  int                `json:"total_products"`
	Successful     int                `json:"successful_optimizations"`
	Failed         int                `json:"failed_optimizations"`
	Results        []*OptimizedResult `json:"results"`
	Errors         []BatchError       `json:"errors"`
	ProcessingTime float64            `json:"processing_time"`
	AverageScore   float64            `json:"average_optimization_score"`
	SubmittedAt    time.Time          `json:"submitted_at"`
}
