package service

import (
	"context"

	"github.com/arjunmehta/shortlist-engine/internal/platform/logger"
	"github.com/arjunmehta/shortlist-engine/modules/shortlist/model"
	"go.uber.org/zap"
)

// BatchItem is one (userId, jobId) pair requested in a batch predict call.
type BatchItem struct {
	UserID string `json:"userId"`
	JobID  string `json:"jobId"`
}

// BatchResult carries either a completed Prediction or the error code a
// single-predict call for this pair would have returned; one item's
// failure never aborts the rest of the batch.
type BatchResult struct {
	UserID     string            `json:"userId"`
	JobID      string            `json:"jobId"`
	Prediction *model.Prediction `json:"prediction,omitempty"`
	ErrorCode  model.ErrorCode   `json:"errorCode,omitempty"`
	Error      string            `json:"error,omitempty"`
}

// BatchPredictor runs many independent predictions, each through the same
// pool-bounded pipeline Predict uses, and reports partial success.
type BatchPredictor struct {
	orchestrator *Orchestrator
	log          *logger.Logger
}

func NewBatchPredictor(orchestrator *Orchestrator, log *logger.Logger) *BatchPredictor {
	return &BatchPredictor{orchestrator: orchestrator, log: log}
}

// Predict runs every item concurrently; the orchestrator's own prediction
// pool already bounds how many run at once, so this fans every item out
// without an additional limiter.
func (b *BatchPredictor) Predict(ctx context.Context, items []BatchItem) []BatchResult {
	results := make([]BatchResult, len(items))
	done := make(chan int, len(items))

	for i, item := range items {
		go func(i int, item BatchItem) {
			results[i] = b.predictOne(ctx, item)
			done <- i
		}(i, item)
	}
	for range items {
		<-done
	}
	return results
}

func (b *BatchPredictor) predictOne(ctx context.Context, item BatchItem) BatchResult {
	prediction, err := b.orchestrator.Predict(ctx, item.UserID, item.JobID)
	if err != nil {
		b.log.Warn("batch item failed",
			zap.String("userId", item.UserID), zap.String("jobId", item.JobID), zap.Error(err))
		return BatchResult{
			UserID:    item.UserID,
			JobID:     item.JobID,
			ErrorCode: model.GetErrorCode(err),
			Error:     model.GetErrorMessage(err),
		}
	}
	return BatchResult{UserID: item.UserID, JobID: item.JobID, Prediction: prediction}
}
