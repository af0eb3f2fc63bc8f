package service

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/arjunmehta/shortlist-engine/internal/platform/logger"
	"github.com/arjunmehta/shortlist-engine/internal/platform/subprocess"
	"github.com/arjunmehta/shortlist-engine/modules/classifier/model"
	"github.com/arjunmehta/shortlist-engine/modules/features"
)

type predictRequest struct {
	Mode     string                                `json:"mode"`
	Features [features.ClassifierFeatureCount]float64 `json:"features,omitempty"`
}

type predictResponse struct {
	Success           bool     `json:"success"`
	CandidateStrength float64  `json:"candidateStrength"`
	Confidence        *float64 `json:"confidence,omitempty"`
	Error             string   `json:"error,omitempty"`
}

// Prediction is the classifier's verdict for one feature slice.
type Prediction struct {
	CandidateStrength float64
	Confidence        *float64
}

// Bridge owns the classifier worker subprocess: artifact-existence
// checked before spawning, `load` once at construction, `predict` per
// Predict call, bounded by a per-call timeout that kills the worker on
// expiry.
type Bridge struct {
	mu      sync.Mutex
	worker  *subprocess.Worker
	timeout time.Duration
	log     *logger.Logger
}

func NewBridge(ctx context.Context, log *logger.Logger, artifactPath string, timeout time.Duration) (*Bridge, error) {
	if err := subprocess.CheckArtifact(artifactPath); err != nil {
		return nil, model.ErrModelUnavailable
	}

	worker, err := subprocess.StartWorker(ctx, log, artifactPath, []string{"--mode", "classifier-server"})
	if err != nil {
		return nil, model.ErrModelUnavailable
	}

	loadCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if _, err := worker.Send(loadCtx, mustMarshal(predictRequest{Mode: "load"})); err != nil {
		_ = worker.Close()
		return nil, model.ErrModelUnavailable
	}

	return &Bridge{worker: worker, timeout: timeout, log: log}, nil
}

// Predict calls the classifier with a 13-element feature slice and
// enforces every bridge-level invariant: non-zero exit, empty stdout,
// unparseable JSON, success=false, and an out-of-range strength are all
// hard failures. Whether a zero strength constitutes a FeatureShapeMismatch
// depends on the full (project-aware) feature vector, which this bridge
// never sees — that decision belongs to the caller, which has both this
// result and the full vector.
func (b *Bridge) Predict(ctx context.Context, feats [features.ClassifierFeatureCount]float64) (*Prediction, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	callCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	line, err := b.worker.Send(callCtx, mustMarshal(predictRequest{Mode: "predict", Features: feats}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrModelUnavailable, err)
	}

	var resp predictResponse
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, fmt.Errorf("%w: unparseable response", model.ErrModelUnavailable)
	}
	if !resp.Success {
		return nil, fmt.Errorf("%w: %s", model.ErrModelUnavailable, resp.Error)
	}
	if math.IsNaN(resp.CandidateStrength) || resp.CandidateStrength < 0 || resp.CandidateStrength > 1 {
		return nil, fmt.Errorf("%w: candidateStrength out of range: %v", model.ErrModelUnavailable, resp.CandidateStrength)
	}

	return &Prediction{CandidateStrength: resp.CandidateStrength, Confidence: resp.Confidence}, nil
}

func mustMarshal(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
