package service

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/arjunmehta/shortlist-engine/internal/platform/logger"
	"github.com/arjunmehta/shortlist-engine/internal/platform/subprocess"
	"github.com/arjunmehta/shortlist-engine/modules/embedding/model"
)

type embedRequest struct {
	Mode string `json:"mode"`
	Text string `json:"text,omitempty"`
}

type embedResponse struct {
	Success   bool      `json:"success"`
	Embedding []float64 `json:"embedding,omitempty"`
	Error     string    `json:"error,omitempty"`
}

// Bridge wraps the embedding worker subprocess: spawned once at process
// start with a "load" handshake, then sent one "embed" request per call.
// It never re-spawns on its own after a timeout; the caller must restart
// it if Embed returns an error wrapping a timeout.
type Bridge struct {
	mu        sync.Mutex
	worker    *subprocess.Worker
	path      string
	timeout   time.Duration
	log       *logger.Logger
}

func NewBridge(ctx context.Context, log *logger.Logger, modelPath string, timeout time.Duration) (*Bridge, error) {
	if err := subprocess.CheckArtifact(modelPath); err != nil {
		return nil, model.ErrModelUnavailable
	}

	worker, err := subprocess.StartWorker(ctx, log, modelPath, []string{"--mode", "embedding-server"})
	if err != nil {
		return nil, model.ErrModelUnavailable
	}

	loadCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()
	if _, err := worker.Send(loadCtx, mustMarshal(embedRequest{Mode: "load"})); err != nil {
		_ = worker.Close()
		return nil, model.ErrModelUnavailable
	}

	return &Bridge{worker: worker, path: modelPath, timeout: timeout, log: log}, nil
}

func (b *Bridge) Embed(ctx context.Context, text string) ([]float64, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	callCtx, cancel := context.WithTimeout(ctx, b.timeout)
	defer cancel()

	line, err := b.worker.Send(callCtx, mustMarshal(embedRequest{Mode: "embed", Text: text}))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrModelUnavailable, err)
	}

	var resp embedResponse
	if err := json.Unmarshal(line, &resp); err != nil {
		return nil, fmt.Errorf("%w: unparseable response", model.ErrModelUnavailable)
	}
	if !resp.Success {
		return nil, fmt.Errorf("%w: %s", model.ErrModelUnavailable, resp.Error)
	}
	if len(resp.Embedding) != model.EmbeddingDim {
		return nil, fmt.Errorf("%w: wrong embedding dimension %d", model.ErrModelUnavailable, len(resp.Embedding))
	}

	return resp.Embedding, nil
}

func mustMarshal(v interface{}) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}
