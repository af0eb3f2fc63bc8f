package service

import (
	"context"
	"fmt"
	"math"
	"sync"

	"github.com/arjunmehta/shortlist-engine/internal/platform/logger"
	"github.com/arjunmehta/shortlist-engine/modules/embedding/model"
	"github.com/arjunmehta/shortlist-engine/modules/embedding/ports"
	"go.uber.org/zap"
)

const recentRingSize = 10

// duplicateSimilarityThreshold is the cosine-similarity bar above which two
// embeddings for distinct jobIds are treated as a state-leakage signature
// rather than coincidence.
const duplicateSimilarityThreshold = 0.999

type recentEntry struct {
	jobID     string
	embedding []float64
}

// Source identifies whether EmbedJob returned a cached or freshly computed
// vector.
type Source string

const (
	SourceCached Source = "cached"
	SourceFresh  Source = "fresh"
)

// JobEmbeddingResult is the result of one EmbedJob call.
type JobEmbeddingResult struct {
	Embedding []float64
	Source    Source
}

// Service is the Embedding Service: a process-wide, mutex-guarded cache of
// job embeddings keyed strictly by jobId, with transition-triggered
// eviction and a bounded ring buffer used to detect suspiciously identical
// embeddings across distinct jobs.
type Service struct {
	worker ports.Worker
	log    *logger.Logger

	mu                  sync.Mutex
	cacheDisabled       bool
	lastProcessedJobID  string
	jobEmbeddings       map[string][]float64
	recent              []recentEntry
}

func NewService(worker ports.Worker, log *logger.Logger, cacheDisabled bool) *Service {
	return &Service{
		worker:        worker,
		log:           log,
		cacheDisabled: cacheDisabled,
		jobEmbeddings: make(map[string][]float64),
	}
}

// EmbedJob implements the per-job embedding discipline: a jobId change
// since the last call evicts the entire cache before anything else
// happens, a cache hit short-circuits computation, and a fresh
// computation is checked against the recent-jobs ring buffer for
// collisions before being stored.
func (s *Service) EmbedJob(ctx context.Context, jobID, jdText string) (*JobEmbeddingResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if jobID != s.lastProcessedJobID {
		s.jobEmbeddings = make(map[string][]float64)
		s.lastProcessedJobID = jobID
	}

	if !s.cacheDisabled {
		if cached, ok := s.jobEmbeddings[jobID]; ok {
			return &JobEmbeddingResult{Embedding: cached, Source: SourceCached}, nil
		}
	}

	vec, err := s.worker.Embed(ctx, jdText)
	if err != nil {
		return nil, err
	}

	for _, entry := range s.recent {
		if entry.jobID == jobID {
			continue
		}
		sim := CosineSimilarity(vec, entry.embedding)
		if sim > duplicateSimilarityThreshold {
			s.log.Error("duplicate embedding detected",
				zap.String("jobId", jobID), zap.String("collidesWith", entry.jobID), zap.Float64("similarity", sim))
			return nil, fmt.Errorf("%w: %s collides with %s", model.ErrDuplicateEmbeddingDetected, jobID, entry.jobID)
		}
	}

	s.jobEmbeddings[jobID] = vec
	s.recent = pushRing(s.recent, recentEntry{jobID: jobID, embedding: vec}, recentRingSize)

	return &JobEmbeddingResult{Embedding: vec, Source: SourceFresh}, nil
}

// EmbedSkillText computes an embedding for a space-joined skill list. It is
// never cached: skill-set text is per-user and per-request by nature.
func (s *Service) EmbedSkillText(ctx context.Context, skillsJoined string) ([]float64, error) {
	return s.worker.Embed(ctx, skillsJoined)
}

func pushRing(ring []recentEntry, entry recentEntry, max int) []recentEntry {
	ring = append(ring, entry)
	if len(ring) > max {
		ring = ring[len(ring)-max:]
	}
	return ring
}

// CosineSimilarity computes the cosine similarity between two equal-length
// vectors, clamped to [0,1]. NaN or infinite results (from a zero-norm
// vector) fall back to 0.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	sim := dot / (math.Sqrt(normA) * math.Sqrt(normB))
	if math.IsNaN(sim) || math.IsInf(sim, 0) {
		return 0
	}
	if sim < 0 {
		return 0
	}
	if sim > 1 {
		return 1
	}
	return sim
}
