package model

import "time"

// EmbeddingSource records whether a Prediction's job embedding came from
// the per-process cache or was computed fresh for this request.
type EmbeddingSource string

const (
	EmbeddingCached EmbeddingSource = "cached"
	EmbeddingFresh  EmbeddingSource = "fresh"
)

// Status is the terminal state of a prediction attempt.
type Status string

const (
	StatusDone   Status = "done"
	StatusFailed Status = "failed"
)

// Prediction is the result of one orchestrator run, returned to the caller
// and persisted verbatim.
type Prediction struct {
	ID                   string          `json:"id"`
	UserID               string          `json:"userId"`
	JobID                string          `json:"jobId"`
	CandidateStrength    float64         `json:"candidateStrength"`
	JobMatchScore        float64         `json:"jobMatchScore"`
	ShortlistProbability float64         `json:"shortlistProbability"`
	MatchedSkills        []string        `json:"matchedSkills"`
	MissingSkills        []string        `json:"missingSkills"`
	WeakSkills           []string        `json:"weakSkills"`
	Improvements         []string        `json:"improvements"`
	JobDescriptionHash   string          `json:"jobDescriptionHash"`
	EmbeddingSource      EmbeddingSource `json:"embeddingSource"`
	Status               Status          `json:"status"`
	Timestamp            time.Time       `json:"timestamp"`
}

// ShortlistProbability computes the fused probability from the two raw
// scores, clamped to the declared floor/ceiling.
func ShortlistProbability(candidateStrength, jobMatchScore float64) float64 {
	p := 0.4*candidateStrength + 0.6*jobMatchScore
	if p < 0.05 {
		return 0.05
	}
	if p > 0.95 {
		return 0.95
	}
	return p
}
