package model

import "time"

// SkillModification describes moving an existing skill to a new level in a
// what-if scenario.
type SkillModification struct {
	Name     string `json:"name"`
	NewLevel string `json:"newLevel"`
}

// Scenario is the hypothetical profile edit a what-if request applies
// purely in memory; it is never persisted against the real profile.
type Scenario struct {
	AddedSkills    []string            `json:"addedSkills"`
	RemovedSkills  []string            `json:"removedSkills"`
	ModifiedSkills []SkillModification `json:"modifiedSkills"`
}

// WhatIfResult is the baseline/projected comparison returned and persisted
// for one simulate call.
type WhatIfResult struct {
	ID     string   `json:"id"`
	UserID string   `json:"userId"`
	JobID  string   `json:"jobId"`

	BaselineCandidateStrength    float64 `json:"baselineCandidateStrength"`
	BaselineJobMatchScore        float64 `json:"baselineJobMatchScore"`
	BaselineShortlistProbability float64 `json:"baselineShortlistProbability"`

	ProjectedCandidateStrength    float64 `json:"projectedCandidateStrength"`
	ProjectedJobMatchScore        float64 `json:"projectedJobMatchScore"`
	ProjectedShortlistProbability float64 `json:"projectedShortlistProbability"`

	DeltaCandidateStrength    float64 `json:"deltaCandidateStrength"`
	DeltaJobMatchScore        float64 `json:"deltaJobMatchScore"`
	DeltaShortlistProbability float64 `json:"deltaShortlistProbability"`

	Scenario  Scenario  `json:"scenario"`
	Timestamp time.Time `json:"timestamp"`
}

// Recommendation is the response shape for the recommendations endpoint:
// concrete skills to learn or improve, and the probability lift the
// greedy search found by adding them.
type Recommendation struct {
	TopSkillsToLearn []string `json:"topSkillsToLearn"`
	SkillsToImprove  []string `json:"skillsToImprove"`
	EstimatedImpact  float64  `json:"estimatedImpact"`
}

// AnalyticsSummary is the aggregate view over a user's prediction history.
type AnalyticsSummary struct {
	TotalPredictions  int      `json:"totalPredictions"`
	AverageProbability float64 `json:"averageProbability"`
	Best              *Prediction `json:"best,omitempty"`
	Worst             *Prediction `json:"worst,omitempty"`
	TopMissingSkills  []string `json:"topMissingSkills"`
}
