package service

import (
	"context"
	"fmt"
	"time"

	cpmodel "github.com/arjunmehta/shortlist-engine/modules/candidateprofile/model"
	embservice "github.com/arjunmehta/shortlist-engine/modules/embedding/service"
	"github.com/arjunmehta/shortlist-engine/modules/features"
	jmmodel "github.com/arjunmehta/shortlist-engine/modules/jobmatch/model"
	"github.com/arjunmehta/shortlist-engine/modules/shortlist/model"
	"github.com/arjunmehta/shortlist-engine/modules/shortlist/ports"
	"golang.org/x/time/rate"
)

// defaultTargetProbability is the shortlist probability at which the
// recommendation greedy search stops. Recommend takes no caller-supplied
// target; this value is always used.
const defaultTargetProbability = 0.6

// Simulator answers "what if" for a candidate/job pair and never mutates
// the real profile. Its baseline run goes through Orchestrator.Predict, so
// the baseline is stored as an ordinary prediction; the projected branch
// persists nothing but the final WhatIfResult. It reuses the
// orchestrator's classifier and takes the embedding service as its own
// argument (main passes the orchestrator's instance).
type Simulator struct {
	orchestrator *Orchestrator
	embeddings   *embservice.Service
	whatifs      ports.WhatIfStore
}

func NewSimulator(orchestrator *Orchestrator, embeddings *embservice.Service, whatifs ports.WhatIfStore) *Simulator {
	return &Simulator{
		orchestrator: orchestrator,
		embeddings:   embeddings,
		whatifs:      whatifs,
	}
}

// Simulate builds the baseline prediction exactly as Predict does, then
// applies scenario to an in-memory copy of the profile and reruns feature
// extraction, embedding, and classification for the projected branch. The
// modified profile is never persisted; the baseline prediction (through
// Predict) and the resulting WhatIfResult are.
func (s *Simulator) Simulate(ctx context.Context, userID, jobID string, scenario model.Scenario) (*model.WhatIfResult, error) {
	baseline, err := s.orchestrator.Predict(ctx, userID, jobID)
	if err != nil {
		return nil, err
	}

	profile, job, err := s.orchestrator.fetchInputs(ctx, userID, jobID)
	if err != nil {
		return nil, err
	}

	result, err := s.project(ctx, job, profile, baseline, scenario)
	if err != nil {
		return nil, err
	}

	if err := s.whatifs.Save(ctx, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (s *Simulator) project(ctx context.Context, job *jmmodel.Resolved, profile *cpmodel.CandidateProfile, baseline *model.Prediction, scenario model.Scenario) (*model.WhatIfResult, error) {
	modified := applyScenario(profile, scenario)

	_, values := features.Extract(modified)

	jobEmbedding, err := s.embeddings.EmbedJob(ctx, job.ID, job.JDText)
	if err != nil {
		return nil, err
	}
	skillEmbedding, err := s.embeddings.EmbedSkillText(ctx, joinSkillNames(modified.Skills))
	if err != nil {
		return nil, err
	}
	projectedJobMatch := embservice.CosineSimilarity(skillEmbedding, jobEmbedding.Embedding)

	classifierResult, err := s.orchestrator.classifier.Predict(ctx, features.Slice(values))
	if err != nil {
		return nil, err
	}

	projectedProbability := model.ShortlistProbability(classifierResult.CandidateStrength, projectedJobMatch)

	return &model.WhatIfResult{
		UserID:                        baseline.UserID,
		JobID:                         baseline.JobID,
		BaselineCandidateStrength:     baseline.CandidateStrength,
		BaselineJobMatchScore:         baseline.JobMatchScore,
		BaselineShortlistProbability:  baseline.ShortlistProbability,
		ProjectedCandidateStrength:    classifierResult.CandidateStrength,
		ProjectedJobMatchScore:        projectedJobMatch,
		ProjectedShortlistProbability: projectedProbability,
		DeltaCandidateStrength:        classifierResult.CandidateStrength - baseline.CandidateStrength,
		DeltaJobMatchScore:            projectedJobMatch - baseline.JobMatchScore,
		DeltaShortlistProbability:     projectedProbability - baseline.ShortlistProbability,
		Scenario:                      scenario,
		Timestamp:                     time.Now().UTC(),
	}, nil
}

// Recommend runs a greedy search over the baseline's missing skills, adding
// one at a time — each trial recomputed through the full embedding and
// classifier pipeline — until the target probability is reached or the list
// is exhausted. Every trial costs a subprocess round trip, so the search is
// rate-limited rather than fired as fast as the loop can go.
func (s *Simulator) Recommend(ctx context.Context, userID, jobID string) (*model.Recommendation, error) {
	baseline, err := s.orchestrator.Predict(ctx, userID, jobID)
	if err != nil {
		return nil, err
	}

	profile, job, err := s.orchestrator.fetchInputs(ctx, userID, jobID)
	if err != nil {
		return nil, err
	}

	limiter := rate.NewLimiter(rate.Every(150*time.Millisecond), 1)

	best := baseline.ShortlistProbability
	var accumulated, learned []string
	for _, skill := range baseline.MissingSkills {
		if best >= defaultTargetProbability {
			break
		}
		if err := limiter.Wait(ctx); err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrTimeout, err)
		}

		trial := append(append([]string{}, accumulated...), skill)
		result, err := s.project(ctx, job, profile, baseline, model.Scenario{AddedSkills: trial})
		if err != nil {
			return nil, err
		}

		if result.ProjectedShortlistProbability > best {
			accumulated = trial
			learned = append(learned, skill)
			best = result.ProjectedShortlistProbability
		}
	}

	return &model.Recommendation{
		TopSkillsToLearn: learned,
		SkillsToImprove:  baseline.WeakSkills,
		EstimatedImpact:  best - baseline.ShortlistProbability,
	}, nil
}
