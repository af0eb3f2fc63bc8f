package service

import (
	"context"
	"testing"

	cpmodel "github.com/arjunmehta/shortlist-engine/modules/candidateprofile/model"
	jmmodel "github.com/arjunmehta/shortlist-engine/modules/jobmatch/model"
	"github.com/arjunmehta/shortlist-engine/modules/shortlist/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeWhatIfStore struct {
	saved []*model.WhatIfResult
}

func (s *fakeWhatIfStore) Save(ctx context.Context, result *model.WhatIfResult) error {
	s.saved = append(s.saved, result)
	return nil
}

func goOnlyProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{
		skills: []cpmodel.Skill{{Name: "Go", Level: cpmodel.Advanced}},
	}
}

func newSimulatorUnderTest(t *testing.T, jobs map[string]*jmmodel.JobRecord, vectors map[string][]float64, whatifs *fakeWhatIfStore) *Simulator {
	t.Helper()
	o := newOrchestratorUnderTest(t, goOnlyProfileRepo(), jobs, 0.7, vectors, &fakePredictionStore{})
	return NewSimulator(o, o.embeddings, whatifs)
}

func TestSimulator_Simulate_ComputesProjectedDelta(t *testing.T) {
	jobs := map[string]*jmmodel.JobRecord{
		"job1": jobRecord("job1", "needs go and kubernetes", []string{"Go", "Kubernetes"}),
	}
	vectors := map[string][]float64{
		"needs go and kubernetes": {0, 1},
		"Go":                      {1, 0},
		"Go Kubernetes":           {0, 1},
	}
	whatifs := &fakeWhatIfStore{}
	sim := newSimulatorUnderTest(t, jobs, vectors, whatifs)

	result, err := sim.Simulate(context.Background(), "user1", "job1", model.Scenario{AddedSkills: []string{"Kubernetes"}})

	require.NoError(t, err)
	assert.Equal(t, "user1", result.UserID)
	assert.Equal(t, "job1", result.JobID)
	assert.InDelta(t, 0.0, result.BaselineJobMatchScore, 0.0001)
	assert.InDelta(t, 1.0, result.ProjectedJobMatchScore, 0.0001)
	assert.InDelta(t, 1.0, result.DeltaJobMatchScore, 0.0001)
	assert.InDelta(t, 0.0, result.DeltaCandidateStrength, 0.0001)
	assert.InDelta(t, result.ProjectedShortlistProbability-result.BaselineShortlistProbability, result.DeltaShortlistProbability, 0.0001)
	require.Len(t, whatifs.saved, 1)
	assert.Same(t, result, whatifs.saved[0])
}

func TestSimulator_Simulate_NeverMutatesRealProfile(t *testing.T) {
	jobs := map[string]*jmmodel.JobRecord{
		"job1": jobRecord("job1", "needs go and kubernetes", []string{"Go", "Kubernetes"}),
	}
	vectors := map[string][]float64{
		"needs go and kubernetes": {0, 1},
		"Go":                      {1, 0},
		"Go Kubernetes":           {0, 1},
	}
	sim := newSimulatorUnderTest(t, jobs, vectors, &fakeWhatIfStore{})

	_, err := sim.Simulate(context.Background(), "user1", "job1", model.Scenario{AddedSkills: []string{"Kubernetes"}})
	require.NoError(t, err)

	baseline, err := sim.orchestrator.Predict(context.Background(), "user1", "job1")
	require.NoError(t, err)
	assert.InDelta(t, 0.0, baseline.JobMatchScore, 0.0001, "a prior simulation must not leak into a later real prediction")
}

func TestSimulator_Recommend_StopsOnceTargetReached(t *testing.T) {
	jobs := map[string]*jmmodel.JobRecord{
		"job1": jobRecord("job1", "needs go kubernetes and docker", []string{"Go", "Kubernetes", "Docker"}),
	}
	vectors := map[string][]float64{
		"needs go kubernetes and docker": {0, 1},
		"Go":                             {1, 0},
		"Go Kubernetes":                  {0, 1},
	}
	sim := newSimulatorUnderTest(t, jobs, vectors, &fakeWhatIfStore{})

	rec, err := sim.Recommend(context.Background(), "user1", "job1")

	require.NoError(t, err)
	assert.Equal(t, []string{"Kubernetes"}, rec.TopSkillsToLearn)
	assert.InDelta(t, 0.6, rec.EstimatedImpact, 0.0001)
}

func TestSimulator_Recommend_NoImprovementExhaustsMissingSkills(t *testing.T) {
	jobs := map[string]*jmmodel.JobRecord{
		"job1": jobRecord("job1", "needs go kubernetes and docker", []string{"Go", "Kubernetes", "Docker"}),
	}
	vectors := map[string][]float64{
		"needs go kubernetes and docker": {0, 1},
		"Go":                             {1, 0},
		"Go Kubernetes":                  {1, 0},
		"Go Docker":                      {1, 0},
	}
	sim := newSimulatorUnderTest(t, jobs, vectors, &fakeWhatIfStore{})

	rec, err := sim.Recommend(context.Background(), "user1", "job1")

	require.NoError(t, err)
	assert.Empty(t, rec.TopSkillsToLearn)
	assert.Equal(t, 0.0, rec.EstimatedImpact)
}
