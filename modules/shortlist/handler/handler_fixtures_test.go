package handler

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arjunmehta/shortlist-engine/internal/platform/concurrency"
	"github.com/arjunmehta/shortlist-engine/internal/platform/logger"
	cpmodel "github.com/arjunmehta/shortlist-engine/modules/candidateprofile/model"
	cpservice "github.com/arjunmehta/shortlist-engine/modules/candidateprofile/service"
	clfservice "github.com/arjunmehta/shortlist-engine/modules/classifier/service"
	embservice "github.com/arjunmehta/shortlist-engine/modules/embedding/service"
	jmmodel "github.com/arjunmehta/shortlist-engine/modules/jobmatch/model"
	jmservice "github.com/arjunmehta/shortlist-engine/modules/jobmatch/service"
	slmodel "github.com/arjunmehta/shortlist-engine/modules/shortlist/model"
	"github.com/arjunmehta/shortlist-engine/modules/shortlist/service"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New("error", "console")
	require.NoError(t, err)
	return l
}

func setupTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	return gin.New()
}

func mockAuthMiddleware(userID string) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	}
}

// fixedResponseScript writes an executable shell script that always replies
// with response to whatever line it reads, standing in for the classifier
// subprocess in handler-level tests.
func fixedResponseScript(t *testing.T, response string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "worker.sh")
	script := "#!/bin/sh\nwhile IFS= read -r line; do printf '%s\\n' '" + response + "'; done\n"
	require.NoError(t, os.WriteFile(path, []byte(script), 0o755))
	return path
}

func newTestClassifier(t *testing.T, candidateStrength float64) *clfservice.Bridge {
	t.Helper()
	script := fixedResponseScript(t, fmt.Sprintf(`{"success":true,"candidateStrength":%v}`, candidateStrength))
	bridge, err := clfservice.NewBridge(context.Background(), testLogger(t), script, 5*time.Second)
	require.NoError(t, err)
	return bridge
}

type fakeEmbeddingWorker struct {
	vectors map[string][]float64
}

func (w *fakeEmbeddingWorker) Embed(ctx context.Context, text string) ([]float64, error) {
	if v, ok := w.vectors[text]; ok {
		return v, nil
	}
	return []float64{0, 0}, nil
}

type fakeProfileRepo struct {
	skills     []cpmodel.Skill
	experience []cpmodel.Experience
	projects   []cpmodel.Project
}

func (r *fakeProfileRepo) GetUserType(ctx context.Context, userID string) (*cpmodel.UserType, error) {
	return nil, nil
}
func (r *fakeProfileRepo) GetSkills(ctx context.Context, userID string) ([]cpmodel.Skill, error) {
	return r.skills, nil
}
func (r *fakeProfileRepo) GetEducation(ctx context.Context, userID string) ([]cpmodel.Education, error) {
	return nil, nil
}
func (r *fakeProfileRepo) GetExperience(ctx context.Context, userID string) ([]cpmodel.Experience, error) {
	return r.experience, nil
}
func (r *fakeProfileRepo) GetProjects(ctx context.Context, userID string) ([]cpmodel.Project, error) {
	return r.projects, nil
}

type fakeResumeSnapshotRepo struct{}

func (r *fakeResumeSnapshotRepo) GetSnapshot(ctx context.Context, userID string) (*cpmodel.ResumeSnapshot, error) {
	return &cpmodel.ResumeSnapshot{}, nil
}
func (r *fakeResumeSnapshotRepo) ReplaceProfile(ctx context.Context, userID string, resume *cpmodel.ParsedResume, status cpmodel.ParsingStatus) error {
	return nil
}
func (r *fakeResumeSnapshotRepo) MarkParseFailed(ctx context.Context, userID string) error {
	return nil
}

type fakeJobRepo struct {
	jobs map[string]*jmmodel.JobRecord
}

func (r *fakeJobRepo) GetByID(ctx context.Context, jobID string) (*jmmodel.JobRecord, error) {
	job, ok := r.jobs[jobID]
	if !ok {
		return nil, jmmodel.ErrJobNotFound
	}
	return job, nil
}
func (r *fakeJobRepo) PersistSkills(ctx context.Context, jobID string, skills []string) error {
	return nil
}

type fakePredictionStore struct {
	saved []*slmodel.Prediction
}

func (s *fakePredictionStore) Save(ctx context.Context, prediction *slmodel.Prediction) error {
	s.saved = append(s.saved, prediction)
	return nil
}
func (s *fakePredictionStore) History(ctx context.Context, userID string, limit int) ([]*slmodel.Prediction, error) {
	return s.saved, nil
}
func (s *fakePredictionStore) Analytics(ctx context.Context, userID string) (*slmodel.AnalyticsSummary, error) {
	return &slmodel.AnalyticsSummary{TotalPredictions: len(s.saved)}, nil
}

type fakeWhatIfStore struct {
	saved []*slmodel.WhatIfResult
}

func (s *fakeWhatIfStore) Save(ctx context.Context, result *slmodel.WhatIfResult) error {
	s.saved = append(s.saved, result)
	return nil
}

func strPtr(s string) *string { return &s }

func jobRecord(id, description string, skills []string) *jmmodel.JobRecord {
	return &jmmodel.JobRecord{
		ID:             id,
		Title:          "Backend Engineer",
		JobDescription: strPtr(description),
		Skills:         skills,
	}
}

func strongProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{
		skills:     []cpmodel.Skill{{Name: "Go", Level: cpmodel.Advanced}},
		experience: []cpmodel.Experience{{Role: "Backend Engineer", Type: cpmodel.ExperienceJob}},
		projects:   []cpmodel.Project{{Title: "Service", Complexity: cpmodel.ComplexityMedium}},
	}
}

// testRig wires a real Orchestrator/Simulator/BatchPredictor over fake
// ports and a fixed-response classifier subprocess, exactly like the
// service package's own integration tests.
type testRig struct {
	orchestrator *service.Orchestrator
	simulator    *service.Simulator
	batch        *service.BatchPredictor
	predictions  *fakePredictionStore
	whatifs      *fakeWhatIfStore
}

func newTestRig(t *testing.T, profileRepo *fakeProfileRepo, jobs map[string]*jmmodel.JobRecord, candidateStrength float64, vectors map[string][]float64) *testRig {
	t.Helper()
	log := testLogger(t)
	builder := cpservice.NewProfileBuilder(profileRepo, &fakeResumeSnapshotRepo{}, log)
	fetcher := jmservice.NewJobFetcher(&fakeJobRepo{jobs: jobs}, log)
	embeddings := embservice.NewService(&fakeEmbeddingWorker{vectors: vectors}, log, false)
	classifier := newTestClassifier(t, candidateStrength)
	pool := concurrency.NewPredictionPool(4, time.Second)
	predictions := &fakePredictionStore{}
	whatifs := &fakeWhatIfStore{}

	orchestrator := service.NewOrchestrator(builder, fetcher, embeddings, classifier, predictions, pool, log)
	simulator := service.NewSimulator(orchestrator, embeddings, whatifs)
	batch := service.NewBatchPredictor(orchestrator, log)

	return &testRig{orchestrator: orchestrator, simulator: simulator, batch: batch, predictions: predictions, whatifs: whatifs}
}
