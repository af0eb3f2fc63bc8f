package service

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
	"github.com/arjunmehta/shortlist-engine/modules/shortlist/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New("error", "console")
	require.NoError(t, err)
	return l
}

// fixedResponseScript writes an executable shell script to dir that reads
// one line per invocation from stdin and always replies with response.
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

// fakeEmbeddingWorker returns a fixed vector per exact input text, so tests
// can engineer cosine similarities deterministically.
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
	userType   *cpmodel.UserType
	skills     []cpmodel.Skill
	education  []cpmodel.Education
	experience []cpmodel.Experience
	projects   []cpmodel.Project
}

func (r *fakeProfileRepo) GetUserType(ctx context.Context, userID string) (*cpmodel.UserType, error) {
	return r.userType, nil
}
func (r *fakeProfileRepo) GetSkills(ctx context.Context, userID string) ([]cpmodel.Skill, error) {
	return r.skills, nil
}
func (r *fakeProfileRepo) GetEducation(ctx context.Context, userID string) ([]cpmodel.Education, error) {
	return r.education, nil
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
	saved []*model.Prediction
}

func (s *fakePredictionStore) Save(ctx context.Context, prediction *model.Prediction) error {
	s.saved = append(s.saved, prediction)
	return nil
}
func (s *fakePredictionStore) History(ctx context.Context, userID string, limit int) ([]*model.Prediction, error) {
	return s.saved, nil
}
func (s *fakePredictionStore) Analytics(ctx context.Context, userID string) (*model.AnalyticsSummary, error) {
	return &model.AnalyticsSummary{}, nil
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

func newOrchestratorUnderTest(t *testing.T, profileRepo *fakeProfileRepo, jobs map[string]*jmmodel.JobRecord, classifierStrength float64, vectors map[string][]float64, store *fakePredictionStore) *Orchestrator {
	t.Helper()
	log := testLogger(t)
	builder := cpservice.NewProfileBuilder(profileRepo, &fakeResumeSnapshotRepo{}, log)
	fetcher := jmservice.NewJobFetcher(&fakeJobRepo{jobs: jobs}, log)
	embeddings := embservice.NewService(&fakeEmbeddingWorker{vectors: vectors}, log, false)
	classifier := newTestClassifier(t, classifierStrength)
	pool := concurrency.NewPredictionPool(4, time.Second)
	return NewOrchestrator(builder, fetcher, embeddings, classifier, store, pool, log)
}

func strongProfileRepo() *fakeProfileRepo {
	return &fakeProfileRepo{
		skills: []cpmodel.Skill{
			{Name: "Go", Level: cpmodel.Advanced},
			{Name: "Python", Level: cpmodel.Intermediate},
		},
		experience: []cpmodel.Experience{{Role: "Backend Engineer", Type: cpmodel.ExperienceJob, DurationMonths: intPtr(12)}},
		projects:   []cpmodel.Project{{Title: "Service", Complexity: cpmodel.ComplexityMedium}},
	}
}

func intPtr(v int) *int { return &v }

func TestOrchestrator_Predict_Success(t *testing.T) {
	store := &fakePredictionStore{}
	vectors := map[string][]float64{
		"job one description": {1, 0},
		"Go Python":            {1, 1},
	}
	jobs := map[string]*jmmodel.JobRecord{
		"job1": jobRecord("job1", "job one description", []string{"Go", "Rust"}),
	}
	o := newOrchestratorUnderTest(t, strongProfileRepo(), jobs, 0.7, vectors, store)

	pred, err := o.Predict(context.Background(), "user1", "job1")

	require.NoError(t, err)
	assert.Equal(t, "user1", pred.UserID)
	assert.Equal(t, "job1", pred.JobID)
	assert.InDelta(t, 0.7, pred.CandidateStrength, 0.0001)
	assert.InDelta(t, 1.0/1.4142135623730951, pred.JobMatchScore, 0.0001)
	assert.Equal(t, model.ShortlistProbability(pred.CandidateStrength, pred.JobMatchScore), pred.ShortlistProbability)
	assert.Equal(t, []string{"Go"}, pred.MatchedSkills)
	assert.Equal(t, []string{"Rust"}, pred.MissingSkills)
	assert.Equal(t, model.StatusDone, pred.Status)
	require.Len(t, store.saved, 1)
	assert.Same(t, pred, store.saved[0])
}

func TestOrchestrator_Predict_MissingIDs(t *testing.T) {
	o := newOrchestratorUnderTest(t, strongProfileRepo(), map[string]*jmmodel.JobRecord{}, 0.7, nil, &fakePredictionStore{})

	_, err := o.Predict(context.Background(), "", "job1")
	assert.ErrorIs(t, err, model.ErrMissingIDs)

	_, err = o.Predict(context.Background(), "user1", "")
	assert.ErrorIs(t, err, model.ErrMissingIDs)
}

func TestOrchestrator_Predict_CandidateIncomplete(t *testing.T) {
	emptyRepo := &fakeProfileRepo{}
	jobs := map[string]*jmmodel.JobRecord{
		"job1": jobRecord("job1", "some job description", []string{"Go"}),
	}
	o := newOrchestratorUnderTest(t, emptyRepo, jobs, 0.7, map[string][]float64{}, &fakePredictionStore{})

	_, err := o.Predict(context.Background(), "user1", "job1")

	assert.ErrorIs(t, err, model.ErrCandidateIncomplete)
}

func TestOrchestrator_Predict_FeatureShapeMismatch(t *testing.T) {
	vectors := map[string][]float64{
		"job one description": {1, 0},
		"Go Python":            {1, 1},
	}
	jobs := map[string]*jmmodel.JobRecord{
		"job1": jobRecord("job1", "job one description", []string{"Go"}),
	}
	o := newOrchestratorUnderTest(t, strongProfileRepo(), jobs, 0, vectors, &fakePredictionStore{})

	_, err := o.Predict(context.Background(), "user1", "job1")

	assert.ErrorIs(t, err, model.ErrFeatureShapeMismatch)
}

func TestOrchestrator_Predict_StateLeakageDetected(t *testing.T) {
	vectors := map[string][]float64{
		"job one description": {1, 0},
		"job two description": {0, 1},
		"Go Python":            {1, 1},
	}
	jobs := map[string]*jmmodel.JobRecord{
		"job1": jobRecord("job1", "job one description", []string{"Go"}),
		"job2": jobRecord("job2", "job two description", []string{"Go"}),
	}
	o := newOrchestratorUnderTest(t, strongProfileRepo(), jobs, 0.7, vectors, &fakePredictionStore{})

	_, err := o.Predict(context.Background(), "user1", "job1")
	require.NoError(t, err)

	_, err = o.Predict(context.Background(), "user1", "job2")

	assert.ErrorIs(t, err, model.ErrStateLeakageDetected)
}
