package service

import (
	"context"
	"testing"

	"github.com/arjunmehta/shortlist-engine/internal/platform/logger"
	"github.com/arjunmehta/shortlist-engine/modules/embedding/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockWorker struct {
	EmbedFunc func(ctx context.Context, text string) ([]float64, error)
	calls     int
}

func (m *mockWorker) Embed(ctx context.Context, text string) ([]float64, error) {
	m.calls++
	return m.EmbedFunc(ctx, text)
}

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	l, err := logger.New("error", "console")
	require.NoError(t, err)
	return l
}

func unitVector(seed float64) []float64 {
	v := make([]float64, model.EmbeddingDim)
	v[0] = seed
	v[1] = 1 - seed*seed // not actually normalized but fine for test math
	return v
}

func TestEmbedJob_CachesWithinSameJob(t *testing.T) {
	worker := &mockWorker{EmbedFunc: func(ctx context.Context, text string) ([]float64, error) {
		return unitVector(0.1), nil
	}}
	svc := NewService(worker, testLogger(t), false)

	first, err := svc.EmbedJob(context.Background(), "job-1", "text")
	require.NoError(t, err)
	assert.Equal(t, SourceFresh, first.Source)

	second, err := svc.EmbedJob(context.Background(), "job-1", "text")
	require.NoError(t, err)
	assert.Equal(t, SourceCached, second.Source)
	assert.Equal(t, 1, worker.calls)
}

func TestEmbedJob_EvictsCacheOnJobTransition(t *testing.T) {
	calls := 0
	worker := &mockWorker{EmbedFunc: func(ctx context.Context, text string) ([]float64, error) {
		calls++
		return unitVector(float64(calls) * 0.1), nil
	}}
	svc := NewService(worker, testLogger(t), false)

	_, err := svc.EmbedJob(context.Background(), "job-1", "a")
	require.NoError(t, err)
	_, err = svc.EmbedJob(context.Background(), "job-2", "b")
	require.NoError(t, err)

	// returning to job-1 after the cache was evicted by the job-2
	// transition must recompute, not serve a stale cached vector.
	result, err := svc.EmbedJob(context.Background(), "job-1", "a")
	require.NoError(t, err)
	assert.Equal(t, SourceFresh, result.Source)
	assert.Equal(t, 3, calls)
}

func TestEmbedJob_CacheDisabledAlwaysRecomputes(t *testing.T) {
	calls := 0
	worker := &mockWorker{EmbedFunc: func(ctx context.Context, text string) ([]float64, error) {
		calls++
		return unitVector(float64(calls) * 0.01), nil
	}}
	svc := NewService(worker, testLogger(t), true)

	_, err := svc.EmbedJob(context.Background(), "job-1", "a")
	require.NoError(t, err)
	result, err := svc.EmbedJob(context.Background(), "job-1", "a")
	require.NoError(t, err)

	assert.Equal(t, SourceFresh, result.Source)
	assert.Equal(t, 2, calls)
}

func TestEmbedJob_DetectsDuplicateAcrossDistinctJobs(t *testing.T) {
	identical := unitVector(0.42)
	worker := &mockWorker{EmbedFunc: func(ctx context.Context, text string) ([]float64, error) {
		return identical, nil
	}}
	svc := NewService(worker, testLogger(t), false)

	_, err := svc.EmbedJob(context.Background(), "job-1", "a")
	require.NoError(t, err)

	_, err = svc.EmbedJob(context.Background(), "job-2", "b")
	assert.ErrorIs(t, err, model.ErrDuplicateEmbeddingDetected)
}

func TestEmbedSkillText_NeverCached(t *testing.T) {
	calls := 0
	worker := &mockWorker{EmbedFunc: func(ctx context.Context, text string) ([]float64, error) {
		calls++
		return unitVector(0.2), nil
	}}
	svc := NewService(worker, testLogger(t), false)

	_, err := svc.EmbedSkillText(context.Background(), "python go")
	require.NoError(t, err)
	_, err = svc.EmbedSkillText(context.Background(), "python go")
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
}

func TestCosineSimilarity(t *testing.T) {
	a := []float64{1, 0, 0}
	b := []float64{1, 0, 0}
	assert.InDelta(t, 1.0, CosineSimilarity(a, b), 0.0001)

	c := []float64{0, 1, 0}
	assert.InDelta(t, 0.0, CosineSimilarity(a, c), 0.0001)

	zero := []float64{0, 0, 0}
	assert.Equal(t, 0.0, CosineSimilarity(a, zero))

	assert.Equal(t, 0.0, CosineSimilarity(a, []float64{1, 0}))
}
