package service

import (
	"context"
	"testing"

	jmmodel "github.com/arjunmehta/shortlist-engine/modules/jobmatch/model"
	"github.com/arjunmehta/shortlist-engine/modules/shortlist/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBatchPredictor_Predict_PartialFailureDoesNotAbortOthers(t *testing.T) {
	vectors := map[string][]float64{
		"job one description": {1, 0},
		"Go Python":            {1, 1},
	}
	jobs := map[string]*jmmodel.JobRecord{
		"job1": jobRecord("job1", "job one description", []string{"Go"}),
	}
	o := newOrchestratorUnderTest(t, strongProfileRepo(), jobs, 0.7, vectors, &fakePredictionStore{})
	batch := NewBatchPredictor(o, testLogger(t))

	items := []BatchItem{
		{UserID: "user1", JobID: "job1"},
		{UserID: "user1", JobID: "missing-job"},
	}

	results := batch.Predict(context.Background(), items)

	require.Len(t, results, 2)
	assert.NotNil(t, results[0].Prediction)
	assert.Empty(t, results[0].ErrorCode)

	assert.Nil(t, results[1].Prediction)
	assert.Equal(t, model.GetErrorCode(jmmodel.ErrJobNotFound), results[1].ErrorCode)
	assert.Equal(t, "job1", results[0].JobID)
	assert.Equal(t, "missing-job", results[1].JobID)
}

func TestBatchPredictor_Predict_EmptyItemsReturnsEmptyResults(t *testing.T) {
	o := newOrchestratorUnderTest(t, strongProfileRepo(), map[string]*jmmodel.JobRecord{}, 0.7, nil, &fakePredictionStore{})
	batch := NewBatchPredictor(o, testLogger(t))

	results := batch.Predict(context.Background(), nil)

	assert.Empty(t, results)
}
