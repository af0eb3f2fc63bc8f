package handler

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	jmmodel "github.com/arjunmehta/shortlist-engine/modules/jobmatch/model"
	slmodel "github.com/arjunmehta/shortlist-engine/modules/shortlist/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPredictHandler_Predict_Success(t *testing.T) {
	jobs := map[string]*jmmodel.JobRecord{
		"job1": jobRecord("job1", "needs go", []string{"Go"}),
	}
	vectors := map[string][]float64{
		"needs go": {1, 0},
		"Go":       {1, 0},
	}
	rig := newTestRig(t, strongProfileRepo(), jobs, 0.7, vectors)
	h := NewPredictHandler(rig.orchestrator, rig.simulator, rig.batch)

	router := setupTestRouter()
	router.POST("/shortlist/predict", mockAuthMiddleware("user1"), h.Predict)

	body := `{"userId":"user1","jobId":"job1"}`
	req, _ := http.NewRequest(http.MethodPost, "/shortlist/predict", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var resp slmodel.Prediction
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "user1", resp.UserID)
	assert.Equal(t, "job1", resp.JobID)
}

func TestPredictHandler_Predict_Unauthenticated(t *testing.T) {
	rig := newTestRig(t, strongProfileRepo(), map[string]*jmmodel.JobRecord{}, 0.7, nil)
	h := NewPredictHandler(rig.orchestrator, rig.simulator, rig.batch)

	router := setupTestRouter()
	router.POST("/shortlist/predict", h.Predict)

	body := `{"userId":"user1","jobId":"job1"}`
	req, _ := http.NewRequest(http.MethodPost, "/shortlist/predict", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestPredictHandler_Predict_JobNotFoundMapsTo404(t *testing.T) {
	rig := newTestRig(t, strongProfileRepo(), map[string]*jmmodel.JobRecord{}, 0.7, nil)
	h := NewPredictHandler(rig.orchestrator, rig.simulator, rig.batch)

	router := setupTestRouter()
	router.POST("/shortlist/predict", mockAuthMiddleware("user1"), h.Predict)

	body := `{"userId":"user1","jobId":"missing"}`
	req, _ := http.NewRequest(http.MethodPost, "/shortlist/predict", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPredictHandler_Batch_PartialFailureStillReturns200(t *testing.T) {
	jobs := map[string]*jmmodel.JobRecord{
		"job1": jobRecord("job1", "needs go", []string{"Go"}),
	}
	vectors := map[string][]float64{
		"needs go": {1, 0},
		"Go":       {1, 0},
	}
	rig := newTestRig(t, strongProfileRepo(), jobs, 0.7, vectors)
	h := NewPredictHandler(rig.orchestrator, rig.simulator, rig.batch)

	router := setupTestRouter()
	router.POST("/shortlist/batch", mockAuthMiddleware("user1"), h.Batch)

	body := `{"userId":"user1","jobIds":["job1","missing"]}`
	req, _ := http.NewRequest(http.MethodPost, "/shortlist/batch", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	var results []struct {
		UserID    string `json:"userId"`
		JobID     string `json:"jobId"`
		ErrorCode string `json:"errorCode,omitempty"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	require.Len(t, results, 2)
	assert.Empty(t, results[0].ErrorCode)
	assert.Equal(t, "JOB_NOT_FOUND", results[1].ErrorCode)
}

func TestPredictHandler_Batch_EmptyJobIDsRejected(t *testing.T) {
	rig := newTestRig(t, strongProfileRepo(), map[string]*jmmodel.JobRecord{}, 0.7, nil)
	h := NewPredictHandler(rig.orchestrator, rig.simulator, rig.batch)

	router := setupTestRouter()
	router.POST("/shortlist/batch", mockAuthMiddleware("user1"), h.Batch)

	req, _ := http.NewRequest(http.MethodPost, "/shortlist/batch", bytes.NewBufferString(`{"userId":"user1","jobIds":[]}`))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPredictHandler_Recommendations_MissingJobID(t *testing.T) {
	rig := newTestRig(t, strongProfileRepo(), map[string]*jmmodel.JobRecord{}, 0.7, nil)
	h := NewPredictHandler(rig.orchestrator, rig.simulator, rig.batch)

	router := setupTestRouter()
	router.GET("/shortlist/recommendations/:jobId", mockAuthMiddleware("user1"), h.Recommendations)

	req, _ := http.NewRequest(http.MethodGet, "/shortlist/recommendations/job1", nil) // no userId query
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestPredictHandler_RegisterRoutes(t *testing.T) {
	rig := newTestRig(t, strongProfileRepo(), map[string]*jmmodel.JobRecord{}, 0.7, nil)
	h := NewPredictHandler(rig.orchestrator, rig.simulator, rig.batch)

	router := setupTestRouter()
	api := router.Group("/api")
	h.RegisterRoutes(api, mockAuthMiddleware("user1"))

	routes := []struct {
		method string
		path   string
	}{
		{http.MethodPost, "/api/shortlist/predict"},
		{http.MethodPost, "/api/shortlist/batch"},
		{http.MethodGet, "/api/shortlist/recommendations/job1"},
	}
	for _, route := range routes {
		req, _ := http.NewRequest(route.method, route.path, bytes.NewBufferString(`{}`))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.NotEqual(t, http.StatusNotFound, w.Code, "route %s %s should be registered", route.method, route.path)
	}
}
