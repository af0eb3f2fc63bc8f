package handler

import (
	"net/http"

	"github.com/arjunmehta/shortlist-engine/internal/platform/auth"
	httpPlatform "github.com/arjunmehta/shortlist-engine/internal/platform/http"
	"github.com/arjunmehta/shortlist-engine/modules/shortlist/model"
	"github.com/arjunmehta/shortlist-engine/modules/shortlist/service"
	"github.com/gin-gonic/gin"
)

// PredictHandler serves the core predict, batch, and recommendations
// endpoints — everything driven directly by the orchestrator/simulator.
type PredictHandler struct {
	orchestrator *service.Orchestrator
	simulator    *service.Simulator
	batch        *service.BatchPredictor
}

func NewPredictHandler(orchestrator *service.Orchestrator, simulator *service.Simulator, batch *service.BatchPredictor) *PredictHandler {
	return &PredictHandler{orchestrator: orchestrator, simulator: simulator, batch: batch}
}

func respondModelError(c *gin.Context, err error) {
	code := model.GetErrorCode(err)
	httpPlatform.RespondWithError(c, model.HTTPStatus(code), string(code), model.GetErrorMessage(err))
}

type predictRequest struct {
	UserID string `json:"userId" binding:"required"`
	JobID  string `json:"jobId" binding:"required"`
}

// Predict godoc
// @Summary Predict shortlist probability
// @Description Computes a calibrated probability the candidate clears an initial screen for the given job
// @Tags shortlist
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body predictRequest true "Candidate/job pair"
// @Success 200 {object} model.Prediction
// @Failure 400 {object} httpPlatform.ErrorResponse
// @Failure 404 {object} httpPlatform.ErrorResponse
// @Failure 422 {object} httpPlatform.ErrorResponse
// @Failure 503 {object} httpPlatform.ErrorResponse
// @Failure 504 {object} httpPlatform.ErrorResponse
// @Router /shortlist/predict [post]
func (h *PredictHandler) Predict(c *gin.Context) {
	if _, exists := auth.MustGetUserID(c); !exists {
		return
	}

	var req predictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, string(model.CodeValidation), "userId and jobId are required")
		return
	}

	prediction, err := h.orchestrator.Predict(c.Request.Context(), req.UserID, req.JobID)
	if err != nil {
		respondModelError(c, err)
		return
	}

	httpPlatform.RespondWithData(c, http.StatusOK, prediction)
}

type batchPredictRequest struct {
	UserID string   `json:"userId" binding:"required"`
	JobIDs []string `json:"jobIds" binding:"required,min=1,dive,required"`
}

// Batch godoc
// @Summary Predict shortlist probability for one candidate across many jobs
// @Description Runs independent predictions for each job and reports partial success
// @Tags shortlist
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body batchPredictRequest true "Candidate and job IDs"
// @Success 200 {array} service.BatchResult
// @Failure 400 {object} httpPlatform.ErrorResponse
// @Router /shortlist/batch [post]
func (h *PredictHandler) Batch(c *gin.Context) {
	if _, exists := auth.MustGetUserID(c); !exists {
		return
	}

	var req batchPredictRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, string(model.CodeValidation), "userId and a non-empty jobIds array are required")
		return
	}

	items := make([]service.BatchItem, len(req.JobIDs))
	for i, jobID := range req.JobIDs {
		items[i] = service.BatchItem{UserID: req.UserID, JobID: jobID}
	}

	results := h.batch.Predict(c.Request.Context(), items)
	httpPlatform.RespondWithData(c, http.StatusOK, results)
}

// Recommendations godoc
// @Summary Recommend skills to learn or improve for a job
// @Description Greedy-searches the candidate's missing skills for the set that most improves shortlist probability
// @Tags shortlist
// @Security BearerAuth
// @Produce json
// @Param jobId path string true "Job ID"
// @Param userId query string true "Candidate user ID"
// @Success 200 {object} model.Recommendation
// @Failure 400 {object} httpPlatform.ErrorResponse
// @Failure 404 {object} httpPlatform.ErrorResponse
// @Failure 422 {object} httpPlatform.ErrorResponse
// @Router /shortlist/recommendations/{jobId} [get]
func (h *PredictHandler) Recommendations(c *gin.Context) {
	if _, exists := auth.MustGetUserID(c); !exists {
		return
	}

	jobID := c.Param("jobId")
	userID := c.Query("userId")
	if userID == "" || jobID == "" {
		respondModelError(c, model.ErrMissingIDs)
		return
	}

	recommendation, err := h.simulator.Recommend(c.Request.Context(), userID, jobID)
	if err != nil {
		respondModelError(c, err)
		return
	}

	httpPlatform.RespondWithData(c, http.StatusOK, recommendation)
}

// RegisterRoutes registers the predict/batch/recommendations routes.
func (h *PredictHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	shortlist := router.Group("/shortlist")
	shortlist.Use(authMiddleware)
	{
		shortlist.POST("/predict", h.Predict)
		shortlist.POST("/batch", h.Batch)
		shortlist.GET("/recommendations/:jobId", h.Recommendations)
	}
}
