package handler

import (
	"net/http"
	"strconv"

	"github.com/arjunmehta/shortlist-engine/internal/platform/auth"
	httpPlatform "github.com/arjunmehta/shortlist-engine/internal/platform/http"
	"github.com/arjunmehta/shortlist-engine/modules/shortlist/model"
	"github.com/arjunmehta/shortlist-engine/modules/shortlist/ports"
	"github.com/gin-gonic/gin"
)

// HistoryHandler serves the history and analytics read endpoints, both
// backed directly by the prediction store — no orchestrator involvement.
type HistoryHandler struct {
	predictions ports.PredictionStore
}

func NewHistoryHandler(predictions ports.PredictionStore) *HistoryHandler {
	return &HistoryHandler{predictions: predictions}
}

// History godoc
// @Summary List a candidate's prediction history
// @Tags shortlist
// @Security BearerAuth
// @Produce json
// @Param userId path string true "Candidate user ID"
// @Param limit query int false "Max rows to return (default 20)"
// @Success 200 {array} model.Prediction
// @Failure 404 {object} httpPlatform.ErrorResponse
// @Router /shortlist/history/{userId} [get]
func (h *HistoryHandler) History(c *gin.Context) {
	if _, exists := auth.MustGetUserID(c); !exists {
		return
	}

	userID := c.Param("userId")
	limit, _ := strconv.Atoi(c.Query("limit"))

	predictions, err := h.predictions.History(c.Request.Context(), userID, limit)
	if err != nil {
		code := model.GetErrorCode(err)
		httpPlatform.RespondWithError(c, model.HTTPStatus(code), string(code), model.GetErrorMessage(err))
		return
	}

	httpPlatform.RespondWithData(c, http.StatusOK, predictions)
}

// Analytics godoc
// @Summary Summarize a candidate's prediction history
// @Tags shortlist
// @Security BearerAuth
// @Produce json
// @Param userId path string true "Candidate user ID"
// @Success 200 {object} model.AnalyticsSummary
// @Failure 404 {object} httpPlatform.ErrorResponse
// @Router /shortlist/analytics/{userId} [get]
func (h *HistoryHandler) Analytics(c *gin.Context) {
	if _, exists := auth.MustGetUserID(c); !exists {
		return
	}

	userID := c.Param("userId")

	summary, err := h.predictions.Analytics(c.Request.Context(), userID)
	if err != nil {
		code := model.GetErrorCode(err)
		httpPlatform.RespondWithError(c, model.HTTPStatus(code), string(code), model.GetErrorMessage(err))
		return
	}

	httpPlatform.RespondWithData(c, http.StatusOK, summary)
}

// RegisterRoutes registers the history and analytics routes.
func (h *HistoryHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	shortlist := router.Group("/shortlist")
	shortlist.Use(authMiddleware)
	{
		shortlist.GET("/history/:userId", h.History)
		shortlist.GET("/analytics/:userId", h.Analytics)
	}
}
