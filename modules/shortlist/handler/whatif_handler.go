package handler

import (
	"net/http"

	"github.com/arjunmehta/shortlist-engine/internal/platform/auth"
	httpPlatform "github.com/arjunmehta/shortlist-engine/internal/platform/http"
	"github.com/arjunmehta/shortlist-engine/modules/shortlist/model"
	"github.com/arjunmehta/shortlist-engine/modules/shortlist/service"
	"github.com/gin-gonic/gin"
)

// WhatIfHandler serves the what-if simulation endpoint.
type WhatIfHandler struct {
	simulator *service.Simulator
}

func NewWhatIfHandler(simulator *service.Simulator) *WhatIfHandler {
	return &WhatIfHandler{simulator: simulator}
}

type whatIfRequest struct {
	UserID   string         `json:"userId" binding:"required"`
	JobID    string         `json:"jobId" binding:"required"`
	Scenario model.Scenario `json:"scenario"`
}

// Simulate godoc
// @Summary Simulate a hypothetical profile change
// @Description Recomputes candidate strength and job match against an in-memory profile edit, never persisted against the real profile
// @Tags shortlist
// @Security BearerAuth
// @Accept json
// @Produce json
// @Param request body whatIfRequest true "Scenario to simulate"
// @Success 200 {object} model.WhatIfResult
// @Failure 400 {object} httpPlatform.ErrorResponse
// @Failure 404 {object} httpPlatform.ErrorResponse
// @Failure 422 {object} httpPlatform.ErrorResponse
// @Router /shortlist/what-if [post]
func (h *WhatIfHandler) Simulate(c *gin.Context) {
	if _, exists := auth.MustGetUserID(c); !exists {
		return
	}

	var req whatIfRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, string(model.CodeValidation), "userId, jobId, and scenario are required")
		return
	}

	result, err := h.simulator.Simulate(c.Request.Context(), req.UserID, req.JobID, req.Scenario)
	if err != nil {
		respondModelError(c, err)
		return
	}

	httpPlatform.RespondWithData(c, http.StatusOK, result)
}

// RegisterRoutes registers the what-if route.
func (h *WhatIfHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	shortlist := router.Group("/shortlist")
	shortlist.Use(authMiddleware)
	{
		shortlist.POST("/what-if", h.Simulate)
	}
}
