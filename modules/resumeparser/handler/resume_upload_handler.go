package handler

import (
	"io"
	"net/http"

	"github.com/arjunmehta/shortlist-engine/internal/platform/auth"
	httpPlatform "github.com/arjunmehta/shortlist-engine/internal/platform/http"
	"github.com/arjunmehta/shortlist-engine/modules/resumeparser/service"
	"github.com/gin-gonic/gin"
)

// maxResumeUploadBytes bounds the in-memory read of an uploaded resume.
// Resumes are short documents; anything larger is almost certainly the
// wrong file.
const maxResumeUploadBytes = 10 << 20 // 10 MiB

type ResumeUploadHandler struct {
	uploads *service.UploadService
}

func NewResumeUploadHandler(uploads *service.UploadService) *ResumeUploadHandler {
	return &ResumeUploadHandler{uploads: uploads}
}

// Upload godoc
// @Summary Upload a resume for parsing
// @Description Parse an uploaded resume file, replace the authenticated user's experience and projects with the extracted values, reconcile their skills against the previous resume, and store the resume-derived fields (including education) on the user row. Never fails with a 5xx solely because the document could not be parsed; the response always carries parsingStatus.
// @Tags resumes
// @Security BearerAuth
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Resume file (PDF, DOCX, or TXT)"
// @Success 200 {object} model.UploadResult
// @Failure 400 {object} httpPlatform.ErrorResponse
// @Failure 401 {object} httpPlatform.ErrorResponse
// @Failure 500 {object} httpPlatform.ErrorResponse
// @Router /resumes/upload [post]
func (h *ResumeUploadHandler) Upload(c *gin.Context) {
	userID, ok := auth.MustGetUserID(c)
	if !ok {
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", "file field is required")
		return
	}
	if fileHeader.Size == 0 {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", "uploaded file is empty")
		return
	}
	if fileHeader.Size > maxResumeUploadBytes {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", "uploaded file exceeds the 10MB limit")
		return
	}

	src, err := fileHeader.Open()
	if err != nil {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", "could not read uploaded file")
		return
	}
	defer src.Close()

	content, err := io.ReadAll(io.LimitReader(src, maxResumeUploadBytes+1))
	if err != nil {
		httpPlatform.RespondWithError(c, http.StatusBadRequest, "VALIDATION_ERROR", "could not read uploaded file")
		return
	}

	result, err := h.uploads.Upload(c.Request.Context(), userID, fileHeader.Filename, content)
	if err != nil {
		httpPlatform.RespondWithError(c, http.StatusInternalServerError, "INTERNAL_ERROR", "failed to process resume upload")
		return
	}
	httpPlatform.RespondWithData(c, http.StatusOK, result)
}

func (h *ResumeUploadHandler) RegisterRoutes(router *gin.RouterGroup, authMiddleware gin.HandlerFunc) {
	resumes := router.Group("/resumes")
	resumes.Use(authMiddleware)
	{
		resumes.POST("/upload", h.Upload)
	}
}
