package genjobs

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"cvgen-backend/internal/gendocs"
	"cvgen-backend/internal/profiles"
	"cvgen-backend/internal/shared/server/middleware"
	"cvgen-backend/internal/shared/server/respond"
	"cvgen-backend/internal/templates"
)

// Handler exposes generation submission, polling, cancellation, and the
// synchronous preview path.
type Handler struct {
	Service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{Service: service}
}

// RegisterRoutes attaches generation routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/cv/generations", h.submit)
	rg.POST("/cv/generations/batch", h.submitBatch)
	rg.GET("/cv/generations/batch/:batchId", h.pollBatch)
	rg.GET("/cv/generations/:id", h.poll)
	rg.DELETE("/cv/generations/:id", h.cancel)
	rg.POST("/cv/preview", h.preview)
}

func (h *Handler) submit(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req SubmitRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid request body", err.Error())
		return
	}

	job, err := h.Service.Submit(c.Request.Context(), userID, SubmitInput{
		ProfileID:  req.ProfileID,
		TemplateID: req.TemplateID,
		Options:    req.Options,
	})
	if err != nil {
		writeJobError(c, err)
		return
	}
	respond.JSON(c, http.StatusAccepted, toJobResponse(job))
}

func (h *Handler) submitBatch(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req BatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid request body", err.Error())
		return
	}

	variants := make([]SubmitInput, 0, len(req.Variants))
	for _, v := range req.Variants {
		variants = append(variants, SubmitInput{TemplateID: v.TemplateID, Options: v.Options})
	}

	batchID, jobs, err := h.Service.SubmitBatch(c.Request.Context(), userID, req.ProfileID, variants)
	if err != nil {
		writeJobError(c, err)
		return
	}

	jobIDs := make([]string, 0, len(jobs))
	for _, job := range jobs {
		jobIDs = append(jobIDs, job.ID)
	}
	respond.JSON(c, http.StatusAccepted, BatchResponse{BatchID: batchID, JobIDs: jobIDs})
}

func (h *Handler) poll(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	job, err := h.Service.Poll(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeJobError(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, h.describe(c, job))
}

func (h *Handler) pollBatch(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	jobs, err := h.Service.PollBatch(c.Request.Context(), userID, c.Param("batchId"))
	if err != nil {
		writeJobError(c, err)
		return
	}

	resp := make([]JobResponse, 0, len(jobs))
	for _, job := range jobs {
		resp = append(resp, h.describe(c, job))
	}
	respond.JSON(c, http.StatusOK, gin.H{"batchId": c.Param("batchId"), "jobs": resp})
}

// describe fills in result metadata the job row does not carry.
func (h *Handler) describe(c *gin.Context, job GenerationJob) JobResponse {
	resp := toJobResponse(job)
	if resp.Result != nil {
		if doc, err := h.Service.Documents.GetAny(c.Request.Context(), job.DocumentID); err == nil {
			resp.Result.SizeBytes = doc.SizeBytes
		}
	}
	return resp
}

func (h *Handler) cancel(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	err := h.Service.Cancel(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeJobError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) preview(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var req PreviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid request body", err.Error())
		return
	}

	body, err := h.Service.Preview(c.Request.Context(), userID, SubmitInput{
		ProfileID:  req.ProfileID,
		TemplateID: req.TemplateID,
		Options:    req.Options,
	})
	if err != nil {
		writeJobError(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, gin.H{"markup": body})
}

func writeJobError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "job not found", nil)
	case errors.Is(err, ErrForbidden):
		respond.Error(c, http.StatusForbidden, "forbidden", "job belongs to another user", nil)
	case errors.Is(err, ErrInvalidInput):
		respond.Error(c, http.StatusBadRequest, "invalid_request", err.Error(), nil)
	case errors.Is(err, ErrNotCancellable):
		respond.Error(c, http.StatusConflict, "not_cancellable", "job already finished", nil)
	case errors.Is(err, templates.ErrTemplateNotFound):
		respond.Error(c, http.StatusNotFound, "template_not_found", "template not found", nil)
	case errors.Is(err, profiles.ErrNotFound):
		respond.Error(c, http.StatusNotFound, "profile_not_found", "profile not found", nil)
	case errors.Is(err, profiles.ErrForbidden):
		respond.Error(c, http.StatusForbidden, "forbidden", "profile belongs to another user", nil)
	case errors.Is(err, gendocs.ErrQuotaExceeded):
		respond.Error(c, http.StatusForbidden, "quota_exceeded", "storage quota exceeded", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "generation request failed", nil)
	}
}
