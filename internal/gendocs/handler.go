package gendocs

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"cvgen-backend/internal/shared/server/middleware"
	"cvgen-backend/internal/shared/server/respond"
)

// Handler exposes the document ledger over HTTP.
type Handler struct {
	Service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{Service: service}
}

// RegisterRoutes attaches document routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/cv/documents", h.list)
	rg.DELETE("/cv/documents/:id", h.delete)
	rg.POST("/cv/documents/:id/default", h.setDefault)
}

func (h *Handler) list(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "20"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	docs, err := h.Service.List(c.Request.Context(), userID, limit, offset)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list documents", nil)
		return
	}

	resp := make([]DocumentResponse, 0, len(docs))
	for _, doc := range docs {
		resp = append(resp, toDocumentResponse(doc))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) delete(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	err := h.Service.Delete(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeDocError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handler) setDefault(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	err := h.Service.SetDefault(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeDocError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func writeDocError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
	case errors.Is(err, ErrForbidden):
		respond.Error(c, http.StatusForbidden, "forbidden", "document belongs to another user", nil)
	case errors.Is(err, ErrQuotaExceeded):
		respond.Error(c, http.StatusForbidden, "quota_exceeded", "storage quota exceeded", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "document operation failed", nil)
	}
}
