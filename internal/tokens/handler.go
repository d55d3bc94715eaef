package tokens

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"cvgen-backend/internal/gendocs"
	"cvgen-backend/internal/shared/server/middleware"
	"cvgen-backend/internal/shared/server/respond"
	"cvgen-backend/internal/shared/telemetry"
)

// Handler exposes token issuance and token-gated downloads.
type Handler struct {
	Service   *Service
	Documents *gendocs.Service
}

func NewHandler(service *Service, documents *gendocs.Service) *Handler {
	return &Handler{Service: service, Documents: documents}
}

// RegisterRoutes attaches token routes to the router group. The download
// route is exempt from Identity middleware; the token is the credential.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/cv/documents/:id/tokens", h.issue)
	rg.DELETE("/cv/documents/:id/tokens/:token", h.revoke)
	rg.GET("/cv/documents/:id/download", h.download)
}

// TTLHours is a pointer so an explicit 0 (an instantly expired token)
// is distinguishable from an omitted field.
type issueRequest struct {
	TTLHours *int `json:"ttlHours"`
	MaxUses  int  `json:"maxUses"`
}

type issueResponse struct {
	Token     string    `json:"token"`
	ExpiresAt time.Time `json:"expiresAt"`
	MaxUses   int       `json:"maxUses"`
}

func (h *Handler) issue(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	documentID := c.Param("id")

	// Ownership gate: only the owner can mint tokens for a document.
	if _, err := h.Documents.Get(c.Request.Context(), userID, documentID); err != nil {
		switch {
		case errors.Is(err, gendocs.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		case errors.Is(err, gendocs.ErrForbidden):
			respond.Error(c, http.StatusForbidden, "forbidden", "document belongs to another user", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to issue token", nil)
		}
		return
	}

	// An empty body keeps the configured defaults.
	var req issueRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid token options", err.Error())
			return
		}
	}

	opts := IssueOptions{MaxUses: req.MaxUses}
	if req.TTLHours != nil {
		ttl := time.Duration(*req.TTLHours) * time.Hour
		opts.TTL = &ttl
	}

	token, err := h.Service.Issue(c.Request.Context(), documentID, opts)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to issue token", nil)
		return
	}

	respond.JSON(c, http.StatusCreated, issueResponse{
		Token:     token.Token,
		ExpiresAt: token.ExpiresAt,
		MaxUses:   token.MaxUses,
	})
}

// revoke invalidates a token early. Gated on document ownership like issue.
func (h *Handler) revoke(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	documentID := c.Param("id")

	if _, err := h.Documents.Get(c.Request.Context(), userID, documentID); err != nil {
		switch {
		case errors.Is(err, gendocs.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "document not found", nil)
		case errors.Is(err, gendocs.ErrForbidden):
			respond.Error(c, http.StatusForbidden, "forbidden", "document belongs to another user", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to revoke token", nil)
		}
		return
	}

	if err := h.Service.Revoke(c.Request.Context(), c.Param("token")); err != nil {
		if errors.Is(err, ErrNotFound) {
			respond.Error(c, http.StatusNotFound, "not_found", "token not found", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to revoke token", nil)
		return
	}
	c.Status(http.StatusNoContent)
}

// download streams the document if the token checks out. Every failure
// path returns the same 404 so probing tokens reveals nothing about
// which documents exist.
func (h *Handler) download(c *gin.Context) {
	documentID := c.Param("id")
	token := c.Query("token")
	if token == "" {
		respond.Error(c, http.StatusNotFound, "not_found", "not found", nil)
		return
	}

	if _, err := h.Service.Consume(c.Request.Context(), token, documentID); err != nil {
		respond.Error(c, http.StatusNotFound, "not_found", "not found", nil)
		return
	}

	doc, err := h.Documents.GetAny(c.Request.Context(), documentID)
	if err != nil {
		respond.Error(c, http.StatusNotFound, "not_found", "not found", nil)
		return
	}

	body, err := h.Documents.Open(c.Request.Context(), doc)
	if err != nil {
		telemetry.Error("tokens.download.open_failed", map[string]any{
			"document_id": documentID,
			"error":       err.Error(),
		})
		respond.Error(c, http.StatusInternalServerError, "internal_error", "download failed", nil)
		return
	}
	defer body.Close()

	c.Header("Content-Disposition", `attachment; filename="cv-v`+strconv.Itoa(doc.Version)+extensionFor(doc.Format)+`"`)
	c.DataFromReader(http.StatusOK, doc.SizeBytes, gendocs.ContentType(doc.Format), body, nil)
}

func extensionFor(format string) string {
	switch format {
	case "pdf":
		return ".pdf"
	case "html":
		return ".html"
	case "image":
		return ".png"
	default:
		return ""
	}
}
