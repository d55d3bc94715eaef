package templates

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"cvgen-backend/internal/shared/server/respond"
)

// Handler wires HTTP handlers to the template repo.
type Handler struct {
	Repo Repo
}

// NewHandler constructs a Handler.
func NewHandler(repo Repo) *Handler {
	return &Handler{Repo: repo}
}

// RegisterRoutes attaches template routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/cv/templates", h.list)
}

func (h *Handler) list(c *gin.Context) {
	tmpls, err := h.Repo.ListActive(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list templates", nil)
		return
	}

	resp := make([]gin.H, 0, len(tmpls))
	for _, tmpl := range tmpls {
		resp = append(resp, gin.H{
			"templateId":   tmpl.ID,
			"name":         tmpl.Name,
			"category":     tmpl.Category,
			"capabilities": tmpl.Capabilities,
			"isDefault":    tmpl.IsDefault,
		})
	}

	respond.JSON(c, http.StatusOK, resp)
}
