package profiles

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"cvgen-backend/internal/shared/server/middleware"
	"cvgen-backend/internal/shared/server/respond"
)

// Handler exposes the profile snapshot store. The authoritative profile
// editor lives in another service; these routes let it push snapshots in
// and let clients inspect what a generation will see.
type Handler struct {
	Repo Repo
}

func NewHandler(repo Repo) *Handler {
	return &Handler{Repo: repo}
}

// RegisterRoutes attaches profile routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/cv/profiles/:id", h.get)
	rg.PUT("/cv/profiles/:id", h.put)
}

func (h *Handler) get(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	profile, err := h.Repo.GetByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		writeProfileError(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, profile)
}

func (h *Handler) put(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)

	var profile Profile
	if err := c.ShouldBindJSON(&profile); err != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_request", "invalid profile body", err.Error())
		return
	}

	profile.ID = c.Param("id")
	profile.UserID = userID
	profile.UpdatedAt = time.Now().UTC()

	if err := h.Repo.Put(c.Request.Context(), profile); err != nil {
		writeProfileError(c, err)
		return
	}
	respond.JSON(c, http.StatusOK, profile)
}

func writeProfileError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, ErrNotFound):
		respond.Error(c, http.StatusNotFound, "not_found", "profile not found", nil)
	case errors.Is(err, ErrForbidden):
		respond.Error(c, http.StatusForbidden, "forbidden", "profile belongs to another user", nil)
	default:
		respond.Error(c, http.StatusInternalServerError, "internal_error", "profile operation failed", nil)
	}
}
