package stats

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"micp-backend/internal/projects"
	"micp-backend/internal/shared/server/respond"
)

// Handler serves the project statistics endpoint.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches stats routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/projects/:id/stats", h.projectStats)
}

func (h *Handler) projectStats(c *gin.Context) {
	out, err := h.Svc.ProjectStats(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, projects.ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "project not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to compute stats", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, out)
}
