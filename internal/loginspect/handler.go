package loginspect

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"micp-backend/internal/shared/server/respond"
)

const maxLogSize = 50 << 20 // 50MB

// Handler serves the log preview endpoint.
type Handler struct{}

// NewHandler constructs a Handler.
func NewHandler() *Handler {
	return &Handler{}
}

// RegisterRoutes attaches log preview routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/logs/preview", h.preview)
}

func (h *Handler) preview(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxLogSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	summary, err := Inspect(fileHeader.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, ErrInvalidFormat):
			respond.Error(c, http.StatusBadRequest, "invalid_format", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to inspect log", nil)
		}
		return
	}

	respond.JSON(c, http.StatusOK, summary)
}
