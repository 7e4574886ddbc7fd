package projects

import (
	"errors"
	"fmt"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"micp-backend/internal/shared/server/respond"
	"micp-backend/internal/workbook"
)

const maxUploadSize = 20 << 20 // 20MB

var allowedExtensions = map[string]struct{}{
	".xlsx": {},
	".xlsm": {},
}

// Handler wires HTTP handlers to the projects service.
type Handler struct {
	Svc *Service
}

// NewHandler constructs a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

// RegisterRoutes attaches project routes to the router group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.POST("/projects/import", h.importWorkbook)
	rg.GET("/projects", h.list)
	rg.GET("/projects/:id", h.get)
	rg.GET("/projects/:id/sheets", h.sheets)
	rg.GET("/projects/:id/records", h.records)
	rg.DELETE("/projects/:id", h.remove)
}

func (h *Handler) importWorkbook(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxUploadSize)

	fileHeader, err := c.FormFile("file")
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "file is required", nil)
		return
	}

	ext := strings.ToLower(filepath.Ext(fileHeader.Filename))
	if _, ok := allowedExtensions[ext]; !ok {
		respond.Error(c, http.StatusBadRequest, "invalid_workbook", "unsupported file type", nil)
		return
	}

	name := c.PostForm("project_name")
	description := c.PostForm("description")

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	project, err := h.Svc.Import(c.Request.Context(), name, description, fileHeader.Filename, file)
	if err != nil {
		switch {
		case errors.Is(err, workbook.ErrInvalidWorkbook):
			respond.Error(c, http.StatusBadRequest, "invalid_workbook", err.Error(), nil)
		case errors.Is(err, ErrInvalidInput):
			respond.Error(c, http.StatusBadRequest, "validation_error", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to import workbook", nil)
		}
		return
	}

	c.Set("projectId", project.ID)
	respond.Created(c, toProjectResponse(project))
}

func (h *Handler) list(c *gin.Context) {
	list, err := h.Svc.List(c.Request.Context())
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list projects", nil)
		return
	}

	resp := make([]ProjectResponse, 0, len(list))
	for _, p := range list {
		resp = append(resp, toProjectResponse(p))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) get(c *gin.Context) {
	project, err := h.Svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "project not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to fetch project", nil)
		}
		return
	}
	respond.JSON(c, http.StatusOK, toProjectResponse(project))
}

func (h *Handler) sheets(c *gin.Context) {
	sheets, err := h.Svc.Sheets(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "project not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list sheets", nil)
		}
		return
	}

	resp := make([]SheetResponse, 0, len(sheets))
	for _, s := range sheets {
		resp = append(resp, toSheetResponse(s))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) records(c *gin.Context) {
	filter := RecordFilter{SheetName: c.Query("sheet")}

	var parseErr error
	filter.RowStart = intQuery(c, "row_start", &parseErr)
	filter.RowEnd = intQuery(c, "row_end", &parseErr)
	if v := intQuery(c, "limit", &parseErr); v != nil {
		filter.Limit = *v
	}
	if v := intQuery(c, "offset", &parseErr); v != nil {
		filter.Offset = *v
	}
	if parseErr != nil {
		respond.Error(c, http.StatusBadRequest, "invalid_query", parseErr.Error(), nil)
		return
	}

	records, err := h.Svc.Records(c.Request.Context(), c.Param("id"), filter)
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "project not found", nil)
		case errors.Is(err, ErrInvalidQuery):
			respond.Error(c, http.StatusBadRequest, "invalid_query", err.Error(), nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to list records", nil)
		}
		return
	}

	resp := make([]RecordResponse, 0, len(records))
	for _, r := range records {
		resp = append(resp, toRecordResponse(r))
	}
	respond.JSON(c, http.StatusOK, resp)
}

func (h *Handler) remove(c *gin.Context) {
	err := h.Svc.Delete(c.Request.Context(), c.Param("id"))
	if err != nil {
		switch {
		case errors.Is(err, ErrNotFound):
			respond.Error(c, http.StatusNotFound, "not_found", "project not found", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to delete project", nil)
		}
		return
	}
	c.Status(http.StatusNoContent)
}

// intQuery parses an optional integer query parameter. A malformed
// value records an invalid-query error and returns nil.
func intQuery(c *gin.Context, name string, parseErr *error) *int {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return nil
	}
	val, err := strconv.Atoi(raw)
	if err != nil {
		if *parseErr == nil {
			*parseErr = fmt.Errorf("%w: %s must be an integer", ErrInvalidQuery, name)
		}
		return nil
	}
	return &val
}
