package projects

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"micp-backend/internal/shared/storage/object"
	"micp-backend/internal/shared/telemetry"
	"micp-backend/internal/workbook"
)

const (
	// DefaultRecordLimit applies when a listing does not specify one.
	DefaultRecordLimit = 200
	// MaxRecordLimit caps a listing to protect the transport layer.
	MaxRecordLimit = 500
)

// Service contains business logic for projects: workbook ingestion,
// listings, and the record query service.
type Service struct {
	Repo  Repo
	Store object.ObjectStore
}

// Import ingests a workbook into a new project. The whole upload is
// persisted atomically; the raw file is archived in the object store.
func (s *Service) Import(ctx context.Context, name, description, fileName string, r io.Reader) (Project, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Project{}, fmt.Errorf("%w: project name is required", ErrInvalidInput)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return Project{}, fmt.Errorf("read upload: %w", err)
	}

	wb, err := workbook.Parse(bytes.NewReader(data))
	if err != nil {
		return Project{}, err
	}

	project := Project{
		ID:          uuid.NewString(),
		Name:        name,
		Description: strings.TrimSpace(description),
		CreatedAt:   time.Now().UTC(),
	}

	if s.Store != nil {
		storageKey, _, _, err := s.Store.Save(ctx, project.ID, fileName, bytes.NewReader(data))
		if err != nil {
			return Project{}, fmt.Errorf("archive workbook: %w", err)
		}
		project.StorageKey = storageKey
	}

	sheets := make([]Sheet, 0, len(wb.Sheets))
	var records []Record
	for pos, parsed := range wb.Sheets {
		sheet := Sheet{
			ID:        uuid.NewString(),
			ProjectID: project.ID,
			Name:      parsed.Name,
			Position:  pos,
			RowCount:  len(parsed.Rows),
		}
		sheets = append(sheets, sheet)

		for _, row := range parsed.Rows {
			records = append(records, Record{
				ID:        uuid.NewString(),
				SheetID:   sheet.ID,
				SheetName: sheet.Name,
				RowIndex:  row.Index,
				Company:   row.Attributes.Company,
				Field:     row.Attributes.Field,
				WellName:  row.Attributes.WellName,
				Formation: row.Attributes.Formation,
				Data:      row.Data,
			})
		}
	}

	if err := s.Repo.Create(ctx, project, sheets, records); err != nil {
		// Best-effort removal so a failed upload leaves no orphaned
		// archive behind.
		if s.Store != nil && project.StorageKey != "" {
			if derr := s.Store.Delete(ctx, project.StorageKey); derr != nil {
				telemetry.Warn("failed to remove archived workbook after import failure", map[string]any{
					"project_id":  project.ID,
					"storage_key": project.StorageKey,
					"error":       derr.Error(),
				})
			}
		}
		return Project{}, err
	}

	project.Sheets = sheets
	project.RecordCount = len(records)
	return project, nil
}

// List returns all projects, newest first.
func (s *Service) List(ctx context.Context) ([]Project, error) {
	return s.Repo.List(ctx)
}

// Get returns a project with sheets and record count.
func (s *Service) Get(ctx context.Context, projectID string) (Project, error) {
	return s.Repo.GetByID(ctx, projectID)
}

// Sheets returns a project's sheets in workbook order.
func (s *Service) Sheets(ctx context.Context, projectID string) ([]Sheet, error) {
	if _, err := s.Repo.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.Repo.ListSheets(ctx, projectID)
}

// Records lists a project's records after validating the filter. The
// read never mutates stored data.
func (s *Service) Records(ctx context.Context, projectID string, filter RecordFilter) ([]Record, error) {
	if err := validateFilter(filter); err != nil {
		return nil, err
	}
	if filter.Limit <= 0 {
		filter.Limit = DefaultRecordLimit
	}
	if filter.Limit > MaxRecordLimit {
		filter.Limit = MaxRecordLimit
	}

	if _, err := s.Repo.GetByID(ctx, projectID); err != nil {
		return nil, err
	}
	return s.Repo.ListRecords(ctx, projectID, filter)
}

// Delete removes a project and everything it owns.
func (s *Service) Delete(ctx context.Context, projectID string) error {
	return s.Repo.Delete(ctx, projectID)
}

func validateFilter(filter RecordFilter) error {
	if filter.RowStart != nil && *filter.RowStart < 0 {
		return fmt.Errorf("%w: row_start must not be negative", ErrInvalidQuery)
	}
	if filter.RowEnd != nil && *filter.RowEnd < 0 {
		return fmt.Errorf("%w: row_end must not be negative", ErrInvalidQuery)
	}
	if filter.RowStart != nil && filter.RowEnd != nil && *filter.RowStart > *filter.RowEnd {
		return fmt.Errorf("%w: row range is inverted", ErrInvalidQuery)
	}
	if filter.Limit < 0 {
		return fmt.Errorf("%w: limit must not be negative", ErrInvalidQuery)
	}
	if filter.Offset < 0 {
		return fmt.Errorf("%w: offset must not be negative", ErrInvalidQuery)
	}
	return nil
}
