package projects

import (
	"context"
	"sort"
	"sync"
)

// MemoryRepo is an in-memory implementation of Repo for dev mode and
// tests.
type MemoryRepo struct {
	mu       sync.RWMutex
	projects map[string]Project
	sheets   map[string][]Sheet  // projectID -> sheets
	records  map[string][]Record // projectID -> records
}

// NewMemoryRepo constructs a MemoryRepo.
func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{
		projects: make(map[string]Project),
		sheets:   make(map[string][]Sheet),
		records:  make(map[string][]Record),
	}
}

// Create stores the project with its sheets and records.
func (r *MemoryRepo) Create(ctx context.Context, project Project, sheets []Sheet, records []Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	stored := project
	stored.Sheets = nil
	stored.RecordCount = 0
	r.projects[project.ID] = stored
	r.sheets[project.ID] = append([]Sheet(nil), sheets...)
	r.records[project.ID] = append([]Record(nil), records...)
	return nil
}

// List returns projects newest first.
func (r *MemoryRepo) List(ctx context.Context) ([]Project, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]Project, 0, len(r.projects))
	for _, p := range r.projects {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

// GetByID returns a project with sheets and record count populated.
func (r *MemoryRepo) GetByID(ctx context.Context, projectID string) (Project, error) {
	if err := ctx.Err(); err != nil {
		return Project{}, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	project, ok := r.projects[projectID]
	if !ok {
		return Project{}, ErrNotFound
	}
	project.Sheets = sortedSheets(r.sheets[projectID])
	project.RecordCount = len(r.records[projectID])
	return project, nil
}

// ListSheets returns a project's sheets in workbook order.
func (r *MemoryRepo) ListSheets(ctx context.Context, projectID string) ([]Sheet, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.projects[projectID]; !ok {
		return nil, ErrNotFound
	}
	return sortedSheets(r.sheets[projectID]), nil
}

// ListRecords returns filtered records ordered by sheet name then row
// index.
func (r *MemoryRepo) ListRecords(ctx context.Context, projectID string, filter RecordFilter) ([]Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.mu.RLock()
	defer r.mu.RUnlock()

	if _, ok := r.projects[projectID]; !ok {
		return nil, ErrNotFound
	}

	var matched []Record
	for _, rec := range r.records[projectID] {
		if filter.SheetName != "" && rec.SheetName != filter.SheetName {
			continue
		}
		if filter.RowStart != nil && rec.RowIndex < *filter.RowStart {
			continue
		}
		if filter.RowEnd != nil && rec.RowIndex > *filter.RowEnd {
			continue
		}
		matched = append(matched, rec)
	}

	sort.Slice(matched, func(i, j int) bool {
		if matched[i].SheetName != matched[j].SheetName {
			return matched[i].SheetName < matched[j].SheetName
		}
		return matched[i].RowIndex < matched[j].RowIndex
	})

	if filter.Offset > 0 {
		if filter.Offset >= len(matched) {
			return []Record{}, nil
		}
		matched = matched[filter.Offset:]
	}
	if filter.Limit > 0 && filter.Limit < len(matched) {
		matched = matched[:filter.Limit]
	}
	return matched, nil
}

// Delete removes a project and everything it owns.
func (r *MemoryRepo) Delete(ctx context.Context, projectID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.projects[projectID]; !ok {
		return ErrNotFound
	}
	delete(r.projects, projectID)
	delete(r.sheets, projectID)
	delete(r.records, projectID)
	return nil
}

func sortedSheets(sheets []Sheet) []Sheet {
	out := append([]Sheet(nil), sheets...)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Position < out[j].Position
	})
	return out
}

var _ Repo = (*MemoryRepo)(nil)
