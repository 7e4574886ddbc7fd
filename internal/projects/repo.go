package projects

import "context"

// RecordFilter narrows a record listing. Zero values mean "no filter";
// Limit <= 0 means the repository default.
type RecordFilter struct {
	SheetName string
	RowStart  *int
	RowEnd    *int
	Limit     int
	Offset    int
}

// Repo defines persistence operations for projects, sheets, and records.
type Repo interface {
	// Create persists a project with all of its sheets and records
	// atomically: either the whole upload lands or nothing does.
	Create(ctx context.Context, project Project, sheets []Sheet, records []Record) error
	List(ctx context.Context) ([]Project, error)
	GetByID(ctx context.Context, projectID string) (Project, error)
	ListSheets(ctx context.Context, projectID string) ([]Sheet, error)
	// ListRecords returns records ordered by sheet name, then row index.
	ListRecords(ctx context.Context, projectID string, filter RecordFilter) ([]Record, error)
	Delete(ctx context.Context, projectID string) error
}
