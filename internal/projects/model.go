package projects

import (
	"time"

	"micp-backend/internal/workbook"
)

// Project is a named upload session grouping one workbook's sheets and
// records.
type Project struct {
	ID          string
	Name        string
	Description string
	StorageKey  string
	CreatedAt   time.Time

	// Sheets and RecordCount are populated on import and single-project
	// reads, not on listings.
	Sheets      []Sheet
	RecordCount int
}

// Sheet is one worksheet of an uploaded workbook. RowCount reflects the
// ingestion size and is stored independently of live record counts.
type Sheet struct {
	ID        string
	ProjectID string
	Name      string
	Position  int
	RowCount  int
}

// Record is one data row of a sheet. The extracted attributes are a
// best-effort projection; Data is the authoritative original row.
type Record struct {
	ID        string
	SheetID   string
	SheetName string
	RowIndex  int
	Company   *string
	Field     *string
	WellName  *string
	Formation *string
	Data      workbook.Row
}
