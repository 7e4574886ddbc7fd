package projects

import (
	"bytes"
	"context"
	"errors"
	"io/fs"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"

	localstore "micp-backend/internal/shared/storage/object/local"
	"micp-backend/internal/workbook"
)

type sheetSpec struct {
	name string
	rows [][]any
}

func workbookBytes(t *testing.T, sheets []sheetSpec) []byte {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()

	for i, spec := range sheets {
		if i == 0 {
			if err := f.SetSheetName("Sheet1", spec.name); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
		} else {
			if _, err := f.NewSheet(spec.name); err != nil {
				t.Fatalf("new sheet: %v", err)
			}
		}
		for r, row := range spec.rows {
			for c, val := range row {
				if val == nil {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					t.Fatalf("cell name: %v", err)
				}
				if err := f.SetCellValue(spec.name, cell, val); err != nil {
					t.Fatalf("set cell: %v", err)
				}
			}
		}
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		t.Fatalf("write workbook: %v", err)
	}
	return buf.Bytes()
}

func newTestService(t *testing.T) *Service {
	t.Helper()
	return &Service{
		Repo:  NewMemoryRepo(),
		Store: localstore.New(t.TempDir()),
	}
}

func importFixture(t *testing.T, svc *Service) Project {
	t.Helper()
	data := workbookBytes(t, []sheetSpec{
		{
			name: "Wells",
			rows: [][]any{
				{"Company", "Field", "Well Name", "Formation"},
				{"Acme", "North", "A-1", "Bakken"},
				{"Acme", "North", "A-2", "Bakken"},
				{"Beta", "South", "B-1", "Eagle Ford"},
			},
		},
		{
			name: "Notes",
			rows: [][]any{
				{"Author", "Comment"},
				{"js", "double-check depths"},
			},
		},
	})

	project, err := svc.Import(context.Background(), "demo", "test upload", "wells.xlsx", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}
	return project
}

func TestImportPersistsSheetsAndRecords(t *testing.T) {
	svc := newTestService(t)
	project := importFixture(t, svc)

	if len(project.Sheets) != 2 {
		t.Fatalf("expected 2 sheets, got %d", len(project.Sheets))
	}
	if project.RecordCount != 4 {
		t.Fatalf("expected 4 records, got %d", project.RecordCount)
	}

	// Sum of per-sheet row counts must equal total record count.
	total := 0
	for _, s := range project.Sheets {
		total += s.RowCount
	}
	if total != project.RecordCount {
		t.Fatalf("row counts sum %d != record count %d", total, project.RecordCount)
	}

	if project.StorageKey == "" {
		t.Fatalf("expected archived workbook storage key")
	}
}

func TestImportKeepsPayloadWhenNoCanonicalHeaders(t *testing.T) {
	svc := newTestService(t)
	project := importFixture(t, svc)

	records, err := svc.Records(context.Background(), project.ID, RecordFilter{SheetName: "Notes"})
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(records) != 1 {
		t.Fatalf("expected 1 record, got %d", len(records))
	}

	rec := records[0]
	if rec.Company != nil || rec.Field != nil || rec.WellName != nil || rec.Formation != nil {
		t.Fatalf("expected all-null attributes, got %+v", rec)
	}
	if len(rec.Data) == 0 {
		t.Fatalf("original-row payload must not be empty")
	}
	if val, ok := rec.Data.Get("comment"); !ok || val.IsNull() {
		t.Fatalf("expected comment cell in payload, got %+v", val)
	}
}

func TestImportRequiresProjectName(t *testing.T) {
	svc := newTestService(t)
	data := workbookBytes(t, []sheetSpec{{name: "Wells", rows: [][]any{{"Company"}}}})

	_, err := svc.Import(context.Background(), "   ", "", "wells.xlsx", bytes.NewReader(data))
	if !errors.Is(err, ErrInvalidInput) {
		t.Fatalf("expected ErrInvalidInput, got %v", err)
	}
}

func TestImportRejectsInvalidWorkbook(t *testing.T) {
	svc := newTestService(t)

	_, err := svc.Import(context.Background(), "demo", "", "wells.xlsx", bytes.NewReader([]byte("garbage")))
	if !errors.Is(err, workbook.ErrInvalidWorkbook) {
		t.Fatalf("expected ErrInvalidWorkbook, got %v", err)
	}

	// Nothing may be persisted for a failed upload.
	list, listErr := svc.List(context.Background())
	if listErr != nil {
		t.Fatalf("List: %v", listErr)
	}
	if len(list) != 0 {
		t.Fatalf("expected no projects after failed import, got %d", len(list))
	}
}

func TestRecordsRowRangeInclusive(t *testing.T) {
	svc := newTestService(t)

	rows := [][]any{{"Company", "Well Name"}}
	for i := 0; i < 12; i++ {
		rows = append(rows, []any{"Acme", i})
	}
	data := workbookBytes(t, []sheetSpec{{name: "Wells", rows: rows}})
	project, err := svc.Import(context.Background(), "range", "", "wells.xlsx", bytes.NewReader(data))
	if err != nil {
		t.Fatalf("Import: %v", err)
	}

	start, end := 5, 10
	records, err := svc.Records(context.Background(), project.ID, RecordFilter{RowStart: &start, RowEnd: &end})
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(records) != 6 {
		t.Fatalf("expected 6 records in [5,10], got %d", len(records))
	}
	for i, rec := range records {
		if rec.RowIndex < start || rec.RowIndex > end {
			t.Fatalf("record %d outside range: %d", i, rec.RowIndex)
		}
		if i > 0 && records[i-1].RowIndex > rec.RowIndex {
			t.Fatalf("records not ordered by row index")
		}
	}
}

func TestRecordsInvalidFilters(t *testing.T) {
	svc := newTestService(t)
	project := importFixture(t, svc)

	start, end := 10, 5
	if _, err := svc.Records(context.Background(), project.ID, RecordFilter{RowStart: &start, RowEnd: &end}); !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery for inverted range, got %v", err)
	}

	neg := -1
	if _, err := svc.Records(context.Background(), project.ID, RecordFilter{RowStart: &neg}); !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery for negative row_start, got %v", err)
	}

	if _, err := svc.Records(context.Background(), project.ID, RecordFilter{Limit: -5}); !errors.Is(err, ErrInvalidQuery) {
		t.Fatalf("expected ErrInvalidQuery for negative limit, got %v", err)
	}
}

func TestRecordsUnknownProject(t *testing.T) {
	svc := newTestService(t)

	if _, err := svc.Records(context.Background(), "missing", RecordFilter{}); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestRecordsLimitCapped(t *testing.T) {
	svc := newTestService(t)
	project := importFixture(t, svc)

	records, err := svc.Records(context.Background(), project.ID, RecordFilter{Limit: 2})
	if err != nil {
		t.Fatalf("Records: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected limit 2 respected, got %d", len(records))
	}
}

func TestDeleteRemovesProject(t *testing.T) {
	svc := newTestService(t)
	project := importFixture(t, svc)

	if err := svc.Delete(context.Background(), project.ID); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := svc.Get(context.Background(), project.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound after delete, got %v", err)
	}
	if err := svc.Delete(context.Background(), project.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for double delete, got %v", err)
	}
}

type createFailRepo struct {
	Repo
}

func (createFailRepo) Create(ctx context.Context, project Project, sheets []Sheet, records []Record) error {
	return errors.New("insert failed")
}

func TestImportRemovesArchiveWhenPersistFails(t *testing.T) {
	dir := t.TempDir()
	svc := &Service{
		Repo:  createFailRepo{NewMemoryRepo()},
		Store: localstore.New(dir),
	}

	data := workbookBytes(t, []sheetSpec{{
		name: "Wells",
		rows: [][]any{{"Company"}, {"Acme"}},
	}})

	if _, err := svc.Import(context.Background(), "demo", "", "wells.xlsx", bytes.NewReader(data)); err == nil {
		t.Fatalf("expected import error")
	}

	var leftovers []string
	err := filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			leftovers = append(leftovers, path)
		}
		return nil
	})
	if err != nil {
		t.Fatalf("walk store dir: %v", err)
	}
	if len(leftovers) != 0 {
		t.Fatalf("expected no archived files after failed import, got %v", leftovers)
	}
}
