package projects

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"micp-backend/internal/workbook"
)

func TestPGRepoCreateIsTransactional(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	company := "Acme"
	project := Project{
		ID:        "project-1",
		Name:      "demo",
		CreatedAt: time.Now().UTC(),
	}
	sheets := []Sheet{
		{ID: "sheet-1", ProjectID: "project-1", Name: "Wells", Position: 0, RowCount: 1},
	}
	records := []Record{
		{
			ID:       "record-1",
			SheetID:  "sheet-1",
			RowIndex: 0,
			Company:  &company,
			Data: workbook.Row{
				{Key: "company", Value: workbook.TextValue("Acme")},
			},
		},
	}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO projects").
		WithArgs(project.ID, project.Name, nil, nil, project.CreatedAt).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO sheets").
		WithArgs("sheet-1", "project-1", "Wells", 0, 1).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO records").
		WithArgs("record-1", "sheet-1", 0, "Acme", nil, nil, nil, sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := repo.Create(context.Background(), project, sheets, records); err != nil {
		t.Fatalf("Create: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoCreateRollsBackOnFailure(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectBegin()
	mock.ExpectExec("INSERT INTO projects").
		WillReturnError(errors.New("boom"))
	mock.ExpectRollback()

	err = repo.Create(context.Background(), Project{ID: "p", Name: "n", CreatedAt: time.Now()}, nil, nil)
	if err == nil {
		t.Fatalf("expected error")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoListRecordsAppliesFilters(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	payload := []byte(`{"company":"Acme","depth":3120.5}`)
	rows := sqlmock.NewRows([]string{
		"id", "sheet_id", "name", "row_index", "company", "field", "well_name", "formation", "data",
	}).AddRow("record-1", "sheet-1", "Wells", 5, "Acme", nil, nil, nil, payload)

	mock.ExpectQuery("SELECT r.id, r.sheet_id, s.name").
		WithArgs("project-1", "Wells", 5, 10, 200).
		WillReturnRows(rows)

	start, end := 5, 10
	out, err := repo.ListRecords(context.Background(), "project-1", RecordFilter{
		SheetName: "Wells",
		RowStart:  &start,
		RowEnd:    &end,
		Limit:     200,
	})
	if err != nil {
		t.Fatalf("ListRecords: %v", err)
	}
	if len(out) != 1 {
		t.Fatalf("expected 1 record, got %d", len(out))
	}

	rec := out[0]
	if rec.Company == nil || *rec.Company != "Acme" {
		t.Fatalf("expected company Acme, got %v", rec.Company)
	}
	if len(rec.Data) != 2 {
		t.Fatalf("expected 2 payload fields, got %d", len(rec.Data))
	}
	if rec.Data[0].Key != "company" || rec.Data[1].Key != "depth" {
		t.Fatalf("payload order lost: %+v", rec.Data)
	}
	if rec.Data[1].Value.Number != 3120.5 {
		t.Fatalf("expected numeric depth, got %+v", rec.Data[1].Value)
	}

	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGRepoDeleteNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectExec("DELETE FROM projects").
		WithArgs("missing").
		WillReturnResult(sqlmock.NewResult(0, 0))

	if err := repo.Delete(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestPGRepoGetByIDNotFound(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	repo := &PGRepo{DB: db}

	mock.ExpectQuery("SELECT id, name, description").
		WithArgs("missing").
		WillReturnRows(sqlmock.NewRows([]string{"id", "name", "description", "storage_key", "created_at"}))

	if _, err := repo.GetByID(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
