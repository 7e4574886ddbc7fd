package projects

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"micp-backend/internal/workbook"
)

// PGRepo implements Repo using Postgres.
type PGRepo struct {
	DB *sql.DB
}

// Create inserts the project, its sheets, and its records in a single
// transaction so a failed upload leaves nothing behind.
func (r *PGRepo) Create(ctx context.Context, project Project, sheets []Sheet, records []Record) error {
	tx, err := r.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin import tx: %w", err)
	}
	defer tx.Rollback()

	const insertProject = `
INSERT INTO projects (id, name, description, storage_key, created_at)
VALUES ($1, $2, $3, $4, $5)`

	var description sql.NullString
	if project.Description != "" {
		description = sql.NullString{String: project.Description, Valid: true}
	}
	var storageKey sql.NullString
	if project.StorageKey != "" {
		storageKey = sql.NullString{String: project.StorageKey, Valid: true}
	}

	if _, err := tx.ExecContext(ctx, insertProject,
		project.ID, project.Name, description, storageKey, project.CreatedAt); err != nil {
		return fmt.Errorf("insert project: %w", err)
	}

	const insertSheet = `
INSERT INTO sheets (id, project_id, name, position, row_count)
VALUES ($1, $2, $3, $4, $5)`

	for _, sheet := range sheets {
		if _, err := tx.ExecContext(ctx, insertSheet,
			sheet.ID, sheet.ProjectID, sheet.Name, sheet.Position, sheet.RowCount); err != nil {
			return fmt.Errorf("insert sheet %q: %w", sheet.Name, err)
		}
	}

	const insertRecord = `
INSERT INTO records (id, sheet_id, row_index, company, field, well_name, formation, data)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	for _, rec := range records {
		payload, err := json.Marshal(rec.Data)
		if err != nil {
			return fmt.Errorf("marshal record payload: %w", err)
		}
		if _, err := tx.ExecContext(ctx, insertRecord,
			rec.ID, rec.SheetID, rec.RowIndex,
			nullString(rec.Company), nullString(rec.Field),
			nullString(rec.WellName), nullString(rec.Formation),
			payload); err != nil {
			return fmt.Errorf("insert record %d: %w", rec.RowIndex, err)
		}
	}

	return tx.Commit()
}

// List returns all projects, newest first.
func (r *PGRepo) List(ctx context.Context) ([]Project, error) {
	const query = `
SELECT id, name, description, storage_key, created_at
FROM projects
ORDER BY created_at DESC`

	rows, err := r.DB.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Project
	for rows.Next() {
		project, err := scanProject(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, project)
	}
	return out, rows.Err()
}

// GetByID fetches a project with its sheets and total record count.
func (r *PGRepo) GetByID(ctx context.Context, projectID string) (Project, error) {
	const query = `
SELECT id, name, description, storage_key, created_at
FROM projects
WHERE id = $1`

	row := r.DB.QueryRowContext(ctx, query, projectID)
	project, err := scanProject(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Project{}, ErrNotFound
		}
		return Project{}, err
	}

	sheets, err := r.ListSheets(ctx, projectID)
	if err != nil {
		return Project{}, err
	}
	project.Sheets = sheets

	const countQuery = `
SELECT COUNT(*)
FROM records r
JOIN sheets s ON r.sheet_id = s.id
WHERE s.project_id = $1`
	if err := r.DB.QueryRowContext(ctx, countQuery, projectID).Scan(&project.RecordCount); err != nil {
		return Project{}, err
	}

	return project, nil
}

// ListSheets returns a project's sheets in workbook order.
func (r *PGRepo) ListSheets(ctx context.Context, projectID string) ([]Sheet, error) {
	const query = `
SELECT id, project_id, name, position, row_count
FROM sheets
WHERE project_id = $1
ORDER BY position`

	rows, err := r.DB.QueryContext(ctx, query, projectID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Sheet
	for rows.Next() {
		var sheet Sheet
		if err := rows.Scan(&sheet.ID, &sheet.ProjectID, &sheet.Name, &sheet.Position, &sheet.RowCount); err != nil {
			return nil, err
		}
		out = append(out, sheet)
	}
	return out, rows.Err()
}

// ListRecords returns filtered records ordered by sheet name then row
// index, so identical queries are reproducible.
func (r *PGRepo) ListRecords(ctx context.Context, projectID string, filter RecordFilter) ([]Record, error) {
	var sb strings.Builder
	sb.WriteString(`
SELECT r.id, r.sheet_id, s.name, r.row_index, r.company, r.field, r.well_name, r.formation, r.data
FROM records r
JOIN sheets s ON r.sheet_id = s.id
WHERE s.project_id = $1`)
	args := []any{projectID}

	if filter.SheetName != "" {
		args = append(args, filter.SheetName)
		sb.WriteString(" AND s.name = $" + strconv.Itoa(len(args)))
	}
	if filter.RowStart != nil {
		args = append(args, *filter.RowStart)
		sb.WriteString(" AND r.row_index >= $" + strconv.Itoa(len(args)))
	}
	if filter.RowEnd != nil {
		args = append(args, *filter.RowEnd)
		sb.WriteString(" AND r.row_index <= $" + strconv.Itoa(len(args)))
	}
	sb.WriteString(" ORDER BY s.name, r.row_index")
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		sb.WriteString(" LIMIT $" + strconv.Itoa(len(args)))
	}
	if filter.Offset > 0 {
		args = append(args, filter.Offset)
		sb.WriteString(" OFFSET $" + strconv.Itoa(len(args)))
	}

	rows, err := r.DB.QueryContext(ctx, sb.String(), args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var company, field, wellName, formation sql.NullString
		var payload []byte
		if err := rows.Scan(&rec.ID, &rec.SheetID, &rec.SheetName, &rec.RowIndex,
			&company, &field, &wellName, &formation, &payload); err != nil {
			return nil, err
		}
		rec.Company = fromNullString(company)
		rec.Field = fromNullString(field)
		rec.WellName = fromNullString(wellName)
		rec.Formation = fromNullString(formation)

		var data workbook.Row
		if len(payload) > 0 {
			if err := json.Unmarshal(payload, &data); err != nil {
				return nil, fmt.Errorf("decode record payload: %w", err)
			}
		}
		rec.Data = data
		out = append(out, rec)
	}
	return out, rows.Err()
}

// Delete removes a project; sheets and records go with it via cascade.
func (r *PGRepo) Delete(ctx context.Context, projectID string) error {
	const query = `DELETE FROM projects WHERE id = $1`
	res, err := r.DB.ExecContext(ctx, query, projectID)
	if err != nil {
		return err
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanProject(row rowScanner) (Project, error) {
	var project Project
	var description, storageKey sql.NullString
	if err := row.Scan(&project.ID, &project.Name, &description, &storageKey, &project.CreatedAt); err != nil {
		return Project{}, err
	}
	if description.Valid {
		project.Description = description.String
	}
	if storageKey.Valid {
		project.StorageKey = storageKey.String
	}
	return project, nil
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

func fromNullString(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

var _ Repo = (*PGRepo)(nil)
