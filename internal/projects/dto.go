package projects

import (
	"time"

	"micp-backend/internal/workbook"
)

// ProjectResponse is the outward-facing representation of a project.
type ProjectResponse struct {
	ProjectID   string          `json:"projectId"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	CreatedAt   time.Time       `json:"createdAt"`
	Sheets      []SheetResponse `json:"sheets,omitempty"`
	RecordCount int             `json:"recordCount"`
}

// SheetResponse describes one sheet of a project.
type SheetResponse struct {
	SheetID  string `json:"sheetId"`
	Name     string `json:"name"`
	Position int    `json:"position"`
	RowCount int    `json:"rowCount"`
}

// RecordResponse is the record projection served by the query service.
// OriginalRow carries the full payload in column order.
type RecordResponse struct {
	RecordID    string       `json:"recordId"`
	SheetName   string       `json:"sheetName"`
	RowIndex    int          `json:"rowIndex"`
	Company     *string      `json:"company"`
	Field       *string      `json:"field"`
	WellName    *string      `json:"wellName"`
	Formation   *string      `json:"formation"`
	OriginalRow workbook.Row `json:"originalRow"`
}

func toProjectResponse(p Project) ProjectResponse {
	resp := ProjectResponse{
		ProjectID:   p.ID,
		Name:        p.Name,
		Description: p.Description,
		CreatedAt:   p.CreatedAt,
		RecordCount: p.RecordCount,
	}
	for _, s := range p.Sheets {
		resp.Sheets = append(resp.Sheets, toSheetResponse(s))
	}
	return resp
}

func toSheetResponse(s Sheet) SheetResponse {
	return SheetResponse{
		SheetID:  s.ID,
		Name:     s.Name,
		Position: s.Position,
		RowCount: s.RowCount,
	}
}

func toRecordResponse(r Record) RecordResponse {
	return RecordResponse{
		RecordID:    r.ID,
		SheetName:   r.SheetName,
		RowIndex:    r.RowIndex,
		Company:     r.Company,
		Field:       r.Field,
		WellName:    r.WellName,
		Formation:   r.Formation,
		OriginalRow: r.Data,
	}
}
