// Package workbook normalizes multi-sheet Excel workbooks into ordered
// row payloads with the canonical well attributes extracted.
package workbook

import (
	"errors"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ErrInvalidWorkbook marks an upload that cannot be parsed as a
// workbook, including workbooks with zero sheets.
var ErrInvalidWorkbook = errors.New("invalid workbook")

// RowRecord is one normalized data row of a sheet.
type RowRecord struct {
	// Index is the zero-based position of the row among the sheet's
	// data rows. Fully blank rows are skipped and do not consume an
	// index, so indices stay sequential.
	Index      int
	Attributes Attributes
	Data       Row
}

// Sheet is one normalized worksheet.
type Sheet struct {
	Name string
	Rows []RowRecord
}

// Workbook is the normalizer output: sheets in workbook order.
type Workbook struct {
	Sheets []Sheet
}

// RecordCount returns the total number of data rows across all sheets.
func (w *Workbook) RecordCount() int {
	total := 0
	for _, s := range w.Sheets {
		total += len(s.Rows)
	}
	return total
}

// Parse reads an Excel workbook and normalizes every sheet. The first
// row of each sheet is treated as the header row; header-only and empty
// sheets yield zero rows but are still reported.
func Parse(r io.Reader) (*Workbook, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidWorkbook, err)
	}
	defer f.Close()

	sheetNames := f.GetSheetList()
	if len(sheetNames) == 0 {
		return nil, fmt.Errorf("%w: workbook has no sheets", ErrInvalidWorkbook)
	}

	wb := &Workbook{Sheets: make([]Sheet, 0, len(sheetNames))}
	for _, name := range sheetNames {
		sheet, err := parseSheet(f, name)
		if err != nil {
			return nil, err
		}
		wb.Sheets = append(wb.Sheets, sheet)
	}
	return wb, nil
}

func parseSheet(f *excelize.File, name string) (Sheet, error) {
	rows, err := f.GetRows(name)
	if err != nil {
		return Sheet{}, fmt.Errorf("%w: sheet %q: %v", ErrInvalidWorkbook, name, err)
	}

	sheet := Sheet{Name: name}
	if len(rows) == 0 {
		return sheet, nil
	}

	headers := headerKeys(rows[0])
	if len(headers) == 0 {
		return sheet, nil
	}

	index := 0
	for _, raw := range rows[1:] {
		row := buildRow(headers, raw)
		if row.IsBlank() {
			continue
		}
		sheet.Rows = append(sheet.Rows, RowRecord{
			Index:      index,
			Attributes: ExtractAttributes(row),
			Data:       row,
		})
		index++
	}
	return sheet, nil
}

// headerKeys normalizes the header row. Columns with an empty header
// get a positional fallback name so their cells still land in the
// payload, and repeated headers get a numeric suffix so payload keys
// stay unique and no column is lost to JSON object normalization.
func headerKeys(headerRow []string) []string {
	keys := make([]string, len(headerRow))
	seen := make(map[string]int, len(headerRow))
	for i, h := range headerRow {
		key := NormalizeHeader(h)
		if key == "" {
			key = fmt.Sprintf("column_%d", i+1)
		}
		if count, dup := seen[key]; dup {
			base := key
			for n := count + 1; ; n++ {
				key = fmt.Sprintf("%s_%d", base, n)
				if _, taken := seen[key]; !taken {
					seen[base] = n
					break
				}
			}
		}
		seen[key] = 1
		keys[i] = key
	}
	return keys
}

// buildRow maps every header to its cell value, keeping empty cells as
// null so the payload always covers the full header set. Cells beyond
// the header row's width get positional keys instead of being dropped.
func buildRow(headers []string, cells []string) Row {
	width := len(headers)
	if len(cells) > width {
		width = len(cells)
	}
	row := make(Row, 0, width)
	for i := 0; i < width; i++ {
		key := ""
		if i < len(headers) {
			key = headers[i]
		} else {
			key = fmt.Sprintf("column_%d", i+1)
		}
		raw := ""
		if i < len(cells) {
			raw = cells[i]
		}
		row = append(row, Field{Key: key, Value: ParseValue(raw)})
	}
	return row
}
