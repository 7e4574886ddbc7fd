// Package stats aggregates persisted well records into the grouped
// counts rendered by the dashboard charts.
package stats

import (
	"context"

	"micp-backend/internal/projects"
)

// Service computes project statistics from the persistence layer. Reads
// are pure; rerunning against an unchanged project yields identical
// mappings.
type Service struct {
	Repo projects.Repo
}

// ProjectStats computes the six aggregate mappings for a project. An
// unknown project fails with projects.ErrNotFound; an empty project
// yields all-empty mappings.
func (s *Service) ProjectStats(ctx context.Context, projectID string) (Stats, error) {
	if _, err := s.Repo.GetByID(ctx, projectID); err != nil {
		return Stats{}, err
	}

	sheets, err := s.Repo.ListSheets(ctx, projectID)
	if err != nil {
		return Stats{}, err
	}

	records, err := s.Repo.ListRecords(ctx, projectID, projects.RecordFilter{})
	if err != nil {
		return Stats{}, err
	}

	out := Stats{
		WellsByCompany:    make(map[string]int),
		WellsByField:      make(map[string]int),
		WellsByFormation:  make(map[string]int),
		WellsBySheet:      make(map[string]int),
		WellsPerRowBucket: BucketCounts{},
		SheetRowCounts:    make(map[string]int),
	}

	for _, sheet := range sheets {
		out.SheetRowCounts[sheet.Name] = sheet.RowCount
	}

	buckets := make(map[int]int)
	for _, rec := range records {
		out.WellsByCompany[attributeBucket(rec.Company)]++
		out.WellsByField[attributeBucket(rec.Field)]++
		out.WellsByFormation[attributeBucket(rec.Formation)]++
		out.WellsBySheet[rec.SheetName]++
		buckets[(rec.RowIndex/BucketWidth)*BucketWidth]++
	}
	if len(buckets) > 0 {
		out.WellsPerRowBucket = bucketsFromCounts(buckets)
	}

	return out, nil
}

func attributeBucket(value *string) string {
	if value == nil || *value == "" {
		return UnknownBucket
	}
	return *value
}
