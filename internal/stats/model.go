package stats

import (
	"bytes"
	"encoding/json"
	"sort"
	"strconv"
)

// UnknownBucket groups records whose extracted attribute is null, so
// bucket totals always add up to the record count.
const UnknownBucket = "Unknown"

// BucketWidth is the fixed row-index bucket width used for the
// distribution mapping.
const BucketWidth = 10

// Stats holds the six aggregate mappings for a project.
type Stats struct {
	WellsByCompany    map[string]int `json:"wells_by_company"`
	WellsByField      map[string]int `json:"wells_by_field"`
	WellsByFormation  map[string]int `json:"wells_by_formation"`
	WellsBySheet      map[string]int `json:"wells_by_sheet"`
	WellsPerRowBucket BucketCounts   `json:"wells_per_row_bucket"`
	SheetRowCounts    map[string]int `json:"sheet_row_counts"`
}

// BucketCount is the record count of one row-index bucket.
type BucketCount struct {
	Start int
	Label string
	Count int
}

// BucketCounts is a row-bucket mapping kept in numeric ascending order.
// It marshals as a JSON object so clients see bucket-label -> count,
// with keys ordered by bucket start rather than lexicographically.
type BucketCounts []BucketCount

// MarshalJSON encodes the buckets as an ordered JSON object.
func (b BucketCounts) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, bucket := range b {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(bucket.Label)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		buf.WriteString(strconv.Itoa(bucket.Count))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Total returns the sum of all bucket counts.
func (b BucketCounts) Total() int {
	total := 0
	for _, bucket := range b {
		total += bucket.Count
	}
	return total
}

// BucketLabel renders the bucket covering the given row index, e.g.
// "0-9" for indices 0 through 9 with the default width.
func BucketLabel(rowIndex int) string {
	start := (rowIndex / BucketWidth) * BucketWidth
	return strconv.Itoa(start) + "-" + strconv.Itoa(start+BucketWidth-1)
}

func bucketsFromCounts(counts map[int]int) BucketCounts {
	starts := make([]int, 0, len(counts))
	for start := range counts {
		starts = append(starts, start)
	}
	sort.Ints(starts)

	out := make(BucketCounts, 0, len(starts))
	for _, start := range starts {
		out = append(out, BucketCount{
			Start: start,
			Label: strconv.Itoa(start) + "-" + strconv.Itoa(start+BucketWidth-1),
			Count: counts[start],
		})
	}
	return out
}
