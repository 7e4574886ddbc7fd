package loginspect

import (
	"errors"
	"reflect"
	"strings"
	"testing"
)

func inspectText(t *testing.T, fileName, body string) Summary {
	t.Helper()
	summary, err := Inspect(fileName, strings.NewReader(body))
	if err != nil {
		t.Fatalf("Inspect: %v", err)
	}
	return summary
}

func TestInspectExtractsHeaderFields(t *testing.T) {
	body := "WELL: NORTH STAR 12;\n" +
		"CURVES: GR, RHOB, NPHI\n" +
		"START DEPTH: 1500.5 ft\n" +
		"END DEPTH: 3200 ft\n"

	summary := inspectText(t, "survey.lis", body)

	if summary.Format != "LIS" {
		t.Fatalf("expected LIS format, got %q", summary.Format)
	}
	if summary.FileName != "survey.lis" {
		t.Fatalf("expected file name survey.lis, got %q", summary.FileName)
	}
	if want := []string{"NORTH STAR 12"}; !reflect.DeepEqual(summary.WellNames, want) {
		t.Fatalf("well names = %v, want %v", summary.WellNames, want)
	}
	if want := []string{"GR", "RHOB", "NPHI"}; !reflect.DeepEqual(summary.CurveNames, want) {
		t.Fatalf("curve names = %v, want %v", summary.CurveNames, want)
	}
	if summary.DepthMin == nil || *summary.DepthMin != 1500.5 {
		t.Fatalf("depth min = %v, want 1500.5", summary.DepthMin)
	}
	if summary.DepthMax == nil || *summary.DepthMax != 3200 {
		t.Fatalf("depth max = %v, want 3200", summary.DepthMax)
	}
	if summary.DepthUnit == nil || *summary.DepthUnit != "ft" {
		t.Fatalf("depth unit = %v, want ft", summary.DepthUnit)
	}
	if len(summary.Notes) != 1 {
		t.Fatalf("expected only the heuristic note, got %v", summary.Notes)
	}
}

func TestInspectDepthRangeFallback(t *testing.T) {
	summary := inspectText(t, "survey.dlis", "DEPTH 1000-3500\n")

	if summary.Format != "DLIS" {
		t.Fatalf("expected DLIS format, got %q", summary.Format)
	}
	if summary.DepthMin == nil || *summary.DepthMin != 1000 {
		t.Fatalf("depth min = %v, want 1000", summary.DepthMin)
	}
	if summary.DepthMax == nil || *summary.DepthMax != 3500 {
		t.Fatalf("depth max = %v, want 3500", summary.DepthMax)
	}
}

func TestInspectMixedUnitsNote(t *testing.T) {
	body := "WELL: ALPHA-7;\n" +
		"START DEPTH: 100 ft\n" +
		"END DEPTH: 200 meters\n"

	summary := inspectText(t, "mixed.lis", body)

	if summary.DepthUnit == nil || *summary.DepthUnit != "ft" {
		t.Fatalf("expected first unit ft, got %v", summary.DepthUnit)
	}
	found := false
	for _, note := range summary.Notes {
		if note == "mixed units detected" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected mixed units note, got %v", summary.Notes)
	}
}

func TestInspectNoWellNameNote(t *testing.T) {
	summary := inspectText(t, "bare.lis", "CURVES: GR\n")

	if len(summary.WellNames) != 0 {
		t.Fatalf("expected no well names, got %v", summary.WellNames)
	}
	found := false
	for _, note := range summary.Notes {
		if note == "no well name found" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected no-well-name note, got %v", summary.Notes)
	}
}

func TestInspectDedupesWellNames(t *testing.T) {
	body := "WELL: ALPHA-7;\n" +
		"WELL: alpha-7;\n"

	summary := inspectText(t, "dupes.lis", body)
	if want := []string{"ALPHA-7"}; !reflect.DeepEqual(summary.WellNames, want) {
		t.Fatalf("well names = %v, want %v", summary.WellNames, want)
	}
}

func TestInspectRejectsUnsupportedExtension(t *testing.T) {
	if _, err := Inspect("survey.las", strings.NewReader("WELL: X;")); !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}
}

func TestInspectRejectsEmptyFile(t *testing.T) {
	if _, err := Inspect("survey.lis", strings.NewReader("")); !errors.Is(err, ErrInvalidFormat) {
		t.Fatalf("expected ErrInvalidFormat, got %v", err)
	}
}

func TestInspectBinaryContentStillScans(t *testing.T) {
	body := "\x00\x01\x02WELL: DEEP-9;\xff\xfe\n"

	summary := inspectText(t, "binary.lis", body)
	if want := []string{"DEEP-9"}; !reflect.DeepEqual(summary.WellNames, want) {
		t.Fatalf("well names = %v, want %v", summary.WellNames, want)
	}
}
