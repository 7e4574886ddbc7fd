// Package loginspect extracts preview metadata from LIS/DLIS well log
// files. Parsing is a best-effort heuristic text scan; nothing is
// persisted.
package loginspect

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"
)

// ErrInvalidFormat marks a file that is not a readable well log.
var ErrInvalidFormat = errors.New("invalid log format")

// Summary is the non-persisted preview extracted from one log file.
// Keys follow the preview contract; missing fields stay null or empty
// rather than failing the request.
type Summary struct {
	FileName   string   `json:"file_name"`
	Format     string   `json:"format"`
	WellNames  []string `json:"well_names"`
	CurveNames []string `json:"curve_names"`
	DepthMin   *float64 `json:"depth_min"`
	DepthMax   *float64 `json:"depth_max"`
	DepthUnit  *string  `json:"depth_unit"`
	Notes      []string `json:"notes"`
}

var supportedFormats = map[string]string{
	".lis":  "LIS",
	".dlis": "DLIS",
}

var (
	wellNamePatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)WELL(?:\s+NAME)?\s*[:=-]\s*([A-Za-z0-9_\-\s]{3,})`),
		regexp.MustCompile(`(?i)NAME\s*[:=-]\s*([A-Za-z0-9_\-\s]{3,})\s*WELL`),
	}
	curveTokenPattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_.-]{1,15}$`)
	curveSplitPattern = regexp.MustCompile(`[\s,:;]+`)
	depthStartPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:start|from)\s*depth\s*[:=-]?\s*(-?\d+(?:\.\d+)?)`),
		regexp.MustCompile(`(?i)depth\s*\(start\)\s*[:=-]?\s*(-?\d+(?:\.\d+)?)`),
	}
	depthEndPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(?:end|to)\s*depth\s*[:=-]?\s*(-?\d+(?:\.\d+)?)`),
		regexp.MustCompile(`(?i)depth\s*\(end\)\s*[:=-]?\s*(-?\d+(?:\.\d+)?)`),
	}
	depthRangePattern = regexp.MustCompile(`(?i)depth\s*[:=-]?\s*(-?\d+(?:\.\d+)?)\s*[-to]+\s*(-?\d+(?:\.\d+)?)`)
	depthUnitPattern  = regexp.MustCompile(`(?i)depth[^\n]*?\b(ft|feet|m|meters|metres)\b`)
)

var curveMarkerWords = map[string]struct{}{
	"curve": {}, "curves": {}, "mnemonic": {}, "mnemonics": {}, "mnem": {},
}

// Inspect reads a single log file and extracts its preview summary. The
// format is detected from the file extension; only a structurally
// unreadable file fails.
func Inspect(fileName string, r io.Reader) (Summary, error) {
	format, ok := supportedFormats[strings.ToLower(filepath.Ext(fileName))]
	if !ok {
		return Summary{}, fmt.Errorf("%w: expected a .lis or .dlis file", ErrInvalidFormat)
	}

	raw, err := io.ReadAll(r)
	if err != nil {
		return Summary{}, fmt.Errorf("%w: %v", ErrInvalidFormat, err)
	}
	if len(raw) == 0 {
		return Summary{}, fmt.Errorf("%w: file is empty", ErrInvalidFormat)
	}

	text := decodeLatin1(raw)

	summary := Summary{
		FileName:   fileName,
		Format:     format,
		WellNames:  extractWellNames(text),
		CurveNames: extractCurveNames(text),
		Notes:      []string{"parsed using heuristic text scan; results may be approximate"},
	}
	summary.DepthMin, summary.DepthMax = extractDepths(text)

	unit, mixed := extractDepthUnit(text)
	summary.DepthUnit = unit
	if mixed {
		summary.Notes = append(summary.Notes, "mixed units detected")
	}
	if len(summary.WellNames) == 0 {
		summary.Notes = append(summary.Notes, "no well name found")
	}

	return summary, nil
}

// decodeLatin1 maps every byte to its latin-1 rune so binary log files
// still yield a scannable string.
func decodeLatin1(raw []byte) string {
	var sb strings.Builder
	sb.Grow(len(raw))
	for _, b := range raw {
		sb.WriteRune(rune(b))
	}
	return sb.String()
}

func extractWellNames(text string) []string {
	var names []string
	for _, pattern := range wellNamePatterns {
		for _, match := range pattern.FindAllStringSubmatch(text, -1) {
			if candidate := strings.TrimSpace(match[1]); candidate != "" {
				names = append(names, candidate)
			}
		}
	}
	return uniquePreserve(names)
}

func extractCurveNames(text string) []string {
	var curves []string
	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(line)
		if !strings.Contains(lower, "curve") && !strings.Contains(lower, "mnem") {
			continue
		}
		for _, token := range curveSplitPattern.Split(line, -1) {
			if token == "" || !curveTokenPattern.MatchString(token) {
				continue
			}
			if _, marker := curveMarkerWords[strings.ToLower(token)]; marker {
				continue
			}
			curves = append(curves, token)
		}
	}
	return uniquePreserve(curves)
}

func extractDepths(text string) (*float64, *float64) {
	depthMin := searchFirstFloat(text, depthStartPatterns)
	depthMax := searchFirstFloat(text, depthEndPatterns)

	// Some logs only carry a combined range like "DEPTH 1000-3500".
	if depthMin == nil && depthMax == nil {
		if match := depthRangePattern.FindStringSubmatch(text); match != nil {
			depthMin = safeFloat(match[1])
			depthMax = safeFloat(match[2])
		}
	}
	return depthMin, depthMax
}

func extractDepthUnit(text string) (*string, bool) {
	units := make(map[string]struct{})
	var first string
	for _, match := range depthUnitPattern.FindAllStringSubmatch(text, -1) {
		unit := normalizeUnit(match[1])
		if _, seen := units[unit]; !seen && len(units) == 0 {
			first = unit
		}
		units[unit] = struct{}{}
	}
	if len(units) == 0 {
		return nil, false
	}
	return &first, len(units) > 1
}

func normalizeUnit(raw string) string {
	switch strings.ToLower(raw) {
	case "ft", "feet":
		return "ft"
	default:
		return "m"
	}
}

func searchFirstFloat(text string, patterns []*regexp.Regexp) *float64 {
	for _, pattern := range patterns {
		if match := pattern.FindStringSubmatch(text); match != nil {
			if f := safeFloat(match[1]); f != nil {
				return f
			}
		}
	}
	return nil
}

func safeFloat(raw string) *float64 {
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &f
}

func uniquePreserve(items []string) []string {
	seen := make(map[string]struct{}, len(items))
	out := make([]string, 0, len(items))
	for _, item := range items {
		key := strings.ToLower(strings.TrimSpace(item))
		if key == "" {
			continue
		}
		if _, ok := seen[key]; ok {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, strings.TrimSpace(item))
	}
	return out
}
