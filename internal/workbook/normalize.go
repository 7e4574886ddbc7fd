package workbook

import "strings"

// Attributes is the best-effort projection of the four canonical well
// attributes out of a row payload. A nil field means no matching column
// carried a usable value.
type Attributes struct {
	Company   *string
	Field     *string
	WellName  *string
	Formation *string
}

// attributeAliases maps each canonical attribute to the normalized
// headers it accepts, in priority order.
var attributeAliases = map[string][]string{
	"company":   {"company", "operator"},
	"field":     {"field", "field_name"},
	"well_name": {"well_name", "well"},
	"formation": {"formation", "formation_name"},
}

// NormalizeHeader folds a raw column header into its canonical lookup
// form: trimmed, lower-cased, spaces replaced with underscores.
func NormalizeHeader(header string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(header)), " ", "_")
}

// ExtractAttributes projects the canonical attributes out of a row. For
// each attribute the first alias present with a non-null value wins.
// Extraction never fails; a row without matching columns yields all-nil
// attributes.
func ExtractAttributes(row Row) Attributes {
	return Attributes{
		Company:   firstNonNull(row, attributeAliases["company"]),
		Field:     firstNonNull(row, attributeAliases["field"]),
		WellName:  firstNonNull(row, attributeAliases["well_name"]),
		Formation: firstNonNull(row, attributeAliases["formation"]),
	}
}

func firstNonNull(row Row, aliases []string) *string {
	for _, alias := range aliases {
		val, ok := row.Get(alias)
		if !ok || val.IsNull() {
			continue
		}
		rendered := strings.TrimSpace(val.String())
		if rendered == "" {
			continue
		}
		return &rendered
	}
	return nil
}
