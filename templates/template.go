// CLAUDE:SUMMARY Template learning cache — per (domain, page type) structural hints with strike-based self-healing.
// Package templates remembers what past builds learned about a site's
// page structure, keyed by (domain, page type). A learned template lets a
// repeat visit skip exploratory work: the metadata cascade starts at the
// stage that worked last time, and the pagination scan checks only the
// known query parameter.
//
// Templates self-heal against site redesigns: every build validates its
// measurements against the stored hints, and three consecutive mismatches
// evict the template.
package templates

import (
	"math"
	"sort"
	"strings"

	"github.com/hazyhaar/domap/page"
)

// Key identifies one template.
type Key struct {
	Domain   string
	PageType page.PageType
}

// Data is the structural hint set learned for one (domain, page type).
// Immutable once stored; a changed observation replaces the whole value.
type Data struct {
	Schema            string   `json:"schema"`
	HasMain           bool     `json:"has_main"`
	HasStructuredData bool     `json:"has_structured_data"`
	MetadataSource    string   `json:"metadata_source"`
	FieldsFound       []string `json:"fields_found"`
	CardStrategy      string   `json:"card_strategy"`
	PageParam         string   `json:"page_param"`
	RemovalRatio      float64  `json:"removal_ratio"`
	SelectionRatio    float64  `json:"selection_ratio"`
}

// ratioTolerance is how far a measured ratio may drift from the stored
// hint before the build counts as a mismatch.
const ratioTolerance = 0.3

// Matches validates an observation against the stored template:
// categorical fields must match exactly, ratio fields within tolerance.
// FieldsFound is compared as a set.
func (d Data) Matches(observed Data) bool {
	if d.Schema != observed.Schema ||
		d.HasMain != observed.HasMain ||
		d.HasStructuredData != observed.HasStructuredData ||
		d.MetadataSource != observed.MetadataSource ||
		d.CardStrategy != observed.CardStrategy ||
		d.PageParam != observed.PageParam {
		return false
	}
	if fieldsKey(d.FieldsFound) != fieldsKey(observed.FieldsFound) {
		return false
	}
	if math.Abs(d.RemovalRatio-observed.RemovalRatio) > ratioTolerance {
		return false
	}
	if math.Abs(d.SelectionRatio-observed.SelectionRatio) > ratioTolerance {
		return false
	}
	return true
}

func fieldsKey(fields []string) string {
	sorted := append([]string(nil), fields...)
	sort.Strings(sorted)
	return strings.Join(sorted, ",")
}
