package reconcile

import "github.com/a3tai/trade-doc-match/internal/fields"

// Overall verdicts produced by Match.
const (
	VerdictNoComparison      = "no comparison"
	VerdictSuccessfulMatch   = "successful match"
	VerdictUnsuccessfulMatch = "unsuccessful match"
)

// MatchReport is the field-equality comparison of two flat field maps.
// Columns is the ordered union of field names across every supplied
// document; Indicators holds a 0/1 flag per column and is nil when no
// comparison took place.
type MatchReport struct {
	Columns    []string       `json:"columns"`
	Indicators map[string]int `json:"indicators,omitempty"`
	Verdict    string         `json:"verdict"`
}

// Match compares the first two flat field maps column by column. A
// column scores 1 when both documents carry the same non-empty value
// after sanitization, 0 otherwise. The verdict is "successful match"
// only when every column scores 1. Fewer than two documents yields
// "no comparison" and no indicator row. Documents beyond the first two
// contribute columns but never participate in the comparison.
func Match(docs []*fields.FlatFields) *MatchReport {
	report := &MatchReport{
		Columns: unionColumns(docs),
	}

	if len(docs) < 2 {
		report.Verdict = VerdictNoComparison
		return report
	}

	report.Indicators = make(map[string]int, len(report.Columns))
	report.Verdict = VerdictSuccessfulMatch
	for _, column := range report.Columns {
		a := fields.Sanitize(docs[0].Get(column))
		b := fields.Sanitize(docs[1].Get(column))

		indicator := 0
		if a != "" && a == b {
			indicator = 1
		}
		report.Indicators[column] = indicator
		if indicator == 0 {
			report.Verdict = VerdictUnsuccessfulMatch
		}
	}

	return report
}

// unionColumns collects field names across docs in document order,
// keeping each document's own field order for names it introduces
func unionColumns(docs []*fields.FlatFields) []string {
	var columns []string
	seen := make(map[string]bool)

	for _, doc := range docs {
		if doc == nil {
			continue
		}
		for _, name := range doc.Names() {
			if !seen[name] {
				seen[name] = true
				columns = append(columns, name)
			}
		}
	}

	return columns
}
