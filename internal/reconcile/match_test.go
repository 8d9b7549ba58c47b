package reconcile

import (
	"reflect"
	"testing"

	"github.com/a3tai/trade-doc-match/internal/fields"
)

func flatDoc(pairs ...string) *fields.FlatFields {
	flat := fields.NewFlatFields()
	for i := 0; i+1 < len(pairs); i += 2 {
		flat.Set(pairs[i], pairs[i+1])
	}
	return flat
}

func TestMatchIdenticalDocuments(t *testing.T) {
	a := flatDoc(fields.FieldContractNo, "A1", fields.FieldGST, "33AACA1234F1Z5")
	b := flatDoc(fields.FieldContractNo, "A1", fields.FieldGST, "33AACA1234F1Z5")

	report := Match([]*fields.FlatFields{a, b})
	if report == nil {
		t.Fatal("Expected match report, got nil")
	}

	if report.Verdict != VerdictSuccessfulMatch {
		t.Errorf("Expected verdict %q, got %q", VerdictSuccessfulMatch, report.Verdict)
	}
	for _, column := range report.Columns {
		if report.Indicators[column] != 1 {
			t.Errorf("Expected indicator 1 for %q, got %d", column, report.Indicators[column])
		}
	}
}

func TestMatchFieldDiffers(t *testing.T) {
	a := flatDoc(fields.FieldContractNo, "A1", fields.FieldSeller, "AGRO EXIM PVT LTD")
	b := flatDoc(fields.FieldContractNo, "A1", fields.FieldSeller, "OCEANIC FIBRES PVT LTD")

	report := Match([]*fields.FlatFields{a, b})

	if report.Verdict != VerdictUnsuccessfulMatch {
		t.Errorf("Expected verdict %q, got %q", VerdictUnsuccessfulMatch, report.Verdict)
	}
	if report.Indicators[fields.FieldContractNo] != 1 {
		t.Errorf("Expected contract number to match, got %d", report.Indicators[fields.FieldContractNo])
	}
	if report.Indicators[fields.FieldSeller] != 0 {
		t.Errorf("Expected seller mismatch indicator 0, got %d", report.Indicators[fields.FieldSeller])
	}
}

func TestMatchEmptyValuesNeverMatch(t *testing.T) {
	a := flatDoc(fields.FieldContractNo, "A1", fields.FieldSeller, "")
	b := flatDoc(fields.FieldContractNo, "A1", fields.FieldSeller, "")

	report := Match([]*fields.FlatFields{a, b})

	if report.Indicators[fields.FieldSeller] != 0 {
		t.Errorf("Expected empty values to score 0, got %d", report.Indicators[fields.FieldSeller])
	}
	if report.Verdict != VerdictUnsuccessfulMatch {
		t.Errorf("Expected verdict %q, got %q", VerdictUnsuccessfulMatch, report.Verdict)
	}
}

func TestMatchSanitizesBeforeComparing(t *testing.T) {
	a := flatDoc(fields.FieldGST, "GST#1234")
	b := flatDoc(fields.FieldGST, "GST1234")

	report := Match([]*fields.FlatFields{a, b})

	if report.Indicators[fields.FieldGST] != 1 {
		t.Errorf("Expected values equal after sanitization to score 1, got %d", report.Indicators[fields.FieldGST])
	}
}

func TestMatchSingleInput(t *testing.T) {
	report := Match([]*fields.FlatFields{flatDoc(fields.FieldContractNo, "A1")})

	if report.Verdict != VerdictNoComparison {
		t.Errorf("Expected verdict %q, got %q", VerdictNoComparison, report.Verdict)
	}
	if report.Indicators != nil {
		t.Errorf("Expected no indicator row, got %v", report.Indicators)
	}
	if !reflect.DeepEqual(report.Columns, []string{fields.FieldContractNo}) {
		t.Errorf("Expected columns from the single document, got %v", report.Columns)
	}
}

func TestMatchNoInput(t *testing.T) {
	report := Match(nil)

	if report.Verdict != VerdictNoComparison {
		t.Errorf("Expected verdict %q, got %q", VerdictNoComparison, report.Verdict)
	}
	if report.Indicators != nil {
		t.Errorf("Expected no indicator row, got %v", report.Indicators)
	}
	if len(report.Columns) != 0 {
		t.Errorf("Expected no columns, got %v", report.Columns)
	}
}

func TestMatchColumnUnionOrder(t *testing.T) {
	a := flatDoc("alpha", "1", "bravo", "2")
	b := flatDoc("bravo", "2", "charlie", "3")

	report := Match([]*fields.FlatFields{a, b})

	want := []string{"alpha", "bravo", "charlie"}
	if !reflect.DeepEqual(report.Columns, want) {
		t.Errorf("Expected columns %v, got %v", want, report.Columns)
	}

	// charlie exists only in the second document, so it cannot match
	if report.Indicators["charlie"] != 0 {
		t.Errorf("Expected one-sided column to score 0, got %d", report.Indicators["charlie"])
	}
}

func TestMatchExtraDocumentsContributeColumnsOnly(t *testing.T) {
	a := flatDoc("alpha", "1")
	b := flatDoc("alpha", "1")
	c := flatDoc("alpha", "9", "delta", "4")

	report := Match([]*fields.FlatFields{a, b, c})

	want := []string{"alpha", "delta"}
	if !reflect.DeepEqual(report.Columns, want) {
		t.Errorf("Expected columns %v, got %v", want, report.Columns)
	}

	// Comparison runs over the first two documents only; the third
	// document's differing value is ignored
	if report.Indicators["alpha"] != 1 {
		t.Errorf("Expected alpha to match across the first two documents, got %d", report.Indicators["alpha"])
	}
	if report.Indicators["delta"] != 0 {
		t.Errorf("Expected delta to score 0, got %d", report.Indicators["delta"])
	}
	if report.Verdict != VerdictUnsuccessfulMatch {
		t.Errorf("Expected verdict %q, got %q", VerdictUnsuccessfulMatch, report.Verdict)
	}
}
