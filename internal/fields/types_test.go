package fields

import "testing"

func strptr(s string) *string {
	return &s
}

func TestFieldNames(t *testing.T) {
	names := FieldNames()

	if len(names) != 22 {
		t.Fatalf("Expected 22 field names, got %d", len(names))
	}
	if names[0] != FieldContractNo {
		t.Errorf("Expected first field to be %q, got %q", FieldContractNo, names[0])
	}
	if names[len(names)-1] != FieldPaymentTerms {
		t.Errorf("Expected last field to be %q, got %q", FieldPaymentTerms, names[len(names)-1])
	}

	// Mutating the returned slice must not affect the canonical order
	names[0] = "tampered"
	if FieldNames()[0] != FieldContractNo {
		t.Error("Expected FieldNames to return a copy")
	}
}

func TestFlattenOrderAndAbsence(t *testing.T) {
	extraction := &Extraction{
		Header: Header{
			ContractNo: strptr("AE/2024/0117"),
		},
		Company: Company{
			GST: strptr("GST#33AACA1234F1Z5"),
		},
		Documents: []string{"Invoice", "Packing List"},
	}

	flat := extraction.Flatten()

	names := flat.Names()
	want := FieldNames()
	if len(names) != len(want) {
		t.Fatalf("Expected %d columns, got %d", len(want), len(names))
	}
	for i := range want {
		if names[i] != want[i] {
			t.Errorf("Expected column %d to be %q, got %q", i, want[i], names[i])
		}
	}

	if got := flat.Get(FieldContractNo); got != "AE/2024/0117" {
		t.Errorf("Expected contract number %q, got %q", "AE/2024/0117", got)
	}

	// Sanitization applies during flattening
	if got := flat.Get(FieldGST); got != "GST33AACA1234F1Z5" {
		t.Errorf("Expected sanitized GST value, got %q", got)
	}

	// The documents list is rejoined into one comma-separated value
	if got := flat.Get(FieldDocuments); got != "Invoice, Packing List" {
		t.Errorf("Expected joined documents value, got %q", got)
	}

	// Absent fields flatten to empty strings, never missing columns
	if !flat.Has(FieldSeller) {
		t.Error("Expected absent field to still be present as a column")
	}
	if got := flat.Get(FieldSeller); got != "" {
		t.Errorf("Expected absent field to flatten to empty string, got %q", got)
	}
}

func TestFlatFieldsOrdering(t *testing.T) {
	flat := NewFlatFields()

	flat.Set("b", "2")
	flat.Set("a", "1")
	flat.Set("c", "3")
	flat.Set("a", "updated")

	if flat.Len() != 3 {
		t.Fatalf("Expected 3 fields, got %d", flat.Len())
	}

	names := flat.Names()
	wantOrder := []string{"b", "a", "c"}
	for i, want := range wantOrder {
		if names[i] != want {
			t.Errorf("Expected name %d to be %q, got %q", i, want, names[i])
		}
	}

	if got := flat.Get("a"); got != "updated" {
		t.Errorf("Expected overwrite to keep position and update value, got %q", got)
	}
	if flat.Has("missing") {
		t.Error("Expected Has to be false for unset name")
	}
	if got := flat.Get("missing"); got != "" {
		t.Errorf("Expected empty string for unset name, got %q", got)
	}
}
