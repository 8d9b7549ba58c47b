package pdf

import (
	"strings"
	"testing"

	"github.com/a3tai/trade-doc-match/internal/pdf/pdftest"
)

func TestNewReader(t *testing.T) {
	maxFileSize := int64(1024 * 1024)
	reader := NewReader(maxFileSize)

	if reader == nil {
		t.Fatal("NewReader returned nil")
	}

	if reader.maxFileSize != maxFileSize {
		t.Errorf("expected maxFileSize=%d but got %d", maxFileSize, reader.maxFileSize)
	}

	if reader.maxTextSize <= 0 {
		t.Errorf("expected positive maxTextSize but got %d", reader.maxTextSize)
	}
}

func TestReader_ReadBytes_InvalidInput(t *testing.T) {
	reader := NewReader(1024 * 1024)

	tests := []struct {
		name string
		req  ReadBytesRequest
	}{
		{
			name: "empty data",
			req:  ReadBytesRequest{Name: "empty.pdf", Data: nil},
		},
		{
			name: "not a PDF",
			req:  ReadBytesRequest{Name: "junk.pdf", Data: []byte("this is not a pdf")},
		},
		{
			name: "header only",
			req:  ReadBytesRequest{Name: "truncated.pdf", Data: []byte("%PDF-1.4\n")},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := reader.ReadBytes(tt.req)

			if err == nil {
				t.Fatal("expected error but got none")
			}
			if result != nil {
				t.Errorf("expected nil result but got %+v", result)
			}
			if !IsOpenError(err) {
				t.Errorf("expected a document-open error, got: %v", err)
			}
		})
	}
}

func TestReader_ReadBytes_TooLarge(t *testing.T) {
	reader := NewReader(16)

	data := pdftest.Doc("some content")
	_, err := reader.ReadBytes(ReadBytesRequest{Name: "big.pdf", Data: data})

	if err == nil {
		t.Fatal("expected error but got none")
	}
	if !IsTooLargeError(err) {
		t.Errorf("expected a too-large error, got: %v", err)
	}
}

func TestReader_ReadBytes_SinglePage(t *testing.T) {
	reader := NewReader(1024 * 1024)

	data := pdftest.Doc("Contract No: CT-2024-1001")
	result, err := reader.ReadBytes(ReadBytesRequest{Name: "contract.pdf", Data: data})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Pages != 1 {
		t.Errorf("expected 1 page but got %d", result.Pages)
	}
	if result.Size != int64(len(data)) {
		t.Errorf("expected size %d but got %d", len(data), result.Size)
	}
	if !strings.Contains(result.Text, "Contract No: CT-2024-1001") {
		t.Errorf("extracted text missing expected content: %q", result.Text)
	}
}

func TestReader_ReadBytes_PageOrder(t *testing.T) {
	reader := NewReader(1024 * 1024)

	data := pdftest.Doc("alpha", "bravo", "charlie")
	result, err := reader.ReadBytes(ReadBytesRequest{Name: "ordered.pdf", Data: data})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Pages != 3 {
		t.Errorf("expected 3 pages but got %d", result.Pages)
	}

	idxA := strings.Index(result.Text, "alpha")
	idxB := strings.Index(result.Text, "bravo")
	idxC := strings.Index(result.Text, "charlie")
	if idxA < 0 || idxB < 0 || idxC < 0 {
		t.Fatalf("extracted text missing page content: %q", result.Text)
	}
	if !(idxA < idxB && idxB < idxC) {
		t.Errorf("page order not preserved: %q", result.Text)
	}

	// Page texts are joined by newlines
	if !strings.Contains(result.Text[idxA:idxB], "\n") {
		t.Errorf("expected newline between page texts: %q", result.Text)
	}
}

func TestReader_ReadBytes_MultiLinePage(t *testing.T) {
	reader := NewReader(1024 * 1024)

	data := pdftest.DocWithPages([]string{"first line", "second line"})
	result, err := reader.ReadBytes(ReadBytesRequest{Name: "multiline.pdf", Data: data})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if result.Pages != 1 {
		t.Errorf("expected 1 page but got %d", result.Pages)
	}

	idx1 := strings.Index(result.Text, "first line")
	idx2 := strings.Index(result.Text, "second line")
	if idx1 < 0 || idx2 < 0 {
		t.Fatalf("extracted text missing lines: %q", result.Text)
	}
	if idx1 >= idx2 {
		t.Errorf("line order not preserved: %q", result.Text)
	}
}

func TestReader_ReadBytes_NoText(t *testing.T) {
	reader := NewReader(1024 * 1024)

	result, err := reader.ReadBytes(ReadBytesRequest{Name: "blank.pdf", Data: pdftest.EmptyDoc()})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// A document with no text is not an error at the reader layer
	if strings.TrimSpace(result.Text) != "" {
		t.Errorf("expected no text but got %q", result.Text)
	}
	if result.Pages != 1 {
		t.Errorf("expected 1 page but got %d", result.Pages)
	}
}

func TestReader_ReadBytes_TextLimit(t *testing.T) {
	reader := &Reader{maxFileSize: 1024 * 1024, maxTextSize: 8}

	data := pdftest.Doc("abcdefghijklmnopqrstuvwxyz")
	result, err := reader.ReadBytes(ReadBytesRequest{Name: "long.pdf", Data: data})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(result.Text) > 8 {
		t.Errorf("expected text capped at 8 bytes but got %d", len(result.Text))
	}
}

func BenchmarkReader_ReadBytes(b *testing.B) {
	reader := NewReader(1024 * 1024)
	data := pdftest.Doc("Contract No: CT-2024-1001", "Date: 2024-03-15")

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := reader.ReadBytes(ReadBytesRequest{Name: "bench.pdf", Data: data}); err != nil {
			b.Fatalf("unexpected error: %v", err)
		}
	}
}
