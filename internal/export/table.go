// Package export persists reconciliation results as tabular files: a
// delimited table overwritten in place on every run, and an XLSX
// workbook rendered in memory for download.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"sync"

	"github.com/a3tai/trade-doc-match/internal/fields"
	"github.com/a3tai/trade-doc-match/internal/reconcile"
)

// DocumentColumn is the header label of the identifier column.
const DocumentColumn = "Document"

// MatchRowLabel is the identifier of the trailing indicator row.
const MatchRowLabel = "Match"

// TableWriter persists flat extraction results to a single delimited
// table at a fixed path. Every write fully replaces the previous
// table. Writes are serialized so concurrent callers cannot interleave
// partial output; the last writer wins.
type TableWriter struct {
	path string
	mu   sync.Mutex
}

// NewTableWriter creates a writer targeting path
func NewTableWriter(path string) *TableWriter {
	return &TableWriter{path: path}
}

// Path returns the table destination
func (w *TableWriter) Path() string {
	return w.path
}

// DocumentLabel returns the positional identifier of the i-th document
// (0-indexed input, 1-indexed label)
func DocumentLabel(i int) string {
	return fmt.Sprintf("PDF_%d", i+1)
}

// Read parses the current table back into records. Reading holds the
// same lock as writing so a concurrent overwrite is never observed
// half-written.
func (w *TableWriter) Read() ([][]string, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	file, err := os.Open(w.path)
	if err != nil {
		return nil, fmt.Errorf("failed to open table file: %w", err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse table file: %w", err)
	}
	return records, nil
}

// Write renders one row per document labeled PDF_1..PDF_n plus, when
// the report carries indicators, a trailing Match row, and overwrites
// the table file with the result. A nil report is computed from the
// documents.
func (w *TableWriter) Write(docs []*fields.FlatFields, report *reconcile.MatchReport) error {
	if report == nil {
		report = reconcile.Match(docs)
	}
	records := buildRecords(docs, report)

	w.mu.Lock()
	defer w.mu.Unlock()

	if dir := filepath.Dir(w.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create table directory: %w", err)
		}
	}

	file, err := os.Create(w.path)
	if err != nil {
		return fmt.Errorf("failed to create table file: %w", err)
	}

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(records); err != nil {
		file.Close()
		return fmt.Errorf("failed to write table: %w", err)
	}

	if err := file.Close(); err != nil {
		return fmt.Errorf("failed to close table file: %w", err)
	}
	return nil
}

// buildRecords lays out the header, one row per document, and the
// optional indicator row
func buildRecords(docs []*fields.FlatFields, report *reconcile.MatchReport) [][]string {
	columns := report.Columns

	header := make([]string, 0, len(columns)+1)
	header = append(header, DocumentColumn)
	header = append(header, columns...)

	records := [][]string{header}
	for i, doc := range docs {
		row := make([]string, 0, len(columns)+1)
		row = append(row, DocumentLabel(i))
		for _, column := range columns {
			value := ""
			if doc != nil {
				value = doc.Get(column)
			}
			row = append(row, value)
		}
		records = append(records, row)
	}

	if report.Indicators != nil {
		row := make([]string, 0, len(columns)+1)
		row = append(row, MatchRowLabel)
		for _, column := range columns {
			row = append(row, strconv.Itoa(report.Indicators[column]))
		}
		records = append(records, row)
	}

	return records
}
