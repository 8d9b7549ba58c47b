// Package tradedoc is the service facade over the extraction and
// reconciliation pipeline. Every delivery surface (HTTP, MCP, CLI)
// calls the same operations: strict extraction for the JSON paths,
// lenient extraction plus match matrix and table export for the
// tabular path.
package tradedoc

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/a3tai/trade-doc-match/internal/export"
	"github.com/a3tai/trade-doc-match/internal/fields"
	"github.com/a3tai/trade-doc-match/internal/pdf"
	"github.com/a3tai/trade-doc-match/internal/reconcile"
)

// Service orchestrates the pipeline components
type Service struct {
	name        string
	version     string
	maxFileSize int64
	reader      *pdf.Reader
	validator   *pdf.Validator
	recognizer  *fields.Recognizer
	table       *export.TableWriter
	logger      *slog.Logger
}

// NewService creates the facade. A nil catalog selects the built-in
// rule catalog and a nil logger falls back to slog.Default().
func NewService(name, version string, maxFileSize int64, catalog *fields.Catalog,
	tablePath string, logger *slog.Logger,
) *Service {
	if logger == nil {
		logger = slog.Default()
	}

	return &Service{
		name:        name,
		version:     version,
		maxFileSize: maxFileSize,
		reader:      pdf.NewReader(maxFileSize),
		validator:   pdf.NewValidator(maxFileSize),
		recognizer:  fields.NewRecognizer(catalog),
		table:       export.NewTableWriter(tablePath),
		logger:      logger,
	}
}

// ExtractDocument runs the strict extraction of a single document:
// unreadable bytes fail with a DocumentOpen error and a document whose
// pages yield no text at all fails with an EmptyText error.
func (s *Service) ExtractDocument(doc Document) (*fields.Extraction, error) {
	text, err := s.documentText(doc)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, pdf.NewEmptyTextError(doc.Name)
	}

	return s.recognizer.Recognize(text), nil
}

// ExtractDocuments strictly extracts every document and keys the
// results by document name. The first failing document aborts the run.
func (s *Service) ExtractDocuments(docs []Document) (*ExtractResult, error) {
	runID := uuid.NewString()

	results := make(map[string]*fields.Extraction, len(docs))
	for _, doc := range docs {
		extraction, err := s.ExtractDocument(doc)
		if err != nil {
			return nil, err
		}
		results[doc.Name] = extraction
	}

	s.logger.Info("extract.ok", "run_id", runID, "documents", len(docs))
	return &ExtractResult{RunID: runID, Documents: results}, nil
}

// MergeDocuments strictly extracts both documents and deep-merges
// them, the left document's values winning wherever both are present.
func (s *Service) MergeDocuments(left, right Document) (*MergeResult, error) {
	runID := uuid.NewString()

	leftExtraction, err := s.ExtractDocument(left)
	if err != nil {
		return nil, err
	}
	rightExtraction, err := s.ExtractDocument(right)
	if err != nil {
		return nil, err
	}

	merged := reconcile.Merge(leftExtraction, rightExtraction)

	s.logger.Info("merge.ok", "run_id", runID, "left", left.Name, "right", right.Name)
	return &MergeResult{
		RunID: runID,
		Documents: map[string]*fields.Extraction{
			left.Name:  leftExtraction,
			right.Name: rightExtraction,
		},
		Merged: merged,
	}, nil
}

// ReconcileDocuments runs the tabular pipeline: lenient extraction of
// every document (empty text yields all-absent fields rather than
// failing), sanitized flattening, the match matrix over the first two
// documents, and a full overwrite of the persisted table.
func (s *Service) ReconcileDocuments(docs []Document) (*ReconcileResult, error) {
	runID := uuid.NewString()

	flats := make([]*fields.FlatFields, 0, len(docs))
	for _, doc := range docs {
		text, err := s.documentText(doc)
		if err != nil {
			return nil, err
		}
		flats = append(flats, s.recognizer.Recognize(text).Flatten())
	}

	report := reconcile.Match(flats)
	if err := s.table.Write(flats, report); err != nil {
		return nil, fmt.Errorf("failed to persist reconciliation table: %w", err)
	}

	rows := make([]ReconcileRow, 0, len(flats))
	for i, flat := range flats {
		values := make(map[string]string, flat.Len())
		for _, name := range flat.Names() {
			values[name] = flat.Get(name)
		}
		rows = append(rows, ReconcileRow{
			Label:  export.DocumentLabel(i),
			Name:   docs[i].Name,
			Values: values,
		})
	}

	s.logger.Info("reconcile.ok",
		"run_id", runID,
		"documents", len(docs),
		"verdict", report.Verdict,
		"table", s.table.Path(),
	)
	return &ReconcileResult{
		RunID:      runID,
		Columns:    report.Columns,
		Rows:       rows,
		Indicators: report.Indicators,
		Verdict:    report.Verdict,
		TablePath:  s.table.Path(),
	}, nil
}

// ValidateDocument runs structural validation over the document bytes
func (s *Service) ValidateDocument(doc Document) (*pdf.ValidateBytesResult, error) {
	return s.validator.ValidateBytes(pdf.ValidateBytesRequest{Name: doc.Name, Data: doc.Data})
}

// TableRecords returns the persisted table as parsed records
func (s *Service) TableRecords() ([][]string, error) {
	return s.table.Read()
}

// TableWorkbook renders the persisted table as an XLSX workbook
func (s *Service) TableWorkbook() ([]byte, error) {
	records, err := s.table.Read()
	if err != nil {
		return nil, err
	}
	return export.WorkbookFromRecords(records)
}

// TablePath returns where the reconciliation table is persisted
func (s *Service) TablePath() string {
	return s.table.Path()
}

// Info describes the running service
func (s *Service) Info() *Info {
	return &Info{
		ServiceName:   s.name,
		Version:       s.version,
		CatalogSize:   s.recognizer.Catalog().Size(),
		CatalogFields: fields.FieldNames(),
		TablePath:     s.table.Path(),
		MaxFileSize:   s.maxFileSize,
	}
}

// documentText reads the document and extracts its concatenated page
// text. Open failures propagate; empty text does not.
func (s *Service) documentText(doc Document) (string, error) {
	result, err := s.reader.ReadBytes(pdf.ReadBytesRequest{Name: doc.Name, Data: doc.Data})
	if err != nil {
		return "", err
	}
	return result.Text, nil
}
