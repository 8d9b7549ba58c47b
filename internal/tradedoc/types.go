package tradedoc

import "github.com/a3tai/trade-doc-match/internal/fields"

// Document is one uploaded trade document: its presented name and raw
// byte content. The service never touches the filesystem; callers own
// materializing uploads or reading files.
type Document struct {
	Name string `json:"name"`
	Data []byte `json:"-"`
}

// ExtractResult holds the strict extraction of one or more documents,
// keyed by the presented document name.
type ExtractResult struct {
	RunID     string                        `json:"run_id"`
	Documents map[string]*fields.Extraction `json:"documents"`
}

// MergeResult holds both per-document extractions plus their deep
// merge. The first document's values win wherever both are present.
type MergeResult struct {
	RunID     string                        `json:"run_id"`
	Documents map[string]*fields.Extraction `json:"documents"`
	Merged    *fields.Extraction            `json:"merged"`
}

// ReconcileRow is one document's sanitized flat values in the match
// report, labeled with its positional identifier.
type ReconcileRow struct {
	Label  string            `json:"label"`
	Name   string            `json:"name"`
	Values map[string]string `json:"values"`
}

// ReconcileResult is the outcome of a tabular reconciliation run: the
// flat rows, the per-field indicators, the overall verdict, and where
// the table was persisted.
type ReconcileResult struct {
	RunID      string         `json:"run_id"`
	Columns    []string       `json:"columns"`
	Rows       []ReconcileRow `json:"rows"`
	Indicators map[string]int `json:"indicators,omitempty"`
	Verdict    string         `json:"verdict"`
	TablePath  string         `json:"table_path"`
}

// Info describes the running service
type Info struct {
	ServiceName   string   `json:"service_name"`
	Version       string   `json:"version"`
	CatalogSize   int      `json:"catalog_size"`
	CatalogFields []string `json:"catalog_fields"`
	TablePath     string   `json:"table_path"`
	MaxFileSize   int64    `json:"max_file_size"`
}
