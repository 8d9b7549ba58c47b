package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/a3tai/trade-doc-match/internal/fields"
	"github.com/a3tai/trade-doc-match/internal/reconcile"
)

// WorkbookSheet is the sheet holding the reconciliation table.
const WorkbookSheet = "Reconciliation"

// BuildWorkbook renders the same table layout as TableWriter into an
// XLSX workbook and returns the serialized bytes. A nil report is
// computed from the documents.
func BuildWorkbook(docs []*fields.FlatFields, report *reconcile.MatchReport) ([]byte, error) {
	if report == nil {
		report = reconcile.Match(docs)
	}
	return WorkbookFromRecords(buildRecords(docs, report))
}

// WorkbookFromRecords renders already-laid-out table records into an
// XLSX workbook
func WorkbookFromRecords(records [][]string) ([]byte, error) {
	f := excelize.NewFile()
	if index, _ := f.GetSheetIndex(WorkbookSheet); index == -1 {
		if _, err := f.NewSheet(WorkbookSheet); err != nil {
			return nil, err
		}
	}
	activeIndex, _ := f.GetSheetIndex(WorkbookSheet)
	f.SetActiveSheet(activeIndex)

	for r, record := range records {
		for c, value := range record {
			cell, _ := excelize.CoordinatesToCellName(c+1, r+1)
			_ = f.SetCellValue(WorkbookSheet, cell, value)
		}
	}

	// Widen the identifier column and give field columns room for the
	// longer party and address values
	_ = f.SetColWidth(WorkbookSheet, "A", "A", 12)
	if len(records) > 0 && len(records[0]) > 1 {
		last, _ := excelize.ColumnNumberToName(len(records[0]))
		_ = f.SetColWidth(WorkbookSheet, "B", last, 24)
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("xlsx write: %w", err)
	}
	return buf.Bytes(), nil
}
