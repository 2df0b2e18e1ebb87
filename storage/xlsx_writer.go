package storage

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"election-dashboard/models"
)

const xlsxSheet = "Results"

// XLSXExporter writes unified rows as a single-sheet workbook. Numeric
// columns are stored as numbers; a missing margin is left blank.
type XLSXExporter struct{}

func (XLSXExporter) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

func (XLSXExporter) Extension() string { return "xlsx" }

func (XLSXExporter) Export(w io.Writer, rows []models.UnifiedRecord) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", xlsxSheet); err != nil {
		return fmt.Errorf("xlsx: rename sheet: %w", err)
	}

	header := make([]any, len(models.UnifiedColumns))
	for i, c := range models.UnifiedColumns {
		header[i] = c
	}
	if err := f.SetSheetRow(xlsxSheet, "A1", &header); err != nil {
		return fmt.Errorf("xlsx: write header: %w", err)
	}

	for i, r := range rows {
		var margin any
		if r.MarginVotes != nil {
			margin = *r.MarginVotes
		}
		row := []any{
			r.State, r.PCNo, r.PCName, r.Candidate, r.Party, r.TotalVotes,
			r.ConstituencyNo, r.CandidateName, r.Gender, r.Age, r.ApplicationStatus,
			r.WinningCandidate, r.WinningParty, margin,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return fmt.Errorf("xlsx: cell name: %w", err)
		}
		if err := f.SetSheetRow(xlsxSheet, cell, &row); err != nil {
			return fmt.Errorf("xlsx: write row %d: %w", i+1, err)
		}
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("xlsx: write: %w", err)
	}
	return nil
}
