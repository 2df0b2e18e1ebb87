package storage

import (
	"encoding/csv"
	"fmt"
	"io"

	"election-dashboard/models"
)

// CSVExporter writes unified rows as CSV with the unified column headers.
type CSVExporter struct{}

func (CSVExporter) ContentType() string { return "text/csv; charset=utf-8" }

func (CSVExporter) Extension() string { return "csv" }

// Export writes the header row followed by one line per record.
func (CSVExporter) Export(w io.Writer, rows []models.UnifiedRecord) error {
	cw := csv.NewWriter(w)

	if err := cw.Write(models.UnifiedColumns); err != nil {
		return fmt.Errorf("csv: write header: %w", err)
	}
	for _, r := range rows {
		if err := cw.Write(r.Cells()); err != nil {
			return fmt.Errorf("csv: write row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}
