package storage

import (
	"context"
	"io"

	"election-dashboard/models"
)

// TableSource is the interface any input backend must satisfy. ReadTables
// returns the three tables in source order; failures are *LoadError.
type TableSource interface {
	ReadTables(ctx context.Context) (*models.RawTables, error)
	Close() error
}

// TableWriter replaces the contents of a backend with the given tables.
type TableWriter interface {
	WriteTables(ctx context.Context, tables *models.RawTables) error
	Close() error
}

// RowExporter writes unified rows in a download format.
type RowExporter interface {
	Export(w io.Writer, rows []models.UnifiedRecord) error
	ContentType() string
	Extension() string
}
