package services

import (
	"context"
	"time"

	"election-dashboard/models"
	"election-dashboard/storage"
	"election-dashboard/utils"
)

// Loader reads the three input tables from a source and types them.
type Loader struct {
	source  storage.TableSource
	cleaner *Cleaner
	logger  *utils.Logger
}

func NewLoader(source storage.TableSource, logger *utils.Logger) *Loader {
	return &Loader{source: source, cleaner: NewCleaner(logger), logger: logger}
}

// Load returns typed tables or a *storage.LoadError.
func (l *Loader) Load(ctx context.Context, sourceName string) (*models.Tables, error) {
	start := time.Now()

	raw, err := l.source.ReadTables(ctx)
	if err != nil {
		return nil, err
	}

	candidates, err := l.cleaner.CleanCandidates(raw.Candidates)
	if err != nil {
		return nil, &storage.LoadError{Table: storage.TableCandidates, Source: sourceName, Err: err}
	}
	results, err := l.cleaner.CleanResults(raw.Results)
	if err != nil {
		return nil, &storage.LoadError{Table: storage.TableResults, Source: sourceName, Err: err}
	}
	winners, err := l.cleaner.CleanWinners(raw.Winners)
	if err != nil {
		return nil, &storage.LoadError{Table: storage.TableWinners, Source: sourceName, Err: err}
	}

	l.logger.Info("[loader] Loaded %d candidates, %d results, %d winners from %s in %v",
		len(candidates), len(results), len(winners), sourceName, time.Since(start).Round(time.Millisecond))

	return &models.Tables{Candidates: candidates, Results: results, Winners: winners}, nil
}
