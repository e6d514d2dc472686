// package tasks implements bulk favourites operations with progress reporting.
//
// Operations emit progress updates via channels for non-blocking status reporting to CLI/UI layers.
package tasks

import (
	"context"
	"errors"
	"fmt"

	"github.com/desertthunder/tickr/internal/models"
)

// ErrNotAdded is the per-item error when the repository refuses or fails an add.
var ErrNotAdded = errors.New("favourite was not added")

// Adder adds a favourite and reports success. Implemented by favourites.Repository.
type Adder interface {
	Add(ctx context.Context, symbol, name string) bool
}

// Lister returns the current favourites. Implemented by favourites.Repository.
type Lister interface {
	List(ctx context.Context) []models.Favourite
}

// ImportResult is the outcome for one imported row.
type ImportResult struct {
	Favourite models.Favourite
	Success   bool
	Error     error
}

// BulkImportResult summarises a [BulkImport] run.
type BulkImportResult struct {
	Total      int            // Rows submitted after de-duplication
	Duplicates int            // Rows dropped because an earlier row had the same symbol
	Succeeded  int            // Rows stored or already present
	Failed     int            // Rows the repository rejected
	Skipped    int            // Rows never attempted because the context ended
	Results    []ImportResult // Per-row outcomes, in completion order
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
		// Sent successfully
	default:
		// Channel full, skip this update
	}
}

// dedupe keeps the first row for each symbol.
func dedupe(favs []models.Favourite) ([]models.Favourite, int) {
	seen := make(map[string]struct{}, len(favs))
	kept := make([]models.Favourite, 0, len(favs))
	for _, f := range favs {
		if _, ok := seen[f.Symbol]; ok {
			continue
		}
		seen[f.Symbol] = struct{}{}
		kept = append(kept, f)
	}
	return kept, len(favs) - len(kept)
}

// ExportOpts configures [Export].
type ExportOpts struct {
	Format string // csv, markdown, txt, json
	Path   string // Output file (default: favourites.{ext})
}

// ExportResult describes a completed export.
type ExportResult struct {
	Path  string
	Count int
}

func validateAdder(a Adder) error {
	if a == nil {
		return fmt.Errorf("favourites repository not initialized")
	}
	return nil
}
