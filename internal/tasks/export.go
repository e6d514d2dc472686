package tasks

import (
	"context"
	"fmt"

	"github.com/desertthunder/tickr/internal/formatter"
)

// Export lists favourites and writes them to a file in the requested format.
func Export(ctx context.Context, prog chan<- ProgressUpdate, lister Lister, opts ExportOpts) (*ExportResult, error) {
	if lister == nil {
		return nil, fmt.Errorf("favourites repository not initialized")
	}
	if opts.Format == "" {
		opts.Format = formatter.FormatJSON
	}

	sendProgress(prog, fetchFavouritesUpdate())
	favs := lister.List(ctx)

	path, err := formatter.WriteExport(favs, opts.Format, opts.Path)
	if err != nil {
		return nil, fmt.Errorf("export failed: %w", err)
	}

	sendProgress(prog, exportCompletedUpdate(path, len(favs)))
	return &ExportResult{Path: path, Count: len(favs)}, nil
}
