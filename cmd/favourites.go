package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/tickr/internal/formatter"
	"github.com/desertthunder/tickr/internal/shared"
	"github.com/desertthunder/tickr/internal/tasks"
	"github.com/sourcegraph/conc"
	"github.com/urfave/cli/v3"
)

// FavouritesList prints the signed-in user's favourites.
func (r *Runner) FavouritesList(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}
	if _, err := r.requireSession(); err != nil {
		return err
	}

	data, err := formatter.Export(r.favourites.List(ctx), cmd.String("format"))
	if err != nil {
		return err
	}

	if _, err := r.output.Write(data); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	return nil
}

// FavouritesAdd adds SYMBOL with an optional NAME. Adding an existing symbol succeeds
// without changing the stored entry.
func (r *Runner) FavouritesAdd(ctx context.Context, cmd *cli.Command) error {
	symbol, err := symbolArg(cmd)
	if err != nil {
		return err
	}
	if err := r.connect(); err != nil {
		return err
	}
	if _, err := r.requireSession(); err != nil {
		return err
	}

	if !r.favourites.Add(ctx, symbol, cmd.StringArg("name")) {
		return fmt.Errorf("%w: could not add %s", shared.ErrServiceUnavailable, symbol)
	}
	return r.writePlainln("✓ Added %s", symbol)
}

// FavouritesRemove removes SYMBOL. Removing a symbol that is not a favourite succeeds.
func (r *Runner) FavouritesRemove(ctx context.Context, cmd *cli.Command) error {
	symbol, err := symbolArg(cmd)
	if err != nil {
		return err
	}
	if err := r.connect(); err != nil {
		return err
	}
	if _, err := r.requireSession(); err != nil {
		return err
	}

	if !r.favourites.Remove(ctx, symbol) {
		return fmt.Errorf("%w: could not remove %s", shared.ErrServiceUnavailable, symbol)
	}
	return r.writePlainln("✓ Removed %s", symbol)
}

// FavouritesCheck reports whether SYMBOL is a favourite.
func (r *Runner) FavouritesCheck(ctx context.Context, cmd *cli.Command) error {
	symbol, err := symbolArg(cmd)
	if err != nil {
		return err
	}
	if err := r.connect(); err != nil {
		return err
	}

	if r.favourites.IsFavourite(ctx, symbol) {
		return r.writePlainln("%s is a favourite", symbol)
	}
	return r.writePlainln("%s is not a favourite", symbol)
}

// FavouritesImport adds every row of a CSV file using the bulk import worker pool.
func (r *Runner) FavouritesImport(ctx context.Context, cmd *cli.Command) error {
	favs, err := formatter.ReadCSVImport(cmd.String("file"))
	if err != nil {
		return err
	}
	for i := range favs {
		favs[i].Symbol = shared.NormalizeSymbol(favs[i].Symbol)
	}

	if err := r.connect(); err != nil {
		return err
	}
	if _, err := r.requireSession(); err != nil {
		return err
	}

	workers := int(cmd.Int("workers"))
	if workers <= 0 {
		workers = r.config.Client.ImportWorkers
	}
	opts := tasks.BulkImportOpts{NumWorkers: workers, RateLimit: r.config.Client.ImportRateLimit}

	r.logger.Info("starting import", "file", cmd.String("file"), "rows", len(favs), "workers", workers)

	progressCh := make(chan tasks.ProgressUpdate, 50)
	var printer conc.WaitGroup
	printer.Go(func() {
		for update := range progressCh {
			r.writePlainln("%s", update.Message)
		}
	})

	result, err := tasks.BulkImport(ctx, progressCh, r.favourites, favs, opts)
	close(progressCh)
	printer.Wait()

	if result != nil {
		r.writePlain("\n")
		r.writePlainHeader("Import Complete")
		r.writePlain("Imported: %d/%d\n", result.Succeeded, result.Total)
		if result.Duplicates > 0 {
			r.writePlain("Duplicate rows skipped: %d\n", result.Duplicates)
		}
		if result.Skipped > 0 {
			r.writePlain("Not attempted: %d\n", result.Skipped)
		}
		if result.Failed > 0 {
			r.writePlain("\nFailed to add %d symbols:\n", result.Failed)
			for _, res := range result.Results {
				if !res.Success {
					r.writePlain("  - %s\n", res.Favourite.Symbol)
				}
			}
		}
	}
	return err
}

// FavouritesExport writes the favourites to a file.
func (r *Runner) FavouritesExport(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}
	if _, err := r.requireSession(); err != nil {
		return err
	}

	result, err := tasks.Export(ctx, nil, r.favourites, tasks.ExportOpts{
		Format: cmd.String("format"),
		Path:   cmd.String("output"),
	})
	if err != nil {
		return err
	}
	return r.writePlainln("✓ Exported %d favourites to %s", result.Count, result.Path)
}

// symbolArg returns the normalized SYMBOL argument.
func symbolArg(cmd *cli.Command) (string, error) {
	symbol := shared.NormalizeSymbol(cmd.StringArg("symbol"))
	if symbol == "" {
		return "", fmt.Errorf("%w: SYMBOL", shared.ErrMissingArgument)
	}
	return symbol, nil
}
