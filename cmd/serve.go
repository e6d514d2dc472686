package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/tickr/internal/repositories"
	"github.com/desertthunder/tickr/internal/server"
	"github.com/desertthunder/tickr/internal/services"
	"github.com/urfave/cli/v3"
)

// Serve runs the document store server over the local database until ctx ends.
func (r *Runner) Serve(ctx context.Context, cmd *cli.Command) error {
	cfg := r.config.Server
	if host := cmd.String("host"); host != "" {
		cfg.Host = host
	}
	if port := cmd.Int("port"); port > 0 {
		cfg.Port = int(port)
	}

	db, err := r.database()
	if err != nil {
		return err
	}

	accounts := services.NewAccounts(repositories.NewUserRepository(db), repositories.NewTokenRepository(db))
	srv := server.New(cfg, accounts, repositories.NewProfileRepository(db), r.logger)

	r.writePlainln("Serving document store on http://%s (Ctrl+C to stop)", cfg.Addr())
	if err := srv.ListenAndServe(ctx); err != nil {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
