package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/tickr/internal/models"
	"github.com/desertthunder/tickr/internal/shared"
	"github.com/urfave/cli/v3"
)

// ThemeShow prints the theme the controller settles on at startup.
func (r *Runner) ThemeShow(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	r.initTheme(ctx, "")
	return r.writePlainln("Theme: %s", r.theme.Current())
}

// ThemeToggle flips the theme, caches it locally, and stores it for the signed-in user.
//
// The remote write is waited for before the process exits; its failure is logged
// and does not change the local result.
func (r *Runner) ThemeToggle(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	r.initTheme(ctx, "")
	uid, signedIn := r.session.CurrentUser()
	next := r.theme.Toggle(ctx, uid)
	r.theme.Wait()

	if !signedIn {
		return r.writePlainln("Theme: %s (saved on this device only)", next)
	}
	return r.writePlainln("Theme: %s", next)
}

// ThemeInit initializes the theme from --prefer, falling back to the stored
// preference, the cache, and the default in that order.
func (r *Runner) ThemeInit(ctx context.Context, cmd *cli.Command) error {
	var preferred models.Theme
	if value := cmd.String("prefer"); value != "" {
		t, ok := models.ParseTheme(value)
		if !ok {
			return fmt.Errorf("%w: --prefer must be light or dark, got %q", shared.ErrInvalidFlag, value)
		}
		preferred = t
	}

	if err := r.connect(); err != nil {
		return err
	}

	r.initTheme(ctx, preferred)
	return r.writePlainln("Theme: %s", r.theme.Current())
}
