package main

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/tickr/internal/shared"
	"github.com/desertthunder/tickr/internal/ui"
	"github.com/urfave/cli/v3"
)

// TUI launches the interactive terminal UI for favourites.
func (r *Runner) TUI(ctx context.Context, cmd *cli.Command) error {
	// Redirect logs to file to avoid interfering with TUI rendering
	fileLogger, err := shared.NewFileLogger(r.config.Client.LogPath())
	if err != nil {
		return fmt.Errorf("failed to create file logger: %w", err)
	}
	r.SetLogger(fileLogger)

	if err := r.connect(); err != nil {
		return err
	}
	r.initTheme(ctx, "")

	uid, _ := r.session.CurrentUser()
	model := ui.NewModel(ctx, r.favourites, r.theme, r.surface, uid)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("error running TUI: %w", err)
	}

	return nil
}
