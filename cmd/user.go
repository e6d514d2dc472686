package main

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/desertthunder/tickr/internal/shared"
	"github.com/urfave/cli/v3"
)

// UserSignup creates an account and saves the issued session.
func (r *Runner) UserSignup(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	session, err := r.service.Signup(ctx, cmd.String("email"), cmd.String("name"))
	if err != nil {
		return fmt.Errorf("signup failed: %w", err)
	}
	if err := r.sessions.Save(session); err != nil {
		return err
	}

	r.logger.Info("signed up", "user", session.UserID, "backend", r.service.Name())
	r.writePlainln("✓ Signed in as %s <%s>", session.Name, session.Email)
	r.writePlainln("Token: %s", session.Token)
	return r.writePlainln("Keep this token to sign in on other devices with `tickr user login --token`.")
}

// UserLogin validates a bearer token against the store and saves it as the session.
func (r *Runner) UserLogin(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	token := strings.TrimSpace(cmd.String("token"))
	if token == "" {
		return fmt.Errorf("%w: --token", shared.ErrMissingArgument)
	}

	svc, err := r.newService(token)
	if err != nil {
		return err
	}

	session, err := svc.Me(ctx)
	if err != nil {
		return fmt.Errorf("login failed: %w", err)
	}
	session.Token = token

	if err := r.sessions.Save(session); err != nil {
		return err
	}

	r.logger.Info("logged in", "user", session.UserID, "backend", svc.Name())
	return r.writePlainln("✓ Signed in as %s <%s>", session.Name, session.Email)
}

// UserLogout revokes the current token and clears the saved session.
//
// The session is cleared even when the token was already revoked.
func (r *Runner) UserLogout(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	if _, ok := r.session.CurrentUser(); !ok {
		return r.writePlainln("Not signed in")
	}

	if err := r.service.Logout(ctx); err != nil {
		if !errors.Is(err, shared.ErrNotAuthenticated) {
			return fmt.Errorf("logout failed: %w", err)
		}
		r.logger.Warn("token was already revoked", "error", err)
	}

	if err := r.sessions.Clear(); err != nil {
		return err
	}
	return r.writePlainln("✓ Signed out")
}

// UserWhoami shows the signed-in account as the store sees it.
func (r *Runner) UserWhoami(ctx context.Context, cmd *cli.Command) error {
	if err := r.connect(); err != nil {
		return err
	}

	if _, ok := r.session.CurrentUser(); !ok {
		return r.writePlainln("Not signed in")
	}

	session, err := r.service.Me(ctx)
	if err != nil {
		return fmt.Errorf("could not verify session: %w", err)
	}

	r.writePlainHeader("Account")
	r.writePlain("Name:    %s\n", session.Name)
	r.writePlain("Email:   %s\n", session.Email)
	r.writePlain("User ID: %s\n", session.UserID)
	return r.writePlain("Backend: %s\n", r.service.Name())
}
