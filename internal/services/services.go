// package services defines interface Service for the document store and account operations
//
// Remote (HTTP, see [ProfileService]) and local (SQLite, see [LocalService])
package services

import (
	"context"
	"errors"
	"fmt"
	"net/mail"
	"strings"

	"github.com/desertthunder/tickr/internal/auth"
	"github.com/desertthunder/tickr/internal/models"
	"github.com/desertthunder/tickr/internal/repositories"
	"github.com/desertthunder/tickr/internal/shared"
	"github.com/desertthunder/tickr/internal/store"
)

// Service is a document store that also manages the accounts owning the documents.
type Service interface {
	store.Store

	// Signup creates an account and returns a session carrying a new bearer token.
	Signup(ctx context.Context, email, name string) (*auth.Session, error)

	// Me returns the account the service's token belongs to.
	Me(ctx context.Context) (*auth.Session, error)

	// Logout revokes the service's token.
	Logout(ctx context.Context) error

	// Name returns the name of the backend (e.g., "remote", "local")
	Name() string
}

// Accounts issues and resolves bearer tokens over the user and token repositories.
type Accounts struct {
	users  *repositories.UserRepository
	tokens *repositories.TokenRepository
}

func NewAccounts(users *repositories.UserRepository, tokens *repositories.TokenRepository) *Accounts {
	return &Accounts{users: users, tokens: tokens}
}

// Signup creates a user and its first token. Emails are unique among active users.
func (a *Accounts) Signup(email, name string) (*auth.Session, error) {
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if _, err := mail.ParseAddress(email); err != nil {
		return nil, fmt.Errorf("%w: invalid email %q", shared.ErrInvalidInput, email)
	}

	_, err := a.users.GetByEmail(email)
	switch {
	case err == nil:
		return nil, fmt.Errorf("%w: %s", shared.ErrEmailTaken, email)
	case !errors.Is(err, shared.ErrUserNotFound):
		return nil, err
	}

	if name == "" {
		name = strings.Split(email, "@")[0]
	}

	user := models.NewUser(0, email, name)
	if err := a.users.Create(user); err != nil {
		return nil, err
	}

	token, err := a.tokens.Create(user.ID())
	if err != nil {
		return nil, err
	}

	return &auth.Session{UserID: user.ID(), Email: user.Email(), Name: user.Name(), Token: token}, nil
}

// Authenticate resolves a bearer token to its user's session.
func (a *Accounts) Authenticate(token string) (*auth.Session, error) {
	if token == "" {
		return nil, shared.ErrNotAuthenticated
	}

	uid, err := a.tokens.Resolve(token)
	if err != nil {
		if errors.Is(err, shared.ErrInvalidToken) {
			return nil, fmt.Errorf("%w: %v", shared.ErrNotAuthenticated, err)
		}
		return nil, err
	}

	user, err := a.users.Get(uid)
	if err != nil {
		return nil, err
	}

	return &auth.Session{UserID: user.ID(), Email: user.Email(), Name: user.Name(), Token: token}, nil
}

// Logout revokes token.
func (a *Accounts) Logout(token string) error {
	if err := a.tokens.Revoke(token); err != nil {
		if errors.Is(err, shared.ErrInvalidToken) {
			return fmt.Errorf("%w: %v", shared.ErrNotAuthenticated, err)
		}
		return err
	}
	return nil
}
