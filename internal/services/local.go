package services

import (
	"context"
	"database/sql"

	"github.com/desertthunder/tickr/internal/auth"
	"github.com/desertthunder/tickr/internal/repositories"
)

// LocalService serves documents and accounts straight from the SQLite database,
// for use when no remote server is configured.
type LocalService struct {
	*repositories.ProfileRepository
	accounts *Accounts
	token    string
}

var _ Service = (*LocalService)(nil)

// NewLocalService creates a [LocalService]. token is the signed-in session's token, if any.
func NewLocalService(db *sql.DB, token string) *LocalService {
	return &LocalService{
		ProfileRepository: repositories.NewProfileRepository(db),
		accounts:          NewAccounts(repositories.NewUserRepository(db), repositories.NewTokenRepository(db)),
		token:             token,
	}
}

func (l *LocalService) Signup(ctx context.Context, email, name string) (*auth.Session, error) {
	session, err := l.accounts.Signup(email, name)
	if err != nil {
		return nil, err
	}
	l.token = session.Token
	return session, nil
}

func (l *LocalService) Me(ctx context.Context) (*auth.Session, error) {
	return l.accounts.Authenticate(l.token)
}

func (l *LocalService) Logout(ctx context.Context) error {
	return l.accounts.Logout(l.token)
}

func (l *LocalService) Name() string { return "local" }
