package repositories

import (
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/tickr/internal/shared"
)

// TokenRepository persists opaque bearer tokens issued to users.
type TokenRepository struct {
	db *sql.DB
}

// NewTokenRepository creates a new [TokenRepository] with the given database connection
func NewTokenRepository(db *sql.DB) *TokenRepository {
	return &TokenRepository{db: db}
}

// Create issues and stores a new token for userID.
func (r *TokenRepository) Create(userID string) (string, error) {
	token, err := shared.GenerateToken()
	if err != nil {
		return "", err
	}

	_, err = r.db.Exec("INSERT INTO api_tokens (token, user_id, created_at) VALUES (?, ?, ?)", token, userID, time.Now().UTC())
	if err != nil {
		return "", fmt.Errorf("failed to insert token: %w", err)
	}

	return token, nil
}

// Resolve returns the user a live token belongs to.
// Tokens of soft-deleted users do not resolve.
func (r *TokenRepository) Resolve(token string) (string, error) {
	query := `
		SELECT t.user_id
		FROM api_tokens t
		JOIN users u ON u.id = t.user_id
		WHERE t.token = ? AND t.revoked_at IS NULL AND u.deleted_at IS NULL
	`

	var userID string
	err := r.db.QueryRow(query, token).Scan(&userID)
	if errors.Is(err, sql.ErrNoRows) {
		return "", shared.ErrInvalidToken
	}
	if err != nil {
		return "", fmt.Errorf("failed to resolve token: %w", err)
	}

	return userID, nil
}

// Revoke marks a token as revoked. Revoking an unknown or revoked token is an error.
func (r *TokenRepository) Revoke(token string) error {
	result, err := r.db.Exec("UPDATE api_tokens SET revoked_at = ? WHERE token = ? AND revoked_at IS NULL", time.Now().UTC(), token)
	if err != nil {
		return fmt.Errorf("failed to revoke token: %w", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get affected rows: %w", err)
	}
	if rows == 0 {
		return shared.ErrInvalidToken
	}
	return nil
}
