package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/tickr/internal/store"
)

// ProfileRepository stores one JSON profile document per user and implements [store.Store].
type ProfileRepository struct {
	db *sql.DB
}

var _ store.Store = (*ProfileRepository)(nil)

// NewProfileRepository creates a new [ProfileRepository] with the given database connection
func NewProfileRepository(db *sql.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

// Fetch returns the user's stored document or [store.ErrNotFound].
func (r *ProfileRepository) Fetch(ctx context.Context, uid string) (store.Document, error) {
	var data string
	err := r.db.QueryRowContext(ctx, "SELECT data FROM profiles WHERE user_id = ?", uid).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, store.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query profile: %w", err)
	}

	return store.ParseDocument([]byte(data))
}

// Update applies mutations to the user's document inside one IMMEDIATE transaction,
// creating the document on first write.
func (r *ProfileRepository) Update(ctx context.Context, uid string, mutations ...store.Mutation) error {
	if uid == "" {
		return fmt.Errorf("%w: missing user id", store.ErrInvalidMutation)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var (
		data   string
		exists = true
	)
	err = tx.QueryRowContext(ctx, "SELECT data FROM profiles WHERE user_id = ?", uid).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		exists = false
	} else if err != nil {
		return fmt.Errorf("failed to query profile: %w", err)
	}

	doc, err := store.ParseDocument([]byte(data))
	if err != nil {
		return err
	}

	if err := store.Apply(doc, mutations...); err != nil {
		return err
	}

	encoded, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("failed to encode profile: %w", err)
	}

	now := time.Now().UTC()
	if exists {
		_, err = tx.ExecContext(ctx, "UPDATE profiles SET data = ?, updated_at = ? WHERE user_id = ?", string(encoded), now, uid)
	} else {
		_, err = tx.ExecContext(ctx, "INSERT INTO profiles (user_id, data, created_at, updated_at) VALUES (?, ?, ?, ?)", uid, string(encoded), now, now)
	}
	if err != nil {
		return fmt.Errorf("failed to write profile: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit profile: %w", err)
	}
	return nil
}
