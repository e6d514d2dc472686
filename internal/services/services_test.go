package services

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/desertthunder/tickr/internal/models"
	"github.com/desertthunder/tickr/internal/shared"
	"github.com/desertthunder/tickr/internal/store"
)

func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	if _, err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	t.Cleanup(func() { db.Close() })
	return db
}

func TestLocalService(t *testing.T) {
	ctx := context.Background()

	t.Run("Signup Then Me", func(t *testing.T) {
		srv := NewLocalService(setupTestDB(t), "")

		session, err := srv.Signup(ctx, "  Ada@Example.com ", "Ada")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if session.Email != "ada@example.com" {
			t.Errorf("expected normalized email, got %s", session.Email)
		}
		if session.Token == "" || session.UserID == "" {
			t.Fatalf("expected user id and token, got %+v", session)
		}

		me, err := srv.Me(ctx)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if me.UserID != session.UserID || me.Name != "Ada" {
			t.Errorf("unexpected session from Me: %+v", me)
		}
	})

	t.Run("Name Defaults To Email Local Part", func(t *testing.T) {
		session, err := NewLocalService(setupTestDB(t), "").Signup(ctx, "grace@example.com", "")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if session.Name != "grace" {
			t.Errorf("expected name 'grace', got %s", session.Name)
		}
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		db := setupTestDB(t)
		if _, err := NewLocalService(db, "").Signup(ctx, "a@example.com", "A"); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		_, err := NewLocalService(db, "").Signup(ctx, "A@example.com", "B")
		if !errors.Is(err, shared.ErrEmailTaken) {
			t.Errorf("expected ErrEmailTaken, got %v", err)
		}
	})

	t.Run("Invalid Email", func(t *testing.T) {
		_, err := NewLocalService(setupTestDB(t), "").Signup(ctx, "not-an-email", "X")
		if !errors.Is(err, shared.ErrInvalidInput) {
			t.Errorf("expected ErrInvalidInput, got %v", err)
		}
	})

	t.Run("Logout Revokes Token", func(t *testing.T) {
		db := setupTestDB(t)
		session, err := NewLocalService(db, "").Signup(ctx, "a@example.com", "A")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		srv := NewLocalService(db, session.Token)
		if err := srv.Logout(ctx); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if _, err := srv.Me(ctx); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated after logout, got %v", err)
		}
		if err := srv.Logout(ctx); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated on second logout, got %v", err)
		}
	})

	t.Run("Me Without Token", func(t *testing.T) {
		if _, err := NewLocalService(setupTestDB(t), "").Me(ctx); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("Store", func(t *testing.T) {
		srv := NewLocalService(setupTestDB(t), "")
		session, err := srv.Signup(ctx, "a@example.com", "A")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		if _, err := srv.Fetch(ctx, session.UserID); !errors.Is(err, store.ErrNotFound) {
			t.Errorf("expected ErrNotFound before first write, got %v", err)
		}
		if err := srv.Update(ctx, session.UserID, store.SetTheme(models.ThemeDark)); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		doc, err := srv.Fetch(ctx, session.UserID)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if profile := doc.Profile(); profile.ThemePreference != models.ThemeDark {
			t.Errorf("expected dark theme, got %s", profile.ThemePreference)
		}
		if srv.Name() != "local" {
			t.Errorf("expected name 'local', got %s", srv.Name())
		}
	})
}
