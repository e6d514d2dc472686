package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/tickr/internal/models"
	"github.com/desertthunder/tickr/internal/shared"
	"github.com/desertthunder/tickr/internal/store"
	tu "github.com/desertthunder/tickr/internal/testing"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func TestProfileService(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("With Empty BaseURL", func(t *testing.T) {
			srv := NewProfileService("", "", nil)

			if srv.baseURL != DefaultBaseURL {
				t.Errorf("expected default baseURL %s, got %s", DefaultBaseURL, srv.baseURL)
			}
			if srv.httpClient != http.DefaultClient {
				t.Error("expected http.DefaultClient without a token")
			}
		})

		t.Run("Trims Trailing Slash", func(t *testing.T) {
			srv := NewProfileService("http://example.com/", "", nil)

			if srv.baseURL != "http://example.com" {
				t.Errorf("expected baseURL 'http://example.com', got %s", srv.baseURL)
			}
		})

		t.Run("With Token Keeps Timeout", func(t *testing.T) {
			base := &http.Client{Timeout: 3 * time.Second}
			srv := NewProfileService("http://example.com", "tok", base)

			if srv.httpClient == base {
				t.Error("expected an oauth2 client wrapping the base client")
			}
			if srv.httpClient.Timeout != 3*time.Second {
				t.Errorf("expected timeout 3s, got %v", srv.httpClient.Timeout)
			}
		})
	})

	t.Run("Fetch", func(t *testing.T) {
		t.Run("Sends Bearer Token And Decodes Profile", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					t.Errorf("expected GET method, got %s", r.Method)
				}
				if r.URL.Path != "/v1/profiles/u1" {
					t.Errorf("expected path '/v1/profiles/u1', got %s", r.URL.Path)
				}
				if got := r.Header.Get("Authorization"); got != "Bearer secret" {
					t.Errorf("expected bearer token, got %q", got)
				}
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"themePreference":"dark","favourites":[{"symbol":"TSLA","name":"Tesla","addedAt":"2024-01-01T00:00:00Z"}]}`))
			}))
			defer server.Close()

			srv := NewProfileService(server.URL, "secret", server.Client())
			doc, err := srv.Fetch(context.Background(), "u1")

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			profile := doc.Profile()
			if profile.ThemePreference != models.ThemeDark {
				t.Errorf("expected dark theme, got %s", profile.ThemePreference)
			}
			if len(profile.Favourites) != 1 || profile.Favourites[0].Symbol != "TSLA" {
				t.Errorf("unexpected favourites: %+v", profile.Favourites)
			}
		})

		t.Run("Keeps Stored Entries Verbatim", func(t *testing.T) {
			entry := `{"symbol":"TSLA","name":"Tesla","addedAt":"2024-01-01T00:00:00.000Z","exchange":"NASDAQ"}`
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.Write([]byte(`{"favourites":[` + entry + `]}`))
			}))
			defer server.Close()

			doc, err := NewProfileService(server.URL, "secret", server.Client()).Fetch(context.Background(), "u1")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			raw, ok := doc.Favourite("TSLA")
			if !ok {
				t.Fatalf("expected TSLA entry")
			}
			if string(raw) != entry {
				t.Errorf("expected entry %s, got %s", entry, raw)
			}
		})

		t.Run("Not Found", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "document not found"})
			}))
			defer server.Close()

			_, err := NewProfileService(server.URL, "secret", server.Client()).Fetch(context.Background(), "u1")

			if !errors.Is(err, store.ErrNotFound) {
				t.Errorf("expected ErrNotFound, got %v", err)
			}
		})

		t.Run("Escapes User ID", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.URL.EscapedPath() != "/v1/profiles/a%2Fb" {
					t.Errorf("expected escaped path, got %s", r.URL.EscapedPath())
				}
				writeJSON(w, http.StatusOK, models.Profile{})
			}))
			defer server.Close()

			if _, err := NewProfileService(server.URL, "secret", server.Client()).Fetch(context.Background(), "a/b"); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})
	})

	t.Run("Update", func(t *testing.T) {
		t.Run("Sends Mutations", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPatch {
					t.Errorf("expected PATCH method, got %s", r.Method)
				}
				if r.Header.Get("Content-Type") != "application/json" {
					t.Errorf("expected Content-Type 'application/json', got %s", r.Header.Get("Content-Type"))
				}

				var req PatchRequest
				if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
					t.Errorf("failed to decode request body: %v", err)
				}
				if len(req.Mutations) != 1 {
					t.Fatalf("expected 1 mutation, got %d", len(req.Mutations))
				}
				if req.Mutations[0].Op != store.OpArrayUnion || req.Mutations[0].Field != models.FieldFavourites {
					t.Errorf("unexpected mutation: %+v", req.Mutations[0])
				}
				w.WriteHeader(http.StatusNoContent)
			}))
			defer server.Close()

			fav := models.NewFavourite("AAPL", "Apple", time.Now())
			err := NewProfileService(server.URL, "secret", server.Client()).
				Update(context.Background(), "u1", store.UnionFavourite(fav))

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})

		t.Run("Status Mapping", func(t *testing.T) {
			tests := []struct {
				status int
				want   error
			}{
				{http.StatusUnauthorized, shared.ErrNotAuthenticated},
				{http.StatusForbidden, shared.ErrNotAuthenticated},
				{http.StatusBadRequest, shared.ErrInvalidInput},
				{http.StatusTooManyRequests, shared.ErrServiceUnavailable},
				{http.StatusInternalServerError, shared.ErrServiceUnavailable},
			}

			for _, tt := range tests {
				t.Run(http.StatusText(tt.status), func(t *testing.T) {
					server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
						writeJSON(w, tt.status, ErrorResponse{Error: "nope"})
					}))
					defer server.Close()

					err := NewProfileService(server.URL, "secret", server.Client()).
						Update(context.Background(), "u1", store.SetTheme(models.ThemeDark))

					if !errors.Is(err, tt.want) {
						t.Errorf("expected %v, got %v", tt.want, err)
					}
					if !strings.Contains(err.Error(), "nope") {
						t.Errorf("expected server message in error, got %v", err)
					}
				})
			}
		})
	})

	t.Run("Signup", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.URL.Path {
			case "/v1/users":
				if r.Header.Get("Authorization") != "" {
					t.Error("expected no Authorization header on signup")
				}
				var req SignupRequest
				json.NewDecoder(r.Body).Decode(&req)
				writeJSON(w, http.StatusCreated, map[string]string{
					"userId": "u1", "email": req.Email, "name": req.Name, "token": "fresh",
				})
			case "/v1/me":
				if got := r.Header.Get("Authorization"); got != "Bearer fresh" {
					t.Errorf("expected token from signup, got %q", got)
				}
				writeJSON(w, http.StatusOK, map[string]string{"userId": "u1", "email": "a@b.co", "name": "A"})
			}
		}))
		defer server.Close()

		srv := NewProfileService(server.URL, "", server.Client())
		session, err := srv.Signup(context.Background(), "a@b.co", "A")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if session.UserID != "u1" || session.Token != "fresh" {
			t.Errorf("unexpected session: %+v", session)
		}

		me, err := srv.Me(context.Background())
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if me.Token != "fresh" {
			t.Errorf("expected Me to carry the token, got %q", me.Token)
		}
	})

	t.Run("Without Token", func(t *testing.T) {
		srv := NewProfileService("http://example.com", "", nil)

		if _, err := srv.Me(context.Background()); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated from Me, got %v", err)
		}
		if err := srv.Logout(context.Background()); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated from Logout, got %v", err)
		}
	})

	t.Run("Logout", func(t *testing.T) {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method != http.MethodDelete || r.URL.Path != "/v1/me/token" {
				t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			}
			w.WriteHeader(http.StatusNoContent)
		}))
		defer server.Close()

		if err := NewProfileService(server.URL, "secret", server.Client()).Logout(context.Background()); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
	})

	t.Run("Health", func(t *testing.T) {
		t.Run("OK", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, HealthResponse{Status: "ok"})
			}))
			defer server.Close()

			if err := NewProfileService(server.URL, "", server.Client()).Health(context.Background()); err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
		})

		t.Run("Degraded", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				writeJSON(w, http.StatusOK, HealthResponse{Status: "degraded"})
			}))
			defer server.Close()

			err := NewProfileService(server.URL, "", server.Client()).Health(context.Background())
			if !errors.Is(err, shared.ErrServiceUnavailable) {
				t.Errorf("expected ErrServiceUnavailable, got %v", err)
			}
		})
	})

	t.Run("Transport Failures", func(t *testing.T) {
		t.Run("Failed HTTP Request", func(t *testing.T) {
			client := &http.Client{
				Transport: tu.NewMockRoundTripper(nil, errors.New("connection failed")),
			}

			_, err := NewProfileService("http://example.com", "secret", client).Fetch(context.Background(), "u1")

			if !errors.Is(err, shared.ErrServiceUnavailable) {
				t.Errorf("expected ErrServiceUnavailable, got %v", err)
			}
			if !strings.Contains(err.Error(), "request failed") {
				t.Errorf("expected 'request failed' error, got %v", err)
			}
		})

		t.Run("Failed Response Body Read", func(t *testing.T) {
			client := &http.Client{
				Transport: tu.NewMockRoundTripper(&http.Response{
					StatusCode: http.StatusOK,
					Body:       &tu.FCloser{},
					Header:     http.Header{},
				}, nil),
			}

			_, err := NewProfileService("http://example.com", "", client).Fetch(context.Background(), "u1")

			if err == nil || !strings.Contains(err.Error(), "failed to read response") {
				t.Errorf("expected 'failed to read response' error, got %v", err)
			}
		})

		t.Run("Invalid JSON", func(t *testing.T) {
			client := &http.Client{
				Transport: tu.NewMockRoundTripper(&http.Response{
					StatusCode: http.StatusOK,
					Body:       io.NopCloser(strings.NewReader("not json")),
					Header:     http.Header{},
				}, nil),
			}

			_, err := NewProfileService("http://example.com", "", client).Fetch(context.Background(), "u1")

			if !errors.Is(err, shared.ErrAPIRequest) {
				t.Errorf("expected ErrAPIRequest, got %v", err)
			}
		})

		t.Run("Failed Request Creation", func(t *testing.T) {
			err := NewProfileService("http://example.com", "", nil).
				do(context.Background(), http.MethodGet, "/test\x00invalid", nil, nil)

			if err == nil || !strings.Contains(err.Error(), "failed to create request") {
				t.Errorf("expected 'failed to create request' error, got %v", err)
			}
		})

		t.Run("With Canceled Context", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			_, err := NewProfileService(server.URL, "secret", server.Client()).Fetch(ctx, "u1")
			if !errors.Is(err, shared.ErrServiceUnavailable) {
				t.Errorf("expected ErrServiceUnavailable for canceled context, got %v", err)
			}
		})
	})
}
