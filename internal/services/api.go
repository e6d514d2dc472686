// API service for making requests to the tickr document store server
package services

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/desertthunder/tickr/internal/auth"
	"github.com/desertthunder/tickr/internal/shared"
	"github.com/desertthunder/tickr/internal/store"
	"golang.org/x/oauth2"
)

// DefaultBaseURL is used when no remote URL is given.
const DefaultBaseURL = "http://localhost:3000"

// SignupRequest is the body of POST /v1/users.
type SignupRequest struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// PatchRequest is the body of PATCH /v1/profiles/{uid}.
type PatchRequest struct {
	Mutations []store.Mutation `json:"mutations"`
}

// ErrorResponse is the body of every non-2xx response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status string `json:"status"`
}

// ProfileService talks to a tickr server over HTTP and implements [Service].
//
// Requests carry the session token as a bearer token through an [oauth2.Transport].
type ProfileService struct {
	baseURL    string
	token      string
	base       *http.Client
	httpClient *http.Client
}

var _ Service = (*ProfileService)(nil)

// NewProfileService creates a new API service for the server at baseURL.
//
// token may be empty for unauthenticated calls (Signup, Health). client is the
// underlying transport client and defaults to [http.DefaultClient].
func NewProfileService(baseURL, token string, client *http.Client) *ProfileService {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if client == nil {
		client = http.DefaultClient
	}

	p := &ProfileService{baseURL: strings.TrimRight(baseURL, "/"), base: client}
	p.setToken(token)
	return p
}

func (p *ProfileService) setToken(token string) {
	p.token = token
	if token == "" {
		p.httpClient = p.base
		return
	}

	ctx := context.WithValue(context.Background(), oauth2.HTTPClient, p.base)
	src := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token, TokenType: "Bearer"})
	p.httpClient = oauth2.NewClient(ctx, src)
	p.httpClient.Timeout = p.base.Timeout
}

func (p *ProfileService) Name() string { return "remote" }

// Fetch implements [store.Store].
func (p *ProfileService) Fetch(ctx context.Context, uid string) (store.Document, error) {
	doc := store.Document{}
	if err := p.do(ctx, http.MethodGet, profilePath(uid), nil, &doc); err != nil {
		return nil, err
	}
	if doc == nil {
		doc = store.Document{}
	}
	return doc, nil
}

// Update implements [store.Store]. The server applies all mutations in one transaction.
func (p *ProfileService) Update(ctx context.Context, uid string, mutations ...store.Mutation) error {
	return p.do(ctx, http.MethodPatch, profilePath(uid), PatchRequest{Mutations: mutations}, nil)
}

// Signup creates an account. The returned token is used for later calls on p.
func (p *ProfileService) Signup(ctx context.Context, email, name string) (*auth.Session, error) {
	var session auth.Session
	if err := p.do(ctx, http.MethodPost, "/v1/users", SignupRequest{Email: email, Name: name}, &session); err != nil {
		return nil, err
	}
	p.setToken(session.Token)
	return &session, nil
}

func (p *ProfileService) Me(ctx context.Context) (*auth.Session, error) {
	if p.token == "" {
		return nil, shared.ErrNotAuthenticated
	}

	var session auth.Session
	if err := p.do(ctx, http.MethodGet, "/v1/me", nil, &session); err != nil {
		return nil, err
	}
	session.Token = p.token
	return &session, nil
}

func (p *ProfileService) Logout(ctx context.Context) error {
	if p.token == "" {
		return shared.ErrNotAuthenticated
	}
	return p.do(ctx, http.MethodDelete, "/v1/me/token", nil, nil)
}

// Health checks that the server is reachable.
func (p *ProfileService) Health(ctx context.Context) error {
	var resp HealthResponse
	if err := p.do(ctx, http.MethodGet, "/health", nil, &resp); err != nil {
		return err
	}
	if resp.Status != "ok" {
		return fmt.Errorf("%w: status %q", shared.ErrServiceUnavailable, resp.Status)
	}
	return nil
}

func profilePath(uid string) string {
	return "/v1/profiles/" + url.PathEscape(uid)
}

// do sends a JSON request and decodes a JSON response into out when out is non-nil.
func (p *ProfileService) do(ctx context.Context, method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("failed to encode request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, p.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: request failed: %v", shared.ErrServiceUnavailable, err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: failed to read response: %v", shared.ErrServiceUnavailable, err)
	}

	if err := statusError(resp.StatusCode, data); err != nil {
		return err
	}

	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %v", shared.ErrAPIRequest, err)
	}
	return nil
}

// statusError maps a response status onto the store and shared sentinel errors.
func statusError(code int, body []byte) error {
	if code >= 200 && code < 300 {
		return nil
	}

	msg := http.StatusText(code)
	var er ErrorResponse
	if err := json.Unmarshal(body, &er); err == nil && er.Error != "" {
		msg = er.Error
	}

	var sentinel error
	switch code {
	case http.StatusNotFound:
		sentinel = store.ErrNotFound
	case http.StatusUnauthorized, http.StatusForbidden:
		sentinel = shared.ErrNotAuthenticated
	case http.StatusBadRequest:
		sentinel = shared.ErrInvalidInput
	case http.StatusConflict:
		sentinel = shared.ErrEmailTaken
	default:
		sentinel = shared.ErrServiceUnavailable
	}
	return fmt.Errorf("%w: %s (%d)", sentinel, msg, code)
}
