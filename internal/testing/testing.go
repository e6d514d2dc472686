// package testing contains shared testing utilities
package testing

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"os"
	"sync"
	"testing"

	"github.com/desertthunder/tickr/internal/models"
	"github.com/desertthunder/tickr/internal/store"
)

// MockStore is an in-memory [store.Store] that records calls.
//
// Mutations go through [store.Apply], so union and remove behave exactly like the
// SQLite-backed repository.
type MockStore struct {
	mu      sync.Mutex
	docs    map[string]store.Document
	fetches int
	updates []UpdateCall

	// FetchErr, when set, is returned by every Fetch.
	FetchErr error
	// UpdateErr, when set, is returned by every Update and the document is left unchanged.
	UpdateErr error
	// UpdateHook, when set, runs at the start of every Update.
	UpdateHook func(uid string)
}

// UpdateCall is one recorded [MockStore.Update].
type UpdateCall struct {
	UID       string
	Mutations []store.Mutation
}

func NewMockStore() *MockStore {
	return &MockStore{docs: map[string]store.Document{}}
}

// Seed stores p as uid's document.
func (m *MockStore) Seed(uid string, p *models.Profile) {
	data, err := json.Marshal(p)
	if err != nil {
		panic(err)
	}
	doc, err := store.ParseDocument(data)
	if err != nil {
		panic(err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[uid] = doc
}

// SeedRaw stores data, a JSON object, as uid's document without going through
// the typed model.
func (m *MockStore) SeedRaw(uid, data string) {
	doc, err := store.ParseDocument([]byte(data))
	if err != nil {
		panic(err)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.docs[uid] = doc
}

func (m *MockStore) Fetch(ctx context.Context, uid string) (store.Document, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fetches++

	if m.FetchErr != nil {
		return nil, m.FetchErr
	}
	doc, ok := m.docs[uid]
	if !ok {
		return nil, store.ErrNotFound
	}
	return doc.Clone(), nil
}

func (m *MockStore) Update(ctx context.Context, uid string, mutations ...store.Mutation) error {
	if m.UpdateHook != nil {
		m.UpdateHook(uid)
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	m.updates = append(m.updates, UpdateCall{UID: uid, Mutations: mutations})

	if m.UpdateErr != nil {
		return m.UpdateErr
	}

	doc := m.docs[uid].Clone()
	if err := store.Apply(doc, mutations...); err != nil {
		return err
	}
	m.docs[uid] = doc
	return nil
}

// Profile returns uid's current document, or nil if there is none.
func (m *MockStore) Profile(uid string) *models.Profile {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[uid]
	if !ok {
		return nil
	}
	return doc.Profile()
}

// Document returns a copy of uid's stored document, or nil if there is none.
func (m *MockStore) Document(uid string) store.Document {
	m.mu.Lock()
	defer m.mu.Unlock()
	doc, ok := m.docs[uid]
	if !ok {
		return nil
	}
	return doc.Clone()
}

// Fetches returns the number of Fetch calls.
func (m *MockStore) Fetches() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetches
}

// Updates returns a copy of the recorded Update calls.
func (m *MockStore) Updates() []UpdateCall {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]UpdateCall(nil), m.updates...)
}

// Calls returns the total number of store calls.
func (m *MockStore) Calls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.fetches + len(m.updates)
}

// MockIdentity is a fixed [store.Identity]. The zero value is signed out.
type MockIdentity struct {
	UID string
}

func (m MockIdentity) CurrentUser() (string, bool) {
	return m.UID, m.UID != ""
}

// MockCache is an in-memory [cache.KV].
type MockCache struct {
	mu     sync.Mutex
	values map[string]string
	sets   int

	// SetErr, when set, is returned by Set and nothing is stored.
	SetErr error
}

func NewMockCache(seed map[string]string) *MockCache {
	values := map[string]string{}
	for k, v := range seed {
		values[k] = v
	}
	return &MockCache{values: values}
}

func (m *MockCache) Get(key string) (string, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return v, ok
}

func (m *MockCache) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets++
	if m.SetErr != nil {
		return m.SetErr
	}
	m.values[key] = value
	return nil
}

// Sets returns the number of Set calls, failed ones included.
func (m *MockCache) Sets() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.sets
}

// MockSurface records every theme it is given.
type MockSurface struct {
	mu     sync.Mutex
	themes []models.Theme
}

func (m *MockSurface) SetTheme(t models.Theme) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.themes = append(m.themes, t)
}

func (m *MockSurface) Themes() []models.Theme {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]models.Theme(nil), m.themes...)
}

// FWriter always returns an error on Write
type FWriter struct{}

func (f *FWriter) Write(p []byte) (n int, err error) {
	return 0, errors.New("write failed")
}

// MockRoundTripper allows custom HTTP responses for testing
type MockRoundTripper struct {
	response *http.Response
	err      error
}

func NewMockRoundTripper(r *http.Response, e error) *MockRoundTripper {
	return &MockRoundTripper{response: r, err: e}
}

func (m *MockRoundTripper) RoundTrip(*http.Request) (*http.Response, error) {
	return m.response, m.err
}

// FCloser simulates a failure when reading response body
type FCloser struct{}

func (f *FCloser) Read(p []byte) (n int, err error) {
	return 0, errors.New("read failed")
}

func (f *FCloser) Close() error {
	return nil
}

func AssertFileExists(t *testing.T, path string) {
	t.Helper()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Errorf("File does not exist: %s", path)
	}
}

func MustReadFile(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read file %s: %v", path, err)
	}
	return string(content)
}

func MustWriteFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write file %s: %v", path, err)
	}
}
