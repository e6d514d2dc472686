package theme

import (
	"context"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/tickr/internal/cache"
	"github.com/desertthunder/tickr/internal/models"
	"github.com/desertthunder/tickr/internal/store"
	"github.com/sourcegraph/conc"
)

// CacheKey is the local cache key holding the last applied theme.
const CacheKey = "user-theme"

// Surface is the rendering side that reflects the active theme.
type Surface interface {
	SetTheme(models.Theme)
}

// SurfaceFunc adapts a function to [Surface].
type SurfaceFunc func(models.Theme)

func (f SurfaceFunc) SetTheme(t models.Theme) { f(t) }

// Controller holds the active theme and its initialization gate.
type Controller struct {
	mu          sync.Mutex
	active      models.Theme
	initialised bool

	cache    cache.KV
	store    store.Store
	surfaces []Surface
	logger   *log.Logger
	pending  conc.WaitGroup
}

// NewController creates a [Controller] with the default theme active and the gate closed.
//
// A nil store disables remote updates on [Controller.Toggle].
func NewController(kv cache.KV, st store.Store, logger *log.Logger, surfaces ...Surface) *Controller {
	if logger == nil {
		logger = log.Default()
	}
	return &Controller{
		active:   models.DefaultTheme,
		cache:    kv,
		store:    st,
		surfaces: surfaces,
		logger:   logger.With("component", "theme"),
	}
}

// Initialize resolves and applies the starting theme once. Later calls do nothing.
//
// Priority: a valid preferred theme, then a valid cached theme, then [models.DefaultTheme].
// Pass "" when there is no explicit preference.
func (c *Controller) Initialize(preferred models.Theme) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.initialised {
		return
	}

	resolved := models.DefaultTheme
	if preferred.Valid() {
		resolved = preferred
	} else if cached, ok := c.cached(); ok {
		resolved = cached
	}

	c.apply(resolved)
	c.initialised = true
	c.logger.Debug("theme initialised", "theme", resolved)
}

// Apply makes t the active theme, writes it to the cache and notifies every surface once.
// Invalid values are ignored.
func (c *Controller) Apply(t models.Theme) {
	if !t.Valid() {
		c.logger.Warn("ignoring invalid theme", "theme", t)
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.apply(t)
}

// Toggle applies the opposite of the active theme and returns it.
//
// When userID is non-empty the user's remote themePreference is updated in a
// detached goroutine. Toggle does not wait for it, cancelling ctx does not stop it,
// and its failure is only logged. Use [Controller.Wait] to join pending updates.
func (c *Controller) Toggle(ctx context.Context, userID string) models.Theme {
	c.mu.Lock()
	next := c.active.Opposite()
	c.apply(next)
	c.mu.Unlock()

	if userID != "" && c.store != nil {
		detached := context.WithoutCancel(ctx)
		c.pending.Go(func() {
			c.updateRemote(detached, userID, next)
		})
	}

	return next
}

// Current returns the active theme.
func (c *Controller) Current() models.Theme {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.active
}

// Initialised reports whether [Controller.Initialize] has run.
func (c *Controller) Initialised() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.initialised
}

// Wait blocks until all remote updates started by Toggle have finished.
// A panic inside an update is recovered and logged.
func (c *Controller) Wait() {
	if r := c.pending.WaitAndRecover(); r != nil {
		c.logger.Error("theme preference update panicked", "panic", r.Value)
	}
}

// apply must be called with mu held.
func (c *Controller) apply(t models.Theme) {
	c.active = t

	if c.cache != nil {
		if err := c.cache.Set(CacheKey, string(t)); err != nil {
			c.logger.Warn("failed to cache theme", "theme", t, "error", err)
		}
	}

	for _, s := range c.surfaces {
		s.SetTheme(t)
	}
}

func (c *Controller) cached() (models.Theme, bool) {
	if c.cache == nil {
		return "", false
	}
	v, ok := c.cache.Get(CacheKey)
	if !ok {
		return "", false
	}
	return models.ParseTheme(v)
}

func (c *Controller) updateRemote(ctx context.Context, userID string, t models.Theme) {
	if err := c.store.Update(ctx, userID, store.SetTheme(t)); err != nil {
		c.logger.Error("error updating theme preference", "user", userID, "theme", t, "error", err)
		return
	}
	c.logger.Debug("theme preference updated", "user", userID, "theme", t)
}
