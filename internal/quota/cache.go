package quota

import (
	"context"
	"sync"
	"time"

	"github.com/memesocial/mockchat/internal/domain"
)

// LimitsSource loads the configured export limits; backed by the settings
// repository in production.
type LimitsSource interface {
	GetExportLimits(ctx context.Context) (domain.ExportLimits, error)
}

// LimitsCache memoizes the limits for maxAge so the gate does not hit the
// settings store on every export. It is an owned, injectable object - one
// instance wired in main, not a package singleton.
type LimitsCache struct {
	src    LimitsSource
	maxAge time.Duration
	now    func() time.Time

	mu      sync.Mutex
	cached  domain.ExportLimits
	fetched time.Time
	valid   bool
}

const DefaultLimitsMaxAge = time.Minute

func NewLimitsCache(src LimitsSource, maxAge time.Duration) *LimitsCache {
	if maxAge <= 0 {
		maxAge = DefaultLimitsMaxAge
	}
	return &LimitsCache{src: src, maxAge: maxAge, now: time.Now}
}

// Get returns the cached limits, refreshing from the source when the cached
// value is older than maxAge. A failed refresh falls back to the previous
// value if one exists.
func (c *LimitsCache) Get(ctx context.Context) (domain.ExportLimits, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.valid && c.now().Sub(c.fetched) < c.maxAge {
		return c.cached, nil
	}
	limits, err := c.src.GetExportLimits(ctx)
	if err != nil {
		if c.valid {
			return c.cached, nil
		}
		return domain.ExportLimits{}, err
	}
	c.cached = limits
	c.fetched = c.now()
	c.valid = true
	return limits, nil
}

// Invalidate drops the cached value; the next Get refreshes.
func (c *LimitsCache) Invalidate() {
	c.mu.Lock()
	c.valid = false
	c.mu.Unlock()
}
