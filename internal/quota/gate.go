// Package quota enforces the per-day export limits for unprivileged accounts.
package quota

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/memesocial/mockchat/internal/domain"
)

// ErrExceeded is the user-visible quota denial; recoverable tomorrow or by
// upgrading, never a crash.
var ErrExceeded = errors.New("daily export quota exceeded")

// Store is the quota counter storage. IncrementIfBelow must be atomic at the
// storage layer: read, limit check and increment in one step, so concurrent
// exports cannot both slip past a full limit. limit 0 means increment
// unconditionally.
type Store interface {
	GetCounts(ctx context.Context, userID uuid.UUID, day time.Time) (domain.QuotaCounts, error)
	IncrementIfBelow(ctx context.Context, userID uuid.UUID, day time.Time, kind domain.ExportKind, limit int) (domain.QuotaCounts, bool, error)
}

// Gate answers "may this user export now" and records completed exports.
// Days are UTC; counters reset implicitly when the date key rolls over.
type Gate struct {
	store  Store
	limits *LimitsCache
	now    func() time.Time
}

func NewGate(store Store, limits *LimitsCache) *Gate {
	return &Gate{store: store, limits: limits, now: time.Now}
}

// CanExport reports whether an export of the given kind is currently allowed.
// It never mutates stored counts, no matter how often it is called.
func (g *Gate) CanExport(ctx context.Context, user domain.User, kind domain.ExportKind) (bool, error) {
	if user.Privileged {
		return true, nil
	}
	limits, err := g.limits.Get(ctx)
	if err != nil {
		return false, err
	}
	limit := limits.ForKind(kind)
	if limit == 0 {
		return true, nil
	}
	counts, err := g.store.GetCounts(ctx, user.ID, domain.QuotaDay(g.now()))
	if err != nil {
		return false, err
	}
	return counts.ForKind(kind) < limit, nil
}

// RecordExport re-validates the limit and increments today's counter in one
// atomic storage operation. It returns false, without incrementing, when the
// re-check loses the race to a concurrent export.
func (g *Gate) RecordExport(ctx context.Context, user domain.User, kind domain.ExportKind) (bool, error) {
	limit := 0
	if !user.Privileged {
		limits, err := g.limits.Get(ctx)
		if err != nil {
			return false, err
		}
		limit = limits.ForKind(kind)
	}
	_, recorded, err := g.store.IncrementIfBelow(ctx, user.ID, domain.QuotaDay(g.now()), kind, limit)
	return recorded, err
}

// Usage returns today's counts and the effective limits, for the quota
// status endpoint.
func (g *Gate) Usage(ctx context.Context, user domain.User) (domain.QuotaCounts, domain.ExportLimits, error) {
	limits, err := g.limits.Get(ctx)
	if err != nil {
		return domain.QuotaCounts{}, domain.ExportLimits{}, err
	}
	if user.Privileged {
		limits = domain.ExportLimits{}
	}
	counts, err := g.store.GetCounts(ctx, user.ID, domain.QuotaDay(g.now()))
	if err != nil {
		return domain.QuotaCounts{}, domain.ExportLimits{}, err
	}
	return counts, limits, nil
}
