package repository

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/memesocial/mockchat/internal/domain"
)

type SavedChatRepository interface {
	Create(ctx context.Context, chat *domain.SavedChat) error
	Update(ctx context.Context, chat *domain.SavedChat) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.SavedChat, error)
	ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.SavedChat, error)
	Delete(ctx context.Context, id uuid.UUID) error
	CountByOwner(ctx context.Context, ownerID uuid.UUID) (int, error)
}

// QuotaRepository stores per-(user, day) export counters. IncrementIfBelow is
// a single conditional statement: it increments only while the kind's counter
// is below limit (limit 0 = unconditional) and reports whether it did.
type QuotaRepository interface {
	GetCounts(ctx context.Context, userID uuid.UUID, day time.Time) (domain.QuotaCounts, error)
	IncrementIfBelow(ctx context.Context, userID uuid.UUID, day time.Time, kind domain.ExportKind, limit int) (domain.QuotaCounts, bool, error)
}

// SettingsRepository reads the closed set of named app settings.
type SettingsRepository interface {
	GetExportLimits(ctx context.Context) (domain.ExportLimits, error)
}
