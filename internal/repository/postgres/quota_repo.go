package postgres

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/memesocial/mockchat/internal/domain"
)

type QuotaRepo struct {
	pool *pgxpool.Pool
}

func NewQuotaRepo(pool *pgxpool.Pool) *QuotaRepo {
	return &QuotaRepo{pool: pool}
}

func (r *QuotaRepo) GetCounts(ctx context.Context, userID uuid.UUID, day time.Time) (domain.QuotaCounts, error) {
	query := `SELECT image_count, video_count FROM export_quotas WHERE user_id = $1 AND day = $2`

	var counts domain.QuotaCounts
	err := r.pool.QueryRow(ctx, query, userID, day).Scan(&counts.Images, &counts.Videos)
	if errors.Is(err, pgx.ErrNoRows) {
		return domain.QuotaCounts{}, nil
	}
	return counts, err
}

// IncrementIfBelow does the read-check-increment in one statement so two
// concurrent exports can never both pass a full limit. The DO UPDATE guard
// only fires below the limit; a guarded-out update returns no row, which
// signals "not recorded".
func (r *QuotaRepo) IncrementIfBelow(ctx context.Context, userID uuid.UUID, day time.Time, kind domain.ExportKind, limit int) (domain.QuotaCounts, bool, error) {
	query := `
		INSERT INTO export_quotas (user_id, day, image_count, video_count)
		VALUES ($1, $2,
			CASE WHEN $3 = 'image' THEN 1 ELSE 0 END,
			CASE WHEN $3 = 'video' THEN 1 ELSE 0 END)
		ON CONFLICT (user_id, day) DO UPDATE SET
			image_count = export_quotas.image_count + CASE WHEN $3 = 'image' THEN 1 ELSE 0 END,
			video_count = export_quotas.video_count + CASE WHEN $3 = 'video' THEN 1 ELSE 0 END
		WHERE $4 = 0
			OR ($3 = 'image' AND export_quotas.image_count < $4)
			OR ($3 = 'video' AND export_quotas.video_count < $4)
		RETURNING image_count, video_count`

	var counts domain.QuotaCounts
	err := r.pool.QueryRow(ctx, query, userID, day, string(kind), limit).Scan(&counts.Images, &counts.Videos)
	if errors.Is(err, pgx.ErrNoRows) {
		// Update guard rejected the increment: already at the limit.
		counts, err := r.GetCounts(ctx, userID, day)
		return counts, false, err
	}
	if err != nil {
		return domain.QuotaCounts{}, false, err
	}
	return counts, true, nil
}
