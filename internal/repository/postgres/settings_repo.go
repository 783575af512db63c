package postgres

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/memesocial/mockchat/internal/domain"
)

// Setting keys form a closed set; unknown keys are never read or written.
const (
	settingImageLimit = "export.image_limit"
	settingVideoLimit = "export.video_limit"
)

type SettingsRepo struct {
	pool *pgxpool.Pool
}

func NewSettingsRepo(pool *pgxpool.Pool) *SettingsRepo {
	return &SettingsRepo{pool: pool}
}

// GetExportLimits reads the configured daily caps. Rows are seeded by
// migration; a missing row falls back to that same default.
func (r *SettingsRepo) GetExportLimits(ctx context.Context) (domain.ExportLimits, error) {
	query := `SELECT key, value FROM app_settings WHERE key = ANY($1)`

	rows, err := r.pool.Query(ctx, query, []string{settingImageLimit, settingVideoLimit})
	if err != nil {
		return domain.ExportLimits{}, err
	}
	defer rows.Close()

	limits := domain.ExportLimits{ImageLimit: 5, VideoLimit: 1}
	for rows.Next() {
		var key string
		var value int
		if err := rows.Scan(&key, &value); err != nil {
			return domain.ExportLimits{}, err
		}
		switch key {
		case settingImageLimit:
			limits.ImageLimit = value
		case settingVideoLimit:
			limits.VideoLimit = value
		}
	}
	return limits, rows.Err()
}
