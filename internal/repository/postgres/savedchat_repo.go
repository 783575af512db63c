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

type SavedChatRepo struct {
	pool *pgxpool.Pool
}

func NewSavedChatRepo(pool *pgxpool.Pool) *SavedChatRepo {
	return &SavedChatRepo{pool: pool}
}

func (r *SavedChatRepo) Create(ctx context.Context, chat *domain.SavedChat) error {
	query := `
		INSERT INTO saved_chats (id, owner_id, name, platform, model, thumbnail, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		chat.ID, chat.OwnerID, chat.Name, chat.Platform, chat.Model, chat.Thumbnail, chat.CreatedAt, chat.UpdatedAt,
	)
	return err
}

func (r *SavedChatRepo) Update(ctx context.Context, chat *domain.SavedChat) error {
	query := `
		UPDATE saved_chats
		SET name = $1, model = $2, thumbnail = $3, updated_at = $4
		WHERE id = $5`

	chat.UpdatedAt = time.Now()
	_, err := r.pool.Exec(ctx, query, chat.Name, chat.Model, chat.Thumbnail, chat.UpdatedAt, chat.ID)
	return err
}

func (r *SavedChatRepo) GetByID(ctx context.Context, id uuid.UUID) (*domain.SavedChat, error) {
	query := `
		SELECT id, owner_id, name, platform, model, thumbnail, created_at, updated_at
		FROM saved_chats WHERE id = $1`

	var chat domain.SavedChat
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&chat.ID, &chat.OwnerID, &chat.Name, &chat.Platform, &chat.Model, &chat.Thumbnail, &chat.CreatedAt, &chat.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &chat, nil
}

func (r *SavedChatRepo) ListByOwner(ctx context.Context, ownerID uuid.UUID) ([]domain.SavedChat, error) {
	query := `
		SELECT id, owner_id, name, platform, model, thumbnail, created_at, updated_at
		FROM saved_chats
		WHERE owner_id = $1
		ORDER BY updated_at DESC`

	rows, err := r.pool.Query(ctx, query, ownerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var chats []domain.SavedChat
	for rows.Next() {
		var chat domain.SavedChat
		if err := rows.Scan(
			&chat.ID, &chat.OwnerID, &chat.Name, &chat.Platform, &chat.Model, &chat.Thumbnail, &chat.CreatedAt, &chat.UpdatedAt,
		); err != nil {
			return nil, err
		}
		chats = append(chats, chat)
	}
	return chats, rows.Err()
}

func (r *SavedChatRepo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.pool.Exec(ctx, `DELETE FROM saved_chats WHERE id = $1`, id)
	return err
}

func (r *SavedChatRepo) CountByOwner(ctx context.Context, ownerID uuid.UUID) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM saved_chats WHERE owner_id = $1`, ownerID).Scan(&count)
	return count, err
}
