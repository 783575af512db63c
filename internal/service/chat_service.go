package service

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"image/png"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/memesocial/mockchat/internal/codec"
	"github.com/memesocial/mockchat/internal/domain"
	"github.com/memesocial/mockchat/internal/render"
	"github.com/memesocial/mockchat/internal/repository"
)

var (
	ErrChatNotFound = errors.New("saved chat not found")
	ErrNotChatOwner = errors.New("only the chat owner can perform this action")
)

// Notifier pushes changes to the owner's other live sessions (tabs, devices).
type Notifier interface {
	NotifyChatSaved(ownerID uuid.UUID, chat *domain.SavedChat)
	NotifyChatDeleted(ownerID, chatID uuid.UUID)
	NotifyQuota(ownerID uuid.UUID, counts domain.QuotaCounts)
}

// ChatService is the persistence façade for saved chat models. Every
// operation is owner-scoped; it never returns another owner's data.
type ChatService struct {
	chatRepo repository.SavedChatRepository
	notifier Notifier
	log      *zap.Logger
}

func NewChatService(chatRepo repository.SavedChatRepository, log *zap.Logger) *ChatService {
	return &ChatService{chatRepo: chatRepo, log: log}
}

// SetNotifier sets the real-time notifier (optional dependency).
func (s *ChatService) SetNotifier(n Notifier) {
	s.notifier = n
}

type SaveChatInput struct {
	Name  string          `json:"name"`
	Model json.RawMessage `json:"model"`
}

// Save validates and persists a new chat model. The payload is decoded
// through the codec (rejecting malformed data) and re-encoded so storage only
// ever holds the normalized transport form.
func (s *ChatService) Save(ctx context.Context, ownerID uuid.UUID, input SaveChatInput) (*domain.SavedChat, error) {
	model, normalized, err := s.normalize(input.Model)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	chat := &domain.SavedChat{
		ID:        uuid.New(),
		OwnerID:   ownerID,
		Name:      input.Name,
		Platform:  model.Platform,
		Model:     normalized,
		Thumbnail: thumbnailPNG(model),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.chatRepo.Create(ctx, chat); err != nil {
		return nil, fmt.Errorf("creating saved chat: %w", err)
	}
	s.log.Info("chat saved", zap.String("chat_id", chat.ID.String()), zap.String("owner_id", ownerID.String()))
	if s.notifier != nil {
		s.notifier.NotifyChatSaved(ownerID, chat)
	}
	return chat, nil
}

// Update replaces the model and name of an existing saved chat.
func (s *ChatService) Update(ctx context.Context, ownerID, chatID uuid.UUID, input SaveChatInput) (*domain.SavedChat, error) {
	chat, err := s.getOwned(ctx, ownerID, chatID)
	if err != nil {
		return nil, err
	}
	model, normalized, err := s.normalize(input.Model)
	if err != nil {
		return nil, err
	}

	chat.Name = input.Name
	chat.Platform = model.Platform
	chat.Model = normalized
	chat.Thumbnail = thumbnailPNG(model)
	if err := s.chatRepo.Update(ctx, chat); err != nil {
		return nil, fmt.Errorf("updating saved chat: %w", err)
	}
	if s.notifier != nil {
		s.notifier.NotifyChatSaved(ownerID, chat)
	}
	return chat, nil
}

// Get returns one saved chat, owner-checked.
func (s *ChatService) Get(ctx context.Context, ownerID, chatID uuid.UUID) (*domain.SavedChat, error) {
	return s.getOwned(ctx, ownerID, chatID)
}

// List returns the owner's chats, most recently updated first.
func (s *ChatService) List(ctx context.Context, ownerID uuid.UUID) ([]domain.SavedChat, error) {
	return s.chatRepo.ListByOwner(ctx, ownerID)
}

// Delete removes a saved chat, owner-checked.
func (s *ChatService) Delete(ctx context.Context, ownerID, chatID uuid.UUID) error {
	if _, err := s.getOwned(ctx, ownerID, chatID); err != nil {
		return err
	}
	if err := s.chatRepo.Delete(ctx, chatID); err != nil {
		return fmt.Errorf("deleting saved chat: %w", err)
	}
	if s.notifier != nil {
		s.notifier.NotifyChatDeleted(ownerID, chatID)
	}
	return nil
}

// Count returns how many chats the owner has saved.
func (s *ChatService) Count(ctx context.Context, ownerID uuid.UUID) (int, error) {
	return s.chatRepo.CountByOwner(ctx, ownerID)
}

func (s *ChatService) getOwned(ctx context.Context, ownerID, chatID uuid.UUID) (*domain.SavedChat, error) {
	chat, err := s.chatRepo.GetByID(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if chat == nil {
		return nil, ErrChatNotFound
	}
	if chat.OwnerID != ownerID {
		return nil, ErrNotChatOwner
	}
	return chat, nil
}

func (s *ChatService) normalize(raw json.RawMessage) (*domain.ChatModel, json.RawMessage, error) {
	model, err := codec.DecodeJSON(raw)
	if err != nil {
		return nil, nil, err
	}
	normalized, err := codec.EncodeJSON(model)
	if err != nil {
		return nil, nil, fmt.Errorf("encoding chat model: %w", err)
	}
	return model, normalized, nil
}

// thumbnailPNG renders the chat at 1x and halves it for the list view. A
// thumbnail failure degrades to no thumbnail; it never blocks a save.
func thumbnailPNG(model *domain.ChatModel) []byte {
	surface := render.Compose(model, 1)
	small := render.Downscale(surface.Image, 2)
	var buf bytes.Buffer
	if err := png.Encode(&buf, small); err != nil {
		return nil
	}
	return buf.Bytes()
}
