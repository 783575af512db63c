package ws

import (
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/memesocial/mockchat/internal/domain"
)

// HubNotifier pushes session-sync events to a user's other open tabs.
// It implements service.Notifier.
type HubNotifier struct {
	hub *Hub
	log *zap.Logger
}

func NewHubNotifier(hub *Hub, log *zap.Logger) *HubNotifier {
	return &HubNotifier{hub: hub, log: log}
}

func (n *HubNotifier) NotifyChatSaved(ownerID uuid.UUID, chat *domain.SavedChat) {
	n.push(ownerID, EventTypeChatSaved, ChatSavedPayload{
		ID:        chat.ID,
		Name:      chat.Name,
		Platform:  chat.Platform,
		UpdatedAt: chat.UpdatedAt,
	})
}

func (n *HubNotifier) NotifyChatDeleted(ownerID, chatID uuid.UUID) {
	n.push(ownerID, EventTypeChatDeleted, ChatDeletedPayload{ID: chatID})
}

func (n *HubNotifier) NotifyQuota(ownerID uuid.UUID, counts domain.QuotaCounts) {
	n.push(ownerID, EventTypeQuotaUpdated, QuotaPayload{Counts: counts})
}

func (n *HubNotifier) push(userID uuid.UUID, eventType string, payload any) {
	event, err := NewEvent(eventType, payload)
	if err != nil {
		n.log.Warn("ws notifier: build event", zap.Error(err))
		return
	}
	n.hub.BroadcastToUser(userID, event)
}
