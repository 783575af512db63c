package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/memesocial/mockchat/internal/codec"
	"github.com/memesocial/mockchat/internal/domain"
	"github.com/memesocial/mockchat/internal/service"
	"github.com/memesocial/mockchat/internal/transport/http/middleware"
	"github.com/memesocial/mockchat/pkg/validator"
)

type ChatHandler struct {
	chatService *service.ChatService
	log         *zap.Logger
}

func NewChatHandler(chatService *service.ChatService, log *zap.Logger) *ChatHandler {
	return &ChatHandler{chatService: chatService, log: log}
}

func (h *ChatHandler) Create(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	var input service.SaveChatInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateSaveChat(input.Name, input.Model); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	chat, err := h.chatService.Save(r.Context(), user.ID, input)
	if err != nil {
		if errors.Is(err, codec.ErrMalformed) {
			writeError(w, http.StatusUnprocessableEntity, "MALFORMED_MODEL", "Chat model payload is malformed")
		} else {
			h.log.Error("create chat", zap.Error(err))
			writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		}
		return
	}

	writeJSON(w, http.StatusCreated, chat)
}

func (h *ChatHandler) List(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	chats, err := h.chatService.List(r.Context(), user.ID)
	if err != nil {
		h.log.Error("list chats", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	if chats == nil {
		chats = []domain.SavedChat{}
	}

	writeJSON(w, http.StatusOK, chats)
}

func (h *ChatHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	chatID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid chat ID")
		return
	}

	chat, err := h.chatService.Get(r.Context(), user.ID, chatID)
	if err != nil {
		h.writeChatError(w, err, "get chat")
		return
	}

	writeJSON(w, http.StatusOK, chat)
}

func (h *ChatHandler) Update(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	chatID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid chat ID")
		return
	}

	var input service.SaveChatInput
	if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return
	}

	if errs := validator.ValidateSaveChat(input.Name, input.Model); errs.HasErrors() {
		writeValidationErrors(w, errs)
		return
	}

	chat, err := h.chatService.Update(r.Context(), user.ID, chatID, input)
	if err != nil {
		if errors.Is(err, codec.ErrMalformed) {
			writeError(w, http.StatusUnprocessableEntity, "MALFORMED_MODEL", "Chat model payload is malformed")
			return
		}
		h.writeChatError(w, err, "update chat")
		return
	}

	writeJSON(w, http.StatusOK, chat)
}

func (h *ChatHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	chatID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_ID", "Invalid chat ID")
		return
	}

	if err := h.chatService.Delete(r.Context(), user.ID, chatID); err != nil {
		h.writeChatError(w, err, "delete chat")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *ChatHandler) writeChatError(w http.ResponseWriter, err error, op string) {
	switch {
	case errors.Is(err, service.ErrChatNotFound):
		writeError(w, http.StatusNotFound, "NOT_FOUND", "Saved chat not found")
	case errors.Is(err, service.ErrNotChatOwner):
		writeError(w, http.StatusForbidden, "FORBIDDEN", "You do not own this chat")
	default:
		h.log.Error(op, zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
	}
}

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code string, message string) {
	writeJSON(w, status, map[string]any{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

func writeValidationErrors(w http.ResponseWriter, errs validator.ValidationErrors) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"error": map[string]any{
			"code":   "VALIDATION_ERROR",
			"fields": errs,
		},
	})
}
