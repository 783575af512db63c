package handlers

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"go.uber.org/zap"

	"github.com/memesocial/mockchat/internal/codec"
	"github.com/memesocial/mockchat/internal/domain"
	"github.com/memesocial/mockchat/internal/export"
	"github.com/memesocial/mockchat/internal/quota"
	"github.com/memesocial/mockchat/internal/service"
	"github.com/memesocial/mockchat/internal/transport/http/middleware"
)

type ExportHandler struct {
	engine   *export.Engine
	gate     *quota.Gate
	notifier service.Notifier
	log      *zap.Logger
}

func NewExportHandler(engine *export.Engine, gate *quota.Gate, log *zap.Logger) *ExportHandler {
	return &ExportHandler{engine: engine, gate: gate, log: log}
}

// SetNotifier sets the real-time notifier (optional dependency).
func (h *ExportHandler) SetNotifier(n service.Notifier) {
	h.notifier = n
}

type exportRequest struct {
	Model   json.RawMessage `json:"model"`
	Options export.Options  `json:"options"`
	Scales  []int           `json:"scales,omitempty"` // bundle only
}

// Download streams the encoded asset as a file attachment.
func (h *ExportHandler) Download(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	req, model, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	asset, err := h.engine.Download(r.Context(), user, model, req.Options)
	if err != nil {
		h.writeExportError(w, err)
		return
	}
	h.notifyQuota(r, user)

	w.Header().Set("Content-Type", asset.MIME)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", asset.Filename))
	w.WriteHeader(http.StatusOK)
	w.Write(asset.Data)
}

// Copy returns clipboard-ready PNG data in a JSON envelope with a success
// flag, mirroring the client clipboard API shape.
func (h *ExportHandler) Copy(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	req, model, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	asset, err := h.engine.Copy(r.Context(), user, model, req.Options)
	if err != nil {
		h.writeExportError(w, err)
		return
	}
	h.notifyQuota(r, user)

	writeJSON(w, http.StatusOK, map[string]any{
		"copied": true,
		"mime":   asset.MIME,
		"data":   base64.StdEncoding.EncodeToString(asset.Data),
	})
}

// Bundle zips the chat at several scales in one download.
func (h *ExportHandler) Bundle(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())
	req, model, ok := h.decodeRequest(w, r)
	if !ok {
		return
	}

	asset, err := h.engine.Bundle(r.Context(), user, model, req.Options, req.Scales)
	if err != nil {
		h.writeExportError(w, err)
		return
	}
	h.notifyQuota(r, user)

	w.Header().Set("Content-Type", asset.MIME)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", asset.Filename))
	w.WriteHeader(http.StatusOK)
	w.Write(asset.Data)
}

// Quota reports today's usage and limits so the client can show the
// remaining exports (and an upgrade prompt when exhausted).
func (h *ExportHandler) Quota(w http.ResponseWriter, r *http.Request) {
	user := middleware.GetUser(r.Context())

	counts, limits, err := h.gate.Usage(r.Context(), user)
	if err != nil {
		h.log.Error("quota usage", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"counts": counts,
		"limits": limits,
	})
}

func (h *ExportHandler) decodeRequest(w http.ResponseWriter, r *http.Request) (*exportRequest, *domain.ChatModel, bool) {
	var req exportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid request body")
		return nil, nil, false
	}
	model, err := codec.DecodeJSON(req.Model)
	if err != nil {
		writeError(w, http.StatusUnprocessableEntity, "MALFORMED_MODEL", "Chat model payload is malformed")
		return nil, nil, false
	}
	return &req, model, true
}

// writeExportError distinguishes quota denials from hard failures so the
// client can show an upgrade prompt for the former.
func (h *ExportHandler) writeExportError(w http.ResponseWriter, err error) {
	var encErr *export.EncodingError
	switch {
	case errors.Is(err, quota.ErrExceeded):
		writeError(w, http.StatusTooManyRequests, "QUOTA_EXCEEDED", "Daily export limit reached")
	case errors.Is(err, export.ErrUnsupportedFormat):
		writeError(w, http.StatusBadRequest, "UNSUPPORTED_FORMAT", err.Error())
	case errors.As(err, &encErr):
		writeError(w, http.StatusInternalServerError, "EXPORT_FAILED", "Export failed, please try again")
	default:
		h.log.Error("export", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "INTERNAL", "Something went wrong")
	}
}

func (h *ExportHandler) notifyQuota(r *http.Request, user domain.User) {
	if h.notifier == nil {
		return
	}
	counts, _, err := h.gate.Usage(r.Context(), user)
	if err != nil {
		return
	}
	h.notifier.NotifyQuota(user.ID, counts)
}
