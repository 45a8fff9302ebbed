package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/a4ad/notifier/pkg/notification"
	"github.com/a4ad/notifier/pkg/notifier"
)

// userIDHeader carries the acting user, set by the upstream gateway.
const userIDHeader = "X-User-ID"

const maxPageSize = 100

// NotificationService is the slice of the notifier service the API needs.
type NotificationService interface {
	Create(ctx context.Context, params notifier.SendParams) (notification.Notification, error)
	List(ctx context.Context, userID string, opts notification.ListOptions) ([]notification.Notification, error)
	UnreadCount(ctx context.Context, userID string) (int, error)
	MarkRead(ctx context.Context, userID, id string) error
	MarkAllRead(ctx context.Context, userID string) error
}

// Handlers serves the notification endpoints.
type Handlers struct {
	svc    NotificationService
	logger *slog.Logger
}

// NewHandlers creates the endpoint set.
func NewHandlers(svc NotificationService, logger *slog.Logger) *Handlers {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Handlers{svc: svc, logger: logger}
}

func userID(r *http.Request) string {
	return r.Header.Get(userIDHeader)
}

// List handles GET /notifications?page=&limit=&unreadOnly=&type=.
func (h *Handlers) List(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	q := r.URL.Query()

	page, _ := strconv.Atoi(q.Get("page"))
	if page < 1 {
		page = 1
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	if limit < 1 || limit > maxPageSize {
		limit = 20
	}

	opts := notification.ListOptions{
		Limit:      limit,
		Offset:     (page - 1) * limit,
		OnlyUnread: q.Get("unreadOnly") == "true",
		Type:       q.Get("type"),
	}

	items, err := h.svc.List(r.Context(), uid, opts)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "list notifications failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to list notifications")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"notifications": items,
		"page":          page,
		"limit":         limit,
	})
}

// UnreadCount handles GET /notifications/unread-count.
func (h *Handlers) UnreadCount(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	count, err := h.svc.UnreadCount(r.Context(), uid)
	if err != nil {
		h.logger.ErrorContext(r.Context(), "unread count failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to count unread notifications")
		return
	}

	writeJSON(w, http.StatusOK, map[string]int{"count": count})
}

// MarkRead handles POST /notifications/{id}/read.
func (h *Handlers) MarkRead(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	id := chi.URLParam(r, "id")
	if err := h.svc.MarkRead(r.Context(), uid, id); err != nil {
		if errors.Is(err, notification.ErrNotFound) {
			writeError(w, http.StatusNotFound, "notification not found")
			return
		}
		h.logger.ErrorContext(r.Context(), "mark read failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to mark notification read")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// MarkAllRead handles POST /notifications/read-all.
func (h *Handlers) MarkAllRead(w http.ResponseWriter, r *http.Request) {
	uid := userID(r)
	if uid == "" {
		writeError(w, http.StatusUnauthorized, "missing user identity")
		return
	}

	if err := h.svc.MarkAllRead(r.Context(), uid); err != nil {
		h.logger.ErrorContext(r.Context(), "mark all read failed", slog.Any("error", err))
		writeError(w, http.StatusInternalServerError, "failed to mark notifications read")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// createRequest is the POST /notifications body.
type createRequest struct {
	UserID         string                 `json:"userId"`
	Type           string                 `json:"type"`
	Template       string                 `json:"template,omitempty"`
	Channels       []notification.Channel `json:"channels"`
	Data           map[string]any         `json:"data,omitempty"`
	IdempotencyKey string                 `json:"idempotencyKey,omitempty"`
}

// Create handles POST /notifications. A rate-limit rejection surfaces as
// 409 Conflict to the caller.
func (h *Handlers) Create(w http.ResponseWriter, r *http.Request) {
	var req createRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	notif, err := h.svc.Create(r.Context(), notifier.SendParams{
		UserID:         req.UserID,
		Type:           req.Type,
		Template:       req.Template,
		Channels:       req.Channels,
		Data:           req.Data,
		IdempotencyKey: req.IdempotencyKey,
	})
	if err != nil {
		switch {
		case errors.Is(err, notifier.ErrRateLimited):
			writeError(w, http.StatusConflict, "rate limit exceeded")
		case errors.Is(err, notification.ErrUserRequired),
			errors.Is(err, notification.ErrTypeRequired),
			errors.Is(err, notification.ErrNoChannels),
			errors.Is(err, notification.ErrInvalidChannel):
			writeError(w, http.StatusBadRequest, err.Error())
		default:
			h.logger.ErrorContext(r.Context(), "create notification failed", slog.Any("error", err))
			writeError(w, http.StatusInternalServerError, "failed to create notification")
		}
		return
	}

	writeJSON(w, http.StatusCreated, notif)
}
