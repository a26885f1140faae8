package stream

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/mapplock/mapplock-web/backend/internal/model/chat"
	chatService "github.com/mapplock/mapplock-web/backend/internal/service/chat"
	"github.com/mapplock/mapplock-web/backend/internal/service/turn"
	"github.com/mapplock/mapplock-web/backend/pkg/utils"
)

const defaultHeartbeat = 15 * time.Second

// Handler pushes session events to the widget via Server-Sent Events.
type Handler struct {
	chatSvc   *chatService.Service
	heartbeat time.Duration
}

// New creates a new stream handler
func New(chatSvc *chatService.Service) *Handler {
	return &Handler{chatSvc: chatSvc, heartbeat: defaultHeartbeat}
}

// RegisterRoutes 注册SSE路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/stream/{sessionID}", h.handleStream)
}

type transcriptEvent struct {
	SessionID string         `json:"sessionId"`
	Messages  []chat.Message `json:"messages"`
	State     turn.State     `json:"state"`
	Typing    bool           `json:"typing"`
}

// handleStream replays the transcript, then forwards live events until the client
// disconnects or the session ends.
func (h *Handler) handleStream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	sessionID := chi.URLParam(r, "sessionID")

	flusher, ok := w.(http.Flusher)
	if !ok {
		utils.RespondError(w, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	events, cancel, err := h.chatSvc.Subscribe(ctx, sessionID)
	if err != nil {
		if errors.Is(err, chatService.ErrSessionNotFound) {
			utils.RespondError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "subscribe failed")
		return
	}
	defer cancel()

	// Subscribing first means nothing published between the snapshot and the
	// live loop is lost; a message may at worst arrive twice.
	status, err := h.chatSvc.Status(ctx, sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}
	messages, err := h.chatSvc.LoadTranscript(ctx, sessionID)
	if err != nil {
		utils.RespondError(w, http.StatusNotFound, err.Error())
		return
	}

	utils.SetupSSEHeaders(w)
	w.WriteHeader(http.StatusOK)

	slog.Debug("SSE stream opened", "session", sessionID)
	defer slog.Debug("SSE stream closed", "session", sessionID)

	if err := utils.SendSSEEvent(w, flusher, "transcript", transcriptEvent{
		SessionID: sessionID,
		Messages:  messages,
		State:     status.State,
		Typing:    status.Typing,
	}); err != nil {
		return
	}

	ticker := time.NewTicker(h.heartbeat)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := utils.SendSSEComment(w, flusher, "heartbeat"); err != nil {
				return
			}
		case event, ok := <-events:
			if !ok {
				_ = utils.SendSSEEvent(w, flusher, string(turn.EventClosed), turn.Event{
					Type:      turn.EventClosed,
					SessionID: sessionID,
				})
				return
			}
			if err := utils.SendSSEEvent(w, flusher, string(event.Type), event); err != nil {
				return
			}
			if event.Type == turn.EventClosed {
				return
			}
		}
	}
}
