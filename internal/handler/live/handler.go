package live

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	chatService "github.com/mapplock/mapplock-web/backend/internal/service/chat"
	"github.com/mapplock/mapplock-web/backend/internal/service/turn"
	"github.com/mapplock/mapplock-web/backend/pkg/utils"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 54 * time.Second
	writeTimeout = 10 * time.Second
)

// Handler WebSocket聊天处理器：接收用户输入并推送会话事件
type Handler struct {
	chatSvc  *chatService.Service
	upgrader websocket.Upgrader
}

// New 创建WebSocket处理器
func New(chatSvc *chatService.Service) *Handler {
	return &Handler{
		chatSvc: chatSvc,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes 注册WebSocket路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/{sessionID}", h.handleWebSocket)
}

type inboundMessage struct {
	Type      string          `json:"type"`
	SessionID string          `json:"sessionId"`
	Data      json.RawMessage `json:"data"`
}

// TextMessage 文本消息，快捷回复也以文本形式提交
type TextMessage struct {
	Text string `json:"text"`
}

type outgoingMessage struct {
	Type      string `json:"type"`
	SessionID string `json:"sessionId,omitempty"`
	Data      any    `json:"data,omitempty"`
	Timestamp int64  `json:"timestamp"`
}

// conn serialises writes; gorilla allows one concurrent writer.
type conn struct {
	mu sync.Mutex
	ws *websocket.Conn
}

func (c *conn) writeJSON(v any) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.ws.WriteJSON(v)
}

func (c *conn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.ws.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
}

// handleWebSocket 处理WebSocket连接
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")

	events, unsubscribe, err := h.chatSvc.Subscribe(r.Context(), sessionID)
	if err != nil {
		if errors.Is(err, chatService.ErrSessionNotFound) {
			utils.RespondError(w, http.StatusNotFound, err.Error())
			return
		}
		utils.RespondError(w, http.StatusInternalServerError, "subscribe failed")
		return
	}
	defer unsubscribe()

	ws, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Warn("WebSocket upgrade failed", "session", sessionID, "error", err)
		return
	}
	defer ws.Close()

	c := &conn{ws: ws}
	slog.Debug("WebSocket connected", "session", sessionID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	_ = ws.SetReadDeadline(time.Now().Add(readTimeout))
	ws.SetPongHandler(func(string) error {
		return ws.SetReadDeadline(time.Now().Add(readTimeout))
	})

	h.sendResult(c, sessionID, map[string]any{"type": "connected"})

	go h.pingLoop(ctx, c)
	go h.forward(ctx, cancel, c, sessionID, events)

	for {
		var msg inboundMessage
		if err := ws.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				slog.Debug("WebSocket read ended", "session", sessionID, "error", err)
			}
			return
		}

		if ctx.Err() != nil {
			return
		}

		_ = ws.SetReadDeadline(time.Now().Add(readTimeout))

		if msg.SessionID != "" && msg.SessionID != sessionID {
			h.sendError(c, "session mismatch")
			continue
		}

		h.handleMessage(ctx, c, sessionID, &msg)
	}
}

func (h *Handler) handleMessage(ctx context.Context, c *conn, sessionID string, msg *inboundMessage) {
	switch msg.Type {
	case "text":
		var text TextMessage
		if err := json.Unmarshal(msg.Data, &text); err != nil {
			h.sendError(c, "invalid text payload")
			return
		}

		accepted, err := h.chatSvc.Submit(ctx, sessionID, text.Text)
		if err != nil {
			h.sendError(c, err.Error())
			return
		}
		if !accepted {
			h.sendResult(c, sessionID, map[string]any{"type": "ignored"})
		}
	default:
		h.sendError(c, "unsupported message type: "+msg.Type)
	}
}

// forward relays session events; when the session ends the socket is closed.
func (h *Handler) forward(ctx context.Context, cancel context.CancelFunc, c *conn, sessionID string, events <-chan turn.Event) {
	defer cancel()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-events:
			if !ok || event.Type == turn.EventClosed {
				_ = c.writeJSON(outgoingMessage{
					Type:      string(turn.EventClosed),
					SessionID: sessionID,
					Timestamp: time.Now().Unix(),
				})
				c.mu.Lock()
				_ = c.ws.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, "session closed"),
					time.Now().Add(writeTimeout))
				c.mu.Unlock()
				return
			}
			if err := c.writeJSON(outgoingMessage{
				Type:      string(event.Type),
				SessionID: sessionID,
				Data:      event,
				Timestamp: time.Now().Unix(),
			}); err != nil {
				slog.Debug("WebSocket write failed", "session", sessionID, "error", err)
				return
			}
		}
	}
}

func (h *Handler) sendResult(c *conn, sessionID string, data map[string]any) {
	if err := c.writeJSON(outgoingMessage{
		Type:      "result",
		SessionID: sessionID,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}); err != nil {
		slog.Debug("WebSocket write result failed", "session", sessionID, "error", err)
	}
}

func (h *Handler) sendError(c *conn, message string) {
	if err := c.writeJSON(outgoingMessage{
		Type:      "error",
		Data:      map[string]string{"message": message},
		Timestamp: time.Now().Unix(),
	}); err != nil {
		slog.Debug("WebSocket write error failed", "error", err)
	}
}

// pingLoop 定期发送ping消息
func (h *Handler) pingLoop(ctx context.Context, c *conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.ping(); err != nil {
				return
			}
		}
	}
}
