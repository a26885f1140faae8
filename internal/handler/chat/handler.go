package chat

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mapplock/mapplock-web/backend/internal/model/chat"
	chatService "github.com/mapplock/mapplock-web/backend/internal/service/chat"
	"github.com/mapplock/mapplock-web/backend/pkg/utils"
)

// Handler 聊天会话的HTTP处理器
type Handler struct {
	chatSvc *chatService.Service
}

// New 创建聊天处理器
func New(chatSvc *chatService.Service) *Handler {
	return &Handler{chatSvc: chatSvc}
}

// RegisterRoutes 注册聊天相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Post("/session", h.handleCreateSession)
	r.Get("/session/{sessionID}", h.handleGetSession)
	r.Delete("/session/{sessionID}", h.handleCloseSession)
	r.Get("/session/{sessionID}/messages", h.handleTranscript)
	r.Get("/session/{sessionID}/context", h.handleContext)
	r.Post("/messages", h.handleSubmitMessage)
}

type createSessionRequest struct {
	WidgetID string `json:"widgetId"`
}

type submitMessageRequest struct {
	SessionID string `json:"sessionId"`
	Content   string `json:"content"`
}

type transcriptResponse struct {
	SessionID string         `json:"sessionId"`
	Messages  []chat.Message `json:"messages"`
}

// handleCreateSession 创建会话并安排欢迎语
func (h *Handler) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	var payload createSessionRequest
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	session, err := h.chatSvc.CreateSession(r.Context(), payload.WidgetID)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	utils.RespondJSON(w, http.StatusCreated, session)
}

func (h *Handler) handleGetSession(w http.ResponseWriter, r *http.Request) {
	status, err := h.chatSvc.Status(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, status)
}

// handleCloseSession 结束会话，取消所有待执行的回复
func (h *Handler) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	if err := h.chatSvc.CloseSession(r.Context(), chi.URLParam(r, "sessionID")); err != nil {
		respondServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleTranscript(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	messages, err := h.chatSvc.LoadTranscript(r.Context(), sessionID)
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, transcriptResponse{SessionID: sessionID, Messages: messages})
}

func (h *Handler) handleContext(w http.ResponseWriter, r *http.Request) {
	snapshot, err := h.chatSvc.Context(r.Context(), chi.URLParam(r, "sessionID"))
	if err != nil {
		respondServiceError(w, err)
		return
	}
	utils.RespondJSON(w, http.StatusOK, snapshot)
}

// handleSubmitMessage 提交用户消息，回复会异步出现在会话记录中
func (h *Handler) handleSubmitMessage(w http.ResponseWriter, r *http.Request) {
	var payload submitMessageRequest
	if err := utils.DecodeJSON(r, &payload); err != nil {
		utils.RespondError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if payload.SessionID == "" {
		utils.RespondError(w, http.StatusBadRequest, "sessionId is required")
		return
	}

	accepted, err := h.chatSvc.Submit(r.Context(), payload.SessionID, payload.Content)
	if err != nil {
		respondServiceError(w, err)
		return
	}

	if !accepted {
		// 空白消息静默忽略
		w.WriteHeader(http.StatusNoContent)
		return
	}

	utils.RespondJSON(w, http.StatusAccepted, map[string]string{"status": "queued"})
}

func respondServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, chatService.ErrSessionNotFound):
		utils.RespondError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, chatService.ErrWidgetRequired), errors.Is(err, chatService.ErrWidgetNotFound):
		utils.RespondError(w, http.StatusBadRequest, err.Error())
	default:
		slog.Error("chat request failed", "error", err)
		utils.RespondError(w, http.StatusInternalServerError, "internal error")
	}
}
