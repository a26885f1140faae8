package widget

import (
	"net/http"

	"github.com/elliotchance/pie/v2"
	"github.com/go-chi/chi/v5"

	"github.com/mapplock/mapplock-web/backend/internal/model/widget"
	"github.com/mapplock/mapplock-web/backend/pkg/utils"
)

// Handler 挂件配置的HTTP处理器
type Handler struct {
	widgets widget.Store
}

// New 创建挂件处理器
func New(widgets widget.Store) *Handler {
	return &Handler{widgets: widgets}
}

// RegisterRoutes 注册挂件相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/widgets", h.handleListWidgets)
	r.Get("/widgets/{widgetID}", h.handleGetWidget)
}

// summary 是前端渲染挂件所需的公开字段，回复池不对外暴露
type summary struct {
	ID           string              `json:"id"`
	Name         string              `json:"name"`
	Kind         widget.Kind         `json:"kind"`
	QuickReplies []widget.QuickReply `json:"quickReplies"`
	FollowUps    bool                `json:"followUps"`
}

func summarize(w widget.Widget) summary {
	replies := w.QuickReplies
	if replies == nil {
		replies = []widget.QuickReply{}
	}
	return summary{
		ID:           w.ID,
		Name:         w.Name,
		Kind:         w.Kind,
		QuickReplies: replies,
		FollowUps:    w.HasFollowUps(),
	}
}

// handleListWidgets 列出所有挂件
func (h *Handler) handleListWidgets(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, pie.Map(h.widgets.List(), summarize))
}

func (h *Handler) handleGetWidget(w http.ResponseWriter, r *http.Request) {
	found, ok := h.widgets.FindByID(chi.URLParam(r, "widgetID"))
	if !ok {
		utils.RespondError(w, http.StatusNotFound, "widget not found")
		return
	}
	utils.RespondJSON(w, http.StatusOK, summarize(found))
}
