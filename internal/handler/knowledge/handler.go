package knowledge

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/mapplock/mapplock-web/backend/internal/knowledge"
	"github.com/mapplock/mapplock-web/backend/pkg/utils"
)

// Handler 知识库的HTTP处理器
type Handler struct {
	base *knowledge.Base
}

// New 创建知识库处理器
func New(base *knowledge.Base) *Handler {
	return &Handler{base: base}
}

// RegisterRoutes 注册知识库相关的路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/knowledge", h.handleSections)
	r.Get("/knowledge/{section}", h.handleSection)
}

type sectionResponse struct {
	Section string `json:"section"`
	Content string `json:"content"`
}

func (h *Handler) handleSections(w http.ResponseWriter, r *http.Request) {
	utils.RespondJSON(w, http.StatusOK, h.base.Sections())
}

// handleSection 未知章节返回空内容而不是 404
func (h *Handler) handleSection(w http.ResponseWriter, r *http.Request) {
	key := chi.URLParam(r, "section")
	utils.RespondJSON(w, http.StatusOK, sectionResponse{
		Section: key,
		Content: h.base.Section(key),
	})
}
