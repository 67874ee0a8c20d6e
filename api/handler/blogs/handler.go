// Package blogs 博客专有的处理器：按 slug 查询和分语言读写
package blogs

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/engmhisham/utg-api/api/common"
	"github.com/engmhisham/utg-api/database/models"
	svcBlogs "github.com/engmhisham/utg-api/internal/blogs"
)

// Handler 博客处理器
type Handler struct {
	svc *svcBlogs.Service
}

// NewHandler 创建博客处理器
func NewHandler(svc *svcBlogs.Service) *Handler {
	return &Handler{svc: svc}
}

// GetBySlug 按 slug 获取文章
// @Summary      Get blog by slug
// @Tags         blogs
// @Produce      json
// @Param        slug  path  string  true  "Blog slug"
// @Success      200  {object}  common.Response{data=models.Blog}
// @Failure      404  {object}  common.Response  "Not found"
// @Router       /blogs/slug/{slug} [get]
func (h *Handler) GetBySlug(c *gin.Context) {
	b, err := h.svc.GetBySlug(c.Request.Context(), c.Param("slug"), !common.IsStaff(c))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondSuccess(c, b)
}

// GetTranslation 读取单一语言
// @Summary      Get blog translation
// @Tags         blogs
// @Produce      json
// @Param        id    path  string  true  "Blog ID"
// @Param        lang  path  string  true  "Language"  Enums(en, ar)
// @Success      200  {object}  common.Response{data=svcBlogs.Translation}
// @Failure      404  {object}  common.Response  "Not found"
// @Router       /blogs/{id}/translations/{lang} [get]
func (h *Handler) GetTranslation(c *gin.Context) {
	lang, ok := parseLanguage(c)
	if !ok {
		return
	}
	t, err := h.svc.Translation(c.Request.Context(), c.Param("id"), lang, !common.IsStaff(c))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondSuccess(c, t)
}

// UpdateTranslation 只修改一种语言的标题、摘要和正文
// @Summary      Update blog translation
// @Tags         blogs
// @Accept       json
// @Produce      json
// @Param        id       path  string                     true  "Blog ID"
// @Param        lang     path  string                     true  "Language"  Enums(en, ar)
// @Param        request  body  svcBlogs.TranslationInput  true  "Translated fields"
// @Success      200  {object}  common.Response{data=models.Blog}
// @Security     BearerAuth
// @Router       /blogs/{id}/translations/{lang} [put]
func (h *Handler) UpdateTranslation(c *gin.Context) {
	lang, ok := parseLanguage(c)
	if !ok {
		return
	}
	var req svcBlogs.TranslationInput
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBindError(c, err)
		return
	}
	b, err := h.svc.UpdateTranslation(c.Request.Context(), c.Param("id"), lang, req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondSuccess(c, b)
}

func parseLanguage(c *gin.Context) (models.Language, bool) {
	lang, ok := models.ParseLanguage(c.Param("lang"))
	if !ok {
		common.RespondError(c, http.StatusBadRequest, "Unsupported language")
		return "", false
	}
	return lang, true
}
