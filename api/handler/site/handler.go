// Package site 站点设置与 SEO 接口
package site

import (
	"encoding/json"

	"github.com/gin-gonic/gin"

	"github.com/engmhisham/utg-api/api/common"
	"github.com/engmhisham/utg-api/api/handler/content"
	"github.com/engmhisham/utg-api/database/models"
	svcSite "github.com/engmhisham/utg-api/internal/site"
)

// Handler 站点处理器
type Handler struct {
	svc *svcSite.Service
}

// NewHandler 创建站点处理器
func NewHandler(svc *svcSite.Service) *Handler {
	return &Handler{svc: svc}
}

// Settings 全部设置
// @Summary      List site settings
// @Tags         site
// @Produce      json
// @Success      200  {object}  common.Response
// @Router       /settings [get]
func (h *Handler) Settings(c *gin.Context) {
	all, err := h.svc.Settings(c.Request.Context())
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondSuccess(c, all)
}

// Setting 单个设置
// @Summary      Get site setting
// @Tags         site
// @Produce      json
// @Param        key  path  string  true  "Setting key"
// @Success      200  {object}  common.Response{data=models.Setting}
// @Failure      404  {object}  common.Response  "Not found"
// @Router       /settings/{key} [get]
func (h *Handler) Setting(c *gin.Context) {
	item, err := h.svc.Setting(c.Request.Context(), c.Param("key"))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondSuccess(c, item)
}

// UpsertSettings 批量写入
// @Summary      Upsert site settings
// @Tags         site
// @Accept       json
// @Produce      json
// @Param        request  body  []svcSite.SettingInput  true  "Settings"
// @Success      200  {object}  common.Response
// @Security     BearerAuth
// @Router       /settings [put]
func (h *Handler) UpsertSettings(c *gin.Context) {
	var req []svcSite.SettingInput
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBindError(c, err)
		return
	}
	items, err := h.svc.UpsertSettings(c.Request.Context(), req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondSuccess(c, items)
}

// DeleteSetting 删除设置
// @Summary      Delete site setting
// @Tags         site
// @Param        key  path  string  true  "Setting key"
// @Success      200  {object}  common.Response
// @Security     BearerAuth
// @Router       /settings/{key} [delete]
func (h *Handler) DeleteSetting(c *gin.Context) {
	if err := h.svc.DeleteSetting(c.Request.Context(), c.Param("key")); err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondSuccessMessage(c, "Deleted", nil)
}

// SEOGeneral 全站 SEO
// @Summary      Get general SEO
// @Tags         seo
// @Produce      json
// @Success      200  {object}  common.Response{data=models.SEOGeneral}
// @Router       /seo/general [get]
func (h *Handler) SEOGeneral(c *gin.Context) {
	row, err := h.svc.SEOGeneral(c.Request.Context())
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondSuccess(c, row)
}

// UpdateSEOGeneral 合并更新全站 SEO
// @Summary      Update general SEO
// @Tags         seo
// @Accept       json
// @Produce      json
// @Success      200  {object}  common.Response{data=models.SEOGeneral}
// @Security     BearerAuth
// @Router       /seo/general [put]
func (h *Handler) UpdateSEOGeneral(c *gin.Context) {
	body, ok := content.ReadObject(c)
	if !ok {
		return
	}
	row, err := h.svc.UpdateSEOGeneral(c.Request.Context(), func(s *models.SEOGeneral) error {
		return json.Unmarshal(body, s)
	})
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondSuccess(c, row)
}

// PageSEO 按页面键读取
// @Summary      Get page SEO
// @Tags         seo
// @Produce      json
// @Param        page  path  string  true  "Page key"
// @Success      200  {object}  common.Response{data=models.PageSEO}
// @Failure      404  {object}  common.Response  "Not found"
// @Router       /seo/pages/{page} [get]
func (h *Handler) PageSEO(c *gin.Context) {
	p, err := h.svc.PageSEO(c.Request.Context(), c.Param("page"))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondSuccess(c, p)
}

// ListPages 页面 SEO 列表
// @Summary      List page SEO entries
// @Tags         seo
// @Produce      json
// @Success      200  {object}  common.Response
// @Security     BearerAuth
// @Router       /seo/pages [get]
func (h *Handler) ListPages(c *gin.Context) {
	q := common.ContentQuery(c)
	q.Public = false
	page, err := h.svc.ListPages(c.Request.Context(), q)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondSuccess(c, page)
}

// CreatePage 创建页面 SEO
// @Summary      Create page SEO
// @Tags         seo
// @Accept       json
// @Produce      json
// @Param        request  body  models.PageSEO  true  "Page SEO"
// @Success      201  {object}  common.Response{data=models.PageSEO}
// @Security     BearerAuth
// @Router       /seo/pages [post]
func (h *Handler) CreatePage(c *gin.Context) {
	var p models.PageSEO
	if err := c.ShouldBindJSON(&p); err != nil {
		common.RespondBindError(c, err)
		return
	}
	if err := h.svc.CreatePage(c.Request.Context(), &p); err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondCreated(c, p)
}

// UpdatePage 合并更新页面 SEO
// @Summary      Update page SEO
// @Tags         seo
// @Accept       json
// @Produce      json
// @Param        id  path  string  true  "Page SEO ID"
// @Success      200  {object}  common.Response{data=models.PageSEO}
// @Security     BearerAuth
// @Router       /seo/pages/{id} [patch]
func (h *Handler) UpdatePage(c *gin.Context) {
	body, ok := content.ReadObject(c)
	if !ok {
		return
	}
	p, err := h.svc.UpdatePage(c.Request.Context(), c.Param("id"), func(p *models.PageSEO) error {
		return json.Unmarshal(body, p)
	})
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondSuccess(c, p)
}

// DeletePage 删除页面 SEO
// @Summary      Delete page SEO
// @Tags         seo
// @Param        id  path  string  true  "Page SEO ID"
// @Success      200  {object}  common.Response
// @Security     BearerAuth
// @Router       /seo/pages/{id} [delete]
func (h *Handler) DeletePage(c *gin.Context) {
	if err := h.svc.DeletePage(c.Request.Context(), c.Param("id")); err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondSuccessMessage(c, "Deleted", nil)
}
