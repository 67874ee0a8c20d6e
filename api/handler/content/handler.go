// Package content 通用内容模块的 HTTP 处理器，品牌、客户、评价、团队、项目、FAQ、地点、分类共用
package content

import (
	"bytes"
	"encoding/json"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/engmhisham/utg-api/api/common"
	"github.com/engmhisham/utg-api/database/models"
	"github.com/engmhisham/utg-api/database/repo/base"
	svc "github.com/engmhisham/utg-api/internal/content"
)

// Handler 通用内容处理器
type Handler[T any] struct {
	svc *svc.Service[T]
}

// NewHandler 创建处理器
func NewHandler[T any](s *svc.Service[T]) *Handler[T] {
	return &Handler[T]{svc: s}
}

// StatusRequest 状态变更请求
type StatusRequest struct {
	Status models.Status `json:"status" binding:"required"`
}

// List 列表
// @Summary      List content entities
// @Description  Anonymous callers only see active/published entities
// @Tags         content
// @Produce      json
// @Param        module     path   string  true   "Module"  Enums(brands, clients, testimonials, team, projects, faqs, locations, categories)
// @Param        page       query  int     false  "Page"
// @Param        limit      query  int     false  "Page size"
// @Param        status     query  string  false  "Status filter (staff only)"
// @Param        search     query  string  false  "Search text"
// @Param        sortBy     query  string  false  "Sort column"
// @Param        sortOrder  query  string  false  "asc or desc"
// @Success      200  {object}  common.Response
// @Router       /{module} [get]
func (h *Handler[T]) List(c *gin.Context) {
	page, err := h.svc.List(c.Request.Context(), common.ContentQuery(c))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondSuccess(c, page)
}

// Get 详情
// @Summary      Get content entity
// @Tags         content
// @Produce      json
// @Param        module  path  string  true  "Module"
// @Param        id      path  string  true  "Entity ID"
// @Success      200  {object}  common.Response
// @Failure      404  {object}  common.Response  "Not found"
// @Router       /{module}/{id} [get]
func (h *Handler[T]) Get(c *gin.Context) {
	e, err := h.svc.Get(c.Request.Context(), c.Param("id"), !common.IsStaff(c))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondSuccess(c, e)
}

// GetBySlug 按 slug 获取
// @Summary      Get content entity by slug
// @Tags         content
// @Produce      json
// @Param        module  path  string  true  "Module"  Enums(blogs, locations, categories)
// @Param        slug    path  string  true  "Slug"
// @Success      200  {object}  common.Response
// @Failure      404  {object}  common.Response  "Not found"
// @Router       /{module}/slug/{slug} [get]
func (h *Handler[T]) GetBySlug(c *gin.Context) {
	e, err := h.svc.FindBy(c.Request.Context(), "slug", c.Param("slug"), !common.IsStaff(c))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondSuccess(c, e)
}

// Create 创建
// @Summary      Create content entity
// @Tags         content
// @Accept       json
// @Produce      json
// @Param        module  path  string  true  "Module"
// @Success      201  {object}  common.Response
// @Failure      400  {object}  common.Response  "Invalid request"
// @Failure      409  {object}  common.Response  "Conflict"
// @Security     BearerAuth
// @Router       /{module} [post]
func (h *Handler[T]) Create(c *gin.Context) {
	e := new(T)
	if err := c.ShouldBindJSON(e); err != nil {
		common.RespondBindError(c, err)
		return
	}
	if err := h.svc.Create(c.Request.Context(), e); err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondCreated(c, e)
}

// Update 部分更新，请求体中缺省的字段保持原值
// @Summary      Update content entity
// @Tags         content
// @Accept       json
// @Produce      json
// @Param        module  path  string  true  "Module"
// @Param        id      path  string  true  "Entity ID"
// @Success      200  {object}  common.Response
// @Failure      400  {object}  common.Response  "Invalid request"
// @Failure      404  {object}  common.Response  "Not found"
// @Security     BearerAuth
// @Router       /{module}/{id} [patch]
func (h *Handler[T]) Update(c *gin.Context) {
	body, ok := ReadObject(c)
	if !ok {
		return
	}
	e, err := h.svc.Update(c.Request.Context(), c.Param("id"), func(e *T) error {
		return json.Unmarshal(body, e)
	})
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondSuccess(c, e)
}

// UpdateStatus 修改状态
// @Summary      Change entity status
// @Tags         content
// @Accept       json
// @Produce      json
// @Param        module   path  string         true  "Module"
// @Param        id       path  string         true  "Entity ID"
// @Param        request  body  StatusRequest  true  "New status"
// @Success      200  {object}  common.Response
// @Security     BearerAuth
// @Router       /{module}/{id}/status [patch]
func (h *Handler[T]) UpdateStatus(c *gin.Context) {
	var req StatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBindError(c, err)
		return
	}
	e, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondSuccess(c, e)
}

// Delete 删除并释放媒体引用
// @Summary      Delete content entity
// @Tags         content
// @Param        module  path  string  true  "Module"
// @Param        id      path  string  true  "Entity ID"
// @Success      200  {object}  common.Response
// @Failure      404  {object}  common.Response  "Not found"
// @Security     BearerAuth
// @Router       /{module}/{id} [delete]
func (h *Handler[T]) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondSuccessMessage(c, "Deleted", nil)
}

// Reorder 批量调整显示顺序
// @Summary      Reorder entities
// @Tags         content
// @Accept       json
// @Param        module   path  string            true  "Module"
// @Param        request  body  []base.OrderItem  true  "New display order"
// @Success      200  {object}  common.Response
// @Security     BearerAuth
// @Router       /{module}/reorder [put]
func (h *Handler[T]) Reorder(c *gin.Context) {
	var items []base.OrderItem
	if err := c.ShouldBindJSON(&items); err != nil {
		common.RespondBindError(c, err)
		return
	}
	if err := h.svc.Reorder(c.Request.Context(), items); err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondSuccessMessage(c, "Reordered", nil)
}

// Bulk 批量删除或改状态
// @Summary      Bulk action
// @Tags         content
// @Accept       json
// @Produce      json
// @Param        module   path  string           true  "Module"
// @Param        request  body  svc.BulkRequest  true  "Bulk action"
// @Success      200  {object}  common.Response{data=svc.BulkResult}
// @Security     BearerAuth
// @Router       /{module}/bulk [post]
func (h *Handler[T]) Bulk(c *gin.Context) {
	var req svc.BulkRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBindError(c, err)
		return
	}
	result, err := h.svc.Bulk(c.Request.Context(), req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondSuccess(c, result)
}

// ReadObject 读取请求体并确认是 JSON 对象
func ReadObject(c *gin.Context) ([]byte, bool) {
	body, err := c.GetRawData()
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "Failed to read request body")
		return nil, false
	}
	body = bytes.TrimSpace(body)
	if len(body) == 0 || body[0] != '{' || !json.Valid(body) {
		common.RespondError(c, http.StatusBadRequest, "Request body must be a JSON object")
		return nil, false
	}
	return body, true
}
