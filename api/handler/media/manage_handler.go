package media

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/engmhisham/utg-api/api/common"
	"github.com/engmhisham/utg-api/database/models"
	mediarepo "github.com/engmhisham/utg-api/database/repo/media"
	"github.com/engmhisham/utg-api/internal/media"
)

var sortColumns = map[string]bool{
	"created_at":    true,
	"size":          true,
	"original_name": true,
	"category":      true,
}

// UsageRequest 引用登记
type UsageRequest struct {
	ModuleType string `json:"moduleType" binding:"required,max=64"`
	ModuleID   string `json:"moduleId" binding:"required,max=64"`
	Field      string `json:"field" binding:"required,max=64"`
}

// RemoveByURLRequest 按 URL 删除
type RemoveByURLRequest struct {
	URL string `json:"url" binding:"required,max=2048"`
}

// SweepRequest 孤儿清理
type SweepRequest struct {
	MinAge string `json:"minAge"`
	DryRun bool   `json:"dryRun"`
}

// List 分页列出媒体
// @Summary      List media
// @Tags         media
// @Produce      json
// @Param        page       query  int     false  "Page"
// @Param        limit      query  int     false  "Page size (default 24)"
// @Param        category   query  string  false  "Category"
// @Param        tags       query  string  false  "Comma separated tags, any match"
// @Param        search     query  string  false  "Search name, alt, title"
// @Param        mimeType   query  string  false  "MIME prefix, e.g. image/"
// @Param        sortBy     query  string  false  "created_at, size, original_name, category"
// @Param        sortOrder  query  string  false  "asc or desc"
// @Success      200  {object}  common.Response
// @Security     BearerAuth
// @Router       /media [get]
func (h *Handler) List(c *gin.Context) {
	opts := common.ListOptions(c, defaultPageSize)
	if !sortColumns[opts.SortBy] {
		opts.SortBy = "created_at"
	}
	q := mediarepo.Query{
		ListOptions: opts,
		Category:    c.Query("category"),
		Search:      c.Query("search"),
		MimeType:    c.Query("mimeType"),
	}
	if tags := c.Query("tags"); tags != "" {
		q.Tags = splitTags(tags)
	}

	page, err := h.store.List(c.Request.Context(), q)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondSuccess(c, page)
}

// Get 媒体详情
// @Summary      Get media
// @Tags         media
// @Produce      json
// @Param        id  path  string  true  "Media ID"
// @Success      200  {object}  common.Response{data=models.Media}
// @Failure      404  {object}  common.Response  "Not found"
// @Security     BearerAuth
// @Router       /media/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	m, err := h.store.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondSuccess(c, m)
}

// Update 修改元数据
// @Summary      Update media metadata
// @Tags         media
// @Accept       json
// @Produce      json
// @Param        id       path  string       true  "Media ID"
// @Param        request  body  media.Patch  true  "Metadata patch"
// @Success      200  {object}  common.Response{data=models.Media}
// @Security     BearerAuth
// @Router       /media/{id} [patch]
func (h *Handler) Update(c *gin.Context) {
	var patch media.Patch
	if err := c.ShouldBindJSON(&patch); err != nil {
		common.RespondBindError(c, err)
		return
	}
	if patch.FocalPoint != nil {
		fp := patch.FocalPoint
		if fp.X < 0 || fp.X > 1 || fp.Y < 0 || fp.Y > 1 {
			common.RespondError(c, http.StatusBadRequest, "focal point must be two numbers between 0 and 1")
			return
		}
	}
	if patch.Tags != nil {
		tags := splitTags(strings.Join(*patch.Tags, ","))
		patch.Tags = &tags
	}

	m, err := h.store.Update(c.Request.Context(), c.Param("id"), patch)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondSuccess(c, m)
}

// AddUsage 手动登记引用
// @Summary      Add media usage
// @Tags         media
// @Accept       json
// @Param        id       path  string        true  "Media ID"
// @Param        request  body  UsageRequest  true  "Usage triple"
// @Success      200  {object}  common.Response{data=models.Media}
// @Security     BearerAuth
// @Router       /media/{id}/usage [post]
func (h *Handler) AddUsage(c *gin.Context) {
	h.changeUsage(c, h.store.AddUsage)
}

// RemoveUsage 手动移除引用
// @Summary      Remove media usage
// @Tags         media
// @Accept       json
// @Param        id       path  string        true  "Media ID"
// @Param        request  body  UsageRequest  true  "Usage triple"
// @Success      200  {object}  common.Response{data=models.Media}
// @Security     BearerAuth
// @Router       /media/{id}/usage [delete]
func (h *Handler) RemoveUsage(c *gin.Context) {
	h.changeUsage(c, h.store.RemoveUsage)
}

func (h *Handler) changeUsage(c *gin.Context, op func(ctx context.Context, id string, u models.MediaUsage) error) {
	var req UsageRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBindError(c, err)
		return
	}
	id := c.Param("id")
	u := models.MediaUsage{ModuleType: req.ModuleType, ModuleID: req.ModuleID, Field: req.Field}
	if err := op(c.Request.Context(), id, u); err != nil {
		common.HandleError(c, err)
		return
	}
	m, err := h.store.Get(c.Request.Context(), id)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondSuccess(c, m)
}

// Delete 删除未被引用的媒体
// @Summary      Delete media
// @Tags         media
// @Param        id  path  string  true  "Media ID"
// @Success      200  {object}  common.Response
// @Failure      404  {object}  common.Response  "Not found"
// @Failure      409  {object}  common.Response  "Media still in use"
// @Security     BearerAuth
// @Router       /media/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	if err := h.store.Remove(c.Request.Context(), c.Param("id")); err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondSuccessMessage(c, "Deleted", nil)
}

// DeleteByURL 按 URL 强制删除
// @Summary      Delete media by URL
// @Description  Removes the asset even when referenced; unknown URLs are a no-op
// @Tags         media
// @Accept       json
// @Param        request  body  RemoveByURLRequest  true  "Media URL"
// @Success      200  {object}  common.Response
// @Security     BearerAuth
// @Router       /media/remove-by-url [post]
func (h *Handler) DeleteByURL(c *gin.Context) {
	var req RemoveByURLRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBindError(c, err)
		return
	}
	if err := h.store.RemoveByURL(c.Request.Context(), req.URL); err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondSuccessMessage(c, "Deleted", nil)
}

// Sweep 清理无引用的旧媒体
// @Summary      Sweep orphan media
// @Tags         media
// @Accept       json
// @Produce      json
// @Param        request  body  SweepRequest  false  "minAge (Go duration, default 72h) and dryRun"
// @Success      200  {object}  common.Response{data=media.SweepResult}
// @Security     BearerAuth
// @Router       /media/sweep [post]
func (h *Handler) Sweep(c *gin.Context) {
	var req SweepRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			common.RespondBindError(c, err)
			return
		}
	}
	minAge := 72 * time.Hour
	if req.MinAge != "" {
		d, err := time.ParseDuration(req.MinAge)
		if err != nil || d < 0 {
			common.RespondBindError(c, fmt.Errorf("invalid minAge %q", req.MinAge))
			return
		}
		minAge = d
	}

	result, err := h.store.SweepOrphans(c.Request.Context(), minAge, req.DryRun)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondSuccess(c, result)
}
