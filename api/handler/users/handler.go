// Package users 后台用户管理接口，仅管理员可用
package users

import (
	"github.com/gin-gonic/gin"

	"github.com/engmhisham/utg-api/api/common"
	"github.com/engmhisham/utg-api/database/repo/base"
	svcUsers "github.com/engmhisham/utg-api/internal/users"
)

// Handler 用户处理器
type Handler struct {
	svc *svcUsers.Service
}

// NewHandler 创建用户处理器
func NewHandler(svc *svcUsers.Service) *Handler {
	return &Handler{svc: svc}
}

// List 用户列表
// @Summary      List users
// @Tags         users
// @Produce      json
// @Param        role    query  string  false  "admin or content_support"
// @Param        search  query  string  false  "Username or email"
// @Success      200  {object}  common.Response
// @Security     BearerAuth
// @Router       /users [get]
func (h *Handler) List(c *gin.Context) {
	page, err := h.svc.List(c.Request.Context(), svcUsers.Query{
		ListOptions: common.ListOptions(c, base.DefaultLimit),
		Role:        c.Query("role"),
		Search:      c.Query("search"),
	})
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondSuccess(c, page)
}

// Get 用户详情
// @Summary      Get user
// @Tags         users
// @Produce      json
// @Param        id  path  string  true  "User ID"
// @Success      200  {object}  common.Response{data=models.User}
// @Security     BearerAuth
// @Router       /users/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	u, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondSuccess(c, u)
}

// Create 创建用户
// @Summary      Create user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        request  body  svcUsers.CreateInput  true  "User"
// @Success      201  {object}  common.Response{data=models.User}
// @Failure      409  {object}  common.Response  "Username or email taken"
// @Security     BearerAuth
// @Router       /users [post]
func (h *Handler) Create(c *gin.Context) {
	var req svcUsers.CreateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBindError(c, err)
		return
	}
	u, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondCreated(c, u)
}

// Update 更新用户
// @Summary      Update user
// @Tags         users
// @Accept       json
// @Produce      json
// @Param        id       path  string                true  "User ID"
// @Param        request  body  svcUsers.UpdateInput  true  "Changes"
// @Success      200  {object}  common.Response{data=models.User}
// @Security     BearerAuth
// @Router       /users/{id} [patch]
func (h *Handler) Update(c *gin.Context) {
	var req svcUsers.UpdateInput
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBindError(c, err)
		return
	}
	u, err := h.svc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondSuccess(c, u)
}

// Delete 删除用户
// @Summary      Delete user
// @Tags         users
// @Param        id  path  string  true  "User ID"
// @Success      200  {object}  common.Response
// @Failure      403  {object}  common.Response  "Cannot delete yourself"
// @Security     BearerAuth
// @Router       /users/{id} [delete]
func (h *Handler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondSuccessMessage(c, "Deleted", nil)
}
