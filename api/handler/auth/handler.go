// Package auth 登录、刷新、登出接口
package auth

import (
	"github.com/gin-gonic/gin"

	"github.com/engmhisham/utg-api/api/common"
	svcAuth "github.com/engmhisham/utg-api/internal/auth"
)

// Handler 认证处理器
type Handler struct {
	svc *svcAuth.LoginService
}

// NewHandler 创建认证处理器
func NewHandler(svc *svcAuth.LoginService) *Handler {
	return &Handler{svc: svc}
}

// RefreshRequest 刷新或登出请求
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// LogoutRequest 登出请求，刷新令牌可选
type LogoutRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Login 邮箱密码登录
// @Summary      Login
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body  svcAuth.LoginInput  true  "Credentials"
// @Success      200  {object}  common.Response{data=svcAuth.LoginResult}
// @Failure      401  {object}  common.Response  "Invalid credentials"
// @Failure      403  {object}  common.Response  "User disabled"
// @Router       /auth/login [post]
func (h *Handler) Login(c *gin.Context) {
	var req svcAuth.LoginInput
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBindError(c, err)
		return
	}
	res, err := h.svc.Login(c.Request.Context(), req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondSuccess(c, res)
}

// Refresh 换发令牌
// @Summary      Refresh tokens
// @Tags         auth
// @Accept       json
// @Produce      json
// @Param        request  body  RefreshRequest  true  "Refresh token"
// @Success      200  {object}  common.Response{data=svcAuth.LoginResult}
// @Failure      401  {object}  common.Response  "Invalid refresh token"
// @Router       /auth/refresh [post]
func (h *Handler) Refresh(c *gin.Context) {
	var req RefreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBindError(c, err)
		return
	}
	res, err := h.svc.Refresh(c.Request.Context(), req.RefreshToken)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondSuccess(c, res)
}

// Logout 作废刷新令牌
// @Summary      Logout
// @Tags         auth
// @Accept       json
// @Param        request  body  LogoutRequest  false  "Refresh token"
// @Success      200  {object}  common.Response
// @Security     BearerAuth
// @Router       /auth/logout [post]
func (h *Handler) Logout(c *gin.Context) {
	var req LogoutRequest
	if c.Request.ContentLength > 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			common.RespondBindError(c, err)
			return
		}
	}
	if err := h.svc.Logout(c.Request.Context(), req.RefreshToken); err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondSuccessMessage(c, "Logged out", nil)
}

// Me 当前用户
// @Summary      Current user
// @Tags         auth
// @Produce      json
// @Success      200  {object}  common.Response{data=models.User}
// @Security     BearerAuth
// @Router       /auth/me [get]
func (h *Handler) Me(c *gin.Context) {
	u, err := h.svc.Me(c.Request.Context())
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondSuccess(c, u)
}
