// Package inbox 联系表单与邮件订阅接口
package inbox

import (
	"github.com/gin-gonic/gin"

	"github.com/engmhisham/utg-api/api/common"
	"github.com/engmhisham/utg-api/database/models"
	"github.com/engmhisham/utg-api/database/repo/base"
	svcInbox "github.com/engmhisham/utg-api/internal/inbox"
)

// Handler 收件箱处理器
type Handler struct {
	svc *svcInbox.Service
}

// NewHandler 创建收件箱处理器
func NewHandler(svc *svcInbox.Service) *Handler {
	return &Handler{svc: svc}
}

// MessageStatusRequest 消息状态
type MessageStatusRequest struct {
	Status models.MessageStatus `json:"status" binding:"required,oneof=new read archived"`
}

// UnsubscribeRequest 退订
type UnsubscribeRequest struct {
	Email string `json:"email" binding:"required,email"`
}

func query(c *gin.Context) svcInbox.Query {
	return svcInbox.Query{
		ListOptions: common.ListOptions(c, base.DefaultLimit),
		Status:      c.Query("status"),
		Search:      c.Query("search"),
	}
}

// Submit 提交联系表单
// @Summary      Submit contact message
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        request  body  svcInbox.ContactInput  true  "Message"
// @Success      201  {object}  common.Response
// @Failure      400  {object}  common.Response  "Invalid request"
// @Failure      429  {object}  common.Response  "Too many requests"
// @Router       /contact [post]
func (h *Handler) Submit(c *gin.Context) {
	var req svcInbox.ContactInput
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBindError(c, err)
		return
	}
	msg, err := h.svc.Submit(c.Request.Context(), req, c.ClientIP())
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondCreated(c, gin.H{"id": msg.ID})
}

// ListMessages 消息列表
// @Summary      List contact messages
// @Tags         contact
// @Produce      json
// @Param        status  query  string  false  "new, read, archived"
// @Param        search  query  string  false  "Search"
// @Success      200  {object}  common.Response
// @Security     BearerAuth
// @Router       /contact [get]
func (h *Handler) ListMessages(c *gin.Context) {
	page, err := h.svc.ListMessages(c.Request.Context(), query(c))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondSuccess(c, page)
}

// GetMessage 消息详情
// @Summary      Get contact message
// @Tags         contact
// @Produce      json
// @Param        id  path  string  true  "Message ID"
// @Success      200  {object}  common.Response{data=models.ContactMessage}
// @Security     BearerAuth
// @Router       /contact/{id} [get]
func (h *Handler) GetMessage(c *gin.Context) {
	msg, err := h.svc.GetMessage(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondSuccess(c, msg)
}

// SetMessageStatus 标记已读或归档
// @Summary      Change contact message status
// @Tags         contact
// @Accept       json
// @Produce      json
// @Param        id       path  string                true  "Message ID"
// @Param        request  body  MessageStatusRequest  true  "Status"
// @Success      200  {object}  common.Response{data=models.ContactMessage}
// @Security     BearerAuth
// @Router       /contact/{id}/status [patch]
func (h *Handler) SetMessageStatus(c *gin.Context) {
	var req MessageStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBindError(c, err)
		return
	}
	msg, err := h.svc.SetMessageStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondSuccess(c, msg)
}

// DeleteMessage 删除消息
// @Summary      Delete contact message
// @Tags         contact
// @Param        id  path  string  true  "Message ID"
// @Success      200  {object}  common.Response
// @Security     BearerAuth
// @Router       /contact/{id} [delete]
func (h *Handler) DeleteMessage(c *gin.Context) {
	if err := h.svc.DeleteMessage(c.Request.Context(), c.Param("id")); err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondSuccessMessage(c, "Deleted", nil)
}

// Subscribe 订阅
// @Summary      Subscribe to newsletter
// @Tags         subscriptions
// @Accept       json
// @Produce      json
// @Param        request  body  svcInbox.SubscribeInput  true  "Subscription"
// @Success      200  {object}  common.Response
// @Success      201  {object}  common.Response
// @Router       /subscriptions [post]
func (h *Handler) Subscribe(c *gin.Context) {
	var req svcInbox.SubscribeInput
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBindError(c, err)
		return
	}
	sub, created, err := h.svc.Subscribe(c.Request.Context(), req)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	if created {
		common.RespondCreated(c, sub)
		return
	}
	common.RespondSuccess(c, sub)
}

// Unsubscribe 退订
// @Summary      Unsubscribe from newsletter
// @Tags         subscriptions
// @Accept       json
// @Param        request  body  UnsubscribeRequest  true  "Email"
// @Success      200  {object}  common.Response
// @Router       /subscriptions/unsubscribe [post]
func (h *Handler) Unsubscribe(c *gin.Context) {
	var req UnsubscribeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		common.RespondBindError(c, err)
		return
	}
	if err := h.svc.Unsubscribe(c.Request.Context(), req.Email); err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondSuccessMessage(c, "Unsubscribed", nil)
}

// ListSubscriptions 订阅列表
// @Summary      List subscriptions
// @Tags         subscriptions
// @Produce      json
// @Success      200  {object}  common.Response
// @Security     BearerAuth
// @Router       /subscriptions [get]
func (h *Handler) ListSubscriptions(c *gin.Context) {
	page, err := h.svc.ListSubscriptions(c.Request.Context(), query(c))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondSuccess(c, page)
}

// DeleteSubscription 删除订阅
// @Summary      Delete subscription
// @Tags         subscriptions
// @Param        id  path  string  true  "Subscription ID"
// @Success      200  {object}  common.Response
// @Security     BearerAuth
// @Router       /subscriptions/{id} [delete]
func (h *Handler) DeleteSubscription(c *gin.Context) {
	if err := h.svc.DeleteSubscription(c.Request.Context(), c.Param("id")); err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondSuccessMessage(c, "Deleted", nil)
}
