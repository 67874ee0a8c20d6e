// Package audit 审计日志查询接口
package audit

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/engmhisham/utg-api/api/common"
	"github.com/engmhisham/utg-api/database/repo/base"
	svcAudit "github.com/engmhisham/utg-api/internal/audit"
)

// Handler 审计处理器
type Handler struct {
	svc *svcAudit.Service
}

// NewHandler 创建审计处理器
func NewHandler(svc *svcAudit.Service) *Handler {
	return &Handler{svc: svc}
}

// List 审计日志列表
// @Summary      List audit logs
// @Tags         audit
// @Produce      json
// @Param        entity    query  string  false  "Entity name"
// @Param        entityId  query  string  false  "Entity ID"
// @Param        action    query  string  false  "create, update, delete, login, logout"
// @Param        userId    query  string  false  "Actor user ID"
// @Param        from      query  string  false  "RFC3339 lower bound"
// @Param        to        query  string  false  "RFC3339 upper bound"
// @Success      200  {object}  common.Response
// @Security     BearerAuth
// @Router       /audit-logs [get]
func (h *Handler) List(c *gin.Context) {
	q := svcAudit.Query{
		ListOptions: common.ListOptions(c, base.DefaultLimit),
		Entity:      c.Query("entity"),
		EntityID:    c.Query("entityId"),
		Action:      c.Query("action"),
		UserID:      c.Query("userId"),
	}
	var ok bool
	if q.From, ok = parseTime(c, "from"); !ok {
		return
	}
	if q.To, ok = parseTime(c, "to"); !ok {
		return
	}

	page, err := h.svc.List(c.Request.Context(), q)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondSuccess(c, page)
}

// Get 审计日志详情
// @Summary      Get audit log
// @Tags         audit
// @Produce      json
// @Param        id  path  string  true  "Audit log ID"
// @Success      200  {object}  common.Response{data=models.AuditLog}
// @Security     BearerAuth
// @Router       /audit-logs/{id} [get]
func (h *Handler) Get(c *gin.Context) {
	entry, err := h.svc.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondSuccess(c, entry)
}

func parseTime(c *gin.Context, key string) (*time.Time, bool) {
	raw := c.Query(key)
	if raw == "" {
		return nil, true
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "Invalid "+key+" timestamp, expected RFC3339")
		return nil, false
	}
	return &t, true
}
