// Package common HTTP 响应封装、错误映射与查询参数绑定
package common

import (
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/engmhisham/utg-api/database/repo/base"
	"github.com/engmhisham/utg-api/internal/audit"
	"github.com/engmhisham/utg-api/internal/auth"
	"github.com/engmhisham/utg-api/internal/content"
	"github.com/engmhisham/utg-api/internal/media"
	"github.com/engmhisham/utg-api/internal/users"
	"github.com/engmhisham/utg-api/utils/logger"
	vd "github.com/engmhisham/utg-api/utils/validator"
)

type Response struct {
	Status string      `json:"status"`
	Msg    string      `json:"msg"`
	Data   interface{} `json:"data,omitempty"`
}

func Respond(c *gin.Context, httpStatus int, status string, message string, data interface{}) {
	c.JSON(httpStatus, Response{
		Status: status,
		Msg:    message,
		Data:   data,
	})
}

// RespondSuccess sends a success response with data.
func RespondSuccess(c *gin.Context, data interface{}) {
	Respond(c, http.StatusOK, "success", "", data)
}

// RespondSuccessMessage sends a success response with message and data.
func RespondSuccessMessage(c *gin.Context, message string, data interface{}) {
	Respond(c, http.StatusOK, "success", message, data)
}

// RespondCreated sends a 201 response with the created resource.
func RespondCreated(c *gin.Context, data interface{}) {
	Respond(c, http.StatusCreated, "success", "", data)
}

// RespondError sends an error response with message.
func RespondError(c *gin.Context, httpStatus int, message string) {
	Respond(c, httpStatus, "error", message, nil)
}

// RespondErrorAbort sends an error response and aborts the handler chain.
func RespondErrorAbort(c *gin.Context, httpStatus int, message string) {
	RespondError(c, httpStatus, message)
	c.Abort()
}

// RespondBindError 请求体或参数绑定失败
func RespondBindError(c *gin.Context, err error) {
	if fields := vd.Errors(err); fields != nil {
		Respond(c, http.StatusBadRequest, "error", "Validation failed", gin.H{"fields": fields})
		return
	}
	if errors.Is(err, io.EOF) {
		RespondError(c, http.StatusBadRequest, "Request body is required")
		return
	}
	RespondError(c, http.StatusBadRequest, "Invalid request: "+err.Error())
}

// HandleError 把服务层错误映射为 HTTP 状态
func HandleError(c *gin.Context, err error) {
	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		Respond(c, http.StatusBadRequest, "error", "Validation failed", gin.H{"fields": vd.Errors(verrs)})
	case errors.Is(err, content.ErrNotFound),
		errors.Is(err, media.ErrNotFound),
		errors.Is(err, users.ErrNotFound),
		errors.Is(err, audit.ErrNotFound):
		RespondError(c, http.StatusNotFound, "Resource not found")
	case errors.Is(err, media.ErrInUse):
		RespondError(c, http.StatusConflict, "Media is still referenced by content")
	case errors.Is(err, content.ErrConflict), errors.Is(err, users.ErrConflict):
		RespondError(c, http.StatusConflict, err.Error())
	case errors.Is(err, content.ErrInvalid),
		errors.Is(err, users.ErrInvalid),
		errors.Is(err, media.ErrUnsupportedType):
		RespondError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials),
		errors.Is(err, auth.ErrInvalidRefresh),
		errors.Is(err, auth.ErrInvalidToken):
		RespondError(c, http.StatusUnauthorized, err.Error())
	case errors.Is(err, auth.ErrInactiveUser), errors.Is(err, users.ErrDeleteSelf):
		RespondError(c, http.StatusForbidden, err.Error())
	default:
		logger.Get().Error().Err(err).
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Msg("request failed")
		RespondError(c, http.StatusInternalServerError, "Internal server error")
	}
}

// ListOptions 从查询串读取 page / limit / sortBy / sortOrder
func ListOptions(c *gin.Context, defaultLimit int) base.ListOptions {
	opts := base.ListOptions{
		Page:      queryInt(c, "page", 1),
		Limit:     queryInt(c, "limit", defaultLimit),
		SortBy:    c.Query("sortBy"),
		SortOrder: strings.ToLower(c.Query("sortOrder")),
	}
	return opts
}

// ContentQuery 内容列表查询
func ContentQuery(c *gin.Context) content.ListQuery {
	return content.ListQuery{
		ListOptions: ListOptions(c, base.DefaultLimit),
		Status:      c.Query("status"),
		Search:      c.Query("search"),
		Public:      !IsStaff(c),
	}
}

// IsStaff 请求是否来自已登录的后台用户
func IsStaff(c *gin.Context) bool {
	return audit.ActorFrom(c.Request.Context()).UserID != ""
}

func queryInt(c *gin.Context, key string, def int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return def
	}
	return v
}
