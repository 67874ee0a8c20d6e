package media

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/engmhisham/utg-api/api/common"
)

// Serve 通过存储提供者输出文件
// @Summary      Serve uploaded file
// @Tags         media
// @Produce      octet-stream
// @Param        path  path  string  true  "Stored path"
// @Success      200
// @Failure      404  {object}  common.Response  "Not found"
// @Router       /uploads/{path} [get]
func (h *Handler) Serve(c *gin.Context) {
	storagePath := strings.TrimPrefix(c.Param("path"), "/")
	rc, contentType, err := h.store.Open(c.Request.Context(), storagePath)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	defer rc.Close()

	// 文件名随机生成，内容不会在原路径上变化
	c.DataFromReader(http.StatusOK, -1, contentType, rc, map[string]string{
		"Cache-Control":          "public, max-age=31536000, immutable",
		"X-Content-Type-Options": "nosniff",
	})
}
