package media

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/engmhisham/utg-api/api/common"
	"github.com/engmhisham/utg-api/database/models"
	"github.com/engmhisham/utg-api/internal/media"
	"github.com/engmhisham/utg-api/utils"
	"github.com/engmhisham/utg-api/utils/logger"
)

// Upload 上传单个文件并写入媒体库
// @Summary      Upload media
// @Description  Multipart upload; metadata fields are optional
// @Tags         media
// @Accept       multipart/form-data
// @Produce      json
// @Param        file            formData  file    true   "File"
// @Param        category        formData  string  false  "Category folder"
// @Param        alt_en          formData  string  false  "Alt text (en)"
// @Param        alt_ar          formData  string  false  "Alt text (ar)"
// @Param        title_en        formData  string  false  "Title (en)"
// @Param        title_ar        formData  string  false  "Title (ar)"
// @Param        caption_en      formData  string  false  "Caption (en)"
// @Param        caption_ar      formData  string  false  "Caption (ar)"
// @Param        description_en  formData  string  false  "Description (en)"
// @Param        description_ar  formData  string  false  "Description (ar)"
// @Param        credits         formData  string  false  "Credits"
// @Param        license         formData  string  false  "License"
// @Param        tags            formData  string  false  "Comma separated tags"
// @Param        focalX          formData  number  false  "Focal point x (0..1)"
// @Param        focalY          formData  number  false  "Focal point y (0..1)"
// @Success      201  {object}  common.Response{data=models.Media}
// @Failure      400  {object}  common.Response  "Invalid file"
// @Failure      413  {object}  common.Response  "File too large"
// @Security     BearerAuth
// @Router       /media [post]
func (h *Handler) Upload(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, "Missing file field")
		return
	}
	if fh.Size > h.maxSize {
		common.RespondError(c, http.StatusRequestEntityTooLarge, fmt.Sprintf("File exceeds %d MB", h.maxSize>>20))
		return
	}

	meta, err := metadataFromForm(c)
	if err != nil {
		common.RespondError(c, http.StatusBadRequest, err.Error())
		return
	}

	up, err := h.saveTemp(fh)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	// Put 成功后临时文件已被移走，这里只清理失败路径留下的文件
	defer func() {
		if err := os.Remove(up.TempPath); err != nil && !os.IsNotExist(err) {
			logger.Get().Warn().Err(err).Str("path", up.TempPath).Msg("failed to remove upload temp file")
		}
	}()

	m, err := h.store.Create(c.Request.Context(), *up, meta)
	if err != nil {
		common.HandleError(c, err)
		return
	}
	common.RespondCreated(c, m)
}

func (h *Handler) saveTemp(fh *multipart.FileHeader) (*media.Upload, error) {
	src, err := fh.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer src.Close()

	mimeType, err := utils.SniffContentType(src)
	if err != nil {
		return nil, err
	}
	if !utils.IsAllowedMediaType(mimeType) {
		// 内容嗅探识别不了的格式退回到客户端声明的类型
		declared := fh.Header.Get("Content-Type")
		if mimeType != "application/octet-stream" || !utils.IsAllowedMediaType(declared) {
			return nil, fmt.Errorf("%w: %s", media.ErrUnsupportedType, mimeType)
		}
		mimeType = strings.TrimSpace(strings.Split(declared, ";")[0])
	}

	if err := os.MkdirAll(h.tempDir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create temp dir: %w", err)
	}
	dst, err := os.CreateTemp(h.tempDir, "upload-*")
	if err != nil {
		return nil, fmt.Errorf("failed to create temp file: %w", err)
	}
	written, err := io.Copy(dst, src)
	closeErr := dst.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		_ = os.Remove(dst.Name())
		return nil, fmt.Errorf("failed to write temp file: %w", err)
	}

	return &media.Upload{
		TempPath:     dst.Name(),
		OriginalName: fh.Filename,
		MimeType:     mimeType,
		Size:         written,
	}, nil
}

func metadataFromForm(c *gin.Context) (media.Metadata, error) {
	localized := func(prefix string) models.Localized {
		return models.Localized{
			EN: strings.TrimSpace(c.PostForm(prefix + "_en")),
			AR: strings.TrimSpace(c.PostForm(prefix + "_ar")),
		}
	}

	meta := media.Metadata{
		Alt:         localized("alt"),
		Title:       localized("title"),
		Caption:     localized("caption"),
		Description: localized("description"),
		Credits:     strings.TrimSpace(c.PostForm("credits")),
		License:     strings.TrimSpace(c.PostForm("license")),
		Category:    c.PostForm("category"),
		Tags:        splitTags(c.PostForm("tags")),
	}

	fx, fy := c.PostForm("focalX"), c.PostForm("focalY")
	if fx != "" || fy != "" {
		x, errX := strconv.ParseFloat(fx, 64)
		y, errY := strconv.ParseFloat(fy, 64)
		if errX != nil || errY != nil || x < 0 || x > 1 || y < 0 || y > 1 {
			return meta, fmt.Errorf("focal point must be two numbers between 0 and 1")
		}
		meta.FocalPoint = &models.FocalPoint{X: x, Y: y}
	}
	return meta, nil
}

func splitTags(raw string) []string {
	tags := []string{}
	seen := map[string]bool{}
	for _, t := range strings.Split(raw, ",") {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		tags = append(tags, t)
	}
	return tags
}
