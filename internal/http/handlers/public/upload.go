package public

import (
	"errors"

	"github.com/microtask-next/internal/http/response"
	"github.com/microtask-next/internal/service"

	"github.com/gin-gonic/gin"
)

// UploadScreenshot 上传评论截图凭证
func (h *Handler) UploadScreenshot(c *gin.Context) {
	if _, ok := getUserID(c); !ok {
		return
	}

	file, err := c.FormFile("file")
	if err != nil {
		respondError(c, response.CodeBadRequest, "error.file_missing", nil)
		return
	}

	url, err := h.UploadService.SaveFile(file, "screenshot")
	if err != nil {
		switch {
		case errors.Is(err, service.ErrUploadTooLarge):
			respondError(c, response.CodeBadRequest, "error.upload_too_large", nil)
		case errors.Is(err, service.ErrUploadTypeInvalid):
			respondError(c, response.CodeBadRequest, "error.upload_type_invalid", nil)
		default:
			respondError(c, response.CodeInternal, "error.upload_failed", err)
		}
		return
	}

	response.Success(c, gin.H{
		"url":      url,
		"filename": file.Filename,
		"size":     file.Size,
	})
}
