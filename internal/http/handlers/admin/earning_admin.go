package admin

import (
	"strconv"
	"strings"

	"github.com/microtask-next/internal/http/response"
	"github.com/microtask-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetAdminEarnings 获取收益流水列表 (Admin)
func (h *Handler) GetAdminEarnings(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	userID, _ := strconv.ParseUint(strings.TrimSpace(c.Query("user_id")), 10, 64)
	earnings, total, err := h.EarningService.ListAdmin(repository.EarningListFilter{
		Page:     page,
		PageSize: pageSize,
		UserID:   uint(userID),
		TaskType: strings.TrimSpace(c.Query("task_type")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.earning_fetch_failed", err)
		return
	}

	response.SuccessWithPage(c, earnings, response.BuildPagination(page, pageSize, total))
}
