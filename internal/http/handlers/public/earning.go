package public

import (
	"strconv"
	"strings"

	"github.com/microtask-next/internal/http/response"
	"github.com/microtask-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// ListMyEarnings 评论员收益流水列表
func (h *Handler) ListMyEarnings(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	earnings, total, err := h.EarningService.ListByUser(userID, repository.EarningListFilter{
		Page:     page,
		PageSize: pageSize,
		TaskType: strings.TrimSpace(c.Query("task_type")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.earning_fetch_failed", err)
		return
	}

	response.SuccessWithPage(c, earnings, response.BuildPagination(page, pageSize, total))
}

// GetMyEarningSummary 评论员收益汇总
func (h *Handler) GetMyEarningSummary(c *gin.Context) {
	userID, ok := getUserID(c)
	if !ok {
		return
	}

	summary, err := h.EarningService.SummaryByUser(userID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.earning_fetch_failed", err)
		return
	}

	response.Success(c, summary)
}
