package admin

import (
	"strconv"
	"strings"

	"github.com/microtask-next/internal/http/response"
	"github.com/microtask-next/internal/repository"

	"github.com/gin-gonic/gin"
)

// GetAdminSubOrders 获取子订单列表 (Admin)
func (h *Handler) GetAdminSubOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	taskID, _ := strconv.ParseUint(strings.TrimSpace(c.Query("task_id")), 10, 64)
	commenterID, _ := strconv.ParseUint(strings.TrimSpace(c.Query("commenter_id")), 10, 64)
	subs, total, err := h.SubOrderRepo.ListAdmin(repository.SubOrderListFilter{
		Page:        page,
		PageSize:    pageSize,
		TaskID:      uint(taskID),
		CommenterID: uint(commenterID),
		Status:      strings.TrimSpace(c.Query("status")),
		TaskType:    strings.TrimSpace(c.Query("task_type")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.sub_order_fetch_failed", err)
		return
	}

	response.SuccessWithPage(c, subs, response.BuildPagination(page, pageSize, total))
}

// GetAdminSubOrder 获取子订单详情 (Admin)
func (h *Handler) GetAdminSubOrder(c *gin.Context) {
	subOrderID, ok := parseIDParam(c)
	if !ok {
		return
	}

	sub, err := h.SubOrderRepo.GetByIDWithTask(subOrderID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.sub_order_fetch_failed", err)
		return
	}
	if sub == nil {
		respondError(c, response.CodeNotFound, "error.sub_order_not_found", nil)
		return
	}

	response.Success(c, sub)
}

// ReleaseStaleSubOrders 全平台释放超时领取 (Admin)
func (h *Handler) ReleaseStaleSubOrders(c *gin.Context) {
	released, err := h.SubOrderService.ReleaseStaleClaims(0)
	if err != nil {
		respondError(c, response.CodeInternal, "error.release_failed", err)
		return
	}

	response.Success(c, gin.H{"released": released})
}
