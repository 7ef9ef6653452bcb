package public

import (
	"errors"
	"strconv"
	"strings"

	"github.com/microtask-next/internal/http/response"
	"github.com/microtask-next/internal/repository"
	"github.com/microtask-next/internal/service"

	"github.com/gin-gonic/gin"
)

// ListClaimableSubOrders 待领取子订单大厅
func (h *Handler) ListClaimableSubOrders(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	taskID, _ := strconv.ParseUint(strings.TrimSpace(c.Query("task_id")), 10, 64)
	subs, total, err := h.SubOrderService.ListClaimable(repository.SubOrderListFilter{
		Page:     page,
		PageSize: pageSize,
		TaskID:   uint(taskID),
		TaskType: strings.TrimSpace(c.Query("task_type")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.sub_order_fetch_failed", err)
		return
	}

	response.SuccessWithPage(c, subs, response.BuildPagination(page, pageSize, total))
}

// ClaimSubOrder 评论员领取子订单
func (h *Handler) ClaimSubOrder(c *gin.Context) {
	commenterID, ok := getUserID(c)
	if !ok {
		return
	}
	subOrderID, ok := parseIDParam(c)
	if !ok {
		return
	}

	sub, err := h.SubOrderService.Claim(subOrderID, commenterID)
	if err != nil {
		respondSubOrderClaimError(c, err)
		return
	}

	response.Success(c, sub)
}

// SubmitSubOrderRequest 提交评论凭证请求，评论内容与截图至少填写一项
type SubmitSubOrderRequest struct {
	CommentContent string `json:"comment_content"`
	ScreenshotURL  string `json:"screenshot_url"`
}

// SubmitSubOrder 评论员提交评论凭证，进入待审核
func (h *Handler) SubmitSubOrder(c *gin.Context) {
	commenterID, ok := getUserID(c)
	if !ok {
		return
	}
	subOrderID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req SubmitSubOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.submit_evidence_required", err)
		return
	}

	sub, err := h.SubOrderService.Submit(subOrderID, commenterID, req.CommentContent, req.ScreenshotURL)
	if err != nil {
		respondSubOrderSubmitError(c, err)
		return
	}

	response.Success(c, sub)
}

// ListMySubOrders 评论员名下子订单列表
func (h *Handler) ListMySubOrders(c *gin.Context) {
	commenterID, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	taskID, _ := strconv.ParseUint(strings.TrimSpace(c.Query("task_id")), 10, 64)
	subs, total, err := h.SubOrderService.ListByCommenter(commenterID, repository.SubOrderListFilter{
		Page:     page,
		PageSize: pageSize,
		TaskID:   uint(taskID),
		Status:   strings.TrimSpace(c.Query("status")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.sub_order_fetch_failed", err)
		return
	}

	response.SuccessWithPage(c, subs, response.BuildPagination(page, pageSize, total))
}

// GetMySubOrder 评论员名下子订单详情
func (h *Handler) GetMySubOrder(c *gin.Context) {
	commenterID, ok := getUserID(c)
	if !ok {
		return
	}
	subOrderID, ok := parseIDParam(c)
	if !ok {
		return
	}

	sub, err := h.SubOrderService.GetForCommenter(subOrderID, commenterID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrSubOrderNotFound):
			respondError(c, response.CodeNotFound, "error.sub_order_not_found", nil)
		case errors.Is(err, service.ErrNotClaimOwner):
			respondError(c, response.CodeForbidden, "error.not_claim_owner", nil)
		default:
			respondError(c, response.CodeInternal, "error.sub_order_fetch_failed", err)
		}
		return
	}

	response.Success(c, sub)
}
