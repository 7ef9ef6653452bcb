package public

import (
	"errors"
	"strconv"
	"strings"
	"time"

	"github.com/microtask-next/internal/http/response"
	"github.com/microtask-next/internal/models"
	"github.com/microtask-next/internal/repository"
	"github.com/microtask-next/internal/service"

	"github.com/gin-gonic/gin"
)

// CreateTaskRequest 创建任务请求
type CreateTaskRequest struct {
	Title         string       `json:"title" binding:"required"`
	TaskType      string       `json:"task_type"`
	VideoURL      string       `json:"video_url" binding:"required"`
	Mention       string       `json:"mention"`
	Requirements  string       `json:"requirements"`
	UnitPrice     models.Money `json:"unit_price"`
	Quantity      int          `json:"quantity" binding:"required"`
	DeadlineHours int          `json:"deadline_hours"`
	Deadline      *time.Time   `json:"deadline"`
}

// CreateTask 发布者创建任务，同时物化全部子订单
func (h *Handler) CreateTask(c *gin.Context) {
	ownerID, ok := getUserID(c)
	if !ok {
		return
	}

	var req CreateTaskRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.bad_request", err)
		return
	}

	task, err := h.TaskService.CreateTask(service.CreateTaskInput{
		OwnerID:       ownerID,
		Title:         req.Title,
		TaskType:      req.TaskType,
		VideoURL:      req.VideoURL,
		Mention:       req.Mention,
		Requirements:  req.Requirements,
		UnitPrice:     req.UnitPrice,
		Quantity:      req.Quantity,
		DeadlineHours: req.DeadlineHours,
		Deadline:      req.Deadline,
	})
	if err != nil {
		respondTaskCreateError(c, err)
		return
	}

	response.Success(c, task)
}

// ListMyTasks 发布者任务列表
func (h *Handler) ListMyTasks(c *gin.Context) {
	ownerID, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	tasks, total, err := h.TaskService.ListTasksByOwner(ownerID, repository.TaskListFilter{
		Page:     page,
		PageSize: pageSize,
		Status:   strings.TrimSpace(c.Query("status")),
		TaskType: strings.TrimSpace(c.Query("task_type")),
		Keyword:  strings.TrimSpace(c.Query("keyword")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.task_fetch_failed", err)
		return
	}

	response.SuccessWithPage(c, tasks, response.BuildPagination(page, pageSize, total))
}

// GetMyTask 发布者任务详情（带全部子订单）
func (h *Handler) GetMyTask(c *gin.Context) {
	ownerID, ok := getUserID(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	task, err := h.TaskService.GetTaskForOwner(ownerID, taskID)
	if err != nil {
		switch {
		case errors.Is(err, service.ErrTaskNotFound):
			respondError(c, response.CodeNotFound, "error.task_not_found", nil)
		case errors.Is(err, service.ErrNotTaskOwner):
			respondError(c, response.CodeForbidden, "error.not_task_owner", nil)
		default:
			respondError(c, response.CodeInternal, "error.task_fetch_failed", err)
		}
		return
	}

	response.Success(c, task)
}

// ListPendingReviews 发布者待审核子订单列表，按提交时间先进先出
func (h *Handler) ListPendingReviews(c *gin.Context) {
	ownerID, ok := getUserID(c)
	if !ok {
		return
	}

	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	taskID, _ := strconv.ParseUint(strings.TrimSpace(c.Query("task_id")), 10, 64)
	subs, total, err := h.ReviewService.ListPendingReviews(ownerID, repository.SubOrderListFilter{
		Page:     page,
		PageSize: pageSize,
		TaskID:   uint(taskID),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.sub_order_fetch_failed", err)
		return
	}

	response.SuccessWithPage(c, subs, response.BuildPagination(page, pageSize, total))
}

// ApproveSubOrder 审核通过子订单并结算收益
func (h *Handler) ApproveSubOrder(c *gin.Context) {
	ownerID, ok := getUserID(c)
	if !ok {
		return
	}
	subOrderID, ok := parseIDParam(c)
	if !ok {
		return
	}

	sub, err := h.ReviewService.Approve(subOrderID, ownerID)
	if err != nil {
		respondSubOrderReviewError(c, err)
		return
	}

	response.Success(c, sub)
}

// RejectSubOrderRequest 驳回请求，审核备注必填
type RejectSubOrderRequest struct {
	Note string `json:"note" binding:"required"`
}

// RejectSubOrder 驳回子订单，子订单回到待领取池
func (h *Handler) RejectSubOrder(c *gin.Context) {
	ownerID, ok := getUserID(c)
	if !ok {
		return
	}
	subOrderID, ok := parseIDParam(c)
	if !ok {
		return
	}

	var req RejectSubOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, response.CodeBadRequest, "error.review_note_required", err)
		return
	}

	sub, err := h.ReviewService.Reject(subOrderID, ownerID, req.Note)
	if err != nil {
		respondSubOrderReviewError(c, err)
		return
	}

	response.Success(c, sub)
}

// ReleaseStaleClaims 发布者手动触发任务维度的超时领取释放
func (h *Handler) ReleaseStaleClaims(c *gin.Context) {
	ownerID, ok := getUserID(c)
	if !ok {
		return
	}
	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if _, err := h.TaskService.GetTaskForOwner(ownerID, taskID); err != nil {
		switch {
		case errors.Is(err, service.ErrTaskNotFound):
			respondError(c, response.CodeNotFound, "error.task_not_found", nil)
		case errors.Is(err, service.ErrNotTaskOwner):
			respondError(c, response.CodeForbidden, "error.not_task_owner", nil)
		default:
			respondError(c, response.CodeInternal, "error.task_fetch_failed", err)
		}
		return
	}

	released, err := h.SubOrderService.ReleaseStaleClaims(taskID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.release_failed", err)
		return
	}

	response.Success(c, gin.H{"released": released})
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return uint(id), true
}
