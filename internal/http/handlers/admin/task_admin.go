package admin

import (
	"errors"
	"strconv"
	"strings"

	"github.com/microtask-next/internal/http/response"
	"github.com/microtask-next/internal/repository"
	"github.com/microtask-next/internal/service"

	"github.com/gin-gonic/gin"
)

// GetAdminTasks 获取任务列表 (Admin)
func (h *Handler) GetAdminTasks(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	pageSize, _ := strconv.Atoi(c.DefaultQuery("page_size", "20"))
	page, pageSize = normalizePagination(page, pageSize)

	ownerID, _ := strconv.ParseUint(strings.TrimSpace(c.Query("owner_id")), 10, 64)
	tasks, total, err := h.TaskService.ListTasksAdmin(repository.TaskListFilter{
		Page:     page,
		PageSize: pageSize,
		OwnerID:  uint(ownerID),
		Status:   strings.TrimSpace(c.Query("status")),
		TaskType: strings.TrimSpace(c.Query("task_type")),
		TaskNo:   strings.TrimSpace(c.Query("task_no")),
		Keyword:  strings.TrimSpace(c.Query("keyword")),
	})
	if err != nil {
		respondError(c, response.CodeInternal, "error.task_fetch_failed", err)
		return
	}

	response.SuccessWithPage(c, tasks, response.BuildPagination(page, pageSize, total))
}

// GetAdminTask 获取任务详情 (Admin)
func (h *Handler) GetAdminTask(c *gin.Context) {
	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	task, err := h.TaskService.GetTaskAdmin(taskID)
	if err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			respondError(c, response.CodeNotFound, "error.task_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.task_fetch_failed", err)
		return
	}

	response.Success(c, task)
}

// ResyncAdminTask 重算任务聚合字段 (Admin)
func (h *Handler) ResyncAdminTask(c *gin.Context) {
	taskID, ok := parseIDParam(c)
	if !ok {
		return
	}

	if _, err := h.TaskService.GetTaskAdmin(taskID); err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			respondError(c, response.CodeNotFound, "error.task_not_found", nil)
			return
		}
		respondError(c, response.CodeInternal, "error.task_fetch_failed", err)
		return
	}

	if err := h.SubOrderService.ResyncTaskAggregate(taskID); err != nil {
		respondError(c, response.CodeInternal, "error.save_failed", err)
		return
	}

	task, err := h.TaskService.GetTaskAdmin(taskID)
	if err != nil {
		respondError(c, response.CodeInternal, "error.task_fetch_failed", err)
		return
	}

	response.Success(c, task)
}

func parseIDParam(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(strings.TrimSpace(c.Param("id")), 10, 64)
	if err != nil || id == 0 {
		respondError(c, response.CodeBadRequest, "error.bad_request", nil)
		return 0, false
	}
	return uint(id), true
}
