package service

import (
	"time"

	"github.com/microtask-next/internal/constants"
	"github.com/microtask-next/internal/logger"
	"github.com/microtask-next/internal/repository"
)

// syncTaskAggregate 从子订单全量重算任务聚合字段并回写
// completed_quantity 与 status 永远是推导结果，不做增量累加。
func syncTaskAggregate(taskRepo repository.TaskRepository, subRepo repository.SubOrderRepository, taskID uint, now time.Time) error {
	if taskID == 0 {
		return nil
	}

	counts, err := subRepo.CountByStatus(taskID)
	if err != nil {
		return err
	}

	total := 0
	for _, n := range counts {
		total += n
	}
	completed := counts[constants.SubOrderStatusCompleted]
	status := calcTaskStatus(total, completed)

	if err := taskRepo.UpdateAggregate(taskID, completed, status, now); err != nil {
		return err
	}

	if status == constants.TaskStatusMainCompleted {
		logger.Infow("task_main_completed",
			"task_id", taskID,
			"completed_quantity", completed,
		)
	}
	return nil
}

// calcTaskStatus 由子订单完成数推导任务状态
// 全部子订单完成时为 main_completed，其余情况一律 in_progress。
func calcTaskStatus(total, completed int) string {
	if total > 0 && completed >= total {
		return constants.TaskStatusMainCompleted
	}
	return constants.TaskStatusInProgress
}
