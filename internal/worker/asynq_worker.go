package worker

import (
	"context"
	"encoding/json"

	"github.com/microtask-next/internal/logger"
	"github.com/microtask-next/internal/provider"
	"github.com/microtask-next/internal/queue"

	"github.com/hibiken/asynq"
)

// Consumer 异步任务消费者
type Consumer struct {
	*provider.Container
}

// NewConsumer 创建消费者
func NewConsumer(c *provider.Container) *Consumer {
	return &Consumer{
		Container: c,
	}
}

// Register 注册消费者
func (c *Consumer) Register(mux *asynq.ServeMux) {
	if c == nil || mux == nil {
		logger.Debugw("worker_register_skip_nil", "consumer_nil", c == nil, "mux_nil", mux == nil)
		return
	}
	mux.HandleFunc(queue.TaskSubOrderRelease, c.handleSubOrderRelease)
	mux.HandleFunc(queue.TaskTaskStatusResync, c.handleTaskStatusResync)
}

// handleSubOrderRelease 领取超时释放检查
// 到点时子订单可能早已提交或审核完成，释放条件不满足时静默跳过。
func (c *Consumer) handleSubOrderRelease(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_sub_order_release_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.SubOrderReleasePayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_sub_order_release_unmarshal_failed", "error", err)
		return err
	}
	if payload.SubOrderID == 0 {
		logger.Debugw("worker_sub_order_release_skip_invalid_payload", "sub_order_id", payload.SubOrderID)
		return nil
	}
	if c.SubOrderService == nil {
		logger.Warnw("worker_sub_order_release_skip_service_nil", "sub_order_id", payload.SubOrderID)
		return nil
	}
	released, err := c.SubOrderService.ReleaseOne(payload.SubOrderID)
	if err != nil {
		logger.Warnw("worker_sub_order_release_failed", "sub_order_id", payload.SubOrderID, "error", err)
		return err
	}
	if !released {
		logger.Debugw("worker_sub_order_release_skip_not_stale", "sub_order_id", payload.SubOrderID)
	}
	return nil
}

// handleTaskStatusResync 任务聚合重算
func (c *Consumer) handleTaskStatusResync(_ context.Context, task *asynq.Task) error {
	if c == nil || task == nil {
		logger.Debugw("worker_task_status_resync_skip_nil", "consumer_nil", c == nil, "task_nil", task == nil)
		return nil
	}
	var payload queue.TaskStatusResyncPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		logger.Warnw("worker_task_status_resync_unmarshal_failed", "error", err)
		return err
	}
	if payload.TaskID == 0 {
		logger.Debugw("worker_task_status_resync_skip_invalid_payload", "task_id", payload.TaskID)
		return nil
	}
	if c.SubOrderService == nil {
		logger.Warnw("worker_task_status_resync_skip_service_nil", "task_id", payload.TaskID)
		return nil
	}
	if err := c.SubOrderService.ResyncTaskAggregate(payload.TaskID); err != nil {
		logger.Warnw("worker_task_status_resync_failed", "task_id", payload.TaskID, "error", err)
		return err
	}
	return nil
}
