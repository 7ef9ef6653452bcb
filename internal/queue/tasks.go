package queue

import (
	"encoding/json"

	"github.com/microtask-next/internal/constants"

	"github.com/hibiken/asynq"
)

const (
	// TaskSubOrderRelease 子订单超时释放检查任务
	TaskSubOrderRelease = constants.TaskSubOrderRelease
	// TaskTaskStatusResync 任务聚合重算任务
	TaskTaskStatusResync = constants.TaskTaskStatusResync
)

// SubOrderReleasePayload 子订单超时释放任务载荷
type SubOrderReleasePayload struct {
	SubOrderID uint `json:"sub_order_id"`
}

// TaskStatusResyncPayload 任务聚合重算任务载荷
type TaskStatusResyncPayload struct {
	TaskID uint `json:"task_id"`
}

// NewSubOrderReleaseTask 创建子订单超时释放任务
func NewSubOrderReleaseTask(payload SubOrderReleasePayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskSubOrderRelease, body), nil
}

// NewTaskStatusResyncTask 创建任务聚合重算任务
func NewTaskStatusResyncTask(payload TaskStatusResyncPayload) (*asynq.Task, error) {
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return asynq.NewTask(TaskTaskStatusResync, body), nil
}
