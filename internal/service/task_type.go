package service

import (
	"strings"

	"github.com/microtask-next/internal/constants"
)

// IsValidTaskType 判断任务类型是否为已知枚举
func IsValidTaskType(taskType string) bool {
	switch taskType {
	case constants.TaskTypeComment, constants.TaskTypeVideo, constants.TaskTypeAccountRental:
		return true
	}
	return false
}

// ClassifyTaskType 基于标题关键字推断任务类型
// 仅作为历史数据缺失 task_type 时的兜底启发式，新建任务以显式类型为准。
func ClassifyTaskType(label string) string {
	lower := strings.ToLower(strings.TrimSpace(label))
	switch {
	case strings.Contains(lower, "租") || strings.Contains(lower, "account") || strings.Contains(lower, "rental"):
		return constants.TaskTypeAccountRental
	case strings.Contains(lower, "视频") || strings.Contains(lower, "video"):
		return constants.TaskTypeVideo
	default:
		return constants.TaskTypeComment
	}
}

// ResolveTaskType 优先使用显式类型，缺失时退回关键字推断
func ResolveTaskType(explicit, label string) string {
	if IsValidTaskType(explicit) {
		return explicit
	}
	return ClassifyTaskType(label)
}
