package service

import (
	"strings"
	"time"

	"github.com/microtask-next/internal/config"
	"github.com/microtask-next/internal/constants"
	"github.com/microtask-next/internal/logger"
	"github.com/microtask-next/internal/models"
	"github.com/microtask-next/internal/queue"
	"github.com/microtask-next/internal/repository"
)

// SubOrderService 子订单服务
// 承载领取 / 提交 / 超时释放三类状态变更，所有变更都走条件更新，
// 变更成功后统一重算所属任务的聚合字段。
type SubOrderService struct {
	cfg         *config.Config
	taskRepo    repository.TaskRepository
	subRepo     repository.SubOrderRepository
	userRepo    repository.UserRepository
	queueClient *queue.Client
}

// NewSubOrderService 创建子订单服务实例
func NewSubOrderService(
	cfg *config.Config,
	taskRepo repository.TaskRepository,
	subRepo repository.SubOrderRepository,
	userRepo repository.UserRepository,
	queueClient *queue.Client,
) *SubOrderService {
	return &SubOrderService{
		cfg:         cfg,
		taskRepo:    taskRepo,
		subRepo:     subRepo,
		userRepo:    userRepo,
		queueClient: queueClient,
	}
}

// normalizeSubOrderStatus 子订单状态归一
// 历史客户端用 in_progress / inProgress / sub_progress 表示已领取，
// 入口处统一折算为 claimed；未知值原样返回交由调用方拒绝。
func normalizeSubOrderStatus(raw string) string {
	status := strings.TrimSpace(raw)
	switch status {
	case constants.SubOrderStatusPending,
		constants.SubOrderStatusClaimed,
		constants.SubOrderStatusPendingReview,
		constants.SubOrderStatusCompleted:
		return status
	case constants.SubOrderLegacyInProgress,
		constants.SubOrderLegacyInProgress2,
		constants.SubOrderLegacySubProgress:
		return constants.SubOrderStatusClaimed
	}
	return status
}

// ClaimTimeout 领取超时阈值
func (s *SubOrderService) ClaimTimeout() time.Duration {
	if s.cfg != nil && s.cfg.Task.ClaimTimeoutMinutes > 0 {
		return time.Duration(s.cfg.Task.ClaimTimeoutMinutes) * time.Minute
	}
	return 3 * time.Minute
}

// Claim 领取子订单
// 并发安全依赖条件更新：UPDATE ... WHERE status = 'pending'，
// 两个并发领取最多一个影响行数为 1，落败方按当前状态收到明确错误。
func (s *SubOrderService) Claim(subOrderID, commenterID uint) (*models.SubOrder, error) {
	user, err := s.userRepo.GetByID(commenterID)
	if err != nil {
		return nil, err
	}
	if user == nil {
		return nil, ErrNotFound
	}
	if user.Status == constants.UserStatusDisabled {
		return nil, ErrUserDisabled
	}

	now := time.Now()
	affected, err := s.subRepo.UpdateStatusIf(subOrderID,
		constants.SubOrderStatusPending,
		constants.SubOrderStatusClaimed,
		map[string]interface{}{
			"commenter_id":   commenterID,
			"commenter_name": user.DisplayName,
			"claimed_at":     now,
			"review_note":    "",
			"updated_at":     now,
		})
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		// 竞争落败或记录不存在，重读裁决
		current, readErr := s.subRepo.GetByID(subOrderID)
		if readErr != nil {
			return nil, readErr
		}
		if current == nil {
			return nil, ErrSubOrderNotFound
		}
		return nil, ErrSubOrderAlreadyClaimed
	}

	// 领取成功后预约一次超时释放检查，周期扫描会兜底队列丢失的情况
	if err := s.queueClient.EnqueueSubOrderRelease(queue.SubOrderReleasePayload{SubOrderID: subOrderID}, s.ClaimTimeout()); err != nil {
		logger.Warnw("sub_order_release_enqueue_failed",
			"sub_order_id", subOrderID,
			"error", err,
		)
	}

	sub, err := s.subRepo.GetByIDWithTask(subOrderID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrSubOrderNotFound
	}

	if err := syncTaskAggregate(s.taskRepo, s.subRepo, sub.TaskID, now); err != nil {
		logger.Errorw("task_aggregate_sync_failed",
			"task_id", sub.TaskID,
			"stage", "claim",
			"error", err,
		)
	}

	logger.Infow("sub_order_claimed",
		"sub_order_id", sub.ID,
		"sub_order_no", sub.SubOrderNo,
		"task_id", sub.TaskID,
		"commenter_id", commenterID,
	)
	return sub, nil
}

// Submit 提交评论凭证，状态进入待审核
// 评论内容与截图至少提交一项；入参状态校验做别名归一，存量行的历史状态值同样被接受。
func (s *SubOrderService) Submit(subOrderID, commenterID uint, content, screenshotURL string) (*models.SubOrder, error) {
	content = strings.TrimSpace(content)
	screenshotURL = strings.TrimSpace(screenshotURL)
	if content == "" && screenshotURL == "" {
		return nil, ErrSubmitEvidenceRequired
	}

	sub, err := s.subRepo.GetByID(subOrderID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrSubOrderNotFound
	}
	if sub.CommenterID == nil || *sub.CommenterID != commenterID {
		return nil, ErrNotClaimOwner
	}
	if normalizeSubOrderStatus(sub.Status) != constants.SubOrderStatusClaimed {
		return nil, ErrSubOrderStateInvalid
	}

	now := time.Now()
	// fromStatus 用行内原始值做条件，存量别名状态的行同样能精确命中
	affected, err := s.subRepo.UpdateStatusIf(subOrderID,
		sub.Status,
		constants.SubOrderStatusPendingReview,
		map[string]interface{}{
			"comment_content": content,
			"comment_time":    now,
			"screenshot_url":  screenshotURL,
			"updated_at":      now,
		})
	if err != nil {
		return nil, err
	}
	if affected == 0 {
		current, readErr := s.subRepo.GetByID(subOrderID)
		if readErr != nil {
			return nil, readErr
		}
		if current == nil {
			return nil, ErrSubOrderNotFound
		}
		return nil, ErrSubOrderStateInvalid
	}

	if err := syncTaskAggregate(s.taskRepo, s.subRepo, sub.TaskID, now); err != nil {
		logger.Errorw("task_aggregate_sync_failed",
			"task_id", sub.TaskID,
			"stage", "submit",
			"error", err,
		)
	}

	updated, err := s.subRepo.GetByIDWithTask(subOrderID)
	if err != nil {
		return nil, err
	}

	logger.Infow("sub_order_submitted",
		"sub_order_id", subOrderID,
		"task_id", sub.TaskID,
		"commenter_id", commenterID,
	)
	return updated, nil
}

// ReleaseStaleClaims 释放超时未提交的领取，返回释放数量
// taskID 为 0 表示全平台扫描。
func (s *SubOrderService) ReleaseStaleClaims(taskID uint) (int, error) {
	now := time.Now()
	before := now.Add(-s.ClaimTimeout())

	stale, err := s.subRepo.ListStaleClaims(before, taskID)
	if err != nil {
		return 0, err
	}
	if len(stale) == 0 {
		return 0, nil
	}

	released := 0
	touchedTasks := make(map[uint]struct{})
	for _, sub := range stale {
		affected, err := s.subRepo.ReleaseIfStale(sub.ID, before, now)
		if err != nil {
			logger.Errorw("sub_order_release_failed",
				"sub_order_id", sub.ID,
				"error", err,
			)
			continue
		}
		if affected == 0 {
			// 扫描与释放之间已被提交或重新领取，跳过
			continue
		}
		released++
		touchedTasks[sub.TaskID] = struct{}{}
		logger.Infow("sub_order_released",
			"sub_order_id", sub.ID,
			"sub_order_no", sub.SubOrderNo,
			"task_id", sub.TaskID,
			"claimed_at", sub.ClaimedAt,
		)
	}

	for id := range touchedTasks {
		if err := syncTaskAggregate(s.taskRepo, s.subRepo, id, now); err != nil {
			logger.Errorw("task_aggregate_sync_failed",
				"task_id", id,
				"stage", "release",
				"error", err,
			)
		}
	}
	return released, nil
}

// ReleaseOne 针对单个子订单的超时释放检查（延迟队列回调）
func (s *SubOrderService) ReleaseOne(subOrderID uint) (bool, error) {
	now := time.Now()
	before := now.Add(-s.ClaimTimeout())

	sub, err := s.subRepo.GetByID(subOrderID)
	if err != nil {
		return false, err
	}
	if sub == nil {
		return false, nil
	}

	affected, err := s.subRepo.ReleaseIfStale(subOrderID, before, now)
	if err != nil {
		return false, err
	}
	if affected == 0 {
		return false, nil
	}

	if err := syncTaskAggregate(s.taskRepo, s.subRepo, sub.TaskID, now); err != nil {
		logger.Errorw("task_aggregate_sync_failed",
			"task_id", sub.TaskID,
			"stage", "release",
			"error", err,
		)
	}
	logger.Infow("sub_order_released",
		"sub_order_id", subOrderID,
		"task_id", sub.TaskID,
		"trigger", "delayed_check",
	)
	return true, nil
}

// ListClaimable 可领取子订单大厅
func (s *SubOrderService) ListClaimable(filter repository.SubOrderListFilter) ([]models.SubOrder, int64, error) {
	return s.subRepo.ListClaimable(filter)
}

// ListByCommenter 评论员名下子订单
func (s *SubOrderService) ListByCommenter(commenterID uint, filter repository.SubOrderListFilter) ([]models.SubOrder, int64, error) {
	filter.CommenterID = commenterID
	if filter.Status != "" {
		filter.Status = normalizeSubOrderStatus(filter.Status)
	}
	return s.subRepo.ListByCommenter(filter)
}

// GetForCommenter 评论员查看名下子订单详情
func (s *SubOrderService) GetForCommenter(subOrderID, commenterID uint) (*models.SubOrder, error) {
	sub, err := s.subRepo.GetByIDWithTask(subOrderID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrSubOrderNotFound
	}
	if sub.CommenterID == nil || *sub.CommenterID != commenterID {
		return nil, ErrNotClaimOwner
	}
	return sub, nil
}

// ResyncTaskAggregate 重算任务聚合（队列 / 管理端触发）
func (s *SubOrderService) ResyncTaskAggregate(taskID uint) error {
	return syncTaskAggregate(s.taskRepo, s.subRepo, taskID, time.Now())
}
