package service

import (
	"strings"
	"time"

	"github.com/microtask-next/internal/constants"
	"github.com/microtask-next/internal/logger"
	"github.com/microtask-next/internal/models"
	"github.com/microtask-next/internal/repository"
)

// SettleEarningInput 审核通过后的结算入参
type SettleEarningInput struct {
	SubOrderID  uint
	TaskID      uint
	CommenterID uint
	TaskLabel   string
	TaskType    string
	Amount      models.Money
}

// EarningSink 结算落账接口，由收益服务实现
type EarningSink interface {
	SettleSubOrder(input SettleEarningInput) error
	HasSettlement(subOrderID uint) (bool, error)
}

// ReviewService 审核服务
// 发布者对待审核子订单做通过 / 驳回两种终审动作。
type ReviewService struct {
	taskRepo repository.TaskRepository
	subRepo  repository.SubOrderRepository
	earnings EarningSink
}

// NewReviewService 创建审核服务实例
func NewReviewService(taskRepo repository.TaskRepository, subRepo repository.SubOrderRepository, earnings EarningSink) *ReviewService {
	return &ReviewService{taskRepo: taskRepo, subRepo: subRepo, earnings: earnings}
}

// loadForReview 读取子订单并校验发布者归属
func (s *ReviewService) loadForReview(subOrderID, ownerID uint) (*models.SubOrder, error) {
	sub, err := s.subRepo.GetByIDWithTask(subOrderID)
	if err != nil {
		return nil, err
	}
	if sub == nil {
		return nil, ErrSubOrderNotFound
	}
	if sub.Task == nil || sub.Task.OwnerID != ownerID {
		return nil, ErrNotTaskOwner
	}
	return sub, nil
}

func settleInputFor(sub *models.SubOrder) SettleEarningInput {
	return SettleEarningInput{
		SubOrderID:  sub.ID,
		TaskID:      sub.TaskID,
		CommenterID: *sub.CommenterID,
		TaskLabel:   sub.Task.Title,
		TaskType:    sub.Task.TaskType,
		Amount:      sub.Task.UnitPrice,
	}
}

// recoverSettlement completed 状态的重复通过裁决
// 台账已存在视为重复审核；缺台账说明上一次结算失败，这里补结算后按成功返回。
func (s *ReviewService) recoverSettlement(sub *models.SubOrder) (*models.SubOrder, error) {
	if sub.CommenterID == nil {
		return nil, ErrSubOrderAlreadyReviewed
	}
	settled, err := s.earnings.HasSettlement(sub.ID)
	if err != nil {
		return nil, err
	}
	if settled {
		return nil, ErrSubOrderAlreadyReviewed
	}

	if err := s.earnings.SettleSubOrder(settleInputFor(sub)); err != nil {
		logger.Errorw("earning_settle_failed",
			"sub_order_id", sub.ID,
			"commenter_id", *sub.CommenterID,
			"stage", "recover",
			"error", err,
		)
		return nil, ErrEarningSettleFailed
	}

	logger.Infow("earning_settle_recovered",
		"sub_order_id", sub.ID,
		"sub_order_no", sub.SubOrderNo,
		"task_id", sub.TaskID,
	)
	return sub, nil
}

// Approve 审核通过
// completed 为终态：已有台账的重复通过返回已审核错误，不会二次结算。
// 状态翻转成功但结算失败时保留 completed，重试会走补结算分支把缺失的台账补上。
func (s *ReviewService) Approve(subOrderID, ownerID uint) (*models.SubOrder, error) {
	sub, err := s.loadForReview(subOrderID, ownerID)
	if err != nil {
		return nil, err
	}
	if sub.Status == constants.SubOrderStatusCompleted {
		return s.recoverSettlement(sub)
	}
	if sub.Status != constants.SubOrderStatusPendingReview {
		return nil, ErrSubOrderStateInvalid
	}

	now := time.Now()
	affected, err := s.subRepo.UpdateStatusIf(subOrderID,
		constants.SubOrderStatusPendingReview,
		constants.SubOrderStatusCompleted,
		map[string]interface{}{
			"updated_at": now,
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
		if current.Status == constants.SubOrderStatusCompleted {
			return nil, ErrSubOrderAlreadyReviewed
		}
		return nil, ErrSubOrderStateInvalid
	}

	if err := syncTaskAggregate(s.taskRepo, s.subRepo, sub.TaskID, now); err != nil {
		logger.Errorw("task_aggregate_sync_failed",
			"task_id", sub.TaskID,
			"stage", "approve",
			"error", err,
		)
	}

	if sub.CommenterID != nil {
		settleErr := s.earnings.SettleSubOrder(settleInputFor(sub))
		if settleErr != nil {
			logger.Errorw("earning_settle_failed",
				"sub_order_id", sub.ID,
				"commenter_id", *sub.CommenterID,
				"error", settleErr,
			)
			return nil, ErrEarningSettleFailed
		}
	}

	updated, err := s.subRepo.GetByIDWithTask(subOrderID)
	if err != nil {
		return nil, err
	}

	logger.Infow("sub_order_approved",
		"sub_order_id", subOrderID,
		"sub_order_no", sub.SubOrderNo,
		"task_id", sub.TaskID,
		"amount", sub.Task.UnitPrice,
	)
	return updated, nil
}

// Reject 驳回子订单
// 驳回说明必填；清空领取与提交痕迹后回到待领取池，留下驳回说明供下一位领取者参考。
func (s *ReviewService) Reject(subOrderID, ownerID uint, note string) (*models.SubOrder, error) {
	note = strings.TrimSpace(note)
	if note == "" {
		return nil, ErrReviewNoteRequired
	}

	sub, err := s.loadForReview(subOrderID, ownerID)
	if err != nil {
		return nil, err
	}
	if sub.Status == constants.SubOrderStatusCompleted {
		return nil, ErrSubOrderAlreadyReviewed
	}
	if sub.Status != constants.SubOrderStatusPendingReview {
		return nil, ErrSubOrderStateInvalid
	}

	now := time.Now()
	affected, err := s.subRepo.UpdateStatusIf(subOrderID,
		constants.SubOrderStatusPendingReview,
		constants.SubOrderStatusPending,
		map[string]interface{}{
			"commenter_id":    nil,
			"commenter_name":  "",
			"claimed_at":      nil,
			"comment_content": "",
			"comment_time":    nil,
			"screenshot_url":  "",
			"review_note":     note,
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
		if current.Status == constants.SubOrderStatusCompleted {
			return nil, ErrSubOrderAlreadyReviewed
		}
		return nil, ErrSubOrderStateInvalid
	}

	if err := syncTaskAggregate(s.taskRepo, s.subRepo, sub.TaskID, now); err != nil {
		logger.Errorw("task_aggregate_sync_failed",
			"task_id", sub.TaskID,
			"stage", "reject",
			"error", err,
		)
	}

	updated, err := s.subRepo.GetByIDWithTask(subOrderID)
	if err != nil {
		return nil, err
	}

	logger.Infow("sub_order_rejected",
		"sub_order_id", subOrderID,
		"sub_order_no", sub.SubOrderNo,
		"task_id", sub.TaskID,
		"note", note,
	)
	return updated, nil
}

// ListPendingReviews 发布者名下待审核子订单，按提交时间先进先出
func (s *ReviewService) ListPendingReviews(ownerID uint, filter repository.SubOrderListFilter) ([]models.SubOrder, int64, error) {
	return s.subRepo.ListPendingReviewByOwner(ownerID, filter)
}
