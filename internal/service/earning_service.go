package service

import (
	"strings"

	"github.com/microtask-next/internal/constants"
	"github.com/microtask-next/internal/logger"
	"github.com/microtask-next/internal/models"
	"github.com/microtask-next/internal/repository"
)

// EarningService 收益服务
// 审核通过即时结算，台账以 sub_order_id 唯一约束保证一单至多一笔。
type EarningService struct {
	earningRepo repository.EarningRepository
}

// NewEarningService 创建收益服务实例
func NewEarningService(earningRepo repository.EarningRepository) *EarningService {
	return &EarningService{earningRepo: earningRepo}
}

// SettleSubOrder 子订单结算落账，幂等：同一子订单重复结算只记一笔
func (s *EarningService) SettleSubOrder(input SettleEarningInput) error {
	existing, err := s.earningRepo.GetBySubOrderID(input.SubOrderID)
	if err != nil {
		return err
	}
	if existing != nil {
		return nil
	}

	earning := &models.Earning{
		UserID:     input.CommenterID,
		SubOrderID: input.SubOrderID,
		TaskID:     input.TaskID,
		TaskLabel:  input.TaskLabel,
		TaskType:   input.TaskType,
		Amount:     input.Amount,
		Status:     constants.EarningStatusSettled,
	}
	if err := s.earningRepo.Create(earning); err != nil {
		// 并发结算撞唯一索引时复查，已有台账视为结算成功
		if isDuplicateKeyError(err) {
			again, readErr := s.earningRepo.GetBySubOrderID(input.SubOrderID)
			if readErr == nil && again != nil {
				return nil
			}
		}
		return err
	}

	logger.Infow("earning_settled",
		"earning_id", earning.ID,
		"sub_order_id", input.SubOrderID,
		"user_id", input.CommenterID,
		"amount", input.Amount,
	)
	return nil
}

// HasSettlement 子订单是否已有结算台账
func (s *EarningService) HasSettlement(subOrderID uint) (bool, error) {
	existing, err := s.earningRepo.GetBySubOrderID(subOrderID)
	if err != nil {
		return false, err
	}
	return existing != nil, nil
}

// isDuplicateKeyError 唯一约束冲突判定，sqlite 与 postgres 报错文案兼容
func isDuplicateKeyError(err error) bool {
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "unique") || strings.Contains(msg, "duplicate key")
}

// EarningSummary 收益汇总
type EarningSummary struct {
	TotalAmount models.Money `json:"total_amount"`
	TotalCount  int64        `json:"total_count"`
}

// ListByUser 用户收益明细
func (s *EarningService) ListByUser(userID uint, filter repository.EarningListFilter) ([]models.Earning, int64, error) {
	filter.UserID = userID
	return s.earningRepo.ListByUser(filter)
}

// ListAdmin 管理端收益流水
func (s *EarningService) ListAdmin(filter repository.EarningListFilter) ([]models.Earning, int64, error) {
	return s.earningRepo.ListAdmin(filter)
}

// SummaryByUser 用户收益汇总
func (s *EarningService) SummaryByUser(userID uint) (*EarningSummary, error) {
	total, err := s.earningRepo.SumAmountByUser(userID)
	if err != nil {
		return nil, err
	}
	count, err := s.earningRepo.CountByUser(userID)
	if err != nil {
		return nil, err
	}
	return &EarningSummary{
		TotalAmount: models.NewMoneyFromDecimal(total),
		TotalCount:  count,
	}, nil
}

var _ EarningSink = (*EarningService)(nil)
