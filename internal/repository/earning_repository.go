package repository

import (
	"errors"

	"github.com/microtask-next/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// EarningRepository 收益流水数据访问接口
type EarningRepository interface {
	Create(earning *models.Earning) error
	GetBySubOrderID(subOrderID uint) (*models.Earning, error)
	ListByUser(filter EarningListFilter) ([]models.Earning, int64, error)
	ListAdmin(filter EarningListFilter) ([]models.Earning, int64, error)
	SumAmountByUser(userID uint) (decimal.Decimal, error)
	CountByUser(userID uint) (int64, error)
	WithTx(tx *gorm.DB) *GormEarningRepository
}

// GormEarningRepository GORM 实现
type GormEarningRepository struct {
	db *gorm.DB
}

// NewEarningRepository 创建收益仓库
func NewEarningRepository(db *gorm.DB) *GormEarningRepository {
	return &GormEarningRepository{db: db}
}

// WithTx 绑定事务
func (r *GormEarningRepository) WithTx(tx *gorm.DB) *GormEarningRepository {
	if tx == nil {
		return r
	}
	return &GormEarningRepository{db: tx}
}

// Create 写入收益流水
func (r *GormEarningRepository) Create(earning *models.Earning) error {
	return r.db.Create(earning).Error
}

// GetBySubOrderID 按子订单查询收益流水（结算幂等判定）
func (r *GormEarningRepository) GetBySubOrderID(subOrderID uint) (*models.Earning, error) {
	if subOrderID == 0 {
		return nil, nil
	}
	var earning models.Earning
	if err := r.db.Where("sub_order_id = ?", subOrderID).First(&earning).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &earning, nil
}

// ListByUser 用户收益流水列表
func (r *GormEarningRepository) ListByUser(filter EarningListFilter) ([]models.Earning, int64, error) {
	if filter.UserID == 0 {
		return []models.Earning{}, 0, nil
	}
	query := r.db.Model(&models.Earning{}).Where("user_id = ?", filter.UserID)
	if filter.TaskType != "" {
		query = query.Where("task_type = ?", filter.TaskType)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var earnings []models.Earning
	if err := query.Order("id DESC").Find(&earnings).Error; err != nil {
		return nil, 0, err
	}
	return earnings, total, nil
}

// ListAdmin 后台收益流水列表
func (r *GormEarningRepository) ListAdmin(filter EarningListFilter) ([]models.Earning, int64, error) {
	query := r.db.Model(&models.Earning{})
	if filter.UserID != 0 {
		query = query.Where("user_id = ?", filter.UserID)
	}
	if filter.TaskType != "" {
		query = query.Where("task_type = ?", filter.TaskType)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var earnings []models.Earning
	if err := query.Order("id DESC").Find(&earnings).Error; err != nil {
		return nil, 0, err
	}
	return earnings, total, nil
}

// SumAmountByUser 用户累计收益
func (r *GormEarningRepository) SumAmountByUser(userID uint) (decimal.Decimal, error) {
	if userID == 0 {
		return decimal.Zero, nil
	}
	var row struct {
		Total decimal.Decimal
	}
	if err := r.db.Model(&models.Earning{}).
		Select("COALESCE(SUM(amount), 0) as total").
		Where("user_id = ?", userID).
		Scan(&row).Error; err != nil {
		return decimal.Zero, err
	}
	return row.Total, nil
}

// CountByUser 用户收益笔数
func (r *GormEarningRepository) CountByUser(userID uint) (int64, error) {
	if userID == 0 {
		return 0, nil
	}
	var count int64
	if err := r.db.Model(&models.Earning{}).
		Where("user_id = ?", userID).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
