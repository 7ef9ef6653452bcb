package repository

import (
	"errors"
	"time"

	"github.com/microtask-next/internal/constants"
	"github.com/microtask-next/internal/models"

	"gorm.io/gorm"
)

// SubOrderRepository 子订单数据访问接口
// 状态变更统一走 UpdateStatusIf 条件更新：UPDATE ... WHERE status = from，
// 通过 RowsAffected 判定竞争结果，保证并发下同一子订单只被领取一次。
type SubOrderRepository interface {
	GetByID(id uint) (*models.SubOrder, error)
	GetByIDWithTask(id uint) (*models.SubOrder, error)
	ListByTask(taskID uint) ([]models.SubOrder, error)
	ListClaimable(filter SubOrderListFilter) ([]models.SubOrder, int64, error)
	ListByCommenter(filter SubOrderListFilter) ([]models.SubOrder, int64, error)
	ListPendingReviewByOwner(ownerID uint, filter SubOrderListFilter) ([]models.SubOrder, int64, error)
	ListAdmin(filter SubOrderListFilter) ([]models.SubOrder, int64, error)
	ListStaleClaims(before time.Time, taskID uint) ([]models.SubOrder, error)
	CountByStatus(taskID uint) (map[string]int, error)
	UpdateStatusIf(id uint, fromStatus, toStatus string, updates map[string]interface{}) (int64, error)
	ReleaseIfStale(id uint, before, now time.Time) (int64, error)
	WithTx(tx *gorm.DB) *GormSubOrderRepository
}

// GormSubOrderRepository GORM 实现
type GormSubOrderRepository struct {
	db *gorm.DB
}

// NewSubOrderRepository 创建子订单仓库
func NewSubOrderRepository(db *gorm.DB) *GormSubOrderRepository {
	return &GormSubOrderRepository{db: db}
}

// WithTx 绑定事务
func (r *GormSubOrderRepository) WithTx(tx *gorm.DB) *GormSubOrderRepository {
	if tx == nil {
		return r
	}
	return &GormSubOrderRepository{db: tx}
}

// GetByID 根据 ID 获取子订单
func (r *GormSubOrderRepository) GetByID(id uint) (*models.SubOrder, error) {
	var sub models.SubOrder
	if err := r.db.First(&sub, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

// GetByIDWithTask 根据 ID 获取子订单（带所属任务）
func (r *GormSubOrderRepository) GetByIDWithTask(id uint) (*models.SubOrder, error) {
	var sub models.SubOrder
	if err := r.db.Preload("Task").First(&sub, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &sub, nil
}

// ListByTask 任务下全部子订单（按序号）
func (r *GormSubOrderRepository) ListByTask(taskID uint) ([]models.SubOrder, error) {
	if taskID == 0 {
		return []models.SubOrder{}, nil
	}
	var subs []models.SubOrder
	if err := r.db.Where("task_id = ?", taskID).Order("seq ASC").Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// ListClaimable 可领取子订单列表（大厅），按任务类型可选过滤
func (r *GormSubOrderRepository) ListClaimable(filter SubOrderListFilter) ([]models.SubOrder, int64, error) {
	query := r.db.Model(&models.SubOrder{}).
		Joins("JOIN tasks ON tasks.id = sub_orders.task_id AND tasks.deleted_at IS NULL").
		Where("sub_orders.status = ?", constants.SubOrderStatusPending)
	if filter.TaskID > 0 {
		query = query.Where("sub_orders.task_id = ?", filter.TaskID)
	}
	if filter.TaskType != "" {
		query = query.Where("tasks.task_type = ?", filter.TaskType)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var subs []models.SubOrder
	if err := query.Preload("Task").Order("sub_orders.id ASC").Find(&subs).Error; err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

// ListByCommenter 评论员名下子订单列表
func (r *GormSubOrderRepository) ListByCommenter(filter SubOrderListFilter) ([]models.SubOrder, int64, error) {
	if filter.CommenterID == 0 {
		return []models.SubOrder{}, 0, nil
	}
	query := r.db.Model(&models.SubOrder{}).Where("commenter_id = ?", filter.CommenterID)
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.TaskID > 0 {
		query = query.Where("task_id = ?", filter.TaskID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var subs []models.SubOrder
	if err := query.Preload("Task").Order("id DESC").Find(&subs).Error; err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

// ListPendingReviewByOwner 发布者名下待审核子订单列表
func (r *GormSubOrderRepository) ListPendingReviewByOwner(ownerID uint, filter SubOrderListFilter) ([]models.SubOrder, int64, error) {
	if ownerID == 0 {
		return []models.SubOrder{}, 0, nil
	}
	query := r.db.Model(&models.SubOrder{}).
		Joins("JOIN tasks ON tasks.id = sub_orders.task_id AND tasks.deleted_at IS NULL").
		Where("tasks.owner_id = ? AND sub_orders.status = ?", ownerID, constants.SubOrderStatusPendingReview)
	if filter.TaskID > 0 {
		query = query.Where("sub_orders.task_id = ?", filter.TaskID)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var subs []models.SubOrder
	if err := query.Preload("Task").Order("sub_orders.comment_time ASC").Find(&subs).Error; err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

// ListAdmin 后台子订单列表，支持任务、评论员、状态与任务类型过滤
func (r *GormSubOrderRepository) ListAdmin(filter SubOrderListFilter) ([]models.SubOrder, int64, error) {
	query := r.db.Model(&models.SubOrder{}).
		Joins("JOIN tasks ON tasks.id = sub_orders.task_id AND tasks.deleted_at IS NULL")
	if filter.TaskID > 0 {
		query = query.Where("sub_orders.task_id = ?", filter.TaskID)
	}
	if filter.CommenterID > 0 {
		query = query.Where("sub_orders.commenter_id = ?", filter.CommenterID)
	}
	if filter.Status != "" {
		query = query.Where("sub_orders.status = ?", filter.Status)
	}
	if filter.TaskType != "" {
		query = query.Where("tasks.task_type = ?", filter.TaskType)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("sub_orders.created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("sub_orders.created_at <= ?", *filter.CreatedTo)
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	var subs []models.SubOrder
	if err := query.Preload("Task").Order("sub_orders.id DESC").Find(&subs).Error; err != nil {
		return nil, 0, err
	}
	return subs, total, nil
}

// ListStaleClaims 超时未提交的已领取子订单（claimed_at 早于 before）
func (r *GormSubOrderRepository) ListStaleClaims(before time.Time, taskID uint) ([]models.SubOrder, error) {
	query := r.db.Where("status = ? AND claimed_at IS NOT NULL AND claimed_at <= ?", constants.SubOrderStatusClaimed, before)
	if taskID > 0 {
		query = query.Where("task_id = ?", taskID)
	}
	var subs []models.SubOrder
	if err := query.Order("claimed_at ASC").Find(&subs).Error; err != nil {
		return nil, err
	}
	return subs, nil
}

// CountByStatus 按状态统计任务下子订单数量
func (r *GormSubOrderRepository) CountByStatus(taskID uint) (map[string]int, error) {
	if taskID == 0 {
		return map[string]int{}, nil
	}
	type row struct {
		Status string
		Total  int
	}
	var rows []row
	if err := r.db.Model(&models.SubOrder{}).
		Select("status, COUNT(*) as total").
		Where("task_id = ?", taskID).
		Group("status").
		Scan(&rows).Error; err != nil {
		return nil, err
	}
	counts := make(map[string]int, len(rows))
	for _, item := range rows {
		counts[item.Status] = item.Total
	}
	return counts, nil
}

// UpdateStatusIf 条件状态更新，返回影响行数
// 影响行数为 0 表示状态已被并发方抢先变更（或记录不存在），由调用方裁决。
func (r *GormSubOrderRepository) UpdateStatusIf(id uint, fromStatus, toStatus string, updates map[string]interface{}) (int64, error) {
	if id == 0 || fromStatus == "" || toStatus == "" {
		return 0, errors.New("invalid status transition arguments")
	}
	if updates == nil {
		updates = map[string]interface{}{}
	}
	updates["status"] = toStatus
	result := r.db.Model(&models.SubOrder{}).
		Where("id = ? AND status = ?", id, fromStatus).
		Updates(updates)
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// ReleaseIfStale 释放超时领取：仅当仍处于 claimed 且 claimed_at 未被刷新时生效
// claimed_at 条件防止“扫描后刚被重新领取”的子订单被误释放。
func (r *GormSubOrderRepository) ReleaseIfStale(id uint, before, now time.Time) (int64, error) {
	if id == 0 {
		return 0, errors.New("invalid sub order id")
	}
	result := r.db.Model(&models.SubOrder{}).
		Where("id = ? AND status = ? AND claimed_at IS NOT NULL AND claimed_at <= ?",
			id, constants.SubOrderStatusClaimed, before).
		Updates(map[string]interface{}{
			"status":          constants.SubOrderStatusPending,
			"commenter_id":    nil,
			"commenter_name":  "",
			"claimed_at":      nil,
			"comment_content": "",
			"comment_time":    nil,
			"screenshot_url":  "",
			"updated_at":      now,
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}
