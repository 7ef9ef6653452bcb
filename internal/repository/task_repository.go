package repository

import (
	"errors"
	"fmt"
	"time"

	"github.com/microtask-next/internal/models"

	"gorm.io/gorm"
)

// TaskRepository 任务数据访问接口
type TaskRepository interface {
	Create(task *models.Task) error
	GetByID(id uint) (*models.Task, error)
	GetByTaskNo(taskNo string) (*models.Task, error)
	ListByOwner(filter TaskListFilter) ([]models.Task, int64, error)
	ListAdmin(filter TaskListFilter) ([]models.Task, int64, error)
	UpdateAggregate(id uint, completedQuantity int, status string, now time.Time) error
	Transaction(fn func(tx *gorm.DB) error) error
	WithTx(tx *gorm.DB) *GormTaskRepository
}

// GormTaskRepository GORM 实现
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository 创建任务仓库
func NewTaskRepository(db *gorm.DB) *GormTaskRepository {
	return &GormTaskRepository{db: db}
}

// WithTx 绑定事务
func (r *GormTaskRepository) WithTx(tx *gorm.DB) *GormTaskRepository {
	if tx == nil {
		return r
	}
	return &GormTaskRepository{db: tx}
}

// Transaction 执行事务
func (r *GormTaskRepository) Transaction(fn func(tx *gorm.DB) error) error {
	return r.db.Transaction(fn)
}

func (r *GormTaskRepository) withSubOrders(query *gorm.DB) *gorm.DB {
	return query.Preload("SubOrders", func(db *gorm.DB) *gorm.DB {
		return db.Order("seq ASC")
	})
}

// Create 创建任务（含关联子订单，整体一条事务写入）
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// GetByID 根据 ID 获取任务（带子订单）
func (r *GormTaskRepository) GetByID(id uint) (*models.Task, error) {
	var task models.Task
	if err := r.withSubOrders(r.db).First(&task, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &task, nil
}

// GetByTaskNo 根据任务编号获取任务（带子订单）
func (r *GormTaskRepository) GetByTaskNo(taskNo string) (*models.Task, error) {
	var task models.Task
	if err := r.withSubOrders(r.db).Where("task_no = ?", taskNo).First(&task).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &task, nil
}

func (r *GormTaskRepository) applyListFilter(query *gorm.DB, filter TaskListFilter) *gorm.DB {
	if filter.OwnerID > 0 {
		query = query.Where("owner_id = ?", filter.OwnerID)
	}
	if filter.Status != "" {
		query = query.Where("status = ?", filter.Status)
	}
	if filter.TaskType != "" {
		query = query.Where("task_type = ?", filter.TaskType)
	}
	if filter.TaskNo != "" {
		query = query.Where("task_no = ?", filter.TaskNo)
	}
	if filter.Keyword != "" {
		like := "%" + filter.Keyword + "%"
		op := likeOperator(r.db)
		query = query.Where(fmt.Sprintf("title %s ? OR requirements %s ?", op, op), like, like)
	}
	if filter.CreatedFrom != nil {
		query = query.Where("created_at >= ?", *filter.CreatedFrom)
	}
	if filter.CreatedTo != nil {
		query = query.Where("created_at <= ?", *filter.CreatedTo)
	}
	return query
}

// ListByOwner 发布者任务列表
func (r *GormTaskRepository) ListByOwner(filter TaskListFilter) ([]models.Task, int64, error) {
	if filter.OwnerID == 0 {
		return []models.Task{}, 0, nil
	}
	return r.list(filter)
}

// ListAdmin 管理端任务列表
func (r *GormTaskRepository) ListAdmin(filter TaskListFilter) ([]models.Task, int64, error) {
	return r.list(filter)
}

func (r *GormTaskRepository) list(filter TaskListFilter) ([]models.Task, int64, error) {
	query := r.applyListFilter(r.db.Model(&models.Task{}), filter)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	query = applyPagination(query, filter.Page, filter.PageSize)

	// 列表按创建先后返回
	var tasks []models.Task
	if err := query.Order("id ASC").Find(&tasks).Error; err != nil {
		return nil, 0, err
	}
	return tasks, total, nil
}

// UpdateAggregate 回写任务聚合字段（完成数与状态整体覆盖）
func (r *GormTaskRepository) UpdateAggregate(id uint, completedQuantity int, status string, now time.Time) error {
	if id == 0 {
		return errors.New("invalid task id")
	}
	return r.db.Model(&models.Task{}).
		Where("id = ?", id).
		Updates(map[string]interface{}{
			"completed_quantity": completedQuantity,
			"status":             status,
			"updated_at":         now,
		}).Error
}
