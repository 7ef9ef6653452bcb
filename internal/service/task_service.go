package service

import (
	"crypto/rand"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/microtask-next/internal/config"
	"github.com/microtask-next/internal/constants"
	"github.com/microtask-next/internal/logger"
	"github.com/microtask-next/internal/models"
	"github.com/microtask-next/internal/repository"

	"gorm.io/gorm"
)

// TaskService 任务服务
// 负责任务创建（含子订单物化）与任务侧查询
type TaskService struct {
	cfg      *config.Config
	taskRepo repository.TaskRepository
	subRepo  repository.SubOrderRepository
}

// NewTaskService 创建任务服务实例
func NewTaskService(cfg *config.Config, taskRepo repository.TaskRepository, subRepo repository.SubOrderRepository) *TaskService {
	return &TaskService{
		cfg:      cfg,
		taskRepo: taskRepo,
		subRepo:  subRepo,
	}
}

// CreateTaskInput 创建任务入参
type CreateTaskInput struct {
	OwnerID       uint
	Title         string
	TaskType      string
	VideoURL      string
	Mention       string
	Requirements  string
	UnitPrice     models.Money
	Quantity      int
	DeadlineHours int
	Deadline      *time.Time
}

// CreateTask 创建任务并一次性物化 quantity 个 pending 子订单
// 任务与子订单在同一事务内写入，不存在只建一半的中间态。
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	now := time.Now()

	title := strings.TrimSpace(input.Title)
	if title == "" {
		return nil, ErrTaskTitleRequired
	}
	if strings.TrimSpace(input.VideoURL) == "" {
		return nil, ErrVideoURLRequired
	}
	taskType := strings.TrimSpace(input.TaskType)
	if taskType == "" {
		// 历史客户端不传类型，按标题关键字兜底
		taskType = ClassifyTaskType(title)
	}
	if !IsValidTaskType(taskType) {
		return nil, ErrTaskTypeInvalid
	}
	if input.Quantity < 1 || input.Quantity > s.maxQuantity() {
		return nil, ErrTaskQuantityInvalid
	}
	if !input.UnitPrice.IsPositive() {
		return nil, ErrTaskPriceInvalid
	}

	deadline, err := s.resolveDeadline(input, now)
	if err != nil {
		return nil, err
	}

	taskNo := generateTaskNo()
	task := &models.Task{
		TaskNo:       taskNo,
		OwnerID:      input.OwnerID,
		Title:        title,
		TaskType:     taskType,
		VideoURL:     strings.TrimSpace(input.VideoURL),
		Mention:      strings.TrimSpace(input.Mention),
		Requirements: strings.TrimSpace(input.Requirements),
		UnitPrice:    input.UnitPrice,
		Quantity:     input.Quantity,
		Status:       constants.TaskStatusInProgress,
		PublishedAt:  now,
		Deadline:     deadline,
	}

	task.SubOrders = make([]models.SubOrder, 0, input.Quantity)
	for seq := 1; seq <= input.Quantity; seq++ {
		task.SubOrders = append(task.SubOrders, models.SubOrder{
			SubOrderNo: buildSubOrderNo(taskNo, seq),
			Seq:        seq,
			Status:     constants.SubOrderStatusPending,
		})
	}

	if err := s.taskRepo.Transaction(func(tx *gorm.DB) error {
		return s.taskRepo.WithTx(tx).Create(task)
	}); err != nil {
		return nil, err
	}

	logger.Infow("task_created",
		"task_id", task.ID,
		"task_no", task.TaskNo,
		"owner_id", task.OwnerID,
		"task_type", task.TaskType,
		"quantity", task.Quantity,
	)
	return task, nil
}

// GetTaskForOwner 发布者查看任务详情（带子订单）
func (s *TaskService) GetTaskForOwner(ownerID, taskID uint) (*models.Task, error) {
	task, err := s.taskRepo.GetByID(taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	if task.OwnerID != ownerID {
		return nil, ErrNotTaskOwner
	}
	return task, nil
}

// ListTasksByOwner 发布者任务列表
func (s *TaskService) ListTasksByOwner(ownerID uint, filter repository.TaskListFilter) ([]models.Task, int64, error) {
	filter.OwnerID = ownerID
	return s.taskRepo.ListByOwner(filter)
}

// ListTasksAdmin 管理端任务列表
func (s *TaskService) ListTasksAdmin(filter repository.TaskListFilter) ([]models.Task, int64, error) {
	return s.taskRepo.ListAdmin(filter)
}

// GetTaskAdmin 管理端任务详情（带子订单）
func (s *TaskService) GetTaskAdmin(taskID uint) (*models.Task, error) {
	task, err := s.taskRepo.GetByID(taskID)
	if err != nil {
		return nil, err
	}
	if task == nil {
		return nil, ErrTaskNotFound
	}
	return task, nil
}

func (s *TaskService) maxQuantity() int {
	if s.cfg != nil && s.cfg.Task.MaxQuantity > 0 {
		return s.cfg.Task.MaxQuantity
	}
	return 200
}

func (s *TaskService) resolveDeadline(input CreateTaskInput, now time.Time) (*time.Time, error) {
	if input.Deadline != nil {
		if !input.Deadline.After(now) {
			return nil, ErrTaskDeadlineInvalid
		}
		deadline := *input.Deadline
		return &deadline, nil
	}
	hours := input.DeadlineHours
	if hours <= 0 {
		if s.cfg != nil && s.cfg.Task.DefaultDeadlineHours > 0 {
			hours = s.cfg.Task.DefaultDeadlineHours
		} else {
			hours = 7 * 24
		}
	}
	deadline := now.Add(time.Duration(hours) * time.Hour)
	return &deadline, nil
}

// generateTaskNo 生成任务编号：MT + 时间戳 + 6 位随机数字
func generateTaskNo() string {
	return constants.TaskNoPrefix + time.Now().Format("20060102150405") + randNumeric(6)
}

// buildSubOrderNo 生成子订单编号：任务编号-两位序号
func buildSubOrderNo(taskNo string, seq int) string {
	return fmt.Sprintf("%s-%02d", taskNo, seq)
}

func randNumeric(n int) string {
	const digits = "0123456789"
	var b strings.Builder
	b.Grow(n)
	for i := 0; i < n; i++ {
		idx, err := rand.Int(rand.Reader, big.NewInt(int64(len(digits))))
		if err != nil {
			// crypto/rand 极少失败，失败时退化为固定字符
			b.WriteByte('0')
			continue
		}
		b.WriteByte(digits[idx.Int64()])
	}
	return b.String()
}
