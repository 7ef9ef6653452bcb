package service

import (
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/microtask-next/internal/config"
	"github.com/microtask-next/internal/constants"
	"github.com/microtask-next/internal/models"
	"github.com/microtask-next/internal/repository"

	"github.com/glebarez/sqlite"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// dispatchTestEnv 派发链路测试夹具，各服务共用同一个内存库
type dispatchTestEnv struct {
	db          *gorm.DB
	taskSvc     *TaskService
	subSvc      *SubOrderService
	reviewSvc   *ReviewService
	earningSvc  *EarningService
	taskRepo    repository.TaskRepository
	subRepo     repository.SubOrderRepository
	earningRepo repository.EarningRepository
}

func setupDispatchServiceTest(t *testing.T) *dispatchTestEnv {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open sqlite failed: %v", err)
	}
	if err := db.AutoMigrate(&models.User{}, &models.Task{}, &models.SubOrder{}, &models.Earning{}); err != nil {
		t.Fatalf("migrate failed: %v", err)
	}

	cfg := &config.Config{}
	cfg.Task.MaxQuantity = 50
	cfg.Task.DefaultDeadlineHours = 24
	cfg.Task.ClaimTimeoutMinutes = 3

	taskRepo := repository.NewTaskRepository(db)
	subRepo := repository.NewSubOrderRepository(db)
	userRepo := repository.NewUserRepository(db)
	earningRepo := repository.NewEarningRepository(db)

	earningSvc := NewEarningService(earningRepo)
	return &dispatchTestEnv{
		db:          db,
		taskSvc:     NewTaskService(cfg, taskRepo, subRepo),
		subSvc:      NewSubOrderService(cfg, taskRepo, subRepo, userRepo, nil),
		reviewSvc:   NewReviewService(taskRepo, subRepo, earningSvc),
		earningSvc:  earningSvc,
		taskRepo:    taskRepo,
		subRepo:     subRepo,
		earningRepo: earningRepo,
	}
}

func createDispatchTestUser(t *testing.T, db *gorm.DB, email, role string) *models.User {
	t.Helper()
	user := &models.User{
		Email:        email,
		PasswordHash: "x",
		DisplayName:  strings.SplitN(email, "@", 2)[0],
		Role:         role,
		Status:       constants.UserStatusActive,
	}
	if err := db.Create(user).Error; err != nil {
		t.Fatalf("create user failed: %v", err)
	}
	return user
}

func createDispatchTestTask(t *testing.T, env *dispatchTestEnv, ownerID uint, quantity int) *models.Task {
	t.Helper()
	task, err := env.taskSvc.CreateTask(CreateTaskInput{
		OwnerID:   ownerID,
		Title:     "新品开箱视频评论",
		TaskType:  constants.TaskTypeComment,
		VideoURL:  "https://video.example.com/watch/1",
		UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromFloat(1.50)),
		Quantity:  quantity,
	})
	if err != nil {
		t.Fatalf("create task failed: %v", err)
	}
	return task
}

func TestCreateTaskMaterializesSubOrders(t *testing.T) {
	env := setupDispatchServiceTest(t)
	owner := createDispatchTestUser(t, env.db, "owner@example.com", constants.UserRolePublisher)

	task := createDispatchTestTask(t, env, owner.ID, 5)
	if task.Status != constants.TaskStatusInProgress {
		t.Fatalf("expected status %s, got %s", constants.TaskStatusInProgress, task.Status)
	}
	if !strings.HasPrefix(task.TaskNo, constants.TaskNoPrefix) {
		t.Fatalf("unexpected task no: %s", task.TaskNo)
	}
	if task.Deadline == nil || !task.Deadline.After(time.Now()) {
		t.Fatalf("expected default deadline in the future, got %v", task.Deadline)
	}

	var subs []models.SubOrder
	if err := env.db.Where("task_id = ?", task.ID).Order("seq ASC").Find(&subs).Error; err != nil {
		t.Fatalf("load sub orders failed: %v", err)
	}
	if len(subs) != 5 {
		t.Fatalf("expected 5 sub orders, got %d", len(subs))
	}
	for i, sub := range subs {
		if sub.Seq != i+1 {
			t.Fatalf("expected seq %d, got %d", i+1, sub.Seq)
		}
		if sub.Status != constants.SubOrderStatusPending {
			t.Fatalf("expected pending sub order, got %s", sub.Status)
		}
		wantNo := fmt.Sprintf("%s-%02d", task.TaskNo, i+1)
		if sub.SubOrderNo != wantNo {
			t.Fatalf("expected sub order no %s, got %s", wantNo, sub.SubOrderNo)
		}
	}
}

func TestCreateTaskValidation(t *testing.T) {
	env := setupDispatchServiceTest(t)
	owner := createDispatchTestUser(t, env.db, "owner@example.com", constants.UserRolePublisher)

	base := CreateTaskInput{
		OwnerID:   owner.ID,
		Title:     "评论任务",
		TaskType:  constants.TaskTypeComment,
		VideoURL:  "https://video.example.com/watch/1",
		UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromFloat(1.00)),
		Quantity:  3,
	}

	cases := []struct {
		name    string
		mutate  func(in *CreateTaskInput)
		wantErr error
	}{
		{"empty title", func(in *CreateTaskInput) { in.Title = "  " }, ErrTaskTitleRequired},
		{"empty video url", func(in *CreateTaskInput) { in.VideoURL = "" }, ErrVideoURLRequired},
		{"unknown type", func(in *CreateTaskInput) { in.TaskType = "mystery" }, ErrTaskTypeInvalid},
		{"zero quantity", func(in *CreateTaskInput) { in.Quantity = 0 }, ErrTaskQuantityInvalid},
		{"quantity over limit", func(in *CreateTaskInput) { in.Quantity = 51 }, ErrTaskQuantityInvalid},
		{"zero price", func(in *CreateTaskInput) { in.UnitPrice = models.Money{} }, ErrTaskPriceInvalid},
		{"past deadline", func(in *CreateTaskInput) {
			past := time.Now().Add(-time.Hour)
			in.Deadline = &past
		}, ErrTaskDeadlineInvalid},
	}

	for _, tc := range cases {
		input := base
		tc.mutate(&input)
		if _, err := env.taskSvc.CreateTask(input); err != tc.wantErr {
			t.Fatalf("%s: expected %v, got %v", tc.name, tc.wantErr, err)
		}
	}
}

func TestCreateTaskClassifiesTypeFromTitle(t *testing.T) {
	env := setupDispatchServiceTest(t)
	owner := createDispatchTestUser(t, env.db, "owner@example.com", constants.UserRolePublisher)

	task, err := env.taskSvc.CreateTask(CreateTaskInput{
		OwnerID:   owner.ID,
		Title:     "账号出租 video account rental",
		VideoURL:  "https://video.example.com/watch/2",
		UnitPrice: models.NewMoneyFromDecimal(decimal.NewFromInt(2)),
		Quantity:  1,
	})
	if err != nil {
		t.Fatalf("create task failed: %v", err)
	}
	if task.TaskType != constants.TaskTypeAccountRental {
		t.Fatalf("expected classified type %s, got %s", constants.TaskTypeAccountRental, task.TaskType)
	}
}

func TestListTasksByOwnerKeepsCreationOrder(t *testing.T) {
	env := setupDispatchServiceTest(t)
	owner := createDispatchTestUser(t, env.db, "owner@example.com", constants.UserRolePublisher)

	var created []uint
	for i := 0; i < 3; i++ {
		task := createDispatchTestTask(t, env, owner.ID, 1)
		created = append(created, task.ID)
	}

	tasks, total, err := env.taskSvc.ListTasksByOwner(owner.ID, repository.TaskListFilter{Page: 1, PageSize: 10})
	if err != nil {
		t.Fatalf("list tasks failed: %v", err)
	}
	if total != 3 || len(tasks) != 3 {
		t.Fatalf("expected 3 tasks, got total=%d len=%d", total, len(tasks))
	}
	for i, task := range tasks {
		if task.ID != created[i] {
			t.Fatalf("expected creation order %v, got %d at index %d", created, task.ID, i)
		}
	}
}

func TestGetTaskForOwnerRejectsOtherUsers(t *testing.T) {
	env := setupDispatchServiceTest(t)
	owner := createDispatchTestUser(t, env.db, "owner@example.com", constants.UserRolePublisher)
	other := createDispatchTestUser(t, env.db, "other@example.com", constants.UserRolePublisher)
	task := createDispatchTestTask(t, env, owner.ID, 1)

	if _, err := env.taskSvc.GetTaskForOwner(other.ID, task.ID); err != ErrNotTaskOwner {
		t.Fatalf("expected %v, got %v", ErrNotTaskOwner, err)
	}
	got, err := env.taskSvc.GetTaskForOwner(owner.ID, task.ID)
	if err != nil {
		t.Fatalf("get task failed: %v", err)
	}
	if got.ID != task.ID {
		t.Fatalf("expected task %d, got %d", task.ID, got.ID)
	}
}
