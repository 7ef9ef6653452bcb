package main

import (
	"fmt"
	"time"

	"github.com/microtask-next/internal/config"
	"github.com/microtask-next/internal/constants"
	"github.com/microtask-next/internal/logger"
	"github.com/microtask-next/internal/models"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
)

// 演示账号统一使用该密码
const demoPassword = "Demo@12345"

func main() {
	// 连接数据库
	cfg := config.Load()
	logger.Init(cfg.Server.Mode, cfg.Log.ToLoggerOptions())
	stdLog := logger.StdLogger()
	if err := models.InitDB(cfg.Database.Driver, cfg.Database.DSN, models.DBPoolConfig{
		MaxOpenConns:           cfg.Database.Pool.MaxOpenConns,
		MaxIdleConns:           cfg.Database.Pool.MaxIdleConns,
		ConnMaxLifetimeSeconds: cfg.Database.Pool.ConnMaxLifetimeSeconds,
		ConnMaxIdleTimeSeconds: cfg.Database.Pool.ConnMaxIdleTimeSeconds,
	}); err != nil {
		stdLog.Fatalf("Failed to connect database: %v", err)
	}

	// 自动迁移
	if err := models.AutoMigrate(); err != nil {
		stdLog.Fatalf("Failed to migrate database: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(demoPassword), bcrypt.DefaultCost)
	if err != nil {
		stdLog.Fatalf("Failed to hash demo password: %v", err)
	}

	// 添加演示用户
	users := []models.User{
		{
			Email:        "publisher@example.com",
			PasswordHash: string(hash),
			DisplayName:  "演示发布者",
			Role:         constants.UserRolePublisher,
			Locale:       "zh-CN",
			Status:       constants.UserStatusActive,
		},
		{
			Email:        "commenter1@example.com",
			PasswordHash: string(hash),
			DisplayName:  "演示评论员一号",
			Role:         constants.UserRoleCommenter,
			Locale:       "zh-CN",
			Status:       constants.UserStatusActive,
		},
		{
			Email:        "commenter2@example.com",
			PasswordHash: string(hash),
			DisplayName:  "Demo Commenter Two",
			Role:         constants.UserRoleCommenter,
			Locale:       "en-US",
			Status:       constants.UserStatusActive,
		},
	}

	userIDs := map[string]uint{}
	for _, user := range users {
		var existing models.User
		if err := models.DB.Where("email = ?", user.Email).First(&existing).Error; err != nil {
			if err := models.DB.Create(&user).Error; err != nil {
				stdLog.Printf("Failed to create user %s: %v", user.Email, err)
				continue
			}
			stdLog.Printf("Created user: %s (%s)", user.Email, user.Role)
			userIDs[user.Email] = user.ID
		} else {
			stdLog.Printf("User already exists: %s", user.Email)
			userIDs[user.Email] = existing.ID
		}
	}

	publisherID := userIDs["publisher@example.com"]
	if publisherID == 0 {
		stdLog.Fatalf("Demo publisher missing, cannot seed tasks")
	}

	// 添加演示任务（含子订单）
	now := time.Now()
	deadline := now.AddDate(0, 0, 7)
	tasks := []models.Task{
		{
			TaskNo:       "MTSEED00000001",
			OwnerID:      publisherID,
			Title:        "新品开箱视频评论任务",
			TaskType:     constants.TaskTypeComment,
			VideoURL:     "https://video.example.com/watch/demo-unboxing",
			Mention:      "@demo_studio",
			Requirements: "评论需与视频内容相关，不少于 15 字，禁止复制他人评论。",
			UnitPrice:    models.NewMoneyFromDecimal(decimal.NewFromFloat(2.50)),
			Quantity:     10,
			Status:       constants.TaskStatusInProgress,
			PublishedAt:  now,
			Deadline:     &deadline,
		},
		{
			TaskNo:       "MTSEED00000002",
			OwnerID:      publisherID,
			Title:        "旅行 Vlog 互动评论",
			TaskType:     constants.TaskTypeComment,
			VideoURL:     "https://video.example.com/watch/demo-travel-vlog",
			Requirements: "围绕视频中的景点谈观后感，带上目的地名称。",
			UnitPrice:    models.NewMoneyFromDecimal(decimal.NewFromFloat(1.80)),
			Quantity:     5,
			Status:       constants.TaskStatusInProgress,
			PublishedAt:  now,
		},
	}

	for _, task := range tasks {
		var existing models.Task
		if err := models.DB.Where("task_no = ?", task.TaskNo).First(&existing).Error; err == nil {
			stdLog.Printf("Task already exists: %s", task.TaskNo)
			continue
		}
		if err := models.DB.Create(&task).Error; err != nil {
			stdLog.Printf("Failed to create task %s: %v", task.TaskNo, err)
			continue
		}

		// 按数量铺开待领取子订单
		subOrders := make([]models.SubOrder, 0, task.Quantity)
		for seq := 1; seq <= task.Quantity; seq++ {
			subOrders = append(subOrders, models.SubOrder{
				SubOrderNo: fmt.Sprintf("%s-%02d", task.TaskNo, seq),
				TaskID:     task.ID,
				Seq:        seq,
				Status:     constants.SubOrderStatusPending,
			})
		}
		if err := models.DB.Create(&subOrders).Error; err != nil {
			stdLog.Printf("Failed to create sub orders for %s: %v", task.TaskNo, err)
			continue
		}
		stdLog.Printf("Created task %s with %d sub orders", task.TaskNo, task.Quantity)
	}

	fmt.Println("\n✅ Demo data created successfully!")
	fmt.Println("Summary:")
	fmt.Println("- 1 Publisher (publisher@example.com)")
	fmt.Println("- 2 Commenters (commenter1/commenter2@example.com)")
	fmt.Printf("- 2 Tasks with pending sub orders (password: %s)\n", demoPassword)
}
