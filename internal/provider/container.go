package provider

import (
	"github.com/microtask-next/internal/authz"
	"github.com/microtask-next/internal/cache"
	"github.com/microtask-next/internal/config"
	"github.com/microtask-next/internal/logger"
	"github.com/microtask-next/internal/models"
	"github.com/microtask-next/internal/queue"
	"github.com/microtask-next/internal/repository"
	"github.com/microtask-next/internal/service"
)

// Container 依赖注入容器
type Container struct {
	Config      *config.Config
	QueueClient *queue.Client

	// Repositories
	AdminRepo     repository.AdminRepository
	UserRepo      repository.UserRepository
	TaskRepo      repository.TaskRepository
	SubOrderRepo  repository.SubOrderRepository
	EarningRepo   repository.EarningRepository
	DashboardRepo repository.DashboardRepository

	// Services
	AuthzService     *authz.Service
	AuthService      *service.AuthService
	UserAuthService  *service.UserAuthService
	CaptchaService   *service.CaptchaService
	UploadService    *service.UploadService
	TaskService      *service.TaskService
	SubOrderService  *service.SubOrderService
	ReviewService    *service.ReviewService
	EarningService   *service.EarningService
	DashboardService *service.DashboardService
}

// NewContainer 初始化容器
func NewContainer(cfg *config.Config) *Container {
	// 初始化缓存
	if err := cache.InitRedis(&cfg.Redis); err != nil {
		logger.Warnw("provider_init_redis_failed", "error", err)
	}

	// 初始化队列客户端
	var queueClient *queue.Client
	if cfg.Queue.Enabled {
		qc, err := queue.NewClient(&cfg.Queue)
		if err != nil {
			logger.Errorw("provider_init_queue_client_failed", "error", err)
		} else {
			queueClient = qc
		}
	}

	c := &Container{
		Config:      cfg,
		QueueClient: queueClient,
	}

	// 1. 初始化 Repositories
	c.initRepositories()

	// 2. 初始化 Services
	c.initServices()

	return c
}

func (c *Container) initRepositories() {
	db := models.DB
	c.AdminRepo = repository.NewAdminRepository(db)
	c.UserRepo = repository.NewUserRepository(db)
	c.TaskRepo = repository.NewTaskRepository(db)
	c.SubOrderRepo = repository.NewSubOrderRepository(db)
	c.EarningRepo = repository.NewEarningRepository(db)
	c.DashboardRepo = repository.NewDashboardRepository(db)
}

func (c *Container) initServices() {
	authzService, err := authz.NewService(models.DB)
	if err != nil {
		logger.Errorw("provider_init_authz_failed", "error", err)
		panic(err)
	}
	c.AuthzService = authzService
	if err := c.AuthzService.BootstrapBuiltinRoles(); err != nil {
		logger.Errorw("provider_bootstrap_builtin_roles_failed", "error", err)
		panic(err)
	}

	c.CaptchaService = service.NewCaptchaService(c.Config.Captcha)
	c.AuthService = service.NewAuthService(c.Config, c.AdminRepo)
	c.UserAuthService = service.NewUserAuthService(c.Config, c.UserRepo)
	c.UploadService = service.NewUploadService(c.Config)
	c.TaskService = service.NewTaskService(c.Config, c.TaskRepo, c.SubOrderRepo)
	c.SubOrderService = service.NewSubOrderService(c.Config, c.TaskRepo, c.SubOrderRepo, c.UserRepo, c.QueueClient)
	c.EarningService = service.NewEarningService(c.EarningRepo)
	c.ReviewService = service.NewReviewService(c.TaskRepo, c.SubOrderRepo, c.EarningService)
	c.DashboardService = service.NewDashboardService(c.DashboardRepo, c.SubOrderService)
}
