package worker

import (
	"context"
	"errors"
	"time"

	"github.com/microtask-next/internal/config"
	"github.com/microtask-next/internal/logger"
	"github.com/microtask-next/internal/queue"

	"github.com/hibiken/asynq"
)

const defaultReleaseScanInterval = time.Minute

// Service 异步队列服务
type Service struct {
	name     string
	server   *asynq.Server
	mux      *asynq.ServeMux
	consumer *Consumer
}

// NewService 创建异步队列服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, errors.New("queue disabled")
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	opt, serverCfg := queue.BuildServerConfig(cfg)
	server := asynq.NewServer(opt, serverCfg)
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	return &Service{
		name:     "worker",
		server:   server,
		mux:      mux,
		consumer: consumer,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	if s == nil || s.name == "" {
		return "worker"
	}
	return s.name
}

// Start 启动服务
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil || s.mux == nil {
		return errors.New("worker not initialized")
	}
	if s.consumer != nil && s.consumer.SubOrderService != nil {
		go s.runReleaseScanLoop(ctx)
	}
	return s.server.Run(s.mux)
}

// Stop 停止服务
func (s *Service) Stop(ctx context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	_ = ctx
	s.server.Shutdown()
	return nil
}

// runReleaseScanLoop 周期扫描超时领取
// 延迟队列是主路径，周期扫描兜底队列消息丢失或 worker 重启的情况。
func (s *Service) runReleaseScanLoop(ctx context.Context) {
	if s == nil || s.consumer == nil || s.consumer.SubOrderService == nil {
		return
	}
	interval := defaultReleaseScanInterval
	if s.consumer.Config != nil && s.consumer.Config.Task.ReleaseScanIntervalSecs > 0 {
		interval = time.Duration(s.consumer.Config.Task.ReleaseScanIntervalSecs) * time.Second
	}

	runOnce := func() {
		released, err := s.consumer.SubOrderService.ReleaseStaleClaims(0)
		if err != nil {
			logger.Warnw("worker_release_scan_failed", "error", err)
			return
		}
		if released > 0 {
			logger.Infow("worker_release_scan_done", "released", released)
		}
	}
	runOnce()

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			runOnce()
		}
	}
}
