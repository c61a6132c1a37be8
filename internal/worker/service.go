package worker

import (
	"context"
	"errors"

	"github.com/logiroute/internal/config"
	"github.com/logiroute/internal/logger"
	"github.com/logiroute/internal/queue"

	"github.com/hibiken/asynq"
)

// ErrQueueDisabled 队列未启用时无法启动 worker
var ErrQueueDisabled = errors.New("queue disabled")

// Service 运单通知 worker，作为 app.Runner 的一个服务运行
type Service struct {
	server *asynq.Server
	mux    *asynq.ServeMux
}

// NewService 创建 worker 服务
func NewService(cfg *config.QueueConfig, consumer *Consumer) (*Service, error) {
	if cfg == nil || !cfg.Enabled {
		return nil, ErrQueueDisabled
	}
	if consumer == nil {
		return nil, errors.New("consumer is nil")
	}
	mux := asynq.NewServeMux()
	consumer.Register(mux)
	serverCfg := queue.ServerConfig(cfg)
	serverCfg.Logger = logger.S()
	return &Service{
		server: asynq.NewServer(queue.RedisOpt(cfg), serverCfg),
		mux:    mux,
	}, nil
}

// Name 服务名称
func (s *Service) Name() string {
	return "worker"
}

// Start 启动消费，阻塞直到 ctx 结束；信号由 Runner 统一处理
func (s *Service) Start(ctx context.Context) error {
	if s == nil || s.server == nil {
		return errors.New("worker not initialized")
	}
	if err := s.server.Start(s.mux); err != nil {
		return err
	}
	logger.Infow("worker_started")
	<-ctx.Done()
	return nil
}

// Stop 停止消费并等待处理中的任务结束
func (s *Service) Stop(context.Context) error {
	if s == nil || s.server == nil {
		return nil
	}
	s.server.Shutdown()
	return nil
}
