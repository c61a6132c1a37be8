package app

import (
	"context"
	"errors"
	"os/signal"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const defaultStopTimeout = 10 * time.Second

// Service 可独立启停的进程内服务
type Service interface {
	Name() string
	// Start 阻塞运行，ctx 取消或 Stop 后返回
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
}

// Runner 并发运行一组服务
// 任一服务退出即停止全部服务，随后逆序执行收尾函数
type Runner struct {
	services   []Service
	onShutdown []func()
}

// NewRunner 创建运行器
func NewRunner(services ...Service) *Runner {
	return &Runner{services: services}
}

// OnShutdown 注册收尾函数
func (r *Runner) OnShutdown(fn func()) {
	if r != nil && fn != nil {
		r.onShutdown = append(r.onShutdown, fn)
	}
}

// RunWithOptions 监听退出信号并运行
func RunWithOptions(runner *Runner, opts Options) error {
	if runner == nil {
		return errors.New("runner is nil")
	}
	opts = normalizeOptions(opts)
	ctx := context.Background()
	if len(opts.Signals) > 0 {
		var stop context.CancelFunc
		ctx, stop = signal.NotifyContext(ctx, opts.Signals...)
		defer stop()
	}
	return runner.Run(ctx, opts.ShutdownTimeout, opts.Logger)
}

// Run 运行直到 ctx 取消或某个服务退出，返回首个服务错误
func (r *Runner) Run(ctx context.Context, stopTimeout time.Duration, log *zap.SugaredLogger) error {
	if r == nil || len(r.services) == 0 {
		return errors.New("no services to run")
	}
	if log == nil {
		log = zap.NewNop().Sugar()
	}
	for _, svc := range r.services {
		if svc == nil {
			return errors.New("service is nil")
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	defer cancel()
	g, gctx := errgroup.WithContext(runCtx)

	for _, svc := range r.services {
		g.Go(func() error {
			log.Infow("service_start", "service", svc.Name())
			defer cancel()
			err := svc.Start(gctx)
			log.Infow("service_exit", "service", svc.Name(), "error", err)
			return err
		})
	}
	g.Go(func() error {
		<-gctx.Done()
		r.stopAll(stopTimeout, log)
		return nil
	})

	err := g.Wait()
	for i := len(r.onShutdown) - 1; i >= 0; i-- {
		r.onShutdown[i]()
	}
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}

func (r *Runner) stopAll(timeout time.Duration, log *zap.SugaredLogger) {
	if timeout <= 0 {
		timeout = defaultStopTimeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	for _, svc := range r.services {
		if err := svc.Stop(ctx); err != nil {
			log.Errorw("service_stop_failed", "service", svc.Name(), "error", err)
		}
	}
}
