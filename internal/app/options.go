package app

import (
	"os"
	"slices"
	"time"

	"github.com/logiroute/internal/config"
	"github.com/logiroute/internal/logger"

	"go.uber.org/zap"
)

// 运行模式：all 同时运行 HTTP 与通知消费，api / worker 各自单独运行
const (
	ModeAll    = "all"
	ModeAPI    = "api"
	ModeWorker = "worker"
)

var knownModes = []string{ModeAll, ModeAPI, ModeWorker}

// Options 启动参数
type Options struct {
	Config          *config.Config
	Mode            string
	Logger          *zap.SugaredLogger
	Signals         []os.Signal
	ShutdownTimeout time.Duration
}

func normalizeOptions(opts Options) Options {
	if opts.Mode == "" {
		opts.Mode = ModeAll
	}
	if opts.Logger == nil {
		opts.Logger = logger.S()
	}
	if opts.ShutdownTimeout <= 0 {
		opts.ShutdownTimeout = defaultStopTimeout
	}
	return opts
}

func isKnownMode(mode string) bool {
	return slices.Contains(knownModes, mode)
}
