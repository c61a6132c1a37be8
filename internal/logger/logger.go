package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logDirName     = "logs"
	logFileName    = "logiroute.log"
	maxSizeMB      = 100
	maxBackups     = 7
	maxAgeDays     = 30
	modeDebug      = "debug"
	requestIDField = "request_id"
)

// Options 日志输出配置，零值字段取默认
type Options struct {
	Level      string
	Dir        string
	Filename   string
	MaxSizeMB  int
	MaxBackups int
	MaxAgeDays int
	Compress   bool
}

// L 当前全局日志实例，Init 之前为 nil
var L *zap.Logger

var fallback atomic.Pointer[zap.Logger]

// Init 构建日志并替换 zap 全局实例
func Init(mode string, opts Options) *zap.Logger {
	L = New(mode, opts)
	zap.ReplaceGlobals(L)
	return L
}

// New 按运行模式创建日志
// debug 输出彩色控制台，其他模式写 JSON 到滚动文件
func New(mode string, opts Options) *zap.Logger {
	debug := strings.EqualFold(strings.TrimSpace(mode), modeDebug)
	level := resolveLevel(opts.Level, debug)

	if debug {
		enc := encoderConfig()
		enc.EncodeLevel = zapcore.CapitalColorLevelEncoder
		return build(zapcore.NewConsoleEncoder(enc), zapcore.Lock(os.Stdout), level)
	}

	sink, err := rollingFile(opts)
	if err != nil {
		fmt.Fprintf(os.Stderr, "log file unavailable, writing to stdout: %v\n", err)
		sink = zapcore.Lock(os.Stdout)
	}
	return build(zapcore.NewJSONEncoder(encoderConfig()), sink, level)
}

func resolveLevel(raw string, debug bool) zapcore.Level {
	if raw = strings.TrimSpace(raw); raw != "" {
		if lvl, err := zapcore.ParseLevel(raw); err == nil {
			return lvl
		}
	}
	if debug {
		return zapcore.DebugLevel
	}
	return zapcore.InfoLevel
}

func encoderConfig() zapcore.EncoderConfig {
	enc := zap.NewProductionEncoderConfig()
	enc.TimeKey = "time"
	enc.MessageKey = "event"
	enc.EncodeTime = zapcore.ISO8601TimeEncoder
	enc.EncodeDuration = zapcore.MillisDurationEncoder
	enc.EncodeLevel = zapcore.LowercaseLevelEncoder
	enc.EncodeCaller = zapcore.ShortCallerEncoder
	return enc
}

func build(enc zapcore.Encoder, sink zapcore.WriteSyncer, level zapcore.Level) *zap.Logger {
	core := zapcore.NewCore(enc, sink, zap.NewAtomicLevelAt(level))
	return zap.New(core, zap.AddCaller(), zap.AddCallerSkip(1))
}

func rollingFile(opts Options) (zapcore.WriteSyncer, error) {
	path, err := logFilePath(opts)
	if err != nil {
		return nil, err
	}
	return zapcore.AddSync(&lumberjack.Logger{
		Filename:   path,
		MaxSize:    orDefault(opts.MaxSizeMB, maxSizeMB),
		MaxBackups: orDefault(opts.MaxBackups, maxBackups),
		MaxAge:     orDefault(opts.MaxAgeDays, maxAgeDays),
		Compress:   opts.Compress,
	}), nil
}

// logFilePath 解析日志文件路径并确认可写
func logFilePath(opts Options) (string, error) {
	dir := strings.TrimSpace(opts.Dir)
	if dir == "" {
		wd, err := os.Getwd()
		if err != nil {
			return "", fmt.Errorf("get working dir: %w", err)
		}
		dir = filepath.Join(wd, logDirName)
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("mkdir %s: %w", dir, err)
	}
	name := strings.TrimSpace(opts.Filename)
	if name == "" {
		name = logFileName
	}
	path := filepath.Join(dir, name)
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	return path, f.Close()
}

func orDefault(v, def int) int {
	if v > 0 {
		return v
	}
	return def
}

// Z 返回全局日志，未初始化时返回 info 级控制台日志
func Z() *zap.Logger {
	if L != nil {
		return L
	}
	if l := fallback.Load(); l != nil {
		return l
	}
	l := build(zapcore.NewConsoleEncoder(encoderConfig()), zapcore.Lock(os.Stdout), zapcore.InfoLevel)
	if fallback.CompareAndSwap(nil, l) {
		return l
	}
	return fallback.Load()
}

// S 全局 SugaredLogger
func S() *zap.SugaredLogger {
	return Z().Sugar()
}

// StdLogger 供启动阶段 Fatalf / Printf 使用
func StdLogger() *log.Logger {
	return zap.NewStdLog(Z())
}

// WithRequestID 附带请求 ID
func WithRequestID(requestID string) *zap.SugaredLogger {
	if requestID == "" {
		return S()
	}
	return S().With(requestIDField, requestID)
}

func Debugw(event string, kv ...any) { S().Debugw(event, kv...) }

func Infow(event string, kv ...any) { S().Infow(event, kv...) }

func Warnw(event string, kv ...any) { S().Warnw(event, kv...) }

func Errorw(event string, kv ...any) { S().Errorw(event, kv...) }
