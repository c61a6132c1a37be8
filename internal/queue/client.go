package queue

import (
	"fmt"
	"strings"

	"github.com/logiroute/internal/config"
	"github.com/logiroute/internal/constants"

	"github.com/hibiken/asynq"
)

// DefaultQueue 默认队列名称
const DefaultQueue = constants.QueueDefault

// Client 运单通知任务投递端
// 队列未启用时 inner 为空，所有投递均为空操作
type Client struct {
	inner *asynq.Client
	queue string
}

// NewClient 创建队列客户端
func NewClient(cfg *config.QueueConfig) (*Client, error) {
	c := &Client{queue: DefaultQueue}
	if cfg == nil || !cfg.Enabled {
		return c, nil
	}
	c.inner = asynq.NewClient(RedisOpt(cfg))
	return c, nil
}

// Enabled 判断是否启用
func (c *Client) Enabled() bool {
	return c != nil && c.inner != nil
}

// Close 关闭客户端
func (c *Client) Close() error {
	if !c.Enabled() {
		return nil
	}
	return c.inner.Close()
}

// EnqueueShipmentStatus 推送运单状态通知任务
// 通知只投递一次，失败不重试
func (c *Client) EnqueueShipmentStatus(payload ShipmentStatusPayload, opts ...asynq.Option) error {
	if !c.Enabled() {
		return nil
	}
	task, err := NewShipmentStatusTask(payload)
	if err != nil {
		return err
	}
	base := []asynq.Option{asynq.Queue(c.queue), asynq.MaxRetry(0)}
	if _, err := c.inner.Enqueue(task, append(base, opts...)...); err != nil {
		return fmt.Errorf("enqueue %s for shipment %d: %w", TaskShipmentStatusNotify, payload.ShipmentID, err)
	}
	return nil
}

// ServerConfig 生成 worker 端配置
func ServerConfig(cfg *config.QueueConfig) asynq.Config {
	serverCfg := asynq.Config{
		Concurrency: 5,
		Queues:      map[string]int{DefaultQueue: 1},
	}
	if cfg == nil {
		return serverCfg
	}
	if cfg.Concurrency > 0 {
		serverCfg.Concurrency = cfg.Concurrency
	}
	if len(cfg.Queues) > 0 {
		serverCfg.Queues = cfg.Queues
	}
	return serverCfg
}

// RedisOpt 队列使用的 Redis 连接参数
func RedisOpt(cfg *config.QueueConfig) asynq.RedisClientOpt {
	opt := asynq.RedisClientOpt{Addr: "127.0.0.1:6379"}
	if cfg == nil {
		return opt
	}
	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	opt.Addr = fmt.Sprintf("%s:%d", host, port)
	opt.Password = cfg.Password
	opt.DB = cfg.DB
	return opt
}
