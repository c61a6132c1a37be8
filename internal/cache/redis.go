package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"sync/atomic"
	"time"

	"github.com/logiroute/internal/config"
	"github.com/logiroute/internal/constants"

	"github.com/redis/go-redis/v9"
)

const pingTimeout = 3 * time.Second

// store 一个已连接的 Redis 客户端及其键前缀
type store struct {
	client *redis.Client
	prefix string
}

// 未启用或连接失败时为 nil，所有读写退化为空操作
var active atomic.Pointer[store]

// InitRedis 连接 Redis，失败时保持缓存禁用并返回错误
func InitRedis(cfg *config.RedisConfig) error {
	if old := active.Swap(nil); old != nil {
		_ = old.client.Close()
	}
	if cfg == nil || !cfg.Enabled {
		return nil
	}

	host := strings.TrimSpace(cfg.Host)
	if host == "" {
		host = "127.0.0.1"
	}
	port := cfg.Port
	if port <= 0 {
		port = 6379
	}
	client := redis.NewClient(&redis.Options{
		Addr:     host + ":" + strconv.Itoa(port),
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), pingTimeout)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return fmt.Errorf("ping redis %s: %w", client.Options().Addr, err)
	}

	prefix := strings.TrimSpace(cfg.Prefix)
	if prefix == "" {
		prefix = constants.RedisPrefixDefault
	}
	active.Store(&store{client: client, prefix: prefix})
	return nil
}

// Close 断开 Redis
func Close() error {
	s := active.Swap(nil)
	if s == nil {
		return nil
	}
	return s.client.Close()
}

// Enabled 缓存是否可用
func Enabled() bool {
	return active.Load() != nil
}

// Client 返回底层客户端，供限流脚本使用；未启用时为 nil
func Client() *redis.Client {
	if s := active.Load(); s != nil {
		return s.client
	}
	return nil
}

func (s *store) key(parts ...string) string {
	return s.prefix + ":" + strings.Join(parts, ":")
}

func loadJSON(ctx context.Context, dest any, parts ...string) (bool, error) {
	s := active.Load()
	if s == nil {
		return false, nil
	}
	raw, err := s.client.Get(ctx, s.key(parts...)).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return false, fmt.Errorf("decode cache entry %s: %w", s.key(parts...), err)
	}
	return true, nil
}

func storeJSON(ctx context.Context, value any, ttl time.Duration, parts ...string) error {
	s := active.Load()
	if s == nil {
		return nil
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return s.client.Set(ctx, s.key(parts...), raw, ttl).Err()
}

func evict(ctx context.Context, parts ...string) error {
	s := active.Load()
	if s == nil {
		return nil
	}
	return s.client.Del(ctx, s.key(parts...)).Err()
}
