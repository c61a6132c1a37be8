package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/logiroute/internal/logger"

	"github.com/spf13/viper"
)

// Config 应用配置结构
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Log      LogConfig      `mapstructure:"log"`
	Database DatabaseConfig `mapstructure:"database"`
	JWT      JWTConfig      `mapstructure:"jwt"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Queue    QueueConfig    `mapstructure:"queue"`
	CORS     CORSConfig     `mapstructure:"cors"`
	Security SecurityConfig `mapstructure:"security"`
	Captcha  CaptchaConfig  `mapstructure:"captcha"`
	Shipment ShipmentConfig `mapstructure:"shipment"`
}

// ServerConfig 服务器配置
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port string `mapstructure:"port"`
	Mode string `mapstructure:"mode"` // debug / release
}

// Address 监听地址
func (c ServerConfig) Address() string {
	return c.Host + ":" + c.Port
}

// LogConfig 日志配置
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Dir        string `mapstructure:"dir"`
	Filename   string `mapstructure:"filename"`
	MaxSizeMB  int    `mapstructure:"max_size_mb"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAgeDays int    `mapstructure:"max_age_days"`
	Compress   bool   `mapstructure:"compress"`
}

// ToLoggerOptions 转换为 logger 配置
func (c LogConfig) ToLoggerOptions() logger.Options {
	return logger.Options{
		Level:      c.Level,
		Dir:        c.Dir,
		Filename:   c.Filename,
		MaxSizeMB:  c.MaxSizeMB,
		MaxBackups: c.MaxBackups,
		MaxAgeDays: c.MaxAgeDays,
		Compress:   c.Compress,
	}
}

// DatabasePoolConfig 数据库连接池配置
type DatabasePoolConfig struct {
	MaxOpenConns           int `mapstructure:"max_open_conns"`
	MaxIdleConns           int `mapstructure:"max_idle_conns"`
	ConnMaxLifetimeSeconds int `mapstructure:"conn_max_lifetime_seconds"`
	ConnMaxIdleTimeSeconds int `mapstructure:"conn_max_idle_time_seconds"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	Driver string             `mapstructure:"driver"` // sqlite / postgres
	DSN    string             `mapstructure:"dsn"`
	Pool   DatabasePoolConfig `mapstructure:"pool"`
}

// JWTConfig 会话令牌配置
type JWTConfig struct {
	SecretKey   string `mapstructure:"secret"`
	ExpireHours int    `mapstructure:"expire_hours"`
	Issuer      string `mapstructure:"issuer"`
}

// RedisConfig Redis 配置
type RedisConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

// QueueConfig 异步队列配置
type QueueConfig struct {
	Enabled     bool           `mapstructure:"enabled"`
	Host        string         `mapstructure:"host"`
	Port        int            `mapstructure:"port"`
	Password    string         `mapstructure:"password"`
	DB          int            `mapstructure:"db"`
	Concurrency int            `mapstructure:"concurrency"`
	Queues      map[string]int `mapstructure:"queues"`
}

// CORSConfig 跨域配置
type CORSConfig struct {
	AllowedOrigins   []string `mapstructure:"allowed_origins"`
	AllowedMethods   []string `mapstructure:"allowed_methods"`
	AllowedHeaders   []string `mapstructure:"allowed_headers"`
	AllowCredentials bool     `mapstructure:"allow_credentials"`
	MaxAge           int      `mapstructure:"max_age"`
}

// SecurityConfig 安全配置
type SecurityConfig struct {
	LoginRateLimit RateLimitConfig      `mapstructure:"login_rate_limit"`
	TrackRateLimit RateLimitConfig      `mapstructure:"track_rate_limit"`
	PasswordPolicy PasswordPolicyConfig `mapstructure:"password_policy"`
}

// RateLimitConfig 限流配置
type RateLimitConfig struct {
	WindowSeconds int `mapstructure:"window_seconds"`
	MaxAttempts   int `mapstructure:"max_attempts"`
	BlockSeconds  int `mapstructure:"block_seconds"`
}

// PasswordPolicyConfig 密码策略配置
type PasswordPolicyConfig struct {
	MinLength      int  `mapstructure:"min_length"`
	RequireUpper   bool `mapstructure:"require_upper"`
	RequireLower   bool `mapstructure:"require_lower"`
	RequireNumber  bool `mapstructure:"require_number"`
	RequireSpecial bool `mapstructure:"require_special"`
}

// CaptchaConfig 图片验证码配置
type CaptchaConfig struct {
	Scenes CaptchaSceneConfig `mapstructure:"scenes"`
	Image  CaptchaImageConfig `mapstructure:"image"`
}

// CaptchaSceneConfig 验证码场景开关
type CaptchaSceneConfig struct {
	Login  bool `mapstructure:"login"`
	Signup bool `mapstructure:"signup"`
}

// CaptchaImageConfig 图片验证码参数
type CaptchaImageConfig struct {
	Length        int `mapstructure:"length"`
	Width         int `mapstructure:"width"`
	Height        int `mapstructure:"height"`
	NoiseCount    int `mapstructure:"noise_count"`
	ShowLine      int `mapstructure:"show_line"`
	ExpireSeconds int `mapstructure:"expire_seconds"`
	MaxStore      int `mapstructure:"max_store"`
}

// ShipmentConfig 运单配置
type ShipmentConfig struct {
	TrackingPrefix     string `mapstructure:"tracking_prefix"`
	TrackingDigits     int    `mapstructure:"tracking_digits"`
	TrackingTTLSeconds int    `mapstructure:"tracking_ttl_seconds"`
	NotifyStatus       bool   `mapstructure:"notify_status"`
}

// 配置文件查找目录：工作目录、etc、以及从 cmd/* 启动时的上级目录
var searchPaths = []string{".", "./etc", "../"}

// Load 读取 config.yml，文件缺失时使用环境变量与默认值，解析失败直接退出
func Load() *Config {
	cfg, err := LoadFrom(searchPaths...)
	if err != nil {
		logger.Errorw("config_unmarshal_failed", "error", err)
		panic(err)
	}
	return cfg
}

// LoadFrom 在指定目录查找 config.yml 并解析
// 环境变量按 section_key 覆盖，如 SERVER_PORT、SHIPMENT_TRACKING_TTL_SECONDS
func LoadFrom(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	switch err := v.ReadInConfig(); {
	case err == nil:
		logger.Infow("config_file_loaded", "file", v.ConfigFileUsed())
	case errors.As(err, new(viper.ConfigFileNotFoundError)):
		logger.Warnw("config_file_missing", "fallback", "env_or_defaults")
	default:
		return nil, fmt.Errorf("read config: %w", err)
	}

	cfg := new(Config)
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	return cfg, nil
}

var defaults = map[string]any{
	"server.host": "0.0.0.0",
	"server.port": "8080",
	"server.mode": "debug",

	"log.level":        "",
	"log.dir":          "",
	"log.filename":     "logiroute.log",
	"log.max_size_mb":  100,
	"log.max_backups":  7,
	"log.max_age_days": 30,
	"log.compress":     true,

	"database.driver":                          "sqlite",
	"database.dsn":                             "./db/logiroute.db",
	"database.pool.max_open_conns":             1,
	"database.pool.max_idle_conns":             1,
	"database.pool.conn_max_lifetime_seconds":  0,
	"database.pool.conn_max_idle_time_seconds": 0,

	"jwt.secret":       "change-me-in-production",
	"jwt.expire_hours": 24,
	"jwt.issuer":       "logiroute",

	"redis.enabled":  false,
	"redis.host":     "127.0.0.1",
	"redis.port":     6379,
	"redis.password": "",
	"redis.db":       0,
	"redis.prefix":   "lr",

	"queue.enabled":     false,
	"queue.host":        "127.0.0.1",
	"queue.port":        6379,
	"queue.password":    "",
	"queue.db":          1,
	"queue.concurrency": 5,
	"queue.queues":      map[string]int{"default": 10, "critical": 5},

	"cors.allowed_origins": []string{"*"},
	"cors.allowed_methods": []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
	"cors.allowed_headers": []string{
		"Content-Type", "Content-Length", "Accept-Encoding", "Accept-Language", "Authorization", "X-Request-ID",
	},
	"cors.allow_credentials": true,
	"cors.max_age":           600,

	"security.login_rate_limit.window_seconds": 300,
	"security.login_rate_limit.max_attempts":   5,
	"security.login_rate_limit.block_seconds":  900,
	"security.track_rate_limit.window_seconds": 60,
	"security.track_rate_limit.max_attempts":   60,
	"security.track_rate_limit.block_seconds":  60,
	"security.password_policy.min_length":      8,
	"security.password_policy.require_upper":   false,
	"security.password_policy.require_lower":   true,
	"security.password_policy.require_number":  true,
	"security.password_policy.require_special": false,

	"captcha.scenes.login":         false,
	"captcha.scenes.signup":        false,
	"captcha.image.length":         5,
	"captcha.image.width":          240,
	"captcha.image.height":         80,
	"captcha.image.noise_count":    2,
	"captcha.image.show_line":      2,
	"captcha.image.expire_seconds": 300,
	"captcha.image.max_store":      10240,

	"shipment.tracking_prefix":      "TN",
	"shipment.tracking_digits":      10,
	"shipment.tracking_ttl_seconds": 120,
	"shipment.notify_status":        true,
}
