// Package config 提供 TOML 配置加载、.env 与环境变量覆盖、配置校验
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config 服务配置
type Config struct {
	// 服务基础信息
	Server ServerConfig `mapstructure:"server"`
	// HTTP 服务配置
	HTTP HTTPConfig `mapstructure:"http"`
	// gRPC 健康检查服务配置
	GRPC GRPCConfig `mapstructure:"grpc"`
	// 数据库配置
	Database DatabaseConfig `mapstructure:"database"`
	// Redis 配置
	Redis RedisConfig `mapstructure:"redis"`
	// Kafka 配置
	Kafka KafkaConfig `mapstructure:"kafka"`
	// 日志配置
	Logger LoggerConfig `mapstructure:"logger"`
	// 指标配置
	Metrics MetricsConfig `mapstructure:"metrics"`
	// 限流配置
	RateLimit RateLimitConfig `mapstructure:"ratelimit"`
	// 需求追踪配置
	Demand DemandConfig `mapstructure:"demand"`
	// 通知配置
	Notification NotificationConfig `mapstructure:"notification"`
	// 商品目录配置
	Catalog CatalogConfig `mapstructure:"catalog"`
}

// ServerConfig 服务基础信息
type ServerConfig struct {
	Name string `mapstructure:"name"`
	// 环境：dev, staging, prod
	Environment string `mapstructure:"environment"`
}

// HTTPConfig HTTP 服务配置
type HTTPConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

// GRPCConfig gRPC 服务配置
type GRPCConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    int    `mapstructure:"port"`
}

// DatabaseConfig 数据库配置
type DatabaseConfig struct {
	// 驱动：mysql, postgres, sqlite
	Driver string `mapstructure:"driver"`
	// 数据源名称
	DSN string `mapstructure:"dsn"`
	// 最大连接数
	MaxOpenConns int `mapstructure:"max_open_conns"`
	// 最大空闲连接数
	MaxIdleConns int `mapstructure:"max_idle_conns"`
	// 连接最大生命周期
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	// 是否输出 SQL 日志
	LogEnabled bool `mapstructure:"log_enabled"`
	// 慢查询阈值
	SlowQueryThreshold time.Duration `mapstructure:"slow_query_threshold"`
	// 启动时自动迁移表结构
	AutoMigrate bool `mapstructure:"auto_migrate"`
}

// RedisConfig Redis 配置，Addr 为空表示不启用
type RedisConfig struct {
	Addr         string        `mapstructure:"addr"`
	Password     string        `mapstructure:"password"`
	DB           int           `mapstructure:"db"`
	PoolSize     int           `mapstructure:"pool_size"`
	DialTimeout  time.Duration `mapstructure:"dial_timeout"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// Enabled 是否配置了 Redis
func (c RedisConfig) Enabled() bool { return c.Addr != "" }

// KafkaConfig Kafka 配置，Brokers 为空表示使用进程内事件通道
type KafkaConfig struct {
	Brokers         []string      `mapstructure:"brokers"`
	GroupID         string        `mapstructure:"group_id"`
	OrderTopic      string        `mapstructure:"order_topic"`
	DeadLetterTopic string        `mapstructure:"dead_letter_topic"`
	SessionTimeout  time.Duration `mapstructure:"session_timeout"`
	MaxRetries      int           `mapstructure:"max_retries"`
	RetryBackoff    time.Duration `mapstructure:"retry_backoff"`
}

// Enabled 是否配置了 Kafka
func (c KafkaConfig) Enabled() bool { return len(c.Brokers) > 0 }

// LoggerConfig 日志配置
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	FilePath   string `mapstructure:"file_path"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
	WithCaller bool   `mapstructure:"with_caller"`
}

// MetricsConfig 指标配置
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Port    int    `mapstructure:"port"`
	Path    string `mapstructure:"path"`
}

// RateLimitConfig 限流配置，作用于管理接口与通知写接口
type RateLimitConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// 每秒请求数
	QPS int `mapstructure:"qps"`
	// 突发容量
	Burst int `mapstructure:"burst"`
}

// DemandConfig 需求追踪配置
type DemandConfig struct {
	Enabled bool `mapstructure:"enabled"`
	// 触发通知的最小销量
	Threshold int `mapstructure:"threshold"`
	// 定时检查周期
	CheckInterval time.Duration `mapstructure:"check_interval"`
	// 统计窗口
	TrackingWindow time.Duration `mapstructure:"tracking_window"`
	// 去重窗口
	DedupWindow time.Duration `mapstructure:"dedup_window"`
	// 下单后触发检查的延迟
	TriggerDelay time.Duration `mapstructure:"trigger_delay"`
	// 多副本互斥租约时长
	LockTTL time.Duration `mapstructure:"lock_ttl"`
	// demand-stats 报告缓存时长，仅在配置 Redis 时生效
	StatsCacheTTL time.Duration `mapstructure:"stats_cache_ttl"`
}

// NotificationConfig 通知配置
type NotificationConfig struct {
	// 保留时长，超过即可被清理
	Retention time.Duration `mapstructure:"retention"`
	// 清理任务周期
	SweepInterval time.Duration `mapstructure:"sweep_interval"`
	// 新通知推送的 webhook 地址，为空则不推送
	WebhookURL string `mapstructure:"webhook_url"`
	// webhook 请求超时
	WebhookTimeout time.Duration `mapstructure:"webhook_timeout"`
}

// CatalogConfig 商品目录配置
type CatalogConfig struct {
	// 允许的分类列表，为空表示不校验
	Categories []string `mapstructure:"categories"`
}

// Load 从 TOML 文件加载配置，支持 .env 与 APP_ 前缀环境变量覆盖
func Load(configPath string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
		v.SetConfigType("toml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	v.SetEnvPrefix("APP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return &cfg, nil
}

// Validate 验证配置的有效性
func (c *Config) Validate() error {
	if c.Server.Name == "" {
		return errors.New("server.name is required")
	}
	if c.Server.Environment == "" {
		c.Server.Environment = "dev"
	}
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("invalid HTTP port: %d", c.HTTP.Port)
	}
	if c.GRPC.Enabled && (c.GRPC.Port <= 0 || c.GRPC.Port > 65535) {
		return fmt.Errorf("invalid gRPC port: %d", c.GRPC.Port)
	}
	if c.Database.DSN == "" {
		return fmt.Errorf("database DSN is required for %s driver", c.Database.Driver)
	}
	if c.Demand.Threshold <= 0 {
		return fmt.Errorf("demand.threshold must be positive, got %d", c.Demand.Threshold)
	}
	if c.Demand.CheckInterval <= 0 || c.Demand.TrackingWindow <= 0 || c.Demand.DedupWindow <= 0 {
		return errors.New("demand intervals and windows must be positive")
	}
	if c.Notification.Retention <= 0 || c.Notification.SweepInterval <= 0 {
		return errors.New("notification retention and sweep_interval must be positive")
	}
	if c.Kafka.Enabled() && c.Kafka.OrderTopic == "" {
		return errors.New("kafka.order_topic is required when brokers are set")
	}
	return nil
}

// setDefaults 设置默认值
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.name", "storefront")
	v.SetDefault("server.environment", "dev")

	v.SetDefault("http.host", "0.0.0.0")
	v.SetDefault("http.port", 5000)
	v.SetDefault("http.read_timeout", "30s")
	v.SetDefault("http.write_timeout", "30s")
	v.SetDefault("http.shutdown_timeout", "10s")

	v.SetDefault("grpc.enabled", true)
	v.SetDefault("grpc.host", "0.0.0.0")
	v.SetDefault("grpc.port", 50051)

	v.SetDefault("database.driver", "mysql")
	v.SetDefault("database.dsn", "")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", "5m")
	v.SetDefault("database.log_enabled", false)
	v.SetDefault("database.slow_query_threshold", "1s")
	v.SetDefault("database.auto_migrate", false)

	v.SetDefault("redis.addr", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.pool_size", 10)
	v.SetDefault("redis.dial_timeout", "5s")
	v.SetDefault("redis.read_timeout", "3s")
	v.SetDefault("redis.write_timeout", "3s")

	v.SetDefault("kafka.brokers", []string{})
	v.SetDefault("kafka.group_id", "storefront-demand")
	v.SetDefault("kafka.order_topic", "storefront.order.placed")
	v.SetDefault("kafka.dead_letter_topic", "storefront.order.placed.dlq")
	v.SetDefault("kafka.session_timeout", "10s")
	v.SetDefault("kafka.max_retries", 3)
	v.SetDefault("kafka.retry_backoff", "100ms")

	v.SetDefault("logger.level", "info")
	v.SetDefault("logger.format", "json")
	v.SetDefault("logger.output", "stdout")
	v.SetDefault("logger.file_path", "logs/storefront.log")
	v.SetDefault("logger.max_size", 100)
	v.SetDefault("logger.max_backups", 10)
	v.SetDefault("logger.max_age", 30)
	v.SetDefault("logger.compress", true)
	v.SetDefault("logger.with_caller", false)

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.port", 9090)
	v.SetDefault("metrics.path", "/metrics")

	v.SetDefault("ratelimit.enabled", true)
	v.SetDefault("ratelimit.qps", 5)
	v.SetDefault("ratelimit.burst", 10)

	v.SetDefault("demand.enabled", true)
	v.SetDefault("demand.threshold", 5)
	v.SetDefault("demand.check_interval", "1h")
	v.SetDefault("demand.tracking_window", "24h")
	v.SetDefault("demand.dedup_window", "6h")
	v.SetDefault("demand.trigger_delay", "1s")
	v.SetDefault("demand.lock_ttl", "5m")
	v.SetDefault("demand.stats_cache_ttl", "30s")

	v.SetDefault("notification.retention", "720h")
	v.SetDefault("notification.sweep_interval", "1h")
	v.SetDefault("notification.webhook_url", "")
	v.SetDefault("notification.webhook_timeout", "10s")

	v.SetDefault("catalog.categories", []string{})
}
