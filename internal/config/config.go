package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const dateLayout = "2006-01-02"

// Config 服务配置
type Config struct {
	Server ServerConfig `yaml:"server"`
	Data   DataConfig   `yaml:"data"`
	Bounds BoundsConfig `yaml:"bounds"`
	Redis  RedisConfig  `yaml:"redis"`
}

// ServerConfig HTTP 服务配置
type ServerConfig struct {
	Port         string   `yaml:"port"`
	Mode         string   `yaml:"mode"` // debug, release, test
	AllowOrigins []string `yaml:"allow_origins"`
}

// DataConfig 静态数据源配置
type DataConfig struct {
	Dir    string            `yaml:"dir"`    // 静态文件目录
	Bundle string            `yaml:"bundle"` // SQLite 数据包，设置后优先于 Dir
	Files  map[string]string `yaml:"files"`  // source key -> 文件名
}

// BoundsConfig 请求日期约束和黄金历史窗口
type BoundsConfig struct {
	MinDate         string `yaml:"min_date"`
	MaxDate         string `yaml:"max_date"`
	MaxSpanDays     int    `yaml:"max_span_days"`
	HistoricalStart string `yaml:"historical_start"`
	HistoricalEnd   string `yaml:"historical_end"`
}

// RedisConfig 响应缓存配置，Addr 为空时使用进程内缓存
type RedisConfig struct {
	Addr     string        `yaml:"addr"`
	Password string        `yaml:"password"`
	DB       int           `yaml:"db"`
	TTL      time.Duration `yaml:"ttl"`
	// MaxEntries 进程内缓存容量上限，仅在未配置 Redis 时生效
	MaxEntries int `yaml:"max_entries"`
}

// Default 默认配置
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Port:         "8080",
			Mode:         "release",
			AllowOrigins: []string{"http://localhost:5173", "http://localhost:3000"},
		},
		Data: DataConfig{
			Dir:   "client/public",
			Files: map[string]string{},
		},
		Bounds: BoundsConfig{
			MinDate:         "2025-08-09",
			MaxDate:         "2029-12-31",
			MaxSpanDays:     365,
			HistoricalStart: "2025-08-13",
			HistoricalEnd:   "2025-09-12",
		},
		Redis: RedisConfig{
			TTL:        24 * time.Hour,
			MaxEntries: 1024,
		},
	}
}

// Load 加载配置：默认值 -> YAML 文件（可选）-> 环境变量
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func applyEnvOverrides(cfg *Config) {
	cfg.Server.Port = getEnvString("PORT", cfg.Server.Port)
	cfg.Server.Mode = getEnvString("GIN_MODE", cfg.Server.Mode)
	if v := os.Getenv("CORS_ORIGINS"); v != "" {
		cfg.Server.AllowOrigins = splitList(v)
	}

	cfg.Data.Dir = getEnvString("DATA_DIR", cfg.Data.Dir)
	cfg.Data.Bundle = getEnvString("FORECAST_DB", cfg.Data.Bundle)

	cfg.Bounds.MinDate = getEnvString("MIN_DATE", cfg.Bounds.MinDate)
	cfg.Bounds.MaxDate = getEnvString("MAX_DATE", cfg.Bounds.MaxDate)
	cfg.Bounds.MaxSpanDays = getEnvInt("MAX_SPAN_DAYS", cfg.Bounds.MaxSpanDays)
	cfg.Bounds.HistoricalStart = getEnvString("GOLD_HISTORY_START", cfg.Bounds.HistoricalStart)
	cfg.Bounds.HistoricalEnd = getEnvString("GOLD_HISTORY_END", cfg.Bounds.HistoricalEnd)

	cfg.Redis.Addr = getEnvString("REDIS_ADDR", cfg.Redis.Addr)
	cfg.Redis.Password = getEnvString("REDIS_PASSWORD", cfg.Redis.Password)
	cfg.Redis.DB = getEnvInt("REDIS_DB", cfg.Redis.DB)
	cfg.Redis.TTL = getEnvDuration("RESPONSE_CACHE_TTL", cfg.Redis.TTL)
	cfg.Redis.MaxEntries = getEnvInt("RESPONSE_CACHE_MAX_ENTRIES", cfg.Redis.MaxEntries)
}

// Validate 检查日期格式与区间关系
func (c *Config) Validate() error {
	b := c.Bounds
	dates := map[string]string{
		"min_date":         b.MinDate,
		"max_date":         b.MaxDate,
		"historical_start": b.HistoricalStart,
		"historical_end":   b.HistoricalEnd,
	}
	parsed := make(map[string]time.Time, len(dates))
	for name, v := range dates {
		t, err := time.Parse(dateLayout, v)
		if err != nil {
			return fmt.Errorf("invalid %s %q: %w", name, v, err)
		}
		parsed[name] = t
	}

	if !parsed["min_date"].Before(parsed["max_date"]) {
		return fmt.Errorf("min_date %s must be before max_date %s", b.MinDate, b.MaxDate)
	}
	if parsed["historical_end"].Before(parsed["historical_start"]) {
		return fmt.Errorf("historical_end %s is before historical_start %s", b.HistoricalEnd, b.HistoricalStart)
	}
	if b.MaxSpanDays <= 0 {
		return fmt.Errorf("max_span_days must be positive, got %d", b.MaxSpanDays)
	}
	if c.Data.Dir == "" && c.Data.Bundle == "" {
		return fmt.Errorf("either data.dir or data.bundle must be set")
	}
	if len(c.Server.AllowOrigins) == 0 {
		return fmt.Errorf("server.allow_origins must not be empty")
	}
	if c.Redis.MaxEntries <= 0 {
		return fmt.Errorf("redis max_entries must be positive, got %d", c.Redis.MaxEntries)
	}
	if c.Redis.TTL < 0 {
		return fmt.Errorf("redis ttl must not be negative")
	}
	return nil
}

// 辅助函数
func getEnvString(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if parsed, err := strconv.Atoi(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil {
			return parsed
		}
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
