package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/JoeShih716/go-mem-point/internal/app/core/adapter/out/redis"
	"github.com/JoeShih716/go-mem-point/pkg/logger"
	"github.com/JoeShih716/go-mem-point/pkg/sqldb"
)

// StoreType 點數儲存的實作
type StoreType string

const (
	StoreTypeMemory   StoreType = "memory"
	StoreTypeMySQL    StoreType = "mysql"
	StoreTypePostgres StoreType = "postgres"
	StoreTypeSQLite   StoreType = "sqlite"
	StoreTypeRedis    StoreType = "redis"
)

// 可覆寫設定檔的環境變數
const (
	EnvStoreType  = "POINT_STORE_TYPE"
	EnvDBPassword = "POINT_DB_PASSWORD"
	EnvRedisAddr  = "POINT_REDIS_ADDR"
	EnvGRPCAddr   = "POINT_GRPC_ADDR"
	EnvLogLevel   = "POINT_LOG_LEVEL"
)

type Config struct {
	Server ServerConfig  `yaml:"server"`
	Store  StoreConfig   `yaml:"store"`
	Log    logger.Config `yaml:"log"`
}

type ServerConfig struct {
	GRPCAddr        string        `yaml:"grpc_addr"`
	AdminAddr       string        `yaml:"admin_addr"` // /metrics, /healthz
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type StoreConfig struct {
	Type  StoreType    `yaml:"type"`
	SQL   sqldb.Config `yaml:"sql"`
	Redis redis.Config `yaml:"redis"`
}

// Load 讀取設定
//
// 1. 載入 .env (不存在則略過)
// 2. 讀取 YAML 設定檔 (path 不存在時使用預設值)
// 3. 環境變數覆寫
// 4. 補全預設值並檢查
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	var cfg Config
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config %s: %w", path, err)
		}
	case errors.Is(err, fs.ErrNotExist):
	default:
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnv(&cfg)
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	if v := os.Getenv(EnvStoreType); v != "" {
		cfg.Store.Type = StoreType(v)
	}
	if v := os.Getenv(EnvDBPassword); v != "" {
		cfg.Store.SQL.Password = v
	}
	if v := os.Getenv(EnvRedisAddr); v != "" {
		cfg.Store.Redis.Addr = v
	}
	if v := os.Getenv(EnvGRPCAddr); v != "" {
		cfg.Server.GRPCAddr = v
	}
	if v := os.Getenv(EnvLogLevel); v != "" {
		cfg.Log.Level = v
	}
}

func (c *Config) applyDefaults() {
	if c.Server.GRPCAddr == "" {
		c.Server.GRPCAddr = ":50051"
	}
	if c.Server.AdminAddr == "" {
		c.Server.AdminAddr = ":9090"
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Store.Type == "" {
		c.Store.Type = StoreTypeMemory
	}
	// mysql / postgres / sqlite 共用 SQL 配置，driver 跟著 store type
	switch c.Store.Type {
	case StoreTypeMySQL:
		c.Store.SQL.Driver = sqldb.DriverMySQL
	case StoreTypePostgres:
		c.Store.SQL.Driver = sqldb.DriverPostgres
	case StoreTypeSQLite:
		c.Store.SQL.Driver = sqldb.DriverSQLite
		if c.Store.SQL.DBName == "" {
			c.Store.SQL.DBName = "point.db"
		}
	}
	c.Store.SQL = c.Store.SQL.WithDefaults()
	if c.Store.Redis.Addr == "" {
		c.Store.Redis.Addr = "localhost:6379"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
}

// Validate 檢查設定
func (c Config) Validate() error {
	switch c.Store.Type {
	case StoreTypeMemory, StoreTypeMySQL, StoreTypePostgres, StoreTypeSQLite, StoreTypeRedis:
	default:
		return fmt.Errorf("unknown store type %q", c.Store.Type)
	}
	return nil
}
