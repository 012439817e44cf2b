package config

import (
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"

	"github.com/JoeShih716/go-account-core/pkg/mysql"
)

// LedgerType 選擇帳本實作
type LedgerType string

const (
	// LedgerMySQL 直接讀寫資料庫
	LedgerMySQL LedgerType = "mysql"
	// LedgerMutex 記憶體 + RWMutex + WAL
	LedgerMutex LedgerType = "mutex"
	// LedgerLMAX 記憶體 + 單一 goroutine 事件迴圈 + WAL
	LedgerLMAX LedgerType = "lmax"
)

// DefaultPath 預設設定檔位置
const DefaultPath = "config/config.yaml"

type Config struct {
	Server       ServerConfig `yaml:"server"`
	Ledger       LedgerConfig `yaml:"ledger"`
	MySQL        mysql.Config `yaml:"mysql"`
	Log          LogConfig    `yaml:"log"`
	AccountTypes []string     `yaml:"account_types" validate:"min=1,dive,required"`
}

type ServerConfig struct {
	Addr            string        `yaml:"addr" validate:"required"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" validate:"gt=0"`
}

type LedgerConfig struct {
	Type    LedgerType `yaml:"type" validate:"oneof=mysql mutex lmax"`
	WALPath string     `yaml:"wal_path"`
	// 記憶體帳本啟動時是否先從資料庫載入帳戶
	LoadFromDB bool `yaml:"load_from_db"`
	// LMAX 輸送帶容量
	QueueSize int `yaml:"queue_size" validate:"gte=0"`
}

type LogConfig struct {
	Mode  string `yaml:"mode" validate:"oneof=dev prod"`
	Level string `yaml:"level" validate:"oneof=debug info warn error"`
}

var validate = validator.New()

// Load 讀取並解析設定檔
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	return Parse(data)
}

// Parse 解析 YAML、補預設值後驗證
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults 補全 yaml 沒寫的欄位
func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":50051"
	}
	if c.Server.ShutdownTimeout == 0 {
		c.Server.ShutdownTimeout = 10 * time.Second
	}
	if c.Ledger.Type == "" {
		c.Ledger.Type = LedgerMutex
	}
	if c.Ledger.WALPath == "" {
		c.Ledger.WALPath = "wal.log"
	}
	if c.Ledger.QueueSize == 0 {
		c.Ledger.QueueSize = 1000
	}
	if c.MySQL.Port == 0 {
		c.MySQL.Port = 3306
	}
	if c.MySQL.MaxOpenConns == 0 {
		c.MySQL.MaxOpenConns = 100
	}
	if c.MySQL.MaxIdleConns == 0 {
		c.MySQL.MaxIdleConns = 10
	}
	if c.MySQL.ConnMaxLifetime == 0 {
		c.MySQL.ConnMaxLifetime = 30 * time.Minute
	}
	if c.Log.Mode == "" {
		c.Log.Mode = "dev"
	}
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if len(c.AccountTypes) == 0 {
		c.AccountTypes = []string{"Checking", "Savings"}
	}
}

// NeedsDB 目前設定是否需要資料庫連線
func (c *Config) NeedsDB() bool {
	return c.Ledger.Type == LedgerMySQL || c.Ledger.LoadFromDB
}

// Validate 驗證欄位；只有需要資料庫時才檢查 mysql 區塊
func (c *Config) Validate() error {
	if err := validate.StructExcept(c, "MySQL"); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	if c.NeedsDB() {
		if err := validate.Struct(c.MySQL); err != nil {
			return fmt.Errorf("invalid mysql config: %w", err)
		}
	}
	seen := make(map[string]bool, len(c.AccountTypes))
	for _, label := range c.AccountTypes {
		if seen[label] {
			return fmt.Errorf("invalid config: duplicate account type %q", label)
		}
		seen[label] = true
	}
	return nil
}
