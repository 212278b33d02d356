package config

import (
	"fmt"
	"time"

	"github.com/spf13/viper"
)

// Config holds all application configuration
type Config struct {
	Server         ServerConfig         `mapstructure:"server"`
	Database       DatabaseConfig       `mapstructure:"database"`
	Tally          TallyConfig          `mapstructure:"tally"`
	Lark           LarkConfig           `mapstructure:"lark"`
	Reconciliation ReconciliationConfig `mapstructure:"reconciliation"`
	Worker         WorkerConfig         `mapstructure:"worker"`
	Logger         LoggerConfig         `mapstructure:"logger"`
}

// ServerConfig holds HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// DatabaseConfig holds database configuration
type DatabaseConfig struct {
	Path            string        `mapstructure:"path"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsDir   string        `mapstructure:"migrations_dir"`
}

// TallyConfig holds the ledger gateway configuration
type TallyConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	CompanyName    string        `mapstructure:"company_name"`
	TargetBook     string        `mapstructure:"target_book"`
	CheckTimeout   time.Duration `mapstructure:"check_timeout"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
}

// LarkConfig holds the notification channel configuration
type LarkConfig struct {
	Enabled   bool   `mapstructure:"enabled"`
	AppID     string `mapstructure:"app_id"`
	AppSecret string `mapstructure:"app_secret"`
	ChatID    string `mapstructure:"chat_id"`
}

// ReconciliationConfig holds payment recording behavior
type ReconciliationConfig struct {
	CompanyName      string `mapstructure:"company_name"`
	StrictVersioning bool   `mapstructure:"strict_versioning"`
}

// WorkerConfig holds background worker configuration
type WorkerConfig struct {
	ChequeSyncInterval  time.Duration `mapstructure:"cheque_sync_interval"`
	ChequeSyncBatchSize int           `mapstructure:"cheque_sync_batch_size"`
	OutstandingRefresh  bool          `mapstructure:"outstanding_refresh"`
	OutstandingInterval time.Duration `mapstructure:"outstanding_interval"`
}

// LoggerConfig holds logger configuration
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	OutputPath string `mapstructure:"output_path"`
	Format     string `mapstructure:"format"`
}

// Load loads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	viper.SetConfigFile(configPath)
	viper.SetConfigType("yaml")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	bindEnvVars()

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// setDefaults sets default configuration values
func setDefaults() {
	// Server defaults
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 8080)
	viper.SetDefault("server.read_timeout", 30*time.Second)
	viper.SetDefault("server.write_timeout", 30*time.Second)

	// Database defaults
	viper.SetDefault("database.path", "data/reconciliation.db")
	viper.SetDefault("database.max_open_conns", 25)
	viper.SetDefault("database.max_idle_conns", 5)
	viper.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	viper.SetDefault("database.migrations_dir", "migrations")

	// Tally defaults
	viper.SetDefault("tally.base_url", "http://localhost:9000")
	viper.SetDefault("tally.target_book", "Receipt")
	viper.SetDefault("tally.check_timeout", 3*time.Second)
	viper.SetDefault("tally.request_timeout", 15*time.Second)

	// Reconciliation defaults
	viper.SetDefault("reconciliation.strict_versioning", false)

	// Worker defaults
	viper.SetDefault("worker.cheque_sync_interval", 5*time.Minute)
	viper.SetDefault("worker.cheque_sync_batch_size", 50)
	viper.SetDefault("worker.outstanding_refresh", true)
	viper.SetDefault("worker.outstanding_interval", 30*time.Minute)

	// Logger defaults
	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.output_path", "stdout")
	viper.SetDefault("logger.format", "json")
}

// bindEnvVars binds environment variables to configuration
func bindEnvVars() {
	// Sensitive credentials from environment
	viper.BindEnv("lark.app_id", "LARK_APP_ID")
	viper.BindEnv("lark.app_secret", "LARK_APP_SECRET")
	viper.BindEnv("lark.chat_id", "LARK_CHAT_ID")
	viper.BindEnv("tally.base_url", "TALLY_BASE_URL")
	viper.BindEnv("tally.company_name", "TALLY_COMPANY_NAME")
	viper.BindEnv("reconciliation.company_name", "COMPANY_NAME")
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Tally.BaseURL == "" {
		return fmt.Errorf("tally.base_url is required")
	}
	if c.Tally.CompanyName == "" {
		return fmt.Errorf("tally.company_name is required")
	}
	if c.Tally.TargetBook == "" {
		return fmt.Errorf("tally.target_book is required")
	}
	if c.Reconciliation.CompanyName == "" {
		return fmt.Errorf("reconciliation.company_name is required")
	}

	if c.Lark.Enabled {
		if c.Lark.AppID == "" {
			return fmt.Errorf("lark.app_id is required when lark is enabled")
		}
		if c.Lark.AppSecret == "" {
			return fmt.Errorf("lark.app_secret is required when lark is enabled")
		}
		if c.Lark.ChatID == "" {
			return fmt.Errorf("lark.chat_id is required when lark is enabled")
		}
	}

	return nil
}
