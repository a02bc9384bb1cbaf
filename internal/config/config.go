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

// Config represents the complete application configuration
type Config struct {
	API       APIConfig       `mapstructure:"api"`
	Dashboard DashboardConfig `mapstructure:"dashboard"`
	Output    OutputConfig    `mapstructure:"output"`
	Server    ServerConfig    `mapstructure:"server"`
	Telegram  TelegramConfig  `mapstructure:"telegram"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// APIConfig holds the sales backend configuration
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"` // 0 keeps the transport default
}

// DashboardConfig holds the year range and rendering policies
type DashboardConfig struct {
	CurrentYear     int    `mapstructure:"current_year"`
	ForecastYear    int    `mapstructure:"forecast_year"`
	InventoryPolicy string `mapstructure:"inventory_policy"` // "keep" or "clear"
}

// OutputConfig holds file sink configuration
type OutputConfig struct {
	HTMLPath    string `mapstructure:"html_path"`
	XLSXPath    string `mapstructure:"xlsx_path"` // empty disables workbook export
	ChartDir    string `mapstructure:"chart_dir"` // empty disables PNG export
	ChartWidth  int    `mapstructure:"chart_width"`
	ChartHeight int    `mapstructure:"chart_height"`
}

// ServerConfig holds the HTTP dashboard configuration
type ServerConfig struct {
	Addr string `mapstructure:"addr"`
}

// TelegramConfig holds Telegram notification configuration
type TelegramConfig struct {
	BotToken       string        `mapstructure:"bot_token"`
	ChatID         string        `mapstructure:"chat_id"`
	Enabled        bool          `mapstructure:"enabled"`
	MaxRetries     int           `mapstructure:"max_retries"`
	RetryDelayBase time.Duration `mapstructure:"retry_delay_base"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// envKeyReplacer maps api.base_url to SALESDASH_API_BASE_URL.
var envKeyReplacer = strings.NewReplacer(".", "_")

// Load reads configuration from file and environment variables.
// A .env file in the working directory is applied to the environment first.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env: %w", err)
	}

	v := viper.New()
	v.SetConfigFile(path)
	setDefaults(v)

	v.SetEnvPrefix("SALESDASH")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return &cfg, nil
}

// setDefaults configures default values for all configuration options
func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://127.0.0.1:5001")
	v.SetDefault("api.timeout", "0s")

	v.SetDefault("dashboard.current_year", 2025)
	v.SetDefault("dashboard.forecast_year", 2025)
	v.SetDefault("dashboard.inventory_policy", "keep")

	v.SetDefault("output.html_path", "./out/dashboard.html")
	v.SetDefault("output.xlsx_path", "")
	v.SetDefault("output.chart_dir", "")
	v.SetDefault("output.chart_width", 1024)
	v.SetDefault("output.chart_height", 400)

	v.SetDefault("server.addr", ":8080")

	v.SetDefault("telegram.max_retries", 3)
	v.SetDefault("telegram.retry_delay_base", "1s")

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Validate checks that all configuration values are valid
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return fmt.Errorf("api.base_url is required")
	}
	if c.API.Timeout < 0 {
		return fmt.Errorf("api.timeout must not be negative")
	}

	if c.Dashboard.CurrentYear < 1 {
		return fmt.Errorf("dashboard.current_year is required")
	}
	if c.Dashboard.ForecastYear < c.Dashboard.CurrentYear {
		return fmt.Errorf("dashboard.forecast_year must be at least current_year")
	}
	validPolicies := map[string]bool{"keep": true, "clear": true}
	if !validPolicies[c.Dashboard.InventoryPolicy] {
		return fmt.Errorf("dashboard.inventory_policy must be one of: keep, clear")
	}

	if c.Output.HTMLPath == "" {
		return fmt.Errorf("output.html_path is required")
	}
	if c.Output.ChartDir != "" && (c.Output.ChartWidth < 100 || c.Output.ChartHeight < 100) {
		return fmt.Errorf("output.chart_width and output.chart_height must be at least 100")
	}

	if c.Telegram.Enabled {
		if c.Telegram.BotToken == "" {
			return fmt.Errorf("telegram.bot_token is required when telegram is enabled")
		}
		if c.Telegram.ChatID == "" {
			return fmt.Errorf("telegram.chat_id is required when telegram is enabled")
		}
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[c.Logging.Level] {
		return fmt.Errorf("logging.level must be one of: debug, info, warn, error")
	}
	validFormats := map[string]bool{"json": true, "text": true}
	if !validFormats[c.Logging.Format] {
		return fmt.Errorf("logging.format must be one of: json, text")
	}

	return nil
}

// YearRange returns the first and last selectable year.
func (c DashboardConfig) YearRange() (first, last int) {
	return c.CurrentYear - 1, c.ForecastYear
}
