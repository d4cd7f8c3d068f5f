package config

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"

	"github.com/prasetyo/canteen-compliance/internal/compliance"
)

// Config holds all configuration for our application
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Sweep    SweepConfig    `mapstructure:"sweep"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Policy   PolicyConfig   `mapstructure:"policy"`
	Health   HealthConfig   `mapstructure:"health"`
}

type ServerConfig struct {
	Port string `mapstructure:"SERVER_PORT"`
	Host string `mapstructure:"SERVER_HOST"`
	Env  string `mapstructure:"ENV"`
}

type DatabaseConfig struct {
	URL          string `mapstructure:"DATABASE_URL"`
	MaxOpenConns int    `mapstructure:"DATABASE_MAX_OPEN_CONNS"`
	MaxIdleConns int    `mapstructure:"DATABASE_MAX_IDLE_CONNS"`
}

type RedisConfig struct {
	Host     string `mapstructure:"REDIS_HOST"`
	Port     string `mapstructure:"REDIS_PORT"`
	Password string `mapstructure:"REDIS_PASSWORD"`
	DB       int    `mapstructure:"REDIS_DB"`
}

type SweepConfig struct {
	// Time is the daily wall-clock trigger in HH:MM.
	Time         string `mapstructure:"SWEEP_TIME"`
	PollInterval string `mapstructure:"SWEEP_POLL_INTERVAL"`
	Timezone     string `mapstructure:"SWEEP_TIMEZONE"`
}

type LoggingConfig struct {
	Level string `mapstructure:"LOG_LEVEL"`
}

// PolicyConfig carries the compliance policy knobs. Amount boundaries are
// decimal strings; day counts and point amounts are integers.
type PolicyConfig struct {
	GracePeriod         string `mapstructure:"GRACE_PERIOD"`
	ShortTermMax        string `mapstructure:"SHORT_TERM_MAX_AMOUNT"`
	MidTermMax          string `mapstructure:"MID_TERM_MAX_AMOUNT"`
	ShortTermDays       int    `mapstructure:"SHORT_TERM_DAYS"`
	MidTermDays         int    `mapstructure:"MID_TERM_DAYS"`
	LongTermDays        int    `mapstructure:"LONG_TERM_DAYS"`
	Tier2StartDay       int    `mapstructure:"TIER2_START_DAY"`
	Tier3StartDay       int    `mapstructure:"TIER3_START_DAY"`
	Tier1Points         int    `mapstructure:"TIER1_POINTS"`
	Tier2Points         int    `mapstructure:"TIER2_POINTS"`
	Tier3Points         int    `mapstructure:"TIER3_POINTS"`
	SuspensionThreshold int    `mapstructure:"SUSPENSION_THRESHOLD"`
	BanAmountMax        string `mapstructure:"BAN_AMOUNT_MAX"`
	ShortBanDays        int    `mapstructure:"SHORT_BAN_DAYS"`
	LongBanDays         int    `mapstructure:"LONG_BAN_DAYS"`
}

type HealthConfig struct {
	Timeout string `mapstructure:"HEALTH_CHECK_TIMEOUT"`
}

// Load reads configuration from environment variables and files
func Load() (*Config, error) {
	// Set defaults
	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("SERVER_HOST", "0.0.0.0")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DATABASE_MAX_OPEN_CONNS", 10)
	viper.SetDefault("DATABASE_MAX_IDLE_CONNS", 5)
	viper.SetDefault("REDIS_HOST", "localhost")
	viper.SetDefault("REDIS_PORT", "6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("SWEEP_TIME", "17:00")
	viper.SetDefault("SWEEP_POLL_INTERVAL", "30s")
	viper.SetDefault("SWEEP_TIMEZONE", "Asia/Manila")
	viper.SetDefault("HEALTH_CHECK_TIMEOUT", "5s")
	viper.SetDefault("GRACE_PERIOD", "24h")
	viper.SetDefault("SHORT_TERM_MAX_AMOUNT", "50")
	viper.SetDefault("MID_TERM_MAX_AMOUNT", "99")
	viper.SetDefault("SHORT_TERM_DAYS", 3)
	viper.SetDefault("MID_TERM_DAYS", 4)
	viper.SetDefault("LONG_TERM_DAYS", 5)
	viper.SetDefault("TIER2_START_DAY", 2)
	viper.SetDefault("TIER3_START_DAY", 5)
	viper.SetDefault("TIER1_POINTS", 1)
	viper.SetDefault("TIER2_POINTS", 3)
	viper.SetDefault("TIER3_POINTS", 5)
	viper.SetDefault("SUSPENSION_THRESHOLD", 20)
	viper.SetDefault("BAN_AMOUNT_MAX", "50")
	viper.SetDefault("SHORT_BAN_DAYS", 3)
	viper.SetDefault("LONG_BAN_DAYS", 7)

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read from .env file (optional)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./deployments")

	// Don't fail if .env file doesn't exist
	_ = viper.ReadInConfig()

	var config Config
	if err := viper.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("SERVER_PORT is required")
	}

	if c.Database.URL == "" {
		return fmt.Errorf("DATABASE_URL is required")
	}

	if _, err := time.ParseDuration(c.Policy.GracePeriod); err != nil {
		return fmt.Errorf("GRACE_PERIOD must be a valid duration: %w", err)
	}

	for name, v := range map[string]string{
		"SHORT_TERM_MAX_AMOUNT": c.Policy.ShortTermMax,
		"MID_TERM_MAX_AMOUNT":   c.Policy.MidTermMax,
		"BAN_AMOUNT_MAX":        c.Policy.BanAmountMax,
	} {
		if _, err := decimal.NewFromString(v); err != nil {
			return fmt.Errorf("%s must be a valid decimal: %w", name, err)
		}
	}

	if c.Policy.ShortTermDays <= 0 || c.Policy.MidTermDays <= 0 || c.Policy.LongTermDays <= 0 {
		return fmt.Errorf("payment term days must be greater than 0")
	}

	if c.Policy.Tier2StartDay >= c.Policy.Tier3StartDay {
		return fmt.Errorf("TIER2_START_DAY must be less than TIER3_START_DAY")
	}

	if c.Policy.SuspensionThreshold < 0 {
		return fmt.Errorf("SUSPENSION_THRESHOLD must not be negative")
	}

	if _, err := time.Parse("15:04", c.Sweep.Time); err != nil {
		return fmt.Errorf("SWEEP_TIME must be HH:MM: %w", err)
	}

	if _, err := time.ParseDuration(c.Sweep.PollInterval); err != nil {
		return fmt.Errorf("SWEEP_POLL_INTERVAL must be a valid duration: %w", err)
	}

	if _, err := time.LoadLocation(c.Sweep.Timezone); err != nil {
		return fmt.Errorf("SWEEP_TIMEZONE must be a valid IANA zone: %w", err)
	}

	if _, err := time.ParseDuration(c.Health.Timeout); err != nil {
		return fmt.Errorf("HEALTH_CHECK_TIMEOUT must be a valid duration: %w", err)
	}

	return nil
}

// IsDevelopment returns true if running in development environment
func (c *Config) IsDevelopment() bool {
	return c.Server.Env == "development" || c.Server.Env == "dev"
}

// IsProduction returns true if running in production environment
func (c *Config) IsProduction() bool {
	return c.Server.Env == "production" || c.Server.Env == "prod"
}

// CompliancePolicy materializes the policy section into the engine's
// Policy struct. Call after Validate; parse errors cannot occur here.
func (c *Config) CompliancePolicy() compliance.Policy {
	grace, _ := time.ParseDuration(c.Policy.GracePeriod)
	shortMax, _ := decimal.NewFromString(c.Policy.ShortTermMax)
	midMax, _ := decimal.NewFromString(c.Policy.MidTermMax)
	banMax, _ := decimal.NewFromString(c.Policy.BanAmountMax)

	return compliance.Policy{
		ShortTermMax:        shortMax,
		MidTermMax:          midMax,
		ShortTermDays:       c.Policy.ShortTermDays,
		MidTermDays:         c.Policy.MidTermDays,
		LongTermDays:        c.Policy.LongTermDays,
		GracePeriod:         grace,
		Tier2StartDay:       c.Policy.Tier2StartDay,
		Tier3StartDay:       c.Policy.Tier3StartDay,
		Tier1Points:         c.Policy.Tier1Points,
		Tier2Points:         c.Policy.Tier2Points,
		Tier3Points:         c.Policy.Tier3Points,
		SuspensionThreshold: c.Policy.SuspensionThreshold,
		BanAmountMax:        banMax,
		ShortBanDays:        c.Policy.ShortBanDays,
		LongBanDays:         c.Policy.LongBanDays,
	}
}

// GetSweepPollInterval returns the scheduler poll interval as duration
func (c *Config) GetSweepPollInterval() time.Duration {
	d, _ := time.ParseDuration(c.Sweep.PollInterval)
	return d
}

// GetSweepLocation returns the scheduler timezone
func (c *Config) GetSweepLocation() *time.Location {
	loc, _ := time.LoadLocation(c.Sweep.Timezone)
	return loc
}

// GetHealthTimeout returns the health check timeout as duration
func (c *Config) GetHealthTimeout() time.Duration {
	timeout, _ := time.ParseDuration(c.Health.Timeout)
	return timeout
}
