package config

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/viper"
)

type SMTP struct {
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
	// Timeout for the SMTP dial+send in seconds. A slow handshake must not
	// stall the surrounding request.
	Timeout uint `mapstructure:"timeout"`
}

type Config struct {
	// Secret key for signing tokens. Must be set in production.
	Secret string `mapstructure:"secret"`
	// TTL for user auth tokens in hours.
	AuthTTL uint `mapstructure:"auth_ttl"`
	// TTL for gate pass tokens in minutes.
	GatePassTTL uint `mapstructure:"gate_pass_ttl"`
	// TTL for login OTP codes in minutes.
	OTPTTL   uint   `mapstructure:"otp_ttl"`
	OTPStore string `mapstructure:"otp_store"`

	LogLevel string `mapstructure:"log_level"`
	Listen   string `mapstructure:"listen"`

	// Parking fee per started hour, in currency units.
	HourlyRate int64 `mapstructure:"hourly_rate"`

	Storage Storage `mapstructure:"storage"`

	SMTP SMTP `mapstructure:"smtp"`
}

var Cfg *Config

// Check if running in Docker container by checking for the presence of /.dockerenv file
func runningInDocker() bool {
	if _, err := os.Stat("/.dockerenv"); err == nil {
		return true
	}
	return false
}

func getConfigPath() string {
	if runningInDocker() {
		return "/app/instance"
	}
	return "./instance"
}

// LoadConfig reads configuration from environment variables and returns a Config struct.
func LoadConfig(configFile ...string) (*Config, error) {
	var cfg Config

	v := viper.New()
	v.SetConfigName("config")
	v.AddConfigPath(getConfigPath())
	v.AddConfigPath(".")
	v.SetEnvPrefix("")

	if len(configFile) > 0 {
		for _, path := range configFile {
			v.SetConfigFile(path)
		}
	}

	for k, val := range Defaults() {
		v.SetDefault(k, val)
	}

	// Load configuration from environment variables
	v.AutomaticEnv()

	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %v", err)
	}

	if cfg.HourlyRate <= 0 {
		return nil, fmt.Errorf("hourly_rate must be positive, got %d", cfg.HourlyRate)
	}

	// Convert relative sqlite path to absolute instance folder
	if cfg.Storage.SQLite != nil {
		if cfg.Storage.SQLite.Path == ":memory:" {
			// In-memory database, do nothing
		} else if !os.IsPathSeparator(cfg.Storage.SQLite.Path[0]) {
			cfg.Storage.SQLite.Path = fmt.Sprintf("%s/%s", getConfigPath(), cfg.Storage.SQLite.Path)
		}
	}

	// Warn if secret is missing - this is a critical security setting for production
	if cfg.Secret == "" {
		if os.Getenv("GIN_MODE") == "release" {
			panic("SECRET configuration variable is required in production")
		} else {
			slog.Warn("Secret is not set. Do not use in production.")
		}
	}

	return &cfg, nil
}
