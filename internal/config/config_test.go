package config

import (
	"os"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

func TestLoad(t *testing.T) {
	tests := []struct {
		name     string
		envVars  map[string]string
		validate func(*testing.T, *Config)
	}{
		{
			name:    "default values",
			envVars: map[string]string{},
			validate: func(t *testing.T, cfg *Config) {
				if cfg.HTTPPort != "8080" {
					t.Errorf("expected HTTPPort to be 8080, got %s", cfg.HTTPPort)
				}
				if cfg.GRPCPort != "50051" {
					t.Errorf("expected GRPCPort to be 50051, got %s", cfg.GRPCPort)
				}
				if !cfg.RabbitMQ.Enabled {
					t.Error("expected events to be enabled by default")
				}
				if cfg.RabbitMQ.RoutingKey != "bank.operations.operation.posted" {
					t.Errorf("expected default routing key, got %s", cfg.RabbitMQ.RoutingKey)
				}
				if cfg.Parameter.CountryCode != "PL" || cfg.Parameter.BankNumber != "10101397" {
					t.Errorf("expected PL/10101397 parameters, got %s/%s", cfg.Parameter.CountryCode, cfg.Parameter.BankNumber)
				}
				if cfg.Interest.Interval != 0 {
					t.Errorf("expected scheduled interest to be disabled, got %s", cfg.Interest.Interval)
				}
				if cfg.Interest.Employee != "system" {
					t.Errorf("expected interest employee system, got %s", cfg.Interest.Employee)
				}
				if cfg.Log.Format != "json" {
					t.Errorf("expected json log format, got %s", cfg.Log.Format)
				}
			},
		},
		{
			name: "custom values",
			envVars: map[string]string{
				"HTTP_PORT":              "9090",
				"DATABASE_URL":           "postgres://u:p@db:5432/bank",
				"JWT_SECRET":             "s3cret",
				"EVENTS_ENABLED":         "false",
				"CLICKHOUSE_HOST":        "clickhouse.prod:9000",
				"RABBITMQ_QUEUE":         "custom.queue",
				"PARAMETER_COUNTRY_CODE": "DE",
				"INTEREST_INTERVAL":      "24h",
				"INTEREST_EMPLOYEE":      "nightly",
				"LOG_LEVEL":              "debug",
			},
			validate: func(t *testing.T, cfg *Config) {
				if cfg.HTTPPort != "9090" {
					t.Errorf("expected HTTPPort to be 9090, got %s", cfg.HTTPPort)
				}
				if cfg.DatabaseURL != "postgres://u:p@db:5432/bank" {
					t.Errorf("unexpected DatabaseURL %s", cfg.DatabaseURL)
				}
				if cfg.JWTSecret != "s3cret" {
					t.Errorf("unexpected JWTSecret %s", cfg.JWTSecret)
				}
				if cfg.RabbitMQ.Enabled {
					t.Error("expected events to be disabled")
				}
				if cfg.ClickHouse.Host != "clickhouse.prod:9000" {
					t.Errorf("expected ClickHouse host to be clickhouse.prod:9000, got %s", cfg.ClickHouse.Host)
				}
				if cfg.RabbitMQ.Queue != "custom.queue" {
					t.Errorf("expected RabbitMQ queue to be custom.queue, got %s", cfg.RabbitMQ.Queue)
				}
				if cfg.Parameter.CountryCode != "DE" {
					t.Errorf("expected country code DE, got %s", cfg.Parameter.CountryCode)
				}
				if cfg.Interest.Interval != 24*time.Hour {
					t.Errorf("expected 24h interval, got %s", cfg.Interest.Interval)
				}
				if cfg.Interest.Employee != "nightly" {
					t.Errorf("expected interest employee nightly, got %s", cfg.Interest.Employee)
				}
				if cfg.Log.Level != "debug" {
					t.Errorf("expected debug level, got %s", cfg.Log.Level)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv()
			for key, value := range tt.envVars {
				os.Setenv(key, value)
			}
			defer clearEnv()

			cfg, err := Load()
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			tt.validate(t, cfg)
		})
	}
}

func TestLoad_InvalidValues(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad interval", "INTEREST_INTERVAL", "daily"},
		{"negative interval", "INTEREST_INTERVAL", "-1h"},
		{"bad bool", "EVENTS_ENABLED", "maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			clearEnv()
			os.Setenv(tt.key, tt.val)
			defer clearEnv()

			if _, err := Load(); err == nil {
				t.Errorf("expected error for %s=%s", tt.key, tt.val)
			}
		})
	}
}

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name         string
		key          string
		defaultValue string
		envValue     string
		expected     string
	}{
		{
			name:         "returns default when env not set",
			key:          "TEST_KEY",
			defaultValue: "default",
			expected:     "default",
		},
		{
			name:         "returns env value when set",
			key:          "TEST_KEY",
			defaultValue: "default",
			envValue:     "custom",
			expected:     "custom",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			os.Unsetenv(tt.key)
			if tt.envValue != "" {
				os.Setenv(tt.key, tt.envValue)
				defer os.Unsetenv(tt.key)
			}

			if result := getEnv(tt.key, tt.defaultValue); result != tt.expected {
				t.Errorf("expected %s, got %s", tt.expected, result)
			}
		})
	}
}

// clearEnv clears all test environment variables
func clearEnv() {
	envVars := []string{
		"HTTP_PORT",
		"GRPC_PORT",
		"DATABASE_URL",
		"JWT_SECRET",
		"LOG_LEVEL",
		"LOG_FORMAT",
		"EVENTS_ENABLED",
		"RABBITMQ_URL",
		"RABBITMQ_QUEUE",
		"RABBITMQ_EXCHANGE",
		"RABBITMQ_ROUTING_KEY",
		"CLICKHOUSE_HOST",
		"CLICKHOUSE_DB",
		"CLICKHOUSE_USER",
		"CLICKHOUSE_PASSWORD",
		"PARAMETER_COUNTRY_CODE",
		"PARAMETER_BANK_NUMBER",
		"INTEREST_INTERVAL",
		"INTEREST_EMPLOYEE",
	}

	for _, key := range envVars {
		os.Unsetenv(key)
	}
}

func TestLogConfig_NewLogger(t *testing.T) {
	tests := []struct {
		name      string
		cfg       LogConfig
		wantLevel logrus.Level
		wantJSON  bool
		wantErr   bool
	}{
		{"json info", LogConfig{Level: "info", Format: "json"}, logrus.InfoLevel, true, false},
		{"text debug", LogConfig{Level: "debug", Format: "text"}, logrus.DebugLevel, false, false},
		{"bad level", LogConfig{Level: "loud", Format: "json"}, 0, false, true},
		{"bad format", LogConfig{Level: "info", Format: "xml"}, 0, false, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			logger, err := tt.cfg.NewLogger()
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error")
				}
				return
			}
			if err != nil {
				t.Fatalf("NewLogger: %v", err)
			}
			if logger.GetLevel() != tt.wantLevel {
				t.Errorf("level = %v, want %v", logger.GetLevel(), tt.wantLevel)
			}
			if _, isJSON := logger.Formatter.(*logrus.JSONFormatter); isJSON != tt.wantJSON {
				t.Errorf("formatter = %T", logger.Formatter)
			}
		})
	}
}
