package config

import (
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/cast"
)

// Config holds all configuration for the application.
type Config struct {
	Server     ServerConfig
	Database   DatabaseConfig
	Redis      RedisConfig
	NewRelic   NewRelicConfig
	GenAI      GenAIConfig
	Simulation SimulationConfig
	LogLevel   string
}

// ServerConfig holds HTTP server configuration.
type ServerConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// DatabaseConfig holds PostgreSQL configuration for the ride history store.
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

// RedisConfig holds Redis configuration.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRelicConfig holds New Relic configuration.
type NewRelicConfig struct {
	AppName    string
	LicenseKey string
	Enabled    bool
}

// GenAIConfig holds the AI ride-generation service settings, including the
// retry policy applied to every outbound call.
type GenAIConfig struct {
	BaseURL     string
	APIKey      string
	Timeout     time.Duration
	MaxAttempts int
	BackoffBase time.Duration
	JitterMax   time.Duration
}

// SimulationConfig holds every timer interval the orchestrator uses. Tests
// compress these to milliseconds.
type SimulationConfig struct {
	DebounceWindow  time.Duration // fare estimator debounce
	RotatorInterval time.Duration // searching message rotation
	DriftInterval   time.Duration // driver position perturbation
	EtaInterval     time.Duration // dynamic ETA countdown
	CashDelay       time.Duration // simulated CASH processing
	CardDelay       time.Duration // simulated CARD processing
	WalletDelay     time.Duration // simulated wallet processing after confirm
}

// Load loads configuration from the environment, with .env support.
func Load() *Config {
	_ = godotenv.Load(".env")

	return &Config{
		Server: ServerConfig{
			Port:         getEnv("SERVER_PORT", "8080"),
			ReadTimeout:  getDurationEnv("SERVER_READ_TIMEOUT", 10*time.Second),
			WriteTimeout: getDurationEnv("SERVER_WRITE_TIMEOUT", 10*time.Second),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnv("DB_PORT", "5432"),
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", "postgres"),
			DBName:   getEnv("DB_NAME", "chaloride"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getIntEnv("REDIS_DB", 0),
		},
		NewRelic: NewRelicConfig{
			AppName:    getEnv("NEW_RELIC_APP_NAME", "chaloride"),
			LicenseKey: getEnv("NEW_RELIC_LICENSE_KEY", ""),
			Enabled:    getBoolEnv("NEW_RELIC_ENABLED", false),
		},
		GenAI: GenAIConfig{
			BaseURL:     getEnv("GENAI_BASE_URL", "http://localhost:9090"),
			APIKey:      getEnv("GENAI_API_KEY", ""),
			Timeout:     getDurationEnv("GENAI_TIMEOUT", 30*time.Second),
			MaxAttempts: getIntEnv("GENAI_MAX_ATTEMPTS", 3),
			BackoffBase: getDurationEnv("GENAI_BACKOFF_BASE", time.Second),
			JitterMax:   getDurationEnv("GENAI_JITTER_MAX", time.Second),
		},
		Simulation: DefaultSimulation(),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
	}
}

// DefaultSimulation returns the production timing profile.
func DefaultSimulation() SimulationConfig {
	return SimulationConfig{
		DebounceWindow:  getDurationEnv("SIM_DEBOUNCE_WINDOW", 500*time.Millisecond),
		RotatorInterval: getDurationEnv("SIM_ROTATOR_INTERVAL", 2500*time.Millisecond),
		DriftInterval:   getDurationEnv("SIM_DRIFT_INTERVAL", 2*time.Second),
		EtaInterval:     getDurationEnv("SIM_ETA_INTERVAL", 60*time.Second),
		CashDelay:       getDurationEnv("SIM_CASH_DELAY", 500*time.Millisecond),
		CardDelay:       getDurationEnv("SIM_CARD_DELAY", 2*time.Second),
		WalletDelay:     getDurationEnv("SIM_WALLET_DELAY", 2500*time.Millisecond),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getIntEnv(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		return cast.ToInt(value)
	}
	return defaultValue
}

func getBoolEnv(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		return cast.ToBool(value)
	}
	return defaultValue
}

func getDurationEnv(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return defaultValue
}
