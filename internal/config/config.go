package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type DatabaseConfig struct {
	Driver     string // postgres | sqlite
	Host       string
	User       string
	Password   string
	Name       string
	Port       string
	SSLMode    string
	SQLitePath string
	MaxRetries int
}

type HTTPConfig struct {
	Port         string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration
}

type LeaveConfig struct {
	// MaxTxRetries bounds engine retries on ConcurrentModification.
	MaxTxRetries       int
	RetryBackoff       time.Duration
	DefaultEntitlement int
	PolicyFile         string
	NotifyQueueSize    int
}

type Config struct {
	Env         string
	DB          DatabaseConfig
	HTTP        HTTPConfig
	RedisAddr   string
	KafkaBroker string
	JWTSecret   string
	RBACModel   string
	Leave       LeaveConfig
}

// Load reads .env when present, then the process environment.
func Load() *Config {
	_ = godotenv.Load()

	return &Config{
		Env: getEnv("APP_ENV", "development"),
		DB: DatabaseConfig{
			Driver:     getEnv("DB_DRIVER", "postgres"),
			Host:       getEnv("DB_HOST", "localhost"),
			User:       getEnv("DB_USER", "postgres"),
			Password:   getEnv("DB_PASSWORD", ""),
			Name:       getEnv("DB_NAME", "portal_rh"),
			Port:       getEnv("DB_PORT", "5432"),
			SSLMode:    getEnv("DB_SSLMODE", "disable"),
			SQLitePath: getEnv("DB_SQLITE_PATH", "portal_rh.db"),
			MaxRetries: getEnvAsInt("DB_MAX_RETRIES", 5),
		},
		HTTP: HTTPConfig{
			Port:         getEnv("PORT", "3000"),
			ReadTimeout:  getEnvAsDuration("HTTP_READ_TIMEOUT", 5*time.Second),
			WriteTimeout: getEnvAsDuration("HTTP_WRITE_TIMEOUT", 10*time.Second),
			IdleTimeout:  getEnvAsDuration("HTTP_IDLE_TIMEOUT", 60*time.Second),
		},
		RedisAddr:   getEnv("REDIS_ADDR", ""),
		KafkaBroker: getEnv("KAFKA_BROKER", ""),
		JWTSecret:   getEnv("JWT_SECRET", ""),
		RBACModel:   getEnv("RBAC_MODEL_FILE", ""),
		Leave: LeaveConfig{
			MaxTxRetries:       getEnvAsInt("LEAVE_MAX_TX_RETRIES", 3),
			RetryBackoff:       getEnvAsDuration("LEAVE_RETRY_BACKOFF", 20*time.Millisecond),
			DefaultEntitlement: getEnvAsInt("LEAVE_DEFAULT_ENTITLEMENT", 22),
			PolicyFile:         getEnv("LEAVE_POLICY_FILE", ""),
			NotifyQueueSize:    getEnvAsInt("LEAVE_NOTIFY_QUEUE_SIZE", 256),
		},
	}
}

func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists && value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if val, err := strconv.Atoi(getEnv(key, "")); err == nil {
		return val
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if val, err := time.ParseDuration(getEnv(key, "")); err == nil {
		return val
	}
	return defaultValue
}
