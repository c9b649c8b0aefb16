package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Database DatabaseConfig
	Server   ServerConfig
	Session  SessionConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Events   EventsConfig
}

type DatabaseConfig struct {
	Host              string
	Port              int
	User              string
	Password          string
	Name              string
	SSLMode           string
	MaxConns          int32
	MinConns          int32
	MaxConnLifetime   time.Duration
	MaxConnIdleTime   time.Duration
	HealthCheckPeriod time.Duration
	AutoMigrate       bool
}

type ServerConfig struct {
	Port           string
	Env            string
	LogLevel       string
	AllowedOrigins []string
	TrustedProxies []string
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	IdleTimeout    time.Duration
}

// Session store backends
const (
	SessionStoreMemory = "memory"
	SessionStoreRedis  = "redis"
)

type SessionConfig struct {
	Store        string
	TTL          time.Duration
	CookieName   string
	CookieSecure bool
	SameSite     string
	// SweepInterval is how often the memory store drops expired sessions
	SweepInterval time.Duration
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	AdminUsername      string
	AdminPassword      string
	RateLimitPerMinute int
	// WriteRateLimitPerMinute bounds complaint submissions and edits per principal
	WriteRateLimitPerMinute int
	FailureDelayMs          int
	FailureDelayJitterMs    int
}

type EventsConfig struct {
	AMQPURL string
	Queue   string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	env := getEnv("ENV", "development")
	production := env == "production"

	defaultStore := SessionStoreMemory
	delayMs, jitterMs := 0, 0
	if production {
		defaultStore = SessionStoreRedis
		delayMs, jitterMs = 100, 50
	}

	cfg := &Config{
		Database: DatabaseConfig{
			Host:              getEnv("DB_HOST", "localhost"),
			Port:              getEnvAsInt("DB_PORT", 5432),
			User:              getEnv("DB_USER", "postgres"),
			Password:          getEnv("DB_PASSWORD", ""),
			Name:              getEnv("DB_NAME", "complaintbox"),
			SSLMode:           getEnv("DB_SSLMODE", "disable"),
			MaxConns:          int32(getEnvAsInt("DB_MAX_CONNS", 25)),
			MinConns:          int32(getEnvAsInt("DB_MIN_CONNS", 5)),
			MaxConnLifetime:   getEnvAsDuration("DB_MAX_CONN_LIFETIME", 5*time.Minute),
			MaxConnIdleTime:   getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", 1*time.Minute),
			HealthCheckPeriod: getEnvAsDuration("DB_HEALTH_CHECK_PERIOD", 1*time.Minute),
			AutoMigrate:       getEnvAsBool("DB_AUTO_MIGRATE", true),
		},
		Server: ServerConfig{
			Port:           getEnv("PORT", "8080"),
			Env:            env,
			LogLevel:       getEnv("LOG_LEVEL", "info"),
			AllowedOrigins: parseAllowedOrigins(env),
			TrustedProxies: splitList(getEnv("TRUSTED_PROXIES", "")),
			ReadTimeout:    getEnvAsDuration("SERVER_READ_TIMEOUT", 15*time.Second),
			WriteTimeout:   getEnvAsDuration("SERVER_WRITE_TIMEOUT", 15*time.Second),
			IdleTimeout:    getEnvAsDuration("SERVER_IDLE_TIMEOUT", 60*time.Second),
		},
		Session: SessionConfig{
			Store:         strings.ToLower(getEnv("SESSION_STORE", defaultStore)),
			TTL:           getEnvAsDuration("SESSION_TTL", 24*time.Hour),
			CookieName:    getEnv("SESSION_COOKIE_NAME", "complaintbox_session"),
			CookieSecure:  getEnvAsBool("SESSION_COOKIE_SECURE", production),
			SameSite:      strings.ToLower(getEnv("SESSION_COOKIE_SAMESITE", "lax")),
			SweepInterval: getEnvAsDuration("SESSION_SWEEP_INTERVAL", 5*time.Minute),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
		},
		Auth: AuthConfig{
			AdminUsername:           getEnv("ADMIN_USERNAME", "admin"),
			AdminPassword:           getEnv("ADMIN_PASSWORD", "admin123"),
			RateLimitPerMinute:      getEnvAsInt("AUTH_RATE_LIMIT_PER_MINUTE", 10),
			WriteRateLimitPerMinute: getEnvAsInt("WRITE_RATE_LIMIT_PER_MINUTE", 30),
			FailureDelayMs:          getEnvAsInt("AUTH_FAILURE_DELAY_MS", delayMs),
			FailureDelayJitterMs:    getEnvAsInt("AUTH_FAILURE_JITTER_MS", jitterMs),
		},
		Events: EventsConfig{
			AMQPURL: getEnv("EVENTS_AMQP_URL", ""),
			Queue:   getEnv("EVENTS_QUEUE", "complaint.status_changed"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}

	switch c.Session.Store {
	case SessionStoreMemory:
		if c.Server.Env == "production" {
			return fmt.Errorf("SESSION_STORE=memory is not allowed in production")
		}
	case SessionStoreRedis:
		if c.Redis.Addr == "" {
			return fmt.Errorf("REDIS_ADDR is required when SESSION_STORE=redis")
		}
	default:
		return fmt.Errorf("SESSION_STORE must be %q or %q (got %q)", SessionStoreMemory, SessionStoreRedis, c.Session.Store)
	}

	if c.Session.TTL <= 0 {
		return fmt.Errorf("SESSION_TTL must be positive")
	}

	switch c.Session.SameSite {
	case "lax", "strict", "none":
	default:
		return fmt.Errorf("SESSION_COOKIE_SAMESITE must be lax, strict or none (got %q)", c.Session.SameSite)
	}

	if c.Session.SweepInterval <= 0 {
		return fmt.Errorf("SESSION_SWEEP_INTERVAL must be positive")
	}

	if c.Auth.AdminUsername == "" || c.Auth.AdminPassword == "" {
		return fmt.Errorf("ADMIN_USERNAME and ADMIN_PASSWORD must not be empty")
	}

	if c.Auth.RateLimitPerMinute <= 0 {
		return fmt.Errorf("AUTH_RATE_LIMIT_PER_MINUTE must be positive")
	}

	if c.Auth.WriteRateLimitPerMinute <= 0 {
		return fmt.Errorf("WRITE_RATE_LIMIT_PER_MINUTE must be positive")
	}

	return nil
}

func (c *DatabaseConfig) DSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.Name, c.SSLMode,
	)
}

func getEnv(key, defaultVal string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if value := os.Getenv(key); value != "" {
		if intVal, err := strconv.Atoi(value); err == nil {
			return intVal
		}
	}
	return defaultVal
}

func getEnvAsBool(key string, defaultVal bool) bool {
	if value := os.Getenv(key); value != "" {
		if boolVal, err := strconv.ParseBool(value); err == nil {
			return boolVal
		}
	}
	return defaultVal
}

func getEnvAsDuration(key string, defaultVal time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultVal
}

func splitList(s string) []string {
	if strings.TrimSpace(s) == "" {
		return []string{}
	}
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseAllowedOrigins(env string) []string {
	if env == "production" {
		return splitList(getEnv("ALLOWED_ORIGINS", ""))
	}

	// Development: allow localhost variants
	return []string{
		"http://localhost:3000",
		"http://localhost:5000",
		"http://localhost:5173", // Vite default
		"http://localhost:8080",
		"http://127.0.0.1:3000",
		"http://127.0.0.1:5000",
		"http://127.0.0.1:5173",
		"http://127.0.0.1:8080",
	}
}
