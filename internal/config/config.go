package config

import (
	"errors"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

const defaultSecret = "change-me"

// Config holds application level configuration loaded from environment variables.
type Config struct {
	AppEnv     string
	ServerPort string
	LogLevel   string
	MySQLDSN   string
	RedisAddr  string
	RedisDB    int
	RedisPass  string

	AccessTokenSecret  string
	RefreshTokenSecret string
	AccessTokenExpiry  time.Duration
	RefreshTokenExpiry time.Duration
	BcryptCost         int
	CookieSecure       bool

	CORSOrigins     []string
	AMQPURL         string
	ProductCacheTTL time.Duration
	SwaggerHost     string

	RateLimit RateLimitConfig
}

// RateLimitConfig configures the Redis token bucket used on the auth endpoints.
type RateLimitConfig struct {
	Enabled        bool
	Capacity       int
	RefillInterval time.Duration
	TTL            time.Duration
	Prefix         string
}

// Load builds Config from environment with sensible defaults.
// A .env file in the working directory is honoured when present.
func Load() *Config {
	_ = godotenv.Load()

	appEnv := getEnv("APP_ENV", "development")
	cfg := &Config{
		AppEnv:     appEnv,
		ServerPort: getEnv("SERVER_PORT", "8080"),
		LogLevel:   getEnv("LOG_LEVEL", "info"),
		MySQLDSN:   getEnv("MYSQL_DSN", "user:password@tcp(localhost:3306)/cartify?charset=utf8mb4&parseTime=True&loc=UTC"),
		RedisAddr:  getEnv("REDIS_ADDR", "localhost:6379"),
		RedisDB:    getEnvInt("REDIS_DB", 0),
		RedisPass:  os.Getenv("REDIS_PASSWORD"),

		AccessTokenSecret:  getEnv("ACCESS_TOKEN_SECRET", defaultSecret),
		RefreshTokenSecret: getEnv("REFRESH_TOKEN_SECRET", defaultSecret+"-refresh"),
		AccessTokenExpiry:  getEnvDuration("ACCESS_TOKEN_EXPIRY", 15*time.Minute),
		RefreshTokenExpiry: getEnvDuration("REFRESH_TOKEN_EXPIRY", 7*24*time.Hour),
		BcryptCost:         getEnvInt("BCRYPT_COST", 10),
		CookieSecure:       getEnvBool("COOKIE_SECURE", appEnv == "production"),

		CORSOrigins:     splitList(getEnv("CORS_ORIGIN", "*")),
		AMQPURL:         os.Getenv("AMQP_URL"),
		ProductCacheTTL: getEnvDuration("PRODUCT_CACHE_TTL", 5*time.Minute),
		SwaggerHost:     os.Getenv("SWAGGER_HOST"),

		RateLimit: RateLimitConfig{
			Enabled:        getEnvBool("RATE_LIMIT_ENABLED", true),
			Capacity:       getEnvInt("RATE_LIMIT_CAPACITY", 20),
			RefillInterval: getEnvDuration("RATE_LIMIT_REFILL_INTERVAL", 3*time.Second),
			TTL:            getEnvDuration("RATE_LIMIT_TTL", 10*time.Minute),
			Prefix:         getEnv("RATE_LIMIT_PREFIX", "rl"),
		},
	}
	if cfg.RateLimit.Capacity < 1 {
		cfg.RateLimit.Capacity = 1
	}
	if cfg.RateLimit.RefillInterval <= 0 {
		cfg.RateLimit.RefillInterval = time.Second
	}
	return cfg
}

// Validate rejects configurations that are unsafe to run in production.
func (c *Config) Validate() error {
	if c.AccessTokenSecret == c.RefreshTokenSecret {
		return errors.New("access and refresh token secrets must differ")
	}
	if c.AccessTokenExpiry <= 0 || c.RefreshTokenExpiry <= 0 {
		return errors.New("token expiries must be positive")
	}
	if c.AppEnv == "production" {
		if strings.HasPrefix(c.AccessTokenSecret, defaultSecret) || strings.HasPrefix(c.RefreshTokenSecret, defaultSecret) {
			return errors.New("token secrets must be set in production")
		}
	}
	return nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		if parsed, err := strconv.Atoi(v); err == nil {
			return parsed
		}
	}
	return def
}

func getEnvBool(key string, def bool) bool {
	switch strings.ToLower(os.Getenv(key)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	}
	return def
}

// getEnvDuration accepts Go durations ("15m") and whole days ("7d").
func getEnvDuration(key string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	if d, err := parseDuration(v); err == nil {
		return d
	}
	return def
}

func parseDuration(v string) (time.Duration, error) {
	if days, ok := strings.CutSuffix(v, "d"); ok {
		n, err := strconv.Atoi(days)
		if err != nil {
			return 0, err
		}
		return time.Duration(n) * 24 * time.Hour, nil
	}
	return time.ParseDuration(v)
}

func splitList(s string) []string {
	var out []string
	for _, p := range strings.Split(s, ",") {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
