package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DB          DBConfig
	Redis       RedisConfig
	Auth        AuthConfig
	RateLimit   RateLimitConfig
	Search      SearchConfig
	Port        string
	LogLevel    slog.Level
	CatalogPath string

	RecommendationCacheTTL time.Duration
	RecentActivityLimit    int
}

type DBConfig struct {
	Host        string
	Port        int
	User        string
	Password    string
	DBName      string
	SSLMode     string
	SSLRootCert string
}

func (d DBConfig) DSN() string {
	dsn := fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		d.Host, d.Port, d.User, d.Password, d.DBName, d.SSLMode,
	)
	if d.SSLRootCert != "" {
		dsn += fmt.Sprintf(" sslrootcert=%s", d.SSLRootCert)
	}
	return dsn
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type AuthConfig struct {
	JWTSecret  string
	TokenTTL   time.Duration
	BcryptCost int
}

type RateLimitConfig struct {
	Max    int
	Window time.Duration
}

type SearchConfig struct {
	YouTubeAPIKey      string
	YouTubeBaseURL     string
	GoogleBooksAPIKey  string
	GoogleBooksBaseURL string
	CacheTTL           time.Duration
}

// Load reads configuration from the environment, after an optional .env file.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var errs []error
	atoi := func(key, fallback string) int {
		v, err := strconv.Atoi(getEnv(key, fallback))
		if err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", key, err))
		}
		return v
	}
	seconds := func(key, fallback string) time.Duration {
		return time.Duration(atoi(key, fallback)) * time.Second
	}

	level, err := parseLevel(getEnv("LOG_LEVEL", "info"))
	if err != nil {
		errs = append(errs, err)
	}

	cfg := &Config{
		DB: DBConfig{
			Host:        getEnv("DB_HOST", "localhost"),
			Port:        atoi("DB_PORT", "5432"),
			User:        getEnv("DB_USER", "postgres"),
			Password:    getEnv("DB_PASSWORD", "postgres"),
			DBName:      getEnv("DB_NAME", "studysync"),
			SSLMode:     getEnv("DB_SSLMODE", "disable"),
			SSLRootCert: getEnv("DB_SSLROOTCERT", ""),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "127.0.0.1:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       atoi("REDIS_DB", "0"),
		},
		Auth: AuthConfig{
			JWTSecret:  getEnv("JWT_SECRET", ""),
			TokenTTL:   time.Duration(atoi("JWT_TTL_HOURS", "720")) * time.Hour,
			BcryptCost: atoi("BCRYPT_COST", "10"),
		},
		RateLimit: RateLimitConfig{
			Max:    atoi("RATE_LIMIT_MAX", "100"),
			Window: seconds("RATE_LIMIT_WINDOW_SECONDS", "60"),
		},
		Search: SearchConfig{
			YouTubeAPIKey:      getEnv("YOUTUBE_API_KEY", ""),
			YouTubeBaseURL:     getEnv("YOUTUBE_BASE_URL", "https://www.googleapis.com/youtube/v3"),
			GoogleBooksAPIKey:  getEnv("GOOGLE_BOOKS_API_KEY", ""),
			GoogleBooksBaseURL: getEnv("GOOGLE_BOOKS_BASE_URL", "https://www.googleapis.com/books/v1"),
			CacheTTL:           seconds("SEARCH_CACHE_TTL_SECONDS", "3600"),
		},
		Port:                   getEnv("SERVER_PORT", "8080"),
		LogLevel:               level,
		CatalogPath:            getEnv("CATALOG_PATH", ""),
		RecommendationCacheTTL: seconds("RECOMMENDATION_CACHE_TTL_SECONDS", "600"),
		RecentActivityLimit:    atoi("RECENT_ACTIVITY_LIMIT", "10"),
	}

	if cfg.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("JWT_SECRET is required"))
	}
	if cfg.RecentActivityLimit <= 0 {
		errs = append(errs, errors.New("RECENT_ACTIVITY_LIMIT must be positive"))
	}

	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return cfg, nil
}

func parseLevel(s string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.ToUpper(s))); err != nil {
		return l, fmt.Errorf("LOG_LEVEL: %w", err)
	}
	return l, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}
