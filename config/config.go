package config

import (
	"log"
	"os"
	"time"

	"github.com/Nxdus/casualty-api/services"
	"github.com/joho/godotenv"
)

type Config struct {
	BaseURL      string
	ListenAddr   string
	RedisAddr    string
	CacheTTL     time.Duration
	FetchTimeout time.Duration
}

// Load reads .env when present, then the environment.
func Load() Config {
	_ = godotenv.Load()

	return Config{
		BaseURL:      getenv("CASUALTY_API_BASE_URL", services.DefaultBaseURL),
		ListenAddr:   getenv("LISTEN_ADDR", ":3000"),
		RedisAddr:    getenv("REDIS_ADDR", "redis:6379"),
		CacheTTL:     getenvDuration("CACHE_TTL", services.DefaultCacheTTL),
		FetchTimeout: getenvDuration("FETCH_TIMEOUT", 0),
	}
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil || d < 0 {
		log.Printf("invalid %s=%q, using %s", key, v, fallback)
		return fallback
	}
	return d
}
