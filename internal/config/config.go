package config

import (
	"log"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Port            string
	DBDSN           string
	LogFile         string
	JWTSecret       string
	JWTIssuer       string
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	PageSize        int
	RedisURL        string
	CacheTTL        time.Duration
	OrderRetries    int
	HashCost        int
	ShutdownTimeout time.Duration
}

func Load() Config {
	cfg := Config{
		Port:            str("PORT", "8080"),
		DBDSN:           str("DB_DSN", "storefront.db"), // sqlite file in project root
		LogFile:         str("LOG_FILE", "./storefront.log"),
		JWTSecret:       str("JWT_SECRET", "change-me-in-production"),
		JWTIssuer:       str("JWT_ISSUER", "storefront"),
		AccessTokenTTL:  dur("ACCESS_TOKEN_TTL", 30*time.Minute),
		RefreshTokenTTL: dur("REFRESH_TOKEN_TTL", 24*time.Hour),
		PageSize:        num("PAGE_SIZE", 10),
		RedisURL:        os.Getenv("REDIS_URL"),
		CacheTTL:        dur("CACHE_TTL", 30*time.Second),
		OrderRetries:    num("ORDER_RETRIES", 3),
		HashCost:        num("BCRYPT_COST", 12),
		ShutdownTimeout: dur("SHUTDOWN_TIMEOUT", 15*time.Second),
	}
	if os.Getenv("JWT_SECRET") == "" {
		log.Printf("[config] JWT_SECRET not set, using development default")
	}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s PAGE_SIZE=%d REDIS=%t ACCESS_TTL=%s REFRESH_TTL=%s",
		cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.PageSize, cfg.RedisURL != "", cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	return cfg
}

func str(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func num(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil || n <= 0 {
		log.Printf("[config] ignoring %s=%q: not a positive integer", key, v)
		return def
	}
	return n
}

func dur(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		log.Printf("[config] ignoring %s=%q: not a positive duration", key, v)
		return def
	}
	return d
}
