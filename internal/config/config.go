package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	Port        string
	DatabaseURL string

	RedisAddr     string
	RedisPassword string
	RedisDB       int

	JWTSecret     string
	RefreshSecret string

	MapboxToken string
	MailAPIURL  string
	MailAPIKey  string

	FrontendURL    string
	AllowedOrigins []string
	WorkerCount    int

	// Production switches the refresh cookie to Secure + SameSite=None.
	Production bool
}

// Load reads configuration from the environment, after loading a .env
// file when present. DATABASE_URL, REDIS_ADDR and JWT_SECRET are
// mandatory; everything else has a default or degrades the related
// feature (geocoding, mail).
func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		Port:          getEnv("PORT", "8080"),
		DatabaseURL:   os.Getenv("DATABASE_URL"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		JWTSecret:     os.Getenv("JWT_SECRET"),
		RefreshSecret: os.Getenv("REFRESH_SECRET"),
		MapboxToken:   os.Getenv("MAPBOX_TOKEN"),
		MailAPIURL:    os.Getenv("MAIL_API_URL"),
		MailAPIKey:    os.Getenv("MAIL_API_KEY"),
		FrontendURL:   getEnv("FRONTEND_URL", "https://hospitofind.online"),
		Production:    os.Getenv("NODE_ENV") == "production" || os.Getenv("APP_ENV") == "production",
	}

	if cfg.DatabaseURL == "" {
		return nil, fmt.Errorf("DATABASE_URL not set")
	}
	if cfg.RedisAddr == "" {
		return nil, fmt.Errorf("REDIS_ADDR not set")
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET not set")
	}
	if cfg.RefreshSecret == "" {
		cfg.RefreshSecret = cfg.JWTSecret
	}

	var err error
	cfg.RedisDB, err = atoiEnv("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	cfg.WorkerCount, err = atoiEnv("WORKER_COUNT", 1)
	if err != nil {
		return nil, err
	}
	if cfg.WorkerCount <= 0 {
		return nil, fmt.Errorf("invalid WORKER_COUNT: %d", cfg.WorkerCount)
	}

	if v := os.Getenv("ALLOWED_ORIGINS"); v != "" {
		for _, o := range strings.Split(v, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.AllowedOrigins = append(cfg.AllowedOrigins, o)
			}
		}
	} else {
		cfg.AllowedOrigins = []string{cfg.FrontendURL}
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func atoiEnv(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return n, nil
}
