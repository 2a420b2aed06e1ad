package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv string

	TelegramToken string
	HTTPPort      string

	PoseServiceURL     string
	PoseServiceTimeout time.Duration

	RedisAddress  string
	RedisPassword string
	RedisDB       int
	AssessmentTTL time.Duration

	LogLevel string
	LogDir   string

	RateLimitRPS   float64
	RateLimitBurst int
}

func Load() (*Config, error) {
	// Загружаем .env файл (игнорируем ошибку если файла нет)
	_ = godotenv.Load()

	cfg := &Config{
		AppEnv:         os.Getenv("APP_ENV"),
		TelegramToken:  os.Getenv("TELEGRAM_TOKEN"),
		HTTPPort:       getEnv("HTTP_PORT", "3000"),
		PoseServiceURL: os.Getenv("POSE_SERVICE_URL"),
		RedisAddress:   os.Getenv("REDIS_ADDRESS"),
		RedisPassword:  os.Getenv("REDIS_PASSWORD"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		LogDir:         getEnv("LOG_DIR", "./storage/logs"),
	}

	var err error
	if cfg.PoseServiceTimeout, err = getDuration("POSE_SERVICE_TIMEOUT", 30*time.Second); err != nil {
		return nil, err
	}
	if cfg.AssessmentTTL, err = getDuration("ASSESSMENT_TTL", 720*time.Hour); err != nil {
		return nil, err
	}
	if cfg.RedisDB, err = getInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.RateLimitBurst, err = getInt("RATE_LIMIT_BURST", 100); err != nil {
		return nil, err
	}
	if cfg.RateLimitRPS, err = getFloat("RATE_LIMIT_RPS", 50); err != nil {
		return nil, err
	}

	if cfg.TelegramToken == "" && cfg.HTTPPort == "" {
		return nil, errors.New("either TELEGRAM_TOKEN or HTTP_PORT is required")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, fallback int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return n, nil
}

func getFloat(key string, fallback float64) (float64, error) {
	v := os.Getenv(key)
	if v == "" {
		return fallback, nil
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", key, err)
	}
	return f, nil
}
