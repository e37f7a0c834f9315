package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	DBDSN         string
	Environment   string
	TelegramToken string // пустой токен отключает уведомления
	MaterialsDir  string
	CacheCapacity int
	SweepInterval time.Duration
}

func Load() (*Config, error) {
	// Пытаемся загрузить .env файл (игнорируем ошибку, если файла нет)
	if err := godotenv.Load(".env"); err != nil {
		log.Println("⚠️  No .env file found, using environment variables")
	} else {
		log.Println("✅ Loaded configuration from .env file")
	}

	cfg := &Config{
		DBDSN:         os.Getenv("DB_DSN"),
		Environment:   os.Getenv("ENV"),
		TelegramToken: os.Getenv("TELEGRAM_TOKEN"),
		MaterialsDir:  os.Getenv("MATERIALS_DIR"),
	}

	// Дефолтные значения
	if cfg.Environment == "" {
		cfg.Environment = "development"
	}
	if cfg.MaterialsDir == "" {
		cfg.MaterialsDir = "data/materials"
	}

	cfg.CacheCapacity = 256
	if v := os.Getenv("CACHE_CAPACITY"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return nil, fmt.Errorf("invalid CACHE_CAPACITY %q", v)
		}
		cfg.CacheCapacity = n
	}

	cfg.SweepInterval = time.Hour
	if v := os.Getenv("SWEEP_INTERVAL"); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil || d <= 0 {
			return nil, fmt.Errorf("invalid SWEEP_INTERVAL %q", v)
		}
		cfg.SweepInterval = d
	}

	// Обязательные поля
	if cfg.DBDSN == "" {
		return nil, fmt.Errorf("DB_DSN is required but not set")
	}

	return cfg, nil
}
