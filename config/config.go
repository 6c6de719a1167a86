package config

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	Server   ServerConfig
	Merchant MerchantConfig
	Store    StoreConfig
	DB       DBConfig
	Redis    RedisConfig
}

type ServerConfig struct {
	Port    int
	BaseURL string // origin of the static site, for payment page links
}

type MerchantConfig struct {
	BusinessName string
	Phone        string // WhatsApp number, digits with country code
	PixKey       string
	PixName      string
	PixCity      string
	CopyDelay    time.Duration // pause between merchant tab and customer copy
}

type StoreConfig struct {
	Backend string // "memory", "file", "redis" or "postgres"
	FileDir string
}

type DBConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	port, _ := strconv.Atoi(getEnv("PORT", "8080"))
	dbPort, _ := strconv.Atoi(getEnv("DB_PORT", "5432"))
	redisDB, _ := strconv.Atoi(getEnv("REDIS_DB", "0"))
	copyDelayMs, _ := strconv.Atoi(getEnv("COPY_DELAY_MS", "1500"))

	return &Config{
		Server: ServerConfig{
			Port:    port,
			BaseURL: getEnv("BASE_URL", "http://localhost:8080"),
		},
		Merchant: MerchantConfig{
			BusinessName: getEnv("BUSINESS_NAME", "La Bella Grattia"),
			Phone:        getEnv("MERCHANT_PHONE", "5511945925632"),
			PixKey:       getEnv("PIX_KEY", ""),
			PixName:      getEnv("PIX_NAME", ""),
			PixCity:      getEnv("PIX_CITY", ""),
			CopyDelay:    time.Duration(copyDelayMs) * time.Millisecond,
		},
		Store: StoreConfig{
			Backend: getEnv("STORE_BACKEND", "file"),
			FileDir: getEnv("STORE_DIR", "./data"),
		},
		DB: DBConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     dbPort,
			User:     getEnv("DB_USER", "postgres"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "labella"),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
	}, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
