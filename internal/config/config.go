// Package config loads the process configuration once, into an immutable
// struct that is handed to each component at construction time.
package config

import (
	"os"
	"strconv"
	"time"

	_ "github.com/joho/godotenv/autoload"

	"vnshop/internal/vnpay"
)

type DBConfig struct {
	Host     string
	Port     string
	Username string
	Password string
	Database string
	Schema   string
}

type Config struct {
	HTTPAddr          string
	DB                DBConfig
	VNPay             vnpay.Config
	ReconcileInterval time.Duration
}

func Load() Config {
	return Config{
		HTTPAddr: getEnv("VNSHOP_HTTP_ADDR", ":8080"),
		DB: DBConfig{
			Host:     getEnv("VNSHOP_DB_HOST", "localhost"),
			Port:     getEnv("VNSHOP_DB_PORT", "5432"),
			Username: getEnv("VNSHOP_DB_USERNAME", "postgres"),
			Password: getEnv("VNSHOP_DB_PASSWORD", "postgres"),
			Database: getEnv("VNSHOP_DB_DATABASE", "vnshop"),
			Schema:   getEnv("VNSHOP_DB_SCHEMA", "public"),
		},
		VNPay: vnpay.Config{
			TmnCode:    os.Getenv("VNPAY_TMNCODE"),
			HashSecret: os.Getenv("VNPAY_HASH_SECRET"),
			PayURL:     getEnv("VNPAY_URL", "https://sandbox.vnpayment.vn/paymentv2/vpcpay.html"),
			APIURL:     getEnv("VNPAY_API_URL", "https://sandbox.vnpayment.vn/merchant_webapi/api/transaction"),
			ReturnURL:  getEnv("VNPAY_RETURN_URL", "http://localhost:8080/vnpay/return"),
			Locale:     getEnv("VNPAY_LOCALE", "vn"),
			ExpireIn:   getDuration("VNPAY_EXPIRE_MINUTES", 15) * time.Minute,
		},
		ReconcileInterval: getDuration("VNSHOP_RECONCILE_SECONDS", 60) * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDuration(key string, defaultValue int64) time.Duration {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.ParseInt(value, 10, 64); err == nil && n > 0 {
			return time.Duration(n)
		}
	}
	return time.Duration(defaultValue)
}
