package config

import (
	"log"
	"os"
)

type Config struct {
	Port    string
	DBDSN   string
	LogFile string

	// Payment gateway credentials. KeyID is public; KeySecret signs the
	// checkout callback; WebhookSecret signs async webhooks and falls back
	// to KeySecret when unset. With no secret configured the payment
	// endpoints fail closed.
	GatewayURL    string
	KeyID         string
	KeySecret     string
	WebhookSecret string
}

func Load() Config {
	cfg := Config{
		Port:          getenv("PORT", "3000"),
		DBDSN:         getenv("DB_DSN", "shopease.db"),
		LogFile:       getenv("LOG_FILE", "./shopease.log"),
		GatewayURL:    getenv("PAYMENT_GATEWAY_URL", "https://api.razorpay.com"),
		KeyID:         os.Getenv("PAYMENT_KEY_ID"),
		KeySecret:     os.Getenv("PAYMENT_KEY_SECRET"),
		WebhookSecret: os.Getenv("PAYMENT_WEBHOOK_SECRET"),
	}
	if cfg.WebhookSecret == "" {
		cfg.WebhookSecret = cfg.KeySecret
	}
	log.Printf("[config] PORT=%s DB_DSN=%s LOG_FILE=%s gateway_key_set=%v", cfg.Port, cfg.DBDSN, cfg.LogFile, cfg.KeySecret != "")
	return cfg
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
