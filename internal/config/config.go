package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	ListenAddr string
	LogLevel   string

	// Base URL of the MindEase REST backend, e.g. https://api.mindease.edu/api
	APIBaseURL string

	// HS256 secret for the edge-issued device session cookie.
	DeviceSecret []byte

	// Optional 32-byte hex key; when set, stored tokens are sealed at rest.
	TokenSealKey string

	// Token store backing. DatabaseURL selects postgres, SQLitePath a local
	// file, RedisAddr a redis instance. Exactly one is used, in that order.
	DatabaseURL   string
	SQLitePath    string
	RedisAddr     string
	RedisPassword string

	// How long abandoned devices keep their stored token pair (redis only).
	TokenTTLDays int

	KafkaBrokers []string
	KafkaTopic   string

	ESURL      string
	ESUser     string
	ESPassword string
	ESIndex    string
}

func Load() *Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("notice: .env not found, using system environment")
	}

	cfg := &Config{
		ListenAddr:   EnvDefault("EDGE_ADDR", ":8080"),
		LogLevel:     EnvDefault("LOG_LEVEL", "info"),
		APIBaseURL:   os.Getenv("API_BASE_URL"),
		DeviceSecret: []byte(os.Getenv("DEVICE_SESSION_SECRET")),
		TokenSealKey: os.Getenv("TOKEN_SEAL_KEY"),

		DatabaseURL:   os.Getenv("DATABASE_URL"),
		SQLitePath:    EnvDefault("SQLITE_PATH", "mindease-edge.db"),
		RedisAddr:     os.Getenv("REDIS_ADDR"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		TokenTTLDays:  EnvIntDefault("TOKEN_TTL_DAYS", 30),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   EnvDefault("KAFKA_TOPIC", "engagement-events"),

		ESURL:      os.Getenv("ES_URL"),
		ESUser:     os.Getenv("ES_USER"),
		ESPassword: os.Getenv("ES_PASSWORD"),
		ESIndex:    EnvDefault("ES_INDEX", "wellness-resources"),
	}

	MustNonEmpty(cfg.APIBaseURL, "API_BASE_URL")
	MustNonEmptyBytes(cfg.DeviceSecret, "DEVICE_SESSION_SECRET")

	return cfg
}

func CSV(v string) []string {
	if v == "" {
		return nil
	}
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func EnvDefault(key, def string) string {
	if os.Getenv(key) != "" {
		return os.Getenv(key)
	}
	return def
}

func EnvIntDefault(key string, def int) int {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func MustNonEmpty(value, envName string) {
	if value == "" {
		log.Fatalf("missing required env %s", envName)
	}
}

func MustNonEmptyBytes(value []byte, envName string) {
	if len(value) == 0 {
		log.Fatalf("missing required env %s", envName)
	}
}
