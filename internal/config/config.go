package config

import (
	"log"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	_ "github.com/lib/pq"
)

type Config struct {
	ServerPort int

	DatabaseURL string

	// SecretKey signs every issued token. It is required: a regenerated
	// key would invalidate all outstanding tokens and break horizontally
	// scaled deployments, so the process refuses to start without one.
	SecretKey []byte

	AccessTokenTTL time.Duration

	// BootstrapAdminPassword is the initial password of the "admin"
	// account created on first run. Only used when no admin row exists.
	BootstrapAdminPassword string

	KafkaBrokers []string
	KafkaTopic   string

	StaticDir string
	LogLevel  string
}

func Load() Config {
	if err := godotenv.Load(".env"); err != nil {
		log.Printf("Notice: .env file not found: %v. Using system environment variables", err)
	}

	cfg := Config{
		ServerPort: EnvIntDefault("SERVER_PORT", 8000),

		DatabaseURL: os.Getenv("DATABASE_URL"),

		SecretKey: []byte(os.Getenv("SECRET_KEY")),

		AccessTokenTTL: EnvDurationDefault("ACCESS_TOKEN_TTL", 30*time.Minute),

		BootstrapAdminPassword: EnvDefault("BOOTSTRAP_ADMIN_PASSWORD", "admin123"),

		KafkaBrokers: CSV(os.Getenv("KAFKA_BROKERS")),
		KafkaTopic:   EnvDefault("KAFKA_TOPIC", "user_events"),

		StaticDir: EnvDefault("STATIC_DIR", "static"),
		LogLevel:  EnvDefault("LOG_LEVEL", "info"),
	}

	MustNonEmptyBytes(cfg.SecretKey, "SECRET_KEY")
	MustNonEmpty(cfg.DatabaseURL, "DATABASE_URL")

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

func EnvDurationDefault(key string, def time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return def
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return def
	}
	return d
}
