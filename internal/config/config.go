package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

type Config struct {
	App    AppConfig
	Server ServerConfig
	Square SquareConfig
	Redis  RedisConfig
	DB     PostgresConfig
	Kafka  KafkaConfig
}

type AppConfig struct {
	Name string
	Env  string
}

type ServerConfig struct {
	Host string
	Port int
}

// SquareConfig holds credentials and tuning for the Square API client.
// BaseURL/AuthBaseURL are derived from Environment unless overridden.
type SquareConfig struct {
	Environment       string
	AccessToken       string
	ApplicationID     string
	ApplicationSecret string
	LocationID        string
	BaseURL           string
	AuthBaseURL       string
	RedirectURL       string
	Version           string
	CatalogTTLSec     int
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
	CartTTL  int // hours an idle cart survives
}

type PostgresConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	DBName   string
	SSLMode  string
	MaxConns int
}

type KafkaConfig struct {
	Brokers       []string
	OrderTopic    string
	ConsumerGroup string
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{
		App: AppConfig{
			Name: getEnv("APP_NAME", "xoco-coffee"),
			Env:  getEnv("APP_ENV", "local"),
		},
		Server: ServerConfig{
			Host: getEnv("HTTP_HOST", "0.0.0.0"),
			Port: getEnvAsInt("HTTP_PORT", 8040),
		},
		Square: SquareConfig{
			Environment:       getEnv("SQUARE_ENVIRONMENT", "sandbox"),
			AccessToken:       getEnv("SQUARE_ACCESS_TOKEN", ""),
			ApplicationID:     getEnv("SQUARE_APPLICATION_ID", ""),
			ApplicationSecret: getEnv("SQUARE_APPLICATION_SECRET", ""),
			LocationID:        getEnv("SQUARE_LOCATION_ID", ""),
			BaseURL:           getEnv("SQUARE_BASE_URL", ""),
			AuthBaseURL:       getEnv("SQUARE_AUTH_BASE_URL", ""),
			RedirectURL:       getEnv("SQUARE_REDIRECT_URL", ""),
			Version:           getEnv("SQUARE_VERSION", "2023-10-18"),
			CatalogTTLSec:     getEnvAsInt("SQUARE_CATALOG_TTL_SEC", 300),
		},
		Redis: RedisConfig{
			Addr:     getEnv("REDIS_ADDR", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       getEnvAsInt("REDIS_DB", 0),
			CartTTL:  getEnvAsInt("REDIS_CART_TTL_HOURS", 72),
		},
		DB: PostgresConfig{
			Host:     getEnv("POSTGRES_HOST", "localhost"),
			Port:     getEnvAsInt("POSTGRES_PORT", 5432),
			User:     getEnv("POSTGRES_USER", "postgres"),
			Password: getEnv("POSTGRES_PASSWORD", ""),
			DBName:   getEnv("POSTGRES_DB", "postgres"),
			SSLMode:  getEnv("DB_SSLMODE", "disable"),
			MaxConns: getEnvAsInt("DB_MAX_CONNS", 10),
		},
		Kafka: KafkaConfig{
			Brokers:       splitAndTrim(getEnv("KAFKA_BOOTSTRAP_SERVERS", "localhost:9092")),
			OrderTopic:    getEnv("KAFKA_ORDER_TOPIC", "storefront_orders"),
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "terminal-worker"),
		},
	}

	return cfg, cfg.validate()
}

func (s ServerConfig) Address() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// APIBaseURL returns the Square REST endpoint for the configured environment.
func (s SquareConfig) APIBaseURL() string {
	if s.BaseURL != "" {
		return s.BaseURL
	}
	if s.Environment == "production" {
		return "https://connect.squareup.com"
	}
	return "https://connect.squareupsandbox.com"
}

// OAuthBaseURL returns the endpoint used for the authorization-code exchange.
func (s SquareConfig) OAuthBaseURL() string {
	if s.AuthBaseURL != "" {
		return s.AuthBaseURL
	}
	return s.APIBaseURL()
}

func (p PostgresConfig) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%d/%s?sslmode=%s",
		p.User,
		p.Password,
		p.Host,
		p.Port,
		p.DBName,
		p.SSLMode,
	)
}

/* ================= helpers ================= */

func (c *Config) validate() error {
	if c.Server.Port <= 0 {
		return fmt.Errorf("HTTP_PORT is invalid")
	}
	if c.Square.Environment != "sandbox" && c.Square.Environment != "production" {
		return fmt.Errorf("SQUARE_ENVIRONMENT must be sandbox or production")
	}
	if c.Redis.Addr == "" {
		return fmt.Errorf("REDIS_ADDR is empty")
	}
	if len(c.Kafka.Brokers) == 0 {
		return fmt.Errorf("kafka brokers is empty")
	}
	// Square credentials stay optional here so local tooling can run without
	// them; the client validates before any API call.
	return nil
}

func getEnv(key, defaultVal string) string {
	if v, ok := os.LookupEnv(key); ok {
		return v
	}
	return defaultVal
}

func getEnvAsInt(key string, defaultVal int) int {
	if v, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(v); err == nil {
			return i
		}
	}
	return defaultVal
}

func splitAndTrim(raw string) []string {
	parts := strings.Split(raw, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if val := strings.TrimSpace(p); val != "" {
			out = append(out, val)
		}
	}
	return out
}
