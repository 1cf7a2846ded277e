// Package config loads service settings from the environment, optionally
// seeded from a dotenv file.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every runtime setting of the service.
type Config struct {
	App      AppConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Auth     AuthConfig
	Mail     MailConfig
}

// AppConfig describes the HTTP listener and logging.
type AppConfig struct {
	Host      string
	Port      string
	PublicURL string // absolute base for links in emails; derived from the request when empty
	LogLevel  string
	LogFormat string
}

// PostgresConfig describes the primary store.
type PostgresConfig struct {
	Host         string
	Port         int
	User         string
	Password     string
	DB           string
	MaxOpenConns int
	MaxIdleConns int
}

// DSN returns a postgres:// connection string.
func (c PostgresConfig) DSN() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=disable",
		c.User, c.Password, c.Host, c.Port, c.DB)
}

// RedisConfig describes the auth-token cache. An empty Host disables the cache.
type RedisConfig struct {
	Host         string
	Port         int
	DB           int
	Password     string
	PoolSize     int
	MinIdleConns int
	Exp          time.Duration
}

// Addr returns host:port.
func (c RedisConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// AuthConfig holds secrets and token lifetimes.
type AuthConfig struct {
	SecretKey       string
	ResetTokenExp   time.Duration
	ResetPathPrefix string
}

// MailConfig selects and configures the outbound mail transport.
type MailConfig struct {
	Transport    string // log, smtp or kafka
	From         string
	Timeout      time.Duration
	SMTPHost     string
	SMTPPort     int
	SMTPUser     string
	SMTPPassword string
	KafkaBrokers []string
	KafkaTopic   string
}

// Load reads the dotenv file at path (missing files are ignored) and then
// builds a Config from the environment, applying defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load(path)

	var (
		cfg Config
		err error
	)

	cfg.App = AppConfig{
		Host:      getEnv("APP_HOST", "localhost"),
		Port:      getEnv("APP_PORT", "8080"),
		PublicURL: strings.TrimRight(getEnv("APP_PUBLIC_URL", ""), "/"),
		LogLevel:  getEnv("APP_LOG_LEVEL", "info"),
		LogFormat: getEnv("APP_LOG_FORMAT", "json"),
	}

	cfg.Postgres = PostgresConfig{
		Host:     getEnv("POSTGRES_HOST", "localhost"),
		User:     getEnv("POSTGRES_USER", "user"),
		Password: getEnv("POSTGRES_PASSWORD", "password"),
		DB:       getEnv("POSTGRES_DB", "database"),
	}
	if cfg.Postgres.Port, err = getEnvInt("POSTGRES_PORT", 5432); err != nil {
		return nil, err
	}
	if cfg.Postgres.MaxOpenConns, err = getEnvInt("POSTGRES_MAX_OPEN_CONNS", 16); err != nil {
		return nil, err
	}
	if cfg.Postgres.MaxIdleConns, err = getEnvInt("POSTGRES_MAX_IDLE_CONNS", 8); err != nil {
		return nil, err
	}

	cfg.Redis = RedisConfig{
		Host:     getEnv("REDIS_HOST", ""),
		Password: getEnv("REDIS_PASSWORD", ""),
	}
	if cfg.Redis.Port, err = getEnvInt("REDIS_PORT", 6379); err != nil {
		return nil, err
	}
	if cfg.Redis.DB, err = getEnvInt("REDIS_DB", 0); err != nil {
		return nil, err
	}
	if cfg.Redis.PoolSize, err = getEnvInt("REDIS_POOL_SIZE", 10); err != nil {
		return nil, err
	}
	if cfg.Redis.MinIdleConns, err = getEnvInt("REDIS_MIN_IDLE_CONNS", 2); err != nil {
		return nil, err
	}
	if cfg.Redis.Exp, err = getEnvSeconds("REDIS_EXP_SECOND", 3600); err != nil {
		return nil, err
	}

	cfg.Auth = AuthConfig{
		SecretKey:       getEnv("SECRET_KEY", "my_super_secret_key"),
		ResetPathPrefix: "/password-reset-confirm",
	}
	// Three days, the customary password-reset window.
	if cfg.Auth.ResetTokenExp, err = getEnvSeconds("RESET_TOKEN_EXP_SECOND", 259200); err != nil {
		return nil, err
	}

	cfg.Mail = MailConfig{
		Transport:    getEnv("MAIL_TRANSPORT", "log"),
		From:         getEnv("MAIL_FROM", "noreply@yourdomain.com"),
		SMTPHost:     getEnv("SMTP_HOST", "localhost"),
		SMTPUser:     getEnv("SMTP_USER", ""),
		SMTPPassword: getEnv("SMTP_PASSWORD", ""),
		KafkaTopic:   getEnv("KAFKA_MAIL_TOPIC", "mail.outbound"),
	}
	if cfg.Mail.SMTPPort, err = getEnvInt("SMTP_PORT", 25); err != nil {
		return nil, err
	}
	if cfg.Mail.Timeout, err = getEnvSeconds("MAIL_TIMEOUT_SECOND", 10); err != nil {
		return nil, err
	}
	for _, b := range strings.Split(getEnv("KAFKA_BROKERS", "localhost:9092"), ",") {
		if b = strings.TrimSpace(b); b != "" {
			cfg.Mail.KafkaBrokers = append(cfg.Mail.KafkaBrokers, b)
		}
	}

	switch cfg.Mail.Transport {
	case "log", "smtp", "kafka":
	default:
		return nil, fmt.Errorf("unknown MAIL_TRANSPORT %q", cfg.Mail.Transport)
	}

	return &cfg, nil
}

func getEnv(key, defaultValue string) string {
	if val, ok := os.LookupEnv(key); ok && val != "" {
		return val
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) (int, error) {
	val, ok := os.LookupEnv(key)
	if !ok || val == "" {
		return defaultValue, nil
	}
	n, err := strconv.Atoi(val)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}

func getEnvSeconds(key string, defaultValue int) (time.Duration, error) {
	n, err := getEnvInt(key, defaultValue)
	if err != nil {
		return 0, err
	}
	return time.Duration(n) * time.Second, nil
}
