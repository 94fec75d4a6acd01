package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config captures process level configuration.
type Config struct {
	Addr              string
	Environment       string
	LogLevel          string
	AdminAPIToken     string
	DatabaseURL       string
	JurisdictionsFile string
	ShutdownTimeout   time.Duration

	Redis        RedisConfig
	Kafka        KafkaConfig
	Verification Verification
}

// RedisConfig configures the applicant-id cache connection.
type RedisConfig struct {
	URL          string
	PoolSize     int
	MinIdleConns int
	DialTimeout  time.Duration
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
}

// KafkaConfig configures audit publication from the outbox.
type KafkaConfig struct {
	Brokers    string
	AuditTopic string
}

// Verification configures the identity verification provider.
type Verification struct {
	BaseURL          string
	AppToken         string
	SecretKey        string
	WebhookSecret    string
	Timeout          time.Duration
	ApplicantTTL     time.Duration
	ReconcileEnabled bool
	// ReconcileSchedule is a cron expression or descriptor such as @every 15m.
	ReconcileSchedule string
}

// Configured reports whether outbound provider calls are possible. The
// webhook secret is checked separately by the callback handler.
func (v Verification) Configured() bool {
	return v.BaseURL != "" && v.AppToken != "" && v.SecretKey != ""
}

// IsProduction reports whether the process runs in production.
func (c Config) IsProduction() bool {
	return c.Environment == "production"
}

// FromEnv builds a Config from environment variables so main stays lean.
// Malformed numbers and durations are errors instead of silent defaults.
func FromEnv() (Config, error) {
	p := &parser{}
	cfg := Config{
		Addr:              getenv("MERIDIAN_ADDR", ":8080"),
		Environment:       getenv("ENVIRONMENT", "development"),
		LogLevel:          getenv("LOG_LEVEL", "info"),
		AdminAPIToken:     os.Getenv("ADMIN_API_TOKEN"),
		DatabaseURL:       os.Getenv("DATABASE_URL"),
		JurisdictionsFile: os.Getenv("JURISDICTIONS_FILE"),
		ShutdownTimeout:   p.duration("SHUTDOWN_TIMEOUT", 15*time.Second),
		Redis: RedisConfig{
			URL:          os.Getenv("REDIS_URL"),
			PoolSize:     p.int("REDIS_POOL_SIZE", 10),
			MinIdleConns: p.int("REDIS_MIN_IDLE_CONNS", 2),
			DialTimeout:  p.duration("REDIS_DIAL_TIMEOUT", 5*time.Second),
			ReadTimeout:  p.duration("REDIS_READ_TIMEOUT", 3*time.Second),
			WriteTimeout: p.duration("REDIS_WRITE_TIMEOUT", 3*time.Second),
		},
		Kafka: KafkaConfig{
			Brokers:    os.Getenv("KAFKA_BROKERS"),
			AuditTopic: getenv("AUDIT_TOPIC", "meridian.audit.events"),
		},
		Verification: Verification{
			BaseURL:           os.Getenv("VERIFICATION_BASE_URL"),
			AppToken:          os.Getenv("VERIFICATION_APP_TOKEN"),
			SecretKey:         os.Getenv("VERIFICATION_SECRET_KEY"),
			WebhookSecret:     os.Getenv("VERIFICATION_WEBHOOK_SECRET"),
			Timeout:           p.duration("VERIFICATION_TIMEOUT", 5*time.Second),
			ApplicantTTL:      p.duration("VERIFICATION_APPLICANT_TTL", 24*time.Hour),
			ReconcileEnabled:  p.bool("RECONCILE_ENABLED", true),
			ReconcileSchedule: getenv("RECONCILE_SCHEDULE", "@every 15m"),
		},
	}
	if p.err != nil {
		return Config{}, p.err
	}
	if cfg.IsProduction() && cfg.AdminAPIToken == "" {
		return Config{}, fmt.Errorf("ADMIN_API_TOKEN is required in production")
	}
	return cfg, nil
}

func getenv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// parser keeps the first parse failure.
type parser struct {
	err error
}

func (p *parser) fail(key, raw string, err error) {
	if p.err == nil {
		p.err = fmt.Errorf("invalid %s %q: %w", key, raw, err)
	}
}

func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	d, err := time.ParseDuration(raw)
	if err != nil {
		p.fail(key, raw, err)
		return fallback
	}
	return d
}

func (p *parser) int(key string, fallback int) int {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	n, err := strconv.Atoi(raw)
	if err != nil {
		p.fail(key, raw, err)
		return fallback
	}
	return n
}

func (p *parser) bool(key string, fallback bool) bool {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	b, err := strconv.ParseBool(raw)
	if err != nil {
		p.fail(key, raw, err)
		return fallback
	}
	return b
}
