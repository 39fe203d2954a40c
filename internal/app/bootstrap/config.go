package bootstrap

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	ServiceID string

	HTTPPort int
	GRPCPort int

	DatabaseURL  string
	RedisURL     string
	KafkaBrokers []string

	MaxDBConns int32

	KafkaConsumerGroup  string
	KafkaTopicOrderPaid string
	KafkaTopicDLQ       string

	ConsumerWorkers     int
	ConsumerFetchWait   time.Duration
	MaxDeliveryAttempts int
	RetryBackoff        time.Duration

	OutboxPollInterval time.Duration
	OutboxBatchSize    int

	EventDedupTTL    time.Duration
	ShipmentCacheTTL time.Duration

	JWTSecret string
}

type configFile struct {
	Service struct {
		ID       string `yaml:"id"`
		HTTPPort int    `yaml:"http_port"`
		GRPCPort int    `yaml:"grpc_port"`
	} `yaml:"service"`
	Dependencies struct {
		PostgresURL         string   `yaml:"postgres_url"`
		RedisURL            string   `yaml:"redis_url"`
		KafkaBrokers        []string `yaml:"kafka_brokers"`
		KafkaConsumerGroup  string   `yaml:"kafka_consumer_group"`
		KafkaTopicOrderPaid string   `yaml:"kafka_topic_order_paid"`
		KafkaTopicDLQ       string   `yaml:"kafka_topic_dlq"`
	} `yaml:"dependencies"`
}

func LoadConfig(path string) (Config, error) {
	cfg := Config{
		ServiceID:           "logistics-service",
		HTTPPort:            8080,
		GRPCPort:            9090,
		MaxDBConns:          20,
		KafkaConsumerGroup:  "logistics-service",
		KafkaTopicOrderPaid: "order.paid",
		KafkaTopicDLQ:       "logistics.dlq",
		ConsumerWorkers:     1,
		ConsumerFetchWait:   2 * time.Second,
		MaxDeliveryAttempts: 5,
		RetryBackoff:        500 * time.Millisecond,
		OutboxPollInterval:  2 * time.Second,
		OutboxBatchSize:     100,
		EventDedupTTL:       7 * 24 * time.Hour,
		ShipmentCacheTTL:    5 * time.Minute,
	}

	raw, err := os.ReadFile(path)
	if err == nil {
		var f configFile
		if unmarshalErr := yaml.Unmarshal(raw, &f); unmarshalErr != nil {
			return Config{}, fmt.Errorf("parse config file: %w", unmarshalErr)
		}
		if f.Service.ID != "" {
			cfg.ServiceID = f.Service.ID
		}
		if f.Service.HTTPPort > 0 {
			cfg.HTTPPort = f.Service.HTTPPort
		}
		if f.Service.GRPCPort > 0 {
			cfg.GRPCPort = f.Service.GRPCPort
		}
		if f.Dependencies.PostgresURL != "" {
			cfg.DatabaseURL = f.Dependencies.PostgresURL
		}
		if f.Dependencies.RedisURL != "" {
			cfg.RedisURL = f.Dependencies.RedisURL
		}
		if len(f.Dependencies.KafkaBrokers) > 0 {
			cfg.KafkaBrokers = trimNonEmpty(f.Dependencies.KafkaBrokers)
		}
		if f.Dependencies.KafkaConsumerGroup != "" {
			cfg.KafkaConsumerGroup = f.Dependencies.KafkaConsumerGroup
		}
		if f.Dependencies.KafkaTopicOrderPaid != "" {
			cfg.KafkaTopicOrderPaid = f.Dependencies.KafkaTopicOrderPaid
		}
		if f.Dependencies.KafkaTopicDLQ != "" {
			cfg.KafkaTopicDLQ = f.Dependencies.KafkaTopicDLQ
		}
	}

	cfg.DatabaseURL = envOrDefault("DB_URL", envOrDefault("POSTGRES_URL", cfg.DatabaseURL))
	cfg.RedisURL = envOrDefault("REDIS_URL", cfg.RedisURL)
	cfg.KafkaBrokers = envCSV("KAFKA_BROKERS", cfg.KafkaBrokers)
	cfg.KafkaConsumerGroup = envOrDefault("KAFKA_CONSUMER_GROUP", cfg.KafkaConsumerGroup)
	cfg.KafkaTopicOrderPaid = envOrDefault("KAFKA_TOPIC_ORDER_PAID", cfg.KafkaTopicOrderPaid)
	cfg.KafkaTopicDLQ = envOrDefault("KAFKA_TOPIC_DLQ", cfg.KafkaTopicDLQ)
	cfg.JWTSecret = envOrDefault("JWT_SECRET", cfg.JWTSecret)
	cfg.HTTPPort = envInt("HTTP_PORT", cfg.HTTPPort)
	cfg.GRPCPort = envInt("GRPC_PORT", cfg.GRPCPort)
	cfg.MaxDBConns = int32(envInt("DB_MAX_CONNS", int(cfg.MaxDBConns)))
	cfg.ConsumerWorkers = envInt("CONSUMER_WORKERS", cfg.ConsumerWorkers)
	cfg.ConsumerFetchWait = time.Duration(envInt("CONSUMER_FETCH_WAIT_MS", int(cfg.ConsumerFetchWait.Milliseconds()))) * time.Millisecond
	cfg.MaxDeliveryAttempts = envInt("MAX_DELIVERY_ATTEMPTS", cfg.MaxDeliveryAttempts)
	cfg.RetryBackoff = time.Duration(envInt("RETRY_BACKOFF_MS", int(cfg.RetryBackoff.Milliseconds()))) * time.Millisecond
	cfg.OutboxPollInterval = time.Duration(envInt("OUTBOX_POLL_SECONDS", int(cfg.OutboxPollInterval.Seconds()))) * time.Second
	cfg.OutboxBatchSize = envInt("OUTBOX_BATCH_SIZE", cfg.OutboxBatchSize)
	cfg.EventDedupTTL = time.Duration(envInt("EVENT_DEDUP_TTL_HOURS", int(cfg.EventDedupTTL.Hours()))) * time.Hour
	cfg.ShipmentCacheTTL = time.Duration(envInt("SHIPMENT_CACHE_SECONDS", int(cfg.ShipmentCacheTTL.Seconds()))) * time.Second

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("missing JWT_SECRET")
	}
	return cfg, nil
}

func envOrDefault(name, fallback string) string {
	if value := os.Getenv(name); value != "" {
		return value
	}
	return fallback
}

func envInt(name string, fallback int) int {
	raw := os.Getenv(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func envCSV(name string, fallback []string) []string {
	raw := strings.TrimSpace(os.Getenv(name))
	if raw == "" {
		return fallback
	}
	return trimNonEmpty(strings.Split(raw, ","))
}

func trimNonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		trimmed := strings.TrimSpace(v)
		if trimmed != "" {
			out = append(out, trimmed)
		}
	}
	return out
}
