package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	log "github.com/sirupsen/logrus"
)

// StoreDriver selects the order-store backend.
type StoreDriver string

const (
	StoreDriverDynamoDB StoreDriver = "dynamodb"
	StoreDriverMongoDB  StoreDriver = "mongodb"
	StoreDriverMemory   StoreDriver = "memory"
)

// Config is built once at startup and passed by value; nothing reads the
// environment after Load returns.
type Config struct {
	AppEnv          string        `env:"APP_ENV" envDefault:"local"`
	Port            int           `env:"PORT" envDefault:"5000"`
	AllowedOrigins  []string      `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:5173"`
	LogLevel        string        `env:"LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"LOG_FORMAT" envDefault:"json"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT" envDefault:"10s"`

	Paystack PaystackConfig
	Store    StoreConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
}

type PaystackConfig struct {
	SecretKey string        `env:"PAYSTACK_SECRET_KEY"`
	BaseURL   string        `env:"PAYSTACK_BASE_URL" envDefault:"https://api.paystack.co"`
	Timeout   time.Duration `env:"PAYSTACK_TIMEOUT" envDefault:"0s"`
	Mock      bool          `env:"PAYMENT_GATEWAY_MOCK" envDefault:"false"`
}

type StoreConfig struct {
	Driver StoreDriver `env:"STORE_DRIVER" envDefault:"dynamodb"`

	AWSRegion          string `env:"AWS_REGION" envDefault:"us-east-1"`
	AWSAccessKeyID     string `env:"AWS_ACCESS_KEY_ID" envDefault:"local"`
	AWSSecretAccessKey string `env:"AWS_SECRET_ACCESS_KEY" envDefault:"local"`
	DynamoDBEndpoint   string `env:"DYNAMODB_ENDPOINT"`
	OrdersTable        string `env:"ORDERS_TABLE" envDefault:"orders"`
	ReferenceIndex     string `env:"ORDERS_REFERENCE_INDEX" envDefault:"reference-index"`

	MongoURI        string `env:"MONGO_URI" envDefault:"mongodb://127.0.0.1:27017"`
	MongoDB         string `env:"MONGO_DB" envDefault:"payments"`
	MongoCollection string `env:"MONGO_COLLECTION" envDefault:"orders"`

	// MemoryOrderIDs seeds the memory store, standing in for the storefront.
	MemoryOrderIDs []string `env:"MEMORY_ORDER_IDS" envSeparator:","`
}

// RedisConfig enables the distributed verification lock when Addr is set.
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB" envDefault:"0"`
	LockTTL  time.Duration `env:"VERIFY_LOCK_TTL" envDefault:"30s"`
}

// KafkaConfig enables payment-verified events when Brokers is non-empty.
type KafkaConfig struct {
	Brokers      []string `env:"KAFKA_BROKERS" envSeparator:","`
	PaymentTopic string   `env:"KAFKA_PAYMENT_TOPIC" envDefault:"payment.verified"`
}

// Load reads the process environment (already populated from .env by
// godotenv/autoload in main) and validates the result.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse env: %w", err)
	}
	cfg.AllowedOrigins = compact(cfg.AllowedOrigins)
	cfg.Kafka.Brokers = compact(cfg.Kafka.Brokers)
	cfg.Store.MemoryOrderIDs = compact(cfg.Store.MemoryOrderIDs)
	cfg.Store.Driver = StoreDriver(strings.ToLower(strings.TrimSpace(string(cfg.Store.Driver))))

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c Config) Validate() error {
	if c.Port <= 0 || c.Port > 65535 {
		return fmt.Errorf("PORT must be in [1, 65535], got %d", c.Port)
	}
	if !c.Paystack.Mock && strings.TrimSpace(c.Paystack.SecretKey) == "" {
		return fmt.Errorf("PAYSTACK_SECRET_KEY is required unless PAYMENT_GATEWAY_MOCK is enabled")
	}
	if c.Paystack.Timeout < 0 {
		return fmt.Errorf("PAYSTACK_TIMEOUT must not be negative")
	}
	if c.ShutdownTimeout <= 0 {
		return fmt.Errorf("SHUTDOWN_TIMEOUT must be positive")
	}
	switch c.Store.Driver {
	case StoreDriverDynamoDB:
		if c.Store.OrdersTable == "" || c.Store.ReferenceIndex == "" {
			return fmt.Errorf("ORDERS_TABLE and ORDERS_REFERENCE_INDEX are required for dynamodb")
		}
	case StoreDriverMongoDB:
		if c.Store.MongoURI == "" || c.Store.MongoDB == "" || c.Store.MongoCollection == "" {
			return fmt.Errorf("MONGO_URI, MONGO_DB and MONGO_COLLECTION are required for mongodb")
		}
	case StoreDriverMemory:
	default:
		return fmt.Errorf("invalid STORE_DRIVER: %q (must be dynamodb, mongodb or memory)", c.Store.Driver)
	}
	if c.Redis.Addr != "" {
		if c.Redis.LockTTL <= 0 {
			return fmt.Errorf("VERIFY_LOCK_TTL must be positive")
		}
		// The lock must outlive the gateway call it guards.
		if c.Paystack.Timeout == 0 || c.Paystack.Timeout >= c.Redis.LockTTL {
			return fmt.Errorf("PAYSTACK_TIMEOUT must be set and shorter than VERIFY_LOCK_TTL (%s) when REDIS_ADDR is set", c.Redis.LockTTL)
		}
	}
	if len(c.Kafka.Brokers) > 0 && c.Kafka.PaymentTopic == "" {
		return fmt.Errorf("KAFKA_PAYMENT_TOPIC is required when KAFKA_BROKERS is set")
	}
	return nil
}

// LogFields is the startup view of the config with secrets masked.
func (c Config) LogFields() log.Fields {
	return log.Fields{
		"app_env":          c.AppEnv,
		"port":             c.Port,
		"cors_origins":     strings.Join(c.AllowedOrigins, ","),
		"paystack_base":    c.Paystack.BaseURL,
		"paystack_secret":  mask(c.Paystack.SecretKey),
		"paystack_timeout": c.Paystack.Timeout.String(),
		"gateway_mock":     c.Paystack.Mock,
		"store_driver":     c.Store.Driver,
		"redis_addr":       c.Redis.Addr,
		"kafka_brokers":    strings.Join(c.Kafka.Brokers, ","),
	}
}

func mask(secret string) string {
	if len(secret) <= 8 {
		if secret == "" {
			return ""
		}
		return "***"
	}
	return secret[:7] + "***"
}

func compact(in []string) []string {
	out := make([]string, 0, len(in))
	for _, v := range in {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
