package config

import (
	"fmt"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
)

const (
	AuthModeStub      = "stub"
	AuthModeDirectory = "directory"

	TracingExporterNone   = "none"
	TracingExporterStdout = "stdout"
)

type CommonConfig struct {
	ServiceName string `env:"SERVICE_NAME" envDefault:"storefront" validate:"required"`
	LogLevel    string `env:"LOG_LEVEL" envDefault:"info" validate:"oneof=trace debug info warn error fatal panic disabled"`
}

type HTTPConfig struct {
	Port               string        `env:"HTTP_PORT" envDefault:"8080" validate:"required,numeric"`
	RequestTimeout     time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"30s" validate:"gt=0"`
	ShutdownTimeout    time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s" validate:"gt=0"`
	MaxRequestBodySize int64         `env:"HTTP_MAX_BODY_BYTES" envDefault:"1048576" validate:"gt=0"`
}

type CatalogConfig struct {
	DBPath string `env:"CATALOG_DB_PATH" envDefault:":memory:" validate:"required"`
}

// RedisConfig enables the catalog read cache when Addr is set.
type RedisConfig struct {
	Addr     string        `env:"REDIS_ADDR" validate:"omitempty,hostname_port"`
	Password string        `env:"REDIS_PASSWORD"`
	DB       int           `env:"REDIS_DB" envDefault:"0" validate:"gte=0"`
	TTL      time.Duration `env:"REDIS_TTL" envDefault:"15m" validate:"gt=0"`
}

// KafkaConfig enables order event publishing when Brokers is set.
type KafkaConfig struct {
	Brokers []string `env:"KAFKA_BROKERS" envSeparator:","`
	Topic   string   `env:"KAFKA_TOPIC" envDefault:"storefront-orders" validate:"required"`
}

type AuthConfig struct {
	Mode          string        `env:"AUTH_MODE" envDefault:"stub" validate:"oneof=stub directory"`
	Delay         time.Duration `env:"AUTH_DELAY" envDefault:"1s" validate:"gte=0"`
	DefaultAvatar string        `env:"AUTH_DEFAULT_AVATAR" envDefault:"https://images.pexels.com/photos/1239291/pexels-photo-1239291.jpeg?auto=compress&cs=tinysrgb&w=100&h=100&dpr=2" validate:"omitempty,url"`
}

type PaymentConfig struct {
	Delay         time.Duration `env:"PAYMENT_DELAY" envDefault:"2s" validate:"gte=0"`
	Timeout       time.Duration `env:"PAYMENT_TIMEOUT" envDefault:"10s" validate:"gt=0"`
	AlwaysApprove bool          `env:"PAYMENT_ALWAYS_APPROVE" envDefault:"false"`
}

type TracingConfig struct {
	Exporter    string  `env:"TRACING_EXPORTER" envDefault:"none" validate:"oneof=none stdout"`
	SampleRatio float64 `env:"TRACING_SAMPLE_RATIO" envDefault:"1" validate:"gte=0,lte=1"`
}

type Config struct {
	Common  CommonConfig
	HTTP    HTTPConfig
	Catalog CatalogConfig
	Redis   RedisConfig
	Kafka   KafkaConfig
	Auth    AuthConfig
	Payment PaymentConfig
	Tracing TracingConfig
}

func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	if err := validator.New(validator.WithRequiredStructEnabled()).Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}
