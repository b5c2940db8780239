package config

import (
	"fmt"
	"log"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
)

type (
	Config struct {
		HTTP      HTTP      `envPrefix:"HTTP_"`
		Health    Health    `envPrefix:"HEALTH_"`
		Logger    Logger    `envPrefix:"LOGGER_"`
		Telemetry Telemetry `envPrefix:"TELEMETRY_"`
		Cache     Cache     `envPrefix:"CACHE_"`
		Redis     Redis     `envPrefix:"REDIS_"`
	}

	HTTP struct {
		Server Server `envPrefix:"SERVER_"`
	}

	Server struct {
		Port         string        `env:"PORT,required"`
		ReadTimeout  time.Duration `env:"READ_TIMEOUT" envDefault:"15s"`
		WriteTimeout time.Duration `env:"WRITE_TIMEOUT" envDefault:"15s"`
		IdleTimeout  time.Duration `env:"IDLE_TIMEOUT" envDefault:"60s"`
		MaxBodyBytes int64         `env:"MAX_BODY_BYTES" envDefault:"33554432"`
	}

	Health struct {
		GRPCPort string `env:"GRPC_PORT" envDefault:"9090"`
	}

	Logger struct {
		Level  string `env:"LEVEL,required"`
		Format string `env:"FORMAT" envDefault:"console"`
	}

	Telemetry struct {
		Enabled        bool   `env:"ENABLED" envDefault:"false"`
		ServiceName    string `env:"SERVICE_NAME" envDefault:"guide-helper-featurecache"`
		ServiceVersion string `env:"SERVICE_VERSION" envDefault:"1.0.0"`
		Environment    string `env:"ENVIRONMENT" envDefault:"production"`
		OTLPEndpoint   string `env:"OTLP_ENDPOINT" envDefault:"otel-collector.observability.svc.cluster.local:4317"`
	}

	Cache struct {
		RefZoom         int    `env:"REF_ZOOM" envDefault:"13" validate:"min=0,max=30"`
		MaxSplitDelta   int    `env:"MAX_SPLIT_DELTA" envDefault:"10" validate:"min=1,max=15"`
		Backend         string `env:"BACKEND" envDefault:"map"`
		SQLitePath      string `env:"SQLITE_PATH" envDefault:"featurecache.db"`
		FilesystemRoot  string `env:"FILESYSTEM_ROOT" envDefault:"tiles"`
		LRUSize         int64  `env:"LRU_SIZE" envDefault:"0"`
		LRUItemsToPrune uint32 `env:"LRU_ITEMS_TO_PRUNE" envDefault:"100"`
		Limits          Limits `envPrefix:"LIMITS_"`
	}

	// Limits bounds split descendants in reference-zoom tile space.
	// An unset variable leaves its side unconstrained.
	Limits struct {
		XMin *int `env:"X_MIN"`
		XMax *int `env:"X_MAX"`
		YMin *int `env:"Y_MIN"`
		YMax *int `env:"Y_MAX"`
	}

	Redis struct {
		Addr     string `env:"ADDR" envDefault:"localhost:6379"`
		Password string `env:"PASSWORD" envDefault:""`
		DB       int    `env:"DB" envDefault:"0"`
	}
)

// IsSet reports whether any bound is configured.
func (l Limits) IsSet() bool {
	return l.XMin != nil || l.XMax != nil || l.YMin != nil || l.YMax != nil
}

func New() (*Config, error) {
	err := godotenv.Load()
	if err != nil {
		log.Printf("NOTICE: .env file not found or cannot be loaded: %v\n", err)
	}

	return Parse()
}

// Parse reads the configuration from the process environment only.
func Parse() (*Config, error) {
	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, err
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return &cfg, nil
}
