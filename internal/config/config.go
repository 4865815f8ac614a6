// Package config loads process settings from the environment through viper.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	StorageMemory   = "memory"
	StoragePostgres = "postgres"

	devSecret = "dev-insecure-secret"
)

type Config struct {
	ServiceName     string
	Env             string
	HTTPAddr        string
	ShutdownTimeout time.Duration

	LogLevel string
	LogFile  string

	StorageDriver string
	PostgresDSN   string
	AutoMigrate   bool
	SeedDemoData  bool

	TokenSecret string
	TokenTTL    time.Duration

	Argon2MemoryKiB   uint32
	Argon2Iterations  uint32
	Argon2Parallelism uint8

	LowStockThreshold int

	KafkaBrokers []string
	KafkaTopic   string
}

// New returns a viper instance bound to the environment with every default set.
func New() *viper.Viper {
	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("SERVICE_NAME", "storefront")
	v.SetDefault("ENV", "dev")
	v.SetDefault("HTTP_ADDR", ":8080")
	v.SetDefault("SHUTDOWN_TIMEOUT", "10s")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FILE", "")
	v.SetDefault("STORAGE_DRIVER", StorageMemory)
	v.SetDefault("POSTGRES_DSN", "")
	v.SetDefault("DB_AUTO_MIGRATE", true)
	v.SetDefault("SEED_DEMO_DATA", true)
	v.SetDefault("TOKEN_SECRET", "")
	v.SetDefault("TOKEN_TTL", "24h")
	v.SetDefault("ARGON2_MEMORY_KIB", 64*1024)
	v.SetDefault("ARGON2_ITERATIONS", 1)
	v.SetDefault("ARGON2_PARALLELISM", 4)
	v.SetDefault("LOW_STOCK_THRESHOLD", 3)
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("KAFKA_TOPIC", "storefront.events")
	return v
}

// Load reads the environment and validates the result.
func Load() (Config, error) {
	return FromViper(New())
}

func FromViper(v *viper.Viper) (Config, error) {
	c := Config{
		ServiceName:       v.GetString("SERVICE_NAME"),
		Env:               strings.ToLower(v.GetString("ENV")),
		HTTPAddr:          v.GetString("HTTP_ADDR"),
		ShutdownTimeout:   v.GetDuration("SHUTDOWN_TIMEOUT"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		LogFile:           v.GetString("LOG_FILE"),
		StorageDriver:     strings.ToLower(v.GetString("STORAGE_DRIVER")),
		PostgresDSN:       v.GetString("POSTGRES_DSN"),
		AutoMigrate:       v.GetBool("DB_AUTO_MIGRATE"),
		SeedDemoData:      v.GetBool("SEED_DEMO_DATA"),
		TokenSecret:       v.GetString("TOKEN_SECRET"),
		TokenTTL:          v.GetDuration("TOKEN_TTL"),
		Argon2MemoryKiB:   v.GetUint32("ARGON2_MEMORY_KIB"),
		Argon2Iterations:  v.GetUint32("ARGON2_ITERATIONS"),
		Argon2Parallelism: uint8(v.GetUint("ARGON2_PARALLELISM")),
		LowStockThreshold: v.GetInt("LOW_STOCK_THRESHOLD"),
		KafkaBrokers:      splitList(v.GetString("KAFKA_BROKERS")),
		KafkaTopic:        v.GetString("KAFKA_TOPIC"),
	}
	if c.TokenSecret == "" && c.IsDev() {
		c.TokenSecret = devSecret
	}
	if err := c.Validate(); err != nil {
		return Config{}, err
	}
	return c, nil
}

func (c Config) IsDev() bool { return c.Env == "dev" || c.Env == "local" || c.Env == "test" }

func (c Config) Validate() error {
	var errs []error
	if c.ServiceName == "" {
		errs = append(errs, errors.New("SERVICE_NAME must not be empty"))
	}
	if c.HTTPAddr == "" {
		errs = append(errs, errors.New("HTTP_ADDR must not be empty"))
	}
	switch c.StorageDriver {
	case StorageMemory:
	case StoragePostgres:
		if c.PostgresDSN == "" {
			errs = append(errs, errors.New("POSTGRES_DSN is required when STORAGE_DRIVER=postgres"))
		}
	default:
		errs = append(errs, fmt.Errorf("STORAGE_DRIVER %q is not one of memory, postgres", c.StorageDriver))
	}
	if c.TokenSecret == "" {
		errs = append(errs, fmt.Errorf("TOKEN_SECRET is required in env %q", c.Env))
	}
	if c.TokenTTL <= 0 {
		errs = append(errs, errors.New("TOKEN_TTL must be positive"))
	}
	if c.ShutdownTimeout <= 0 {
		errs = append(errs, errors.New("SHUTDOWN_TIMEOUT must be positive"))
	}
	if c.Argon2MemoryKiB == 0 || c.Argon2Iterations == 0 || c.Argon2Parallelism == 0 {
		errs = append(errs, errors.New("ARGON2_* parameters must be positive"))
	}
	if c.LowStockThreshold < 0 {
		errs = append(errs, errors.New("LOW_STOCK_THRESHOLD must not be negative"))
	}
	if len(c.KafkaBrokers) > 0 && c.KafkaTopic == "" {
		errs = append(errs, errors.New("KAFKA_TOPIC is required when KAFKA_BROKERS is set"))
	}
	if err := errors.Join(errs...); err != nil {
		return fmt.Errorf("config: %w", err)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
