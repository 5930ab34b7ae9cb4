package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port           string `mapstructure:"PORT"`
	Env            string `mapstructure:"ENV"`
	DatabaseURL    string `mapstructure:"DATABASE_URL"`
	DBMaxOpenConns int    `mapstructure:"DB_MAX_OPEN_CONNS"`

	JWTSecret string `mapstructure:"JWT_SECRET"`
	JWTIssuer string `mapstructure:"JWT_ISSUER"`

	// Base del frontend: el QR apunta a <PUBLIC_BASE_URL>/medical-access/<token>.
	PublicBaseURL string `mapstructure:"PUBLIC_BASE_URL"`

	RedisURL                string `mapstructure:"REDIS_URL"`
	AccessAttemptsPerMinute int    `mapstructure:"ACCESS_ATTEMPTS_PER_MINUTE"`

	S3Bucket     string        `mapstructure:"S3_BUCKET"`
	S3Region     string        `mapstructure:"S3_REGION"`
	S3Endpoint   string        `mapstructure:"S3_ENDPOINT"`
	ExportURLTTL time.Duration `mapstructure:"EXPORT_URL_TTL"`

	LogLevel  string `mapstructure:"LOG_LEVEL"`
	LogFormat string `mapstructure:"LOG_FORMAT"`
}

var keys = []string{
	"PORT", "ENV", "DATABASE_URL", "DB_MAX_OPEN_CONNS",
	"JWT_SECRET", "JWT_ISSUER", "PUBLIC_BASE_URL",
	"REDIS_URL", "ACCESS_ATTEMPTS_PER_MINUTE",
	"S3_BUCKET", "S3_REGION", "S3_ENDPOINT", "EXPORT_URL_TTL",
	"LOG_LEVEL", "LOG_FORMAT",
}

// Load lee .env (si existe) y después el entorno, que tiene prioridad.
func Load() (*Config, error) {
	return load(".env")
}

func load(envFile string) (*Config, error) {
	v := viper.New()
	v.SetConfigFile(envFile)
	v.AutomaticEnv()

	v.SetDefault("PORT", "8080")
	v.SetDefault("ENV", "development")
	v.SetDefault("DB_MAX_OPEN_CONNS", 10)
	v.SetDefault("JWT_ISSUER", "vidalink")
	v.SetDefault("PUBLIC_BASE_URL", "http://localhost:3000")
	v.SetDefault("ACCESS_ATTEMPTS_PER_MINUTE", 30)
	v.SetDefault("S3_REGION", "us-east-1")
	v.SetDefault("EXPORT_URL_TTL", "15m")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")

	for _, k := range keys {
		_ = v.BindEnv(k)
	}

	// Sin archivo se sigue solo con el entorno; un archivo roto es error.
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("read %s: %w", envFile, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsDev() bool {
	return strings.EqualFold(c.Env, "development") || strings.EqualFold(c.Env, "dev")
}

// Validate: fuera de desarrollo no se arranca sin secreto JWT (el header de debug solo existe en dev).
func (c *Config) Validate() error {
	if !c.IsDev() && strings.TrimSpace(c.JWTSecret) == "" {
		return errors.New("JWT_SECRET is required outside development")
	}
	if c.AccessAttemptsPerMinute <= 0 {
		return errors.New("ACCESS_ATTEMPTS_PER_MINUTE must be positive")
	}
	if c.ExportURLTTL <= 0 {
		return errors.New("EXPORT_URL_TTL must be positive")
	}
	return nil
}

func (c *Config) Addr() string {
	return ":" + strings.TrimPrefix(c.Port, ":")
}
