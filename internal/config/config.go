package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrMissingJWTSecret = errors.New("JWT_SECRET is required")

type Config struct {
	MongoURI string
	MongoDB  string
	Port     string

	MetricsPort string
	JWTSecret   string

	Environment string
	LogLevel    string
	LogFormat   string

	PrincipalCacheTTL time.Duration
	DBTimeout         time.Duration
	ShutdownTimeout   time.Duration

	// EnvFileLoaded indica si se leyó un archivo .env
	EnvFileLoaded bool
}

// IsProduction indica si el servicio corre en producción
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}

// LoadConfig lee la configuración desde .env (si existe) y variables de entorno
func LoadConfig() (*Config, error) {
	loaded := false
	// Solo cargar .env en desarrollo local
	if _, err := os.Stat(".env"); err == nil {
		if err := godotenv.Load(); err != nil {
			return nil, err
		}
		loaded = true
	}

	v := viper.New()
	setDefaults(v)
	v.AutomaticEnv()

	cfg := &Config{
		MongoURI:          v.GetString("MONGO_URI"),
		MongoDB:           v.GetString("MONGO_DB"),
		Port:              v.GetString("PORT"),
		MetricsPort:       v.GetString("METRICS_PORT"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		Environment:       v.GetString("APP_ENV"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		LogFormat:         v.GetString("LOG_FORMAT"),
		PrincipalCacheTTL: v.GetDuration("PRINCIPAL_CACHE_TTL"),
		DBTimeout:         v.GetDuration("DB_TIMEOUT"),
		ShutdownTimeout:   v.GetDuration("SHUTDOWN_TIMEOUT"),
		EnvFileLoaded:     loaded,
	}

	if strings.TrimSpace(cfg.JWTSecret) == "" {
		return nil, ErrMissingJWTSecret
	}

	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("MONGO_URI", "mongodb://localhost:27017")
	v.SetDefault("MONGO_DB", "productCatalog")
	v.SetDefault("PORT", "8080")
	v.SetDefault("METRICS_PORT", "2112")
	v.SetDefault("JWT_SECRET", "")
	v.SetDefault("APP_ENV", "development")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("LOG_FORMAT", "json")
	v.SetDefault("PRINCIPAL_CACHE_TTL", time.Minute)
	v.SetDefault("DB_TIMEOUT", 5*time.Second)
	v.SetDefault("SHUTDOWN_TIMEOUT", 10*time.Second)
}
