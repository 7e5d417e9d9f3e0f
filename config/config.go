package config

import (
	"errors"
	"log"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration values.
type Config struct {
	AppPort           string        `mapstructure:"APP_PORT"`
	Env               string        `mapstructure:"ENV"`
	LogLevel          string        `mapstructure:"LOG_LEVEL"`
	MaxRequestsPerMin int           `mapstructure:"MAX_REQUESTS_PER_MIN"`
	ShutdownTimeout   time.Duration `mapstructure:"SHUTDOWN_TIMEOUT"`

	// Storage configuration. StorageDriver is "mongo" or "memory".
	StorageDriver string `mapstructure:"STORAGE_DRIVER"`
	DatabaseURL   string `mapstructure:"DATABASE_URL"`
	DatabaseName  string `mapstructure:"DATABASE_NAME"`

	// Redis configuration.
	RedisAddr     string        `mapstructure:"REDIS_ADDR"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	RedisCacheDB  int           `mapstructure:"REDIS_CACHE_DB"`
	RedisQueueDB  int           `mapstructure:"REDIS_QUEUE_DB"`
	CacheEnabled  bool          `mapstructure:"CACHE_ENABLED"`
	SlotCacheTTL  time.Duration `mapstructure:"SLOT_CACHE_TTL"`

	NotificationsEnabled bool `mapstructure:"NOTIFICATIONS_ENABLED"`
	// EventWorkerEnabled runs the booking event consumer in this process.
	EventWorkerEnabled bool `mapstructure:"EVENT_WORKER_ENABLED"`

	JWTSecret string `mapstructure:"JWT_SECRET"`
}

var AppConfig Config

func LoadConfig() {
	// Look for a config file named "config.yaml" in the current and "config" directory.
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("./config")
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		log.Println("No config file found, using environment variables only")
	}

	if err := viper.Unmarshal(&AppConfig); err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}
}

func setDefaults() {
	viper.SetDefault("APP_PORT", "8080")
	viper.SetDefault("ENV", "development")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MAX_REQUESTS_PER_MIN", 100)
	viper.SetDefault("SHUTDOWN_TIMEOUT", 5*time.Second)
	viper.SetDefault("STORAGE_DRIVER", "mongo")
	viper.SetDefault("DATABASE_URL", "mongodb://localhost:27017")
	viper.SetDefault("DATABASE_NAME", "appointly")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_CACHE_DB", 0)
	viper.SetDefault("REDIS_QUEUE_DB", 1)
	viper.SetDefault("CACHE_ENABLED", true)
	viper.SetDefault("SLOT_CACHE_TTL", 30*time.Second)
	viper.SetDefault("NOTIFICATIONS_ENABLED", true)
	viper.SetDefault("EVENT_WORKER_ENABLED", false)
	viper.SetDefault("JWT_SECRET", "")
}

// ErrMissingJWTSecret means a production process has no signing secret.
var ErrMissingJWTSecret = errors.New("JWT_SECRET must be set in production")

// Validate rejects configurations the service must not start with.
func Validate(c Config) error {
	if c.Env == "production" && c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	return nil
}

func GetEnv() string {
	return AppConfig.Env
}

func IsProduction() bool {
	return GetEnv() == "production"
}

// UsesMemoryStorage reports whether repositories should be backed by the in-process store.
func UsesMemoryStorage() bool {
	return AppConfig.StorageDriver == "memory"
}
