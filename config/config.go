package config

import (
	"errors"
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
	"github.com/spf13/viper"
)

const envPrefix = "CLINIC"

type ServerConfig struct {
	Port            int           `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout" split_words:"true"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout" split_words:"true"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout" split_words:"true"`
}

type DatabaseConfig struct {
	// Driver selects the store backend: "postgres" or "memory".
	Driver          string        `mapstructure:"driver"`
	URL             string        `mapstructure:"url"`
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	User            string        `mapstructure:"user"`
	Password        string        `mapstructure:"password"`
	Name            string        `mapstructure:"name"`
	SSLMode         string        `mapstructure:"sslmode"`
	MaxOpenConns    int           `mapstructure:"max_open_conns" split_words:"true"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns" split_words:"true"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime" split_words:"true"`
	AutoMigrate     bool          `mapstructure:"auto_migrate" split_words:"true"`
}

type RedisConfig struct {
	URL          string `mapstructure:"url"`
	PoolSize     int    `mapstructure:"pool_size" split_words:"true"`
	MinIdleConns int    `mapstructure:"min_idle_conns" split_words:"true"`
	MaxRetries   int    `mapstructure:"max_retries" split_words:"true"`
}

type BreakerConfig struct {
	MaxFailures int           `mapstructure:"max_failures" split_words:"true"`
	Timeout     time.Duration `mapstructure:"timeout"`
}

type CacheConfig struct {
	// Driver selects the listing cache backend: "none", "memory" or "redis".
	Driver          string        `mapstructure:"driver"`
	TTL             time.Duration `mapstructure:"ttl"`
	CleanupInterval time.Duration `mapstructure:"cleanup_interval" split_words:"true"`
	Redis           RedisConfig   `mapstructure:"redis"`
	Breaker         BreakerConfig `mapstructure:"breaker"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

type SecurityConfig struct {
	DefaultPassword string `mapstructure:"default_password" split_words:"true"`
	BcryptCost      int    `mapstructure:"bcrypt_cost" split_words:"true"`
}

type RateLimitConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second" split_words:"true"`
	Burst             int     `mapstructure:"burst"`
}

type CORSConfig struct {
	AllowedOrigins []string `mapstructure:"allowed_origins" split_words:"true"`
}

type SeedStaff struct {
	Code          string `mapstructure:"code"`
	Name          string `mapstructure:"name"`
	Role          string `mapstructure:"role"`
	AvailableDays string `mapstructure:"available_days"`
	Password      string `mapstructure:"password"`
}

type SeedConfig struct {
	Enabled bool        `mapstructure:"enabled"`
	Staff   []SeedStaff `mapstructure:"staff" ignored:"true"`
}

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Log       LogConfig       `mapstructure:"log"`
	Security  SecurityConfig  `mapstructure:"security"`
	RateLimit RateLimitConfig `mapstructure:"rate_limit" split_words:"true"`
	CORS      CORSConfig      `mapstructure:"cors"`
	Seed      SeedConfig      `mapstructure:"seed"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.read_timeout", 15*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 5*time.Second)

	v.SetDefault("database.driver", "memory")
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.name", "clinic")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_open_conns", 25)
	v.SetDefault("database.max_idle_conns", 5)
	v.SetDefault("database.conn_max_lifetime", 5*time.Minute)
	v.SetDefault("database.auto_migrate", true)

	v.SetDefault("cache.driver", "memory")
	v.SetDefault("cache.ttl", 30*time.Second)
	v.SetDefault("cache.cleanup_interval", time.Minute)
	v.SetDefault("cache.redis.url", "redis://localhost:6379/0")
	v.SetDefault("cache.redis.pool_size", 10)
	v.SetDefault("cache.redis.min_idle_conns", 2)
	v.SetDefault("cache.redis.max_retries", 3)
	v.SetDefault("cache.breaker.max_failures", 5)
	v.SetDefault("cache.breaker.timeout", 30*time.Second)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "console")

	v.SetDefault("security.default_password", "temp_password")
	v.SetDefault("security.bcrypt_cost", 10)

	v.SetDefault("rate_limit.enabled", true)
	v.SetDefault("rate_limit.requests_per_second", 50)
	v.SetDefault("rate_limit.burst", 100)

	v.SetDefault("cors.allowed_origins", []string{"*"})

	v.SetDefault("seed.enabled", true)
	v.SetDefault("seed.staff", []map[string]interface{}{
		{"code": "admin", "name": "Admin User", "role": "Admin", "password": "pass123"},
		{"code": "D101", "name": "Dr. Smith", "role": "Doctor", "available_days": "Mon,Wed,Fri", "password": "pass123"},
		{"code": "R201", "name": "Jane Doe", "role": "Receptionist", "password": "pass123"},
	})
}

// LoadConfig reads config.yml from the working directory or ./config, then
// applies CLINIC_* environment overrides. A missing file is not an error.
func LoadConfig(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yml")
	if len(paths) == 0 {
		paths = []string{".", "./config"}
	}
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := envconfig.Process(envPrefix, &cfg); err != nil {
		return nil, fmt.Errorf("failed to apply environment overrides: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "postgres", "memory":
	default:
		return fmt.Errorf("unsupported database driver %q", c.Database.Driver)
	}
	switch c.Cache.Driver {
	case "none", "memory", "redis":
	default:
		return fmt.Errorf("unsupported cache driver %q", c.Cache.Driver)
	}
	if c.Security.DefaultPassword == "" {
		return errors.New("security.default_password must not be empty")
	}
	return nil
}
