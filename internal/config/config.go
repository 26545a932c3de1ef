package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

const (
	BackendMemory = "memory"
	BackendRemote = "remote"
	BackendMongo  = "mongo"
)

type AppConfig struct {
	Name                string `mapstructure:"name"`
	Env                 string `mapstructure:"env"`
	Port                int    `mapstructure:"port"`
	Backend             string `mapstructure:"backend"`
	ReadTimeoutSeconds  int    `mapstructure:"read_timeout_seconds"`
	WriteTimeoutSeconds int    `mapstructure:"write_timeout_seconds"`
	RateLimitPerMin     int    `mapstructure:"rate_limit_per_min"`

	// Derived
	ReadTimeout  time.Duration `mapstructure:"-"`
	WriteTimeout time.Duration `mapstructure:"-"`
}

func (a *AppConfig) Addr() string { return fmt.Sprintf(":%d", a.Port) }

type MongoConfig struct {
	URI        string `mapstructure:"uri"`
	Database   string `mapstructure:"database"`
	Collection string `mapstructure:"collection"`
}

type RemoteConfig struct {
	BaseURL                string `mapstructure:"base_url"`
	TimeoutSeconds         int    `mapstructure:"timeout_seconds"`
	RetryMaxElapsedSeconds int    `mapstructure:"retry_max_elapsed_seconds"`
	CacheTTLSeconds        int    `mapstructure:"cache_ttl_seconds"`
	BreakerMaxFailures     uint32 `mapstructure:"breaker_max_failures"`
}

type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
	Prefix   string `mapstructure:"prefix"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	Topic   string   `mapstructure:"topic"`
}

type JWTConfig struct {
	Secret string `mapstructure:"secret"`
}

type Config struct {
	App    AppConfig    `mapstructure:"app"`
	Mongo  MongoConfig  `mapstructure:"mongo"`
	Remote RemoteConfig `mapstructure:"remote"`
	Redis  RedisConfig  `mapstructure:"redis"`
	Kafka  KafkaConfig  `mapstructure:"kafka"`
	JWT    JWTConfig    `mapstructure:"jwt"`
}

// Load reads .env (if present), then the YAML file at path (if present),
// then applies environment overrides and defaults.
func Load(path string) (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	if path != "" {
		if _, err := os.Stat(path); err == nil {
			v.SetConfigFile(path)
			if err := v.ReadInConfig(); err != nil {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	overrideFromEnv(cfg)

	cfg.App.ReadTimeout = time.Duration(cfg.App.ReadTimeoutSeconds) * time.Second
	cfg.App.WriteTimeout = time.Duration(cfg.App.WriteTimeoutSeconds) * time.Second

	if err := validate(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "person-service")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", 4000)
	v.SetDefault("app.backend", BackendMemory)
	v.SetDefault("app.read_timeout_seconds", 15)
	v.SetDefault("app.write_timeout_seconds", 15)
	v.SetDefault("app.rate_limit_per_min", 600)
	v.SetDefault("mongo.database", "persons")
	v.SetDefault("mongo.collection", "persons")
	v.SetDefault("remote.timeout_seconds", 5)
	v.SetDefault("remote.retry_max_elapsed_seconds", 10)
	v.SetDefault("remote.breaker_max_failures", 5)
	v.SetDefault("redis.prefix", "person-service")
	v.SetDefault("kafka.topic", "person-events")
}

func overrideFromEnv(cfg *Config) {
	if v := os.Getenv("APP_ENV"); v != "" {
		cfg.App.Env = v
	}
	if v := os.Getenv("SERVICE_PORT"); v != "" {
		if p, err := strconv.Atoi(v); err == nil {
			cfg.App.Port = p
		}
	}
	if v := os.Getenv("PERSON_BACKEND"); v != "" {
		cfg.App.Backend = v
	}

	if v := os.Getenv("MONGODB_URI"); v != "" {
		cfg.Mongo.URI = v
	}
	if v := os.Getenv("MONGO_DB"); v != "" {
		cfg.Mongo.Database = v
	}

	if v := os.Getenv("REMOTE_BASE_URL"); v != "" {
		cfg.Remote.BaseURL = v
	}

	if v := os.Getenv("REDIS_ADDR"); v != "" {
		cfg.Redis.Addr = v
	}
	if v := os.Getenv("REDIS_PASSWORD"); v != "" {
		cfg.Redis.Password = v
	}

	if v := os.Getenv("KAFKA_BROKERS"); v != "" {
		cfg.Kafka.Brokers = strings.Split(v, ",")
	}

	if v := os.Getenv("JWT_SECRET"); v != "" {
		cfg.JWT.Secret = v
	}
}

func validate(cfg *Config) error {
	if cfg.App.Port <= 0 {
		return errors.New("app.port is missing or invalid")
	}

	switch cfg.App.Backend {
	case BackendMemory:
	case BackendRemote:
		if cfg.Remote.BaseURL == "" {
			return errors.New("remote.base_url is required for the remote backend (set REMOTE_BASE_URL)")
		}
	case BackendMongo:
		if cfg.Mongo.URI == "" {
			return errors.New("mongo.uri is empty (required MONGODB_URI in env)")
		}
		if cfg.Mongo.Database == "" {
			return errors.New("mongo.database is missing")
		}
	default:
		return fmt.Errorf("app.backend must be %s, %s or %s", BackendMemory, BackendRemote, BackendMongo)
	}

	if len(cfg.Kafka.Brokers) > 0 && cfg.Kafka.Topic == "" {
		return errors.New("kafka.topic is required when kafka.brokers is set")
	}
	return nil
}
