package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

const EnvironmentPrefix = "TISSEO_"

const (
	defaultAPIBase         = "https://api.tisseo.fr/v1"
	defaultStopAreasFile   = "stop_areas.json"
	defaultRequestTimeout  = 5 * time.Second
	defaultCacheExpiration = 30 * time.Second
	defaultRedisAddress    = "localhost:6379"
)

var ErrMissingAPIKey = errors.New("TISSEO_API_KEY environment variable must be set")

// Config is built once at startup and then only read
type Config struct {
	APIKey         string        `yaml:"-" validate:"required"`
	APIBase        string        `yaml:"api_base" validate:"required,url"`
	StopAreasFile  string        `yaml:"stop_areas_file" validate:"required"`
	RequestTimeout time.Duration `yaml:"request_timeout" validate:"gt=0"`

	Redis RedisConfig `yaml:"redis"`
}

type RedisConfig struct {
	Enabled         bool          `yaml:"enabled"`
	Address         string        `yaml:"address" validate:"required_if=Enabled true"`
	Password        string        `yaml:"password"`
	Database        int           `yaml:"database" validate:"gte=0"`
	CacheExpiration time.Duration `yaml:"cache_expiration" validate:"gt=0"`
}

func defaultConfig() Config {
	return Config{
		APIBase:        defaultAPIBase,
		StopAreasFile:  defaultStopAreasFile,
		RequestTimeout: defaultRequestTimeout,
		Redis: RedisConfig{
			Address:         defaultRedisAddress,
			CacheExpiration: defaultCacheExpiration,
		},
	}
}

// Load builds the configuration from defaults, the optional YAML file named by TISSEO_CONFIG
// and finally the TISSEO_ environment variables
func Load(env map[string]string) (*Config, error) {
	cfg := defaultConfig()

	if path := env["TISSEO_CONFIG"]; path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading config file: %w", err)
		}

		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config file %s: %w", path, err)
		}
	}

	if err := cfg.applyEnvironment(env); err != nil {
		return nil, err
	}

	if cfg.APIKey == "" {
		return nil, ErrMissingAPIKey
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

func (c *Config) applyEnvironment(env map[string]string) error {
	c.APIKey = env["TISSEO_API_KEY"]

	if env["TISSEO_API_BASE"] != "" {
		c.APIBase = env["TISSEO_API_BASE"]
	}

	if env["TISSEO_STOP_AREAS_FILE"] != "" {
		c.StopAreasFile = env["TISSEO_STOP_AREAS_FILE"]
	}

	if env["TISSEO_REQUEST_TIMEOUT"] != "" {
		timeout, err := time.ParseDuration(env["TISSEO_REQUEST_TIMEOUT"])
		if err != nil {
			return fmt.Errorf("TISSEO_REQUEST_TIMEOUT: %w", err)
		}
		c.RequestTimeout = timeout
	}

	if env["TISSEO_REDIS_ADDRESS"] != "" {
		c.Redis.Enabled = true
		c.Redis.Address = env["TISSEO_REDIS_ADDRESS"]
	}

	if env["TISSEO_REDIS_PASSWORD"] != "" {
		c.Redis.Password = env["TISSEO_REDIS_PASSWORD"]
	}

	if env["TISSEO_REDIS_DATABASE"] != "" {
		database, err := strconv.Atoi(env["TISSEO_REDIS_DATABASE"])
		if err != nil {
			return fmt.Errorf("TISSEO_REDIS_DATABASE: %w", err)
		}
		c.Redis.Database = database
	}

	if env["TISSEO_CACHE_EXPIRATION"] != "" {
		expiration, err := time.ParseDuration(env["TISSEO_CACHE_EXPIRATION"])
		if err != nil {
			return fmt.Errorf("TISSEO_CACHE_EXPIRATION: %w", err)
		}
		c.Redis.CacheExpiration = expiration
	}

	return nil
}
