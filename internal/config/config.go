package config

import (
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the complete application configuration
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Assets   AssetConfig    `yaml:"assets"`
	Auth     AuthConfig     `yaml:"auth"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Host         string        `yaml:"host" env:"MEDIARATER_HOST" default:"0.0.0.0"`
	Port         int           `yaml:"port" env:"MEDIARATER_PORT" default:"8080"`
	ReadTimeout  time.Duration `yaml:"read_timeout" env:"MEDIARATER_READ_TIMEOUT" default:"30s"`
	WriteTimeout time.Duration `yaml:"write_timeout" env:"MEDIARATER_WRITE_TIMEOUT" default:"30s"`
	TemplateGlob string        `yaml:"template_glob" env:"MEDIARATER_TEMPLATE_GLOB" default:"web/templates/*.tmpl"`
	StaticDir    string        `yaml:"static_dir" env:"MEDIARATER_STATIC_DIR" default:"web/static"`
}

// DatabaseConfig holds database configuration for sqlite or postgres
type DatabaseConfig struct {
	Type         string `yaml:"type" env:"DATABASE_TYPE" default:"sqlite"`
	DataDir      string `yaml:"data_dir" env:"MEDIARATER_DATA_DIR" default:"./mediarater-data"`
	DatabasePath string `yaml:"database_path" env:"MEDIARATER_DATABASE_PATH"`
	Host         string `yaml:"host" env:"POSTGRES_HOST" default:"localhost"`
	Port         int    `yaml:"port" env:"POSTGRES_PORT" default:"5432"`
	Username     string `yaml:"username" env:"POSTGRES_USER" default:"mediarater"`
	Password     string `yaml:"password" env:"POSTGRES_PASSWORD"`
	Database     string `yaml:"database" env:"POSTGRES_DB" default:"mediarater"`
	LogQueries   bool   `yaml:"log_queries" env:"DB_LOG_QUERIES" default:"false"`
}

// AssetConfig holds poster/banner image storage configuration
type AssetConfig struct {
	MaxFileSize int64 `yaml:"max_file_size" env:"MEDIARATER_MAX_ASSET_SIZE" default:"20971520"`
	Quality     int   `yaml:"quality" env:"MEDIARATER_ASSET_QUALITY" default:"95"`
	EnableWebP  bool  `yaml:"enable_webp" env:"MEDIARATER_ENABLE_WEBP" default:"true"`
}

// AuthConfig holds session and seeded-admin configuration
type AuthConfig struct {
	SessionSecret string        `yaml:"session_secret" env:"MEDIARATER_SESSION_SECRET" default:"change-me-in-production"`
	SessionMaxAge time.Duration `yaml:"session_max_age" env:"MEDIARATER_SESSION_MAX_AGE" default:"720h"`
	AdminUsername string        `yaml:"admin_username" env:"MEDIARATER_ADMIN_USER" default:"admin"`
	AdminPassword string        `yaml:"admin_password" env:"MEDIARATER_ADMIN_PASSWORD"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level string `yaml:"level" env:"MEDIARATER_LOG_LEVEL" default:"info"`
}

var (
	globalConfig *Config
	configOnce   sync.Once
	mu           sync.RWMutex
)

// Get returns the global configuration, loading defaults on first use
func Get() *Config {
	configOnce.Do(func() {
		if globalConfig == nil {
			cfg, err := Load("")
			if err != nil {
				panic(err)
			}
			globalConfig = cfg
		}
	})
	mu.RLock()
	defer mu.RUnlock()
	configCopy := *globalConfig
	return &configCopy
}

// Set installs cfg as the global configuration
func Set(cfg *Config) {
	mu.Lock()
	defer mu.Unlock()
	globalConfig = cfg
	configOnce.Do(func() {})
}

// Load builds a configuration from defaults, an optional YAML file, and
// environment variable overrides, in that order
func Load(configPath string) (*Config, error) {
	cfg := &Config{}

	// Defaults come from the `default` struct tags
	if err := applyEnvAndDefaults(reflect.ValueOf(cfg).Elem(), false); err != nil {
		return nil, fmt.Errorf("failed to apply config defaults: %w", err)
	}

	if configPath != "" {
		if err := loadFromFile(configPath, cfg); err != nil {
			return nil, fmt.Errorf("failed to load config from file: %w", err)
		}
	}

	if err := applyEnvAndDefaults(reflect.ValueOf(cfg).Elem(), true); err != nil {
		return nil, fmt.Errorf("failed to load config from environment: %w", err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	applyDerived(cfg)
	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	return yaml.Unmarshal(data, cfg)
}

// applyEnvAndDefaults walks the config struct; with envOnly false it fills in
// `default` tag values, with envOnly true it overrides from `env` tag variables
func applyEnvAndDefaults(v reflect.Value, envOnly bool) error {
	t := v.Type()

	for i := 0; i < v.NumField(); i++ {
		field := v.Field(i)
		fieldType := t.Field(i)

		if !field.CanSet() {
			continue
		}

		if field.Kind() == reflect.Struct && field.Type() != reflect.TypeOf(time.Duration(0)) {
			if err := applyEnvAndDefaults(field, envOnly); err != nil {
				return err
			}
			continue
		}

		var value string
		if envOnly {
			if envTag := fieldType.Tag.Get("env"); envTag != "" {
				value = os.Getenv(envTag)
			}
		} else {
			value = fieldType.Tag.Get("default")
		}

		if value == "" {
			continue
		}

		if err := setFieldValue(field, value); err != nil {
			return fmt.Errorf("failed to set field %s: %w", fieldType.Name, err)
		}
	}

	return nil
}

func setFieldValue(field reflect.Value, value string) error {
	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if field.Type() == reflect.TypeOf(time.Duration(0)) {
			duration, err := time.ParseDuration(value)
			if err != nil {
				return err
			}
			field.SetInt(int64(duration))
		} else {
			intVal, err := strconv.ParseInt(value, 10, 64)
			if err != nil {
				return err
			}
			field.SetInt(intVal)
		}
	case reflect.Bool:
		boolVal, err := strconv.ParseBool(value)
		if err != nil {
			return err
		}
		field.SetBool(boolVal)
	default:
		return fmt.Errorf("unsupported field type: %v", field.Kind())
	}

	return nil
}

func validate(cfg *Config) error {
	if cfg.Server.Port < 1 || cfg.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", cfg.Server.Port)
	}
	switch cfg.Database.Type {
	case "sqlite", "postgres":
	default:
		return fmt.Errorf("unsupported database type: %s", cfg.Database.Type)
	}
	if cfg.Assets.Quality < 1 || cfg.Assets.Quality > 100 {
		return fmt.Errorf("invalid asset quality: %d", cfg.Assets.Quality)
	}
	return nil
}

func applyDerived(cfg *Config) {
	if cfg.Database.DatabasePath == "" {
		cfg.Database.DatabasePath = filepath.Join(cfg.Database.DataDir, "mediarater.db")
	}
}

// AssetsDir returns the directory where poster/banner images are stored
func (c *Config) AssetsDir() string {
	return filepath.Join(c.Database.DataDir, "assets")
}

// Addr returns the listen address for the HTTP server
func (c *ServerConfig) Addr() string {
	host := strings.TrimSpace(c.Host)
	return fmt.Sprintf("%s:%d", host, c.Port)
}
