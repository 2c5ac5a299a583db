package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Store backends.
const (
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
	BackendMemory   = "memory"
)

type Config struct {
	Server struct {
		Port         string   `yaml:"port"`
		StaticDir    string   `yaml:"staticDir"`
		CORSOrigins  []string `yaml:"corsOrigins"`
		ReadTimeout  string   `yaml:"readTimeout"`
		WriteTimeout string   `yaml:"writeTimeout"`
	} `yaml:"server"`
	Store struct {
		Backend string `yaml:"backend"`
		Path    string `yaml:"path"` // file backend
		Key     string `yaml:"key"`  // redis backend
		Bank    string `yaml:"bank"` // postgres backend
	} `yaml:"store"`
	Redis struct {
		Addr     string `yaml:"addr"`
		Password string `yaml:"password"`
		DB       int    `yaml:"db"`
	} `yaml:"redis"`
	Postgres struct {
		URL string `yaml:"url"`
	} `yaml:"postgres"`
	Images struct {
		APIKey  string `yaml:"apiKey"`
		BaseURL string `yaml:"baseUrl"`
		Timeout string `yaml:"timeout"`
		Budget  string `yaml:"budget"`
		Workers int    `yaml:"workers"`
	} `yaml:"images"`
}

// Default returns the configuration used when no file is present.
func Default() Config {
	cfg := Config{}
	cfg.Server.Port = "5000"
	cfg.Server.StaticDir = "frontend"
	cfg.Server.CORSOrigins = []string{"*"}
	cfg.Store.Backend = BackendFile
	cfg.Store.Path = "questions.json"
	return cfg
}

// Load reads YAML config from path on top of Default, then applies environment overrides.
// A missing file is not an error.
func Load(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, os.ErrNotExist):
		case err != nil:
			return cfg, err
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return cfg, fmt.Errorf("parse %s: %w", path, err)
			}
		}
	}
	applyEnv(&cfg, os.Getenv)
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks that the selected store backend is usable.
func (c Config) Validate() error {
	switch c.Store.Backend {
	case BackendFile:
		if c.Store.Path == "" {
			return errors.New("store.path required for file backend")
		}
	case BackendRedis:
		if c.Redis.Addr == "" {
			return errors.New("redis.addr required for redis backend")
		}
	case BackendPostgres:
		if c.Postgres.URL == "" {
			return errors.New("postgres.url required for postgres backend")
		}
	case BackendMemory:
	default:
		return fmt.Errorf("unknown store backend %q", c.Store.Backend)
	}
	return nil
}

func applyEnv(cfg *Config, getenv func(string) string) {
	set := func(dst *string, key string) {
		if v := strings.TrimSpace(getenv(key)); v != "" {
			*dst = v
		}
	}
	set(&cfg.Images.APIKey, "PEXELS_API_KEY")
	set(&cfg.Store.Path, "QUESTIONS_FILE")
	set(&cfg.Store.Backend, "STORE_BACKEND")
	set(&cfg.Server.StaticDir, "STATIC_DIR")
	set(&cfg.Redis.Addr, "REDIS_ADDR")
	set(&cfg.Postgres.URL, "POSTGRES_URL")
	if v := getenv("CORS_ORIGINS"); v != "" {
		cfg.Server.CORSOrigins = splitCSV(v)
	}
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}

// Duration parses a duration string or returns the fallback if empty or invalid.
func Duration(raw string, fallback time.Duration) time.Duration {
	if raw == "" {
		return fallback
	}
	if d, err := time.ParseDuration(raw); err == nil {
		return d
	}
	return fallback
}
