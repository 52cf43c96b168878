// Package config loads the server's TOML configuration tree, with
// environment variable overrides per spec.md §6 ("Environment variables").
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/BurntSushi/toml"
)

type Config struct {
	Server      ServerConfig      `toml:"server"`
	Network     NetworkConfig     `toml:"network"`
	Database    DatabaseConfig    `toml:"database"`
	GalaxyAtWar GalaxyAtWarConfig `toml:"galaxy_at_war"`
	Retriever   RetrieverConfig   `toml:"retriever"`
	Logging     LoggingConfig     `toml:"logging"`
	API         APIConfig         `toml:"api"`
}

type ServerConfig struct {
	MenuMessage string `toml:"menu_message"`
	StartedAt   int64  // set at boot, not from config
}

type NetworkConfig struct {
	MainPort       int           `toml:"main_port"`
	RedirectorPort int           `toml:"redirector_port"`
	HTTPPort       int           `toml:"http_port"`
	QoSPort        int           `toml:"qos_port"`
	InQueueSize    int           `toml:"in_queue_size"`
	OutQueueSize   int           `toml:"out_queue_size"`
	WriteTimeout   time.Duration `toml:"write_timeout"`
}

type DatabaseConfig struct {
	File            string        `toml:"file"`
	URL             string        `toml:"url"`
	MaxOpenConns    int           `toml:"max_open_conns"`
	MaxIdleConns    int           `toml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `toml:"conn_max_lifetime"`
}

// DSN returns the effective connection string: the URL overrides File.
func (d DatabaseConfig) DSN() string {
	if d.URL != "" {
		return d.URL
	}
	return d.File
}

type GalaxyAtWarConfig struct {
	DailyDecay float64 `toml:"daily_decay"`
	Promotions float64 `toml:"promotions"`
}

type RetrieverConfig struct {
	Enabled bool   `toml:"enabled"`
	Origin  string `toml:"origin"`
}

type LoggingConfig struct {
	Level string `toml:"level"`
	Dir   string `toml:"dir"`
}

type APIConfig struct {
	Enabled  bool   `toml:"enabled"`
	Username string `toml:"username"`
	Password string `toml:"password"`
}

func Load(path string) (*Config, error) {
	cfg := defaults()

	if data, err := os.ReadFile(path); err == nil {
		if err := toml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}

	applyEnvOverrides(cfg)
	cfg.Server.StartedAt = time.Now().Unix()
	return cfg, nil
}

func defaults() *Config {
	return &Config{
		Server: ServerConfig{
			MenuMessage: "Welcome to galaxyhost",
		},
		Network: NetworkConfig{
			MainPort:       14219,
			RedirectorPort: 42127,
			HTTPPort:       80,
			QoSPort:        17499,
			InQueueSize:    128,
			OutQueueSize:   256,
			WriteTimeout:   10 * time.Second,
		},
		Database: DatabaseConfig{
			File:            "data/app.db",
			MaxOpenConns:    20,
			MaxIdleConns:    5,
			ConnMaxLifetime: 30 * time.Minute,
		},
		GalaxyAtWar: GalaxyAtWarConfig{
			DailyDecay: 1.0,
			Promotions: 1.0,
		},
		Retriever: RetrieverConfig{
			Enabled: false,
		},
		Logging: LoggingConfig{
			Level: "info",
			Dir:   "data/logs",
		},
		API: APIConfig{
			Enabled: false,
		},
	}
}

// applyEnvOverrides mirrors spec.md §6's PR_* environment variables onto
// the loaded config, taking precedence over both defaults and the TOML file.
func applyEnvOverrides(cfg *Config) {
	if v, ok := envInt("PR_MAIN_PORT"); ok {
		cfg.Network.MainPort = v
	}
	if v, ok := envInt("PR_HTTP_PORT"); ok {
		cfg.Network.HTTPPort = v
	}
	if v, ok := envInt("PR_REDIRECTOR_PORT"); ok {
		cfg.Network.RedirectorPort = v
	}
	if v, ok := envInt("PR_QOS_PORT"); ok {
		cfg.Network.QoSPort = v
	}
	if v := os.Getenv("PR_MENU_MESSAGE"); v != "" {
		cfg.Server.MenuMessage = v
	}
	if v := os.Getenv("PR_DATABASE_FILE"); v != "" {
		cfg.Database.File = v
	}
	if v := os.Getenv("PR_DATABASE_URL"); v != "" {
		cfg.Database.URL = v
	}
	if v, ok := envFloat("PR_GAW_DAILY_DECAY"); ok {
		cfg.GalaxyAtWar.DailyDecay = v
	}
	if v, ok := envFloat("PR_GAW_PROMOTIONS"); ok {
		cfg.GalaxyAtWar.Promotions = v
	}
	if v, ok := envBool("PR_RETRIEVER"); ok {
		cfg.Retriever.Enabled = v
	}
	if v := os.Getenv("PR_LOGGING_DIR"); v != "" {
		cfg.Logging.Dir = v
	}
	if v, ok := envBool("PR_API"); ok {
		cfg.API.Enabled = v
	}
	if v := os.Getenv("PR_API_USERNAME"); v != "" {
		cfg.API.Username = v
	}
	if v := os.Getenv("PR_API_PASSWORD"); v != "" {
		cfg.API.Password = v
	}
}

func envInt(key string) (int, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return n, true
}

func envFloat(key string) (float64, bool) {
	v := os.Getenv(key)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func envBool(key string) (bool, bool) {
	v := os.Getenv(key)
	if v == "" {
		return false, false
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return false, false
	}
	return b, true
}
