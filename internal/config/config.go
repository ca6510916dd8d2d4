package config

import (
	"errors"
	"fmt"
	"net"
	"strings"
	"time"

	"jobTracker/internal/calendar"

	"github.com/spf13/viper"
)

const EnvPrefix = "JOBTRACKER"

const (
	RepositoryPostgres = "postgres"
	RepositoryInMemory = "inmemory"
)

type Config struct {
	Server     ServerConfig     `mapstructure:"server"`
	Database   DatabaseConfig   `mapstructure:"database"`
	Logging    LoggingConfig    `mapstructure:"logging"`
	Repository RepositoryConfig `mapstructure:"repository"`
	Worker     WorkerConfig     `mapstructure:"worker"`
	Schedule   ScheduleConfig   `mapstructure:"schedule"`
	Templates  TemplatesConfig  `mapstructure:"templates"`
	HTTP       HTTPConfig       `mapstructure:"http"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            string        `mapstructure:"port"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

type DatabaseConfig struct {
	URL            string        `mapstructure:"url"`
	MaxConnections int           `mapstructure:"max_connections"`
	MinConnections int           `mapstructure:"min_connections"`
	IdleTimeout    time.Duration `mapstructure:"idle_timeout"`
	// MigrateOnStart applies pending migrations before serving.
	MigrateOnStart bool `mapstructure:"migrate_on_start"`
}

type LoggingConfig struct {
	Development bool `mapstructure:"development"`
}

type RepositoryConfig struct {
	Type string `mapstructure:"type"` // "postgres" or "inmemory"
}

type WorkerConfig struct {
	Enabled   bool          `mapstructure:"enabled"`
	Interval  time.Duration `mapstructure:"interval"`
	BatchSize int           `mapstructure:"batch_size"`
}

type ScheduleConfig struct {
	MaterialSnap string `mapstructure:"material_snap"`
}

type TemplatesConfig struct {
	Path string `mapstructure:"path"`
}

type HTTPConfig struct {
	RateLimit      int           `mapstructure:"rate_limit"`
	RequestTimeout time.Duration `mapstructure:"request_timeout"`
	AllowedOrigins []string      `mapstructure:"allowed_origins"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.read_timeout", 10*time.Second)
	v.SetDefault("server.write_timeout", 15*time.Second)
	v.SetDefault("server.shutdown_timeout", 10*time.Second)

	v.SetDefault("database.url", "")
	v.SetDefault("database.max_connections", 10)
	v.SetDefault("database.min_connections", 2)
	v.SetDefault("database.idle_timeout", 5*time.Minute)
	v.SetDefault("database.migrate_on_start", true)

	v.SetDefault("logging.development", false)

	v.SetDefault("repository.type", RepositoryInMemory)

	v.SetDefault("worker.enabled", true)
	v.SetDefault("worker.interval", 5*time.Minute)
	v.SetDefault("worker.batch_size", 100)

	v.SetDefault("schedule.material_snap", string(calendar.SnapForward))

	v.SetDefault("templates.path", "")

	v.SetDefault("http.rate_limit", 120)
	v.SetDefault("http.request_timeout", 30*time.Second)
	v.SetDefault("http.allowed_origins", []string{"*"})
}

// Load reads path, or ./config.yml when path is empty, and overlays JOBTRACKER_*
// environment variables. A missing default file is not an error; a missing explicit
// path is.
func Load(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetConfigType("yaml")
	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) Validate() error {
	switch c.Repository.Type {
	case RepositoryInMemory:
	case RepositoryPostgres:
		if c.Database.URL == "" {
			return errors.New("config: database.url is required for the postgres repository")
		}
		if c.Database.MinConnections > c.Database.MaxConnections {
			return fmt.Errorf("config: database.min_connections (%d) exceeds max_connections (%d)",
				c.Database.MinConnections, c.Database.MaxConnections)
		}
	default:
		return fmt.Errorf("config: unknown repository.type %q", c.Repository.Type)
	}

	if c.Server.Port == "" {
		return errors.New("config: server.port is required")
	}
	if _, err := calendar.ParseSnapRule(c.Schedule.MaterialSnap); err != nil {
		return fmt.Errorf("config: schedule.material_snap: %w", err)
	}
	if c.Worker.Enabled && c.Worker.Interval <= 0 {
		return errors.New("config: worker.interval must be positive")
	}
	if c.Worker.BatchSize < 0 {
		return errors.New("config: worker.batch_size must not be negative")
	}
	if c.HTTP.RateLimit < 0 {
		return errors.New("config: http.rate_limit must not be negative")
	}
	return nil
}

func (c *Config) GetServerAddr() string {
	return net.JoinHostPort(c.Server.Host, c.Server.Port)
}

// SnapRule returns the configured material snap rule. Validate has already checked it.
func (c *Config) SnapRule() calendar.SnapRule {
	rule, _ := calendar.ParseSnapRule(c.Schedule.MaterialSnap)
	return rule
}
