// Package config loads dashboard configuration from config.yaml, .env and
// DASHBOARD_* environment variables.
package config

import (
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sells-group/client-dashboard/internal/chat"
	"github.com/sells-group/client-dashboard/internal/db"
	"github.com/sells-group/client-dashboard/internal/query"
)

// Config holds the full application configuration.
type Config struct {
	Database DatabaseConfig `yaml:"database" mapstructure:"database"`
	Query    QueryConfig    `yaml:"query" mapstructure:"query"`
	Fetch    FetchConfig    `yaml:"fetch" mapstructure:"fetch"`
	Server   ServerConfig   `yaml:"server" mapstructure:"server"`
	Chat     ChatConfig     `yaml:"chat" mapstructure:"chat"`
	Log      LogConfig      `yaml:"log" mapstructure:"log"`
}

// DatabaseConfig identifies the PostgreSQL database. URL wins over the
// individual fields when set.
type DatabaseConfig struct {
	Name     string `yaml:"name" mapstructure:"name"`
	User     string `yaml:"user" mapstructure:"user"`
	Password string `yaml:"password" mapstructure:"password"`
	Host     string `yaml:"host" mapstructure:"host"`
	Port     int    `yaml:"port" mapstructure:"port"`
	URL      string `yaml:"url" mapstructure:"url"`
	SSLMode  string `yaml:"sslmode" mapstructure:"sslmode"`
}

// QueryConfig configures the stage queries.
type QueryConfig struct {
	Window    time.Duration `yaml:"window" mapstructure:"window"`
	Threshold int           `yaml:"threshold" mapstructure:"threshold"`
}

// FetchConfig configures query execution. A zero QueryTimeout means none.
type FetchConfig struct {
	QueryTimeout time.Duration `yaml:"query_timeout" mapstructure:"query_timeout"`
}

// ServerConfig configures the dashboard HTTP server.
type ServerConfig struct {
	Port          int    `yaml:"port" mapstructure:"port"`
	AllowedOrigin string `yaml:"allowed_origin" mapstructure:"allowed_origin"`
}

// ChatConfig configures the simulated reply stream.
type ChatConfig struct {
	WordsPerSecond float64 `yaml:"words_per_second" mapstructure:"words_per_second"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment. A .env file in the
// working directory is loaded first when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("DASHBOARD")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	// Deployments configured with a bare DATABASE_URL keep working.
	if err := v.BindEnv("database.url", "DASHBOARD_DATABASE_URL", "DATABASE_URL"); err != nil {
		return nil, eris.Wrap(err, "config: bind database url")
	}

	// Defaults. Every key needs one so AutomaticEnv can bind it on Unmarshal.
	v.SetDefault("database.name", "")
	v.SetDefault("database.user", "")
	v.SetDefault("database.password", "")
	v.SetDefault("database.host", "")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.url", "")
	v.SetDefault("database.sslmode", "")
	v.SetDefault("query.window", query.DefaultWindow)
	v.SetDefault("query.threshold", query.DefaultThreshold)
	v.SetDefault("fetch.query_timeout", time.Duration(0))
	v.SetDefault("server.port", 8080)
	v.SetDefault("server.allowed_origin", "*")
	v.SetDefault("chat.words_per_second", chat.DefaultWordsPerSecond)
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// Credentials returns the database credentials handed to the connection
// provider.
func (c *Config) Credentials() db.Credentials {
	return db.Credentials{
		Name:     c.Database.Name,
		User:     c.Database.User,
		Password: c.Database.Password,
		Host:     c.Database.Host,
		Port:     c.Database.Port,
		SSLMode:  c.Database.SSLMode,
		URL:      c.Database.URL,
	}
}

// StageOptions returns the stage query options.
func (c *Config) StageOptions() query.StageOptions {
	return query.StageOptions{Threshold: c.Query.Threshold, Window: c.Query.Window}
}

// Validate checks the settings needed before any command touches the
// database. All problems are reported together.
func (c *Config) Validate() error {
	var problems []string
	if err := c.Credentials().Validate(); err != nil {
		problems = append(problems, "database.url or database.{name,user,host} is required")
	}
	if c.Database.Port < 0 || c.Database.Port > 65535 {
		problems = append(problems, "database.port must be between 0 and 65535")
	}
	if c.Query.Threshold <= 0 {
		problems = append(problems, "query.threshold must be positive")
	}
	if c.Query.Window <= 0 {
		problems = append(problems, "query.window must be positive")
	}
	if c.Fetch.QueryTimeout < 0 {
		problems = append(problems, "fetch.query_timeout must not be negative")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		problems = append(problems, "server.port must be between 1 and 65535")
	}
	if c.Chat.WordsPerSecond < 0 {
		problems = append(problems, "chat.words_per_second must not be negative")
	}
	if len(problems) > 0 {
		return eris.Errorf("config: %s", strings.Join(problems, "; "))
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
