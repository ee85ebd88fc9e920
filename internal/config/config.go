package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/viper"
	"go.uber.org/zap"
)

// Conf holds the application configuration, making it accessible globally.
var Conf *Config

// Config struct is the top-level configuration structure.
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Logging  LoggingConfig  `mapstructure:"logging"`
	Quiz     QuizConfig     `mapstructure:"quiz"`
	Explain  ExplainConfig  `mapstructure:"explain"`
}

// ServerConfig holds server-related settings.
type ServerConfig struct {
	Port string `mapstructure:"port"`
}

// DatabaseConfig holds database connection settings.
type DatabaseConfig struct {
	Host     string `mapstructure:"host"`
	Port     string `mapstructure:"port"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	DBName   string `mapstructure:"dbname"`
}

// RedisConfig holds the leaderboard/guard cache settings. With Enabled=false
// the service runs without redis and everything backed by it degrades to
// DB-only behavior.
type RedisConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Host    string `mapstructure:"host"`
	Port    string `mapstructure:"port"`
}

// LoggingConfig holds settings for the logger.
type LoggingConfig struct {
	Directory  string `mapstructure:"directory"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// QuizConfig holds the domain policy knobs.
type QuizConfig struct {
	// DefaultQuestionCount is used when a start-session request omits the count.
	DefaultQuestionCount int `mapstructure:"default_question_count"`
	// ReviewLatestOnly is the default eligibility rule for final review:
	// false targets "ever missed", true excludes questions whose most recent
	// attempt is correct.
	ReviewLatestOnly bool `mapstructure:"review_latest_only"`
	// ReviewFeedsMastery controls whether final-review attempts count toward
	// the general topic-accuracy aggregates.
	ReviewFeedsMastery bool `mapstructure:"review_feeds_mastery"`
	// ReviewTimeLimitSeconds caps a final review session (0 = no limit).
	ReviewTimeLimitSeconds int `mapstructure:"review_time_limit_seconds"`
	// CatalogPath is the YAML question seed file applied at startup.
	CatalogPath string `mapstructure:"catalog_path"`
}

// ExplainConfig points at the external explanation service.
type ExplainConfig struct {
	URL            string `mapstructure:"url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

// setDefaults sets the default values for the configuration.
func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "5050")

	v.SetDefault("database.host", "db")
	v.SetDefault("database.port", "5432")
	v.SetDefault("database.user", "user")
	v.SetDefault("database.password", "password")
	v.SetDefault("database.dbname", "medquiz-db")

	v.SetDefault("redis.enabled", false)
	v.SetDefault("redis.host", "localhost")
	v.SetDefault("redis.port", "6379")

	v.SetDefault("logging.directory", "logs")
	v.SetDefault("logging.max_size", 10)   // 10 MB
	v.SetDefault("logging.max_backups", 3) // Keep 3 backups
	v.SetDefault("logging.max_age", 7)     // 7 days
	v.SetDefault("logging.compress", true) // Compress old logs

	v.SetDefault("quiz.default_question_count", 10)
	v.SetDefault("quiz.review_latest_only", false)
	v.SetDefault("quiz.review_feeds_mastery", false)
	v.SetDefault("quiz.review_time_limit_seconds", 0)
	v.SetDefault("quiz.catalog_path", "config/questions.yaml")

	v.SetDefault("explain.url", "")
	v.SetDefault("explain.timeout_seconds", 10)
}

// Init initializes the configuration with Viper.
func Init(projectRoot string, log *zap.Logger) error {
	v := viper.New()

	// Set default values
	setDefaults(v)

	v.AddConfigPath(filepath.Join(projectRoot, "config"))
	v.SetConfigName("config")
	v.SetConfigType("yaml")

	// Environment variable binding, e.g. MEDQUIZ_DATABASE_HOST
	v.SetEnvPrefix("MEDQUIZ")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Read the initial configuration from the file.
	// It's okay if the file doesn't exist; defaults and env vars will be used.
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	if err := v.Unmarshal(&Conf); err != nil {
		return fmt.Errorf("unable to decode config into struct: %w", err)
	}

	// Set up a watch for configuration changes for hot-reloading
	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		log.Info("Configuration file changed, reloading.", zap.String("file", e.Name))
		if err := v.Unmarshal(&Conf); err != nil {
			log.Error("Error reloading configuration", zap.Error(err))
		}
	})

	log.Info("Configuration loaded successfully")
	return nil
}
