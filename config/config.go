package config

import (
	"errors"
	"io/fs"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Environment string `mapstructure:"ENVIRONMENT"`
	ServerPort  int    `mapstructure:"SERVER_PORT"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	LogFormat   string `mapstructure:"LOG_FORMAT"`
	CorsOrigins string `mapstructure:"CORS_ORIGINS"`

	DatabaseDriver       string `mapstructure:"DATABASE_DRIVER"`
	DatabaseDbPath       string `mapstructure:"DATABASE_DB_PATH"`
	DatabaseHost         string `mapstructure:"DATABASE_HOST"`
	DatabasePort         int    `mapstructure:"DATABASE_PORT"`
	DatabaseUser         string `mapstructure:"DATABASE_USER"`
	DatabasePassword     string `mapstructure:"DATABASE_PASSWORD"`
	DatabaseName         string `mapstructure:"DATABASE_NAME"`
	DatabaseCacheAddress string `mapstructure:"DATABASE_CACHE_ADDRESS"`
	DatabaseCachePort    int    `mapstructure:"DATABASE_CACHE_PORT"`

	AdminLogin    string        `mapstructure:"ADMIN_LOGIN"`
	AdminPassword string        `mapstructure:"ADMIN_PASSWORD"`
	SessionTTL    time.Duration `mapstructure:"SESSION_TTL"`

	Timezone         string        `mapstructure:"TIMEZONE"`
	ReminderInterval time.Duration `mapstructure:"REMINDER_INTERVAL"`

	MessagingURL    string `mapstructure:"MESSAGING_URL"`
	MessagingAPIKey string `mapstructure:"MESSAGING_API_KEY"`
	MessagingSender string `mapstructure:"MESSAGING_SENDER"`

	NewsletterURL    string `mapstructure:"NEWSLETTER_URL"`
	NewsletterAPIKey string `mapstructure:"NEWSLETTER_API_KEY"`
	NewsletterListID string `mapstructure:"NEWSLETTER_LIST_ID"`

	PriceFeedURL  string        `mapstructure:"PRICE_FEED_URL"`
	PriceCacheTTL time.Duration `mapstructure:"PRICE_CACHE_TTL"`

	GenAIAPIKey    string `mapstructure:"GENAI_API_KEY"`
	GenAIModel     string `mapstructure:"GENAI_MODEL"`
	MaxUploadBytes int    `mapstructure:"MAX_UPLOAD_BYTES"`
}

const (
	DriverSQLite   = "sqlite"
	DriverPostgres = "postgres"
)

var defaults = map[string]any{
	"ENVIRONMENT":            "development",
	"SERVER_PORT":            8280,
	"LOG_LEVEL":              "info",
	"LOG_FORMAT":             "text",
	"CORS_ORIGINS":           "*",
	"DATABASE_DRIVER":        DriverSQLite,
	"DATABASE_DB_PATH":       "data/elvalg.db",
	"DATABASE_HOST":          "",
	"DATABASE_PORT":          5432,
	"DATABASE_USER":          "",
	"DATABASE_PASSWORD":      "",
	"DATABASE_NAME":          "elvalg",
	"DATABASE_CACHE_ADDRESS": "",
	"DATABASE_CACHE_PORT":    6379,
	"ADMIN_LOGIN":            "",
	"ADMIN_PASSWORD":         "",
	"SESSION_TTL":            "12h",
	"TIMEZONE":               "Europe/Oslo",
	"REMINDER_INTERVAL":      "1h",
	"MESSAGING_URL":          "",
	"MESSAGING_API_KEY":      "",
	"MESSAGING_SENDER":       "Elvalg",
	"NEWSLETTER_URL":         "",
	"NEWSLETTER_API_KEY":     "",
	"NEWSLETTER_LIST_ID":     "",
	"PRICE_FEED_URL":         "https://www.hvakosterstrommen.no/api/v1/prices",
	"PRICE_CACHE_TTL":        "1h",
	"GENAI_API_KEY":          "",
	"GENAI_MODEL":            "gemini-2.5-flash",
	"MAX_UPLOAD_BYTES":       10 << 20,
}

func InitConfig() (Config, error) {
	return Load(viper.New())
}

// Load reads defaults, an optional .env and config.yaml from the working
// directory, then the environment. Environment variables win.
func Load(v *viper.Viper) (Config, error) {
	for key, value := range defaults {
		v.SetDefault(key, value)
	}

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	if err := v.ReadInConfig(); err != nil && !isMissingFile(err) {
		return Config{}, err
	}

	v.SetConfigFile("config.yaml")
	v.SetConfigType("yaml")
	if err := v.MergeInConfig(); err != nil && !isMissingFile(err) {
		return Config{}, err
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return Config{}, err
	}

	if err := config.Validate(); err != nil {
		return Config{}, err
	}

	return config, nil
}

func isMissingFile(err error) bool {
	var notFound viper.ConfigFileNotFoundError
	if errors.As(err, &notFound) {
		return true
	}
	return errors.Is(err, fs.ErrNotExist)
}

func (c Config) Validate() error {
	switch c.DatabaseDriver {
	case DriverSQLite:
		if c.DatabaseDbPath == "" {
			return errors.New("DATABASE_DB_PATH is required for sqlite")
		}
	case DriverPostgres:
		if c.DatabaseHost == "" || c.DatabaseName == "" {
			return errors.New("DATABASE_HOST and DATABASE_NAME are required for postgres")
		}
	default:
		return errors.New("DATABASE_DRIVER must be sqlite or postgres")
	}

	if c.ServerPort <= 0 || c.ServerPort > 65535 {
		return errors.New("SERVER_PORT must be between 1 and 65535")
	}

	if c.ReminderInterval <= 0 {
		return errors.New("REMINDER_INTERVAL must be positive")
	}

	if c.MaxUploadBytes <= 0 {
		return errors.New("MAX_UPLOAD_BYTES must be positive")
	}

	return nil
}

func (c Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, "production")
}
