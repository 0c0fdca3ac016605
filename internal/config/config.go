package config

import (
	"os"
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env                 string
	Port                string
	DatabaseDriver      string // postgres (default) or sqlite
	DatabaseURL         string
	RedisURL            string // optional; enables request stats and the error log
	JWTSecret           string
	FrontendURLEndsWith string
	DevPassword         string
	HealthAdminKey      string
	LogLevel            string
	RevalueCron         string // e.g. "0 */15 * * * *"; empty disables scheduled revaluation
	DisplayCurrency     string
	AutoMigrate         bool
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("DATABASE_DRIVER", "postgres")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DISPLAY_CURRENCY", "USD")

	env := viper.GetString("APP_ENV")
	if env == "" {
		env = viper.GetString("NODE_ENV")
	}
	if env == "" {
		env = "development"
	}

	dbURL := viper.GetString("DATABASE_URL")
	if dbURL == "" {
		switch env {
		case "production":
			dbURL = viper.GetString("DATABASE_URL_PROD")
		case "test":
			dbURL = viper.GetString("DATABASE_URL_TEST")
		default:
			dbURL = viper.GetString("DATABASE_URL_DEV")
		}
	}
	if dbURL == "" {
		dbURL = os.Getenv("DATABASE_URL_DEV")
	}

	return &Config{
		Env:                 env,
		Port:                viper.GetString("PORT"),
		DatabaseDriver:      strings.ToLower(viper.GetString("DATABASE_DRIVER")),
		DatabaseURL:         dbURL,
		RedisURL:            viper.GetString("REDIS_URL"),
		JWTSecret:           viper.GetString("JWT_SECRET"),
		FrontendURLEndsWith: viper.GetString("FRONTEND_URL_ENDS_WITH"),
		DevPassword:         viper.GetString("DEV_PASSWORD"),
		HealthAdminKey:      viper.GetString("HEALTH_ADMIN_KEY"),
		LogLevel:            viper.GetString("LOG_LEVEL"),
		RevalueCron:         strings.TrimSpace(viper.GetString("REVALUE_CRON")),
		DisplayCurrency:     strings.ToUpper(viper.GetString("DISPLAY_CURRENCY")),
		AutoMigrate:         viper.GetBool("AUTO_MIGRATE"),
	}, nil
}

// IsProduction reports whether the service runs with production settings.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}
