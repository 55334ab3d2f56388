package config

import (
	"fmt"
	"net/url"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

// Create a new instance of the logger
// Configure it to log at the desired level
// and format it as JSON for structured logging
var log = logrus.New()

func init() {
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(LevelForEnvironment(GetEnvWithDefault("APP_ENV", "development")))
}

// Config used for the application configuration, loading the input from
// environment variables and an optional CONFIG_FILE
type Config struct {
	// Server Configuration
	Environment string `json:"environment"`
	Port        int    `json:"port"`
	Host        string `json:"host"`

	// Database configuration
	DBDriver    string `json:"db_driver"`
	DBPath      string `json:"db_path"`
	DatabaseURL string `json:"database_url"`
	DBHost      string `json:"db_host"`
	DBPort      string `json:"db_port"`
	DBName      string `json:"db_name"`
	DBUser      string `json:"db_user"`
	DBPassword  string `json:"db_password"`
	DBSSLMode   string `json:"db_sslmode"`

	// Logging configuration
	LogLevel string `json:"log_level"`

	// Security Configuration
	JWTSecret       string   `json:"jwt_secret"`
	TokenTTLMinutes int      `json:"token_ttl_minutes"`
	OIDCIssuer      string   `json:"oidc_issuer"`
	OIDCClientID    string   `json:"oidc_client_id"`
	AdminEmails     []string `json:"admin_emails"`

	// Ordering behaviour
	StrictTransitions bool `json:"strict_transitions"`
	SeedCatalog       bool `json:"seed_catalog"`
}

// String returns a string representation of Config with sensitive data masked
func (c *Config) String() string {
	return fmt.Sprintf("Config{Environment: %s, Port: %d, Host: %s, DBDriver: %s, DBPath: %s, DatabaseURL: %s, DBHost: %s, DBName: %s, DBUser: %s, DBPassword: [REDACTED], LogLevel: %s, JWTSecret: [REDACTED], OIDCIssuer: %s, StrictTransitions: %t, SeedCatalog: %t}",
		c.Environment, c.Port, c.Host, c.DBDriver, c.DBPath, maskDatabaseURL(c.DatabaseURL), c.DBHost, c.DBName, c.DBUser, c.LogLevel, c.OIDCIssuer, c.StrictTransitions, c.SeedCatalog)
}

// maskDatabaseURL masks password in database URL
func maskDatabaseURL(dbURL string) string {
	if dbURL == "" {
		return ""
	}

	parsed, err := url.Parse(dbURL)
	if err != nil {
		return "[REDACTED_INVALID_URL]"
	}

	if parsed.User != nil {
		parsed.User = url.UserPassword(parsed.User.Username(), "[REDACTED]")
	}

	return parsed.String()
}

var defaults = map[string]interface{}{
	"APP_ENV":                  "development",
	"APP_HOST":                 "localhost",
	"APP_PORT":                 "8080",
	"LOG_LEVEL":                "info",
	"DB_DRIVER":                "sqlite",
	"DB_PATH":                  "pizza.sqlite",
	"DATABASE_URL":             "",
	"DB_HOST":                  "localhost",
	"DB_PORT":                  "5432",
	"DB_NAME":                  "pizza",
	"DB_USER":                  "pizza",
	"DB_PASSWORD":              "password",
	"DB_SSLMODE":               "disable",
	"JWT_SECRET":               "secret",
	"TOKEN_TTL_MINUTES":        "120",
	"OIDC_ISSUER":              "",
	"OIDC_CLIENT_ID":           "",
	"ADMIN_EMAILS":             "",
	"ORDER_STRICT_TRANSITIONS": "false",
	"SEED_CATALOG":             "false",
}

// LoadConfig read the proper configuration from environment variables and returns a Config struct
// Values from CONFIG_FILE (yaml, json or toml) are overridden by the environment
// Returns an error if a value is present but malformed
func LoadConfig() (*Config, error) {
	log.Info("Loading configuration from environment variables")
	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	if file := os.Getenv("CONFIG_FILE"); file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config file %s: %w", file, err)
		}
		log.WithField("config_file", v.ConfigFileUsed()).Info("Configuration file loaded")
	}

	port, err := strconv.Atoi(v.GetString("APP_PORT"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	ttl, err := strconv.Atoi(v.GetString("TOKEN_TTL_MINUTES"))
	if err != nil || ttl <= 0 {
		return nil, fmt.Errorf("invalid TOKEN_TTL_MINUTES: %q", v.GetString("TOKEN_TTL_MINUTES"))
	}

	strict, err := strconv.ParseBool(v.GetString("ORDER_STRICT_TRANSITIONS"))
	if err != nil {
		return nil, fmt.Errorf("invalid ORDER_STRICT_TRANSITIONS: %w", err)
	}

	seed, err := strconv.ParseBool(v.GetString("SEED_CATALOG"))
	if err != nil {
		return nil, fmt.Errorf("invalid SEED_CATALOG: %w", err)
	}

	dbURL := v.GetString("DATABASE_URL")
	if dbURL != "" {
		if _, err := url.ParseRequestURI(dbURL); err != nil {
			return nil, fmt.Errorf("invalid DATABASE_URL format: %w", err)
		}
	}

	config := &Config{
		Environment:       v.GetString("APP_ENV"),
		Port:              port,
		Host:              v.GetString("APP_HOST"),
		DBDriver:          strings.ToLower(v.GetString("DB_DRIVER")),
		DBPath:            v.GetString("DB_PATH"),
		DatabaseURL:       dbURL,
		DBHost:            v.GetString("DB_HOST"),
		DBPort:            v.GetString("DB_PORT"),
		DBName:            v.GetString("DB_NAME"),
		DBUser:            v.GetString("DB_USER"),
		DBPassword:        v.GetString("DB_PASSWORD"),
		DBSSLMode:         v.GetString("DB_SSLMODE"),
		LogLevel:          v.GetString("LOG_LEVEL"),
		JWTSecret:         v.GetString("JWT_SECRET"),
		TokenTTLMinutes:   ttl,
		OIDCIssuer:        v.GetString("OIDC_ISSUER"),
		OIDCClientID:      v.GetString("OIDC_CLIENT_ID"),
		AdminEmails:       splitList(v.GetString("ADMIN_EMAILS")),
		StrictTransitions: strict,
		SeedCatalog:       seed,
	}
	log.Infof("Configuration loaded: %s", config.String())
	return config, nil
}

// splitList parses a comma separated list, dropping blanks
func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

// LevelForEnvironment maps APP_ENV to the default log level
func LevelForEnvironment(environment string) logrus.Level {
	switch environment {
	case "development":
		return logrus.DebugLevel
	case "production":
		return logrus.ErrorLevel
	default:
		// Default to info level for other environments
		return logrus.InfoLevel
	}
}

// Helper to get environment with default values
func GetEnvWithDefault(key, defaultValue string) string {
	log.Tracef("Getting environment variable: %s", key)
	value := os.Getenv(key)
	if value == "" {
		log.Debugf("Environment variable %s not set, using default value: %s", key, defaultValue)
		return defaultValue
	}
	return value
}
