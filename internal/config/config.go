/**
 * @description
 * This package handles the configuration management for the returns-service. It uses
 * Viper to read configuration from environment variables and an optional .env file.
 *
 * @dependencies
 * - github.com/spf13/viper: A popular library for Go application configuration.
 */

package config

import (
	"log"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultRateLimitPrefix = "returns:rate_limit"
	defaultEventExchange   = "returns.events"
)

// Config holds all the configuration variables for the returns-service.
type Config struct {
	ServerPort                     string `mapstructure:"SERVER_PORT"`
	DatabaseURL                    string `mapstructure:"DATABASE_URL"`
	JWTSecret                      string `mapstructure:"JWT_SECRET"`
	JWTTTLHours                    int    `mapstructure:"JWT_TTL_HOURS"`
	RabbitMQURL                    string `mapstructure:"RABBITMQ_URL"`
	ReturnsEventExchange           string `mapstructure:"RETURNS_EVENT_EXCHANGE"`
	RedisURL                       string `mapstructure:"REDIS_URL"`
	RedisRateLimitPrefix           string `mapstructure:"REDIS_RATE_LIMIT_PREFIX"`
	ReturnSubmitRateLimitPerMinute int    `mapstructure:"RETURN_SUBMIT_RATE_LIMIT_PER_MINUTE"`
	WalletTopUpRateLimitPerMinute  int    `mapstructure:"WALLET_TOPUP_RATE_LIMIT_PER_MINUTE"`
	CORSAllowedOrigins             string `mapstructure:"CORS_ALLOWED_ORIGINS"`
	DefaultAdminEmail              string `mapstructure:"DEFAULT_ADMIN_EMAIL"`
	DefaultAdminPassword           string `mapstructure:"DEFAULT_ADMIN_PASSWORD"`
	ReconcileSchedule              string `mapstructure:"RECONCILE_SCHEDULE"`
}

// LoadConfig reads configuration from environment variables and an optional .env file
// located in path.
func LoadConfig(path string) (config Config, err error) {
	viper.AddConfigPath(path)
	viper.SetConfigName(".env")
	viper.SetConfigType("env")

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	viper.SetDefault("SERVER_PORT", "8080")
	viper.SetDefault("JWT_TTL_HOURS", 24)
	viper.SetDefault("RETURNS_EVENT_EXCHANGE", defaultEventExchange)
	viper.SetDefault("REDIS_RATE_LIMIT_PREFIX", defaultRateLimitPrefix)
	viper.SetDefault("RETURN_SUBMIT_RATE_LIMIT_PER_MINUTE", 10)
	viper.SetDefault("WALLET_TOPUP_RATE_LIMIT_PER_MINUTE", 20)
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "http://localhost:5000,http://127.0.0.1:5000")
	viper.SetDefault("DEFAULT_ADMIN_EMAIL", "admin@example.com")
	viper.SetDefault("RECONCILE_SCHEDULE", "@every 1h")

	// Bind environment variables explicitly to ensure they appear in Unmarshal
	_ = viper.BindEnv("SERVER_PORT")
	_ = viper.BindEnv("PORT")
	_ = viper.BindEnv("DATABASE_URL")
	_ = viper.BindEnv("JWT_SECRET")
	_ = viper.BindEnv("JWT_TTL_HOURS")
	_ = viper.BindEnv("RABBITMQ_URL")
	_ = viper.BindEnv("RETURNS_EVENT_EXCHANGE")
	_ = viper.BindEnv("REDIS_URL", "REDIS_URL", "RETURNS_REDIS_URL")
	_ = viper.BindEnv("REDIS_RATE_LIMIT_PREFIX")
	_ = viper.BindEnv("RETURN_SUBMIT_RATE_LIMIT_PER_MINUTE")
	_ = viper.BindEnv("WALLET_TOPUP_RATE_LIMIT_PER_MINUTE")
	_ = viper.BindEnv("CORS_ALLOWED_ORIGINS")
	_ = viper.BindEnv("DEFAULT_ADMIN_EMAIL")
	_ = viper.BindEnv("DEFAULT_ADMIN_PASSWORD")
	_ = viper.BindEnv("RECONCILE_SCHEDULE")

	if err = viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			log.Printf("level=warn component=config msg=\"failed to read config file; using environment values\" err=%v", err)
		}
	}

	err = viper.Unmarshal(&config)
	if err != nil {
		return
	}

	if port := strings.TrimSpace(os.Getenv("PORT")); port != "" {
		config.ServerPort = port
	}
	config.DatabaseURL = strings.TrimSpace(config.DatabaseURL)
	config.JWTSecret = strings.TrimSpace(config.JWTSecret)
	config.RedisURL = strings.TrimSpace(config.RedisURL)
	config.RedisRateLimitPrefix = strings.TrimSpace(config.RedisRateLimitPrefix)
	if config.RedisRateLimitPrefix == "" {
		config.RedisRateLimitPrefix = defaultRateLimitPrefix
	}
	config.ReturnsEventExchange = strings.TrimSpace(config.ReturnsEventExchange)
	if config.ReturnsEventExchange == "" {
		config.ReturnsEventExchange = defaultEventExchange
	}
	if config.JWTTTLHours <= 0 {
		log.Printf("level=warn component=config msg=\"invalid JWT_TTL_HOURS; using default\" value=%d", config.JWTTTLHours)
		config.JWTTTLHours = 24
	}
	if config.ReturnSubmitRateLimitPerMinute < 0 {
		config.ReturnSubmitRateLimitPerMinute = 0
	}
	if config.WalletTopUpRateLimitPerMinute < 0 {
		config.WalletTopUpRateLimitPerMinute = 0
	}
	if strings.TrimSpace(config.ReconcileSchedule) == "" {
		config.ReconcileSchedule = "@every 1h"
	}

	return
}

// TokenTTL returns the lifetime of issued access tokens.
func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.JWTTTLHours) * time.Hour
}

// AllowedOrigins splits CORS_ALLOWED_ORIGINS into a clean list.
func (c Config) AllowedOrigins() []string {
	parts := strings.Split(c.CORSAllowedOrigins, ",")
	origins := make([]string, 0, len(parts))
	for _, part := range parts {
		if origin := strings.TrimSpace(part); origin != "" {
			origins = append(origins, origin)
		}
	}
	return origins
}
