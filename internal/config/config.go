package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config holds all configuration for the application
// Following 12-factor app principles, all config is loaded from environment variables
type Config struct {
	Server   ServerConfig
	Shopify  ShopifyConfig
	LogLevel string
}

type ServerConfig struct {
	Port            string
	Host            string
	ReadTimeout     int
	WriteTimeout    int
	ShutdownTimeout int
}

// ShopifyConfig holds the admin API credentials and the target blog.
// The access token is a static admin token supplied out of band.
type ShopifyConfig struct {
	Domain     string
	AdminToken string
	APIVersion string
	BlogID     string
}

// Load reads configuration from environment variables
func Load() (*Config, error) {
	cfg := &Config{
		Server: ServerConfig{
			Port:            getEnv("PORT", "8080"),
			Host:            getEnv("HOST", "0.0.0.0"),
			ReadTimeout:     getEnvAsInt("READ_TIMEOUT", 15),
			WriteTimeout:    getEnvAsInt("WRITE_TIMEOUT", 15),
			ShutdownTimeout: getEnvAsInt("SHUTDOWN_TIMEOUT", 30),
		},
		Shopify: ShopifyConfig{
			Domain:     getEnv("SHOPIFY_DOMAIN", ""),
			AdminToken: getEnv("SHOPIFY_ADMIN_TOKEN", ""),
			APIVersion: getEnv("SHOPIFY_API_VERSION", ""),
			BlogID:     getEnv("BLOG_ID", ""),
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.Server.Port == "" {
		return fmt.Errorf("PORT is required")
	}

	if c.Shopify.Domain == "" {
		return fmt.Errorf("SHOPIFY_DOMAIN is required")
	}

	if c.Shopify.AdminToken == "" {
		return fmt.Errorf("SHOPIFY_ADMIN_TOKEN is required")
	}

	if c.Shopify.APIVersion == "" {
		return fmt.Errorf("SHOPIFY_API_VERSION is required")
	}

	if c.Shopify.BlogID == "" {
		return fmt.Errorf("BLOG_ID is required")
	}

	validLogLevels := map[string]bool{"debug": true, "info": true, "warn": true, "error": true}
	if !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log level: %s (must be debug, info, warn, or error)", c.LogLevel)
	}

	return nil
}

// Helper functions for reading environment variables

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	valueStr := os.Getenv(key)
	if valueStr == "" {
		return defaultValue
	}
	value, err := strconv.Atoi(valueStr)
	if err != nil {
		return defaultValue
	}
	return value
}
