package inference

import (
	"strings"
	"time"

	"go.uber.org/zap"
)

const (
	defaultCacheTTLConstant      = 10 * time.Minute
	defaultCacheCapacityConstant = 1024
)

// Configuration describes the model backend and its response cache.
type Configuration struct {
	BaseURL       string        `mapstructure:"base_url"`
	Model         string        `mapstructure:"model"`
	APIToken      string        `mapstructure:"api_token"`
	Timeout       time.Duration `mapstructure:"timeout"`
	CacheTTL      time.Duration `mapstructure:"cache_ttl"`
	CacheCapacity uint64        `mapstructure:"cache_capacity"`
}

// DefaultConfiguration targets google/flan-t5-small on the Hugging Face Inference API.
func DefaultConfiguration() Configuration {
	return Configuration{
		BaseURL:       DefaultBaseURL,
		Model:         DefaultModel,
		Timeout:       DefaultTimeout,
		CacheTTL:      defaultCacheTTLConstant,
		CacheCapacity: defaultCacheCapacityConstant,
	}
}

// DefaultConfigurationValues exposes the defaults as flat keys for the configuration loader.
func DefaultConfigurationValues() map[string]any {
	defaults := DefaultConfiguration()
	return map[string]any{
		"base_url":       defaults.BaseURL,
		"model":          defaults.Model,
		"api_token":      "",
		"timeout":        defaults.Timeout.String(),
		"cache_ttl":      defaults.CacheTTL.String(),
		"cache_capacity": defaults.CacheCapacity,
	}
}

// Sanitize trims string values and restores defaults for empty ones.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := configuration
	sanitized.BaseURL = strings.TrimSpace(configuration.BaseURL)
	if len(sanitized.BaseURL) == 0 {
		sanitized.BaseURL = DefaultBaseURL
	}
	sanitized.Model = strings.TrimSpace(configuration.Model)
	if len(sanitized.Model) == 0 {
		sanitized.Model = DefaultModel
	}
	sanitized.APIToken = strings.TrimSpace(configuration.APIToken)
	if sanitized.Timeout <= 0 {
		sanitized.Timeout = DefaultTimeout
	}
	return sanitized
}

// NewConfiguredGenerator builds the HTTP generator described by configuration behind a
// CachingGenerator. Callers must Close the result.
func NewConfiguredGenerator(configuration Configuration, logger *zap.Logger) *CachingGenerator {
	sanitized := configuration.Sanitize()
	httpGenerator := NewHTTPGenerator(HTTPGeneratorOptions{
		BaseURL:  sanitized.BaseURL,
		Model:    sanitized.Model,
		APIToken: sanitized.APIToken,
		Timeout:  sanitized.Timeout,
		Logger:   logger,
	})
	return NewCachingGenerator(httpGenerator, sanitized.CacheTTL, sanitized.CacheCapacity, logger)
}
