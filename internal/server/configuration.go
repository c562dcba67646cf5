package server

import (
	"strings"
	"time"

	"github.com/temirov/textgen/internal/inference"
)

const (
	defaultAddressConstant           = ":7860"
	defaultReadHeaderTimeoutConstant = 10 * time.Second
	defaultShutdownTimeoutConstant   = 15 * time.Second
)

// Configuration holds the HTTP listener settings.
type Configuration struct {
	Address           string        `mapstructure:"address"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
	ShutdownTimeout   time.Duration `mapstructure:"shutdown_timeout"`
}

// DefaultConfiguration listens on port 7860, the port Hugging Face Spaces route to.
func DefaultConfiguration() Configuration {
	return Configuration{
		Address:           defaultAddressConstant,
		ReadHeaderTimeout: defaultReadHeaderTimeoutConstant,
		ShutdownTimeout:   defaultShutdownTimeoutConstant,
	}
}

// DefaultConfigurationValues exposes the defaults as flat keys for the configuration loader.
func DefaultConfigurationValues() map[string]any {
	defaults := DefaultConfiguration()
	return map[string]any{
		"address":             defaults.Address,
		"read_header_timeout": defaults.ReadHeaderTimeout.String(),
		"shutdown_timeout":    defaults.ShutdownTimeout.String(),
	}
}

// Sanitize trims the address and restores defaults for unset values.
func (configuration Configuration) Sanitize() Configuration {
	sanitized := configuration
	sanitized.Address = strings.TrimSpace(configuration.Address)
	if len(sanitized.Address) == 0 {
		sanitized.Address = defaultAddressConstant
	}
	if sanitized.ReadHeaderTimeout <= 0 {
		sanitized.ReadHeaderTimeout = defaultReadHeaderTimeoutConstant
	}
	if sanitized.ShutdownTimeout <= 0 {
		sanitized.ShutdownTimeout = defaultShutdownTimeoutConstant
	}
	return sanitized
}

// ServeConfiguration aggregates everything the serve command reads from configuration.
type ServeConfiguration struct {
	Server    Configuration
	Inference inference.Configuration
}
