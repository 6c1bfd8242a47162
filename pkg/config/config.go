package config

import (
	"fmt"
	"slices"
	"strings"
	"time"

	ethcommon "github.com/ethereum/go-ethereum/common"
	"github.com/goran-ethernal/ChainDecoder/internal/common"
	"github.com/goran-ethernal/ChainDecoder/internal/logger"
)

// Error policies for batch decoding.
const (
	OnErrorSkip  = "skip"
	OnErrorAbort = "abort"
)

// Config represents the complete configuration for the ChainDecoder.
type Config struct {
	// Contracts contains the contracts whose logs can be decoded
	Contracts []ContractConfig `yaml:"contracts" json:"contracts" toml:"contracts"`

	// Decoder contains batch decoding configuration
	Decoder DecoderConfig `yaml:"decoder" json:"decoder" toml:"decoder"`

	// Logging contains logging configuration
	Logging *LoggingConfig `yaml:"logging,omitempty" json:"logging,omitempty" toml:"logging,omitempty"`

	// Metrics contains Prometheus metrics configuration
	Metrics *MetricsConfig `yaml:"metrics,omitempty" json:"metrics,omitempty" toml:"metrics,omitempty"`

	// API contains the HTTP API configuration
	API *APIConfig `yaml:"api,omitempty" json:"api,omitempty" toml:"api,omitempty"`
}

// ContractConfig describes a contract and where its event definitions come from.
type ContractConfig struct {
	// Name is a unique identifier for this contract
	Name string `yaml:"name" json:"name" toml:"name"`

	// ABIPath is the path to the contract ABI, either a plain ABI array
	// or a compiler artifact with an "abi" field
	ABIPath string `yaml:"abi_path,omitempty" json:"abi_path,omitempty" toml:"abi_path,omitempty"`

	// Events is the list of event signatures used when no ABI file is given
	// Format: "EventName(type1 indexed name1, type2 name2, ...)"
	Events []string `yaml:"events,omitempty" json:"events,omitempty" toml:"events,omitempty"`

	// Addresses are the deployments of this contract, used to route logs by emitter
	Addresses []string `yaml:"addresses,omitempty" json:"addresses,omitempty" toml:"addresses,omitempty"`
}

// Validate checks if the contract configuration is valid.
func (c *ContractConfig) Validate() error {
	if c.Name == "" {
		return fmt.Errorf("name is required")
	}

	if c.ABIPath == "" && len(c.Events) == 0 {
		return fmt.Errorf("either abi_path or events must be configured")
	}

	if c.ABIPath != "" && len(c.Events) > 0 {
		return fmt.Errorf("abi_path and events are mutually exclusive")
	}

	for _, addr := range c.Addresses {
		if !ethcommon.IsHexAddress(addr) {
			return fmt.Errorf("invalid address '%s'", addr)
		}
	}

	return nil
}

// DecoderConfig configures batch decoding.
type DecoderConfig struct {
	// Workers is the number of logs decoded concurrently
	Workers int `yaml:"workers" json:"workers" toml:"workers"`

	// OnError selects what happens when a log fails to decode
	// Options: "skip" (record the failure and continue), "abort" (stop the batch)
	OnError string `yaml:"on_error" json:"on_error" toml:"on_error"`
}

// ApplyDefaults sets default values for optional decoder configuration fields.
func (d *DecoderConfig) ApplyDefaults() {
	if d.Workers == 0 {
		d.Workers = 4
	}
	if d.OnError == "" {
		d.OnError = OnErrorSkip
	}
}

// Validate checks if the decoder configuration is valid.
func (d *DecoderConfig) Validate() error {
	if d.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}

	if d.OnError != "" && !slices.Contains([]string{OnErrorSkip, OnErrorAbort}, d.OnError) {
		return fmt.Errorf("on_error must be one of: skip, abort")
	}

	return nil
}

// LoggingConfig configures logging behavior with per-component log levels.
type LoggingConfig struct {
	// DefaultLevel is the default log level for all components
	// Options: "debug", "info", "warn", "error"
	DefaultLevel string `yaml:"default_level" json:"default_level" toml:"default_level"`

	// Development enables development mode (console encoder, colored levels)
	Development bool `yaml:"development" json:"development" toml:"development"`

	// ComponentLevels sets log levels for specific components
	// Available components:
	//   - decoder: Command line decoding
	//   - catalog: Contract ABI loading
	//   - batch: Batch decoding
	//   - api: HTTP API server
	//   - metrics: Metrics server
	ComponentLevels map[string]string `yaml:"component_levels,omitempty" json:"component_levels,omitempty" toml:"component_levels,omitempty"` //nolint:lll
}

// ApplyDefaults sets default values for optional logging configuration fields.
func (l *LoggingConfig) ApplyDefaults() {
	if l.DefaultLevel == "" {
		l.DefaultLevel = "info"
	}
	if l.ComponentLevels == nil {
		l.ComponentLevels = make(map[string]string)
	}
}

// Validate checks if the logging configuration is valid.
func (l *LoggingConfig) Validate() error {
	if l.DefaultLevel != "" {
		if _, valid := logger.ValidLogLevels[common.ToLowerWithTrim(l.DefaultLevel)]; !valid {
			return fmt.Errorf("logging.default_level: must be one of: debug, info, warn, error")
		}
	}

	for component, level := range l.ComponentLevels {
		if _, validComponent := common.AllComponents[common.ToLowerWithTrim(component)]; !validComponent {
			return fmt.Errorf("logging.component_levels: unknown component '%s'", component)
		}

		if _, valid := logger.ValidLogLevels[common.ToLowerWithTrim(level)]; !valid {
			return fmt.Errorf("logging.component_levels[%s]: must be one of: debug, info, warn, error", component)
		}
	}

	return nil
}

// GetComponentLevel returns the log level for a specific component.
// Falls back to DefaultLevel if no component-specific level is set.
func (l *LoggingConfig) GetComponentLevel(component string) string {
	if level, ok := l.ComponentLevels[component]; ok {
		return common.ToLowerWithTrim(level)
	}
	return common.ToLowerWithTrim(l.DefaultLevel)
}

// GetDefaultLevel returns the default log level.
func (l *LoggingConfig) GetDefaultLevel() string {
	return common.ToLowerWithTrim(l.DefaultLevel)
}

// IsDevelopment returns whether development mode is enabled.
func (l *LoggingConfig) IsDevelopment() bool {
	return l.Development
}

// MetricsConfig configures Prometheus metrics exposition.
type MetricsConfig struct {
	// Enabled controls whether metrics collection and HTTP endpoint are active
	Enabled bool `yaml:"enabled" json:"enabled" toml:"enabled"`

	// ListenAddress is the address to bind the metrics HTTP server to
	// Format: "host:port" or ":port"
	ListenAddress string `yaml:"listen_address" json:"listen_address" toml:"listen_address"`

	// Path is the HTTP path where metrics are exposed
	Path string `yaml:"path" json:"path" toml:"path"`
}

// ApplyDefaults sets default values for optional metrics configuration fields.
func (m *MetricsConfig) ApplyDefaults() {
	if m.ListenAddress == "" {
		m.ListenAddress = ":9090"
	}
	if m.Path == "" {
		m.Path = "/metrics"
	}
}

// Validate checks if the metrics configuration is valid.
func (m *MetricsConfig) Validate() error {
	if m.Enabled {
		if m.ListenAddress == "" {
			return fmt.Errorf("listen_address is required when metrics are enabled")
		}
		if m.Path == "" {
			return fmt.Errorf("path is required when metrics are enabled")
		}
		if m.Path[0] != '/' {
			return fmt.Errorf("path must start with '/'")
		}
	}
	return nil
}

// APIConfig configures the HTTP decoding API.
type APIConfig struct {
	// Enabled controls whether the API server is started
	Enabled bool `yaml:"enabled" json:"enabled" toml:"enabled"`

	// ListenAddress is the address to bind the API server to
	ListenAddress string `yaml:"listen_address" json:"listen_address" toml:"listen_address"`

	// ReadTimeout is the maximum duration for reading a request
	ReadTimeout common.Duration `yaml:"read_timeout" json:"read_timeout" toml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of a response
	WriteTimeout common.Duration `yaml:"write_timeout" json:"write_timeout" toml:"write_timeout"`

	// IdleTimeout is the maximum time to wait for the next request on keep-alive connections
	IdleTimeout common.Duration `yaml:"idle_timeout" json:"idle_timeout" toml:"idle_timeout"`

	// MaxBodySizeMB limits the size of decode request bodies
	MaxBodySizeMB uint64 `yaml:"max_body_size_mb" json:"max_body_size_mb" toml:"max_body_size_mb"`

	// CORS contains cross-origin settings
	CORS *CORSConfig `yaml:"cors,omitempty" json:"cors,omitempty" toml:"cors,omitempty"`
}

// ApplyDefaults sets default values for optional API configuration fields.
func (a *APIConfig) ApplyDefaults() {
	if a.ListenAddress == "" {
		a.ListenAddress = ":8080"
	}
	if a.ReadTimeout.Duration == 0 {
		a.ReadTimeout = common.NewDuration(10 * time.Second) //nolint:mnd
	}
	if a.WriteTimeout.Duration == 0 {
		a.WriteTimeout = common.NewDuration(30 * time.Second) //nolint:mnd
	}
	if a.IdleTimeout.Duration == 0 {
		a.IdleTimeout = common.NewDuration(60 * time.Second) //nolint:mnd
	}
	if a.MaxBodySizeMB == 0 {
		a.MaxBodySizeMB = 5
	}
	if a.CORS != nil {
		a.CORS.ApplyDefaults()
	}
}

// Validate checks if the API configuration is valid.
func (a *APIConfig) Validate() error {
	if a.Enabled && a.ListenAddress == "" {
		return fmt.Errorf("listen_address is required when the api is enabled")
	}
	return nil
}

// CORSConfig configures cross-origin resource sharing.
type CORSConfig struct {
	// AllowedOrigins lists the allowed origins, "*" allows any
	AllowedOrigins []string `yaml:"allowed_origins" json:"allowed_origins" toml:"allowed_origins"`

	// AllowedMethods lists the allowed HTTP methods
	AllowedMethods []string `yaml:"allowed_methods" json:"allowed_methods" toml:"allowed_methods"`

	// AllowedHeaders lists the allowed request headers
	AllowedHeaders []string `yaml:"allowed_headers" json:"allowed_headers" toml:"allowed_headers"`
}

// ApplyDefaults sets default values for optional CORS configuration fields.
func (c *CORSConfig) ApplyDefaults() {
	if len(c.AllowedOrigins) == 0 {
		c.AllowedOrigins = []string{"*"}
	}
	if len(c.AllowedMethods) == 0 {
		c.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(c.AllowedHeaders) == 0 {
		c.AllowedHeaders = []string{"Content-Type"}
	}
}

// ApplyDefaults sets default values for optional configuration fields.
func (c *Config) ApplyDefaults() {
	c.Decoder.ApplyDefaults()

	if c.Logging == nil {
		c.Logging = &LoggingConfig{}
	}
	c.Logging.ApplyDefaults()

	if c.Metrics != nil {
		c.Metrics.ApplyDefaults()
	}

	if c.API != nil {
		c.API.ApplyDefaults()
	}
}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	if len(c.Contracts) == 0 {
		return fmt.Errorf("at least one contract must be configured")
	}

	names := make(map[string]bool)
	addresses := make(map[string]string)
	for i, contract := range c.Contracts {
		if err := contract.Validate(); err != nil {
			return fmt.Errorf("contract[%d]: %w", i, err)
		}

		name := common.ToLowerWithTrim(contract.Name)
		if names[name] {
			return fmt.Errorf("contract[%d]: duplicate contract name '%s'", i, contract.Name)
		}
		names[name] = true

		for _, addr := range contract.Addresses {
			key := strings.ToLower(addr)
			if owner, ok := addresses[key]; ok {
				return fmt.Errorf("contract[%d] (%s): address %s already belongs to '%s'", i, contract.Name, addr, owner)
			}
			addresses[key] = contract.Name
		}
	}

	if err := c.Decoder.Validate(); err != nil {
		return fmt.Errorf("decoder: %w", err)
	}

	if c.Logging != nil {
		if err := c.Logging.Validate(); err != nil {
			return err
		}
	}

	if c.Metrics != nil {
		if err := c.Metrics.Validate(); err != nil {
			return fmt.Errorf("metrics: %w", err)
		}
	}

	if c.API != nil {
		if err := c.API.Validate(); err != nil {
			return fmt.Errorf("api: %w", err)
		}
	}

	return nil
}

// Contract returns the contract configuration with the given name, ignoring case.
func (c *Config) Contract(name string) (*ContractConfig, bool) {
	key := common.ToLowerWithTrim(name)
	for i := range c.Contracts {
		if common.ToLowerWithTrim(c.Contracts[i].Name) == key {
			return &c.Contracts[i], true
		}
	}
	return nil, false
}
