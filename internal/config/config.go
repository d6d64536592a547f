// Package config provides configuration management.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"chargebee-prices/adapters/chargebee"
	"chargebee-prices/core/billing"
	"chargebee-prices/core/catalog"
	cperrors "chargebee-prices/internal/errors"
	"chargebee-prices/internal/logging"
)

// Config is the main application configuration
type Config struct {
	// Chargebee contains the billing API connection settings
	Chargebee ChargebeeConfig `json:"chargebee" mapstructure:"chargebee"`

	// Catalog tunes the family report pipeline
	Catalog CatalogConfig `json:"catalog" mapstructure:"catalog"`

	// Output contains output configuration
	Output OutputConfig `json:"output" mapstructure:"output"`

	// Server contains the HTTP server configuration
	Server ServerConfig `json:"server" mapstructure:"server"`

	// Logging contains logging configuration
	Logging logging.Config `json:"logging" mapstructure:"logging"`
}

// ChargebeeConfig contains billing API settings
type ChargebeeConfig struct {
	// Site is the Chargebee site name
	Site string `json:"site" mapstructure:"site" validate:"required_without=BaseURL"`

	// APIKey authenticates every request
	APIKey string `json:"api_key" mapstructure:"api_key" validate:"required"`

	// BaseURL overrides the site-derived endpoint
	BaseURL string `json:"base_url,omitempty" mapstructure:"base_url" validate:"omitempty,url"`

	// CACertPath is an extra PEM bundle to trust
	CACertPath string `json:"ca_cert_path" mapstructure:"ca_cert_path"`

	// InsecureSkipVerify disables TLS verification
	InsecureSkipVerify bool `json:"insecure_skip_verify" mapstructure:"insecure_skip_verify"`

	// Timeout bounds a single API request
	Timeout time.Duration `json:"timeout" mapstructure:"timeout" validate:"gte=0"`
}

// CatalogConfig contains report pipeline settings
type CatalogConfig struct {
	// PageLimit is the item page size
	PageLimit int `json:"page_limit" mapstructure:"page_limit" validate:"min=1,max=100"`

	// Concurrency is the number of items processed in parallel
	Concurrency int `json:"concurrency" mapstructure:"concurrency" validate:"min=1,max=32"`

	// CacheCoupons fetches the coupon list once per run
	CacheCoupons bool `json:"cache_coupons" mapstructure:"cache_coupons"`
}

// OutputConfig contains output-related settings
type OutputConfig struct {
	// DefaultFormat is the default output format
	DefaultFormat string `json:"default_format" mapstructure:"default_format" validate:"oneof=json cli"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	// Address to listen on
	Address string `json:"address" mapstructure:"address" validate:"required"`

	// ReadTimeout for requests
	ReadTimeout time.Duration `json:"read_timeout" mapstructure:"read_timeout"`

	// WriteTimeout for responses; a family report can take a while
	WriteTimeout time.Duration `json:"write_timeout" mapstructure:"write_timeout"`
}

// Default returns a default configuration
func Default() *Config {
	return &Config{
		Chargebee: ChargebeeConfig{
			CACertPath: chargebee.DefaultCACertPath,
			Timeout:    chargebee.DefaultTimeout,
		},
		Catalog: CatalogConfig{
			PageLimit:   billing.DefaultListLimit,
			Concurrency: 1,
		},
		Output: OutputConfig{
			DefaultFormat: "json",
		},
		Server: ServerConfig{
			Address:      ":8080",
			ReadTimeout:  30 * time.Second,
			WriteTimeout: 5 * time.Minute,
		},
		Logging: logging.DefaultConfig(),
	}
}

// Load builds the configuration from defaults, the optional file at path,
// a .env file in the working directory and the environment, in that order.
// A missing file at path yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		if err := loadFile(cfg, path); err != nil {
			return nil, err
		}
	}

	if err := loadDotEnv(); err != nil {
		return nil, err
	}
	if err := applyEnv(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func loadFile(cfg *Config, path string) error {
	if _, err := os.Stat(path); err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return cperrors.Config("read config file", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".hcl":
		return loadHCL(cfg, path)
	case ".json", ".yaml", ".yml", ".toml":
		v := viper.New()
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return cperrors.Config(fmt.Sprintf("parse config file %s", path), err)
		}
		if err := v.Unmarshal(cfg); err != nil {
			return cperrors.Config(fmt.Sprintf("decode config file %s", path), err)
		}
		return nil
	default:
		return cperrors.Config(fmt.Sprintf("unsupported config file type %q", filepath.Ext(path)), nil)
	}
}

// Validate checks the settings a remote run needs
func (c *Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		var msgs []string
		if verrs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range verrs {
				msgs = append(msgs, fmt.Sprintf("%s: failed %q", fe.Namespace(), fe.Tag()))
			}
		} else {
			msgs = append(msgs, err.Error())
		}
		return cperrors.Config("invalid configuration: "+strings.Join(msgs, "; "), nil)
	}
	return nil
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "" || name == "-" {
			return f.Name
		}
		return name
	})
	return v
}

// CatalogOptions converts the catalog settings into pipeline options
func (c *Config) CatalogOptions() catalog.Options {
	return catalog.Options{
		PageLimit:    c.Catalog.PageLimit,
		Concurrency:  c.Catalog.Concurrency,
		CacheCoupons: c.Catalog.CacheCoupons,
	}
}

// ChargebeeClientConfig converts the connection settings into client config
func (c *Config) ChargebeeClientConfig() *chargebee.Config {
	return &chargebee.Config{
		Site:               c.Chargebee.Site,
		APIKey:             c.Chargebee.APIKey,
		BaseURL:            c.Chargebee.BaseURL,
		CACertPath:         c.Chargebee.CACertPath,
		InsecureSkipVerify: c.Chargebee.InsecureSkipVerify,
		Timeout:            c.Chargebee.Timeout,
	}
}

// Masked returns a copy safe to print
func (c *Config) Masked() *Config {
	out := *c
	out.Chargebee.APIKey = maskSecret(c.Chargebee.APIKey)
	return &out
}

func maskSecret(s string) string {
	if s == "" {
		return ""
	}
	if len(s) <= 4 {
		return "****"
	}
	return "****" + s[len(s)-4:]
}

// Save saves configuration to a file
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return err
	}

	data, err := json.MarshalIndent(c, "", "  ")
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0600)
}

// Global configuration instance
var globalConfig = Default()

// Get returns the global configuration
func Get() *Config {
	return globalConfig
}

// Set sets the global configuration
func Set(config *Config) {
	globalConfig = config
}
