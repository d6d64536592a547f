package config

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"

	cperrors "chargebee-prices/internal/errors"
	"chargebee-prices/internal/logging"
)

// DotEnvFile is read from the working directory when present
var DotEnvFile = ".env"

// envBindings maps configuration keys to environment variables
var envBindings = map[string]string{
	"chargebee.site":                 "CHARGEBEE_SITE",
	"chargebee.api_key":              "CHARGEBEE_API_KEY",
	"chargebee.base_url":             "CHARGEBEE_BASE_URL",
	"chargebee.ca_cert_path":         "CHARGEBEE_CA_CERT",
	"chargebee.insecure_skip_verify": "CHARGEBEE_INSECURE_SKIP_VERIFY",
	"chargebee.timeout":              "CHARGEBEE_TIMEOUT",
	"catalog.concurrency":            "PRICES_CONCURRENCY",
	"catalog.cache_coupons":          "PRICES_CACHE_COUPONS",
	"output.default_format":          "PRICES_FORMAT",
	"server.address":                 "SERVER_ADDRESS",
	"logging.level":                  "LOG_LEVEL",
	"logging.format":                 "LOG_FORMAT",
}

// loadDotEnv exports the variables of DotEnvFile that are not already set
func loadDotEnv() error {
	if DotEnvFile == "" {
		return nil
	}
	if err := godotenv.Load(DotEnvFile); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return cperrors.Config("load "+DotEnvFile, err)
	}
	return nil
}

// applyEnv overlays the bound environment variables that are set
func applyEnv(cfg *Config) error {
	v := viper.New()
	for key, env := range envBindings {
		if err := v.BindEnv(key, env); err != nil {
			return cperrors.Config("bind "+env, err)
		}
	}
	if err := v.Unmarshal(cfg); err != nil {
		return cperrors.Config("decode environment", err)
	}

	if logging.DebugFromEnv() {
		cfg.Logging.Level = "debug"
	}
	return nil
}
