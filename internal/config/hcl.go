package config

import (
	"fmt"
	"time"

	"github.com/hashicorp/hcl/v2/hclsimple"

	cperrors "chargebee-prices/internal/errors"
)

// hclFile is the HCL form of Config. Every block and attribute is optional;
// durations are written as strings such as "30s".
type hclFile struct {
	Chargebee *struct {
		Site               *string `hcl:"site,optional"`
		APIKey             *string `hcl:"api_key,optional"`
		BaseURL            *string `hcl:"base_url,optional"`
		CACertPath         *string `hcl:"ca_cert_path,optional"`
		InsecureSkipVerify *bool   `hcl:"insecure_skip_verify,optional"`
		Timeout            *string `hcl:"timeout,optional"`
	} `hcl:"chargebee,block"`

	Catalog *struct {
		PageLimit    *int  `hcl:"page_limit,optional"`
		Concurrency  *int  `hcl:"concurrency,optional"`
		CacheCoupons *bool `hcl:"cache_coupons,optional"`
	} `hcl:"catalog,block"`

	Output *struct {
		DefaultFormat *string `hcl:"default_format,optional"`
	} `hcl:"output,block"`

	Server *struct {
		Address      *string `hcl:"address,optional"`
		ReadTimeout  *string `hcl:"read_timeout,optional"`
		WriteTimeout *string `hcl:"write_timeout,optional"`
	} `hcl:"server,block"`

	Logging *struct {
		Level       *string `hcl:"level,optional"`
		Format      *string `hcl:"format,optional"`
		Output      *string `hcl:"output,optional"`
		Development *bool   `hcl:"development,optional"`
	} `hcl:"logging,block"`
}

func loadHCL(cfg *Config, path string) error {
	var f hclFile
	if err := hclsimple.DecodeFile(path, nil, &f); err != nil {
		return cperrors.Config(fmt.Sprintf("parse config file %s", path), err)
	}

	if b := f.Chargebee; b != nil {
		set(&cfg.Chargebee.Site, b.Site)
		set(&cfg.Chargebee.APIKey, b.APIKey)
		set(&cfg.Chargebee.BaseURL, b.BaseURL)
		set(&cfg.Chargebee.CACertPath, b.CACertPath)
		set(&cfg.Chargebee.InsecureSkipVerify, b.InsecureSkipVerify)
		if err := setDuration(&cfg.Chargebee.Timeout, b.Timeout, "chargebee.timeout"); err != nil {
			return err
		}
	}
	if b := f.Catalog; b != nil {
		set(&cfg.Catalog.PageLimit, b.PageLimit)
		set(&cfg.Catalog.Concurrency, b.Concurrency)
		set(&cfg.Catalog.CacheCoupons, b.CacheCoupons)
	}
	if b := f.Output; b != nil {
		set(&cfg.Output.DefaultFormat, b.DefaultFormat)
	}
	if b := f.Server; b != nil {
		set(&cfg.Server.Address, b.Address)
		if err := setDuration(&cfg.Server.ReadTimeout, b.ReadTimeout, "server.read_timeout"); err != nil {
			return err
		}
		if err := setDuration(&cfg.Server.WriteTimeout, b.WriteTimeout, "server.write_timeout"); err != nil {
			return err
		}
	}
	if b := f.Logging; b != nil {
		set(&cfg.Logging.Level, b.Level)
		set(&cfg.Logging.Format, b.Format)
		set(&cfg.Logging.Output, b.Output)
		set(&cfg.Logging.Development, b.Development)
	}
	return nil
}

func set[T any](dst *T, v *T) {
	if v != nil {
		*dst = *v
	}
}

func setDuration(dst *time.Duration, v *string, key string) error {
	if v == nil {
		return nil
	}
	d, err := time.ParseDuration(*v)
	if err != nil {
		return cperrors.Config(fmt.Sprintf("invalid duration for %s", key), err)
	}
	*dst = d
	return nil
}
