package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/jsonc"
	"gopkg.in/yaml.v3"

	"github.com/dmitrijs2005/adminpanel/internal/flagx"
	"github.com/dmitrijs2005/adminpanel/internal/timex"
)

// fileConfig is a DTO used exclusively for config file unmarshalling. Every
// field is optional; only present fields override earlier values. Durations
// use timex.Duration so they can be "3s" or integer nanoseconds.
type fileConfig struct {
	APIBaseURL     string                `json:"api_base_url" yaml:"api_base_url"`
	SessionDBPath  string                `json:"session_db" yaml:"session_db"`
	RequestTimeout *timex.Duration       `json:"request_timeout" yaml:"request_timeout"`
	LogLevel       string                `json:"log_level" yaml:"log_level"`
	LogFormat      string                `json:"log_format" yaml:"log_format"`
	OTelEndpoint   string                `json:"otel_endpoint" yaml:"otel_endpoint"`
	PageSizes      []int                 `json:"page_sizes" yaml:"page_sizes"`
	Policies       map[string]filePolicy `json:"policies" yaml:"policies"`
}

type filePolicy struct {
	Timeout    *timex.Duration `json:"timeout" yaml:"timeout"`
	MaxRetries *uint64         `json:"max_retries" yaml:"max_retries"`
	Backoff    *timex.Duration `json:"backoff" yaml:"backoff"`
}

// parseFile overlays cfg with the file named by -c/-config. Files ending in
// .yaml or .yml are read as YAML; anything else as JSON, where comments and
// trailing commas are allowed.
func parseFile(cfg *Config, args []string) error {
	path := flagx.ConfigFile(args)
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config %s: %w", path, err)
	}

	var fc fileConfig
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &fc)
	default:
		err = json.Unmarshal(jsonc.ToJSON(data), &fc)
	}
	if err != nil {
		return fmt.Errorf("parse config %s: %w", path, err)
	}

	fc.apply(cfg)
	return nil
}

func (fc fileConfig) apply(cfg *Config) {
	setString(&cfg.APIBaseURL, fc.APIBaseURL)
	setString(&cfg.SessionDBPath, fc.SessionDBPath)
	setString(&cfg.LogLevel, fc.LogLevel)
	setString(&cfg.LogFormat, fc.LogFormat)
	setString(&cfg.OTelEndpoint, fc.OTelEndpoint)

	if fc.RequestTimeout != nil {
		cfg.RequestTimeout = fc.RequestTimeout.Duration
	}
	if len(fc.PageSizes) > 0 {
		cfg.PageSizes = append([]int(nil), fc.PageSizes...)
	}

	if len(fc.Policies) > 0 && cfg.Policies == nil {
		cfg.Policies = map[string]Policy{}
	}
	for name, fp := range fc.Policies {
		p := cfg.Policies[name]
		if fp.Timeout != nil {
			p.Timeout = fp.Timeout.Duration
		}
		if fp.Backoff != nil {
			p.Backoff = fp.Backoff.Duration
		}
		if fp.MaxRetries != nil {
			n := *fp.MaxRetries
			p.MaxRetries = &n
		}
		cfg.Policies[name] = p
	}
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}
