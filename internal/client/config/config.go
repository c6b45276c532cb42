package config

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/dmitrijs2005/adminpanel/internal/common"
)

// Policy overrides the request policy of one command kind. Zero durations and
// a nil MaxRetries keep the built-in value.
type Policy struct {
	Timeout    time.Duration
	MaxRetries *uint64
	Backoff    time.Duration
}

// Config holds runtime settings for the admin CLI.
//
// Fields:
//   - APIBaseURL: root of the users REST API.
//   - SessionDBPath: sqlite file keeping the session token.
//   - RequestTimeout: per-attempt timeout applied to every command kind.
//   - LogLevel, LogFormat: slog level and handler ("text" or "json").
//   - OTelEndpoint: OTLP/HTTP endpoint; empty disables tracing.
//   - PageSizes: page sizes offered by the users screen.
//   - Policies: per-kind overrides keyed by kind name (login, fetch_users,
//     create_user, update_user, delete_user).
type Config struct {
	APIBaseURL     string        `env:"API_URL"`
	SessionDBPath  string        `env:"SESSION_DB"`
	RequestTimeout time.Duration `env:"REQUEST_TIMEOUT"`
	LogLevel       string        `env:"LOG_LEVEL"`
	LogFormat      string        `env:"LOG_FORMAT"`
	OTelEndpoint   string        `env:"OTEL_ENDPOINT"`
	PageSizes      []int         `env:"PAGE_SIZES" envSeparator:","`

	Policies map[string]Policy `env:"-"`
}

// LoadDefaults populates c with sensible defaults.
func (c *Config) LoadDefaults() {
	c.APIBaseURL = common.DefaultAPIBaseURL
	c.SessionDBPath = "session.db"
	c.RequestTimeout = 10 * time.Second
	c.LogLevel = "info"
	c.LogFormat = "text"
	c.OTelEndpoint = ""
	c.PageSizes = []int{5, 10, 20, 50}
	c.Policies = map[string]Policy{}
}

// LoadConfig builds a Config from defaults, then the config file named by
// -c/-config, then ADMIN_* environment variables, then flags. Later sources
// take precedence over earlier ones.
func LoadConfig(args []string) (*Config, error) {
	cfg := &Config{}
	cfg.LoadDefaults()

	if err := parseFile(cfg, args); err != nil {
		return nil, err
	}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}
	if err := parseFlags(cfg, args); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	var errs []error

	u, err := url.Parse(c.APIBaseURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		errs = append(errs, fmt.Errorf("api url %q must be an absolute http(s) URL", c.APIBaseURL))
	}
	if c.SessionDBPath == "" {
		errs = append(errs, errors.New("session db path is empty"))
	}
	if c.RequestTimeout < 0 {
		errs = append(errs, fmt.Errorf("request timeout %s is negative", c.RequestTimeout))
	}
	switch strings.ToLower(c.LogFormat) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Errorf("log format %q must be text or json", c.LogFormat))
	}
	if len(c.PageSizes) == 0 {
		errs = append(errs, errors.New("at least one page size is required"))
	}
	for _, n := range c.PageSizes {
		if n < 1 {
			errs = append(errs, fmt.Errorf("page size %d must be positive", n))
		}
	}
	for name, p := range c.Policies {
		if p.Timeout < 0 || p.Backoff < 0 {
			errs = append(errs, fmt.Errorf("policy %q has a negative duration", name))
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}
	return nil
}
