package config

import (
	"flag"
	"fmt"
	"io"
	"time"

	"github.com/dmitrijs2005/adminpanel/internal/flagx"
)

// parseFlags populates selected Config fields from command-line flags.
//
// Supported flags (short forms):
//
//	-a string   base URL of the users API
//	-d string   path of the session database
//	-l string   log level (debug, info, warn, error)
//	-t int      request timeout in seconds
//
// Only these flags are looked at (see flagx.FilterArgs), so -c/-config and
// any other arguments pass through untouched.
func parseFlags(cfg *Config, args []string) error {
	fs := flag.NewFlagSet("admin", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	fs.StringVar(&cfg.APIBaseURL, "a", cfg.APIBaseURL, "base URL of the users API")
	fs.StringVar(&cfg.SessionDBPath, "d", cfg.SessionDBPath, "path of the session database")
	fs.StringVar(&cfg.LogLevel, "l", cfg.LogLevel, "log level")
	timeout := fs.Int("t", int(cfg.RequestTimeout.Seconds()), "request timeout (in seconds)")

	if err := fs.Parse(flagx.FilterArgs(args, "-a", "-d", "-l", "-t")); err != nil {
		return fmt.Errorf("parse flags: %w", err)
	}

	// an untouched -t must not truncate a sub-second timeout from file or env
	fs.Visit(func(f *flag.Flag) {
		if f.Name == "t" {
			cfg.RequestTimeout = time.Duration(*timeout) * time.Second
		}
	})
	return nil
}
