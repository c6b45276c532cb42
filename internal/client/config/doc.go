// Package config loads runtime configuration for the admin CLI.
//
// Sources & precedence
//
//  1. Built-in defaults (see (*Config).LoadDefaults).
//  2. Optional config file selected via -c or -config. ".yaml"/".yml" files
//     are YAML; everything else is JSON with comments allowed.
//  3. Environment variables prefixed with ADMIN_ (ADMIN_API_URL,
//     ADMIN_SESSION_DB, ADMIN_REQUEST_TIMEOUT, ADMIN_LOG_LEVEL,
//     ADMIN_LOG_FORMAT, ADMIN_OTEL_ENDPOINT, ADMIN_PAGE_SIZES).
//  4. Command-line flags, which override everything else.
//
// Supported flags
//
//	-a string   base URL of the users API
//	-d string   path of the session database
//	-l string   log level
//	-t int      request timeout (seconds)
//
// # File schema
//
//	{
//	  // comments are fine
//	  "api_base_url": "https://api.escuelajs.co/api/v1",
//	  "session_db": "session.db",
//	  "request_timeout": "10s",
//	  "page_sizes": [5, 10, 20, 50],
//	  "policies": {
//	    "fetch_users": {"max_retries": 3, "backoff": "250ms"}
//	  }
//	}
package config
