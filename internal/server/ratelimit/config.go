package ratelimit

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// EndpointConfig represents rate limiting configuration for a specific endpoint.
type EndpointConfig struct {
	Path   string        // Endpoint path pattern (supports prefix matching)
	Method string        // HTTP method (GET, POST, etc.)
	Limit  int           // Maximum requests per window
	Window time.Duration // Time window
	Burst  int           // Burst capacity (defaults to Limit if 0)
}

// LoadConfig loads rate limiting configuration from environment variables.
func LoadConfig() *Config {
	return loadConfig(os.Getenv)
}

func loadConfig(getenv func(string) string) *Config {
	env := envReader(getenv)

	if !env.boolean("RATE_LIMIT_ENABLED", true) {
		return &Config{Enabled: false}
	}

	generateLimit := env.integer("RATE_LIMIT_GENERATE_LIMIT", 30)
	generateWindow := env.duration("RATE_LIMIT_GENERATE_WINDOW", time.Hour)
	generateBurst := env.integer("RATE_LIMIT_GENERATE_BURST", 5)

	return &Config{
		Enabled:         true,
		DefaultLimit:    env.integer("RATE_LIMIT_DEFAULT_LIMIT", 300),
		DefaultWindow:   env.duration("RATE_LIMIT_DEFAULT_WINDOW", time.Minute),
		CleanupInterval: env.duration("RATE_LIMIT_CLEANUP_INTERVAL", 5*time.Minute),
		Whitelist:       parseIPList(env.str("RATE_LIMIT_WHITELIST", "")),
		Blacklist:       parseIPList(env.str("RATE_LIMIT_BLACKLIST", "")),
		EndpointConfigs: DefaultEndpointConfigs(generateLimit, generateWindow, generateBurst),
	}
}

// DefaultEndpointConfigs returns the endpoint-specific limits. Both generation
// endpoints share the strict limit; everything else falls back to the default.
func DefaultEndpointConfigs(generateLimit int, generateWindow time.Duration, generateBurst int) []EndpointConfig {
	return []EndpointConfig{
		// Model calls (strictest)
		{Path: "/humanize", Method: "POST", Limit: generateLimit, Window: generateWindow, Burst: generateBurst},
		{Path: "/generate", Method: "POST", Limit: generateLimit, Window: generateWindow, Burst: generateBurst},

		// Local scoring is cheap but unbounded in input size
		{Path: "/score", Method: "POST", Limit: 120, Window: time.Minute, Burst: 20},

		// History reads
		{Path: "/results", Method: "GET", Limit: 300, Window: time.Minute, Burst: 50},
		{Path: "/results/", Method: "GET", Limit: 300, Window: time.Minute, Burst: 50},
	}
}

type envReader func(string) string

func (e envReader) str(key, def string) string {
	if v := strings.TrimSpace(e(key)); v != "" {
		return v
	}
	return def
}

func (e envReader) integer(key string, def int) int {
	if v, err := strconv.Atoi(e.str(key, "")); err == nil {
		return v
	}
	return def
}

func (e envReader) boolean(key string, def bool) bool {
	if v, err := strconv.ParseBool(e.str(key, "")); err == nil {
		return v
	}
	return def
}

func (e envReader) duration(key string, def time.Duration) time.Duration {
	if v, err := time.ParseDuration(e.str(key, "")); err == nil {
		return v
	}
	return def
}

// parseIPList parses a comma-separated list of IP addresses into a set.
func parseIPList(list string) map[string]bool {
	result := make(map[string]bool)
	for _, ip := range strings.Split(list, ",") {
		if ip = strings.TrimSpace(ip); ip != "" {
			result[ip] = true
		}
	}
	return result
}
