package config

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	// Remote commerce API base URL
	APIURL         string
	RequestTimeout time.Duration

	// Session slot
	StateDir      string
	SessionSecret string

	// Local UI bridge
	BridgeAddr       string
	CORSAllowOrigins []string

	SerializeMutations bool

	LogLevel  string
	LogFormat string
}

// Load reads an optional .env file from the working directory and then the
// process environment. Variables already set in the environment win.
func Load() Config {
	_ = godotenv.Load()
	return FromEnv()
}

func FromEnv() Config {
	timeout := parseDuration(getenv("STOREFRONT_TIMEOUT", "10s"), 10*time.Second)

	cfg := Config{
		APIURL:         strings.TrimRight(getenv("STOREFRONT_API_URL", "https://ecomerceapi-3.onrender.com"), "/"),
		RequestTimeout: timeout,

		StateDir:      getenv("STOREFRONT_STATE_DIR", defaultStateDir()),
		SessionSecret: getenv("STOREFRONT_SESSION_SECRET", ""),

		BridgeAddr:       getenv("STOREFRONT_BRIDGE_ADDR", "127.0.0.1:8787"),
		CORSAllowOrigins: splitCSV(getenv("CORS_ALLOW_ORIGINS", "")),

		SerializeMutations: parseBool(getenv("STOREFRONT_SERIALIZE_MUTATIONS", "true"), true),

		LogLevel:  getenv("STOREFRONT_LOG_LEVEL", "info"),
		LogFormat: getenv("STOREFRONT_LOG_FORMAT", "console"),
	}

	return cfg
}

func defaultStateDir() string {
	if dir, err := os.UserConfigDir(); err == nil {
		return filepath.Join(dir, "storefront")
	}
	return ".storefront"
}

func getenv(k, def string) string {
	if v := os.Getenv(k); strings.TrimSpace(v) != "" {
		return v
	}
	return def
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func parseDuration(v string, def time.Duration) time.Duration {
	d, err := time.ParseDuration(v)
	if err != nil || d <= 0 {
		return def
	}
	return d
}

func parseBool(v string, def bool) bool {
	switch strings.ToLower(strings.TrimSpace(v)) {
	case "1", "true", "yes", "on":
		return true
	case "0", "false", "no", "off":
		return false
	default:
		return def
	}
}
