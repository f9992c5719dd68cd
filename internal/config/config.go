package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds the runtime settings for the server and the realtime layer.
// All values come from environment variables with sensible fallbacks.
type Config struct {
	Port string

	// WebSocket transport limits
	MaxPayloadBytes int64
	IdleTimeout     time.Duration
	WriteTimeout    time.Duration

	// AllowedOrigins is the list of origins accepted for websocket upgrades.
	// A single "*" entry allows any origin.
	AllowedOrigins []string

	// ExcludeSenderFromGroupFanout controls whether a group message is pushed
	// back to its sender's own connection. The default (false) matches the
	// behavior clients expect: everyone in the group receives the event.
	ExcludeSenderFromGroupFanout bool
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(key string, fallback int64) int64 {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil && n > 0 {
			return n
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}

// Load reads the configuration from the environment.
func Load() Config {
	origins := strings.Split(getEnv("ALLOWED_ORIGINS", "*"), ",")
	for i := range origins {
		origins[i] = strings.TrimSpace(origins[i])
	}

	return Config{
		Port:            getEnv("PORT", ":5001"),
		MaxPayloadBytes: getEnvInt64("WS_MAX_PAYLOAD_BYTES", 10*1000*1000),
		IdleTimeout:     time.Duration(getEnvInt64("WS_IDLE_TIMEOUT_MS", 60000)) * time.Millisecond,
		WriteTimeout:    time.Duration(getEnvInt64("WS_WRITE_TIMEOUT_MS", 5000)) * time.Millisecond,
		AllowedOrigins:  origins,

		ExcludeSenderFromGroupFanout: getEnvBool("EXCLUDE_SENDER_FROM_GROUP_FANOUT", false),
	}
}

// OriginAllowed reports whether the given Origin header value may upgrade.
// An empty origin (non-browser client) is always accepted.
func (c Config) OriginAllowed(origin string) bool {
	if origin == "" {
		return true
	}
	for _, allowed := range c.AllowedOrigins {
		if allowed == "*" || strings.EqualFold(allowed, origin) {
			return true
		}
	}
	return false
}
