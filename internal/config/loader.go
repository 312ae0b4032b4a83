package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/example/booking-screen/internal/booking"
)

// Session store backends.
const (
	StoreMemory = "memory"
	StoreRedis  = "redis"
)

// Config captures environment driven configuration values for the booking service.
type Config struct {
	HTTPPort  int
	LogLevel  string
	Location  *time.Location
	TimeSlots []string

	DiagnosticsEnabled   bool
	DiagnosticsDSN       string
	DiagnosticsRetention time.Duration

	SessionStore  string
	SessionTTL    time.Duration
	MaxSessions   int
	RedisAddr     string
	RedisPassword string
}

// LoadDotEnv reads KEY=VALUE pairs from path into the environment without
// overriding variables that are already set. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		path = ".env"
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

// Load parses configuration values from the current process environment.
//
// Optional fields fall back to defaults; every missing or malformed value is
// collected and reported in a single error.
func Load() (Config, error) {
	cfg := Config{
		HTTPPort:             8080,
		LogLevel:             "info",
		Location:             time.Local,
		TimeSlots:            defaultSlots(),
		DiagnosticsEnabled:   true,
		DiagnosticsRetention: 168 * time.Hour,
		SessionStore:         StoreMemory,
		SessionTTL:           30 * time.Minute,
		MaxSessions:          1024,
	}

	missing := make([]string, 0, 1)
	invalid := make([]string, 0, 2)

	if portValue := strings.TrimSpace(os.Getenv("BOOKING_HTTP_PORT")); portValue != "" {
		port, err := strconv.Atoi(portValue)
		if err != nil || port <= 0 || port > 65535 {
			invalid = append(invalid, "BOOKING_HTTP_PORT")
		} else {
			cfg.HTTPPort = port
		}
	}

	if level := strings.ToLower(strings.TrimSpace(os.Getenv("BOOKING_LOG_LEVEL"))); level != "" {
		switch level {
		case "debug", "info", "warn", "error":
			cfg.LogLevel = level
		default:
			invalid = append(invalid, "BOOKING_LOG_LEVEL")
		}
	}

	if zone := strings.TrimSpace(os.Getenv("BOOKING_TIMEZONE")); zone != "" {
		loc, err := time.LoadLocation(zone)
		if err != nil {
			invalid = append(invalid, "BOOKING_TIMEZONE")
		} else {
			cfg.Location = loc
		}
	}

	if slotsValue := strings.TrimSpace(os.Getenv("BOOKING_TIME_SLOTS")); slotsValue != "" {
		slots := strings.Split(slotsValue, ",")
		if catalog, err := booking.NewCatalog(slots...); err != nil {
			invalid = append(invalid, "BOOKING_TIME_SLOTS")
		} else {
			cfg.TimeSlots = slotLabels(catalog.Slots())
		}
	}

	if enabledValue := strings.TrimSpace(os.Getenv("BOOKING_DIAGNOSTICS_ENABLED")); enabledValue != "" {
		enabled, err := strconv.ParseBool(enabledValue)
		if err != nil {
			invalid = append(invalid, "BOOKING_DIAGNOSTICS_ENABLED")
		} else {
			cfg.DiagnosticsEnabled = enabled
		}
	}

	cfg.DiagnosticsDSN = strings.TrimSpace(os.Getenv("BOOKING_DIAGNOSTICS_DSN"))

	if retentionValue := strings.TrimSpace(os.Getenv("BOOKING_DIAGNOSTICS_RETENTION")); retentionValue != "" {
		retention, err := time.ParseDuration(retentionValue)
		if err != nil || retention < 0 {
			invalid = append(invalid, "BOOKING_DIAGNOSTICS_RETENTION")
		} else {
			cfg.DiagnosticsRetention = retention
		}
	}

	if store := strings.ToLower(strings.TrimSpace(os.Getenv("BOOKING_SESSION_STORE"))); store != "" {
		switch store {
		case StoreMemory, StoreRedis:
			cfg.SessionStore = store
		default:
			invalid = append(invalid, "BOOKING_SESSION_STORE")
		}
	}

	if ttlValue := strings.TrimSpace(os.Getenv("BOOKING_SESSION_TTL")); ttlValue != "" {
		ttl, err := time.ParseDuration(ttlValue)
		if err != nil || ttl <= 0 {
			invalid = append(invalid, "BOOKING_SESSION_TTL")
		} else {
			cfg.SessionTTL = ttl
		}
	}

	if maxValue := strings.TrimSpace(os.Getenv("BOOKING_MAX_SESSIONS")); maxValue != "" {
		maxSessions, err := strconv.Atoi(maxValue)
		if err != nil || maxSessions <= 0 {
			invalid = append(invalid, "BOOKING_MAX_SESSIONS")
		} else {
			cfg.MaxSessions = maxSessions
		}
	}

	cfg.RedisAddr = strings.TrimSpace(os.Getenv("BOOKING_REDIS_ADDR"))
	cfg.RedisPassword = os.Getenv("BOOKING_REDIS_PASSWORD")
	if cfg.SessionStore == StoreRedis && cfg.RedisAddr == "" {
		missing = append(missing, "BOOKING_REDIS_ADDR")
	}

	if len(missing) > 0 {
		return Config{}, fmt.Errorf("required environment variables are not set: %s", strings.Join(missing, ", "))
	}
	if len(invalid) > 0 {
		return Config{}, fmt.Errorf("invalid environment variable values: %s", strings.Join(invalid, ", "))
	}

	return cfg, nil
}

func defaultSlots() []string {
	return slotLabels(booking.DefaultSlots)
}

func slotLabels(slots []booking.TimeSlot) []string {
	labels := make([]string, len(slots))
	for i, slot := range slots {
		labels[i] = string(slot)
	}
	return labels
}
