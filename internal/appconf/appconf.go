package appconf

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Environment is the operating environment the application runs in.
type Environment int

const (
	Development Environment = iota
	Test
	Production
)

// DefaultOutSR is the Web Mercator wkid used by the map client.
const DefaultOutSR = 3857

// Config holds all the configuration settings for the Application.
type Config struct {
	Port                 int
	Env                  Environment
	ApiKeys              []string
	RateLimit            int
	ELCURL               string
	RouteDBPath          string
	RouteRefreshInterval time.Duration
	RequestTimeout       time.Duration
	DefaultOutSR         int
	MaxLayerFeatures     int
	LogLevel             slog.Level
}

// EnvFlagToEnvironment maps the -env flag value to an Environment.
// Unknown values fall back to Development.
func EnvFlagToEnvironment(env string) Environment {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "production", "prod":
		return Production
	case "test":
		return Test
	default:
		return Development
	}
}

func (e Environment) String() string {
	switch e {
	case Production:
		return "production"
	case Test:
		return "test"
	default:
		return "development"
	}
}

// Validate checks that the configuration values are usable.
func (c Config) Validate() error {
	var errs []error
	if c.Port <= 0 || c.Port > 65535 {
		errs = append(errs, fmt.Errorf("port out of range: %d", c.Port))
	}
	if c.ELCURL == "" {
		errs = append(errs, errors.New("elc url is required"))
	}
	if c.RateLimit < 0 {
		errs = append(errs, fmt.Errorf("rate limit must be non-negative: %d", c.RateLimit))
	}
	if c.RequestTimeout <= 0 {
		errs = append(errs, errors.New("request timeout must be positive"))
	}
	if c.RouteRefreshInterval < 0 {
		errs = append(errs, errors.New("route refresh interval must be non-negative"))
	}
	if c.DefaultOutSR <= 0 {
		errs = append(errs, fmt.Errorf("invalid default out sr: %d", c.DefaultOutSR))
	}
	if c.MaxLayerFeatures <= 0 {
		errs = append(errs, fmt.Errorf("max layer features must be positive: %d", c.MaxLayerFeatures))
	}
	return errors.Join(errs...)
}

// LoadDotEnv loads KEY=VALUE pairs from path into the process environment.
// Variables already set in the environment win. A missing file is not an error.
func LoadDotEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("loading %s: %w", path, err)
	}
	return nil
}

// Getenv returns the value of key, or fallback when unset or empty.
func Getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

// GetenvInt is Getenv for integers. Unparseable values return fallback.
func GetenvInt(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return n
}

// GetenvDuration is Getenv for durations such as "15m" or "10s".
func GetenvDuration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(strings.TrimSpace(v))
	if err != nil {
		return fallback
	}
	return d
}

// ParseLogLevel accepts debug, info, warn or error.
func ParseLogLevel(level string) (slog.Level, error) {
	var l slog.Level
	if err := l.UnmarshalText([]byte(strings.TrimSpace(level))); err != nil {
		return slog.LevelInfo, fmt.Errorf("invalid log level %q", level)
	}
	return l, nil
}

// SplitAPIKeys splits a comma separated key list and drops blanks.
func SplitAPIKeys(value string) []string {
	var keys []string
	for _, part := range strings.Split(value, ",") {
		if key := strings.TrimSpace(part); key != "" {
			keys = append(keys, key)
		}
	}
	return keys
}
