package appconf

import (
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() Config {
	return Config{
		Port:                 4000,
		Env:                  Test,
		ApiKeys:              []string{"TEST"},
		RateLimit:            100,
		ELCURL:               "https://elc.example.com/ElcRestSoe",
		RouteDBPath:          ":memory:",
		RouteRefreshInterval: time.Hour,
		RequestTimeout:       10 * time.Second,
		DefaultOutSR:         DefaultOutSR,
		MaxLayerFeatures:     5000,
	}
}

func TestEnvFlagToEnvironment(t *testing.T) {
	tests := map[string]Environment{
		"production":  Production,
		"PROD":        Production,
		"test":        Test,
		"development": Development,
		"staging":     Development,
		"":            Development,
	}
	for flag, want := range tests {
		assert.Equal(t, want, EnvFlagToEnvironment(flag), "flag %q", flag)
	}
	assert.Equal(t, "production", Production.String())
	assert.Equal(t, "test", Test.String())
	assert.Equal(t, "development", Development.String())
}

func TestConfigValidate(t *testing.T) {
	require.NoError(t, validConfig().Validate())

	cfg := validConfig()
	cfg.Port = 0
	cfg.ELCURL = ""
	cfg.RequestTimeout = 0
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "port out of range")
	assert.Contains(t, err.Error(), "elc url is required")
	assert.Contains(t, err.Error(), "request timeout")

	cfg = validConfig()
	cfg.DefaultOutSR = -1
	assert.Error(t, cfg.Validate())

	cfg = validConfig()
	cfg.MaxLayerFeatures = 0
	err = cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max layer features")
}

func TestLoadDotEnv(t *testing.T) {
	t.Run("missing file is ignored", func(t *testing.T) {
		assert.NoError(t, LoadDotEnv(filepath.Join(t.TempDir(), "nope.env")))
		assert.NoError(t, LoadDotEnv(""))
	})

	t.Run("loads values without overriding the environment", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), ".env")
		require.NoError(t, os.WriteFile(path, []byte("ELCMAP_TEST_A=from-file\nELCMAP_TEST_B=\"quoted\"\n"), 0o600))
		t.Setenv("ELCMAP_TEST_A", "from-env")
		t.Setenv("ELCMAP_TEST_B", "")
		require.NoError(t, os.Unsetenv("ELCMAP_TEST_B"))

		require.NoError(t, LoadDotEnv(path))
		assert.Equal(t, "from-env", os.Getenv("ELCMAP_TEST_A"))
		assert.Equal(t, "quoted", os.Getenv("ELCMAP_TEST_B"))
	})
}

func TestGetenvHelpers(t *testing.T) {
	t.Setenv("ELCMAP_PORT", "8080")
	t.Setenv("ELCMAP_BAD_INT", "eight")
	t.Setenv("ELCMAP_REFRESH", "90s")

	assert.Equal(t, "fallback", Getenv("ELCMAP_UNSET_VALUE", "fallback"))
	assert.Equal(t, 8080, GetenvInt("ELCMAP_PORT", 4000))
	assert.Equal(t, 4000, GetenvInt("ELCMAP_BAD_INT", 4000))
	assert.Equal(t, 90*time.Second, GetenvDuration("ELCMAP_REFRESH", time.Hour))
	assert.Equal(t, time.Hour, GetenvDuration("ELCMAP_UNSET_VALUE", time.Hour))
}

func TestParseLogLevel(t *testing.T) {
	level, err := ParseLogLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	level, err = ParseLogLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	_, err = ParseLogLevel("loud")
	assert.Error(t, err)
}

func TestSplitAPIKeys(t *testing.T) {
	assert.Equal(t, []string{"a", "b"}, SplitAPIKeys(" a, ,b "))
	assert.Nil(t, SplitAPIKeys(""))
}
