package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/formrules/pkg/config"
)

type engineConfig struct {
	StopOnError bool          `env:"CFGTEST_STOP_ON_ERROR" envDefault:"false"`
	Debounce    time.Duration `env:"CFGTEST_DEBOUNCE" envDefault:"500ms"`
	Bundle      string        `env:"CFGTEST_BUNDLE"`
}

type requiredConfig struct {
	Endpoint string `env:"CFGTEST_ENDPOINT,required"`
}

type prefixedConfig struct {
	Timely string `env:"TIMELY" envDefault:"blur"`
}

func TestLoad(t *testing.T) {
	t.Run("parses values and caches per type", func(t *testing.T) {
		config.Reset()
		t.Setenv("CFGTEST_STOP_ON_ERROR", "true")
		t.Setenv("CFGTEST_DEBOUNCE", "250ms")

		var cfg engineConfig
		require.NoError(t, config.Load(&cfg))
		assert.True(t, cfg.StopOnError)
		assert.Equal(t, 250*time.Millisecond, cfg.Debounce)

		t.Setenv("CFGTEST_DEBOUNCE", "1s")
		var again engineConfig
		require.NoError(t, config.Load(&again))
		assert.Equal(t, 250*time.Millisecond, again.Debounce, "cached copy is returned")

		config.Reset()
		var fresh engineConfig
		require.NoError(t, config.Load(&fresh))
		assert.Equal(t, time.Second, fresh.Debounce)
	})

	t.Run("defaults", func(t *testing.T) {
		config.Reset()
		os.Unsetenv("CFGTEST_STOP_ON_ERROR")
		os.Unsetenv("CFGTEST_DEBOUNCE")

		var cfg engineConfig
		require.NoError(t, config.Load(&cfg))
		assert.False(t, cfg.StopOnError)
		assert.Equal(t, 500*time.Millisecond, cfg.Debounce)
	})

	t.Run("missing required variable", func(t *testing.T) {
		config.Reset()
		os.Unsetenv("CFGTEST_ENDPOINT")

		var cfg requiredConfig
		err := config.Load(&cfg)
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("nil pointer", func(t *testing.T) {
		assert.ErrorIs(t, config.Load[engineConfig](nil), config.ErrNilPointer)
	})
}

func TestParse(t *testing.T) {
	t.Run("prefix and env file", func(t *testing.T) {
		dir := t.TempDir()
		file := filepath.Join(dir, "test.env")
		require.NoError(t, os.WriteFile(file, []byte("APP_TIMELY=input\n"), 0o600))
		t.Cleanup(func() { os.Unsetenv("APP_TIMELY") })

		var cfg prefixedConfig
		require.NoError(t, config.Parse(&cfg, "APP_", file))
		assert.Equal(t, "input", cfg.Timely)
	})

	t.Run("missing env file", func(t *testing.T) {
		var cfg prefixedConfig
		err := config.Parse(&cfg, "", filepath.Join(t.TempDir(), "nope.env"))
		assert.ErrorIs(t, err, config.ErrLoadingEnvFile)
	})
}
