package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/discountkit/pkg/config"
)

type draftConfig struct {
	Backend  string        `env:"DRAFT_BACKEND" envDefault:"memory"`
	TTL      time.Duration `env:"DRAFT_TTL" envDefault:"24h"`
	Capacity int           `env:"DRAFT_CAPACITY" envDefault:"1000"`
}

type requiredConfig struct {
	FormsFile string `env:"CONFIG_TEST_FORMS_FILE,required"`
}

type cachedConfig struct {
	Value string `env:"CONFIG_TEST_CACHED" envDefault:"default"`
}

func TestParse(t *testing.T) {
	t.Parallel()

	t.Run("defaults", func(t *testing.T) {
		t.Parallel()
		var cfg draftConfig
		require.NoError(t, config.Parse(&cfg, config.WithEnvironment(map[string]string{})))
		assert.Equal(t, draftConfig{Backend: "memory", TTL: 24 * time.Hour, Capacity: 1000}, cfg)
	})

	t.Run("explicit environment", func(t *testing.T) {
		t.Parallel()
		var cfg draftConfig
		err := config.Parse(&cfg, config.WithEnvironment(map[string]string{
			"DRAFT_BACKEND":  "redis",
			"DRAFT_TTL":      "15m",
			"DRAFT_CAPACITY": "10",
		}))
		require.NoError(t, err)
		assert.Equal(t, draftConfig{Backend: "redis", TTL: 15 * time.Minute, Capacity: 10}, cfg)
	})

	t.Run("prefix", func(t *testing.T) {
		t.Parallel()
		var cfg draftConfig
		err := config.Parse(&cfg,
			config.WithPrefix("TEST_"),
			config.WithEnvironment(map[string]string{"TEST_DRAFT_BACKEND": "redis"}),
		)
		require.NoError(t, err)
		assert.Equal(t, "redis", cfg.Backend)
	})

	t.Run("bad value", func(t *testing.T) {
		t.Parallel()
		var cfg draftConfig
		err := config.Parse(&cfg, config.WithEnvironment(map[string]string{"DRAFT_TTL": "soon"}))
		assert.ErrorIs(t, err, config.ErrParsingConfig)
	})

	t.Run("nil pointer", func(t *testing.T) {
		t.Parallel()
		assert.ErrorIs(t, config.Parse[draftConfig](nil), config.ErrNilPointer)
	})
}

func TestLoad(t *testing.T) {
	t.Run("caches per type", func(t *testing.T) {
		config.Reset()
		t.Setenv("CONFIG_TEST_CACHED", "first")

		var a cachedConfig
		require.NoError(t, config.Load(&a))
		assert.Equal(t, "first", a.Value)

		t.Setenv("CONFIG_TEST_CACHED", "second")
		var b cachedConfig
		require.NoError(t, config.Load(&b))
		assert.Equal(t, "first", b.Value)

		config.Reset()
		var c cachedConfig
		require.NoError(t, config.Load(&c))
		assert.Equal(t, "second", c.Value)
	})

	t.Run("required variable", func(t *testing.T) {
		config.Reset()
		var cfg requiredConfig
		assert.ErrorIs(t, config.Load(&cfg), config.ErrParsingConfig)
		assert.Panics(t, func() { config.MustLoad(&cfg) })
	})

	t.Run("nil pointer", func(t *testing.T) {
		assert.ErrorIs(t, config.Load[cachedConfig](nil), config.ErrNilPointer)
	})
}

func TestLoadEnvFiles(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env.test")
	require.NoError(t, os.WriteFile(path, []byte("CONFIG_TEST_FORMS_FILE=/etc/forms.yaml\n"), 0o600))
	t.Cleanup(func() { os.Unsetenv("CONFIG_TEST_FORMS_FILE") })

	require.NoError(t, config.LoadEnvFiles(path))
	var cfg requiredConfig
	require.NoError(t, config.Parse(&cfg))
	assert.Equal(t, "/etc/forms.yaml", cfg.FormsFile)

	assert.NoError(t, config.LoadEnvFiles())
	assert.ErrorIs(t, config.LoadEnvFiles(filepath.Join(t.TempDir(), "missing")), config.ErrEnvFile)
}
