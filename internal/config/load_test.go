package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	defer viper.Reset()

	t.Run("Defaults", func(t *testing.T) {
		viper.Reset()
		require.NoError(t, Load(""))

		assert.Equal(t, 4, viper.GetInt("workers"))
		assert.Equal(t, "naive_promise", Report().Baseline)
		assert.Equal(t, "static_step", Report().Family)
		assert.Equal(t, "step", Report().Param)
		assert.Equal(t, "sqlite", Archive().Type)
	})

	t.Run("Load From Env", func(t *testing.T) {
		viper.Reset()
		t.Setenv("SYNCPERF_WORKERS", "12")
		t.Setenv("SYNCPERF_REPORT_BASELINE", "alt_bit")

		require.NoError(t, Load(""))
		assert.Equal(t, 12, viper.GetInt("workers"))
		assert.Equal(t, "alt_bit", Report().Baseline)
	})

	t.Run("Load From File", func(t *testing.T) {
		viper.Reset()
		path := filepath.Join(t.TempDir(), "syncperf.yaml")
		content := "workers: 2\narchive:\n  enabled: true\n  type: postgres\n  dsn: postgres://localhost/bench\n"
		require.NoError(t, os.WriteFile(path, []byte(content), 0644))

		require.NoError(t, Load(path))
		assert.Equal(t, 2, viper.GetInt("workers"))
		assert.Equal(t, ArchiveSettings{Enabled: true, Type: "postgres", DSN: "postgres://localhost/bench"}, Archive())
	})

	t.Run("Missing Explicit File", func(t *testing.T) {
		viper.Reset()
		assert.Error(t, Load(filepath.Join(t.TempDir(), "missing.yaml")))
	})
}
