package config

import (
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFrom(t *testing.T) {
	t.Run("applies defaults", func(t *testing.T) {
		cfg, err := LoadFrom(map[string]string{})
		require.NoError(t, err)

		assert.Equal(t, ":8080", cfg.Addr())
		assert.Equal(t, BackendPostgres, cfg.StoreBackend)
		assert.Equal(t, "order.placed", cfg.OrderTopic)
		assert.False(t, cfg.KafkaEnabled())
		assert.False(t, cfg.CookieSecure)
		assert.Equal(t, slog.LevelInfo, cfg.Level())
		assert.Equal(t, "Europe/Moscow", cfg.Location().String())
	})

	t.Run("reads overrides", func(t *testing.T) {
		cfg, err := LoadFrom(map[string]string{
			"PORT":          "127.0.0.1:9000",
			"STORE_BACKEND": "file",
			"DATA_DIR":      "/var/lib/storefront",
			"KAFKA_BROKERS": "kafka-1:9092,kafka-2:9092",
			"COOKIE_SECURE": "true",
			"LOG_LEVEL":     "debug",
			"LOG_FORMAT":    "console",
			"TIMEZONE":      "Asia/Yekaterinburg",
		})
		require.NoError(t, err)

		assert.Equal(t, "127.0.0.1:9000", cfg.Addr())
		assert.Equal(t, BackendFile, cfg.StoreBackend)
		assert.Equal(t, []string{"kafka-1:9092", "kafka-2:9092"}, cfg.KafkaBrokers)
		assert.True(t, cfg.KafkaEnabled())
		assert.True(t, cfg.CookieSecure)
		assert.Equal(t, slog.LevelDebug, cfg.Level())
		assert.Equal(t, "Asia/Yekaterinburg", cfg.Location().String())
	})

	t.Run("rejects unknown time zone", func(t *testing.T) {
		_, err := LoadFrom(map[string]string{"TIMEZONE": "Mars/Olympus"})
		assert.ErrorContains(t, err, "TIMEZONE")
	})

	t.Run("rejects unknown backend", func(t *testing.T) {
		_, err := LoadFrom(map[string]string{"STORE_BACKEND": "sqlite"})
		assert.ErrorContains(t, err, "STORE_BACKEND")
	})

	t.Run("rejects unknown log format", func(t *testing.T) {
		_, err := LoadFrom(map[string]string{"LOG_FORMAT": "xml"})
		assert.ErrorContains(t, err, "LOG_FORMAT")
	})

	t.Run("falls back to info on unknown level", func(t *testing.T) {
		cfg, err := LoadFrom(map[string]string{"LOG_LEVEL": "loud"})
		require.NoError(t, err)
		assert.Equal(t, slog.LevelInfo, cfg.Level())
	})
}
