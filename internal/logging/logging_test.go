package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewWithWriter(t *testing.T) {
	t.Run("writes json with attributes", func(t *testing.T) {
		var buf bytes.Buffer
		logger, sync := NewWithWriter(&buf, "storefront", slog.LevelInfo, "json")
		logger.Info("order placed", "customer_code", "A1234", "total", 1500)
		sync()

		var entry map[string]any
		require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
		assert.Equal(t, "order placed", entry["msg"])
		assert.Equal(t, "storefront", entry["service"])
		assert.Equal(t, "A1234", entry["customer_code"])
		assert.EqualValues(t, 1500, entry["total"])
	})

	t.Run("drops entries below the level", func(t *testing.T) {
		var buf bytes.Buffer
		logger, sync := NewWithWriter(&buf, "storefront", slog.LevelWarn, "json")
		logger.Info("visit recorded")
		logger.Warn("unreadable order details")
		sync()

		lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
		require.Len(t, lines, 1)
		assert.Contains(t, lines[0], "unreadable order details")
	})

	t.Run("console format is human readable", func(t *testing.T) {
		var buf bytes.Buffer
		logger, sync := NewWithWriter(&buf, "storefront", slog.LevelDebug, "console")
		logger.Debug("cookie set", "code", "A1234")
		sync()

		assert.Contains(t, buf.String(), "cookie set")
		assert.Contains(t, buf.String(), "A1234")
	})
}

func TestDiscard(t *testing.T) {
	assert.NotPanics(t, func() { Discard().Error("nothing to see") })
}
