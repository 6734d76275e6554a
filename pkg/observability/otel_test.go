package observability

import (
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseOTLPHeaders(t *testing.T) {
	t.Run("unset", func(t *testing.T) {
		t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "")
		assert.Nil(t, parseOTLPHeaders())
	})

	t.Run("url encoded values are decoded", func(t *testing.T) {
		t.Setenv("OTEL_EXPORTER_OTLP_HEADERS", "Authorization=Basic%20dG9rZW4=, X-Scope = tenant-1,broken")
		headers := parseOTLPHeaders()
		assert.Equal(t, map[string]string{
			"Authorization": "Basic dG9rZW4=",
			"X-Scope":       " tenant-1",
		}, headers)
	})
}

func TestSetup_Disabled(t *testing.T) {
	var buf bytes.Buffer
	ctx := context.Background()

	providers, err := Setup(ctx, Options{
		ServiceName: "tracker",
		LogOutput:   &buf,
		LogLevel:    slog.LevelInfo,
	})
	require.NoError(t, err)

	providers.Logger.Debug("hidden")
	providers.Logger.Info("loaded tasks", "count", 3)

	var record map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &record))
	assert.Equal(t, "loaded tasks", record["msg"])
	assert.EqualValues(t, 3, record["count"])

	assert.NoError(t, providers.Shutdown(ctx))
}
