package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/trace"
)

func TestInit(t *testing.T) {
	t.Cleanup(func() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	})
	t.Run("invalid level", func(t *testing.T) {
		err := initTo(&bytes.Buffer{}, Config{Level: "loud"})

		assert.ErrorContains(t, err, `invalid log level "loud"`)
	})
	t.Run("invalid format", func(t *testing.T) {
		err := initTo(&bytes.Buffer{}, Config{Format: "xml"})

		assert.EqualError(t, err, `invalid log format "xml"`)
	})
	t.Run("level is applied", func(t *testing.T) {
		out := &bytes.Buffer{}
		require.NoError(t, initTo(out, Config{Level: "warn"}))

		log.Info().Msg("hidden")
		log.Warn().Msg("shown")

		assert.NotContains(t, out.String(), "hidden")
		assert.Contains(t, out.String(), "shown")
	})
}

func TestTraceHook(t *testing.T) {
	t.Cleanup(func() {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	})
	out := &bytes.Buffer{}
	require.NoError(t, initTo(out, Config{Level: "debug"}))

	t.Run("span in context", func(t *testing.T) {
		out.Reset()
		traceID, _ := trace.TraceIDFromHex("4bf92f3577b34da6a3ce929d0e0e4736")
		spanID, _ := trace.SpanIDFromHex("00f067aa0ba902b7")
		ctx := trace.ContextWithSpanContext(context.Background(), trace.NewSpanContext(trace.SpanContextConfig{
			TraceID: traceID,
			SpanID:  spanID,
		}))

		Ctx(ctx).Info().Msg("traced")

		var event map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &event))
		assert.Equal(t, "4bf92f3577b34da6a3ce929d0e0e4736", event["trace_id"])
		assert.Equal(t, "00f067aa0ba902b7", event["span_id"])
	})
	t.Run("no span", func(t *testing.T) {
		out.Reset()

		Ctx(context.Background()).Info().Msg("untraced")

		var event map[string]any
		require.NoError(t, json.Unmarshal(out.Bytes(), &event))
		assert.NotContains(t, event, "trace_id")
	})
}

func TestComponent(t *testing.T) {
	key, value := Component(&Config{})

	assert.Equal(t, "component", key)
	assert.Equal(t, "*logging.Config", value)
}
