package logging

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel/trace"
)

// Config holds the logging options.
type Config struct {
	// Level is a zerolog level name, e.g. "debug" or "info".
	Level string `koanf:"level"`
	// Format is either "json" (default) or "text" for human-readable console output.
	Format string `koanf:"format"`
}

// Init configures the global zerolog logger and installs the trace context hook.
// It also sets zerolog.DefaultContextLogger, so log.Ctx() works for contexts without a logger.
func Init(config Config) error {
	return initTo(os.Stdout, config)
}

func initTo(out io.Writer, config Config) error {
	level := zerolog.DebugLevel
	if config.Level != "" {
		var err error
		level, err = zerolog.ParseLevel(config.Level)
		if err != nil {
			return fmt.Errorf("invalid log level %q: %w", config.Level, err)
		}
	}
	switch config.Format {
	case "", "json":
	case "text":
		out = zerolog.ConsoleWriter{Out: out}
	default:
		return fmt.Errorf("invalid log format %q", config.Format)
	}
	zerolog.SetGlobalLevel(level)
	log.Logger = zerolog.New(out).With().Timestamp().Logger().Hook(TraceHook{})
	zerolog.DefaultContextLogger = &log.Logger
	return nil
}

// TraceHook adds trace_id and span_id to events that carry a context with a valid OpenTelemetry span.
type TraceHook struct{}

func (TraceHook) Run(e *zerolog.Event, _ zerolog.Level, _ string) {
	ctx := e.GetCtx()
	if ctx == nil {
		return
	}
	if spanCtx := trace.SpanContextFromContext(ctx); spanCtx.IsValid() {
		e.Str("trace_id", spanCtx.TraceID().String())
		e.Str("span_id", spanCtx.SpanID().String())
	}
}

// Ctx returns the context logger with the context attached, so TraceHook can pick up the active span.
func Ctx(ctx context.Context) *zerolog.Logger {
	logger := log.Ctx(ctx).With().Ctx(ctx).Logger()
	return &logger
}
