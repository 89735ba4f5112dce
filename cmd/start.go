package cmd

import (
	"context"
	"net/http"
	"time"

	"github.com/nuts-foundation/hdsi-querytool/component"
	libHTTPComponent "github.com/nuts-foundation/hdsi-querytool/component/http"
	"github.com/nuts-foundation/hdsi-querytool/component/querytool"
	"github.com/nuts-foundation/hdsi-querytool/component/status"
	"github.com/nuts-foundation/hdsi-querytool/component/tracing"
	"github.com/nuts-foundation/hdsi-querytool/lib/logging"
	"github.com/pkg/errors"
)

const shutdownTimeout = 10 * time.Second

func Start(ctx context.Context, config Config) error {
	if !config.Core.StrictMode {
		logging.Ctx(ctx).Warn().Msg("Strict mode is disabled. This is NOT recommended for production environments!")
	}
	if err := config.Core.CheckHDSIConnection(config.QueryTool.BaseURL, config.QueryTool.Transport.TLS); err != nil {
		return errors.Wrap(err, "invalid HDSI connection")
	}

	publicMux := http.NewServeMux()
	internalMux := http.NewServeMux()

	queryTool, err := querytool.New(config.QueryTool)
	if err != nil {
		return errors.Wrap(err, "failed to create query tool component")
	}
	tracingConfig := config.Tracing
	tracingConfig.ServiceVersion = status.Version()
	components := []component.Lifecycle{
		tracing.New(tracingConfig),
		queryTool,
		status.New(config.QueryTool.BaseURL),
		libHTTPComponent.New(config.HTTP, publicMux, internalMux),
	}

	// Components: RegisterHandlers()
	for _, cmp := range components {
		cmp.RegisterHttpHandlers(publicMux, internalMux)
	}

	// Components: Start()
	for _, cmp := range components {
		logging.Ctx(ctx).Debug().Str(logging.Component(cmp)).Msg("Starting component")
		if err := cmp.Start(); err != nil {
			return errors.Wrapf(err, "failed to start component: %T", cmp)
		}
		logging.Ctx(ctx).Debug().Str(logging.Component(cmp)).Msg("Component started")
	}

	logging.Ctx(ctx).Debug().Msg("System started, waiting for shutdown...")
	<-ctx.Done()

	// Components: Stop()
	logging.Ctx(ctx).Debug().Msg("Shutdown signalled, stopping components...")
	stopCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	for _, cmp := range components {
		if err := cmp.Stop(stopCtx); err != nil {
			logging.Ctx(ctx).Error().Err(err).Str(logging.Component(cmp)).Msg("Error stopping component")
		}
	}
	logging.Ctx(ctx).Info().Msg("Goodbye!")
	return nil
}
