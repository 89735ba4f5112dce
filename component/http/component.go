package http

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/nuts-foundation/hdsi-querytool/component"
	"github.com/nuts-foundation/hdsi-querytool/component/tracing"
	"github.com/rs/zerolog/log"
)

var _ component.Lifecycle = (*Component)(nil)

type InterfaceConfig struct {
	// Listener is the address the server binds to, e.g. ":8080".
	Listener string `koanf:"listener"`
	// BaseURL is the URL the interface is reachable on from the outside.
	BaseURL string `koanf:"baseurl"`
}

type Config struct {
	PublicInterface   InterfaceConfig `koanf:"public"`
	InternalInterface InterfaceConfig `koanf:"internal"`
}

func DefaultConfig() Config {
	return Config{
		PublicInterface: InterfaceConfig{
			Listener: ":8080",
			BaseURL:  "http://localhost:8080",
		},
		InternalInterface: InterfaceConfig{
			Listener: ":8081",
			BaseURL:  "http://localhost:8081",
		},
	}
}

type Component struct {
	config         Config
	publicMux      *http.ServeMux
	publicServer   *http.Server
	internalMux    *http.ServeMux
	internalServer *http.Server
}

// New creates an instance of the HTTP component, which handles the HTTP interfaces for the application.
func New(config Config, publicMux *http.ServeMux, internalMux *http.ServeMux) *Component {
	return &Component{
		config:      config,
		publicMux:   publicMux,
		internalMux: internalMux,
	}
}

// Start binds both listeners before serving, so bind errors are returned instead of logged.
func (c *Component) Start() error {
	publicListener, err := net.Listen("tcp", c.config.PublicInterface.Listener)
	if err != nil {
		return fmt.Errorf("public HTTP interface: %w", err)
	}
	internalListener, err := net.Listen("tcp", c.config.InternalInterface.Listener)
	if err != nil {
		_ = publicListener.Close()
		return fmt.Errorf("internal HTTP interface: %w", err)
	}
	c.publicServer = &http.Server{
		Handler:           tracing.WrapHandler(c.publicMux, "public"),
		ReadHeaderTimeout: 10 * time.Second,
	}
	c.internalServer = &http.Server{
		Handler:           c.internalMux,
		ReadHeaderTimeout: 10 * time.Second,
	}
	log.Info().Msgf("Starting HTTP servers (public-address: %s, internal-address: %s)", publicListener.Addr(), internalListener.Addr())
	go serve(c.publicServer, publicListener, "public")
	go serve(c.internalServer, internalListener, "internal")
	return nil
}

func serve(server *http.Server, listener net.Listener, name string) {
	if err := server.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Err(err).Msgf("Failed to serve %s HTTP interface", name)
	}
}

func (c *Component) Stop(ctx context.Context) error {
	if c.publicServer != nil {
		if err := c.publicServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown public HTTP server: %w", err)
		}
	}
	if c.internalServer != nil {
		if err := c.internalServer.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shutdown internal HTTP server: %w", err)
		}
	}
	return nil
}

func (c *Component) RegisterHttpHandlers(_ *http.ServeMux, _ *http.ServeMux) {
	// Nothing to do here
}
