package httpauth

import (
	"fmt"
	"net/http"
	"time"

	"github.com/nuts-foundation/hdsi-querytool/lib/tlsutil"
)

// TransportConfig configures the HTTP client used for HDSI calls.
type TransportConfig struct {
	Timeout time.Duration  `koanf:"timeout"`
	TLS     tlsutil.Config `koanf:"tls"`
}

func DefaultTransportConfig() TransportConfig {
	return TransportConfig{
		Timeout: 30 * time.Second,
	}
}

// NewHTTPClient creates the HTTP client for HDSI calls, applying the TLS options if configured.
func NewHTTPClient(config TransportConfig) (*http.Client, error) {
	tlsConfig, err := tlsutil.CreateTLSConfig(config.TLS)
	if err != nil {
		return nil, fmt.Errorf("HDSI client TLS: %w", err)
	}
	transport := http.DefaultTransport.(*http.Transport).Clone()
	if tlsConfig != nil {
		transport.TLSClientConfig = tlsConfig
	}
	return &http.Client{
		Transport: transport,
		Timeout:   config.Timeout,
	}, nil
}
