package core

import (
	"errors"
	"net/url"
	"strings"

	"github.com/nuts-foundation/hdsi-querytool/lib/tlsutil"
)

type Config struct {
	StrictMode bool `koanf:"strictmode"`
}

func DefaultConfig() Config {
	return Config{
		StrictMode: true,
	}
}

// CheckHDSIConnection verifies the connection to the HDSI server is secured, if strict mode is enabled.
func (c Config) CheckHDSIConnection(baseURL string, tlsConfig tlsutil.Config) error {
	if !c.StrictMode {
		return nil
	}
	if tlsConfig.InsecureSkipVerify {
		return errors.New("TLS certificate verification can't be disabled in strict mode")
	}
	parsed, err := url.Parse(baseURL)
	if err != nil || !strings.EqualFold(parsed.Scheme, "https") {
		return errors.New("HDSI base URL must use https in strict mode")
	}
	return nil
}
