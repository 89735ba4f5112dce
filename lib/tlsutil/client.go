package tlsutil

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/rs/zerolog/log"
	"software.sslmate.com/src/go-pkcs12"
)

// Config holds the TLS options for connections to the HDSI server.
type Config struct {
	// CertFile is a PEM certificate file or a PKCS#12 (.p12/.pfx) bundle.
	CertFile string `koanf:"certfile"`
	// KeyFile is the PEM key file. Not used for PKCS#12 bundles.
	KeyFile string `koanf:"keyfile"`
	// Password of the PKCS#12 bundle.
	Password string `koanf:"password"`
	// CAFile holds the PEM CA certificates used to verify the server.
	CAFile string `koanf:"cafile"`
	// InsecureSkipVerify disables server certificate verification. Only meant for local test servers.
	InsecureSkipVerify bool `koanf:"insecureskipverify"`
}

// IsConfigured returns true if any TLS option deviates from the system defaults.
func (c Config) IsConfigured() bool {
	return c.CertFile != "" || c.CAFile != "" || c.InsecureSkipVerify
}

// LoadClientCertificate loads a client certificate from a PEM pair or a PKCS#12 bundle.
func LoadClientCertificate(config Config) (tls.Certificate, error) {
	if config.CertFile == "" {
		return tls.Certificate{}, fmt.Errorf("certificate file not specified")
	}
	ext := strings.ToLower(filepath.Ext(config.CertFile))
	if ext == ".p12" || ext == ".pfx" {
		cert, err := loadPKCS12(config.CertFile, config.Password)
		if err != nil {
			return tls.Certificate{}, fmt.Errorf("failed to load PKCS#12: %w", err)
		}
		log.Info().Str("p12File", config.CertFile).Msg("Loaded HDSI client certificate from PKCS#12")
		return cert, nil
	}

	if config.KeyFile == "" {
		return tls.Certificate{}, fmt.Errorf("key file required when using PEM certificate")
	}
	cert, err := tls.LoadX509KeyPair(config.CertFile, config.KeyFile)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to load certificate: %w", err)
	}
	log.Info().Str("certFile", config.CertFile).Msg("Loaded HDSI client certificate from PEM")
	return cert, nil
}

// LoadCACertPool loads CA certificates from a PEM file. An empty file name yields a nil pool.
func LoadCACertPool(caFile string) (*x509.CertPool, error) {
	if caFile == "" {
		return nil, nil
	}
	data, err := os.ReadFile(caFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read CA file: %w", err)
	}
	pool := x509.NewCertPool()
	if !pool.AppendCertsFromPEM(data) {
		return nil, fmt.Errorf("failed to parse CA certificate")
	}
	return pool, nil
}

// CreateTLSConfig creates the client TLS configuration. It returns nil when nothing is configured,
// so the transport keeps using the system defaults.
func CreateTLSConfig(config Config) (*tls.Config, error) {
	if !config.IsConfigured() {
		return nil, nil
	}
	tlsConfig := &tls.Config{
		MinVersion:         tls.VersionTLS12,
		InsecureSkipVerify: config.InsecureSkipVerify,
	}
	if config.CertFile != "" {
		cert, err := LoadClientCertificate(config)
		if err != nil {
			return nil, err
		}
		tlsConfig.Certificates = []tls.Certificate{cert}
	}
	pool, err := LoadCACertPool(config.CAFile)
	if err != nil {
		return nil, err
	}
	tlsConfig.RootCAs = pool
	return tlsConfig, nil
}

func loadPKCS12(p12File, password string) (tls.Certificate, error) {
	data, err := os.ReadFile(p12File)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to read PKCS#12 file: %w", err)
	}
	privateKey, leaf, caCerts, err := pkcs12.DecodeChain(data, password)
	if err != nil {
		return tls.Certificate{}, fmt.Errorf("failed to decode PKCS#12: %w", err)
	}
	chain := [][]byte{leaf.Raw}
	for _, caCert := range caCerts {
		chain = append(chain, caCert.Raw)
	}
	return tls.Certificate{
		Certificate: chain,
		PrivateKey:  privateKey,
		Leaf:        leaf,
	}, nil
}
