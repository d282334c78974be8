// Package tls builds the API server's TLS settings, either from PEM files or
// from a self-signed certificate generated at startup.
package tls

import (
	"crypto/tls"
	"time"
)

// Config is the server.tls block of the YAML config.
type Config struct {
	Enabled  bool   `yaml:"enabled"`
	CertFile string `yaml:"cert_file"`
	KeyFile  string `yaml:"key_file"`

	// AutoGenerate issues a self-signed certificate when no files are given.
	AutoGenerate bool          `yaml:"auto_generate"`
	Hosts        []string      `yaml:"hosts"` // DNS names or IPs for the generated certificate
	Organization string        `yaml:"organization"`
	ValidFor     time.Duration `yaml:"valid_for"`
}

// DefaultConfig has TLS off and, once enabled, a one-year self-signed
// certificate for localhost.
func DefaultConfig() Config {
	return Config{
		AutoGenerate: true,
		Hosts:        []string{"localhost", "127.0.0.1"},
		Organization: "Constellations",
		ValidFor:     365 * 24 * time.Hour,
	}
}

// CertificateInfo describes the leaf certificate a server is using.
type CertificateInfo struct {
	Subject     string
	DNSNames    []string
	IPAddresses []string
	NotBefore   time.Time
	NotAfter    time.Time
	SelfSigned  bool
}

// ExpiresIn returns the time until the certificate expires.
func (ci CertificateInfo) ExpiresIn() time.Duration {
	return time.Until(ci.NotAfter)
}

// secureCipherSuites only matter for TLS 1.2; 1.3 suites are not configurable.
func secureCipherSuites() []uint16 {
	return []uint16{
		tls.TLS_ECDHE_ECDSA_WITH_AES_128_GCM_SHA256,
		tls.TLS_ECDHE_ECDSA_WITH_AES_256_GCM_SHA384,
		tls.TLS_ECDHE_ECDSA_WITH_CHACHA20_POLY1305_SHA256,
		tls.TLS_ECDHE_RSA_WITH_AES_128_GCM_SHA256,
		tls.TLS_ECDHE_RSA_WITH_AES_256_GCM_SHA384,
		tls.TLS_ECDHE_RSA_WITH_CHACHA20_POLY1305_SHA256,
	}
}
