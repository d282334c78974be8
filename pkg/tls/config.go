package tls

import (
	"crypto/tls"
	"crypto/x509"
	"errors"
	"fmt"
	"net"
)

// ErrNoCertificate is returned when TLS is enabled with neither files nor
// auto-generation.
var ErrNoCertificate = errors.New("tls enabled but no certificate configured")

// Load returns the server TLS config, or nil when TLS is disabled.
func Load(cfg Config) (*tls.Config, *CertificateInfo, error) {
	if !cfg.Enabled {
		return nil, nil, nil
	}

	var (
		cert tls.Certificate
		err  error
	)
	switch {
	case cfg.CertFile != "" || cfg.KeyFile != "":
		if cfg.CertFile == "" || cfg.KeyFile == "" {
			return nil, nil, errors.New("tls: cert_file and key_file must be set together")
		}
		cert, err = tls.LoadX509KeyPair(cfg.CertFile, cfg.KeyFile)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to load TLS certificate: %w", err)
		}
	case cfg.AutoGenerate:
		cert, err = GenerateSelfSigned(cfg)
		if err != nil {
			return nil, nil, fmt.Errorf("failed to generate self-signed certificate: %w", err)
		}
	default:
		return nil, nil, ErrNoCertificate
	}

	info, err := describe(cert)
	if err != nil {
		return nil, nil, err
	}

	return &tls.Config{
		Certificates: []tls.Certificate{cert},
		MinVersion:   tls.VersionTLS12,
		CipherSuites: secureCipherSuites(),
	}, info, nil
}

func describe(cert tls.Certificate) (*CertificateInfo, error) {
	leaf := cert.Leaf
	if leaf == nil {
		if len(cert.Certificate) == 0 {
			return nil, errors.New("tls: empty certificate chain")
		}
		var err error
		if leaf, err = x509.ParseCertificate(cert.Certificate[0]); err != nil {
			return nil, fmt.Errorf("failed to parse certificate: %w", err)
		}
	}

	info := &CertificateInfo{
		Subject:    leaf.Subject.String(),
		DNSNames:   leaf.DNSNames,
		NotBefore:  leaf.NotBefore,
		NotAfter:   leaf.NotAfter,
		SelfSigned: leaf.Subject.String() == leaf.Issuer.String(),
	}
	for _, ip := range leaf.IPAddresses {
		info.IPAddresses = append(info.IPAddresses, ip.String())
	}
	return info, nil
}

// splitHosts separates IP literals from DNS names.
func splitHosts(hosts []string) (dns []string, ips []net.IP) {
	for _, h := range hosts {
		if ip := net.ParseIP(h); ip != nil {
			ips = append(ips, ip)
		} else if h != "" {
			dns = append(dns, h)
		}
	}
	return dns, ips
}
