package tls

import (
	"crypto/tls"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Enabled {
		t.Error("Default config should have TLS disabled")
	}
	if !cfg.AutoGenerate {
		t.Error("Default config should enable auto-generation")
	}
	if len(cfg.Hosts) == 0 {
		t.Error("Default config should have default hosts")
	}
}

func TestLoadDisabled(t *testing.T) {
	tlsCfg, info, err := Load(DefaultConfig())
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if tlsCfg != nil || info != nil {
		t.Error("Expected nil config when TLS is disabled")
	}
}

func TestLoadAutoGenerate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = true
	cfg.ValidFor = time.Hour

	tlsCfg, info, err := Load(cfg)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if tlsCfg.MinVersion != tls.VersionTLS12 {
		t.Errorf("MinVersion = %d, want TLS 1.2", tlsCfg.MinVersion)
	}
	if !info.SelfSigned {
		t.Error("Expected a self-signed certificate")
	}
	if len(info.DNSNames) != 1 || info.DNSNames[0] != "localhost" {
		t.Errorf("Expected DNS name localhost, got %v", info.DNSNames)
	}
	if len(info.IPAddresses) != 1 || info.IPAddresses[0] != "127.0.0.1" {
		t.Errorf("Expected IP 127.0.0.1, got %v", info.IPAddresses)
	}
	if exp := info.ExpiresIn(); exp <= 0 || exp > 2*time.Hour {
		t.Errorf("Unexpected expiry %v", exp)
	}
}

func TestLoadFromFiles(t *testing.T) {
	dir := t.TempDir()
	certFile := filepath.Join(dir, "certs", "server.crt")
	keyFile := filepath.Join(dir, "certs", "server.key")

	if err := WriteSelfSigned(DefaultConfig(), certFile, keyFile); err != nil {
		t.Fatalf("WriteSelfSigned() failed: %v", err)
	}

	info, err := os.Stat(keyFile)
	if err != nil {
		t.Fatalf("Failed to stat key file: %v", err)
	}
	if perm := info.Mode().Perm(); perm != 0o600 {
		t.Errorf("Key file permissions = %o, want 600", perm)
	}

	cfg := Config{Enabled: true, CertFile: certFile, KeyFile: keyFile}
	tlsCfg, _, err := Load(cfg)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}
	if len(tlsCfg.Certificates) != 1 {
		t.Errorf("Expected one certificate, got %d", len(tlsCfg.Certificates))
	}
}

func TestLoadErrors(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
	}{
		{"no certificate", Config{Enabled: true}},
		{"key without cert", Config{Enabled: true, KeyFile: "server.key"}},
		{"missing files", Config{Enabled: true, CertFile: "/nonexistent.crt", KeyFile: "/nonexistent.key"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, _, err := Load(tt.cfg); err == nil {
				t.Error("Expected error")
			}
		})
	}

	if _, _, err := Load(Config{Enabled: true}); !errors.Is(err, ErrNoCertificate) {
		t.Errorf("Expected ErrNoCertificate, got %v", err)
	}
}

func TestServeWithGeneratedCertificate(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Enabled = true
	tlsCfg, _, err := Load(cfg)
	if err != nil {
		t.Fatalf("Load() failed: %v", err)
	}

	srv := httptest.NewUnstartedServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.WriteString(w, "ok")
	}))
	srv.TLS = tlsCfg
	srv.StartTLS()
	defer srv.Close()

	client := &http.Client{Transport: &http.Transport{
		TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
	}}
	resp, err := client.Get(srv.URL)
	if err != nil {
		t.Fatalf("GET failed: %v", err)
	}
	defer resp.Body.Close()
	body, _ := io.ReadAll(resp.Body)
	if string(body) != "ok" {
		t.Errorf("Expected ok, got %q", body)
	}
	if resp.TLS == nil {
		t.Error("Expected a TLS connection")
	}
}
