package api

import (
	"testing"
)

func clearTLSEnv(t *testing.T) {
	t.Setenv("XDSLCONV_TLS_CERT", "")
	t.Setenv("XDSLCONV_TLS_KEY", "")
	tlsConfig = nil
}

func TestTLSDisabledByDefault(t *testing.T) {
	clearTLSEnv(t)
	InitTLS()

	if IsTLSEnabled() {
		t.Error("TLS should be disabled without env vars")
	}
	if LoadTLSConfig() != nil {
		t.Error("LoadTLSConfig should return nil when disabled")
	}
}

func TestTLSRequiresBothCertAndKey(t *testing.T) {
	clearTLSEnv(t)
	t.Setenv("XDSLCONV_TLS_CERT", "/path/to/cert.pem")
	InitTLS()

	if IsTLSEnabled() {
		t.Error("TLS should be disabled with cert but no key")
	}

	clearTLSEnv(t)
	t.Setenv("XDSLCONV_TLS_KEY", "/path/to/key.pem")
	InitTLS()

	if IsTLSEnabled() {
		t.Error("TLS should be disabled with key but no cert")
	}
}

func TestTLSEnabledWithBothPaths(t *testing.T) {
	clearTLSEnv(t)
	t.Setenv("XDSLCONV_TLS_CERT", "/path/to/cert.pem")
	t.Setenv("XDSLCONV_TLS_KEY", "/path/to/key.pem")
	InitTLS()

	if !IsTLSEnabled() {
		t.Error("TLS should be enabled with both paths set")
	}
}

func TestLoadTLSConfigMissingFiles(t *testing.T) {
	SetTLSConfigForTest(&TLSConfig{
		CertFile: "/nonexistent/cert.pem",
		KeyFile:  "/nonexistent/key.pem",
	})
	defer SetTLSConfigForTest(nil)

	if cfg := LoadTLSConfig(); cfg != nil {
		t.Error("expected nil config when certificate files are missing")
	}
}
