package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestResolveSecretEnvOnly(t *testing.T) {
	const envName = "TEST_SECRET_ENV_ONLY"
	os.Setenv(envName, "env-value")
	defer os.Unsetenv(envName)

	value, err := ResolveSecret(envName)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != "env-value" {
		t.Errorf("got %q, want %q", value, "env-value")
	}
}

func TestResolveSecretFileWinsOverEnv(t *testing.T) {
	const envName = "TEST_SECRET_FILE_WINS"

	os.Setenv(envName, "env-value")
	defer os.Unsetenv(envName)

	secretFile := filepath.Join(t.TempDir(), "secret.txt")
	if err := os.WriteFile(secretFile, []byte("  file-value\n"), 0600); err != nil {
		t.Fatalf("failed to write temp file: %v", err)
	}
	os.Setenv(envName+"_FILE", secretFile)
	defer os.Unsetenv(envName + "_FILE")

	value, err := ResolveSecret(envName)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != "file-value" {
		t.Errorf("got %q, want %q (file should win over env, trimmed)", value, "file-value")
	}
}

func TestResolveSecretNeitherSet(t *testing.T) {
	const envName = "TEST_SECRET_NEITHER_SET"
	os.Unsetenv(envName)
	os.Unsetenv(envName + "_FILE")

	value, err := ResolveSecret(envName)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if value != "" {
		t.Errorf("got %q, want empty string", value)
	}
}

func TestResolveSecretFileNotFound(t *testing.T) {
	const envName = "TEST_SECRET_FILE_NOT_FOUND"
	os.Setenv(envName+"_FILE", "/nonexistent/path/to/secret")
	defer os.Unsetenv(envName + "_FILE")

	if _, err := ResolveSecret(envName); err == nil {
		t.Error("expected error when file does not exist")
	}
}
