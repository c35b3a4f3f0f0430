package config

import (
	"os"
	"testing"
	"time"
)

func TestGetenv(t *testing.T) {
	// Test with empty environment variable
	t.Setenv("TEST_GETENV", "")
	result := getenv("TEST_GETENV", "default")
	if result != "default" {
		t.Errorf("Expected default value 'default', got '%s'", result)
	}

	// Test with set environment variable
	t.Setenv("TEST_GETENV", "test-value")
	result = getenv("TEST_GETENV", "default")
	if result != "test-value" {
		t.Errorf("Expected 'test-value', got '%s'", result)
	}
}

func TestGetenvInt(t *testing.T) {
	t.Setenv("TEST_GETENV_INT", "")
	if result := getenvInt("TEST_GETENV_INT", 42); result != 42 {
		t.Errorf("Expected default value 42, got %d", result)
	}

	t.Setenv("TEST_GETENV_INT", "100")
	if result := getenvInt("TEST_GETENV_INT", 42); result != 100 {
		t.Errorf("Expected 100, got %d", result)
	}

	t.Setenv("TEST_GETENV_INT", "not-an-int")
	if result := getenvInt("TEST_GETENV_INT", 42); result != 42 {
		t.Errorf("Expected default value 42, got %d", result)
	}
}

func TestGetenvBool(t *testing.T) {
	t.Setenv("TEST_GETENV_BOOL", "")
	if result := getenvBool("TEST_GETENV_BOOL", true); result != true {
		t.Errorf("Expected default value true, got %v", result)
	}

	t.Setenv("TEST_GETENV_BOOL", "true")
	if result := getenvBool("TEST_GETENV_BOOL", false); result != true {
		t.Errorf("Expected true, got %v", result)
	}

	t.Setenv("TEST_GETENV_BOOL", "false")
	if result := getenvBool("TEST_GETENV_BOOL", true); result != false {
		t.Errorf("Expected false, got %v", result)
	}

	t.Setenv("TEST_GETENV_BOOL", "not-a-bool")
	if result := getenvBool("TEST_GETENV_BOOL", true); result != true {
		t.Errorf("Expected default value true, got %v", result)
	}
}

func TestGetenvDuration(t *testing.T) {
	testCases := []struct {
		value    string
		expected time.Duration
	}{
		{"", 5 * time.Second},
		{"15s", 15 * time.Second},
		{"2m", 2 * time.Minute},
		{"30", 30 * time.Second},
		{"-1s", 5 * time.Second},
		{"garbage", 5 * time.Second},
	}

	for _, tc := range testCases {
		t.Setenv("TEST_GETENV_DURATION", tc.value)
		result := getenvDuration("TEST_GETENV_DURATION", 5*time.Second)
		if result != tc.expected {
			t.Errorf("getenvDuration(%q) = %v, want %v", tc.value, result, tc.expected)
		}
	}
}

func TestLoad(t *testing.T) {
	t.Setenv("OPENLIBRARY_BASE_URL", "https://openlibrary.test")
	t.Setenv("CATALOG_REQUEST_TIMEOUT", "3s")
	t.Setenv("CATALOG_MAX_ATTEMPTS", "4")
	t.Setenv("KV_BACKEND", "Redis")
	t.Setenv("REDIS_DB", "2")
	t.Setenv("SFTP_HOST", "sftp.test")
	t.Setenv("SFTP_PORT", "2222")
	t.Setenv("SFTP_INSECURE", "true")

	cfg := Load()

	if cfg.OpenLibraryBaseURL != "https://openlibrary.test" {
		t.Errorf("Expected OpenLibraryBaseURL to be 'https://openlibrary.test', got '%s'", cfg.OpenLibraryBaseURL)
	}
	if cfg.RequestTimeout != 3*time.Second {
		t.Errorf("Expected RequestTimeout to be 3s, got %v", cfg.RequestTimeout)
	}
	if cfg.MaxAttempts != 4 {
		t.Errorf("Expected MaxAttempts to be 4, got %d", cfg.MaxAttempts)
	}
	if cfg.KVBackend != "redis" {
		t.Errorf("Expected KVBackend to be lower-cased 'redis', got '%s'", cfg.KVBackend)
	}
	if cfg.RedisDB != 2 {
		t.Errorf("Expected RedisDB to be 2, got %d", cfg.RedisDB)
	}
	if cfg.SFTPPort != 2222 {
		t.Errorf("Expected SFTPPort to be 2222, got %d", cfg.SFTPPort)
	}
	if !cfg.SFTPInsecureIgnoreHostKey {
		t.Error("Expected SFTPInsecureIgnoreHostKey to be true")
	}

	// Test default values
	os.Unsetenv("OPENLIBRARY_BASE_URL")
	os.Unsetenv("CATALOG_REQUEST_TIMEOUT")
	os.Unsetenv("KV_BACKEND")
	os.Unsetenv("SFTP_PORT")
	os.Unsetenv("SFTP_DIR")
	os.Unsetenv("SFTP_INSECURE")

	cfg = Load()
	if cfg.OpenLibraryBaseURL != "https://openlibrary.org" {
		t.Errorf("Expected default OpenLibraryBaseURL, got '%s'", cfg.OpenLibraryBaseURL)
	}
	if cfg.RequestTimeout != 10*time.Second {
		t.Errorf("Expected default RequestTimeout to be 10s, got %v", cfg.RequestTimeout)
	}
	if cfg.KVBackend != "sqlite" {
		t.Errorf("Expected default KVBackend to be 'sqlite', got '%s'", cfg.KVBackend)
	}
	if cfg.SFTPPort != 22 {
		t.Errorf("Expected default SFTPPort to be 22, got %d", cfg.SFTPPort)
	}
	if cfg.SFTPDir != "/" {
		t.Errorf("Expected default SFTPDir to be '/', got '%s'", cfg.SFTPDir)
	}
	if cfg.SFTPInsecureIgnoreHostKey {
		t.Error("Expected default SFTPInsecureIgnoreHostKey to be false")
	}
}
