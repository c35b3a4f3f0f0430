package sftpclient

import (
	"context"
	"crypto/ed25519"
	"crypto/rand"
	"net"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/crypto/ssh"
	"golang.org/x/crypto/ssh/knownhosts"
)

func TestUploadFileValidation(t *testing.T) {
	ctx := context.Background()

	const (
		testHost = "127.0.0.1"
		testUser = "test-user"
		testPass = "test-pass"
		testFile = "catalog.csv"
	)

	local := filepath.Join(t.TempDir(), testFile)
	if err := os.WriteFile(local, []byte("ID,TITLE\r\n"), 0o644); err != nil {
		t.Fatalf("Failed to write local file: %v", err)
	}

	testCases := []struct {
		name          string
		cfg           Config
		localPath     string
		errorContains string
	}{
		{
			name:          "Missing credentials",
			cfg:           Config{},
			localPath:     local,
			errorContains: "sftp: missing env SFTP_HOST / SFTP_USER / SFTP_PASS",
		},
		{
			name:          "Non-existent local file",
			cfg:           Config{Host: testHost, User: testUser, Pass: testPass, InsecureIgnoreHostKey: true},
			localPath:     "non_existent_file.csv",
			errorContains: "sftp: open local file",
		},
		{
			name:          "Missing known_hosts",
			cfg:           Config{Host: testHost, User: testUser, Pass: testPass, KnownHostsPath: filepath.Join(t.TempDir(), "nope")},
			localPath:     local,
			errorContains: "sftp: load known_hosts",
		},
		{
			name:          "Unreachable host",
			cfg:           Config{Host: testHost, Port: 1, User: testUser, Pass: testPass, InsecureIgnoreHostKey: true},
			localPath:     local,
			errorContains: "sftp: dial error",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			err := UploadFile(ctx, tc.cfg, tc.localPath, testFile)
			if err == nil {
				t.Fatal("Expected error, got nil")
			}
			if !strings.Contains(err.Error(), tc.errorContains) {
				t.Errorf("Expected error to contain %q, got %q", tc.errorContains, err.Error())
			}
		})
	}
}

func TestUploadFileCanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	local := filepath.Join(t.TempDir(), "catalog.csv")
	if err := os.WriteFile(local, []byte("x"), 0o644); err != nil {
		t.Fatalf("Failed to write local file: %v", err)
	}

	cfg := Config{Host: "127.0.0.1", Port: 1, User: "u", Pass: "p", InsecureIgnoreHostKey: true}
	err := UploadFile(ctx, cfg, local, "")
	if err == nil || !strings.Contains(err.Error(), "sftp: dial canceled") {
		t.Errorf("Expected dial canceled error, got %v", err)
	}
}

func newHostKey(t *testing.T) ssh.PublicKey {
	t.Helper()
	pub, _, err := ed25519.GenerateKey(rand.Reader)
	if err != nil {
		t.Fatalf("Failed to generate key: %v", err)
	}
	key, err := ssh.NewPublicKey(pub)
	if err != nil {
		t.Fatalf("Failed to wrap key: %v", err)
	}
	return key
}

func TestHostKeyCallbackKnownHosts(t *testing.T) {
	trusted := newHostKey(t)
	other := newHostKey(t)

	path := filepath.Join(t.TempDir(), "known_hosts")
	line := knownhosts.Line([]string{knownhosts.Normalize("sftp.example.com:22")}, trusted)
	if err := os.WriteFile(path, []byte(line+"\n"), 0o600); err != nil {
		t.Fatalf("Failed to write known_hosts: %v", err)
	}

	cb, err := hostKeyCallback(Config{KnownHostsPath: path})
	if err != nil {
		t.Fatalf("Expected callback, got %v", err)
	}

	remote := &net.TCPAddr{IP: net.ParseIP("192.0.2.10"), Port: 22}
	if err := cb("sftp.example.com:22", remote, trusted); err != nil {
		t.Errorf("Expected trusted key to pass, got %v", err)
	}
	if err := cb("sftp.example.com:22", remote, other); err == nil {
		t.Error("Expected mismatched key to be rejected")
	}
}

func TestHostKeyCallbackInsecure(t *testing.T) {
	cb, err := hostKeyCallback(Config{InsecureIgnoreHostKey: true, KnownHostsPath: "/does/not/matter"})
	if err != nil {
		t.Fatalf("Expected no error, got %v", err)
	}
	if err := cb("any:22", &net.TCPAddr{}, newHostKey(t)); err != nil {
		t.Errorf("Expected insecure callback to accept any key, got %v", err)
	}
}
