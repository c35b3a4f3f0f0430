package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

type Config struct {
	// Open Library
	OpenLibraryBaseURL string
	CoversBaseURL      string
	RequestTimeout     time.Duration
	MaxAttempts        int
	MaxWorkers         int // <=0 means one per topic
	TablesFile         string

	// Key-value persistence
	KVBackend     string // memory | redis | sqlite
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	RedisPrefix   string
	SQLitePath    string

	// SFTP
	SFTPHost                  string
	SFTPPort                  int
	SFTPUser                  string
	SFTPPass                  string
	SFTPDir                   string
	SFTPInsecureIgnoreHostKey bool
	SFTPKnownHosts            string

	LogMode string
}

func Load() Config {
	return Config{
		// Open Library
		OpenLibraryBaseURL: getenv("OPENLIBRARY_BASE_URL", "https://openlibrary.org"),
		CoversBaseURL:      os.Getenv("OPENLIBRARY_COVERS_URL"), // empty keeps the catalog tables value
		RequestTimeout:     getenvDuration("CATALOG_REQUEST_TIMEOUT", 10*time.Second),
		MaxAttempts:        getenvInt("CATALOG_MAX_ATTEMPTS", 2),
		MaxWorkers:         getenvInt("CATALOG_MAX_WORKERS", 0),
		TablesFile:         os.Getenv("CATALOG_TABLES_FILE"),

		// Key-value persistence
		KVBackend:     strings.ToLower(getenv("KV_BACKEND", "sqlite")),
		RedisAddr:     getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword: os.Getenv("REDIS_PASSWORD"),
		RedisDB:       getenvInt("REDIS_DB", 0),
		RedisPrefix:   getenv("REDIS_PREFIX", "edu-catalog:"),
		SQLitePath:    getenv("SQLITE_PATH", "catalog.db"),

		// SFTP
		SFTPHost:                  os.Getenv("SFTP_HOST"),
		SFTPPort:                  getenvInt("SFTP_PORT", 22),
		SFTPUser:                  os.Getenv("SFTP_USER"),
		SFTPPass:                  os.Getenv("SFTP_PASS"),
		SFTPDir:                   getenv("SFTP_DIR", "/"),
		SFTPInsecureIgnoreHostKey: getenvBool("SFTP_INSECURE", false),
		SFTPKnownHosts:            os.Getenv("SFTP_KNOWN_HOSTS"),

		LogMode: getenv("LOG_MODE", "development"),
	}
}

func getenv(k, def string) string {
	v := os.Getenv(k)
	if v == "" {
		return def
	}
	return v
}

func getenvInt(k string, def int) int {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return def
	}
	return n
}

func getenvBool(k string, def bool) bool {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		return def
	}
	return b
}

// getenvDuration accepts Go durations ("15s") or a bare number of seconds.
func getenvDuration(k string, def time.Duration) time.Duration {
	v := strings.TrimSpace(os.Getenv(k))
	if v == "" {
		return def
	}
	if d, err := time.ParseDuration(v); err == nil && d > 0 {
		return d
	}
	if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
		return time.Duration(secs) * time.Second
	}
	return def
}
