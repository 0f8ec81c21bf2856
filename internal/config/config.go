// Package config loads mydocs-mcp's runtime configuration from environment
// variables (prefixed MYDOCS_MCP_), following the .env/.env.local loading
// convention and the ${VAR:-default} expansion style used throughout the
// teacher's pkg/config package.
package config

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds every MYDOCS_MCP_* value plus the watcher-specific keys.
type Config struct {
	Transport            string
	LogLevel             string
	LogFile              string
	MaxConnections        int
	RequestTimeout        time.Duration
	DatabaseURL           string
	DocumentRoot          string
	MaxDocumentSize       int64
	SupportedExtensions   []string
	MaxSearchResults      int
	EnableSearchCaching   bool
	SearchCacheTTL        time.Duration
	Debug                 bool

	WatchDirs       []string
	WatchExtensions []string
	DebounceDelayMS int
	RecursiveWatch  bool
	MaxFileSizeMB   int
	BatchProcessing bool
	BatchDelayMS    int
}

// Defaults mirror spec.md §6 / original_source/src/watcher/config.py.
func Defaults() *Config {
	return &Config{
		Transport:           "stdio",
		LogLevel:            "warn",
		LogFile:             "",
		MaxConnections:      10,
		RequestTimeout:      30 * time.Second,
		DatabaseURL:         "mydocs.db",
		DocumentRoot:        ".",
		MaxDocumentSize:     10 * 1024 * 1024,
		SupportedExtensions: []string{".md", ".txt"},
		MaxSearchResults:    100,
		EnableSearchCaching: true,
		SearchCacheTTL:      30 * time.Minute,
		Debug:               false,

		WatchDirs:       nil,
		WatchExtensions: []string{".md", ".txt"},
		DebounceDelayMS: 500,
		RecursiveWatch:  true,
		MaxFileSizeMB:   10,
		BatchProcessing: false,
		BatchDelayMS:    1000,
	}
}

// LoadEnvFiles attempts .env.local then .env, exactly like the teacher's
// LoadEnvFiles; a missing file is not an error.
func LoadEnvFiles() {
	_ = godotenv.Load(".env.local", ".env")
}

// Load builds a Config from defaults overlaid with MYDOCS_MCP_* env vars.
func Load() (*Config, error) {
	LoadEnvFiles()
	cfg := Defaults()

	if v, ok := lookup("TRANSPORT"); ok {
		cfg.Transport = v
	}
	if v, ok := lookup("LOG_LEVEL"); ok {
		cfg.LogLevel = v
	}
	if v, ok := lookup("LOG_FILE"); ok {
		cfg.LogFile = v
	}
	if v, ok := lookupInt("MAX_CONNECTIONS"); ok {
		cfg.MaxConnections = v
	}
	if v, ok := lookupInt("REQUEST_TIMEOUT"); ok {
		cfg.RequestTimeout = time.Duration(v) * time.Second
	}
	if v, ok := lookup("DATABASE_URL"); ok {
		cfg.DatabaseURL = v
	}
	if v, ok := lookup("DOCUMENT_ROOT"); ok {
		cfg.DocumentRoot = v
	}
	if v, ok := lookupInt64("MAX_DOCUMENT_SIZE"); ok {
		cfg.MaxDocumentSize = v
	}
	if v, ok := lookup("SUPPORTED_EXTENSIONS"); ok {
		cfg.SupportedExtensions = splitCSV(v)
	}
	if v, ok := lookupInt("MAX_SEARCH_RESULTS"); ok {
		cfg.MaxSearchResults = v
	}
	if v, ok := lookupBool("ENABLE_SEARCH_CACHING"); ok {
		cfg.EnableSearchCaching = v
	}
	if v, ok := lookupInt("SEARCH_CACHE_TTL"); ok {
		cfg.SearchCacheTTL = time.Duration(v) * time.Second
	}
	if v, ok := lookupBool("DEBUG"); ok {
		cfg.Debug = v
	}

	if v, ok := lookup("WATCH_DIRS"); ok {
		cfg.WatchDirs = filepathSplit(v)
	}
	if v, ok := lookup("WATCH_EXTENSIONS"); ok {
		cfg.WatchExtensions = splitCSV(v)
	}
	if v, ok := lookupInt("DEBOUNCE_DELAY_MS"); ok {
		cfg.DebounceDelayMS = v
	}
	if v, ok := lookupBool("RECURSIVE_WATCH"); ok {
		cfg.RecursiveWatch = v
	}
	if v, ok := lookupInt("MAX_FILE_SIZE_MB"); ok {
		cfg.MaxFileSizeMB = v
	}
	if v, ok := lookupBool("BATCH_PROCESSING"); ok {
		cfg.BatchProcessing = v
	}
	if v, ok := lookupInt("BATCH_DELAY_MS"); ok {
		cfg.BatchDelayMS = v
	}

	return cfg, nil
}

func lookup(key string) (string, bool) {
	v, ok := os.LookupEnv("MYDOCS_MCP_" + key)
	if !ok {
		return "", false
	}
	return expandEnvVars(v), true
}

func lookupInt(key string) (int, bool) {
	v, ok := lookup(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimSpace(v))
	if err != nil {
		return 0, false
	}
	return n, true
}

func lookupInt64(key string) (int64, bool) {
	v, ok := lookup(key)
	if !ok {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

func lookupBool(key string) (bool, bool) {
	v, ok := lookup(key)
	if !ok {
		return false, false
	}
	b, err := strconv.ParseBool(strings.TrimSpace(v))
	if err != nil {
		return false, false
	}
	return b, true
}

func splitCSV(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func filepathSplit(v string) []string {
	parts := strings.Split(v, string(os.PathListSeparator))
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// envVarPattern matches ${VAR:-default}, ${VAR}, and $VAR, same three forms
// the teacher's env.go expands.
var envVarPattern = regexp.MustCompile(`\$\{([A-Za-z_][A-Za-z0-9_]*)(:-[^}]*)?\}|\$([A-Za-z_][A-Za-z0-9_]*)`)

// expandEnvVars resolves embedded environment variable references so a
// value like "${MYDOCS_MCP_DATABASE_URL:-mydocs.db}" can be set from a
// wrapping process without mydocs-mcp needing to know the outer variable's
// name ahead of time.
func expandEnvVars(s string) string {
	return envVarPattern.ReplaceAllStringFunc(s, func(match string) string {
		groups := envVarPattern.FindStringSubmatch(match)
		name := groups[1]
		def := ""
		if name == "" {
			name = groups[3]
		} else if strings.HasPrefix(groups[2], ":-") {
			def = groups[2][2:]
		}
		if v, ok := os.LookupEnv(name); ok {
			return v
		}
		return def
	})
}

// Validate performs structural sanity checks used by the CLI's validate
// sub-command, ahead of actually opening the store.
func (c *Config) Validate() error {
	if c.DocumentRoot == "" {
		return fmt.Errorf("document root must not be empty")
	}
	if c.DatabaseURL == "" {
		return fmt.Errorf("database url must not be empty")
	}
	if c.MaxConnections <= 0 {
		return fmt.Errorf("max connections must be positive, got %d", c.MaxConnections)
	}
	if len(c.SupportedExtensions) == 0 {
		return fmt.Errorf("supported extensions must not be empty")
	}
	return nil
}
