// Package config loads the application's settings from a `.env`-style file.
//
// The file is plain `KEY=value` text, one pair per line; blank lines and
// lines starting with # are ignored. Parsing is delegated to joho/godotenv,
// which implements exactly that format. Real environment variables override
// values from the file, so deployments can inject secrets without touching
// the file at all.
//
// Four settings are required — the snapshot store identity (owner + repo),
// its access token, and the admin secret. Load never silently defaults any
// of them: when one is missing it returns apperror.ErrConfig naming every
// missing key, together with the partially-filled Config. The caller keeps
// the server running with sync disabled rather than crashing (see
// store.Misconfigured).
package config

import (
	"os"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/satriadev/codeshare/internal/apperror"
)

// Required keys in the config resource.
const (
	KeyStoreOwner  = "STORE_OWNER"
	KeyStoreRepo   = "STORE_REPO"
	KeyStoreToken  = "STORE_TOKEN"
	KeyAdminSecret = "ADMIN_SECRET"
)

// Config holds every setting the server needs.
type Config struct {
	// Required.
	StoreOwner  string // owner of the blob-store repository
	StoreRepo   string // repository holding the snapshot blob
	StoreToken  string // access credential for writes
	AdminSecret string // shared admin secret (plain text or bcrypt hash)

	// Optional, defaulted.
	Port          int    // HTTP listen port
	StoreBackend  string // "github" (remote blob) or "sqlite" (embedded)
	StorePath     string // sqlite database path (sqlite backend only)
	StoreFile     string // blob path inside the repo, e.g. "db.json"
	StoreBranch   string // branch the raw-content reads come from
	SessionSecret string // admin JWT signing key; empty = random per process
	TemplateDir   string // HTML template directory
	StaticDir     string // static asset directory
}

// Load reads the config file at path and applies environment overrides.
//
// A missing or unreadable file is not fatal by itself — it just means every
// required key must come from the environment. The returned error, when
// non-nil, wraps apperror.ErrConfig and lists the missing required keys;
// the Config is still returned so the server can start degraded.
func Load(path string) (*Config, error) {
	fileValues, err := godotenv.Read(path)
	if err != nil {
		fileValues = map[string]string{}
	}

	// Environment wins over the file.
	get := func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fileValues[key]
	}

	cfg := &Config{
		StoreOwner:    get(KeyStoreOwner),
		StoreRepo:     get(KeyStoreRepo),
		StoreToken:    get(KeyStoreToken),
		AdminSecret:   get(KeyAdminSecret),
		Port:          8080,
		StoreBackend:  "github",
		StorePath:     "data/codeshare.db",
		StoreFile:     "db.json",
		StoreBranch:   "main",
		SessionSecret: get("SESSION_SECRET"),
		TemplateDir:   "web/templates",
		StaticDir:     "web/static",
	}

	if v := get("PORT"); v != "" {
		if port, err := strconv.Atoi(v); err == nil {
			cfg.Port = port
		}
	}
	if v := get("STORE_BACKEND"); v != "" {
		cfg.StoreBackend = v
	}
	if v := get("STORE_PATH"); v != "" {
		cfg.StorePath = v
	}
	if v := get("STORE_FILE"); v != "" {
		cfg.StoreFile = v
	}
	if v := get("STORE_BRANCH"); v != "" {
		cfg.StoreBranch = v
	}
	if v := get("TEMPLATE_DIR"); v != "" {
		cfg.TemplateDir = v
	}
	if v := get("STATIC_DIR"); v != "" {
		cfg.StaticDir = v
	}

	if missing := cfg.Missing(); len(missing) > 0 {
		return cfg, apperror.ConfigIncomplete(missing)
	}
	return cfg, nil
}

// Missing returns the names of required keys that have no value,
// in declaration order.
func (c *Config) Missing() []string {
	var missing []string
	if c.StoreOwner == "" {
		missing = append(missing, KeyStoreOwner)
	}
	if c.StoreRepo == "" {
		missing = append(missing, KeyStoreRepo)
	}
	if c.StoreToken == "" {
		missing = append(missing, KeyStoreToken)
	}
	if c.AdminSecret == "" {
		missing = append(missing, KeyAdminSecret)
	}
	return missing
}
