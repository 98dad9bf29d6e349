// Package config loads server configuration from environment variables.
package config

import (
	"net/url"
	"os"
	"strings"
)

// StoreConfig holds connection settings for the object store bucket.
// The site runs against Cloudflare R2, but any S3-compatible endpoint works.
type StoreConfig struct {
	Backend         string // "s3" (default) or "gcs"
	Endpoint        string
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Region          string
}

// Config holds server configuration.
type Config struct {
	Port     string
	Env      string
	LogLevel string

	// Object store. May be absent; public reads then degrade to empty
	// results instead of failing.
	StoreBackend         string
	StoreEndpoint        string
	StoreAccessKeyID     string
	StoreSecretAccessKey string
	StoreBucket          string
	StoreRegion          string

	// Base URL the bucket is publicly served from. Optional; without it
	// image URLs fall back to the authenticated proxy routes.
	PublicHost string

	// Single shared admin credential.
	AdminUsername     string
	AdminPassword     string
	AdminPasswordHash string // optional bcrypt hash, takes precedence over AdminPassword

	// Secret used to sign admin session tokens.
	SessionSecret string
}

// Load loads configuration from environment variables.
func Load() *Config {
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	env := os.Getenv("ENV")
	if env == "" {
		env = "development"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "INFO"
	}

	region := os.Getenv("STORE_REGION")
	if region == "" {
		region = "auto"
	}

	backend := os.Getenv("STORE_BACKEND")
	if backend == "" {
		backend = "s3"
	}

	return &Config{
		Port:                 port,
		Env:                  env,
		LogLevel:             logLevel,
		StoreBackend:         backend,
		StoreEndpoint:        os.Getenv("STORE_ENDPOINT"),
		StoreAccessKeyID:     os.Getenv("STORE_ACCESS_KEY_ID"),
		StoreSecretAccessKey: os.Getenv("STORE_SECRET_ACCESS_KEY"),
		StoreBucket:          os.Getenv("STORE_BUCKET"),
		StoreRegion:          region,
		PublicHost:           strings.TrimSuffix(os.Getenv("PUBLIC_HOST"), "/"),
		AdminUsername:        os.Getenv("ADMIN_USERNAME"),
		AdminPassword:        os.Getenv("ADMIN_PASSWORD"),
		AdminPasswordHash:    os.Getenv("ADMIN_PASSWORD_HASH"),
		SessionSecret:        os.Getenv("SESSION_SECRET"),
	}
}

// Store returns the object store configuration, or false when the store is
// not configured. Absence is a typed state, not an error: callers decide
// whether to degrade (reads) or fail loudly (writes).
func (c *Config) Store() (StoreConfig, bool) {
	if c.StoreEndpoint == "" || c.StoreAccessKeyID == "" || c.StoreSecretAccessKey == "" || c.StoreBucket == "" {
		return StoreConfig{}, false
	}
	return StoreConfig{
		Backend:         c.StoreBackend,
		Endpoint:        c.StoreEndpoint,
		AccessKeyID:     c.StoreAccessKeyID,
		SecretAccessKey: c.StoreSecretAccessKey,
		Bucket:          c.StoreBucket,
		Region:          c.StoreRegion,
	}, true
}

// AdminConfigured reports whether the shared admin credential is set.
func (c *Config) AdminConfigured() bool {
	return c.AdminUsername != "" && (c.AdminPassword != "" || c.AdminPasswordHash != "")
}

// IsProduction reports whether the server runs in a production-like
// environment. Controls the Secure flag on the session cookie.
func (c *Config) IsProduction() bool {
	return c.Env == "production"
}

// PublicURL builds a directly-fetchable URL for a stored key, or "" when
// no public host is configured (callers then fall back to the proxy).
func (c *Config) PublicURL(key string) string {
	if c.PublicHost == "" {
		return ""
	}
	// Escape each path segment but keep the separators.
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return c.PublicHost + "/" + strings.Join(parts, "/")
}
