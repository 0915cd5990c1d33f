package config

import (
	"fmt"
	"os"
	"strings"
)

// Config holds all environment-provided settings. Everything is read once
// at startup; there is no reload.
type Config struct {
	Port    string
	AppEnv  string
	Host    string // public hostname the app is reachable under, no scheme
	Shopify ShopifyConfig
	Storage StorageConfig
	Session SessionConfig
	UIURL   string // upstream the UI delegate proxies to
}

// ShopifyConfig carries both credential pairs the app uses: the public app
// key/secret for OAuth and webhooks, and the private admin credential pair
// for the back-channel metadata client against the configured shop.
type ShopifyConfig struct {
	Shop          string // the shop the admin client talks to, e.g. example.myshopify.com
	APIKey        string
	APISecret     string
	Scopes        []string
	AdminKey      string // private app key
	AdminPassword string // private app password, used as the access token
	APIVersion    string
}

// StorageConfig carries the object store credentials and bucket.
type StorageConfig struct {
	AccessKeyID     string
	SecretAccessKey string
	Bucket          string
	Region          string
}

// SessionConfig selects the session store backend.
type SessionConfig struct {
	Store     string // "memory" (default) or "redis"
	RedisAddr string
}

const defaultAPIVersion = "2024-10"

// Load reads configuration from the environment. The Shopify app
// credentials are the only hard requirement; everything else has a default
// or degrades (no storage credentials means uploads fail at the store, not
// at startup).
func Load() (*Config, error) {
	cfg := &Config{
		Port:   getEnv("PORT", "8081"),
		AppEnv: getEnv("APP_ENV", "development"),
		Host:   strings.TrimPrefix(os.Getenv("HOST"), "https://"),
		UIURL:  getEnv("UI_URL", "http://localhost:3000"),
		Shopify: ShopifyConfig{
			Shop:          os.Getenv("SHOP"),
			APIKey:        os.Getenv("SHOPIFY_API_KEY"),
			APISecret:     os.Getenv("SHOPIFY_API_SECRET"),
			Scopes:        splitList(getEnv("SCOPES", "read_products,write_products")),
			AdminKey:      os.Getenv("ETM_SHOPIFY_KEY"),
			AdminPassword: os.Getenv("ETM_SHOPIFY_PASSWORD"),
			APIVersion:    getEnv("SHOPIFY_API_VERSION", defaultAPIVersion),
		},
		Storage: StorageConfig{
			AccessKeyID:     os.Getenv("CUSTOM_AWS_ACCESS_KEY_ID"),
			SecretAccessKey: os.Getenv("CUSTOM_AWS_SECRET_ACCESS_KEY"),
			Bucket:          os.Getenv("CUSTOM_AWS_BUCKET_NAME"),
			Region:          getEnv("AWS_REGION", "eu-central-1"),
		},
		Session: SessionConfig{
			Store:     getEnv("SESSION_STORE", "memory"),
			RedisAddr: getEnv("REDIS_ADDR", "localhost:6379"),
		},
	}

	if cfg.Shopify.APIKey == "" || cfg.Shopify.APISecret == "" {
		return nil, fmt.Errorf("SHOPIFY_API_KEY and SHOPIFY_API_SECRET are required")
	}

	return cfg, nil
}

// IsProduction reports whether the app runs in production mode.
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func splitList(v string) []string {
	parts := strings.Split(v, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
