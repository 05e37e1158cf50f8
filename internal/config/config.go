package config

import (
	"fmt"
	"os"
	"strings"
	"time"
)

const (
	StoreMongo  = "mongo"
	StoreMemory = "memory"
)

type Config struct {
	Port            string
	Environment     string
	LogLevel        string
	Store           string
	MongoDBURI      string
	MongoDBPassword string
	MongoDBDatabase string
	JWTSecret       string
	TokenTTL        time.Duration
	AllowedOrigins  []string
	Github          GithubConfig
}

// GithubConfig holds the credentials for the repository lookup. Lookups
// degrade to "not found" when ClientID or Secret is empty.
type GithubConfig struct {
	APIURL   string
	ClientID string
	Secret   string
	Timeout  time.Duration
}

func LoadConfig() (*Config, error) {
	cfg := &Config{
		Port:            getEnvWithDefault("PORT", "8080"),
		Environment:     getEnvWithDefault("ENVIRONMENT", "development"),
		LogLevel:        getEnvWithDefault("LOG_LEVEL", "info"),
		Store:           getEnvWithDefault("STORE", StoreMongo),
		MongoDBURI:      os.Getenv("MONGODB_URI"),
		MongoDBPassword: os.Getenv("MONGODB_PASSWORD"),
		MongoDBDatabase: getEnvWithDefault("MONGODB_DATABASE", "devnet"),
		JWTSecret:       os.Getenv("JWT_SECRET"),
		AllowedOrigins:  splitList(getEnvWithDefault("ALLOWED_ORIGINS", "http://localhost:3000")),
		Github: GithubConfig{
			APIURL:   strings.TrimRight(getEnvWithDefault("GITHUB_API_URL", "https://api.github.com"), "/"),
			ClientID: os.Getenv("GITHUB_CLIENT_ID"),
			Secret:   os.Getenv("GITHUB_SECRET"),
		},
	}

	var err error
	if cfg.TokenTTL, err = getDurationWithDefault("TOKEN_TTL", 1000*time.Hour); err != nil {
		return nil, err
	}
	if cfg.Github.Timeout, err = getDurationWithDefault("GITHUB_TIMEOUT", 5*time.Second); err != nil {
		return nil, err
	}

	// Validate required fields
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}
	if cfg.TokenTTL <= 0 {
		return nil, fmt.Errorf("TOKEN_TTL must be positive")
	}
	switch cfg.Store {
	case StoreMongo:
		if cfg.MongoDBURI == "" {
			return nil, fmt.Errorf("MONGODB_URI is required")
		}
	case StoreMemory:
	default:
		return nil, fmt.Errorf("unsupported STORE %q (expected %s or %s)", cfg.Store, StoreMongo, StoreMemory)
	}

	return cfg, nil
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationWithDefault(key string, defaultValue time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %v", key, err)
	}
	return d, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// MongoURI returns MONGODB_URI with the <password> placeholder filled in.
func (c *Config) MongoURI() string {
	return strings.Replace(c.MongoDBURI, "<password>", c.MongoDBPassword, 1)
}

func (c *Config) GithubEnabled() bool {
	return c.Github.ClientID != "" && c.Github.Secret != ""
}

func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}
