package infra

import (
	"fmt"
	"os"
	"strings"
)

// Config represents application configuration. Credentials and endpoint
// overrides come from environment variables; the remaining fields are filled
// in from command-line flags by the caller.
type Config struct {
	AppEnv           string
	GitHubToken      string
	GitHubGraphQLURL string
	LiberapayBaseURL string

	// Flag-derived fields, set by cmd after LoadConfig.
	GitHubLogin       string
	LiberapayUsername string
	ReadmePath        string
}

// LoadConfig loads configuration from environment variables and applies
// defaults where needed. GITHUB_TOKEN is the only required variable.
func LoadConfig() (*Config, error) {
	cfg := &Config{
		AppEnv:           getEnv("APP_ENV", "development"),
		GitHubToken:      strings.TrimSpace(os.Getenv("GITHUB_TOKEN")),
		GitHubGraphQLURL: getEnv("GITHUB_GRAPHQL_URL", "https://api.github.com/graphql"),
		LiberapayBaseURL: getEnv("LIBERAPAY_BASE_URL", "https://liberapay.com"),
	}

	if cfg.GitHubToken == "" {
		return nil, fmt.Errorf("GITHUB_TOKEN is required to fetch GitHub Sponsors data")
	}

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
