package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/vilaca/dora-metrics/internal/api"
)

// DefaultEnvFile is loaded from the working directory when present.
const DefaultEnvFile = ".env"

// Config holds application configuration.
// Follows Single Responsibility - only holds configuration data.
type Config struct {
	// GitLab configuration
	GitLabURL      string `yaml:"gitlab_url"`
	GitLabToken    string `yaml:"token"`
	AuthMode       string `yaml:"auth_mode"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`

	// Report scope: a group to walk, or an explicit project list
	GroupID    int   `yaml:"group_id"`
	ProjectIDs []int `yaml:"project_ids"`

	// Days is the window length used when no explicit start is given
	Days int `yaml:"days"`

	OutputDir string `yaml:"output_dir"`
}

// Default returns the configuration used before any source is applied.
func Default() *Config {
	return &Config{
		GitLabURL:      "https://gitlab.com",
		AuthMode:       string(api.AuthPrivateToken),
		TimeoutSeconds: int(api.DefaultTimeout / time.Second),
		Days:           30,
		OutputDir:      ".",
	}
}

// Load builds the configuration from defaults, the optional YAML file at
// configPath, a .env file in the working directory and the environment, in
// that order of precedence. Variables already set in the environment win over .env.
func Load(configPath string) (*Config, error) {
	cfg := Default()

	if configPath != "" {
		if err := cfg.loadFile(configPath); err != nil {
			return nil, err
		}
	}

	if _, err := os.Stat(DefaultEnvFile); err == nil {
		if err := godotenv.Load(DefaultEnvFile); err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", DefaultEnvFile, err)
		}
	}

	if err := cfg.loadEnv(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadFile(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config file: %w", err)
	}

	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	return nil
}

func (c *Config) loadEnv() error {
	c.GitLabURL = getEnvOrDefault("GITLAB_URL", c.GitLabURL)
	c.GitLabToken = getEnvOrDefault("GITLAB_TOKEN", c.GitLabToken)
	c.AuthMode = getEnvOrDefault("GITLAB_AUTH_MODE", c.AuthMode)
	c.OutputDir = getEnvOrDefault("DORA_OUTPUT_DIR", c.OutputDir)

	// Invalid timeouts fall back to the current value
	if s := os.Getenv("GITLAB_TIMEOUT_SECONDS"); s != "" {
		if secs, err := strconv.Atoi(s); err == nil {
			c.TimeoutSeconds = secs
		}
	}

	if s := os.Getenv("GITLAB_GROUP_ID"); s != "" {
		id, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return fmt.Errorf("invalid GITLAB_GROUP_ID %q: %w", s, err)
		}
		c.GroupID = id
	}

	if s := os.Getenv("GITLAB_PROJECT_IDS"); s != "" {
		ids, err := ParseIDList(s)
		if err != nil {
			return fmt.Errorf("invalid GITLAB_PROJECT_IDS: %w", err)
		}
		c.ProjectIDs = ids
	}

	return nil
}

// Validate reports every problem that would prevent a report run.
func (c *Config) Validate() error {
	var errs []error

	if !c.HasGitLabConfig() {
		errs = append(errs, errors.New("GitLab token is required (set GITLAB_TOKEN or --token)"))
	}
	if c.GroupID <= 0 && len(c.ProjectIDs) == 0 {
		errs = append(errs, errors.New("a group ID or at least one project ID is required"))
	}
	if !api.AuthMode(c.AuthMode).Valid() {
		errs = append(errs, fmt.Errorf("unsupported auth mode %q (use %q or %q)", c.AuthMode, api.AuthPrivateToken, api.AuthBearer))
	}
	if c.Days <= 0 {
		errs = append(errs, fmt.Errorf("days must be positive, got %d", c.Days))
	}

	return errors.Join(errs...)
}

// HasGitLabConfig returns true if GitLab is configured.
func (c *Config) HasGitLabConfig() bool {
	return c.GitLabToken != ""
}

// Timeout returns the per-request timeout.
func (c *Config) Timeout() time.Duration {
	return time.Duration(c.TimeoutSeconds) * time.Second
}

// ClientConfig returns the API client configuration.
func (c *Config) ClientConfig() api.ClientConfig {
	return api.ClientConfig{
		BaseURL:  c.GitLabURL,
		Token:    c.GitLabToken,
		AuthMode: api.AuthMode(c.AuthMode),
	}
}

// ParseIDList parses a comma-separated list of numeric IDs, ignoring blanks.
func ParseIDList(s string) ([]int, error) {
	parts := strings.Split(s, ",")
	result := make([]int, 0, len(parts))
	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		id, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("invalid ID %q: %w", part, err)
		}
		result = append(result, id)
	}
	return result, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
