package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vilaca/dora-metrics/internal/api"
)

var envKeys = []string{
	"GITLAB_URL",
	"GITLAB_TOKEN",
	"GITLAB_AUTH_MODE",
	"GITLAB_GROUP_ID",
	"GITLAB_PROJECT_IDS",
	"GITLAB_TIMEOUT_SECONDS",
	"DORA_OUTPUT_DIR",
}

// unsetEnv removes the config variables for the duration of the test,
// including any a .env file sets while it runs.
func unsetEnv(t *testing.T) {
	t.Helper()
	for _, key := range envKeys {
		original, existed := os.LookupEnv(key)
		os.Unsetenv(key)
		t.Cleanup(func() {
			if existed {
				os.Setenv(key, original)
			} else {
				os.Unsetenv(key)
			}
		})
	}
}

// TestLoad_Defaults tests loading config with no sources.
// Follows AAA (Arrange, Act, Assert) pattern.
func TestLoad_Defaults(t *testing.T) {
	// Arrange
	unsetEnv(t)
	chdir(t, t.TempDir())

	// Act
	cfg, err := Load("")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "https://gitlab.com", cfg.GitLabURL)
	assert.Equal(t, string(api.AuthPrivateToken), cfg.AuthMode)
	assert.Equal(t, 30*time.Second, cfg.Timeout())
	assert.Equal(t, 30, cfg.Days)
	assert.Equal(t, ".", cfg.OutputDir)
	assert.False(t, cfg.HasGitLabConfig())
}

// TestLoad_Environment tests loading config from environment variables.
func TestLoad_Environment(t *testing.T) {
	// Arrange
	unsetEnv(t)
	chdir(t, t.TempDir())
	t.Setenv("GITLAB_URL", "https://gitlab.example.com")
	t.Setenv("GITLAB_TOKEN", "glpat-123")
	t.Setenv("GITLAB_AUTH_MODE", "bearer")
	t.Setenv("GITLAB_GROUP_ID", " 42 ")
	t.Setenv("GITLAB_PROJECT_IDS", "1, 2,,3")
	t.Setenv("GITLAB_TIMEOUT_SECONDS", "5")

	// Act
	cfg, err := Load("")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "https://gitlab.example.com", cfg.GitLabURL)
	assert.Equal(t, 42, cfg.GroupID)
	assert.Equal(t, []int{1, 2, 3}, cfg.ProjectIDs)
	assert.Equal(t, 5*time.Second, cfg.Timeout())
	assert.Equal(t, api.ClientConfig{
		BaseURL:  "https://gitlab.example.com",
		Token:    "glpat-123",
		AuthMode: api.AuthBearer,
	}, cfg.ClientConfig())
}

// TestLoad_InvalidTimeout tests that an invalid timeout falls back to the default.
func TestLoad_InvalidTimeout(t *testing.T) {
	// Arrange
	unsetEnv(t)
	chdir(t, t.TempDir())
	t.Setenv("GITLAB_TIMEOUT_SECONDS", "soon")

	// Act
	cfg, err := Load("")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 30*time.Second, cfg.Timeout())
}

// TestLoad_InvalidGroupID tests that a non-numeric group ID is rejected.
func TestLoad_InvalidGroupID(t *testing.T) {
	// Arrange
	unsetEnv(t)
	chdir(t, t.TempDir())
	t.Setenv("GITLAB_GROUP_ID", "acme")

	// Act
	_, err := Load("")

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "GITLAB_GROUP_ID")
}

// TestLoad_YAMLFile tests that the file is applied and the environment overrides it.
func TestLoad_YAMLFile(t *testing.T) {
	// Arrange
	unsetEnv(t)
	dir := t.TempDir()
	chdir(t, dir)
	path := filepath.Join(dir, "dora.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
gitlab_url: https://gitlab.internal
token: from-file
group_id: 7
days: 14
output_dir: reports
`), 0644))
	t.Setenv("GITLAB_TOKEN", "from-env")

	// Act
	cfg, err := Load(path)

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "https://gitlab.internal", cfg.GitLabURL)
	assert.Equal(t, "from-env", cfg.GitLabToken)
	assert.Equal(t, 7, cfg.GroupID)
	assert.Equal(t, 14, cfg.Days)
	assert.Equal(t, "reports", cfg.OutputDir)
}

// TestLoad_MissingFile tests that a missing config file is an error.
func TestLoad_MissingFile(t *testing.T) {
	unsetEnv(t)
	chdir(t, t.TempDir())

	_, err := Load("does-not-exist.yaml")

	assert.Error(t, err)
}

// TestLoad_DotEnv tests that .env is read without overriding the environment.
func TestLoad_DotEnv(t *testing.T) {
	// Arrange
	unsetEnv(t)
	dir := t.TempDir()
	chdir(t, dir)
	require.NoError(t, os.WriteFile(filepath.Join(dir, DefaultEnvFile), []byte("GITLAB_TOKEN=from-dotenv\nGITLAB_GROUP_ID=9\n"), 0644))
	os.Setenv("GITLAB_GROUP_ID", "3")

	// Act
	cfg, err := Load("")

	// Assert
	require.NoError(t, err)
	assert.Equal(t, "from-dotenv", cfg.GitLabToken)
	assert.Equal(t, 3, cfg.GroupID)
}

// TestValidate tests configuration validation.
func TestValidate(t *testing.T) {
	valid := func() *Config {
		cfg := Default()
		cfg.GitLabToken = "t"
		cfg.GroupID = 1
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"valid group", func(c *Config) {}, ""},
		{"valid projects", func(c *Config) { c.GroupID = 0; c.ProjectIDs = []int{5} }, ""},
		{"missing token", func(c *Config) { c.GitLabToken = "" }, "token is required"},
		{"missing scope", func(c *Config) { c.GroupID = 0 }, "group ID or at least one project ID"},
		{"bad auth mode", func(c *Config) { c.AuthMode = "basic" }, "unsupported auth mode"},
		{"bad days", func(c *Config) { c.Days = 0 }, "days must be positive"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(cfg)

			err := cfg.Validate()

			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

// TestParseIDList tests comma-separated ID parsing.
func TestParseIDList(t *testing.T) {
	ids, err := ParseIDList(" 1,2 , ,30")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 30}, ids)

	_, err = ParseIDList("1,two")
	assert.Error(t, err)
}
