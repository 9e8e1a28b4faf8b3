package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	// Create a temporary config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
server:
  port: 9090
  host: "0.0.0.0"

database:
  url: "postgres://localhost/outreach_test"
  enabled: true

ses:
  region: "eu-west-1"
  from_name: "Outreach Team"
  from_email: "outreach@example.org"
  timeout_seconds: 45
  enabled: true

bedrock:
  model_id: "anthropic.claude-3-haiku-20240307-v1:0"
  enabled: true

registry:
  type: "file"
  path: "./orgs.yaml"

outreach:
  top_candidates: 8
  follow_up_delay_hours: 48
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	// Test server config
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "0.0.0.0", cfg.Server.Host)

	// Test database config
	assert.Equal(t, "postgres://localhost/outreach_test", cfg.Database.URL)
	assert.True(t, cfg.Database.Enabled)

	// Test SES config
	assert.Equal(t, "eu-west-1", cfg.SES.Region)
	assert.Equal(t, "outreach@example.org", cfg.SES.FromEmail)
	assert.Equal(t, 45, cfg.SES.TimeoutSeconds)

	// Test Bedrock config
	assert.Equal(t, "anthropic.claude-3-haiku-20240307-v1:0", cfg.Bedrock.ModelID)

	// Test registry config
	assert.Equal(t, "file", cfg.Registry.Type)
	assert.Equal(t, "./orgs.yaml", cfg.Registry.Path)

	// Test outreach config
	assert.Equal(t, 8, cfg.Outreach.TopCandidates)
	assert.Equal(t, 48*time.Hour, cfg.Outreach.FollowUpDelay())
}

func TestLoadDefaults(t *testing.T) {
	// Create a minimal config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
ses:
  access_key: "test-key"
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	cfg, err := Load(configPath)
	require.NoError(t, err)

	// Verify defaults are applied
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "localhost", cfg.Server.Host)
	assert.Equal(t, 30, cfg.SES.TimeoutSeconds)
	assert.Equal(t, "us-east-1", cfg.SES.Region)
	assert.Equal(t, "seed", cfg.Registry.Type)
	assert.Equal(t, 12, cfg.Outreach.TopCandidates)
	assert.Equal(t, 72, cfg.Outreach.FollowUpDelayHours)
	assert.Equal(t, 168, cfg.Outreach.ApprovalExpiryHours)
	assert.Equal(t, 25, cfg.Database.MaxOpenConns)
}

func TestLoadFromEnv(t *testing.T) {
	// Create a minimal config file
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
database:
  url: "postgres://file-host/outreach"
crm:
  api_key: "file-key"
`
	err := os.WriteFile(configPath, []byte(configContent), 0644)
	require.NoError(t, err)

	// Set environment variables
	os.Setenv("DATABASE_URL", "postgres://env-host/outreach")
	os.Setenv("CRM_API_KEY", "env-key")
	defer func() {
		os.Unsetenv("DATABASE_URL")
		os.Unsetenv("CRM_API_KEY")
	}()

	cfg, err := LoadFromEnv(configPath)
	require.NoError(t, err)

	// Environment variables should override file values
	assert.Equal(t, "postgres://env-host/outreach", cfg.Database.URL)
	assert.True(t, cfg.Database.Enabled)
	assert.Equal(t, "env-key", cfg.CRM.APIKey)
}

func TestLoadFileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yaml")
	assert.Error(t, err)
}

func TestTimeout(t *testing.T) {
	cfg := SESConfig{TimeoutSeconds: 45}
	assert.Equal(t, 45*time.Second, cfg.Timeout())
}
