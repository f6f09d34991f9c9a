package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

const minimalEnv = `WEBFLOW_ACCESS_TOKEN=wf-token
WEBFLOW_COLLECTION_ID=coll-1
KLAVIYO_PRIVATE_API_KEY=pk_test
KLAVIYO_LIST_ID=list-1
CRON_SECRET=cron-secret
`

func TestLoadWithPath_Defaults(t *testing.T) {
	cfg, err := LoadWithPath(writeEnvFile(t, minimalEnv))
	require.NoError(t, err)

	assert.Equal(t, "join-gradient", cfg.App.Name)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "https://api.webflow.com/v2", cfg.Webflow.BaseURL)
	assert.Equal(t, "wf-token", cfg.Webflow.AccessToken)
	assert.Equal(t, "2025-04-15", cfg.Klaviyo.Revision)
	assert.False(t, cfg.Database.Enabled)
	assert.False(t, cfg.Redis.Enabled)
	assert.True(t, cfg.RateLimit.Enabled)

	// Sync policy defaults mirror the historical conversion behavior
	assert.Equal(t, 2*time.Hour, cfg.Sync.DefaultDuration)
	assert.Equal(t, 3, cfg.Sync.DSTStartMonth)
	assert.Equal(t, 11, cfg.Sync.DSTEndMonth)
	assert.Equal(t, 5, cfg.Sync.DSTOffsetHours)
	assert.Equal(t, 6, cfg.Sync.StdOffsetHours)
}

func TestLoadWithPath_Overrides(t *testing.T) {
	cfg, err := LoadWithPath(writeEnvFile(t, minimalEnv+`
SERVER_PORT=8080
OFFICERND_ORG_SLUG=acme
OFFICERND_OFFICE_ID=office-1
SYNC_DEFAULT_DURATION=90m
DATABASE_ENABLED=true
DATABASE_DBNAME=syncdb
`))
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "acme", cfg.OfficeRnd.OrgSlug)
	assert.Equal(t, "office-1", cfg.OfficeRnd.OfficeID)
	assert.Equal(t, 90*time.Minute, cfg.Sync.DefaultDuration)
	assert.True(t, cfg.Database.Enabled)
	assert.Equal(t, "syncdb", cfg.Database.DBName)
}

func TestLoadWithPath_MissingSecretsFail(t *testing.T) {
	tests := []struct {
		name string
		omit string
	}{
		{"webflow token", "WEBFLOW_ACCESS_TOKEN"},
		{"webflow collection", "WEBFLOW_COLLECTION_ID"},
		{"klaviyo key", "KLAVIYO_PRIVATE_API_KEY"},
		{"klaviyo list", "KLAVIYO_LIST_ID"},
		{"cron secret", "CRON_SECRET"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			content := ""
			for _, line := range []string{
				"WEBFLOW_ACCESS_TOKEN=wf-token",
				"WEBFLOW_COLLECTION_ID=coll-1",
				"KLAVIYO_PRIVATE_API_KEY=pk_test",
				"KLAVIYO_LIST_ID=list-1",
				"CRON_SECRET=cron-secret",
			} {
				if len(line) >= len(tt.omit) && line[:len(tt.omit)] == tt.omit {
					continue
				}
				content += line + "\n"
			}

			_, err := LoadWithPath(writeEnvFile(t, content))
			assert.Error(t, err)
		})
	}
}

func TestLoadWithPath_InvalidDSTWindow(t *testing.T) {
	_, err := LoadWithPath(writeEnvFile(t, minimalEnv+"SYNC_DST_START_MONTH=13\n"))
	assert.Error(t, err)
}

func TestValidate_ServerPort(t *testing.T) {
	cfg, err := LoadWithPath(writeEnvFile(t, minimalEnv))
	require.NoError(t, err)

	cfg.Server.Port = 0
	assert.Error(t, cfg.Validate())
}

func TestDSN(t *testing.T) {
	d := &DatabaseConfig{
		Host: "localhost", Port: 5432, User: "u", Password: "p", DBName: "db", SSLMode: "disable",
	}
	assert.Equal(t, "host=localhost port=5432 user=u password=p dbname=db sslmode=disable", d.DSN())
}

func TestEnvironmentHelpers(t *testing.T) {
	cfg := &Config{}
	cfg.App.Environment = "production"
	assert.True(t, cfg.IsProduction())
	assert.False(t, cfg.IsDevelopment())

	cfg.App.Environment = "development"
	assert.True(t, cfg.IsDevelopment())
}
