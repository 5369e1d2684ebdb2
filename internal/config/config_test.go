package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFromViperDefaults(t *testing.T) {
	cfg := FromViper(viper.New())

	assert.Equal(t, "8080", cfg.ServerPort)
	assert.Equal(t, DefaultRepoURL, cfg.RepoURL)
	assert.Equal(t, 30*time.Second, cfg.FetchTimeout)
	assert.Equal(t, 5.0, cfg.FetchRate)
	assert.False(t, cfg.PruneStaleControls)
	assert.Equal(t, "development", cfg.Environment)
}

func TestFromViperOverrides(t *testing.T) {
	v := viper.New()
	v.Set("REPO_URL", " https://example.test/index.json ")
	v.Set("CRITERIA_API_URL", "https://muraji.test/criteria")
	v.Set("FETCH_TIMEOUT", "5s")
	v.Set("PRUNE_STALE_CONTROLS", "true")
	v.Set("APP_ENV", "Production")

	cfg := FromViper(v)

	assert.Equal(t, "https://example.test/index.json", cfg.RepoURL)
	assert.Equal(t, 5*time.Second, cfg.FetchTimeout)
	assert.True(t, cfg.PruneStaleControls)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, SyncConfig{
		RepoURL:        "https://example.test/index.json",
		CriteriaAPIURL: "https://muraji.test/criteria",
	}, cfg.Sync())
}

func TestValidate(t *testing.T) {
	cfg := FromViper(viper.New())
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DSN")
	assert.Contains(t, err.Error(), "SESSION_SECRET")

	cfg.DBDSN = "host=localhost"
	cfg.SessionSecret = "secret"
	assert.NoError(t, cfg.Validate())
}
