package bootstrap

import (
	"testing"
	"time"

	"github.com/dalemusser/waffle/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() AppConfig {
	return AppConfig{
		MongoURI:         "mongodb://localhost:27017",
		MongoDatabase:    "workpulse",
		MongoMaxPoolSize: 100,
		MongoMinPoolSize: 10,
		StatsCacheTTL:    24 * time.Hour,
		Timezone:         "UTC",
		MetricsRefresh:   time.Minute,
		AuditLogAuth:     "all",
		AuditLogAdmin:    "db",
	}
}

func TestValidateConfig(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*AppConfig)
		wantErr bool
	}{
		{"valid", func(*AppConfig) {}, false},
		{"named zone", func(c *AppConfig) { c.Timezone = "America/Chicago" }, false},
		{"blank zone means UTC", func(c *AppConfig) { c.Timezone = "" }, false},
		{"bad zone", func(c *AppConfig) { c.Timezone = "Mars/Olympus" }, true},
		{"pool inverted", func(c *AppConfig) { c.MongoMinPoolSize = 200 }, true},
		{"zero ttl", func(c *AppConfig) { c.StatsCacheTTL = 0 }, true},
		{"zero refresh", func(c *AppConfig) { c.MetricsRefresh = 0 }, true},
		{"bad audit mode", func(c *AppConfig) { c.AuditLogAuth = "verbose" }, true},
		{"superadmin email", func(c *AppConfig) { c.SuperAdminEmail = "root@example.com" }, false},
		{"bad superadmin email", func(c *AppConfig) { c.SuperAdminEmail = "Root <root@example.com>" }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			err := ValidateConfig(&config.CoreConfig{}, cfg, testLogger())
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestLoadLocation(t *testing.T) {
	loc, err := loadLocation("")
	require.NoError(t, err)
	assert.Equal(t, time.UTC, loc)

	loc, err = loadLocation("America/New_York")
	require.NoError(t, err)
	assert.Equal(t, "America/New_York", loc.String())
}
