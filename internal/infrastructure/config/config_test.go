package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "shopledger", cfg.App.Name)
	assert.Equal(t, "development", cfg.App.Env)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 15*time.Minute, cfg.JWT.AccessExpiration)
	assert.Equal(t, 7*24*time.Hour, cfg.JWT.RefreshExpiration)
	assert.Equal(t, "lax", cfg.Cookie.SameSite)
	assert.Equal(t, "/", cfg.Cookie.Path)
}

func TestValidate_ProductionRequiresStrongSecrets(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.App.Env = "production"
	cfg.JWT.AccessSecret = "short"

	err := cfg.validate()
	assert.Error(t, err)
}

func TestValidate_ProductionRequiresDistinctRefreshSecret(t *testing.T) {
	cfg := &Config{}
	cfg.JWT.AccessSecret = "0123456789abcdef0123456789abcdef"
	applyDefaults(cfg)
	cfg.App.Env = "production"
	cfg.Cookie.Secure = true
	cfg.Database.Password = "secret"
	cfg.Database.SSLMode = "require"

	err := cfg.validate()
	assert.Error(t, err, "refresh secret defaulted to access secret must be rejected")

	cfg.JWT.RefreshSecret = "fedcba9876543210fedcba9876543210"
	err = cfg.validate()
	assert.NoError(t, err)
}

func TestValidate_RejectsUnknownDriver(t *testing.T) {
	cfg := &Config{}
	applyDefaults(cfg)
	cfg.Database.Driver = "oracle"

	err := cfg.validate()
	assert.Error(t, err)
}

func TestDSN_EscapesCredentials(t *testing.T) {
	d := DatabaseConfig{
		Host:     "db.internal",
		Port:     5432,
		User:     "app",
		Password: "p@ss:word",
		DBName:   "shopledger",
		SSLMode:  "require",
	}
	dsn := d.DSN()
	assert.Contains(t, dsn, "postgres://")
	assert.Contains(t, dsn, "db.internal:5432")
	assert.Contains(t, dsn, "sslmode=require")
	assert.NotContains(t, dsn, "p@ss:word", "password must be URL-escaped")
}
