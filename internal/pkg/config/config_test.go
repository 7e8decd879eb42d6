package config

import (
	"context"
	"testing"
	"time"

	"github.com/sethvargo/go-envconfig"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET": "s3cret",
	}))
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.True(t, cfg.IsDevelopment())
	assert.Equal(t, 720*time.Hour, cfg.Session.TTL)
	assert.Equal(t, "access-core", cfg.Session.Issuer)
	assert.Equal(t, 10, cfg.Auth.BcryptCost)
	assert.Equal(t, 5, cfg.Auth.LoginMaxAttempts)
	assert.Equal(t, 15*time.Minute, cfg.Auth.LoginWindow)
	assert.False(t, cfg.Auth.RequireRecruiterApproval)
	assert.Equal(t, 4, cfg.Audit.Workers)
	assert.Equal(t, "access_core", cfg.Mongo.Database)
}

func TestLoad_RequiresSecret(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{}))
	assert.Error(t, err)
}

func TestLoad_Overrides(t *testing.T) {
	cfg, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":                 "s3cret",
		"ENV":                        "production",
		"SESSION_TTL":                "1h",
		"REQUIRE_RECRUITER_APPROVAL": "true",
		"AUDIT_WORKERS":              "8",
	}))
	require.NoError(t, err)

	assert.False(t, cfg.IsDevelopment())
	assert.Equal(t, time.Hour, cfg.Session.TTL)
	assert.True(t, cfg.Auth.RequireRecruiterApproval)
	assert.Equal(t, 8, cfg.Audit.Workers)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	_, err := load(context.Background(), envconfig.MapLookuper(map[string]string{
		"JWT_SECRET":  "s3cret",
		"BCRYPT_COST": "2",
	}))
	assert.ErrorContains(t, err, "BCRYPT_COST")
}
