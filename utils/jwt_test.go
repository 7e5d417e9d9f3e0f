package utils

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"appointly/config"
	"appointly/models"
)

func withConfig(t *testing.T, cfg config.Config) {
	t.Helper()
	prev := config.AppConfig
	config.AppConfig = cfg
	t.Cleanup(func() { config.AppConfig = prev })
}

func TestTokenRoundTripWithDevSecret(t *testing.T) {
	withConfig(t, config.Config{Env: "development"})
	t.Setenv("JWT_SECRET", "")

	token, err := GenerateToken("u1", models.RoleCustomer, time.Minute)
	require.NoError(t, err)

	actor, err := ExtractActor(token)
	require.NoError(t, err)
	assert.Equal(t, models.Actor{ID: "u1", Role: models.RoleCustomer}, actor)
}

func TestProductionRejectsDevSecret(t *testing.T) {
	withConfig(t, config.Config{Env: "development"})
	t.Setenv("JWT_SECRET", "")
	forged, err := GenerateToken("admin1", models.RoleAdmin, time.Minute)
	require.NoError(t, err)

	config.AppConfig.Env = "production"

	_, err = GenerateToken("u1", models.RoleCustomer, time.Minute)
	assert.ErrorIs(t, err, config.ErrMissingJWTSecret)

	_, err = ExtractActor(forged)
	require.Error(t, err)
	var verr *jwt.ValidationError
	require.ErrorAs(t, err, &verr)
	assert.ErrorIs(t, verr.Inner, config.ErrMissingJWTSecret)
}

func TestProductionUsesConfiguredSecret(t *testing.T) {
	withConfig(t, config.Config{Env: "production", JWTSecret: "s3cret"})

	token, err := GenerateToken("p1", models.RoleProvider, time.Minute)
	require.NoError(t, err)
	actor, err := ExtractActor(token)
	require.NoError(t, err)
	assert.Equal(t, "p1", actor.ID)

	config.AppConfig.JWTSecret = "rotated"
	_, err = ExtractActor(token)
	assert.Error(t, err)
}
