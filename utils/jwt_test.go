package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskhive/config"
	"taskhive/models"
)

func TestJWTRoundTrip(t *testing.T) {
	prev := config.AppConfig.JWTSecret
	config.AppConfig.JWTSecret = "test-secret"
	defer func() { config.AppConfig.JWTSecret = prev }()

	user := &models.User{ID: 42, Email: "lead@example.com", Role: models.RoleLeader}

	token, err := GenerateJWTToken(user)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := ParseJWTToken(token)
	require.NoError(t, err)
	assert.Equal(t, uint(42), claims.UserID)
}

func TestParseJWTTokenRejectsGarbage(t *testing.T) {
	prev := config.AppConfig.JWTSecret
	config.AppConfig.JWTSecret = "test-secret"
	defer func() { config.AppConfig.JWTSecret = prev }()

	_, err := ParseJWTToken("not.a.token")
	assert.Error(t, err)
}

func TestParseJWTTokenRejectsWrongSecret(t *testing.T) {
	prev := config.AppConfig.JWTSecret
	defer func() { config.AppConfig.JWTSecret = prev }()

	config.AppConfig.JWTSecret = "first-secret"
	token, err := GenerateJWTToken(&models.User{ID: 7})
	require.NoError(t, err)

	config.AppConfig.JWTSecret = "second-secret"
	_, err = ParseJWTToken(token)
	assert.Error(t, err)
}
