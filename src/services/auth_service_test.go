package services_test

import (
	"testing"
	"time"

	"kitemate/src/models"
	"kitemate/src/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAuthService(t *testing.T) {
	service := services.NewAuthServiceWithSecret("unit-test-secret", time.Hour)
	user := &models.User{ID: "user-1", Plan: models.PlanPro}

	t.Run("issue and verify round trip", func(t *testing.T) {
		token, expiresAt, err := service.IssueToken(user)
		require.NoError(t, err)
		assert.True(t, expiresAt.After(time.Now()))

		claims, err := service.VerifyToken(token)
		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.Subject)
		assert.Equal(t, models.PlanPro, claims.Plan)
	})

	t.Run("rejects garbage token", func(t *testing.T) {
		_, err := service.VerifyToken("not.a.jwt")
		assert.Error(t, err)
	})

	t.Run("rejects token signed with another secret", func(t *testing.T) {
		other := services.NewAuthServiceWithSecret("other-secret", time.Hour)
		token, _, err := other.IssueToken(user)
		require.NoError(t, err)

		_, err = service.VerifyToken(token)
		assert.Error(t, err)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		expired := services.NewAuthServiceWithSecret("unit-test-secret", -time.Minute)
		token, _, err := expired.IssueToken(user)
		require.NoError(t, err)

		_, err = service.VerifyToken(token)
		assert.Error(t, err)
	})
}
