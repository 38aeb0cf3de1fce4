//go:build integration_test || all_tests

package apitest

import (
	"context"
	"database/sql"
	"net/http"
	"strings"

	"github.com/2beens/trainlog/internal/users"
	"github.com/2beens/trainlog/internal/workout/engine"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestRegisterLoginLogout() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	u := s.registerAndLogin(ctx, 81.5)

	resp := s.doJSON(ctx, "GET", "/profile", u.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var profile users.ProfileResponse
	decodeBody(t, resp, &profile)
	assert.Equal(t, u.ID, profile.User.ID)
	assert.Equal(t, strings.ToLower(u.Email), profile.User.Email)
	assert.Equal(t, 0.5, profile.Multiplier)

	// same email, different case
	resp = s.doJSON(ctx, "POST", "/a/register", "", users.RegisterRequest{
		Username:        "dupe",
		Email:           strings.ToUpper(u.Email),
		Password:        "secret-pass",
		ConfirmPassword: "secret-pass",
		HeightCm:        180,
		WeightKg:        80,
	})
	assert.Equal(t, http.StatusConflict, resp.StatusCode)
	resp.Body.Close()

	resp = s.doJSON(ctx, "POST", "/a/login", "", users.LoginRequest{Email: u.Email, Password: "wrong-password"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()

	resp = s.doJSON(ctx, "GET", "/a/logout", u.Token, nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.doJSON(ctx, "GET", "/profile", u.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	resp.Body.Close()
}

func (s *IntegrationTestSuite) TestUpdateDifficulty() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	u := s.registerAndLogin(ctx, 70)

	resp := s.doJSON(ctx, "PUT", "/profile/difficulty", u.Token, users.DifficultyRequest{Tier: "advanced"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	var tier sql.NullString
	require.NoError(t, s.DB.QueryRowContext(ctx, `SELECT difficulty_tier FROM app_user WHERE id = $1`, u.ID).Scan(&tier))
	assert.Equal(t, string(engine.TierAdvanced), tier.String)

	custom := 0.9
	resp = s.doJSON(ctx, "PUT", "/profile/difficulty", u.Token, users.DifficultyRequest{
		Tier:             "beginner",
		CustomMultiplier: &custom,
	})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	resp.Body.Close()

	resp = s.doJSON(ctx, "GET", "/profile", u.Token, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	var profile users.ProfileResponse
	decodeBody(t, resp, &profile)
	assert.Equal(t, 0.9, profile.Multiplier)

	var stored float64
	require.NoError(t, s.DB.QueryRowContext(ctx, `SELECT custom_multiplier FROM app_user WHERE id = $1`, u.ID).Scan(&stored))
	assert.Equal(t, 0.9, stored)
}
