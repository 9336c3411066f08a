package handlers_test

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anikraj/bumble-clone/backend/internal/models"
)

func TestSignupRejectsUnknownEmailDomain(t *testing.T) {
	te := setupEnv(t)

	code, body := te.do(t, http.MethodPost, "/auth/signup", "", map[string]any{
		"email":    "someone@example.com",
		"password": "password123",
		"name":     "Someone",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body["error"], "valid email domain")
}

func TestSignupIssuesWorkingToken(t *testing.T) {
	te := setupEnv(t)

	code, body := te.do(t, http.MethodPost, "/auth/signup", "", map[string]any{
		"email":    "alice@gmail.com",
		"password": "password123",
		"name":     "Alice",
		"age":      25,
	})
	require.Equal(t, http.StatusCreated, code)

	token, ok := body["token"].(string)
	require.True(t, ok)
	userID, err := te.tokens.Verify(token)
	require.NoError(t, err)

	// token belongs to the created profile, which starts online
	profile, err := te.users.GetUserByID(userID)
	require.NoError(t, err)
	assert.Equal(t, "alice@gmail.com", profile.Email)
	assert.True(t, profile.IsOnline)

	// second signup with the same email is rejected
	code, body = te.do(t, http.MethodPost, "/auth/signup", "", map[string]any{
		"email":    "alice@gmail.com",
		"password": "different456",
		"name":     "Imposter",
	})
	assert.Equal(t, http.StatusBadRequest, code)
	assert.Contains(t, body["error"], "already registered")
}

func TestSignupValidatesPayload(t *testing.T) {
	te := setupEnv(t)

	// short password
	code, _ := te.do(t, http.MethodPost, "/auth/signup", "", map[string]any{
		"email":    "bob@gmail.com",
		"password": "short",
		"name":     "Bob",
	})
	assert.Equal(t, http.StatusBadRequest, code)

	// underage
	code, _ = te.do(t, http.MethodPost, "/auth/signup", "", map[string]any{
		"email":    "bob@gmail.com",
		"password": "password123",
		"name":     "Bob",
		"age":      15,
	})
	assert.Equal(t, http.StatusBadRequest, code)
}

func TestLoginAndLogout(t *testing.T) {
	te := setupEnv(t)
	user, _ := te.seedUser(t, "carol")

	// wrong password and unknown email look identical
	code, body := te.do(t, http.MethodPost, "/auth/login", "", map[string]any{
		"email":    user.Email,
		"password": "wrongpassword",
	})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid email or password", body["error"])

	code, body = te.do(t, http.MethodPost, "/auth/login", "", map[string]any{
		"email":    "nobody@gmail.com",
		"password": "password123",
	})
	assert.Equal(t, http.StatusUnauthorized, code)
	assert.Equal(t, "Invalid email or password", body["error"])

	code, body = te.do(t, http.MethodPost, "/auth/login", "", map[string]any{
		"email":    user.Email,
		"password": "password123",
	})
	require.Equal(t, http.StatusOK, code)
	token, ok := body["token"].(string)
	require.True(t, ok)

	var fresh models.User
	require.NoError(t, te.db.First(&fresh, "id = ?", user.ID).Error)
	assert.True(t, fresh.IsOnline)

	// logout requires the session and flips the presence flag
	code, _ = te.do(t, http.MethodPost, "/auth/logout", "", nil)
	assert.Equal(t, http.StatusUnauthorized, code)

	code, body = te.do(t, http.MethodPost, "/auth/logout", token, nil)
	assert.Equal(t, http.StatusOK, code)
	assert.Equal(t, "Logged out successfully", body["message"])

	require.NoError(t, te.db.First(&fresh, "id = ?", user.ID).Error)
	assert.False(t, fresh.IsOnline)
}
